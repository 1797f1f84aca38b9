package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultSQLitePath is where the server keeps its database when no path is
// configured.
const DefaultSQLitePath = "data/povertyline.sqlite"

func openSQLite(cfg Config) (*gorm.DB, error) {
	if path := sqlitePath(cfg); path != "" {
		if err := ensureDir(path); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(buildSQLiteDSN(cfg)), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: false,
	})
	if err != nil {
		return nil, err
	}

	if err := enableForeignKeys(db); err != nil {
		return nil, err
	}

	return db, nil
}

// sqlitePath resolves the on-disk location, or "" for in-memory databases
// and raw DSN overrides.
func sqlitePath(cfg Config) string {
	if cfg.DSN != "" {
		return ""
	}

	path := strings.TrimSpace(cfg.Path)
	if strings.EqualFold(path, ":memory:") {
		return ""
	}
	if path == "" {
		return DefaultSQLitePath
	}
	return path
}

func buildSQLiteDSN(cfg Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}

	path := sqlitePath(cfg)
	if path == "" {
		return "file::memory:?cache=shared&_foreign_keys=1"
	}

	// WAL keeps readers from blocking the writer; the busy timeout absorbs
	// short lock contention instead of failing the request.
	return fmt.Sprintf("file:%s?_foreign_keys=1&_journal_mode=WAL&_busy_timeout=5000", filepath.ToSlash(path))
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func enableForeignKeys(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil && err != sql.ErrConnDone {
		return err
	}
	return nil
}
