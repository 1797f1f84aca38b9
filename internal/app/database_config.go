package app

import (
	"strings"

	"github.com/povertyline/server/internal/database"
)

// DatabaseServiceConfig converts DatabaseConfig into connection parameters.
// Host based drivers take their credentials from the matching block; an
// enabled block wins over the driver field so a single toggle switches
// deployments between engines.
func (c DatabaseConfig) DatabaseServiceConfig() database.Config {
	cfg := database.Config{
		Driver: strings.ToLower(strings.TrimSpace(c.Driver)),
		Path:   strings.TrimSpace(c.Path),
		DSN:    strings.TrimSpace(c.DSN),
	}

	switch {
	case c.Postgres.Enabled, cfg.Driver == "postgres", cfg.Driver == "postgresql":
		cfg.Driver = "postgres"
		cfg.Host = strings.TrimSpace(c.Postgres.Host)
		cfg.Port = c.Postgres.Port
		cfg.Name = strings.TrimSpace(c.Postgres.Database)
		cfg.User = strings.TrimSpace(c.Postgres.Username)
		cfg.Password = strings.TrimSpace(c.Postgres.Password)
	case c.MySQL.Enabled, cfg.Driver == "mysql":
		cfg.Driver = "mysql"
		cfg.Host = strings.TrimSpace(c.MySQL.Host)
		cfg.Port = c.MySQL.Port
		cfg.Name = strings.TrimSpace(c.MySQL.Database)
		cfg.User = strings.TrimSpace(c.MySQL.Username)
		cfg.Password = strings.TrimSpace(c.MySQL.Password)
	case cfg.Driver == "":
		cfg.Driver = "sqlite"
	}

	return cfg
}
