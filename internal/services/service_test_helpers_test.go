package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/povertyline/server/internal/models"
	"github.com/povertyline/server/pkg/crypto"
	"github.com/povertyline/server/pkg/mail"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A uniquely named in-memory database isolates each test while the shared
	// cache keeps pooled connections on the same database.
	name := strings.NewReplacer("/", "-", " ", "-").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Region{},
		&models.SocialBackground{},
		&models.Record{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

func createVerifiedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hashed, err := crypto.HashPassword("password123")
	require.NoError(t, err)

	user := &models.User{
		Username:   username,
		Email:      username + "@example.com",
		Password:   hashed,
		IsVerified: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedReferencePair(t *testing.T, db *gorm.DB) (*models.Region, *models.SocialBackground) {
	t.Helper()

	region := &models.Region{Name: "Sub-Saharan Africa", Country: "Various", PovertyRate: 42.0}
	require.NoError(t, db.Create(region).Error)

	background := &models.SocialBackground{Name: "Urban Poor", Description: "Low-income individuals in urban areas"}
	require.NoError(t, db.Create(background).Error)

	return region, background
}

// fakeMailer records outbound messages and can be told to fail.
type fakeMailer struct {
	messages []mail.Message
	fail     bool
	disabled bool
}

func (f *fakeMailer) Send(ctx context.Context, msg mail.Message) error {
	if f.disabled {
		return mail.ErrSMTPDisabled
	}
	if f.fail {
		return errors.New("smtp: connection refused")
	}
	f.messages = append(f.messages, msg)
	return nil
}
