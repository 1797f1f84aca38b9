package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	testutil "github.com/povertyline/server/internal/database/testutil"
	"github.com/povertyline/server/internal/models"
)

func seedAccount(t *testing.T, db *gorm.DB, verified bool, createdAt time.Time) *models.User {
	t.Helper()

	username := "watch-" + uuid.NewString()[:8]
	code := "abc123"
	user := &models.User{
		Username:   username,
		Email:      username + "@example.com",
		Password:   "irrelevant-hash",
		IsVerified: verified,
	}
	if !verified {
		user.VerificationCode = &code
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Model(user).Update("created_at", createdAt).Error)
	return user
}

func TestWatchdogCountsStuckAccounts(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	now := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)

	// Two accounts past the threshold, one fresh, one verified long ago.
	seedAccount(t, db, false, now.Add(-48*time.Hour))
	seedAccount(t, db, false, now.Add(-25*time.Hour))
	seedAccount(t, db, false, now.Add(-time.Hour))
	seedAccount(t, db, true, now.Add(-72*time.Hour))

	w, err := NewWatchdog(db, WithNow(func() time.Time { return now }))
	require.NoError(t, err)

	pending, err := w.PendingVerifications(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), pending)

	require.NoError(t, w.RunOnce(context.Background()))
}

func TestWatchdogThresholdOption(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	now := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)

	seedAccount(t, db, false, now.Add(-2*time.Hour))

	w, err := NewWatchdog(db,
		WithNow(func() time.Time { return now }),
		WithPendingThreshold(time.Hour),
	)
	require.NoError(t, err)

	pending, err := w.PendingVerifications(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), pending)
}

func TestWatchdogStartStop(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	w, err := NewWatchdog(db, WithSchedule("@every 1h"))
	require.NoError(t, err)

	require.NoError(t, w.Start())

	done := w.Stop()
	select {
	case <-done.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop in time")
	}
}

func TestNewWatchdogRequiresDB(t *testing.T) {
	_, err := NewWatchdog(nil)
	require.Error(t, err)
}
