package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/povertyline/server/internal/models"
	"github.com/povertyline/server/pkg/logger"
	"github.com/povertyline/server/pkg/metrics"
)

const (
	defaultSchedule         = "@hourly"
	defaultPendingThreshold = 24 * time.Hour
)

// Watchdog periodically counts accounts that registered but never verified
// their email within the alert threshold. Stuck accounts usually indicate a
// delivery problem, so the count is logged and exported as a gauge rather
// than acted on.
type Watchdog struct {
	db        *gorm.DB
	cron      *cron.Cron
	now       func() time.Time
	log       *zap.Logger
	schedule  string
	threshold time.Duration
}

// Option customises the Watchdog.
type Option func(*Watchdog)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(w *Watchdog) {
		if c != nil {
			w.cron = c
		}
	}
}

// WithNow overrides the clock used for threshold comparisons.
func WithNow(now func() time.Time) Option {
	return func(w *Watchdog) {
		if now != nil {
			w.now = now
		}
	}
}

// WithSchedule overrides the cron specification for the watchdog sweep.
func WithSchedule(spec string) Option {
	return func(w *Watchdog) {
		if spec != "" {
			w.schedule = spec
		}
	}
}

// WithPendingThreshold adjusts how old an unverified account must be before it counts as stuck.
func WithPendingThreshold(d time.Duration) Option {
	return func(w *Watchdog) {
		if d > 0 {
			w.threshold = d
		}
	}
}

// NewWatchdog constructs a Watchdog with sensible defaults.
func NewWatchdog(db *gorm.DB, opts ...Option) (*Watchdog, error) {
	if db == nil {
		return nil, errors.New("maintenance: db is required")
	}

	w := &Watchdog{
		db:        db,
		now:       time.Now,
		schedule:  defaultSchedule,
		threshold: defaultPendingThreshold,
		log:       logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.cron == nil {
		w.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return w, nil
}

// Start registers the sweep with the cron scheduler and launches it.
func (w *Watchdog) Start() error {
	if _, err := w.cron.AddFunc(w.schedule, func() {
		if err := w.RunOnce(context.Background()); err != nil {
			w.log.Warn("verification sweep failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	w.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (w *Watchdog) Stop() context.Context {
	if w.cron == nil {
		return context.Background()
	}
	return w.cron.Stop()
}

// RunOnce executes one sweep. Primarily used in tests and during graceful shutdown.
func (w *Watchdog) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error

	pending, err := w.PendingVerifications(ctx)
	if err != nil {
		errs = multierr.Append(errs, err)
	} else {
		metrics.PendingVerifications.Set(float64(pending))
		if pending > 0 {
			w.log.Warn("accounts stuck unverified",
				zap.Int64("count", pending),
				zap.Duration("threshold", w.threshold),
			)
		}
	}

	return errs
}

// PendingVerifications counts accounts that stayed unverified past the threshold.
func (w *Watchdog) PendingVerifications(ctx context.Context) (int64, error) {
	cutoff := w.now().Add(-w.threshold)

	var count int64
	err := w.db.WithContext(ctx).
		Model(&models.User{}).
		Where("is_verified = ? AND created_at < ?", false, cutoff).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("maintenance: count pending verifications: %w", err)
	}

	return count, nil
}
