package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/povertyline/server/internal/models"
	"github.com/povertyline/server/pkg/crypto"
	apperrors "github.com/povertyline/server/pkg/errors"
	"github.com/povertyline/server/pkg/logger"
	"github.com/povertyline/server/pkg/mail"
	"github.com/povertyline/server/pkg/metrics"
)

// RegisterInput captures the details required to register a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// RegistrationResult reports the created account and whether the verification
// email reached the SMTP server. A failed dispatch does not undo the account;
// the caller is expected to surface the gap to the client.
type RegistrationResult struct {
	User           *models.User
	EmailDelivered bool
}

// AccountOption customises the AccountService.
type AccountOption func(*AccountService)

// WithVerificationCodeSource overrides code generation, primarily for tests.
func WithVerificationCodeSource(gen func() (string, error)) AccountOption {
	return func(s *AccountService) {
		if gen != nil {
			s.generateCode = gen
		}
	}
}

// AccountService drives the account lifecycle: registration, email-coded
// verification, and credential checks for login.
type AccountService struct {
	db           *gorm.DB
	mailer       mail.Mailer
	generateCode func() (string, error)
	log          *zap.Logger
}

// NewAccountService constructs an AccountService with the provided dependencies.
// The mailer may be nil, in which case verification emails are skipped.
func NewAccountService(db *gorm.DB, mailer mail.Mailer, opts ...AccountOption) (*AccountService, error) {
	if db == nil {
		return nil, errors.New("account service: db is required")
	}

	service := &AccountService{
		db:           db,
		mailer:       mailer,
		generateCode: crypto.GenerateVerificationCode,
		log:          logger.WithModule("accounts"),
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Register provisions an unverified account and dispatches the verification
// code by email after the insert commits. Duplicate usernames and emails are
// rejected before any mutation; races that slip past the pre-checks surface
// as unique-constraint violations and map to the same errors.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*RegistrationResult, error) {
	ctx = ensureContext(ctx)

	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if err := s.checkAvailability(ctx, username, email); err != nil {
		return nil, err
	}

	hashed, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account service: hash password: %w", err)
	}

	code, err := s.generateCode()
	if err != nil {
		return nil, fmt.Errorf("account service: generate verification code: %w", err)
	}

	user := &models.User{
		Username:         username,
		Email:            email,
		Password:         hashed,
		IsVerified:       false,
		VerificationCode: &code,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(user).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			// Lost a race with a concurrent registration; report which field.
			if availErr := s.checkAvailability(ctx, username, email); availErr != nil {
				return nil, availErr
			}
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("account service: create user: %w", err)
	}

	metrics.Registrations.Inc()

	delivered := s.dispatchVerificationEmail(ctx, email, code)
	return &RegistrationResult{User: user, EmailDelivered: delivered}, nil
}

// Verify consumes a verification code. The comparison is exact and
// case-sensitive; a second attempt with the old code fails because the stored
// code is cleared in the same update that marks the account verified.
func (s *AccountService) Verify(ctx context.Context, email, code string) (*models.User, error) {
	ctx = ensureContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("account service: query user: %w", err)
	}

	if user.VerificationCode == nil || *user.VerificationCode != code {
		return nil, ErrInvalidVerificationCode
	}

	if err := s.db.WithContext(ctx).Model(&user).Updates(map[string]any{
		"is_verified":       true,
		"verification_code": nil,
	}).Error; err != nil {
		return nil, fmt.Errorf("account service: mark verified: %w", err)
	}

	user.IsVerified = true
	user.VerificationCode = nil
	return &user, nil
}

// Authenticate validates a username/password pair and enforces the
// verification gate. Unknown usernames and wrong passwords yield the same
// error so callers cannot distinguish them.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	ctx = ensureContext(ctx)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("account service: query user: %w", err)
	}

	if !crypto.VerifyPassword(user.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, apperrors.ErrEmailNotVerified
	}

	return &user, nil
}

// GetByID loads a user by identifier.
func (s *AccountService) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx = ensureContext(ctx)

	var user models.User
	err := s.db.WithContext(ctx).Take(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("account service: query user: %w", err)
	}

	return &user, nil
}

func (s *AccountService) checkAvailability(ctx context.Context, username, email string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).Count(&count).Error; err != nil {
		return fmt.Errorf("account service: check username: %w", err)
	}
	if count > 0 {
		return ErrUsernameTaken
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("account service: check email: %w", err)
	}
	if count > 0 {
		return ErrEmailTaken
	}

	return nil
}

// dispatchVerificationEmail is best-effort: it runs after the registration
// commit and never rolls the account back. Failures are logged and counted so
// operators can notice stuck verifications. It reports true only when the
// message actually reached the SMTP server; skipped deliveries count as
// undelivered so clients know the code has to arrive another way.
func (s *AccountService) dispatchVerificationEmail(ctx context.Context, email, code string) bool {
	if s.mailer == nil {
		metrics.VerificationEmails.WithLabelValues("skipped").Inc()
		s.log.Debug("verification email skipped, no mailer configured", zap.String("email", email))
		return false
	}

	if err := s.mailer.Send(ctx, mail.NewVerificationMessage(email, code)); err != nil {
		if errors.Is(err, mail.ErrSMTPDisabled) {
			metrics.VerificationEmails.WithLabelValues("skipped").Inc()
			s.log.Info("verification email skipped, smtp disabled", zap.String("email", email))
			return false
		}
		metrics.VerificationEmails.WithLabelValues("failed").Inc()
		s.log.Warn("verification email dispatch failed",
			zap.String("email", email),
			zap.Error(err),
		)
		return false
	}

	metrics.VerificationEmails.WithLabelValues("sent").Inc()
	return true
}
