package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/povertyline/server/pkg/errors"
)

// Sentinel errors shared across the service layer. Record and profile lookups
// deliberately conflate "missing" with "owned by someone else" so that callers
// cannot probe for the existence of other users' data.
var (
	ErrUsernameTaken           = apperrors.New("USERNAME_TAKEN", "Username already exists", http.StatusBadRequest)
	ErrEmailTaken              = apperrors.New("EMAIL_TAKEN", "Email already exists", http.StatusBadRequest)
	ErrUserNotFound            = apperrors.New("USER_NOT_FOUND", "User not found", http.StatusNotFound)
	ErrInvalidVerificationCode = apperrors.New("INVALID_VERIFICATION_CODE", "Invalid verification code", http.StatusBadRequest)
	ErrProfileExists           = apperrors.New("PROFILE_EXISTS", "Profile already exists", http.StatusBadRequest)
	ErrProfileNotFound         = apperrors.New("PROFILE_NOT_FOUND", "Profile not found", http.StatusNotFound)
	ErrRecordNotFound          = apperrors.New("RECORD_NOT_FOUND", "Record not found", http.StatusNotFound)
	ErrReferenceNotFound       = apperrors.New("REFERENCE_NOT_FOUND", "Region or social background not found", http.StatusNotFound)
)

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// isUniqueConstraintError detects database uniqueness constraint violations across vendors.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr != nil && pgErr.Code == "23505" {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr != nil && myErr.Number == 1062 {
		return true
	}

	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "unique") ||
		strings.Contains(lower, "duplicate") ||
		strings.Contains(lower, "constraint")
}
