package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/povertyline/server/internal/models"
	apperrors "github.com/povertyline/server/pkg/errors"
)

// CreateProfileInput describes the fields accepted when creating a profile.
type CreateProfileInput struct {
	FullName string
	Bio      string
	Location string
}

// UpdateProfileInput enumerates mutable profile attributes. Nil fields are
// left unchanged.
type UpdateProfileInput struct {
	FullName *string
	Bio      *string
	Location *string
}

// ListProfilesOptions controls pagination and filtering for profile listings.
type ListProfilesOptions struct {
	Page     PageRequest
	Location string
}

// ProfileService manages the 1:1 profile attached to each account.
type ProfileService struct {
	db *gorm.DB
}

// NewProfileService constructs a ProfileService instance.
func NewProfileService(db *gorm.DB) (*ProfileService, error) {
	if db == nil {
		return nil, errors.New("profile service: db is required")
	}
	return &ProfileService{db: db}, nil
}

// Create inserts the caller's profile. The one-per-user invariant is checked
// inside the insert transaction in addition to the unique index on user_id.
func (s *ProfileService) Create(ctx context.Context, userID string, input CreateProfileInput) (*models.Profile, error) {
	ctx = ensureContext(ctx)

	fullName := strings.TrimSpace(input.FullName)
	location := strings.TrimSpace(input.Location)
	if fullName == "" {
		return nil, apperrors.NewBadRequest("full_name is required")
	}
	if location == "" {
		return nil, apperrors.NewBadRequest("location is required")
	}

	profile := &models.Profile{
		UserID:   userID,
		FullName: fullName,
		Bio:      strings.TrimSpace(input.Bio),
		Location: location,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Profile{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrProfileExists
		}
		return tx.Create(profile).Error
	})
	if err != nil {
		if errors.Is(err, ErrProfileExists) || isUniqueConstraintError(err) {
			return nil, ErrProfileExists
		}
		return nil, fmt.Errorf("profile service: create profile: %w", err)
	}

	return profile, nil
}

// GetByUser loads the caller's profile.
func (s *ProfileService) GetByUser(ctx context.Context, userID string) (*models.Profile, error) {
	ctx = ensureContext(ctx)

	var profile models.Profile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Take(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("profile service: query profile: %w", err)
	}

	return &profile, nil
}

// Update applies only the supplied fields to the caller's profile.
func (s *ProfileService) Update(ctx context.Context, userID string, input UpdateProfileInput) (*models.Profile, error) {
	ctx = ensureContext(ctx)

	updates := map[string]any{}
	if input.FullName != nil {
		fullName := strings.TrimSpace(*input.FullName)
		if fullName == "" {
			return nil, apperrors.NewBadRequest("full_name must not be empty")
		}
		updates["full_name"] = fullName
	}
	if input.Bio != nil {
		updates["bio"] = strings.TrimSpace(*input.Bio)
	}
	if input.Location != nil {
		location := strings.TrimSpace(*input.Location)
		if location == "" {
			return nil, apperrors.NewBadRequest("location must not be empty")
		}
		updates["location"] = location
	}

	var profile models.Profile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Take(&profile).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&profile).Updates(updates).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("profile service: update profile: %w", err)
	}

	return &profile, nil
}

// Delete removes the caller's profile permanently.
func (s *ProfileService) Delete(ctx context.Context, userID string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Profile{})
	if result.Error != nil {
		return fmt.Errorf("profile service: delete profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// List returns a page of profiles, optionally filtered by a case-insensitive
// location substring. Results are in insertion order.
func (s *ProfileService) List(ctx context.Context, opts ListProfilesOptions) ([]models.Profile, int64, error) {
	ctx = ensureContext(ctx)
	page := opts.Page.Normalize()

	query := s.db.WithContext(ctx).Model(&models.Profile{})
	if location := strings.TrimSpace(opts.Location); location != "" {
		pattern := "%" + strings.ToLower(location) + "%"
		query = query.Where("LOWER(location) LIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("profile service: count profiles: %w", err)
	}

	var profiles []models.Profile
	if err := query.
		Order("created_at ASC, id ASC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&profiles).Error; err != nil {
		return nil, 0, fmt.Errorf("profile service: list profiles: %w", err)
	}

	return profiles, total, nil
}
