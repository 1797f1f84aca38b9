package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/povertyline/server/internal/models"
	apperrors "github.com/povertyline/server/pkg/errors"
)

// CreateRecordInput describes the fields accepted when creating a survey record.
type CreateRecordInput struct {
	RegionID           string
	SocialBackgroundID string
	Income             float64
	EducationLevel     string
	EmploymentStatus   string
}

// UpdateRecordInput enumerates the allow-list of mutable record attributes.
// Nil fields are left unchanged; anything outside this struct is not
// reachable from client input.
type UpdateRecordInput struct {
	RegionID           *string
	SocialBackgroundID *string
	Income             *float64
	EducationLevel     *string
	EmploymentStatus   *string
}

// RecordFilters captures the listing filters. Income bounds are inclusive;
// pointer types keep an explicit zero distinct from an absent bound.
type RecordFilters struct {
	Region           string
	SocialBackground string
	MinIncome        *float64
	MaxIncome        *float64
}

// ListRecordsOptions controls pagination and filtering for record listings.
type ListRecordsOptions struct {
	Page    PageRequest
	Filters RecordFilters
}

// RecordService manages survey records and enforces owner-only mutation.
type RecordService struct {
	db *gorm.DB
}

// NewRecordService constructs a RecordService instance.
func NewRecordService(db *gorm.DB) (*RecordService, error) {
	if db == nil {
		return nil, errors.New("record service: db is required")
	}
	return &RecordService{db: db}, nil
}

// Create validates the reference keys and inserts a record for the caller.
// The returned record carries its resolved Region and SocialBackground.
func (s *RecordService) Create(ctx context.Context, userID string, input CreateRecordInput) (*models.Record, error) {
	ctx = ensureContext(ctx)

	if err := validateIncome(input.Income); err != nil {
		return nil, err
	}

	record := &models.Record{
		UserID:             userID,
		RegionID:           strings.TrimSpace(input.RegionID),
		SocialBackgroundID: strings.TrimSpace(input.SocialBackgroundID),
		Income:             input.Income,
		EducationLevel:     strings.TrimSpace(input.EducationLevel),
		EmploymentStatus:   strings.TrimSpace(input.EmploymentStatus),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := referencesExist(tx, record.RegionID, record.SocialBackgroundID); err != nil {
			return err
		}
		return tx.Create(record).Error
	})
	if err != nil {
		if errors.Is(err, ErrReferenceNotFound) {
			return nil, ErrReferenceNotFound
		}
		return nil, fmt.Errorf("record service: create record: %w", err)
	}

	return s.Get(ctx, record.ID)
}

// Get loads a record with its reference entities resolved. Records are
// readable by any authenticated user; only mutation is owner-gated.
func (s *RecordService) Get(ctx context.Context, id string) (*models.Record, error) {
	ctx = ensureContext(ctx)

	var record models.Record
	err := s.db.WithContext(ctx).
		Preload("Region").
		Preload("SocialBackground").
		Take(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("record service: query record: %w", err)
	}

	return &record, nil
}

// Update applies the supplied fields to a record the caller owns. A missing
// record and a record owned by another user produce the same error.
func (s *RecordService) Update(ctx context.Context, id, callerID string, input UpdateRecordInput) (*models.Record, error) {
	ctx = ensureContext(ctx)

	updates := map[string]any{}
	if input.RegionID != nil {
		updates["region_id"] = strings.TrimSpace(*input.RegionID)
	}
	if input.SocialBackgroundID != nil {
		updates["social_background_id"] = strings.TrimSpace(*input.SocialBackgroundID)
	}
	if input.Income != nil {
		if err := validateIncome(*input.Income); err != nil {
			return nil, err
		}
		updates["income"] = *input.Income
	}
	if input.EducationLevel != nil {
		updates["education_level"] = strings.TrimSpace(*input.EducationLevel)
	}
	if input.EmploymentStatus != nil {
		updates["employment_status"] = strings.TrimSpace(*input.EmploymentStatus)
	}

	var record models.Record
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, callerID).Take(&record).Error; err != nil {
			return err
		}

		if len(updates) == 0 {
			return nil
		}

		regionID := record.RegionID
		if v, ok := updates["region_id"]; ok {
			regionID = v.(string)
		}
		backgroundID := record.SocialBackgroundID
		if v, ok := updates["social_background_id"]; ok {
			backgroundID = v.(string)
		}
		if err := referencesExist(tx, regionID, backgroundID); err != nil {
			return err
		}

		return tx.Model(&record).Updates(updates).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if errors.Is(err, ErrReferenceNotFound) {
		return nil, ErrReferenceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("record service: update record: %w", err)
	}

	return s.Get(ctx, record.ID)
}

// Delete permanently removes a record the caller owns. Same conflated error
// as Update when the record is missing or not theirs.
func (s *RecordService) Delete(ctx context.Context, id, callerID string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, callerID).Delete(&models.Record{})
	if result.Error != nil {
		return fmt.Errorf("record service: delete record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// List returns a page of records with filters AND-combined: case-insensitive
// substring matches on the region and social background names, inclusive
// income bounds. Results are in insertion order with references resolved.
func (s *RecordService) List(ctx context.Context, opts ListRecordsOptions) ([]models.Record, int64, error) {
	ctx = ensureContext(ctx)
	page := opts.Page.Normalize()

	query := s.db.WithContext(ctx).Model(&models.Record{})

	if region := strings.TrimSpace(opts.Filters.Region); region != "" {
		pattern := "%" + strings.ToLower(region) + "%"
		query = query.
			Joins("JOIN regions ON regions.id = records.region_id").
			Where("LOWER(regions.name) LIKE ?", pattern)
	}
	if background := strings.TrimSpace(opts.Filters.SocialBackground); background != "" {
		pattern := "%" + strings.ToLower(background) + "%"
		query = query.
			Joins("JOIN social_backgrounds ON social_backgrounds.id = records.social_background_id").
			Where("LOWER(social_backgrounds.name) LIKE ?", pattern)
	}
	if opts.Filters.MinIncome != nil {
		query = query.Where("records.income >= ?", *opts.Filters.MinIncome)
	}
	if opts.Filters.MaxIncome != nil {
		query = query.Where("records.income <= ?", *opts.Filters.MaxIncome)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("record service: count records: %w", err)
	}

	var records []models.Record
	if err := query.
		Order("records.created_at ASC, records.id ASC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Preload("Region").
		Preload("SocialBackground").
		Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("record service: list records: %w", err)
	}

	return records, total, nil
}

func validateIncome(income float64) error {
	if math.IsNaN(income) || math.IsInf(income, 0) {
		return apperrors.NewBadRequest("income must be a finite number")
	}
	if income < 0 {
		return apperrors.NewBadRequest("income must not be negative")
	}
	return nil
}

func referencesExist(tx *gorm.DB, regionID, backgroundID string) error {
	var count int64
	if err := tx.Model(&models.Region{}).Where("id = ?", regionID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrReferenceNotFound
	}

	if err := tx.Model(&models.SocialBackground{}).Where("id = ?", backgroundID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrReferenceNotFound
	}

	return nil
}
