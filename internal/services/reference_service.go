package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/povertyline/server/internal/models"
)

// ReferenceService exposes the seeded lookup tables. The core never mutates
// them; there are no write operations here.
type ReferenceService struct {
	db *gorm.DB
}

// NewReferenceService constructs a ReferenceService instance.
func NewReferenceService(db *gorm.DB) (*ReferenceService, error) {
	if db == nil {
		return nil, errors.New("reference service: db is required")
	}
	return &ReferenceService{db: db}, nil
}

// ListRegions returns all regions in insertion order.
func (s *ReferenceService) ListRegions(ctx context.Context) ([]models.Region, error) {
	ctx = ensureContext(ctx)

	var regions []models.Region
	if err := s.db.WithContext(ctx).Order("created_at ASC, name ASC").Find(&regions).Error; err != nil {
		return nil, fmt.Errorf("reference service: list regions: %w", err)
	}
	return regions, nil
}

// ListSocialBackgrounds returns all social backgrounds in insertion order.
func (s *ReferenceService) ListSocialBackgrounds(ctx context.Context) ([]models.SocialBackground, error) {
	ctx = ensureContext(ctx)

	var backgrounds []models.SocialBackground
	if err := s.db.WithContext(ctx).Order("created_at ASC, name ASC").Find(&backgrounds).Error; err != nil {
		return nil, fmt.Errorf("reference service: list social backgrounds: %w", err)
	}
	return backgrounds, nil
}
