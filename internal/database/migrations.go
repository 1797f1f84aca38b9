package database

import (
	"gorm.io/gorm"

	"github.com/povertyline/server/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Region{},
		&models.SocialBackground{},
		&models.Record{},
	)
}

// SeedReferenceData populates the Region and SocialBackground lookup tables.
// Seeding is idempotent; rows are matched by name and never overwritten, so
// the tables stay immutable from the application's point of view.
func SeedReferenceData(db *gorm.DB) error {
	regions := []models.Region{
		{Name: "Sub-Saharan Africa", Country: "Various", PovertyRate: 42.0},
		{Name: "South Asia", Country: "Various", PovertyRate: 16.0},
		{Name: "East Asia and Pacific", Country: "Various", PovertyRate: 7.0},
		{Name: "Latin America and Caribbean", Country: "Various", PovertyRate: 4.0},
		{Name: "Middle East and North Africa", Country: "Various", PovertyRate: 5.0},
	}

	for _, region := range regions {
		if err := db.Where(models.Region{Name: region.Name}).
			Attrs(region).
			FirstOrCreate(&models.Region{}).Error; err != nil {
			return err
		}
	}

	backgrounds := []models.SocialBackground{
		{Name: "Urban Poor", Description: "Low-income individuals in urban areas"},
		{Name: "Rural Poor", Description: "Low-income individuals in rural areas"},
		{Name: "Unemployed", Description: "Individuals without formal employment"},
		{Name: "Informal Workers", Description: "Individuals working in the informal sector"},
		{Name: "Displaced Persons", Description: "Refugees or internally displaced individuals"},
	}

	for _, background := range backgrounds {
		if err := db.Where(models.SocialBackground{Name: background.Name}).
			Attrs(background).
			FirstOrCreate(&models.SocialBackground{}).Error; err != nil {
			return err
		}
	}

	return nil
}
