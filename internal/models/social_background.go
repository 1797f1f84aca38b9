package models

// SocialBackground is reference data seeded at startup and read-only through the API.
type SocialBackground struct {
	BaseModel

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}
