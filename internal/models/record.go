package models

// Record is a single survey observation owned by a user and tied to the
// Region and SocialBackground reference tables.
type Record struct {
	BaseModel

	UserID             string `gorm:"type:uuid;not null;index" json:"user_id"`
	RegionID           string `gorm:"type:uuid;not null" json:"region_id"`
	SocialBackgroundID string `gorm:"type:uuid;not null" json:"social_background_id"`

	Income           float64 `gorm:"not null" json:"income"`
	EducationLevel   string  `gorm:"size:50" json:"education_level"`
	EmploymentStatus string  `gorm:"size:50" json:"employment_status"`

	Region           *Region           `gorm:"foreignKey:RegionID" json:"region,omitempty"`
	SocialBackground *SocialBackground `gorm:"foreignKey:SocialBackgroundID" json:"social_background,omitempty"`
}
