package models

// Profile carries user-supplied biographical data. The unique index on UserID
// backs the one-profile-per-user invariant enforced in the service layer.
type Profile struct {
	BaseModel

	UserID   string `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	FullName string `gorm:"size:100;not null" json:"full_name"`
	Bio      string `gorm:"type:text" json:"bio"`
	Location string `gorm:"size:100;not null" json:"location"`
}
