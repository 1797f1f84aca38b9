package models

import "time"

// User holds account credentials and the email verification state. The bcrypt
// hash and the verification code are excluded from serialization here; the
// outward-facing representation is UserView, which never carries either field.
type User struct {
	BaseModel

	Username string `gorm:"uniqueIndex;size:20;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	IsVerified bool `gorm:"default:false" json:"is_verified"`
	// VerificationCode is non-null only while the account is unverified and is
	// cleared in the same update that flips IsVerified.
	VerificationCode *string `gorm:"size:6" json:"-"`

	Profile *Profile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	Records []Record `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// UserView is the public projection of a User.
type UserView struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// View returns the outward-facing representation of the user.
func (u *User) View() UserView {
	return UserView{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
