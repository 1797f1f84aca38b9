package models

// Region is reference data seeded at startup and read-only through the API.
type Region struct {
	BaseModel

	Name        string  `gorm:"size:100;not null" json:"name"`
	Country     string  `gorm:"size:100;not null" json:"country"`
	PovertyRate float64 `json:"poverty_rate"`
}
