package models

import "time"

// Vehicle is the identity record for a plate seen at the lot.
type Vehicle struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Plate       string `gorm:"type:varchar(20);not null;uniqueIndex"` // Normalized plate (uppercase, trimmed).
	VehicleType string `gorm:"type:varchar(50);not null;index"`       // Free-text category (moto, carro, ...).
	OwnerName   string `gorm:"type:varchar(100);not null"`            // Owner display name.
	OwnerPhone  string `gorm:"type:varchar(20)"`                      // Owner phone.
	Brand       string `gorm:"type:varchar(50)"`                      // Brand.
	Model       string `gorm:"type:varchar(50)"`                      // Model.
	Color       string `gorm:"type:varchar(50)"`                      // Color.
	IsFrequent  bool   `gorm:"not null;default:false;index"`          // Frequent customer flag.
	Notes       string `gorm:"type:varchar(255)"`                     // Free-form notes.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
