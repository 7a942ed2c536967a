package models

import "time"

// Washer is a service worker paid a commission on washes sold.
type Washer struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	FullName             string  `gorm:"type:varchar(100);not null"`    // Display name.
	Email                *string `gorm:"type:varchar(100);uniqueIndex"` // Optional contact, unique when set.
	Phone                string  `gorm:"type:varchar(20)"`
	CommissionPercentage int     `gorm:"not null;default:0"` // Commission in [0,100].
	IsActive             bool    `gorm:"not null;index"`     // Inactive washers are skipped by bonus runs.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
