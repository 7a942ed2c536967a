package models

import "time"

// RateUnit is the billing unit a rate is priced in.
type RateUnit string

// RateUnit constants define the supported billing units.
const (
	// RateUnitHour prices per started hour.
	RateUnitHour RateUnit = "hour"
	// RateUnitDay prices per day.
	RateUnitDay RateUnit = "day"
	// RateUnitNight prices per night.
	RateUnitNight RateUnit = "night"
)

// Valid reports whether the unit is one of the supported billing units.
func (u RateUnit) Valid() bool {
	switch u {
	case RateUnitHour, RateUnitDay, RateUnitNight:
		return true
	default:
		return false
	}
}

// Rate prices a vehicle category for a billing unit in minor currency units.
type Rate struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	VehicleType string   `gorm:"type:varchar(50);not null;index:idx_rates_type_unit"` // Normalized vehicle category.
	RateType    RateUnit `gorm:"type:varchar(20);not null;index:idx_rates_type_unit"` // Billing unit.
	Price       int64    `gorm:"not null;default:0"`                                  // Price in minor units.
	Description string   `gorm:"type:varchar(255)"`                                   // Optional description.
	IsActive    bool     `gorm:"not null;index"`                                      // Whether this rate is the active one.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
