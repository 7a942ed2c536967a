package models

import (
	"time"

	"gorm.io/datatypes"
)

// Bonus is the net daily commission of a washer; one row per washer and day.
type Bonus struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	WasherID  uint64    `gorm:"not null;uniqueIndex:idx_bonuses_washer_date"` // Paid washer.
	BonusDate time.Time `gorm:"not null;uniqueIndex:idx_bonuses_washer_date"` // Calculation day (UTC midnight).
	ShiftID   *uint64   `gorm:"index"`                                        // Optional shift reference.

	Amount  int64          `gorm:"not null;default:0"`               // Net bonus after advance deductions.
	Reason  string         `gorm:"type:varchar(255)"`                // Audit trail summary.
	Details datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"` // Sales, gross and deduction breakdown.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// WasherBonusTotal is the summed net bonus of a washer over a period.
type WasherBonusTotal struct {
	WasherID uint64 `json:"washer_id" gorm:"column:washer_id"` // Washer.
	Total    int64  `json:"total" gorm:"column:total"`         // Summed net bonus.
	Days     int64  `json:"days" gorm:"column:days"`           // Number of bonus rows.
}
