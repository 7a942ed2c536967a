package models

import "time"

// Expense is cash paid out, optionally charged to a shift.
type Expense struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	ShiftID     *uint64   `gorm:"index"`                           // Shift charged.
	ExpenseType string    `gorm:"type:varchar(50);not null;index"` // Category.
	Amount      int64     `gorm:"not null"`                        // Amount in minor units.
	Description string    `gorm:"type:varchar(255);not null"`      // Description.
	ExpenseDate time.Time `gorm:"not null;index"`                  // Day (UTC midnight).

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
