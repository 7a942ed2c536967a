package models

import "time"

// Shift is a cashier session; open while EndTime is nil.
type Shift struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	AdminID   uint64     `gorm:"not null;index"` // Cashier admin.
	ShiftDate time.Time  `gorm:"not null;index"` // Calendar day (UTC midnight).
	StartTime time.Time  `gorm:"not null"`       // Open timestamp.
	EndTime   *time.Time // Close timestamp, nil while open.

	InitialCash   int64  `gorm:"not null;default:0"` // Cash at open.
	FinalCash     *int64 // Cash at close, set only by close.
	TotalIncome   int64  `gorm:"not null;default:0"` // Paid washes + paid parking.
	TotalExpenses int64  `gorm:"not null;default:0"` // Expenses charged to the shift.
	Notes         string `gorm:"type:varchar(255)"`  // Free-form notes.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
