package models

import "time"

// AdvanceStatus is the lifecycle of a salary advance.
type AdvanceStatus string

// AdvanceStatus constants.
const (
	AdvanceStatusActive    AdvanceStatus = "active"
	AdvanceStatusPaid      AdvanceStatus = "paid"
	AdvanceStatusCancelled AdvanceStatus = "cancelled"
)

// EmployeeAdvance is a salary advance repaid in installments out of bonuses.
type EmployeeAdvance struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	WasherID uint64 `gorm:"not null;index"` // Indebted washer.

	TotalAmount          int64         `gorm:"not null"`                                         // Advanced amount.
	NumberOfInstallments int           `gorm:"not null"`                                         // Installment count.
	InstallmentAmount    int64         `gorm:"not null"`                                         // TotalAmount / installments, floored.
	RemainingAmount      int64         `gorm:"not null"`                                         // Still owed, never negative.
	Description          string        `gorm:"type:varchar(255)"`                                // Reason.
	Status               AdvanceStatus `gorm:"type:varchar(20);not null;default:'active';index"` // Lifecycle status.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
