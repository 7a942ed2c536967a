package models

import "time"

// WashingService is a wash sold to a vehicle, optionally tied to its parking stay.
type WashingService struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	VehicleID       uint64  `gorm:"not null;index"` // Washed vehicle.
	ParkingRecordID *uint64 `gorm:"index"`          // Stay open when the wash was sold.
	WasherID        *uint64 `gorm:"index"`          // Assigned washer.
	ShiftID         *uint64 `gorm:"index"`          // Shift the sale belongs to.
	AdminID         uint64  `gorm:"not null"`       // Admin that registered the sale.

	ServiceType   string        `gorm:"type:varchar(50);not null"`                   // Service name, keys the free-minutes table.
	ServiceDate   time.Time     `gorm:"not null;index"`                              // Sale timestamp (UTC).
	Price         int64         `gorm:"not null;default:0"`                          // Price in minor units.
	StartTime     *time.Time    // Wash start.
	EndTime       *time.Time    // Wash end.
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'pending';index"` // Payment status.
	Notes         string        `gorm:"type:varchar(255)"`                                 // Free-form notes.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// Completed reports whether the wash finished and was paid.
func (w *WashingService) Completed() bool {
	return w != nil && w.EndTime != nil && w.PaymentStatus == PaymentStatusPaid
}
