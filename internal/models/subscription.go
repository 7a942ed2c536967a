package models

import "time"

// MonthlySubscription grants free parking between StartDate and EndDate inclusive.
type MonthlySubscription struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	VehicleID uint64 `gorm:"not null;index"` // Subscribed vehicle.

	StartDate     time.Time     `gorm:"not null;index"`                              // First covered day (UTC midnight).
	EndDate       time.Time     `gorm:"not null;index"`                              // Last covered day (UTC midnight).
	MonthlyFee    int64         `gorm:"not null;default:0"`                          // Fee in minor units.
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'"` // Payment status.
	Notes         string        `gorm:"type:varchar(255)"`                           // Free-form notes.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// ActiveOn reports whether the subscription is paid and covers day.
func (s *MonthlySubscription) ActiveOn(day time.Time) bool {
	if s == nil || s.PaymentStatus != PaymentStatusPaid {
		return false
	}
	day = DateOf(day)
	return !day.Before(DateOf(s.StartDate)) && !day.After(DateOf(s.EndDate))
}

// DateOf truncates t to midnight UTC of its UTC calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
