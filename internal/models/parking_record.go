package models

import "time"

// PaymentStatus is the payment lifecycle shared by priced records.
type PaymentStatus string

// PaymentStatus constants.
const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// ParkingRecord is a single stay of a vehicle; open while ExitTime is nil.
type ParkingRecord struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	VehicleID uint64  `gorm:"not null;index"`       // Parked vehicle.
	Vehicle   Vehicle `gorm:"foreignKey:VehicleID"` // Parked vehicle record.

	ShiftID uint64 `gorm:"not null;index"` // Shift the entry was registered in.
	AdminID uint64 `gorm:"not null;index"` // Admin that registered the entry.

	EntryTime     time.Time  `gorm:"not null;index"` // Entry timestamp (UTC).
	ExitTime      *time.Time `gorm:"index"`          // Exit timestamp, nil while parked.
	ParkingRateID uint64     `gorm:"not null"`       // Rate captured at entry.

	SubscriptionID   *uint64 `gorm:"index"` // Subscription active at entry.
	WashingServiceID *uint64 `gorm:"index"` // Linked wash service granting free minutes.

	HelmetCount   int           `gorm:"not null;default:0"`                          // Helmets left in custody.
	HelmetCharge  int64         `gorm:"not null;default:0"`                          // Helmet charge in minor units.
	TotalCost     int64         `gorm:"not null;default:0"`                          // Final cost, set at exit.
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'"` // Payment status.
	Notes         string        `gorm:"type:varchar(255)"`                           // Free-form notes.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// IsOpen reports whether the vehicle is still parked.
func (r *ParkingRecord) IsOpen() bool {
	return r != nil && r.ExitTime == nil
}
