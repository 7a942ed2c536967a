package models

import "time"

// AgreementStatus is the lifecycle of a company agreement.
type AgreementStatus string

// AgreementStatus constants.
const (
	AgreementStatusActive   AgreementStatus = "active"
	AgreementStatusInactive AgreementStatus = "inactive"
	AgreementStatusExpired  AgreementStatus = "expired"
)

// Agreement is a company contract granting a percentage discount or a special hourly rate.
type Agreement struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	CompanyName  string `gorm:"type:varchar(100);not null;index"` // Company name.
	ContactName  string `gorm:"type:varchar(100);not null"`       // Contact person.
	ContactPhone string `gorm:"type:varchar(20)"`                 // Contact phone.
	ContactEmail string `gorm:"type:varchar(100)"`                // Contact email.

	StartDate time.Time  `gorm:"not null"` // Contract start.
	EndDate   *time.Time // Optional contract end.

	DiscountPercentage int    `gorm:"not null;default:0"` // Discount in [0,100].
	SpecialRate        *int64 // Flat hourly price in minor units, overrides the discount.

	Status AgreementStatus `gorm:"column:is_active;type:varchar(20);not null;default:'active';index"` // Lifecycle status.
	Notes  string          `gorm:"type:varchar(255)"`                                                 // Free-form notes.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// AgreementVehicle links a vehicle to an agreement.
type AgreementVehicle struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	AgreementID uint64 `gorm:"not null;uniqueIndex:idx_agreement_vehicles_unique"` // Agreement.
	VehicleID   uint64 `gorm:"not null;uniqueIndex:idx_agreement_vehicles_unique"` // Vehicle.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
