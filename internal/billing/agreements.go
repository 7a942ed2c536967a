package billing

import (
	"context"
	"strings"
	"time"

	"github.com/pms-parking/parkwash/internal/apperr"
	"github.com/pms-parking/parkwash/internal/db"
	"github.com/pms-parking/parkwash/internal/models"
)

// AgreementStore is the persistence contract of Agreements.
type AgreementStore interface {
	FindAgreementByID(ctx context.Context, id uint64) (*models.Agreement, error)
	CreateAgreement(ctx context.Context, agreement *models.Agreement) error
	AddAgreementVehicle(ctx context.Context, link *models.AgreementVehicle) error
	FindVehicleByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
}

// AgreementRequest describes a company agreement.
type AgreementRequest struct {
	CompanyName        string     `json:"company_name" validate:"required,max=100"`
	ContactName        string     `json:"contact_name" validate:"required,max=100"`
	ContactPhone       string     `json:"contact_phone" validate:"max=20"`
	ContactEmail       string     `json:"contact_email" validate:"omitempty,email,max=100"`
	StartDate          time.Time  `json:"start_date" validate:"required"`
	EndDate            *time.Time `json:"end_date"`
	DiscountPercentage int        `json:"discount_percentage" validate:"gte=0,lte=100"`
	SpecialRate        *int64     `json:"special_rate" validate:"omitempty,gte=0"`
	Notes              string     `json:"notes" validate:"max=255"`
}

// Agreements manages company agreements and their vehicles.
type Agreements struct {
	store AgreementStore
}

// NewAgreements constructs an Agreements service.
func NewAgreements(store AgreementStore) *Agreements {
	return &Agreements{store: store}
}

// Create stores an active agreement.
func (a *Agreements) Create(ctx context.Context, req AgreementRequest) (*models.Agreement, error) {
	if errValidate := apperr.Validate(req); errValidate != nil {
		return nil, errValidate
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return nil, apperr.InvalidInput("end_date precedes start_date")
	}
	agreement := &models.Agreement{
		CompanyName:        strings.TrimSpace(req.CompanyName),
		ContactName:        strings.TrimSpace(req.ContactName),
		ContactPhone:       strings.TrimSpace(req.ContactPhone),
		ContactEmail:       strings.TrimSpace(req.ContactEmail),
		StartDate:          models.DateOf(req.StartDate),
		DiscountPercentage: req.DiscountPercentage,
		SpecialRate:        req.SpecialRate,
		Status:             models.AgreementStatusActive,
		Notes:              strings.TrimSpace(req.Notes),
	}
	if req.EndDate != nil {
		end := models.DateOf(*req.EndDate)
		agreement.EndDate = &end
	}
	if errCreate := a.store.CreateAgreement(ctx, agreement); errCreate != nil {
		return nil, errCreate
	}
	return agreement, nil
}

// AddVehicle links an existing vehicle to an active agreement.
func (a *Agreements) AddVehicle(ctx context.Context, agreementID uint64, plate string) (*models.AgreementVehicle, error) {
	agreement, errFind := a.store.FindAgreementByID(ctx, agreementID)
	if errFind != nil {
		return nil, errFind
	}
	if agreement == nil {
		return nil, apperr.NotFound("agreement %d not found", agreementID)
	}
	if agreement.Status != models.AgreementStatusActive {
		return nil, apperr.InvalidInput("agreement %s is not active", agreement.CompanyName)
	}
	plate = NormalizePlate(plate)
	vehicle, errVehicle := a.store.FindVehicleByPlate(ctx, plate)
	if errVehicle != nil {
		return nil, errVehicle
	}
	if vehicle == nil {
		return nil, apperr.NotFound("vehicle %s not found", plate)
	}
	link := &models.AgreementVehicle{AgreementID: agreement.ID, VehicleID: vehicle.ID}
	if errAdd := a.store.AddAgreementVehicle(ctx, link); errAdd != nil {
		if db.IsUniqueViolation(errAdd) {
			return nil, apperr.ConflictWrap(errAdd, "vehicle %s already belongs to agreement %d", plate, agreementID)
		}
		return nil, errAdd
	}
	return link, nil
}
