package billing

import (
	"context"

	"github.com/pms-parking/parkwash/internal/apperr"
	"github.com/pms-parking/parkwash/internal/models"
)

// RateStore is the persistence contract of RateResolver.
type RateStore interface {
	FindActiveRate(ctx context.Context, vehicleType string, unit models.RateUnit) (*models.Rate, error)
	FindRateByID(ctx context.Context, id uint64) (*models.Rate, error)
	ListRates(ctx context.Context, activeOnly bool) ([]models.Rate, error)
	CreateRate(ctx context.Context, rate *models.Rate) error
	SaveRate(ctx context.Context, rate *models.Rate) error
	DeactivateRates(ctx context.Context, vehicleType string, unit models.RateUnit, exceptID uint64) error
}

// RateInput describes a rate to create or update.
type RateInput struct {
	VehicleType string `json:"vehicle_type" validate:"required,max=50"`
	RateType    string `json:"rate_type" validate:"required"`
	Price       int64  `json:"price" validate:"gte=0"`
	Description string `json:"description" validate:"max=255"`
	IsActive    *bool  `json:"is_active"`
}

// RateResolver looks up and maintains prices per vehicle category and billing unit.
type RateResolver struct {
	store RateStore
}

// NewRateResolver constructs a RateResolver.
func NewRateResolver(store RateStore) *RateResolver {
	return &RateResolver{store: store}
}

// GetActiveRate returns the active rate for the normalized pair.
func (r *RateResolver) GetActiveRate(ctx context.Context, vehicleType, unit string) (*models.Rate, error) {
	category := NormalizeCategory(vehicleType)
	rateUnit := models.RateUnit(NormalizeCategory(unit))
	rate, errFind := r.store.FindActiveRate(ctx, category, rateUnit)
	if errFind != nil {
		return nil, errFind
	}
	if rate == nil {
		return nil, apperr.NotFound("no active %s rate for vehicle type %s", rateUnit, category)
	}
	return rate, nil
}

// GetByID returns the rate with id.
func (r *RateResolver) GetByID(ctx context.Context, id uint64) (*models.Rate, error) {
	rate, errFind := r.store.FindRateByID(ctx, id)
	if errFind != nil {
		return nil, errFind
	}
	if rate == nil {
		return nil, apperr.NotFound("rate %d not found", id)
	}
	return rate, nil
}

// List returns configured rates.
func (r *RateResolver) List(ctx context.Context, activeOnly bool) ([]models.Rate, error) {
	return r.store.ListRates(ctx, activeOnly)
}

// CreateRate stores a rate. An active rate deactivates the others of its pair afterwards;
// readers may briefly observe two active rates for the pair.
func (r *RateResolver) CreateRate(ctx context.Context, input RateInput) (*models.Rate, error) {
	rate := &models.Rate{IsActive: true}
	if errApply := applyRateInput(rate, input); errApply != nil {
		return nil, errApply
	}
	if errCreate := r.store.CreateRate(ctx, rate); errCreate != nil {
		return nil, errCreate
	}
	if rate.IsActive {
		if errDeactivate := r.store.DeactivateRates(ctx, rate.VehicleType, rate.RateType, rate.ID); errDeactivate != nil {
			return nil, errDeactivate
		}
	}
	return rate, nil
}

// UpdateRate rewrites a rate, deactivating its siblings when it is active.
func (r *RateResolver) UpdateRate(ctx context.Context, id uint64, input RateInput) (*models.Rate, error) {
	rate, errFind := r.GetByID(ctx, id)
	if errFind != nil {
		return nil, errFind
	}
	if errApply := applyRateInput(rate, input); errApply != nil {
		return nil, errApply
	}
	if rate.IsActive {
		if errDeactivate := r.store.DeactivateRates(ctx, rate.VehicleType, rate.RateType, rate.ID); errDeactivate != nil {
			return nil, errDeactivate
		}
	}
	if errSave := r.store.SaveRate(ctx, rate); errSave != nil {
		return nil, errSave
	}
	return rate, nil
}

func applyRateInput(rate *models.Rate, input RateInput) error {
	if errValidate := apperr.Validate(input); errValidate != nil {
		return errValidate
	}
	unit := models.RateUnit(NormalizeCategory(input.RateType))
	if !unit.Valid() {
		return apperr.InvalidInput("unsupported rate type %q", input.RateType)
	}
	rate.VehicleType = NormalizeCategory(input.VehicleType)
	rate.RateType = unit
	rate.Price = input.Price
	rate.Description = input.Description
	if input.IsActive != nil {
		rate.IsActive = *input.IsActive
	}
	return nil
}
