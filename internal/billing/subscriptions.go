package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pms-parking/parkwash/internal/apperr"
	"github.com/pms-parking/parkwash/internal/models"
	log "github.com/sirupsen/logrus"
)

// DefaultSubscriptionDays is the coverage length when a request omits it.
const DefaultSubscriptionDays = 30

// SubscriptionStore is the persistence contract of Subscriptions.
type SubscriptionStore interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
	FindVehicleByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	UpdateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	FindActiveSubscription(ctx context.Context, vehicleID uint64, day time.Time) (*models.MonthlySubscription, error)
	CreateSubscription(ctx context.Context, subscription *models.MonthlySubscription) error
}

// SubscriptionRequest describes a prepaid monthly subscription.
type SubscriptionRequest struct {
	Plate        string    `json:"plate" validate:"required,max=20"`
	VehicleType  string    `json:"vehicle_type" validate:"required,max=50"`
	OwnerName    string    `json:"owner_name" validate:"required,max=100"`
	OwnerPhone   string    `json:"owner_phone" validate:"max=20"`
	MonthlyFee   int64     `json:"monthly_fee" validate:"gte=0"`
	StartDate    time.Time `json:"start_date" validate:"required"`
	DurationDays int       `json:"duration_days" validate:"gte=0,lte=366"`
	Notes        string    `json:"notes" validate:"max=255"`
}

// Subscriptions sells and looks up monthly subscriptions.
type Subscriptions struct {
	store SubscriptionStore
	locks Locker
	now   func() time.Time
}

// NewSubscriptions constructs a Subscriptions service.
func NewSubscriptions(store SubscriptionStore, locks Locker, now func() time.Time) *Subscriptions {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Subscriptions{store: store, locks: locks, now: now}
}

// Create marks the vehicle frequent and stores a paid subscription from the start date.
func (s *Subscriptions) Create(ctx context.Context, req SubscriptionRequest) (*models.MonthlySubscription, error) {
	if errValidate := apperr.Validate(req); errValidate != nil {
		return nil, errValidate
	}
	plate := NormalizePlate(req.Plate)
	if plate == "" {
		return nil, apperr.InvalidInput("plate is required")
	}
	days := req.DurationDays
	if days == 0 {
		days = DefaultSubscriptionDays
	}
	start := models.DateOf(req.StartDate)

	release, errLock := s.locks.Acquire(ctx, "subscription:"+plate)
	if errLock != nil {
		return nil, fmt.Errorf("billing: lock subscription %s: %w", plate, errLock)
	}
	defer release()

	var subscription *models.MonthlySubscription
	errTx := s.store.InTx(ctx, func(ctx context.Context) error {
		vehicle, errFind := s.store.FindVehicleByPlate(ctx, plate)
		if errFind != nil {
			return errFind
		}
		if vehicle == nil {
			vehicle = &models.Vehicle{
				Plate:       plate,
				VehicleType: NormalizeCategory(req.VehicleType),
				OwnerName:   strings.TrimSpace(req.OwnerName),
				OwnerPhone:  strings.TrimSpace(req.OwnerPhone),
				IsFrequent:  true,
				Notes:       strings.TrimSpace(req.Notes),
			}
			if errCreate := s.store.CreateVehicle(ctx, vehicle); errCreate != nil {
				return errCreate
			}
		} else if !vehicle.IsFrequent {
			vehicle.IsFrequent = true
			if errUpdate := s.store.UpdateVehicle(ctx, vehicle); errUpdate != nil {
				return errUpdate
			}
		}

		active, errActive := s.store.FindActiveSubscription(ctx, vehicle.ID, start)
		if errActive != nil {
			return errActive
		}
		if active != nil {
			return apperr.Conflict("vehicle %s already has an active subscription on %s", plate, start.Format(time.DateOnly))
		}

		subscription = &models.MonthlySubscription{
			VehicleID:     vehicle.ID,
			StartDate:     start,
			EndDate:       start.AddDate(0, 0, days),
			MonthlyFee:    req.MonthlyFee,
			PaymentStatus: models.PaymentStatusPaid,
			Notes:         strings.TrimSpace(req.Notes),
		}
		return s.store.CreateSubscription(ctx, subscription)
	})
	if errTx != nil {
		return nil, errTx
	}
	log.WithFields(log.Fields{
		"plate":  plate,
		"start":  subscription.StartDate.Format(time.DateOnly),
		"end":    subscription.EndDate.Format(time.DateOnly),
		"sub_id": subscription.ID,
		"fee":    subscription.MonthlyFee,
	}).Info("billing: subscription created")
	return subscription, nil
}

// FindActive returns the subscription covering today for plate, or nil.
func (s *Subscriptions) FindActive(ctx context.Context, plate string) (*models.MonthlySubscription, error) {
	vehicle, errFind := s.store.FindVehicleByPlate(ctx, NormalizePlate(plate))
	if errFind != nil || vehicle == nil {
		return nil, errFind
	}
	return s.store.FindActiveSubscription(ctx, vehicle.ID, s.now())
}
