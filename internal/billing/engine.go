package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pms-parking/parkwash/internal/apperr"
	"github.com/pms-parking/parkwash/internal/db"
	"github.com/pms-parking/parkwash/internal/models"
	log "github.com/sirupsen/logrus"
)

// Locker serializes work on a key across goroutines and processes.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// EngineStore is the persistence contract of Engine.
type EngineStore interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
	FindVehicleByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	UpdateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	FindOpenParkingRecord(ctx context.Context, vehicleID uint64) (*models.ParkingRecord, error)
	CreateParkingRecord(ctx context.Context, record *models.ParkingRecord) error
	CloseParkingRecord(ctx context.Context, record *models.ParkingRecord) (bool, error)
	FindActiveSubscription(ctx context.Context, vehicleID uint64, day time.Time) (*models.MonthlySubscription, error)
	FindActiveAgreementByVehicle(ctx context.Context, vehicleID uint64) (*models.Agreement, error)
	FindWashByID(ctx context.Context, id uint64) (*models.WashingService, error)
	FindActiveWashForVehicle(ctx context.Context, vehicleID uint64) (*models.WashingService, error)
	FindOpenShift(ctx context.Context, adminID uint64) (*models.Shift, error)
}

// EngineConfig carries the pricing policy of Engine.
type EngineConfig struct {
	FreeMinutes FreeMinutes      // Grace minutes per category and wash service.
	HelmetFee   func() int64     // Per-helmet fee resolved at admission.
	Now         func() time.Time // Clock; defaults to UTC wall time.
}

// Engine admits vehicles and prices their exit.
type Engine struct {
	store       EngineStore
	rates       *RateResolver
	locks       Locker
	freeMinutes FreeMinutes
	helmetFee   func() int64
	now         func() time.Time
}

// NewEngine constructs an Engine with default policy values when unset.
func NewEngine(store EngineStore, rates *RateResolver, locks Locker, cfg EngineConfig) *Engine {
	if cfg.FreeMinutes == nil {
		cfg.FreeMinutes = DefaultFreeMinutes()
	}
	if cfg.HelmetFee == nil {
		cfg.HelmetFee = func() int64 { return DefaultHelmetFee }
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Engine{
		store:       store,
		rates:       rates,
		locks:       locks,
		freeMinutes: cfg.FreeMinutes,
		helmetFee:   cfg.HelmetFee,
		now:         cfg.Now,
	}
}

// DefaultHelmetFee is the per-helmet custody fee in minor units.
const DefaultHelmetFee int64 = 100000

// AdmitRequest describes a vehicle entering the lot.
type AdmitRequest struct {
	Plate       string `json:"plate" validate:"required,max=20"`
	VehicleType string `json:"vehicle_type" validate:"required,max=50"`
	OwnerName   string `json:"owner_name" validate:"required,max=100"`
	OwnerPhone  string `json:"owner_phone" validate:"max=20"`
	Brand       string `json:"brand" validate:"max=50"`
	Model       string `json:"model" validate:"max=50"`
	Color       string `json:"color" validate:"max=50"`
	ShiftID     uint64 `json:"shift_id"`
	AdminID     uint64 `json:"admin_id" validate:"required"`
	HelmetCount int    `json:"helmet_count" validate:"gte=0,lte=10"`
	Notes       string `json:"notes" validate:"max=255"`
}

// Admit registers a vehicle entry and returns the open parking record.
func (e *Engine) Admit(ctx context.Context, req AdmitRequest) (*models.ParkingRecord, error) {
	if errValidate := apperr.Validate(req); errValidate != nil {
		return nil, errValidate
	}
	plate := NormalizePlate(req.Plate)
	category := NormalizeCategory(req.VehicleType)
	if plate == "" || category == "" {
		return nil, apperr.InvalidInput("plate and vehicle type are required")
	}

	release, errLock := e.locks.Acquire(ctx, "parking:"+plate)
	if errLock != nil {
		return nil, fmt.Errorf("billing: lock plate %s: %w", plate, errLock)
	}
	defer release()

	var record *models.ParkingRecord
	errTx := e.store.InTx(ctx, func(ctx context.Context) error {
		shiftID := req.ShiftID
		if shiftID == 0 {
			shift, errShift := e.store.FindOpenShift(ctx, req.AdminID)
			if errShift != nil {
				return errShift
			}
			if shift == nil {
				return apperr.NoActiveShift(req.AdminID)
			}
			shiftID = shift.ID
		}

		vehicle, errVehicle := e.resolveVehicle(ctx, plate, category, req)
		if errVehicle != nil {
			return errVehicle
		}

		open, errOpen := e.store.FindOpenParkingRecord(ctx, vehicle.ID)
		if errOpen != nil {
			return errOpen
		}
		if open != nil {
			return apperr.AlreadyParked(plate)
		}

		now := e.now().UTC()
		subscription, errSub := e.store.FindActiveSubscription(ctx, vehicle.ID, now)
		if errSub != nil {
			return errSub
		}

		rate, errRate := e.rates.GetActiveRate(ctx, category, string(models.RateUnitHour))
		if errRate != nil {
			if apperr.KindOf(errRate) == apperr.KindNotFound {
				return apperr.NoRateConfigured(category, string(models.RateUnitHour))
			}
			return errRate
		}

		record = &models.ParkingRecord{
			VehicleID:     vehicle.ID,
			ShiftID:       shiftID,
			AdminID:       req.AdminID,
			EntryTime:     now,
			ParkingRateID: rate.ID,
			HelmetCount:   req.HelmetCount,
			HelmetCharge:  int64(req.HelmetCount) * e.helmetFee(),
			TotalCost:     0,
			PaymentStatus: models.PaymentStatusPending,
			Notes:         strings.TrimSpace(req.Notes),
		}
		if subscription != nil {
			subscriptionID := subscription.ID
			record.SubscriptionID = &subscriptionID
		}
		if errCreate := e.store.CreateParkingRecord(ctx, record); errCreate != nil {
			if db.IsUniqueViolation(errCreate) {
				return apperr.AlreadyParked(plate)
			}
			return errCreate
		}
		record.Vehicle = *vehicle
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}

	log.WithFields(log.Fields{
		"plate":        plate,
		"record_id":    record.ID,
		"shift_id":     record.ShiftID,
		"subscription": record.SubscriptionID != nil,
	}).Info("billing: vehicle admitted")
	return record, nil
}

// resolveVehicle returns the vehicle for plate, creating it on first sighting
// and filling attributes it is missing.
func (e *Engine) resolveVehicle(ctx context.Context, plate, category string, req AdmitRequest) (*models.Vehicle, error) {
	vehicle, errFind := e.store.FindVehicleByPlate(ctx, plate)
	if errFind != nil {
		return nil, errFind
	}
	if vehicle == nil {
		vehicle = &models.Vehicle{
			Plate:       plate,
			VehicleType: category,
			OwnerName:   strings.TrimSpace(req.OwnerName),
			OwnerPhone:  strings.TrimSpace(req.OwnerPhone),
			Brand:       strings.TrimSpace(req.Brand),
			Model:       strings.TrimSpace(req.Model),
			Color:       strings.TrimSpace(req.Color),
		}
		if errCreate := e.store.CreateVehicle(ctx, vehicle); errCreate != nil {
			return nil, errCreate
		}
		return vehicle, nil
	}

	changed := fillEmpty(&vehicle.OwnerPhone, req.OwnerPhone)
	changed = fillEmpty(&vehicle.Brand, req.Brand) || changed
	changed = fillEmpty(&vehicle.Model, req.Model) || changed
	changed = fillEmpty(&vehicle.Color, req.Color) || changed
	if changed {
		if errUpdate := e.store.UpdateVehicle(ctx, vehicle); errUpdate != nil {
			return nil, errUpdate
		}
	}
	return vehicle, nil
}

func fillEmpty(dst *string, value string) bool {
	value = strings.TrimSpace(value)
	if *dst != "" || value == "" {
		return false
	}
	*dst = value
	return true
}

// Quote is the price breakdown of a settled stay.
type Quote struct {
	ElapsedMinutes  int64  // Wall-clock minutes parked.
	FreeMinutes     int64  // Minutes granted by a linked wash.
	BillableMinutes int64  // Elapsed minus free, floored at zero.
	BilledHours     int64  // Hours charged.
	StandardCost    int64  // Rate price times billed hours.
	ParkingCost     int64  // Cost after subscription or agreement rules.
	HelmetCharge    int64  // Helmet custody charge.
	TotalCost       int64  // ParkingCost plus HelmetCharge.
	Rule            string // Discount rule applied.
}

// Settlement is a closed record with its price breakdown.
type Settlement struct {
	Record *models.ParkingRecord
	Quote  Quote
}

// Settle prices the open stay of plate, closes it as paid and returns it.
func (e *Engine) Settle(ctx context.Context, plate, notes string) (*Settlement, error) {
	plate = NormalizePlate(plate)
	if plate == "" {
		return nil, apperr.InvalidInput("plate is required")
	}

	release, errLock := e.locks.Acquire(ctx, "parking:"+plate)
	if errLock != nil {
		return nil, fmt.Errorf("billing: lock plate %s: %w", plate, errLock)
	}
	defer release()

	var result *Settlement
	errTx := e.store.InTx(ctx, func(ctx context.Context) error {
		vehicle, record, quote, errQuote := e.quoteOpen(ctx, plate)
		if errQuote != nil {
			return errQuote
		}
		exit := quote.exit

		record.ExitTime = &exit
		record.TotalCost = quote.TotalCost
		record.PaymentStatus = models.PaymentStatusPaid
		if trimmed := strings.TrimSpace(notes); trimmed != "" {
			record.Notes = trimmed
		}
		closed, errClose := e.store.CloseParkingRecord(ctx, record)
		if errClose != nil {
			return errClose
		}
		if !closed {
			return apperr.NotParked(plate)
		}
		record.Vehicle = *vehicle
		result = &Settlement{Record: record, Quote: quote.Quote}
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}

	log.WithFields(log.Fields{
		"plate":        plate,
		"record_id":    result.Record.ID,
		"billed_hours": result.Quote.BilledHours,
		"rule":         result.Quote.Rule,
		"total_cost":   result.Quote.TotalCost,
	}).Info("billing: vehicle settled")
	return result, nil
}

// Preview prices the open stay of plate as if it left now, without closing it.
func (e *Engine) Preview(ctx context.Context, plate string) (*Settlement, error) {
	plate = NormalizePlate(plate)
	if plate == "" {
		return nil, apperr.InvalidInput("plate is required")
	}
	vehicle, record, quote, errQuote := e.quoteOpen(ctx, plate)
	if errQuote != nil {
		return nil, errQuote
	}
	record.Vehicle = *vehicle
	return &Settlement{Record: record, Quote: quote.Quote}, nil
}

type pricedExit struct {
	Quote
	exit time.Time
}

// quoteOpen loads the open stay of plate and prices it at the current time.
func (e *Engine) quoteOpen(ctx context.Context, plate string) (*models.Vehicle, *models.ParkingRecord, pricedExit, error) {
	vehicle, errVehicle := e.store.FindVehicleByPlate(ctx, plate)
	if errVehicle != nil {
		return nil, nil, pricedExit{}, errVehicle
	}
	if vehicle == nil {
		return nil, nil, pricedExit{}, apperr.NotFound("vehicle %s not found", plate)
	}
	record, errOpen := e.store.FindOpenParkingRecord(ctx, vehicle.ID)
	if errOpen != nil {
		return nil, nil, pricedExit{}, errOpen
	}
	if record == nil {
		return nil, nil, pricedExit{}, apperr.NotParked(plate)
	}
	rate, errRate := e.rates.GetByID(ctx, record.ParkingRateID)
	if errRate != nil {
		return nil, nil, pricedExit{}, errRate
	}
	freeMinutes, errFree := e.freeMinutesFor(ctx, rate.VehicleType, vehicle, record)
	if errFree != nil {
		return nil, nil, pricedExit{}, errFree
	}
	agreement, errAgreement := e.store.FindActiveAgreementByVehicle(ctx, vehicle.ID)
	if errAgreement != nil {
		return nil, nil, pricedExit{}, errAgreement
	}
	exit := e.now().UTC()
	quote := Price(record.EntryTime, exit, freeMinutes, rate.Price, record.SubscriptionID, agreement, record.HelmetCharge)
	return vehicle, record, pricedExit{Quote: quote, exit: exit}, nil
}

// freeMinutesFor returns the grace minutes of the wash linked to the stay,
// looked up under the category the stay was priced with.
func (e *Engine) freeMinutesFor(ctx context.Context, category string, vehicle *models.Vehicle, record *models.ParkingRecord) (int64, error) {
	var wash *models.WashingService
	if record.WashingServiceID != nil {
		found, errFind := e.store.FindWashByID(ctx, *record.WashingServiceID)
		if errFind != nil {
			return 0, errFind
		}
		wash = found
	} else {
		found, errFind := e.store.FindActiveWashForVehicle(ctx, vehicle.ID)
		if errFind != nil {
			return 0, errFind
		}
		if found != nil && found.ParkingRecordID != nil && *found.ParkingRecordID == record.ID {
			wash = found
		}
	}
	if wash == nil || wash.PaymentStatus == models.PaymentStatusCancelled {
		return 0, nil
	}
	return int64(e.freeMinutes.Lookup(category, wash.ServiceType)), nil
}

// Price computes the charge of a stay from stored data only.
func Price(entry, exit time.Time, freeMinutes, hourlyPrice int64, subscriptionID *uint64, agreement *models.Agreement, helmetCharge int64) Quote {
	elapsed := ElapsedMinutes(entry, exit)
	if freeMinutes < 0 {
		freeMinutes = 0
	}
	billable := elapsed - freeMinutes
	if billable < 0 {
		billable = 0
	}
	hours := BilledHours(billable)
	standard := hourlyPrice * hours
	charge := ApplyDiscount(subscriptionID, agreement, standard, hours)
	return Quote{
		ElapsedMinutes:  elapsed,
		FreeMinutes:     freeMinutes,
		BillableMinutes: billable,
		BilledHours:     hours,
		StandardCost:    standard,
		ParkingCost:     charge.ParkingCost,
		HelmetCharge:    helmetCharge,
		TotalCost:       charge.ParkingCost + helmetCharge,
		Rule:            charge.Rule,
	}
}

// ElapsedMinutes returns the started minutes between entry and exit.
func ElapsedMinutes(entry, exit time.Time) int64 {
	d := exit.Sub(entry)
	if d <= 0 {
		return 0
	}
	minutes := int64(d / time.Minute)
	if d%time.Minute != 0 {
		minutes++
	}
	return minutes
}

// BilledHours converts billable minutes to charged hours: zero stays zero,
// anything else rounds up with a one hour minimum.
func BilledHours(billableMinutes int64) int64 {
	if billableMinutes <= 0 {
		return 0
	}
	hours := (billableMinutes + 59) / 60
	if hours < 1 {
		hours = 1
	}
	return hours
}
