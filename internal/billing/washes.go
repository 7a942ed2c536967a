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

// WashStore is the persistence contract of Washes.
type WashStore interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
	FindVehicleByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	FindOpenParkingRecord(ctx context.Context, vehicleID uint64) (*models.ParkingRecord, error)
	LinkParkingRecordWash(ctx context.Context, recordID, washID uint64) error
	FindOpenShift(ctx context.Context, adminID uint64) (*models.Shift, error)
	FindWasherByID(ctx context.Context, id uint64) (*models.Washer, error)
	FindWashByID(ctx context.Context, id uint64) (*models.WashingService, error)
	CreateWash(ctx context.Context, wash *models.WashingService) error
	SaveWash(ctx context.Context, wash *models.WashingService) error
}

// WashRequest describes a wash sold to a vehicle.
type WashRequest struct {
	Plate       string  `json:"plate" validate:"required,max=20"`
	VehicleType string  `json:"vehicle_type" validate:"required,max=50"`
	OwnerName   string  `json:"owner_name" validate:"required,max=100"`
	OwnerPhone  string  `json:"owner_phone" validate:"max=20"`
	ServiceType string  `json:"service_type" validate:"required,max=50"`
	Price       int64   `json:"price" validate:"gte=0"`
	AdminID     uint64  `json:"admin_id" validate:"required"`
	ShiftID     uint64  `json:"shift_id"`
	WasherID    *uint64 `json:"washer_id"`
	Notes       string  `json:"notes" validate:"max=255"`
}

// Washes sells, assigns and completes wash services.
type Washes struct {
	store WashStore
	locks Locker
	now   func() time.Time
}

// NewWashes constructs a Washes service.
func NewWashes(store WashStore, locks Locker, now func() time.Time) *Washes {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Washes{store: store, locks: locks, now: now}
}

// Create stores a pending wash and links it to the vehicle's open stay, if any.
func (w *Washes) Create(ctx context.Context, req WashRequest) (*models.WashingService, error) {
	if errValidate := apperr.Validate(req); errValidate != nil {
		return nil, errValidate
	}
	plate := NormalizePlate(req.Plate)
	if plate == "" {
		return nil, apperr.InvalidInput("plate is required")
	}

	release, errLock := w.locks.Acquire(ctx, "parking:"+plate)
	if errLock != nil {
		return nil, fmt.Errorf("billing: lock plate %s: %w", plate, errLock)
	}
	defer release()

	var wash *models.WashingService
	errTx := w.store.InTx(ctx, func(ctx context.Context) error {
		shiftID := req.ShiftID
		if shiftID == 0 {
			shift, errShift := w.store.FindOpenShift(ctx, req.AdminID)
			if errShift != nil {
				return errShift
			}
			if shift == nil {
				return apperr.NoActiveShift(req.AdminID)
			}
			shiftID = shift.ID
		}
		if req.WasherID != nil {
			if _, errWasher := w.activeWasher(ctx, *req.WasherID); errWasher != nil {
				return errWasher
			}
		}

		vehicle, errFind := w.store.FindVehicleByPlate(ctx, plate)
		if errFind != nil {
			return errFind
		}
		if vehicle == nil {
			vehicle = &models.Vehicle{
				Plate:       plate,
				VehicleType: NormalizeCategory(req.VehicleType),
				OwnerName:   strings.TrimSpace(req.OwnerName),
				OwnerPhone:  strings.TrimSpace(req.OwnerPhone),
			}
			if errCreate := w.store.CreateVehicle(ctx, vehicle); errCreate != nil {
				return errCreate
			}
		}
		record, errOpen := w.store.FindOpenParkingRecord(ctx, vehicle.ID)
		if errOpen != nil {
			return errOpen
		}

		wash = &models.WashingService{
			VehicleID:     vehicle.ID,
			WasherID:      req.WasherID,
			ShiftID:       &shiftID,
			AdminID:       req.AdminID,
			ServiceType:   strings.TrimSpace(req.ServiceType),
			ServiceDate:   w.now().UTC(),
			Price:         req.Price,
			PaymentStatus: models.PaymentStatusPending,
			Notes:         strings.TrimSpace(req.Notes),
		}
		if record != nil {
			recordID := record.ID
			wash.ParkingRecordID = &recordID
		}
		if errCreate := w.store.CreateWash(ctx, wash); errCreate != nil {
			return errCreate
		}
		if record != nil && record.WashingServiceID == nil {
			return w.store.LinkParkingRecordWash(ctx, record.ID, wash.ID)
		}
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	log.WithFields(log.Fields{
		"plate":        plate,
		"wash_id":      wash.ID,
		"service_type": wash.ServiceType,
		"linked":       wash.ParkingRecordID != nil,
	}).Info("billing: wash registered")
	return wash, nil
}

// AssignWasher sets the washer of a wash; the start time is recorded once.
func (w *Washes) AssignWasher(ctx context.Context, washID, washerID uint64) (*models.WashingService, error) {
	var wash *models.WashingService
	errTx := w.store.InTx(ctx, func(ctx context.Context) error {
		found, errFind := w.findWash(ctx, washID)
		if errFind != nil {
			return errFind
		}
		if _, errWasher := w.activeWasher(ctx, washerID); errWasher != nil {
			return errWasher
		}
		id := washerID
		found.WasherID = &id
		if found.StartTime == nil {
			start := w.now().UTC()
			found.StartTime = &start
		}
		wash = found
		return w.store.SaveWash(ctx, found)
	})
	if errTx != nil {
		return nil, errTx
	}
	return wash, nil
}

// Complete finishes a wash and marks it paid.
func (w *Washes) Complete(ctx context.Context, washID uint64, notes string) (*models.WashingService, error) {
	var wash *models.WashingService
	errTx := w.store.InTx(ctx, func(ctx context.Context) error {
		found, errFind := w.findWash(ctx, washID)
		if errFind != nil {
			return errFind
		}
		if found.PaymentStatus == models.PaymentStatusPaid {
			return apperr.Conflict("wash %d is already paid and completed", washID)
		}
		if found.PaymentStatus == models.PaymentStatusCancelled {
			return apperr.Conflict("wash %d is cancelled", washID)
		}
		end := w.now().UTC()
		found.EndTime = &end
		found.PaymentStatus = models.PaymentStatusPaid
		if trimmed := strings.TrimSpace(notes); trimmed != "" {
			found.Notes = trimmed
		}
		wash = found
		return w.store.SaveWash(ctx, found)
	})
	if errTx != nil {
		return nil, errTx
	}
	return wash, nil
}

func (w *Washes) findWash(ctx context.Context, washID uint64) (*models.WashingService, error) {
	wash, errFind := w.store.FindWashByID(ctx, washID)
	if errFind != nil {
		return nil, errFind
	}
	if wash == nil {
		return nil, apperr.NotFound("wash %d not found", washID)
	}
	return wash, nil
}

func (w *Washes) activeWasher(ctx context.Context, washerID uint64) (*models.Washer, error) {
	washer, errFind := w.store.FindWasherByID(ctx, washerID)
	if errFind != nil {
		return nil, errFind
	}
	if washer == nil {
		return nil, apperr.NotFound("washer %d not found", washerID)
	}
	if !washer.IsActive {
		return nil, apperr.InvalidInput("washer %s is not active", washer.FullName)
	}
	return washer, nil
}
