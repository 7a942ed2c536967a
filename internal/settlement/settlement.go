// Package settlement opens and closes cashier shifts and records the cash
// they pay out.
package settlement

import (
	"context"
	"strings"
	"time"

	"github.com/pms-parking/parkwash/internal/apperr"
	"github.com/pms-parking/parkwash/internal/db"
	"github.com/pms-parking/parkwash/internal/models"
	log "github.com/sirupsen/logrus"
)

// Store is the persistence contract of Service.
type Store interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
	FindOpenShift(ctx context.Context, adminID uint64) (*models.Shift, error)
	FindShiftByID(ctx context.Context, id uint64) (*models.Shift, error)
	CreateShift(ctx context.Context, shift *models.Shift) error
	CloseShift(ctx context.Context, shift *models.Shift) (bool, error)
	SumPaidWashesByShift(ctx context.Context, shiftID uint64) (int64, error)
	SumPaidParkingByShift(ctx context.Context, shiftID uint64) (int64, error)
	SumExpensesByShift(ctx context.Context, shiftID uint64) (int64, error)
	CreateExpense(ctx context.Context, expense *models.Expense) error
}

// Service settles cashier shifts.
type Service struct {
	store Store
	now   func() time.Time
}

// New constructs a Service.
func New(store Store, now func() time.Time) *Service {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{store: store, now: now}
}

// Open starts a shift for adminID. An admin holds at most one open shift.
func (s *Service) Open(ctx context.Context, adminID uint64, initialCash int64, notes string) (*models.Shift, error) {
	if adminID == 0 {
		return nil, apperr.InvalidInput("admin id is required")
	}
	if initialCash < 0 {
		return nil, apperr.InvalidInput("initial cash must not be negative")
	}

	var shift *models.Shift
	errTx := s.store.InTx(ctx, func(ctx context.Context) error {
		open, errFind := s.store.FindOpenShift(ctx, adminID)
		if errFind != nil {
			return errFind
		}
		if open != nil {
			return apperr.Conflict("admin %d already has an open shift", adminID)
		}
		now := s.now().UTC()
		shift = &models.Shift{
			AdminID:     adminID,
			ShiftDate:   models.DateOf(now),
			StartTime:   now,
			InitialCash: initialCash,
			Notes:       strings.TrimSpace(notes),
		}
		if errCreate := s.store.CreateShift(ctx, shift); errCreate != nil {
			if db.IsUniqueViolation(errCreate) {
				return apperr.ConflictWrap(errCreate, "admin %d already has an open shift", adminID)
			}
			return errCreate
		}
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	log.WithFields(log.Fields{"admin_id": adminID, "shift_id": shift.ID}).Info("settlement: shift opened")
	return shift, nil
}

// Close totals the shift's paid income and expenses and closes it.
// Final cash is not clamped and may be negative.
func (s *Service) Close(ctx context.Context, adminID uint64, notes string) (*models.Shift, error) {
	var shift *models.Shift
	errTx := s.store.InTx(ctx, func(ctx context.Context) error {
		open, errFind := s.store.FindOpenShift(ctx, adminID)
		if errFind != nil {
			return errFind
		}
		if open == nil {
			return apperr.NoActiveShift(adminID)
		}

		washIncome, errWash := s.store.SumPaidWashesByShift(ctx, open.ID)
		if errWash != nil {
			return errWash
		}
		parkingIncome, errParking := s.store.SumPaidParkingByShift(ctx, open.ID)
		if errParking != nil {
			return errParking
		}
		expenses, errExpenses := s.store.SumExpensesByShift(ctx, open.ID)
		if errExpenses != nil {
			return errExpenses
		}

		end := s.now().UTC()
		finalCash := open.InitialCash + washIncome + parkingIncome - expenses
		open.EndTime = &end
		open.TotalIncome = washIncome + parkingIncome
		open.TotalExpenses = expenses
		open.FinalCash = &finalCash
		if trimmed := strings.TrimSpace(notes); trimmed != "" {
			open.Notes = trimmed
		}
		closed, errClose := s.store.CloseShift(ctx, open)
		if errClose != nil {
			return errClose
		}
		if !closed {
			return apperr.NoActiveShift(adminID)
		}
		shift = open
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	log.WithFields(log.Fields{
		"admin_id":       adminID,
		"shift_id":       shift.ID,
		"total_income":   shift.TotalIncome,
		"total_expenses": shift.TotalExpenses,
		"final_cash":     *shift.FinalCash,
	}).Info("settlement: shift closed")
	return shift, nil
}

// Current returns the admin's open shift.
func (s *Service) Current(ctx context.Context, adminID uint64) (*models.Shift, error) {
	shift, errFind := s.store.FindOpenShift(ctx, adminID)
	if errFind != nil {
		return nil, errFind
	}
	if shift == nil {
		return nil, apperr.NoActiveShift(adminID)
	}
	return shift, nil
}
