package payroll

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pms-parking/parkwash/internal/db"
	"github.com/pms-parking/parkwash/internal/models"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

// Skip reasons reported by CalculateDaily.
const (
	ReasonAlreadyCalculated = "Bonus already calculated"
	ReasonNoSales           = "No sales"
)

// Status is the per-washer outcome of a bonus run.
type Status string

// Status constants.
const (
	StatusCalculated Status = "calculated"
	StatusSkipped    Status = "skipped"
	StatusError      Status = "error"
)

// Locker serializes work on a key across goroutines and processes.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// CommissionStore is the persistence contract of Commission.
type CommissionStore interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
	ListActiveWashers(ctx context.Context) ([]models.Washer, error)
	FindBonus(ctx context.Context, washerID uint64, day time.Time) (*models.Bonus, error)
	CreateBonus(ctx context.Context, bonus *models.Bonus) error
	SumPaidWashesByWasher(ctx context.Context, washerID uint64, from, to time.Time) (int64, error)
	SumBonusesByWasher(ctx context.Context, from, to time.Time) ([]models.WasherBonusTotal, error)
	ListBonuses(ctx context.Context, washerID uint64, from, to time.Time) ([]models.Bonus, error)
}

// CalculationResult is the outcome of one washer in a bonus run.
type CalculationResult struct {
	WasherID   uint64 `json:"washer_id"`
	WasherName string `json:"washer_name"`
	Status     Status `json:"status"`
	Reason     string `json:"reason,omitempty"`
	Sales      int64  `json:"sales"`
	Gross      int64  `json:"gross"`
	Deduction  int64  `json:"deduction"`
	Net        int64  `json:"net"`
	BonusID    uint64 `json:"bonus_id,omitempty"`
}

// Run is the report of CalculateDaily.
type Run struct {
	ID      string              `json:"run_id"`
	Date    time.Time           `json:"date"`
	Results []CalculationResult `json:"results"`
}

// Counts returns the number of calculated, skipped and failed washers.
func (r *Run) Counts() (calculated, skipped, failed int) {
	for _, result := range r.Results {
		switch result.Status {
		case StatusCalculated:
			calculated++
		case StatusSkipped:
			skipped++
		case StatusError:
			failed++
		}
	}
	return calculated, skipped, failed
}

// bonusDetails is the JSON breakdown stored on each bonus.
type bonusDetails struct {
	RunID                string `json:"run_id"`
	Sales                int64  `json:"sales"`
	CommissionPercentage int    `json:"commission_percentage"`
	Gross                int64  `json:"gross"`
	Deduction            int64  `json:"deduction"`
}

// Commission computes daily washer bonuses net of advance deductions.
type Commission struct {
	store       CommissionStore
	amortizer   *Amortizer
	locks       Locker
	concurrency int
}

// NewCommission constructs a Commission engine. Washers are processed with at
// most concurrency goroutines; a washer's own advances are always sequential.
func NewCommission(store CommissionStore, amortizer *Amortizer, locks Locker, concurrency int) *Commission {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Commission{store: store, amortizer: amortizer, locks: locks, concurrency: concurrency}
}

// CalculateDaily writes at most one bonus per active washer for date. A failure
// for one washer is reported in its result and does not stop the others.
func (c *Commission) CalculateDaily(ctx context.Context, date time.Time) (*Run, error) {
	day := models.DateOf(date)
	run := &Run{ID: uuid.NewString(), Date: day}
	logger := log.WithFields(log.Fields{"run_id": run.ID, "date": day.Format(time.DateOnly)})

	washers, errList := c.store.ListActiveWashers(ctx)
	if errList != nil {
		return nil, fmt.Errorf("payroll: list washers: %w", errList)
	}
	run.Results = make([]CalculationResult, len(washers))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	var mu sync.Mutex
	for i := range washers {
		i := i
		washer := washers[i]
		g.Go(func() error {
			result := c.calculateWasher(ctx, run.ID, washer, day)
			mu.Lock()
			run.Results[i] = result
			mu.Unlock()

			entry := logger.WithFields(log.Fields{"washer_id": washer.ID, "status": result.Status})
			switch result.Status {
			case StatusError:
				entry.WithField("reason", result.Reason).Warn("payroll: bonus calculation failed")
			case StatusSkipped:
				entry.WithField("reason", result.Reason).Debug("payroll: bonus skipped")
			default:
				entry.WithFields(log.Fields{"gross": result.Gross, "deduction": result.Deduction, "net": result.Net}).Info("payroll: bonus calculated")
			}
			return nil
		})
	}
	_ = g.Wait()

	calculated, skipped, failed := run.Counts()
	logger.WithFields(log.Fields{"calculated": calculated, "skipped": skipped, "failed": failed}).Info("payroll: bonus run finished")
	return run, nil
}

func (c *Commission) calculateWasher(ctx context.Context, runID string, washer models.Washer, day time.Time) CalculationResult {
	result := CalculationResult{WasherID: washer.ID, WasherName: washer.FullName}
	fail := func(err error) CalculationResult {
		result.Status = StatusError
		result.Reason = err.Error()
		result.Gross, result.Deduction, result.Net, result.BonusID = 0, 0, 0, 0
		return result
	}

	release, errLock := c.locks.Acquire(ctx, fmt.Sprintf("bonus:%d:%s", washer.ID, day.Format(time.DateOnly)))
	if errLock != nil {
		return fail(fmt.Errorf("lock: %w", errLock))
	}
	defer release()

	errTx := c.store.InTx(ctx, func(ctx context.Context) error {
		existing, errFind := c.store.FindBonus(ctx, washer.ID, day)
		if errFind != nil {
			return errFind
		}
		if existing != nil {
			result.Status = StatusSkipped
			result.Reason = ReasonAlreadyCalculated
			result.BonusID = existing.ID
			result.Net = existing.Amount
			return nil
		}

		sales, errSales := c.store.SumPaidWashesByWasher(ctx, washer.ID, day, day.AddDate(0, 0, 1))
		if errSales != nil {
			return errSales
		}
		result.Sales = sales
		if sales <= 0 {
			result.Status = StatusSkipped
			result.Reason = ReasonNoSales
			return nil
		}

		gross := GrossBonus(sales, washer.CommissionPercentage)
		deduction, errDeduct := c.amortizer.ApplyDeduction(ctx, washer.ID, gross)
		if errDeduct != nil {
			return errDeduct
		}
		net := gross - deduction

		details, errMarshal := json.Marshal(bonusDetails{
			RunID:                runID,
			Sales:                sales,
			CommissionPercentage: washer.CommissionPercentage,
			Gross:                gross,
			Deduction:            deduction,
		})
		if errMarshal != nil {
			return errMarshal
		}
		bonus := &models.Bonus{
			WasherID:  washer.ID,
			BonusDate: day,
			Amount:    net,
			Reason:    fmt.Sprintf("Sales: %d, Gross: %d, Ded: %d", sales, gross, deduction),
			Details:   datatypes.JSON(details),
		}
		if errCreate := c.store.CreateBonus(ctx, bonus); errCreate != nil {
			return errCreate
		}
		result.Status = StatusCalculated
		result.Gross = gross
		result.Deduction = deduction
		result.Net = net
		result.BonusID = bonus.ID
		return nil
	})
	if errTx != nil {
		// Another process won the race; its bonus stands and the advances rolled back with ours.
		if db.IsUniqueViolation(errTx) {
			result.Status = StatusSkipped
			result.Reason = ReasonAlreadyCalculated
			result.Gross, result.Deduction, result.Net = 0, 0, 0
			return result
		}
		return fail(errTx)
	}
	return result
}

// GrossBonus returns floor(sales * percentage / 100).
func GrossBonus(sales int64, percentage int) int64 {
	if sales <= 0 || percentage <= 0 {
		return 0
	}
	return decimal.NewFromInt(sales).
		Mul(decimal.NewFromInt(int64(percentage))).
		Div(decimal.NewFromInt(100)).
		Floor().
		IntPart()
}

// MonthlyTotals sums net bonuses per washer for the calendar month.
func (c *Commission) MonthlyTotals(ctx context.Context, year int, month time.Month) ([]models.WasherBonusTotal, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("payroll: invalid month %d", month)
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return c.store.SumBonusesByWasher(ctx, from, from.AddDate(0, 1, 0))
}

// WasherBonuses lists a washer's bonuses with bonus_date in [from, to).
func (c *Commission) WasherBonuses(ctx context.Context, washerID uint64, from, to time.Time) ([]models.Bonus, error) {
	return c.store.ListBonuses(ctx, washerID, models.DateOf(from), models.DateOf(to))
}
