// Package payroll computes washer commissions and pays salary advances down
// out of them.
package payroll

import (
	"context"

	"github.com/pms-parking/parkwash/internal/models"
)

// AdvanceStore is the persistence contract of Amortizer.
type AdvanceStore interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
	ListActiveAdvances(ctx context.Context, washerID uint64) ([]models.EmployeeAdvance, error)
	SaveAdvanceBalance(ctx context.Context, advance *models.EmployeeAdvance) error
}

// Amortizer reduces outstanding advances by a capped amount.
type Amortizer struct {
	store AdvanceStore
}

// NewAmortizer constructs an Amortizer.
func NewAmortizer(store AdvanceStore) *Amortizer {
	return &Amortizer{store: store}
}

// ApplyDeduction takes at most one installment from each active advance of the
// washer, oldest first, until maxDeduction is used up. It returns the amount
// actually deducted, never more than maxDeduction.
func (a *Amortizer) ApplyDeduction(ctx context.Context, washerID uint64, maxDeduction int64) (int64, error) {
	if maxDeduction <= 0 {
		return 0, nil
	}
	var total int64
	errTx := a.store.InTx(ctx, func(ctx context.Context) error {
		total = 0
		advances, errList := a.store.ListActiveAdvances(ctx, washerID)
		if errList != nil {
			return errList
		}
		capacity := maxDeduction
		for i := range advances {
			if capacity <= 0 {
				break
			}
			advance := &advances[i]
			deduction := min(advance.InstallmentAmount, advance.RemainingAmount, capacity)
			if deduction <= 0 {
				continue
			}
			advance.RemainingAmount -= deduction
			if advance.RemainingAmount <= 0 {
				advance.RemainingAmount = 0
				advance.Status = models.AdvanceStatusPaid
			}
			if errSave := a.store.SaveAdvanceBalance(ctx, advance); errSave != nil {
				return errSave
			}
			total += deduction
			capacity -= deduction
		}
		return nil
	})
	if errTx != nil {
		return 0, errTx
	}
	return total, nil
}
