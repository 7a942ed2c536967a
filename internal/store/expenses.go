package store

import (
	"context"
	"fmt"

	"github.com/pms-parking/parkwash/internal/models"
)

// CreateExpense inserts an expense.
func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if errCreate := s.conn(ctx).Create(expense).Error; errCreate != nil {
		return fmt.Errorf("store: create expense: %w", errCreate)
	}
	return nil
}

// SumExpensesByShift sums the expenses charged to the shift.
func (s *Store) SumExpensesByShift(ctx context.Context, shiftID uint64) (int64, error) {
	total, errSum := sumInt64(s.conn(ctx).Model(&models.Expense{}).Where("shift_id = ?", shiftID), "amount")
	if errSum != nil {
		return 0, fmt.Errorf("store: sum expenses for shift %d: %w", shiftID, errSum)
	}
	return total, nil
}
