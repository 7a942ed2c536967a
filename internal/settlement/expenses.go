package settlement

import (
	"context"
	"strings"
	"time"

	"github.com/pms-parking/parkwash/internal/apperr"
	"github.com/pms-parking/parkwash/internal/models"
)

// ExpenseRequest describes cash paid out.
type ExpenseRequest struct {
	ExpenseType string    `json:"expense_type" validate:"required,max=50"`
	Amount      int64     `json:"amount" validate:"gte=0"`
	Description string    `json:"description" validate:"required,max=255"`
	ExpenseDate time.Time `json:"expense_date"`
	ShiftID     *uint64   `json:"shift_id"`
}

// RegisterExpense records an expense, charging it to a shift when one is given.
// A closed shift no longer accepts expenses.
func (s *Service) RegisterExpense(ctx context.Context, req ExpenseRequest) (*models.Expense, error) {
	if errValidate := apperr.Validate(req); errValidate != nil {
		return nil, errValidate
	}
	if req.ShiftID != nil {
		shift, errFind := s.store.FindShiftByID(ctx, *req.ShiftID)
		if errFind != nil {
			return nil, errFind
		}
		if shift == nil {
			return nil, apperr.NotFound("shift %d not found", *req.ShiftID)
		}
		if shift.EndTime != nil {
			return nil, apperr.Conflict("shift %d is already closed", shift.ID)
		}
	}
	day := req.ExpenseDate
	if day.IsZero() {
		day = s.now()
	}
	expense := &models.Expense{
		ShiftID:     req.ShiftID,
		ExpenseType: strings.TrimSpace(req.ExpenseType),
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		ExpenseDate: models.DateOf(day),
	}
	if errCreate := s.store.CreateExpense(ctx, expense); errCreate != nil {
		return nil, errCreate
	}
	return expense, nil
}
