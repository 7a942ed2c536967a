package payroll

import (
	"context"
	"strings"

	"github.com/pms-parking/parkwash/internal/apperr"
	"github.com/pms-parking/parkwash/internal/models"
	log "github.com/sirupsen/logrus"
)

// AdvanceRegistryStore is the persistence contract of Advances.
type AdvanceRegistryStore interface {
	FindWasherByID(ctx context.Context, id uint64) (*models.Washer, error)
	CreateAdvance(ctx context.Context, advance *models.EmployeeAdvance) error
}

// AdvanceRequest describes a salary advance.
type AdvanceRequest struct {
	WasherID             uint64 `json:"washer_id" validate:"required"`
	Amount               int64  `json:"amount" validate:"gt=0"`
	NumberOfInstallments int    `json:"number_of_installments" validate:"gt=0"`
	Description          string `json:"description" validate:"max=255"`
}

// Advances registers salary advances.
type Advances struct {
	store AdvanceRegistryStore
}

// NewAdvances constructs an Advances service.
func NewAdvances(store AdvanceRegistryStore) *Advances {
	return &Advances{store: store}
}

// Register stores an active advance. The installment is the floor of
// amount / installments; the last payments absorb the remainder.
func (a *Advances) Register(ctx context.Context, req AdvanceRequest) (*models.EmployeeAdvance, error) {
	if errValidate := apperr.Validate(req); errValidate != nil {
		return nil, errValidate
	}
	washer, errFind := a.store.FindWasherByID(ctx, req.WasherID)
	if errFind != nil {
		return nil, errFind
	}
	if washer == nil {
		return nil, apperr.NotFound("washer %d not found", req.WasherID)
	}
	advance := &models.EmployeeAdvance{
		WasherID:             washer.ID,
		TotalAmount:          req.Amount,
		NumberOfInstallments: req.NumberOfInstallments,
		InstallmentAmount:    req.Amount / int64(req.NumberOfInstallments),
		RemainingAmount:      req.Amount,
		Description:          strings.TrimSpace(req.Description),
		Status:               models.AdvanceStatusActive,
	}
	if errCreate := a.store.CreateAdvance(ctx, advance); errCreate != nil {
		return nil, errCreate
	}
	log.WithFields(log.Fields{
		"washer_id":   washer.ID,
		"advance_id":  advance.ID,
		"amount":      advance.TotalAmount,
		"installment": advance.InstallmentAmount,
	}).Info("payroll: advance registered")
	return advance, nil
}
