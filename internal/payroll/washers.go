package payroll

import (
	"context"
	"strings"

	"github.com/pms-parking/parkwash/internal/apperr"
	"github.com/pms-parking/parkwash/internal/db"
	"github.com/pms-parking/parkwash/internal/models"
	log "github.com/sirupsen/logrus"
)

// WasherStore is the persistence contract of Washers.
type WasherStore interface {
	CreateWasher(ctx context.Context, washer *models.Washer) error
}

// WasherRequest describes a new washer. A nil CommissionPercentage takes the
// configured default.
type WasherRequest struct {
	FullName             string `json:"full_name" validate:"required,max=100"`
	Email                string `json:"email" validate:"omitempty,email,max=100"`
	Phone                string `json:"phone" validate:"max=20"`
	CommissionPercentage *int   `json:"commission_percentage" validate:"omitempty,gte=0,lte=100"`
}

// Washers registers washers.
type Washers struct {
	store             WasherStore
	defaultCommission func() int
}

// NewWashers constructs a Washers service. defaultCommission may be nil.
func NewWashers(store WasherStore, defaultCommission func() int) *Washers {
	return &Washers{store: store, defaultCommission: defaultCommission}
}

// Register stores an active washer.
func (w *Washers) Register(ctx context.Context, req WasherRequest) (*models.Washer, error) {
	if errValidate := apperr.Validate(req); errValidate != nil {
		return nil, errValidate
	}
	commission := 0
	if req.CommissionPercentage != nil {
		commission = *req.CommissionPercentage
	} else if w.defaultCommission != nil {
		commission = min(max(w.defaultCommission(), 0), 100)
	}
	washer := &models.Washer{
		FullName:             strings.TrimSpace(req.FullName),
		Phone:                strings.TrimSpace(req.Phone),
		CommissionPercentage: commission,
		IsActive:             true,
	}
	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
		washer.Email = &email
	}
	if errCreate := w.store.CreateWasher(ctx, washer); errCreate != nil {
		if db.IsUniqueViolation(errCreate) {
			return nil, apperr.ConflictWrap(errCreate, "washer email %q already registered", *washer.Email)
		}
		return nil, errCreate
	}
	log.WithFields(log.Fields{"washer_id": washer.ID, "commission": commission}).Info("payroll: washer registered")
	return washer, nil
}
