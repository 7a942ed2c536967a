package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pms-parking/parkwash/internal/db"
	"github.com/pms-parking/parkwash/internal/models"
)

// FindWashByID returns the wash service locked for update, or nil.
func (s *Store) FindWashByID(ctx context.Context, id uint64) (*models.WashingService, error) {
	var wash models.WashingService
	found, errFind := first(db.ForUpdate(s.conn(ctx)).Where("id = ?", id), &wash)
	if errFind != nil {
		return nil, fmt.Errorf("store: find wash %d: %w", id, errFind)
	}
	if !found {
		return nil, nil
	}
	return &wash, nil
}

// FindActiveWashForVehicle returns the newest non-cancelled wash tied to the vehicle's open stay, or nil.
func (s *Store) FindActiveWashForVehicle(ctx context.Context, vehicleID uint64) (*models.WashingService, error) {
	var wash models.WashingService
	query := s.conn(ctx).
		Model(&models.WashingService{}).
		Joins("JOIN parking_records ON parking_records.id = washing_services.parking_record_id").
		Where("washing_services.vehicle_id = ? AND parking_records.exit_time IS NULL AND washing_services.payment_status <> ?", vehicleID, models.PaymentStatusCancelled).
		Order("washing_services.id DESC")
	found, errFind := first(query, &wash)
	if errFind != nil {
		return nil, fmt.Errorf("store: find active wash for vehicle %d: %w", vehicleID, errFind)
	}
	if !found {
		return nil, nil
	}
	return &wash, nil
}

// CreateWash inserts a wash service.
func (s *Store) CreateWash(ctx context.Context, wash *models.WashingService) error {
	if errCreate := s.conn(ctx).Create(wash).Error; errCreate != nil {
		return fmt.Errorf("store: create wash: %w", errCreate)
	}
	return nil
}

// SaveWash saves all wash service columns.
func (s *Store) SaveWash(ctx context.Context, wash *models.WashingService) error {
	if errSave := s.conn(ctx).Save(wash).Error; errSave != nil {
		return fmt.Errorf("store: save wash %d: %w", wash.ID, errSave)
	}
	return nil
}

// SumPaidWashesByShift sums prices of paid washes of the shift.
func (s *Store) SumPaidWashesByShift(ctx context.Context, shiftID uint64) (int64, error) {
	total, errSum := sumInt64(s.conn(ctx).
		Model(&models.WashingService{}).
		Where("shift_id = ? AND payment_status = ?", shiftID, models.PaymentStatusPaid), "price")
	if errSum != nil {
		return 0, fmt.Errorf("store: sum wash income for shift %d: %w", shiftID, errSum)
	}
	return total, nil
}

// SumPaidWashesByWasher sums prices of the washer's paid washes sold in [from, to).
func (s *Store) SumPaidWashesByWasher(ctx context.Context, washerID uint64, from, to time.Time) (int64, error) {
	total, errSum := sumInt64(s.conn(ctx).
		Model(&models.WashingService{}).
		Where("washer_id = ? AND payment_status = ?", washerID, models.PaymentStatusPaid).
		Where(db.DateRangeExpr("service_date"), from, to), "price")
	if errSum != nil {
		return 0, fmt.Errorf("store: sum sales for washer %d: %w", washerID, errSum)
	}
	return total, nil
}
