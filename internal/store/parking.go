package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pms-parking/parkwash/internal/db"
	"github.com/pms-parking/parkwash/internal/models"
)

// FindOpenParkingRecord returns the vehicle's open record locked for update, or nil.
func (s *Store) FindOpenParkingRecord(ctx context.Context, vehicleID uint64) (*models.ParkingRecord, error) {
	conn := s.conn(ctx)
	var record models.ParkingRecord
	query := db.ForUpdate(conn).Where("vehicle_id = ? AND exit_time IS NULL", vehicleID)
	found, errFind := first(query, &record)
	if errFind != nil {
		return nil, fmt.Errorf("store: find open parking record for vehicle %d: %w", vehicleID, errFind)
	}
	if !found {
		return nil, nil
	}
	return &record, nil
}

// CreateParkingRecord inserts an open parking record.
func (s *Store) CreateParkingRecord(ctx context.Context, record *models.ParkingRecord) error {
	if errCreate := s.conn(ctx).Create(record).Error; errCreate != nil {
		return fmt.Errorf("store: create parking record: %w", errCreate)
	}
	return nil
}

// CloseParkingRecord writes the exit columns of an open record exactly once.
// It returns false when the record was already closed.
func (s *Store) CloseParkingRecord(ctx context.Context, record *models.ParkingRecord) (bool, error) {
	res := s.conn(ctx).
		Model(&models.ParkingRecord{}).
		Where("id = ? AND exit_time IS NULL", record.ID).
		Updates(map[string]any{
			"exit_time":      record.ExitTime,
			"total_cost":     record.TotalCost,
			"payment_status": record.PaymentStatus,
			"notes":          record.Notes,
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("store: close parking record %d: %w", record.ID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// LinkParkingRecordWash sets the wash granting free minutes when the record has none.
func (s *Store) LinkParkingRecordWash(ctx context.Context, recordID, washID uint64) error {
	errUpdate := s.conn(ctx).
		Model(&models.ParkingRecord{}).
		Where("id = ? AND exit_time IS NULL AND washing_service_id IS NULL", recordID).
		Update("washing_service_id", washID).Error
	if errUpdate != nil {
		return fmt.Errorf("store: link wash %d to parking record %d: %w", washID, recordID, errUpdate)
	}
	return nil
}

// ListOpenParkingRecordsBefore returns open records whose entry is at or before cutoff.
func (s *Store) ListOpenParkingRecordsBefore(ctx context.Context, cutoff time.Time) ([]models.ParkingRecord, error) {
	var records []models.ParkingRecord
	errFind := s.conn(ctx).
		Preload("Vehicle").
		Where("exit_time IS NULL AND entry_time <= ?", cutoff).
		Order("entry_time ASC").
		Find(&records).Error
	if errFind != nil {
		return nil, fmt.Errorf("store: list long open parking records: %w", errFind)
	}
	return records, nil
}

// SumPaidParkingByShift sums total_cost of paid records of the shift.
func (s *Store) SumPaidParkingByShift(ctx context.Context, shiftID uint64) (int64, error) {
	total, errSum := sumInt64(s.conn(ctx).
		Model(&models.ParkingRecord{}).
		Where("shift_id = ? AND payment_status = ?", shiftID, models.PaymentStatusPaid), "total_cost")
	if errSum != nil {
		return 0, fmt.Errorf("store: sum parking income for shift %d: %w", shiftID, errSum)
	}
	return total, nil
}
