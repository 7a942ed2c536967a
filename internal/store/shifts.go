package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pms-parking/parkwash/internal/db"
	"github.com/pms-parking/parkwash/internal/models"
)

// FindOpenShift returns the admin's open shift locked for update, or nil.
func (s *Store) FindOpenShift(ctx context.Context, adminID uint64) (*models.Shift, error) {
	var shift models.Shift
	query := db.ForUpdate(s.conn(ctx)).Where("admin_id = ? AND end_time IS NULL", adminID)
	found, errFind := first(query, &shift)
	if errFind != nil {
		return nil, fmt.Errorf("store: find open shift for admin %d: %w", adminID, errFind)
	}
	if !found {
		return nil, nil
	}
	return &shift, nil
}

// FindShiftByID returns the shift with id, or nil.
func (s *Store) FindShiftByID(ctx context.Context, id uint64) (*models.Shift, error) {
	var shift models.Shift
	found, errFind := first(s.conn(ctx).Where("id = ?", id), &shift)
	if errFind != nil {
		return nil, fmt.Errorf("store: find shift %d: %w", id, errFind)
	}
	if !found {
		return nil, nil
	}
	return &shift, nil
}

// CreateShift inserts an open shift.
func (s *Store) CreateShift(ctx context.Context, shift *models.Shift) error {
	if errCreate := s.conn(ctx).Create(shift).Error; errCreate != nil {
		return fmt.Errorf("store: create shift: %w", errCreate)
	}
	return nil
}

// CloseShift writes the settlement columns of an open shift exactly once.
// It returns false when the shift was already closed.
func (s *Store) CloseShift(ctx context.Context, shift *models.Shift) (bool, error) {
	res := s.conn(ctx).
		Model(&models.Shift{}).
		Where("id = ? AND end_time IS NULL", shift.ID).
		Updates(map[string]any{
			"end_time":       shift.EndTime,
			"total_income":   shift.TotalIncome,
			"total_expenses": shift.TotalExpenses,
			"final_cash":     shift.FinalCash,
			"notes":          shift.Notes,
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("store: close shift %d: %w", shift.ID, res.Error)
	}
	return res.RowsAffected == 1, nil
}
