package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pms-parking/parkwash/internal/db"
	"github.com/pms-parking/parkwash/internal/models"
)

// ListActiveAdvances returns the washer's active advances in creation order, locked for update.
func (s *Store) ListActiveAdvances(ctx context.Context, washerID uint64) ([]models.EmployeeAdvance, error) {
	var advances []models.EmployeeAdvance
	errFind := db.ForUpdate(s.conn(ctx)).
		Where("washer_id = ? AND status = ? AND remaining_amount > 0", washerID, models.AdvanceStatusActive).
		Order("created_at ASC, id ASC").
		Find(&advances).Error
	if errFind != nil {
		return nil, fmt.Errorf("store: list active advances for washer %d: %w", washerID, errFind)
	}
	return advances, nil
}

// CreateAdvance inserts an advance.
func (s *Store) CreateAdvance(ctx context.Context, advance *models.EmployeeAdvance) error {
	if errCreate := s.conn(ctx).Create(advance).Error; errCreate != nil {
		return fmt.Errorf("store: create advance: %w", errCreate)
	}
	return nil
}

// SaveAdvanceBalance writes the remaining amount and status of an advance.
func (s *Store) SaveAdvanceBalance(ctx context.Context, advance *models.EmployeeAdvance) error {
	errUpdate := s.conn(ctx).
		Model(&models.EmployeeAdvance{}).
		Where("id = ?", advance.ID).
		Updates(map[string]any{
			"remaining_amount": advance.RemainingAmount,
			"status":           advance.Status,
			"updated_at":       time.Now().UTC(),
		}).Error
	if errUpdate != nil {
		return fmt.Errorf("store: save advance %d: %w", advance.ID, errUpdate)
	}
	return nil
}
