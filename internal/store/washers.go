package store

import (
	"context"
	"fmt"

	"github.com/pms-parking/parkwash/internal/models"
)

// FindWasherByID returns the washer with id, or nil.
func (s *Store) FindWasherByID(ctx context.Context, id uint64) (*models.Washer, error) {
	var washer models.Washer
	found, errFind := first(s.conn(ctx).Where("id = ?", id), &washer)
	if errFind != nil {
		return nil, fmt.Errorf("store: find washer %d: %w", id, errFind)
	}
	if !found {
		return nil, nil
	}
	return &washer, nil
}

// ListActiveWashers returns active washers ordered by id.
func (s *Store) ListActiveWashers(ctx context.Context) ([]models.Washer, error) {
	var washers []models.Washer
	if errFind := s.conn(ctx).Where("is_active = ?", true).Order("id ASC").Find(&washers).Error; errFind != nil {
		return nil, fmt.Errorf("store: list active washers: %w", errFind)
	}
	return washers, nil
}

// CreateWasher inserts a washer.
func (s *Store) CreateWasher(ctx context.Context, washer *models.Washer) error {
	if errCreate := s.conn(ctx).Create(washer).Error; errCreate != nil {
		return fmt.Errorf("store: create washer: %w", errCreate)
	}
	return nil
}
