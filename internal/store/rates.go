package store

import (
	"context"
	"fmt"

	"github.com/pms-parking/parkwash/internal/models"
)

// FindActiveRate returns the newest active rate for the pair, or nil.
func (s *Store) FindActiveRate(ctx context.Context, vehicleType string, unit models.RateUnit) (*models.Rate, error) {
	var rate models.Rate
	query := s.conn(ctx).
		Where("vehicle_type = ? AND rate_type = ? AND is_active = ?", vehicleType, unit, true).
		Order("id DESC")
	found, errFind := first(query, &rate)
	if errFind != nil {
		return nil, fmt.Errorf("store: find active rate %s/%s: %w", vehicleType, unit, errFind)
	}
	if !found {
		return nil, nil
	}
	return &rate, nil
}

// FindRateByID returns the rate with id, or nil.
func (s *Store) FindRateByID(ctx context.Context, id uint64) (*models.Rate, error) {
	var rate models.Rate
	found, errFind := first(s.conn(ctx).Where("id = ?", id), &rate)
	if errFind != nil {
		return nil, fmt.Errorf("store: find rate %d: %w", id, errFind)
	}
	if !found {
		return nil, nil
	}
	return &rate, nil
}

// ListRates returns all rates ordered by category, unit and id.
func (s *Store) ListRates(ctx context.Context, activeOnly bool) ([]models.Rate, error) {
	query := s.conn(ctx).Order("vehicle_type ASC, rate_type ASC, id ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var rates []models.Rate
	if errFind := query.Find(&rates).Error; errFind != nil {
		return nil, fmt.Errorf("store: list rates: %w", errFind)
	}
	return rates, nil
}

// CreateRate inserts a rate.
func (s *Store) CreateRate(ctx context.Context, rate *models.Rate) error {
	if errCreate := s.conn(ctx).Create(rate).Error; errCreate != nil {
		return fmt.Errorf("store: create rate: %w", errCreate)
	}
	return nil
}

// SaveRate saves all rate columns.
func (s *Store) SaveRate(ctx context.Context, rate *models.Rate) error {
	if errSave := s.conn(ctx).Save(rate).Error; errSave != nil {
		return fmt.Errorf("store: save rate %d: %w", rate.ID, errSave)
	}
	return nil
}

// DeactivateRates clears the active flag on every rate of the pair except exceptID.
func (s *Store) DeactivateRates(ctx context.Context, vehicleType string, unit models.RateUnit, exceptID uint64) error {
	errUpdate := s.conn(ctx).
		Model(&models.Rate{}).
		Where("vehicle_type = ? AND rate_type = ? AND is_active = ? AND id <> ?", vehicleType, unit, true, exceptID).
		Update("is_active", false).Error
	if errUpdate != nil {
		return fmt.Errorf("store: deactivate rates %s/%s: %w", vehicleType, unit, errUpdate)
	}
	return nil
}
