package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pms-parking/parkwash/internal/db"
	"github.com/pms-parking/parkwash/internal/models"
)

// FindBonus returns the washer's bonus for day, or nil.
func (s *Store) FindBonus(ctx context.Context, washerID uint64, day time.Time) (*models.Bonus, error) {
	var bonus models.Bonus
	found, errFind := first(s.conn(ctx).Where("washer_id = ? AND bonus_date = ?", washerID, models.DateOf(day)), &bonus)
	if errFind != nil {
		return nil, fmt.Errorf("store: find bonus for washer %d: %w", washerID, errFind)
	}
	if !found {
		return nil, nil
	}
	return &bonus, nil
}

// CreateBonus inserts a bonus.
func (s *Store) CreateBonus(ctx context.Context, bonus *models.Bonus) error {
	if errCreate := s.conn(ctx).Create(bonus).Error; errCreate != nil {
		return fmt.Errorf("store: create bonus: %w", errCreate)
	}
	return nil
}

// ListBonuses returns bonuses with bonus_date in [from, to), optionally for one washer.
func (s *Store) ListBonuses(ctx context.Context, washerID uint64, from, to time.Time) ([]models.Bonus, error) {
	query := s.conn(ctx).Where(db.DateRangeExpr("bonus_date"), from, to)
	if washerID != 0 {
		query = query.Where("washer_id = ?", washerID)
	}
	var bonuses []models.Bonus
	if errFind := query.Order("bonus_date ASC, washer_id ASC").Find(&bonuses).Error; errFind != nil {
		return nil, fmt.Errorf("store: list bonuses: %w", errFind)
	}
	return bonuses, nil
}

// SumBonusesByWasher totals net bonuses per washer for bonus_date in [from, to).
func (s *Store) SumBonusesByWasher(ctx context.Context, from, to time.Time) ([]models.WasherBonusTotal, error) {
	var totals []models.WasherBonusTotal
	errFind := s.conn(ctx).
		Model(&models.Bonus{}).
		Select("washer_id, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS days").
		Where(db.DateRangeExpr("bonus_date"), from, to).
		Group("washer_id").
		Order("washer_id ASC").
		Scan(&totals).Error
	if errFind != nil {
		return nil, fmt.Errorf("store: sum bonuses: %w", errFind)
	}
	return totals, nil
}
