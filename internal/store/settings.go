package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pms-parking/parkwash/internal/models"
	"gorm.io/datatypes"
)

// ListSettings returns every setting ordered by key.
func (s *Store) ListSettings(ctx context.Context) ([]models.Setting, error) {
	var rows []models.Setting
	if errFind := s.conn(ctx).Order("key ASC").Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("store: list settings: %w", errFind)
	}
	return rows, nil
}

// LatestSetting returns the most recently updated setting, or nil when the table is empty.
func (s *Store) LatestSetting(ctx context.Context) (*models.Setting, error) {
	var row models.Setting
	found, errFind := first(s.conn(ctx).Select("key", "updated_at").Order("updated_at DESC, key DESC").Limit(1), &row)
	if errFind != nil {
		return nil, fmt.Errorf("store: latest setting: %w", errFind)
	}
	if !found {
		return nil, nil
	}
	return &row, nil
}

// FindSetting returns the setting under key, or nil.
func (s *Store) FindSetting(ctx context.Context, key string) (*models.Setting, error) {
	var row models.Setting
	found, errFind := first(s.conn(ctx).Where("key = ?", key), &row)
	if errFind != nil {
		return nil, fmt.Errorf("store: find setting %s: %w", key, errFind)
	}
	if !found {
		return nil, nil
	}
	return &row, nil
}

// UpsertSetting writes value under key.
func (s *Store) UpsertSetting(ctx context.Context, key string, value json.RawMessage) (*models.Setting, error) {
	existing, errFind := s.FindSetting(ctx, key)
	if errFind != nil {
		return nil, errFind
	}
	if existing == nil {
		row := &models.Setting{Key: key, Value: datatypes.JSON(value)}
		if errCreate := s.conn(ctx).Create(row).Error; errCreate != nil {
			return nil, fmt.Errorf("store: create setting %s: %w", key, errCreate)
		}
		return row, nil
	}
	now := time.Now().UTC()
	errUpdate := s.conn(ctx).Model(&models.Setting{}).Where("key = ?", key).Updates(map[string]any{
		"value":      datatypes.JSON(value),
		"updated_at": now,
	}).Error
	if errUpdate != nil {
		return nil, fmt.Errorf("store: update setting %s: %w", key, errUpdate)
	}
	existing.Value = datatypes.JSON(value)
	existing.UpdatedAt = now
	return existing, nil
}

// DeleteSetting removes key and reports whether a row was deleted.
func (s *Store) DeleteSetting(ctx context.Context, key string) (bool, error) {
	res := s.conn(ctx).Where("key = ?", key).Delete(&models.Setting{})
	if res.Error != nil {
		return false, fmt.Errorf("store: delete setting %s: %w", key, res.Error)
	}
	return res.RowsAffected > 0, nil
}
