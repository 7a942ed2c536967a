package store

import (
	"context"
	"fmt"

	"github.com/pms-parking/parkwash/internal/models"
)

// FindVehicleByPlate returns the vehicle with the normalized plate, or nil.
func (s *Store) FindVehicleByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	found, errFind := first(s.conn(ctx).Where("plate = ?", plate), &vehicle)
	if errFind != nil {
		return nil, fmt.Errorf("store: find vehicle %s: %w", plate, errFind)
	}
	if !found {
		return nil, nil
	}
	return &vehicle, nil
}

// FindVehicleByID returns the vehicle with id, or nil.
func (s *Store) FindVehicleByID(ctx context.Context, id uint64) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	found, errFind := first(s.conn(ctx).Where("id = ?", id), &vehicle)
	if errFind != nil {
		return nil, fmt.Errorf("store: find vehicle %d: %w", id, errFind)
	}
	if !found {
		return nil, nil
	}
	return &vehicle, nil
}

// CreateVehicle inserts a vehicle.
func (s *Store) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	if errCreate := s.conn(ctx).Create(vehicle).Error; errCreate != nil {
		return fmt.Errorf("store: create vehicle: %w", errCreate)
	}
	return nil
}

// UpdateVehicle saves all vehicle columns.
func (s *Store) UpdateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	if errSave := s.conn(ctx).Save(vehicle).Error; errSave != nil {
		return fmt.Errorf("store: update vehicle %d: %w", vehicle.ID, errSave)
	}
	return nil
}
