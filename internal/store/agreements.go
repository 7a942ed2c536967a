package store

import (
	"context"
	"fmt"

	"github.com/pms-parking/parkwash/internal/models"
)

// FindActiveAgreementByVehicle returns the first active agreement linked to the vehicle, or nil.
func (s *Store) FindActiveAgreementByVehicle(ctx context.Context, vehicleID uint64) (*models.Agreement, error) {
	var agreement models.Agreement
	query := s.conn(ctx).
		Model(&models.Agreement{}).
		Joins("JOIN agreement_vehicles ON agreement_vehicles.agreement_id = agreements.id").
		Where("agreement_vehicles.vehicle_id = ? AND agreements.is_active = ?", vehicleID, models.AgreementStatusActive).
		Order("agreements.id ASC")
	found, errFind := first(query, &agreement)
	if errFind != nil {
		return nil, fmt.Errorf("store: find active agreement for vehicle %d: %w", vehicleID, errFind)
	}
	if !found {
		return nil, nil
	}
	return &agreement, nil
}

// FindAgreementByID returns the agreement with id, or nil.
func (s *Store) FindAgreementByID(ctx context.Context, id uint64) (*models.Agreement, error) {
	var agreement models.Agreement
	found, errFind := first(s.conn(ctx).Where("id = ?", id), &agreement)
	if errFind != nil {
		return nil, fmt.Errorf("store: find agreement %d: %w", id, errFind)
	}
	if !found {
		return nil, nil
	}
	return &agreement, nil
}

// CreateAgreement inserts an agreement.
func (s *Store) CreateAgreement(ctx context.Context, agreement *models.Agreement) error {
	if errCreate := s.conn(ctx).Create(agreement).Error; errCreate != nil {
		return fmt.Errorf("store: create agreement: %w", errCreate)
	}
	return nil
}

// AddAgreementVehicle links a vehicle to an agreement.
func (s *Store) AddAgreementVehicle(ctx context.Context, link *models.AgreementVehicle) error {
	if errCreate := s.conn(ctx).Create(link).Error; errCreate != nil {
		return fmt.Errorf("store: add vehicle %d to agreement %d: %w", link.VehicleID, link.AgreementID, errCreate)
	}
	return nil
}
