package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pms-parking/parkwash/internal/models"
)

// FindActiveSubscription returns the paid subscription covering day with the latest end date, or nil.
func (s *Store) FindActiveSubscription(ctx context.Context, vehicleID uint64, day time.Time) (*models.MonthlySubscription, error) {
	day = models.DateOf(day)
	var subscription models.MonthlySubscription
	query := s.conn(ctx).
		Where("vehicle_id = ? AND payment_status = ? AND start_date <= ? AND end_date >= ?", vehicleID, models.PaymentStatusPaid, day, day).
		Order("end_date DESC, id DESC")
	found, errFind := first(query, &subscription)
	if errFind != nil {
		return nil, fmt.Errorf("store: find active subscription for vehicle %d: %w", vehicleID, errFind)
	}
	if !found {
		return nil, nil
	}
	return &subscription, nil
}

// CreateSubscription inserts a subscription.
func (s *Store) CreateSubscription(ctx context.Context, subscription *models.MonthlySubscription) error {
	if errCreate := s.conn(ctx).Create(subscription).Error; errCreate != nil {
		return fmt.Errorf("store: create subscription: %w", errCreate)
	}
	return nil
}

// ListSubscriptionsEndingBetween returns paid subscriptions whose end date falls in [from, to].
func (s *Store) ListSubscriptionsEndingBetween(ctx context.Context, from, to time.Time) ([]models.MonthlySubscription, error) {
	var subscriptions []models.MonthlySubscription
	errFind := s.conn(ctx).
		Where("payment_status = ? AND end_date >= ? AND end_date <= ?", models.PaymentStatusPaid, models.DateOf(from), models.DateOf(to)).
		Order("end_date ASC, id ASC").
		Find(&subscriptions).Error
	if errFind != nil {
		return nil, fmt.Errorf("store: list expiring subscriptions: %w", errFind)
	}
	return subscriptions, nil
}
