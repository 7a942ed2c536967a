package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/pms-parking/parkwash/internal/models"
	log "github.com/sirupsen/logrus"
)

// Default alert thresholds.
const (
	DefaultLongParking      = 12 * time.Hour
	DefaultSubscriptionDays = 7
)

// AlertStore is the persistence contract of Alerts.
type AlertStore interface {
	ListOpenParkingRecordsBefore(ctx context.Context, cutoff time.Time) ([]models.ParkingRecord, error)
	ListSubscriptionsEndingBetween(ctx context.Context, from, to time.Time) ([]models.MonthlySubscription, error)
}

// Alerts reports operational conditions to the log.
type Alerts struct {
	store            AlertStore
	now              func() time.Time
	longParking      time.Duration
	subscriptionDays int
}

// NewAlerts constructs Alerts. Non-positive thresholds take the defaults.
func NewAlerts(store AlertStore, now func() time.Time, longParking time.Duration, subscriptionDays int) *Alerts {
	if now == nil {
		now = time.Now
	}
	if longParking <= 0 {
		longParking = DefaultLongParking
	}
	if subscriptionDays <= 0 {
		subscriptionDays = DefaultSubscriptionDays
	}
	return &Alerts{store: store, now: now, longParking: longParking, subscriptionDays: subscriptionDays}
}

// LongParking logs and returns vehicles parked longer than the threshold.
func (a *Alerts) LongParking(ctx context.Context) ([]models.ParkingRecord, error) {
	now := a.now().UTC()
	records, errList := a.store.ListOpenParkingRecordsBefore(ctx, now.Add(-a.longParking))
	if errList != nil {
		return nil, fmt.Errorf("jobs: long parking: %w", errList)
	}
	for _, record := range records {
		log.WithFields(log.Fields{
			"record_id": record.ID,
			"plate":     record.Vehicle.Plate,
			"entry":     record.EntryTime.UTC().Format(time.RFC3339),
			"hours":     int64(now.Sub(record.EntryTime) / time.Hour),
		}).Warn("alerts: vehicle parked too long")
	}
	return records, nil
}

// ExpiringSubscriptions logs and returns paid subscriptions ending within the window.
func (a *Alerts) ExpiringSubscriptions(ctx context.Context) ([]models.MonthlySubscription, error) {
	today := models.DateOf(a.now())
	subscriptions, errList := a.store.ListSubscriptionsEndingBetween(ctx, today, today.AddDate(0, 0, a.subscriptionDays))
	if errList != nil {
		return nil, fmt.Errorf("jobs: expiring subscriptions: %w", errList)
	}
	for _, subscription := range subscriptions {
		log.WithFields(log.Fields{
			"subscription_id": subscription.ID,
			"vehicle_id":      subscription.VehicleID,
			"end_date":        subscription.EndDate.Format(time.DateOnly),
			"days_left":       int(subscription.EndDate.Sub(today).Hours() / 24),
		}).Warn("alerts: subscription expiring")
	}
	return subscriptions, nil
}
