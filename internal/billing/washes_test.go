package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pms-parking/parkwash/internal/apperr"
	"github.com/pms-parking/parkwash/internal/models"
)

func TestWashLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	washer := &models.Washer{FullName: "Mario Diaz", CommissionPercentage: 20, IsActive: true}
	if err := f.store.CreateWasher(ctx, washer); err != nil {
		t.Fatalf("create washer: %v", err)
	}
	idle := &models.Washer{FullName: "Idle Washer", CommissionPercentage: 10, IsActive: true}
	if err := f.store.CreateWasher(ctx, idle); err != nil {
		t.Fatalf("create idle washer: %v", err)
	}
	if err := f.store.DB().Model(idle).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate washer: %v", err)
	}

	wash, err := f.washes.Create(ctx, WashRequest{
		Plate: "def456", VehicleType: "moto", OwnerName: "Rosa", ServiceType: "Lavado general", Price: 15000, AdminID: 1,
	})
	if err != nil {
		t.Fatalf("create wash: %v", err)
	}
	if wash.ParkingRecordID != nil {
		t.Fatalf("expected no stay link for a vehicle that is not parked")
	}
	if wash.ShiftID == nil || *wash.ShiftID != f.shift.ID {
		t.Fatalf("expected wash in the admin's open shift")
	}

	if _, errIdle := f.washes.AssignWasher(ctx, wash.ID, idle.ID); !errors.Is(errIdle, apperr.ErrInvalidInput) {
		t.Fatalf("expected inactive washer rejection, got %v", errIdle)
	}
	if _, errMissing := f.washes.AssignWasher(ctx, wash.ID, 999); !errors.Is(errMissing, apperr.ErrNotFound) {
		t.Fatalf("expected missing washer NotFound, got %v", errMissing)
	}

	assigned, err := f.washes.AssignWasher(ctx, wash.ID, washer.ID)
	if err != nil {
		t.Fatalf("assign washer: %v", err)
	}
	firstStart := *assigned.StartTime
	f.clock.Set(f.clock.Now().Add(10 * time.Minute))
	reassigned, err := f.washes.AssignWasher(ctx, wash.ID, washer.ID)
	if err != nil {
		t.Fatalf("reassign washer: %v", err)
	}
	if !reassigned.StartTime.Equal(firstStart) {
		t.Fatalf("expected start time to be kept, got %s", reassigned.StartTime)
	}

	completed, err := f.washes.Complete(ctx, wash.ID, "sin novedad")
	if err != nil {
		t.Fatalf("complete wash: %v", err)
	}
	if !completed.Completed() {
		t.Fatalf("expected completed wash, got %+v", completed)
	}
	if _, errAgain := f.washes.Complete(ctx, wash.ID, ""); !errors.Is(errAgain, apperr.ErrConflict) {
		t.Fatalf("expected conflict on second completion, got %v", errAgain)
	}
}

func TestSubscriptionCreateRejectsOverlapAndMarksFrequent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	sub, err := f.subs.Create(ctx, SubscriptionRequest{Plate: "ghi789", VehicleType: "Carro", OwnerName: "Eva", MonthlyFee: 150000, StartDate: start})
	if err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	if !sub.EndDate.Equal(start.AddDate(0, 0, DefaultSubscriptionDays)) || sub.PaymentStatus != models.PaymentStatusPaid {
		t.Fatalf("unexpected subscription: %+v", sub)
	}
	vehicle, err := f.store.FindVehicleByPlate(ctx, "GHI789")
	if err != nil || vehicle == nil || !vehicle.IsFrequent {
		t.Fatalf("expected frequent vehicle, got %+v err=%v", vehicle, err)
	}

	_, errDup := f.subs.Create(ctx, SubscriptionRequest{Plate: "GHI789", VehicleType: "carro", OwnerName: "Eva", MonthlyFee: 150000, StartDate: start.AddDate(0, 0, 10)})
	if !errors.Is(errDup, apperr.ErrConflict) {
		t.Fatalf("expected conflict for overlapping subscription, got %v", errDup)
	}

	active, err := f.subs.FindActive(ctx, "ghi789")
	if err != nil || active == nil || active.ID != sub.ID {
		t.Fatalf("expected active subscription %d, got %+v err=%v", sub.ID, active, err)
	}
}

func TestAgreementValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.agrees.Create(ctx, AgreementRequest{CompanyName: "X", ContactName: "Y", StartDate: f.clock.Now(), DiscountPercentage: 120}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid percentage, got %v", err)
	}
	agreement, err := f.agrees.Create(ctx, AgreementRequest{CompanyName: "X", ContactName: "Y", StartDate: f.clock.Now(), DiscountPercentage: 10})
	if err != nil {
		t.Fatalf("create agreement: %v", err)
	}
	if _, errMissing := f.agrees.AddVehicle(ctx, agreement.ID, "NOPE01"); !errors.Is(errMissing, apperr.ErrNotFound) {
		t.Fatalf("expected NotFound for unknown vehicle, got %v", errMissing)
	}
	if _, errMissing := f.agrees.AddVehicle(ctx, 999, "NOPE01"); !errors.Is(errMissing, apperr.ErrNotFound) {
		t.Fatalf("expected NotFound for unknown agreement, got %v", errMissing)
	}
}
