package settlement

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/pms-parking/parkwash/internal/apperr"
	"github.com/pms-parking/parkwash/internal/db"
	"github.com/pms-parking/parkwash/internal/models"
	"github.com/pms-parking/parkwash/internal/store"
)

func newTestService(t *testing.T, now time.Time) (*Service, *store.Store) {
	t.Helper()
	conn, errOpen := db.Open("file:" + filepath.Join(t.TempDir(), "settlement.db"))
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	st := store.New(conn)
	return New(st, func() time.Time { return now }), st
}

func TestCloseTotalsPaidIncomeAndExpenses(t *testing.T) {
	now := time.Date(2026, 2, 3, 18, 0, 0, 0, time.UTC)
	svc, st := newTestService(t, now)
	ctx := context.Background()

	shift, err := svc.Open(ctx, 7, 50000, "caja inicial")
	if err != nil {
		t.Fatalf("open shift: %v", err)
	}
	if _, errDup := svc.Open(ctx, 7, 0, ""); !errors.Is(errDup, apperr.ErrConflict) {
		t.Fatalf("expected conflict for second open shift, got %v", errDup)
	}

	shiftID := shift.ID
	washes := []models.WashingService{
		{VehicleID: 1, ShiftID: &shiftID, AdminID: 7, ServiceType: "Lavado general", ServiceDate: now, Price: 20000, PaymentStatus: models.PaymentStatusPaid},
		{VehicleID: 2, ShiftID: &shiftID, AdminID: 7, ServiceType: "Lavado general", ServiceDate: now, Price: 15000, PaymentStatus: models.PaymentStatusPending},
	}
	for i := range washes {
		if errCreate := st.CreateWash(ctx, &washes[i]); errCreate != nil {
			t.Fatalf("create wash: %v", errCreate)
		}
	}
	exit := now
	records := []models.ParkingRecord{
		{VehicleID: 1, ShiftID: shiftID, AdminID: 7, EntryTime: now.Add(-2 * time.Hour), ExitTime: &exit, ParkingRateID: 1, TotalCost: 6000, PaymentStatus: models.PaymentStatusPaid},
		{VehicleID: 2, ShiftID: shiftID, AdminID: 7, EntryTime: now.Add(-time.Hour), ParkingRateID: 1, PaymentStatus: models.PaymentStatusPending},
	}
	for i := range records {
		if errCreate := st.CreateParkingRecord(ctx, &records[i]); errCreate != nil {
			t.Fatalf("create record: %v", errCreate)
		}
	}
	if _, errExpense := svc.RegisterExpense(ctx, ExpenseRequest{ExpenseType: "insumos", Amount: 8000, Description: "jabon", ShiftID: &shiftID}); errExpense != nil {
		t.Fatalf("register expense: %v", errExpense)
	}
	if _, errExpense := svc.RegisterExpense(ctx, ExpenseRequest{ExpenseType: "otros", Amount: 1000, Description: "sin turno"}); errExpense != nil {
		t.Fatalf("register expense without shift: %v", errExpense)
	}

	closed, err := svc.Close(ctx, 7, "")
	if err != nil {
		t.Fatalf("close shift: %v", err)
	}
	if closed.TotalIncome != 26000 {
		t.Fatalf("expected income 26000, got %d", closed.TotalIncome)
	}
	if closed.TotalExpenses != 8000 {
		t.Fatalf("expected expenses 8000, got %d", closed.TotalExpenses)
	}
	if closed.FinalCash == nil || *closed.FinalCash != 68000 {
		t.Fatalf("expected final cash 68000, got %v", closed.FinalCash)
	}
	if closed.EndTime == nil || !closed.EndTime.Equal(now) {
		t.Fatalf("expected end time %s, got %v", now, closed.EndTime)
	}

	if _, errAgain := svc.Close(ctx, 7, ""); !errors.Is(errAgain, apperr.ErrNoActiveShift) {
		t.Fatalf("expected NoActiveShift after close, got %v", errAgain)
	}
	if _, errLate := svc.RegisterExpense(ctx, ExpenseRequest{ExpenseType: "otros", Amount: 1, Description: "tarde", ShiftID: &shiftID}); !errors.Is(errLate, apperr.ErrConflict) {
		t.Fatalf("expected conflict for expense on closed shift, got %v", errLate)
	}
}

func TestCloseAllowsNegativeFinalCash(t *testing.T) {
	now := time.Date(2026, 2, 3, 18, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)
	ctx := context.Background()

	shift, err := svc.Open(ctx, 3, 1000, "")
	if err != nil {
		t.Fatalf("open shift: %v", err)
	}
	shiftID := shift.ID
	if _, errExpense := svc.RegisterExpense(ctx, ExpenseRequest{ExpenseType: "arriendo", Amount: 5000, Description: "pago", ShiftID: &shiftID}); errExpense != nil {
		t.Fatalf("register expense: %v", errExpense)
	}
	closed, err := svc.Close(ctx, 3, "")
	if err != nil {
		t.Fatalf("close shift: %v", err)
	}
	if *closed.FinalCash != -4000 {
		t.Fatalf("expected final cash -4000, got %d", *closed.FinalCash)
	}
}

func TestOpenRejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService(t, time.Now().UTC())
	if _, err := svc.Open(context.Background(), 1, -5, ""); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := svc.Close(context.Background(), 1, ""); !errors.Is(err, apperr.ErrNoActiveShift) {
		t.Fatalf("expected NoActiveShift, got %v", err)
	}
}
