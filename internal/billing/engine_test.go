package billing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pms-parking/parkwash/internal/apperr"
	"github.com/pms-parking/parkwash/internal/models"
)

func TestBilledHours(t *testing.T) {
	cases := []struct {
		minutes int64
		want    int64
	}{
		{minutes: 0, want: 0},
		{minutes: 1, want: 1},
		{minutes: 59, want: 1},
		{minutes: 60, want: 1},
		{minutes: 61, want: 2},
		{minutes: 105, want: 2},
		{minutes: 180, want: 3},
	}
	for _, tc := range cases {
		if got := BilledHours(tc.minutes); got != tc.want {
			t.Fatalf("BilledHours(%d)=%d, want %d", tc.minutes, got, tc.want)
		}
	}
}

func TestElapsedMinutesCountsStartedMinutes(t *testing.T) {
	entry := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	if got := ElapsedMinutes(entry, entry.Add(30*time.Second)); got != 1 {
		t.Fatalf("expected 1 started minute, got %d", got)
	}
	if got := ElapsedMinutes(entry, entry.Add(105*time.Minute)); got != 105 {
		t.Fatalf("expected 105 minutes, got %d", got)
	}
	if got := ElapsedMinutes(entry, entry.Add(-time.Minute)); got != 0 {
		t.Fatalf("expected clock skew to clamp to 0, got %d", got)
	}
}

func TestSettleStandardStay(t *testing.T) {
	f := newFixture(t)
	f.addRate(t, "Carro", 3000)
	record := f.admit(t, " abc123 ", "CARRO", 0)
	if record.TotalCost != 0 || record.PaymentStatus != models.PaymentStatusPending {
		t.Fatalf("expected pending record with zero cost, got %+v", record)
	}

	f.clock.Set(f.clock.Now().Add(105 * time.Minute))
	settled, err := f.engine.Settle(context.Background(), "ABC123", "salida normal")
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if settled.Quote.BilledHours != 2 {
		t.Fatalf("expected 2 billed hours, got %d", settled.Quote.BilledHours)
	}
	if settled.Record.TotalCost != 6000 {
		t.Fatalf("expected total 6000, got %d", settled.Record.TotalCost)
	}
	if settled.Record.PaymentStatus != models.PaymentStatusPaid || settled.Record.ExitTime == nil {
		t.Fatalf("expected paid closed record, got %+v", settled.Record)
	}

	if _, errAgain := f.engine.Settle(context.Background(), "ABC123", ""); !errors.Is(errAgain, apperr.ErrNotParked) {
		t.Fatalf("expected NotParked on second exit, got %v", errAgain)
	}
}

func TestSettleWithLinkedWashGrantsFreeMinutes(t *testing.T) {
	f := newFixture(t)
	f.addRate(t, "carro", 3000)
	f.admit(t, "ABC123", "carro", 0)

	wash, errWash := f.washes.Create(context.Background(), WashRequest{
		Plate:       "abc123",
		VehicleType: "carro",
		OwnerName:   "Ana Torres",
		ServiceType: "Lavado con cera",
		Price:       25000,
		AdminID:     1,
	})
	if errWash != nil {
		t.Fatalf("create wash: %v", errWash)
	}
	if wash.ParkingRecordID == nil {
		t.Fatalf("expected wash to link to the open stay")
	}

	f.clock.Set(f.clock.Now().Add(105 * time.Minute))
	settled, err := f.engine.Settle(context.Background(), "ABC123", "")
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if settled.Quote.FreeMinutes != 45 || settled.Quote.BillableMinutes != 60 {
		t.Fatalf("expected 45 free and 60 billable minutes, got %+v", settled.Quote)
	}
	if settled.Record.TotalCost != 3000 {
		t.Fatalf("expected total 3000, got %d", settled.Record.TotalCost)
	}
}

func TestFreeMinutesFollowPricedCategory(t *testing.T) {
	f := newFixture(t)
	f.addRate(t, "carro", 3000)
	f.addRate(t, "moto", 1000)
	f.admit(t, "ABC123", "carro", 0)
	if _, errSettle := f.engine.Settle(context.Background(), "ABC123", ""); errSettle != nil {
		t.Fatalf("settle first stay: %v", errSettle)
	}

	f.clock.Set(f.clock.Now().Add(time.Hour))
	f.admit(t, "ABC123", "moto", 0)
	if _, errWash := f.washes.Create(context.Background(), WashRequest{
		Plate:       "ABC123",
		VehicleType: "moto",
		OwnerName:   "Ana Torres",
		ServiceType: "Lavado general",
		Price:       10000,
		AdminID:     1,
	}); errWash != nil {
		t.Fatalf("create wash: %v", errWash)
	}

	f.clock.Set(f.clock.Now().Add(85 * time.Minute))
	settled, err := f.engine.Settle(context.Background(), "ABC123", "")
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if settled.Quote.FreeMinutes != 20 || settled.Quote.BilledHours != 2 {
		t.Fatalf("expected moto grace of 20 minutes and 2 billed hours, got %+v", settled.Quote)
	}
	if settled.Record.TotalCost != 2000 {
		t.Fatalf("expected total 2000, got %d", settled.Record.TotalCost)
	}
}

func TestSettleFullyCoveredByFreeMinutesCostsNothing(t *testing.T) {
	f := newFixture(t)
	f.addRate(t, "carro", 3000)
	f.admit(t, "ABC123", "carro", 0)
	if _, errWash := f.washes.Create(context.Background(), WashRequest{
		Plate: "ABC123", VehicleType: "carro", OwnerName: "Ana", ServiceType: "polishado", Price: 50000, AdminID: 1,
	}); errWash != nil {
		t.Fatalf("create wash: %v", errWash)
	}

	f.clock.Set(f.clock.Now().Add(40 * time.Minute))
	settled, err := f.engine.Settle(context.Background(), "ABC123", "")
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if settled.Quote.BilledHours != 0 || settled.Record.TotalCost != 0 {
		t.Fatalf("expected zero billed hours and cost, got %+v", settled.Quote)
	}
}

func TestSettleAppliesAgreementPercentage(t *testing.T) {
	f := newFixture(t)
	f.addRate(t, "carro", 3000)
	f.admit(t, "ABC123", "carro", 0)

	agreement, errCreate := f.agrees.Create(context.Background(), AgreementRequest{
		CompanyName:        "Transportes Andinos",
		ContactName:        "Luis",
		StartDate:          f.clock.Now(),
		DiscountPercentage: 25,
	})
	if errCreate != nil {
		t.Fatalf("create agreement: %v", errCreate)
	}
	if _, errAdd := f.agrees.AddVehicle(context.Background(), agreement.ID, "abc123"); errAdd != nil {
		t.Fatalf("add vehicle: %v", errAdd)
	}

	f.clock.Set(f.clock.Now().Add(105 * time.Minute))
	settled, err := f.engine.Settle(context.Background(), "ABC123", "")
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if settled.Record.TotalCost != 4500 || settled.Quote.Rule != RulePercentage {
		t.Fatalf("expected 4500 by percentage, got %d (%s)", settled.Record.TotalCost, settled.Quote.Rule)
	}
}

func TestSettleSpecialRateWinsOverPercentage(t *testing.T) {
	f := newFixture(t)
	f.addRate(t, "carro", 3000)
	f.admit(t, "ABC123", "carro", 0)

	special := int64(1000)
	agreement, errCreate := f.agrees.Create(context.Background(), AgreementRequest{
		CompanyName:        "Transportes Andinos",
		ContactName:        "Luis",
		StartDate:          f.clock.Now(),
		DiscountPercentage: 50,
		SpecialRate:        &special,
	})
	if errCreate != nil {
		t.Fatalf("create agreement: %v", errCreate)
	}
	if _, errAdd := f.agrees.AddVehicle(context.Background(), agreement.ID, "ABC123"); errAdd != nil {
		t.Fatalf("add vehicle: %v", errAdd)
	}
	if _, errDup := f.agrees.AddVehicle(context.Background(), agreement.ID, "ABC123"); !errors.Is(errDup, apperr.ErrConflict) {
		t.Fatalf("expected conflict on duplicate link, got %v", errDup)
	}

	f.clock.Set(f.clock.Now().Add(105 * time.Minute))
	settled, err := f.engine.Settle(context.Background(), "ABC123", "")
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if settled.Record.TotalCost != 2000 || settled.Quote.Rule != RuleSpecialRate {
		t.Fatalf("expected 2000 by special rate, got %d (%s)", settled.Record.TotalCost, settled.Quote.Rule)
	}
}

func TestSettleSubscriptionCapturedAtEntryIgnoresAgreement(t *testing.T) {
	f := newFixture(t)
	f.addRate(t, "moto", 2000)
	if _, errSub := f.subs.Create(context.Background(), SubscriptionRequest{
		Plate:       "moto77",
		VehicleType: "moto",
		OwnerName:   "Carla",
		MonthlyFee:  90000,
		StartDate:   f.clock.Now(),
	}); errSub != nil {
		t.Fatalf("create subscription: %v", errSub)
	}
	record := f.admit(t, "MOTO77", "moto", 2)
	if record.SubscriptionID == nil {
		t.Fatalf("expected subscription captured at entry")
	}
	if record.HelmetCharge != 200000 {
		t.Fatalf("expected helmet charge 200000, got %d", record.HelmetCharge)
	}

	agreement, errCreate := f.agrees.Create(context.Background(), AgreementRequest{
		CompanyName: "Mensajeria Rapida", ContactName: "Pedro", StartDate: f.clock.Now(), DiscountPercentage: 10,
	})
	if errCreate != nil {
		t.Fatalf("create agreement: %v", errCreate)
	}
	if _, errAdd := f.agrees.AddVehicle(context.Background(), agreement.ID, "MOTO77"); errAdd != nil {
		t.Fatalf("add vehicle: %v", errAdd)
	}

	// Past the subscription end: entitlement stays frozen at entry.
	f.clock.Set(f.clock.Now().AddDate(0, 0, 40))
	settled, err := f.engine.Settle(context.Background(), "MOTO77", "")
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if settled.Quote.ParkingCost != 0 || settled.Quote.Rule != RuleSubscription {
		t.Fatalf("expected subscription to zero parking cost, got %+v", settled.Quote)
	}
	if settled.Record.TotalCost != 200000 {
		t.Fatalf("expected only helmet charge, got %d", settled.Record.TotalCost)
	}
}

func TestSettleUsesRateCapturedAtEntry(t *testing.T) {
	f := newFixture(t)
	f.addRate(t, "carro", 3000)
	f.admit(t, "ABC123", "carro", 0)
	f.addRate(t, "carro", 9000)

	f.clock.Set(f.clock.Now().Add(30 * time.Minute))
	settled, err := f.engine.Settle(context.Background(), "ABC123", "")
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if settled.Record.TotalCost != 3000 {
		t.Fatalf("expected entry rate 3000, got %d", settled.Record.TotalCost)
	}
}

func TestAdmitFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.engine.Admit(ctx, AdmitRequest{Plate: "ABC123", VehicleType: "bus", OwnerName: "Ana", AdminID: 1}); !errors.Is(err, apperr.ErrNoRateConfigured) {
		t.Fatalf("expected NoRateConfigured, got %v", err)
	}
	f.addRate(t, "carro", 3000)
	if _, err := f.engine.Admit(ctx, AdmitRequest{Plate: "ABC123", VehicleType: "carro", OwnerName: "Ana", AdminID: 2}); !errors.Is(err, apperr.ErrNoActiveShift) {
		t.Fatalf("expected NoActiveShift, got %v", err)
	}
	if _, err := f.engine.Admit(ctx, AdmitRequest{Plate: "ABC123", VehicleType: "carro", OwnerName: "Ana", AdminID: 1, HelmetCount: -1}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}

	f.admit(t, "ABC123", "carro", 0)
	_, err := f.engine.Admit(ctx, AdmitRequest{Plate: "abc123", VehicleType: "carro", OwnerName: "Ana", AdminID: 1})
	if !errors.Is(err, apperr.ErrAlreadyParked) || !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected AlreadyParked conflict, got %v", err)
	}

	if _, errSettle := f.engine.Settle(ctx, "ZZZ999", ""); !errors.Is(errSettle, apperr.ErrNotFound) {
		t.Fatalf("expected NotFound for unknown plate, got %v", errSettle)
	}
}

func TestConcurrentAdmitLeavesOneOpenRecord(t *testing.T) {
	f := newFixture(t)
	f.addRate(t, "carro", 3000)

	var wg sync.WaitGroup
	results := make(chan error, 6)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.Admit(context.Background(), AdmitRequest{Plate: "ABC123", VehicleType: "carro", OwnerName: "Ana", AdminID: 1})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	admitted := 0
	for err := range results {
		switch {
		case err == nil:
			admitted++
		case errors.Is(err, apperr.ErrAlreadyParked):
		default:
			t.Fatalf("unexpected admit error: %v", err)
		}
	}
	if admitted != 1 {
		t.Fatalf("expected exactly one admission, got %d", admitted)
	}
}

func TestPreviewLeavesRecordOpen(t *testing.T) {
	f := newFixture(t)
	f.addRate(t, "carro", 3000)
	f.admit(t, "PRV001", "carro", 1)

	f.clock.Set(f.clock.Now().Add(61 * time.Minute))
	preview, err := f.engine.Preview(context.Background(), "prv001")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.Quote.BilledHours != 2 || preview.Quote.TotalCost != 6000+DefaultHelmetFee {
		t.Fatalf("unexpected preview quote %+v", preview.Quote)
	}
	if preview.Record.ExitTime != nil || preview.Record.Vehicle.Plate != "PRV001" {
		t.Fatalf("expected open record with vehicle, got %+v", preview.Record)
	}

	settled, err := f.engine.Settle(context.Background(), "PRV001", "")
	if err != nil {
		t.Fatalf("settle after preview: %v", err)
	}
	if settled.Quote.TotalCost != preview.Quote.TotalCost {
		t.Fatalf("expected settle to match preview, got %d vs %d", settled.Quote.TotalCost, preview.Quote.TotalCost)
	}
	if _, err := f.engine.Preview(context.Background(), "PRV001"); !errors.Is(err, apperr.ErrNotParked) {
		t.Fatalf("expected not parked after settle, got %v", err)
	}
}
