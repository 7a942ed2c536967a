package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/pms-parking/parkwash/internal/apperr"
)

func TestCreateRateDeactivatesPreviousActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.addRate(t, "Carro ", 3000)
	second := f.addRate(t, "carro", 3500)

	active, err := f.rates.GetActiveRate(ctx, "CARRO", " Hour")
	if err != nil {
		t.Fatalf("get active rate: %v", err)
	}
	if active.ID != second.ID {
		t.Fatalf("expected newest rate %d active, got %d", second.ID, active.ID)
	}
	old, err := f.rates.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("get old rate: %v", err)
	}
	if old.IsActive {
		t.Fatalf("expected previous rate to be deactivated")
	}

	activeOnly, err := f.rates.List(ctx, true)
	if err != nil {
		t.Fatalf("list rates: %v", err)
	}
	if len(activeOnly) != 1 {
		t.Fatalf("expected one active rate, got %d", len(activeOnly))
	}
}

func TestUpdateRateReactivatesAndValidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.addRate(t, "moto", 1500)
	second := f.addRate(t, "moto", 1800)

	active := true
	updated, err := f.rates.UpdateRate(ctx, first.ID, RateInput{VehicleType: "moto", RateType: "hour", Price: 1600, IsActive: &active})
	if err != nil {
		t.Fatalf("update rate: %v", err)
	}
	if !updated.IsActive || updated.Price != 1600 {
		t.Fatalf("unexpected updated rate: %+v", updated)
	}
	sibling, _ := f.rates.GetByID(ctx, second.ID)
	if sibling.IsActive {
		t.Fatalf("expected sibling rate deactivated")
	}

	if _, errBad := f.rates.CreateRate(ctx, RateInput{VehicleType: "moto", RateType: "week", Price: 10}); !errors.Is(errBad, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid unit rejection, got %v", errBad)
	}
	if _, errNeg := f.rates.CreateRate(ctx, RateInput{VehicleType: "moto", RateType: "hour", Price: -1}); !errors.Is(errNeg, apperr.ErrInvalidInput) {
		t.Fatalf("expected negative price rejection, got %v", errNeg)
	}
	if _, errMissing := f.rates.GetByID(ctx, 999); !errors.Is(errMissing, apperr.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", errMissing)
	}
}
