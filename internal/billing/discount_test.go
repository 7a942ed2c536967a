package billing

import (
	"testing"

	"github.com/pms-parking/parkwash/internal/models"
)

func TestApplyDiscount(t *testing.T) {
	subID := uint64(9)
	special := int64(1200)
	percentage := &models.Agreement{Status: models.AgreementStatusActive, DiscountPercentage: 25}
	both := &models.Agreement{Status: models.AgreementStatusActive, DiscountPercentage: 50, SpecialRate: &special}
	inactive := &models.Agreement{Status: models.AgreementStatusExpired, DiscountPercentage: 50}

	cases := []struct {
		name      string
		sub       *uint64
		agreement *models.Agreement
		standard  int64
		hours     int64
		want      int64
		rule      string
	}{
		{name: "standard", standard: 6000, hours: 2, want: 6000, rule: RuleStandard},
		{name: "subscription wins", sub: &subID, agreement: both, standard: 6000, hours: 2, want: 0, rule: RuleSubscription},
		{name: "percentage", agreement: percentage, standard: 6000, hours: 2, want: 4500, rule: RulePercentage},
		{name: "percentage truncates", agreement: percentage, standard: 3333, hours: 1, want: 2499, rule: RulePercentage},
		{name: "special rate wins", agreement: both, standard: 6000, hours: 2, want: 2400, rule: RuleSpecialRate},
		{name: "special rate zero hours", agreement: both, standard: 0, hours: 0, want: 0, rule: RuleSpecialRate},
		{name: "inactive agreement ignored", agreement: inactive, standard: 6000, hours: 2, want: 6000, rule: RuleStandard},
	}
	for _, tc := range cases {
		got := ApplyDiscount(tc.sub, tc.agreement, tc.standard, tc.hours)
		if got.ParkingCost != tc.want || got.Rule != tc.rule {
			t.Fatalf("%s: got %d (%s), want %d (%s)", tc.name, got.ParkingCost, got.Rule, tc.want, tc.rule)
		}
	}
}

func TestFreeMinutesLookup(t *testing.T) {
	table := DefaultFreeMinutes()
	if got := table.Lookup("Carro", "Lavado con cera"); got != 45 {
		t.Fatalf("expected 45, got %d", got)
	}
	if got := table.Lookup(" MOTO ", "lavado general"); got != 20 {
		t.Fatalf("expected 20, got %d", got)
	}
	if got := table.Lookup("bus", "Lavado general"); got != 0 {
		t.Fatalf("expected 0 for unknown category, got %d", got)
	}
	if got := table.Lookup("camion", "Encerado"); got != 0 {
		t.Fatalf("expected 0 for unknown service, got %d", got)
	}
}
