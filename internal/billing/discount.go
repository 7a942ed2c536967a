package billing

import (
	"github.com/pms-parking/parkwash/internal/models"
	"github.com/shopspring/decimal"
)

// Charge is the outcome of the discount decision for one stay.
type Charge struct {
	ParkingCost int64  // Parking cost after overrides, minor units.
	Rule        string // Rule that produced the cost.
}

// Discount rule names reported on Charge.
const (
	RuleSubscription = "subscription"
	RuleSpecialRate  = "agreement_special_rate"
	RulePercentage   = "agreement_percentage"
	RuleStandard     = "standard"
)

// ApplyDiscount decides the parking cost of a stay. A captured subscription wins
// over any agreement; an agreement special rate wins over its percentage.
func ApplyDiscount(subscriptionID *uint64, agreement *models.Agreement, standardCost int64, billedHours int64) Charge {
	if subscriptionID != nil {
		return Charge{ParkingCost: 0, Rule: RuleSubscription}
	}
	if agreement != nil && agreement.Status == models.AgreementStatusActive {
		if agreement.SpecialRate != nil {
			return Charge{ParkingCost: *agreement.SpecialRate * billedHours, Rule: RuleSpecialRate}
		}
		if agreement.DiscountPercentage > 0 {
			return Charge{ParkingCost: discounted(standardCost, agreement.DiscountPercentage), Rule: RulePercentage}
		}
	}
	return Charge{ParkingCost: standardCost, Rule: RuleStandard}
}

// discounted returns floor(cost * (100 - pct) / 100).
func discounted(cost int64, pct int) int64 {
	if pct >= 100 {
		return 0
	}
	factor := decimal.NewFromInt(int64(100 - pct)).Div(decimal.NewFromInt(100))
	return decimal.NewFromInt(cost).Mul(factor).Floor().IntPart()
}
