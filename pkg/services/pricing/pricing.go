package pricing

import (
	"math"

	"github.com/raman-shres/fba-dashboard/pkg/models/domain"
)

// FeeModel supplies the marketplace fee strategy. Both functions are
// injectable so a category-aware model can replace the flat placeholders
// without touching callers.
type FeeModel struct {
	// ReferralFeePct returns the marketplace's cut of the sale price.
	ReferralFeePct func(category *string) float64
	// FulfillmentFee returns the flat per-unit fulfillment cost.
	FulfillmentFee func(weightLb *float64, dimsIn *[3]float64) float64
}

// DefaultFeeModel returns the flat placeholder fees: 15% referral regardless
// of category, 4.00 fulfillment regardless of weight and dimensions.
func DefaultFeeModel() FeeModel {
	return FeeModel{
		ReferralFeePct: func(_ *string) float64 { return 0.15 },
		FulfillmentFee: func(_ *float64, _ *[3]float64) float64 { return 4.00 },
	}
}

// ProfitPerUnit is the per-unit profit after referral and fulfillment fees,
// rounded to 2 decimals.
func ProfitPerUnit(price, cost, referralPct, fulfillmentFee float64) float64 {
	fees := price*referralPct + fulfillmentFee
	return round(price-cost-fees, 2)
}

// ROI is profit divided by cost, rounded to 4 decimals.
// A zero cost returns 0.0 rather than dividing by zero.
func ROI(price, cost, referralPct, fulfillmentFee float64) float64 {
	if cost == 0 {
		return 0.0
	}
	profit := ProfitPerUnit(price, cost, referralPct, fulfillmentFee)
	return round(profit/cost, 4)
}

// RiskFromROI buckets ROI into risk bands. Bands are closed on their lower
// edge; a non-finite ROI maps to RiskUnknown.
func RiskFromROI(roi float64) domain.RiskBand {
	switch {
	case math.IsNaN(roi) || math.IsInf(roi, 0):
		return domain.RiskUnknown
	case roi >= 0.5:
		return domain.RiskLow
	case roi >= 0.2:
		return domain.RiskMedium
	default:
		return domain.RiskHigh
	}
}

func round(x float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(x*pow) / pow
}
