package pricing

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/grambazaar/storefront-backend/pkg/config"
)

// Schedule describes the delivery fee rule: free at or above FreeThreshold,
// otherwise BaseFee plus PerKm for every kilometre past IncludedKm.
type Schedule struct {
	FreeThreshold Money
	BaseFee       Money
	IncludedKm    float64
	PerKm         Money
}

// DefaultSchedule is ₹20 covering 2 km, ₹5 per extra km, free from ₹500.
var DefaultSchedule = Schedule{
	FreeThreshold: Rupees(500),
	BaseFee:       Rupees(20),
	IncludedKm:    2,
	PerKm:         Rupees(5),
}

// ScheduleFromConfig builds a Schedule from paise-denominated settings.
func ScheduleFromConfig(cfg config.PricingConfig) Schedule {
	return Schedule{
		FreeThreshold: Money(cfg.FreeDeliveryThresholdPaise),
		BaseFee:       Money(cfg.BaseFeePaise),
		IncludedKm:    cfg.IncludedKm,
		PerKm:         Money(cfg.PerKmPaise),
	}
}

// DeliveryFee applies DefaultSchedule.
func DeliveryFee(subtotal Money, distanceKm float64) Money {
	return DefaultSchedule.DeliveryFee(subtotal, distanceKm)
}

// DeliveryFee returns the surcharge for subtotal at distanceKm. Negative or
// unknown distances add no marginal fee.
func (s Schedule) DeliveryFee(subtotal Money, distanceKm float64) Money {
	if subtotal >= s.FreeThreshold {
		return 0
	}
	extra := distanceKm - s.IncludedKm
	if math.IsNaN(extra) || extra <= 0 {
		return s.BaseFee
	}
	if math.IsInf(extra, 1) {
		extra = math.MaxInt32
	}
	marginal := decimal.NewFromFloat(extra).
		Mul(decimal.NewFromInt(int64(s.PerKm))).
		Round(0).
		IntPart()
	return s.BaseFee + Money(marginal)
}
