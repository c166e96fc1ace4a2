package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in paise. All pricing arithmetic stays in integers.
type Money int64

const paisePerRupee = 100

var hundred = decimal.NewFromInt(paisePerRupee)

// Rupees builds a Money value from whole rupees.
func Rupees(r int64) Money {
	return Money(r * paisePerRupee)
}

// FromDecimal converts a rupee amount to paise, rounding half away from zero.
func FromDecimal(rupees decimal.Decimal) Money {
	return Money(rupees.Mul(hundred).Round(0).IntPart())
}

// ParseRupees parses a rupee string such as "49.50" or "₹120".
func ParseRupees(raw string) (Money, error) {
	clean := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "₹"))
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("invalid rupee amount %q: %w", raw, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("rupee amount %q must not be negative", raw)
	}
	return FromDecimal(d), nil
}

// Paise returns the raw minor-unit value.
func (m Money) Paise() int64 {
	return int64(m)
}

// Decimal returns the amount in rupees.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// String renders the amount in rupees, e.g. ₹45.00.
func (m Money) String() string {
	return "₹" + m.Decimal().StringFixed(2)
}

// Times multiplies a unit price by a quantity.
func (m Money) Times(qty int) Money {
	return m * Money(qty)
}
