package pricing

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/promo-pricing-service/internal/models"
)

var hundred = decimal.NewFromInt(100)

type discountCalculator func(value, price decimal.Decimal) decimal.Decimal

var discountCalculators = map[models.DiscountKind]discountCalculator{
	models.DiscountPercentage: func(value, price decimal.Decimal) decimal.Decimal {
		return price.Mul(value).Div(hundred)
	},
	models.DiscountFixed: func(value, _ decimal.Decimal) decimal.Decimal {
		return value
	},
}

// Amount returns the raw discount o would take off price. The amount is not
// clamped to the price; callers decide how to floor the final price.
func Amount(o models.Offer, price float64) float64 {
	amt, ok := amount(o, price)
	if !ok {
		return 0
	}
	return toFloat(amt)
}

func amount(o models.Offer, price float64) (decimal.Decimal, bool) {
	calc, ok := discountCalculators[o.DiscountKind]
	if !ok || !finite(price) || !finite(o.DiscountValue) {
		return decimal.Zero, false
	}
	return calc(decimal.NewFromFloat(o.DiscountValue), decimal.NewFromFloat(price)), true
}

// toFloat converts d, saturating at ±math.MaxFloat64 instead of overflowing
// to infinity.
func toFloat(d decimal.Decimal) float64 {
	f := d.InexactFloat64()
	switch {
	case math.IsInf(f, 1):
		return math.MaxFloat64
	case math.IsInf(f, -1):
		return -math.MaxFloat64
	}
	return f
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
