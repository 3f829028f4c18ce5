package finance

import "github.com/shopspring/decimal"

// All money inside the engine is int64 minor units (cents). Decimal major
// units exist only at the HTTP boundary; these helpers are the only
// conversion points.

// ToCents converts a major-unit decimal amount ("50.00") to integer cents,
// rounding half away from zero.
func ToCents(major decimal.Decimal) int64 {
	return major.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FromCents converts integer cents back to an exact major-unit decimal.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// share computes round(amountCents * rate) in cents, rounding half away
// from zero. The decimal multiply keeps rate fractions like 0.0299 exact.
func share(amountCents int64, rate float64) int64 {
	return decimal.NewFromInt(amountCents).
		Mul(decimal.NewFromFloat(rate)).
		Round(0).
		IntPart()
}
