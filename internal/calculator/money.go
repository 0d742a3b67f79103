package calculator

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Tolerance is the largest difference between a custom split and its total
// that is still accepted. Callers usually derive shares with their own
// floating point math, so one cent of slack is allowed.
var Tolerance = decimal.New(1, -2)

// RoundCents rounds d to the nearest cent, half away from zero.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ToCents converts d to integer minor units, rounding to the nearest cent first.
func ToCents(d decimal.Decimal) int64 {
	return RoundCents(d).Shift(2).IntPart()
}

var (
	minCents = decimal.NewFromInt(math.MinInt64)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

// CheckedCents is ToCents for values that are about to be stored: it fails
// with ErrAmountOutOfRange instead of wrapping around when d does not fit.
func CheckedCents(d decimal.Decimal) (int64, error) {
	cents := RoundCents(d).Shift(2)
	if cents.LessThan(minCents) || cents.GreaterThan(maxCents) {
		return 0, fmt.Errorf("%w: %s", ErrAmountOutOfRange, d)
	}
	return cents.IntPart(), nil
}

// FromCents converts integer minor units back to a decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// floorCents returns floor(d*100 / n) expressed as an amount, i.e. d divided
// by n and truncated towards negative infinity at cent precision.
func floorCents(d decimal.Decimal, n int) decimal.Decimal {
	q, r := d.Shift(2).QuoRem(decimal.NewFromInt(int64(n)), 0)
	if r.IsNegative() {
		q = q.Sub(decimal.NewFromInt(1))
	}
	return q.Shift(-2)
}

// Sum adds up the amounts of the given shares.
func Sum(shares []Share) decimal.Decimal {
	total := decimal.Zero
	for _, s := range shares {
		total = total.Add(s.Amount)
	}
	return total
}
