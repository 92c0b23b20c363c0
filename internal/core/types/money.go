// Package types provides monetary and quantity arithmetic shared by all
// domain packages.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// Quantity is the amount of units on a sale line. It is a decimal so that
// fractional units can be represented, although the shop sells whole units.
type Quantity = decimal.Decimal

// CentPlaces is the number of fractional digits kept for persisted amounts.
const CentPlaces int32 = 2

// PaymentTolerance is the accepted absolute difference between the sum of
// payments and a sale total.
var PaymentTolerance = decimal.New(1, -2)

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// Cents rounds m to two decimal places (half away from zero).
func Cents(m Money) Money {
	return m.Round(CentPlaces)
}

// NonNegative returns m, or zero when m is negative.
func NonNegative(m Money) Money {
	if m.IsNegative() {
		return decimal.Zero
	}
	return m
}

// Sum adds all values.
func Sum(values ...Money) Money {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// WithinTolerance reports whether |a - b| <= PaymentTolerance.
func WithinTolerance(a, b Money) bool {
	return a.Sub(b).Abs().LessThanOrEqual(PaymentTolerance)
}

// SafeDiv divides a by b and returns zero when b is zero.
// Averages in reports are undefined for empty groups.
func SafeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}

// IsIntegral reports whether q has no fractional part.
func IsIntegral(q Quantity) bool {
	return q.Equal(q.Truncate(0))
}
