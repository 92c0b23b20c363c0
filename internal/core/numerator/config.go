// Package numerator provides domain contracts for sequential document codes.
package numerator

// ResetPeriod controls when a sequence restarts from 1.
type ResetPeriod string

const (
	ResetNever   ResetPeriod = "never"
	ResetYearly  ResetPeriod = "year"
	ResetMonthly ResetPeriod = "month"
)

// Layout selects how the counter value is rendered.
type Layout int

const (
	// LayoutDashed renders PREFIX-YYYY-00001.
	LayoutDashed Layout = iota
	// LayoutPeriodDigits renders the period followed by the padded counter,
	// e.g. 202610000001 for a monthly sequence.
	LayoutPeriodDigits
)

// Config holds numbering configuration.
type Config struct {
	// Prefix identifies the sequence (and is printed by LayoutDashed)
	Prefix string

	// PadWidth is the minimum counter width (default 5)
	PadWidth int

	ResetPeriod ResetPeriod
	Layout      Layout
}

// SaleCode is the configuration of sale codes: YYYYMM + 6-digit counter that
// restarts every month.
var SaleCode = Config{
	Prefix:      "sale",
	PadWidth:    6,
	ResetPeriod: ResetMonthly,
	Layout:      LayoutPeriodDigits,
}
