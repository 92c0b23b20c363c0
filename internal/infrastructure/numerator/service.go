// Package numerator provides the PostgreSQL implementation of sequential
// codes. It implements core/numerator.Generator.
package numerator

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	corenumerator "pdv/internal/core/numerator"
)

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// QuerierSource returns the querier bound to ctx: the open transaction if
// there is one, the pool otherwise.
type QuerierSource func(ctx context.Context) Querier

// Service increments counters stored in sys_sequences.
//
// The increment is an UPSERT ... RETURNING, so the row lock serializes
// concurrent callers. When called inside a transaction the counter rolls back
// together with it and no code is lost.
type Service struct {
	source QuerierSource
}

var _ corenumerator.Generator = (*Service)(nil)

// New creates a service that always uses the same querier.
func New(q Querier) *Service {
	return &Service{source: func(context.Context) Querier { return q }}
}

// NewWithSource creates a service that resolves the querier per call.
func NewWithSource(source QuerierSource) *Service {
	return &Service{source: source}
}

// GetNextNumber implements corenumerator.Generator.
func (s *Service) GetNextNumber(ctx context.Context, cfg corenumerator.Config, period time.Time) (string, error) {
	if s == nil || s.source == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	key := BuildKey(cfg, period)
	var num int64
	err := s.source(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, key).Scan(&num)
	if err != nil {
		return "", fmt.Errorf("next number for %s: %w", key, err)
	}

	return Format(cfg, period, num), nil
}

// SetNextNumber implements corenumerator.Generator.
func (s *Service) SetNextNumber(ctx context.Context, cfg corenumerator.Config, period time.Time, value int64) error {
	key := BuildKey(cfg, period)
	var result int64
	err := s.source(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = $2
		RETURNING current_val
	`, key, value).Scan(&result)
	if err != nil {
		return fmt.Errorf("set number for %s: %w", key, err)
	}
	return nil
}

// BuildKey creates the sequence key from config and period.
func BuildKey(cfg corenumerator.Config, period time.Time) string {
	switch cfg.ResetPeriod {
	case corenumerator.ResetMonthly:
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006_01"))
	case corenumerator.ResetYearly:
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006"))
	default:
		return cfg.Prefix
	}
}

// Format renders the counter value according to cfg.Layout.
func Format(cfg corenumerator.Config, period time.Time, num int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 5
	}

	switch cfg.Layout {
	case corenumerator.LayoutPeriodDigits:
		periodPart := period.Format("2006")
		if cfg.ResetPeriod == corenumerator.ResetMonthly {
			periodPart = period.Format("200601")
		}
		return fmt.Sprintf("%s%0*d", periodPart, padWidth, num)
	default:
		return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, period.Format("2006"), padWidth, num)
	}
}
