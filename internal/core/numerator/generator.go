package numerator

import (
	"context"
	"time"
)

// Generator hands out sequential codes. Implementations must be atomic per
// sequence key so that concurrent callers never receive the same value.
type Generator interface {
	// GetNextNumber returns the next formatted code for the period.
	GetNextNumber(ctx context.Context, cfg Config, period time.Time) (string, error)

	// SetNextNumber moves the counter of the period to value (data imports).
	SetNextNumber(ctx context.Context, cfg Config, period time.Time, value int64) error
}
