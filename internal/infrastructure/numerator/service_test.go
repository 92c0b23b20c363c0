package numerator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corenumerator "pdv/internal/core/numerator"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates sys_sequences: one counter per key.
type mockQuerier struct {
	mu       sync.Mutex
	counters map[string]int64
	err      error
}

func (m *mockQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return &mockRow{err: m.err}
	}
	if m.counters == nil {
		m.counters = make(map[string]int64)
	}
	key := args[0].(string)
	if len(args) == 2 {
		m.counters[key] = args[1].(int64)
	} else {
		m.counters[key]++
	}
	return &mockRow{val: m.counters[key]}
}

func TestGetNextNumber_SaleCode(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	oct := time.Date(2026, time.October, 18, 10, 0, 0, 0, time.UTC)

	first, err := svc.GetNextNumber(ctx, corenumerator.SaleCode, oct)
	require.NoError(t, err)
	assert.Equal(t, "202610000001", first)

	second, err := svc.GetNextNumber(ctx, corenumerator.SaleCode, oct)
	require.NoError(t, err)
	assert.Equal(t, "202610000002", second)
}

func TestGetNextNumber_ResetsEachMonth(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	oct := time.Date(2026, time.October, 31, 23, 0, 0, 0, time.UTC)
	nov := time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.GetNextNumber(ctx, corenumerator.SaleCode, oct)
	require.NoError(t, err)
	_, err = svc.GetNextNumber(ctx, corenumerator.SaleCode, oct)
	require.NoError(t, err)

	code, err := svc.GetNextNumber(ctx, corenumerator.SaleCode, nov)
	require.NoError(t, err)
	assert.Equal(t, "202611000001", code)
}

func TestGetNextNumber_ConcurrentUniqueAndIncreasing(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	period := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)

	const workers = 50
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		codes = make(map[string]struct{})
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := svc.GetNextNumber(ctx, corenumerator.SaleCode, period)
			assert.NoError(t, err)
			mu.Lock()
			codes[code] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, codes, workers)
	_, last := codes["202603000050"]
	assert.True(t, last)
}

func TestGetNextNumber_Error(t *testing.T) {
	svc := New(&mockQuerier{err: errors.New("db down")})
	_, err := svc.GetNextNumber(context.Background(), corenumerator.SaleCode, time.Now())
	assert.ErrorContains(t, err, "db down")
}

func TestSetNextNumber(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	period := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, svc.SetNextNumber(ctx, corenumerator.SaleCode, period, int64(41)))
	code, err := svc.GetNextNumber(ctx, corenumerator.SaleCode, period)
	require.NoError(t, err)
	assert.Equal(t, "202601000042", code)
}

func TestBuildKeyAndFormat(t *testing.T) {
	period := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "sale_2026_02", BuildKey(corenumerator.SaleCode, period))
	assert.Equal(t, "inv_2026", BuildKey(corenumerator.Config{Prefix: "inv", ResetPeriod: corenumerator.ResetYearly}, period))
	assert.Equal(t, "inv", BuildKey(corenumerator.Config{Prefix: "inv"}, period))

	assert.Equal(t, "INV-2026-00007", Format(corenumerator.Config{Prefix: "INV"}, period, 7))
}
