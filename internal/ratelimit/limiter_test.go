package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cre-scout/loopnet-mcp/internal/metrics"
)

func TestLimiter_FirstCallImmediate(t *testing.T) {
	t.Parallel()
	metrics.Init()

	l := New(time.Second)
	start := time.Now()
	require.NoError(t, l.Wait(context.Background()))
	require.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestLimiter_SpacesConsecutiveCalls(t *testing.T) {
	t.Parallel()
	metrics.Init()

	const delay = 100 * time.Millisecond
	l := New(delay)
	ctx := context.Background()

	require.NoError(t, l.Wait(ctx))
	start := time.Now()
	require.NoError(t, l.Wait(ctx))
	require.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestLimiter_ZeroDelayNeverBlocks(t *testing.T) {
	t.Parallel()
	metrics.Init()

	l := New(0)
	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, l.Wait(ctx))
	}
	require.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestLimiter_CanceledContext(t *testing.T) {
	t.Parallel()
	metrics.Init()

	l := New(time.Hour)
	ctx := context.Background()
	require.NoError(t, l.Wait(ctx))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	require.Error(t, l.Wait(canceled))
}
