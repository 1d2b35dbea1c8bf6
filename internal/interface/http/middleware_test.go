package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/hiking-guide/internal/infra/config"
)

func TestIPRateLimiterSweepsIdleVisitorsPeriodically(t *testing.T) {
	clock := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	limiter := newIPRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 1})
	limiter.now = func() time.Time { return clock }
	limiter.lastSweep = clock

	require.True(t, limiter.allow("198.51.100.1"))
	require.True(t, limiter.allow("198.51.100.2"))

	clock = clock.Add(time.Minute)
	require.True(t, limiter.allow("198.51.100.2"))
	require.Len(t, limiter.visitors, 2)

	// Past staleAfter for .1 but before the next sweep is due, nothing is dropped.
	clock = clock.Add(limiter.staleAfter)
	limiter.lastSweep = clock.Add(-limiter.cleanEvery + time.Second)
	require.True(t, limiter.allow("198.51.100.3"))
	require.Len(t, limiter.visitors, 3)

	clock = clock.Add(time.Second)
	require.True(t, limiter.allow("198.51.100.3"))
	require.Len(t, limiter.visitors, 1)
	require.Contains(t, limiter.visitors, "198.51.100.3")
	require.Equal(t, clock, limiter.lastSweep)
}

func TestIPRateLimiterTracksVisitorsSeparately(t *testing.T) {
	limiter := newIPRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1})

	require.True(t, limiter.allow("198.51.100.1"))
	require.False(t, limiter.allow("198.51.100.1"))
	require.True(t, limiter.allow("198.51.100.2"))
}
