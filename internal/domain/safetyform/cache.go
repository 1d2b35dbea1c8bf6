package safetyform

import (
	"context"
	"log/slog"
	"time"

	"github.com/yanqian/hiking-guide/internal/domain/trail"
	"github.com/yanqian/hiking-guide/pkg/metrics"
)

// TrailStore caches the trail listing between page loads.
type TrailStore interface {
	Get(ctx context.Context) ([]trail.Trail, bool, error)
	Save(ctx context.Context, trails []trail.Trail, ttl time.Duration) error
}

// CachedAPI serves ListTrails from a TrailStore when it can.
type CachedAPI struct {
	api    TrailAPI
	store  TrailStore
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedAPI decorates api with a trail listing cache. A zero ttl
// disables caching.
func NewCachedAPI(api TrailAPI, store TrailStore, ttl time.Duration, logger *slog.Logger) *CachedAPI {
	return &CachedAPI{
		api:    api,
		store:  store,
		ttl:    ttl,
		logger: logger.With("component", "safetyform.cache"),
	}
}

// ListTrails implements TrailAPI.
func (c *CachedAPI) ListTrails(ctx context.Context) ([]trail.Trail, error) {
	if c.ttl <= 0 || c.store == nil {
		return c.api.ListTrails(ctx)
	}
	cached, ok, err := c.store.Get(ctx)
	switch {
	case err != nil:
		metrics.ObserveTrailCache("error")
		c.logger.Warn("trail cache lookup failed", "error", err)
	case ok:
		metrics.ObserveTrailCache("hit")
		return cached, nil
	default:
		metrics.ObserveTrailCache("miss")
	}

	trails, err := c.api.ListTrails(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.store.Save(ctx, trails, c.ttl); err != nil {
		c.logger.Warn("trail cache save failed", "error", err)
	}
	return trails, nil
}

// Recommend implements TrailAPI; results are never cached.
func (c *CachedAPI) Recommend(ctx context.Context, req trail.RecommendationRequest) (trail.RecommendationResult, error) {
	return c.api.Recommend(ctx, req)
}

var _ TrailAPI = (*CachedAPI)(nil)
