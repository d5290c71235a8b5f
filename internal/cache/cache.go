// Package cache provides the time-boxed snapshot cache behind the token read
// API. On refresh failure the last successful snapshot is served instead of
// propagating the error (stale fallback); the error propagates only when no
// snapshot has ever been taken.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/ohakidev/binance-alpha-tool-sub001/internal/logger"
	"github.com/ohakidev/binance-alpha-tool-sub001/internal/models"
)

// Loader produces a fresh token insight snapshot.
type Loader func(ctx context.Context) ([]models.TokenInsight, error)

// SnapshotCache holds the last successful token insight snapshot with a TTL.
// It is an explicit injected component, not a package-level singleton, so the
// TTL and clock stay configurable.
type SnapshotCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	value []models.TokenInsight
	setAt time.Time
	has   bool
}

// New creates a cache with the given TTL.
func New(ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &SnapshotCache{ttl: ttl, now: time.Now}
}

// Get returns the snapshot if one exists and is still fresh.
func (c *SnapshotCache) Get() ([]models.TokenInsight, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.has || c.now().Sub(c.setAt) > c.ttl {
		return nil, false
	}
	return c.value, true
}

// GetStale returns the last snapshot regardless of age.
func (c *SnapshotCache) GetStale() ([]models.TokenInsight, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.has {
		return nil, false
	}
	return c.value, true
}

// Set stores a fresh snapshot.
func (c *SnapshotCache) Set(v []models.TokenInsight) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = v
	c.setAt = c.now()
	c.has = true
}

// Timestamp returns when the current snapshot was taken; zero when empty.
func (c *SnapshotCache) Timestamp() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.has {
		return time.Time{}
	}
	return c.setAt
}

// Fetch returns a fresh snapshot, refreshing through the loader when the TTL
// has lapsed. When the refresh fails and a previous snapshot exists, that
// snapshot is served stale; the error propagates only with an empty cache.
func (c *SnapshotCache) Fetch(ctx context.Context, load Loader) ([]models.TokenInsight, error) {
	if v, ok := c.Get(); ok {
		return v, nil
	}

	v, err := load(ctx)
	if err != nil {
		if stale, ok := c.GetStale(); ok {
			logger.Warn("Token snapshot refresh failed, serving stale data from %v: %v", c.Timestamp(), err)
			return stale, nil
		}
		return nil, err
	}

	c.Set(v)
	return v, nil
}
