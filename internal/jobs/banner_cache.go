// Package jobs holds background maintenance loops.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"careconnect/internal/db"
	"careconnect/internal/models"
	"careconnect/internal/schedule"
)

const bannerCacheKey = "banner:ordered"

// BannerCache caches the scheduler-ordered approved promotions in redis.
// Only the stored records are cached; display status is still derived from
// the clock on every read, so the cache can never serve a stale status.
type BannerCache struct {
	rdb *redis.Client
}

// NewBannerCache creates a banner cache. A nil client disables caching;
// every Get misses.
func NewBannerCache(rdb *redis.Client) *BannerCache {
	return &BannerCache{rdb: rdb}
}

// Get returns the cached ordered promotions, or false on a miss or an
// unreachable cache.
func (c *BannerCache) Get(ctx context.Context) ([]models.Promotion, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, bannerCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("banner cache read failed", "error", err)
		}
		return nil, false
	}

	var promotions []models.Promotion
	if err := json.Unmarshal(data, &promotions); err != nil {
		slog.Warn("banner cache corrupt, discarding", "error", err)
		return nil, false
	}
	return promotions, true
}

// Put stores the ordered promotions with the given TTL. Failures are logged;
// the cache is best-effort.
func (c *BannerCache) Put(ctx context.Context, promotions []models.Promotion, ttl time.Duration) {
	if c == nil || c.rdb == nil {
		return
	}
	data, err := json.Marshal(promotions)
	if err != nil {
		slog.Error("failed to marshal banner cache", "error", err)
		return
	}
	if err := c.rdb.Set(ctx, bannerCacheKey, data, ttl).Err(); err != nil {
		slog.Warn("banner cache write failed", "error", err)
	}
}

// BannerRefresher periodically rebuilds the banner cache from the database.
type BannerRefresher struct {
	db       *db.DB
	cache    *BannerCache
	interval time.Duration
}

// NewBannerRefresher creates a refresher running at the given interval.
func NewBannerRefresher(database *db.DB, cache *BannerCache, interval time.Duration) *BannerRefresher {
	return &BannerRefresher{db: database, cache: cache, interval: interval}
}

// Start begins the refresh loop and blocks until the context is canceled.
func (r *BannerRefresher) Start(ctx context.Context) {
	slog.Info("banner refresher started", "interval", r.interval)

	// Run immediately on start
	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("banner refresher stopped")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *BannerRefresher) refresh(ctx context.Context) {
	promotions, err := r.db.ListApprovedPromotions(ctx)
	if err != nil {
		slog.Error("banner refresher: failed to load promotions", "error", err)
		return
	}

	ordered := schedule.Order(promotions)
	// TTL of twice the interval keeps the cache alive across one missed
	// refresh without serving arbitrarily old orderings.
	r.cache.Put(ctx, ordered, 2*r.interval)
}
