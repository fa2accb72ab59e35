package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/rl1809/commerce-core/internal/metrics"
	"github.com/rl1809/commerce-core/internal/port"
)

// Cache keys and TTL mirror the catalog/cart/wishlist read paths. Aggregate
// keys (products:all) are invalidated together with single-entity keys so a
// post-invalidation read never observes pre-mutation data; staleness from a
// read racing an invalidation is bounded by the TTL.
const cacheTTL = time.Hour

const productsAllKey = "products:all"

func productKey(id string) string      { return "product:" + id }
func cartKey(userID string) string     { return "cart:" + userID }
func wishlistKey(userID string) string { return "wishlist:" + userID }

// cacheFetch fills dest from the cache. Any cache failure counts as a miss:
// the caller falls back to the durable store for that read.
func cacheFetch(ctx context.Context, c port.Cache, m *metrics.Metrics, logger *log.Logger, key, entity string, dest any) bool {
	raw, err := c.Get(ctx, key)
	if errors.Is(err, port.ErrCacheMiss) {
		m.CacheMisses.WithLabelValues(entity).Inc()
		return false
	}
	if err != nil {
		logger.Printf("cache get %s: %v", key, err)
		m.CacheErrors.WithLabelValues("get").Inc()
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		logger.Printf("cache decode %s: %v", key, err)
		m.CacheErrors.WithLabelValues("get").Inc()
		return false
	}
	m.CacheHits.WithLabelValues(entity).Inc()
	return true
}

// cacheStore writes value under key. Failures are logged, never propagated:
// the cache is advisory.
func cacheStore(ctx context.Context, c port.Cache, m *metrics.Metrics, logger *log.Logger, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		logger.Printf("cache encode %s: %v", key, err)
		return
	}
	if err := c.Set(ctx, key, raw, cacheTTL); err != nil {
		logger.Printf("cache set %s: %v", key, err)
		m.CacheErrors.WithLabelValues("set").Inc()
	}
}

// cacheInvalidate deletes keys in one batched call. An invalidation failure
// must not fail the write that triggered it.
func cacheInvalidate(ctx context.Context, c port.Cache, m *metrics.Metrics, logger *log.Logger, keys ...string) {
	if err := c.Delete(ctx, keys...); err != nil {
		logger.Printf("cache delete %v: %v", keys, err)
		m.CacheErrors.WithLabelValues("delete").Inc()
	}
}
