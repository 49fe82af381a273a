package cache

import (
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/petrolfinder/backend-go/internal/config"
	"github.com/petrolfinder/backend-go/internal/models"
)

// resultEntry wraps a cached merged-result list with its expiry.
type resultEntry struct {
	Records   []models.StationResponse
	ExpiresAt time.Time
}

// ResultCache is a short-TTL LRU cache for merged nearby-station results,
// bucketed by rounded coordinates and radius. Staleness is bounded by TTL
// and is not correctness-critical.
type ResultCache struct {
	lru    *lru.Cache[string, *resultEntry]
	ttl    time.Duration
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewResultCache creates a result cache sized and TTL'd per config.
func NewResultCache(cacheConfig *config.CacheConfig) (*ResultCache, error) {
	if cacheConfig == nil {
		cacheConfig = config.GetCacheConfig()
	}

	lruCache, err := lru.New[string, *resultEntry](cacheConfig.ResultLRUSize)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}

	return &ResultCache{
		lru: lruCache,
		ttl: cacheConfig.GetResultLRUTTL(),
	}, nil
}

// ResultCacheKey buckets a query by coordinates rounded to ~100m and radius.
func ResultCacheKey(lat, lng, radiusKm float64) string {
	return fmt.Sprintf("nearby:%.3f:%.3f:%.1f", lat, lng, radiusKm)
}

// Get returns the cached result list for a key, or nil on miss/expiry.
func (c *ResultCache) Get(key string) []models.StationResponse {
	if entry, ok := c.lru.Get(key); ok {
		if time.Now().Before(entry.ExpiresAt) {
			c.hits.Add(1)
			return entry.Records
		}
		// Entry expired, remove it
		c.lru.Remove(key)
	}
	c.misses.Add(1)
	return nil
}

// Set stores a result list under a key with the configured TTL.
func (c *ResultCache) Set(key string, records []models.StationResponse) {
	c.lru.Add(key, &resultEntry{
		Records:   records,
		ExpiresAt: time.Now().Add(c.ttl),
	})
}

// Stats returns hit/miss counters.
func (c *ResultCache) Stats() map[string]uint64 {
	return map[string]uint64{
		"hits":   c.hits.Load(),
		"misses": c.misses.Load(),
	}
}

// Clear removes all entries.
func (c *ResultCache) Clear() {
	c.lru.Purge()
}
