package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/petrolfinder/backend-go/internal/config"
	"github.com/petrolfinder/backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResultCache(t *testing.T) *ResultCache {
	t.Helper()
	c, err := NewResultCache(&config.CacheConfig{ResultLRUSize: 3, ResultLRUTTLMinutes: 15})
	require.NoError(t, err)
	return c
}

func TestResultCacheKey(t *testing.T) {
	// Coordinates are bucketed to three decimals, radius to one.
	assert.Equal(t, "nearby:-26.104:28.047:5.0", ResultCacheKey(-26.1041, 28.0473, 5.0))
	assert.Equal(t, ResultCacheKey(-26.10412, 28.04731, 5.0), ResultCacheKey(-26.10408, 28.04729, 5.0))
	assert.NotEqual(t, ResultCacheKey(-26.104, 28.047, 5.0), ResultCacheKey(-26.104, 28.047, 10.0))
}

func TestResultCacheGetSet(t *testing.T) {
	c := newTestResultCache(t)
	key := ResultCacheKey(-26.10, 28.05, 5.0)

	assert.Nil(t, c.Get(key))

	records := []models.StationResponse{{ID: "station-1"}}
	c.Set(key, records)

	got := c.Get(key)
	require.NotNil(t, got)
	assert.Equal(t, "station-1", got[0].ID)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats["hits"])
	assert.Equal(t, uint64(1), stats["misses"])
}

func TestResultCacheExpiry(t *testing.T) {
	c := newTestResultCache(t)
	c.ttl = -time.Second

	key := ResultCacheKey(-26.10, 28.05, 5.0)
	c.Set(key, []models.StationResponse{{ID: "station-1"}})

	assert.Nil(t, c.Get(key))
}

func TestResultCacheEviction(t *testing.T) {
	c := newTestResultCache(t)

	for _, key := range []string{"a", "b", "c", "d"} {
		c.Set(key, []models.StationResponse{{ID: key}})
	}

	// Size 3, so the oldest entry is gone.
	assert.Nil(t, c.Get("a"))
	assert.NotNil(t, c.Get("d"))
}

func TestResultCacheConcurrentAccess(t *testing.T) {
	c := newTestResultCache(t)
	key := ResultCacheKey(-26.10, 28.05, 5.0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set(key, []models.StationResponse{{ID: "station-1"}})
				c.Get(key)
			}
		}()
	}
	wg.Wait()

	stats := c.Stats()
	assert.Equal(t, uint64(800), stats["hits"]+stats["misses"])
}

func TestResultCacheClear(t *testing.T) {
	c := newTestResultCache(t)
	c.Set("key", []models.StationResponse{{ID: "station-1"}})
	c.Clear()
	assert.Nil(t, c.Get("key"))
}
