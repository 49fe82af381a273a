package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// Merged-result LRU cache settings
	ResultLRUSize       int
	ResultLRUTTLMinutes int

	// Baseline price cache settings
	BaselineTTLMinutes         int
	BaselineFallbackTTLMinutes int

	// Station directory snapshot settings
	SnapshotBucket  string
	SnapshotTTLDays int

	// DynamoDB table names
	StationTable string
	PriceTable   string
}

const (
	defaultResultLRUSize       = 1000
	defaultResultTTLMinutes    = 15
	defaultBaselineTTLMinutes  = 60
	defaultBaselineFallbackTTL = 30
	defaultSnapshotTTLDays     = 2
	defaultStationTableName    = "petrol-stations"
	defaultPriceTableName      = "fuel-prices"
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		ResultLRUSize:              getEnvInt("CACHE_RESULT_LRU_SIZE", defaultResultLRUSize),
		ResultLRUTTLMinutes:        getEnvInt("CACHE_RESULT_TTL_MINUTES", defaultResultTTLMinutes),
		BaselineTTLMinutes:         getEnvInt("CACHE_BASELINE_TTL_MINUTES", defaultBaselineTTLMinutes),
		BaselineFallbackTTLMinutes: getEnvInt("CACHE_BASELINE_FALLBACK_TTL_MINUTES", defaultBaselineFallbackTTL),
		SnapshotBucket:             getEnvOrDefault("SNAPSHOT_BUCKET", ""),
		SnapshotTTLDays:            getEnvInt("SNAPSHOT_TTL_DAYS", defaultSnapshotTTLDays),
		StationTable:               getEnvOrDefault("STATION_TABLE", defaultStationTableName),
		PriceTable:                 getEnvOrDefault("PRICE_TABLE", defaultPriceTableName),
	}

	log.Debug().
		Int("ResultLRUSize", config.ResultLRUSize).
		Int("ResultLRUTTLMinutes", config.ResultLRUTTLMinutes).
		Int("BaselineTTLMinutes", config.BaselineTTLMinutes).
		Int("BaselineFallbackTTLMinutes", config.BaselineFallbackTTLMinutes).
		Str("StationTable", config.StationTable).
		Str("PriceTable", config.PriceTable).
		Msg("Cache configuration loaded")

	return config
}

func (c *CacheConfig) GetResultLRUTTL() time.Duration {
	return time.Duration(c.ResultLRUTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetBaselineTTL() time.Duration {
	return time.Duration(c.BaselineTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetBaselineFallbackTTL() time.Duration {
	return time.Duration(c.BaselineFallbackTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetSnapshotTTL() time.Duration {
	return time.Duration(c.SnapshotTTLDays) * 24 * time.Hour
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}
