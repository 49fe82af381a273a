package price

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/petrolfinder/backend-go/internal/config"
	"github.com/petrolfinder/backend-go/internal/models"
	"github.com/petrolfinder/backend-go/pkg/http/client"
	"github.com/rs/zerolog/log"
)

// BaselineProvider supplies official per-fuel-type reference prices for a
// station's location.
type BaselineProvider interface {
	GetBaselines(ctx context.Context, city, address string) (models.BaselinePrices, error)
}

// Fuel price listing pages label prices inconsistently; these patterns pull
// the first rand-per-liter figure near each fuel label.
var (
	regularPattern = regexp.MustCompile(`(?i)(?:petrol|93[\s_-]*unleaded|ulp\s*93)\D{0,40}?R?\s*(\d{2}\.\d{1,2})`)
	premiumPattern = regexp.MustCompile(`(?i)(?:premium|95[\s_-]*unleaded|ulp\s*95)\D{0,40}?R?\s*(\d{2}\.\d{1,2})`)
	dieselPattern  = regexp.MustCompile(`(?i)diesel\D{0,40}?R?\s*(\d{2}\.\d{1,2})`)
)

// BaselineService resolves official baseline prices by scraping public
// price-listing pages, with a keyword-matched regional fallback and layered
// TTL caching. It never fails: the hardcoded defaults are the last resort.
type BaselineService struct {
	httpClient  client.Interface
	pricing     *config.PricingConfig
	cache       *gocache.Cache
	ttl         time.Duration
	fallbackTTL time.Duration
}

func NewBaselineService(httpClient client.Interface, pricing *config.PricingConfig, cacheConfig *config.CacheConfig) *BaselineService {
	if pricing == nil {
		pricing = config.DefaultPricingConfig()
	}
	if cacheConfig == nil {
		cacheConfig = config.GetCacheConfig()
	}

	return &BaselineService{
		httpClient:  httpClient,
		pricing:     pricing,
		cache:       gocache.New(cacheConfig.GetBaselineTTL(), 2*cacheConfig.GetBaselineTTL()),
		ttl:         cacheConfig.GetBaselineTTL(),
		fallbackTTL: cacheConfig.GetBaselineFallbackTTL(),
	}
}

// GetBaselines returns baseline prices for the region implied by the city and
// address strings. Scraped values are cached for the success TTL; fallback
// values for the shorter fallback TTL.
func (s *BaselineService) GetBaselines(ctx context.Context, city, address string) (models.BaselinePrices, error) {
	province := extractProvince(s.pricing, city, address)
	cacheKey := baselineCacheKey(province)

	if cached, found := s.cache.Get(cacheKey); found {
		return cached.(models.BaselinePrices), nil
	}

	if scraped, ok := s.scrapeSources(ctx); ok {
		s.cache.Set(cacheKey, scraped, s.ttl)
		return scraped, nil
	}

	fallback := s.fallbackBaselines(province)
	s.cache.Set(cacheKey, fallback, s.fallbackTTL)
	return fallback, nil
}

func baselineCacheKey(province string) string {
	if province == "" {
		province = "national"
	}
	return "baselines:" + province
}

// scrapeSources tries each listing page in priority order; the first page
// yielding prices inside the plausibility band wins.
func (s *BaselineService) scrapeSources(ctx context.Context) (models.BaselinePrices, bool) {
	for _, sourceURL := range s.pricing.BaselineSources {
		prices, err := s.scrapeOne(ctx, sourceURL)
		if err != nil {
			log.Warn().Err(err).Str("source", sourceURL).Msg("Baseline scrape failed")
			continue
		}
		if !s.plausible(prices) {
			log.Warn().Str("source", sourceURL).
				Float64("regular", prices.Regular).
				Float64("premium", prices.Premium).
				Float64("diesel", prices.Diesel).
				Msg("Scraped prices outside plausibility band")
			continue
		}

		log.Debug().Str("source", sourceURL).Msg("Scraped baseline prices")
		return prices, true
	}
	return models.BaselinePrices{}, false
}

func (s *BaselineService) scrapeOne(ctx context.Context, sourceURL string) (models.BaselinePrices, error) {
	resp, err := s.httpClient.Get(ctx, sourceURL)
	if err != nil {
		return models.BaselinePrices{}, fmt.Errorf("fetching %s: %w", sourceURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		return models.BaselinePrices{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body := string(resp.Body)
	defaults := s.pricing.DefaultBaselines

	prices := models.BaselinePrices{
		Regular:     extractPrice(regularPattern, body, defaults.Regular),
		Premium:     extractPrice(premiumPattern, body, defaults.Premium),
		Diesel:      extractPrice(dieselPattern, body, defaults.Diesel),
		Source:      "scraped",
		LastUpdated: time.Now(),
	}

	// All three falling back to defaults means the page had nothing usable.
	if prices.Regular == defaults.Regular && prices.Premium == defaults.Premium && prices.Diesel == defaults.Diesel {
		return models.BaselinePrices{}, fmt.Errorf("no prices found in page")
	}
	return prices, nil
}

func extractPrice(pattern *regexp.Regexp, body string, fallback float64) float64 {
	match := pattern.FindStringSubmatch(body)
	if match == nil {
		return fallback
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return fallback
	}
	return value
}

func (s *BaselineService) plausible(prices models.BaselinePrices) bool {
	for _, p := range []float64{prices.Regular, prices.Premium, prices.Diesel} {
		if p < s.pricing.MinPlausiblePrice || p > s.pricing.MaxPlausiblePrice {
			return false
		}
	}
	return true
}

// fallbackBaselines applies the per-province offset to the hardcoded
// defaults.
func (s *BaselineService) fallbackBaselines(province string) models.BaselinePrices {
	base := s.pricing.DefaultBaselines
	base.LastUpdated = time.Now()

	if province == "" {
		base.Source = "fallback_base"
		return base
	}

	adjustment, ok := s.pricing.ProvinceAdjustments[province]
	if !ok {
		base.Source = "fallback_base"
		return base
	}

	base = applyAdjustment(base, adjustment)
	base.Source = "fallback_regional"
	return base
}
