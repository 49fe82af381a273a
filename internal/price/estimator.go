package price

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/petrolfinder/backend-go/internal/config"
	"github.com/petrolfinder/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultFreshness is how recent a recorded price must be to be used
	// directly in the interactive path.
	DefaultFreshness = 6 * time.Hour
	// BatchFreshness is the relaxed window used by batch enrichment.
	BatchFreshness = 7 * 24 * time.Hour

	databaseConfidence  = 0.9
	estimatedConfidence = 0.6
	fallbackConfidence  = 0.5
)

var estimableFuels = []models.FuelType{models.FuelRegular, models.FuelPremium, models.FuelDiesel}

// PriceReader looks up recorded prices for a known station.
type PriceReader interface {
	RecentPrices(ctx context.Context, stationID string, since time.Time) ([]models.RecordedPrice, error)
}

// Estimator attaches per-fuel-type price estimates to candidates. Recorded
// prices win when fresh enough; otherwise prices are estimated from the
// official baseline plus brand, location and quality heuristics.
type Estimator struct {
	prices    PriceReader
	baselines BaselineProvider
	pricing   *config.PricingConfig
	freshness time.Duration

	// JitterFn produces the bounded random component of estimated prices.
	// Exposed so tests can make estimates deterministic.
	JitterFn func() float64
}

func NewEstimator(prices PriceReader, baselines BaselineProvider, pricing *config.PricingConfig) *Estimator {
	if pricing == nil {
		pricing = config.DefaultPricingConfig()
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	jitterRange := pricing.JitterRange

	return &Estimator{
		prices:    prices,
		baselines: baselines,
		pricing:   pricing,
		freshness: DefaultFreshness,
		JitterFn: func() float64 {
			return (rng.Float64()*2 - 1) * jitterRange
		},
	}
}

// WithFreshness returns the estimator with a different recorded-price
// freshness window (batch enrichment uses a relaxed one).
func (e *Estimator) WithFreshness(freshness time.Duration) *Estimator {
	e.freshness = freshness
	return e
}

// Estimate returns price estimates for a candidate. An error means no
// estimate could be produced at all; callers then attach fallback prices.
func (e *Estimator) Estimate(ctx context.Context, candidate models.StationCandidate) ([]models.PriceEstimate, error) {
	if candidate.Source == models.SourceLocal && candidate.ID != "" && e.prices != nil {
		recorded, err := e.prices.RecentPrices(ctx, candidate.ID, time.Now().Add(-e.freshness))
		if err != nil {
			log.Warn().Err(err).Str("station_id", candidate.ID).Msg("Recorded price lookup failed, estimating instead")
		} else if len(recorded) > 0 {
			return fromRecorded(recorded), nil
		}
	}

	baselines, err := e.baselines.GetBaselines(ctx, candidate.City, candidate.Address)
	if err != nil {
		return nil, err
	}

	return e.estimateFromBaselines(candidate, baselines), nil
}

// Fallback returns the fixed last-resort price triple.
func (e *Estimator) Fallback() []models.PriceEstimate {
	defaults := e.pricing.DefaultBaselines
	now := time.Now()

	estimates := make([]models.PriceEstimate, 0, len(estimableFuels))
	for _, fuel := range estimableFuels {
		estimates = append(estimates, models.PriceEstimate{
			FuelType:   fuel,
			Price:      defaults.Get(fuel),
			Source:     models.PriceSourceFallback,
			Confidence: fallbackConfidence,
			Timestamp:  now,
		})
	}
	return estimates
}

// fromRecorded keeps the most recent record per fuel type. Records arrive
// newest first from the store.
func fromRecorded(recorded []models.RecordedPrice) []models.PriceEstimate {
	seen := make(map[models.FuelType]bool)
	var estimates []models.PriceEstimate

	for _, record := range recorded {
		if seen[record.FuelType] {
			continue
		}
		seen[record.FuelType] = true

		estimates = append(estimates, models.PriceEstimate{
			FuelType:   record.FuelType,
			Price:      record.Price,
			Source:     models.PriceSourceDatabase,
			Confidence: databaseConfidence,
			Timestamp:  record.ReportedAt,
		})
	}
	return estimates
}

func (e *Estimator) estimateFromBaselines(candidate models.StationCandidate, baselines models.BaselinePrices) []models.PriceEstimate {
	brandAdj := brandAdjustment(e.pricing, candidate.Name)
	locationAdj := locationAdjustment(e.pricing, candidate.Address)
	qualityAdj := qualityAdjustment(e.pricing, candidate.Rating)
	now := time.Now()

	estimates := make([]models.PriceEstimate, 0, len(estimableFuels))
	for _, fuel := range estimableFuels {
		price := baselines.Get(fuel)
		price += brandAdj.Get(fuel)
		price += locationAdj.Get(fuel)
		price += qualityAdj.Get(fuel)
		price += e.JitterFn()

		estimates = append(estimates, models.PriceEstimate{
			FuelType:   fuel,
			Price:      round2(price),
			Source:     models.PriceSourceEstimated,
			Confidence: estimatedConfidence,
			Timestamp:  now,
		})
	}
	return estimates
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
