package fusion

import (
	"context"
	"math"
	"sort"

	"github.com/petrolfinder/backend-go/internal/config"
	"github.com/petrolfinder/backend-go/internal/geo"
	"github.com/petrolfinder/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

// Hard cap on how many merged records are fed into price enrichment.
const maxEnrichedRecords = 20

// PriceEstimator is the enrichment capability the engine consumes.
type PriceEstimator interface {
	Estimate(ctx context.Context, candidate models.StationCandidate) ([]models.PriceEstimate, error)
	Fallback() []models.PriceEstimate
}

// Engine merges local and external candidate lists into one deduplicated,
// price-enriched, ranked list.
type Engine struct {
	matcher   Matcher
	estimator PriceEstimator
	pricing   *config.PricingConfig
}

func NewEngine(matcher Matcher, estimator PriceEstimator, pricing *config.PricingConfig) *Engine {
	if pricing == nil {
		pricing = config.DefaultPricingConfig()
	}
	return &Engine{
		matcher:   matcher,
		estimator: estimator,
		pricing:   pricing,
	}
}

// Fuse runs merge, enrichment and ranking for one query.
func (e *Engine) Fuse(ctx context.Context, queryLat, queryLng float64, local, external []models.StationCandidate) []models.FusedStationRecord {
	merged := e.merge(queryLat, queryLng, local, external)

	if len(merged) > maxEnrichedRecords {
		merged = merged[:maxEnrichedRecords]
	}

	records := e.enrich(ctx, merged)
	rank(records)
	return records
}

// merge starts from the local list and folds external candidates in. The
// scan is greedy: each external candidate is merged into the first local
// candidate the matcher accepts, not the nearest one.
func (e *Engine) merge(queryLat, queryLng float64, local, external []models.StationCandidate) []models.StationCandidate {
	merged := make([]models.StationCandidate, len(local))
	copy(merged, local)

	for _, ext := range external {
		matched := false
		for i := range merged {
			if merged[i].Source != models.SourceLocal {
				continue
			}
			if !e.matcher.Match(ext, merged[i]) {
				continue
			}

			mergeExternalFields(&merged[i], ext)
			matched = true
			break
		}

		if matched {
			continue
		}

		if ext.HasCoords {
			ext.DistanceKm = roundKm(geo.DistanceKm(queryLat, queryLng, ext.Latitude, ext.Longitude))
			ext.HasDistance = true
		}
		applyIntelligentDefaults(e.pricing.AmenityBrands, &ext)
		merged = append(merged, ext)
	}

	return merged
}

// mergeExternalFields copies external-only data into a matched local record.
func mergeExternalFields(local *models.StationCandidate, external models.StationCandidate) {
	local.ExternalID = external.ExternalID
	if local.Rating == nil {
		local.Rating = external.Rating
	}
	local.IsOpenNow = external.IsOpenNow
	local.Photos = external.Photos
}

func (e *Engine) enrich(ctx context.Context, candidates []models.StationCandidate) []models.FusedStationRecord {
	records := make([]models.FusedStationRecord, 0, len(candidates))

	for _, candidate := range candidates {
		record := models.FusedStationRecord{StationCandidate: candidate}

		estimates, err := e.estimator.Estimate(ctx, candidate)
		if err != nil {
			// Degrade to fallback pricing rather than dropping the record.
			log.Error().Err(err).Str("name", candidate.Name).Msg("Price enrichment failed, using fallback prices")
			record.Prices = e.estimator.Fallback()
			record.HasPriceData = false
		} else {
			record.Prices = estimates
			record.HasPriceData = len(estimates) > 0
		}

		record.ReliabilityScore = reliabilityScore(record)
		records = append(records, record)
	}

	return records
}

// reliabilityScore summarizes how trustworthy a record's data is, in [0,1].
func reliabilityScore(record models.FusedStationRecord) float64 {
	score := 0.5

	if record.Source == models.SourceLocal {
		score += 0.2
	}
	if record.ExternalID != "" {
		score += 0.15
	}
	if len(record.Prices) > 0 {
		var sum float64
		for _, p := range record.Prices {
			sum += p.Confidence
		}
		score += (sum / float64(len(record.Prices))) * 0.3
	}
	if record.Rating != nil {
		score += 0.1
	}

	return math.Max(0, math.Min(1, score))
}

// rank sorts ascending by distance (missing distance last), breaking ties by
// reliability descending. The sort is stable: exact ties keep their pre-sort
// relative order.
func rank(records []models.FusedStationRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		di := sortDistance(records[i])
		dj := sortDistance(records[j])
		if di != dj {
			return di < dj
		}
		return records[i].ReliabilityScore > records[j].ReliabilityScore
	})
}

func sortDistance(record models.FusedStationRecord) float64 {
	if !record.HasDistance {
		return math.Inf(1)
	}
	return record.DistanceKm
}

func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}
