package fusion

import (
	"github.com/petrolfinder/backend-go/internal/geo"
	"github.com/petrolfinder/backend-go/internal/models"
)

// Matcher decides whether an external candidate and a local candidate refer
// to the same physical station. Pluggable so a spatial-index matcher can
// replace the pairwise scan later without touching the merge logic.
type Matcher interface {
	Match(external, local models.StationCandidate) bool
}

// ProximityNameMatcher matches when the candidates are within
// DistanceThresholdKm of each other AND their names are similar enough.
// Candidates without coordinates never match.
type ProximityNameMatcher struct {
	DistanceThresholdKm float64
	SimilarityThreshold float64
}

// NewDefaultMatcher returns the matcher with the production thresholds:
// 100 meters and 0.7 name similarity.
func NewDefaultMatcher() ProximityNameMatcher {
	return ProximityNameMatcher{
		DistanceThresholdKm: 0.1,
		SimilarityThreshold: 0.7,
	}
}

func (m ProximityNameMatcher) Match(external, local models.StationCandidate) bool {
	if !external.HasCoords || !local.HasCoords {
		return false
	}

	distance := geo.DistanceKm(external.Latitude, external.Longitude, local.Latitude, local.Longitude)
	if distance >= m.DistanceThresholdKm {
		return false
	}

	return geo.NameSimilarity(external.Name, local.Name) > m.SimilarityThreshold
}
