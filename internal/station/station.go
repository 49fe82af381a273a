package station

import (
	"context"

	"github.com/petrolfinder/backend-go/internal/models"
)

// MaxRadiusKm caps the search radius accepted by the pipeline.
const MaxRadiusKm = 100.0

// Degrees per kilometer used for the bounding-box prefilter. Approximate and
// latitude-independent; good enough for the deployment's latitude range.
const degPerKm = 0.009

// LocalFinder returns candidates from the internal station store.
type LocalFinder interface {
	FindNearby(ctx context.Context, lat, lng, radiusKm float64) ([]models.StationCandidate, error)
}

// PlacesFinder returns candidates from the external places directory.
// Radius is in meters, matching the upstream contract.
type PlacesFinder interface {
	FindNearby(ctx context.Context, lat, lng float64, radiusMeters int) ([]models.StationCandidate, error)
}

// StationQuerier is the subset of the storage layer the local source needs.
type StationQuerier interface {
	QueryBox(ctx context.Context, minLat, maxLat, minLng, maxLng float64) ([]models.StoredStation, error)
}

// StationUpserter is the subset of the storage layer the sync sweep needs.
type StationUpserter interface {
	Upsert(ctx context.Context, candidate models.StationCandidate) (bool, error)
}
