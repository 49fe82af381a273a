package station

import (
	"context"
	"math"

	"github.com/petrolfinder/backend-go/internal/geo"
	"github.com/petrolfinder/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

// LocalSource produces candidates from the internal station store. A failing
// lookup yields an empty list rather than an error so the caller can proceed
// with external-only data.
type LocalSource struct {
	store StationQuerier
}

func NewLocalSource(store StationQuerier) *LocalSource {
	return &LocalSource{store: store}
}

// FindNearby returns active stored stations within radiusKm of the center,
// with exact distance precomputed. The store query uses a bounding-box
// prefilter; exact haversine distance is applied afterwards.
func (s *LocalSource) FindNearby(ctx context.Context, lat, lng, radiusKm float64) ([]models.StationCandidate, error) {
	if radiusKm <= 0 || radiusKm > MaxRadiusKm {
		return nil, nil
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, nil
	}

	latRange := radiusKm * degPerKm
	lngRange := radiusKm * degPerKm

	stored, err := s.store.QueryBox(ctx, lat-latRange, lat+latRange, lng-lngRange, lng+lngRange)
	if err != nil {
		log.Error().Err(err).Msg("Local station lookup failed, continuing without local candidates")
		return nil, nil
	}

	var candidates []models.StationCandidate
	for _, station := range stored {
		if station.Latitude == nil || station.Longitude == nil {
			log.Warn().Str("station_id", station.ID).Msg("Skipping station with missing coordinates")
			continue
		}

		distance := geo.DistanceKm(lat, lng, *station.Latitude, *station.Longitude)
		if distance > radiusKm {
			continue
		}

		candidates = append(candidates, candidateFromStored(station, distance))
	}

	return candidates, nil
}

func candidateFromStored(station models.StoredStation, distanceKm float64) models.StationCandidate {
	busy := station.BusyLevel
	if busy == "" {
		busy = models.BusyLow
	}

	return models.StationCandidate{
		ID:          station.ID,
		ExternalID:  station.ExternalID,
		Name:        station.Name,
		Address:     station.Address,
		City:        station.City,
		Latitude:    *station.Latitude,
		Longitude:   *station.Longitude,
		HasCoords:   true,
		DistanceKm:  roundKm(distanceKm),
		HasDistance: true,
		Source:      models.SourceLocal,
		Rating:      station.ExternalRating,
		Is24h:       station.Is24h,
		Amenities: models.AmenityFlags{
			ATM:        station.HasATM,
			Shop:       station.HasShop,
			Coffee:     station.HasCoffee,
			EVCharging: station.HasEVCharging,
		},
		BusyLevel:       busy,
		WaitTimeMinutes: station.WaitTime,
		OpeningHours:    station.OpeningHours,
	}
}

func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}
