package station

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/petrolfinder/backend-go/internal/models"
	"github.com/petrolfinder/backend-go/pkg/http/client"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

const (
	nearbySearchPath = "/maps/api/place/nearbysearch/json"
	// The upstream requires a delay before a continuation token becomes valid.
	defaultPageDelay = 2 * time.Second
	maxPhotoRefs     = 3
)

// PlacesSource produces candidates from the external places directory.
// Request failures never propagate: a mid-pagination failure returns what was
// collected so far, a first-page failure returns an empty list.
type PlacesSource struct {
	httpClient client.Interface
	apiKey     string
	breaker    *gobreaker.CircuitBreaker
	pageDelay  time.Duration
}

func NewPlacesSource(httpClient client.Interface, apiKey string) *PlacesSource {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "places-directory",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &PlacesSource{
		httpClient: httpClient,
		apiKey:     apiKey,
		breaker:    breaker,
		pageDelay:  defaultPageDelay,
	}
}

type placesResponse struct {
	Status        string       `json:"status"`
	NextPageToken string       `json:"next_page_token"`
	Results       []placeEntry `json:"results"`
}

type placeEntry struct {
	PlaceID        string   `json:"place_id"`
	Name           string   `json:"name"`
	Vicinity       string   `json:"vicinity"`
	BusinessStatus string   `json:"business_status"`
	Rating         *float64 `json:"rating"`
	PriceLevel     *int     `json:"price_level"`
	Geometry       *struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	OpeningHours *struct {
		OpenNow bool `json:"open_now"`
	} `json:"opening_hours"`
	Photos []struct {
		PhotoReference string `json:"photo_reference"`
	} `json:"photos"`
}

// FindNearby returns operational fuel stations around the center, following
// continuation tokens with the mandated inter-page delay.
func (s *PlacesSource) FindNearby(ctx context.Context, lat, lng float64, radiusMeters int) ([]models.StationCandidate, error) {
	var candidates []models.StationCandidate

	page, err := s.fetchPage(ctx, s.firstPagePath(lat, lng, radiusMeters))
	if err != nil {
		log.Error().Err(err).Msg("Places lookup failed before first page")
		return nil, nil
	}
	candidates = append(candidates, mapPlaces(page.Results)...)

	for page.NextPageToken != "" {
		select {
		case <-ctx.Done():
			return candidates, nil
		case <-time.After(s.pageDelay):
		}

		page, err = s.fetchPage(ctx, s.tokenPagePath(page.NextPageToken))
		if err != nil {
			log.Warn().Err(err).Int("collected", len(candidates)).Msg("Places pagination aborted, returning partial results")
			return candidates, nil
		}
		candidates = append(candidates, mapPlaces(page.Results)...)
	}

	return candidates, nil
}

func (s *PlacesSource) firstPagePath(lat, lng float64, radiusMeters int) string {
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	params.Set("radius", fmt.Sprintf("%d", radiusMeters))
	params.Set("type", "gas_station")
	params.Set("language", "en")
	params.Set("key", s.apiKey)
	return nearbySearchPath + "?" + params.Encode()
}

func (s *PlacesSource) tokenPagePath(token string) string {
	params := url.Values{}
	params.Set("pagetoken", token)
	params.Set("key", s.apiKey)
	return nearbySearchPath + "?" + params.Encode()
}

func (s *PlacesSource) fetchPage(ctx context.Context, path string) (*placesResponse, error) {
	result, err := s.breaker.Execute(func() (interface{}, error) {
		resp, err := s.httpClient.Get(ctx, path)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetching places page: %w", err)
	}

	resp := result.(*client.Response)
	var page placesResponse
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, fmt.Errorf("decoding places response: %w", err)
	}
	if page.Status != "OK" && page.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places API status: %s", page.Status)
	}
	return &page, nil
}

func mapPlaces(entries []placeEntry) []models.StationCandidate {
	var candidates []models.StationCandidate
	for _, entry := range entries {
		if entry.BusinessStatus != "OPERATIONAL" {
			continue
		}

		candidate := models.StationCandidate{
			ExternalID: entry.PlaceID,
			Name:       entry.Name,
			Address:    entry.Vicinity,
			Source:     models.SourceExternal,
			Rating:     entry.Rating,
			PriceLevel: entry.PriceLevel,
		}
		if entry.Geometry != nil {
			candidate.Latitude = entry.Geometry.Location.Lat
			candidate.Longitude = entry.Geometry.Location.Lng
			candidate.HasCoords = true
		}
		if entry.OpeningHours != nil {
			openNow := entry.OpeningHours.OpenNow
			candidate.IsOpenNow = &openNow
		}
		for i, photo := range entry.Photos {
			if i >= maxPhotoRefs {
				break
			}
			candidate.Photos = append(candidate.Photos, photo.PhotoReference)
		}

		candidates = append(candidates, candidate)
	}
	return candidates
}
