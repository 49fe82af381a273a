package handler

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/petrolfinder/backend-go/internal/api"
	"github.com/petrolfinder/backend-go/internal/cache"
	"github.com/petrolfinder/backend-go/internal/format"
	"github.com/petrolfinder/backend-go/internal/fusion"
	"github.com/petrolfinder/backend-go/internal/models"
	"github.com/petrolfinder/backend-go/internal/station"
	"github.com/rs/zerolog/log"
)

// StationsHandler serves the nearby-stations endpoint: query both sources,
// fuse, format, and cache the final shaped result.
type StationsHandler struct {
	local     station.LocalFinder
	places    station.PlacesFinder
	engine    *fusion.Engine
	formatter *format.Formatter
	results   *cache.ResultCache
}

func NewStationsHandler(local station.LocalFinder, places station.PlacesFinder, engine *fusion.Engine, results *cache.ResultCache) *StationsHandler {
	return &StationsHandler{
		local:     local,
		places:    places,
		engine:    engine,
		formatter: format.NewFormatter(),
		results:   results,
	}
}

func (h *StationsHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params, err := api.ParseNearbyParams(request.QueryStringParameters)
	if err != nil {
		return api.Error(err.Error(), http.StatusBadRequest)
	}

	cacheKey := cache.ResultCacheKey(params.Lat, params.Lng, params.RadiusKm)

	// refresh skips the cache read but still repopulates it below.
	if !params.Refresh && h.results != nil {
		if cached := h.results.Get(cacheKey); cached != nil {
			log.Debug().Str("key", cacheKey).Msg("Result cache hit")
			return api.Success(api.NewStationsResponse(cached))
		}
	}

	responses, err := h.findNearby(ctx, params)
	if err != nil {
		log.Error().Err(err).Msg("Error finding nearby stations")
		return api.Error("Error finding stations", http.StatusInternalServerError)
	}

	if h.results != nil {
		h.results.Set(cacheKey, responses)
	}

	return api.Success(api.NewStationsResponse(responses))
}

func (h *StationsHandler) findNearby(ctx context.Context, params api.NearbyParams) ([]models.StationResponse, error) {
	local, err := h.local.FindNearby(ctx, params.Lat, params.Lng, params.RadiusKm)
	if err != nil {
		return nil, err
	}

	var external []models.StationCandidate
	if h.places != nil {
		external, err = h.places.FindNearby(ctx, params.Lat, params.Lng, int(params.RadiusKm*1000))
		if err != nil {
			// Serve local-only rather than failing the request.
			log.Warn().Err(err).Msg("External places lookup failed, serving local results only")
			external = nil
		}
	}

	records := h.engine.Fuse(ctx, params.Lat, params.Lng, local, external)
	return h.formatter.FormatAll(records), nil
}
