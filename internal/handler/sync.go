package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/petrolfinder/backend-go/internal/api"
	"github.com/petrolfinder/backend-go/internal/station"
	"github.com/rs/zerolog/log"
)

// SyncHandler triggers a bulk directory sweep over a bounding box.
type SyncHandler struct {
	sync *station.SyncService
}

func NewSyncHandler(sync *station.SyncService) *SyncHandler {
	return &SyncHandler{sync: sync}
}

func (h *SyncHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var bounds station.Bounds
	if err := json.Unmarshal([]byte(request.Body), &bounds); err != nil {
		return api.Error("Invalid request body", http.StatusBadRequest)
	}
	if err := bounds.Validate(); err != nil {
		return api.Error(err.Error(), http.StatusBadRequest)
	}

	result, err := h.sync.SyncArea(ctx, bounds)
	if err != nil {
		log.Error().Err(err).Msg("Error syncing area")
		return api.Error("Error syncing stations", http.StatusInternalServerError)
	}

	return api.Success(api.NewSyncResponse(result.Created, result.Updated))
}
