package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/petrolfinder/backend-go/internal/models"
	"github.com/petrolfinder/backend-go/internal/station"
)

const DefaultRadiusKm = 5.0

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

type StationsResponse struct {
	APIResponse
	Count    int                      `json:"count"`
	Stations []models.StationResponse `json:"stations"`
}

type SyncResponse struct {
	APIResponse
	Created int `json:"created"`
	Updated int `json:"updated"`
}

type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
}

func NewStationsResponse(stations []models.StationResponse) *StationsResponse {
	return &StationsResponse{
		APIResponse: APIResponse{ResponseType: "stations"},
		Count:       len(stations),
		Stations:    stations,
	}
}

func NewSyncResponse(created, updated int) *SyncResponse {
	return &SyncResponse{
		APIResponse: APIResponse{ResponseType: "sync"},
		Created:     created,
		Updated:     updated,
	}
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		APIResponse: APIResponse{ResponseType: "error"},
		Error:       message,
	}
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Error("Internal Server Error", http.StatusInternalServerError)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(jsonBody),
	}, nil
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(NewErrorResponse(message))

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}, nil
}

// InvalidParameterError carries the parameter name and the value the
// caller sent, so error bodies echo what was rejected.
type InvalidParameterError struct {
	Param string
	Value string
}

func (e InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Param, e.Value)
}

type MissingParameterError struct {
	Param string
}

func (e MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter: %s", e.Param)
}

// NearbyParams is the parsed query for a nearby-stations request.
type NearbyParams struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
	Refresh  bool
}

// ParseNearbyParams validates the query string for the nearby endpoint.
// lat and lng are required; radius defaults to 5 km and is capped at 100.
func ParseNearbyParams(params map[string]string) (NearbyParams, error) {
	parsed := NearbyParams{RadiusKm: DefaultRadiusKm}

	latStr, hasLat := params["lat"]
	if !hasLat {
		return parsed, MissingParameterError{Param: "lat"}
	}
	lngStr, hasLng := params["lng"]
	if !hasLng {
		return parsed, MissingParameterError{Param: "lng"}
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return parsed, InvalidParameterError{Param: "lat", Value: latStr}
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil || lng < -180 || lng > 180 {
		return parsed, InvalidParameterError{Param: "lng", Value: lngStr}
	}
	parsed.Lat = lat
	parsed.Lng = lng

	if radiusStr, ok := params["radius"]; ok {
		radius, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil || radius <= 0 || radius > station.MaxRadiusKm {
			return parsed, InvalidParameterError{Param: "radius", Value: radiusStr}
		}
		parsed.RadiusKm = radius
	}

	if refreshStr, ok := params["refresh"]; ok {
		parsed.Refresh = parseBoolish(refreshStr)
	}

	return parsed, nil
}

// parseBoolish accepts the loose truthy spellings clients actually send.
func parseBoolish(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
