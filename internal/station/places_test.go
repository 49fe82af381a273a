package station

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/petrolfinder/backend-go/internal/models"
	"github.com/petrolfinder/backend-go/pkg/http/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placesClient(fn func(ctx context.Context, path string) (*client.Response, error)) *client.Client {
	c := client.New(client.Options{})
	c.GetFunc = fn
	return c
}

func newTestPlacesSource(fn func(ctx context.Context, path string) (*client.Response, error)) *PlacesSource {
	source := NewPlacesSource(placesClient(fn), "test-key")
	source.pageDelay = 0
	return source
}

const singlePage = `{
	"status": "OK",
	"results": [
		{
			"place_id": "place-1",
			"name": "Shell Sandton",
			"vicinity": "1 Rivonia Rd, Sandton",
			"business_status": "OPERATIONAL",
			"rating": 4.3,
			"price_level": 2,
			"geometry": {"location": {"lat": -26.1076, "lng": 28.0567}},
			"opening_hours": {"open_now": true},
			"photos": [
				{"photo_reference": "ref-1"},
				{"photo_reference": "ref-2"},
				{"photo_reference": "ref-3"},
				{"photo_reference": "ref-4"}
			]
		},
		{
			"place_id": "place-2",
			"name": "Closed Station",
			"business_status": "CLOSED_PERMANENTLY",
			"geometry": {"location": {"lat": -26.11, "lng": 28.06}}
		},
		{
			"place_id": "place-3",
			"name": "No Geometry Fuel",
			"business_status": "OPERATIONAL"
		}
	]
}`

func TestPlacesFindNearbyMapsResults(t *testing.T) {
	var gotPath string
	source := newTestPlacesSource(func(_ context.Context, path string) (*client.Response, error) {
		gotPath = path
		return &client.Response{StatusCode: http.StatusOK, Body: []byte(singlePage)}, nil
	})

	candidates, err := source.FindNearby(context.Background(), -26.10, 28.05, 5000)
	require.NoError(t, err)

	// Non-operational entries are dropped.
	require.Len(t, candidates, 2)

	first := candidates[0]
	assert.Equal(t, "place-1", first.ExternalID)
	assert.Equal(t, "Shell Sandton", first.Name)
	assert.Equal(t, "1 Rivonia Rd, Sandton", first.Address)
	assert.Equal(t, models.SourceExternal, first.Source)
	assert.True(t, first.HasCoords)
	require.NotNil(t, first.Rating)
	assert.Equal(t, 4.3, *first.Rating)
	require.NotNil(t, first.IsOpenNow)
	assert.True(t, *first.IsOpenNow)
	assert.Equal(t, []string{"ref-1", "ref-2", "ref-3"}, first.Photos)

	noGeometry := candidates[1]
	assert.Equal(t, "place-3", noGeometry.ExternalID)
	assert.False(t, noGeometry.HasCoords)

	require.True(t, strings.HasPrefix(gotPath, nearbySearchPath+"?"))
	params, err := url.ParseQuery(strings.TrimPrefix(gotPath, nearbySearchPath+"?"))
	require.NoError(t, err)
	assert.Equal(t, "gas_station", params.Get("type"))
	assert.Equal(t, "5000", params.Get("radius"))
	assert.Equal(t, "test-key", params.Get("key"))
}

func TestPlacesFindNearbyFollowsPagination(t *testing.T) {
	firstPage := `{"status": "OK", "next_page_token": "token-abc", "results": [
		{"place_id": "p1", "name": "A", "business_status": "OPERATIONAL", "geometry": {"location": {"lat": 1, "lng": 2}}}
	]}`
	secondPage := `{"status": "OK", "results": [
		{"place_id": "p2", "name": "B", "business_status": "OPERATIONAL", "geometry": {"location": {"lat": 3, "lng": 4}}}
	]}`

	var paths []string
	source := newTestPlacesSource(func(_ context.Context, path string) (*client.Response, error) {
		paths = append(paths, path)
		if len(paths) == 1 {
			return &client.Response{StatusCode: http.StatusOK, Body: []byte(firstPage)}, nil
		}
		return &client.Response{StatusCode: http.StatusOK, Body: []byte(secondPage)}, nil
	})

	candidates, err := source.FindNearby(context.Background(), -26.10, 28.05, 5000)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "p1", candidates[0].ExternalID)
	assert.Equal(t, "p2", candidates[1].ExternalID)

	require.Len(t, paths, 2)
	assert.Contains(t, paths[1], "pagetoken=token-abc")
}

func TestPlacesFindNearbyFirstPageFailure(t *testing.T) {
	source := newTestPlacesSource(func(_ context.Context, _ string) (*client.Response, error) {
		return nil, errors.New("connection refused")
	})

	candidates, err := source.FindNearby(context.Background(), -26.10, 28.05, 5000)
	assert.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestPlacesFindNearbyPartialPagination(t *testing.T) {
	firstPage := `{"status": "OK", "next_page_token": "token-abc", "results": [
		{"place_id": "p1", "name": "A", "business_status": "OPERATIONAL", "geometry": {"location": {"lat": 1, "lng": 2}}}
	]}`

	calls := 0
	source := newTestPlacesSource(func(_ context.Context, _ string) (*client.Response, error) {
		calls++
		if calls == 1 {
			return &client.Response{StatusCode: http.StatusOK, Body: []byte(firstPage)}, nil
		}
		return nil, errors.New("token not ready")
	})

	candidates, err := source.FindNearby(context.Background(), -26.10, 28.05, 5000)
	require.NoError(t, err)

	// The first page still comes back when pagination breaks.
	require.Len(t, candidates, 1)
	assert.Equal(t, "p1", candidates[0].ExternalID)
}

func TestPlacesFindNearbyRejectsErrorStatus(t *testing.T) {
	source := newTestPlacesSource(func(_ context.Context, _ string) (*client.Response, error) {
		return &client.Response{StatusCode: http.StatusOK, Body: []byte(`{"status": "REQUEST_DENIED"}`)}, nil
	})

	candidates, err := source.FindNearby(context.Background(), -26.10, 28.05, 5000)
	assert.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestPlacesFindNearbyZeroResults(t *testing.T) {
	source := newTestPlacesSource(func(_ context.Context, _ string) (*client.Response, error) {
		return &client.Response{StatusCode: http.StatusOK, Body: []byte(`{"status": "ZERO_RESULTS", "results": []}`)}, nil
	})

	candidates, err := source.FindNearby(context.Background(), -26.10, 28.05, 5000)
	assert.NoError(t, err)
	assert.Empty(t, candidates)
}
