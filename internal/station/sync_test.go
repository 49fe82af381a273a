package station

import (
	"context"
	"errors"
	"testing"

	"github.com/petrolfinder/backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlaces struct {
	perCell func(lat, lng float64) ([]models.StationCandidate, error)
	cells   int
}

func (s *stubPlaces) FindNearby(_ context.Context, lat, lng float64, _ int) ([]models.StationCandidate, error) {
	s.cells++
	if s.perCell == nil {
		return nil, nil
	}
	return s.perCell(lat, lng)
}

type stubUpserter struct {
	created map[string]bool
	calls   []string
	err     error
}

func (s *stubUpserter) Upsert(_ context.Context, candidate models.StationCandidate) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.calls = append(s.calls, candidate.ExternalID)
	if s.created == nil {
		s.created = map[string]bool{}
	}
	isNew := !s.created[candidate.ExternalID]
	s.created[candidate.ExternalID] = true
	return isNew, nil
}

type stubSnapshot struct {
	saved []models.StationCandidate
	err   error
}

func (s *stubSnapshot) SaveStations(_ context.Context, stations []models.StationCandidate) error {
	s.saved = stations
	return s.err
}

func newTestSyncService(places PlacesFinder, store StationUpserter, snapshot SnapshotSaver) *SyncService {
	service := NewSyncService(places, store, snapshot)
	service.cellDelay = 0
	return service
}

func externalWithCoords(id string, lat, lng float64) models.StationCandidate {
	return models.StationCandidate{
		ExternalID: id,
		Name:       "Station " + id,
		Latitude:   lat,
		Longitude:  lng,
		HasCoords:  true,
		Source:     models.SourceExternal,
	}
}

func TestSyncAreaSweepsGrid(t *testing.T) {
	places := &stubPlaces{}
	service := newTestSyncService(places, &stubUpserter{}, nil)

	// A 0.1 x 0.1 degree box on a 0.05 grid yields a 3x3 sweep.
	_, err := service.SyncArea(context.Background(), Bounds{
		North: 0.10, South: 0, East: 0.10, West: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, 9, places.cells)
}

func TestSyncAreaCountsCreatedAndUpdated(t *testing.T) {
	places := &stubPlaces{perCell: func(lat, lng float64) ([]models.StationCandidate, error) {
		// The same station shows up in every cell.
		return []models.StationCandidate{externalWithCoords("place-1", lat, lng)}, nil
	}}
	store := &stubUpserter{}
	snapshot := &stubSnapshot{}
	service := newTestSyncService(places, store, snapshot)

	result, err := service.SyncArea(context.Background(), Bounds{
		North: 0.05, South: 0, East: 0.05, West: 0,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 3, result.Updated)
	assert.Len(t, snapshot.saved, 4)
}

func TestSyncAreaSkipsCandidatesWithoutCoords(t *testing.T) {
	places := &stubPlaces{perCell: func(_, _ float64) ([]models.StationCandidate, error) {
		return []models.StationCandidate{{ExternalID: "no-coords", Name: "Mystery"}}, nil
	}}
	store := &stubUpserter{}
	service := newTestSyncService(places, store, nil)

	result, err := service.SyncArea(context.Background(), Bounds{
		North: 0, South: 0, East: 0, West: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Empty(t, store.calls)
}

func TestSyncAreaContinuesPastFailingCells(t *testing.T) {
	cell := 0
	places := &stubPlaces{perCell: func(lat, lng float64) ([]models.StationCandidate, error) {
		cell++
		if cell == 1 {
			return nil, errors.New("quota exceeded")
		}
		return []models.StationCandidate{externalWithCoords("place-1", lat, lng)}, nil
	}}
	store := &stubUpserter{}
	service := newTestSyncService(places, store, nil)

	result, err := service.SyncArea(context.Background(), Bounds{
		North: 0.05, South: 0, East: 0, West: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.Updated)
}

func TestSyncAreaInvalidBounds(t *testing.T) {
	service := newTestSyncService(&stubPlaces{}, &stubUpserter{}, nil)

	tests := []struct {
		name   string
		bounds Bounds
	}{
		{name: "north below south", bounds: Bounds{North: -27, South: -26, East: 28, West: 27}},
		{name: "east below west", bounds: Bounds{North: -26, South: -27, East: 27, West: 28}},
		{name: "out of range", bounds: Bounds{North: 95, South: -26, East: 28, West: 27}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.SyncArea(context.Background(), tt.bounds)
			assert.Error(t, err)
		})
	}
}

func TestSyncAreaHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	places := &stubPlaces{perCell: func(lat, lng float64) ([]models.StationCandidate, error) {
		cancel()
		return []models.StationCandidate{externalWithCoords("place-1", lat, lng)}, nil
	}}
	service := NewSyncService(places, &stubUpserter{}, nil)

	_, err := service.SyncArea(ctx, Bounds{
		North: 0.10, South: 0, East: 0.10, West: 0,
	})
	assert.ErrorIs(t, err, context.Canceled)
}
