package station

import (
	"context"
	"fmt"
	"time"

	"github.com/petrolfinder/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

const (
	// Grid step for area sweeps, ~5.5km between search centers.
	syncGridStep = 0.05
	// Per-cell search radius in meters.
	syncCellRadiusMeters = 10000
	// Pause between grid cells to stay under upstream rate limits.
	defaultCellDelay = time.Second
)

// Bounds is a geographic bounding box for bulk sync sweeps.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

func (b Bounds) Validate() error {
	if b.North < b.South {
		return fmt.Errorf("north (%f) must be >= south (%f)", b.North, b.South)
	}
	if b.East < b.West {
		return fmt.Errorf("east (%f) must be >= west (%f)", b.East, b.West)
	}
	if b.South < -90 || b.North > 90 || b.West < -180 || b.East > 180 {
		return fmt.Errorf("bounds out of range")
	}
	return nil
}

// SyncResult reports what an area sweep did.
type SyncResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// SnapshotSaver persists the swept station directory.
type SnapshotSaver interface {
	SaveStations(ctx context.Context, stations []models.StationCandidate) error
}

// SyncService sweeps a bounding box on a fixed grid, pulling external
// candidates per cell and upserting them into the station store.
type SyncService struct {
	places    PlacesFinder
	store     StationUpserter
	snapshot  SnapshotSaver
	cellDelay time.Duration
}

func NewSyncService(places PlacesFinder, store StationUpserter, snapshot SnapshotSaver) *SyncService {
	return &SyncService{
		places:    places,
		store:     store,
		snapshot:  snapshot,
		cellDelay: defaultCellDelay,
	}
}

// SyncArea sweeps the bounds and returns created/updated counts. A failing
// cell is logged and skipped; the sweep continues.
func (s *SyncService) SyncArea(ctx context.Context, bounds Bounds) (SyncResult, error) {
	var result SyncResult
	if err := bounds.Validate(); err != nil {
		return result, err
	}

	var swept []models.StationCandidate
	first := true

	for lat := bounds.South; lat <= bounds.North; lat += syncGridStep {
		for lng := bounds.West; lng <= bounds.East; lng += syncGridStep {
			if !first {
				select {
				case <-ctx.Done():
					return result, ctx.Err()
				case <-time.After(s.cellDelay):
				}
			}
			first = false

			candidates, err := s.places.FindNearby(ctx, lat, lng, syncCellRadiusMeters)
			if err != nil {
				log.Error().Err(err).Float64("lat", lat).Float64("lng", lng).Msg("Error sweeping grid cell")
				continue
			}

			for _, candidate := range candidates {
				if !candidate.HasCoords {
					continue
				}
				created, err := s.store.Upsert(ctx, candidate)
				if err != nil {
					log.Error().Err(err).Str("external_id", candidate.ExternalID).Msg("Error upserting station")
					continue
				}
				if created {
					result.Created++
				} else {
					result.Updated++
				}
				swept = append(swept, candidate)
			}
		}
	}

	if s.snapshot != nil && len(swept) > 0 {
		if err := s.snapshot.SaveStations(ctx, swept); err != nil {
			log.Error().Err(err).Msg("Error saving station directory snapshot")
		}
	}

	log.Info().Int("created", result.Created).Int("updated", result.Updated).Msg("Area sync complete")
	return result, nil
}
