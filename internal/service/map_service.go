package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/pollenmap/pollen-backend-go/internal/cache"
	"github.com/pollenmap/pollen-backend-go/internal/models"
	"github.com/pollenmap/pollen-backend-go/internal/prefetch"
	"github.com/pollenmap/pollen-backend-go/internal/projector"
	"github.com/pollenmap/pollen-backend-go/internal/repository"
	"github.com/pollenmap/pollen-backend-go/internal/upstream"
)

// MapService produces renderable frames: it owns the grid cache, the
// upstream client, the prefetch scheduler and the region mask.
type MapService struct {
	client    *upstream.Client
	cache     *cache.GridCache
	prefetch  *prefetch.Scheduler
	snapshots *repository.SnapshotRepository
	region    *models.Region

	latitudes  []float64
	longitudes []float64

	prefetchDepth int
	pruneDistance int
}

// NewMapService creates a map service. snapshots may be nil to disable
// warm-start persistence.
func NewMapService(client *upstream.Client, gridCache *cache.GridCache,
	snapshots *repository.SnapshotRepository, region *models.Region,
	prefetchDepth, pruneDistance int) *MapService {
	return &MapService{
		client:        client,
		cache:         gridCache,
		prefetch:      prefetch.NewScheduler(client, gridCache),
		snapshots:     snapshots,
		region:        region,
		prefetchDepth: prefetchDepth,
		pruneDistance: pruneDistance,
	}
}

// LoadAxes fetches the fixed sampling axes once at startup. Every coordinate
// resolution depends on them, so failure here is fatal to the caller.
func (s *MapService) LoadAxes(ctx context.Context) error {
	latitudes, err := s.client.Latitudes(ctx)
	if err != nil {
		return fmt.Errorf("failed to load latitude axis: %w", err)
	}
	longitudes, err := s.client.Longitudes(ctx)
	if err != nil {
		return fmt.Errorf("failed to load longitude axis: %w", err)
	}
	if len(latitudes) == 0 || len(longitudes) == 0 {
		return fmt.Errorf("upstream returned empty coordinate axes")
	}
	s.latitudes = latitudes
	s.longitudes = longitudes
	log.Printf("Loaded sampling axes: %d latitudes x %d longitudes", len(latitudes), len(longitudes))
	return nil
}

// Axes returns the loaded sampling axes.
func (s *MapService) Axes() (latitudes, longitudes []float64) {
	return s.latitudes, s.longitudes
}

// Region returns the deployment region.
func (s *MapService) Region() *models.Region {
	return s.region
}

// WarmStart restores persisted grid snapshots into the cache.
func (s *MapService) WarmStart() {
	if s.snapshots == nil {
		return
	}
	restored := 0
	err := s.snapshots.LoadAll(func(species string, hour int, grid []byte) {
		s.cache.Restore(species, hour, grid)
		restored++
	})
	if err != nil {
		log.Printf("cache warm start failed: %v", err)
		return
	}
	if restored > 0 {
		log.Printf("Restored %d grid snapshots into the cache", restored)
	}
}

// FrameForHour returns the rendered layer for one hour. Cache hits render
// immediately and kick a background prefetch for the following hours; misses
// block on one upstream fetch. Every call prunes the species' cache around
// the new current hour.
func (s *MapService) FrameForHour(ctx context.Context, species models.PollenConfig, baseDate string, hour int, zoom float64) (models.Frame, error) {
	params := upstream.HourParams{
		Species:  species,
		BaseDate: baseDate,
		Hour:     hour,
		Box:      s.region.Box,
	}

	grid, hit := s.cache.Get(species.APIKey, hour)
	if hit {
		go s.prefetch.Prefetch(context.WithoutCancel(ctx), params, hour, s.prefetchDepth)
	} else {
		fetched, err := s.client.HourGrid(ctx, params)
		if err != nil {
			return models.Frame{}, fmt.Errorf("failed to fetch %s hour %d: %w", species.APIKey, hour, err)
		}
		grid = fetched
		s.cache.Put(species.APIKey, hour, grid)
		s.persistSnapshot(species.APIKey, hour, grid)
	}

	s.cache.Prune(species.APIKey, hour, s.pruneDistance)

	tier := projector.TierForZoom(zoom)
	cells := projector.Project(grid.Samples, s.region, projector.CellSizeForTier(tier), s.bucketer(species))

	return models.Frame{
		Species: species.APIKey,
		Hour:    hour,
		Date:    baseDate,
		Tier:    tier,
		Cells:   cells,
	}, nil
}

// bucketer picks the canonical color encoding for a species: nowcasting
// grids arrive as normalized 0..1 intensities, forecast grids as raw grain
// counts bucketed through the species level scale.
func (s *MapService) bucketer(species models.PollenConfig) projector.Bucketer {
	if species.Nowcast {
		return projector.BucketIntensity
	}
	return projector.BucketForLevels(species.Levels)
}

func (s *MapService) persistSnapshot(species string, hour int, grid models.Grid) {
	if s.snapshots == nil {
		return
	}
	raw, err := json.Marshal(grid)
	if err != nil {
		return
	}
	if err := s.snapshots.Save(species, hour, raw); err != nil {
		// Persistence is best-effort; the in-memory cache stays authoritative.
		log.Printf("failed to persist snapshot %s/%d: %v", species, hour, err)
	}
}
