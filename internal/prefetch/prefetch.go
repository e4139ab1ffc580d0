// Package prefetch warms the grid cache for upcoming timeline hours so
// playback does not stall on network round trips.
package prefetch

import (
	"context"
	"log"
	"sync"

	"github.com/pollenmap/pollen-backend-go/internal/cache"
	"github.com/pollenmap/pollen-backend-go/internal/models"
	"github.com/pollenmap/pollen-backend-go/internal/upstream"
)

// GridFetcher is the slice of the upstream client the scheduler needs.
type GridFetcher interface {
	HourGrid(ctx context.Context, params upstream.HourParams) (models.Grid, error)
}

// Scheduler issues best-effort background fetches for the hours following the
// active one. Failures are logged and swallowed: prefetching must never block
// or fail the foreground interaction.
type Scheduler struct {
	fetcher GridFetcher
	cache   *cache.GridCache
}

// NewScheduler creates a prefetch scheduler writing into the shared cache.
func NewScheduler(fetcher GridFetcher, gridCache *cache.GridCache) *Scheduler {
	return &Scheduler{fetcher: fetcher, cache: gridCache}
}

// Prefetch fetches the hoursAhead hour grids after baseHour concurrently,
// wrapping at the 48-hour horizon (day rollover is handled by the fetch
// layer). Hours already cached are skipped. Returns once every fetch has
// settled.
func (s *Scheduler) Prefetch(ctx context.Context, base upstream.HourParams, baseHour, hoursAhead int) {
	var wg sync.WaitGroup
	for i := 1; i <= hoursAhead; i++ {
		hour := (baseHour + i) % upstream.TotalHours
		if _, ok := s.cache.Get(base.Species.APIKey, hour); ok {
			continue
		}

		params := base
		params.Hour = hour

		wg.Add(1)
		go func() {
			defer wg.Done()
			grid, err := s.fetcher.HourGrid(ctx, params)
			if err != nil {
				// Speculative fetch: log only, never surface.
				log.Printf("prefetch %s hour %d failed: %v", params.Species.APIKey, params.Hour, err)
				return
			}
			s.cache.Put(params.Species.APIKey, params.Hour, grid)
		}()
	}
	wg.Wait()
}
