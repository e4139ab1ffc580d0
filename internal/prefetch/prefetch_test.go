package prefetch

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pollenmap/pollen-backend-go/internal/cache"
	"github.com/pollenmap/pollen-backend-go/internal/models"
	"github.com/pollenmap/pollen-backend-go/internal/upstream"
)

type fakeFetcher struct {
	mu      sync.Mutex
	fetched []int
	failOn  map[int]bool
}

func (f *fakeFetcher) HourGrid(ctx context.Context, params upstream.HourParams) (models.Grid, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, params.Hour)
	f.mu.Unlock()
	if f.failOn[params.Hour] {
		return models.Grid{}, fmt.Errorf("hour %d unavailable", params.Hour)
	}
	return models.Grid{Samples: []models.Sample{
		{Lat: 48.0, Lon: 11.0, Value: models.Float64Ptr(float64(params.Hour))},
	}}, nil
}

func baseParams() upstream.HourParams {
	return upstream.HourParams{
		Species:  models.PollenConfig{APIKey: "betula"},
		BaseDate: "2026-04-20",
	}
}

func TestPrefetchWarmsFollowingHours(t *testing.T) {
	fetcher := &fakeFetcher{}
	gridCache := cache.NewGridCache()
	s := NewScheduler(fetcher, gridCache)

	s.Prefetch(context.Background(), baseParams(), 10, 5)

	for hour := 11; hour <= 15; hour++ {
		_, ok := gridCache.Get("betula", hour)
		assert.True(t, ok, "hour %d should be warmed", hour)
	}
	_, ok := gridCache.Get("betula", 16)
	assert.False(t, ok)
}

func TestPrefetchWrapsHorizon(t *testing.T) {
	fetcher := &fakeFetcher{}
	gridCache := cache.NewGridCache()
	s := NewScheduler(fetcher, gridCache)

	s.Prefetch(context.Background(), baseParams(), 46, 4)

	for _, hour := range []int{47, 0, 1, 2} {
		_, ok := gridCache.Get("betula", hour)
		assert.True(t, ok, "hour %d should be warmed", hour)
	}
}

func TestPrefetchSkipsCachedHours(t *testing.T) {
	fetcher := &fakeFetcher{}
	gridCache := cache.NewGridCache()
	gridCache.Put("betula", 11, models.Grid{})
	s := NewScheduler(fetcher, gridCache)

	s.Prefetch(context.Background(), baseParams(), 10, 2)

	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	assert.Equal(t, []int{12}, fetcher.fetched)
}

func TestPrefetchSwallowsFailures(t *testing.T) {
	fetcher := &fakeFetcher{failOn: map[int]bool{12: true}}
	gridCache := cache.NewGridCache()
	s := NewScheduler(fetcher, gridCache)

	// Must not panic or surface the failure.
	s.Prefetch(context.Background(), baseParams(), 10, 3)

	_, ok := gridCache.Get("betula", 12)
	assert.False(t, ok, "failed hour stays cold")
	_, ok = gridCache.Get("betula", 11)
	assert.True(t, ok)
	_, ok = gridCache.Get("betula", 13)
	assert.True(t, ok)
}
