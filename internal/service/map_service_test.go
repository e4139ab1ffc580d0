package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollenmap/pollen-backend-go/internal/cache"
	"github.com/pollenmap/pollen-backend-go/internal/models"
	"github.com/pollenmap/pollen-backend-go/internal/projector"
	"github.com/pollenmap/pollen-backend-go/internal/upstream"
)

func serviceRegion() *models.Region {
	ring := []models.LonLat{
		{9.0, 47.0}, {14.0, 47.0}, {14.0, 51.0}, {9.0, 51.0}, {9.0, 47.0},
	}
	return &models.Region{
		Key: "test",
		Box: models.BoundingBox{9.0, 47.0, 14.0, 51.0},
		Polygons: []models.MaskPolygon{
			{Box: models.BoundingBox{9.0, 47.0, 14.0, 51.0}, Ring: ring},
		},
	}
}

func forecastSpecies() models.PollenConfig {
	return models.PollenConfig{
		APIKey: "betula",
		Label:  "Birch",
		Levels: []models.Level{
			{Label: "low", Min: 0, Max: 10},
			{Label: "moderate", Min: 10, Max: 100},
			{Label: "high", Min: 100, Max: 400},
			{Label: "very high", Min: 400, Max: 10000},
		},
	}
}

func newUpstreamStub(t *testing.T, hourCalls *int64) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/forecast/hour":
			atomic.AddInt64(hourCalls, 1)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data":       []float64{50.0},
				"latitudes":  []float64{48.0},
				"longitudes": []float64{11.0},
			})
		case "/latitudes":
			json.NewEncoder(w).Encode([]float64{48.0})
		case "/longitudes":
			json.NewEncoder(w).Encode([]float64{11.0})
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
}

func TestFrameForHourMissThenHit(t *testing.T) {
	var hourCalls int64
	server := newUpstreamStub(t, &hourCalls)
	defer server.Close()

	client := upstream.NewClient(server.URL)
	gridCache := cache.NewGridCache()
	// Prefetch depth 0 keeps the call count deterministic here.
	svc := NewMapService(client, gridCache, nil, serviceRegion(), 0, 6)

	frame, err := svc.FrameForHour(context.Background(), forecastSpecies(), "2026-04-20", 10, 8.0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&hourCalls), "miss fetches upstream")
	assert.Equal(t, projector.TierMedium, frame.Tier)
	require.Len(t, frame.Cells, 1)
	assert.Equal(t, models.BucketYellowGreen, frame.Cells[0].Bucket)

	_, err = svc.FrameForHour(context.Background(), forecastSpecies(), "2026-04-20", 10, 8.0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&hourCalls), "hit serves from cache")
}

func TestFrameForHourPrunesAroundCurrentHour(t *testing.T) {
	var hourCalls int64
	server := newUpstreamStub(t, &hourCalls)
	defer server.Close()

	client := upstream.NewClient(server.URL)
	gridCache := cache.NewGridCache()
	svc := NewMapService(client, gridCache, nil, serviceRegion(), 0, 2)

	for hour := 0; hour < 12; hour++ {
		gridCache.Put("betula", hour, models.Grid{Samples: []models.Sample{
			{Lat: 48.0, Lon: 11.0, Value: models.Float64Ptr(1)},
		}})
	}

	_, err := svc.FrameForHour(context.Background(), forecastSpecies(), "2026-04-20", 5, 8.0)
	require.NoError(t, err)

	// Pruning runs on every current-hour change: distance 2 around hour 5.
	assert.Equal(t, 5, gridCache.Len("betula"))
	_, ok := gridCache.Get("betula", 8)
	assert.False(t, ok)
	_, ok = gridCache.Get("betula", 3)
	assert.True(t, ok)
}

func TestFrameForHourPrefetchWarmsFollowing(t *testing.T) {
	var hourCalls int64
	server := newUpstreamStub(t, &hourCalls)
	defer server.Close()

	client := upstream.NewClient(server.URL)
	gridCache := cache.NewGridCache()
	svc := NewMapService(client, gridCache, nil, serviceRegion(), 3, 6)

	gridCache.Put("betula", 10, models.Grid{Samples: []models.Sample{
		{Lat: 48.0, Lon: 11.0, Value: models.Float64Ptr(1)},
	}})

	_, err := svc.FrameForHour(context.Background(), forecastSpecies(), "2026-04-20", 10, 8.0)
	require.NoError(t, err)

	// The hit kicks an async prefetch for hours 11..13.
	require.Eventually(t, func() bool {
		return gridCache.Len("betula") >= 4
	}, 2*time.Second, 10*time.Millisecond)
	for hour := 11; hour <= 13; hour++ {
		_, ok := gridCache.Get("betula", hour)
		assert.True(t, ok, "hour %d should be prefetched", hour)
	}
}

func TestLoadAxes(t *testing.T) {
	var hourCalls int64
	server := newUpstreamStub(t, &hourCalls)
	defer server.Close()

	client := upstream.NewClient(server.URL)
	svc := NewMapService(client, cache.NewGridCache(), nil, serviceRegion(), 0, 6)

	require.NoError(t, svc.LoadAxes(context.Background()))
	latitudes, longitudes := svc.Axes()
	assert.Equal(t, []float64{48.0}, latitudes)
	assert.Equal(t, []float64{11.0}, longitudes)
}
