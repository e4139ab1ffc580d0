// Package chart resolves an inspected map point to the nearest sampled grid
// coordinate and manages the time-series fetch behind the detail chart.
package chart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/pollenmap/pollen-backend-go/internal/models"
	"github.com/pollenmap/pollen-backend-go/internal/spatial"
	"github.com/pollenmap/pollen-backend-go/internal/upstream"
)

// ErrSuperseded marks a request that lost to a newer one. It is expected
// during rapid re-selection and is never surfaced as a failure.
var ErrSuperseded = errors.New("chart request superseded")

// SeriesFetcher is the slice of the upstream client the orchestrator needs.
type SeriesFetcher interface {
	Series(ctx context.Context, params upstream.SeriesParams) ([]models.SeriesPoint, error)
}

// Orchestrator serializes chart fetches for one session: each new request
// gets a fresh token and aborts the previous in-flight request, so only the
// most recent selection ever publishes, regardless of response order.
type Orchestrator struct {
	fetcher    SeriesFetcher
	latitudes  []float64
	longitudes []float64

	mu      sync.Mutex
	latest  uuid.UUID
	cancel  context.CancelFunc
	publish func(models.ChartSeries)
}

// NewOrchestrator creates an orchestrator bound to the loaded coordinate
// axes. publish receives every winning series; it may be nil.
func NewOrchestrator(fetcher SeriesFetcher, latitudes, longitudes []float64, publish func(models.ChartSeries)) *Orchestrator {
	return &Orchestrator{
		fetcher:    fetcher,
		latitudes:  latitudes,
		longitudes: longitudes,
		publish:    publish,
	}
}

// Resolve snaps a click/search point to the nearest sampled coordinates.
// Each axis resolves independently: the sampling grid is a full lat x lon
// cross product, so no joint nearest-neighbor search is needed.
func (o *Orchestrator) Resolve(lat, lon float64) (models.ResolvedPoint, error) {
	nearestLat, err := spatial.Nearest(lat, o.latitudes)
	if err != nil {
		return models.ResolvedPoint{}, fmt.Errorf("latitude axis: %w", err)
	}
	nearestLon, err := spatial.Nearest(lon, o.longitudes)
	if err != nil {
		return models.ResolvedPoint{}, fmt.Errorf("longitude axis: %w", err)
	}
	return models.ResolvedPoint{Lat: nearestLat, Lon: nearestLon}, nil
}

// ShowChartFor resolves the point and fetches its time series. A newer call
// aborts this one; a superseded result is discarded and reported as
// ErrSuperseded. Genuine fetch failures are logged and returned for the
// caller's inline error state.
func (o *Orchestrator) ShowChartFor(ctx context.Context, lat, lon float64, species models.PollenConfig, date string, hour int) (models.ChartSeries, error) {
	point, err := o.Resolve(lat, lon)
	if err != nil {
		return models.ChartSeries{}, err
	}

	o.mu.Lock()
	token := uuid.New()
	o.latest = token
	if o.cancel != nil {
		// Abort the previous in-flight request.
		o.cancel()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.mu.Unlock()
	defer cancel()

	points, err := o.fetcher.Series(reqCtx, upstream.SeriesParams{
		Species: species,
		Lat:     point.Lat,
		Lon:     point.Lon,
		Date:    date,
		Hour:    hour,
		NHours:  upstream.TotalHours,
	})

	if !o.stillLatest(token) {
		// Stale response, even if it arrived after the winner's: drop
		// silently so a slow earlier request cannot clobber a newer one.
		return models.ChartSeries{}, ErrSuperseded
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return models.ChartSeries{}, ErrSuperseded
		}
		log.Printf("chart series fetch for (%g, %g) failed: %v", point.Lat, point.Lon, err)
		return models.ChartSeries{}, err
	}

	series := models.ChartSeries{
		Species: species.APIKey,
		Lat:     point.Lat,
		Lon:     point.Lon,
		Date:    date,
		Points:  points,
	}
	if o.publish != nil {
		o.publish(series)
	}
	return series, nil
}

// Abort cancels any in-flight request, used on session teardown so leaving
// the view does not leak work.
func (o *Orchestrator) Abort() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.latest = uuid.Nil
}

func (o *Orchestrator) stillLatest(token uuid.UUID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.latest == token
}
