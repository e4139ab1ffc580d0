package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pollenmap/pollen-backend-go/internal/chart"
	"github.com/pollenmap/pollen-backend-go/internal/geocode"
	"github.com/pollenmap/pollen-backend-go/internal/models"
	"github.com/pollenmap/pollen-backend-go/internal/session"
	"github.com/pollenmap/pollen-backend-go/internal/stream"
	"github.com/pollenmap/pollen-backend-go/internal/timeline"
	"github.com/pollenmap/pollen-backend-go/internal/upstream"
)

// SessionService drives per-client map sessions: timeline playback, frame
// rendering, species switching and chart orchestration.
type SessionService struct {
	manager      *session.Manager
	maps         *MapService
	hub          *stream.Hub
	catalog      *models.Catalog
	client       *upstream.Client
	tickInterval time.Duration
	debounce     time.Duration
}

// NewSessionService creates a session service.
func NewSessionService(manager *session.Manager, maps *MapService, hub *stream.Hub,
	catalog *models.Catalog, client *upstream.Client,
	tickInterval, debounce time.Duration) *SessionService {
	return &SessionService{
		manager:      manager,
		maps:         maps,
		hub:          hub,
		catalog:      catalog,
		client:       client,
		tickInterval: tickInterval,
		debounce:     debounce,
	}
}

// Create opens a session for a species. The timeline starts idle at the
// hours elapsed since the start of the local day.
func (s *SessionService) Create(speciesKey string, zoom float64) (*session.Session, error) {
	cfg, err := s.catalog.Get(speciesKey)
	if err != nil {
		return nil, err
	}

	baseDate := cfg.DefaultBaseDate
	if baseDate == "" {
		baseDate = time.Now().Format("2006-01-02")
	}

	controller := timeline.NewController(upstream.TotalHours, timeline.InitialHour(time.Now()))
	latitudes, longitudes := s.maps.Axes()

	var sessionID string
	orchestrator := chart.NewOrchestrator(s.client, latitudes, longitudes, func(series models.ChartSeries) {
		s.hub.Broadcast(sessionID, map[string]interface{}{"type": "chart", "series": series})
	})

	sess := s.manager.Create(cfg, baseDate, zoom, controller, orchestrator, geocode.NewDebouncer(s.debounce))
	sessionID = sess.ID
	return sess, nil
}

// Get returns a session by ID.
func (s *SessionService) Get(id string) (*session.Session, error) {
	sess, ok := s.manager.Get(id)
	if !ok {
		return nil, fmt.Errorf("unknown session %q", id)
	}
	return sess, nil
}

// Teardown removes a session and disconnects its renderers.
func (s *SessionService) Teardown(id string) error {
	if !s.manager.Remove(id) {
		return fmt.Errorf("unknown session %q", id)
	}
	s.hub.CloseSession(id)
	return nil
}

// Frame renders the layer for a session at the given hour (or the active
// hour when hour < 0), recording the viewport zoom.
func (s *SessionService) Frame(ctx context.Context, id string, hour int, zoom float64) (models.Frame, error) {
	sess, err := s.Get(id)
	if err != nil {
		return models.Frame{}, err
	}
	if zoom > 0 {
		sess.SetZoom(zoom)
	}
	if hour < 0 {
		hour = sess.Timeline.Snapshot().ActiveHour
	}
	return s.maps.FrameForHour(ctx, sess.Species(), sess.BaseDate(), hour, sess.Zoom())
}

// Play starts playback and spawns the tick loop. Each hour transition
// renders a frame and pushes it to the session's renderers.
func (s *SessionService) Play(id string) (timeline.State, error) {
	sess, err := s.Get(id)
	if err != nil {
		return timeline.State{}, err
	}

	sess.Timeline.Play()
	ctx := sess.StartPlayback(context.Background())
	go sess.Timeline.Run(ctx, s.tickInterval, func(hour int) {
		s.renderHour(ctx, sess, hour)
	})
	return sess.Timeline.Snapshot(), nil
}

// Pause halts playback at the current hour.
func (s *SessionService) Pause(id string) (timeline.State, error) {
	sess, err := s.Get(id)
	if err != nil {
		return timeline.State{}, err
	}
	sess.Timeline.Pause()
	sess.StopPlayback()
	return sess.Timeline.Snapshot(), nil
}

// Seek scrubs to an hour, cancelling playback, and pushes the frame for the
// new hour.
func (s *SessionService) Seek(ctx context.Context, id string, hour int) (timeline.State, error) {
	sess, err := s.Get(id)
	if err != nil {
		return timeline.State{}, err
	}
	if err := sess.Timeline.Seek(hour); err != nil {
		return timeline.State{}, err
	}
	sess.StopPlayback()
	s.renderHour(ctx, sess, hour)
	return sess.Timeline.Snapshot(), nil
}

// SwitchSpecies changes the active species. The previous species' cache
// namespace is left intact so toggling back does not refetch.
func (s *SessionService) SwitchSpecies(id, speciesKey string) error {
	sess, err := s.Get(id)
	if err != nil {
		return err
	}
	cfg, err := s.catalog.Get(speciesKey)
	if err != nil {
		return err
	}
	sess.SetSpecies(cfg)
	return nil
}

// Chart resolves a point and fetches its series with last-request-wins
// semantics.
func (s *SessionService) Chart(ctx context.Context, id string, lat, lon float64) (models.ChartSeries, error) {
	sess, err := s.Get(id)
	if err != nil {
		return models.ChartSeries{}, err
	}
	hour := sess.Timeline.Snapshot().ActiveHour
	return sess.Chart.ShowChartFor(ctx, lat, lon, sess.Species(), sess.BaseDate(), hour)
}

// renderHour fetches, projects and broadcasts one hour. The fetch-in-flight
// gate suppresses further ticks while a cache miss blocks on upstream.
func (s *SessionService) renderHour(ctx context.Context, sess *session.Session, hour int) {
	sess.Timeline.SetFetchInFlight(true)
	frame, err := s.maps.FrameForHour(ctx, sess.Species(), sess.BaseDate(), hour, sess.Zoom())
	sess.Timeline.SetFetchInFlight(false)
	if err != nil {
		// Background render failure: the renderer keeps its last frame.
		log.Printf("render hour %d for session %s failed: %v", hour, sess.ID, err)
		return
	}

	s.hub.Broadcast(sess.ID, map[string]interface{}{
		"type":     "frame",
		"frame":    frame,
		"timeline": sess.Timeline.Snapshot(),
	})
}
