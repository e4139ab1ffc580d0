// Package session holds the per-dashboard-client state container: active
// species, base date, zoom, the timeline controller and the chart
// orchestrator. Subsystems receive the session explicitly instead of reading
// ambient globals.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/pollenmap/pollen-backend-go/internal/chart"
	"github.com/pollenmap/pollen-backend-go/internal/geocode"
	"github.com/pollenmap/pollen-backend-go/internal/models"
	"github.com/pollenmap/pollen-backend-go/internal/timeline"
)

// Session is the state for one connected dashboard client.
type Session struct {
	ID       string
	Timeline *timeline.Controller
	Chart    *chart.Orchestrator
	Search   *geocode.Debouncer

	mu       sync.Mutex
	species  models.PollenConfig
	baseDate string
	zoom     float64

	cancelPlayback context.CancelFunc
}

// Species returns the active species config.
func (s *Session) Species() models.PollenConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.species
}

// SetSpecies switches the active species.
func (s *Session) SetSpecies(cfg models.PollenConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.species = cfg
}

// BaseDate returns the session's forecast base date (YYYY-MM-DD).
func (s *Session) BaseDate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseDate
}

// Zoom returns the last reported viewport zoom.
func (s *Session) Zoom() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zoom
}

// SetZoom records a viewport zoom change.
func (s *Session) SetZoom(zoom float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zoom = zoom
}

// setPlaybackCancel swaps the playback loop's cancel func, cancelling any
// previous loop.
func (s *Session) setPlaybackCancel(cancel context.CancelFunc) {
	s.mu.Lock()
	prev := s.cancelPlayback
	s.cancelPlayback = cancel
	s.mu.Unlock()
	if prev != nil {
		prev()
	}
}

// StopPlayback cancels the playback loop if one is running.
func (s *Session) StopPlayback() {
	s.setPlaybackCancel(nil)
}

// Manager tracks live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create registers a new session.
func (m *Manager) Create(species models.PollenConfig, baseDate string, zoom float64,
	controller *timeline.Controller, orchestrator *chart.Orchestrator, search *geocode.Debouncer) *Session {
	s := &Session{
		ID:       uuid.NewString(),
		Timeline: controller,
		Chart:    orchestrator,
		Search:   search,
		species:  species,
		baseDate: baseDate,
		zoom:     zoom,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s
}

// Get returns the session for an ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove tears a session down: playback stops, in-flight chart fetches and
// pending search debounces are aborted.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return false
	}

	s.StopPlayback()
	s.Timeline.Pause()
	s.Chart.Abort()
	s.Search.Cancel()
	return true
}

// StartPlayback wires a playback loop context into the session, replacing
// any previous loop. Returns the context the loop must observe.
func (s *Session) StartPlayback(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	s.setPlaybackCancel(cancel)
	return ctx
}
