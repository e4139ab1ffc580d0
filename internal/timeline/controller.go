// Package timeline owns the active hour of the 48-hour horizon and playback
// semantics: play sweeps the full horizon once from wherever the user
// started, wrapping at the end and stopping when it would pass its own start
// hour again.
package timeline

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// State is a snapshot of the controller.
type State struct {
	ActiveHour int  `json:"active_hour"`
	Playing    bool `json:"playing"`
	Wrapped    bool `json:"wrapped"`
	StartHour  int  `json:"start_hour"`
}

// Controller is the per-session playback state machine. All mutation goes
// through the mutex; ticks never overlap because Run drives the advance and
// the per-hour work from a single goroutine, and an externally flagged
// in-flight fetch suppresses the advance entirely.
type Controller struct {
	mu            sync.Mutex
	totalHours    int
	hour          int
	playing       bool
	wrapped       bool
	startHour     int
	fetchInFlight bool
}

// NewController starts Idle at the given hour.
func NewController(totalHours, initialHour int) *Controller {
	if initialHour < 0 || initialHour >= totalHours {
		initialHour = 0
	}
	return &Controller{totalHours: totalHours, hour: initialHour}
}

// InitialHour returns the default starting hour: hours elapsed since the
// start of the local day.
func InitialHour(now time.Time) int {
	return now.Hour()
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		ActiveHour: c.hour,
		Playing:    c.playing,
		Wrapped:    c.wrapped,
		StartHour:  c.startHour,
	}
}

// Seek jumps to an hour and cancels playback.
func (c *Controller) Seek(hour int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if hour < 0 || hour >= c.totalHours {
		return fmt.Errorf("hour %d outside horizon [0,%d)", hour, c.totalHours)
	}
	c.hour = hour
	c.playing = false
	c.wrapped = false
	return nil
}

// Play starts playback from the current hour. The start hour anchors the
// auto-stop rule.
func (c *Controller) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing {
		return
	}
	c.playing = true
	c.wrapped = false
	c.startHour = c.hour
}

// Pause stops playback, keeping the current hour.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = false
}

// SetFetchInFlight gates ticking while a blocking foreground fetch runs, so
// fast playback cannot pile up concurrent fetches.
func (c *Controller) SetFetchInFlight(busy bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchInFlight = busy
}

// Tick advances playback by one hour. Returns the hour after the transition
// and whether the controller advanced. When a wrapped run would pass its
// start hour the controller auto-stops to Idle instead of looping forever.
func (c *Controller) Tick() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.playing || c.fetchInFlight {
		return c.hour, false
	}

	next := c.hour + 1
	if !c.wrapped {
		if next > c.totalHours-1 {
			c.hour = 0
			c.wrapped = true
		} else {
			c.hour = next
		}
		return c.hour, true
	}

	if next > c.startHour {
		c.playing = false
		return c.hour, false
	}
	c.hour = next
	return c.hour, true
}

// Run drives playback on a fixed interval until the context is cancelled or
// playback ends (pause, seek or auto-stop). onHour runs synchronously on
// every hour transition, so a slow hour (cache miss, blocking fetch) simply
// drops ticks instead of overlapping them.
func (c *Controller) Run(ctx context.Context, interval time.Duration, onHour func(hour int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			hour, advanced := c.Tick()
			if advanced {
				onHour(hour)
			} else if !c.Snapshot().Playing {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
