// Package cache holds fetched pollen grids keyed by (species, hour). It is a
// pure lookup structure: misses are the caller's responsibility to resolve.
package cache

import (
	"encoding/json"
	"sync"

	"github.com/pollenmap/pollen-backend-go/internal/models"
)

// GridCache stores one grid per (species key, hour index). Grids are
// serialized on write and parsed on read so a caller holding a reference can
// never mutate a stored entry.
type GridCache struct {
	mu      sync.RWMutex
	entries map[string]map[int][]byte
}

// NewGridCache creates an empty cache.
func NewGridCache() *GridCache {
	return &GridCache{entries: make(map[string]map[int][]byte)}
}

// Get returns the grid for (species, hour) and whether it was present.
func (c *GridCache) Get(species string, hour int) (models.Grid, bool) {
	c.mu.RLock()
	raw, ok := c.entries[species][hour]
	c.mu.RUnlock()
	if !ok {
		return models.Grid{}, false
	}

	var grid models.Grid
	if err := json.Unmarshal(raw, &grid); err != nil {
		// Entries are only ever written by Put, so this should not happen;
		// treat a corrupt entry as a miss.
		return models.Grid{}, false
	}
	return grid, true
}

// Put stores the grid for (species, hour), overwriting any existing entry
// wholesale.
func (c *GridCache) Put(species string, hour int, grid models.Grid) {
	raw, err := json.Marshal(grid)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[species] == nil {
		c.entries[species] = make(map[int][]byte)
	}
	c.entries[species][hour] = raw
}

// Prune evicts entries for the given species whose hour distance from
// currentHour exceeds maxDistance. Other species' namespaces are untouched,
// so toggling species during playback does not thrash the cache.
func (c *GridCache) Prune(species string, currentHour, maxDistance int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for hour := range c.entries[species] {
		dist := hour - currentHour
		if dist < 0 {
			dist = -dist
		}
		if dist > maxDistance {
			delete(c.entries[species], hour)
		}
	}
}

// Len returns the number of cached entries for a species.
func (c *GridCache) Len(species string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries[species])
}

// Snapshot returns the serialized entries for persistence. The returned map
// shares no storage with the cache.
func (c *GridCache) Snapshot() map[string]map[int][]byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]map[int][]byte, len(c.entries))
	for species, hours := range c.entries {
		out[species] = make(map[int][]byte, len(hours))
		for hour, raw := range hours {
			cp := make([]byte, len(raw))
			copy(cp, raw)
			out[species][hour] = cp
		}
	}
	return out
}

// Restore inserts previously snapshotted entries, skipping any that fail to
// parse. Used for warm starts; live Put entries win over restored ones.
func (c *GridCache) Restore(species string, hour int, raw []byte) {
	var grid models.Grid
	if err := json.Unmarshal(raw, &grid); err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[species] == nil {
		c.entries[species] = make(map[int][]byte)
	}
	if _, exists := c.entries[species][hour]; !exists {
		c.entries[species][hour] = raw
	}
}
