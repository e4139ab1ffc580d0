package models

import "fmt"

// Level is one severity band of a species-specific concentration scale.
// Ranges are ascending and non-overlapping.
type Level struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// PollenConfig is the static descriptor for one pollen species.
type PollenConfig struct {
	APIKey          string  `json:"api_key"`
	Label           string  `json:"label"`
	DefaultBaseDate string  `json:"default_base_date,omitempty"` // empty means today
	Levels          []Level `json:"levels"`
	APIIntervals    string  `json:"api_intervals,omitempty"` // passed opaquely to the upstream API
	Nowcast         bool    `json:"nowcast"`                 // served by the nowcasting pipeline instead of forecast
}

// Catalog is a validated species registry. Lookups by unknown key fail at
// the API boundary instead of returning a zero config deep in rendering.
type Catalog struct {
	configs map[string]PollenConfig
	ordered []PollenConfig
}

// NewCatalog validates the given configs and builds a registry.
func NewCatalog(configs []PollenConfig) (*Catalog, error) {
	byKey := make(map[string]PollenConfig, len(configs))
	for _, cfg := range configs {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("species %q has no api key", cfg.Label)
		}
		if _, exists := byKey[cfg.APIKey]; exists {
			return nil, fmt.Errorf("duplicate species key %q", cfg.APIKey)
		}
		prevMax := -1.0
		for _, lv := range cfg.Levels {
			if lv.Min < prevMax || lv.Max <= lv.Min {
				return nil, fmt.Errorf("species %q has overlapping or inverted level %q", cfg.APIKey, lv.Label)
			}
			prevMax = lv.Max
		}
		byKey[cfg.APIKey] = cfg
	}
	return &Catalog{configs: byKey, ordered: configs}, nil
}

// Get returns the config for a species key.
func (c *Catalog) Get(key string) (PollenConfig, error) {
	cfg, ok := c.configs[key]
	if !ok {
		return PollenConfig{}, fmt.Errorf("unknown pollen species %q", key)
	}
	return cfg, nil
}

// All returns the configs in declaration order.
func (c *Catalog) All() []PollenConfig {
	return c.ordered
}

// DefaultCatalog returns the species served for the Bavaria deployment.
// Level ranges follow the DWD load classes (grains per cubic metre).
func DefaultCatalog() (*Catalog, error) {
	return NewCatalog([]PollenConfig{
		{
			APIKey: "alnus", Label: "Alder",
			Levels: []Level{
				{Label: "low", Min: 0, Max: 10},
				{Label: "moderate", Min: 10, Max: 50},
				{Label: "high", Min: 50, Max: 250},
				{Label: "very high", Min: 250, Max: 10000},
			},
		},
		{
			APIKey: "ambrosia", Label: "Ragweed",
			Levels: []Level{
				{Label: "low", Min: 0, Max: 3},
				{Label: "moderate", Min: 3, Max: 12},
				{Label: "high", Min: 12, Max: 50},
				{Label: "very high", Min: 50, Max: 10000},
			},
		},
		{
			APIKey: "betula", Label: "Birch",
			APIIntervals: "3,6,12",
			Levels: []Level{
				{Label: "low", Min: 0, Max: 10},
				{Label: "moderate", Min: 10, Max: 100},
				{Label: "high", Min: 100, Max: 400},
				{Label: "very high", Min: 400, Max: 10000},
			},
		},
		{
			APIKey: "corylus", Label: "Hazel",
			Levels: []Level{
				{Label: "low", Min: 0, Max: 10},
				{Label: "moderate", Min: 10, Max: 50},
				{Label: "high", Min: 50, Max: 250},
				{Label: "very high", Min: 250, Max: 10000},
			},
		},
		{
			APIKey: "fraxinus", Label: "Ash",
			Levels: []Level{
				{Label: "low", Min: 0, Max: 20},
				{Label: "moderate", Min: 20, Max: 80},
				{Label: "high", Min: 80, Max: 300},
				{Label: "very high", Min: 300, Max: 10000},
			},
		},
		{
			APIKey: "poaceae", Label: "Grasses",
			APIIntervals: "3,6,12",
			Levels: []Level{
				{Label: "low", Min: 0, Max: 6},
				{Label: "moderate", Min: 6, Max: 30},
				{Label: "high", Min: 30, Max: 120},
				{Label: "very high", Min: 120, Max: 10000},
			},
		},
		{
			APIKey: "quercus", Label: "Oak",
			Levels: []Level{
				{Label: "low", Min: 0, Max: 10},
				{Label: "moderate", Min: 10, Max: 80},
				{Label: "high", Min: 80, Max: 300},
				{Label: "very high", Min: 300, Max: 10000},
			},
		},
		{
			APIKey: "betula_nowcast", Label: "Birch (nowcast)", Nowcast: true,
			Levels: []Level{
				{Label: "low", Min: 0, Max: 10},
				{Label: "moderate", Min: 10, Max: 100},
				{Label: "high", Min: 100, Max: 400},
				{Label: "very high", Min: 400, Max: 10000},
			},
		},
		{
			APIKey: "poaceae_nowcast", Label: "Grasses (nowcast)", Nowcast: true,
			Levels: []Level{
				{Label: "low", Min: 0, Max: 6},
				{Label: "moderate", Min: 6, Max: 30},
				{Label: "high", Min: 30, Max: 120},
				{Label: "very high", Min: 120, Max: 10000},
			},
		},
	})
}
