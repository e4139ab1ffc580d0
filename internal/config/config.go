package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the service configuration, read from the environment once at
// startup.
type Config struct {
	Port        string
	DBPath      string
	JWTSecret   string
	UpstreamURL string // pollen forecast/nowcasting API
	GeocoderURL string // text-search/reverse geocoding provider
	RegionKey   string

	PrefetchDepth  int           // hours warmed ahead of playback
	PruneDistance  int           // cache eviction distance in hours
	TickInterval   time.Duration // timeline playback step
	SearchDebounce time.Duration
}

// Load reads the configuration from the environment with defaults.
func Load() *Config {
	return &Config{
		Port:           envOr("PORT", ":8080"),
		DBPath:         envOr("DB_PATH", "./data/pollen/snapshots.db"),
		JWTSecret:      envOr("JWT_SECRET", "your-secret-key-change-in-production"),
		UpstreamURL:    envOr("UPSTREAM_URL", "https://api.pollen.bavaria.example/v1"),
		GeocoderURL:    envOr("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		RegionKey:      envOr("REGION", "bavaria"),
		PrefetchDepth:  envIntOr("PREFETCH_DEPTH", 5),
		PruneDistance:  envIntOr("PRUNE_DISTANCE", 6),
		TickInterval:   envDurationOr("TICK_INTERVAL", 2*time.Second),
		SearchDebounce: envDurationOr("SEARCH_DEBOUNCE", 400*time.Millisecond),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
