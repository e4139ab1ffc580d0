package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/pollenmap/pollen-backend-go/internal/geocode"
	"github.com/pollenmap/pollen-backend-go/internal/models"
	"github.com/pollenmap/pollen-backend-go/internal/session"
	"github.com/pollenmap/pollen-backend-go/internal/spatial"
)

// GeocodeService handles location search and reverse geocoding for the
// deployment region.
type GeocodeService struct {
	client *geocode.Client
	region *models.Region
	limit  int
}

// NewGeocodeService creates a new geocode service
func NewGeocodeService(client *geocode.Client, region *models.Region) *GeocodeService {
	return &GeocodeService{client: client, region: region, limit: 5}
}

// Search runs a debounced, region-bounded text search for a session. Rapid
// re-triggers within the debounce window coalesce into one outbound query;
// a superseded call's timer never fires, its caller resolves through its own
// request context being abandoned.
func (s *GeocodeService) Search(ctx context.Context, sess *session.Session, query string) ([]models.SearchResult, error) {
	if query == "" {
		return []models.SearchResult{}, nil
	}

	type outcome struct {
		results []models.SearchResult
		err     error
	}
	done := make(chan outcome, 1)

	sess.Search.Trigger(func() {
		results, err := s.runSearch(ctx, query)
		done <- outcome{results: results, err: err}
	})

	select {
	case out := <-done:
		return out.results, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *GeocodeService) runSearch(ctx context.Context, query string) ([]models.SearchResult, error) {
	raw, err := s.client.Search(ctx, query, [4]float64(s.region.Box), "de", s.limit)
	if err != nil {
		return nil, fmt.Errorf("location search failed: %w", err)
	}

	centerLat, centerLon := s.region.Box.Center()
	results := make([]models.SearchResult, 0, len(raw))
	for _, r := range raw {
		results = append(results, models.SearchResult{
			PlaceID:        r.PlaceID,
			DisplayName:    r.DisplayName,
			Lat:            r.Lat,
			Lon:            r.Lon,
			DistanceMeters: spatial.HaversineDistance(centerLat, centerLon, r.Lat, r.Lon),
		})
	}

	// Closest to the region center first.
	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceMeters < results[j].DistanceMeters
	})
	return results, nil
}

// Reverse resolves a coordinate to a display name for the location marker.
func (s *GeocodeService) Reverse(ctx context.Context, lat, lon float64) (models.ReverseResult, error) {
	name, err := s.client.Reverse(ctx, lat, lon)
	if err != nil {
		return models.ReverseResult{}, fmt.Errorf("reverse geocoding failed: %w", err)
	}
	return models.ReverseResult{DisplayName: name}, nil
}
