// Package region loads the static deployment-region boundaries shipped with
// the service. A region is selected once at startup and is read-only for the
// lifetime of the process.
package region

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/pollenmap/pollen-backend-go/internal/models"
)

//go:embed regions.json
var regionsJSON []byte

type regionAsset struct {
	Box   models.BoundingBox `json:"box"`
	Rings [][]models.LonLat  `json:"rings"`
}

// Load returns the region for the given key with per-polygon bounding boxes
// precomputed for the fast-rejection filter.
func Load(key string) (*models.Region, error) {
	var assets map[string]regionAsset
	if err := json.Unmarshal(regionsJSON, &assets); err != nil {
		return nil, fmt.Errorf("failed to parse region asset: %w", err)
	}

	asset, ok := assets[key]
	if !ok {
		return nil, fmt.Errorf("unknown region %q", key)
	}

	r := &models.Region{Key: key, Box: asset.Box}
	for _, ring := range asset.Rings {
		if len(ring) < 4 {
			return nil, fmt.Errorf("region %q has a degenerate ring with %d points", key, len(ring))
		}
		r.Polygons = append(r.Polygons, models.MaskPolygon{
			Box:  ringBox(ring),
			Ring: ring,
		})
	}
	return r, nil
}

func ringBox(ring []models.LonLat) models.BoundingBox {
	box := models.BoundingBox{ring[0][0], ring[0][1], ring[0][0], ring[0][1]}
	for _, p := range ring[1:] {
		if p[0] < box[0] {
			box[0] = p[0]
		}
		if p[1] < box[1] {
			box[1] = p[1]
		}
		if p[0] > box[2] {
			box[2] = p[0]
		}
		if p[1] > box[3] {
			box[3] = p[1]
		}
	}
	return box
}
