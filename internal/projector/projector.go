// Package projector turns sparse pollen sample grids into renderable map
// cells and maps viewport zoom to a sampling resolution tier.
package projector

import (
	"github.com/pollenmap/pollen-backend-go/internal/models"
	"github.com/pollenmap/pollen-backend-go/internal/spatial"
)

// Bucketer maps a raw sample value to an overlay color bucket.
type Bucketer func(value float64) models.ColorBucket

// Project converts samples into square map cells of side cellSizeDegrees
// centered on each sample. Samples outside the region mask are discarded via
// the two-stage bounding-box/ray-cast filter, and samples with no value or a
// non-positive value are never rendered. The transform is pure: output is
// rebuilt wholesale whenever samples, region or resolution change.
func Project(samples []models.Sample, region *models.Region, cellSizeDegrees float64, bucket Bucketer) []models.Cell {
	if len(samples) == 0 {
		return []models.Cell{}
	}

	half := cellSizeDegrees / 2
	cells := make([]models.Cell, 0, len(samples))
	for _, s := range samples {
		if s.Value == nil || *s.Value <= 0 {
			continue
		}
		if !spatial.InRegion(spatial.Point{Lat: s.Lat, Lon: s.Lon}, region) {
			continue
		}

		cells = append(cells, models.Cell{
			Ring: [5]models.LonLat{
				{s.Lon - half, s.Lat - half},
				{s.Lon + half, s.Lat - half},
				{s.Lon + half, s.Lat + half},
				{s.Lon - half, s.Lat + half},
				{s.Lon - half, s.Lat - half},
			},
			Bucket: bucket(*s.Value),
			Center: models.LonLat{s.Lon, s.Lat},
		})
	}
	return cells
}

// BucketIntensity quantizes a continuous 0..1 intensity into the five-band
// overlay palette. Used for nowcasting grids, which arrive pre-normalized.
func BucketIntensity(value float64) models.ColorBucket {
	switch {
	case value <= 0.2:
		return models.BucketDarkGreen
	case value <= 0.4:
		return models.BucketYellowGreen
	case value <= 0.6:
		return models.BucketYellow
	case value <= 0.8:
		return models.BucketOrange
	default:
		return models.BucketRed
	}
}

// BucketForLevels builds a Bucketer from a species level scale. Used for
// forecast grids, whose values are raw grain counts. The level index maps
// onto the palette low-to-high; values above the top level render red.
func BucketForLevels(levels []models.Level) Bucketer {
	palette := []models.ColorBucket{
		models.BucketDarkGreen,
		models.BucketYellowGreen,
		models.BucketYellow,
		models.BucketOrange,
		models.BucketRed,
	}
	return func(value float64) models.ColorBucket {
		for i, lv := range levels {
			if value <= lv.Max {
				// Spread the species scale across the palette so a
				// four-level scale still reaches red at the top.
				idx := i * (len(palette) - 1) / max(len(levels)-1, 1)
				return palette[idx]
			}
		}
		return models.BucketRed
	}
}
