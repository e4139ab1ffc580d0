package spatial

import (
	"github.com/pollenmap/pollen-backend-go/internal/models"
)

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64
	Lon float64
}

// PointInRing checks if a point is inside a polygon ring using ray casting.
// The ring is a closed [lon,lat] loop.
func PointInRing(point Point, ring []models.LonLat) bool {
	if len(ring) < 3 {
		return false
	}

	inside := false
	j := len(ring) - 1

	for i := 0; i < len(ring); i++ {
		latI, lonI := ring[i][1], ring[i][0]
		latJ, lonJ := ring[j][1], ring[j][0]
		if ((latI > point.Lat) != (latJ > point.Lat)) &&
			(point.Lon < (lonJ-lonI)*(point.Lat-latI)/(latJ-latI)+lonI) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// InRegion reports whether the point falls inside the region mask. Each
// polygon's precomputed bounding box is checked first so the exact ray-cast
// test only runs for points that could possibly be inside; the full dataset
// may cover a larger box than the displayed region.
func InRegion(point Point, region *models.Region) bool {
	for _, poly := range region.Polygons {
		if !poly.Box.Contains(point.Lat, point.Lon) {
			continue
		}
		if PointInRing(point, poly.Ring) {
			return true
		}
	}
	return false
}
