package spatial

import (
	"testing"

	"github.com/pollenmap/pollen-backend-go/internal/models"
)

func squareRegion() *models.Region {
	ring := []models.LonLat{
		{10.0, 48.0}, {12.0, 48.0}, {12.0, 50.0}, {10.0, 50.0}, {10.0, 48.0},
	}
	return &models.Region{
		Key: "test",
		Box: models.BoundingBox{10.0, 48.0, 12.0, 50.0},
		Polygons: []models.MaskPolygon{
			{Box: models.BoundingBox{10.0, 48.0, 12.0, 50.0}, Ring: ring},
		},
	}
}

func TestPointInRing(t *testing.T) {
	ring := squareRegion().Polygons[0].Ring

	if !PointInRing(Point{Lat: 49.0, Lon: 11.0}, ring) {
		t.Error("Center point should be inside")
	}
	if PointInRing(Point{Lat: 51.0, Lon: 11.0}, ring) {
		t.Error("Point north of the ring should be outside")
	}
	if PointInRing(Point{Lat: 49.0, Lon: 9.0}, ring) {
		t.Error("Point west of the ring should be outside")
	}
}

func TestPointInRingDegenerate(t *testing.T) {
	if PointInRing(Point{Lat: 49.0, Lon: 11.0}, []models.LonLat{{10, 48}, {12, 50}}) {
		t.Error("A two-point ring cannot contain anything")
	}
}

func TestInRegionBoundingBoxRejection(t *testing.T) {
	region := squareRegion()

	// Outside the polygon box entirely: rejected before the exact test.
	if InRegion(Point{Lat: 40.0, Lon: 11.0}, region) {
		t.Error("Point far outside the box should be rejected")
	}
	if !InRegion(Point{Lat: 48.5, Lon: 10.5}, region) {
		t.Error("Interior point should pass both stages")
	}
}
