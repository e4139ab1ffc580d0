package models

// BoundingBox is an axis-aligned [minLon, minLat, maxLon, maxLat] box.
type BoundingBox [4]float64

// Contains reports whether the point lies inside the box (inclusive).
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lon >= b[0] && lon <= b[2] && lat >= b[1] && lat <= b[3]
}

// Center returns the box midpoint as (lat, lon).
func (b BoundingBox) Center() (float64, float64) {
	return (b[1] + b[3]) / 2, (b[0] + b[2]) / 2
}

// MaskPolygon is one polygon of a region mask with its precomputed bounding
// box, used as a fast rejection test before the exact point-in-polygon check.
type MaskPolygon struct {
	Box  BoundingBox `json:"box"`
	Ring []LonLat    `json:"ring"`
}

// Region is the static deployment region: the overall bounding box plus the
// polygon mask samples are filtered against. Read-only during a session.
type Region struct {
	Key      string        `json:"key"`
	Box      BoundingBox   `json:"box"`
	Polygons []MaskPolygon `json:"polygons"`
}
