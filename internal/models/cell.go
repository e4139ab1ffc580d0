package models

// ColorBucket is the discrete severity tier a cell is rendered with.
type ColorBucket string

// Overlay palette, lowest to highest load.
const (
	BucketDarkGreen   ColorBucket = "darkgreen"
	BucketYellowGreen ColorBucket = "yellowgreen"
	BucketYellow      ColorBucket = "yellow"
	BucketOrange      ColorBucket = "orange"
	BucketRed         ColorBucket = "red"
)

// CellAlpha is the fixed overlay transparency for all buckets.
const CellAlpha = 0.8

// LonLat is a [lon, lat] pair, the coordinate order map renderers expect.
type LonLat [2]float64

// Cell is one renderable square around a sampled point. Ring is a closed
// 5-point [lon,lat] loop (first point repeated last).
type Cell struct {
	Ring   [5]LonLat   `json:"ring"`
	Bucket ColorBucket `json:"bucket"`
	Center LonLat      `json:"center"`
}
