package models

// SearchResult is one candidate location from the text-search geocoder,
// already parsed into numeric coordinates.
type SearchResult struct {
	PlaceID     int64   `json:"place_id"`
	DisplayName string  `json:"display_name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	// Straight-line distance to the region centroid in meters, used for
	// ranking candidates.
	DistanceMeters float64 `json:"distance_meters"`
}

// ReverseResult is the display name for a coordinate, used to label the
// "find my location" marker.
type ReverseResult struct {
	DisplayName string `json:"display_name"`
}
