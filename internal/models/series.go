package models

// SeriesPoint is one hour of a time-series shown in the detail chart.
// Value is nil for 'NA' sentinel readings from the nowcasting pipeline.
type SeriesPoint struct {
	Hour  int      `json:"hour"`
	Value *float64 `json:"value"`
}

// ChartSeries is the published result of a point inspection: the series for
// the nearest sampled grid point to the user's click or search hit.
type ChartSeries struct {
	Species string        `json:"species"`
	Lat     float64       `json:"lat"`
	Lon     float64       `json:"lon"`
	Date    string        `json:"date"`
	Points  []SeriesPoint `json:"points"`
}

// ResolvedPoint is a click/search coordinate snapped to the sampling axes.
// Recomputed per interaction, never mutated in place.
type ResolvedPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
