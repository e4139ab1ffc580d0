package models

import "log"

// Sample is one measurement at a grid point for one hour and one species.
// Value is nil when the upstream reports no data for the point.
type Sample struct {
	Lat   float64  `json:"lat"`
	Lon   float64  `json:"lon"`
	Value *float64 `json:"value"`
}

// Grid holds all samples for one (species, hour) pair.
type Grid struct {
	Samples []Sample `json:"samples"`
}

// Empty reports whether the grid carries no samples.
func (g Grid) Empty() bool {
	return len(g.Samples) == 0
}

// GridFromFlat reshapes a flat upstream value array into a Grid using the
// fixed axis scheme: index i maps to latitudes[i % len(latitudes)] and
// longitudes[i / len(latitudes)].
// A length mismatch between values and the axis product yields an empty
// grid: the hour is treated as having no data rather than failing the
// request.
func GridFromFlat(values []*float64, latitudes, longitudes []float64) Grid {
	latCount := len(latitudes)
	lonCount := len(longitudes)
	if latCount == 0 || lonCount == 0 || len(values) != latCount*lonCount {
		log.Printf("grid reshape: %d values do not fit %dx%d axes, treating hour as empty",
			len(values), latCount, lonCount)
		return Grid{}
	}

	samples := make([]Sample, 0, len(values))
	for i, v := range values {
		samples = append(samples, Sample{
			Lat:   latitudes[i%latCount],
			Lon:   longitudes[i/latCount],
			Value: v,
		})
	}
	return Grid{Samples: samples}
}

// Float64Ptr is a convenience for building samples and test fixtures.
func Float64Ptr(v float64) *float64 {
	return &v
}
