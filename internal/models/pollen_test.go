package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogValid(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	cfg, err := catalog.Get("betula")
	require.NoError(t, err)
	assert.Equal(t, "Birch", cfg.Label)
	assert.False(t, cfg.Nowcast)

	cfg, err = catalog.Get("poaceae_nowcast")
	require.NoError(t, err)
	assert.True(t, cfg.Nowcast)
}

func TestCatalogUnknownKeyFailsFast(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	_, err = catalog.Get("pinus")
	assert.Error(t, err)
}

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	_, err := NewCatalog([]PollenConfig{
		{APIKey: "betula", Label: "Birch"},
		{APIKey: "betula", Label: "Birch again"},
	})
	assert.Error(t, err)
}

func TestNewCatalogRejectsOverlappingLevels(t *testing.T) {
	_, err := NewCatalog([]PollenConfig{
		{APIKey: "betula", Label: "Birch", Levels: []Level{
			{Label: "low", Min: 0, Max: 50},
			{Label: "high", Min: 20, Max: 100},
		}},
	})
	assert.Error(t, err)
}

func TestGridFromFlatMismatch(t *testing.T) {
	grid := GridFromFlat([]*float64{Float64Ptr(1)}, []float64{48.0, 48.5}, []float64{11.0})
	assert.True(t, grid.Empty())
}

func TestGridFromFlatIndexScheme(t *testing.T) {
	values := []*float64{Float64Ptr(1), Float64Ptr(2), Float64Ptr(3), nil}
	grid := GridFromFlat(values, []float64{48.0, 48.5}, []float64{11.0, 11.5})
	require.Len(t, grid.Samples, 4)

	// i=2 -> latitudes[0], longitudes[1]
	assert.Equal(t, 48.0, grid.Samples[2].Lat)
	assert.Equal(t, 11.5, grid.Samples[2].Lon)
	assert.Equal(t, 3.0, *grid.Samples[2].Value)
	assert.Nil(t, grid.Samples[3].Value)
}
