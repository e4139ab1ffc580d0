package projector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierForZoom(t *testing.T) {
	assert.Equal(t, TierCoarse, TierForZoom(3))
	assert.Equal(t, TierCoarse, TierForZoom(6))
	assert.Equal(t, TierMedium, TierForZoom(7))
	assert.Equal(t, TierMedium, TierForZoom(9.9))
	assert.Equal(t, TierFine, TierForZoom(10))
	assert.Equal(t, TierFine, TierForZoom(20))
}

func TestTierForZoomMonotonic(t *testing.T) {
	prev := TierForZoom(0)
	for zoom := 0.5; zoom <= 22; zoom += 0.5 {
		tier := TierForZoom(zoom)
		assert.LessOrEqual(t, tier, prev, "tier must not increase with zoom %v", zoom)
		prev = tier
	}
}

func TestCellSizeForTier(t *testing.T) {
	assert.Equal(t, 0.02, CellSizeForTier(TierFine))
	assert.Equal(t, 0.04, CellSizeForTier(TierMedium))
	assert.Equal(t, 0.08, CellSizeForTier(TierCoarse))
}
