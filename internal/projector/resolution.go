package projector

// Resolution tiers, finest to coarsest.
const (
	TierFine   = 1
	TierMedium = 2
	TierCoarse = 3
)

// TierForZoom maps a map zoom level to a resolution tier. Wide views get
// coarse tiers to keep the rendered polygon count down; close views get the
// finest sampling.
func TierForZoom(zoom float64) int {
	switch {
	case zoom < 7:
		return TierCoarse
	case zoom < 10:
		return TierMedium
	default:
		return TierFine
	}
}

// CellSizeForTier returns the rendered cell side length in degrees.
func CellSizeForTier(tier int) float64 {
	switch tier {
	case TierFine:
		return 0.02
	case TierMedium:
		return 0.04
	default:
		return 0.08
	}
}
