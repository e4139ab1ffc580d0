package spatial

import (
	"errors"
	"math"
)

// ErrNoCandidates reports a nearest-match call against an empty candidate
// list. This is a contract violation (the coordinate axes were never loaded),
// so callers are expected to propagate it rather than recover.
var ErrNoCandidates = errors.New("nearest: empty candidate list")

// Nearest returns the candidate minimizing the absolute difference to value.
// Ties resolve to the first minimal candidate in iteration order. The scan is
// linear on purpose: axis lists are at most a few hundred entries and are not
// guaranteed sorted.
func Nearest(value float64, candidates []float64) (float64, error) {
	if len(candidates) == 0 {
		return 0, ErrNoCandidates
	}

	best := candidates[0]
	bestDiff := math.Abs(candidates[0] - value)
	for _, c := range candidates[1:] {
		diff := math.Abs(c - value)
		if diff < bestDiff {
			best = c
			bestDiff = diff
		}
	}
	return best, nil
}
