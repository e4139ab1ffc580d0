package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBavaria(t *testing.T) {
	r, err := Load("bavaria")
	require.NoError(t, err)

	assert.Equal(t, "bavaria", r.Key)
	assert.Equal(t, 8.97, r.Box[0])
	assert.Equal(t, 50.56, r.Box[3])
	require.NotEmpty(t, r.Polygons)

	// Per-polygon boxes are precomputed and sit inside the region box.
	for _, poly := range r.Polygons {
		assert.GreaterOrEqual(t, poly.Box[0], r.Box[0]-1e-9)
		assert.LessOrEqual(t, poly.Box[2], r.Box[2]+1e-9)
		assert.GreaterOrEqual(t, len(poly.Ring), 4)
	}
}

func TestLoadUnknownRegion(t *testing.T) {
	_, err := Load("atlantis")
	assert.Error(t, err)
}
