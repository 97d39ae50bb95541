package smooth

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sponticelli/trimesh/geometry"
	"github.com/sponticelli/trimesh/mesh"
	"github.com/sponticelli/trimesh/tools"
)

func noisySquare(t *testing.T, interior int) *geometry.InputGeometry {
	t.Helper()
	rng := rand.New(rand.NewSource(13))
	input := geometry.NewInputGeometry(4 + interior)
	input.AddPoint(0, 0, 1)
	input.AddPoint(10, 0, 1)
	input.AddPoint(10, 10, 1)
	input.AddPoint(0, 10, 1)
	for i := 0; i < interior; i++ {
		// Clustered points make for badly shaped triangles.
		input.AddPoint(1+rng.Float64()*2, 1+rng.Float64()*2, 0)
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, input.AddSegment(i, (i+1)%4, 1))
	}
	return input
}

func TestLloydPreservesDomain(t *testing.T) {
	input := noisySquare(t, 30)
	m, err := Lloyd(input, nil, 3)
	require.NoError(t, err)

	assert.NoError(t, m.CheckMesh())
	// Relaxation moves vertices, it never adds or drops them.
	assert.Equal(t, 34, m.NumberOfVertices())

	// Every vertex stayed inside the square.
	for _, v := range m.Vertices() {
		assert.GreaterOrEqual(t, v.X, -1e-9)
		assert.LessOrEqual(t, v.X, 10.0+1e-9)
		assert.GreaterOrEqual(t, v.Y, -1e-9)
		assert.LessOrEqual(t, v.Y, 10.0+1e-9)
	}
	// The corners did not move.
	fixed := map[[2]float64]bool{{0, 0}: false, {10, 0}: false, {10, 10}: false, {0, 10}: false}
	for _, v := range m.Vertices() {
		if _, ok := fixed[[2]float64{v.X, v.Y}]; ok {
			fixed[[2]float64{v.X, v.Y}] = true
		}
	}
	for corner, found := range fixed {
		assert.True(t, found, "corner %v moved", corner)
	}
}

func TestLloydImprovesQuality(t *testing.T) {
	input := noisySquare(t, 40)

	before := mesh.New(nil)
	require.NoError(t, before.Triangulate(input))
	qBefore := tools.Measure(before)

	after, err := Lloyd(input, nil, 5)
	require.NoError(t, err)
	qAfter := tools.Measure(after)

	// Relaxation spreads the clustered interior points out, lifting the
	// worst angle.
	assert.Greater(t, qAfter.SmallestAngle, qBefore.SmallestAngle)
}

func TestLloydZeroIterations(t *testing.T) {
	input := noisySquare(t, 10)
	m, err := Lloyd(input, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 14, m.NumberOfVertices())
}
