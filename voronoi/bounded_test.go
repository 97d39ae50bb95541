package voronoi

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sponticelli/trimesh/geometry"
	"github.com/sponticelli/trimesh/mesh"
)

func TestSquareWithCenter(t *testing.T) {
	input := geometry.NewInputGeometry(5)
	input.AddPoint(0, 0, 1)
	input.AddPoint(1, 0, 1)
	input.AddPoint(1, 1, 1)
	input.AddPoint(0, 1, 1)
	input.AddPoint(0.5, 0.5, 0)
	m := mesh.New(nil)
	require.NoError(t, m.Triangulate(input))

	d, err := Bounded(m)
	require.NoError(t, err)
	require.Len(t, d.Cells, 5)

	var center *Cell
	corners := 0
	for i := range d.Cells {
		c := &d.Cells[i]
		if c.Generator.X == 0.5 && c.Generator.Y == 0.5 {
			center = c
		} else {
			corners++
			assert.False(t, c.Bounded, "corner cell must be cut off at the hull")
		}
	}
	require.NotNil(t, center)
	assert.Equal(t, 4, corners)

	// The center's cell is the diamond of the four edge midpoints.
	assert.True(t, center.Bounded)
	require.Len(t, center.Points, 4)
	assert.InDelta(t, 0.5, center.Area(), 1e-12)
	centroid := center.Centroid()
	assert.InDelta(t, 0.5, centroid.X, 1e-12)
	assert.InDelta(t, 0.5, centroid.Y, 1e-12)
}

func TestCellsArePositiveAndStarShaped(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	input := geometry.NewInputGeometry(60)
	for i := 0; i < 60; i++ {
		input.AddPoint(rng.Float64()*10, rng.Float64()*10, 0)
	}
	m := mesh.New(nil)
	require.NoError(t, m.Triangulate(input))

	d, err := Bounded(m)
	require.NoError(t, err)
	require.Len(t, d.Cells, 60)

	total := 0.0
	for i := range d.Cells {
		c := &d.Cells[i]
		require.GreaterOrEqual(t, len(c.Points), 3, "generator (%v, %v)", c.Generator.X, c.Generator.Y)
		if c.Bounded {
			assert.Positive(t, c.Area(),
				"cell of (%v, %v) is not counterclockwise", c.Generator.X, c.Generator.Y)
		}
		total += c.Area()
	}
	// The cells approximately tile the triangulated area. Circumcenters of
	// obtuse hull triangles can stray outside the hull, so this is not exact.
	hull := meshHullArea(m)
	assert.InDelta(t, hull, total, hull*0.05)
}

func meshHullArea(m *mesh.Mesh) float64 {
	pos := make(map[int][2]float64)
	for _, v := range m.Vertices() {
		pos[v.ID] = [2]float64{v.X, v.Y}
	}
	total := 0.0
	for _, tri := range m.Triangles() {
		a := pos[tri.VertexID(0)]
		b := pos[tri.VertexID(1)]
		c := pos[tri.VertexID(2)]
		total += 0.5 * math.Abs((b[0]-a[0])*(c[1]-a[1])-(c[0]-a[0])*(b[1]-a[1]))
	}
	return total
}

func TestEmptyMesh(t *testing.T) {
	m := mesh.New(nil)
	_, err := Bounded(m)
	assert.Error(t, err)
}
