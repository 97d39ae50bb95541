package trimesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sponticelli/trimesh/mesh"
	"github.com/sponticelli/trimesh/tools"
)

func unitSquare() *InputGeometry {
	input := NewInputGeometry(4)
	input.AddPoint(0, 0, 1)
	input.AddPoint(1, 0, 1)
	input.AddPoint(1, 1, 1)
	input.AddPoint(0, 1, 1)
	return input
}

func unitSquarePSLG(t *testing.T) *InputGeometry {
	t.Helper()
	input := unitSquare()
	for i := 0; i < 4; i++ {
		require.NoError(t, input.AddSegment(i, (i+1)%4, 1))
	}
	return input
}

func TestSquare(t *testing.T) {
	m, err := Triangulate(unitSquare())
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumberOfTriangles())
	assert.Equal(t, 4, m.NumberOfVertices())
	assert.NoError(t, m.CheckMesh())
	assert.NoError(t, m.CheckDelaunay())
}

func TestSquareWithCenter(t *testing.T) {
	input := unitSquare()
	input.AddPoint(0.5, 0.5, 0)
	m, err := Triangulate(input)
	require.NoError(t, err)
	assert.Equal(t, 4, m.NumberOfTriangles())
	assert.NoError(t, m.CheckDelaunay())
}

func TestSquareRefined(t *testing.T) {
	m, err := TriangulateQuality(unitSquarePSLG(t), 30, 0.01)
	require.NoError(t, err)
	require.False(t, m.IncompleteRefinement())
	assert.NoError(t, m.CheckMesh())

	stats := tools.Measure(m)
	assert.GreaterOrEqual(t, stats.SmallestAngle, 30.0-0.01)
	assert.LessOrEqual(t, stats.LargestArea, 0.01+1e-12)
	// The area bound alone forces at least 2/0.02 triangles.
	assert.GreaterOrEqual(t, stats.Triangles, 100)
}

func TestSquareWithHole(t *testing.T) {
	input := unitSquarePSLG(t)
	// Inner square, wound the other way.
	base := input.Count()
	input.AddPoint(0.25, 0.25, 2)
	input.AddPoint(0.75, 0.25, 2)
	input.AddPoint(0.75, 0.75, 2)
	input.AddPoint(0.25, 0.75, 2)
	for i := 0; i < 4; i++ {
		require.NoError(t, input.AddSegment(base+i, base+(i+1)%4, 2))
	}
	input.AddHole(0.5, 0.5)

	m, err := Triangulate(input)
	require.NoError(t, err)
	require.Positive(t, m.NumberOfTriangles())
	assert.NoError(t, m.CheckMesh())

	// No triangle survives inside the hole.
	verts := m.Vertices()
	pos := make(map[int][2]float64, len(verts))
	for _, v := range verts {
		pos[v.ID] = [2]float64{v.X, v.Y}
	}
	for _, tri := range m.Triangles() {
		var cx, cy float64
		for i := 0; i < 3; i++ {
			p := pos[tri.VertexID(i)]
			cx += p[0] / 3
			cy += p[1] / 3
		}
		inHole := cx > 0.25 && cx < 0.75 && cy > 0.25 && cy < 0.75
		assert.False(t, inHole, "triangle %d centroid (%v, %v) is inside the hole", tri.ID(), cx, cy)
	}
}

func TestTooFewPoints(t *testing.T) {
	input := NewInputGeometry(2)
	input.AddPoint(0, 0, 0)
	input.AddPoint(1, 1, 0)
	_, err := Triangulate(input)
	assert.ErrorIs(t, err, mesh.ErrTooFewPoints)
}
