package mesh

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sponticelli/trimesh/geometry"
)

func squarePSLG(t *testing.T) *geometry.InputGeometry {
	t.Helper()
	input := squareInput()
	for i := 0; i < 4; i++ {
		require.NoError(t, input.AddSegment(i, (i+1)%4, 1))
	}
	return input
}

// minMaxAngles computes the extreme corner angles of the mesh in degrees.
func minMaxAngles(m *Mesh) (float64, float64) {
	minA, maxA := 180.0, 0.0
	for _, tri := range m.triangles {
		for i := 0; i < 3; i++ {
			o := tri.vertices[i]
			p := tri.vertices[(i+1)%3]
			q := tri.vertices[(i+2)%3]
			dot := (p.X-o.X)*(q.X-o.X) + (p.Y-o.Y)*(q.Y-o.Y)
			lp := math.Hypot(p.X-o.X, p.Y-o.Y)
			lq := math.Hypot(q.X-o.X, q.Y-o.Y)
			deg := math.Acos(dot/(lp*lq)) * 180 / math.Pi
			minA = math.Min(minA, deg)
			maxA = math.Max(maxA, deg)
		}
	}
	return minA, maxA
}

func TestRefinementAngleBound(t *testing.T) {
	b := NewBehavior()
	b.Quality = true
	b.MinAngle = 30
	m := New(b)
	require.NoError(t, m.Triangulate(squarePSLG(t)))
	require.False(t, m.IncompleteRefinement())

	assert.NoError(t, m.CheckMesh())
	minA, _ := minMaxAngles(m)
	assert.GreaterOrEqual(t, minA, 30.0-1e-9)
}

func TestRefinementAreaBound(t *testing.T) {
	b := NewBehavior()
	b.Quality = true
	b.MaxArea = 0.005
	m := New(b)
	require.NoError(t, m.Triangulate(squarePSLG(t)))
	require.False(t, m.IncompleteRefinement())

	for _, tri := range m.triangles {
		a, p, q := tri.vertices[0], tri.vertices[1], tri.vertices[2]
		area := 0.5 * math.Abs((p.X-a.X)*(q.Y-a.Y)-(q.X-a.X)*(p.Y-a.Y))
		assert.LessOrEqual(t, area, 0.005+1e-12)
	}
	// Total area is preserved by refinement.
	assert.InDelta(t, 1.0, meshArea(m), 1e-9)
}

func TestRefinementMaxAngleBound(t *testing.T) {
	b := NewBehavior()
	b.Quality = true
	b.MinAngle = 20
	b.MaxAngle = 110
	m := New(b)
	require.NoError(t, m.Triangulate(squarePSLG(t)))
	require.False(t, m.IncompleteRefinement())

	minA, maxA := minMaxAngles(m)
	assert.GreaterOrEqual(t, minA, 20.0-1e-9)
	assert.LessOrEqual(t, maxA, 110.0+1e-9)
}

func TestUserTest(t *testing.T) {
	b := NewBehavior()
	b.Quality = true
	b.UserTest = func(org, dest, apex geometry.Point, area float64) bool {
		return area > 0.05
	}
	m := New(b)
	require.NoError(t, m.Triangulate(squarePSLG(t)))
	require.False(t, m.IncompleteRefinement())

	for _, tri := range m.triangles {
		a, p, q := tri.vertices[0], tri.vertices[1], tri.vertices[2]
		area := 0.5 * math.Abs((p.X-a.X)*(q.Y-a.Y)-(q.X-a.X)*(p.Y-a.Y))
		assert.LessOrEqual(t, area, 0.05+1e-12)
	}
}

func TestSteinerBudget(t *testing.T) {
	b := NewBehavior()
	b.Quality = true
	b.MaxArea = 0.0001
	b.SteinerPoints = 3
	m := New(b)
	require.NoError(t, m.Triangulate(squarePSLG(t)))

	assert.True(t, m.IncompleteRefinement())
	// The budget really was the limit: at most input + 3 vertices.
	assert.LessOrEqual(t, m.NumberOfVertices(), 4+3)
	// The mesh is still consistent even though refinement stopped short.
	assert.NoError(t, m.CheckMesh())
}

func TestInvalidAngleDisablesQuality(t *testing.T) {
	b := NewBehavior()
	b.Quality = true
	b.MinAngle = 75 // out of range
	m := New(b)
	require.NoError(t, m.Triangulate(squarePSLG(t)))
	// No refinement happened.
	assert.Equal(t, 4, m.NumberOfVertices())
	assert.Equal(t, 2, m.NumberOfTriangles())
}

func TestConformingDelaunay(t *testing.T) {
	b := NewBehavior()
	b.Quality = true
	b.MinAngle = 25
	b.ConformingDelaunay = true
	m := New(b)
	require.NoError(t, m.Triangulate(squarePSLG(t)))
	require.False(t, m.IncompleteRefinement())

	assert.NoError(t, m.CheckMesh())
	assert.NoError(t, m.CheckDelaunay())
	minA, _ := minMaxAngles(m)
	assert.GreaterOrEqual(t, minA, 25.0-1e-9)
}

func TestMixedAttributeRefinement(t *testing.T) {
	// One corner carries an attribute, the others none. Refinement must pad
	// and interpolate, not panic.
	input := geometry.NewInputGeometry(4)
	input.AddPointAttr(0, 0, 1, []float64{1})
	input.AddPoint(1, 0, 1)
	input.AddPoint(1, 1, 1)
	input.AddPoint(0, 1, 1)
	for i := 0; i < 4; i++ {
		require.NoError(t, input.AddSegment(i, (i+1)%4, 1))
	}

	b := NewBehavior()
	b.Quality = true
	b.MaxArea = 0.02
	m := New(b)
	require.NoError(t, m.Triangulate(input))
	require.False(t, m.IncompleteRefinement())

	// Every vertex, Steiner points included, got the uniform attribute count,
	// with values interpolated between the input extremes.
	assert.Greater(t, m.NumberOfVertices(), 4)
	for _, v := range m.Vertices() {
		require.Len(t, v.Attributes, 1)
		assert.GreaterOrEqual(t, v.Attributes[0], 0.0)
		assert.LessOrEqual(t, v.Attributes[0], 1.0)
	}
}

func TestRegionAreaConstraint(t *testing.T) {
	// A 2x2 square split down the middle; only the left half carries an area
	// constraint.
	input := geometry.NewInputGeometry(6)
	input.AddPoint(0, 0, 1)
	input.AddPoint(2, 0, 1)
	input.AddPoint(2, 2, 1)
	input.AddPoint(0, 2, 1)
	input.AddPoint(1, 0, 1)
	input.AddPoint(1, 2, 1)
	outer := [][2]int{{0, 4}, {4, 1}, {1, 2}, {2, 5}, {5, 3}, {3, 0}}
	for _, s := range outer {
		require.NoError(t, input.AddSegment(s[0], s[1], 1))
	}
	require.NoError(t, input.AddSegment(4, 5, 0))
	input.AddRegionArea(0.5, 1, 10, 0.05)
	input.AddRegion(1.5, 1, 20)

	b := NewBehavior()
	b.Quality = true
	b.VarArea = true
	m := New(b)
	require.NoError(t, m.Triangulate(input))
	require.False(t, m.IncompleteRefinement())

	constrained := 0
	for _, tri := range m.Triangles() {
		a, p, q := tri.Vertex(0), tri.Vertex(1), tri.Vertex(2)
		area := 0.5 * math.Abs((p.X-a.X)*(q.Y-a.Y)-(q.X-a.X)*(p.Y-a.Y))
		if tri.Region() == 10 {
			constrained++
			assert.LessOrEqual(t, area, 0.05+1e-12)
		} else {
			assert.Equal(t, 20, tri.Region())
		}
	}
	// The constrained half really was refined; the other half was left alone
	// as two triangles.
	assert.Greater(t, constrained, 2)
	assert.Equal(t, 2, m.NumberOfTriangles()-constrained)
}

func TestRefinementIdempotent(t *testing.T) {
	b := NewBehavior()
	b.Quality = true
	b.MinAngle = 20
	b.MaxArea = 0.05
	m := New(b)
	require.NoError(t, m.Triangulate(squarePSLG(t)))
	require.False(t, m.IncompleteRefinement())

	// Feed the refined mesh back through with the same bounds: every
	// constraint is already met, so no new Steiner points may appear.
	rebuilt := geometry.NewInputGeometry(m.NumberOfVertices())
	for _, v := range m.Vertices() {
		rebuilt.AddPoint(v.X, v.Y, v.Boundary)
	}
	for _, s := range m.Subsegs() {
		require.NoError(t, rebuilt.AddSegment(s.P0(), s.P1(), s.Boundary()))
	}

	b2 := NewBehavior()
	b2.Quality = true
	b2.MinAngle = 20
	b2.MaxArea = 0.05
	m2 := New(b2)
	require.NoError(t, m2.Triangulate(rebuilt))

	assert.Equal(t, m.NumberOfVertices(), m2.NumberOfVertices())
	assert.Equal(t, m.NumberOfTriangles(), m2.NumberOfTriangles())
}

func TestBadTriQueueOrdering(t *testing.T) {
	var q badTriQueue
	q.reset()
	short := &badTriangle{key: 0.01}
	long := &badTriangle{key: 100.0}
	mid := &badTriangle{key: 1.0}
	q.enqueue(long)
	q.enqueue(short)
	q.enqueue(mid)
	assert.Equal(t, 3, q.items)

	// Worst (shortest edge) first.
	assert.Same(t, short, q.dequeue())
	assert.Same(t, mid, q.dequeue())
	assert.Same(t, long, q.dequeue())
	assert.Nil(t, q.dequeue())
}
