package mesh

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sponticelli/trimesh/geometry"
)

func squareInput() *geometry.InputGeometry {
	input := geometry.NewInputGeometry(4)
	input.AddPoint(0, 0, 1)
	input.AddPoint(1, 0, 1)
	input.AddPoint(1, 1, 1)
	input.AddPoint(0, 1, 1)
	return input
}

func randomInput(n int, seed int64) *geometry.InputGeometry {
	rng := rand.New(rand.NewSource(seed))
	input := geometry.NewInputGeometry(n)
	for i := 0; i < n; i++ {
		input.AddPoint(rng.Float64()*100, rng.Float64()*100, 0)
	}
	return input
}

// triangleSet canonicalizes the mesh into sorted vertex-id triples so two
// triangulations of the same points can be compared.
func triangleSet(m *Mesh) [][3]int {
	out := make([][3]int, 0, m.NumberOfTriangles())
	for _, t := range m.Triangles() {
		ids := [3]int{t.VertexID(0), t.VertexID(1), t.VertexID(2)}
		sort.Ints(ids[:])
		out = append(out, ids)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		for k := 0; k < 3; k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})
	return out
}

func TestAlgorithmsAgree(t *testing.T) {
	input := randomInput(200, 7)
	var reference [][3]int
	for _, algo := range []Algorithm{Dwyer, Incremental, SweepLine} {
		t.Run(algo.String(), func(t *testing.T) {
			b := NewBehavior()
			b.Algorithm = algo
			m := New(b)
			require.NoError(t, m.Triangulate(input))

			assert.NoError(t, m.CheckMesh())
			assert.NoError(t, m.CheckDelaunay())
			assert.Equal(t, 200, m.NumberOfVertices())

			set := triangleSet(m)
			if reference == nil {
				reference = set
			} else {
				assert.Equal(t, reference, set)
			}
		})
	}
}

func TestLargeRandomMesh(t *testing.T) {
	m := New(nil)
	require.NoError(t, m.Triangulate(randomInput(1000, 99)))
	assert.NoError(t, m.CheckMesh())
	assert.NoError(t, m.CheckDelaunay())
	// Euler: triangles = 2n - 2 - hull for a triangulated point set.
	assert.Equal(t, 2*1000-2-m.HullSize(), m.NumberOfTriangles())
}

func TestDuplicatePoints(t *testing.T) {
	input := squareInput()
	input.AddPoint(1, 0, 1) // duplicate of point 1

	m := New(nil)
	require.NoError(t, m.Triangulate(input))
	assert.Equal(t, 2, m.NumberOfTriangles())
	// The duplicate survives as an undead slot so input ids stay meaningful.
	assert.Equal(t, 5, m.NumberOfVertices())
	undead := 0
	for _, v := range m.Vertices() {
		if v.Type == UndeadVertex {
			undead++
		}
	}
	assert.Equal(t, 1, undead)

	b := NewBehavior()
	b.Jettison = true
	m = New(b)
	require.NoError(t, m.Triangulate(input))
	assert.Equal(t, 4, m.NumberOfVertices())
}

func TestCollinearInput(t *testing.T) {
	input := geometry.NewInputGeometry(5)
	for i := 0; i < 5; i++ {
		input.AddPoint(float64(i), float64(2*i), 0)
	}
	for _, algo := range []Algorithm{Dwyer, Incremental} {
		b := NewBehavior()
		b.Algorithm = algo
		m := New(b)
		require.NoError(t, m.Triangulate(input), algo.String())
		assert.Zero(t, m.NumberOfTriangles(), algo.String())
	}
}

func TestTooFewPoints(t *testing.T) {
	input := geometry.NewInputGeometry(1)
	input.AddPoint(0, 0, 0)
	m := New(nil)
	assert.ErrorIs(t, m.Triangulate(input), ErrTooFewPoints)
}

func TestConvexKeepsHull(t *testing.T) {
	// An L shape: carving removes the notch, Convex keeps it.
	points := [][2]float64{{0, 0}, {2, 0}, {2, 1}, {1, 1}, {1, 2}, {0, 2}}
	build := func(convex bool) *Mesh {
		input := geometry.NewInputGeometry(len(points))
		for _, p := range points {
			input.AddPoint(p[0], p[1], 1)
		}
		for i := range points {
			require.NoError(t, input.AddSegment(i, (i+1)%len(points), 1))
		}
		b := NewBehavior()
		b.Convex = convex
		m := New(b)
		require.NoError(t, m.Triangulate(input))
		return m
	}

	assert.InDelta(t, 3.0, meshArea(build(false)), 1e-12)
	assert.InDelta(t, 3.5, meshArea(build(true)), 1e-12)
}

func meshArea(m *Mesh) float64 {
	total := 0.0
	for _, t := range m.triangles {
		a, b, c := t.vertices[0], t.vertices[1], t.vertices[2]
		total += 0.5 * math.Abs((b.X-a.X)*(c.Y-a.Y)-(c.X-a.X)*(b.Y-a.Y))
	}
	return total
}

func TestHull(t *testing.T) {
	// A square with an interior point: the hull is the four corners, once
	// each, in counterclockwise order.
	input := squareInput()
	input.AddPoint(0.5, 0.5, 0)
	m := New(nil)
	require.NoError(t, m.Triangulate(input))

	hull := m.Hull()
	require.Len(t, hull, 4)
	assert.Equal(t, m.HullSize(), len(hull))
	assert.NotContains(t, hull, 4, "interior point on the hull")

	// Rotate so the walk starts at vertex 0, then the order must be CCW.
	start := 0
	for i, id := range hull {
		if id == 0 {
			start = i
		}
	}
	rotated := append(append([]int(nil), hull[start:]...), hull[:start]...)
	assert.Equal(t, []int{0, 1, 2, 3}, rotated)
}

func TestRegionSpreading(t *testing.T) {
	// Square split by a vertical segment; each half gets its own region id.
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
	input.AddRegion(0.5, 1, 10)
	input.AddRegion(1.5, 1, 20)

	m := New(nil)
	require.NoError(t, m.Triangulate(input))

	for _, tri := range m.Triangles() {
		var cx float64
		for i := 0; i < 3; i++ {
			cx += tri.Vertex(i).X / 3
		}
		want := 10
		if cx > 1 {
			want = 20
		}
		assert.Equal(t, want, tri.Region(), "triangle %d centroid x %v", tri.ID(), cx)
	}
}
