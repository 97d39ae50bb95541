package tools

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sponticelli/trimesh/geometry"
	"github.com/sponticelli/trimesh/mesh"
)

func squareMesh(t *testing.T) *mesh.Mesh {
	t.Helper()
	input := geometry.NewInputGeometry(4)
	input.AddPoint(0, 0, 1)
	input.AddPoint(1, 0, 1)
	input.AddPoint(1, 1, 1)
	input.AddPoint(0, 1, 1)
	m := mesh.New(nil)
	require.NoError(t, m.Triangulate(input))
	return m
}

func randomMesh(t *testing.T, n int, seed int64) *mesh.Mesh {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	input := geometry.NewInputGeometry(n)
	for i := 0; i < n; i++ {
		input.AddPoint(rng.Float64()*10, rng.Float64()*10, 0)
	}
	m := mesh.New(nil)
	require.NoError(t, m.Triangulate(input))
	return m
}

func TestAdjacencyMatrix(t *testing.T) {
	m := squareMesh(t)
	adj := NewAdjacencyMatrix(m)
	require.Equal(t, 4, adj.N)

	// Four boundary edges plus one diagonal: two nodes of degree 3, two of
	// degree 2, and every adjacency is mutual.
	degrees := 0
	threes := 0
	for j := 0; j < adj.N; j++ {
		d := adj.Degree(j)
		degrees += d
		if d == 3 {
			threes++
		}
		for _, i := range adj.Neighbors(j) {
			assert.Contains(t, adj.Neighbors(i), j)
			assert.NotEqual(t, i, j)
		}
	}
	assert.Equal(t, 2*5, degrees)
	assert.Equal(t, 2, threes)
}

func TestAdjacencyMatrixMatchesEdgeCount(t *testing.T) {
	m := randomMesh(t, 80, 5)
	adj := NewAdjacencyMatrix(m)
	total := 0
	for j := 0; j < adj.N; j++ {
		total += adj.Degree(j)
	}
	assert.Equal(t, 2*m.NumberOfEdges(), total)
}

// pathMatrix builds the adjacency of a path graph 0-1-2-...-n-1 directly.
func pathMatrix(n int) *AdjacencyMatrix {
	a := &AdjacencyMatrix{N: n, ColumnPointers: make([]int, n+1)}
	for j := 0; j < n; j++ {
		if j > 0 {
			a.RowIndices = append(a.RowIndices, j-1)
		}
		if j < n-1 {
			a.RowIndices = append(a.RowIndices, j+1)
		}
		a.ColumnPointers[j+1] = len(a.RowIndices)
	}
	return a
}

func TestCuthillMcKeePath(t *testing.T) {
	// A path graph already has bandwidth 3; any valid RCM ordering keeps it.
	a := pathMatrix(6)
	perm := CuthillMcKee(a)

	// perm is a permutation.
	seen := make([]bool, a.N)
	for _, p := range perm {
		require.False(t, seen[p])
		seen[p] = true
	}
	assert.Equal(t, 3, a.Bandwidth(perm))
}

func TestCuthillMcKeeReducesBandwidth(t *testing.T) {
	m := randomMesh(t, 150, 21)
	adj := NewAdjacencyMatrix(m)
	perm := CuthillMcKee(adj)

	// A permutation, and one that doesn't make things worse.
	seen := make([]bool, adj.N)
	for _, p := range perm {
		require.False(t, seen[p])
		seen[p] = true
	}
	assert.LessOrEqual(t, adj.Bandwidth(perm), adj.Bandwidth(nil))
}

func TestAdjacencyAgainstTriangleList(t *testing.T) {
	m := randomMesh(t, 60, 8)
	adj := NewAdjacencyMatrix(m)

	// Rebuild the adjacency lists straight from the triangle list and compare.
	lists := make([][]int, adj.N)
	add := func(a, b int) {
		for _, x := range lists[a] {
			if x == b {
				return
			}
		}
		lists[a] = append(lists[a], b)
	}
	for _, tri := range m.Triangles() {
		for i := 0; i < 3; i++ {
			a, b := tri.VertexID(i), tri.VertexID((i+1)%3)
			add(a, b)
			add(b, a)
		}
	}
	for j := range lists {
		sort.Ints(lists[j])
		if lists[j] == nil {
			lists[j] = []int{}
		}
		got := append([]int(nil), adj.Neighbors(j)...)
		if got == nil {
			got = []int{}
		}
		if diff := cmp.Diff(lists[j], got); diff != "" {
			t.Errorf("node %d adjacency mismatch (-want +got):\n%s", j, diff)
		}
	}
}

func TestStatistics(t *testing.T) {
	m := squareMesh(t)
	s := Measure(m)

	assert.Equal(t, 2, s.Triangles)
	assert.Equal(t, 4, s.Vertices)
	assert.InDelta(t, 0.5, s.SmallestArea, 1e-12)
	assert.InDelta(t, 0.5, s.LargestArea, 1e-12)
	assert.InDelta(t, 1.0, s.ShortestEdge, 1e-12)
	assert.InDelta(t, 1.4142135623730951, s.LongestEdge, 1e-12)
	assert.InDelta(t, 45.0, s.SmallestAngle, 1e-9)
	assert.InDelta(t, 90.0, s.LargestAngle, 1e-9)

	corners := 0
	for _, c := range s.AngleHistogram {
		corners += c
	}
	assert.Equal(t, 6, corners)
}

func TestQualityMeasure(t *testing.T) {
	// Equilateral is 1, degenerate is 0, everything else in between.
	h := 0.8660254037844386
	assert.InDelta(t, 1.0, QualityMeasure(0, 0, 1, 0, 0.5, h), 1e-12)
	assert.Zero(t, QualityMeasure(0, 0, 1, 0, 2, 0))
	q := QualityMeasure(0, 0, 1, 0, 0.5, 0.1)
	assert.Greater(t, q, 0.0)
	assert.Less(t, q, 1.0)
}
