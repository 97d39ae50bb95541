package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sponticelli/trimesh/geometry"
)

func TestSegmentInsertion(t *testing.T) {
	// A segment forced through the middle of a random point cloud.
	input := randomInput(40, 11)
	input.AddPoint(-10, 50, 0)  // index 40
	input.AddPoint(110, 50, 0)  // index 41
	require.NoError(t, input.AddSegment(40, 41, 5))

	b := NewBehavior()
	b.Convex = true
	m := New(b)
	require.NoError(t, m.Triangulate(input))

	assert.NoError(t, m.CheckMesh())

	// The constraint pieces (Convex mode also marks the hull, with marker 1)
	// lie exactly on the input segment and cover all of it.
	org := geometry.Point{X: -10, Y: 50}
	dest := geometry.Point{X: 110, Y: 50}
	covered := 0.0
	pieces := 0
	for _, s := range m.subsegs {
		if s.Boundary() != 5 {
			continue
		}
		pieces++
		osub := Osub{s, 0}
		for _, v := range []*Vertex{osub.Org(), osub.Dest()} {
			assert.Zero(t, m.pred.CounterClockwise(org, dest, v.Point),
				"subsegment endpoint (%v, %v) is off the segment", v.X, v.Y)
		}
		covered += abs64(osub.Dest().X - osub.Org().X)
	}
	assert.Positive(t, pieces)
	assert.InDelta(t, 120.0, covered, 1e-9)
}

func abs64(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func TestCrossingSegmentsSplit(t *testing.T) {
	// Two segments crossing at (1, 1); the second insertion must split the
	// first and add the intersection vertex.
	input := geometry.NewInputGeometry(4)
	input.AddPoint(0, 0, 0)
	input.AddPoint(2, 2, 0)
	input.AddPoint(0, 2, 0)
	input.AddPoint(2, 0, 0)
	require.NoError(t, input.AddSegment(0, 1, 3))
	require.NoError(t, input.AddSegment(2, 3, 3))

	b := NewBehavior()
	b.Convex = true
	m := New(b)
	require.NoError(t, m.Triangulate(input))

	assert.NoError(t, m.CheckMesh())
	// The crossing vertex was added.
	assert.Equal(t, 5, m.NumberOfVertices())
	// Each diagonal was cut in two; the hull marking adds four more.
	halves := 0
	for _, s := range m.Subsegs() {
		if s.Boundary() == 3 {
			halves++
		}
	}
	assert.Equal(t, 4, halves)
	found := false
	for _, v := range m.Vertices() {
		if v.X == 1 && v.Y == 1 {
			found = true
			assert.Equal(t, SegmentVertex, v.Type)
		}
	}
	assert.True(t, found, "crossing vertex missing")
}

func TestCoincidentSegmentEndpointsSkipped(t *testing.T) {
	input := squareInput()
	input.AddPoint(0, 0, 1) // duplicate of point 0
	for i := 0; i < 4; i++ {
		require.NoError(t, input.AddSegment(i, (i+1)%4, 1))
	}
	// References the duplicate: same coordinates on both ends after the
	// duplicate is merged, so the segment is dropped with a warning.
	require.NoError(t, input.AddSegment(0, 4, 1))

	m := New(nil)
	require.NoError(t, m.Triangulate(input))
	assert.Equal(t, 4, m.NumberOfSubsegs())
	assert.NoError(t, m.CheckMesh())
}

func TestHullMarking(t *testing.T) {
	// With no segments at all, quality mode still protects the hull with
	// subsegments.
	b := NewBehavior()
	b.Quality = true
	b.MinAngle = 0
	m := New(b)
	require.NoError(t, m.Triangulate(squareInput()))
	assert.Equal(t, 4, m.NumberOfSubsegs())
	for _, s := range m.Subsegs() {
		assert.Equal(t, 1, s.Boundary())
	}
}

func TestBoundaryMarkersPropagate(t *testing.T) {
	input := squareInput()
	for i := 0; i < 4; i++ {
		require.NoError(t, input.AddSegment(i, (i+1)%4, 7))
	}
	m := New(nil)
	require.NoError(t, m.Triangulate(input))
	for _, s := range m.Subsegs() {
		assert.Equal(t, 7, s.Boundary())
	}

	b := NewBehavior()
	b.UseBoundaryMarkers = false
	m = New(b)
	require.NoError(t, m.Triangulate(input))
	for _, s := range m.Subsegs() {
		assert.Equal(t, 0, s.Boundary())
	}
}
