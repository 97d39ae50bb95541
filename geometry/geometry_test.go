package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputGeometryBuilder(t *testing.T) {
	g := NewInputGeometry(4)
	g.AddPoint(0, 0, 1)
	g.AddPoint(2, 0, 1)
	g.AddPointAttr(2, 3, 0, []float64{7.5})
	require.NoError(t, g.AddSegment(0, 1, 1))
	g.AddHole(1, 1)
	g.AddRegion(0.5, 0.5, 42)

	assert.Equal(t, 3, g.Count())
	assert.Len(t, g.Segments(), 1)
	assert.Len(t, g.Holes(), 1)
	assert.Len(t, g.Regions(), 1)

	// Points get dense ids in insertion order.
	for i, p := range g.Points() {
		assert.Equal(t, i, p.ID)
	}
	assert.Equal(t, []float64{7.5}, g.Points()[2].Attributes)

	lo, hi := g.Bounds().Lo(), g.Bounds().Hi()
	assert.Equal(t, 0.0, lo.X)
	assert.Equal(t, 0.0, lo.Y)
	assert.Equal(t, 2.0, hi.X)
	assert.Equal(t, 3.0, hi.Y)
}

func TestAddSegmentValidation(t *testing.T) {
	g := NewInputGeometry(2)
	g.AddPoint(0, 0, 0)
	g.AddPoint(1, 1, 0)

	assert.Error(t, g.AddSegment(0, 5, 0), "unknown endpoint")
	assert.Error(t, g.AddSegment(-1, 0, 0), "negative endpoint")
	assert.Error(t, g.AddSegment(1, 1, 0), "coincident endpoints")
	assert.NoError(t, g.AddSegment(0, 1, 0))
}

func TestPointEquals(t *testing.T) {
	assert.True(t, NewPoint(1, 2, 0).Equals(NewPoint(1, 2, 9)))
	assert.False(t, NewPoint(1, 2, 0).Equals(NewPoint(1, 2.0000001, 0)))
}
