package trimesh

import (
	"embed"
	"strconv"
	"strings"
	"testing"

	"github.com/JoshVarga/svgparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sponticelli/trimesh/tools"
)

// The fixtures are SVGs containing a single polygon element each. Only the
// points attribute of the first polygon is read; this is nowhere near a real
// SVG parser and doesn't need to be.

//go:embed fixtures
var fixtures embed.FS

func loadFixture(t *testing.T, name string) [][2]float64 {
	t.Helper()
	fixture, err := fixtures.Open("fixtures/" + name + ".svg")
	require.NoError(t, err)
	defer fixture.Close()

	rootEl, err := svgparser.Parse(fixture, true)
	require.NoError(t, err)
	polygons := rootEl.FindAll("polygon")
	require.Len(t, polygons, 1, "fixture %q must contain exactly one polygon", name)

	var points [][2]float64
	for _, pair := range strings.Fields(polygons[0].Attributes["points"]) {
		xy := strings.Split(pair, ",")
		require.Len(t, xy, 2, "bad point %q in fixture %q", pair, name)
		x, err := strconv.ParseFloat(xy[0], 64)
		require.NoError(t, err)
		y, err := strconv.ParseFloat(xy[1], 64)
		require.NoError(t, err)
		points = append(points, [2]float64{x, y})
	}
	require.GreaterOrEqual(t, len(points), 3)

	// SVG y points down; flipping nothing, just make sure the winding is
	// counterclockwise in the mesh's coordinate sense.
	area := 0.0
	for i := range points {
		j := (i + 1) % len(points)
		area += points[i][0]*points[j][1] - points[j][0]*points[i][1]
	}
	if area < 0 {
		for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
			points[i], points[j] = points[j], points[i]
		}
	}
	return points
}

func fixtureInput(t *testing.T, name string) *InputGeometry {
	t.Helper()
	points := loadFixture(t, name)
	input := NewInputGeometry(len(points))
	for _, p := range points {
		input.AddPoint(p[0], p[1], 1)
	}
	for i := range points {
		require.NoError(t, input.AddSegment(i, (i+1)%len(points), 1))
	}
	return input
}

var fixtureNames = []string{"star", "comb", "blob"}

func TestFixturePolygons(t *testing.T) {
	for _, name := range fixtureNames {
		t.Run(name, func(t *testing.T) {
			input := fixtureInput(t, name)
			m, err := Triangulate(input)
			require.NoError(t, err)

			assert.NoError(t, m.CheckMesh())
			assert.NoError(t, m.CheckDelaunay())

			// A constrained triangulation of a polygon with no Steiner points
			// has exactly n-2 triangles.
			assert.Equal(t, input.Count()-2, m.NumberOfTriangles())
			assert.Equal(t, input.Count(), m.NumberOfSubsegs())
		})
	}
}

func TestFixtureRefinement(t *testing.T) {
	for _, name := range fixtureNames {
		t.Run(name, func(t *testing.T) {
			input := fixtureInput(t, name)
			m, err := TriangulateQuality(input, 20, 0)
			require.NoError(t, err)

			assert.NoError(t, m.CheckMesh())
			require.False(t, m.IncompleteRefinement())

			stats := tools.Measure(m)
			assert.GreaterOrEqual(t, stats.SmallestAngle, 20.0-0.01)
			// Refinement only adds vertices.
			assert.GreaterOrEqual(t, stats.Vertices, input.Count())
		})
	}
}
