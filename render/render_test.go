package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sponticelli/trimesh/geometry"
	"github.com/sponticelli/trimesh/mesh"
	"github.com/sponticelli/trimesh/tools"
	"github.com/sponticelli/trimesh/voronoi"
)

func testMesh(t *testing.T) *mesh.Mesh {
	t.Helper()
	input := geometry.NewInputGeometry(5)
	input.AddPoint(0, 0, 1)
	input.AddPoint(4, 0, 1)
	input.AddPoint(4, 3, 1)
	input.AddPoint(0, 3, 1)
	input.AddPoint(2, 1.5, 0)
	for i := 0; i < 4; i++ {
		require.NoError(t, input.AddSegment(i, (i+1)%4, 1))
	}
	m := mesh.New(nil)
	require.NoError(t, m.Triangulate(input))
	return m
}

func TestWriteSVG(t *testing.T) {
	m := testMesh(t)
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, m, 400))

	out := buf.String()
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "<?xml"))
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "</svg>")
	// One polygon per triangle, one line per subsegment.
	assert.Equal(t, m.NumberOfTriangles(), strings.Count(out, "<polygon"))
	assert.Equal(t, m.NumberOfSubsegs(), strings.Count(out, "<line"))
}

func TestWriteVoronoiSVG(t *testing.T) {
	m := testMesh(t)
	d, err := voronoi.Bounded(m)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteVoronoiSVG(&buf, d, 400))
	assert.Equal(t, len(d.Cells), strings.Count(buf.String(), "<polygon"))
}

func TestWriteSVGEmptyMesh(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteSVG(&buf, mesh.New(nil), 400))
}

func TestQualityReport(t *testing.T) {
	m := testMesh(t)
	var buf bytes.Buffer
	require.NoError(t, QualityReport(&buf, tools.Measure(m)))

	out := buf.String()
	assert.Contains(t, out, "echarts")
	assert.Contains(t, out, "Triangle corner angles")
}
