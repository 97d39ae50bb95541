// Package render writes finished meshes out as SVG, PNG and HTML quality
// reports, plus a terminal preview helper for debugging sessions.
package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/sponticelli/trimesh/mesh"
	"github.com/sponticelli/trimesh/voronoi"
)

const svgPadding = 10

// transform maps mesh coordinates onto an integer SVG viewport, flipping y so
// the mesh's up is the image's up.
type transform struct {
	minX, minY float64
	scale      float64
	height     int
}

func newTransform(minX, minY, maxX, maxY float64, width int) transform {
	w, h := maxX-minX, maxY-minY
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	scale := float64(width-2*svgPadding) / w
	return transform{
		minX:   minX,
		minY:   minY,
		scale:  scale,
		height: int(h*scale) + 2*svgPadding,
	}
}

func (t transform) apply(x, y float64) (int, int) {
	return int((x-t.minX)*t.scale) + svgPadding,
		t.height - (int((y-t.minY)*t.scale) + svgPadding)
}

// WriteSVG renders the triangulation: triangle edges in gray, constraint
// subsegments in red, vertices as dots. width is the image width in pixels;
// height follows the mesh aspect ratio.
func WriteSVG(w io.Writer, m *mesh.Mesh, width int) error {
	verts := m.Vertices()
	if len(verts) == 0 {
		return fmt.Errorf("render: mesh has no vertices")
	}
	byID := make(map[int][2]float64, len(verts))
	lo, hi := m.Bounds().Lo(), m.Bounds().Hi()
	for _, v := range verts {
		byID[v.ID] = [2]float64{v.X, v.Y}
	}
	t := newTransform(lo.X, lo.Y, hi.X, hi.Y, width)

	canvas := svg.New(w)
	canvas.Start(width, t.height)

	for _, tri := range m.Triangles() {
		var xs, ys [3]int
		ok := true
		for i := 0; i < 3; i++ {
			p, found := byID[tri.VertexID(i)]
			if !found {
				ok = false
				break
			}
			xs[i], ys[i] = t.apply(p[0], p[1])
		}
		if ok {
			canvas.Polygon(xs[:], ys[:], "fill:#e8f0fe;stroke:#999;stroke-width:1")
		}
	}

	for _, s := range m.Subsegs() {
		p0, ok0 := byID[s.P0()]
		p1, ok1 := byID[s.P1()]
		if !ok0 || !ok1 {
			continue
		}
		x1, y1 := t.apply(p0[0], p0[1])
		x2, y2 := t.apply(p1[0], p1[1])
		canvas.Line(x1, y1, x2, y2, "stroke:#c00;stroke-width:2")
	}

	for _, v := range verts {
		x, y := t.apply(v.X, v.Y)
		canvas.Circle(x, y, 2, "fill:#333")
	}

	canvas.End()
	return nil
}

// WriteVoronoiSVG renders a bounded Voronoi diagram: cell outlines in blue,
// generators as dots.
func WriteVoronoiSVG(w io.Writer, d *voronoi.Diagram, width int) error {
	if len(d.Cells) == 0 {
		return fmt.Errorf("render: diagram has no cells")
	}
	minX, minY := d.Cells[0].Generator.X, d.Cells[0].Generator.Y
	maxX, maxY := minX, minY
	for _, c := range d.Cells {
		for _, p := range c.Points {
			if p.X < minX {
				minX = p.X
			}
			if p.X > maxX {
				maxX = p.X
			}
			if p.Y < minY {
				minY = p.Y
			}
			if p.Y > maxY {
				maxY = p.Y
			}
		}
	}
	t := newTransform(minX, minY, maxX, maxY, width)

	canvas := svg.New(w)
	canvas.Start(width, t.height)
	for _, c := range d.Cells {
		xs := make([]int, len(c.Points))
		ys := make([]int, len(c.Points))
		for i, p := range c.Points {
			xs[i], ys[i] = t.apply(p.X, p.Y)
		}
		canvas.Polygon(xs, ys, "fill:none;stroke:#06c;stroke-width:1")
		x, y := t.apply(c.Generator.X, c.Generator.Y)
		canvas.Circle(x, y, 2, "fill:#333")
	}
	canvas.End()
	return nil
}
