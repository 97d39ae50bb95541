package render

import (
	"fmt"
	"os"

	"github.com/fogleman/gg"
	imgcat "github.com/martinlindhe/imgcat/lib"
	"github.com/sponticelli/trimesh/mesh"
)

// Padding around the mesh so hull edges don't touch the image border
const drawPadding = 20

// DrawPNG rasterizes the mesh at the given scale (pixels per mesh unit) and
// writes it to path.
func DrawPNG(m *mesh.Mesh, path string, scale float64) error {
	c, err := drawContext(m, scale)
	if err != nil {
		return err
	}
	return c.SavePNG(path)
}

// DbgDraw rasterizes the mesh to a temp file and prints it in the terminal
// (iTerm only). Handy when stepping through refinement in a debugger.
func DbgDraw(m *mesh.Mesh, scale float64) {
	c, err := drawContext(m, scale)
	if err != nil {
		return
	}
	c.SavePNG("/tmp/trimesh.png")
	imgcat.CatFile("/tmp/trimesh.png", os.Stdout)
}

func drawContext(m *mesh.Mesh, scale float64) (*gg.Context, error) {
	verts := m.Vertices()
	if len(verts) == 0 {
		return nil, fmt.Errorf("render: mesh has no vertices")
	}
	byID := make(map[int][2]float64, len(verts))
	for _, v := range verts {
		byID[v.ID] = [2]float64{v.X, v.Y}
	}
	lo, hi := m.Bounds().Lo(), m.Bounds().Hi()

	width := int(scale*(hi.X-lo.X)) + drawPadding*2
	height := int(scale*(hi.Y-lo.Y)) + drawPadding*2
	c := gg.NewContext(width, height)
	c.SetRGB(0, 0, 0)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	c.Fill()
	// Flip the context so the origin is at the bottom left
	c.Translate(0, float64(height))
	c.Scale(1, -1)
	c.Translate(drawPadding, drawPadding)
	c.Scale(scale, scale)
	c.Translate(-lo.X, -lo.Y)

	c.SetLineWidth(1.0 / scale)
	for _, tri := range m.Triangles() {
		var pts [3][2]float64
		ok := true
		for i := 0; i < 3; i++ {
			p, found := byID[tri.VertexID(i)]
			if !found {
				ok = false
				break
			}
			pts[i] = p
		}
		if !ok {
			continue
		}
		c.MoveTo(pts[0][0], pts[0][1])
		c.LineTo(pts[1][0], pts[1][1])
		c.LineTo(pts[2][0], pts[2][1])
		c.ClosePath()
		c.SetRGBA(0.3, 0.2, 1, 0.5)
		c.FillPreserve()
		c.SetRGB(0, 1, 0)
		c.Stroke()
	}

	c.SetRGB(1, 0, 0)
	c.SetLineWidth(2.0 / scale)
	for _, s := range m.Subsegs() {
		p0, ok0 := byID[s.P0()]
		p1, ok1 := byID[s.P1()]
		if !ok0 || !ok1 {
			continue
		}
		c.DrawLine(p0[0], p0[1], p1[0], p1[1])
		c.Stroke()
	}

	return c, nil
}
