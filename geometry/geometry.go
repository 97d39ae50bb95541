// Package geometry holds the input side of the triangulation boundary: plain
// points, constraint segments, hole and region markers. It has no knowledge of
// mesh topology.
package geometry

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// InputGeometry collects the planar straight line graph handed to the
// triangulator: ordered points, optional constraint segments referencing point
// indices, hole markers and region seeds. Segments must reference points that
// have already been added; no other ordering requirement exists.
type InputGeometry struct {
	points   []Point
	segments []Edge
	holes    []Point
	regions  []RegionPointer
	bounds   r2.Rect
}

func NewInputGeometry(capacity int) *InputGeometry {
	return &InputGeometry{
		points: make([]Point, 0, capacity),
		bounds: r2.EmptyRect(),
	}
}

func (g *InputGeometry) AddPoint(x, y float64, boundary int) {
	g.AddPointAttr(x, y, boundary, nil)
}

// AddPointAttr adds a point carrying user attributes, which refinement
// interpolates onto Steiner points.
func (g *InputGeometry) AddPointAttr(x, y float64, boundary int, attributes []float64) {
	p := NewPoint(x, y, boundary)
	p.ID = len(g.points)
	p.Attributes = attributes
	g.points = append(g.points, p)
	g.bounds = g.bounds.AddPoint(r2.Point{X: x, Y: y})
}

// AddSegment appends a constraint segment between two previously added points.
func (g *InputGeometry) AddSegment(p0, p1, boundary int) error {
	if p0 < 0 || p0 >= len(g.points) || p1 < 0 || p1 >= len(g.points) {
		return fmt.Errorf("geometry: segment (%d, %d) references an unknown point", p0, p1)
	}
	if p0 == p1 {
		return fmt.Errorf("geometry: segment endpoints coincide at index %d", p0)
	}
	g.segments = append(g.segments, Edge{P0: p0, P1: p1, Boundary: boundary})
	return nil
}

// AddHole marks a point inside a region whose triangles are to be carved away.
func (g *InputGeometry) AddHole(x, y float64) {
	g.holes = append(g.holes, NewPoint(x, y, 0))
}

// AddRegion seeds a regional attribute at (x, y).
func (g *InputGeometry) AddRegion(x, y float64, id int) {
	g.AddRegionArea(x, y, id, 0)
}

// AddRegionArea seeds a regional attribute that also carries a maximum
// triangle area, honored by refinement when Behavior.VarArea is set.
func (g *InputGeometry) AddRegionArea(x, y float64, id int, area float64) {
	g.regions = append(g.regions, RegionPointer{X: x, Y: y, ID: id, Area: area})
}

func (g *InputGeometry) Count() int             { return len(g.points) }
func (g *InputGeometry) Points() []Point        { return g.points }
func (g *InputGeometry) Segments() []Edge       { return g.segments }
func (g *InputGeometry) Holes() []Point         { return g.holes }
func (g *InputGeometry) Regions() []RegionPointer { return g.regions }

// Bounds returns the smallest axis-aligned rectangle containing every point.
func (g *InputGeometry) Bounds() r2.Rect { return g.bounds }
