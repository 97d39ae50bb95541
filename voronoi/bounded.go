// Package voronoi derives the bounded Voronoi dual of a finished
// triangulation. Cells of interior generators are the usual polygons of
// circumcenters; cells cut off by the mesh boundary or by a constraint
// segment are closed with the midpoints of the blocking edges and the
// generator itself, so every cell is a finite polygon.
package voronoi

import (
	"fmt"
	"math"
	"sort"

	"github.com/sponticelli/trimesh/geometry"
	"github.com/sponticelli/trimesh/mesh"
	"github.com/sponticelli/trimesh/predicates"
)

// Cell is one Voronoi region: the generator vertex it belongs to and its
// boundary polygon in counterclockwise order.
type Cell struct {
	// Generator is the mesh vertex this cell surrounds.
	Generator geometry.Point
	// Points is the cell boundary, counterclockwise. For a bounded cell
	// these are circumcenters of the generator's incident triangles; a cell
	// against a wall also contains wall-edge midpoints and the generator.
	Points []geometry.Point
	// Bounded is false when the cell was closed off against the mesh
	// boundary or a constraint segment.
	Bounded bool
}

// Diagram is the bounded Voronoi dual of a mesh.
type Diagram struct {
	Cells []Cell
}

// walls are the edges Voronoi cells may not cross: hull edges and
// constraint subsegments.
type wallKey struct{ lo, hi int }

// Bounded computes the bounded Voronoi diagram of m. The mesh must have been
// renumbered (Triangulate does this), so vertex and triangle ids are dense.
func Bounded(m *mesh.Mesh) (*Diagram, error) {
	verts := m.Vertices()
	tris := m.Triangles()
	if len(tris) == 0 {
		return nil, fmt.Errorf("voronoi: mesh has no triangles")
	}

	byID := make(map[int]geometry.Point, len(verts))
	for _, v := range verts {
		byID[v.ID] = v.Point
	}

	pred := predicates.Config{}

	// One dual point per triangle. A circumcenter that falls on the far side
	// of one of the triangle's wall edges would land in a cell the wall
	// blinds the triangle from; clamp it onto that wall edge instead.
	centers := make(map[int]geometry.Point, len(tris))
	for _, t := range tris {
		a, aok := byID[t.VertexID(0)]
		b, bok := byID[t.VertexID(1)]
		c, cok := byID[t.VertexID(2)]
		if !aok || !bok || !cok {
			return nil, fmt.Errorf("voronoi: triangle %d has an unknown corner", t.ID())
		}
		center, _, _ := pred.Circumcenter(a, b, c)
		corners := [3]geometry.Point{a, b, c}
		for i := 0; i < 3; i++ {
			if t.SegmentID(i) == -1 && t.NeighborID(i) != -1 {
				continue
			}
			p := corners[(i+1)%3]
			q := corners[(i+2)%3]
			opp := corners[i]
			if sideOf(p, q, center)*sideOf(p, q, opp) < 0 {
				center = clampToEdge(p, q, center)
			}
		}
		centers[t.ID()] = center
	}

	// Gather, per generator: its incident dual points, plus the midpoints of
	// the wall edges it lies on.
	incident := make(map[int][]geometry.Point, len(verts))
	onWall := make(map[int]bool)
	seenWall := make(map[wallKey]bool)
	for _, t := range tris {
		c := centers[t.ID()]
		for i := 0; i < 3; i++ {
			incident[t.VertexID(i)] = append(incident[t.VertexID(i)], c)
		}
		for i := 0; i < 3; i++ {
			if t.SegmentID(i) == -1 && t.NeighborID(i) != -1 {
				continue
			}
			pid := t.VertexID((i + 1) % 3)
			qid := t.VertexID((i + 2) % 3)
			onWall[pid] = true
			onWall[qid] = true
			key := wallKey{pid, qid}
			if key.lo > key.hi {
				key.lo, key.hi = key.hi, key.lo
			}
			if seenWall[key] {
				continue
			}
			seenWall[key] = true
			p, q := byID[pid], byID[qid]
			mid := geometry.Point{ID: -1, X: 0.5 * (p.X + q.X), Y: 0.5 * (p.Y + q.Y)}
			incident[pid] = append(incident[pid], mid)
			incident[qid] = append(incident[qid], mid)
		}
	}

	d := &Diagram{Cells: make([]Cell, 0, len(verts))}
	for _, v := range verts {
		pts := incident[v.ID]
		if len(pts) == 0 {
			// Undead vertex; no cell.
			continue
		}
		cell := Cell{
			Generator: v.Point,
			Points:    orderAround(v.Point, pts, onWall[v.ID]),
			Bounded:   !onWall[v.ID],
		}
		d.Cells = append(d.Cells, cell)
	}
	return d, nil
}

// sideOf is the sign of the area of (p, q, r); positive means r lies to the
// left of pq. Plain arithmetic is enough here, this never steers topology.
func sideOf(p, q, r geometry.Point) float64 {
	return (q.X-p.X)*(r.Y-p.Y) - (q.Y-p.Y)*(r.X-p.X)
}

// clampToEdge projects r onto the segment pq, clamped to its endpoints.
func clampToEdge(p, q, r geometry.Point) geometry.Point {
	dx, dy := q.X-p.X, q.Y-p.Y
	lensq := dx*dx + dy*dy
	t := 0.5
	if lensq > 0 {
		t = ((r.X-p.X)*dx + (r.Y-p.Y)*dy) / lensq
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return geometry.Point{ID: -1, X: p.X + t*dx, Y: p.Y + t*dy}
}

// orderAround sorts the cell points counterclockwise around the generator.
// Voronoi cells are star shaped about their generator, so an angular sort
// recovers the boundary order. For a wall cell the generator itself becomes a
// polygon corner, inserted into the largest angular gap (the stretch that
// runs along the outside of the wall).
func orderAround(gen geometry.Point, pts []geometry.Point, includeGen bool) []geometry.Point {
	type anglePoint struct {
		angle float64
		p     geometry.Point
	}
	aps := make([]anglePoint, 0, len(pts))
	for _, p := range pts {
		aps = append(aps, anglePoint{math.Atan2(p.Y-gen.Y, p.X-gen.X), p})
	}
	sort.Slice(aps, func(i, j int) bool { return aps[i].angle < aps[j].angle })

	// Coincident dual points (two triangles sharing a circumcenter, or a
	// clamped center landing on a midpoint) collapse to one corner.
	out := make([]geometry.Point, 0, len(aps)+1)
	for _, ap := range aps {
		if len(out) > 0 && out[len(out)-1].Equals(ap.p) {
			continue
		}
		out = append(out, ap.p)
	}

	if includeGen && len(out) > 0 {
		gap, gapAt := -1.0, 0
		for i := range out {
			j := (i + 1) % len(out)
			a1 := math.Atan2(out[i].Y-gen.Y, out[i].X-gen.X)
			a2 := math.Atan2(out[j].Y-gen.Y, out[j].X-gen.X)
			diff := a2 - a1
			if diff <= 0 {
				diff += 2 * math.Pi
			}
			if diff > gap {
				gap, gapAt = diff, j
			}
		}
		out = append(out, geometry.Point{})
		copy(out[gapAt+1:], out[gapAt:])
		out[gapAt] = gen
	}
	return out
}

// Area returns the signed area of the cell polygon; counterclockwise cells
// are positive.
func (c *Cell) Area() float64 {
	area := 0.0
	n := len(c.Points)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += c.Points[i].X*c.Points[j].Y - c.Points[j].X*c.Points[i].Y
	}
	return 0.5 * area
}

// Centroid returns the centroid of the cell polygon. Degenerate cells fall
// back to the generator.
func (c *Cell) Centroid() geometry.Point {
	area := c.Area()
	if math.Abs(area) < 1e-30 {
		return c.Generator
	}
	var cx, cy float64
	n := len(c.Points)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := c.Points[i].X*c.Points[j].Y - c.Points[j].X*c.Points[i].Y
		cx += (c.Points[i].X + c.Points[j].X) * cross
		cy += (c.Points[i].Y + c.Points[j].Y) * cross
	}
	f := 1.0 / (6.0 * area)
	return geometry.Point{ID: -1, X: cx * f, Y: cy * f}
}
