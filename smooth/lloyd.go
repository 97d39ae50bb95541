// Package smooth improves mesh element shapes by Lloyd relaxation: each
// interior vertex is moved to the centroid of its Voronoi cell and the mesh is
// rebuilt, for a fixed number of rounds. Vertices on the hull or on a
// constraint segment never move, so the domain shape is preserved exactly.
package smooth

import (
	"fmt"

	"github.com/sponticelli/trimesh/geometry"
	"github.com/sponticelli/trimesh/mesh"
	"github.com/sponticelli/trimesh/voronoi"
	"go.uber.org/zap"
)

// Lloyd triangulates the input and then relaxes the mesh for the given number
// of iterations. The behavior is copied; refinement runs only on the first
// round so later rounds just rebuild connectivity for the moved points.
func Lloyd(input *geometry.InputGeometry, b *mesh.Behavior, iterations int) (*mesh.Mesh, error) {
	if b == nil {
		b = mesh.NewBehavior()
	}
	work := *b
	// Undead slots would leave holes in the dense id space the rebuild
	// depends on.
	work.Jettison = true

	m := mesh.New(&work)
	if err := m.Triangulate(input); err != nil {
		return nil, err
	}

	log := work.Logger
	if log == nil {
		log = zap.NewNop()
	}

	rebuild := work
	rebuild.Quality = false

	for iter := 0; iter < iterations; iter++ {
		diagram, err := voronoi.Bounded(m)
		if err != nil {
			return nil, fmt.Errorf("smooth: iteration %d: %w", iter, err)
		}

		centroids := make(map[int]geometry.Point, len(diagram.Cells))
		moved := 0
		for i := range diagram.Cells {
			cell := &diagram.Cells[i]
			if !cell.Bounded {
				continue
			}
			centroids[cell.Generator.ID] = cell.Centroid()
			moved++
		}
		if moved == 0 {
			break
		}

		next, err := rebuiltInput(m, input, centroids)
		if err != nil {
			return nil, fmt.Errorf("smooth: iteration %d: %w", iter, err)
		}

		m = mesh.New(&rebuild)
		if err := m.Triangulate(next); err != nil {
			return nil, fmt.Errorf("smooth: iteration %d: %w", iter, err)
		}
		log.Debug("relaxation round complete",
			zap.Int("iteration", iter), zap.Int("moved", moved))
	}
	return m, nil
}

// rebuiltInput turns the current mesh back into input geometry, substituting
// the relaxed positions and carrying over the surviving subsegments, holes and
// regions.
func rebuiltInput(m *mesh.Mesh, orig *geometry.InputGeometry, centroids map[int]geometry.Point) (*geometry.InputGeometry, error) {
	verts := m.Vertices()
	next := geometry.NewInputGeometry(len(verts))
	for _, v := range verts {
		p := v.Point
		if c, ok := centroids[v.ID]; ok {
			p.X, p.Y = c.X, c.Y
		}
		next.AddPointAttr(p.X, p.Y, p.Boundary, p.Attributes)
	}
	for _, s := range m.Subsegs() {
		if err := next.AddSegment(s.P0(), s.P1(), s.Boundary()); err != nil {
			return nil, err
		}
	}
	for _, h := range orig.Holes() {
		next.AddHole(h.X, h.Y)
	}
	for _, r := range orig.Regions() {
		next.AddRegionArea(r.X, r.Y, r.ID, r.Area)
	}
	return next, nil
}
