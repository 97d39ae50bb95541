package mesh

import (
	"github.com/sponticelli/trimesh/geometry"
	"go.uber.org/zap"
)

// boundingBox encloses all input vertices in a triangle so large that the
// final hull is strictly inside it. Its three vertices live outside the
// vertex table and are treated as infinitely distant by the flip tests.
func (m *Mesh) boundingBox() {
	lo := m.bounds.Lo()
	hi := m.bounds.Hi()
	width := hi.X - lo.X
	if hi.Y-lo.Y > width {
		width = hi.Y - lo.Y
	}
	if width == 0.0 {
		width = 1.0
	}
	m.infvertex1 = &Vertex{Point: geometry.Point{ID: -1, X: lo.X - 50.0*width, Y: lo.Y - 40.0*width}}
	m.infvertex2 = &Vertex{Point: geometry.Point{ID: -1, X: hi.X + 50.0*width, Y: lo.Y - 40.0*width}}
	m.infvertex3 = &Vertex{Point: geometry.Point{ID: -1, X: 0.5 * (lo.X + hi.X), Y: hi.Y + 60.0*width}}

	inftri := m.makeTriangle()
	inftri.SetOrg(m.infvertex1)
	inftri.SetDest(m.infvertex2)
	inftri.SetApex(m.infvertex3)
	m.dummytri.neighbors[0] = inftri
}

// removeBox strips the bounding triangle and everything connecting it to the
// real triangulation, and returns the hull size.
func (m *Mesh) removeBox() int {
	nextedge := Otri{m.dummytri, 0}
	nextedge.SymSelf()
	finaledge := nextedge.Lprev()
	nextedge.LnextSelf()
	nextedge.SymSelf()
	// The current boundary edge belongs to a box triangle and is about to
	// die; repoint the dummy at a surviving hull triangle.
	searchedge := nextedge.Lprev()
	searchedge.SymSelf()
	checkedge := nextedge.Lnext()
	checkedge.SymSelf()
	if checkedge.tri == m.dummytri {
		searchedge.LprevSelf()
		searchedge.SymSelf()
	}
	m.dummytri.neighbors[0] = searchedge

	hullsize := -2
	for !nextedge.Equal(finaledge) {
		hullsize++
		dissolveedge := nextedge.Lprev()
		dissolveedge.SymSelf()
		// Hull vertices are marked here unless a PSLG will do it later.
		// Guard against fully collinear input, where every triangle is part
		// of the box.
		if !m.poly && dissolveedge.tri != m.dummytri {
			if markorg := dissolveedge.Org(); markorg.Boundary == 0 {
				markorg.Boundary = 1
			}
		}
		dissolveedge.Dissolve(m.dummytri)
		deadtriangle := nextedge.Lnext()
		nextedge = deadtriangle.Sym()
		m.triangleDealloc(deadtriangle.tri)
		if nextedge.tri == m.dummytri {
			// Turn the corner of the box.
			nextedge = dissolveedge
		}
	}
	m.triangleDealloc(finaledge.tri)
	return hullsize
}

// incrementalDelaunay inserts the vertices one at a time into a bounding
// triangle and returns the hull size.
func (m *Mesh) incrementalDelaunay() int {
	m.boundingBox()
	for _, h := range sortedKeys(m.vertices) {
		v := m.vertices[h]
		starttri := Otri{m.dummytri, 0}
		if m.insertVertex(v, &starttri, nil, false, false) == duplicateVertex {
			m.log.Warn("duplicate vertex ignored",
				zap.Float64("x", v.X), zap.Float64("y", v.Y))
			v.Type = UndeadVertex
			m.undeads++
		}
	}
	return m.removeBox()
}
