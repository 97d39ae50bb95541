package mesh

import (
	"github.com/sponticelli/trimesh/geometry"
	"go.uber.org/zap"
)

// findDirectionResult classifies where a search point lies relative to the
// triangle edge found by findDirection.
type findDirectionResult int

const (
	within findDirectionResult = iota
	leftCollinear
	rightCollinear
)

// findDirection rotates searchtri about its origin until the ray from the
// origin to searchpoint passes between its destination and apex.
func (m *Mesh) findDirection(searchtri *Otri, searchpoint geometry.Point) findDirectionResult {
	startvertex := searchtri.Org()
	rightvertex := searchtri.Dest()
	leftvertex := searchtri.Apex()

	leftccw := m.pred.CounterClockwise(searchpoint, startvertex.Point, leftvertex.Point)
	leftflag := leftccw > 0.0
	rightccw := m.pred.CounterClockwise(startvertex.Point, searchpoint, rightvertex.Point)
	rightflag := rightccw > 0.0
	if leftflag && rightflag {
		// The triangle faces directly away from the point; pick a turning
		// direction that stays inside the triangulation.
		if searchtri.Onext().tri == m.dummytri {
			leftflag = false
		} else {
			rightflag = false
		}
	}
	for leftflag {
		searchtri.OnextSelf()
		if searchtri.tri == m.dummytri {
			fatal(ErrTopology, "segment endpoint search walked off the hull near (%.12g, %.12g)",
				searchpoint.X, searchpoint.Y)
		}
		leftvertex = searchtri.Apex()
		rightccw = leftccw
		leftccw = m.pred.CounterClockwise(searchpoint, startvertex.Point, leftvertex.Point)
		leftflag = leftccw > 0.0
	}
	for rightflag {
		searchtri.OprevSelf()
		if searchtri.tri == m.dummytri {
			fatal(ErrTopology, "segment endpoint search walked off the hull near (%.12g, %.12g)",
				searchpoint.X, searchpoint.Y)
		}
		rightvertex = searchtri.Dest()
		leftccw = rightccw
		rightccw = m.pred.CounterClockwise(startvertex.Point, searchpoint, rightvertex.Point)
		rightflag = rightccw > 0.0
	}
	if leftccw == 0.0 {
		return leftCollinear
	}
	if rightccw == 0.0 {
		return rightCollinear
	}
	return within
}

// segmentIntersection splits two crossing segments at their intersection
// point, creating a new vertex there. On entry splittri's primary edge is the
// crossed subsegment splitsubseg and its apex is the first endpoint of the
// crossing segment; on return splittri's origin is the new vertex, pointed
// at endpoint2.
func (m *Mesh) segmentIntersection(splittri *Otri, splitsubseg *Osub, endpoint2 *Vertex) {
	endpoint1 := splittri.Apex()
	torg := splittri.Org()
	tdest := splittri.Dest()

	tx := tdest.X - torg.X
	ty := tdest.Y - torg.Y
	ex := endpoint2.X - endpoint1.X
	ey := endpoint2.Y - endpoint1.Y
	etx := torg.X - endpoint2.X
	ety := torg.Y - endpoint2.Y
	denom := ty*ex - tx*ey
	if denom == 0.0 {
		fatal(ErrTopology, "attempt to intersect parallel segments near (%.12g, %.12g)",
			torg.X, torg.Y)
	}
	split := (ey*etx - ex*ety) / denom

	p := geometry.Point{
		X:        torg.X + split*(tdest.X-torg.X),
		Y:        torg.Y + split*(tdest.Y-torg.Y),
		Boundary: splitsubseg.Mark(),
	}
	if len(torg.Attributes) > 0 {
		p.Attributes = make([]float64, len(torg.Attributes))
		for i := range p.Attributes {
			p.Attributes[i] = torg.Attributes[i] + split*(tdest.Attributes[i]-torg.Attributes[i])
		}
	}
	newvertex := m.makeVertex(p, InputVertex)

	if m.insertVertex(newvertex, splittri, splitsubseg, false, false) != successfulVertex {
		fatal(ErrTopology, "failure to split a segment at (%.12g, %.12g)", p.X, p.Y)
	}
	newvertex.tri = *splittri
	if m.steinerleft > 0 {
		m.steinerleft--
	}

	// Divide the crossed segment in two, repointing the source segment
	// endpoints of both chains at the new vertex.
	splitsubseg.SymSelf()
	opposubseg := splitsubseg.Pivot()
	splitsubseg.Dissolve(m.dummysub)
	opposubseg.Dissolve(m.dummysub)
	for sub := *splitsubseg; sub.seg != m.dummysub; sub.NextSelf() {
		sub.SetSegOrg(newvertex)
	}
	for sub := opposubseg; sub.seg != m.dummysub; sub.NextSelf() {
		sub.SetSegOrg(newvertex)
	}

	// The insertion may have flipped edges; rediscover the edge from the new
	// vertex back to endpoint1.
	m.findDirection(splittri, endpoint1.Point)
	rightvertex := splittri.Dest()
	leftvertex := splittri.Apex()
	if leftvertex.X == endpoint1.X && leftvertex.Y == endpoint1.Y {
		splittri.OnextSelf()
	} else if rightvertex.X != endpoint1.X || rightvertex.Y != endpoint1.Y {
		fatal(ErrTopology, "segment intersection vertex lost near (%.12g, %.12g)", p.X, p.Y)
	}
}

// scoutSegment tries to insert the segment from searchtri's origin to
// endpoint2 the easy way: when the segment is already an edge, or runs
// through collinear vertices, or crosses another segment (which gets split).
// It reports false when a hard case remains for constrainedEdge.
func (m *Mesh) scoutSegment(searchtri *Otri, endpoint2 *Vertex, newmark int) bool {
	collinear := m.findDirection(searchtri, endpoint2.Point)
	rightvertex := searchtri.Dest()
	leftvertex := searchtri.Apex()
	if (leftvertex.X == endpoint2.X && leftvertex.Y == endpoint2.Y) ||
		(rightvertex.X == endpoint2.X && rightvertex.Y == endpoint2.Y) {
		if leftvertex.X == endpoint2.X && leftvertex.Y == endpoint2.Y {
			searchtri.LprevSelf()
		}
		m.insertSubseg(*searchtri, newmark)
		return true
	}
	switch collinear {
	case leftCollinear:
		// A vertex lies between the endpoints; pin the first piece and
		// continue from the collinear vertex.
		searchtri.LprevSelf()
		m.insertSubseg(*searchtri, newmark)
		return m.scoutSegment(searchtri, endpoint2, newmark)
	case rightCollinear:
		m.insertSubseg(*searchtri, newmark)
		searchtri.LnextSelf()
		return m.scoutSegment(searchtri, endpoint2, newmark)
	default:
		crosstri := searchtri.Lnext()
		crosssubseg := crosstri.SegPivot()
		if crosssubseg.seg == m.dummysub {
			return false
		}
		m.segmentIntersection(&crosstri, &crosssubseg, endpoint2)
		*searchtri = crosstri
		m.insertSubseg(*searchtri, newmark)
		return m.scoutSegment(searchtri, endpoint2, newmark)
	}
}

// delaunayFixup restores the Delaunay property along one side of a freshly
// inserted segment. fixuptri's origin is the fan vertex; leftside says which
// side of the segment is being fixed.
func (m *Mesh) delaunayFixup(fixuptri *Otri, leftside bool) {
	neartri := fixuptri.Lnext()
	fartri := neartri.Sym()
	if fartri.tri == m.dummytri {
		return
	}
	if neartri.SegPivot().seg != m.dummysub {
		return
	}

	nearvertex := neartri.Apex()
	leftvertex := neartri.Org()
	rightvertex := neartri.Dest()
	farvertex := fartri.Apex()
	if leftside {
		if m.pred.CounterClockwise(nearvertex.Point, leftvertex.Point, farvertex.Point) <= 0.0 {
			return
		}
	} else {
		if m.pred.CounterClockwise(farvertex.Point, rightvertex.Point, nearvertex.Point) <= 0.0 {
			return
		}
	}
	if m.pred.CounterClockwise(rightvertex.Point, leftvertex.Point, farvertex.Point) > 0.0 {
		// fartri is not inverted; flip only if the edge fails the incircle
		// test. An inverted fartri is flipped unconditionally.
		if m.pred.InCircle(leftvertex.Point, farvertex.Point, rightvertex.Point, nearvertex.Point) <= 0.0 {
			return
		}
	}
	m.flip(&neartri)
	fixuptri.LprevSelf()
	m.delaunayFixup(fixuptri, leftside)
	m.delaunayFixup(&fartri, leftside)
}

// constrainedEdge forces the edge from starttri's origin to endpoint2 into
// the triangulation by flipping away every edge that crosses it, then
// restores Delaunayhood on both sides. Crossing segments are split.
func (m *Mesh) constrainedEdge(starttri *Otri, endpoint2 *Vertex, newmark int) {
	endpoint1 := starttri.Org()
	fixuptri := starttri.Lnext()
	m.flip(&fixuptri)

	collision := false
	done := false
	for !done {
		farvertex := fixuptri.Org()
		if farvertex.X == endpoint2.X && farvertex.Y == endpoint2.Y {
			fixuptri2 := fixuptri.Oprev()
			m.delaunayFixup(&fixuptri, false)
			m.delaunayFixup(&fixuptri2, true)
			done = true
			continue
		}
		area := m.pred.CounterClockwise(endpoint1.Point, endpoint2.Point, farvertex.Point)
		if area == 0.0 {
			// Collided with a vertex lying exactly on the segment.
			collision = true
			fixuptri2 := fixuptri.Oprev()
			m.delaunayFixup(&fixuptri, false)
			m.delaunayFixup(&fixuptri2, true)
			done = true
			continue
		}
		if area > 0.0 {
			fixuptri2 := fixuptri.Oprev()
			m.delaunayFixup(&fixuptri2, true)
			// After the flip below the destination of fixuptri is the fan
			// vertex.
			fixuptri.LprevSelf()
		} else {
			m.delaunayFixup(&fixuptri, false)
			fixuptri.OprevSelf()
		}
		crosssubseg := fixuptri.SegPivot()
		if crosssubseg.seg == m.dummysub {
			m.flip(&fixuptri)
		} else {
			collision = true
			m.segmentIntersection(&fixuptri, &crosssubseg, endpoint2)
			done = true
		}
	}

	m.insertSubseg(fixuptri, newmark)
	// A collision leaves the rest of the segment uninserted.
	if collision {
		if !m.scoutSegment(&fixuptri, endpoint2, newmark) {
			m.constrainedEdge(&fixuptri, endpoint2, newmark)
		}
	}
}

// insertSegment forces the segment between two existing vertices into the
// triangulation.
func (m *Mesh) insertSegment(endpoint1, endpoint2 *Vertex, newmark int) {
	// Find a triangle whose origin is the first endpoint.
	searchtri1 := m.triangleAtVertex(endpoint1)
	m.recenttri = searchtri1
	if m.scoutSegment(&searchtri1, endpoint2, newmark) {
		return
	}
	// A collision with an intervening vertex may have moved the near end.
	endpoint1 = searchtri1.Org()

	searchtri2 := m.triangleAtVertex(endpoint2)
	if m.scoutSegment(&searchtri2, endpoint1, newmark) {
		return
	}
	endpoint2 = searchtri2.Org()

	m.constrainedEdge(&searchtri1, endpoint2, newmark)
}

// triangleAtVertex returns a handle whose origin is v, using the vertex map
// when it is current and falling back to point location.
func (m *Mesh) triangleAtVertex(v *Vertex) Otri {
	if v.tri.tri != nil && !v.tri.IsDead() && v.tri.Org() == v {
		return v.tri
	}
	searchtri := Otri{m.dummytri, 0}
	searchtri.SymSelf()
	if m.locate(v.Point, &searchtri) != OnVertex {
		fatal(ErrTopology, "unable to locate vertex (%.12g, %.12g)", v.X, v.Y)
	}
	return searchtri
}

// markHull walks the convex hull once counterclockwise, pinning every hull
// edge with a subsegment.
func (m *Mesh) markHull() {
	hulltri := Otri{m.dummytri, 0}
	hulltri.SymSelf()
	starttri := hulltri
	for {
		m.insertSubseg(hulltri, 1)
		// The next hull edge is found by going clockwise around the next
		// vertex until hitting the outside.
		hulltri.LnextSelf()
		for nexttri := hulltri.Oprev(); nexttri.tri != m.dummytri; nexttri = hulltri.Oprev() {
			hulltri = nexttri
		}
		if hulltri.Equal(starttri) {
			return
		}
	}
}

// formSkeleton inserts the input segments into the triangulation and, when
// asked for a convex mesh (or given no segments at all), pins the convex
// hull.
func (m *Mesh) formSkeleton(input *geometry.InputGeometry) {
	poly := len(input.Segments()) > 0 || len(input.Holes()) > 0 || len(input.Regions()) > 0

	if len(input.Segments()) > 0 {
		m.makeVertexMap()
		for i, e := range input.Segments() {
			org := m.vertices[e.P0]
			dest := m.vertices[e.P1]
			if org == nil || dest == nil {
				fatal(ErrTopology, "segment %d references an unknown vertex", i)
			}
			if org.X == dest.X && org.Y == dest.Y {
				m.log.Warn("skipping segment with coincident endpoints",
					zap.Int("segment", i))
				continue
			}
			mark := 0
			if m.behavior.UseBoundaryMarkers {
				mark = e.Boundary
			}
			m.insertSegment(org, dest, mark)
		}
	}

	if m.behavior.Convex || !poly {
		m.markHull()
	}
}
