package mesh

import "github.com/sponticelli/trimesh/geometry"

// LocateResult describes where a point landed relative to the triangulation.
type LocateResult int

const (
	// InTriangle means the point lies strictly inside the result triangle.
	InTriangle LocateResult = iota
	// OnEdge means the point lies on the primary edge of the result handle.
	OnEdge
	// OnVertex means the point coincides with the origin of the result.
	OnVertex
	// Outside means the search walked out of the triangulation.
	Outside
)

// preciseLocate walks from searchtri toward searchpoint, one triangle at a
// time, using orientation tests to pick the exit edge. The caller must
// arrange searchtri so that searchpoint is to the left of its primary edge.
// If stopAtSubsegment is set the walk refuses to cross constraint segments
// and reports Outside instead.
func (m *Mesh) preciseLocate(searchpoint geometry.Point, searchtri *Otri, stopAtSubsegment bool) LocateResult {
	torg := searchtri.Org()
	tdest := searchtri.Dest()

	for {
		tapex := searchtri.Apex()

		if tapex.X == searchpoint.X && tapex.Y == searchpoint.Y {
			searchtri.LprevSelf()
			return OnVertex
		}

		// Which side of the two remaining edges is the point on?
		destorient := m.pred.CounterClockwise(torg.Point, tapex.Point, searchpoint)
		orgorient := m.pred.CounterClockwise(tapex.Point, tdest.Point, searchpoint)

		var moveleft bool
		if destorient > 0.0 {
			if orgorient > 0.0 {
				// The point is past both edges; break the tie with the
				// direction of travel.
				moveleft = (tapex.X-searchpoint.X)*(tdest.X-torg.X)+
					(tapex.Y-searchpoint.Y)*(tdest.Y-torg.Y) > 0.0
			} else {
				moveleft = true
			}
		} else {
			if orgorient > 0.0 {
				moveleft = false
			} else {
				// The point is on or inside this triangle.
				if destorient == 0.0 {
					searchtri.LprevSelf()
					return OnEdge
				}
				if orgorient == 0.0 {
					searchtri.LnextSelf()
					return OnEdge
				}
				return InTriangle
			}
		}

		var backtracktri Otri
		if moveleft {
			backtracktri = searchtri.Lprev()
			tdest = tapex
		} else {
			backtracktri = searchtri.Lnext()
			torg = tapex
		}
		*searchtri = backtracktri.Sym()

		if m.checksegments && stopAtSubsegment {
			if backtracktri.SegPivot().seg != m.dummysub {
				*searchtri = backtracktri
				return Outside
			}
		}
		if searchtri.tri == m.dummytri {
			*searchtri = backtracktri
			return Outside
		}
	}
}

// locate finds the triangle containing searchpoint, starting from a sampled
// triangle close to it. On return searchtri holds the result handle.
func (m *Mesh) locate(searchpoint geometry.Point, searchtri *Otri) LocateResult {
	torg := searchtri.Org()
	searchdist := distSq(searchpoint, torg.Point)

	// The most recently visited triangle is often closest.
	if m.recenttri.tri != nil && !m.recenttri.IsDead() {
		rorg := m.recenttri.Org()
		if rorg.X == searchpoint.X && rorg.Y == searchpoint.Y {
			*searchtri = m.recenttri
			return OnVertex
		}
		if d := distSq(searchpoint, rorg.Point); d < searchdist {
			*searchtri = m.recenttri
			searchdist = d
		}
	}

	// Sample a handful of triangles and pick the closest origin. The sample
	// count grows with the cube root of the triangle count.
	for sampleFactor*m.samples*m.samples*m.samples < len(m.triangles) {
		m.samples++
	}
	sampled := 0
	for _, t := range m.triangles {
		if sampled >= m.samples {
			break
		}
		sampled++
		if (Otri{t, 0}).IsDead() {
			continue
		}
		sorg := (Otri{t, 0}).Org()
		if sorg == nil {
			continue
		}
		if d := distSq(searchpoint, sorg.Point); d < searchdist {
			*searchtri = Otri{t, 0}
			searchdist = d
		}
	}

	torg = searchtri.Org()
	tdest := searchtri.Dest()
	if torg.X == searchpoint.X && torg.Y == searchpoint.Y {
		return OnVertex
	}
	if tdest.X == searchpoint.X && tdest.Y == searchpoint.Y {
		searchtri.LnextSelf()
		return OnVertex
	}

	// Orient the handle so the walk proceeds with the point on its left.
	ahead := m.pred.CounterClockwise(torg.Point, tdest.Point, searchpoint)
	if ahead < 0.0 {
		searchtri.SymSelf()
	} else if ahead == 0.0 {
		if torg.X < searchpoint.X == (searchpoint.X < tdest.X) &&
			torg.Y < searchpoint.Y == (searchpoint.Y < tdest.Y) {
			return OnEdge
		}
	}
	return m.preciseLocate(searchpoint, searchtri, false)
}

const sampleFactor = 11

func distSq(a, b geometry.Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
