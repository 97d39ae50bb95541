package mesh

import (
	"github.com/golang/geo/r2"
	"github.com/sponticelli/trimesh/geometry"
)

func infect(o Otri)        { o.tri.infected = true }
func uninfect(o Otri)      { o.tri.infected = false }
func infected(o Otri) bool { return o.tri.infected }

// infectHull infects every triangle touching the convex hull that is not
// protected by a subsegment. This is how concavities get carved away.
func (m *Mesh) infectHull() {
	hulltri := Otri{m.dummytri, 0}
	hulltri.SymSelf()
	starttri := hulltri
	for {
		if !infected(hulltri) {
			hullsubseg := hulltri.SegPivot()
			if hullsubseg.seg == m.dummysub {
				infect(hulltri)
				m.viri = append(m.viri, hulltri.tri)
			} else if hullsubseg.Mark() == 0 {
				hullsubseg.SetMark(1)
				if horg := hulltri.Org(); horg.Boundary == 0 {
					horg.Boundary = 1
				}
				if hdest := hulltri.Dest(); hdest.Boundary == 0 {
					hdest.Boundary = 1
				}
			}
		}
		hulltri.LnextSelf()
		for nexttri := hulltri.Oprev(); nexttri.tri != m.dummytri; nexttri = hulltri.Oprev() {
			hulltri = nexttri
		}
		if hulltri.Equal(starttri) {
			return
		}
	}
}

// plague spreads the infection from the seeded triangles across everything
// not protected by a subsegment, then kills every infected triangle. Vertices
// left with no live triangle become undead; subsegments between two dying
// triangles die with them.
func (m *Mesh) plague() {
	for i := 0; i < len(m.viri); i++ {
		testtri := Otri{m.viri[i], 0}
		// Drop the flag while probing so the neighbor checks below can
		// distinguish this triangle from already-processed ones.
		uninfect(testtri)
		for testtri.orient = 0; testtri.orient < 3; testtri.orient++ {
			neighbor := testtri.Sym()
			neighborsubseg := testtri.SegPivot()
			if neighbor.tri == m.dummytri || infected(neighbor) {
				if neighborsubseg.seg != m.dummysub {
					// Both sides of this subsegment are dying.
					m.subsegDealloc(neighborsubseg.seg)
					if neighbor.tri != m.dummytri {
						uninfect(neighbor)
						neighbor.SegDissolve(m.dummysub)
						infect(neighbor)
					}
				}
			} else if neighborsubseg.seg == m.dummysub {
				infect(neighbor)
				m.viri = append(m.viri, neighbor.tri)
			} else {
				// The subsegment survives as a new boundary.
				neighborsubseg.TriDissolve(m.dummytri)
				if neighborsubseg.Mark() == 0 {
					neighborsubseg.SetMark(1)
				}
				if norg := neighbor.Org(); norg.Boundary == 0 {
					norg.Boundary = 1
				}
				if ndest := neighbor.Dest(); ndest.Boundary == 0 {
					ndest.Boundary = 1
				}
			}
		}
		infect(testtri)
	}

	for _, tri := range m.viri {
		testtri := Otri{tri, 0}

		// A corner whose every incident triangle is infected loses its
		// vertex. Corners are marked visited by nilling them out.
		for testtri.orient = 0; testtri.orient < 3; testtri.orient++ {
			testvertex := testtri.Org()
			if testvertex == nil {
				continue
			}
			killorg := true
			testtri.SetOrg(nil)
			neighbor := testtri.Onext()
			for neighbor.tri != m.dummytri && !neighbor.Equal(testtri) {
				if infected(neighbor) {
					neighbor.SetOrg(nil)
				} else {
					killorg = false
				}
				neighbor.OnextSelf()
			}
			if neighbor.tri == m.dummytri {
				// Hit a boundary going counterclockwise; sweep clockwise too.
				neighbor = testtri.Oprev()
				for neighbor.tri != m.dummytri {
					if infected(neighbor) {
						neighbor.SetOrg(nil)
					} else {
						killorg = false
					}
					neighbor.OprevSelf()
				}
			}
			if killorg {
				testvertex.Type = UndeadVertex
				m.undeads++
			}
		}

		for testtri.orient = 0; testtri.orient < 3; testtri.orient++ {
			neighbor := testtri.Sym()
			if neighbor.tri == m.dummytri {
				m.hullsize--
			} else {
				neighbor.Dissolve(m.dummytri)
				m.hullsize++
			}
		}
		m.triangleDealloc(testtri.tri)
	}
	m.viri = m.viri[:0]
}

// regionPlague floods a region id, and under VarArea an area constraint,
// outward from the seeded triangles, stopping at subsegments, without killing
// anything.
func (m *Mesh) regionPlague(regionID int, area float64) {
	for i := 0; i < len(m.viri); i++ {
		testtri := Otri{m.viri[i], 0}
		uninfect(testtri)
		testtri.tri.region = regionID
		if m.behavior.VarArea && area > 0.0 {
			testtri.tri.area = area
		}
		for testtri.orient = 0; testtri.orient < 3; testtri.orient++ {
			neighbor := testtri.Sym()
			neighborsubseg := testtri.SegPivot()
			if neighbor.tri != m.dummytri && !infected(neighbor) &&
				neighborsubseg.seg == m.dummysub {
				infect(neighbor)
				m.viri = append(m.viri, neighbor.tri)
			}
		}
		infect(testtri)
	}
	for _, tri := range m.viri {
		tri.infected = false
	}
	m.viri = m.viri[:0]
}

// carveHoles removes triangles outside the domain: concavities (unless the
// mesh is to stay convex), triangles reachable from each hole point, and
// finally spreads region ids from each region point.
func (m *Mesh) carveHoles() {
	b := m.behavior

	if !b.Convex {
		m.infectHull()
	}

	if len(m.holes) > 0 && !b.NoHoles {
		for _, hole := range m.holes {
			if !m.bounds.ContainsPoint(r2.Point{X: hole.X, Y: hole.Y}) {
				continue
			}
			searchtri := Otri{m.dummytri, 0}
			searchtri.SymSelf()
			// The hole must be to the left of the boundary edge the search
			// starts from, or locate cannot reach it.
			searchorg := searchtri.Org()
			searchdest := searchtri.Dest()
			if m.pred.CounterClockwise(searchorg.Point, searchdest.Point, hole) > 0.0 {
				if m.locate(hole, &searchtri) != Outside && !infected(searchtri) {
					infect(searchtri)
					m.viri = append(m.viri, searchtri.tri)
				}
			}
		}
	}

	// Region seeds must be located before the plague rearranges the
	// boundary.
	var regiontris []Otri
	if len(m.regions) > 0 {
		regiontris = make([]Otri, len(m.regions))
		for i, region := range m.regions {
			regiontris[i] = Otri{m.dummytri, 0}
			if !m.bounds.ContainsPoint(r2.Point{X: region.X, Y: region.Y}) {
				continue
			}
			searchtri := Otri{m.dummytri, 0}
			searchtri.SymSelf()
			searchorg := searchtri.Org()
			searchdest := searchtri.Dest()
			regionpoint := geometry.Point{X: region.X, Y: region.Y}
			if m.pred.CounterClockwise(searchorg.Point, searchdest.Point, regionpoint) > 0.0 {
				if m.locate(regionpoint, &searchtri) != Outside && !infected(searchtri) {
					regiontris[i] = searchtri
				}
			}
		}
	}

	if len(m.viri) > 0 {
		m.plague()
	}

	for i, seedtri := range regiontris {
		if seedtri.tri != m.dummytri && !seedtri.IsDead() {
			infect(seedtri)
			m.viri = append(m.viri, seedtri.tri)
			m.regionPlague(m.regions[i].ID, m.regions[i].Area)
		}
	}
}
