package mesh

import "fmt"

// CheckMesh verifies the topological consistency of the triangulation: every
// triangle has positive orientation and every adjoining pair of triangles
// agrees about the edge between them. It returns an error describing the
// first few problems found, or nil.
func (m *Mesh) CheckMesh() error {
	var horrors []string
	for _, h := range sortedKeys(m.triangles) {
		tri := Otri{m.triangles[h], 0}
		for tri.orient = 0; tri.orient < 3; tri.orient++ {
			torg := tri.Org()
			tdest := tri.Dest()
			if tri.orient == 0 {
				tapex := tri.Apex()
				if torg == nil || tdest == nil || tapex == nil {
					horrors = append(horrors,
						fmt.Sprintf("triangle %d has a nil corner", tri.tri.id))
					continue
				}
				if m.pred.CounterClockwise(torg.Point, tdest.Point, tapex.Point) <= 0.0 {
					horrors = append(horrors,
						fmt.Sprintf("triangle %d is degenerate or inverted", tri.tri.id))
				}
			}
			oppotri := tri.Sym()
			if oppotri.tri == m.dummytri {
				continue
			}
			if oppotri.IsDead() {
				horrors = append(horrors,
					fmt.Sprintf("triangle %d adjoins a dead triangle", tri.tri.id))
				continue
			}
			oppoorg := oppotri.Org()
			oppodest := oppotri.Dest()
			if torg != oppodest || tdest != oppoorg {
				horrors = append(horrors,
					fmt.Sprintf("triangle %d and its neighbor %d disagree about their shared edge",
						tri.tri.id, oppotri.tri.id))
			}
			if !oppotri.Sym().Equal(tri) {
				horrors = append(horrors,
					fmt.Sprintf("asymmetric bond between triangles %d and %d",
						tri.tri.id, oppotri.tri.id))
			}
		}
		if len(horrors) > 8 {
			break
		}
	}
	if len(horrors) > 0 {
		return fmt.Errorf("%w: %v", ErrTopology, horrors)
	}
	return nil
}

// CheckDelaunay verifies that every edge of the mesh is locally Delaunay, or
// is a subsegment (which is exempt). It returns an error describing the
// violations, or nil.
func (m *Mesh) CheckDelaunay() error {
	var horrors []string
	for _, h := range sortedKeys(m.triangles) {
		tri := Otri{m.triangles[h], 0}
		for tri.orient = 0; tri.orient < 3; tri.orient++ {
			torg := tri.Org()
			tdest := tri.Dest()
			tapex := tri.Apex()
			oppotri := tri.Sym()
			if oppotri.tri == m.dummytri {
				continue
			}
			oppoapex := oppotri.Apex()
			// Only test each edge once, from the triangle with the smaller
			// pointer-ordering proxy; use ids which are stable.
			if tri.tri.id > oppotri.tri.id {
				continue
			}
			if tapex == nil || oppoapex == nil {
				continue
			}
			if m.checksegments && tri.SegPivot().seg != m.dummysub {
				continue
			}
			if m.pred.InCircle(torg.Point, tdest.Point, tapex.Point, oppoapex.Point) > 0.0 {
				horrors = append(horrors,
					fmt.Sprintf("edge between triangles %d and %d is not Delaunay",
						tri.tri.id, oppotri.tri.id))
			}
		}
		if len(horrors) > 8 {
			break
		}
	}
	if len(horrors) > 0 {
		return fmt.Errorf("%w: %v", ErrTopology, horrors)
	}
	return nil
}
