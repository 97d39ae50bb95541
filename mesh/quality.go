package mesh

import (
	"math"

	"go.uber.org/zap"
)

// Ruppert's refinement: encroached subsegments are split at concentric-shell
// positions, low-quality triangles at their (off-)circumcenters, until every
// triangle meets the quality constraints or the Steiner point budget runs
// out.

// checkSeg4Encroach tests whether the subsegment is encroached: whether a
// vertex other than its endpoints lies inside its diametral lens (diametral
// circle when ConformingDelaunay is set). The return value has bit 1 set if
// the apex on the subsegment's own side encroaches and bit 2 for the other
// side; a nonzero result also queues the subsegment.
func (m *Mesh) checkSeg4Encroach(testsubseg *Osub) int {
	encroached := 0
	eorg := testsubseg.Org()
	edest := testsubseg.Dest()

	lens := 2.0*m.behavior.goodAngle - 1.0
	encroachedBy := func(eapex *Vertex) bool {
		// The angle at the apex is greater than 90 degrees iff the dot
		// product is negative; the lens test tightens that to
		// 180 - 2*minangle degrees.
		dot := (eorg.X-eapex.X)*(edest.X-eapex.X) + (eorg.Y-eapex.Y)*(edest.Y-eapex.Y)
		if dot >= 0.0 {
			return false
		}
		if m.behavior.ConformingDelaunay {
			return true
		}
		return dot*dot >= lens*lens*
			((eorg.X-eapex.X)*(eorg.X-eapex.X)+(eorg.Y-eapex.Y)*(eorg.Y-eapex.Y))*
			((edest.X-eapex.X)*(edest.X-eapex.X)+(edest.Y-eapex.Y)*(edest.Y-eapex.Y))
	}

	if neighbortri := testsubseg.TriPivot(); neighbortri.tri != m.dummytri {
		if encroachedBy(neighbortri.Apex()) {
			encroached = 1
		}
	}
	testsym := testsubseg.Sym()
	if neighbortri := testsym.TriPivot(); neighbortri.tri != m.dummytri {
		if encroachedBy(neighbortri.Apex()) {
			encroached += 2
		}
	}

	if encroached != 0 {
		// Queue it with the encroached side in front.
		if encroached == 1 {
			m.badsubsegs = append(m.badsubsegs, badSubseg{
				subseg: *testsubseg, org: eorg, dest: edest,
			})
		} else {
			m.badsubsegs = append(m.badsubsegs, badSubseg{
				subseg: testsym, org: edest, dest: eorg,
			})
		}
	}
	return encroached
}

// testTriangle checks one triangle against the quality constraints and queues
// it if it fails any.
func (m *Mesh) testTriangle(testtri *Otri) {
	b := m.behavior
	torg := testtri.Org()
	tdest := testtri.Dest()
	tapex := testtri.Apex()
	dxod := torg.X - tdest.X
	dyod := torg.Y - tdest.Y
	dxda := tdest.X - tapex.X
	dyda := tdest.Y - tapex.Y
	dxao := tapex.X - torg.X
	dyao := tapex.Y - torg.Y
	apexlen := dxod*dxod + dyod*dyod
	orglen := dxda*dxda + dyda*dyda
	destlen := dxao*dxao + dyao*dyao

	// Find the shortest edge, the squared cosine of the angle opposite it,
	// and a handle on that edge.
	var minedge, angle float64
	var base1, base2 *Vertex
	var tri1 Otri
	if apexlen < orglen && apexlen < destlen {
		minedge = apexlen
		angle = dxda*dxao + dyda*dyao
		angle = angle * angle / (orglen * destlen)
		base1 = torg
		base2 = tdest
		tri1 = *testtri
	} else if orglen < destlen {
		minedge = orglen
		angle = dxod*dxao + dyod*dyao
		angle = angle * angle / (apexlen * destlen)
		base1 = tdest
		base2 = tapex
		tri1 = testtri.Lnext()
	} else {
		minedge = destlen
		angle = dxod*dxda + dyod*dyda
		angle = angle * angle / (apexlen * orglen)
		base1 = tapex
		base2 = torg
		tri1 = testtri.Lprev()
	}

	if b.VarArea || b.fixedArea || b.UserTest != nil {
		area := 0.5 * (dxod*dyda - dyod*dxda)
		if b.fixedArea && area > b.MaxArea {
			m.enqueueBadTri(testtri, minedge, tapex, torg, tdest)
			return
		}
		// Nonpositive area constraints are treated as unconstrained.
		if b.VarArea && area > testtri.tri.area && testtri.tri.area > 0.0 {
			m.enqueueBadTri(testtri, minedge, tapex, torg, tdest)
			return
		}
		if b.UserTest != nil && b.UserTest(torg.Point, tdest.Point, tapex.Point, area) {
			m.enqueueBadTri(testtri, minedge, tapex, torg, tdest)
			return
		}
	}

	if angle > b.goodAngle {
		// A triangle whose shortest edge spans two segments meeting at a
		// small angle at equal distances cannot be improved by splitting;
		// leave it alone (rule of Miller, Pav and Walkington).
		if base1.Type == SegmentVertex && base2.Type == SegmentVertex {
			if tri1.SegPivot().seg == m.dummysub {
				tri2 := tri1
				var testsub Osub
				for {
					tri1.OprevSelf()
					testsub = tri1.SegPivot()
					if testsub.seg != m.dummysub {
						break
					}
				}
				org1 := testsub.SegOrg()
				dest1 := testsub.SegDest()
				for {
					tri2.DnextSelf()
					testsub = tri2.SegPivot()
					if testsub.seg != m.dummysub {
						break
					}
				}
				org2 := testsub.SegOrg()
				dest2 := testsub.SegDest()
				var joinvertex *Vertex
				if dest1.X == org2.X && dest1.Y == org2.Y {
					joinvertex = dest1
				} else if org1.X == dest2.X && org1.Y == dest2.Y {
					joinvertex = org1
				}
				if joinvertex != nil {
					dist1 := (base1.X-joinvertex.X)*(base1.X-joinvertex.X) +
						(base1.Y-joinvertex.Y)*(base1.Y-joinvertex.Y)
					dist2 := (base2.X-joinvertex.X)*(base2.X-joinvertex.X) +
						(base2.Y-joinvertex.Y)*(base2.Y-joinvertex.Y)
					if dist1 < 1.001*dist2 && dist1 > 0.999*dist2 {
						return
					}
				}
			}
		}
		m.enqueueBadTri(testtri, minedge, tapex, torg, tdest)
		return
	}

	if b.MaxAngle != 0.0 {
		// The cosine of the largest angle, by the law of cosines.
		if apexlen > orglen && apexlen > destlen {
			angle = (dxda*dxao + dyda*dyao) / math.Sqrt(orglen*destlen)
		} else if orglen > destlen {
			angle = (dxod*dxao + dyod*dyao) / math.Sqrt(apexlen*destlen)
		} else {
			angle = (dxod*dxda + dyod*dyda) / math.Sqrt(apexlen*orglen)
		}
		if angle < b.maxGoodAngle {
			m.enqueueBadTri(testtri, minedge, tapex, torg, tdest)
		}
	}
}

func (m *Mesh) enqueueBadTri(testtri *Otri, minedge float64, apex, org, dest *Vertex) {
	m.queue.enqueue(&badTriangle{
		poortri: *testtri,
		key:     minedge,
		org:     org,
		dest:    dest,
		apex:    apex,
	})
}

// tallyEncs queues every encroached subsegment in the mesh.
func (m *Mesh) tallyEncs() {
	for _, h := range sortedKeys(m.subsegs) {
		subseg := Osub{m.subsegs[h], 0}
		m.checkSeg4Encroach(&subseg)
	}
}

// tallyFaces queues every bad-quality triangle in the mesh.
func (m *Mesh) tallyFaces() {
	for _, h := range sortedKeys(m.triangles) {
		tri := Otri{m.triangles[h], 0}
		m.testTriangle(&tri)
	}
}

// splitEncSegs splits all queued encroached subsegments. With triflaws set,
// new low-quality triangles produced by the splits are queued.
func (m *Mesh) splitEncSegs(triflaws bool) {
	// steinerleft is -1 when the Steiner point supply is unlimited.
	for len(m.badsubsegs) > 0 && m.steinerleft != 0 {
		enc := m.badsubsegs[0]
		m.badsubsegs = m.badsubsegs[1:]
		currentenc := enc.subseg
		eorg := currentenc.Org()
		edest := currentenc.Dest()
		// Skip stale entries: the subsegment may have been split already if
		// several vertices encroached it.
		if currentenc.IsDead() || eorg != enc.org || edest != enc.dest {
			continue
		}

		// Splitting every segment at its midpoint can loop forever when two
		// segments meet at a small angle: each new vertex encroaches the
		// other segment. Instead, split on concentric circles of power-of-
		// two radius around shared endpoints, so subsegment lengths along a
		// segment settle into at worst a 2:1 ratio and shared vertices stop
		// generating each other.
		enctri := currentenc.TriPivot()
		testtri := enctri.Lnext()
		acuteorg := testtri.SegPivot().seg != m.dummysub
		testtri.LnextSelf()
		acutedest := testtri.SegPivot().seg != m.dummysub

		// Under the lens definition of encroachment, free vertices inside
		// the diametral circle are deleted before splitting (Chew's
		// variant).
		if !m.behavior.ConformingDelaunay && !acuteorg && !acutedest {
			eapex := enctri.Apex()
			for eapex.Type == FreeVertex &&
				(eorg.X-eapex.X)*(edest.X-eapex.X)+(eorg.Y-eapex.Y)*(edest.Y-eapex.Y) < 0.0 {
				deltri := enctri.Lprev()
				m.deleteVertex(&deltri)
				enctri = currentenc.TriPivot()
				eapex = enctri.Apex()
				testtri = enctri.Lnext()
				acuteorg = testtri.SegPivot().seg != m.dummysub
				testtri.LnextSelf()
				acutedest = testtri.SegPivot().seg != m.dummysub
			}
		}

		testtri = enctri.Sym()
		if testtri.tri != m.dummytri {
			testtri.LnextSelf()
			acutedest2 := testtri.SegPivot().seg != m.dummysub
			acutedest = acutedest || acutedest2
			testtri.LnextSelf()
			acuteorg2 := testtri.SegPivot().seg != m.dummysub
			acuteorg = acuteorg || acuteorg2

			if !m.behavior.ConformingDelaunay && !acuteorg2 && !acutedest2 {
				eapex := testtri.Org()
				for eapex.Type == FreeVertex &&
					(eorg.X-eapex.X)*(edest.X-eapex.X)+(eorg.Y-eapex.Y)*(edest.Y-eapex.Y) < 0.0 {
					m.deleteVertex(&testtri)
					testtri = enctri.Sym()
					eapex = testtri.Apex()
					testtri.LprevSelf()
				}
			}
		}

		split := 0.5
		if acuteorg || acutedest {
			segmentlength := math.Sqrt((edest.X-eorg.X)*(edest.X-eorg.X) +
				(edest.Y-eorg.Y)*(edest.Y-eorg.Y))
			nearestpoweroftwo := 1.0
			for segmentlength > 3.0*nearestpoweroftwo {
				nearestpoweroftwo *= 2.0
			}
			for segmentlength < 1.5*nearestpoweroftwo {
				nearestpoweroftwo *= 0.5
			}
			split = nearestpoweroftwo / segmentlength
			if acutedest {
				split = 1.0 - split
			}
		}

		p := eorg.Point
		p.X = eorg.X + split*(edest.X-eorg.X)
		p.Y = eorg.Y + split*(edest.Y-eorg.Y)
		if len(eorg.Attributes) > 0 {
			p.Attributes = make([]float64, len(eorg.Attributes))
			for i := range p.Attributes {
				p.Attributes[i] = eorg.Attributes[i] + split*(edest.Attributes[i]-eorg.Attributes[i])
			}
		}
		if !m.behavior.NoExact {
			// One step of iterative refinement pulls the split point back
			// onto the segment after roundoff.
			multiplier := m.pred.CounterClockwise(eorg.Point, edest.Point, p)
			divisor := (eorg.X-edest.X)*(eorg.X-edest.X) + (eorg.Y-edest.Y)*(eorg.Y-edest.Y)
			if multiplier != 0.0 && divisor != 0.0 {
				multiplier /= divisor
				if !math.IsNaN(multiplier) {
					p.X += multiplier * (edest.Y - eorg.Y)
					p.Y += multiplier * (eorg.X - edest.X)
				}
			}
		}
		p.Boundary = currentenc.Mark()

		if (p.X == eorg.X && p.Y == eorg.Y) || (p.X == edest.X && p.Y == edest.Y) {
			fatal(ErrPrecisionExhausted,
				"segment split point coincides with an endpoint near (%.12g, %.12g)", p.X, p.Y)
		}
		newvertex := m.makeVertex(p, SegmentVertex)

		success := m.insertVertex(newvertex, &enctri, &currentenc, true, triflaws)
		if success != successfulVertex && success != encroachingVertex {
			fatal(ErrTopology, "failure to split subsegment at (%.12g, %.12g)", p.X, p.Y)
		}
		if m.steinerleft > 0 {
			m.steinerleft--
		}
		if m.behavior.Verbose {
			m.log.Debug("split encroached subsegment",
				zap.String("subseg", currentenc.String()),
				zap.Float64("x", p.X), zap.Float64("y", p.Y))
		}
		// Both halves may themselves be encroached.
		m.checkSeg4Encroach(&currentenc)
		currentenc.NextSelf()
		m.checkSeg4Encroach(&currentenc)
	}
}

// splitTriangle inserts a vertex at the (off-)circumcenter of a queued bad
// triangle. If the new vertex would encroach a subsegment the insertion is
// rolled back and the subsegment queued instead.
func (m *Mesh) splitTriangle(badtri *badTriangle) {
	badotri := badtri.poortri
	borg := badotri.Org()
	bdest := badotri.Dest()
	bapex := badotri.Apex()
	// Skip stale entries: flips may have recycled the handle.
	if badotri.IsDead() || borg != badtri.org || bdest != badtri.dest || bapex != badtri.apex {
		return
	}

	p, xi, eta := m.pred.OffCenter(borg.Point, bdest.Point, bapex.Point, m.behavior.offconstant)

	if (p.X == borg.X && p.Y == borg.Y) || (p.X == bdest.X && p.Y == bdest.Y) ||
		(p.X == bapex.X && p.Y == bapex.Y) {
		fatal(ErrPrecisionExhausted,
			"circumcenter (%.12g, %.12g) falls on an existing vertex", p.X, p.Y)
	}

	if len(borg.Attributes) > 0 {
		p.Attributes = make([]float64, len(borg.Attributes))
		for i := range p.Attributes {
			p.Attributes[i] = borg.Attributes[i] + xi*(bdest.Attributes[i]-borg.Attributes[i]) +
				eta*(bapex.Attributes[i]-borg.Attributes[i])
		}
	}
	p.Boundary = 0
	newvertex := m.makeVertex(p, FreeVertex)

	// Keep the handle off the longest edge so the circumcenter is to its
	// left and the walk from here finds it.
	if eta < xi {
		badotri.LprevSelf()
	}

	switch m.insertVertex(newvertex, &badotri, nil, true, true) {
	case successfulVertex:
		if m.steinerleft > 0 {
			m.steinerleft--
		}
		if m.behavior.Verbose {
			m.log.Debug("split bad triangle",
				zap.String("triangle", badotri.String()),
				zap.Float64("x", p.X), zap.Float64("y", p.Y))
		}
	case encroachingVertex:
		// Undo the insertion; the encroached subsegment has been queued and
		// will be split first.
		m.undoVertex()
		m.vertexDealloc(newvertex)
	case violatingVertex:
		m.vertexDealloc(newvertex)
	case duplicateVertex:
		m.vertexDealloc(newvertex)
		fatal(ErrPrecisionExhausted,
			"circumcenter (%.12g, %.12g) falls on an existing vertex", p.X, p.Y)
	}
}

// enforceQuality is the top-level refinement loop.
func (m *Mesh) enforceQuality() {
	b := m.behavior
	m.makeVertexMap()

	m.tallyEncs()
	m.splitEncSegs(false)
	// The mesh is now conforming Delaunay, Steiner supply permitting.

	if b.MinAngle > 0.0 || b.VarArea || b.fixedArea || b.UserTest != nil {
		m.queue.reset()
		m.tallyFaces()
		m.checkquality = true
		for m.queue.items > 0 && m.steinerleft != 0 {
			badtri := m.queue.dequeue()
			m.splitTriangle(badtri)
			if len(m.badsubsegs) > 0 {
				// The split was rolled back; retry it after the encroached
				// subsegments are gone.
				m.queue.enqueue(badtri)
				m.splitEncSegs(true)
			}
		}
	}

	if m.steinerleft == 0 && (len(m.badsubsegs) > 0 || m.queue.items > 0) {
		m.incomplete = true
		m.log.Warn("ran out of Steiner points; mesh quality constraints not fully met",
			zap.Int("queued_triangles", m.queue.items),
			zap.Int("queued_subsegments", len(m.badsubsegs)))
	}
}
