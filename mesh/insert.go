package mesh

// insertVertexResult tells the caller what happened to a candidate vertex.
type insertVertexResult int

const (
	// successfulVertex: the vertex was inserted and the mesh is Delaunay again.
	successfulVertex insertVertexResult = iota
	// encroachingVertex: the vertex was inserted but encroaches on a
	// subsegment, which has been queued for splitting.
	encroachingVertex
	// violatingVertex: the vertex fell on an existing subsegment and was not
	// inserted; the subsegment has been queued instead.
	violatingVertex
	// duplicateVertex: a vertex with the same coordinates already exists.
	duplicateVertex
)

// flipStacker records one transformation of the insertion so undoVertex can
// reverse it. The stack is rebuilt on every insertion while checkquality is
// set. prevflip == splitSentinel marks the bottom entry of an on-edge
// insertion, which is undone differently than a trisection.
type flipStacker struct {
	flippedtri Otri
	prevflip   *flipStacker
}

var splitSentinel = &flipStacker{}

// insertSubseg attaches a subsegment with the given boundary marker to the
// primary edge of tri, creating it if the edge has none yet.
func (m *Mesh) insertSubseg(tri Otri, mark int) {
	torg := tri.Org()
	tdest := tri.Dest()
	if torg.Boundary == 0 {
		torg.Boundary = mark
	}
	if tdest.Boundary == 0 {
		tdest.Boundary = mark
	}
	cursub := tri.SegPivot()
	if cursub.seg == m.dummysub {
		newsub := m.makeSubseg()
		newsub.SetOrg(tdest)
		newsub.SetDest(torg)
		newsub.SetSegOrg(tdest)
		newsub.SetSegDest(torg)
		// Bond both sides of the edge to the new subsegment.
		tri.SegBond(newsub)
		newsub.SymSelf()
		tri.Sym().SegBond(newsub)
		newsub.SetMark(mark)
	} else if cursub.Mark() == 0 {
		cursub.SetMark(mark)
	}
}

// flip rotates the quadrilateral around flipedge a quarter turn
// counterclockwise, replacing edge org-dest with apex-farapex. The edge must
// not be a subsegment and both adjoining triangles must exist.
func (m *Mesh) flip(flipedge *Otri) {
	rightvertex := flipedge.Org()
	leftvertex := flipedge.Dest()
	botvertex := flipedge.Apex()
	top := flipedge.Sym()
	farvertex := top.Apex()

	topleft := top.Lprev()
	toplcasing := topleft.Sym()
	topright := top.Lnext()
	toprcasing := topright.Sym()
	botleft := flipedge.Lnext()
	botlcasing := botleft.Sym()
	botright := flipedge.Lprev()
	botrcasing := botright.Sym()

	topleft.Bond(botlcasing)
	botleft.Bond(botrcasing)
	botright.Bond(toprcasing)
	topright.Bond(toplcasing)

	if m.checksegments {
		toplsubseg := topleft.SegPivot()
		botlsubseg := botleft.SegPivot()
		botrsubseg := botright.SegPivot()
		toprsubseg := topright.SegPivot()
		if toplsubseg.seg == m.dummysub {
			topright.SegDissolve(m.dummysub)
		} else {
			topright.SegBond(toplsubseg)
		}
		if botlsubseg.seg == m.dummysub {
			topleft.SegDissolve(m.dummysub)
		} else {
			topleft.SegBond(botlsubseg)
		}
		if botrsubseg.seg == m.dummysub {
			botleft.SegDissolve(m.dummysub)
		} else {
			botleft.SegBond(botrsubseg)
		}
		if toprsubseg.seg == m.dummysub {
			botright.SegDissolve(m.dummysub)
		} else {
			botright.SegBond(toprsubseg)
		}
	}

	flipedge.SetOrg(farvertex)
	flipedge.SetDest(botvertex)
	flipedge.SetApex(rightvertex)
	top.SetOrg(botvertex)
	top.SetDest(farvertex)
	top.SetApex(leftvertex)
}

// unflip exactly reverses a flip of the same edge.
func (m *Mesh) unflip(flipedge *Otri) {
	rightvertex := flipedge.Org()
	leftvertex := flipedge.Dest()
	botvertex := flipedge.Apex()
	top := flipedge.Sym()
	farvertex := top.Apex()

	topleft := top.Lprev()
	toplcasing := topleft.Sym()
	topright := top.Lnext()
	toprcasing := topright.Sym()
	botleft := flipedge.Lnext()
	botlcasing := botleft.Sym()
	botright := flipedge.Lprev()
	botrcasing := botright.Sym()

	topleft.Bond(toprcasing)
	botleft.Bond(toplcasing)
	botright.Bond(botlcasing)
	topright.Bond(botrcasing)

	if m.checksegments {
		toplsubseg := topleft.SegPivot()
		botlsubseg := botleft.SegPivot()
		botrsubseg := botright.SegPivot()
		toprsubseg := topright.SegPivot()
		if toplsubseg.seg == m.dummysub {
			botleft.SegDissolve(m.dummysub)
		} else {
			botleft.SegBond(toplsubseg)
		}
		if botlsubseg.seg == m.dummysub {
			botright.SegDissolve(m.dummysub)
		} else {
			botright.SegBond(botlsubseg)
		}
		if botrsubseg.seg == m.dummysub {
			topright.SegDissolve(m.dummysub)
		} else {
			topright.SegBond(botrsubseg)
		}
		if toprsubseg.seg == m.dummysub {
			topleft.SegDissolve(m.dummysub)
		} else {
			topleft.SegBond(toprsubseg)
		}
	}

	flipedge.SetOrg(botvertex)
	flipedge.SetDest(farvertex)
	flipedge.SetApex(leftvertex)
	top.SetOrg(farvertex)
	top.SetDest(botvertex)
	top.SetApex(rightvertex)
}

// insertVertex adds newvertex to the mesh and restores the Delaunay property
// by flipping edges outward from the insertion point. searchtri tells the
// search where to start (a dummy handle triggers a full locate) and returns a
// handle whose origin is the new vertex. A non-nil splitseg pins the insertion
// onto that subsegment, splitting it. With segmentflaws set, subsegments the
// new vertex encroaches upon are queued; with triflaws set, new triangles are
// tested for quality.
func (m *Mesh) insertVertex(newvertex *Vertex, searchtri *Otri, splitseg *Osub,
	segmentflaws, triflaws bool) insertVertexResult {

	var horiz Otri
	var intersect LocateResult
	if splitseg == nil {
		if searchtri.tri == m.dummytri {
			horiz = Otri{m.dummytri, 0}
			horiz.SymSelf()
			intersect = m.locate(newvertex.Point, &horiz)
		} else {
			horiz = *searchtri
			intersect = m.preciseLocate(newvertex.Point, &horiz, true)
		}
	} else {
		horiz = *searchtri
		intersect = OnEdge
	}

	if intersect == OnVertex {
		*searchtri = horiz
		m.recenttri = horiz
		return duplicateVertex
	}

	if intersect == OnEdge || intersect == Outside {
		if m.checksegments && splitseg == nil {
			brokensubseg := horiz.SegPivot()
			if brokensubseg.seg != m.dummysub {
				if segmentflaws {
					m.badsubsegs = append(m.badsubsegs, badSubseg{
						subseg: brokensubseg,
						org:    brokensubseg.Org(),
						dest:   brokensubseg.Dest(),
					})
				}
				*searchtri = horiz
				m.recenttri = horiz
				return violatingVertex
			}
		}

		// Split an edge: two triangles become four (or one becomes two on
		// the hull).
		botright := horiz.Lprev()
		botrcasing := botright.Sym()
		topright := horiz.Sym()
		mirrorflag := topright.tri != m.dummytri
		var newtopright Otri
		var toprcasing Otri
		if mirrorflag {
			topright.LnextSelf()
			toprcasing = topright.Sym()
			newtopright = m.makeTriangle()
		} else {
			m.hullsize++
		}
		newbotright := m.makeTriangle()

		rightvertex := horiz.Org()
		botvertex := horiz.Apex()
		newbotright.SetOrg(botvertex)
		newbotright.SetDest(rightvertex)
		newbotright.SetApex(newvertex)
		horiz.SetOrg(newvertex)
		newbotright.tri.region = horiz.tri.region
		if m.behavior.VarArea {
			newbotright.tri.area = horiz.tri.area
		}
		if mirrorflag {
			topvertex := topright.Dest()
			newtopright.SetOrg(rightvertex)
			newtopright.SetDest(topvertex)
			newtopright.SetApex(newvertex)
			topright.SetOrg(newvertex)
			newtopright.tri.region = topright.tri.region
			if m.behavior.VarArea {
				newtopright.tri.area = topright.tri.area
			}
		}

		if m.checksegments {
			botrsubseg := botright.SegPivot()
			if botrsubseg.seg != m.dummysub {
				botright.SegDissolve(m.dummysub)
				newbotright.SegBond(botrsubseg)
			}
			if mirrorflag {
				toprsubseg := topright.SegPivot()
				if toprsubseg.seg != m.dummysub {
					topright.SegDissolve(m.dummysub)
					newtopright.SegBond(toprsubseg)
				}
			}
		}

		newbotright.Bond(botrcasing)
		newbotright.LprevSelf()
		newbotright.Bond(botright)
		newbotright.LprevSelf()
		if mirrorflag {
			newtopright.Bond(toprcasing)
			newtopright.LnextSelf()
			newtopright.Bond(topright)
			newtopright.LnextSelf()
			newtopright.Bond(newbotright)
		}

		if splitseg != nil {
			// Split the subsegment too, keeping the original segment
			// endpoints on both halves.
			splitseg.SetDest(newvertex)
			segorg := splitseg.SegOrg()
			segdest := splitseg.SegDest()
			splitseg.SymSelf()
			rightsubseg := splitseg.Pivot()
			m.insertSubseg(newbotright, splitseg.Mark())
			newsubseg := newbotright.SegPivot()
			newsubseg.SetSegOrg(segorg)
			newsubseg.SetSegDest(segdest)
			splitseg.Bond(newsubseg)
			newsubseg.SymSelf()
			newsubseg.Bond(rightsubseg)
			splitseg.SymSelf()
			if newvertex.Boundary == 0 {
				newvertex.Boundary = splitseg.Mark()
			}
		}

		if m.checkquality {
			m.lastflip = &flipStacker{flippedtri: horiz, prevflip: splitSentinel}
		}

		// The insertion point is on the edge between horiz's origin and
		// destination; reposition so the point is opposite the primary edge.
		horiz.LnextSelf()
	} else {
		// Split a triangle: one becomes three.
		botleft := horiz.Lnext()
		botright := horiz.Lprev()
		botlcasing := botleft.Sym()
		botrcasing := botright.Sym()
		newbotleft := m.makeTriangle()
		newbotright := m.makeTriangle()

		rightvertex := horiz.Org()
		leftvertex := horiz.Dest()
		botvertex := horiz.Apex()
		newbotleft.SetOrg(leftvertex)
		newbotleft.SetDest(botvertex)
		newbotleft.SetApex(newvertex)
		newbotright.SetOrg(botvertex)
		newbotright.SetDest(rightvertex)
		newbotright.SetApex(newvertex)
		horiz.SetApex(newvertex)
		newbotleft.tri.region = horiz.tri.region
		newbotright.tri.region = horiz.tri.region
		if m.behavior.VarArea {
			newbotleft.tri.area = horiz.tri.area
			newbotright.tri.area = horiz.tri.area
		}

		if m.checksegments {
			botlsubseg := botleft.SegPivot()
			if botlsubseg.seg != m.dummysub {
				botleft.SegDissolve(m.dummysub)
				newbotleft.SegBond(botlsubseg)
			}
			botrsubseg := botright.SegPivot()
			if botrsubseg.seg != m.dummysub {
				botright.SegDissolve(m.dummysub)
				newbotright.SegBond(botrsubseg)
			}
		}

		newbotleft.Bond(botlcasing)
		newbotright.Bond(botrcasing)
		newbotleft.LnextSelf()
		newbotright.LprevSelf()
		newbotleft.Bond(newbotright)
		newbotleft.LnextSelf()
		botleft.Bond(newbotleft)
		newbotright.LprevSelf()
		botright.Bond(newbotright)

		if m.checkquality {
			m.lastflip = &flipStacker{flippedtri: horiz}
		}
	}

	// Walk counterclockwise around the new vertex, flipping every edge
	// opposite it that fails the incircle test. Each flip exposes two new
	// suspect edges.
	success := successfulVertex
	first := horiz.Org()
	rightvertex := first
	leftvertex := horiz.Dest()
	for {
		doflip := true

		if m.checksegments {
			checksubseg := horiz.SegPivot()
			if checksubseg.seg != m.dummysub {
				doflip = false
				if segmentflaws {
					if m.checkSeg4Encroach(&checksubseg) > 0 {
						success = encroachingVertex
					}
				}
			}
		}

		if doflip {
			top := horiz.Sym()
			if top.tri == m.dummytri {
				doflip = false
			} else {
				farvertex := top.Apex()
				// The bounding box vertices of the incremental algorithm act
				// as if infinitely distant.
				if leftvertex == m.infvertex1 || leftvertex == m.infvertex2 ||
					leftvertex == m.infvertex3 {
					doflip = m.pred.CounterClockwise(newvertex.Point, rightvertex.Point, farvertex.Point) > 0.0
				} else if rightvertex == m.infvertex1 || rightvertex == m.infvertex2 ||
					rightvertex == m.infvertex3 {
					doflip = m.pred.CounterClockwise(farvertex.Point, leftvertex.Point, newvertex.Point) > 0.0
				} else if farvertex == m.infvertex1 || farvertex == m.infvertex2 ||
					farvertex == m.infvertex3 {
					doflip = false
				} else {
					doflip = m.pred.InCircle(leftvertex.Point, newvertex.Point,
						rightvertex.Point, farvertex.Point) > 0.0
				}
				if doflip {
					topleft := top.Lprev()
					toplcasing := topleft.Sym()
					topright := top.Lnext()
					toprcasing := topright.Sym()
					botleft := horiz.Lnext()
					botlcasing := botleft.Sym()
					botright := horiz.Lprev()
					botrcasing := botright.Sym()

					topleft.Bond(botlcasing)
					botleft.Bond(botrcasing)
					botright.Bond(toprcasing)
					topright.Bond(toplcasing)

					if m.checksegments {
						toplsubseg := topleft.SegPivot()
						botlsubseg := botleft.SegPivot()
						botrsubseg := botright.SegPivot()
						toprsubseg := topright.SegPivot()
						if toplsubseg.seg == m.dummysub {
							topright.SegDissolve(m.dummysub)
						} else {
							topright.SegBond(toplsubseg)
						}
						if botlsubseg.seg == m.dummysub {
							topleft.SegDissolve(m.dummysub)
						} else {
							topleft.SegBond(botlsubseg)
						}
						if botrsubseg.seg == m.dummysub {
							botleft.SegDissolve(m.dummysub)
						} else {
							botleft.SegBond(botrsubseg)
						}
						if toprsubseg.seg == m.dummysub {
							botright.SegDissolve(m.dummysub)
						} else {
							botright.SegBond(toprsubseg)
						}
					}

					horiz.SetOrg(farvertex)
					horiz.SetDest(newvertex)
					horiz.SetApex(rightvertex)
					top.SetOrg(newvertex)
					top.SetDest(farvertex)
					top.SetApex(leftvertex)

					if m.checkquality {
						m.lastflip = &flipStacker{flippedtri: horiz, prevflip: m.lastflip}
					}

					// The two edges exposed by the flip are visited on the
					// next iterations.
					horiz.LprevSelf()
					leftvertex = farvertex
				}
			}
		}

		if !doflip {
			if triflaws {
				m.testTriangle(&horiz)
			}
			horiz.LnextSelf()
			testtri := horiz.Sym()
			// A full revolution, or falling off the hull, finishes the walk.
			if leftvertex == first || testtri.tri == m.dummytri {
				*searchtri = horiz.Lnext()
				m.recenttri = horiz.Lnext()
				return success
			}
			horiz = testtri.Lnext()
			rightvertex = leftvertex
			leftvertex = horiz.Dest()
		}
	}
}

// undoVertex reverses the most recent insertVertex by unwinding the flip
// stack. Only valid while checkquality is set and before any other mutation.
func (m *Mesh) undoVertex() {
	for m.lastflip != nil {
		fliptri := m.lastflip.flippedtri

		switch {
		case m.lastflip.prevflip == nil:
			// Undo a trisection: merge the three triangles back into one.
			botleft := fliptri.Dprev()
			botleft.LnextSelf()
			botright := fliptri.Onext()
			botright.LprevSelf()
			botlcasing := botleft.Sym()
			botrcasing := botright.Sym()
			botvertex := botleft.Dest()

			fliptri.SetApex(botvertex)
			fliptri.LnextSelf()
			fliptri.Bond(botlcasing)
			fliptri.SegBond(botleft.SegPivot())
			fliptri.LnextSelf()
			fliptri.Bond(botrcasing)
			fliptri.SegBond(botright.SegPivot())

			m.triangleDealloc(botleft.tri)
			m.triangleDealloc(botright.tri)

		case m.lastflip.prevflip == splitSentinel:
			// Undo an edge split: merge two edges and delete the extra
			// triangles on both sides.
			gluetri := fliptri.Lprev()
			botright := gluetri.Sym().Lnext()
			botrcasing := botright.Sym()
			rightvertex := botright.Dest()

			fliptri.SetOrg(rightvertex)
			gluetri.Bond(botrcasing)
			gluetri.SegBond(botright.SegPivot())

			m.triangleDealloc(botright.tri)

			gluetri = fliptri.Sym()
			if gluetri.tri != m.dummytri {
				gluetri.LnextSelf()
				topright := gluetri.Dnext()
				toprcasing := topright.Sym()

				gluetri.SetOrg(rightvertex)
				gluetri.Bond(toprcasing)
				gluetri.SegBond(topright.SegPivot())

				m.triangleDealloc(topright.tri)
			}

			m.lastflip.prevflip = nil

		default:
			m.unflip(&fliptri)
		}

		m.lastflip = m.lastflip.prevflip
	}
}

// triangulatePolygon fills the fan between firstedge and lastedge (a strictly
// convex-to-the-apex polygon left by a vertex deletion or segment insertion)
// with Delaunay triangles, by recursing on the best connecting vertex. With
// doflip set the final edge is committed with a flip; triflaws queues poor
// new triangles.
func (m *Mesh) triangulatePolygon(firstedge, lastedge *Otri, edgecount int,
	doflip, triflaws bool) {

	leftbasevertex := lastedge.Apex()
	rightbasevertex := firstedge.Dest()

	besttri := firstedge.Onext()
	bestvertex := besttri.Dest()
	testtri := besttri
	bestnumber := 1
	for i := 2; i <= edgecount-2; i++ {
		testtri.OnextSelf()
		testvertex := testtri.Dest()
		if m.pred.InCircle(leftbasevertex.Point, rightbasevertex.Point,
			bestvertex.Point, testvertex.Point) > 0.0 {
			besttri = testtri
			bestvertex = testvertex
			bestnumber = i
		}
	}

	if bestnumber > 1 {
		tempedge := besttri.Oprev()
		m.triangulatePolygon(firstedge, &tempedge, bestnumber+1, true, triflaws)
	}
	if bestnumber < edgecount-2 {
		tempedge := besttri.Sym()
		m.triangulatePolygon(&besttri, lastedge, edgecount-bestnumber, true, triflaws)
		// The recursion may have flipped besttri away; find it again.
		besttri = tempedge.Sym()
	}
	if doflip {
		m.flip(&besttri)
		if triflaws {
			testtri := besttri.Sym()
			m.testTriangle(&testtri)
		}
	}
	*lastedge = besttri
}

// deleteVertex removes the origin of deltri from the mesh and retriangulates
// the cavity. The vertex must be interior with no incident subsegments.
func (m *Mesh) deleteVertex(deltri *Otri) {
	delvertex := deltri.Org()

	countingtri := deltri.Onext()
	edgecount := 1
	for !deltri.Equal(countingtri) {
		edgecount++
		countingtri.OnextSelf()
	}

	if edgecount > 3 {
		firstedge := deltri.Onext()
		lastedge := deltri.Oprev()
		m.triangulatePolygon(&firstedge, &lastedge, edgecount, false, m.behavior.Quality)
	}

	// Splice out the last two triangles incident on the vertex.
	deltriright := deltri.Lprev()
	lefttri := deltri.Dnext()
	leftcasing := lefttri.Sym()
	righttri := deltriright.Oprev()
	rightcasing := righttri.Sym()
	deltri.Bond(leftcasing)
	deltriright.Bond(rightcasing)
	leftsubseg := lefttri.SegPivot()
	if leftsubseg.seg != m.dummysub {
		deltri.SegBond(leftsubseg)
	}
	rightsubseg := righttri.SegPivot()
	if rightsubseg.seg != m.dummysub {
		deltriright.SegBond(rightsubseg)
	}

	neworg := lefttri.Org()
	deltri.SetOrg(neworg)
	if m.behavior.Quality {
		m.testTriangle(deltri)
	}

	m.triangleDealloc(lefttri.tri)
	m.triangleDealloc(righttri.tri)
	m.vertexDealloc(delvertex)
}
