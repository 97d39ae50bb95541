package mesh

import (
	"sort"

	"go.uber.org/zap"
)

// This file builds the initial Delaunay triangulation by divide and conquer
// with alternating cuts. Each half-triangulation is wrapped in a layer of
// ghost triangles (nil apex) so the merge can walk the hulls without special
// cases; removeGhosts peels them off at the end.

func axisCoord(v *Vertex, axis int) float64 {
	if axis == 0 {
		return v.X
	}
	return v.Y
}

// vertexMedian permutes sortarray so the element at position median splits
// the array by the given axis, using randomized quickselect.
func (m *Mesh) vertexMedian(sortarray []*Vertex, median, axis int) {
	arraysize := len(sortarray)
	if arraysize == 2 {
		if axisCoord(sortarray[0], axis) > axisCoord(sortarray[1], axis) ||
			(axisCoord(sortarray[0], axis) == axisCoord(sortarray[1], axis) &&
				axisCoord(sortarray[0], 1-axis) > axisCoord(sortarray[1], 1-axis)) {
			sortarray[0], sortarray[1] = sortarray[1], sortarray[0]
		}
		return
	}
	pivot := int(m.randomnation(uint(arraysize)))
	pivot1 := axisCoord(sortarray[pivot], axis)
	pivot2 := axisCoord(sortarray[pivot], 1-axis)
	left := -1
	right := arraysize
	for left < right {
		for {
			left++
			if !(left <= right && (axisCoord(sortarray[left], axis) < pivot1 ||
				(axisCoord(sortarray[left], axis) == pivot1 &&
					axisCoord(sortarray[left], 1-axis) < pivot2))) {
				break
			}
		}
		for {
			right--
			if !(left <= right && (axisCoord(sortarray[right], axis) > pivot1 ||
				(axisCoord(sortarray[right], axis) == pivot1 &&
					axisCoord(sortarray[right], 1-axis) > pivot2))) {
				break
			}
		}
		if left < right {
			sortarray[left], sortarray[right] = sortarray[right], sortarray[left]
		}
	}
	if left > median {
		m.vertexMedian(sortarray[:left], median, axis)
	}
	if right < median-1 {
		m.vertexMedian(sortarray[right+1:], median-right-1, axis)
	}
}

// alternateAxes recursively sorts the vertices for alternating vertical and
// horizontal cuts. Subsets of two or three are sorted by x, as the base cases
// expect.
func (m *Mesh) alternateAxes(sortarray []*Vertex, axis int) {
	arraysize := len(sortarray)
	divider := arraysize >> 1
	if arraysize <= 3 {
		axis = 0
	}
	m.vertexMedian(sortarray, divider, axis)
	if arraysize-divider >= 2 {
		if divider >= 2 {
			m.alternateAxes(sortarray[:divider], 1-axis)
		}
		m.alternateAxes(sortarray[divider:], 1-axis)
	}
}

// divconqRecurse triangulates a sorted slice, returning the leftmost and
// rightmost ghost edges of the resulting hull.
func (m *Mesh) divconqRecurse(sortarray []*Vertex, axis int, farleft, farright *Otri) {
	vertices := len(sortarray)
	if vertices == 2 {
		// An edge, bounded by two ghost triangles.
		*farleft = m.makeTriangle()
		farleft.SetOrg(sortarray[0])
		farleft.SetDest(sortarray[1])
		*farright = m.makeTriangle()
		farright.SetOrg(sortarray[1])
		farright.SetDest(sortarray[0])
		farleft.Bond(*farright)
		farleft.LprevSelf()
		farright.LnextSelf()
		farleft.Bond(*farright)
		farleft.LprevSelf()
		farright.LnextSelf()
		farleft.Bond(*farright)
		*farleft = farright.Lprev()
		return
	}
	if vertices == 3 {
		midtri := m.makeTriangle()
		tri1 := m.makeTriangle()
		tri2 := m.makeTriangle()
		tri3 := m.makeTriangle()
		area := m.pred.CounterClockwise(sortarray[0].Point, sortarray[1].Point, sortarray[2].Point)
		if area == 0.0 {
			// Three collinear vertices form two edges.
			midtri.SetOrg(sortarray[0])
			midtri.SetDest(sortarray[1])
			tri1.SetOrg(sortarray[1])
			tri1.SetDest(sortarray[0])
			tri2.SetOrg(sortarray[2])
			tri2.SetDest(sortarray[1])
			tri3.SetOrg(sortarray[1])
			tri3.SetDest(sortarray[2])
			midtri.Bond(tri1)
			tri2.Bond(tri3)
			midtri.LnextSelf()
			tri1.LprevSelf()
			tri2.LnextSelf()
			tri3.LprevSelf()
			midtri.Bond(tri3)
			tri1.Bond(tri2)
			midtri.LnextSelf()
			tri1.LprevSelf()
			tri2.LnextSelf()
			tri3.LprevSelf()
			midtri.Bond(tri1)
			tri2.Bond(tri3)
			*farleft = tri1.Lprev()
			*farright = tri2.Lnext()
			return
		}
		// One real triangle wrapped in three ghosts.
		midtri.SetOrg(sortarray[0])
		tri1.SetDest(sortarray[0])
		tri3.SetOrg(sortarray[0])
		if area > 0.0 {
			midtri.SetDest(sortarray[1])
			tri1.SetOrg(sortarray[1])
			tri2.SetDest(sortarray[1])
			midtri.SetApex(sortarray[2])
			tri2.SetOrg(sortarray[2])
			tri3.SetDest(sortarray[2])
		} else {
			midtri.SetDest(sortarray[2])
			tri1.SetOrg(sortarray[2])
			tri2.SetDest(sortarray[2])
			midtri.SetApex(sortarray[1])
			tri2.SetOrg(sortarray[1])
			tri3.SetDest(sortarray[1])
		}
		midtri.Bond(tri1)
		midtri.LnextSelf()
		midtri.Bond(tri2)
		midtri.LnextSelf()
		midtri.Bond(tri3)
		tri1.LprevSelf()
		tri2.LnextSelf()
		tri1.Bond(tri2)
		tri1.LprevSelf()
		tri3.LprevSelf()
		tri1.Bond(tri3)
		tri2.LnextSelf()
		tri3.LprevSelf()
		tri2.Bond(tri3)
		*farleft = tri1
		if area > 0.0 {
			*farright = tri2
		} else {
			*farright = farleft.Lnext()
		}
		return
	}

	divider := vertices >> 1
	var innerleft, innerright Otri
	m.divconqRecurse(sortarray[:divider], 1-axis, farleft, &innerleft)
	m.divconqRecurse(sortarray[divider:], 1-axis, &innerright, farright)
	m.mergeHulls(farleft, &innerleft, &innerright, farright, axis)
}

// mergeHulls knits two adjacent triangulations along the gap between them,
// like closing a zipper from the bottom tangent upward.
func (m *Mesh) mergeHulls(farleft, innerleft, innerright, farright *Otri, axis int) {
	innerleftdest := innerleft.Dest()
	innerleftapex := innerleft.Apex()
	innerrightorg := innerright.Org()
	innerrightapex := innerright.Apex()

	// For horizontal cuts the extremal handles track topmost and bottommost
	// vertices rather than leftmost and rightmost.
	if axis == 1 {
		farleftpt := farleft.Org()
		farleftapex := farleft.Apex()
		for farleftapex.Y < farleftpt.Y {
			farleft.LnextSelf()
			farleft.SymSelf()
			farleftpt = farleftapex
			farleftapex = farleft.Apex()
		}
		checkedge := innerleft.Sym()
		checkvertex := checkedge.Apex()
		for checkvertex.Y > innerleftdest.Y {
			*innerleft = checkedge.Lnext()
			innerleftapex = innerleftdest
			innerleftdest = checkvertex
			checkedge = innerleft.Sym()
			checkvertex = checkedge.Apex()
		}
		for innerrightapex.Y < innerrightorg.Y {
			innerright.LnextSelf()
			innerright.SymSelf()
			innerrightorg = innerrightapex
			innerrightapex = innerright.Apex()
		}
		farrightpt := farright.Dest()
		checkedge = farright.Sym()
		checkvertex = checkedge.Apex()
		for checkvertex.Y > farrightpt.Y {
			*farright = checkedge.Lprev()
			farrightpt = checkvertex
			checkedge = farright.Sym()
			checkvertex = checkedge.Apex()
		}
	}

	// Slide both inner handles down to the common lower tangent.
	for changemade := true; changemade; {
		changemade = false
		if m.pred.CounterClockwise(innerleftdest.Point, innerleftapex.Point, innerrightorg.Point) > 0.0 {
			innerleft.LprevSelf()
			innerleft.SymSelf()
			innerleftdest = innerleftapex
			innerleftapex = innerleft.Apex()
			changemade = true
		}
		if m.pred.CounterClockwise(innerrightapex.Point, innerrightorg.Point, innerleftdest.Point) > 0.0 {
			innerright.LnextSelf()
			innerright.SymSelf()
			innerrightorg = innerrightapex
			innerrightapex = innerright.Apex()
			changemade = true
		}
	}

	leftcand := innerleft.Sym()
	rightcand := innerright.Sym()
	baseedge := m.makeTriangle()
	baseedge.Bond(*innerleft)
	baseedge.LnextSelf()
	baseedge.Bond(*innerright)
	baseedge.LnextSelf()
	baseedge.SetOrg(innerrightorg)
	baseedge.SetDest(innerleftdest)

	if innerleftdest == farleft.Org() {
		*farleft = baseedge.Lnext()
	}
	if innerrightorg == farright.Dest() {
		*farright = baseedge.Lprev()
	}

	lowerleft := innerleftdest
	lowerright := innerrightorg
	upperleft := leftcand.Apex()
	upperright := rightcand.Apex()
	for {
		leftfinished := m.pred.CounterClockwise(upperleft.Point, lowerleft.Point, lowerright.Point) <= 0.0
		rightfinished := m.pred.CounterClockwise(upperright.Point, lowerleft.Point, lowerright.Point) <= 0.0
		if leftfinished && rightfinished {
			// Close off the top with the final ghost triangle.
			nextedge := m.makeTriangle()
			nextedge.SetOrg(lowerleft)
			nextedge.SetDest(lowerright)
			nextedge.Bond(baseedge)
			nextedge.LnextSelf()
			nextedge.Bond(rightcand)
			nextedge.LnextSelf()
			nextedge.Bond(leftcand)

			if axis == 1 {
				// Restore the extremal handles to leftmost and rightmost.
				farleftpt := farleft.Org()
				checkedge := farleft.Sym()
				checkvertex := checkedge.Apex()
				for checkvertex.X < farleftpt.X {
					*farleft = checkedge.Lprev()
					farleftpt = checkvertex
					checkedge = farleft.Sym()
					checkvertex = checkedge.Apex()
				}
				farrightpt := farright.Dest()
				farrightapex := farright.Apex()
				for farrightapex.X > farrightpt.X {
					farright.LprevSelf()
					farright.SymSelf()
					farrightpt = farrightapex
					farrightapex = farright.Apex()
				}
			}
			return
		}

		// Burn non-Delaunay edges off the left hull before knitting.
		if !leftfinished {
			nextedge := leftcand.Lprev().Sym()
			nextapex := nextedge.Apex()
			if nextapex != nil {
				badedge := m.pred.InCircle(lowerleft.Point, lowerright.Point, upperleft.Point, nextapex.Point) > 0.0
				for badedge {
					nextedge.LnextSelf()
					topcasing := nextedge.Sym()
					nextedge.LnextSelf()
					sidecasing := nextedge.Sym()
					nextedge.Bond(topcasing)
					leftcand.Bond(sidecasing)
					leftcand.LnextSelf()
					outcasing := leftcand.Sym()
					nextedge.LprevSelf()
					nextedge.Bond(outcasing)

					leftcand.SetOrg(lowerleft)
					leftcand.SetDest(nil)
					leftcand.SetApex(nextapex)
					nextedge.SetOrg(nil)
					nextedge.SetDest(upperleft)
					nextedge.SetApex(nextapex)

					upperleft = nextapex
					nextedge = sidecasing
					nextapex = nextedge.Apex()
					if nextapex != nil {
						badedge = m.pred.InCircle(lowerleft.Point, lowerright.Point, upperleft.Point, nextapex.Point) > 0.0
					} else {
						badedge = false
					}
				}
			}
		}
		// Same for the right hull.
		if !rightfinished {
			nextedge := rightcand.Lnext().Sym()
			nextapex := nextedge.Apex()
			if nextapex != nil {
				badedge := m.pred.InCircle(lowerleft.Point, lowerright.Point, upperright.Point, nextapex.Point) > 0.0
				for badedge {
					nextedge.LprevSelf()
					topcasing := nextedge.Sym()
					nextedge.LprevSelf()
					sidecasing := nextedge.Sym()
					nextedge.Bond(topcasing)
					rightcand.Bond(sidecasing)
					rightcand.LprevSelf()
					outcasing := rightcand.Sym()
					nextedge.LnextSelf()
					nextedge.Bond(outcasing)

					rightcand.SetOrg(nil)
					rightcand.SetDest(lowerright)
					rightcand.SetApex(nextapex)
					nextedge.SetOrg(upperright)
					nextedge.SetDest(nil)
					nextedge.SetApex(nextapex)

					upperright = nextapex
					nextedge = sidecasing
					nextapex = nextedge.Apex()
					if nextapex != nil {
						badedge = m.pred.InCircle(lowerleft.Point, lowerright.Point, upperright.Point, nextapex.Point) > 0.0
					} else {
						badedge = false
					}
				}
			}
		}

		if leftfinished || (!rightfinished &&
			m.pred.InCircle(upperleft.Point, lowerleft.Point, lowerright.Point, upperright.Point) > 0.0) {
			// Add the edge lowerright-upperright.
			baseedge.Bond(rightcand)
			baseedge = rightcand.Lprev()
			baseedge.SetDest(lowerleft)
			lowerright = upperright
			rightcand = baseedge.Sym()
			upperright = rightcand.Apex()
		} else {
			// Add the edge upperleft-lowerleft.
			baseedge.Bond(leftcand)
			baseedge = leftcand.Lnext()
			baseedge.SetOrg(lowerright)
			lowerleft = upperleft
			leftcand = baseedge.Sym()
			upperleft = leftcand.Apex()
		}
	}
}

// removeGhosts deletes the layer of ghost triangles around the hull and
// returns the number of hull edges.
func (m *Mesh) removeGhosts(startghost *Otri) int {
	// Leave the dummy triangle pointing at a real hull triangle for point
	// location.
	searchedge := startghost.Lprev()
	searchedge.SymSelf()
	m.dummytri.neighbors[0] = searchedge

	dissolveedge := *startghost
	hullsize := 0
	for {
		hullsize++
		deadtriangle := dissolveedge.Lnext()
		dissolveedge.LprevSelf()
		dissolveedge.SymSelf()
		// Without a PSLG every hull vertex gets boundary marker 1 here.
		if !m.poly && dissolveedge.tri != m.dummytri {
			if markorg := dissolveedge.Org(); markorg.Boundary == 0 {
				markorg.Boundary = 1
			}
		}
		dissolveedge.Dissolve(m.dummytri)
		dissolveedge = deadtriangle.Sym()
		m.triangleDealloc(deadtriangle.tri)
		if dissolveedge.Equal(*startghost) {
			return hullsize
		}
	}
}

// dwyerDelaunay triangulates the vertices by divide and conquer and returns
// the hull size.
func (m *Mesh) dwyerDelaunay() int {
	sortarray := make([]*Vertex, 0, len(m.vertices))
	for _, h := range sortedKeys(m.vertices) {
		sortarray = append(sortarray, m.vertices[h])
	}
	sort.Slice(sortarray, func(i, j int) bool {
		a, b := sortarray[i], sortarray[j]
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})

	// Duplicates would break the merge; mark them undead and drop them.
	i := 0
	for j := 1; j < len(sortarray); j++ {
		if sortarray[i].X == sortarray[j].X && sortarray[i].Y == sortarray[j].Y {
			m.log.Warn("duplicate vertex ignored",
				zap.Float64("x", sortarray[j].X), zap.Float64("y", sortarray[j].Y))
			sortarray[j].Type = UndeadVertex
			m.undeads++
		} else {
			i++
			sortarray[i] = sortarray[j]
		}
	}
	sortarray = sortarray[:i+1]

	if len(sortarray) < 2 {
		return 0
	}

	divider := len(sortarray) >> 1
	if len(sortarray)-divider >= 2 {
		if divider >= 2 {
			m.alternateAxes(sortarray[:divider], 1)
		}
		m.alternateAxes(sortarray[divider:], 1)
	}

	var hullleft, hullright Otri
	m.divconqRecurse(sortarray, 0, &hullleft, &hullright)
	return m.removeGhosts(&hullleft)
}
