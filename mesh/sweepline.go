package mesh

import (
	"container/heap"
	"math"

	"github.com/sponticelli/trimesh/geometry"
	"go.uber.org/zap"
)

// Fortune's sweep line algorithm, adapted to produce a triangulation
// directly. The front (the lower hull of the growing triangulation, seen as a
// sequence of hyperbola arcs) is tracked two ways at once: exactly, as the
// chain of ghost triangles bounding the bottom of the mesh, and
// approximately, by a splay tree holding a random sample of front edges that
// makes locating a new site cheap on average.

const sweepSampleRate = 10

// sweepEvent is a site event (vtx set) or a circle event (tri set). Circle
// events key below the input's x range so the two kinds cannot collide, and
// carry a marker vertex that is parked in the ghost triangle's free corner so
// the event can be cancelled when a flip invalidates it.
type sweepEvent struct {
	xkey, ykey float64

	vtx *Vertex
	tri Otri

	heappos int
	marker  Vertex
}

// eventHeap orders events bottom to top, ties left to right.
type eventHeap []*sweepEvent

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].ykey != h[j].ykey {
		return h[i].ykey < h[j].ykey
	}
	return h[i].xkey < h[j].xkey
}
func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heappos = i
	h[j].heappos = j
}
func (h *eventHeap) Push(x interface{}) {
	ev := x.(*sweepEvent)
	ev.heappos = len(*h)
	*h = append(*h, ev)
}
func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return ev
}

// check4DeadEvent cancels the circle event parked on checktri, if any.
func (m *Mesh) check4DeadEvent(checktri *Otri, h *eventHeap) {
	if marker := checktri.Org(); marker != nil && marker.evt != nil {
		heap.Remove(h, marker.evt.heappos)
		checktri.SetOrg(nil)
	}
}

// rightOfHyperbola decides whether newsite is to the right of the hyperbola
// arc contributed to the front by fronttri's destination-apex pair.
func (m *Mesh) rightOfHyperbola(fronttri *Otri, newsite geometry.Point) bool {
	leftvertex := fronttri.Dest()
	rightvertex := fronttri.Apex()
	if leftvertex.Y < rightvertex.Y ||
		(leftvertex.Y == rightvertex.Y && leftvertex.X < rightvertex.X) {
		if newsite.X >= rightvertex.X {
			return true
		}
	} else if newsite.X <= leftvertex.X {
		return false
	}
	dxa := leftvertex.X - newsite.X
	dya := leftvertex.Y - newsite.Y
	dxb := rightvertex.X - newsite.X
	dyb := rightvertex.Y - newsite.Y
	return dya*(dxb*dxb+dyb*dyb) > dyb*(dxa*dxa+dya*dya)
}

// circleTop returns the y coordinate of the top of the circle through the
// three vertices; ccwabc is their (positive) orientation determinant.
func circleTop(pa, pb, pc *Vertex, ccwabc float64) float64 {
	xac := pa.X - pc.X
	yac := pa.Y - pc.Y
	xbc := pb.X - pc.X
	ybc := pb.Y - pc.Y
	xab := pa.X - pb.X
	yab := pa.Y - pb.Y
	aclen2 := xac*xac + yac*yac
	bclen2 := xbc*xbc + ybc*ybc
	ablen2 := xab*xab + yab*yab
	return pc.Y + (xac*bclen2-xbc*aclen2+math.Sqrt(aclen2*bclen2*ablen2))/(2.0*ccwabc)
}

// splayNode caches one front edge. A node whose key edge no longer has its
// recorded destination is stale and is purged lazily during splays.
type splayNode struct {
	keyedge        Otri
	keydest        *Vertex
	lchild, rchild *splayNode
}

// splay searches the tree for the arc left of searchpoint, rotating the
// accessed path toward the root and discarding stale nodes on the way. The
// rightmost visited live edge is left in searchtri.
func (m *Mesh) splay(tree *splayNode, searchpoint geometry.Point, searchtri *Otri) *splayNode {
	if tree == nil {
		return nil
	}
	if tree.keyedge.Dest() == tree.keydest {
		rightofroot := m.rightOfHyperbola(&tree.keyedge, searchpoint)
		var child *splayNode
		if rightofroot {
			*searchtri = tree.keyedge
			child = tree.rchild
		} else {
			child = tree.lchild
		}
		if child == nil {
			return tree
		}
		if child.keyedge.Dest() != child.keydest {
			child = m.splay(child, searchpoint, searchtri)
			if child == nil {
				if rightofroot {
					tree.rchild = nil
				} else {
					tree.lchild = nil
				}
				return tree
			}
		}
		rightofchild := m.rightOfHyperbola(&child.keyedge, searchpoint)
		var grandchild *splayNode
		if rightofchild {
			*searchtri = child.keyedge
			grandchild = m.splay(child.rchild, searchpoint, searchtri)
			child.rchild = grandchild
		} else {
			grandchild = m.splay(child.lchild, searchpoint, searchtri)
			child.lchild = grandchild
		}
		if grandchild == nil {
			if rightofroot {
				tree.rchild = child.lchild
				child.lchild = tree
			} else {
				tree.lchild = child.rchild
				child.rchild = tree
			}
			return child
		}
		if rightofchild {
			if rightofroot {
				tree.rchild = child.lchild
				child.lchild = tree
			} else {
				tree.lchild = grandchild.rchild
				grandchild.rchild = tree
			}
			child.rchild = grandchild.lchild
			grandchild.lchild = child
		} else {
			if rightofroot {
				tree.rchild = grandchild.lchild
				grandchild.lchild = tree
			} else {
				tree.lchild = child.rchild
				child.rchild = tree
			}
			child.lchild = grandchild.rchild
			grandchild.rchild = child
		}
		return grandchild
	}

	// Stale root; splice its subtrees together.
	lefttree := m.splay(tree.lchild, searchpoint, searchtri)
	righttree := m.splay(tree.rchild, searchpoint, searchtri)
	switch {
	case lefttree == nil:
		return righttree
	case righttree == nil:
		return lefttree
	case lefttree.rchild == nil:
		lefttree.rchild = righttree.lchild
		righttree.lchild = lefttree
		return righttree
	case righttree.lchild == nil:
		righttree.lchild = lefttree.rchild
		lefttree.rchild = righttree
		return lefttree
	default:
		leftright := lefttree.rchild
		for leftright.rchild != nil {
			leftright = leftright.rchild
		}
		leftright.rchild = righttree
		return lefttree
	}
}

func (m *Mesh) splayInsert(root *splayNode, newkey Otri, searchpoint geometry.Point) *splayNode {
	node := &splayNode{keyedge: newkey, keydest: newkey.Dest()}
	switch {
	case root == nil:
	case m.rightOfHyperbola(&root.keyedge, searchpoint):
		node.lchild = root
		node.rchild = root.rchild
		root.rchild = nil
	default:
		node.lchild = root.lchild
		node.rchild = root
		root.lchild = nil
	}
	return node
}

// circleTopInsert inserts a front edge keyed by the top of the circle through
// three vertices.
func (m *Mesh) circleTopInsert(root *splayNode, newkey Otri, pa, pb, pc *Vertex, topy float64) *splayNode {
	ccwabc := m.pred.CounterClockwise(pa.Point, pb.Point, pc.Point)
	xac := pa.X - pc.X
	yac := pa.Y - pc.Y
	xbc := pb.X - pc.X
	ybc := pb.Y - pc.Y
	aclen2 := xac*xac + yac*yac
	bclen2 := xbc*xbc + ybc*ybc
	searchpoint := geometry.Point{
		X: pc.X - (yac*bclen2-ybc*aclen2)/(2.0*ccwabc),
		Y: topy,
	}
	var discard Otri
	return m.splayInsert(m.splay(root, searchpoint, &discard), newkey, searchpoint)
}

// frontLocate finds the front edge below searchvertex: a splay gets close,
// then the exact ghost chain walks the rest of the way. farright reports
// wrapping all the way around to the bottommost edge.
func (m *Mesh) frontLocate(root *splayNode, bottommost *Otri, searchvertex *Vertex,
	searchtri *Otri, farright *bool) *splayNode {

	*searchtri = *bottommost
	root = m.splay(root, searchvertex.Point, searchtri)

	farrightflag := false
	for !farrightflag && m.rightOfHyperbola(searchtri, searchvertex.Point) {
		searchtri.OnextSelf()
		farrightflag = searchtri.Equal(*bottommost)
	}
	*farright = farrightflag
	return root
}

// sweepLineDelaunay triangulates the vertices bottom-up with a sweep line and
// returns the hull size.
func (m *Mesh) sweepLineDelaunay() int {
	h := make(eventHeap, 0, len(m.vertices))
	for _, hash := range sortedKeys(m.vertices) {
		v := m.vertices[hash]
		h = append(h, &sweepEvent{xkey: v.X, ykey: v.Y, vtx: v})
	}
	for i := range h {
		h[i].heappos = i
	}
	heap.Init(&h)

	lo := m.bounds.Lo()
	hi := m.bounds.Hi()
	// Circle events key strictly left of every site's x coordinate.
	xminextreme := 10.0*lo.X - 9.0*hi.X

	lefttri := m.makeTriangle()
	righttri := m.makeTriangle()
	lefttri.Bond(righttri)
	lefttri.LnextSelf()
	righttri.LprevSelf()
	lefttri.Bond(righttri)
	lefttri.LnextSelf()
	righttri.LprevSelf()
	lefttri.Bond(righttri)

	firstvertex := heap.Pop(&h).(*sweepEvent).vtx
	var secondvertex *Vertex
	for {
		if h.Len() == 0 {
			fatal(ErrDegenerateInput, "input vertices are all identical")
		}
		secondvertex = heap.Pop(&h).(*sweepEvent).vtx
		if firstvertex.X == secondvertex.X && firstvertex.Y == secondvertex.Y {
			m.log.Warn("duplicate vertex ignored",
				zap.Float64("x", secondvertex.X), zap.Float64("y", secondvertex.Y))
			secondvertex.Type = UndeadVertex
			m.undeads++
			continue
		}
		break
	}
	lefttri.SetOrg(firstvertex)
	lefttri.SetDest(secondvertex)
	righttri.SetOrg(secondvertex)
	righttri.SetDest(firstvertex)
	bottommost := lefttri.Lprev()
	lastvertex := secondvertex

	var splayroot *splayNode
	var farlefttri, farrighttri Otri

	for h.Len() > 0 {
		nextevent := heap.Pop(&h).(*sweepEvent)
		check4events := true

		if nextevent.xkey < lo.X {
			// Circle event: commit the triangle under the shrinking arc.
			fliptri := nextevent.tri
			farlefttri = fliptri.Oprev()
			m.check4DeadEvent(&farlefttri, &h)
			farrighttri = fliptri.Onext()
			m.check4DeadEvent(&farrighttri, &h)

			if farlefttri.Equal(bottommost) {
				bottommost = fliptri.Lprev()
			}
			m.flip(&fliptri)
			fliptri.SetApex(nil)
			lefttri = fliptri.Lprev()
			righttri = fliptri.Lnext()
			farlefttri = lefttri.Sym()

			if m.randomnation(sweepSampleRate) == 0 {
				fliptri.SymSelf()
				leftvertex := fliptri.Dest()
				midvertex := fliptri.Apex()
				rightvertex := fliptri.Org()
				splayroot = m.circleTopInsert(splayroot, lefttri,
					leftvertex, midvertex, rightvertex, nextevent.ykey)
			}
		} else {
			// Site event: hang a new triangle pair off the front.
			nextvertex := nextevent.vtx
			if nextvertex.X == lastvertex.X && nextvertex.Y == lastvertex.Y {
				m.log.Warn("duplicate vertex ignored",
					zap.Float64("x", nextvertex.X), zap.Float64("y", nextvertex.Y))
				nextvertex.Type = UndeadVertex
				m.undeads++
				check4events = false
			} else {
				lastvertex = nextvertex
				var searchtri Otri
				var farrightflag bool
				splayroot = m.frontLocate(splayroot, &bottommost, nextvertex,
					&searchtri, &farrightflag)
				m.check4DeadEvent(&searchtri, &h)

				farrighttri = searchtri
				farlefttri = searchtri.Sym()
				lefttri = m.makeTriangle()
				righttri = m.makeTriangle()
				connectvertex := farrighttri.Dest()
				lefttri.SetOrg(connectvertex)
				lefttri.SetDest(nextvertex)
				righttri.SetOrg(nextvertex)
				righttri.SetDest(connectvertex)
				lefttri.Bond(righttri)
				lefttri.LnextSelf()
				righttri.LprevSelf()
				lefttri.Bond(righttri)
				lefttri.LnextSelf()
				righttri.LprevSelf()
				lefttri.Bond(farlefttri)
				righttri.Bond(farrighttri)
				if !farrightflag && farrighttri.Equal(bottommost) {
					bottommost = lefttri
				}

				if m.randomnation(sweepSampleRate) == 0 {
					splayroot = m.splayInsert(splayroot, lefttri, nextvertex.Point)
				} else if m.randomnation(sweepSampleRate) == 0 {
					inserttri := righttri.Lnext()
					splayroot = m.splayInsert(splayroot, inserttri, nextvertex.Point)
				}
			}
		}

		if check4events {
			// Schedule circle events for the two arcs whose neighborhoods
			// just changed.
			leftvertex := farlefttri.Apex()
			midvertex := lefttri.Dest()
			rightvertex := lefttri.Apex()
			lefttest := m.pred.CounterClockwise(leftvertex.Point, midvertex.Point, rightvertex.Point)
			if lefttest > 0.0 {
				ev := &sweepEvent{
					xkey: xminextreme,
					ykey: circleTop(leftvertex, midvertex, rightvertex, lefttest),
					tri:  lefttri,
				}
				ev.marker.evt = ev
				heap.Push(&h, ev)
				lefttri.SetOrg(&ev.marker)
			}
			leftvertex = righttri.Apex()
			midvertex = righttri.Org()
			rightvertex = righttri.Dest()
			righttest := m.pred.CounterClockwise(leftvertex.Point, midvertex.Point, rightvertex.Point)
			if righttest > 0.0 {
				ev := &sweepEvent{
					xkey: xminextreme,
					ykey: circleTop(leftvertex, midvertex, rightvertex, righttest),
					tri:  righttri,
				}
				ev.marker.evt = ev
				heap.Push(&h, ev)
				righttri.SetOrg(&ev.marker)
			}
		}
	}

	bottommost.LprevSelf()
	return m.removeGhosts(&bottommost)
}
