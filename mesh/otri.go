package mesh

import (
	"fmt"

	"github.com/sponticelli/trimesh/dbg"
)

// plus1mod3 and minus1mod3 turn the mod-3 arithmetic of orientation slots into
// table lookups.
var plus1mod3 = [3]int{1, 2, 0}
var minus1mod3 = [3]int{2, 0, 1}

// Otri is a directed edge of a triangle: the owning triangle plus an
// orientation in 0..2 naming which edge. It is a value type; navigation
// returns new handles and never allocates. With a handle abc (origin a,
// destination b, apex c), the operators are:
//
//	Sym    abc -> bad   the same edge seen from the neighboring triangle
//	Lnext  abc -> bca   the next edge counterclockwise around the triangle
//	Lprev  abc -> cab   the previous edge
//	Onext  abc -> ac*   the next edge counterclockwise around the origin
//	Oprev  abc -> a*b   the previous edge around the origin
//	Dnext  abc -> *ba   the next edge around the destination
//	Dprev  abc -> cb*   the previous edge around the destination
//	Rnext  abc -> **a   the next edge clockwise around the right face
//	Rprev  abc -> b**   the previous edge around the right face
//
// Every operator preserves the counterclockwise orientation convention.
type Otri struct {
	tri    *Triangle
	orient int // 0..2
}

func (o Otri) String() string {
	if o.tri == nil {
		return "O[nil]"
	}
	return fmt.Sprintf("O[%s:%d]", dbg.Name(o.tri), o.orient)
}

// Triangle exposes the owning triangle for read-only consumers.
func (o Otri) Triangle() *Triangle { return o.tri }

func (o Otri) Sym() Otri { return o.tri.neighbors[o.orient] }

func (o *Otri) SymSelf() { *o = o.tri.neighbors[o.orient] }

func (o Otri) Lnext() Otri { return Otri{o.tri, plus1mod3[o.orient]} }

func (o *Otri) LnextSelf() { o.orient = plus1mod3[o.orient] }

func (o Otri) Lprev() Otri { return Otri{o.tri, minus1mod3[o.orient]} }

func (o *Otri) LprevSelf() { o.orient = minus1mod3[o.orient] }

func (o Otri) Onext() Otri { return o.Lprev().Sym() }

func (o *Otri) OnextSelf() { o.LprevSelf(); o.SymSelf() }

func (o Otri) Oprev() Otri { return o.Sym().Lnext() }

func (o *Otri) OprevSelf() { o.SymSelf(); o.LnextSelf() }

func (o Otri) Dnext() Otri { return o.Sym().Lprev() }

func (o *Otri) DnextSelf() { o.SymSelf(); o.LprevSelf() }

func (o Otri) Dprev() Otri { return o.Lnext().Sym() }

func (o *Otri) DprevSelf() { o.LnextSelf(); o.SymSelf() }

func (o Otri) Rnext() Otri { return o.Sym().Lnext().Sym() }

func (o *Otri) RnextSelf() { o.SymSelf(); o.LnextSelf(); o.SymSelf() }

func (o Otri) Rprev() Otri { return o.Sym().Lprev().Sym() }

func (o *Otri) RprevSelf() { o.SymSelf(); o.LprevSelf(); o.SymSelf() }

// Org, Dest and Apex read the corners relative to this directed edge.
func (o Otri) Org() *Vertex  { return o.tri.vertices[plus1mod3[o.orient]] }
func (o Otri) Dest() *Vertex { return o.tri.vertices[minus1mod3[o.orient]] }
func (o Otri) Apex() *Vertex { return o.tri.vertices[o.orient] }

func (o Otri) SetOrg(v *Vertex)  { o.tri.vertices[plus1mod3[o.orient]] = v }
func (o Otri) SetDest(v *Vertex) { o.tri.vertices[minus1mod3[o.orient]] = v }
func (o Otri) SetApex(v *Vertex) { o.tri.vertices[o.orient] = v }

// Bond connects this edge and o2 as mutual neighbors. Afterwards
// o.Sym() == o2 and o2.Sym() == o.
func (o Otri) Bond(o2 Otri) {
	o.tri.neighbors[o.orient] = o2
	o2.tri.neighbors[o2.orient] = o
}

// Dissolve detaches this edge from its neighbor, pointing it at the dummy
// triangle instead. The neighbor, if any, keeps its stale link; callers on the
// other side dissolve or rebond themselves.
func (o Otri) Dissolve(dummy *Triangle) {
	o.tri.neighbors[o.orient] = Otri{dummy, 0}
}

// SegPivot returns the subsegment view of this edge (the dummy subsegment when
// the edge is unconstrained).
func (o Otri) SegPivot() Osub { return o.tri.subsegs[o.orient] }

// SegBond attaches a subsegment to this edge and vice versa.
func (o Otri) SegBond(s Osub) {
	o.tri.subsegs[o.orient] = s
	s.seg.triangles[s.orient] = o
}

// SegDissolve detaches this edge from its subsegment.
func (o Otri) SegDissolve(dummy *Subseg) {
	o.tri.subsegs[o.orient] = Osub{dummy, 0}
}

// Equal reports whether two handles name the same directed edge.
func (o Otri) Equal(o2 Otri) bool { return o.tri == o2.tri && o.orient == o2.orient }

// IsDead reports whether the owning triangle has been killed.
func (o Otri) IsDead() bool { return o.tri == nil || o.tri.neighbors[0].tri == nil }

// kill marks the triangle logically dead without unlinking it from the
// triangle table; the next compaction pass reclaims the slot. Slots 0 and 2
// are nilled so IsDead stays cheap while slot 1 keeps working storage for the
// sweep line algorithm.
func killTri(t *Triangle) {
	t.neighbors[0].tri = nil
	t.neighbors[2].tri = nil
}
