package mesh

import (
	"fmt"

	"github.com/sponticelli/trimesh/dbg"
)

// Osub is a directed edge of a subsegment: the owning subsegment plus an
// orientation in 0..1 naming the direction. Like Otri it is a value type.
type Osub struct {
	seg    *Subseg
	orient int // 0..1
}

func (o Osub) String() string {
	if o.seg == nil {
		return "S[nil]"
	}
	return fmt.Sprintf("S[%s:%d]", dbg.Name(o.seg), o.orient)
}

// Segment exposes the owning subsegment for read-only consumers.
func (o Osub) Segment() *Subseg { return o.seg }

// Sym returns the same subsegment with reversed direction.
func (o Osub) Sym() Osub { return Osub{o.seg, 1 - o.orient} }

func (o *Osub) SymSelf() { o.orient = 1 - o.orient }

// Pivot returns the adjoining subsegment of the same original segment on this
// side (the dummy subsegment at the segment's end).
func (o Osub) Pivot() Osub { return o.seg.subsegs[o.orient] }

// Next returns the adjoining subsegment in sequence past the destination.
func (o Osub) Next() Osub { return o.seg.subsegs[1-o.orient] }

func (o *Osub) NextSelf() { *o = o.seg.subsegs[1-o.orient] }

func (o Osub) Org() *Vertex  { return o.seg.vertices[o.orient] }
func (o Osub) Dest() *Vertex { return o.seg.vertices[1-o.orient] }

func (o Osub) SetOrg(v *Vertex)  { o.seg.vertices[o.orient] = v }
func (o Osub) SetDest(v *Vertex) { o.seg.vertices[1-o.orient] = v }

// SegOrg and SegDest read the endpoints of the original input segment this
// piece was split from.
func (o Osub) SegOrg() *Vertex  { return o.seg.vertices[2+o.orient] }
func (o Osub) SegDest() *Vertex { return o.seg.vertices[3-o.orient] }

func (o Osub) SetSegOrg(v *Vertex)  { o.seg.vertices[2+o.orient] = v }
func (o Osub) SetSegDest(v *Vertex) { o.seg.vertices[3-o.orient] = v }

// Mark reads the boundary marker.
func (o Osub) Mark() int { return o.seg.boundary }

func (o Osub) SetMark(mark int) { o.seg.boundary = mark }

// Bond links this subsegment edge and s2 as adjoining pieces.
func (o Osub) Bond(s2 Osub) {
	o.seg.subsegs[o.orient] = s2
	s2.seg.subsegs[s2.orient] = o
}

// Dissolve detaches this subsegment edge from its neighbor.
func (o Osub) Dissolve(dummy *Subseg) {
	o.seg.subsegs[o.orient] = Osub{dummy, 0}
}

// TriPivot returns the triangle view of this subsegment edge.
func (o Osub) TriPivot() Otri { return o.seg.triangles[o.orient] }

// TriDissolve detaches this subsegment from its triangle on this side.
func (o Osub) TriDissolve(dummy *Triangle) {
	o.seg.triangles[o.orient] = Otri{dummy, 0}
}

// Equal reports whether two handles name the same directed subsegment.
func (o Osub) Equal(o2 Osub) bool { return o.seg == o2.seg && o.orient == o2.orient }

// IsDead reports whether the owning subsegment has been killed.
func (o Osub) IsDead() bool { return o.seg == nil || o.seg.subsegs[0].seg == nil }

func killSubseg(s *Subseg) {
	s.subsegs[0].seg = nil
	s.subsegs[1].seg = nil
}
