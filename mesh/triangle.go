package mesh

// Triangle is the atomic element of the subdivision. Vertices are in
// counterclockwise order. The neighbor in slot i lies across the edge opposite
// vertex i; unconstrained edges carry the dummy subsegment so traversal never
// needs a nil check.
type Triangle struct {
	hash, id int

	neighbors [3]Otri
	vertices  [3]*Vertex
	subsegs   [3]Osub

	region   int
	area     float64
	infected bool
}

// ID returns the triangle's stable id (dense after a renumber pass).
func (t *Triangle) ID() int { return t.id }

// Region returns the regional attribute spread from a region seed, or 0.
func (t *Triangle) Region() int { return t.region }

// Area returns the per-triangle area constraint, or a non-positive value if
// none applies.
func (t *Triangle) Area() float64 { return t.area }

// Vertex returns the corner in slot i (0..2), counterclockwise.
func (t *Triangle) Vertex(i int) *Vertex { return t.vertices[i] }

// VertexID returns the id of corner i, or -1 for an infinite corner.
func (t *Triangle) VertexID(i int) int {
	if t.vertices[i] == nil {
		return -1
	}
	return t.vertices[i].ID
}

// NeighborID returns the id of the triangle across the edge opposite corner i,
// or -1 on the hull.
func (t *Triangle) NeighborID(i int) int {
	n := t.neighbors[i].tri
	if n == nil || n.hash == dummyHash {
		return -1
	}
	return n.id
}

// SegmentID returns the id of the subsegment on the edge opposite corner i, or
// -1 when that edge is unconstrained.
func (t *Triangle) SegmentID(i int) int {
	s := t.subsegs[i].seg
	if s == nil || s.hash == dummyHash {
		return -1
	}
	return s.hash
}
