package mesh

// Subseg is one piece of a constraint segment. Besides its two endpoints it
// remembers the endpoints of the original input segment it was split from,
// links to the adjoining pieces of that segment, and the two triangles on
// either side.
type Subseg struct {
	hash int

	subsegs   [2]Osub
	vertices  [4]*Vertex // endpoints in 0..1, source segment endpoints in 2..3
	triangles [2]Otri

	boundary int
}

// P0 and P1 return the endpoint vertex ids.
func (s *Subseg) P0() int { return s.vertices[0].ID }
func (s *Subseg) P1() int { return s.vertices[1].ID }

// Boundary returns the segment's boundary marker.
func (s *Subseg) Boundary() int { return s.boundary }

// TriangleID returns the id of the triangle on side i (0 or 1), or -1 if the
// segment bounds the mesh exterior on that side.
func (s *Subseg) TriangleID(i int) int {
	t := s.triangles[i].tri
	if t == nil || t.hash == dummyHash {
		return -1
	}
	return t.id
}
