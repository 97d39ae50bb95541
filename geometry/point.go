package geometry

// Point is a 2D coordinate with an identity and optional metadata. The ID is
// assigned when the point enters a mesh and doubles as an array index in the
// adjacency and renumbering passes, so it must stay dense and stable between
// renumber passes.
type Point struct {
	ID         int
	X, Y       float64
	Boundary   int
	Attributes []float64
}

func NewPoint(x, y float64, boundary int) Point {
	return Point{ID: -1, X: x, Y: y, Boundary: boundary}
}

// Note that mesh vertices are used by pointer identity in several algorithms,
// so a Point's coordinates should never be mutated once it is part of a mesh.
// Equality here is exact; tolerance-based comparisons belong to the predicates.
func (p Point) Equals(q Point) bool {
	return p.X == q.X && p.Y == q.Y
}

// Edge is an endpoint-index pair with a boundary marker, used both for input
// constraint segments and for mesh edge output.
type Edge struct {
	P0, P1   int
	Boundary int
}

// RegionPointer seeds a region attribute: every triangle reachable from
// (X, Y) without crossing a constraint segment is tagged with ID and, when
// Area is positive, constrained to that maximum triangle area.
type RegionPointer struct {
	X, Y float64
	ID   int
	Area float64
}
