package mesh

import "github.com/sponticelli/trimesh/geometry"

// VertexType tags how a vertex entered the mesh and whether it is still live.
type VertexType int

const (
	// InputVertex came from the caller's point set.
	InputVertex VertexType = iota
	// SegmentVertex was inserted to split a constraint segment.
	SegmentVertex
	// FreeVertex was inserted by refinement and may be moved or deleted.
	FreeVertex
	// DeadVertex has been removed from the mesh; the slot is compacted by
	// the next renumber pass.
	DeadVertex
	// UndeadVertex is an input vertex the triangulation never used (a
	// duplicate, typically). It survives in the vertex table so input ids
	// stay meaningful, unless Jettison discards it.
	UndeadVertex
)

// Vertex is a mesh point: geometry plus a type tag and one incident triangle
// handle used to re-enter the topology from the vertex.
type Vertex struct {
	geometry.Point
	Type VertexType

	tri  Otri
	hash int

	// evt is non-nil only on the marker vertices the sweep line algorithm
	// parks in ghost triangle corners to find pending circle events.
	evt *sweepEvent
}

func newVertex(x, y float64, kind VertexType) *Vertex {
	return &Vertex{
		Point: geometry.Point{ID: -1, X: x, Y: y},
		Type:  kind,
	}
}
