// Package mesh implements a constrained Delaunay triangulator with Ruppert
// quality refinement over a mutable planar subdivision of triangles and
// subsegments.
//
// The topology is navigated through directed-edge value handles (Otri, Osub)
// rather than explicit edge objects. Boundaries are closed off with dummy
// sentinel objects instead of nil so traversal code never branches on null.
package mesh

import (
	"errors"
	"fmt"
	"sort"

	"github.com/golang/geo/r2"
	"github.com/sponticelli/trimesh/geometry"
	"github.com/sponticelli/trimesh/predicates"
	"go.uber.org/zap"
)

const dummyHash = -1

// Structured failures surfaced by Triangulate.
var (
	// ErrTooFewPoints is returned for inputs with fewer than three points.
	ErrTooFewPoints = errors.New("mesh: input must contain at least three points")
	// ErrPrecisionExhausted is returned when refinement needs a point that
	// cannot be distinguished from an existing vertex at float64 precision.
	ErrPrecisionExhausted = errors.New("mesh: requested refinement exceeds floating point precision")
	// ErrDegenerateInput is returned for geometrically invalid input, such
	// as two identical constraint segment endpoints.
	ErrDegenerateInput = errors.New("mesh: degenerate input geometry")
	// ErrTopology is returned when an internal topological invariant breaks;
	// it indicates an engine bug, not bad input.
	ErrTopology = errors.New("mesh: topological inconsistency")
)

// fatalError carries a structured failure up through the deeply recursive
// parts of the algorithms; Triangulate recovers it at the boundary.
type fatalError struct{ err error }

func fatal(base error, format string, args ...interface{}) {
	panic(fatalError{fmt.Errorf("%w: "+format, append([]interface{}{base}, args...)...)})
}

// recoverFatal converts a recovered fatalError back into an error. Any other
// panic is re-raised.
func recoverFatal(r interface{}, err *error) {
	if r == nil {
		return
	}
	if fe, ok := r.(fatalError); ok {
		*err = fe.err
		return
	}
	panic(r)
}

// Mesh owns every triangle, subsegment and vertex of one triangulation. It is
// built once per request, mutated through construction and refinement, and
// read out afterwards. A Mesh must not be shared across goroutines.
type Mesh struct {
	behavior *Behavior
	pred     predicates.Config
	log      *zap.Logger

	vertices  map[int]*Vertex
	triangles map[int]*Triangle
	subsegs   map[int]*Subseg

	hashVtx, hashTri, hashSeg int

	holes   []geometry.Point
	regions []geometry.RegionPointer

	bounds r2.Rect

	invertices  int
	insegments  int
	undeads     int
	edges       int
	hullsize    int
	steinerleft int

	poly          bool
	checksegments bool
	checkquality  bool
	incomplete    bool

	// The three bounding box vertices used by the incremental algorithm.
	infvertex1, infvertex2, infvertex3 *Vertex

	dummytri *Triangle
	dummysub *Subseg

	recenttri Otri
	samples   int

	viri       []*Triangle
	badsubsegs []badSubseg
	queue      badTriQueue
	lastflip   *flipStacker

	randomseed uint
}

// New creates an empty mesh governed by the given behavior. A nil behavior
// gets the defaults.
func New(b *Behavior) *Mesh {
	if b == nil {
		b = NewBehavior()
	}
	m := &Mesh{
		behavior:   b,
		log:        b.logger(),
		vertices:   make(map[int]*Vertex),
		triangles:  make(map[int]*Triangle),
		subsegs:    make(map[int]*Subseg),
		bounds:     r2.EmptyRect(),
		samples:    1,
		randomseed: 1,
	}

	// The dummy triangle and subsegment close off every boundary. Index -1
	// keeps them out of the way of real hashes; they are never deallocated.
	m.dummytri = &Triangle{hash: dummyHash, id: dummyHash}
	m.dummysub = &Subseg{hash: dummyHash}
	for i := 0; i < 3; i++ {
		m.dummytri.neighbors[i] = Otri{m.dummytri, 0}
		m.dummytri.subsegs[i] = Osub{m.dummysub, 0}
	}
	m.dummysub.subsegs[0] = Osub{m.dummysub, 0}
	m.dummysub.subsegs[1] = Osub{m.dummysub, 0}
	m.dummysub.triangles[0] = Otri{m.dummytri, 0}
	m.dummysub.triangles[1] = Otri{m.dummytri, 0}

	return m
}

// Behavior returns the configuration this mesh was built with.
func (m *Mesh) Behavior() *Behavior { return m.behavior }

// Triangulate builds a (constrained) Delaunay triangulation of the input and,
// if the behavior asks for it, refines the mesh to the requested quality.
func (m *Mesh) Triangulate(input *geometry.InputGeometry) (err error) {
	defer func() { recoverFatal(recover(), &err) }()

	b := m.behavior
	b.update()
	m.pred = predicates.Config{NoExact: b.NoExact}

	if input.Count() < 3 {
		return fmt.Errorf("%w: got %d", ErrTooFewPoints, input.Count())
	}

	m.steinerleft = b.SteinerPoints
	m.transferNodes(input)

	m.insegments = len(input.Segments())
	m.poly = m.insegments > 0 || len(input.Holes()) > 0 || len(input.Regions()) > 0
	b.useSegments = m.poly || b.Quality || b.Convex

	m.hullsize = m.delaunay()

	// The bounding box vertices, if any, are gone now.
	m.infvertex1, m.infvertex2, m.infvertex3 = nil, nil, nil

	if b.useSegments && len(m.triangles) > 0 {
		m.checksegments = true
		m.formSkeleton(input)
	}

	if len(m.triangles) > 0 && m.poly {
		m.holes = append(m.holes[:0], input.Holes()...)
		m.regions = append(m.regions[:0], input.Regions()...)
		m.carveHoles()
	}

	if b.Quality && len(m.triangles) > 0 {
		m.enforceQuality()
	}

	m.Renumber()
	return nil
}

// transferNodes copies the input points into mesh vertices. Every vertex gets
// the same attribute count, padded with zeros, so refinement can interpolate
// between any pair. Duplicates are detected later, during construction.
func (m *Mesh) transferNodes(input *geometry.InputGeometry) {
	m.invertices = input.Count()
	nattribs := 0
	for _, p := range input.Points() {
		if len(p.Attributes) > nattribs {
			nattribs = len(p.Attributes)
		}
	}
	for _, p := range input.Points() {
		v := &Vertex{Point: p, Type: InputVertex}
		if nattribs > 0 {
			v.Attributes = make([]float64, nattribs)
			copy(v.Attributes, p.Attributes)
		}
		if !m.behavior.UseBoundaryMarkers {
			v.Boundary = 0
		}
		v.hash = m.hashVtx
		m.hashVtx++
		v.ID = v.hash
		m.vertices[v.hash] = v
	}
	m.bounds = input.Bounds()
}

// delaunay dispatches to the configured construction algorithm and records
// the resulting edge count.
func (m *Mesh) delaunay() int {
	var hulledge int
	switch m.behavior.Algorithm {
	case Incremental:
		hulledge = m.incrementalDelaunay()
	case SweepLine:
		hulledge = m.sweepLineDelaunay()
	default:
		hulledge = m.dwyerDelaunay()
	}
	if len(m.triangles) == 0 {
		// The input was entirely collinear.
		m.edges = 0
		return 0
	}
	m.edges = (3*len(m.triangles) + hulledge) / 2
	return hulledge
}

// makeTriangle allocates a triangle bounded by dummies on all sides.
func (m *Mesh) makeTriangle() Otri {
	t := &Triangle{hash: m.hashTri, area: -1.0}
	m.hashTri++
	t.id = t.hash
	for i := 0; i < 3; i++ {
		t.neighbors[i] = Otri{m.dummytri, 0}
		t.subsegs[i] = Osub{m.dummysub, 0}
	}
	m.triangles[t.hash] = t
	return Otri{t, 0}
}

// makeSubseg allocates a subsegment bounded by dummies.
func (m *Mesh) makeSubseg() Osub {
	s := &Subseg{hash: m.hashSeg}
	m.hashSeg++
	s.subsegs[0] = Osub{m.dummysub, 0}
	s.subsegs[1] = Osub{m.dummysub, 0}
	s.triangles[0] = Otri{m.dummytri, 0}
	s.triangles[1] = Otri{m.dummytri, 0}
	m.subsegs[s.hash] = s
	return Osub{s, 0}
}

// makeVertex allocates a vertex at p with the given role.
func (m *Mesh) makeVertex(p geometry.Point, vtype VertexType) *Vertex {
	v := &Vertex{Point: p, Type: vtype}
	v.hash = m.hashVtx
	m.hashVtx++
	v.ID = v.hash
	m.vertices[v.hash] = v
	return v
}

func (m *Mesh) triangleDealloc(t *Triangle) {
	killTri(t)
	delete(m.triangles, t.hash)
}

func (m *Mesh) subsegDealloc(s *Subseg) {
	killSubseg(s)
	delete(m.subsegs, s.hash)
}

func (m *Mesh) vertexDealloc(v *Vertex) {
	v.Type = DeadVertex
	delete(m.vertices, v.hash)
}

// makeVertexMap gives every vertex a handle to one incident triangle, so the
// topology can be re-entered from a vertex.
func (m *Mesh) makeVertexMap() {
	for _, t := range m.triangles {
		tri := Otri{t, 0}
		for tri.orient = 0; tri.orient < 3; tri.orient++ {
			if v := tri.Org(); v != nil {
				v.tri = tri
			}
		}
	}
}

// randomnation is the generator Triangle has always used for its sampling
// decisions; quality of randomness is irrelevant here.
func (m *Mesh) randomnation(choices uint) uint {
	m.randomseed = (m.randomseed*1366 + 150889) % 714025
	if choices == 0 {
		return 0
	}
	return m.randomseed / (714025/choices + 1)
}

// Renumber makes vertex and triangle ids dense and 0-based, compacting out
// undead vertices when Jettison is set. Output accessors rely on these ids.
func (m *Mesh) Renumber() {
	id := 0
	for _, h := range sortedKeys(m.vertices) {
		v := m.vertices[h]
		if v.Type == UndeadVertex && m.behavior.Jettison {
			delete(m.vertices, h)
			continue
		}
		v.ID = id
		id++
	}
	id = 0
	for _, h := range sortedKeys(m.triangles) {
		m.triangles[h].id = id
		id++
	}
}

func sortedKeys[V any](table map[int]V) []int {
	keys := make([]int, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Vertices returns the live vertices ordered by id.
func (m *Mesh) Vertices() []*Vertex {
	out := make([]*Vertex, 0, len(m.vertices))
	for _, h := range sortedKeys(m.vertices) {
		out = append(out, m.vertices[h])
	}
	return out
}

// Triangles returns the live triangles ordered by id.
func (m *Mesh) Triangles() []*Triangle {
	out := make([]*Triangle, 0, len(m.triangles))
	for _, h := range sortedKeys(m.triangles) {
		out = append(out, m.triangles[h])
	}
	return out
}

// Subsegs returns the constraint subsegments in creation order.
func (m *Mesh) Subsegs() []*Subseg {
	out := make([]*Subseg, 0, len(m.subsegs))
	for _, h := range sortedKeys(m.subsegs) {
		out = append(out, m.subsegs[h])
	}
	return out
}

// Hull returns the ids of the vertices on the mesh boundary, walked once
// counterclockwise. After carving this is the outer boundary of the carved
// domain, not the convex hull of the input.
func (m *Mesh) Hull() []int {
	// Carving can leave the dummy triangle pointing at a dead triangle, so
	// find a boundary edge by scanning instead.
	var hulltri Otri
	for _, h := range sortedKeys(m.triangles) {
		t := Otri{m.triangles[h], 0}
		if t.IsDead() {
			continue
		}
		for t.orient = 0; t.orient < 3; t.orient++ {
			if t.Sym().tri == m.dummytri {
				hulltri = t
				break
			}
		}
		if hulltri.tri != nil {
			break
		}
	}
	if hulltri.tri == nil {
		return nil
	}
	starttri := hulltri
	var ids []int
	for {
		ids = append(ids, hulltri.Org().ID)
		hulltri.LnextSelf()
		for nexttri := hulltri.Oprev(); nexttri.tri != m.dummytri; nexttri = hulltri.Oprev() {
			hulltri = nexttri
		}
		if hulltri.Equal(starttri) {
			return ids
		}
	}
}

// NumberOfVertices counts live vertices (including undead slots).
func (m *Mesh) NumberOfVertices() int { return len(m.vertices) }

// NumberOfTriangles counts live triangles.
func (m *Mesh) NumberOfTriangles() int { return len(m.triangles) }

// NumberOfSubsegs counts constraint subsegments.
func (m *Mesh) NumberOfSubsegs() int { return len(m.subsegs) }

// NumberOfEdges counts undirected triangulation edges.
func (m *Mesh) NumberOfEdges() int { return (3*len(m.triangles) + m.hullsize) / 2 }

// HullSize counts edges on the mesh boundary.
func (m *Mesh) HullSize() int { return m.hullsize }

// Bounds returns the bounding box of the input points.
func (m *Mesh) Bounds() r2.Rect { return m.bounds }

// IncompleteRefinement reports whether refinement stopped because the Steiner
// point budget ran out before all quality constraints were satisfied.
func (m *Mesh) IncompleteRefinement() bool { return m.incomplete }
