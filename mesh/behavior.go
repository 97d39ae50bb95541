package mesh

import (
	"math"

	"github.com/sponticelli/trimesh/geometry"
	"go.uber.org/zap"
)

// Algorithm selects how the initial Delaunay triangulation is built. All three
// converge to the same triangulation for non-degenerate input; they differ in
// speed and in how gracefully they handle collinear chains and duplicates.
type Algorithm int

const (
	// Dwyer is the divide-and-conquer algorithm with alternating cuts.
	Dwyer Algorithm = iota
	// Incremental inserts one vertex at a time into a bounding triangle.
	Incremental
	// SweepLine is Fortune's plane sweep.
	SweepLine
)

func (a Algorithm) String() string {
	switch a {
	case Dwyer:
		return "dwyer"
	case Incremental:
		return "incremental"
	case SweepLine:
		return "sweepline"
	}
	return "unknown"
}

// Behavior is the entire external tuning surface of the mesher.
//
// The zero value disables refinement and uses the divide-and-conquer
// algorithm; NewBehavior fills in the conventional defaults.
type Behavior struct {
	// Quality enables Ruppert-style refinement.
	Quality bool
	// MinAngle is the lower bound on triangle angles, in degrees [0, 60].
	MinAngle float64
	// MaxAngle is the upper bound on triangle angles, in degrees [90, 180],
	// or 0 to disable the test.
	MaxAngle float64
	// MaxArea caps triangle area globally; negative disables the cap.
	MaxArea float64
	// VarArea honors per-triangle area constraints carried by region seeds.
	VarArea bool
	// UserTest, when set, flags any triangle for which it returns true.
	UserTest func(org, dest, apex geometry.Point, area float64) bool

	// ConformingDelaunay uses diametral circles rather than lenses for the
	// encroachment test, producing a truly Delaunay (not just constrained
	// Delaunay) mesh.
	ConformingDelaunay bool
	// SteinerPoints caps the number of inserted points; -1 means unbounded.
	SteinerPoints int

	Algorithm Algorithm
	// Convex keeps the convex hull intact, suppressing concavity and hole
	// carving from the outer boundary.
	Convex bool
	// NoHoles ignores hole markers.
	NoHoles bool
	// Jettison discards duplicate input vertices instead of keeping them as
	// undead slots.
	Jettison bool
	// UseBoundaryMarkers propagates input boundary markers onto output
	// vertices and subsegments.
	UseBoundaryMarkers bool

	// NoExact disables the exact arithmetic fallback in the predicates.
	NoExact bool
	// Verbose enables debug tracing through Logger.
	Verbose bool
	// Logger receives warnings and traces; nil means discard.
	Logger *zap.Logger

	fixedArea    bool
	useSegments  bool
	useRegions   bool
	goodAngle    float64
	maxGoodAngle float64
	offconstant  float64
}

// NewBehavior returns the conventional defaults: no refinement, boundary
// markers honored, unbounded Steiner points.
func NewBehavior() *Behavior {
	return &Behavior{
		MaxArea:            -1.0,
		SteinerPoints:      -1,
		UseBoundaryMarkers: true,
	}
}

func (b *Behavior) logger() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

// update validates the quality knobs and computes the derived constants. An
// out-of-range angle bound disables refinement with a warning rather than
// failing the whole triangulation.
func (b *Behavior) update() {
	if b.Quality {
		if b.MinAngle < 0 || b.MinAngle > 60 {
			b.Quality = false
			b.logger().Warn("minimum angle out of range [0, 60]; quality refinement disabled",
				zap.Float64("minAngle", b.MinAngle))
		}
		if b.MaxAngle != 0.0 && (b.MaxAngle < 90 || b.MaxAngle > 180) {
			b.Quality = false
			b.logger().Warn("maximum angle out of range [90, 180]; quality refinement disabled",
				zap.Float64("maxAngle", b.MaxAngle))
		}
	}

	b.fixedArea = b.MaxArea >= 0.0

	b.goodAngle = math.Cos(b.MinAngle * math.Pi / 180.0)
	b.maxGoodAngle = math.Cos(b.MaxAngle * math.Pi / 180.0)
	if b.goodAngle == 1.0 {
		b.offconstant = 0.0
	} else {
		b.offconstant = 0.475 * math.Sqrt((1.0+b.goodAngle)/(1.0-b.goodAngle))
	}
	b.goodAngle *= b.goodAngle
}
