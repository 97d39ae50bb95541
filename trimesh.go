// Package trimesh generates two-dimensional constrained Delaunay
// triangulations and quality meshes.
//
// This package is the simple front door: describe the input with an
// InputGeometry (points, constraint segments, holes, regions) and call
// Triangulate or TriangulateQuality. Everything tunable lives in
// mesh.Behavior; use TriangulateWithBehavior to reach all of it.
package trimesh

import (
	"github.com/sponticelli/trimesh/geometry"
	"github.com/sponticelli/trimesh/mesh"
)

type Point = geometry.Point
type InputGeometry = geometry.InputGeometry
type Behavior = mesh.Behavior
type Mesh = mesh.Mesh

// NewInputGeometry creates an empty input with room for capacity points.
func NewInputGeometry(capacity int) *InputGeometry {
	return geometry.NewInputGeometry(capacity)
}

// Triangulate builds the constrained Delaunay triangulation of the input: all
// input points appear as mesh vertices, every constraint segment appears as a
// union of mesh edges, and holes are carved out.
func Triangulate(input *InputGeometry) (*Mesh, error) {
	return TriangulateWithBehavior(input, mesh.NewBehavior())
}

// TriangulateQuality triangulates and then refines the mesh until no angle is
// smaller than minAngle degrees and no triangle is larger than maxArea
// (non-positive maxArea means no area bound). Steiner points are inserted as
// needed; segment and hole semantics are as in Triangulate.
func TriangulateQuality(input *InputGeometry, minAngle, maxArea float64) (*Mesh, error) {
	b := mesh.NewBehavior()
	b.Quality = true
	b.MinAngle = minAngle
	b.MaxArea = maxArea
	if maxArea <= 0 {
		b.MaxArea = -1.0
	}
	return TriangulateWithBehavior(input, b)
}

// TriangulateWithBehavior runs the engine under full caller control.
func TriangulateWithBehavior(input *InputGeometry, b *Behavior) (*Mesh, error) {
	m := mesh.New(b)
	if err := m.Triangulate(input); err != nil {
		return nil, err
	}
	return m, nil
}
