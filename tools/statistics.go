package tools

import (
	"math"

	"github.com/sponticelli/trimesh/mesh"
)

// Statistics summarizes the geometric quality of a mesh.
type Statistics struct {
	Vertices  int
	Triangles int
	Subsegs   int
	Edges     int

	SmallestArea float64
	LargestArea  float64

	ShortestEdge float64
	LongestEdge  float64

	SmallestAngle float64 // degrees
	LargestAngle  float64 // degrees

	SmallestAspect float64
	LargestAspect  float64

	// AngleHistogram counts triangle corners in 10-degree bins, [0,10) up
	// to [170,180).
	AngleHistogram [18]int
}

// Measure walks every triangle of the mesh and gathers the statistics.
func Measure(m *mesh.Mesh) Statistics {
	s := Statistics{
		Vertices:       m.NumberOfVertices(),
		Triangles:      m.NumberOfTriangles(),
		Subsegs:        m.NumberOfSubsegs(),
		Edges:          m.NumberOfEdges(),
		SmallestArea:   math.Inf(1),
		ShortestEdge:   math.Inf(1),
		SmallestAngle:  180.0,
		SmallestAspect: math.Inf(1),
	}

	verts := m.Vertices()
	byID := make(map[int]int, len(verts))
	for i, v := range verts {
		byID[v.ID] = i
	}

	for _, t := range m.Triangles() {
		var x, y [3]float64
		ok := true
		for i := 0; i < 3; i++ {
			vi, found := byID[t.VertexID(i)]
			if !found {
				ok = false
				break
			}
			x[i] = verts[vi].X
			y[i] = verts[vi].Y
		}
		if !ok {
			continue
		}

		var lensq [3]float64
		for i := 0; i < 3; i++ {
			j, k := (i+1)%3, (i+2)%3
			dx := x[j] - x[k]
			dy := y[j] - y[k]
			lensq[i] = dx*dx + dy*dy
			l := math.Sqrt(lensq[i])
			if l < s.ShortestEdge {
				s.ShortestEdge = l
			}
			if l > s.LongestEdge {
				s.LongestEdge = l
			}
		}

		area := 0.5 * math.Abs((x[1]-x[0])*(y[2]-y[0])-(x[2]-x[0])*(y[1]-y[0]))
		if area < s.SmallestArea {
			s.SmallestArea = area
		}
		if area > s.LargestArea {
			s.LargestArea = area
		}

		// Aspect ratio: longest edge over the altitude onto it.
		longsq := math.Max(lensq[0], math.Max(lensq[1], lensq[2]))
		if area > 0 {
			aspect := longsq / (2.0 * area)
			if aspect < s.SmallestAspect {
				s.SmallestAspect = aspect
			}
			if aspect > s.LargestAspect {
				s.LargestAspect = aspect
			}
		}

		for i := 0; i < 3; i++ {
			j, k := (i+1)%3, (i+2)%3
			// Law of cosines at corner i.
			dot := (x[j]-x[i])*(x[k]-x[i]) + (y[j]-y[i])*(y[k]-y[i])
			denom := math.Sqrt(lensq[k] * lensq[j])
			if denom == 0 {
				continue
			}
			cosangle := dot / denom
			if cosangle > 1 {
				cosangle = 1
			}
			if cosangle < -1 {
				cosangle = -1
			}
			deg := math.Acos(cosangle) * 180.0 / math.Pi
			if deg < s.SmallestAngle {
				s.SmallestAngle = deg
			}
			if deg > s.LargestAngle {
				s.LargestAngle = deg
			}
			bin := int(deg / 10.0)
			if bin > 17 {
				bin = 17
			}
			s.AngleHistogram[bin]++
		}
	}

	if s.Triangles == 0 {
		s.SmallestArea, s.ShortestEdge = 0, 0
		s.SmallestAngle, s.SmallestAspect = 0, 0
	}
	return s
}

// QualityMeasure is the normalized alpha quality of a triangle: 1 for
// equilateral, approaching 0 as the triangle degenerates.
func QualityMeasure(x1, y1, x2, y2, x3, y3 float64) float64 {
	a2 := (x2-x1)*(x2-x1) + (y2-y1)*(y2-y1)
	b2 := (x3-x2)*(x3-x2) + (y3-y2)*(y3-y2)
	c2 := (x1-x3)*(x1-x3) + (y1-y3)*(y1-y3)
	sum := a2 + b2 + c2
	if sum == 0 {
		return 0
	}
	area := 0.5 * math.Abs((x2-x1)*(y3-y1)-(x3-x1)*(y2-y1))
	return 4.0 * math.Sqrt(3.0) * area / sum
}
