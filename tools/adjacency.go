// Package tools provides supporting utilities over a finished mesh: the
// node adjacency matrix, Cuthill-McKee bandwidth reduction, and quality
// statistics.
package tools

import (
	"sort"

	"github.com/sponticelli/trimesh/mesh"
)

// AdjacencyMatrix is the node-node connectivity of a mesh in compressed
// sparse column form. Column j's adjacent nodes are
// RowIndices[ColumnPointers[j]:ColumnPointers[j+1]], sorted ascending.
type AdjacencyMatrix struct {
	// N is the number of nodes.
	N int
	// ColumnPointers has length N+1.
	ColumnPointers []int
	// RowIndices holds the concatenated adjacency lists.
	RowIndices []int
}

// NewAdjacencyMatrix builds the adjacency structure of the mesh's vertices.
// The mesh must have been renumbered, so vertex ids are dense and 0-based.
func NewAdjacencyMatrix(m *mesh.Mesh) *AdjacencyMatrix {
	n := 0
	for _, v := range m.Vertices() {
		if v.ID >= n {
			n = v.ID + 1
		}
	}

	lists := make([][]int, n)
	add := func(a, b int) {
		if a < 0 || b < 0 || a == b {
			return
		}
		lists[a] = append(lists[a], b)
	}
	for _, t := range m.Triangles() {
		for i := 0; i < 3; i++ {
			a := t.VertexID(i)
			b := t.VertexID((i + 1) % 3)
			add(a, b)
			add(b, a)
		}
	}

	adj := &AdjacencyMatrix{
		N:              n,
		ColumnPointers: make([]int, n+1),
	}
	for j, list := range lists {
		sort.Ints(list)
		// Deduplicate in place; shared edges were added twice.
		k := 0
		for i, row := range list {
			if i == 0 || row != list[k-1] {
				list[k] = row
				k++
			}
		}
		lists[j] = list[:k]
		adj.ColumnPointers[j+1] = adj.ColumnPointers[j] + k
	}
	adj.RowIndices = make([]int, 0, adj.ColumnPointers[n])
	for _, list := range lists {
		adj.RowIndices = append(adj.RowIndices, list...)
	}
	return adj
}

// Degree returns the number of nodes adjacent to node j.
func (a *AdjacencyMatrix) Degree(j int) int {
	return a.ColumnPointers[j+1] - a.ColumnPointers[j]
}

// Neighbors returns the sorted adjacency list of node j. The returned slice
// aliases the matrix storage.
func (a *AdjacencyMatrix) Neighbors(j int) []int {
	return a.RowIndices[a.ColumnPointers[j]:a.ColumnPointers[j+1]]
}

// Bandwidth returns the matrix bandwidth under the given permutation (perm
// maps old index to new index); pass nil for the identity.
func (a *AdjacencyMatrix) Bandwidth(perm []int) int {
	pos := func(i int) int {
		if perm == nil {
			return i
		}
		return perm[i]
	}
	lo, hi := 0, 0
	for j := 0; j < a.N; j++ {
		for _, i := range a.Neighbors(j) {
			d := pos(i) - pos(j)
			if d < lo {
				lo = d
			}
			if d > hi {
				hi = d
			}
		}
	}
	return hi - lo + 1
}
