package tools

import "sort"

// CuthillMcKee computes a reverse Cuthill-McKee ordering of the adjacency
// matrix: a breadth-first traversal from a pseudo-peripheral node, visiting
// neighbors in order of increasing degree, reversed at the end. The result
// maps old node index to new index and typically shrinks the bandwidth of
// matrices assembled over the mesh.
func CuthillMcKee(a *AdjacencyMatrix) []int {
	order := make([]int, 0, a.N)
	visited := make([]bool, a.N)

	for {
		root := pseudoPeripheralNode(a, visited)
		if root < 0 {
			break
		}
		// BFS from the root, neighbors by increasing degree.
		visited[root] = true
		order = append(order, root)
		for head := len(order) - 1; head < len(order); head++ {
			nbrs := append([]int(nil), a.Neighbors(order[head])...)
			sort.Slice(nbrs, func(i, j int) bool {
				if d1, d2 := a.Degree(nbrs[i]), a.Degree(nbrs[j]); d1 != d2 {
					return d1 < d2
				}
				return nbrs[i] < nbrs[j]
			})
			for _, nb := range nbrs {
				if !visited[nb] {
					visited[nb] = true
					order = append(order, nb)
				}
			}
		}
	}

	// Reverse, and convert the visit order into a permutation.
	perm := make([]int, a.N)
	for newpos, old := range order {
		perm[old] = len(order) - 1 - newpos
	}
	return perm
}

// pseudoPeripheralNode finds an unvisited node at (nearly) maximal
// eccentricity within its component by repeated rooted level structures, or
// -1 when every node has been visited.
func pseudoPeripheralNode(a *AdjacencyMatrix, visited []bool) int {
	root := -1
	for i := 0; i < a.N; i++ {
		if !visited[i] {
			root = i
			break
		}
	}
	if root < 0 {
		return -1
	}

	depth := -1
	for {
		far, d := lastLevelNode(a, root, visited)
		if d <= depth {
			return root
		}
		depth = d
		root = far
	}
}

// lastLevelNode runs a BFS from root within unvisited nodes and returns the
// minimum-degree node of the deepest level, with the depth.
func lastLevelNode(a *AdjacencyMatrix, root int, visited []bool) (int, int) {
	level := make(map[int]int, a.N)
	level[root] = 0
	queue := []int{root}
	deepest := root
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, nb := range a.Neighbors(node) {
			if visited[nb] {
				continue
			}
			if _, seen := level[nb]; seen {
				continue
			}
			level[nb] = level[node] + 1
			queue = append(queue, nb)
			if level[nb] > level[deepest] ||
				(level[nb] == level[deepest] && a.Degree(nb) < a.Degree(deepest)) {
				deepest = nb
			}
		}
	}
	return deepest, level[deepest]
}
