package layering

// BreakCycles makes g acyclic by removing the back edges found by a
// depth-first search, and returns the removed edges as (sender, receiver)
// pairs in discovery order.
//
// The removed edges stay in the topology. The layout engine still draws
// their arrows and routes them leftwards around both cards; they only stop
// constraining column assignment.
//
// # Algorithm
//
// Nodes are colored white (unvisited), gray (on the current search path) or
// black (finished). The search starts from every source in sorted order, then
// from any node still white, so cycles unreachable from a source (a ring of
// services that only call each other) are broken too. An edge into a gray
// node closes a cycle and is recorded as a back edge. A self-loop is always a
// back edge.
//
// Because the start order and [Graph.Children] are sorted, the same graph
// always loses the same edges.
//
// # Performance
//
// Time complexity is O(V + E). The recursion depth is bounded by the longest
// simple path, which is below V.
func BreakCycles(g *Graph) [][2]string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	var backEdges [][2]string

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, child := range g.Children(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, [2]string{node, child})
			}
		}
		color[node] = black
	}

	for _, id := range g.Sources() {
		if color[id] == white {
			dfs(id)
		}
	}
	for _, id := range g.Nodes() {
		if color[id] == white {
			dfs(id)
		}
	}

	for _, e := range backEdges {
		g.RemoveEdge(e[0], e[1])
	}
	return backEdges
}

// AssignColumns computes longest-path columns: sources are at column 0 and
// every other node at one plus the maximum column of its senders. Every
// receiver therefore lands strictly right of each of its senders.
//
// # Algorithm
//
// AssignColumns runs Kahn's topological sort. Sources seed the queue at
// column 0. Popping a node pushes each child to at least its column plus one
// and decrements the child's in-degree; a child joins the queue once all of
// its senders are done.
//
// # Cycles
//
// AssignColumns assumes g is acyclic. Nodes on a cycle never reach zero
// in-degree and stay at column 0, so run [BreakCycles] first.
//
// # Performance
//
// Time complexity is O(V + E). The returned map holds one entry per node.
func AssignColumns(g *Graph) map[string]int {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	cols := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, id := range nodes {
		cols[id] = 0
		degree := g.InDegree(id)
		inDegree[id] = degree
		if degree == 0 {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if col := cols[curr] + 1; col > cols[child] {
				cols[child] = col
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	return cols
}
