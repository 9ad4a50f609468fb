package layering

import (
	"maps"
	"slices"

	"github.com/matzehuels/svcmap/pkg/topology"
)

// Graph is a directed graph over card ids. Adjacency lists are kept sorted
// so every traversal is deterministic.
//
// The zero value is not usable; use NewGraph.
type Graph struct {
	nodes    map[string]struct{}
	outgoing map[string][]string
	incoming map[string][]string
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:    make(map[string]struct{}),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// FromConnections builds a graph with one node per id in cards and per node
// of conns, and one edge per (sender, receiver) pair. Self links are kept;
// BreakCycles removes them.
func FromConnections(conns *topology.Connections, cards []string) *Graph {
	g := NewGraph()
	for _, id := range cards {
		g.AddNode(id)
	}
	for _, p := range conns.Pairs() {
		g.AddEdge(p.Sender, p.Receiver)
	}
	return g
}

// AddNode adds id if it is not present.
func (g *Graph) AddNode(id string) {
	g.nodes[id] = struct{}{}
}

// AddEdge adds the edge from -> to, adding missing endpoints. Duplicate
// edges are ignored.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	if i, found := slices.BinarySearch(g.outgoing[from], to); !found {
		g.outgoing[from] = slices.Insert(g.outgoing[from], i, to)
	}
	if i, found := slices.BinarySearch(g.incoming[to], from); !found {
		g.incoming[to] = slices.Insert(g.incoming[to], i, from)
	}
}

// RemoveEdge deletes the edge from -> to if present.
func (g *Graph) RemoveEdge(from, to string) {
	if i, found := slices.BinarySearch(g.outgoing[from], to); found {
		g.outgoing[from] = slices.Delete(g.outgoing[from], i, i+1)
	}
	if i, found := slices.BinarySearch(g.incoming[to], from); found {
		g.incoming[to] = slices.Delete(g.incoming[to], i, i+1)
	}
}

// HasEdge reports whether the edge from -> to exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, found := slices.BinarySearch(g.outgoing[from], to)
	return found
}

// Nodes returns every node id in sorted order.
func (g *Graph) Nodes() []string { return slices.Sorted(maps.Keys(g.nodes)) }

// Children returns the receivers of id in sorted order.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the senders of id in sorted order.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// InDegree returns the number of senders of id.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// Sources returns the nodes without senders in sorted order.
func (g *Graph) Sources() []string {
	var out []string
	for _, id := range g.Nodes() {
		if g.InDegree(id) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, out := range g.outgoing {
		n += len(out)
	}
	return n
}
