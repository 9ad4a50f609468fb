package layering

import (
	"cmp"
	"slices"

	"github.com/matzehuels/svcmap/pkg/geom"
	"github.com/matzehuels/svcmap/pkg/topology"
)

// Default spacing between columns and between cards of one column.
const (
	DefaultColumnGap = 200
	DefaultRowGap    = 50
)

// Config controls column placement.
type Config struct {
	ColumnGap float64
	RowGap    float64
	OriginX   float64
	OriginY   float64
}

// DefaultConfig returns a Config with the default gaps at the origin.
func DefaultConfig() Config {
	return Config{ColumnGap: DefaultColumnGap, RowGap: DefaultRowGap}
}

// SizeFunc returns the size used to place a card.
type SizeFunc func(cardID string) geom.WH

// Result is the outcome of Layout.
type Result struct {
	Columns   map[string]int
	Rows      map[string]int
	Positions map[string]geom.XY
	// BackEdges lists the (sender, receiver) edges removed to break cycles.
	// Only these receivers may sit left of their senders.
	BackEdges [][2]string
}

// Place computes the top-left corner of every node given its column.
//
// Column c starts at OriginX plus, for every column before it, the widest
// card of that column and ColumnGap. Within a column, cards are ordered by
// the mean row of their senders in earlier columns (cards without such
// senders first), then by id, and stacked from OriginY with RowGap between
// them.
func Place(g *Graph, cols map[string]int, size SizeFunc, cfg Config) (positions map[string]geom.XY, rows map[string]int) {
	maxCol := -1
	for _, c := range cols {
		maxCol = max(maxCol, c)
	}
	columns := make([][]string, maxCol+1)
	for _, id := range g.Nodes() {
		c, ok := cols[id]
		if !ok {
			continue
		}
		columns[c] = append(columns[c], id)
	}

	rows = make(map[string]int, len(cols))
	positions = make(map[string]geom.XY, len(cols))
	x := cfg.OriginX
	for c, ids := range columns {
		keys := make(map[string]float64, len(ids))
		for _, id := range ids {
			keys[id] = senderBarycenter(g, id, c, cols, rows)
		}
		slices.SortStableFunc(ids, func(a, b string) int {
			return cmp.Or(cmp.Compare(keys[a], keys[b]), cmp.Compare(a, b))
		})

		y := cfg.OriginY
		width := 0.0
		for i, id := range ids {
			wh := size(id)
			rows[id] = i
			positions[id] = geom.XY{X: x, Y: y}
			y += wh.H + cfg.RowGap
			width = max(width, wh.W)
		}
		if len(ids) > 0 {
			x += width + cfg.ColumnGap
		}
	}
	return positions, rows
}

// senderBarycenter returns the mean row of id's senders in columns left of
// col, or -1 when there is none.
func senderBarycenter(g *Graph, id string, col int, cols, rows map[string]int) float64 {
	sum, n := 0.0, 0
	for _, p := range g.Parents(id) {
		if cols[p] >= col {
			continue
		}
		if r, ok := rows[p]; ok {
			sum += float64(r)
			n++
		}
	}
	if n == 0 {
		return -1
	}
	return sum / float64(n)
}

// Layout builds the graph from conns and cards, breaks cycles, assigns
// columns and places every card.
func Layout(conns *topology.Connections, cards []string, size SizeFunc, cfg Config) Result {
	g := FromConnections(conns, cards)
	back := BreakCycles(g)
	cols := AssignColumns(g)
	positions, rows := Place(g, cols, size, cfg)
	return Result{Columns: cols, Rows: rows, Positions: positions, BackEdges: back}
}
