package connector

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/svcmap/pkg/errors"
	"github.com/matzehuels/svcmap/pkg/geom"
	"github.com/matzehuels/svcmap/pkg/topology"
)

// Default connector spacing.
const (
	DefaultGap        = 20
	DefaultCardEndGap = 40
)

// Config controls connector spacing.
type Config struct {
	// Gap is the vertical distance between stacked connectors of one receiver.
	Gap float64
	// CardEndGap is the horizontal distance between a connector and the left
	// edge of its receiver.
	CardEndGap float64
}

// DefaultConfig returns a Config with DefaultGap and DefaultCardEndGap.
func DefaultConfig() Config {
	return Config{Gap: DefaultGap, CardEndGap: DefaultCardEndGap}
}

// BoxSource resolves card bounding boxes. *placement.Store implements it.
type BoxSource interface {
	CardXYWH(cardID string) (geom.XYWH, bool)
}

// Graph resolves the access points a sender reaches on a receiver.
// *topology.Connections implements it.
type Graph interface {
	AccessPointIDs(sender, receiver string) []string
}

// Anchor is the point assigned to one connector.
type Anchor struct {
	ConnectorID string  `json:"connectorId"`
	ReceiverID  string  `json:"receiverId"`
	Point       geom.XY `json:"point"`
}

// Connector describes one accumulated connector.
type Connector struct {
	ID             string   `json:"id"`
	ReceiverID     string   `json:"receiverId"`
	AccessPointIDs []string `json:"accessPointIds"`
	Senders        []string `json:"senders"`
	Index          int      `json:"index"`
	Point          geom.XY  `json:"point"`
}

type entry struct {
	receiver string
	apIDs    []string
	senders  []string
	index    int
}

// Accumulator assigns and caches connector anchors for one layout frame.
// It is not safe for concurrent use.
type Accumulator struct {
	cfg   Config
	graph Graph
	boxes BoxSource

	// raw holds the first-pass points; adjusted holds the re-centered ones
	// once AdjustVertically ran. Keeping both makes AdjustVertically
	// repeatable.
	raw      map[string]geom.XY
	adjusted map[string]geom.XY
	entries  map[string]*entry
	byCard   map[string][]string
}

// New returns an empty accumulator reading access points from graph and
// boxes from boxes.
func New(cfg Config, graph Graph, boxes BoxSource) *Accumulator {
	a := &Accumulator{cfg: cfg, graph: graph, boxes: boxes}
	a.Reset()
	return a
}

// SetGraph replaces the connections graph and clears every connector.
func (a *Accumulator) SetGraph(graph Graph) {
	a.graph = graph
	a.Reset()
}

// Reset discards every accumulated connector.
func (a *Accumulator) Reset() {
	a.raw = make(map[string]geom.XY)
	a.adjusted = nil
	a.entries = make(map[string]*entry)
	a.byCard = make(map[string][]string)
}

// Accumulate assigns an anchor to the connector carrying sender's traffic
// into receiver. It returns false when either card's box or the access
// point set is not known yet; the caller retries on a later frame. A
// connector that already has a point returns it unchanged.
func (a *Accumulator) Accumulate(sender, receiver string) (Anchor, bool) {
	if a.graph == nil || a.boxes == nil {
		return Anchor{}, false
	}
	if _, ok := a.boxes.CardXYWH(sender); !ok {
		return Anchor{}, false
	}
	rbox, ok := a.boxes.CardXYWH(receiver)
	if !ok {
		return Anchor{}, false
	}
	apIDs := a.graph.AccessPointIDs(sender, receiver)
	if len(apIDs) == 0 {
		return Anchor{}, false
	}

	id := topology.CardConnectorID(receiver, apIDs)
	if e, ok := a.entries[id]; ok {
		if !slices.Contains(e.senders, sender) {
			e.senders = append(e.senders, sender)
		}
		return Anchor{ConnectorID: id, ReceiverID: receiver, Point: a.point(id)}, true
	}

	index := len(a.byCard[receiver])
	pt := geom.XY{
		X: rbox.X - a.cfg.CardEndGap,
		Y: rbox.MidY() + float64(index)*a.cfg.Gap,
	}
	a.raw[id] = pt
	a.entries[id] = &entry{receiver: receiver, apIDs: slices.Clone(apIDs), senders: []string{sender}, index: index}
	a.byCard[receiver] = append(a.byCard[receiver], id)
	// A new connector invalidates the previous centering of its card.
	a.adjusted = nil

	return Anchor{ConnectorID: id, ReceiverID: receiver, Point: pt}, true
}

// AdjustVertically re-centers every receiver's connector stack around the
// receiver's midpoint by shifting each point up by (count-1)*Gap/2. It
// always starts from the first-pass points, so calling it twice has the
// same effect as calling it once.
//
// A connector listed for a card but missing from the point map means the
// accumulator's maps desynchronized; AdjustVertically then returns an
// INCONSISTENT_STATE error and leaves the previous points in place.
func (a *Accumulator) AdjustVertically() error {
	adjusted := make(map[string]geom.XY, len(a.raw))
	for card, ids := range a.byCard {
		shift := float64(len(ids)-1) * a.cfg.Gap / 2
		for _, id := range ids {
			pt, ok := a.raw[id]
			if !ok {
				return errors.New(errors.ErrCodeInconsistentState,
					"connector %s listed for card %s has no coordinates", id, card)
			}
			adjusted[id] = geom.XY{X: pt.X, Y: pt.Y - shift}
		}
	}
	a.adjusted = adjusted
	return nil
}

// Adjusted reports whether the current points are re-centered.
func (a *Accumulator) Adjusted() bool { return a.adjusted != nil }

func (a *Accumulator) point(id string) geom.XY {
	if a.adjusted != nil {
		if pt, ok := a.adjusted[id]; ok {
			return pt
		}
	}
	return a.raw[id]
}

// Point returns the current anchor of a connector.
func (a *Accumulator) Point(connectorID string) (geom.XY, bool) {
	if _, ok := a.entries[connectorID]; !ok {
		return geom.XY{}, false
	}
	return a.point(connectorID), true
}

// Len returns the number of accumulated connectors.
func (a *Accumulator) Len() int { return len(a.entries) }

// CardConnectors returns the connector ids of a receiver in index order.
func (a *Accumulator) CardConnectors(receiver string) []string {
	return slices.Clone(a.byCard[receiver])
}

// Connectors returns every accumulated connector, ordered by receiver and
// then by stack index.
func (a *Accumulator) Connectors() []Connector {
	out := make([]Connector, 0, len(a.entries))
	for id, e := range a.entries {
		out = append(out, Connector{
			ID:             id,
			ReceiverID:     e.receiver,
			AccessPointIDs: slices.Clone(e.apIDs),
			Senders:        slices.Sorted(slices.Values(e.senders)),
			Index:          e.index,
			Point:          a.point(id),
		})
	}
	slices.SortFunc(out, func(x, y Connector) int {
		return cmp.Or(cmp.Compare(x.ReceiverID, y.ReceiverID), cmp.Compare(x.Index, y.Index))
	})
	return out
}

// Bounds returns the box enclosing every connector point, or false when no
// connector has been accumulated.
func (a *Accumulator) Bounds() (geom.XYWH, bool) {
	if len(a.entries) == 0 {
		return geom.XYWH{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for id := range a.entries {
		p := a.point(id)
		minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
		maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
	}
	return geom.XYWH{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, true
}
