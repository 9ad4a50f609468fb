package layout

import (
	"context"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svcmap/pkg/arrows"
	"github.com/matzehuels/svcmap/pkg/connector"
	"github.com/matzehuels/svcmap/pkg/geom"
	"github.com/matzehuels/svcmap/pkg/layering"
	"github.com/matzehuels/svcmap/pkg/observability"
	"github.com/matzehuels/svcmap/pkg/placement"
	"github.com/matzehuels/svcmap/pkg/topology"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDefaultSizes makes SetTopology give every unmeasured card the
// configured default size, so a layout can be computed without any
// measurement callbacks. Hosts that render cards and report their sizes
// leave this off.
func WithDefaultSizes() Option {
	return func(e *Engine) { e.seedSizes = true }
}

// Measurement is one measurement callback. A zero Width or Height leaves
// that dimension untouched.
type Measurement struct {
	CardID string  `json:"cardId"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Stats describes the last relayout.
type Stats struct {
	Cards      int           `json:"cards"`      // cards in the topology
	Placed     int           `json:"placed"`     // cards with both position and size
	Connectors int           `json:"connectors"` // accumulated connectors
	Pending    int           `json:"pending"`    // (sender, receiver) pairs waiting for a measurement
	Arrows     int           `json:"arrows"`     // arrows written
	Updates    int           `json:"updates"`    // placement entries that moved
	BackEdges  int           `json:"backEdges"`  // links ignored by column assignment
	Duration   time.Duration `json:"duration"`   // time spent in the relayout
}

type arrowMeta struct {
	kind     ArrowKind
	from, to string
	verdicts topology.VerdictSet
}

// Engine computes and holds the layout of one topology view.
type Engine struct {
	mu        sync.Mutex
	cfg       Config
	logger    *log.Logger
	seedSizes bool

	snapshot topology.Snapshot
	services map[string]topology.Service
	order    []string
	conns    *topology.Connections
	graph    *layering.Graph
	columns  map[string]int
	rows     map[string]int
	back     [][2]string

	store     *placement.Store
	acc       *connector.Accumulator
	arrows    *arrows.Store
	arrowMeta map[string]arrowMeta
	updates   int
	pending   int
	stats     Stats
}

// New returns an engine with an empty topology.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		logger: log.Default(),
		store:  placement.New(cfg.Placement),
		arrows: arrows.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.store.Subscribe(func(c placement.Change) {
		if c.Kind != placement.ChangeReset && c.Kind != placement.ChangeRemoved {
			e.updates++
		}
	})
	e.clearTopology()
	return e
}

func (e *Engine) clearTopology() {
	e.snapshot = topology.Snapshot{}
	e.services = make(map[string]topology.Service)
	e.order = nil
	e.conns = topology.BuildConnections(nil)
	e.graph = layering.NewGraph()
	e.columns = make(map[string]int)
	e.rows = make(map[string]int)
	e.back = nil
	e.acc = connector.New(e.cfg.Connector, e.conns, e.store)
	e.arrowMeta = make(map[string]arrowMeta)
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// SetTopology replaces the topology. Links are folded, the connections graph
// is rebuilt, columns are reassigned and a relayout runs. Measured sizes of
// cards that survive the change are kept.
func (e *Engine) SetTopology(ctx context.Context, snap topology.Snapshot) error {
	snap.Services = slices.Clone(snap.Services)
	snap.Links = slices.Clone(snap.Links)
	snap.Normalize()
	if err := snap.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.snapshot = snap
	e.services = snap.ServiceMap()
	e.order = make([]string, 0, len(snap.Services))
	for _, svc := range snap.Services {
		e.order = append(e.order, svc.ID)
	}
	slices.Sort(e.order)

	e.conns = snap.Connections()
	e.graph = layering.FromConnections(e.conns, e.order)
	e.back = layering.BreakCycles(e.graph)
	e.columns = layering.AssignColumns(e.graph)
	e.acc.SetGraph(e.conns)
	e.arrows.Reset()
	e.pruneStore()

	if e.seedSizes {
		def := e.cfg.Placement.DefaultWH()
		for _, id := range e.order {
			if _, ok := e.store.CardWH(id); !ok {
				e.store.SetCardWH(id, def, e.cfg.Epsilon)
			}
		}
	}

	observability.Layout().OnTopologyChange(ctx, len(e.order), len(snap.Links))
	e.logger.Debug("topology changed",
		"cards", len(e.order),
		"links", len(snap.Links),
		"pairs", len(e.conns.Pairs()),
		"back_edges", len(e.back))

	return e.relayout(ctx)
}

// pruneStore drops placement entries of cards and access points that left
// the topology, so a card that returns later starts unmeasured.
func (e *Engine) pruneStore() {
	cards := make(map[string]bool, len(e.order))
	aps := make(map[string]bool)
	for _, id := range e.order {
		cards[id] = true
		for _, ap := range e.conns.AccessPoints(id) {
			aps[ap.ID()] = true
		}
	}
	n := e.store.Prune(
		func(id string) bool { return cards[id] },
		func(id string) bool { return aps[id] },
	)
	if n > 0 {
		e.logger.Debug("pruned placement entries", "removed", n)
	}
}

// MeasureCard records a measured card size. It returns whether the stored
// size changed by more than the configured epsilon, in which case a
// relayout ran. Measurements for cards outside the current topology are
// ignored.
func (e *Engine) MeasureCard(ctx context.Context, cardID string, width, height float64) (bool, error) {
	return e.MeasureCards(ctx, []Measurement{{CardID: cardID, Width: width, Height: height}})
}

// MeasureCards records a batch of measurements and relayouts at most once.
func (e *Engine) MeasureCards(ctx context.Context, ms []Measurement) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	changed := false
	for _, m := range ms {
		if _, ok := e.services[m.CardID]; !ok {
			e.logger.Debug("ignoring measurement for unknown card", "card", m.CardID)
			continue
		}
		c := e.measure(m)
		observability.Layout().OnMeasurement(ctx, m.CardID, c)
		changed = changed || c
	}
	if !changed {
		return false, nil
	}
	return true, e.relayout(ctx)
}

func (e *Engine) measure(m Measurement) bool {
	eps := e.cfg.Epsilon
	changed := false
	if m.Width > 0 && e.store.SetCardWidth(m.CardID, m.Width, eps) {
		changed = true
	}
	if m.Height > 0 && e.store.SetCardHeight(m.CardID, m.Height, eps) {
		changed = true
	}
	return changed
}

// Relayout recomputes placement, connectors and arrows for the current
// topology and sizes.
func (e *Engine) Relayout(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.relayout(ctx)
}

func (e *Engine) relayout(ctx context.Context) error {
	start := time.Now()
	observability.Layout().OnRelayoutStart(ctx, len(e.order))
	e.updates = 0

	err := e.run()

	e.stats = Stats{
		Cards:      len(e.order),
		Placed:     e.placedCount(),
		Connectors: e.acc.Len(),
		Pending:    e.pending,
		Arrows:     e.arrows.Len(),
		Updates:    e.updates,
		BackEdges:  len(e.back),
		Duration:   time.Since(start),
	}
	observability.Layout().OnRelayoutComplete(ctx, len(e.order), e.stats.Duration, err)
	if err != nil {
		return err
	}

	e.logger.Debug("relayout complete",
		"cards", e.stats.Cards,
		"placed", e.stats.Placed,
		"connectors", e.stats.Connectors,
		"pending", e.stats.Pending,
		"arrows", e.stats.Arrows,
		"updates", e.stats.Updates,
		"duration", e.stats.Duration)
	return nil
}

func (e *Engine) run() error {
	eps := e.cfg.Epsilon

	// Placement.
	positions, rows := layering.Place(e.graph, e.columns, e.sizeOf, e.cfg.Layering)
	e.rows = rows
	for _, id := range e.order {
		e.store.SetCardPosition(id, positions[id], eps)
	}

	// Connector accumulation, both passes.
	e.acc.Reset()
	var anchored []topology.Pair
	e.pending = 0
	for _, p := range e.conns.Pairs() {
		if _, ok := e.acc.Accumulate(p.Sender, p.Receiver); !ok {
			e.pending++
			continue
		}
		anchored = append(anchored, p)
	}
	if err := e.acc.AdjustVertically(); err != nil {
		e.logger.Error("connector state out of sync, layout pass aborted", "err", err)
		return err
	}

	// Access point anchors.
	hh, rh := e.cfg.AccessPoints.HeaderHeight, e.cfg.AccessPoints.RowHeight
	for _, id := range e.order {
		box, ok := e.store.CardXYWH(id)
		if !ok {
			continue
		}
		for i, ap := range e.conns.AccessPoints(id) {
			xy := geom.XY{X: box.X, Y: box.Y + hh + (float64(i)+0.5)*rh}
			e.store.SetAccessPointCoords(ap.ID(), xy, eps)
		}
	}

	// Routing and arrow writes.
	e.arrows.Reset()
	clear(e.arrowMeta)
	rc := e.cfg.Routing
	for _, p := range anchored {
		sbox, _ := e.store.CardXYWH(p.Sender)
		rbox, _ := e.store.CardXYWH(p.Receiver)
		cid := topology.CardConnectorID(p.Receiver, e.conns.AccessPointIDs(p.Sender, p.Receiver))
		anchor, _ := e.acc.Point(cid)

		from := geom.XY{X: sbox.MaxX(), Y: sbox.MidY()}
		path := Route(from, anchor, []geom.XYWH{sbox, rbox.AddMargin(rc.BoxMargin)}, rc.PadX, rc.PadY)

		id := p.Sender + " -> " + cid
		e.arrows.AddPoints(id, path...)
		e.arrowMeta[id] = arrowMeta{kind: ArrowSender, from: p.Sender, to: cid, verdicts: e.pairVerdicts(p.Sender, p.Receiver)}
	}
	for _, c := range e.acc.Connectors() {
		for _, apID := range c.AccessPointIDs {
			apXY, ok := e.store.AccessPointXY(apID)
			if !ok {
				continue
			}
			id := c.ID + " -> " + apID
			e.arrows.AddPoints(id, c.Point, apXY)

			var vs topology.VerdictSet
			for _, s := range c.Senders {
				if l, ok := e.conns.Link(s, c.ReceiverID, apID); ok {
					vs = vs.Union(l.EffectiveVerdicts())
				}
			}
			e.arrowMeta[id] = arrowMeta{kind: ArrowAccessPoint, from: c.ID, to: apID, verdicts: vs}
		}
	}
	return nil
}

func (e *Engine) sizeOf(id string) geom.WH {
	if wh, ok := e.store.CardWH(id); ok {
		return wh
	}
	return e.cfg.Placement.DefaultWH()
}

func (e *Engine) pairVerdicts(sender, receiver string) topology.VerdictSet {
	var vs topology.VerdictSet
	for _, l := range e.conns.Links(sender, receiver) {
		vs = vs.Union(l.EffectiveVerdicts())
	}
	return vs
}

func (e *Engine) placedCount() int {
	n := 0
	for _, id := range e.order {
		if _, ok := e.store.CardXYWH(id); ok {
			n++
		}
	}
	return n
}

// Reset discards the topology and every stored position, size, anchor and
// arrow. Measurements arriving afterwards for old cards are ignored.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.Reset()
	e.arrows.Reset()
	e.clearTopology()
	e.stats = Stats{}
	e.logger.Debug("layout reset")
}

// Snapshot returns a copy of the current topology.
func (e *Engine) Snapshot() topology.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return topology.Snapshot{
		Services: slices.Clone(e.snapshot.Services),
		Links:    slices.Clone(e.snapshot.Links),
	}
}

// Stats returns statistics of the last relayout.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Frame returns a copy of the current geometry.
func (e *Engine) Frame() *Frame {
	e.mu.Lock()
	defer e.mu.Unlock()

	f := &Frame{
		Cards:        []Card{},
		AccessPoints: []AccessPoint{},
		Connectors:   e.acc.Connectors(),
		Arrows:       []Arrow{},
	}

	bounds := newBoundsBuilder()
	for _, id := range e.order {
		box, ok := e.store.CardXYWH(id)
		if !ok {
			f.Pending = append(f.Pending, id)
			continue
		}
		svc := e.services[id]
		card := Card{
			ID:        id,
			Caption:   svc.Caption(),
			Namespace: svc.Namespace,
			Flags:     serviceFlags(svc),
			Box:       box,
			Column:    e.columns[id],
			Row:       e.rows[id],
		}
		for _, ap := range e.conns.AccessPoints(id) {
			card.AccessPoints = append(card.AccessPoints, ap.ID())
			if xy, ok := e.store.AccessPointXY(ap.ID()); ok {
				f.AccessPoints = append(f.AccessPoints, AccessPoint{
					ID:        ap.ID(),
					ServiceID: ap.ServiceID,
					Port:      ap.Port,
					Protocol:  ap.Protocol,
					Point:     xy,
				})
			}
		}
		f.Cards = append(f.Cards, card)
		bounds.addBox(box)
	}

	for _, c := range f.Connectors {
		bounds.addPoint(c.Point)
	}
	for _, a := range e.arrows.List() {
		m := e.arrowMeta[a.ID]
		f.Arrows = append(f.Arrows, Arrow{
			ID:       a.ID,
			Kind:     m.kind,
			From:     m.from,
			To:       m.to,
			Points:   a.Points,
			Verdicts: m.verdicts.List(),
		})
		for _, p := range a.Points {
			bounds.addPoint(p)
		}
	}
	f.Bounds = bounds.box()
	return f
}

type boundsBuilder struct {
	minX, minY, maxX, maxY float64
	empty                  bool
}

func newBoundsBuilder() *boundsBuilder {
	return &boundsBuilder{
		minX: math.Inf(1), minY: math.Inf(1),
		maxX: math.Inf(-1), maxY: math.Inf(-1),
		empty: true,
	}
}

func (b *boundsBuilder) addPoint(p geom.XY) {
	b.minX, b.minY = math.Min(b.minX, p.X), math.Min(b.minY, p.Y)
	b.maxX, b.maxY = math.Max(b.maxX, p.X), math.Max(b.maxY, p.Y)
	b.empty = false
}

func (b *boundsBuilder) addBox(r geom.XYWH) {
	b.addPoint(r.XY())
	b.addPoint(geom.XY{X: r.MaxX(), Y: r.MaxY()})
}

func (b *boundsBuilder) box() geom.XYWH {
	if b.empty {
		return geom.XYWH{}
	}
	return geom.XYWH{X: b.minX, Y: b.minY, W: b.maxX - b.minX, H: b.maxY - b.minY}
}
