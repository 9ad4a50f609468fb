package placement

import (
	"maps"
	"math"
	"slices"

	"github.com/matzehuels/svcmap/pkg/geom"
)

// Default card size used until a card has been measured.
const (
	DefaultCardWidth  = 350
	DefaultCardHeight = 200
)

// Config holds the default dimensions substituted for unmeasured cards.
type Config struct {
	DefaultCardWidth  float64
	DefaultCardHeight float64
}

// DefaultConfig returns a Config with DefaultCardWidth and DefaultCardHeight.
func DefaultConfig() Config {
	return Config{DefaultCardWidth: DefaultCardWidth, DefaultCardHeight: DefaultCardHeight}
}

// DefaultWH returns the default card size.
func (c Config) DefaultWH() geom.WH {
	return geom.WH{W: c.DefaultCardWidth, H: c.DefaultCardHeight}
}

// ChangeKind identifies what a Change notification describes.
type ChangeKind int

const (
	ChangeCardDimensions ChangeKind = iota
	ChangeCardPosition
	ChangeAccessPoint
	ChangeReset
	ChangeRemoved
)

// Change is delivered to subscribers after a mutation recorded a change.
// ID is empty for ChangeReset. For ChangeRemoved it names the card or access
// point whose entries were dropped.
type Change struct {
	Kind ChangeKind
	ID   string
}

// Store holds card dimensions, card positions and access point anchors.
type Store struct {
	cfg       Config
	dims      map[string]geom.WH
	positions map[string]geom.XY
	anchors   map[string]geom.XY

	listeners map[int]func(Change)
	nextID    int
}

// New returns an empty store using cfg for unmeasured cards.
func New(cfg Config) *Store {
	return &Store{
		cfg:       cfg,
		dims:      make(map[string]geom.WH),
		positions: make(map[string]geom.XY),
		anchors:   make(map[string]geom.XY),
		listeners: make(map[int]func(Change)),
	}
}

// Config returns the store's configuration.
func (s *Store) Config() Config { return s.cfg }

// Subscribe registers fn to be called after every recorded change. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

func (s *Store) notify(kind ChangeKind, id string) {
	for _, fn := range s.listeners {
		fn(Change{Kind: kind, ID: id})
	}
}

func moved(old, cur, eps float64) bool {
	return math.Abs(cur-old) > eps
}

// SetCardWH stores both dimensions of a card. It reports whether the card
// was unmeasured or either dimension moved by more than eps.
func (s *Store) SetCardWH(cardID string, wh geom.WH, eps float64) bool {
	wh = geom.WH{W: math.Max(wh.W, 0), H: math.Max(wh.H, 0)}
	old, ok := s.dims[cardID]
	if ok && !moved(old.W, wh.W, eps) && !moved(old.H, wh.H, eps) {
		return false
	}
	s.dims[cardID] = wh
	s.notify(ChangeCardDimensions, cardID)
	return true
}

// SetCardWidth stores a card's width. An unmeasured card gets the default
// height. It reports whether the stored width changed by more than eps.
func (s *Store) SetCardWidth(cardID string, w, eps float64) bool {
	w = math.Max(w, 0)
	old, ok := s.dims[cardID]
	if !ok {
		old.H = s.cfg.DefaultCardHeight
	} else if !moved(old.W, w, eps) {
		return false
	}
	old.W = w
	s.dims[cardID] = old
	s.notify(ChangeCardDimensions, cardID)
	return true
}

// SetCardHeight stores a card's height. An unmeasured card gets the default
// width. It reports whether the stored height changed by more than eps.
func (s *Store) SetCardHeight(cardID string, h, eps float64) bool {
	h = math.Max(h, 0)
	old, ok := s.dims[cardID]
	if !ok {
		old.W = s.cfg.DefaultCardWidth
	} else if !moved(old.H, h, eps) {
		return false
	}
	old.H = h
	s.dims[cardID] = old
	s.notify(ChangeCardDimensions, cardID)
	return true
}

// SetCardPosition stores a card's top-left corner. It reports whether the
// card had no position or either coordinate moved by more than eps.
func (s *Store) SetCardPosition(cardID string, xy geom.XY, eps float64) bool {
	old, ok := s.positions[cardID]
	if ok && !moved(old.X, xy.X, eps) && !moved(old.Y, xy.Y, eps) {
		return false
	}
	s.positions[cardID] = xy
	s.notify(ChangeCardPosition, cardID)
	return true
}

// SetAccessPointCoords stores an access point anchor. It reports whether the
// anchor was absent or either coordinate moved by more than eps.
func (s *Store) SetAccessPointCoords(apID string, xy geom.XY, eps float64) bool {
	old, ok := s.anchors[apID]
	if ok && !moved(old.X, xy.X, eps) && !moved(old.Y, xy.Y, eps) {
		return false
	}
	s.anchors[apID] = xy
	s.notify(ChangeAccessPoint, apID)
	return true
}

// CardWH returns the measured dimensions of a card.
func (s *Store) CardWH(cardID string) (geom.WH, bool) {
	wh, ok := s.dims[cardID]
	return wh, ok
}

// CardPosition returns the stored position of a card.
func (s *Store) CardPosition(cardID string) (geom.XY, bool) {
	xy, ok := s.positions[cardID]
	return xy, ok
}

// CardXYWH returns the bounding box of a card that has both a position and
// dimensions.
func (s *Store) CardXYWH(cardID string) (geom.XYWH, bool) {
	xy, ok := s.positions[cardID]
	if !ok {
		return geom.XYWH{}, false
	}
	wh, ok := s.dims[cardID]
	if !ok {
		return geom.XYWH{}, false
	}
	return geom.NewBox(xy, wh), true
}

// CardXYWHOrDefault returns the card's bounding box, substituting what is
// missing. A positioned but unmeasured card gets the configured default
// size. A card without a position yields def; pass the zero box for a
// zero-sized default.
func (s *Store) CardXYWHOrDefault(cardID string, def geom.XYWH) geom.XYWH {
	xy, ok := s.positions[cardID]
	if !ok {
		return def
	}
	wh, ok := s.dims[cardID]
	if !ok {
		wh = s.cfg.DefaultWH()
	}
	return geom.NewBox(xy, wh)
}

// AccessPointXY returns the stored anchor of an access point.
func (s *Store) AccessPointXY(apID string) (geom.XY, bool) {
	xy, ok := s.anchors[apID]
	return xy, ok
}

// CardsBBoxes returns a copy of every placed card's bounding box.
func (s *Store) CardsBBoxes() map[string]geom.XYWH {
	out := make(map[string]geom.XYWH, s.NumCards())
	for id, xy := range s.positions {
		if wh, ok := s.dims[id]; ok {
			out[id] = geom.NewBox(xy, wh)
		}
	}
	return out
}

// AccessPointsCoords returns a copy of every access point anchor.
func (s *Store) AccessPointsCoords() map[string]geom.XY {
	return maps.Clone(s.anchors)
}

// NumCards returns min(number of positioned cards, number of measured cards).
func (s *Store) NumCards() int {
	return min(len(s.positions), len(s.dims))
}

// Prune drops the dimensions and position of every card for which keepCard
// is false, and every access point anchor for which keepAccessPoint is false.
// It returns the number of ids removed.
func (s *Store) Prune(keepCard, keepAccessPoint func(id string) bool) int {
	var removed []string
	for id := range s.dims {
		if !keepCard(id) {
			removed = append(removed, id)
		}
	}
	for id := range s.positions {
		if _, measured := s.dims[id]; !measured && !keepCard(id) {
			removed = append(removed, id)
		}
	}
	for _, id := range removed {
		delete(s.dims, id)
		delete(s.positions, id)
	}
	for id := range s.anchors {
		if !keepAccessPoint(id) {
			delete(s.anchors, id)
			removed = append(removed, id)
		}
	}
	slices.Sort(removed)
	for _, id := range removed {
		s.notify(ChangeRemoved, id)
	}
	return len(removed)
}

// Reset clears all three maps. No card identity survives a reset.
func (s *Store) Reset() {
	clear(s.dims)
	clear(s.positions)
	clear(s.anchors)
	s.notify(ChangeReset, "")
}
