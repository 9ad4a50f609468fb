// Package arrows holds the routed polylines that renderers draw.
//
// The [Store] maps an arrow id to its ordered point list. Arrows grow by
// appending points; there is no point removal, so stale arrows are only
// discarded by [Store.Reset]. Every read returns a copy.
package arrows

import (
	"maps"
	"slices"

	"github.com/matzehuels/svcmap/pkg/geom"
)

// Arrow is one rendered connector path.
type Arrow struct {
	ID     string    `json:"id"`
	Points []geom.XY `json:"points"`
}

// Store is the arrow map. It is not safe for concurrent use.
type Store struct {
	arrows    map[string]*Arrow
	listeners map[int]func(id string)
	nextID    int
}

// New returns an empty store.
func New() *Store {
	return &Store{
		arrows:    make(map[string]*Arrow),
		listeners: make(map[int]func(string)),
	}
}

// Subscribe registers fn to be called with the arrow id after every append,
// and with the empty id after Reset. The returned function removes the
// subscription.
func (s *Store) Subscribe(fn func(id string)) (unsubscribe func()) {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

func (s *Store) notify(id string) {
	for _, fn := range s.listeners {
		fn(id)
	}
}

// AddPoint appends p to the arrow, creating the arrow if absent.
func (s *Store) AddPoint(arrowID string, p geom.XY) {
	s.add(arrowID, p)
	s.notify(arrowID)
}

// AddPoints appends ps in order, creating the arrow if absent.
func (s *Store) AddPoints(arrowID string, ps ...geom.XY) {
	s.add(arrowID, ps...)
	s.notify(arrowID)
}

func (s *Store) add(arrowID string, ps ...geom.XY) {
	a, ok := s.arrows[arrowID]
	if !ok {
		a = &Arrow{ID: arrowID}
		s.arrows[arrowID] = a
	}
	a.Points = append(a.Points, ps...)
}

// Arrow returns a copy of one arrow.
func (s *Store) Arrow(arrowID string) (Arrow, bool) {
	a, ok := s.arrows[arrowID]
	if !ok {
		return Arrow{}, false
	}
	return Arrow{ID: a.ID, Points: slices.Clone(a.Points)}, true
}

// Arrows returns a deep copy of the arrow map.
func (s *Store) Arrows() map[string]Arrow {
	out := make(map[string]Arrow, len(s.arrows))
	for id, a := range s.arrows {
		out[id] = Arrow{ID: a.ID, Points: slices.Clone(a.Points)}
	}
	return out
}

// List returns copies of every arrow ordered by id.
func (s *Store) List() []Arrow {
	out := make([]Arrow, 0, len(s.arrows))
	for _, id := range slices.Sorted(maps.Keys(s.arrows)) {
		a := s.arrows[id]
		out = append(out, Arrow{ID: a.ID, Points: slices.Clone(a.Points)})
	}
	return out
}

// Len returns the number of arrows.
func (s *Store) Len() int { return len(s.arrows) }

// Reset discards every arrow.
func (s *Store) Reset() {
	clear(s.arrows)
	s.notify("")
}
