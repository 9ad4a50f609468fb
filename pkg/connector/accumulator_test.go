package connector

import (
	"slices"
	"testing"

	"github.com/matzehuels/svcmap/pkg/errors"
	"github.com/matzehuels/svcmap/pkg/geom"
	"github.com/matzehuels/svcmap/pkg/placement"
	"github.com/matzehuels/svcmap/pkg/topology"
)

func place(s *placement.Store, id string, box geom.XYWH) {
	s.SetCardPosition(id, box.XY(), 0)
	s.SetCardWH(id, box.WH(), 0)
}

// scenario: A->B:80 and C->B:80 share an access point, D->B:443 does not.
func scenario() (*topology.Connections, *placement.Store) {
	conns := topology.BuildConnections([]topology.Link{
		{ID: "1", SourceID: "A", DestinationID: "B", DestinationPort: 80},
		{ID: "2", SourceID: "C", DestinationID: "B", DestinationPort: 80},
		{ID: "3", SourceID: "D", DestinationID: "B", DestinationPort: 443},
	})
	store := placement.New(placement.DefaultConfig())
	place(store, "A", geom.XYWH{X: 0, Y: 0, W: 100, H: 50})
	place(store, "C", geom.XYWH{X: 0, Y: 100, W: 100, H: 50})
	place(store, "D", geom.XYWH{X: 0, Y: 200, W: 100, H: 50})
	place(store, "B", geom.XYWH{X: 300, Y: 50, W: 100, H: 100})
	return conns, store
}

func TestAccumulate_Scenario(t *testing.T) {
	conns, store := scenario()
	acc := New(Config{Gap: 20, CardEndGap: 40}, conns, store)

	for _, p := range conns.Pairs() {
		if _, ok := acc.Accumulate(p.Sender, p.Receiver); !ok {
			t.Fatalf("Accumulate(%s, %s) = false", p.Sender, p.Receiver)
		}
	}
	if err := acc.AdjustVertically(); err != nil {
		t.Fatalf("AdjustVertically() error = %v", err)
	}

	cs := acc.Connectors()
	if len(cs) != 2 {
		t.Fatalf("Connectors() = %v, want 2 connectors on B", cs)
	}
	shared, single := cs[0], cs[1]
	if shared.ID != "cnctr-B-(ap-B-80)" || !slices.Equal(shared.Senders, []string{"A", "C"}) {
		t.Errorf("shared connector = %+v", shared)
	}
	if single.ID != "cnctr-B-(ap-B-443)" || !slices.Equal(single.Senders, []string{"D"}) {
		t.Errorf("single connector = %+v", single)
	}
	if shared.Point == single.Point {
		t.Errorf("connectors overlap at %v", shared.Point)
	}

	// midY = 100, two connectors: 100-10 and 100+10.
	if shared.Point != (geom.XY{X: 260, Y: 90}) || single.Point != (geom.XY{X: 260, Y: 110}) {
		t.Errorf("points = %v, %v, want (260,90) and (260,110)", shared.Point, single.Point)
	}
}

func TestAdjustVertically_ThreeConnectors(t *testing.T) {
	const g = 20
	conns := topology.BuildConnections([]topology.Link{
		{SourceID: "a", DestinationID: "r", DestinationPort: 1},
		{SourceID: "b", DestinationID: "r", DestinationPort: 2},
		{SourceID: "c", DestinationID: "r", DestinationPort: 3},
	})
	store := placement.New(placement.DefaultConfig())
	for i, id := range []string{"a", "b", "c"} {
		place(store, id, geom.XYWH{X: 0, Y: float64(i) * 100, W: 10, H: 10})
	}
	place(store, "r", geom.XYWH{X: 500, Y: 0, W: 10, H: 300})
	midY := 150.0

	acc := New(Config{Gap: g, CardEndGap: 40}, conns, store)
	for _, s := range []string{"a", "b", "c"} {
		acc.Accumulate(s, "r")
	}
	if err := acc.AdjustVertically(); err != nil {
		t.Fatal(err)
	}

	var ys []float64
	for _, c := range acc.Connectors() {
		ys = append(ys, c.Point.Y)
	}
	if want := []float64{midY - g, midY, midY + g}; !slices.Equal(ys, want) {
		t.Errorf("y values = %v, want %v", ys, want)
	}

	// Repeating the second pass must not shift the stack again.
	if err := acc.AdjustVertically(); err != nil {
		t.Fatal(err)
	}
	for i, c := range acc.Connectors() {
		if c.Point.Y != ys[i] {
			t.Errorf("second AdjustVertically() moved %s to %v", c.ID, c.Point.Y)
		}
	}
}

func TestAccumulate_Cached(t *testing.T) {
	conns, store := scenario()
	acc := New(DefaultConfig(), conns, store)

	first, _ := acc.Accumulate("A", "B")
	again, ok := acc.Accumulate("A", "B")
	if !ok || again != first {
		t.Errorf("repeated Accumulate() = %v, want cached %v", again, first)
	}
	viaC, _ := acc.Accumulate("C", "B")
	if viaC.ConnectorID != first.ConnectorID || viaC.Point != first.Point {
		t.Errorf("Accumulate(C, B) = %v, want shared connector %v", viaC, first)
	}
	if acc.Len() != 1 {
		t.Errorf("Len() = %d, want 1", acc.Len())
	}
}

func TestAccumulate_Missing(t *testing.T) {
	conns, _ := scenario()
	store := placement.New(placement.DefaultConfig())
	acc := New(DefaultConfig(), conns, store)

	if _, ok := acc.Accumulate("A", "B"); ok {
		t.Error("Accumulate() ok with no boxes")
	}

	place(store, "A", geom.XYWH{W: 10, H: 10})
	if _, ok := acc.Accumulate("A", "B"); ok {
		t.Error("Accumulate() ok without receiver box")
	}

	store.SetCardPosition("B", geom.XY{X: 100}, 0)
	if _, ok := acc.Accumulate("A", "B"); ok {
		t.Error("Accumulate() ok for an unmeasured receiver")
	}

	store.SetCardWH("B", geom.WH{W: 10, H: 10}, 0)
	if _, ok := acc.Accumulate("B", "A"); ok {
		t.Error("Accumulate() ok for a pair without access points")
	}
	if _, ok := acc.Accumulate("A", "B"); !ok {
		t.Error("Accumulate() = false once both cards are placed")
	}
}

func TestAdjustVertically_Desync(t *testing.T) {
	conns, store := scenario()
	acc := New(DefaultConfig(), conns, store)
	acc.Accumulate("A", "B")
	before, _ := acc.Point("cnctr-B-(ap-B-80)")

	acc.byCard["B"] = append(acc.byCard["B"], "cnctr-B-(ghost)")

	err := acc.AdjustVertically()
	if !errors.Is(err, errors.ErrCodeInconsistentState) {
		t.Fatalf("AdjustVertically() error = %v, want INCONSISTENT_STATE", err)
	}
	if acc.Adjusted() {
		t.Error("failed AdjustVertically() marked points as adjusted")
	}
	if after, _ := acc.Point("cnctr-B-(ap-B-80)"); after != before {
		t.Errorf("failed AdjustVertically() moved point %v -> %v", before, after)
	}
}

func TestReset(t *testing.T) {
	conns, store := scenario()
	acc := New(DefaultConfig(), conns, store)
	acc.Accumulate("A", "B")
	acc.Reset()

	if acc.Len() != 0 || len(acc.Connectors()) != 0 {
		t.Error("Reset() left connectors behind")
	}
	if _, ok := acc.Point("cnctr-B-(ap-B-80)"); ok {
		t.Error("Point() found a connector after Reset()")
	}
	if _, ok := acc.Bounds(); ok {
		t.Error("Bounds() ok after Reset()")
	}
}

func TestBounds(t *testing.T) {
	conns, store := scenario()
	acc := New(Config{Gap: 20, CardEndGap: 40}, conns, store)
	acc.Accumulate("A", "B")
	acc.Accumulate("D", "B")

	got, ok := acc.Bounds()
	if !ok || got != (geom.XYWH{X: 260, Y: 100, W: 0, H: 20}) {
		t.Errorf("Bounds() = %v, %v", got, ok)
	}
}
