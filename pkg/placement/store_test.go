package placement

import (
	"testing"

	"github.com/matzehuels/svcmap/pkg/geom"
)

func TestSetCardHeight_EpsilonGating(t *testing.T) {
	s := New(DefaultConfig())
	const eps = 0.5

	if !s.SetCardHeight("a", 100, eps) {
		t.Error("first SetCardHeight() = false, want true")
	}
	if s.SetCardHeight("a", 100, eps) {
		t.Error("repeated SetCardHeight() = true, want false")
	}
	if s.SetCardHeight("a", 100+eps/2, eps) {
		t.Error("SetCardHeight(h+eps/2) = true, want false")
	}
	if !s.SetCardHeight("a", 101, eps) {
		t.Error("SetCardHeight(h+1) = false, want true")
	}

	wh, _ := s.CardWH("a")
	if wh.H != 101 || wh.W != DefaultCardWidth {
		t.Errorf("CardWH() = %v, want {%d 101}", wh, DefaultCardWidth)
	}
}

func TestSetCardWidth(t *testing.T) {
	s := New(Config{DefaultCardWidth: 10, DefaultCardHeight: 20})

	if !s.SetCardWidth("a", 50, 0) {
		t.Error("first SetCardWidth() = false")
	}
	if s.SetCardWidth("a", 50, 0) {
		t.Error("repeated SetCardWidth() = true")
	}
	if wh, _ := s.CardWH("a"); wh != (geom.WH{W: 50, H: 20}) {
		t.Errorf("CardWH() = %v, want {50 20}", wh)
	}
}

func TestSetCardWidthHeight_NegativeClampsBeforeGating(t *testing.T) {
	s := New(DefaultConfig())

	s.SetCardWidth("a", 0, 0.5)
	if s.SetCardWidth("a", -30, 0.5) {
		t.Error("SetCardWidth(-30) after 0 = true, want false")
	}
	s.SetCardHeight("a", 0, 0.5)
	if s.SetCardHeight("a", -30, 0.5) {
		t.Error("SetCardHeight(-30) after 0 = true, want false")
	}
	if wh, _ := s.CardWH("a"); wh != (geom.WH{}) {
		t.Errorf("CardWH() = %v, want zero size", wh)
	}
}

func TestPrune(t *testing.T) {
	s := New(DefaultConfig())
	s.SetCardWH("a", geom.WH{W: 1, H: 1}, 0)
	s.SetCardPosition("a", geom.XY{}, 0)
	s.SetCardWH("b", geom.WH{W: 1, H: 1}, 0)
	s.SetCardPosition("c", geom.XY{}, 0)
	s.SetAccessPointCoords("ap-a-80", geom.XY{}, 0)
	s.SetAccessPointCoords("ap-b-80", geom.XY{}, 0)

	var got []Change
	s.Subscribe(func(c Change) { got = append(got, c) })

	n := s.Prune(
		func(id string) bool { return id == "a" },
		func(id string) bool { return id == "ap-a-80" },
	)
	if n != 3 {
		t.Errorf("Prune() = %d, want 3", n)
	}
	if _, ok := s.CardXYWH("a"); !ok {
		t.Error("kept card a lost its box")
	}
	if _, ok := s.CardWH("b"); ok {
		t.Error("card b kept its size")
	}
	if _, ok := s.CardPosition("c"); ok {
		t.Error("card c kept its position")
	}
	if _, ok := s.AccessPointXY("ap-b-80"); ok {
		t.Error("ap-b-80 kept its anchor")
	}
	want := []Change{
		{Kind: ChangeRemoved, ID: "ap-b-80"},
		{Kind: ChangeRemoved, ID: "b"},
		{Kind: ChangeRemoved, ID: "c"},
	}
	if len(got) != len(want) {
		t.Fatalf("changes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("change %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSetCardWH(t *testing.T) {
	s := New(DefaultConfig())
	tests := []struct {
		name string
		wh   geom.WH
		want bool
	}{
		{"first", geom.WH{W: 100, H: 50}, true},
		{"same", geom.WH{W: 100, H: 50}, false},
		{"noise", geom.WH{W: 100.4, H: 49.6}, false},
		{"height moved", geom.WH{W: 100, H: 60}, true},
		{"negative clamps", geom.WH{W: -5, H: 60}, true},
	}
	for _, tt := range tests {
		if got := s.SetCardWH("a", tt.wh, 0.5); got != tt.want {
			t.Errorf("%s: SetCardWH(%v) = %v, want %v", tt.name, tt.wh, got, tt.want)
		}
	}
	if wh, _ := s.CardWH("a"); wh.W != 0 {
		t.Errorf("negative width stored as %v", wh.W)
	}
}

func TestSetAccessPointCoords(t *testing.T) {
	s := New(DefaultConfig())
	if !s.SetAccessPointCoords("ap-a-80", geom.XY{X: 1, Y: 1}, 0.5) {
		t.Error("first SetAccessPointCoords() = false")
	}
	if s.SetAccessPointCoords("ap-a-80", geom.XY{X: 1.2, Y: 0.9}, 0.5) {
		t.Error("SetAccessPointCoords() within eps = true")
	}
	if !s.SetAccessPointCoords("ap-a-80", geom.XY{X: 1, Y: 2}, 0.5) {
		t.Error("SetAccessPointCoords() beyond eps = false")
	}
	if xy, ok := s.AccessPointXY("ap-a-80"); !ok || xy != (geom.XY{X: 1, Y: 2}) {
		t.Errorf("AccessPointXY() = %v, %v", xy, ok)
	}
}

func TestCardXYWH_RequiresBoth(t *testing.T) {
	s := New(DefaultConfig())

	s.SetCardPosition("a", geom.XY{X: 10, Y: 20}, 0)
	if _, ok := s.CardXYWH("a"); ok {
		t.Error("CardXYWH() ok for a card without dimensions")
	}
	if s.NumCards() != 0 {
		t.Errorf("NumCards() = %d, want 0", s.NumCards())
	}

	s.SetCardWH("b", geom.WH{W: 1, H: 1}, 0)
	if _, ok := s.CardXYWH("b"); ok {
		t.Error("CardXYWH() ok for a card without position")
	}
	if s.NumCards() != 1 {
		t.Errorf("NumCards() = %d, want min(1, 1)", s.NumCards())
	}

	s.SetCardWH("a", geom.WH{W: 30, H: 40}, 0)
	box, ok := s.CardXYWH("a")
	if !ok || box != (geom.XYWH{X: 10, Y: 20, W: 30, H: 40}) {
		t.Errorf("CardXYWH() = %v, %v", box, ok)
	}
	if got := s.CardsBBoxes(); len(got) != 1 || got["a"] != box {
		t.Errorf("CardsBBoxes() = %v", got)
	}
}

func TestCardXYWHOrDefault(t *testing.T) {
	s := New(Config{DefaultCardWidth: 100, DefaultCardHeight: 50})
	def := geom.XYWH{X: -1, Y: -1, W: 2, H: 2}

	if got := s.CardXYWHOrDefault("a", def); got != def {
		t.Errorf("unknown card = %v, want caller default %v", got, def)
	}
	if got := s.CardXYWHOrDefault("a", geom.XYWH{}); got != (geom.XYWH{}) {
		t.Errorf("unknown card = %v, want zero box", got)
	}

	s.SetCardPosition("a", geom.XY{X: 5, Y: 6}, 0)
	if got := s.CardXYWHOrDefault("a", def); got != (geom.XYWH{X: 5, Y: 6, W: 100, H: 50}) {
		t.Errorf("unmeasured card = %v, want default size at its position", got)
	}

	s.SetCardWH("a", geom.WH{W: 7, H: 8}, 0)
	if got := s.CardXYWHOrDefault("a", def); got != (geom.XYWH{X: 5, Y: 6, W: 7, H: 8}) {
		t.Errorf("placed card = %v", got)
	}
}

func TestGettersReturnCopies(t *testing.T) {
	s := New(DefaultConfig())
	s.SetCardPosition("a", geom.XY{}, 0)
	s.SetCardWH("a", geom.WH{W: 1, H: 1}, 0)
	s.SetAccessPointCoords("ap", geom.XY{X: 1}, 0)

	boxes := s.CardsBBoxes()
	boxes["a"] = geom.XYWH{W: 99}
	delete(boxes, "a")
	if _, ok := s.CardXYWH("a"); !ok {
		t.Error("mutating CardsBBoxes() result changed the store")
	}

	coords := s.AccessPointsCoords()
	coords["ap"] = geom.XY{X: 42}
	if xy, _ := s.AccessPointXY("ap"); xy.X != 1 {
		t.Error("mutating AccessPointsCoords() result changed the store")
	}
}

func TestReset(t *testing.T) {
	s := New(DefaultConfig())
	s.SetCardPosition("a", geom.XY{}, 0)
	s.SetCardWH("a", geom.WH{W: 1, H: 1}, 0)
	s.SetAccessPointCoords("ap", geom.XY{}, 0)

	s.Reset()

	if s.NumCards() != 0 || len(s.CardsBBoxes()) != 0 || len(s.AccessPointsCoords()) != 0 {
		t.Error("Reset() left entries behind")
	}
	if !s.SetCardHeight("a", 1, 0) {
		t.Error("SetCardHeight() after Reset() = false, want true")
	}
}

func TestSubscribe(t *testing.T) {
	s := New(DefaultConfig())
	var got []Change
	unsubscribe := s.Subscribe(func(c Change) { got = append(got, c) })

	s.SetCardHeight("a", 10, 0)
	s.SetCardHeight("a", 10, 0)
	s.SetCardPosition("a", geom.XY{}, 0)
	s.Reset()
	unsubscribe()
	s.SetCardHeight("b", 10, 0)

	want := []Change{
		{Kind: ChangeCardDimensions, ID: "a"},
		{Kind: ChangeCardPosition, ID: "a"},
		{Kind: ChangeReset},
	}
	if len(got) != len(want) {
		t.Fatalf("changes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("change %d = %v, want %v", i, got[i], want[i])
		}
	}
}
