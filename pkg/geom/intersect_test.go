package geom

import (
	"math/rand"
	"testing"
)

func TestSegmentsIntersection_Known(t *testing.T) {
	tests := []struct {
		name           string
		p1, p2, p3, p4 XY
		lineMode       bool
		want           XY
		wantOK         bool
	}{
		{
			name: "horizontal vs vertical",
			p1:   XY{0, 0}, p2: XY{10, 0},
			p3: XY{5, 5}, p4: XY{5, -5},
			want: XY{5, 0}, wantOK: true,
		},
		{
			name: "parallel horizontal",
			p1:   XY{0, 0}, p2: XY{10, 0},
			p3: XY{0, 5}, p4: XY{10, 5},
		},
		{
			name: "both vertical",
			p1:   XY{0, 0}, p2: XY{0, 10},
			p3: XY{0, 5}, p4: XY{0, 20},
		},
		{
			name: "diagonals cross",
			p1:   XY{0, 0}, p2: XY{10, 10},
			p3: XY{0, 10}, p4: XY{10, 0},
			want: XY{5, 5}, wantOK: true,
		},
		{
			name: "equal slopes within tolerance",
			p1:   XY{0, 0}, p2: XY{10, 10},
			p3: XY{0, 1}, p4: XY{10, 11.001},
		},
		{
			name: "out of extent",
			p1:   XY{0, 0}, p2: XY{4, 0},
			p3: XY{5, 5}, p4: XY{5, -5},
		},
		{
			name: "out of extent in line mode",
			p1:   XY{0, 0}, p2: XY{4, 0},
			p3: XY{5, 5}, p4: XY{5, -5},
			lineMode: true,
			want:     XY{5, 0}, wantOK: true,
		},
		{
			name: "touching at endpoint",
			p1:   XY{0, 0}, p2: XY{5, 0},
			p3: XY{5, 5}, p4: XY{5, 0},
			want: XY{5, 0}, wantOK: true,
		},
		{
			name: "vertical vs sloped",
			p1:   XY{2, -10}, p2: XY{2, 10},
			p3: XY{0, 0}, p4: XY{4, 8},
			want: XY{2, 4}, wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SegmentsIntersection(tt.p1, tt.p2, tt.p3, tt.p4, tt.lineMode)
			if ok != tt.wantOK {
				t.Fatalf("SegmentsIntersection() ok = %v, want %v (point %v)", ok, tt.wantOK, got)
			}
			if ok && !got.Equals(tt.want, 1e-9) {
				t.Errorf("SegmentsIntersection() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSegmentsIntersection_Commutative(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pt := func() XY {
		// Integer grid points produce plenty of vertical, horizontal
		// and parallel pairs alongside general ones.
		return XY{X: float64(rng.Intn(21) - 10), Y: float64(rng.Intn(21) - 10)}
	}

	hits := 0
	for i := 0; i < 5000; i++ {
		p1, p2, p3, p4 := pt(), pt(), pt(), pt()

		a, okA := SegmentsIntersection(p1, p2, p3, p4, false)
		b, okB := SegmentsIntersection(p2, p1, p4, p3, false)
		c, okC := SegmentsIntersection(p3, p4, p1, p2, false)

		if okA != okB || okA != okC {
			t.Fatalf("ok mismatch for %v %v %v %v: %v %v %v", p1, p2, p3, p4, okA, okB, okC)
		}
		if !okA {
			continue
		}
		hits++
		if !a.Equals(b, 1e-9) || !a.Equals(c, 1e-9) {
			t.Fatalf("point mismatch for %v %v %v %v: %v %v %v", p1, p2, p3, p4, a, b, c)
		}
	}
	if hits == 0 {
		t.Error("generator produced no intersecting pairs")
	}
}

func TestSegmentIntersect(t *testing.T) {
	s := Segment{A: XY{0, 0}, B: XY{10, 0}}
	o := Segment{A: XY{5, 5}, B: XY{5, -5}}
	got, ok := s.Intersect(o)
	if !ok || !got.Equals(XY{5, 0}, 1e-9) {
		t.Errorf("Intersect() = %v, %v, want (5,0), true", got, ok)
	}
}
