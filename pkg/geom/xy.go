package geom

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used by intersection and equality checks.
const Epsilon = 0.005

// XY is a point (or vector) in pixel-equivalent units.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + q.
func (p XY) Add(q XY) XY { return XY{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p - q.
func (p XY) Sub(q XY) XY { return XY{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p multiplied by k.
func (p XY) Scale(k float64) XY { return XY{X: p.X * k, Y: p.Y * k} }

// Len returns the vector length of p.
func (p XY) Len() float64 { return math.Hypot(p.X, p.Y) }

// Distance returns the euclidean distance between p and q.
func (p XY) Distance(q XY) float64 { return q.Sub(p).Len() }

// Equals reports whether p and q differ by at most eps on both axes.
func (p XY) Equals(q XY, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

func (p XY) String() string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }

// Segment is a pair of points. The order of A and B is significant only for
// callers that care about direction.
type Segment struct {
	A XY `json:"a"`
	B XY `json:"b"`
}

// Intersect returns the crossing point of s and o.
func (s Segment) Intersect(o Segment) (XY, bool) {
	return SegmentsIntersection(s.A, s.B, o.A, o.B, false)
}

// Len returns the segment length.
func (s Segment) Len() float64 { return s.A.Distance(s.B) }

// Midpoint returns the point halfway between A and B.
func (s Segment) Midpoint() XY {
	return XY{X: (s.A.X + s.B.X) / 2, Y: (s.A.Y + s.B.Y) / 2}
}
