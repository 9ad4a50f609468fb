package geom

import "math"

// line is the slope-intercept form y = k*x + b of a non-vertical segment.
// The intercept is taken through the segment midpoint so it does not depend
// on endpoint order.
type line struct{ k, b float64 }

func lineThrough(p, q XY) line {
	k := (q.Y - p.Y) / (q.X - p.X)
	mx, my := (p.X+q.X)/2, (p.Y+q.Y)/2
	return line{k: k, b: my - k*mx}
}

func (l line) at(x float64) float64 { return l.k*x + l.b }

// SegmentsIntersection returns the intersection of segments p1-p2 and p3-p4.
//
// When lineMode is true the segments are treated as infinite lines. Otherwise
// an intersection outside the extent of either segment is discarded, with
// [Epsilon] of slack to absorb rounding at endpoints.
//
// Both segments vertical, or slopes equal within [Epsilon] (which includes
// both horizontal), report no intersection. The result does not depend on
// argument pair order or on endpoint order within a pair.
func SegmentsIntersection(p1, p2, p3, p4 XY, lineMode bool) (XY, bool) {
	vert1 := math.Abs(p2.X-p1.X) < Epsilon
	vert2 := math.Abs(p4.X-p3.X) < Epsilon

	var x, y float64
	switch {
	case vert1 && vert2:
		return XY{}, false
	case vert1:
		x = (p1.X + p2.X) / 2
		y = lineThrough(p3, p4).at(x)
	case vert2:
		x = (p3.X + p4.X) / 2
		y = lineThrough(p1, p2).at(x)
	default:
		l1, l2 := lineThrough(p1, p2), lineThrough(p3, p4)
		if math.Abs(l1.k-l2.k) < Epsilon {
			return XY{}, false
		}
		x = (l2.b - l1.b) / (l1.k - l2.k)
		y = (l1.at(x) + l2.at(x)) / 2
	}

	pt := XY{X: x, Y: y}
	if lineMode {
		return pt, true
	}
	if !withinExtent(pt, p1, p2) || !withinExtent(pt, p3, p4) {
		return XY{}, false
	}
	return pt, true
}

func withinExtent(pt, a, b XY) bool {
	return pt.X >= math.Min(a.X, b.X)-Epsilon && pt.X <= math.Max(a.X, b.X)+Epsilon &&
		pt.Y >= math.Min(a.Y, b.Y)-Epsilon && pt.Y <= math.Max(a.Y, b.Y)+Epsilon
}
