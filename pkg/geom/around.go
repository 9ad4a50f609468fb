package geom

import "slices"

// boxHit is an intersection of a path with one box side.
type boxHit struct {
	pt   XY
	side Position // Top, Bottom, Left or Right
	dist float64  // distance from the path start
}

// GoAroundTheBox returns a polyline from from to to that does not cut
// through box. If the straight segment crosses fewer than two box edges it is
// returned unchanged as [from, to]. Otherwise one waypoint is placed outside
// the relevant corner, offset by (padX, padY), and if the rest of the path
// still crosses the box a second waypoint is added the same way. The result
// has 2, 3 or 4 points.
//
// # Algorithm
//
// The segment is intersected with the four sides and the two hits closest to
// from are taken as entry and exit. The sides they lie on pick the corner:
//   - Adjacent sides (the segment clips a corner): that corner.
//   - Top and Bottom: the entry side on the half (Left or Right) holding the
//     midpoint of the two hits.
//   - Left and Right: the entry side on the half (Top or Bottom) holding the
//     midpoint of the two hits.
//
// If the chosen waypoint coincides with from, the corner on the exit side is
// used instead, so a path that starts on a corner still makes progress.
//
// # Limits
//
// Only box is considered. A waypoint may land inside another box, and a later
// detour may lead back through this one; callers that route around several
// boxes re-check every segment until a pass adds no waypoint.
func GoAroundTheBox(box XYWH, from, to XY, padX, padY float64) []XY {
	w1, ok := aroundPoint(box, from, to, padX, padY)
	if !ok {
		return []XY{from, to}
	}
	path := []XY{from, w1}
	if w2, ok := aroundPoint(box, w1, to, padX, padY); ok && !w2.Equals(w1, Epsilon) {
		path = append(path, w2)
	}
	return append(path, to)
}

// CrossesBox reports whether the segment from-to passes through box, that is
// whether it meets at least two distinct points of the box boundary.
func CrossesBox(box XYWH, from, to XY) bool {
	return len(boxHits(box, from, to)) >= 2
}

// aroundPoint returns the detour waypoint for the segment from-to, or false
// if the segment does not cross the box.
func aroundPoint(box XYWH, from, to XY, padX, padY float64) (XY, bool) {
	hits := boxHits(box, from, to)
	if len(hits) < 2 {
		return XY{}, false
	}
	entry, exit := hits[0], hits[1]
	center := box.Center()

	var corner, fallback Position
	switch sides := entry.side | exit.side; sides {
	case Top | Bottom:
		column := Right
		if (entry.pt.X+exit.pt.X)/2 <= center.X {
			column = Left
		}
		corner, fallback = entry.side|column, exit.side|column
	case Left | Right:
		row := Bottom
		if (entry.pt.Y+exit.pt.Y)/2 <= center.Y {
			row = Top
		}
		corner, fallback = row|entry.side, row|exit.side
	default:
		// Two adjacent sides: the path cuts one corner.
		corner, fallback = sides, sides
	}

	wp := offsetCorner(box, corner, padX, padY)
	if wp.Equals(from, Epsilon) {
		wp = offsetCorner(box, fallback, padX, padY)
	}
	return wp, true
}

func offsetCorner(box XYWH, corner Position, padX, padY float64) XY {
	p := box.Corner(corner)
	if corner.IsLeft() {
		p.X -= padX
	} else {
		p.X += padX
	}
	if corner.IsTop() {
		p.Y -= padY
	} else {
		p.Y += padY
	}
	return p
}

// boxHits intersects from-to with the four box sides, ordered by distance
// from from. Hits that coincide (a path through a corner) are kept once.
func boxHits(box XYWH, from, to XY) []boxHit {
	s := box.Sides()
	candidates := [...]struct {
		seg  Segment
		side Position
	}{
		{s.Top, Top},
		{s.Bottom, Bottom},
		{s.Left, Left},
		{s.Right, Right},
	}

	hits := make([]boxHit, 0, 4)
	for _, c := range candidates {
		pt, ok := SegmentsIntersection(from, to, c.seg.A, c.seg.B, false)
		if !ok {
			continue
		}
		hits = append(hits, boxHit{pt: pt, side: c.side, dist: from.Distance(pt)})
	}
	slices.SortStableFunc(hits, func(a, b boxHit) int {
		switch {
		case a.dist < b.dist:
			return -1
		case a.dist > b.dist:
			return 1
		}
		return 0
	})

	out := hits[:0]
	for _, h := range hits {
		if len(out) > 0 && out[len(out)-1].pt.Equals(h.pt, 2*Epsilon) {
			continue
		}
		out = append(out, h)
	}
	return out
}
