package geom

import "math"

// WH is a width/height pair.
type WH struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// XYWH is an axis-aligned box with top-left corner (X, Y), width W and height H.
// W and H are never negative for boxes built by this package.
type XYWH struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Sides holds the four edges of a box. Top and Bottom run left to right,
// Left and Right run top to bottom.
type Sides struct {
	Top    Segment
	Bottom Segment
	Left   Segment
	Right  Segment
}

// NewBox builds a box from a corner and a size, clamping negative sizes to zero.
func NewBox(xy XY, wh WH) XYWH {
	return XYWH{X: xy.X, Y: xy.Y, W: math.Max(wh.W, 0), H: math.Max(wh.H, 0)}
}

// BoxCenteredAt builds a box centered at c with the given half-extents.
func BoxCenteredAt(c XY, halfW, halfH float64) XYWH {
	halfW, halfH = math.Abs(halfW), math.Abs(halfH)
	return XYWH{X: c.X - halfW, Y: c.Y - halfH, W: 2 * halfW, H: 2 * halfH}
}

// XY returns the top-left corner.
func (b XYWH) XY() XY { return XY{X: b.X, Y: b.Y} }

// WH returns the box size.
func (b XYWH) WH() WH { return WH{W: b.W, H: b.H} }

// MaxX returns the x coordinate of the right edge.
func (b XYWH) MaxX() float64 { return b.X + b.W }

// MaxY returns the y coordinate of the bottom edge.
func (b XYWH) MaxY() float64 { return b.Y + b.H }

// Center returns the box center.
func (b XYWH) Center() XY { return XY{X: b.X + b.W/2, Y: b.Y + b.H/2} }

// MidY returns the vertical midpoint.
func (b XYWH) MidY() float64 { return b.Y + b.H/2 }

// Corner returns the corner named by p. Positions that are not one of the four
// corners fall back to the matching edge midpoint or the center.
func (b XYWH) Corner(p Position) XY {
	x := b.Center().X
	switch {
	case p.IsLeft():
		x = b.X
	case p.IsRight():
		x = b.MaxX()
	}
	y := b.MidY()
	switch {
	case p.IsTop():
		y = b.Y
	case p.IsBottom():
		y = b.MaxY()
	}
	return XY{X: x, Y: y}
}

// Sides returns the four box edges.
func (b XYWH) Sides() Sides {
	tl := XY{X: b.X, Y: b.Y}
	tr := XY{X: b.MaxX(), Y: b.Y}
	bl := XY{X: b.X, Y: b.MaxY()}
	br := XY{X: b.MaxX(), Y: b.MaxY()}
	return Sides{
		Top:    Segment{A: tl, B: tr},
		Bottom: Segment{A: bl, B: br},
		Left:   Segment{A: tl, B: bl},
		Right:  Segment{A: tr, B: br},
	}
}

// AddMargin returns the box grown by px on every side. A negative margin
// shrinks the box but never below zero size.
func (b XYWH) AddMargin(px float64) XYWH {
	out := XYWH{X: b.X - px, Y: b.Y - px, W: b.W + 2*px, H: b.H + 2*px}
	if out.W < 0 {
		out.X, out.W = b.Center().X, 0
	}
	if out.H < 0 {
		out.Y, out.H = b.MidY(), 0
	}
	return out
}

// Contains reports whether p lies strictly inside the box, shrunk by eps.
func (b XYWH) Contains(p XY, eps float64) bool {
	return p.X > b.X+eps && p.X < b.MaxX()-eps && p.Y > b.Y+eps && p.Y < b.MaxY()-eps
}

// PositionOf classifies p against the box: Top/Middle/Bottom by y and
// Left/Center/Right by x, where Middle and Center mean within the box extent.
func (b XYWH) PositionOf(p XY) Position {
	var pos Position
	switch {
	case p.Y < b.Y:
		pos |= Top
	case p.Y > b.MaxY():
		pos |= Bottom
	default:
		pos |= Middle
	}
	switch {
	case p.X < b.X:
		pos |= Left
	case p.X > b.MaxX():
		pos |= Right
	default:
		pos |= Center
	}
	return pos
}

// Union returns the smallest box covering both b and o.
func (b XYWH) Union(o XYWH) XYWH {
	x := math.Min(b.X, o.X)
	y := math.Min(b.Y, o.Y)
	return XYWH{
		X: x,
		Y: y,
		W: math.Max(b.MaxX(), o.MaxX()) - x,
		H: math.Max(b.MaxY(), o.MaxY()) - y,
	}
}
