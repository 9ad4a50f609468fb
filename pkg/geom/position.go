package geom

import "strings"

// Position describes a placement relative to a box as a 6-bit mask: one bit
// from the vertical triplet {Top, Middle, Bottom} and one from the horizontal
// triplet {Left, Center, Right}. Vertical bits are the high bits, so comparing
// raw values orders rows before columns.
type Position uint8

const (
	Right Position = 1 << iota
	Center
	Left
	Bottom
	Middle
	Top
)

const (
	TopLeft      = Top | Left
	TopCenter    = Top | Center
	TopRight     = Top | Right
	MiddleLeft   = Middle | Left
	MiddleCenter = Middle | Center
	MiddleRight  = Middle | Right
	BottomLeft   = Bottom | Left
	BottomCenter = Bottom | Center
	BottomRight  = Bottom | Right
)

const (
	verticalMask   = Top | Middle | Bottom
	horizontalMask = Left | Center | Right
)

// Has reports whether every bit of q is set in p.
func (p Position) Has(q Position) bool { return q != 0 && p&q == q }

// Vertical returns only the vertical bits of p.
func (p Position) Vertical() Position { return p & verticalMask }

// Horizontal returns only the horizontal bits of p.
func (p Position) Horizontal() Position { return p & horizontalMask }

// IsTop reports whether the Top bit is set.
func (p Position) IsTop() bool { return p.Has(Top) }

// IsBottom reports whether the Bottom bit is set.
func (p Position) IsBottom() bool { return p.Has(Bottom) }

// IsLeft reports whether the Left bit is set.
func (p Position) IsLeft() bool { return p.Has(Left) }

// IsRight reports whether the Right bit is set.
func (p Position) IsRight() bool { return p.Has(Right) }

var positionNames = []struct {
	bit  Position
	name string
}{
	{Top, "top"},
	{Middle, "middle"},
	{Bottom, "bottom"},
	{Left, "left"},
	{Center, "center"},
	{Right, "right"},
}

func (p Position) String() string {
	if p == 0 {
		return "none"
	}
	var parts []string
	for _, pn := range positionNames {
		if p&pn.bit != 0 {
			parts = append(parts, pn.name)
		}
	}
	return strings.Join(parts, "-")
}
