// Package geom provides the 2D geometry primitives used by the service map
// layout engine.
//
// # Overview
//
// All types are small value types. [XY] is a point or vector, [XYWH] is an
// axis-aligned box given by its top-left corner and size, and [Segment] is a
// pair of points. None of them carry state beyond their fields, so copying a
// value is always safe.
//
// Coordinates follow the SVG convention: x grows to the right and y grows
// downward, so the "top" side of a box has the smallest y.
//
// # Intersections
//
// [SegmentsIntersection] computes the crossing point of two segments, or of
// their infinite extensions when lineMode is set. Parallel and degenerate
// inputs report no intersection. Comparisons use a fixed tolerance [Epsilon]
// so that crossings exactly at segment endpoints survive floating-point error.
//
// # Routing
//
// [GoAroundTheBox] produces a short polyline between two points that detours
// around a box instead of passing through it. It is a local correction, not a
// shortest-path search:
//
//	box := geom.BoxCenteredAt(geom.XY{}, 5, 5)
//	path := geom.GoAroundTheBox(box, geom.XY{X: -20}, geom.XY{X: 20}, 2, 2)
//	// path: (-20,0) (-7,-7) (7,-7) (20,0)
//
// # Position
//
// [Position] is a bitmask over {Top, Middle, Bottom} × {Left, Center, Right}
// used to classify where a point lies relative to a box, and which box side an
// intersection was found on.
package geom
