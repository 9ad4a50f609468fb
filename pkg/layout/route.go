package layout

import "github.com/matzehuels/svcmap/pkg/geom"

// maxRoutePasses bounds how often Route re-checks the boxes. Cards are
// separated by at least the column and row gaps, so a path settles in two
// or three passes.
const maxRoutePasses = 8

// Route returns a polyline from `from` to `to` that detours around each box.
//
// Boxes are visited in order, and every segment that cuts the current box is
// replaced by its detour around it. A detour around a later box can lead back
// through an earlier one (a back edge leaving its sender, then climbing over
// the receiver), so the boxes are visited again until a whole pass adds no
// waypoint, at most maxRoutePasses times.
func Route(from, to geom.XY, boxes []geom.XYWH, padX, padY float64) []geom.XY {
	path := []geom.XY{from, to}
	for range maxRoutePasses {
		changed := false
		for _, box := range boxes {
			var detoured bool
			path, detoured = routeAround(path, box, padX, padY)
			changed = changed || detoured
		}
		if !changed {
			break
		}
	}
	return path
}

// routeAround splices the detour around box into every segment of path that
// cuts it, and reports whether any segment did.
func routeAround(path []geom.XY, box geom.XYWH, padX, padY float64) ([]geom.XY, bool) {
	next := make([]geom.XY, 1, len(path)+2)
	next[0] = path[0]
	changed := false
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		if !geom.CrossesBox(box, a, b) {
			next = append(next, b)
			continue
		}
		detour := geom.GoAroundTheBox(box, a, b, padX, padY)
		next = append(next, detour[1:]...)
		changed = changed || len(detour) > 2
	}
	return next, changed
}
