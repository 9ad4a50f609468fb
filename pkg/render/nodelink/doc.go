// Package nodelink renders a topology snapshot as a classic node-link
// diagram laid out by Graphviz.
//
// # Overview
//
// The card layout in [layout] is the primary view. This package produces a
// second opinion: the same services and links handed to Graphviz, which
// makes it easy to spot a link that the card view hides or mis-anchors.
//
// # Usage
//
//	dot := nodelink.ToDOT(snap, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Links sharing (source, destination, port) are folded first, so each edge
// carries the union of its verdicts and is colored with
// [render.VerdictColor].
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
//
// [layout]: github.com/matzehuels/svcmap/pkg/layout
package nodelink
