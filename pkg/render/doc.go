// Package render holds what the frame renderers share.
//
// # Subpackages
//
//   - [svg]: draws a layout frame (cards, access points, connectors and
//     routed arrows) as a standalone SVG document
//   - [nodelink]: exports the raw topology as Graphviz DOT and lets
//     Graphviz lay it out, as a cross-check view
//
// # Verdict colors
//
// Both renderers color a link by the verdicts observed on it, see
// [VerdictColor].
//
// [svg]: github.com/matzehuels/svcmap/pkg/render/svg
// [nodelink]: github.com/matzehuels/svcmap/pkg/render/nodelink
package render
