// Package server exposes the layout engine over HTTP.
//
// Two kinds of clients are served:
//
//   - stateless: POST /api/layout takes a snapshot and returns a frame (or
//     an SVG/DOT rendering of it), reusing the pipeline's frame cache
//   - stateful: a view owns one [layout.Engine]. The client pushes
//     topology snapshots and measurement callbacks and reads frames back.
//     Idle views expire after the configured TTL.
//
// Errors are returned as JSON {"code", "message"} with the status derived
// from the error code, see [StatusFor].
//
// [layout.Engine]: github.com/matzehuels/svcmap/pkg/layout#Engine
package server
