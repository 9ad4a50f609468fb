// Package pkg provides the core libraries of svcmap, the service map layout
// engine.
//
// # Overview
//
// svcmap turns a topology snapshot (services, and the flow-level links
// observed between them) into geometry for a card view: every service is a
// card, receivers sit in columns to the right of their senders, a connector
// anchors on the receiver for each set of access points a sender reaches,
// and arrows are routed around the cards in between. The pkg directory is
// organized into four areas:
//
//  1. Data model: [topology], [geom]
//  2. Layout core: [placement], [layering], [connector], [arrows], [layout]
//  3. Output: [render], [render/svg], [render/nodelink], [pipeline]
//  4. Infrastructure: [cache], [config], [errors], [observability], [buildinfo]
//
// # Architecture
//
// The data flow through svcmap:
//
//	Flow export (JSON / YAML)
//	         ↓
//	    [topology] package (normalize, validate, connections)
//	         ↓
//	    [layout] package (columns → placement → connectors → arrows)
//	         ↓
//	    [layout.Frame]
//	         ↓
//	    [render/svg], [render/nodelink] (SVG, DOT)
//
// The engine is incremental: a renderer that measures its cards reports the
// sizes back and only the geometry depending on them is recomputed. The
// [pipeline] package wraps one full pass with default sizes and caching for
// stateless use by the CLI and the HTTP API.
//
// # Quick Start
//
//	snap, _ := topology.ImportSnapshot("flows.json")
//
//	engine := layout.New(layout.DefaultConfig())
//	_ = engine.SetTopology(ctx, *snap)
//	_, _ = engine.MeasureCard(ctx, "web", 220, 96)
//
//	out := svg.Render(engine.Frame())
//
// # Testing
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/geom/...         # Specific package
//	go test -run Example ./pkg/... # Examples only
//
// [topology]: https://pkg.go.dev/github.com/matzehuels/svcmap/pkg/topology
// [geom]: https://pkg.go.dev/github.com/matzehuels/svcmap/pkg/geom
// [placement]: https://pkg.go.dev/github.com/matzehuels/svcmap/pkg/placement
// [layering]: https://pkg.go.dev/github.com/matzehuels/svcmap/pkg/layering
// [connector]: https://pkg.go.dev/github.com/matzehuels/svcmap/pkg/connector
// [arrows]: https://pkg.go.dev/github.com/matzehuels/svcmap/pkg/arrows
// [layout]: https://pkg.go.dev/github.com/matzehuels/svcmap/pkg/layout
// [layout.Frame]: https://pkg.go.dev/github.com/matzehuels/svcmap/pkg/layout#Frame
// [render]: https://pkg.go.dev/github.com/matzehuels/svcmap/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/svcmap/pkg/render/svg
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/svcmap/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/svcmap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/svcmap/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/svcmap/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/svcmap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/svcmap/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/svcmap/pkg/buildinfo
package pkg
