package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/svcmap/pkg/render"
	"github.com/matzehuels/svcmap/pkg/topology"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the namespace to node labels and the verdict set to
	// edge labels. When false, nodes show the caption and edges the port.
	Detailed bool
}

// ToDOT converts a snapshot to Graphviz DOT. Services are emitted in
// snapshot order and folded links in first-occurrence order, so equal
// snapshots give byte-identical output.
//
// World, host and remote-node services are drawn grey and dashed.
func ToDOT(snap topology.Snapshot, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("  ranksep=1.0;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, svc := range snap.Services {
		fmt.Fprintf(&buf, "  %q [%s];\n", svc.ID, strings.Join(nodeAttrs(svc, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, l := range topology.FoldLinks(snap.Links) {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", l.SourceID, l.DestinationID, strings.Join(edgeAttrs(l, opts.Detailed), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(svc topology.Service, detailed bool) []string {
	label := svc.Caption()
	if detailed && svc.Namespace != "" {
		label += "\n" + svc.Namespace
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if svc.IsWorld() || svc.IsHost() || svc.IsRemoteNode() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

func edgeAttrs(l topology.Link, detailed bool) []string {
	vs := l.EffectiveVerdicts()
	label := strconv.Itoa(l.DestinationPort)
	if l.IPProtocol != "" {
		label += "/" + string(l.IPProtocol)
	}
	if detailed {
		label += "\n" + vs.String()
	}
	return []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("color=%q", render.VerdictColor(vs)),
		fmt.Sprintf("fontcolor=%q", render.VerdictColor(vs)),
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel viewBox so the output scales like the card view.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
