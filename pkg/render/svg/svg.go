// Package svg draws a layout frame as a standalone SVG document.
//
// The sink is a plain consumer of [layout.Frame]: it reads positions and
// never measures anything, so a frame rendered twice gives the same bytes.
//
//	data := svg.Render(frame, svg.WithPadding(40), svg.WithTitle("shop"))
//
// [layout.Frame]: github.com/matzehuels/svcmap/pkg/layout#Frame
package svg

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/matzehuels/svcmap/pkg/geom"
	"github.com/matzehuels/svcmap/pkg/layout"
	"github.com/matzehuels/svcmap/pkg/render"
	"github.com/matzehuels/svcmap/pkg/topology"
)

// Default rendering parameters.
const (
	DefaultPadding         = 20.0
	DefaultConnectorRadius = 4.0
	DefaultAccessPointSize = 8.0
)

const stylesheet = `
    .card { fill: #ffffff; stroke: #3d4a5c; stroke-width: 1.5; }
    .card.world, .card.host, .card.remote-node { fill: #f2f2f2; stroke-dasharray: 6 4; }
    .caption { font: bold 16px sans-serif; fill: #1f2933; }
    .namespace { font: 12px sans-serif; fill: #6b7786; }
    .ap { fill: #3d4a5c; }
    .ap-label { font: 12px monospace; fill: #3d4a5c; }
    .connector { fill: #3d4a5c; }
    .arrow { fill: none; stroke-width: 1.5; }
    .arrow.access-point { stroke-dasharray: 3 3; }`

// Option configures Render.
type Option func(*renderer)

type renderer struct {
	padding   float64
	title     string
	radius    float64
	apSize    float64
	noAPLabel bool
}

func WithPadding(px float64) Option { return func(r *renderer) { r.padding = px } }
func WithTitle(s string) Option     { return func(r *renderer) { r.title = s } }
func WithConnectorRadius(px float64) Option {
	return func(r *renderer) { r.radius = px }
}
func WithoutAccessPointLabels() Option { return func(r *renderer) { r.noAPLabel = true } }

// Render draws f. Cards come first, then arrows, then connector dots so the
// dots sit on top of the arrow ends.
func Render(f *layout.Frame, opts ...Option) []byte {
	r := renderer{
		padding: DefaultPadding,
		radius:  DefaultConnectorRadius,
		apSize:  DefaultAccessPointSize,
	}
	for _, opt := range opts {
		opt(&r)
	}

	view := f.Bounds.AddMargin(r.padding)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%.0f" height="%.0f">`+"\n",
		num(view.X), num(view.Y), num(view.W), num(view.H), view.W, view.H)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(r.title))
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", stylesheet)
	renderMarkers(&buf)

	aps := make(map[string]layout.AccessPoint, len(f.AccessPoints))
	for _, ap := range f.AccessPoints {
		aps[ap.ID] = ap
	}

	for _, c := range f.Cards {
		r.renderCard(&buf, c, aps)
	}
	for _, a := range f.Arrows {
		renderArrow(&buf, a)
	}
	for _, c := range f.Connectors {
		fmt.Fprintf(&buf, `  <circle class="connector" id="%s" cx="%s" cy="%s" r="%s"/>`+"\n",
			attr(c.ID), num(c.Point.X), num(c.Point.Y), num(r.radius))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderMarkers(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	for _, class := range []string{"forwarded", "dropped", "unknown"} {
		fmt.Fprintf(buf, `    <marker id="head-%s" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse">`+
			`<path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/></marker>`+"\n", class, markerColor(class))
	}
	buf.WriteString("  </defs>\n")
}

func markerColor(class string) string {
	switch class {
	case "dropped":
		return render.ColorDropped
	case "unknown":
		return render.ColorUnknown
	default:
		return render.ColorForwarded
	}
}

func (r renderer) renderCard(buf *bytes.Buffer, c layout.Card, aps map[string]layout.AccessPoint) {
	class := "card"
	if len(c.Flags) > 0 {
		class += " " + strings.Join(c.Flags, " ")
	}
	b := c.Box
	fmt.Fprintf(buf, `  <g id="card-%s">`+"\n", attr(c.ID))
	fmt.Fprintf(buf, `    <rect class="%s" x="%s" y="%s" width="%s" height="%s" rx="6"/>`+"\n",
		class, num(b.X), num(b.Y), num(b.W), num(b.H))
	fmt.Fprintf(buf, `    <text class="caption" x="%s" y="%s">%s</text>`+"\n",
		num(b.X+12), num(b.Y+26), html.EscapeString(c.Caption))
	if c.Namespace != "" {
		fmt.Fprintf(buf, `    <text class="namespace" x="%s" y="%s">%s</text>`+"\n",
			num(b.X+12), num(b.Y+44), html.EscapeString(c.Namespace))
	}
	for _, id := range c.AccessPoints {
		ap, ok := aps[id]
		if !ok {
			continue
		}
		r.renderAccessPoint(buf, ap)
	}
	buf.WriteString("  </g>\n")
}

func (r renderer) renderAccessPoint(buf *bytes.Buffer, ap layout.AccessPoint) {
	half := r.apSize / 2
	fmt.Fprintf(buf, `    <rect class="ap" id="%s" x="%s" y="%s" width="%s" height="%s"/>`+"\n",
		attr(ap.ID), num(ap.Point.X-half), num(ap.Point.Y-half), num(r.apSize), num(r.apSize))
	if r.noAPLabel {
		return
	}
	label := strconv.Itoa(ap.Port)
	if ap.Protocol != "" {
		label += "/" + string(ap.Protocol)
	}
	fmt.Fprintf(buf, `    <text class="ap-label" x="%s" y="%s">%s</text>`+"\n",
		num(ap.Point.X+half+6), num(ap.Point.Y+4), html.EscapeString(label))
}

func renderArrow(buf *bytes.Buffer, a layout.Arrow) {
	if len(a.Points) < 2 {
		return
	}
	vs := topology.VerdictsOf(a.Verdicts...)
	class := render.VerdictClass(vs)
	fmt.Fprintf(buf, `  <polyline class="arrow %s %s" id="%s" points="%s" stroke="%s" marker-end="url(#head-%s)"/>`+"\n",
		a.Kind, class, attr(a.ID), points(a.Points), render.VerdictColor(vs), class)
}

func points(ps []geom.XY) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = num(p.X) + "," + num(p.Y)
	}
	return strings.Join(parts, " ")
}

// num formats a coordinate with at most two decimals and no trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', -1, 64)
}

func round2(v float64) float64 {
	if v < 0 {
		return -round2(-v)
	}
	return float64(int64(v*100+0.5)) / 100
}

func attr(s string) string { return html.EscapeString(s) }
