package svg

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/svcmap/pkg/layout"
	"github.com/matzehuels/svcmap/pkg/render"
	"github.com/matzehuels/svcmap/pkg/topology"
)

func testFrame(t *testing.T) *layout.Frame {
	t.Helper()
	e := layout.New(layout.DefaultConfig(), layout.WithDefaultSizes())
	snap := topology.Snapshot{
		Services: []topology.Service{
			{ID: "A", Name: "frontend", Namespace: "shop"},
			{ID: "B", Name: "api <v2>"},
			{ID: "W", Labels: []string{topology.LabelWorld}},
		},
		Links: []topology.Link{
			{ID: "1", SourceID: "A", DestinationID: "B", DestinationPort: 80, IPProtocol: topology.ProtocolTCP, Verdict: topology.VerdictForwarded},
			{ID: "2", SourceID: "W", DestinationID: "B", DestinationPort: 443, IPProtocol: topology.ProtocolTCP, Verdict: topology.VerdictDropped},
		},
	}
	if err := e.SetTopology(context.Background(), snap); err != nil {
		t.Fatalf("SetTopology() error: %v", err)
	}
	return e.Frame()
}

func TestRender(t *testing.T) {
	out := string(Render(testFrame(t)))

	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Errorf("Render() does not start with an svg root: %.80s", out)
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("Render() not terminated")
	}

	for _, want := range []string{
		`<g id="card-A">`,
		`<g id="card-B">`,
		`class="card world"`,
		">frontend</text>",
		">shop</text>",
		">api &lt;v2&gt;</text>",
		">80/TCP</text>",
		`id="ap-B-443"`,
		`class="connector"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q", want)
		}
	}
}

func TestRender_ArrowColors(t *testing.T) {
	out := string(Render(testFrame(t)))

	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "<polyline") {
			continue
		}
		switch {
		case strings.Contains(line, `id="W -&gt; `):
			if !strings.Contains(line, render.ColorDropped) {
				t.Errorf("dropped sender arrow not red: %s", line)
			}
		case strings.Contains(line, `id="A -&gt; `):
			if !strings.Contains(line, render.ColorForwarded) {
				t.Errorf("forwarded sender arrow not green: %s", line)
			}
		}
	}
	if n := strings.Count(out, "<polyline"); n != 4 {
		t.Errorf("polyline count = %d, want 4", n)
	}
}

func TestRender_Options(t *testing.T) {
	f := testFrame(t)

	out := string(Render(f, WithTitle("a & b"), WithoutAccessPointLabels(), WithPadding(0)))
	if !strings.Contains(out, "<title>a &amp; b</title>") {
		t.Error("WithTitle() not rendered or not escaped")
	}
	if strings.Contains(out, `class="ap-label"`) {
		t.Error("WithoutAccessPointLabels() still renders labels")
	}
	b := f.Bounds
	want := `viewBox="` + num(b.X) + " " + num(b.Y) + " " + num(b.W) + " " + num(b.H) + `"`
	if !strings.Contains(out, want) {
		t.Errorf("WithPadding(0) viewBox want %s", want)
	}
}

func TestRender_Deterministic(t *testing.T) {
	f := testFrame(t)
	if string(Render(f)) != string(Render(f)) {
		t.Error("Render() output differs between runs")
	}
}

func TestRender_EmptyFrame(t *testing.T) {
	out := string(Render(&layout.Frame{}))
	if !strings.Contains(out, `viewBox="-20 -20 40 40"`) {
		t.Errorf("empty frame viewBox wrong: %s", out)
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{10, "10"},
		{1.5, "1.5"},
		{1.234, "1.23"},
		{-2.5, "-2.5"},
	}
	for _, tt := range tests {
		if got := num(tt.in); got != tt.want {
			t.Errorf("num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
