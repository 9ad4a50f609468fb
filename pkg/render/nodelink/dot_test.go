package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/svcmap/pkg/render"
	"github.com/matzehuels/svcmap/pkg/topology"
)

func testSnapshot() topology.Snapshot {
	return topology.Snapshot{
		Services: []topology.Service{
			{ID: "web", Name: "frontend", Namespace: "shop"},
			{ID: "api", Namespace: "shop"},
			{ID: "world", Labels: []string{topology.LabelWorld}},
		},
		Links: []topology.Link{
			{ID: "1", SourceID: "world", DestinationID: "web", DestinationPort: 443, IPProtocol: topology.ProtocolTCP, Verdict: topology.VerdictForwarded},
			{ID: "2", SourceID: "web", DestinationID: "api", DestinationPort: 8080, IPProtocol: topology.ProtocolTCP, Verdict: topology.VerdictForwarded},
			{ID: "3", SourceID: "web", DestinationID: "api", DestinationPort: 8080, IPProtocol: topology.ProtocolTCP, Verdict: topology.VerdictDropped},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testSnapshot(), Options{})

	for _, want := range []string{
		"digraph G {",
		`"web" [label="frontend"]`,
		`"api" [label="api"]`,
		`"world" [label="world", style="rounded,filled,dashed", fillcolor=lightgrey]`,
		`"world" -> "web" [label="443/TCP", color="` + render.ColorForwarded + `"`,
		`"web" -> "api" [label="8080/TCP", color="` + render.ColorDropped + `"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q in:\n%s", want, dot)
		}
	}
	if n := strings.Count(dot, `"web" -> "api"`); n != 1 {
		t.Errorf("folded edge count = %d, want 1", n)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(testSnapshot(), Options{Detailed: true})

	if !strings.Contains(dot, `label="frontend\nshop"`) {
		t.Errorf("detailed node label missing namespace:\n%s", dot)
	}
	if !strings.Contains(dot, `label="8080/TCP\n{forwarded,dropped}"`) {
		t.Errorf("detailed edge label missing verdicts:\n%s", dot)
	}
}

func TestToDOT_Deterministic(t *testing.T) {
	if ToDOT(testSnapshot(), Options{}) != ToDOT(testSnapshot(), Options{}) {
		t.Error("ToDOT() output differs between runs")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(testSnapshot(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("RenderSVG() root element not normalized: %.200s", svg)
	}
	if !strings.Contains(string(svg), "frontend") {
		t.Error("RenderSVG() output missing node label")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="x"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("normalizeViewBox() changed svg without viewBox")
	}
}
