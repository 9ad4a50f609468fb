package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/svcmap/pkg/cache"
	"github.com/matzehuels/svcmap/pkg/errors"
	"github.com/matzehuels/svcmap/pkg/layout"
	"github.com/matzehuels/svcmap/pkg/observability"
	"github.com/matzehuels/svcmap/pkg/topology"
)

func testSnapshot() topology.Snapshot {
	return topology.Snapshot{
		Services: []topology.Service{{ID: "A", Name: "frontend"}, {ID: "B"}},
		Links: []topology.Link{
			{ID: "1", SourceID: "A", DestinationID: "B", DestinationPort: 80, IPProtocol: topology.ProtocolTCP, Verdict: topology.VerdictForwarded},
			{ID: "2", SourceID: "A", DestinationID: "B", DestinationPort: 443, IPProtocol: topology.ProtocolTCP, Verdict: topology.VerdictForwarded},
		},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"svg", false},
		{"dot", false},
		{"nodelink", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ValidateFormat(%q) code = %v, want INVALID_INPUT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptions_ValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if o.Layout != layout.DefaultConfig() {
		t.Errorf("Layout = %+v, want defaults", o.Layout)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatJSON {
		t.Errorf("Formats = %v, want [json]", o.Formats)
	}

	bad := Options{Layout: layout.DefaultConfig()}
	bad.Layout.Connector.Gap = -1
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("negative gap error = %v, want INVALID_CONFIG", err)
	}
}

func TestOptions_FrameKeyOpts(t *testing.T) {
	a := Options{Layout: layout.DefaultConfig()}
	b := Options{Layout: layout.DefaultConfig()}
	b.Layout.Connector.Gap = 30

	if a.FrameKeyOpts() == b.FrameKeyOpts() {
		t.Error("FrameKeyOpts() ignores layout config")
	}
	c := a
	c.DefaultSizes = true
	if a.FrameKeyOpts() == c.FrameKeyOpts() {
		t.Error("FrameKeyOpts() ignores DefaultSizes")
	}
}

func TestPrepare(t *testing.T) {
	snap := topology.Snapshot{
		Links: []topology.Link{{SourceID: "A", DestinationID: "B", DestinationPort: 80}},
	}

	got, err := Prepare(snap)
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	if len(got.Services) != 2 {
		t.Errorf("Prepare() services = %d, want 2", len(got.Services))
	}
	if got.Links[0].ID == "" {
		t.Error("Prepare() left link id empty")
	}
	if snap.Links[0].ID != "" || len(snap.Services) != 0 {
		t.Error("Prepare() modified its input")
	}

	_, err = Prepare(topology.Snapshot{Services: []topology.Service{{ID: ""}}})
	if !errors.Is(err, errors.ErrCodeInvalidTopology) {
		t.Errorf("Prepare(empty id) error = %v, want INVALID_TOPOLOGY", err)
	}
}

func TestRunner_Execute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), testSnapshot(), Options{
		DefaultSizes: true,
		Formats:      []string{FormatJSON, FormatSVG, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if res.Stats.Cards != 2 || res.Stats.Pending != 0 {
		t.Errorf("Stats = %+v, want 2 placed cards", res.Stats)
	}
	// one sender arrow plus one per access point of the shared connector
	if res.Stats.Arrows != 3 {
		t.Errorf("Stats.Arrows = %d, want 3", res.Stats.Arrows)
	}
	if res.CacheInfo.FrameHit || res.CacheInfo.RenderHit {
		t.Error("null cache reported a hit")
	}
	for _, f := range []string{FormatJSON, FormatSVG, FormatDOT} {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("artifact %s empty", f)
		}
	}
	if !strings.Contains(string(res.Artifacts[FormatDOT]), `"A" -> "B"`) {
		t.Error("dot artifact missing edge")
	}

	f, err := UnmarshalFrame(res.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("UnmarshalFrame() error: %v", err)
	}
	if len(f.Cards) != 2 || len(f.Connectors) != 1 {
		t.Errorf("frame = %d cards, %d connectors; want 2, 1", len(f.Cards), len(f.Connectors))
	}
}

func TestRunner_WithoutDefaultSizes(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	f, err := r.Frame(context.Background(), testSnapshot(), Options{})
	if err != nil {
		t.Fatalf("Frame() error: %v", err)
	}
	if len(f.Cards) != 0 || len(f.Pending) != 2 {
		t.Errorf("unmeasured frame = %d cards, %d pending; want 0, 2", len(f.Cards), len(f.Pending))
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets map[string]int
}

func newCountingHooks() *countingHooks {
	return &countingHooks{hits: map[string]int{}, misses: map[string]int{}, sets: map[string]int{}}
}

func (h *countingHooks) OnCacheHit(_ context.Context, k string)        { h.hits[k]++ }
func (h *countingHooks) OnCacheMiss(_ context.Context, k string)       { h.misses[k]++ }
func (h *countingHooks) OnCacheSet(_ context.Context, k string, _ int) { h.sets[k]++ }

func TestRunner_Caching(t *testing.T) {
	hooks := newCountingHooks()
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	opts := Options{DefaultSizes: true, Formats: []string{FormatSVG}}

	first, err := r.Execute(ctx, testSnapshot(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	second, err := r.Execute(ctx, testSnapshot(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if first.CacheInfo.FrameHit || !second.CacheInfo.FrameHit {
		t.Errorf("frame hits = %v, %v; want false, true", first.CacheInfo.FrameHit, second.CacheInfo.FrameHit)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should render from cache")
	}
	if string(first.Artifacts[FormatSVG]) != string(second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}
	if first.FrameHash != second.FrameHash {
		t.Error("cached frame hashes differently")
	}
	if hooks.hits[keyTypeFrame] != 1 || hooks.misses[keyTypeFrame] != 1 || hooks.sets[keyTypeFrame] != 1 {
		t.Errorf("frame hooks = hit %d miss %d set %d; want 1 1 1",
			hooks.hits[keyTypeFrame], hooks.misses[keyTypeFrame], hooks.sets[keyTypeFrame])
	}

	refreshed := opts
	refreshed.Refresh = true
	third, err := r.Execute(ctx, testSnapshot(), refreshed)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.FrameHit {
		t.Error("Refresh should bypass the cache")
	}

	changed := testSnapshot()
	changed.Links = changed.Links[:1]
	fourth, err := r.Execute(ctx, changed, opts)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo.FrameHit {
		t.Error("different snapshot should miss")
	}
}

func TestRunner_CorruptCacheEntry(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	opts := Options{DefaultSizes: true}
	_ = opts.ValidateAndSetDefaults()

	snap, _ := Prepare(testSnapshot())
	key := r.Keyer.FrameKey(hashSnapshot(snap), opts.FrameKeyOpts())
	if err := c.Set(ctx, key, []byte("{not json"), time.Hour); err != nil {
		t.Fatal(err)
	}

	f, hit, err := r.FrameWithCacheInfo(ctx, testSnapshot(), opts)
	if err != nil {
		t.Fatalf("FrameWithCacheInfo() error: %v", err)
	}
	if hit || len(f.Cards) != 2 {
		t.Errorf("corrupt entry: hit=%v cards=%d; want recompute", hit, len(f.Cards))
	}
}

func TestRender_Unsupported(t *testing.T) {
	_, err := Render(context.Background(), testSnapshot(), &layout.Frame{}, Options{Formats: []string{"png"}})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Render(png) error = %v, want UNSUPPORTED", err)
	}
}

func TestUnmarshalFrame_Invalid(t *testing.T) {
	if _, err := UnmarshalFrame([]byte("nope")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("UnmarshalFrame() error = %v, want INVALID_FORMAT", err)
	}
}
