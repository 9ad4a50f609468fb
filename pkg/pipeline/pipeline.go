// Package pipeline runs the stateless snapshot → frame → artifacts path
// shared by the CLI and the HTTP API.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Frame: normalize and validate a topology snapshot, run one full
//     layout pass with a fresh [layout.Engine] and take its [layout.Frame]
//  2. Render: turn the frame (and, for the Graphviz views, the snapshot)
//     into output formats
//
// Both stages are cached. A frame is keyed by the hash of the normalized
// snapshot plus the layout configuration; artifacts are keyed by the frame.
// Stateful, incremental layout (measurement callbacks) is not part of the
// pipeline; hosts hold a [layout.Engine] directly for that.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, snap, pipeline.Options{
//	    Layout:       layout.DefaultConfig(),
//	    DefaultSizes: true,
//	    Formats:      []string{pipeline.FormatSVG},
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// [layout.Engine]: github.com/matzehuels/svcmap/pkg/layout#Engine
// [layout.Frame]: github.com/matzehuels/svcmap/pkg/layout#Frame
package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svcmap/pkg/cache"
	"github.com/matzehuels/svcmap/pkg/errors"
	"github.com/matzehuels/svcmap/pkg/layout"
	"github.com/matzehuels/svcmap/pkg/topology"
)

// Format constants for output formats.
const (
	FormatJSON     = "json"     // the frame itself
	FormatSVG      = "svg"      // card view
	FormatDOT      = "dot"      // Graphviz source of the topology
	FormatNodelink = "nodelink" // Graphviz-rendered SVG of the topology
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:     true,
	FormatSVG:      true,
	FormatDOT:      true,
	FormatNodelink: true,
}

// Options contains all configuration for a pipeline run.
type Options struct {
	// Layout configures the engine. The zero value means layout.DefaultConfig().
	Layout layout.Config `json:"layout"`

	// DefaultSizes gives every card the configured default size, since a
	// stateless run gets no measurement callbacks.
	DefaultSizes bool `json:"default_sizes,omitempty"`

	Formats []string `json:"formats,omitempty"`
	Title   string   `json:"title,omitempty"`

	// Refresh skips cache lookups; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Snapshot     topology.Snapshot
	SnapshotHash string
	Frame        *layout.Frame
	FrameHash    string
	Artifacts    map[string][]byte
	Stats        Stats
	CacheInfo    CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Services   int
	Links      int
	Cards      int
	Pending    int
	Arrows     int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FrameHit  bool
	RenderHit bool // all requested artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: %s)",
			format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// ValidateAndSetDefaults applies defaults and validates the options.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Layout == (layout.Config{}) {
		o.Layout = layout.DefaultConfig()
	}
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// FrameKeyOpts returns cache key options for frame computation.
func (o *Options) FrameKeyOpts() cache.FrameKeyOpts {
	cfgHash, _ := cache.HashJSON(o.Layout)
	return cache.FrameKeyOpts{
		ConfigHash:   cfgHash,
		DefaultSizes: o.DefaultSizes,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Style:  o.Title,
	}
}
