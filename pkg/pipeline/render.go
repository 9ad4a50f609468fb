package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/svcmap/pkg/errors"
	"github.com/matzehuels/svcmap/pkg/layout"
	"github.com/matzehuels/svcmap/pkg/render/nodelink"
	"github.com/matzehuels/svcmap/pkg/render/svg"
	"github.com/matzehuels/svcmap/pkg/topology"
)

// Render generates output artifacts in the requested formats. The card view
// and the JSON export read the frame; the Graphviz views read the snapshot.
func Render(ctx context.Context, snap topology.Snapshot, f *layout.Frame, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = MarshalFrame(f)
		case FormatSVG:
			data = svg.Render(f, svgOptions(opts)...)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(snap, nodelink.Options{Detailed: true}))
		case FormatNodelink:
			data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(snap, nodelink.Options{}))
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func svgOptions(opts Options) []svg.Option {
	var out []svg.Option
	if opts.Title != "" {
		out = append(out, svg.WithTitle(opts.Title))
	}
	return out
}

// MarshalFrame encodes a frame as indented JSON.
func MarshalFrame(f *layout.Frame) ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// UnmarshalFrame decodes a frame written by MarshalFrame.
func UnmarshalFrame(data []byte) (*layout.Frame, error) {
	var f layout.Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode frame")
	}
	return &f, nil
}
