package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/svcmap/pkg/pipeline"
)

// layoutOpts holds the flags of the layout command.
type layoutOpts struct {
	output  string
	formats string
	title   string
	stats   bool
	noCache bool
	refresh bool
}

// fileExt maps output formats to the extension used for multi-format output.
var fileExt = map[string]string{
	pipeline.FormatJSON:     ".json",
	pipeline.FormatSVG:      ".svg",
	pipeline.FormatDOT:      ".dot",
	pipeline.FormatNodelink: ".graph.svg",
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	opts := layoutOpts{}

	cmd := &cobra.Command{
		Use:   "layout <snapshot|->",
		Short: "Lay out a topology snapshot",
		Long: `Lay out a topology snapshot and write the resulting frame or renderings.

Every card gets the configured default size, since no renderer measures it.
With a single format and no --output the result goes to stdout. With several
formats, --output names the base path and each format adds its extension.`,
		Example: `  svcmap layout snapshot.json
  svcmap layout snapshot.yaml --format svg -o map.svg
  svcmap layout snapshot.json --format json,svg,dot -o out/map --stats
  cat flows.yaml | svcmap layout - --format svg > map.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (base path when several formats are given)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatJSON, "output formats: json, svg, dot, nodelink (comma-separated)")
	cmd.Flags().StringVar(&opts.title, "title", "", "title shown in SVG output")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print the per-card geometry table")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the frame cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, input string, opts layoutOpts) error {
	ctx := cmd.Context()
	formats := parseFormats(opts.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}
	if len(formats) > 1 && opts.output == "" {
		return fmt.Errorf("--output is required with several formats")
	}

	snap, err := readSnapshot(input, cmd.InOrStdin())
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, *snap, pipeline.Options{
		Layout:       c.Config.Layout(),
		DefaultSizes: true,
		Formats:      formats,
		Title:        opts.title,
		Refresh:      opts.refresh,
	})
	if err != nil {
		return err
	}
	prog.done("Laid out", "cards", result.Stats.Cards, "arrows", result.Stats.Arrows, "cached", result.CacheInfo.FrameHit)

	// Status lines go to stderr when the artifact itself goes to stdout.
	status := cmd.OutOrStdout()
	if opts.output == "" {
		status = cmd.ErrOrStderr()
		if _, err := cmd.OutOrStdout().Write(result.Artifacts[formats[0]]); err != nil {
			return err
		}
	} else {
		paths, err := writeArtifacts(opts.output, formats, result.Artifacts)
		if err != nil {
			return err
		}
		printSuccess(status, "Generated %s", strings.Join(formats, ", "))
		for _, p := range paths {
			printFile(status, p)
		}
	}

	printStats(status, result.Stats.Cards, result.Stats.Pending, result.Stats.Arrows, result.CacheInfo.FrameHit)
	if opts.stats {
		fmt.Fprintln(status, renderCardTable(result.Frame))
	}
	return nil
}

// writeArtifacts writes each format to its output path and returns the
// paths in format order.
func writeArtifacts(output string, formats []string, artifacts map[string][]byte) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := outputPath(output, format, len(formats) > 1)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath returns where format is written. A single format is written to
// output as given; several formats replace output's extension with their own.
func outputPath(output, format string, multi bool) string {
	if !multi {
		return output
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + fileExt[format]
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
