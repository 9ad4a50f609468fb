package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/svcmap/pkg/render/nodelink"
)

// dotCommand creates the dot command.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		output   string
		svg      bool
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "dot <snapshot|->",
		Short: "Export a snapshot as a Graphviz graph",
		Long: `Export the node-link view of a snapshot: one node per service, one edge
per folded link labeled with its port and protocol.

Without --svg the DOT source is written. With --svg Graphviz lays out and
renders the graph itself.`,
		Example: `  svcmap dot snapshot.json > map.dot
  svcmap dot snapshot.json --svg --detailed -o map.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := readSnapshot(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			dot := nodelink.ToDOT(*snap, nodelink.Options{Detailed: detailed})
			if !svg {
				return writeOutput(cmd.OutOrStdout(), output, []byte(dot))
			}

			spin := newSpinner(cmd.Context(), cmd.ErrOrStderr(), "Rendering with Graphviz...")
			spin.Start()
			data, err := nodelink.RenderSVG(cmd.Context(), dot)
			if err != nil {
				spin.StopWithError("Graphviz render failed")
				return err
			}
			spin.Stop()
			return writeOutput(cmd.OutOrStdout(), output, data)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&svg, "svg", false, "render to SVG with Graphviz")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "add namespaces and verdicts to labels")

	return cmd
}
