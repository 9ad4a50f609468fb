package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/svcmap/pkg/topology"
)

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <snapshot|-> <output>",
		Short: "Normalize a snapshot and write it as JSON or YAML",
		Long: `Read and validate a snapshot, fill in link ids and services known only
as link endpoints, and write the result. The output format follows the
extension of <output>: .yaml or .yml for YAML, JSON otherwise.`,
		Example: `  svcmap convert flows.json flows.yaml`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := readSnapshot(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := topology.ExportSnapshot(snap, args[1]); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printSuccess(w, "Wrote %d services, %d links", len(snap.Services), len(snap.Links))
			printFile(w, args[1])
			return nil
		},
	}
}
