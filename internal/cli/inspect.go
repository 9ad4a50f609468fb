package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/svcmap/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		plain   bool
		card    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <snapshot|->",
		Short: "Browse the cards of a layout",
		Long: `Lay out a snapshot and browse its cards interactively: grid position,
box, access points and the connectors anchored on each card.

--plain prints the card table instead; --card prints one card's details.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap, err := readSnapshot(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			frame, err := runner.Frame(ctx, *snap, pipeline.Options{
				Layout:       c.Config.Layout(),
				DefaultSizes: true,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch {
			case card != "":
				fmt.Fprint(w, renderCardDetail(frame, card))
				return nil
			case plain:
				fmt.Fprintln(w, renderCardTable(frame))
				return nil
			}

			final, err := tea.NewProgram(NewCardListModel(frame), tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("card browser: %w", err)
			}
			if m, ok := final.(CardListModel); ok && m.Selected != "" {
				fmt.Fprint(w, renderCardDetail(frame, m.Selected))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the card table without the interactive browser")
	cmd.Flags().StringVar(&card, "card", "", "print the details of one card")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the frame cache")

	return cmd
}
