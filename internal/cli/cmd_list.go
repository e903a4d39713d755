package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored guide sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireStore(getApp)
			if err != nil {
				return err
			}
			sets, err := app.store.ListGuideSets(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if handled, err := writeStructured(out, getOutput(), sets); handled {
				return err
			}
			if len(sets) == 0 {
				fmt.Fprintln(out, "No guide sets stored")
				return nil
			}
			writeSetsTable(out, sets)
			return nil
		},
	}
}

func newFeedsCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "feeds <set-id>",
		Short: "List the direct feeds of a stored guide set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireStore(getApp)
			if err != nil {
				return err
			}
			feeds, err := app.store.DirectFeeds(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("feeds: %w", err)
			}
			out := cmd.OutOrStdout()
			if handled, err := writeStructured(out, getOutput(), feeds); handled {
				return err
			}
			writeFeedsTable(out, feeds)
			return nil
		},
	}
}
