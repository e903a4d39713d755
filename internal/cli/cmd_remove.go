package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type RemoveResponse struct {
	RemovedSetID string `json:"removed_set_id" yaml:"removed_set_id"`
}

func newRemoveCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <set-id>",
		Short: "Remove a stored guide set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireStore(getApp)
			if err != nil {
				return err
			}
			id := args[0]
			if err := app.store.DeleteGuideSet(cmd.Context(), id); err != nil {
				return fmt.Errorf("remove guide set: %w", err)
			}
			out := cmd.OutOrStdout()
			if handled, err := writeStructured(out, getOutput(), RemoveResponse{RemovedSetID: id}); handled {
				return err
			}
			fmt.Fprintf(out, "Removed guide set %s\n", id)
			return nil
		},
	}
}
