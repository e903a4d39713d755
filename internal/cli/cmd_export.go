package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tengjizhang/bbopml/internal/model"
	"github.com/tengjizhang/bbopml/internal/store"
)

func newExportCmd(getApp func() *App) *cobra.Command {
	var flags exportFlags
	var guide int
	cmd := &cobra.Command{
		Use:   "export <set-id>",
		Short: "Export a stored guide set as OPML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireStore(getApp)
			if err != nil {
				return err
			}
			set, err := app.store.GetGuideSet(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if cmd.Flags().Changed("guide") {
				if guide < 0 || guide >= len(set.Guides) {
					return fmt.Errorf("%w: guide index %d out of range (set has %d)", store.ErrInvalidInput, guide, len(set.Guides))
				}
				g := set.Guides[guide]
				set = &model.GuideSet{Title: g.Title, Guides: []*model.Guide{g}}
			}
			return flags.write(app, cmd.OutOrStdout(), set)
		},
	}
	addExportFlags(cmd, &flags)
	cmd.Flags().IntVar(&guide, "guide", 0, "Export only the guide at this index")
	return cmd
}
