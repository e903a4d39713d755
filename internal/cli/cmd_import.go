package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tengjizhang/bbopml/internal/model"
)

type ImportResponse struct {
	Source string            `json:"source" yaml:"source"`
	Saved  *model.SetSummary `json:"saved,omitempty" yaml:"saved,omitempty"`
	Set    *model.GuideSet   `json:"set" yaml:"set"`
}

func newImportCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var single, allowEmpty, dryRun bool
	cmd := &cobra.Command{
		Use:   "import <url|path|->",
		Short: "Import an OPML document into the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireStore(getApp)
			if err != nil {
				return err
			}
			set, source, err := importSource(cmd.Context(), app.importer(allowEmpty), args[0], cmd.InOrStdin(), single)
			if err != nil {
				return err
			}

			resp := ImportResponse{Source: source, Set: set}
			if !dryRun {
				summary, err := app.store.SaveGuideSet(cmd.Context(), set, source)
				if err != nil {
					return fmt.Errorf("save guide set: %w", err)
				}
				resp.Saved = &summary
			}

			out := cmd.OutOrStdout()
			if handled, err := writeStructured(out, getOutput(), resp); handled {
				return err
			}
			if resp.Saved != nil {
				fmt.Fprintf(out, "Imported %q as %s\n", set.Title, resp.Saved.ID)
			} else {
				fmt.Fprintf(out, "Parsed %q (not saved)\n", set.Title)
			}
			writeGuidesTable(out, set)
			return nil
		},
	}
	cmd.Flags().BoolVar(&single, "single", false, "Collapse the document into a single guide")
	cmd.Flags().BoolVar(&allowEmpty, "allow-empty", false, "Keep guides without feeds or reading lists")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse and report without saving")
	return cmd
}

func newConvertCmd(getApp func() *App) *cobra.Command {
	var single, allowEmpty bool
	var flags exportFlags
	cmd := &cobra.Command{
		Use:   "convert <url|path|->",
		Short: "Re-export an OPML document in the chosen dialect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			set, _, err := importSource(cmd.Context(), app.importer(allowEmpty), args[0], cmd.InOrStdin(), single)
			if err != nil {
				return err
			}
			return flags.write(app, cmd.OutOrStdout(), set)
		},
	}
	cmd.Flags().BoolVar(&single, "single", false, "Collapse the document into a single guide")
	cmd.Flags().BoolVar(&allowEmpty, "allow-empty", false, "Keep guides without feeds or reading lists")
	addExportFlags(cmd, &flags)
	return cmd
}

func addExportFlags(cmd *cobra.Command, flags *exportFlags) {
	cmd.Flags().BoolVar(&flags.legacy, "legacy", false, "Write the flat, unqualified dialect")
	cmd.Flags().BoolVar(&flags.basic, "basic", false, "Skip application metadata and non-direct feeds")
	cmd.Flags().StringVar(&flags.generator, "generator", "", "Generator name for the header comment")
	cmd.Flags().StringVar(&flags.out, "out", "", "Write to a file instead of stdout")
}
