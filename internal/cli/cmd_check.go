package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tengjizhang/bbopml/internal/fetch"
	"github.com/tengjizhang/bbopml/internal/model"
)

type CheckReport struct {
	SetID   string              `json:"set_id" yaml:"set_id"`
	Total   int                 `json:"total" yaml:"total"`
	Failed  int                 `json:"failed" yaml:"failed"`
	Results []model.CheckResult `json:"results" yaml:"results"`
}

func newCheckCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "check <set-id>",
		Short: "Fetch every direct feed of a stored guide set and report its health",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireStore(getApp)
			if err != nil {
				return err
			}
			set, err := app.store.GetGuideSet(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("check: %w", err)
			}

			targets := fetch.Targets(set)
			results := app.checker().Check(cmd.Context(), targets, func(done, total int, r model.CheckResult) {
				app.log.Debug("checked feed", zap.Int("done", done), zap.Int("total", total), zap.String("url", r.URL))
			})

			report := CheckReport{SetID: args[0], Total: len(results), Results: results}
			for _, r := range results {
				if r.Error != "" {
					report.Failed++
				}
			}

			out := cmd.OutOrStdout()
			if handled, err := writeStructured(out, getOutput(), report); handled {
				return err
			}
			writeCheckTable(out, results)
			fmt.Fprintf(out, "Checked %d feeds, %d failed\n", report.Total, report.Failed)
			return nil
		},
	}
}
