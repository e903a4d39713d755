package cli

import (
	"github.com/spf13/cobra"

	"github.com/tengjizhang/bbopml/internal/config"
	"github.com/tengjizhang/bbopml/internal/logging"
	"github.com/tengjizhang/bbopml/internal/model"
)

func Execute() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	return NewRootCmd(cfg).Execute()
}

func NewRootCmd(cfg config.Config) *cobra.Command {
	var dbPath string
	var output string
	var logLevel string
	var outFmt OutputFormat
	var app *App

	dbPath = cfg.DBPath
	output = string(model.OutputTable)
	logLevel = cfg.LogLevel

	getApp := func() *App { return app }
	getOutput := func() OutputFormat { return outFmt }

	cmd := &cobra.Command{
		Use:           "bbopml",
		Short:         "Import, store and publish BlogBridge-style OPML guides",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			parsedFmt, err := parseOutputFormat(output)
			if err != nil {
				return err
			}
			outFmt = parsedFmt
			if !requiresApp(cmd) || app != nil {
				return nil
			}
			log, err := logging.New(logLevel)
			if err != nil {
				return err
			}
			a := NewApp(cfg, log)
			if requiresStore(cmd) {
				if err := a.openStore(dbPath); err != nil {
					_ = a.Close()
					return err
				}
			}
			app = a
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				_ = app.Close()
				app = nil
			}
		},
	}

	cmd.PersistentFlags().StringVar(&dbPath, "db", dbPath, "SQLite library path")
	cmd.PersistentFlags().StringVarP(&output, "output", "o", output, "Output format: table, json, yaml")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel, "Log level: debug, info, warn, error")

	cmd.AddCommand(newImportCmd(getApp, getOutput))
	cmd.AddCommand(newConvertCmd(getApp))
	cmd.AddCommand(newExportCmd(getApp))
	cmd.AddCommand(newListCmd(getApp, getOutput))
	cmd.AddCommand(newFeedsCmd(getApp, getOutput))
	cmd.AddCommand(newRemoveCmd(getApp, getOutput))
	cmd.AddCommand(newCheckCmd(getApp, getOutput))
	cmd.AddCommand(newServeCmd(getApp))
	cmd.AddCommand(newVersionCompareCmd(getOutput))

	return cmd
}

func requiresApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", "version-compare":
			return false
		}
	}
	return true
}

// requiresStore reports whether cmd works on the library database.
func requiresStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "convert" {
			return false
		}
	}
	return requiresApp(cmd)
}
