package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tengjizhang/bbopml/internal/version"
)

type VersionCompareResponse struct {
	A      string `json:"a" yaml:"a"`
	B      string `json:"b" yaml:"b"`
	Result int    `json:"result" yaml:"result"`
}

func newVersionCompareCmd(getOutput func() OutputFormat) *cobra.Command {
	return &cobra.Command{
		Use:   "version-compare <a> <b>",
		Short: "Compare two dotted versions; prints -1, 0 or 1",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := VersionCompareResponse{A: args[0], B: args[1], Result: version.Compare(args[0], args[1])}
			out := cmd.OutOrStdout()
			if handled, err := writeStructured(out, getOutput(), resp); handled {
				return err
			}
			fmt.Fprintln(out, resp.Result)
			return nil
		},
	}
}
