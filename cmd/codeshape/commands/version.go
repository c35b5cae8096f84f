package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeshape/pkg/version"
)

func newVersionCommand(state *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: state.run("version", func(_ context.Context, cmd *cobra.Command, _ []string) error {
			info := version.Current()

			if format != "" {
				return writeStructured(cmd.OutOrStdout(), format, info)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "codeshape %s (commit %s, %s)\n",
				info.Version, info.Commit, info.GoVersion)

			return err
		}),
	}

	cmd.Flags().StringVarP(&format, "output", "o", "", "output format: json or yaml")

	return cmd
}
