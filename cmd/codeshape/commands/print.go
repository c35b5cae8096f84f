package commands

import (
	"context"

	"github.com/spf13/cobra"
)

const (
	printCmdUse   = "print [file]"
	printCmdShort = "Regenerate a module with its detected style"
)

func newPrintCommand(state *app) *cobra.Command {
	var flags editFlags

	cmd := &cobra.Command{
		Use:   printCmdUse,
		Short: printCmdShort,
		Long: `Parse a module and print it again. Unedited code is reprinted from its
original text, so the output is byte-identical to the input unless the
style overrides in the config ask for something else.

Reads stdin when no file is given or the file is "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: state.run("print", func(ctx context.Context, cmd *cobra.Command, args []string) error {
			src, mod, err := state.loadModule(ctx, cmd, sourceArg(args))
			if err != nil {
				return err
			}

			return state.emit(cmd, src, mod, flags)
		}),
	}

	flags.register(cmd)

	return cmd
}

// sourceArg returns the file argument or stdin.
func sourceArg(args []string) string {
	if len(args) == 0 {
		return stdinPath
	}

	return args[0]
}
