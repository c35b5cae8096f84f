package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeshape/pkg/view"
)

// ErrPathNotFound is returned by get when nothing is stored at the path.
var ErrPathNotFound = fmt.Errorf("%w: path", view.ErrNotFound)

func newGetCommand(state *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "get <file> [path]",
		Short: "Print an export, or a value inside one, as data",
		Long: `Print the module's exports as plain data. With a path such as
default.plugins[0].name only that value is printed.

Values that are not plain data, such as function calls, are shown with
their callee and arguments.`,
		Example: `  codeshape get vite.config.ts default.plugins
  codeshape get nuxt.config.ts 'default["app"].head' -o json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: state.run("get", func(ctx context.Context, cmd *cobra.Command, args []string) error {
			_, mod, err := state.loadModule(ctx, cmd, args[0])
			if err != nil {
				return err
			}

			value, err := lookupArg(mod, args[1:])
			if err != nil {
				return err
			}

			plain, err := view.Plain(value)
			if err != nil {
				return err
			}

			return writeStructured(cmd.OutOrStdout(), format, plain)
		}),
	}

	cmd.Flags().StringVarP(&format, "output", "o", formatYAML, "output format: yaml or json")

	return cmd
}

// lookupArg resolves an optional path argument; without one it returns
// the whole exports registry.
func lookupArg(mod *view.Module, args []string) (any, error) {
	if len(args) == 0 {
		return mod.Exports(), nil
	}

	path, err := view.ParsePath(args[0])
	if err != nil {
		return nil, err
	}

	value, err := mod.Lookup(path)
	if err != nil {
		return nil, err
	}

	if value == view.Undefined {
		return nil, fmt.Errorf("%w %s", ErrPathNotFound, path)
	}

	return value, nil
}
