package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeshape/pkg/view"
)

func newSetCommand(state *app) *cobra.Command {
	var (
		flags editFlags
		raw   bool
	)

	cmd := &cobra.Command{
		Use:   "set <file> <path> <value>",
		Short: "Write a value into a module",
		Long: `Store a value at path and print the regenerated module. The value is
read as YAML, so JSON works too and mapping keys keep their order. With
--raw the value is taken as a JavaScript expression instead.

Only the edited part of the module is reprinted.`,
		Example: `  codeshape set vite.config.ts default.server.port 8080 -w
  codeshape set nuxt.config.ts 'default.modules[0]' '"@nuxt/ui"' --diff
  codeshape set app.config.js default.build --raw 'defineBuild({ minify: true })'`,
		Args: cobra.ExactArgs(3), //nolint:mnd // file, path and value.
		RunE: state.run("set", func(ctx context.Context, cmd *cobra.Command, args []string) error {
			src, mod, err := state.loadModule(ctx, cmd, args[0])
			if err != nil {
				return err
			}

			path, err := view.ParsePath(args[1])
			if err != nil {
				return err
			}

			value, err := valueArg(ctx, mod, args[2], raw)
			if err != nil {
				return err
			}

			err = mod.SetPath(path, value)
			if err != nil {
				return fmt.Errorf("set %s: %w", path, err)
			}

			return state.emit(cmd, src, mod, flags)
		}),
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&raw, "raw", false, "treat the value as a JavaScript expression")

	return cmd
}

func newUnsetCommand(state *app) *cobra.Command {
	var (
		flags   editFlags
		missing bool
	)

	cmd := &cobra.Command{
		Use:   "unset <file> <path>",
		Short: "Remove a value from a module",
		Long: `Remove the export, property or element at path. Array elements are
spliced out so no hole is left behind.`,
		Args: cobra.ExactArgs(2), //nolint:mnd // file and path.
		RunE: state.run("unset", func(ctx context.Context, cmd *cobra.Command, args []string) error {
			src, mod, err := state.loadModule(ctx, cmd, args[0])
			if err != nil {
				return err
			}

			path, err := view.ParsePath(args[1])
			if err != nil {
				return err
			}

			removed, err := mod.DeletePath(path)
			if err != nil {
				return fmt.Errorf("unset %s: %w", path, err)
			}

			if !removed && !missing {
				return fmt.Errorf("%w %s", ErrPathNotFound, path)
			}

			return state.emit(cmd, src, mod, flags)
		}),
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&missing, "ignore-missing", false, "succeed when nothing is stored at path")

	return cmd
}

func valueArg(ctx context.Context, mod *view.Module, text string, raw bool) (any, error) {
	if raw {
		return mod.Context().Raw(ctx, text)
	}

	return parseValue(text)
}
