package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeshape/pkg/view"
)

// ErrImportNotFound is returned by imports remove for an unknown binding.
var ErrImportNotFound = errors.New("import not found")

func newImportsCommand(state *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "imports",
		Short: "List, add or remove imports",
	}

	cmd.AddCommand(
		newImportsListCommand(state),
		newImportsAddCommand(state),
		newImportsRemoveCommand(state),
	)

	return cmd
}

func newImportsListCommand(state *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "list [file]",
		Aliases: []string{"ls"},
		Short:   "List imported bindings in source order",
		Args:    cobra.MaximumNArgs(1),
		RunE: state.run("imports.list", func(ctx context.Context, cmd *cobra.Command, args []string) error {
			_, mod, err := state.loadModule(ctx, cmd, sourceArg(args))
			if err != nil {
				return err
			}

			items := mod.Imports().Items()

			if format != formatTable {
				specs := make([]view.ImportSpec, 0, len(items))
				for _, item := range items {
					specs = append(specs, view.ImportSpec{Local: item.Local(), Imported: item.Imported(), From: item.From()})
				}

				return writeStructured(cmd.OutOrStdout(), format, specs)
			}

			tbl := table.NewWriter()
			tbl.SetOutputMirror(cmd.OutOrStdout())
			tbl.SetStyle(table.StyleLight)
			tbl.Style().Options.SeparateRows = false
			tbl.Style().Options.DrawBorder = false

			tbl.AppendHeader(table.Row{"Local", "Imported", "From"})

			for _, item := range items {
				tbl.AppendRow(table.Row{item.Local(), item.Imported(), item.From()})
			}

			tbl.AppendFooter(table.Row{"", "Total", len(items)})
			tbl.Render()

			return nil
		}),
	}

	cmd.Flags().StringVarP(&format, "output", "o", formatTable, "output format: table, json or yaml")

	return cmd
}

func newImportsAddCommand(state *app) *cobra.Command {
	var (
		flags      editFlags
		spec       view.ImportSpec
		appendLast bool
	)

	cmd := &cobra.Command{
		Use:   "add <file> <local>",
		Short: "Import a binding",
		Long: `Add an import of --imported (default, *, or a named export) from --from,
bound to local. A declaration importing from the same source is extended
when the result is valid syntax; otherwise a new declaration is placed at
the top of the module, or after the last import with --append.`,
		Example: `  codeshape imports add vite.config.ts vue --from @vitejs/plugin-vue -w
  codeshape imports add app.ts defineConfig --from vite --imported defineConfig
  codeshape imports add app.ts path --from node:path --imported '*'`,
		Args: cobra.ExactArgs(2), //nolint:mnd // file and local name.
		RunE: state.run("imports.add", func(ctx context.Context, cmd *cobra.Command, args []string) error {
			src, mod, err := state.loadModule(ctx, cmd, args[0])
			if err != nil {
				return err
			}

			spec.Local = args[1]

			if appendLast {
				err = mod.Imports().Append(spec)
			} else {
				err = mod.Imports().Add(spec)
			}

			if err != nil {
				return fmt.Errorf("add import %q: %w", spec.Local, err)
			}

			return state.emit(cmd, src, mod, flags)
		}),
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&spec.From, "from", "", "module specifier to import from")
	cmd.Flags().StringVar(&spec.Imported, "imported", view.ImportDefault, "imported name: default, * or a named export")
	cmd.Flags().BoolVar(&appendLast, "append", false, "place a new declaration after the last import")

	_ = cmd.MarkFlagRequired("from")

	return cmd
}

func newImportsRemoveCommand(state *app) *cobra.Command {
	var flags editFlags

	cmd := &cobra.Command{
		Use:     "remove <file> <local>...",
		Aliases: []string{"rm"},
		Short:   "Remove imported bindings",
		Args:    cobra.MinimumNArgs(2), //nolint:mnd // file and at least one name.
		RunE: state.run("imports.remove", func(ctx context.Context, cmd *cobra.Command, args []string) error {
			src, mod, err := state.loadModule(ctx, cmd, args[0])
			if err != nil {
				return err
			}

			for _, local := range args[1:] {
				if !mod.Imports().Delete(local) {
					return fmt.Errorf("%w: %q", ErrImportNotFound, local)
				}
			}

			return state.emit(cmd, src, mod, flags)
		}),
	}

	flags.register(cmd)

	return cmd
}
