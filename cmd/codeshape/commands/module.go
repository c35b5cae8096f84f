package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeshape/pkg/jsparse"
	"github.com/Sumatoshi-tech/codeshape/pkg/observability"
	"github.com/Sumatoshi-tech/codeshape/pkg/view"
)

// editFlags are shared by every command that changes a module.
type editFlags struct {
	write bool
	diff  bool
}

func (flags *editFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "write the result back to the file")
	cmd.Flags().BoolVarP(&flags.diff, "diff", "d", false, "print a diff instead of the whole module")
}

// loadModule reads and parses the file named by path.
func (state *app) loadModule(ctx context.Context, cmd *cobra.Command, path string) (*sourceFile, *view.Module, error) {
	src, err := state.readSource(cmd.InOrStdin(), path)
	if err != nil {
		return nil, nil, err
	}

	ctx = observability.WithFile(ctx, src.name)

	if state.metrics != nil {
		state.metrics.RecordSource(ctx, cmd.Name(), len(src.content))
	}

	opts := []view.Option{view.WithLogger(state.logger)}

	if !src.fromStdin() {
		opts = append(opts, view.WithFilename(src.path))
	}

	if state.cfg.Input.Dialect != "" {
		dialect, dialectErr := jsparse.ParseDialect(state.cfg.Input.Dialect)
		if dialectErr != nil {
			return nil, nil, dialectErr
		}

		opts = append(opts, view.WithDialect(dialect))
	}

	mod, err := view.ParseModule(ctx, string(src.content), opts...)
	if err != nil {
		return nil, nil, err
	}

	state.logger.DebugContext(ctx, "module loaded",
		"exports", len(mod.Exports().Keys()), "imports", mod.Imports().Len())

	return src, mod, nil
}

// generate prints mod with the configured style overrides.
func (state *app) generate(mod *view.Module) (view.GenerateResult, error) {
	return mod.Generate(view.WithOverrides(state.cfg.StyleOverrides()))
}

// emit prints the regenerated module, a diff against the original, or
// writes it back, depending on flags.
func (state *app) emit(cmd *cobra.Command, src *sourceFile, mod *view.Module, flags editFlags) error {
	result, err := state.generate(mod)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if flags.diff {
		renderDiff(out, src.name, string(src.content), result.Code, !state.noColor)
	}

	if flags.write {
		if string(src.content) == result.Code {
			state.logger.InfoContext(cmd.Context(), "unchanged", "file", src.name)

			return nil
		}

		return writeSource(src, result.Code)
	}

	if !flags.diff {
		_, err = fmt.Fprint(out, result.Code)
	}

	return err
}
