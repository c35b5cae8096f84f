package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/codeshape/pkg/view"
)

func newCheckCommand(state *app) *cobra.Command {
	var (
		schemaPath string
		path       string
	)

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate module exports against a JSON schema",
		Long: `Snapshot the module's exports, or the value at --path, as plain data and
validate it against a JSON schema. Exits with status 2 when the module
does not match.`,
		Example: `  codeshape check nuxt.config.ts --schema nuxt.schema.json --path default`,
		Args:    cobra.ExactArgs(1),
		RunE: state.run("check", func(ctx context.Context, cmd *cobra.Command, args []string) error {
			_, mod, err := state.loadModule(ctx, cmd, args[0])
			if err != nil {
				return err
			}

			var lookupArgs []string
			if path != "" {
				lookupArgs = []string{path}
			}

			value, err := lookupArg(mod, lookupArgs)
			if err != nil {
				return err
			}

			plain, err := view.Plain(value)
			if err != nil {
				return err
			}

			schemaDoc, err := os.ReadFile(schemaPath)
			if err != nil {
				return fmt.Errorf("read schema: %w", err)
			}

			result, err := gojsonschema.Validate(
				gojsonschema.NewBytesLoader(schemaDoc), gojsonschema.NewGoLoader(plain))
			if err != nil {
				return fmt.Errorf("validate %s: %w", args[0], err)
			}

			return reportCheck(cmd, state.noColor, args[0], result)
		}),
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "JSON schema file")
	cmd.Flags().StringVar(&path, "path", "", "validate only the value at this path")

	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func reportCheck(cmd *cobra.Command, noColor bool, name string, result *gojsonschema.Result) error {
	out := cmd.OutOrStdout()

	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)

	if noColor {
		ok.DisableColor()
		bad.DisableColor()
	}

	if result.Valid() {
		ok.Fprintf(out, "%s: ok\n", name)

		return nil
	}

	for _, violation := range result.Errors() {
		bad.Fprintf(out, "%s: %s: %s\n", name, violation.Field(), violation.Description())
	}

	return fmt.Errorf("%w: %d problem(s) in %s", ErrCheckFailed, len(result.Errors()), name)
}
