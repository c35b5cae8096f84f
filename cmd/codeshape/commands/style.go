package commands

import (
	"context"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeshape/pkg/codestyle"
	"github.com/Sumatoshi-tech/codeshape/pkg/jsparse"
	"github.com/Sumatoshi-tech/codeshape/pkg/textutil"
)

// styleReport is the structured form of the style command output.
type styleReport struct {
	File    string            `json:"file"    yaml:"file"`
	Dialect string            `json:"dialect" yaml:"dialect"`
	Size    string            `json:"size"    yaml:"size"`
	Lines   int               `json:"lines"   yaml:"lines"`
	Style   codestyle.Profile `json:"style"   yaml:"style"`
}

func newStyleCommand(state *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "style [file]",
		Short: "Show the formatting style detected in a module",
		Args:  cobra.MaximumNArgs(1),
		RunE: state.run("style", func(ctx context.Context, cmd *cobra.Command, args []string) error {
			src, err := state.readSource(cmd.InOrStdin(), sourceArg(args))
			if err != nil {
				return err
			}

			dialect := jsparse.DetectDialect(src.name, src.content)
			if state.cfg.Input.Dialect != "" {
				dialect, err = jsparse.ParseDialect(state.cfg.Input.Dialect)
				if err != nil {
					return err
				}
			}

			report := styleReport{
				File:    src.name,
				Dialect: string(dialect),
				Size:    humanize.Bytes(uint64(len(src.content))),
				Lines:   textutil.CountLines(src.content),
				Style:   codestyle.Detect(string(src.content), state.cfg.StyleOverrides()),
			}

			state.logger.DebugContext(ctx, "style detected", "file", src.name, "quote", report.Style.Quote)

			if format != formatTable {
				return writeStructured(cmd.OutOrStdout(), format, report)
			}

			renderStyleTable(cmd, report)

			return nil
		}),
	}

	cmd.Flags().StringVarP(&format, "output", "o", formatTable, "output format: table, json or yaml")

	return cmd
}

func renderStyleTable(cmd *cobra.Command, report styleReport) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(cmd.OutOrStdout())
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false

	tbl.AppendHeader(table.Row{"Setting", "Value"})
	tbl.AppendRows([]table.Row{
		{"file", report.File},
		{"dialect", report.Dialect},
		{"size", report.Size},
		{"lines", report.Lines},
	})
	tbl.AppendSeparator()
	tbl.AppendRows([]table.Row{
		{"quote", report.Style.Quote},
		{"arrow parens", report.Style.ArrowParens},
		{"indent", indentLabel(report.Style)},
		{"wrap column", report.Style.WrapColumn},
		{"semicolons", report.Style.UseSemi},
		{"trailing comma", report.Style.TrailingComma},
	})

	tbl.Render()
}

func indentLabel(style codestyle.Profile) string {
	if style.UseTabs {
		return "tabs"
	}

	return strconv.Itoa(style.TabWidth) + " spaces"
}
