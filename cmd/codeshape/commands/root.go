// Package commands implements the codeshape subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/codeshape/pkg/config"
	"github.com/Sumatoshi-tech/codeshape/pkg/observability"
	"github.com/Sumatoshi-tech/codeshape/pkg/version"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitInvalid = 2
)

// app carries flag values and the providers built from them to every
// subcommand.
type app struct {
	cfgFile         string
	dialect         string
	metricsTextfile string
	verbose         bool
	quiet           bool
	logJSON         bool
	debugTrace      bool
	noColor         bool

	cfg      *config.Config
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *observability.CommandMetrics
	shutdown func(context.Context) error
}

func newApp() *app {
	return &app{
		cfg:      &config.Config{},
		logger:   slog.New(slog.DiscardHandler),
		tracer:   nooptrace.NewTracerProvider().Tracer("codeshape"),
		shutdown: func(context.Context) error { return nil },
	}
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	state := newApp()
	root := newRootCommand(state)

	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	runErr := root.ExecuteContext(ctx)

	shutdownErr := state.shutdown(context.WithoutCancel(ctx))
	if shutdownErr != nil {
		state.logger.Warn("telemetry shutdown failed", "error", shutdownErr)
	}

	if runErr == nil {
		return exitOK
	}

	printError(stderr, runErr, state.noColor)

	if errors.Is(runErr, ErrCheckFailed) {
		return exitInvalid
	}

	return exitFailure
}

func newRootCommand(state *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "codeshape",
		Short: "Read and edit JavaScript and TypeScript modules through their exports",
		Long: `codeshape edits config-style JavaScript and TypeScript files the way a
person would: values are read and written through the module's exports and
imports, and everything that was not edited keeps its original formatting.

Commands:
  print     Regenerate a module
  style     Show the detected code style
  get       Read an export or a value inside one
  set       Write a value
  unset     Remove a value
  imports   List, add or remove imports
  check     Validate exports against a JSON schema`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return state.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&state.cfgFile, "config", "", "config file (default is .codeshape.yaml in the working directory or $HOME)")
	flags.StringVar(&state.dialect, "dialect", "", "parse as javascript, typescript or tsx instead of detecting")
	flags.BoolVarP(&state.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&state.quiet, "quiet", "q", false, "only log errors")
	flags.BoolVar(&state.logJSON, "log-json", false, "write logs as JSON")
	flags.BoolVar(&state.debugTrace, "debug-trace", false, "log every trace span")
	flags.StringVar(&state.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file on exit")
	flags.BoolVar(&state.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newPrintCommand(state),
		newStyleCommand(state),
		newGetCommand(state),
		newSetCommand(state),
		newUnsetCommand(state),
		newImportsCommand(state),
		newCheckCommand(state),
		newVersionCommand(state),
	)

	return root
}

// init loads the config, applies flag overrides and starts telemetry.
func (state *app) init(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(state.cfgFile)
	if err != nil {
		return err
	}

	if state.dialect != "" {
		cfg.Input.Dialect = state.dialect
	}

	obsCfg := cfg.Observability(version.Current().Version)

	switch {
	case state.verbose:
		obsCfg.LogLevel = slog.LevelDebug
	case state.quiet:
		obsCfg.LogLevel = slog.LevelError
	}

	obsCfg.LogJSON = obsCfg.LogJSON || state.logJSON
	obsCfg.DebugTrace = obsCfg.DebugTrace || state.debugTrace

	if state.metricsTextfile != "" {
		obsCfg.MetricsTextfile = state.metricsTextfile
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	metrics, err := observability.NewCommandMetrics(providers.Meter)
	if err != nil {
		return errors.Join(err, providers.Shutdown(cmd.Context()))
	}

	state.cfg = cfg
	state.logger = providers.Logger
	state.tracer = providers.Tracer
	state.metrics = metrics
	state.shutdown = providers.Shutdown

	return nil
}

// run wraps a subcommand body with a span and command metrics.
func (state *app) run(
	name string, body func(ctx context.Context, cmd *cobra.Command, args []string) error,
) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, span := state.tracer.Start(cmd.Context(), "codeshape.command",
			trace.WithAttributes(attribute.String("command.name", name)))
		defer span.End()

		started := time.Now()

		err := body(ctx, cmd, args)

		status := observability.StatusOK
		if err != nil {
			status = observability.StatusError

			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		if state.metrics != nil {
			state.metrics.RecordCommand(ctx, name, status, time.Since(started))
		}

		state.logger.DebugContext(ctx, "command finished", "command", name, "status", status,
			"elapsed", time.Since(started))

		return err
	}
}
