// Package observability wires OpenTelemetry tracing and metrics and the
// structured logger used by codeshape commands.
package observability

import "log/slog"

// AppMode identifies how the process is running.
type AppMode string

const (
	// ModeCLI is a codeshape command-line invocation.
	ModeCLI AppMode = "cli"

	// ModeLibrary is codeshape embedded in another program.
	ModeLibrary AppMode = "lib"
)

const (
	defaultServiceName        = "codeshape"
	defaultShutdownTimeoutSec = 5
)

// Config controls tracing, metrics and logging.
type Config struct {
	// ServiceName is reported as service.name and on every log line.
	ServiceName string

	// ServiceVersion is reported as service.version when set.
	ServiceVersion string

	// Environment is reported as deployment.environment when set.
	Environment string

	// Mode is reported as app.mode.
	Mode AppMode

	// OTLPEndpoint is the gRPC collector address. Empty disables export.
	OTLPEndpoint string

	// OTLPHeaders are sent with every export request.
	OTLPHeaders map[string]string

	// OTLPInsecure disables TLS towards the collector.
	OTLPInsecure bool

	// SampleRatio is the root sampling ratio. Zero samples everything.
	SampleRatio float64

	// DebugTrace samples every span and logs each one when it ends.
	DebugTrace bool

	// MetricsTextfile, when set, receives the metrics in Prometheus text
	// format on shutdown.
	MetricsTextfile string

	// LogLevel is the minimum level written to stderr.
	LogLevel slog.Level

	// LogJSON selects JSON log lines instead of text.
	LogJSON bool

	// ShutdownTimeoutSec bounds the final flush.
	ShutdownTimeoutSec int
}

// DefaultConfig returns a config with every exporter disabled.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
