package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const (
	instrumentationName = "codeshape"

	envTracesSampler    = "OTEL_TRACES_SAMPLER"
	envTracesSamplerArg = "OTEL_TRACES_SAMPLER_ARG"

	samplerAlwaysOn                = "always_on"
	samplerAlwaysOff               = "always_off"
	samplerTraceIDRatio            = "traceidratio"
	samplerParentBasedAlwaysOn     = "parentbased_always_on"
	samplerParentBasedAlwaysOff    = "parentbased_always_off"
	samplerParentBasedTraceIDRatio = "parentbased_traceidratio"
)

// Providers holds the initialized observability providers.
type Providers struct {
	// Tracer is the named tracer for creating spans.
	Tracer trace.Tracer

	// Meter is the named meter for creating instruments.
	Meter metric.Meter

	// Logger is the context-aware structured logger.
	Logger *slog.Logger

	// Shutdown flushes pending telemetry, writes the metrics textfile and
	// releases resources. Call it before the process exits.
	Shutdown func(ctx context.Context) error
}

// Init installs global trace and meter providers and builds the logger.
// Without an OTLP endpoint, DebugTrace or MetricsTextfile every provider
// is a no-op.
func Init(cfg Config) (Providers, error) {
	ctx := context.Background()

	res, err := buildResource(cfg)
	if err != nil {
		return Providers{}, err
	}

	logger := buildLogger(cfg)

	tp, tpShutdown, err := buildTracerProvider(ctx, cfg, res, logger)
	if err != nil {
		return Providers{}, fmt.Errorf("build tracer provider: %w", err)
	}

	mp, mpShutdown, err := buildMeterProvider(ctx, cfg, res)
	if err != nil {
		return Providers{}, errors.Join(fmt.Errorf("build meter provider: %w", err), tpShutdown(ctx))
	}

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	shutdown := func(shutdownCtx context.Context) error {
		timeout := time.Duration(cfg.ShutdownTimeoutSec) * time.Second
		if timeout <= 0 {
			timeout = defaultShutdownTimeoutSec * time.Second
		}

		deadlineCtx, cancel := context.WithTimeout(shutdownCtx, timeout)
		defer cancel()

		return errors.Join(mpShutdown(deadlineCtx), tpShutdown(deadlineCtx))
	}

	return Providers{
		Tracer:   tp.Tracer(instrumentationName),
		Meter:    mp.Meter(instrumentationName),
		Logger:   logger,
		Shutdown: shutdown,
	}, nil
}

func buildResource(cfg Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{semconv.ServiceName(cfg.ServiceName)}

	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}

	if cfg.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironment(cfg.Environment))
	}

	if cfg.Mode != "" {
		attrs = append(attrs, attribute.String("app.mode", string(cfg.Mode)))
	}

	res, err := resource.New(context.Background(), resource.WithAttributes(attrs...))
	if err != nil {
		return nil, fmt.Errorf("build otel resource: %w", err)
	}

	return res, nil
}

type shutdownFunc func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

func buildTracerProvider(
	ctx context.Context, cfg Config, res *resource.Resource, logger *slog.Logger,
) (trace.TracerProvider, shutdownFunc, error) {
	if cfg.OTLPEndpoint == "" && !cfg.DebugTrace {
		return nooptrace.NewTracerProvider(), noopShutdown, nil
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(selectSampler(cfg)),
	}

	if cfg.DebugTrace {
		opts = append(opts, sdktrace.WithSpanProcessor(NewSpanLogger(logger)))
	}

	if cfg.OTLPEndpoint != "" {
		exporterOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}

		if cfg.OTLPInsecure {
			exporterOpts = append(exporterOpts, otlptracegrpc.WithInsecure())
		}

		if len(cfg.OTLPHeaders) > 0 {
			exporterOpts = append(exporterOpts, otlptracegrpc.WithHeaders(cfg.OTLPHeaders))
		}

		exporter, err := otlptracegrpc.New(ctx, exporterOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("create trace exporter: %w", err)
		}

		var filterLogger *slog.Logger
		if cfg.DebugTrace {
			filterLogger = logger
		}

		opts = append(opts, sdktrace.WithSpanProcessor(
			NewAttributeFilter(sdktrace.NewBatchSpanProcessor(exporter), filterLogger)))
	}

	tp := sdktrace.NewTracerProvider(opts...)

	return tp, tp.Shutdown, nil
}

func selectSampler(cfg Config) sdktrace.Sampler {
	if cfg.DebugTrace {
		return sdktrace.AlwaysSample()
	}

	if envSampler := os.Getenv(envTracesSampler); envSampler != "" {
		return samplerFromEnv(envSampler, os.Getenv(envTracesSamplerArg))
	}

	if cfg.SampleRatio > 0 {
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))
	}

	return sdktrace.ParentBased(sdktrace.AlwaysSample())
}

func samplerFromEnv(name, arg string) sdktrace.Sampler {
	switch name {
	case samplerAlwaysOn:
		return sdktrace.AlwaysSample()
	case samplerAlwaysOff:
		return sdktrace.NeverSample()
	case samplerTraceIDRatio:
		return sdktrace.TraceIDRatioBased(parseRatio(arg))
	case samplerParentBasedAlwaysOn:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case samplerParentBasedAlwaysOff:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	case samplerParentBasedTraceIDRatio:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(parseRatio(arg)))
	default:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
}

func buildLogger(cfg Config) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var inner slog.Handler
	if cfg.LogJSON {
		inner = slog.NewJSONHandler(os.Stderr, handlerOpts)
	} else {
		inner = slog.NewTextHandler(os.Stderr, handlerOpts)
	}

	return slog.New(NewTracingHandler(inner, cfg.ServiceName, cfg.Environment, cfg.Mode))
}

func buildMeterProvider(
	ctx context.Context, cfg Config, res *resource.Resource,
) (metric.MeterProvider, shutdownFunc, error) {
	if cfg.OTLPEndpoint == "" && cfg.MetricsTextfile == "" {
		return noopmetric.NewMeterProvider(), noopShutdown, nil
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}

	if cfg.OTLPEndpoint != "" {
		exporterOpts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint)}

		if cfg.OTLPInsecure {
			exporterOpts = append(exporterOpts, otlpmetricgrpc.WithInsecure())
		}

		if len(cfg.OTLPHeaders) > 0 {
			exporterOpts = append(exporterOpts, otlpmetricgrpc.WithHeaders(cfg.OTLPHeaders))
		}

		exporter, err := otlpmetricgrpc.New(ctx, exporterOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("create metric exporter: %w", err)
		}

		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
	}

	var registry *prometheus.Registry

	if cfg.MetricsTextfile != "" {
		registry = prometheus.NewRegistry()

		exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
		if err != nil {
			return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
		}

		opts = append(opts, sdkmetric.WithReader(exporter))
	}

	mp := sdkmetric.NewMeterProvider(opts...)

	shutdown := func(shutdownCtx context.Context) error {
		var writeErr error

		if registry != nil {
			writeErr = WriteTextfile(cfg.MetricsTextfile, registry)
		}

		return errors.Join(writeErr, mp.Shutdown(shutdownCtx))
	}

	return mp, shutdown, nil
}

// WriteTextfile writes everything gatherer collects to path in the
// Prometheus text format, replacing the file atomically.
func WriteTextfile(path string, gatherer prometheus.Gatherer) error {
	err := prometheus.WriteToTextfile(path, gatherer)
	if err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}

	return nil
}

// ParseOTLPHeaders parses "key=value,key=value". It returns nil for
// empty or malformed input.
func ParseOTLPHeaders(raw string) map[string]string {
	if raw == "" {
		return nil
	}

	result := make(map[string]string)

	for pair := range strings.SplitSeq(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}

		result[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if len(result) == 0 {
		return nil
	}

	return result
}

func parseRatio(raw string) float64 {
	if raw == "" {
		return 1.0
	}

	ratio, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 1.0
	}

	return ratio
}
