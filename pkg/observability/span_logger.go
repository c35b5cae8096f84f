package observability

import (
	"context"
	"log/slog"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// spanLogger writes every ended span to a logger at debug level. It backs
// --debug-trace when no collector is configured.
type spanLogger struct {
	logger *slog.Logger
}

// NewSpanLogger returns a SpanProcessor that logs ended spans.
func NewSpanLogger(logger *slog.Logger) sdktrace.SpanProcessor {
	return &spanLogger{logger: logger}
}

// OnStart does nothing.
func (*spanLogger) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

// OnEnd logs the span name, duration, status and attributes.
func (processor *spanLogger) OnEnd(span sdktrace.ReadOnlySpan) {
	args := []any{
		"span", span.Name(),
		"elapsed", span.EndTime().Sub(span.StartTime()),
		"status", span.Status().Code.String(),
	}

	for _, kv := range span.Attributes() {
		args = append(args, string(kv.Key), kv.Value.Emit())
	}

	ctx := trace.ContextWithSpanContext(context.Background(), span.SpanContext())
	processor.logger.DebugContext(ctx, "span ended", args...)
}

// Shutdown does nothing.
func (*spanLogger) Shutdown(context.Context) error { return nil }

// ForceFlush does nothing.
func (*spanLogger) ForceFlush(context.Context) error { return nil }
