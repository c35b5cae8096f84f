package observability

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

const (
	attrTraceID = "trace_id"
	attrSpanID  = "span_id"
	attrService = "service"
	attrEnv     = "env"
	attrMode    = "mode"
	attrFile    = "file"
)

type fileKey struct{}

// WithFile returns a context whose log records carry the file being
// processed.
func WithFile(ctx context.Context, filename string) context.Context {
	return context.WithValue(ctx, fileKey{}, filename)
}

// FileFrom returns the file stored by WithFile.
func FileFrom(ctx context.Context) (string, bool) {
	filename, ok := ctx.Value(fileKey{}).(string)

	return filename, ok && filename != ""
}

// TracingHandler is an [slog.Handler] that adds the active span's
// trace_id and span_id, and the file set by WithFile, to every record.
// Service attributes are attached once at construction so they stay at
// the top level under WithGroup.
type TracingHandler struct {
	inner slog.Handler
}

// NewTracingHandler wraps inner with trace context and service metadata.
func NewTracingHandler(inner slog.Handler, service, env string, appMode AppMode) *TracingHandler {
	attrs := []slog.Attr{
		slog.String(attrService, service),
		slog.String(attrMode, string(appMode)),
	}

	if env != "" {
		attrs = append(attrs, slog.String(attrEnv, env))
	}

	return &TracingHandler{inner: inner.WithAttrs(attrs)}
}

// Enabled delegates to the inner handler.
func (th *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return th.inner.Enabled(ctx, level)
}

// Handle adds the context attributes, then delegates.
func (th *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(
			slog.String(attrTraceID, sc.TraceID().String()),
			slog.String(attrSpanID, sc.SpanID().String()),
		)
	}

	if filename, ok := FileFrom(ctx); ok {
		record.AddAttrs(slog.String(attrFile, filename))
	}

	err := th.inner.Handle(ctx, record)
	if err != nil {
		return fmt.Errorf("tracing handler: %w", err)
	}

	return nil
}

// WithAttrs returns a handler with attrs added to the inner handler.
func (th *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{inner: th.inner.WithAttrs(attrs)}
}

// WithGroup returns a handler with a group on the inner handler.
func (th *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{inner: th.inner.WithGroup(name)}
}
