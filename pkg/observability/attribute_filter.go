package observability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// allowedPrefixes are the attribute key prefixes exported to a collector.
//
//nolint:gochecknoglobals // fixed allow-list.
var allowedPrefixes = []string{
	"codeshape.",
	"module.",
	"parse.",
	"print.",
	"style.",
	"command.",
	"error.",
}

// blockedKeys never leave the process: they can carry source text.
//
//nolint:gochecknoglobals // fixed deny-list.
var blockedKeys = map[string]bool{
	"module.source":  true,
	"print.code":     true,
	"parse.fragment": true,
}

// attributeFilter strips attributes outside the allow-list before a span
// reaches the delegate processor.
type attributeFilter struct {
	delegate sdktrace.SpanProcessor
	logger   *slog.Logger
}

// NewAttributeFilter wraps delegate so exported spans only carry allowed
// attributes. A non-nil logger receives a warning per dropped key.
func NewAttributeFilter(delegate sdktrace.SpanProcessor, logger *slog.Logger) sdktrace.SpanProcessor {
	return &attributeFilter{delegate: delegate, logger: logger}
}

// OnStart delegates to the wrapped processor.
func (filter *attributeFilter) OnStart(parent context.Context, span sdktrace.ReadWriteSpan) {
	filter.delegate.OnStart(parent, span)
}

// OnEnd hands the delegate a filtered view of the span.
func (filter *attributeFilter) OnEnd(span sdktrace.ReadOnlySpan) {
	filter.delegate.OnEnd(&filteredSpan{ReadOnlySpan: span, filter: filter})
}

// Shutdown delegates to the wrapped processor.
func (filter *attributeFilter) Shutdown(ctx context.Context) error {
	err := filter.delegate.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("attribute filter shutdown: %w", err)
	}

	return nil
}

// ForceFlush delegates to the wrapped processor.
func (filter *attributeFilter) ForceFlush(ctx context.Context) error {
	err := filter.delegate.ForceFlush(ctx)
	if err != nil {
		return fmt.Errorf("attribute filter flush: %w", err)
	}

	return nil
}

func (filter *attributeFilter) allowed(key string) bool {
	if blockedKeys[key] {
		filter.warn(key)

		return false
	}

	if key == "error" {
		return true
	}

	for _, prefix := range allowedPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}

	filter.warn(key)

	return false
}

func (filter *attributeFilter) warn(key string) {
	if filter.logger != nil {
		filter.logger.Warn("span attribute dropped", "key", key)
	}
}

type filteredSpan struct {
	sdktrace.ReadOnlySpan

	filter *attributeFilter
}

// Attributes returns only the allowed attributes.
func (span *filteredSpan) Attributes() []attribute.KeyValue {
	orig := span.ReadOnlySpan.Attributes()
	kept := make([]attribute.KeyValue, 0, len(orig))

	for _, kv := range orig {
		if span.filter.allowed(string(kv.Key)) {
			kept = append(kept, kv)
		}
	}

	return kept
}
