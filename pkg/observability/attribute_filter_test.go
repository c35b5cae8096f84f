package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/codeshape/pkg/observability"
)

func spanAttrMap(span tracetest.SpanStub) map[string]any {
	attrs := make(map[string]any, len(span.Attributes))
	for _, kv := range span.Attributes {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}

	return attrs
}

func filteredProvider(logger *slog.Logger) (*sdktrace.TracerProvider, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	filter := observability.NewAttributeFilter(sdktrace.NewSimpleSpanProcessor(exporter), logger)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(filter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	return tp, exporter
}

func TestAttributeFilter_AllowsKnownPrefixes(t *testing.T) {
	t.Parallel()

	tp, exporter := filteredProvider(nil)

	_, span := tp.Tracer("test").Start(context.Background(), "codeshape.generate")
	span.SetAttributes(
		attribute.String("module.file", "a.ts"),
		attribute.Int("print.bytes", 120),
		attribute.String("error.type", "syntax"),
	)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	attrs := spanAttrMap(spans[0])
	assert.Equal(t, "a.ts", attrs["module.file"])
	assert.Equal(t, int64(120), attrs["print.bytes"])
	assert.Equal(t, "syntax", attrs["error.type"])
}

func TestAttributeFilter_DropsSourceText(t *testing.T) {
	t.Parallel()

	tp, exporter := filteredProvider(nil)

	_, span := tp.Tracer("test").Start(context.Background(), "codeshape.parse")
	span.SetAttributes(
		attribute.String("module.source", "export default {}"),
		attribute.String("user.name", "someone"),
		attribute.String("parse.dialect", "typescript"),
	)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	attrs := spanAttrMap(spans[0])
	assert.NotContains(t, attrs, "module.source")
	assert.NotContains(t, attrs, "user.name")
	assert.Equal(t, "typescript", attrs["parse.dialect"])
}

func TestAttributeFilter_WarnsWithLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	tp, _ := filteredProvider(slog.New(slog.NewTextHandler(&buf, nil)))

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.SetAttributes(attribute.String("print.code", "x"))
	span.End()

	assert.Contains(t, buf.String(), "print.code")
	assert.Contains(t, buf.String(), "dropped")
}
