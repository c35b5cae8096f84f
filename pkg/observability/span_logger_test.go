package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Sumatoshi-tech/codeshape/pkg/observability"
)

func TestSpanLogger_LogsEndedSpans(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(observability.NewSpanLogger(logger)),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	_, span := tp.Tracer("test").Start(context.Background(), "codeshape.parse")
	span.SetAttributes(attribute.String("parse.dialect", "tsx"))
	span.End()

	out := buf.String()
	assert.Contains(t, out, "span ended")
	assert.Contains(t, out, "codeshape.parse")
	assert.Contains(t, out, "parse.dialect=tsx")
}

func TestSpanLogger_SilentAboveDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(observability.NewSpanLogger(logger)))

	_, span := tp.Tracer("test").Start(context.Background(), "codeshape.parse")
	span.End()

	assert.Empty(t, buf.String())
}
