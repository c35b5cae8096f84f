package observability_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codeshape/pkg/observability"
)

func TestInit_NoopByDefault(t *testing.T) {
	t.Parallel()

	providers, err := observability.Init(observability.DefaultConfig())
	require.NoError(t, err)

	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Logger)

	_, span := providers.Tracer.Start(context.Background(), "codeshape.test")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))
	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestInit_DebugTraceRecordsSpans(t *testing.T) {
	t.Parallel()

	cfg := observability.DefaultConfig()
	cfg.DebugTrace = true
	cfg.ServiceVersion = "1.2.3"
	cfg.Environment = "test"

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	_, span := providers.Tracer.Start(context.Background(), "codeshape.test")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
}

func TestInit_WritesMetricsTextfile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "codeshape.prom")

	cfg := observability.DefaultConfig()
	cfg.MetricsTextfile = path

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	metrics, err := observability.NewCommandMetrics(providers.Meter)
	require.NoError(t, err)

	metrics.RecordSource(context.Background(), "print", 42)

	require.NoError(t, providers.Shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "codeshape_source")
}

func TestParseOTLPHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{"empty", "", nil},
		{"single", "key=value", map[string]string{"key": "value"}},
		{"multiple", "k1=v1,k2=v2", map[string]string{"k1": "v1", "k2": "v2"}},
		{"spaces", " k1 = v1 , k2 = v2 ", map[string]string{"k1": "v1", "k2": "v2"}},
		{"no_equals", "invalid", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, observability.ParseOTLPHeaders(tt.input))
		})
	}
}
