package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/codeshape/pkg/observability"
)

func setupTestMeter(t *testing.T) (*observability.CommandMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := observability.NewCommandMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return metrics, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func sumValue(t *testing.T, found *metricdata.Metrics) int64 {
	t.Helper()

	require.NotNil(t, found)

	sum, ok := found.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	var total int64
	for _, point := range sum.DataPoints {
		total += point.Value
	}

	return total
}

func TestCommandMetrics_RecordCommand(t *testing.T) {
	t.Parallel()

	metrics, reader := setupTestMeter(t)

	metrics.RecordCommand(context.Background(), "print", observability.StatusOK, 20*time.Millisecond)

	rm := collectMetrics(t, reader)

	assert.Equal(t, int64(1), sumValue(t, findMetric(rm, "codeshape.commands.total")))
	assert.NotNil(t, findMetric(rm, "codeshape.command.duration.seconds"))
	assert.Nil(t, findMetric(rm, "codeshape.errors.total"))
}

func TestCommandMetrics_RecordCommandError(t *testing.T) {
	t.Parallel()

	metrics, reader := setupTestMeter(t)

	metrics.RecordCommand(context.Background(), "set", observability.StatusError, time.Second)

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(1), sumValue(t, findMetric(rm, "codeshape.errors.total")))
}

func TestCommandMetrics_RecordSource(t *testing.T) {
	t.Parallel()

	metrics, reader := setupTestMeter(t)

	metrics.RecordSource(context.Background(), "get", 100)
	metrics.RecordSource(context.Background(), "get", 28)

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(128), sumValue(t, findMetric(rm, "codeshape.source.bytes")))
}
