package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricCommandsTotal   = "codeshape.commands.total"
	metricCommandDuration = "codeshape.command.duration.seconds"
	metricErrorsTotal     = "codeshape.errors.total"
	metricSourceBytes     = "codeshape.source.bytes"

	attrCommand = "command"
	attrStatus  = "status"

	// StatusOK marks a command that returned no error.
	StatusOK = "ok"
	// StatusError marks a command that failed.
	StatusError = "error"
)

// durationBucketBoundaries suit a CLI run: most finish well under a second.
//
//nolint:gochecknoglobals // histogram layout.
var durationBucketBoundaries = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// CommandMetrics holds rate, error and duration instruments for CLI
// commands, plus the volume of source they read.
type CommandMetrics struct {
	commandsTotal   metric.Int64Counter
	commandDuration metric.Float64Histogram
	errorsTotal     metric.Int64Counter
	sourceBytes     metric.Int64Counter
}

// NewCommandMetrics creates the command instruments on mt.
func NewCommandMetrics(mt metric.Meter) (*CommandMetrics, error) {
	builder := newMetricBuilder(mt)

	cm := &CommandMetrics{
		commandsTotal: builder.counter(metricCommandsTotal, "Total number of commands run", "{command}"),
		commandDuration: builder.histogram(metricCommandDuration, "Command duration in seconds", "s",
			durationBucketBoundaries...),
		errorsTotal: builder.counter(metricErrorsTotal, "Total number of failed commands", "{error}"),
		sourceBytes: builder.counter(metricSourceBytes, "Bytes of source read", "By"),
	}

	if builder.err != nil {
		return nil, builder.err
	}

	return cm, nil
}

// RecordCommand records one finished command.
func (cm *CommandMetrics) RecordCommand(ctx context.Context, command, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrCommand, command),
		attribute.String(attrStatus, status),
	)

	cm.commandsTotal.Add(ctx, 1, attrs)
	cm.commandDuration.Record(ctx, duration.Seconds(), attrs)

	if status == StatusError {
		cm.errorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrCommand, command)))
	}
}

// RecordSource adds size bytes read by command.
func (cm *CommandMetrics) RecordSource(ctx context.Context, command string, size int) {
	cm.sourceBytes.Add(ctx, int64(size), metric.WithAttributes(attribute.String(attrCommand, command)))
}
