package registry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/kbukum/discovery/registry"

// Outcome labels attached to operation metrics.
const (
	outcomeOK       = "ok"
	outcomeNotFound = "not_found"
	outcomeInvalid  = "invalid"
	outcomeError    = "error"
)

type telemetry struct {
	tracer   trace.Tracer
	ops      metric.Int64Counter
	duration metric.Float64Histogram
}

func newTelemetry() *telemetry {
	meter := otel.Meter(instrumentationName)
	fallback := noop.NewMeterProvider().Meter(instrumentationName)

	ops, err := meter.Int64Counter("discovery.registry.operations",
		metric.WithDescription("Registry operations by name and outcome"))
	if err != nil {
		ops, _ = fallback.Int64Counter("discovery.registry.operations")
	}
	duration, err := meter.Float64Histogram("discovery.registry.duration",
		metric.WithDescription("Registry operation latency"),
		metric.WithUnit("ms"))
	if err != nil {
		duration, _ = fallback.Float64Histogram("discovery.registry.duration")
	}

	return &telemetry{
		tracer:   otel.Tracer(instrumentationName),
		ops:      ops,
		duration: duration,
	}
}

func (t *telemetry) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "registry."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...))
}

func (t *telemetry) finish(ctx context.Context, span trace.Span, op string, started time.Time, err error) {
	outcome := outcomeOf(err)
	if err != nil && outcome == outcomeError {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.String("registry.outcome", outcome))
	span.End()

	set := metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	)
	t.ops.Add(ctx, 1, set)
	t.duration.Record(ctx, float64(time.Since(started).Microseconds())/1000.0, set)
}
