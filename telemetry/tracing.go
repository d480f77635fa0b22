// OpenTelemetry tracing support for task scheduling observability.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps OpenTelemetry tracing with task-scheduling helpers.
type Tracer struct {
	tracer trace.Tracer
}

var (
	globalTracer *Tracer
	tracerMu     sync.RWMutex
)

// SetGlobalTracer sets the global tracer instance.
func SetGlobalTracer(t *Tracer) {
	tracerMu.Lock()
	defer tracerMu.Unlock()
	globalTracer = t
}

// GetTracer returns the global tracer, or a no-op tracer if not set.
func GetTracer() *Tracer {
	tracerMu.RLock()
	defer tracerMu.RUnlock()
	if globalTracer == nil {
		return &Tracer{tracer: trace.NewNoopTracerProvider().Tracer("")}
	}
	return globalTracer
}

// NewTracer creates a new tracer with the given name.
func NewTracer(name string) *Tracer {
	return &Tracer{
		tracer: otel.Tracer(name),
	}
}

// StartSpan starts a new span with the given name.
func (t *Tracer) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}

// --- Task Spans ---

// TaskSpanOptions contains options for reschedulable task execution spans.
type TaskSpanOptions struct {
	Task     string
	Interval time.Duration
	Runs     int64
}

// StartTaskSpan starts a span for one execution of a reschedulable task.
func (t *Tracer) StartTaskSpan(ctx context.Context, taskName string) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, "task."+taskName, trace.WithSpanKind(trace.SpanKindInternal))
	span.SetAttributes(attribute.String("task.name", taskName))
	return ctx, span
}

// EndTaskSpan ends a task span with attributes.
func (t *Tracer) EndTaskSpan(span trace.Span, opts TaskSpanOptions, err error) {
	span.SetAttributes(
		attribute.String("task.name", opts.Task),
		attribute.String("task.interval", opts.Interval.String()),
		attribute.Int64("task.runs", opts.Runs),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}

// --- Join Spans ---

// JoinSpanOptions contains options for synchronizer join spans.
type JoinSpanOptions struct {
	Synchronizer string
	Waited       int64 // executions that were in flight when the join began
}

// StartJoinSpan starts a span covering a blocking join.
func (t *Tracer) StartJoinSpan(ctx context.Context, syncName string) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, "join."+syncName, trace.WithSpanKind(trace.SpanKindInternal))
	span.SetAttributes(attribute.String("join.synchronizer", syncName))
	return ctx, span
}

// EndJoinSpan ends a join span with attributes.
func (t *Tracer) EndJoinSpan(span trace.Span, opts JoinSpanOptions) {
	span.SetAttributes(
		attribute.String("join.synchronizer", opts.Synchronizer),
		attribute.Int64("join.waited", opts.Waited),
	)
	span.SetStatus(codes.Ok, "")
	span.End()
}
