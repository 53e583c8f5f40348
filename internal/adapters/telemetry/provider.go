// Package telemetry traces task execution with OpenTelemetry and feeds the renderers.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/press/internal/core/ports"
)

var _ ports.Tracer = (*OTelTracer)(nil)

// OTelTracer is a concrete implementation of ports.Tracer using OpenTelemetry.
// It owns a private TracerProvider whose only processor is the renderer Bridge.
type OTelTracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	bridge   *Bridge
}

// NewOTelTracer creates a new OTelTracer with the given instrumentation name.
func NewOTelTracer(name string) *OTelTracer {
	bridge := NewBridge(nil)
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(bridge))
	return &OTelTracer{
		provider: provider,
		tracer:   provider.Tracer(name),
		bridge:   bridge,
	}
}

// WithRenderer routes span events, task output and plans to renderer.
func (t *OTelTracer) WithRenderer(renderer ports.Renderer) *OTelTracer {
	t.bridge.SetRenderer(renderer)
	return t
}

// Shutdown flushes and stops the tracer provider.
func (t *OTelTracer) Shutdown(ctx context.Context) error {
	return t.provider.Shutdown(ctx)
}

// Start creates a new span.
func (t *OTelTracer) Start(ctx context.Context, name string) (context.Context, ports.Span) {
	ctx, span := t.tracer.Start(ctx, name)

	spanID := span.SpanContext().SpanID().String()
	lines := NewLineBuffer(0, func(data []byte) {
		t.bridge.Log(spanID, data)
	})

	return ctx, &OTelSpan{span: span, lines: lines}
}

// EmitPlan records the plan on the current span and announces it to the renderer.
func (t *OTelTracer) EmitPlan(ctx context.Context, tasks []string, children map[string][]string, targets []string) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("plan_emitted", trace.WithAttributes(
			attribute.StringSlice("tasks", tasks),
			attribute.StringSlice("targets", targets),
		))
	}
	t.bridge.Plan(tasks, children, targets)
}

// OTelSpan is a concrete implementation of ports.Span using OpenTelemetry.
type OTelSpan struct {
	span  trace.Span
	lines *LineBuffer
}

// End completes the span after delivering any pending output.
func (s *OTelSpan) End() {
	_ = s.lines.Close()
	s.span.End()
}

// RecordError records an error for the span.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

// Write satisfies io.Writer by forwarding task output line by line.
func (s *OTelSpan) Write(p []byte) (n int, err error) {
	return s.lines.Write(p)
}
