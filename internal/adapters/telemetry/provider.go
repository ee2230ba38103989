package telemetry

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/forge/internal/core/ports"
)

var (
	_ ports.Tracer = (*OTelTracer)(nil)
	_ ports.Span   = (*OTelSpan)(nil)
)

// OTelTracer implements ports.Tracer on OpenTelemetry.
// Transform output written to its spans is batched and sent to the renderer.
type OTelTracer struct {
	tracer trace.Tracer

	mu       sync.RWMutex
	renderer ports.Renderer
}

// TracerOption configures an OTelTracer.
type TracerOption func(*tracerConfig)

type tracerConfig struct {
	provider trace.TracerProvider
}

// WithTracerProvider uses tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) TracerOption {
	return func(c *tracerConfig) {
		c.provider = tp
	}
}

// NewOTelTracer creates a tracer with the given instrumentation name.
func NewOTelTracer(name string, opts ...TracerOption) *OTelTracer {
	cfg := tracerConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	var tracer trace.Tracer
	if cfg.provider != nil {
		tracer = cfg.provider.Tracer(name)
	} else {
		tracer = otel.Tracer(name)
	}
	return &OTelTracer{tracer: tracer}
}

// WithRenderer routes plans and span output to r.
func (t *OTelTracer) WithRenderer(r ports.Renderer) *OTelTracer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.renderer = r
	return t
}

func (t *OTelTracer) currentRenderer() ports.Renderer {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.renderer
}

// Start creates a span. Options become span attributes.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	attrs := make([]attribute.KeyValue, 0, len(cfg.Attributes))
	for k, v := range cfg.Attributes {
		attrs = append(attrs, toAttribute(k, v))
	}

	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))

	var batcher *Batcher
	if r := t.currentRenderer(); r != nil {
		spanID := span.SpanContext().SpanID().String()
		batcher = NewBatcher(0, 0, func(data []byte) {
			r.OnTaskLog(spanID, data)
		})
	}

	return ctx, &OTelSpan{span: span, batcher: batcher}
}

// EmitPlan records the file list on the current span and announces it to the renderer.
func (t *OTelTracer) EmitPlan(ctx context.Context, files []string) {
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.AddEvent("plan_emitted", trace.WithAttributes(
			attribute.StringSlice("files", files),
		))
	}

	if r := t.currentRenderer(); r != nil {
		r.OnPlanEmit(files)
	}
}

// OTelSpan implements ports.Span.
type OTelSpan struct {
	span    trace.Span
	batcher *Batcher
}

// End flushes buffered output and completes the span.
func (s *OTelSpan) End() {
	if s.batcher != nil {
		_ = s.batcher.Close()
	}
	s.span.End()
}

// RecordError records err and marks the span failed.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	s.span.SetAttributes(toAttribute(key, value))
}

// Write forwards transform output to the renderer, or records it as a span event
// when no renderer is attached.
func (s *OTelSpan) Write(p []byte) (int, error) {
	if s.batcher != nil {
		return s.batcher.Write(p)
	}
	s.span.AddEvent("log", trace.WithAttributes(attribute.String("message", string(p))))
	return len(p), nil
}

// Batcher exposes the output batcher for tests.
func (s *OTelSpan) Batcher() *Batcher {
	return s.batcher
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case uint64:
		return attribute.Int64(key, int64(v)) //nolint:gosec // byte counts fit in int64
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
