package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/forge/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// Bridge implements sdktrace.SpanProcessor and replays span lifecycles on a Renderer.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a Bridge feeding renderer.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// OnStart is called when a span starts.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	var parentID string
	if ps := trace.SpanFromContext(parent).SpanContext(); ps.IsValid() {
		parentID = ps.SpanID().String()
	}

	b.renderer.OnTaskStart(sc.SpanID().String(), parentID, s.Name(), s.StartTime())
}

// OnEnd is called when a span ends. The forge.cached attribute marks skipped files.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	var err error
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "transform failed"
		}
		err = errors.New(desc)
	}

	cached := false
	for _, kv := range s.Attributes() {
		if string(kv.Key) == ports.AttrCached {
			cached = kv.Value.AsBool()
			break
		}
	}

	b.renderer.OnTaskComplete(sc.SpanID().String(), s.EndTime(), err, cached)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
