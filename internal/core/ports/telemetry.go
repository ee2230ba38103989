package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// AttrCached marks a span whose file was skipped because the cache was valid.
const AttrCached = "forge.cached"

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
	// EmitPlan signals which files are about to be processed.
	EmitPlan(ctx context.Context, files []string)
}

// Span represents a unit of work.
type Span interface {
	io.Writer
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// SpanConfig holds configuration for a starting span.
type SpanConfig struct {
	Attributes map[string]any
}

// SpanOption is a functional option for configuring a span.
type SpanOption func(*SpanConfig)

// WithAttribute sets an attribute on the span when it starts.
func WithAttribute(key string, value any) SpanOption {
	return func(c *SpanConfig) {
		if c.Attributes == nil {
			c.Attributes = make(map[string]any)
		}
		c.Attributes[key] = value
	}
}
