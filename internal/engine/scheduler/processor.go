package scheduler

import (
	"context"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

// AttrKind is the span attribute carrying the asset kind of a file.
const AttrKind = "forge.kind"

// Processor runs the transform of a single job inside a telemetry span.
// The batch workers and the watch loop share it.
type Processor struct {
	transformer ports.Transformer
	tracer      ports.Tracer
}

// NewProcessor creates a Processor.
func NewProcessor(transformer ports.Transformer, tracer ports.Tracer) *Processor {
	return &Processor{
		transformer: transformer,
		tracer:      tracer,
	}
}

// Process transforms job under cfg. Transform output is streamed into the span.
// The span is ended before Process returns.
func (p *Processor) Process(
	ctx context.Context,
	job domain.Job,
	cfg domain.ProcessingConfig,
) (domain.TransformResult, error) {
	ctx, span := p.tracer.Start(ctx, job.Rel, ports.WithAttribute(AttrKind, job.Kind.String()))
	defer span.End()

	res, err := p.transformer.Transform(ctx, domain.TransformRequest{
		Input:  job.Input,
		Output: job.Output,
		Kind:   job.Kind,
		Config: cfg,
		Log:    span,
	})
	if err != nil {
		span.RecordError(err)
		return res, err
	}

	if res.OutputPath == "" {
		res.OutputPath = job.Output
	}
	span.SetAttribute("forge.bytes_in", res.BytesIn)
	span.SetAttribute("forge.bytes_out", res.BytesOut)
	return res, nil
}

// Skip records an empty span for a job whose output is still current.
func (p *Processor) Skip(ctx context.Context, job domain.Job) {
	_, span := p.tracer.Start(ctx, job.Rel,
		ports.WithAttribute(AttrKind, job.Kind.String()),
		ports.WithAttribute(ports.AttrCached, true),
	)
	span.End()
}
