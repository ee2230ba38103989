package transform

import (
	"context"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

var _ ports.Transformer = (*Dispatcher)(nil)

// Dispatcher routes each request to the command configured for its kind,
// falling back to a plain copy.
type Dispatcher struct {
	command ports.Transformer
	copier  ports.Transformer
}

// NewDispatcher creates a Dispatcher over the given transforms.
func NewDispatcher(command, copier ports.Transformer) *Dispatcher {
	return &Dispatcher{command: command, copier: copier}
}

// Transform implements ports.Transformer.
func (d *Dispatcher) Transform(ctx context.Context, req domain.TransformRequest) (domain.TransformResult, error) {
	if _, ok := req.Config.Rule(req.Kind); ok {
		return d.command.Transform(ctx, req)
	}
	return d.copier.Transform(ctx, req)
}
