package ports

import (
	"context"

	"go.trai.ch/forge/internal/core/domain"
)

// Transformer turns one input asset into its output artifact.
//
//go:generate mockgen -source=transformer.go -destination=mocks/mock_transformer.go -package=mocks
type Transformer interface {
	Transform(ctx context.Context, req domain.TransformRequest) (domain.TransformResult, error)
}
