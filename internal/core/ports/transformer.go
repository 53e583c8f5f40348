package ports

import (
	"context"
	"io"

	"go.trai.ch/press/internal/core/domain"
)

// Transformer executes steps of one kind.
//
//go:generate mockgen -source=transformer.go -destination=mocks/mock_transformer.go -package=mocks
type Transformer interface {
	// Transform runs step against the project at root, writing tool output to log.
	Transform(ctx context.Context, root string, step *domain.Step, log io.Writer) error
}

// StepRunner dispatches a step to the transformer registered for its kind.
type StepRunner interface {
	Transformer
	// Kinds lists the step kinds the runner can execute.
	Kinds() []domain.StepKind
}
