// Package transform implements the pipeline steps: one transformer per step kind.
package transform

import (
	"context"
	"io"
	"maps"
	"slices"

	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.StepRunner = (*Registry)(nil)

// Registry dispatches steps to the transformer registered for their kind.
type Registry struct {
	transformers map[domain.StepKind]ports.Transformer
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{transformers: make(map[domain.StepKind]ports.Transformer)}
}

// NewDefaultRegistry registers every built-in transformer.
func NewDefaultRegistry(resolver ports.InputResolver, executor ports.Executor, publisher ports.Publisher) *Registry {
	r := NewRegistry()
	r.Register(domain.StepRemove, NewRemove())
	r.Register(domain.StepCopy, NewCopy(resolver))
	r.Register(domain.StepInclude, NewInclude(resolver))
	r.Register(domain.StepSass, NewSass(resolver, executor))
	r.Register(domain.StepBundle, NewBundle(resolver))
	r.Register(domain.StepImagemin, NewImagemin(resolver, executor))
	r.Register(domain.StepWebp, NewWebp(resolver, executor))
	r.Register(domain.StepSprite, NewSprite(resolver))
	r.Register(domain.StepPublish, NewPublish(publisher))
	return r
}

// Register sets the transformer for kind, replacing any previous one.
func (r *Registry) Register(kind domain.StepKind, t ports.Transformer) {
	r.transformers[kind] = t
}

// Kinds lists the registered step kinds in sorted order.
func (r *Registry) Kinds() []domain.StepKind {
	return slices.Sorted(maps.Keys(r.transformers))
}

// Transform runs step with the transformer registered for its kind.
func (r *Registry) Transform(ctx context.Context, root string, step *domain.Step, log io.Writer) error {
	t, ok := r.transformers[step.Kind]
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrUnknownStep, "failed to run step"), "step", string(step.Kind))
	}
	return t.Transform(ctx, root, step, log)
}
