// Package scheduler executes the task graph: series children one after another,
// parallel children concurrently, leaves through the step runner.
package scheduler

import (
	"context"
	"errors"
	"sync/atomic"

	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Scheduler manages the execution of tasks in the task graph.
type Scheduler struct {
	runner ports.StepRunner
	tracer ports.Tracer
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(runner ports.StepRunner, tracer ports.Tracer) *Scheduler {
	return &Scheduler{
		runner: runner,
		tracer: tracer,
	}
}

// Run executes the named targets and all of their transitive children.
// Targets run in series, in the order given. The first failure stops the
// remaining targets and is returned.
func (s *Scheduler) Run(ctx context.Context, graph *domain.Graph, targetNames []string) error {
	if len(targetNames) == 0 {
		return domain.ErrNoTargetsSpecified
	}

	// Explicitly validate the graph before anything starts.
	if err := graph.Validate(); err != nil {
		return err
	}

	plannedTasks, children, err := graph.Plan(targetNames)
	if err != nil {
		return err
	}
	s.tracer.EmitPlan(ctx, plannedTasks, children, targetNames)

	state := &runState{s: s, graph: graph}
	for _, name := range targetNames {
		task, err := graph.Resolve(name)
		if err != nil {
			return err
		}
		if err := state.run(ctx, task); err != nil {
			return err
		}
	}
	return nil
}

type runState struct {
	s       *Scheduler
	graph   *domain.Graph
	aborted atomic.Bool
}

func (state *runState) run(ctx context.Context, task domain.Task) error {
	if state.aborted.Load() {
		return zerr.With(zerr.Wrap(domain.ErrRunAborted, "task not started"), "task", task.Name.String())
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, span := state.s.tracer.Start(ctx, task.Name.String())
	defer span.End()
	span.SetAttribute("press.kind", task.Kind.String())

	var err error
	switch task.Kind {
	case domain.KindSeries:
		err = state.runSeries(ctx, task)
	case domain.KindParallel:
		err = state.runParallel(ctx, task)
	default:
		err = state.runLeaf(ctx, task, span)
	}

	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (state *runState) runSeries(ctx context.Context, task domain.Task) error {
	for _, child := range task.Children {
		next, ok := state.graph.GetTask(child)
		if !ok {
			return zerr.With(domain.ErrMissingDependency, "missing_dependency", child.String())
		}
		if err := state.run(ctx, next); err != nil {
			return err
		}
	}
	return nil
}

// runParallel waits for every child. A failing child does not cancel its siblings.
func (state *runState) runParallel(ctx context.Context, task domain.Task) error {
	errs := make([]error, len(task.Children))

	var g errgroup.Group
	for i, child := range task.Children {
		next, ok := state.graph.GetTask(child)
		if !ok {
			errs[i] = zerr.With(domain.ErrMissingDependency, "missing_dependency", child.String())
			continue
		}
		g.Go(func() error {
			errs[i] = state.run(ctx, next)
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

func (state *runState) runLeaf(ctx context.Context, task domain.Task, span ports.Span) error {
	if task.Step == nil {
		return zerr.With(domain.ErrInvalidTask, "task", task.Name.String())
	}
	span.SetAttribute("press.step", string(task.Step.Kind))

	err := state.s.runner.Transform(ctx, state.graph.Root(), task.Step, span)
	if err == nil {
		return nil
	}
	if domain.IsFatal(err) {
		state.aborted.Store(true)
	}
	// Enhance error with task name
	return zerr.With(zerr.Wrap(err, domain.ErrTaskExecutionFailed.Error()), "task", task.Name.String())
}
