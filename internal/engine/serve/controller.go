// Package serve keeps the output directory fresh while a browser looks at it.
package serve

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.trai.ch/press/internal/adapters/fs"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// State is the lifecycle state of a Controller.
type State string

const (
	// StateStopped means no server or watcher is running.
	StateStopped State = "stopped"
	// StateServing means the reloader is listening and bindings are installed.
	StateServing State = "serving"
)

// TaskRunner runs named tasks of a graph.
type TaskRunner interface {
	Run(ctx context.Context, graph *domain.Graph, targets []string) error
}

// Controller owns one serve session: the live-reload server, the watcher, and one
// rebuild worker per watch binding.
type Controller struct {
	runner    TaskRunner
	watchers  ports.WatcherFactory
	reloaders ports.ReloaderFactory
	logger    ports.Logger

	mu    sync.Mutex
	state State
}

// NewController creates a stopped Controller.
func NewController(
	runner TaskRunner,
	watchers ports.WatcherFactory,
	reloaders ports.ReloaderFactory,
	logger ports.Logger,
) *Controller {
	return &Controller{
		runner:    runner,
		watchers:  watchers,
		reloaders: reloaders,
		logger:    logger,
		state:     StateStopped,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Serve starts the reloader over the site's output directory, watches its source
// directory and rebuilds bound tasks until ctx is cancelled.
// A failed rebuild is logged and the session keeps going.
func (c *Controller) Serve(ctx context.Context, site *domain.Site, graph *domain.Graph, bindings []domain.WatchBinding) error {
	c.mu.Lock()
	if c.state == StateServing {
		c.mu.Unlock()
		return domain.ErrAlreadyServing
	}
	c.state = StateServing
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.state = StateStopped
		c.mu.Unlock()
	}()

	workers, err := c.newWorkers(site, graph, bindings)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reloader := c.reloaders.NewReloader(filepath.Join(site.Root, filepath.FromSlash(site.Output)), site.Serve)
	if err := reloader.Start(ctx); err != nil {
		return err
	}

	watcher, err := c.watchers.NewWatcher(site.Serve.Debounce)
	if err != nil {
		return err
	}
	defer func() {
		_ = watcher.Stop()
	}()

	sourceDir := filepath.Join(site.Root, filepath.FromSlash(site.Source))
	if err := watcher.Start(ctx, sourceDir); err != nil {
		return zerr.With(err, "path", sourceDir)
	}
	c.logger.Info(fmt.Sprintf("watching %s", site.Source))

	var g errgroup.Group
	for _, w := range workers {
		w.reloader = reloader
		g.Go(func() error {
			w.loop(ctx)
			return nil
		})
	}

	for event := range watcher.Events() {
		rel, err := filepath.Rel(site.Root, event.Path)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		for _, w := range workers {
			if w.matches(rel) {
				w.trigger()
			}
		}
	}

	cancel()
	return g.Wait()
}

func (c *Controller) newWorkers(site *domain.Site, graph *domain.Graph, bindings []domain.WatchBinding) ([]*worker, error) {
	workers := make([]*worker, 0, len(bindings))
	for _, b := range bindings {
		if _, ok := graph.GetTask(b.Task); !ok {
			return nil, zerr.With(zerr.With(domain.ErrTaskNotFound, "task", b.Task.String()), "binding", b.Name)
		}

		matchers := make([]*fs.Matcher, 0, len(b.Patterns))
		for _, pattern := range b.Patterns {
			m, err := fs.CompileMatcher(pattern)
			if err != nil {
				return nil, zerr.With(err, "binding", b.Name)
			}
			matchers = append(matchers, m)
		}

		workers = append(workers, &worker{
			binding:   b,
			matchers:  matchers,
			pending:   make(chan struct{}, 1),
			graph:     graph,
			outputDir: filepath.Join(site.Root, filepath.FromSlash(site.Output)),
			runner:    c.runner,
			logger:    c.logger,
		})
	}
	return workers, nil
}

// worker rebuilds one binding. Triggers that arrive while a run is in flight
// collapse into a single follow-up run.
type worker struct {
	binding   domain.WatchBinding
	matchers  []*fs.Matcher
	pending   chan struct{}
	graph     *domain.Graph
	outputDir string
	runner    TaskRunner
	reloader  ports.Reloader
	logger    ports.Logger
}

func (w *worker) matches(rel string) bool {
	for _, m := range w.matchers {
		if m.Match(rel) {
			return true
		}
	}
	return false
}

func (w *worker) trigger() {
	select {
	case w.pending <- struct{}{}:
	default:
	}
}

func (w *worker) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.pending:
			w.rebuild(ctx)
		}
	}
}

func (w *worker) rebuild(ctx context.Context) {
	task := w.binding.Task.String()
	start := time.Now()

	if err := w.runner.Run(ctx, w.graph, []string{task}); err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.Error(zerr.With(err, "binding", w.binding.Name))
		return
	}
	w.logger.Info(fmt.Sprintf("rebuilt %s in %s", task, time.Since(start).Round(time.Millisecond)))

	if w.binding.Reload != domain.ReloadInject {
		w.reloader.Reload()
		return
	}
	for _, rel := range w.binding.Inject {
		content, err := os.ReadFile(filepath.Join(w.outputDir, filepath.FromSlash(rel)))
		if err != nil {
			w.logger.Warn(fmt.Sprintf("skipping stylesheet %s: %v", rel, err))
			continue
		}
		w.reloader.InjectCSS(rel, content)
	}
}
