// Package app implements the application layer for press.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/press/internal/adapters/detector"
	"go.trai.ch/press/internal/adapters/linear"
	"go.trai.ch/press/internal/adapters/telemetry"
	"go.trai.ch/press/internal/adapters/tui"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/press/internal/engine/pipeline"
	"go.trai.ch/press/internal/engine/scheduler"
	"go.trai.ch/press/internal/engine/serve"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	steps        ports.StepRunner
	tracer       *telemetry.OTelTracer
	watchers     ports.WatcherFactory
	reloaders    ports.ReloaderFactory
	logger       ports.Logger
	env          detector.Env
	stdout       io.Writer
	stderr       io.Writer
	teaOptions   []tea.ProgramOption
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	steps ports.StepRunner,
	tracer *telemetry.OTelTracer,
	watchers ports.WatcherFactory,
	reloaders ports.ReloaderFactory,
	log ports.Logger,
	env detector.Env,
) *App {
	return &App{
		configLoader: loader,
		steps:        steps,
		tracer:       tracer,
		watchers:     watchers,
		reloaders:    reloaders,
		logger:       log,
		env:          env,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithOutput redirects the renderers and listings.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// ConfigureLogging selects the log format: "pretty" or "json".
func (a *App) ConfigureLogging(format string) error {
	switch format {
	case "pretty":
		a.logger.SetJSON(false)
	case "json":
		a.logger.SetJSON(true)
	default:
		return zerr.With(domain.ErrInvalidLogFormat, "log_format", format)
	}
	return nil
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	ConfigPath string
	OutputMode string
}

// ServeOptions configuration for the Serve method.
type ServeOptions struct {
	ConfigPath string
	// Port overrides the configured port when positive.
	Port int
	// Open overrides the configured browser behavior when set.
	Open *bool
	// Build runs the root task before serving.
	Build bool
}

// Run executes the named tasks in series.
func (a *App) Run(ctx context.Context, targetNames []string, opts RunOptions) error {
	// 1. Load the site and define its tasks
	_, graph, _, err := a.load(opts.ConfigPath)
	if err != nil {
		return err
	}

	// 2. Validate targets
	if len(targetNames) == 0 {
		return domain.ErrNoTargetsSpecified
	}

	// 3. Initialize Renderer
	mode, err := detector.ResolveMode(a.env.Detect(), opts.OutputMode)
	if err != nil {
		return err
	}
	renderer := a.newRenderer(ctx, mode)

	// 4. Route telemetry to the renderer for the duration of the run
	a.tracer.WithRenderer(renderer)
	defer a.tracer.WithRenderer(nil)

	sched := scheduler.NewScheduler(a.steps, a.tracer)

	// 5. Run Renderer and Scheduler concurrently
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(ctx); err != nil {
			return err
		}
		// Wait blocks until the renderer has terminated.
		return renderer.Wait()
	})

	g.Go(func() error {
		defer func() {
			_ = renderer.Stop()
		}()

		if err := sched.Run(ctx, graph, targetNames); err != nil {
			return errors.Join(domain.ErrBuildExecutionFailed, err)
		}
		return nil
	})

	return g.Wait()
}

// Serve optionally builds the site, then serves the output directory with live
// reload until ctx is cancelled.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	site, graph, bindings, err := a.load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Port > 0 {
		site.Serve.Port = opts.Port
	}
	if opts.Open != nil {
		site.Serve.Open = *opts.Open
	}

	// Rebuild output interleaves with server logs, so serving always renders linearly.
	renderer := linear.NewRenderer(a.stdout, a.stderr)
	if err := renderer.Start(ctx); err != nil {
		return err
	}
	a.tracer.WithRenderer(renderer)
	defer func() {
		a.tracer.WithRenderer(nil)
		_ = renderer.Stop()
		_ = renderer.Wait()
	}()

	sched := scheduler.NewScheduler(a.steps, a.tracer)

	if opts.Build {
		if err := sched.Run(ctx, graph, []string{pipeline.RootTask}); err != nil {
			return errors.Join(domain.ErrBuildExecutionFailed, err)
		}
	}

	controller := serve.NewController(sched, a.watchers, a.reloaders, a.logger)
	return controller.Serve(ctx, site, graph, bindings)
}

// Deploy publishes the output directory.
func (a *App) Deploy(ctx context.Context, opts RunOptions) error {
	return a.Run(ctx, []string{"deploy"}, opts)
}

// Tasks writes every registered task with its description and aliases.
func (a *App) Tasks(_ context.Context, configPath string) error {
	_, graph, _, err := a.load(configPath)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	for _, name := range graph.Names() {
		task, _ := graph.GetTask(domain.NewInternedString(name))
		line := name + "\t" + task.Kind.String() + "\t" + task.Description
		if aliases := graph.Aliases(task.Name); len(aliases) > 0 {
			line += fmt.Sprintf(" (alias: %s)", strings.Join(aliases, ", "))
		}
		_, _ = fmt.Fprintln(tw, line)
	}
	return tw.Flush()
}

func (a *App) load(configPath string) (*domain.Site, *domain.Graph, []domain.WatchBinding, error) {
	site, err := a.loadSite(configPath)
	if err != nil {
		return nil, nil, nil, zerr.Wrap(err, "failed to load configuration")
	}

	graph, bindings, err := pipeline.Define(site)
	if err != nil {
		return nil, nil, nil, zerr.Wrap(err, "failed to define pipeline")
	}
	if err := pipeline.CheckSteps(graph, a.steps.Kinds()); err != nil {
		return nil, nil, nil, zerr.Wrap(err, "failed to define pipeline")
	}
	return site, graph, bindings, nil
}

func (a *App) loadSite(configPath string) (*domain.Site, error) {
	if configPath != "" {
		return a.configLoader.LoadFile(configPath)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}
	return a.configLoader.Load(cwd)
}

func (a *App) newRenderer(ctx context.Context, mode detector.OutputMode) ports.Renderer {
	if mode == detector.ModeTUI {
		model := tui.NewModel(a.stderr)
		optsTea := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(a.stderr)}, a.teaOptions...)
		return tui.NewRenderer(&model, optsTea...)
	}
	return linear.NewRenderer(a.stdout, a.stderr)
}
