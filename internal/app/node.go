package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/press/internal/adapters/config"     //nolint:depguard // Wired in app layer
	"go.trai.ch/press/internal/adapters/detector"   //nolint:depguard // Wired in app layer
	"go.trai.ch/press/internal/adapters/livereload" //nolint:depguard // Wired in app layer
	"go.trai.ch/press/internal/adapters/logger"     //nolint:depguard // Wired in app layer
	"go.trai.ch/press/internal/adapters/telemetry"  //nolint:depguard // Wired in app layer
	"go.trai.ch/press/internal/adapters/transform"  //nolint:depguard // Wired in app layer
	"go.trai.ch/press/internal/adapters/watcher"    //nolint:depguard // Wired in app layer
	"go.trai.ch/press/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			transform.NodeID,
			telemetry.TracerNodeID,
			watcher.NodeID,
			livereload.NodeID,
			logger.NodeID,
			detector.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	steps, err := graft.Dep[ports.StepRunner](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[*telemetry.OTelTracer](ctx)
	if err != nil {
		return nil, err
	}

	watchers, err := graft.Dep[ports.WatcherFactory](ctx)
	if err != nil {
		return nil, err
	}

	reloaders, err := graft.Dep[ports.ReloaderFactory](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	env, err := graft.Dep[detector.Env](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, steps, tracer, watchers, reloaders, log, env), nil
}
