package transform

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/press/internal/adapters/fs"
	"go.trai.ch/press/internal/adapters/ghpages"
	"go.trai.ch/press/internal/adapters/shell"
	"go.trai.ch/press/internal/core/ports"
)

// NodeID is the unique identifier for the transform registry Graft node.
const NodeID graft.ID = "adapter.transform"

func init() {
	graft.Register(graft.Node[ports.StepRunner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.ResolverNodeID, shell.NodeID, ghpages.NodeID},
		Run: func(ctx context.Context) (ports.StepRunner, error) {
			resolver, err := graft.Dep[ports.InputResolver](ctx)
			if err != nil {
				return nil, err
			}
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			publisher, err := graft.Dep[ports.Publisher](ctx)
			if err != nil {
				return nil, err
			}
			return NewDefaultRegistry(resolver, executor, publisher), nil
		},
	})
}
