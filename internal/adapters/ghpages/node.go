package ghpages

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/press/internal/adapters/shell"
	"go.trai.ch/press/internal/core/ports"
)

// NodeID is the unique identifier for the publisher Graft node.
const NodeID graft.ID = "adapter.publisher"

func init() {
	graft.Register(graft.Node[ports.Publisher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.Publisher, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewPublisher(executor), nil
		},
	})
}
