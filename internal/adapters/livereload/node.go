package livereload

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/press/internal/adapters/logger"
	"go.trai.ch/press/internal/core/ports"
)

// NodeID is the unique identifier for the live-reload factory Graft node.
const NodeID graft.ID = "adapter.livereload"

func init() {
	graft.Register(graft.Node[ports.ReloaderFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ReloaderFactory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(log), nil
		},
	})
}
