package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/press/internal/adapters/fs"
	"go.trai.ch/press/internal/adapters/logger"
	"go.trai.ch/press/internal/core/ports"
)

// NodeID is the unique identifier for the watcher factory Graft node.
const NodeID graft.ID = "adapter.watcher"

func init() {
	graft.Register(graft.Node[ports.WatcherFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.WalkerNodeID, fs.HasherNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.WatcherFactory, error) {
			walker, err := graft.Dep[*fs.Walker](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[*fs.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(walker, hasher, log), nil
		},
	})
}
