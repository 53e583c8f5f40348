package watcher

import (
	"time"

	"go.trai.ch/press/internal/adapters/fs"
	"go.trai.ch/press/internal/core/ports"
)

var _ ports.WatcherFactory = (*Factory)(nil)

// Factory creates watchers sharing one walker and hasher.
type Factory struct {
	walker *fs.Walker
	hasher *fs.Hasher
	logger ports.Logger
}

// NewFactory creates a new Factory.
func NewFactory(walker *fs.Walker, hasher *fs.Hasher, logger ports.Logger) *Factory {
	return &Factory{walker: walker, hasher: hasher, logger: logger}
}

// NewWatcher implements ports.WatcherFactory.
func (f *Factory) NewWatcher(debounce time.Duration) (ports.Watcher, error) {
	return NewWatcher(f.walker, f.hasher, f.logger, debounce)
}
