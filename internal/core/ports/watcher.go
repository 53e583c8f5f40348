package ports

import (
	"context"
	"iter"
	"time"
)

// WatchOp represents the type of file system operation.
type WatchOp uint8

const (
	// OpCreate indicates a file or directory was created.
	OpCreate WatchOp = iota
	// OpWrite indicates a file was modified.
	OpWrite
	// OpRemove indicates a file or directory was removed.
	OpRemove
	// OpRename indicates a file or directory was renamed.
	OpRename
)

// WatchEvent represents a file system event from the watcher.
type WatchEvent struct {
	// Path is the absolute path of the file or directory that changed.
	Path string
	// Operation is the type of change that occurred.
	Operation WatchOp
}

// Watcher defines the interface for watching file system changes.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start begins watching the given root directory recursively.
	Start(ctx context.Context, root string) error
	// Stop stops the watcher and releases all resources.
	Stop() error
	// Events returns an iterator of file system events.
	// Events for the same path within the debounce window are coalesced into one,
	// and writes that leave a file's content unchanged are dropped.
	// The sequence ends when the watcher stops.
	Events() iter.Seq[WatchEvent]
}

// WatcherFactory creates a fresh Watcher for each serve session.
type WatcherFactory interface {
	// NewWatcher creates a watcher that coalesces events over the debounce window.
	NewWatcher(debounce time.Duration) (Watcher, error)
}
