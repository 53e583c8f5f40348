package watcher

import (
	"sync"

	"go.trai.ch/press/internal/adapters/fs"
	"go.trai.ch/press/internal/core/ports"
)

// ChangeFilter drops write events that leave a file's content as it was,
// such as an editor saving an unmodified buffer.
type ChangeFilter struct {
	hasher *fs.Hasher
	mu     sync.Mutex
	seen   map[string]uint64
}

// NewChangeFilter creates an empty filter.
func NewChangeFilter(hasher *fs.Hasher) *ChangeFilter {
	return &ChangeFilter{
		hasher: hasher,
		seen:   make(map[string]uint64),
	}
}

// Prime records the current content of path without reporting a change.
func (f *ChangeFilter) Prime(path string) {
	sum, err := f.hasher.ComputeFileHash(path)
	if err != nil {
		return
	}
	f.mu.Lock()
	f.seen[path] = sum
	f.mu.Unlock()
}

// Changed reports whether the event at path should be delivered.
func (f *ChangeFilter) Changed(path string, op ports.WatchOp) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if op == ports.OpRemove || op == ports.OpRename {
		delete(f.seen, path)
		return true
	}

	sum, err := f.hasher.ComputeFileHash(path)
	if err != nil {
		// Directories and files that vanished again are always reported.
		delete(f.seen, path)
		return true
	}

	if prev, ok := f.seen[path]; ok && prev == sum {
		return false
	}
	f.seen[path] = sum
	return true
}
