package watcher

import (
	"context"
	"iter"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/press/internal/adapters/fs"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 100

// Watcher implements file system watching using fsnotify.
// Raw events pass through a ChangeFilter and a Debouncer before they are delivered.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	walker    *fs.Walker
	filter    *ChangeFilter
	debouncer *Debouncer
	logger    ports.Logger

	events chan ports.WatchEvent
	done   chan struct{}

	opsMu sync.Mutex
	ops   map[string]ports.WatchOp

	sendMu sync.Mutex
	closed bool
}

// NewWatcher creates a new file system watcher coalescing events over debounce.
func NewWatcher(walker *fs.Walker, hasher *fs.Hasher, logger ports.Logger, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create file watcher")
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		walker:    walker,
		filter:    NewChangeFilter(hasher),
		logger:    logger,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
		done:      make(chan struct{}),
		ops:       make(map[string]ports.WatchOp),
	}
	w.debouncer = NewDebouncer(debounce, w.emit)
	return w, nil
}

// Start begins watching the given root directory recursively.
func (w *Watcher) Start(ctx context.Context, root string) error {
	for dir := range w.walker.WalkDirs(root, nil) {
		if err := w.fsWatcher.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "path", dir)
		}
	}
	for file := range w.walker.WalkFiles(root, nil) {
		w.filter.Prime(file)
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	w.debouncer.Stop()
	return w.fsWatcher.Close()
}

// Events returns an iterator of file system events.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// processEvents converts raw fsnotify events until ctx ends or the watcher is closed.
func (w *Watcher) processEvents(ctx context.Context) {
	defer w.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher: " + err.Error())
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	op, ok := convertOp(event.Op)
	if !ok {
		return
	}

	// A new directory is watched together with everything already inside it.
	if op == ports.OpCreate {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			for dir := range w.walker.WalkDirs(event.Name, nil) {
				_ = w.fsWatcher.Add(dir)
			}
			w.record(event.Name, ports.OpCreate)
			for file := range w.walker.WalkFiles(event.Name, nil) {
				if w.filter.Changed(file, ports.OpCreate) {
					w.record(file, ports.OpCreate)
				}
			}
			return
		}
	}

	if !w.filter.Changed(event.Name, op) {
		return
	}
	w.record(event.Name, op)
}

func (w *Watcher) record(path string, op ports.WatchOp) {
	w.opsMu.Lock()
	w.ops[path] = op
	w.opsMu.Unlock()
	w.debouncer.Add(path)
}

// emit delivers one debounced batch, carrying the last operation seen per path.
func (w *Watcher) emit(paths []string) {
	batch := make([]ports.WatchEvent, 0, len(paths))
	w.opsMu.Lock()
	for _, path := range paths {
		batch = append(batch, ports.WatchEvent{Path: path, Operation: w.ops[path]})
		delete(w.ops, path)
	}
	w.opsMu.Unlock()

	w.sendMu.Lock()
	defer w.sendMu.Unlock()

	if w.closed {
		return
	}
	for _, event := range batch {
		select {
		case w.events <- event:
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) shutdown() {
	w.debouncer.Stop()
	close(w.done)

	w.sendMu.Lock()
	w.closed = true
	close(w.events)
	w.sendMu.Unlock()
}

// convertOp maps an fsnotify operation to a ports.WatchOp.
func convertOp(op fsnotify.Op) (ports.WatchOp, bool) {
	switch {
	case op.Has(fsnotify.Write):
		return ports.OpWrite, true
	case op.Has(fsnotify.Create):
		return ports.OpCreate, true
	case op.Has(fsnotify.Remove):
		return ports.OpRemove, true
	case op.Has(fsnotify.Rename):
		return ports.OpRename, true
	default:
		return 0, false
	}
}
