package ports

import (
	"context"

	"go.trai.ch/press/internal/core/domain"
)

// Reloader is the live-reload server: it serves the output directory and
// pushes change notifications to connected browsers.
//
//go:generate mockgen -source=reloader.go -destination=mocks/mock_reloader.go -package=mocks
type Reloader interface {
	// Start begins serving and returns once the listener is bound.
	// The server shuts down when ctx is cancelled.
	Start(ctx context.Context) error
	// URL returns the address browsers should open.
	URL() string
	// Reload asks every connected client to reload the page.
	Reload()
	// InjectCSS pushes new stylesheet content for the stylesheet at path,
	// relative to the served directory.
	InjectCSS(path string, content []byte)
}

// ReloaderFactory creates a Reloader serving dir.
type ReloaderFactory interface {
	NewReloader(dir string, cfg domain.ServeConfig) Reloader
}
