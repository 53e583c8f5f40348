package ports

import (
	"context"
	"io"
)

// PublishOptions describes where the output directory is published.
type PublishOptions struct {
	// Root is the project root, used to read the remote URL.
	Root       string
	Remote     string
	Repository string
	Branch     string
	Message    string
}

// Publisher uploads a directory to a hosting branch.
//
//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks
type Publisher interface {
	// Publish replaces the branch content with the files in dir.
	// dir itself is never modified.
	Publish(ctx context.Context, dir string, opts PublishOptions, log io.Writer) error
}
