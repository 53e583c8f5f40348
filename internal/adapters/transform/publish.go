package transform

import (
	"context"
	"io"
	"os"

	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
)

// Publish hands the output directory to a Publisher.
type Publish struct {
	publisher ports.Publisher
}

// NewPublish creates a Publish transformer.
func NewPublish(publisher ports.Publisher) *Publish {
	return &Publish{publisher: publisher}
}

// Transform publishes the step output directory. The directory must exist.
func (p *Publish) Transform(ctx context.Context, root string, step *domain.Step, log io.Writer) error {
	dir := outputDir(root, step)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return zerr.With(zerr.With(domain.ErrPublishFailed, "reason", "output directory does not exist"), "path", dir)
	}

	opts := ports.PublishOptions{
		Root:       root,
		Remote:     step.Options.Remote,
		Repository: step.Options.Repository,
		Branch:     step.Options.Branch,
		Message:    step.Options.Message,
	}
	return p.publisher.Publish(ctx, dir, opts, log)
}
