package transform

import (
	"context"
	"fmt"
	"io"

	"go.trai.ch/press/internal/adapters/fs"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
)

// Copy copies matched files verbatim, keeping their path below the glob base.
type Copy struct {
	resolver ports.InputResolver
}

// NewCopy creates a Copy transformer.
func NewCopy(resolver ports.InputResolver) *Copy {
	return &Copy{resolver: resolver}
}

// Transform copies every matched file into the step output directory.
func (c *Copy) Transform(ctx context.Context, root string, step *domain.Step, log io.Writer) error {
	matches, err := resolve(c.resolver, root, step)
	if err != nil {
		return err
	}
	return copyMatches(ctx, root, outputDir(root, step), matches, log)
}

func copyMatches(ctx context.Context, root, dir string, matches []ports.InputMatch, log io.Writer) error {
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return err
		}
		dst, err := destination(root, dir, m.Rel)
		if err != nil {
			return err
		}
		if err := fs.CopyFile(m.Path, dst); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(log, "copied %s\n", relTo(root, dst))
	}
	return nil
}
