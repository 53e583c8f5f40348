package transform

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
)

// Webp writes a WebP sibling for every matched raster image.
type Webp struct {
	resolver ports.InputResolver
	executor ports.Executor
}

// NewWebp creates a Webp transformer.
func NewWebp(resolver ports.InputResolver, executor ports.Executor) *Webp {
	return &Webp{resolver: resolver, executor: executor}
}

// Transform converts the matched images with cwebp at the configured quality.
func (t *Webp) Transform(ctx context.Context, root string, step *domain.Step, log io.Writer) error {
	matches, err := resolve(t.resolver, root, step)
	if err != nil {
		return err
	}
	dir := outputDir(root, step)
	tool := step.Options.Tool("cwebp")
	quality := strconv.Itoa(step.Options.Quality)

	for _, m := range matches {
		dst, err := destination(root, dir, WebpName(m.Rel))
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
			return domain.Fatal(zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", dst))
		}
		cmd := domain.Command{
			Args: []string{tool, "-quiet", "-q", quality, m.Path, "-o", dst},
			Dir:  root,
		}
		if err := t.executor.Execute(ctx, cmd, log, log); err != nil {
			return transformError(err, "cwebp", relTo(root, m.Path))
		}
		_, _ = fmt.Fprintf(log, "wrote %s\n", relTo(root, dst))
	}
	return nil
}

// WebpName replaces the extension of a slash-separated path with .webp.
func WebpName(rel string) string {
	return strings.TrimSuffix(rel, path.Ext(rel)) + ".webp"
}
