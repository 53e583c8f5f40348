package transform

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"
	"go.trai.ch/press/internal/adapters/fs"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
)

const svgMediaType = "image/svg+xml"

// Imagemin optimizes matched images in place: PNG with optipng, JPEG with
// jpegtran and SVG natively. Other formats are left untouched.
type Imagemin struct {
	resolver ports.InputResolver
	executor ports.Executor
	minifier *minify.M
}

// NewImagemin creates an Imagemin transformer.
func NewImagemin(resolver ports.InputResolver, executor ports.Executor) *Imagemin {
	return &Imagemin{resolver: resolver, executor: executor, minifier: newSVGMinifier()}
}

func newSVGMinifier() *minify.M {
	m := minify.New()
	m.AddFunc(svgMediaType, svg.Minify)
	return m
}

// Transform optimizes every matched image.
func (t *Imagemin) Transform(ctx context.Context, root string, step *domain.Step, log io.Writer) error {
	matches, err := resolve(t.resolver, root, step)
	if err != nil {
		return err
	}

	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch strings.ToLower(filepath.Ext(m.Path)) {
		case ".png":
			err = t.optipng(ctx, root, step.Options, m.Path, log)
		case ".jpg", ".jpeg":
			err = t.jpegtran(ctx, root, step.Options, m.Path, log)
		case ".svg":
			err = t.svg(m.Path)
		default:
			continue
		}
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(log, "optimized %s\n", relTo(root, m.Path))
	}
	return nil
}

func (t *Imagemin) optipng(ctx context.Context, root string, opts domain.StepOptions, path string, log io.Writer) error {
	tool := opts.Tool("optipng")
	cmd := domain.Command{
		Args: []string{tool, "-quiet", "-o" + strconv.Itoa(opts.OptimizationLevel), path},
		Dir:  root,
	}
	if err := t.executor.Execute(ctx, cmd, log, log); err != nil {
		return transformError(err, "optipng", relTo(root, path))
	}
	return nil
}

// jpegtran cannot write in place, so it writes a sibling that replaces the original.
func (t *Imagemin) jpegtran(ctx context.Context, root string, opts domain.StepOptions, path string, log io.Writer) error {
	tmp := path + ".tmp"
	args := []string{opts.Tool("jpegtran"), "-copy", "none", "-optimize"}
	if opts.Progressive {
		args = append(args, "-progressive")
	}
	args = append(args, "-outfile", tmp, path)

	if err := t.executor.Execute(ctx, domain.Command{Args: args, Dir: root}, log, log); err != nil {
		_ = os.Remove(tmp)
		return transformError(err, "jpegtran", relTo(root, path))
	}
	if err := os.Rename(tmp, path); err != nil {
		return domain.Fatal(zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", path))
	}
	return nil
}

func (t *Imagemin) svg(path string) error {
	data, err := fs.ReadFile(path)
	if err != nil {
		return err
	}
	out, err := MinifySVG(t.minifier, data)
	if err != nil {
		return zerr.With(err, "path", path)
	}
	return fs.WriteFile(path, out)
}

// MinifySVG minifies one SVG document.
func MinifySVG(m *minify.M, data []byte) ([]byte, error) {
	out, err := m.Bytes(svgMediaType, data)
	if err != nil {
		return nil, transformError(err, "svgmin", "")
	}
	return out, nil
}
