package transform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/press/internal/adapters/fs"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
)

// Bundle copies a script set, concatenates it into Target and minifies the
// concatenation into MinTarget.
type Bundle struct {
	resolver ports.InputResolver
}

// NewBundle creates a Bundle transformer.
func NewBundle(resolver ports.InputResolver) *Bundle {
	return &Bundle{resolver: resolver}
}

// Transform processes the matched scripts in lexicographic path order.
// No matched script is a no-op.
func (b *Bundle) Transform(ctx context.Context, root string, step *domain.Step, log io.Writer) error {
	matches, err := resolve(b.resolver, root, step)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return nil
	}
	opts := step.Options
	dir := outputDir(root, step)

	if opts.CopyDir != "" {
		if err := copyMatches(ctx, root, filepath.Join(dir, filepath.FromSlash(opts.CopyDir)), matches, log); err != nil {
			return err
		}
	}

	sources := make([][]byte, 0, len(matches))
	for _, m := range matches {
		src, err := fs.ReadFile(m.Path)
		if err != nil {
			return err
		}
		sources = append(sources, src)
	}
	joined := Concat(sources)

	if opts.Target != "" {
		if err := b.write(root, dir, opts.Target, joined, log); err != nil {
			return err
		}
	}
	if opts.MinTarget == "" {
		return nil
	}

	sourceFile := opts.Target
	if sourceFile == "" {
		sourceFile = opts.MinTarget
	}
	minified, err := Minify(joined, sourceFile, opts.SourceMap)
	if err != nil {
		return zerr.With(err, "target", opts.MinTarget)
	}
	return b.write(root, dir, opts.MinTarget, minified, log)
}

func (b *Bundle) write(root, dir, name string, data []byte, log io.Writer) error {
	dst, err := destination(root, dir, name)
	if err != nil {
		return err
	}
	if err := fs.WriteFile(dst, data); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(log, "wrote %s\n", relTo(root, dst))
	return nil
}

// Concat joins scripts with a newline between each pair.
func Concat(sources [][]byte) []byte {
	var sb strings.Builder
	for i, src := range sources {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.Write(src)
	}
	return []byte(sb.String())
}

// Minify minifies JavaScript with esbuild. With sourceMap set, an inline source
// map pointing at sourceFile is appended.
func Minify(code []byte, sourceFile string, sourceMap bool) ([]byte, error) {
	opts := api.TransformOptions{
		Loader:            api.LoaderJS,
		Sourcefile:        sourceFile,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
	}
	if sourceMap {
		opts.Sourcemap = api.SourceMapInline
	}

	result := api.Transform(string(code), opts)
	if len(result.Errors) > 0 {
		return nil, transformError(esbuildError(result.Errors), "esbuild", sourceFile)
	}
	return result.Code, nil
}

func esbuildError(msgs []api.Message) error {
	errs := make([]error, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Location != nil {
			errs = append(errs, fmt.Errorf("%s:%d:%d: %s", msg.Location.File, msg.Location.Line, msg.Location.Column, msg.Text))
			continue
		}
		errs = append(errs, errors.New(msg.Text))
	}
	return errors.Join(errs...)
}
