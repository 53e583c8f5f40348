package transform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"go.trai.ch/press/internal/adapters/fs"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
)

// globImport matches an @import whose path holds glob characters.
var globImport = regexp.MustCompile(`(?m)^([ \t]*)@import\s+["']([^"']*[*?{\[][^"']*)["']\s*;`)

// Sass compiles the stylesheet entry point twice: expanded with an external
// source map, and compressed with an embedded one.
type Sass struct {
	resolver ports.InputResolver
	executor ports.Executor
}

// NewSass creates a Sass transformer.
func NewSass(resolver ports.InputResolver, executor ports.Executor) *Sass {
	return &Sass{resolver: resolver, executor: executor}
}

// Transform compiles the first matched entry. No entry is a no-op.
func (s *Sass) Transform(ctx context.Context, root string, step *domain.Step, log io.Writer) error {
	matches, err := resolve(s.resolver, root, step)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return nil
	}
	entry := matches[0].Path
	opts := step.Options
	tool := opts.Tool("sass")

	input, cleanup, err := expandGlobImports(entry)
	if err != nil {
		return err
	}
	defer cleanup()

	loadPaths := []string{filepath.Dir(entry)}
	for _, p := range opts.IncludePaths {
		loadPaths = append(loadPaths, filepath.Join(root, filepath.FromSlash(p)))
	}

	dir := outputDir(root, step)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return domain.Fatal(zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", dir))
	}

	outputs := []struct {
		name  string
		style string
		smap  string
	}{
		{opts.Target, "expanded", "--source-map"},
		{opts.MinTarget, "compressed", "--embed-source-map"},
	}
	for _, out := range outputs {
		if out.name == "" {
			continue
		}
		dst, err := destination(root, dir, out.name)
		if err != nil {
			return err
		}

		args := []string{tool, "--no-error-css", "--style=" + out.style}
		if opts.SourceMap {
			args = append(args, out.smap)
		} else {
			args = append(args, "--no-source-map")
		}
		for _, p := range loadPaths {
			args = append(args, "--load-path="+p)
		}
		args = append(args, input, dst)

		cmd := domain.Command{Args: args, Dir: root}
		if err := s.executor.Execute(ctx, cmd, log, log); err != nil {
			return transformError(err, "sass", relTo(root, entry))
		}
		if opts.SourceMap {
			if err := retargetSourceMaps(dst, input, entry); err != nil {
				return err
			}
		}
		if err := s.postProcess(ctx, root, opts, dst, log); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(log, "wrote %s\n", relTo(root, dst))
	}
	return nil
}

// postProcess runs the post-processing command on path. An optional command
// whose tool is not installed is skipped.
func (s *Sass) postProcess(ctx context.Context, root string, opts domain.StepOptions, path string, log io.Writer) error {
	command := opts.PostProcess
	if len(command) == 0 {
		return nil
	}
	args := append(slices.Clone(command), path)
	err := s.executor.Execute(ctx, domain.Command{Args: args, Dir: root}, log, log)
	if opts.OptionalPostProcess && errors.Is(err, domain.ErrToolNotFound) {
		_, _ = fmt.Fprintf(log, "skipped %s: not installed\n", command[0])
		return nil
	}
	if err != nil {
		return transformError(err, command[0], relTo(root, path))
	}
	return nil
}

// expandGlobImports rewrites glob @imports of entry into one @import per matching
// file, in lexicographic order. When entry has none, it is returned unchanged.
// Otherwise the rewritten stylesheet lives in a temporary file removed by cleanup;
// the source maps compiled from it are retargeted at entry afterwards.
func expandGlobImports(entry string) (string, func(), error) {
	noop := func() {}
	content, err := fs.ReadFile(entry)
	if err != nil {
		return "", noop, err
	}
	if !globImport.Match(content) {
		return entry, noop, nil
	}

	expanded, err := ExpandGlobImports(filepath.Dir(entry), content)
	if err != nil {
		return "", noop, err
	}

	tmp, err := os.CreateTemp("", "press-*"+filepath.Ext(entry))
	if err != nil {
		return "", noop, domain.Fatal(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()))
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }
	if _, err := tmp.Write(expanded); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", noop, domain.Fatal(zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", tmp.Name()))
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", noop, domain.Fatal(zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", tmp.Name()))
	}
	return tmp.Name(), cleanup, nil
}

// ExpandGlobImports replaces every glob @import in content with the matching
// stylesheets below dir. Imports use paths relative to dir.
func ExpandGlobImports(dir string, content []byte) ([]byte, error) {
	var expandErr error
	out := globImport.ReplaceAllFunc(content, func(stmt []byte) []byte {
		sub := globImport.FindSubmatch(stmt)
		indent, pattern := string(sub[1]), string(sub[2])

		matcher, err := fs.CompileMatcher(pattern)
		if err != nil {
			expandErr = err
			return stmt
		}

		base := filepath.Join(dir, filepath.FromSlash(fs.GlobBase(pattern)))
		var files []string
		for path := range fs.NewWalker().WalkFiles(base, nil) {
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)
			if matcher.Match(rel) {
				files = append(files, rel)
			}
		}
		slices.Sort(files)

		var b bytes.Buffer
		for i, f := range files {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%s@import %q;", indent, f)
		}
		return b.Bytes()
	})
	if expandErr != nil {
		return nil, expandErr
	}
	return out, nil
}
