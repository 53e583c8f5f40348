package transform

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/press/internal/adapters/fs"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
)

// includeDirective matches <include src="..."></include> and the self-closing form.
var includeDirective = regexp.MustCompile(`(?s)<include\s+src=["']([^"']+)["'][^>]*?(?:/>|>.*?</include>)`)

// Include copies HTML pages, replacing include directives with the referenced files.
type Include struct {
	resolver ports.InputResolver
}

// NewInclude creates an Include transformer.
func NewInclude(resolver ports.InputResolver) *Include {
	return &Include{resolver: resolver}
}

// Transform writes every matched page to the output directory.
// With ResolveIncludes off, pages are copied verbatim.
func (t *Include) Transform(ctx context.Context, root string, step *domain.Step, log io.Writer) error {
	matches, err := resolve(t.resolver, root, step)
	if err != nil {
		return err
	}
	if !step.Options.ResolveIncludes {
		return copyMatches(ctx, root, outputDir(root, step), matches, log)
	}

	dir := outputDir(root, step)
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return err
		}
		dst, err := destination(root, dir, m.Rel)
		if err != nil {
			return err
		}
		page, err := ExpandIncludes(root, m.Path)
		if err != nil {
			return err
		}
		if err := fs.WriteFile(dst, page); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(log, "wrote %s\n", relTo(root, dst))
	}
	return nil
}

// ExpandIncludes returns the content of the page at path with every include
// directive replaced, recursively, by the file it names. Sources resolve against
// root first and then against the including file's directory.
func ExpandIncludes(root, path string) ([]byte, error) {
	return expand(root, path, nil)
}

func expand(root, path string, stack []string) ([]byte, error) {
	if slices.Contains(stack, path) {
		chain := append(slices.Clone(stack), path)
		for i := range chain {
			chain[i] = relTo(root, chain[i])
		}
		return nil, zerr.With(domain.ErrIncludeCycle, "cycle", strings.Join(chain, " -> "))
	}

	content, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	stack = append(stack, path)

	var expandErr error
	out := includeDirective.ReplaceAllFunc(content, func(directive []byte) []byte {
		if expandErr != nil {
			return directive
		}
		src := string(includeDirective.FindSubmatch(directive)[1])
		target, err := locateInclude(root, filepath.Dir(path), src)
		if err != nil {
			expandErr = err
			if !domain.IsFatal(err) {
				expandErr = zerr.With(err, "page", relTo(root, path))
			}
			return directive
		}
		nested, err := expand(root, target, stack)
		if err != nil {
			expandErr = err
			return directive
		}
		return nested
	})
	if expandErr != nil {
		return nil, expandErr
	}
	return out, nil
}

func locateInclude(root, dir, src string) (string, error) {
	rel := filepath.FromSlash(src)
	candidates := []string{filepath.Join(root, rel), filepath.Join(dir, rel)}
	if filepath.IsAbs(rel) {
		candidates = []string{rel}
	}
	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return filepath.Clean(candidate), nil
		}
		if err != nil && !errors.Is(err, iofs.ErrNotExist) {
			return "", domain.Fatal(zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", candidate))
		}
	}
	return "", zerr.With(domain.ErrIncludeNotFound, "src", src)
}
