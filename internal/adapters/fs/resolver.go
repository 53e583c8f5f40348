package fs

import (
	"os"
	"path"
	"path/filepath"
	"sort"

	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// Resolver implements the InputResolver interface with gobwas/glob patterns.
type Resolver struct {
	walker *Walker
}

// NewResolver creates a new Resolver.
func NewResolver(walker *Walker) *Resolver {
	return &Resolver{walker: walker}
}

// ResolveInputs expands patterns relative to root into existing files.
// A file matched by several patterns is reported once, with Rel computed from the first
// pattern that matched it. Patterns matching nothing contribute nothing.
func (r *Resolver) ResolveInputs(patterns []string, root string) ([]ports.InputMatch, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}

	seen := make(map[string]ports.InputMatch)
	for _, pattern := range patterns {
		matches, err := r.resolvePattern(pattern, absRoot)
		if err != nil {
			return nil, err
		}
		for _, match := range matches {
			if _, ok := seen[match.Path]; !ok {
				seen[match.Path] = match
			}
		}
	}

	result := make([]ports.InputMatch, 0, len(seen))
	for _, match := range seen {
		result = append(result, match)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})
	return result, nil
}

func (r *Resolver) resolvePattern(pattern, root string) ([]ports.InputMatch, error) {
	pattern = filepath.ToSlash(pattern)
	if path.IsAbs(pattern) {
		rel, err := filepath.Rel(root, filepath.FromSlash(pattern))
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrFailedToResolveRelativePath.Error()), "pattern", pattern)
		}
		pattern = filepath.ToSlash(rel)
	}
	pattern = path.Clean(pattern)
	base := GlobBase(pattern)

	if !HasMeta(pattern) {
		abs := filepath.Join(root, filepath.FromSlash(pattern))
		info, err := os.Stat(abs)
		if err != nil || !info.Mode().IsRegular() {
			return nil, nil
		}
		return []ports.InputMatch{{Path: abs, Rel: path.Base(pattern)}}, nil
	}

	matcher, err := CompileMatcher(pattern)
	if err != nil {
		return nil, err
	}

	absBase := filepath.Join(root, filepath.FromSlash(base))
	var matches []ports.InputMatch
	for file := range r.walker.WalkFiles(absBase, nil) {
		relRoot, err := filepath.Rel(root, file)
		if err != nil {
			continue
		}
		if !matcher.Match(filepath.ToSlash(relRoot)) {
			continue
		}
		relBase, err := filepath.Rel(absBase, file)
		if err != nil {
			continue
		}
		matches = append(matches, ports.InputMatch{Path: file, Rel: filepath.ToSlash(relBase)})
	}
	return matches, nil
}
