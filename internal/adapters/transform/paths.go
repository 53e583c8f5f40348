package transform

import (
	"path/filepath"

	"go.trai.ch/press/internal/adapters/fs"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
)

// outputDir returns the absolute output directory of step.
func outputDir(root string, step *domain.Step) string {
	return filepath.Join(root, filepath.FromSlash(step.Output))
}

// destination maps a matched input to its location under dir, refusing paths
// that leave the project root.
func destination(root, dir, rel string) (string, error) {
	dst := filepath.Join(dir, filepath.FromSlash(rel))
	if err := fs.EnsureInside(root, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// resolve expands the step inputs, wrapping failures with the step kind.
func resolve(resolver ports.InputResolver, root string, step *domain.Step) ([]ports.InputMatch, error) {
	matches, err := resolver.ResolveInputs(step.Patterns(), root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInputResolutionFailed.Error()), "step", string(step.Kind))
	}
	return matches, nil
}

// relTo returns path relative to root for log lines, falling back to path.
func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// transformError marks a tool or parser rejecting its input.
func transformError(err error, tool, path string) error {
	wrapped := zerr.With(zerr.Wrap(err, domain.ErrTransformFailed.Error()), "tool", tool)
	if path != "" {
		wrapped = zerr.With(wrapped, "path", path)
	}
	return wrapped
}
