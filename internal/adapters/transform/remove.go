package transform

import (
	"context"
	"fmt"
	"io"

	"go.trai.ch/press/internal/adapters/fs"
	"go.trai.ch/press/internal/core/domain"
)

// Remove deletes every path matched by the step inputs.
type Remove struct{}

// NewRemove creates a Remove transformer.
func NewRemove() *Remove {
	return &Remove{}
}

// Transform deletes the matched files and directories. Nothing matched is a success.
func (r *Remove) Transform(_ context.Context, root string, step *domain.Step, log io.Writer) error {
	for _, pattern := range step.Patterns() {
		removed, err := fs.RemoveMatches(root, pattern)
		for _, path := range removed {
			_, _ = fmt.Fprintf(log, "removed %s\n", relTo(root, path))
		}
		if err != nil {
			return err
		}
	}
	return nil
}
