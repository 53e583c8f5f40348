// Package tui provides the interactive terminal renderer for pipeline runs.
package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/press/internal/ui/output"
)

// NewModel creates a new TUI model with default settings.
func NewModel(w io.Writer) Model {
	if w == nil {
		w = os.Stderr
	}

	out := output.New(w)
	lipgloss.SetColorProfile(out.Profile)

	return Model{
		Tasks:      make([]*TaskNode, 0),
		TaskMap:    make(map[string]*TaskNode),
		SpanMap:    make(map[string]*TaskNode),
		TreeRoots:  make([]*TaskNode, 0),
		FlatList:   make([]*TaskNode, 0),
		FollowMode: true,
	}
}
