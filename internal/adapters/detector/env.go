// Package detector picks the output renderer for the current environment.
package detector

import (
	"os"

	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// OutputMode represents the rendering mode for the application.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeTUI forces the interactive TUI renderer.
	ModeTUI
	// ModeLinear forces the linear CI renderer.
	ModeLinear
)

// String returns the flag spelling of the mode.
func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModeLinear:
		return "linear"
	default:
		return "auto"
	}
}

// Env reports the facts mode detection depends on.
type Env struct {
	IsTerminal func(fd int) bool
	Getenv     func(key string) string
}

// System returns the Env of the running process.
func System() Env {
	return Env{IsTerminal: term.IsTerminal, Getenv: os.Getenv}
}

// Detect returns ModeLinear when stdout is not a terminal or a CI variable is set,
// and ModeTUI otherwise.
func (e Env) Detect() OutputMode {
	isTTY := e.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // file descriptors fit in int

	ci := e.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return ModeLinear
	}
	return ModeTUI
}

// ResolveMode applies the user's --output-mode flag to the detected mode.
// userFlag is one of "auto", "tui", "linear", "ci", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) (OutputMode, error) {
	switch userFlag {
	case "tui":
		return ModeTUI, nil
	case "linear", "ci":
		return ModeLinear, nil
	case "auto", "":
		return autoDetected, nil
	default:
		return ModeAuto, zerr.With(domain.ErrInvalidOutputMode, "output_mode", userFlag)
	}
}
