// Package style holds the brand palette and status icons shared by every
// terminal surface of press.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Ink    = lipgloss.Color("#1F2430")
	Paper  = lipgloss.Color("#F4F1EA")
	Rust   = lipgloss.Color("#C2562F")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Dot     = "●"
	Circle  = "○"
)
