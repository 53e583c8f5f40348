package tui

import (
	"bytes"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// DefaultMaxLines bounds how much output a task keeps.
const DefaultMaxLines = 2000

// LogBuffer keeps the most recent output lines of one task.
// A trailing partial line is held until its newline arrives.
type LogBuffer struct {
	lines    []string
	partial  []byte
	maxLines int
}

// NewLogBuffer creates a buffer keeping at most maxLines complete lines.
func NewLogBuffer(maxLines int) *LogBuffer {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	return &LogBuffer{maxLines: maxLines}
}

// Write appends p, splitting it into lines.
func (b *LogBuffer) Write(p []byte) (int, error) {
	data := append(b.partial, p...)
	for {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			break
		}
		b.appendLine(string(bytes.TrimRight(data[:idx], "\r")))
		data = data[idx+1:]
	}
	b.partial = append([]byte(nil), data...)
	return len(p), nil
}

func (b *LogBuffer) appendLine(line string) {
	b.lines = append(b.lines, line)
	if over := len(b.lines) - b.maxLines; over > 0 {
		b.lines = append(b.lines[:0], b.lines[over:]...)
	}
}

// Lines returns the buffered lines, including a pending partial line.
func (b *LogBuffer) Lines() []string {
	if len(b.partial) == 0 {
		return b.lines
	}
	return append(append([]string(nil), b.lines...), string(b.partial))
}

// Len returns the number of lines Lines would return.
func (b *LogBuffer) Len() int {
	if len(b.partial) == 0 {
		return len(b.lines)
	}
	return len(b.lines) + 1
}

// View renders height lines starting at offset, each truncated to width.
func (b *LogBuffer) View(width, height, offset int) string {
	lines := b.Lines()
	if height <= 0 || len(lines) == 0 {
		return ""
	}
	offset = max(0, min(offset, len(lines)-1))
	end := min(len(lines), offset+height)

	out := make([]string, 0, end-offset)
	for _, line := range lines[offset:end] {
		if width > 0 {
			line = ansi.Truncate(line, width, "")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
