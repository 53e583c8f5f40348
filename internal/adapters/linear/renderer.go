// Package linear provides a synchronous, line-oriented renderer for CI and non-TTY output.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/press/internal/ui/output"
)

var _ ports.Renderer = (*Renderer)(nil)

const clockFormat = "15:04:05"

// Renderer implements ports.Renderer as chronological, timestamped log lines.
// Lifecycle lines go to stderr; task output goes to stdout prefixed with the task name.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output
	now    func() time.Time

	mu      sync.Mutex
	tasks   map[string]*taskState // spanID -> task state
	buffers map[string]*bytes.Buffer
}

type taskState struct {
	name      string
	startTime time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock replaces the clock used to stamp output lines.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// NewRenderer creates a new Renderer. Nil writers default to stdout and stderr.
func NewRenderer(stdout, stderr io.Writer, opts ...Option) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	r := &Renderer{
		stdout:  stdout,
		stderr:  stderr,
		output:  output.NewWithProfile(stderr, output.ColorProfileANSI),
		now:     time.Now,
		tasks:   make(map[string]*taskState),
		buffers: make(map[string]*bytes.Buffer),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start is a no-op for linear renderer (synchronous).
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes all remaining buffers.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for spanID := range r.buffers {
		r.flushBufferLocked(spanID)
	}
	return nil
}

// Wait is a no-op for linear renderer (synchronous).
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the planned leaf count and targets.
func (r *Renderer) OnPlanEmit(tasks []string, children map[string][]string, targets []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	leaves := 0
	for _, name := range tasks {
		if _, composite := children[name]; !composite {
			leaves++
		}
	}

	_, _ = fmt.Fprintf(r.stderr, "%s Using %s (%d step(s))\n",
		r.stamp(r.now()), r.quoteAll(targets), leaves)
}

// OnTaskStart prints a task start message.
func (r *Renderer) OnTaskStart(spanID, _ /* parentID */, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[spanID] = &taskState{name: name, startTime: startTime}
	r.buffers[spanID] = new(bytes.Buffer)

	_, _ = fmt.Fprintf(r.stderr, "%s Starting %s...\n", r.stamp(startTime), r.quote(name))
}

// OnTaskLog buffers log data and prints complete lines with task prefix.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	buf.Write(data)

	for {
		i := bytes.IndexByte(buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := buf.Next(i + 1)
		r.printLineLocked(task.name, line)
	}
}

// OnTaskComplete flushes remaining buffer and prints completion status.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	r.flushBufferLocked(spanID)

	elapsed := FormatDuration(endTime.Sub(task.startTime))
	if err != nil {
		symbol := r.output.String("✗").Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s %s errored after %s: %s\n",
			r.stamp(endTime), symbol, r.quote(task.name), elapsed, firstLine(err.Error()))
	} else {
		_, _ = fmt.Fprintf(r.stderr, "%s Finished %s after %s\n",
			r.stamp(endTime), r.quote(task.name), elapsed)
	}

	delete(r.tasks, spanID)
	delete(r.buffers, spanID)
}

// flushBufferLocked must be called with r.mu held.
func (r *Renderer) flushBufferLocked(spanID string) {
	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	if buf.Len() > 0 {
		r.printLineLocked(task.name, buf.Bytes())
		buf.Reset()
	}
}

// printLineLocked must be called with r.mu held.
func (r *Renderer) printLineLocked(taskName string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	if len(line) == 0 {
		return
	}

	prefix := r.output.String(fmt.Sprintf("[%s]", taskName)).Faint().String()
	_, _ = fmt.Fprintf(r.stdout, "%s %s %s\n", r.stamp(r.now()), prefix, string(line))
}

func (r *Renderer) stamp(t time.Time) string {
	return "[" + r.output.String(t.Format(clockFormat)).Faint().String() + "]"
}

func (r *Renderer) quote(name string) string {
	return "'" + r.output.String(name).Foreground(termenv.ANSICyan).String() + "'"
}

func (r *Renderer) quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = r.quote(name)
	}
	return strings.Join(quoted, ", ")
}

// FormatDuration renders d the way build logs usually do: milliseconds below a
// second, fractional seconds below a minute.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%d ms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.2f s", d.Seconds())
	default:
		return d.Round(time.Second).String()
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
