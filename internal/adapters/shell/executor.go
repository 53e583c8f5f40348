// Package shell provides the executor that runs external build tools.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// tailLines is how many trailing stderr lines are attached to a failure.
const tailLines = 10

// Executor implements ports.Executor using os/exec.
type Executor struct{}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute runs cmd and waits for it to complete.
// The last lines the tool wrote to stderr are attached to the returned error.
func (e *Executor) Execute(ctx context.Context, cmd domain.Command, stdout, stderr io.Writer) error {
	name := cmd.Program()
	if name == "" {
		return nil
	}

	cmdEnv := resolveEnvironment(os.Environ(), cmd.Env)

	executable := name
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		lp, err := lookPath(name, cmdEnv)
		if err != nil {
			return zerr.With(zerr.Wrap(domain.ErrToolNotFound, "failed to start command"), "tool", name)
		}
		executable = lp
	} else if err := findExecutable(name); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrToolNotFound, "failed to start command"), "tool", name)
	}

	c := exec.CommandContext(ctx, executable, cmd.Args[1:]...) //nolint:gosec // tool invocations come from the pipeline definition

	// exec.CommandContext sets Args[0] to the executable path.
	// Restore the name the tool was invoked as.
	c.Args[0] = name
	c.Dir = cmd.Dir
	c.Env = cmdEnv

	tail := &tailWriter{max: tailLines}
	c.Stdout = writerOrDiscard(stdout)
	c.Stderr = io.MultiWriter(tail, writerOrDiscard(stderr))

	if err := c.Run(); err != nil {
		_ = tail.Close()

		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}

		wrapped := zerr.With(zerr.Wrap(err, "command failed"), "tool", name)
		wrapped = zerr.With(wrapped, "exit_code", exitCode)
		if lines := tail.String(); lines != "" {
			wrapped = zerr.With(wrapped, "stderr", lines)
		}
		return wrapped
	}

	return nil
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

// tailWriter keeps the last max complete lines written to it.
type tailWriter struct {
	max   int
	buf   []byte
	lines []string
}

func (w *tailWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	// Scan for newlines
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}

		w.keep(w.buf[:i])

		// Advance buffer
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *tailWriter) Close() error {
	if len(w.buf) > 0 {
		w.keep(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *tailWriter) keep(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if strings.TrimSpace(msg) == "" {
		return
	}
	w.lines = append(w.lines, msg)
	if len(w.lines) > w.max {
		w.lines = w.lines[len(w.lines)-w.max:]
	}
}

func (w *tailWriter) String() string {
	return strings.Join(w.lines, "\n")
}

// resolveEnvironment applies the command's overrides on top of the inherited environment.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	order := make([]string, 0, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, seen := envMap[k]; !seen {
			order = append(order, k)
		}
		envMap[k] = v
	}

	for k, v := range overrides {
		if _, seen := envMap[k]; !seen {
			order = append(order, k)
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(order))
	for _, k := range order {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	// Find PATH in env
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
