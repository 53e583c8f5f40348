// Package ghpages publishes a directory to a git branch, the way GitHub Pages expects it.
package ghpages

import (
	"bytes"
	"context"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/press/internal/adapters/fs"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Publisher = (*Publisher)(nil)

// Publisher replaces the content of a branch with a directory using the git CLI.
type Publisher struct {
	executor ports.Executor
	git      string
}

// NewPublisher creates a Publisher running git through executor.
func NewPublisher(executor ports.Executor) *Publisher {
	return &Publisher{executor: executor, git: "git"}
}

// WithGit overrides the git binary.
func (p *Publisher) WithGit(bin string) *Publisher {
	p.git = bin
	return p
}

// Publish commits the files of dir as the new tip of opts.Branch and pushes it.
// The work happens in a temporary clone; dir is only read.
func (p *Publisher) Publish(ctx context.Context, dir string, opts ports.PublishOptions, log io.Writer) error {
	url, err := p.repositoryURL(ctx, opts)
	if err != nil {
		return publishError(err, opts)
	}

	work, err := os.MkdirTemp("", "press-publish-*")
	if err != nil {
		return domain.Fatal(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()))
	}
	defer os.RemoveAll(work) //nolint:errcheck // Best effort cleanup of the scratch clone

	if err := p.checkout(ctx, url, work, opts.Branch, log); err != nil {
		return publishError(err, opts)
	}
	if err := replaceContent(work, dir); err != nil {
		return err
	}

	if err := p.run(ctx, work, log, "add", "--all"); err != nil {
		return publishError(err, opts)
	}
	var status bytes.Buffer
	if err := p.executor.Execute(ctx, p.cmd(work, "status", "--porcelain"), &status, log); err != nil {
		return publishError(err, opts)
	}
	if strings.TrimSpace(status.String()) == "" {
		_, _ = fmt.Fprintf(log, "%s is up to date\n", opts.Branch)
		return nil
	}

	if err := p.run(ctx, work, log, "commit", "--quiet", "-m", opts.Message); err != nil {
		return publishError(err, opts)
	}
	if err := p.run(ctx, work, log, "push", "--quiet", "origin", opts.Branch); err != nil {
		return publishError(err, opts)
	}
	_, _ = fmt.Fprintf(log, "published %s to %s\n", opts.Branch, url)
	return nil
}

func (p *Publisher) repositoryURL(ctx context.Context, opts ports.PublishOptions) (string, error) {
	if opts.Repository != "" {
		return opts.Repository, nil
	}
	var out bytes.Buffer
	if err := p.executor.Execute(ctx, p.cmd(opts.Root, "remote", "get-url", opts.Remote), &out, io.Discard); err != nil {
		return "", zerr.With(err, "remote", opts.Remote)
	}
	return strings.TrimSpace(out.String()), nil
}

// checkout clones branch into work, or starts an orphan branch when the remote has none.
func (p *Publisher) checkout(ctx context.Context, url, work, branch string, log io.Writer) error {
	clone := p.cmd("", "clone", "--quiet", "--depth", "1", "--single-branch", "--branch", branch, url, work)
	if err := p.executor.Execute(ctx, clone, log, io.Discard); err == nil {
		return nil
	}

	_, _ = fmt.Fprintf(log, "branch %s does not exist yet, creating it\n", branch)
	if err := os.RemoveAll(work); err != nil {
		return domain.Fatal(zerr.With(zerr.Wrap(err, domain.ErrFailedToCleanOutput.Error()), "path", work))
	}
	if err := os.MkdirAll(work, domain.DirPerm); err != nil {
		return domain.Fatal(zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", work))
	}
	if err := p.run(ctx, work, log, "init", "--quiet"); err != nil {
		return err
	}
	if err := p.run(ctx, work, log, "remote", "add", "origin", url); err != nil {
		return err
	}
	return p.run(ctx, work, log, "symbolic-ref", "HEAD", "refs/heads/"+branch)
}

func (p *Publisher) run(ctx context.Context, dir string, log io.Writer, args ...string) error {
	return p.executor.Execute(ctx, p.cmd(dir, args...), log, log)
}

func (p *Publisher) cmd(dir string, args ...string) domain.Command {
	return domain.Command{Args: append([]string{p.git}, args...), Dir: dir}
}

// replaceContent empties work, keeping .git, and copies the files of dir into it.
func replaceContent(work, dir string) error {
	entries, err := os.ReadDir(work)
	if err != nil {
		return domain.Fatal(zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", work))
	}
	for _, entry := range entries {
		if entry.Name() == ".git" {
			continue
		}
		if err := os.RemoveAll(filepath.Join(work, entry.Name())); err != nil {
			return domain.Fatal(zerr.With(zerr.Wrap(err, domain.ErrFailedToCleanOutput.Error()), "path", entry.Name()))
		}
	}

	return filepath.WalkDir(dir, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return domain.Fatal(zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", path))
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrFailedToResolveRelativePath.Error()), "path", path)
		}
		return fs.CopyFile(path, filepath.Join(work, rel))
	})
}

func publishError(err error, opts ports.PublishOptions) error {
	return zerr.With(zerr.Wrap(err, domain.ErrPublishFailed.Error()), "branch", opts.Branch)
}
