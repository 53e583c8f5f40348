package fs

import (
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/zerr"
)

// CopyFile copies src to dst, creating parent directories as needed.
func CopyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // Path comes from the resolved input set
	if err != nil {
		return readError(err, src)
	}
	defer in.Close() //nolint:errcheck // Best effort close in defer

	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return writeError(err, dst)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.FilePerm) //nolint:gosec // Output path is checked by the caller
	if err != nil {
		return writeError(err, dst)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return writeError(err, dst)
	}
	if err := out.Close(); err != nil {
		return writeError(err, dst)
	}
	return nil
}

// WriteFile writes data to dst, creating parent directories as needed.
func WriteFile(dst string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return writeError(err, dst)
	}
	if err := os.WriteFile(dst, data, domain.FilePerm); err != nil {
		return writeError(err, dst)
	}
	return nil
}

// ReadFile reads src. Missing files are reported as plain read errors, anything else
// is a filesystem failure.
func ReadFile(src string) ([]byte, error) {
	data, err := os.ReadFile(src) //nolint:gosec // Path comes from the resolved input set
	if err != nil {
		return nil, readError(err, src)
	}
	return data, nil
}

// RemoveMatches deletes every file or directory under root matched by pattern.
// A directory that matches is removed with its contents. Paths outside root, and root
// itself, are refused.
func RemoveMatches(root, pattern string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}

	targets, err := matchEntries(absRoot, filepath.ToSlash(pattern))
	if err != nil {
		return nil, err
	}

	removed := make([]string, 0, len(targets))
	for _, target := range targets {
		if err := ensureInside(absRoot, target); err != nil {
			return removed, err
		}
		if err := os.RemoveAll(target); err != nil {
			return removed, domain.Fatal(zerr.With(zerr.Wrap(err, domain.ErrFailedToCleanOutput.Error()), "path", target))
		}
		removed = append(removed, target)
	}
	return removed, nil
}

// EnsureInside returns ErrOutputPathOutsideRoot unless path lies strictly below root.
func EnsureInside(root, path string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFailedToResolveRelativePath.Error()), "path", path)
	}
	return ensureInside(absRoot, absPath)
}

func ensureInside(absRoot, absPath string) error {
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return zerr.With(domain.ErrOutputPathOutsideRoot, "path", absPath)
	}
	return nil
}

// matchEntries returns the outermost files and directories matched by pattern.
func matchEntries(absRoot, pattern string) ([]string, error) {
	if !HasMeta(pattern) {
		target := pattern
		if !filepath.IsAbs(target) {
			target = filepath.Join(absRoot, filepath.FromSlash(pattern))
		}
		if _, err := os.Lstat(target); err != nil {
			return nil, nil
		}
		return []string{filepath.Clean(target)}, nil
	}

	matcher, err := CompileMatcher(pattern)
	if err != nil {
		return nil, err
	}

	base := filepath.Join(absRoot, filepath.FromSlash(GlobBase(pattern)))
	var targets []string
	_ = filepath.WalkDir(base, func(p string, d iofs.DirEntry, err error) error {
		if err != nil {
			if p == base {
				return filepath.SkipAll
			}
			return nil
		}
		if p == base {
			return nil
		}
		rel, relErr := filepath.Rel(absRoot, p)
		if relErr != nil {
			return nil
		}
		if matcher.Match(filepath.ToSlash(rel)) {
			targets = append(targets, p)
			if d.IsDir() {
				return filepath.SkipDir
			}
		}
		return nil
	})
	return targets, nil
}

func readError(err error, path string) error {
	wrapped := zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", path)
	if errors.Is(err, iofs.ErrNotExist) {
		return wrapped
	}
	return domain.Fatal(wrapped)
}

func writeError(err error, path string) error {
	return domain.Fatal(zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", path))
}
