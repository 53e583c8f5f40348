package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/press/internal/adapters/fs"
	"go.trai.ch/press/internal/core/domain"
)

func TestCopyFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/fonts/a.woff2")

	dst := filepath.Join(root, "build", "fonts", "a.woff2")
	require.NoError(t, fs.CopyFile(filepath.Join(root, "src", "fonts", "a.woff2"), dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "src/fonts/a.woff2", string(data))
}

func TestCopyFile_MissingSource(t *testing.T) {
	root := t.TempDir()
	err := fs.CopyFile(filepath.Join(root, "missing"), filepath.Join(root, "out"))
	require.Error(t, err)
	assert.False(t, domain.IsFatal(err))
}

func TestWriteFile_Unwritable(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	// A file where a directory is expected cannot be written through.
	err := fs.WriteFile(filepath.Join(blocker, "out.css"), []byte("x"))
	require.Error(t, err)
	assert.True(t, domain.IsFatal(err))
	assert.ErrorIs(t, err, domain.ErrFilesystem)
}

func TestRemoveMatches(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"build/index.html",
		"build/css/style.css",
		"build/img/a.png",
		"build/img/favicons/icon.png",
	)

	removed, err := fs.RemoveMatches(root, "build/img/*")
	require.NoError(t, err)
	assert.Len(t, removed, 2)
	assert.NoDirExists(t, filepath.Join(root, "build", "img", "favicons"))
	assert.NoFileExists(t, filepath.Join(root, "build", "img", "a.png"))
	assert.DirExists(t, filepath.Join(root, "build", "img"))

	removed, err = fs.RemoveMatches(root, "build")
	require.NoError(t, err)
	assert.Len(t, removed, 1)
	assert.NoDirExists(t, filepath.Join(root, "build"))
}

func TestRemoveMatches_Missing(t *testing.T) {
	removed, err := fs.RemoveMatches(t.TempDir(), "build/css")
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestRemoveMatches_RefusesOutsideRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "project")
	writeTree(t, parent, "project/keep.txt", "sibling.txt")

	_, err := fs.RemoveMatches(root, "../sibling.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside project root")
	assert.FileExists(t, filepath.Join(parent, "sibling.txt"))

	_, err = fs.RemoveMatches(root, ".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside project root")
}

func TestHasher_ComputeFileHash(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt")
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("a.txt"), 0o600))

	h := fs.NewHasher()
	ha, err := h.ComputeFileHash(filepath.Join(root, "a.txt"))
	require.NoError(t, err)
	hb, err := h.ComputeFileHash(filepath.Join(root, "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, ha, hb)

	_, err = h.ComputeFileHash(filepath.Join(root, "missing"))
	require.Error(t, err)
}
