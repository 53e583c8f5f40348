package watcher_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/press/internal/adapters/fs"
	"go.trai.ch/press/internal/adapters/watcher"
	"go.trai.ch/press/internal/core/ports"
)

func TestChangeFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.scss")
	require.NoError(t, os.WriteFile(path, []byte("$c: red;"), 0o600))

	filter := watcher.NewChangeFilter(fs.NewHasher())
	filter.Prime(path)

	// Touch without changes.
	assert.False(t, filter.Changed(path, ports.OpWrite))

	require.NoError(t, os.WriteFile(path, []byte("$c: blue;"), 0o600))
	assert.True(t, filter.Changed(path, ports.OpWrite))
	assert.False(t, filter.Changed(path, ports.OpWrite))

	assert.True(t, filter.Changed(path, ports.OpRemove))
	// After a removal the same content counts as new again.
	assert.True(t, filter.Changed(path, ports.OpCreate))
}

func TestChangeFilter_Unreadable(t *testing.T) {
	filter := watcher.NewChangeFilter(fs.NewHasher())
	dir := t.TempDir()

	assert.True(t, filter.Changed(dir, ports.OpCreate))
	assert.True(t, filter.Changed(filepath.Join(dir, "gone.html"), ports.OpWrite))
}
