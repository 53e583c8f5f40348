package ghpages_test

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/press/internal/adapters/ghpages"
	"go.trai.ch/press/internal/adapters/shell"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/press/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	t.Setenv("GIT_AUTHOR_NAME", "press")
	t.Setenv("GIT_AUTHOR_EMAIL", "press@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "press")
	t.Setenv("GIT_COMMITTER_EMAIL", "press@example.com")
	t.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)
}

func git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return strings.TrimSpace(string(out))
}

func writeSite(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
		require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	}
}

func TestPublisher_Publish(t *testing.T) {
	requireGit(t)

	remote := filepath.Join(t.TempDir(), "site.git")
	git(t, "", "init", "--quiet", "--bare", remote)

	build := t.TempDir()
	writeSite(t, build, map[string]string{
		"index.html":     "<h1>v1</h1>",
		"css/style.css":  "body{}",
		"img/old-banner": "stale",
	})

	publisher := ghpages.NewPublisher(shell.NewExecutor())
	opts := ports.PublishOptions{Repository: remote, Branch: "gh-pages", Message: "Updates"}

	var log bytes.Buffer
	require.NoError(t, publisher.Publish(context.Background(), build, opts, &log))
	assert.Contains(t, log.String(), "branch gh-pages does not exist yet")
	assert.Equal(t, "css/style.css\nimg/old-banner\nindex.html", git(t, "", "--git-dir", remote, "ls-tree", "-r", "--name-only", "gh-pages"))

	// Second publish replaces the branch content.
	require.NoError(t, os.RemoveAll(filepath.Join(build, "img")))
	writeSite(t, build, map[string]string{"index.html": "<h1>v2</h1>"})

	log.Reset()
	require.NoError(t, publisher.Publish(context.Background(), build, opts, &log))
	assert.Equal(t, "css/style.css\nindex.html", git(t, "", "--git-dir", remote, "ls-tree", "-r", "--name-only", "gh-pages"))
	assert.Equal(t, "<h1>v2</h1>", git(t, "", "--git-dir", remote, "show", "gh-pages:index.html"))
	assert.Equal(t, "2", git(t, "", "--git-dir", remote, "rev-list", "--count", "gh-pages"))

	// Publishing unchanged content makes no commit.
	log.Reset()
	require.NoError(t, publisher.Publish(context.Background(), build, opts, &log))
	assert.Contains(t, log.String(), "gh-pages is up to date")
	assert.Equal(t, "2", git(t, "", "--git-dir", remote, "rev-list", "--count", "gh-pages"))

	// The published directory is left alone.
	assert.FileExists(t, filepath.Join(build, "index.html"))
	assert.NoDirExists(t, filepath.Join(build, ".git"))
}

func TestPublisher_RemoteLookupFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)

	executor.EXPECT().
		Execute(gomock.Any(), domain.Command{Args: []string{"git", "remote", "get-url", "upstream"}, Dir: "/project"}, gomock.Any(), gomock.Any()).
		Return(assert.AnError)

	publisher := ghpages.NewPublisher(executor)
	err := publisher.Publish(context.Background(), t.TempDir(), ports.PublishOptions{
		Root:   "/project",
		Remote: "upstream",
		Branch: "gh-pages",
	}, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish failed")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestPublisher_UsesRemoteURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)

	executor.EXPECT().
		Execute(gomock.Any(), domain.Command{Args: []string{"/usr/bin/git", "remote", "get-url", "origin"}, Dir: "/project"}, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, _ domain.Command, stdout, _ any) error {
			_, err := stdout.(*bytes.Buffer).WriteString("git@example.com:site.git\n")
			return err
		})
	var calls []domain.Command
	executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, cmd domain.Command, _, _ any) error {
			calls = append(calls, cmd)
			return assert.AnError
		}).
		AnyTimes()

	publisher := ghpages.NewPublisher(executor).WithGit("/usr/bin/git")
	err := publisher.Publish(context.Background(), t.TempDir(), ports.PublishOptions{
		Root:   "/project",
		Remote: "origin",
		Branch: "gh-pages",
	}, &bytes.Buffer{})
	require.Error(t, err)

	require.NotEmpty(t, calls)
	assert.Equal(t, "clone", calls[0].Args[1])
	assert.Contains(t, calls[0].Args, "git@example.com:site.git")
}
