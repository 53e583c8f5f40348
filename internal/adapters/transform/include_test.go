package transform_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/press/internal/adapters/transform"
	"go.trai.ch/press/internal/core/domain"
)

func TestExpandIncludes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/index.html":             `<body><include src="src/components/header.html"></include><main/></body>`,
		"src/components/header.html": `<header><include src="nav.html" /></header>`,
		"src/components/nav.html":    `<nav>home</nav>`,
	})

	out, err := transform.ExpandIncludes(root, filepath.Join(root, "src/index.html"))
	require.NoError(t, err)
	assert.Equal(t, `<body><header><nav>home</nav></header><main/></body>`, string(out))
}

func TestExpandIncludes_Errors(t *testing.T) {
	tests := []struct {
		name        string
		files       map[string]string
		errContains string
	}{
		{
			name:        "missing include",
			files:       map[string]string{"src/index.html": `<include src="nope.html"></include>`},
			errContains: "include not found",
		},
		{
			name: "cycle",
			files: map[string]string{
				"src/index.html": `<include src="src/a.html"></include>`,
				"src/a.html":     `<include src="b.html"></include>`,
				"src/b.html":     `<include src="a.html"></include>`,
			},
			errContains: "include cycle detected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeTree(t, root, tt.files)

			_, err := transform.ExpandIncludes(root, filepath.Join(root, "src/index.html"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
			assert.False(t, domain.IsFatal(err))
		})
	}
}

func TestInclude_Transform(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/index.html":             `<include src="src/components/footer.html"></include>`,
		"src/about.html":             `about`,
		"src/components/footer.html": `<footer/>`,
	})

	var log bytes.Buffer
	s := step(domain.StepInclude, "build", domain.StepOptions{ResolveIncludes: true}, "src/*.html")
	require.NoError(t, transform.NewInclude(newResolver()).Transform(context.Background(), root, s, &log))

	assert.Equal(t, `<footer/>`, readFile(t, root, "build/index.html"))
	assert.Equal(t, `about`, readFile(t, root, "build/about.html"))
	assert.NoFileExists(t, filepath.Join(root, "build/components/footer.html"))
	assert.Equal(t, "wrote build/about.html\nwrote build/index.html\n", log.String())
}

func TestInclude_Verbatim(t *testing.T) {
	root := t.TempDir()
	page := `<include src="src/components/footer.html"></include>`
	writeTree(t, root, map[string]string{"src/index.html": page})

	s := step(domain.StepInclude, "build", domain.StepOptions{}, "src/*.html")
	require.NoError(t, transform.NewInclude(newResolver()).Transform(context.Background(), root, s, &bytes.Buffer{}))

	assert.Equal(t, page, readFile(t, root, "build/index.html"))
}
