package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/press/internal/adapters/config"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func createFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	return config.NewLoader(mockLogger)
}

func TestLoader_Load_Defaults(t *testing.T) {
	dir := t.TempDir()

	site, err := newLoader(t).Load(dir)
	require.NoError(t, err)

	absDir, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, absDir, site.Root)
	assert.Equal(t, "src", site.Source)
	assert.Equal(t, "build", site.Output)
	assert.True(t, site.HTML.Includes)
	assert.Equal(t, "scss/main.scss", site.Style.Entry)
	assert.Equal(t, []string{"node_modules/normalize.css/"}, site.Style.IncludePaths)
	assert.Equal(t, []string{"postcss", "--use", "autoprefixer", "--use", "css-mqpacker", "--replace"}, site.Style.PostProcess)
	assert.True(t, site.Style.OptionalPostProcess)
	require.Len(t, site.Scripts, 2)
	assert.Equal(t, "vendor", site.Scripts[0].Name)
	assert.Equal(t, "main.js", site.Scripts[1].Target)
	assert.True(t, site.Scripts[1].SourceMap)
	assert.Equal(t, 3, site.Images.OptimizationLevel)
	assert.Equal(t, 90, site.Content.Quality)
	assert.Equal(t, "gh-pages", site.Deploy.Branch)
	assert.Equal(t, 3000, site.Serve.Port)
	assert.Equal(t, 50*time.Millisecond, site.Serve.Debounce)
}

func TestLoader_Load_YAML(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, domain.ConfigFileName, `
version: "1"
source: assets
output: public
html:
  includes: false
style:
  entry: styles/site.scss
  postprocess: ["npx", "postcss", "--use", "autoprefixer", "--replace"]
  sourcemap: false
scripts:
  - name: app
    dir: js/app
images:
  optimizationLevel: 5
  progressive: false
content:
  quality: 75
deploy:
  branch: pages
  message: Publish
serve:
  port: 8080
  open: false
  debounce: 200ms
tools:
  sass: /opt/dart-sass/sass
`)

	site, err := newLoader(t).Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "assets", site.Source)
	assert.Equal(t, "public", site.Output)
	assert.False(t, site.HTML.Includes)
	assert.Equal(t, "styles/site.scss", site.Style.Entry)
	assert.Equal(t, []string{"npx", "postcss", "--use", "autoprefixer", "--replace"}, site.Style.PostProcess)
	assert.False(t, site.Style.OptionalPostProcess)
	assert.False(t, site.Style.SourceMap)
	assert.Equal(t, []domain.ScriptSet{{
		Name: "app", Dir: "js/app", Target: "app.js", MinTarget: "app.min.js",
	}}, site.Scripts)
	assert.Equal(t, 5, site.Images.OptimizationLevel)
	assert.False(t, site.Images.Progressive)
	assert.Equal(t, 75, site.Content.Quality)
	assert.Equal(t, "pages", site.Deploy.Branch)
	assert.Equal(t, "origin", site.Deploy.Remote)
	assert.Equal(t, "Publish", site.Deploy.Message)
	assert.Equal(t, 8080, site.Serve.Port)
	assert.False(t, site.Serve.Open)
	assert.True(t, site.Serve.CORS)
	assert.Equal(t, 200*time.Millisecond, site.Serve.Debounce)
	assert.Equal(t, "/opt/dart-sass/sass", site.Tool("sass"))
	assert.Equal(t, "cwebp", site.Tool("cwebp"))
}

func TestLoader_Load_TOML(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, domain.TOMLConfigFileName, `
version = "1"
output = "dist"

[style]
includePaths = ["vendor/"]

[[scripts]]
name = "vendor"

[serve]
port = 4000
`)

	site, err := newLoader(t).Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "dist", site.Output)
	assert.Equal(t, []string{"vendor/"}, site.Style.IncludePaths)
	require.Len(t, site.Scripts, 1)
	assert.Equal(t, "js/vendor", site.Scripts[0].Dir)
	assert.Equal(t, "vendor.min.js", site.Scripts[0].MinTarget)
	assert.Equal(t, 4000, site.Serve.Port)
}

func TestLoader_Load_PostProcessDisabled(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, domain.ConfigFileName, "style:\n  postprocess: []\n")

	site, err := newLoader(t).Load(dir)
	require.NoError(t, err)

	assert.Empty(t, site.Style.PostProcess)
	assert.False(t, site.Style.OptionalPostProcess)
}

func TestLoader_Load_Discovery(t *testing.T) {
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "output: out\n")
	nested := filepath.Join(root, "src", "scss", "base")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))

	site, err := newLoader(t).Load(nested)
	require.NoError(t, err)

	absRoot, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, absRoot, site.Root)
	assert.Equal(t, "out", site.Output)
}

func TestLoader_Load_YAMLPreferredOverTOML(t *testing.T) {
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "output: from-yaml\n")
	createFile(t, root, domain.TOMLConfigFileName, "output = \"from-toml\"\n")

	site, err := newLoader(t).Load(root)
	require.NoError(t, err)
	assert.Equal(t, "from-yaml", site.Output)
}

func TestLoader_LoadFile_Root(t *testing.T) {
	root := t.TempDir()
	path := createFile(t, root, "config/press.yaml", "root: ..\n")

	site, err := newLoader(t).LoadFile(path)
	require.NoError(t, err)

	absRoot, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, absRoot, site.Root)
}

func TestLoader_LoadFile_Errors(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		content     string
		errContains string
	}{
		{name: "malformed yaml", file: "press.yaml", content: "output: [", errContains: "failed to parse config file"},
		{name: "unknown yaml field", file: "press.yaml", content: "outptu: build\n", errContains: "failed to parse config file"},
		{name: "unknown toml field", file: "press.toml", content: "outptu = \"build\"\n", errContains: "failed to parse config file"},
		{name: "output escapes root", file: "press.yaml", content: "output: ../elsewhere\n", errContains: "outside project root"},
		{name: "output is root", file: "press.yaml", content: "output: .\n", errContains: "outside project root"},
		{name: "source equals output", file: "press.yaml", content: "source: site\noutput: site\n", errContains: "invalid configuration"},
		{name: "bad port", file: "press.yaml", content: "serve:\n  port: 70000\n", errContains: "invalid configuration"},
		{name: "bad quality", file: "press.yaml", content: "content:\n  quality: 101\n", errContains: "invalid configuration"},
		{name: "bad png level", file: "press.yaml", content: "images:\n  optimizationLevel: 9\n", errContains: "invalid configuration"},
		{name: "bad debounce", file: "press.yaml", content: "serve:\n  debounce: soon\n", errContains: "invalid configuration"},
		{name: "bad script set name", file: "press.yaml", content: "scripts:\n  - name: My Set\n", errContains: "invalid configuration"},
		{name: "duplicate script set", file: "press.yaml", content: "scripts:\n  - name: app\n  - name: app\n", errContains: "invalid configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := createFile(t, t.TempDir(), tt.file, tt.content)

			_, err := newLoader(t).LoadFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestLoader_LoadFile_Missing(t *testing.T) {
	_, err := newLoader(t).LoadFile(filepath.Join(t.TempDir(), "press.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoader_LoadFile_UnknownVersionWarns(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	path := createFile(t, t.TempDir(), domain.ConfigFileName, "version: \"2\"\n")

	_, err := config.NewLoader(mockLogger).LoadFile(path)
	require.NoError(t, err)
}

func TestLoader_LoadFile_EmptyFile(t *testing.T) {
	path := createFile(t, t.TempDir(), domain.ConfigFileName, "")

	site, err := newLoader(t).LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "build", site.Output)
}
