package transform_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/press/internal/adapters/transform"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const icon = `<?xml version="1.0" encoding="UTF-8"?>
<!-- exported by an editor -->
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 16 16">
  <path d="M 0 0 L 16 0 L 16 16 Z" />
</svg>
`

func imgStep() *domain.Step {
	return step(domain.StepImagemin, "build/img", domain.StepOptions{
		OptimizationLevel: 3,
		Progressive:       true,
	}, "build/img/*.{png,jpg,gif,svg}")
}

func TestImagemin_Transform(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"build/img/logo.png":          "png",
		"build/img/hero.jpg":          "jpg",
		"build/img/anim.gif":          "gif",
		"build/img/icon.svg":          icon,
		"build/img/favicons/fav.png":  "untouched",
		"build/img/content/photo.jpg": "untouched",
	})

	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)

	png := filepath.Join(root, "build/img/logo.png")
	jpg := filepath.Join(root, "build/img/hero.jpg")

	executor.EXPECT().
		Execute(gomock.Any(), domain.Command{Args: []string{"optipng", "-quiet", "-o3", png}, Dir: root}, gomock.Any(), gomock.Any()).
		Return(nil)
	executor.EXPECT().
		Execute(gomock.Any(), domain.Command{
			Args: []string{"jpegtran", "-copy", "none", "-optimize", "-progressive", "-outfile", jpg + ".tmp", jpg},
			Dir:  root,
		}, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, _ domain.Command, _, _ any) error {
			return os.WriteFile(jpg+".tmp", []byte("optimized"), domain.FilePerm)
		})

	var log bytes.Buffer
	require.NoError(t, transform.NewImagemin(newResolver(), executor).Transform(context.Background(), root, imgStep(), &log))

	assert.Equal(t, "optimized", readFile(t, root, "build/img/hero.jpg"))
	assert.NoFileExists(t, jpg+".tmp")
	assert.Equal(t, "gif", readFile(t, root, "build/img/anim.gif"))

	svg := readFile(t, root, "build/img/icon.svg")
	assert.NotContains(t, svg, "exported by an editor")
	assert.Less(t, len(svg), len(icon))
	assert.Contains(t, svg, "<svg")

	assert.Equal(t,
		"optimized build/img/hero.jpg\noptimized build/img/icon.svg\noptimized build/img/logo.png\n",
		log.String())
}

func TestImagemin_ToolFailure(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"build/img/hero.jpg": "jpg"})

	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError)

	err := transform.NewImagemin(newResolver(), executor).Transform(context.Background(), root, imgStep(), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transform failed")
	assert.Equal(t, "jpg", readFile(t, root, "build/img/hero.jpg"), "the original survives a failed optimization")
}

func TestWebp_Transform(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"build/img/content/photo.jpg": "jpg",
		"build/img/content/chart.png": "png",
	})

	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	dir := filepath.Join(root, "build/img/content")

	gomock.InOrder(
		executor.EXPECT().Execute(gomock.Any(), domain.Command{
			Args: []string{"cwebp", "-quiet", "-q", "90", filepath.Join(dir, "chart.png"), "-o", filepath.Join(dir, "chart.webp")},
			Dir:  root,
		}, gomock.Any(), gomock.Any()).Return(nil),
		executor.EXPECT().Execute(gomock.Any(), domain.Command{
			Args: []string{"cwebp", "-quiet", "-q", "90", filepath.Join(dir, "photo.jpg"), "-o", filepath.Join(dir, "photo.webp")},
			Dir:  root,
		}, gomock.Any(), gomock.Any()).Return(nil),
	)

	s := step(domain.StepWebp, "build/img/content", domain.StepOptions{Quality: 90}, "build/img/content/*.{png,jpg}")
	require.NoError(t, transform.NewWebp(newResolver(), executor).Transform(context.Background(), root, s, &bytes.Buffer{}))
}

func TestWebpName(t *testing.T) {
	assert.Equal(t, "photo.webp", transform.WebpName("photo.jpg"))
	assert.Equal(t, "a/b.c.webp", transform.WebpName("a/b.c.png"))
}
