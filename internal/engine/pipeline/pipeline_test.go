package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/press/internal/adapters/config"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

func defaultSite() *domain.Site {
	site := config.Defaults()
	site.Root = "/srv/site"
	return site
}

func TestDefine_BuildComposition(t *testing.T) {
	g, _, err := pipeline.Define(defaultSite())
	require.NoError(t, err)

	order, children, err := g.Plan([]string{"build"})
	require.NoError(t, err)

	assert.Equal(t, "clean", order[1], "clean starts before anything writes")
	assert.Equal(t, []string{"clean", "assets"}, children["build"])
	assert.Equal(t, []string{"html", "style", "js", "fonts", "favicons", "media"}, children["assets"])
	assert.Equal(t, []string{"graphics", "content"}, children["media"])
	assert.Equal(t, []string{"img", "svgsprite"}, children["graphics"])

	build, err := g.Resolve("build")
	require.NoError(t, err)
	assert.Equal(t, domain.KindSeries, build.Kind)

	assets, err := g.Resolve("assets")
	require.NoError(t, err)
	assert.Equal(t, domain.KindParallel, assets.Kind)
}

func TestDefine_Tasks(t *testing.T) {
	g, _, err := pipeline.Define(defaultSite())
	require.NoError(t, err)

	_, children, err := g.Plan([]string{"html", "js", "fonts", "favicons", "img", "content", "svgsprite"})
	require.NoError(t, err)

	assert.Equal(t, []string{"htmldel", "htmlcopy"}, children["html"])
	assert.Equal(t, []string{"jsdel", "jsvendor", "jsmodules"}, children["js"])
	assert.Equal(t, []string{"fontsdel", "fontscopy"}, children["fonts"])
	assert.Equal(t, []string{"faviconsdel", "faviconscopy"}, children["favicons"])
	assert.Equal(t, []string{"imgdel", "imgcopy", "imgminify"}, children["img"])
	assert.Equal(t, []string{"contentdel", "contentcopy", "contentconvert"}, children["content"])
	assert.Equal(t, []string{"svgspritedel", "svgspritecopy", "svgspritestore"}, children["svgsprite"])
}

func TestDefine_Steps(t *testing.T) {
	g, _, err := pipeline.Define(defaultSite())
	require.NoError(t, err)
	assert.Equal(t, "/srv/site", g.Root())

	tests := []struct {
		task   string
		kind   domain.StepKind
		inputs []string
		output string
	}{
		{task: "clean", kind: domain.StepRemove, inputs: []string{"build"}},
		{task: "htmldel", kind: domain.StepRemove, inputs: []string{"build/*.html"}},
		{task: "htmlcopy", kind: domain.StepInclude, inputs: []string{"src/*.html"}, output: "build"},
		{task: "style", kind: domain.StepSass, inputs: []string{"src/scss/main.scss"}, output: "build/css"},
		{task: "jsvendor", kind: domain.StepBundle, inputs: []string{"src/js/vendor/*.js"}, output: "build/js"},
		{task: "fontscopy", kind: domain.StepCopy, inputs: []string{"src/fonts/**/*.{woff,woff2}"}, output: "build/fonts"},
		{task: "imgdel", kind: domain.StepRemove, inputs: []string{"build/img/*.*"}},
		{task: "imgminify", kind: domain.StepImagemin, inputs: []string{"build/img/*.{png,jpg,gif,svg}"}, output: "build/img"},
		{task: "contentconvert", kind: domain.StepWebp, inputs: []string{"build/img/content/*.{png,jpg}"}, output: "build/img/content"},
		{task: "svgspritestore", kind: domain.StepSprite, inputs: []string{"src/img/svg-sprite/*.svg"}, output: "build/img/svg-sprite"},
		{task: "deploy", kind: domain.StepPublish, inputs: []string{}, output: "build"},
	}

	for _, tt := range tests {
		t.Run(tt.task, func(t *testing.T) {
			task, err := g.Resolve(tt.task)
			require.NoError(t, err)
			require.Equal(t, domain.KindLeaf, task.Kind)
			require.NotNil(t, task.Step)

			assert.Equal(t, tt.kind, task.Step.Kind)
			assert.Equal(t, tt.inputs, task.Step.Patterns())
			assert.Equal(t, tt.output, task.Step.Output)
		})
	}
}

func TestDefine_StepOptions(t *testing.T) {
	site := defaultSite()
	site.Tools["sass"] = "/opt/dart-sass/sass"
	site.Content.Quality = 75
	site.Deploy.Branch = "pages"

	g, _, err := pipeline.Define(site)
	require.NoError(t, err)

	style, err := g.Resolve("style")
	require.NoError(t, err)
	assert.Equal(t, "style.css", style.Step.Options.Target)
	assert.Equal(t, "style.min.css", style.Step.Options.MinTarget)
	assert.Equal(t, []string{"node_modules/normalize.css/"}, style.Step.Options.IncludePaths)
	assert.Equal(t, "/opt/dart-sass/sass", style.Step.Options.Tool("sass"))
	assert.Equal(t, site.Style.PostProcess, style.Step.Options.PostProcess)
	assert.True(t, style.Step.Options.OptionalPostProcess)

	modules, err := g.Resolve("jsmodules")
	require.NoError(t, err)
	assert.Equal(t, "modules", modules.Step.Options.CopyDir)
	assert.Equal(t, "main.js", modules.Step.Options.Target)
	assert.True(t, modules.Step.Options.SourceMap)

	convert, err := g.Resolve("contentconvert")
	require.NoError(t, err)
	assert.Equal(t, 75, convert.Step.Options.Quality)

	deploy, err := g.Resolve("deploy")
	require.NoError(t, err)
	assert.Equal(t, "pages", deploy.Step.Options.Branch)
	assert.Equal(t, "origin", deploy.Step.Options.Remote)
}

func TestDefine_Aliases(t *testing.T) {
	g, _, err := pipeline.Define(defaultSite())
	require.NoError(t, err)

	images, err := g.Resolve("images")
	require.NoError(t, err)
	assert.Equal(t, "img", images.Name.String())

	sprite, err := g.Resolve("svg-sprite")
	require.NoError(t, err)
	assert.Equal(t, "svgsprite", sprite.Name.String())
}

func TestDefine_CustomLayout(t *testing.T) {
	site := defaultSite()
	site.Source = "assets"
	site.Output = "public"
	site.Scripts = []domain.ScriptSet{{Name: "app", Dir: "scripts/app", Target: "app.js", MinTarget: "app.min.js"}}

	g, bindings, err := pipeline.Define(site)
	require.NoError(t, err)

	_, children, err := g.Plan([]string{"js"})
	require.NoError(t, err)
	assert.Equal(t, []string{"jsdel", "jsapp"}, children["js"])

	app, err := g.Resolve("jsapp")
	require.NoError(t, err)
	assert.Equal(t, []string{"assets/scripts/app/*.js"}, app.Step.Patterns())
	assert.Equal(t, "public/scripts", app.Step.Output)
	assert.Equal(t, "app", app.Step.Options.CopyDir)

	clean, err := g.Resolve("clean")
	require.NoError(t, err)
	assert.Equal(t, []string{"public"}, clean.Step.Patterns())

	assert.Equal(t, []string{"assets/scss/**/*.{scss,sass}"}, bindings[0].Patterns)
}

func TestDefine_WatchBindings(t *testing.T) {
	_, bindings, err := pipeline.Define(defaultSite())
	require.NoError(t, err)
	require.Len(t, bindings, 3)

	style := bindings[0]
	assert.Equal(t, "style", style.Task.String())
	assert.Equal(t, domain.ReloadInject, style.Reload)
	assert.Equal(t, []string{"css/style.css", "css/style.min.css"}, style.Inject)

	html := bindings[1]
	assert.Equal(t, "html", html.Task.String())
	assert.Equal(t, []string{"src/*.html", "src/components/*.html"}, html.Patterns)
	assert.Equal(t, domain.ReloadFull, html.Reload)

	js := bindings[2]
	assert.Equal(t, "js", js.Task.String())
	assert.Equal(t, []string{"src/js/**/*.js"}, js.Patterns)
	assert.Equal(t, domain.ReloadFull, js.Reload)
}

func TestDefine_NeverBindsBuild(t *testing.T) {
	_, bindings, err := pipeline.Define(defaultSite())
	require.NoError(t, err)
	for _, b := range bindings {
		assert.NotEqual(t, pipeline.RootTask, b.Task.String())
	}
}

func TestCheckSteps(t *testing.T) {
	g, _, err := pipeline.Define(defaultSite())
	require.NoError(t, err)

	all := []domain.StepKind{
		domain.StepRemove, domain.StepCopy, domain.StepInclude, domain.StepSass, domain.StepBundle,
		domain.StepImagemin, domain.StepWebp, domain.StepSprite, domain.StepPublish,
	}
	require.NoError(t, pipeline.CheckSteps(g, all))

	err = pipeline.CheckSteps(g, all[:len(all)-1])
	require.ErrorIs(t, err, domain.ErrUnknownStep)
	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "deploy", zErr.Metadata()["task"])
	assert.Equal(t, string(domain.StepPublish), zErr.Metadata()["step"])
}
