// Package pipeline registers the site's tasks and watch bindings from its configuration.
package pipeline

import (
	"maps"
	"path"
	"slices"

	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/zerr"
)

// RootTask is the task a plain invocation runs.
const RootTask = domain.DefaultTarget

// Define builds the task graph and the watch bindings of site.
// The returned graph is validated.
func Define(site *domain.Site) (*domain.Graph, []domain.WatchBinding, error) {
	b := &builder{site: site, graph: domain.NewGraph()}
	b.graph.SetRoot(site.Root)

	b.defineClean()
	b.defineHTML()
	b.defineStyle()
	b.defineScripts()
	b.defineFonts()
	b.defineFavicons()
	b.defineImages()
	b.defineContent()
	b.defineSprite()
	b.defineDeploy()
	b.defineBuild()

	b.alias("images", "img")
	b.alias("svg-sprite", "svgsprite")

	if b.err != nil {
		return nil, nil, b.err
	}
	if err := b.graph.Validate(); err != nil {
		return nil, nil, err
	}
	return b.graph, b.bindings(), nil
}

// CheckSteps reports the first task, in name order, whose step kind is not in kinds.
func CheckSteps(graph *domain.Graph, kinds []domain.StepKind) error {
	for _, name := range graph.Names() {
		task, err := graph.Resolve(name)
		if err != nil {
			return err
		}
		if task.Step == nil || slices.Contains(kinds, task.Step.Kind) {
			continue
		}
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrUnknownStep, "failed to check steps"),
			"step", string(task.Step.Kind)), "task", name)
	}
	return nil
}

type builder struct {
	site  *domain.Site
	graph *domain.Graph
	err   error
}

func (b *builder) add(task *domain.Task) {
	if b.err != nil {
		return
	}
	b.err = b.graph.AddTask(task)
}

func (b *builder) alias(alias, target string) {
	if b.err != nil {
		return
	}
	b.err = b.graph.AddAlias(alias, target)
}

// step creates a step whose options carry the configured tool overrides.
func (b *builder) step(kind domain.StepKind, output string, opts domain.StepOptions, inputs ...string) *domain.Step {
	opts.Tools = maps.Clone(b.site.Tools)
	return &domain.Step{
		Kind:    kind,
		Inputs:  domain.NewInternedStrings(inputs),
		Output:  output,
		Options: opts,
	}
}

func (b *builder) leaf(name, description string, step *domain.Step) {
	b.add(domain.NewLeaf(name, description, step))
}

func (b *builder) remove(name string, patterns ...string) {
	b.leaf(name, "", b.step(domain.StepRemove, "", domain.StepOptions{}, patterns...))
}

func (b *builder) copy(name, output string, patterns ...string) {
	b.leaf(name, "", b.step(domain.StepCopy, output, domain.StepOptions{}, patterns...))
}

func (b *builder) defineClean() {
	b.leaf("clean", "Delete the output directory",
		b.step(domain.StepRemove, "", domain.StepOptions{}, b.site.Output))
}

func (b *builder) defineHTML() {
	s := b.site
	b.remove("htmldel", s.OutputPath("*.html"))
	b.leaf("htmlcopy", "", b.step(domain.StepInclude, s.Output,
		domain.StepOptions{ResolveIncludes: s.HTML.Includes},
		s.SourcePath("*.html")))
	b.add(domain.Series("html", "Assemble pages from src/*.html", "htmldel", "htmlcopy"))
}

func (b *builder) defineStyle() {
	s := b.site
	b.leaf("style", "Compile the stylesheet", b.step(domain.StepSass, s.OutputPath("css"),
		domain.StepOptions{
			Target:       "style.css",
			MinTarget:    "style.min.css",
			SourceMap:    s.Style.SourceMap,
			IncludePaths: s.Style.IncludePaths,
			PostProcess:  s.Style.PostProcess,

			OptionalPostProcess: s.Style.OptionalPostProcess,
		},
		s.SourcePath(s.Style.Entry)))
}

func (b *builder) defineScripts() {
	s := b.site
	children := []string{"jsdel"}
	b.remove("jsdel", s.OutputPath("js"))

	for _, set := range s.Scripts {
		name := "js" + set.Name
		dir := path.Clean(set.Dir)
		b.leaf(name, "", b.step(domain.StepBundle, s.OutputPath(path.Dir(dir)),
			domain.StepOptions{
				CopyDir:   path.Base(dir),
				Target:    set.Target,
				MinTarget: set.MinTarget,
				SourceMap: set.SourceMap,
			},
			s.SourcePath(dir, "*.js")))
		children = append(children, name)
	}
	b.add(domain.Series("js", "Concatenate and minify scripts", children...))
}

func (b *builder) defineFonts() {
	s := b.site
	b.remove("fontsdel", s.OutputPath("fonts"))
	b.copy("fontscopy", s.OutputPath("fonts"), s.SourcePath("fonts/**/*.{woff,woff2}"))
	b.add(domain.Series("fonts", "Copy web fonts", "fontsdel", "fontscopy"))
}

func (b *builder) defineFavicons() {
	s := b.site
	b.remove("faviconsdel", s.OutputPath("img/favicons"))
	b.copy("faviconscopy", s.OutputPath("img/favicons"), s.SourcePath("img/favicons/*.{png,jpg,json,jpeg,svg}"))
	b.add(domain.Series("favicons", "Copy favicons", "faviconsdel", "faviconscopy"))
}

func (b *builder) defineImages() {
	s := b.site
	b.remove("imgdel", s.OutputPath("img/*.*"))
	b.copy("imgcopy", s.OutputPath("img"), s.SourcePath("img/*.{png,jpg,gif,svg}"))
	// Top-level images only; the favicon subtree is written concurrently.
	b.leaf("imgminify", "", b.step(domain.StepImagemin, s.OutputPath("img"),
		domain.StepOptions{
			OptimizationLevel: s.Images.OptimizationLevel,
			Progressive:       s.Images.Progressive,
		},
		s.OutputPath("img/*.{png,jpg,gif,svg}")))
	b.add(domain.Series("img", "Copy and optimize images", "imgdel", "imgcopy", "imgminify"))
}

func (b *builder) defineContent() {
	s := b.site
	b.remove("contentdel", s.OutputPath("img/content"))
	b.copy("contentcopy", s.OutputPath("img/content"), s.SourcePath("img/content/*.{png,jpg}"))
	b.leaf("contentconvert", "", b.step(domain.StepWebp, s.OutputPath("img/content"),
		domain.StepOptions{Quality: s.Content.Quality},
		s.OutputPath("img/content/*.{png,jpg}")))
	b.add(domain.Series("content", "Copy content images and add WebP versions",
		"contentdel", "contentcopy", "contentconvert"))
}

func (b *builder) defineSprite() {
	s := b.site
	b.remove("svgspritedel", s.OutputPath("img/svg-sprite"))
	b.copy("svgspritecopy", s.OutputPath("img/svg-sprite"), s.SourcePath("img/svg-sprite/*.svg"))
	b.leaf("svgspritestore", "", b.step(domain.StepSprite, s.OutputPath("img/svg-sprite"),
		domain.StepOptions{Target: "sprite.svg"},
		s.SourcePath("img/svg-sprite/*.svg")))
	b.add(domain.Series("svgsprite", "Build the SVG symbol sprite",
		"svgspritedel", "svgspritecopy", "svgspritestore"))
}

func (b *builder) defineDeploy() {
	d := b.site.Deploy
	b.leaf("deploy", "Publish the output directory to "+d.Branch, b.step(domain.StepPublish, b.site.Output,
		domain.StepOptions{
			Remote:     d.Remote,
			Repository: d.Repository,
			Branch:     d.Branch,
			Message:    d.Message,
		}))
}

func (b *builder) defineBuild() {
	b.add(domain.Series("graphics", "Images followed by the sprite", "img", "svgsprite"))
	b.add(domain.Series("media", "Graphics followed by content images", "graphics", "content"))
	b.add(domain.Parallel("assets", "Every asset task at once", "html", "style", "js", "fonts", "favicons", "media"))
	b.add(domain.Series(RootTask, "Clean and rebuild the whole site", "clean", "assets"))
}

func (b *builder) bindings() []domain.WatchBinding {
	s := b.site
	return []domain.WatchBinding{
		{
			Name:     "style",
			Patterns: []string{s.SourcePath("scss/**/*.{scss,sass}")},
			Task:     domain.NewInternedString("style"),
			Reload:   domain.ReloadInject,
			Inject:   []string{"css/style.css", "css/style.min.css"},
		},
		{
			Name:     "html",
			Patterns: []string{s.SourcePath("*.html"), s.SourcePath("components/*.html")},
			Task:     domain.NewInternedString("html"),
			Reload:   domain.ReloadFull,
		},
		{
			Name:     "js",
			Patterns: []string{s.SourcePath("js/**/*.js")},
			Task:     domain.NewInternedString("js"),
			Reload:   domain.ReloadFull,
		},
	}
}
