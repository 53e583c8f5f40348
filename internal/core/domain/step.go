package domain

// StepKind selects the transformer that executes a Step.
type StepKind string

const (
	// StepRemove deletes the paths matched by its inputs.
	StepRemove StepKind = "remove"
	// StepCopy copies matched files verbatim into the output directory.
	StepCopy StepKind = "copy"
	// StepInclude copies HTML pages, optionally flattening <include> directives.
	StepInclude StepKind = "include"
	// StepSass compiles the stylesheet entry point with the sass compiler.
	StepSass StepKind = "sass"
	// StepBundle copies, concatenates and minifies a JavaScript set.
	StepBundle StepKind = "bundle"
	// StepImagemin optimizes raster and vector images in place.
	StepImagemin StepKind = "imagemin"
	// StepWebp converts raster images to WebP siblings.
	StepWebp StepKind = "webp"
	// StepSprite minifies SVG icons and stores them in a single symbol sprite.
	StepSprite StepKind = "sprite"
	// StepPublish pushes the output directory to a hosting branch.
	StepPublish StepKind = "publish"
)

// Step describes one transform: which files it reads and where it writes.
// Input patterns are slash-separated globs relative to the project root and
// output paths keep each file's location relative to its pattern's glob base.
type Step struct {
	Kind    StepKind
	Inputs  []InternedString
	Output  string
	Options StepOptions
}

// StepOptions carries the tool-specific settings of a Step.
// Each transformer reads only the fields it understands.
type StepOptions struct {
	// Target is the name of a single produced file (concatenation, stylesheet, sprite).
	Target string
	// MinTarget is the name of the minified variant of Target.
	MinTarget string
	// CopyDir receives verbatim copies of the inputs, relative to Output.
	CopyDir string
	// SourceMap enables source map generation where the tool supports it.
	SourceMap bool
	// IncludePaths are extra load paths handed to the sass compiler.
	IncludePaths []string
	// PostProcess is a command run on every produced stylesheet; the file path is appended.
	PostProcess []string
	// OptionalPostProcess skips PostProcess when its tool is not installed.
	OptionalPostProcess bool
	// ResolveIncludes turns on <include src="..."> flattening for HTML.
	ResolveIncludes bool
	// OptimizationLevel is the PNG optimizer level.
	OptimizationLevel int
	// Progressive requests progressive JPEG encoding.
	Progressive bool
	// Quality is the lossy encoder quality (0-100).
	Quality int
	// Remote is the git remote the publish step pushes to.
	Remote string
	// Repository overrides the remote URL; empty means read it from Remote.
	Repository string
	// Branch is the branch the publish step pushes to.
	Branch string
	// Message is the commit message used by the publish step.
	Message string
	// Tools maps tool aliases to the binaries to run instead.
	Tools map[string]string
}

// Tool returns the binary configured for alias, falling back to the alias itself.
func (o *StepOptions) Tool(alias string) string {
	if bin, ok := o.Tools[alias]; ok && bin != "" {
		return bin
	}
	return alias
}

// Patterns returns the step inputs as plain strings.
func (s *Step) Patterns() []string {
	return Strings(s.Inputs)
}
