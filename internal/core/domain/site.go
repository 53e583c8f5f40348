package domain

import (
	"path/filepath"
	"time"
)

// Site is the configuration record a pipeline is built from.
// All directories are relative to Root.
type Site struct {
	Root    string
	Source  string
	Output  string
	HTML    HTMLConfig
	Style   StyleConfig
	Scripts []ScriptSet
	Images  ImageConfig
	Content ContentConfig
	Deploy  DeployConfig
	Serve   ServeConfig
	// Tools maps a tool alias (sass, optipng, jpegtran, cwebp, git) to the binary to run.
	Tools map[string]string
}

// HTMLConfig controls page assembly.
type HTMLConfig struct {
	Includes bool
}

// StyleConfig controls stylesheet compilation.
type StyleConfig struct {
	// Entry is the stylesheet entry point, relative to Source.
	Entry        string
	IncludePaths []string
	PostProcess  []string
	// OptionalPostProcess skips PostProcess when its tool is not installed.
	OptionalPostProcess bool
	SourceMap           bool
}

// ScriptSet is one group of JavaScript files concatenated into a single bundle.
type ScriptSet struct {
	Name string
	// Dir holds the set's sources, relative to Source; the same path is used under Output/js.
	Dir       string
	Target    string
	MinTarget string
	SourceMap bool
}

// ImageConfig controls raster and vector optimization.
type ImageConfig struct {
	OptimizationLevel int
	Progressive       bool
}

// ContentConfig controls WebP conversion of content images.
type ContentConfig struct {
	Quality int
}

// DeployConfig controls publishing of the output directory.
type DeployConfig struct {
	Remote     string
	Repository string
	Branch     string
	Message    string
}

// ServeConfig controls the development server.
type ServeConfig struct {
	Host     string
	Port     int
	Open     bool
	CORS     bool
	Debounce time.Duration
}

// SourcePath joins rel onto the source directory as a slash-separated pattern.
func (s *Site) SourcePath(rel ...string) string {
	return filepath.ToSlash(filepath.Join(append([]string{s.Source}, rel...)...))
}

// OutputPath joins rel onto the output directory as a slash-separated pattern.
func (s *Site) OutputPath(rel ...string) string {
	return filepath.ToSlash(filepath.Join(append([]string{s.Output}, rel...)...))
}

// Tool returns the binary configured for alias, falling back to the alias itself.
func (s *Site) Tool(alias string) string {
	if bin, ok := s.Tools[alias]; ok && bin != "" {
		return bin
	}
	return alias
}
