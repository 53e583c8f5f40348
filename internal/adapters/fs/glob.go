package fs

import (
	"path"
	"strings"

	"github.com/gobwas/glob"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/zerr"
)

const globMeta = "*?[{\\"

// HasMeta reports whether pattern contains glob syntax.
func HasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, globMeta)
}

// GlobBase returns the leading directory of pattern that contains no glob syntax.
// Output paths are computed relative to it: the base of "src/js/**/*.js" is "src/js",
// and the base of a literal path is its parent directory.
func GlobBase(pattern string) string {
	pattern = path.Clean(pattern)
	if !HasMeta(pattern) {
		return path.Dir(pattern)
	}

	segments := strings.Split(pattern, "/")
	base := make([]string, 0, len(segments))
	for _, segment := range segments {
		if HasMeta(segment) {
			break
		}
		base = append(base, segment)
	}
	if len(base) == 0 {
		return "."
	}
	if base[0] == "" {
		// Absolute pattern.
		return "/" + path.Join(base[1:]...)
	}
	return path.Join(base...)
}

// Matcher matches slash-separated paths against one pattern.
// A "**" segment also matches zero directories, so "src/**/*.js" matches "src/a.js".
type Matcher struct {
	globs []glob.Glob
}

// CompileMatcher compiles pattern into a Matcher.
func CompileMatcher(pattern string) (*Matcher, error) {
	pattern = path.Clean(pattern)
	variants := []string{pattern}
	if strings.Contains(pattern, "/**/") {
		variants = append(variants, strings.ReplaceAll(pattern, "/**/", "/"))
	}
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		variants = append(variants, rest)
	}

	m := &Matcher{globs: make([]glob.Glob, 0, len(variants))}
	for _, v := range variants {
		g, err := glob.Compile(v, '/')
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidPattern.Error()), "pattern", pattern)
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

// Match reports whether the slash-separated name matches the pattern.
func (m *Matcher) Match(name string) bool {
	for _, g := range m.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
