package ports

// InputMatch is one file matched by an input pattern.
type InputMatch struct {
	// Path is the absolute path of the file.
	Path string
	// Rel is the slash-separated path relative to the glob base of the matching pattern.
	Rel string
}

// InputResolver defines the interface for expanding input globs.
//
//go:generate mockgen -destination=mocks/mock_resolver.go -package=mocks -source=resolver.go
type InputResolver interface {
	// ResolveInputs expands patterns relative to root into existing files.
	// Matches are deduplicated and sorted lexicographically by path; no match is not an error.
	ResolveInputs(patterns []string, root string) ([]InputMatch, error)
}
