package domain

// ReloadMode says how connected browsers learn about a finished rebuild.
type ReloadMode uint8

const (
	// ReloadFull asks every client to reload the page.
	ReloadFull ReloadMode = iota
	// ReloadInject pushes stylesheet content so clients swap styles without reloading.
	ReloadInject
)

// String returns the lowercase name of the mode.
func (m ReloadMode) String() string {
	if m == ReloadInject {
		return "inject"
	}
	return "full"
}

// WatchBinding connects a set of source globs to the task that rebuilds them.
type WatchBinding struct {
	// Name identifies the binding in logs.
	Name string
	// Patterns are slash-separated globs relative to the project root.
	Patterns []string
	// Task is run whenever a matching file changes.
	Task InternedString
	// Reload selects the signal sent after a successful run.
	Reload ReloadMode
	// Inject lists the stylesheets, relative to the output directory, whose
	// content is pushed in ReloadInject mode.
	Inject []string
}
