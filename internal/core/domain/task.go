package domain

import "regexp"

// TaskKind distinguishes leaf tasks from the two composition forms.
type TaskKind uint8

const (
	// KindLeaf runs exactly one Step.
	KindLeaf TaskKind = iota
	// KindSeries runs its children one after another, stopping at the first failure.
	KindSeries
	// KindParallel starts all children at once and waits for every one of them.
	KindParallel
)

// String returns the lowercase name of the kind.
func (k TaskKind) String() string {
	switch k {
	case KindSeries:
		return "series"
	case KindParallel:
		return "parallel"
	default:
		return "leaf"
	}
}

// Task is a named node of the pipeline graph.
// Leaves carry a Step; composites carry ordered child names.
type Task struct {
	Name        InternedString
	Kind        TaskKind
	Children    []InternedString
	Step        *Step
	Description string
}

var validTaskName = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// NewLeaf creates a leaf task wrapping a single step.
func NewLeaf(name, description string, step *Step) *Task {
	return &Task{
		Name:        NewInternedString(name),
		Kind:        KindLeaf,
		Step:        step,
		Description: description,
	}
}

// Series creates a composite that runs children in the listed order.
func Series(name, description string, children ...string) *Task {
	return &Task{
		Name:        NewInternedString(name),
		Kind:        KindSeries,
		Children:    NewInternedStrings(children),
		Description: description,
	}
}

// Parallel creates a composite that runs all children concurrently.
func Parallel(name, description string, children ...string) *Task {
	return &Task{
		Name:        NewInternedString(name),
		Kind:        KindParallel,
		Children:    NewInternedStrings(children),
		Description: description,
	}
}
