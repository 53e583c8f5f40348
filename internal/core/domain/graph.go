// Package domain contains the core domain models of the asset pipeline.
package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph is the registry of named tasks that make up a pipeline.
// Composite tasks reference children by name, so registration order is free;
// Validate must succeed before the graph is executed. A validated graph is
// only read afterwards, so concurrent runs may share it.
type Graph struct {
	root    string
	tasks   map[InternedString]Task
	aliases map[InternedString]InternedString
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		tasks:   make(map[InternedString]Task),
		aliases: make(map[InternedString]InternedString),
	}
}

// SetRoot sets the project root every step path is relative to.
func (g *Graph) SetRoot(root string) {
	g.root = root
}

// Root returns the project root.
func (g *Graph) Root() string {
	return g.root
}

// AddTask registers a task.
// It returns an error if the name is taken or the task shape does not match its kind.
func (g *Graph) AddTask(t *Task) error {
	name := t.Name.String()
	if !validTaskName.MatchString(name) {
		return zerr.With(ErrInvalidTaskName, "task_name", name)
	}
	if _, exists := g.tasks[t.Name]; exists {
		return zerr.With(ErrTaskAlreadyExists, "task_name", name)
	}
	if _, exists := g.aliases[t.Name]; exists {
		return zerr.With(ErrAliasConflict, "task_name", name)
	}

	switch t.Kind {
	case KindLeaf:
		if t.Step == nil {
			return zerr.With(zerr.With(ErrInvalidTask, "task_name", name), "reason", "leaf without step")
		}
	case KindSeries, KindParallel:
		if len(t.Children) == 0 {
			return zerr.With(zerr.With(ErrInvalidTask, "task_name", name), "reason", t.Kind.String()+" without children")
		}
	}

	g.tasks[t.Name] = *t
	return nil
}

// AddAlias makes alias resolve to the task called target.
func (g *Graph) AddAlias(alias, target string) error {
	a := NewInternedString(alias)
	if _, exists := g.tasks[a]; exists {
		return zerr.With(ErrAliasConflict, "alias", alias)
	}
	if _, exists := g.aliases[a]; exists {
		return zerr.With(ErrAliasConflict, "alias", alias)
	}
	g.aliases[a] = NewInternedString(target)
	return nil
}

// GetTask returns the task registered under name or an alias of it.
func (g *Graph) GetTask(name InternedString) (Task, bool) {
	if target, ok := g.aliases[name]; ok {
		name = target
	}
	t, ok := g.tasks[name]
	return t, ok
}

// Resolve looks up a task by its user-facing name.
func (g *Graph) Resolve(name string) (Task, error) {
	t, ok := g.GetTask(NewInternedString(name))
	if !ok {
		return Task{}, zerr.With(ErrTaskNotFound, "task", name)
	}
	return t, nil
}

// Aliases returns the alias names pointing at target, sorted.
func (g *Graph) Aliases(target InternedString) []string {
	var out []string
	for alias, t := range g.aliases {
		if t == target {
			out = append(out, alias.String())
		}
	}
	slices.Sort(out)
	return out
}

// Validate checks that every child and alias resolves and that no task reaches itself.
// It does not modify the graph.
func (g *Graph) Validate() error {
	for alias, target := range g.aliases {
		if _, ok := g.tasks[target]; !ok {
			return zerr.With(zerr.With(ErrMissingDependency, "dependency", target.String()), "alias", alias.String())
		}
	}

	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		task, exists := g.GetTask(u)
		if !exists {
			return zerr.With(ErrMissingDependency, "dependency", u.String())
		}

		for _, child := range task.Children {
			if target, ok := g.aliases[child]; ok {
				child = target
			}
			if visited[child] == 1 {
				return g.buildCycleError(path, child)
			}
			if visited[child] == 0 {
				if err := visit(child); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		return nil
	}

	for _, name := range g.sortedNames() {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func (g *Graph) buildCycleError(path []InternedString, dep InternedString) error {
	startIdx := slices.Index(path, dep)
	if startIdx < 0 {
		startIdx = 0
	}

	parts := make([]string, 0, len(path)-startIdx+1)
	for _, node := range path[startIdx:] {
		parts = append(parts, node.String())
	}
	parts = append(parts, dep.String())

	return zerr.With(ErrCycleDetected, "cycle", strings.Join(parts, " -> "))
}

// Plan flattens the subtree under the named targets into the order their tasks start
// together with the child map of every composite, for renderers.
// A task reached twice appears twice.
func (g *Graph) Plan(targets []string) ([]string, map[string][]string, error) {
	var order []string
	children := make(map[string][]string)

	var visit func(name InternedString) error
	visit = func(name InternedString) error {
		task, ok := g.GetTask(name)
		if !ok {
			return zerr.With(ErrTaskNotFound, "task", name.String())
		}
		order = append(order, task.Name.String())
		if task.Kind == KindLeaf {
			return nil
		}
		children[task.Name.String()] = Strings(task.Children)
		for _, child := range task.Children {
			if err := visit(child); err != nil {
				return err
			}
		}
		return nil
	}

	for _, target := range targets {
		if err := visit(NewInternedString(target)); err != nil {
			return nil, nil, err
		}
	}
	return order, children, nil
}

func (g *Graph) sortedNames() []InternedString {
	names := make([]InternedString, 0, len(g.tasks))
	for name := range g.tasks {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b InternedString) int {
		return strings.Compare(a.String(), b.String())
	})
	return names
}

// Names returns all task names in lexicographic order.
func (g *Graph) Names() []string {
	return Strings(g.sortedNames())
}
