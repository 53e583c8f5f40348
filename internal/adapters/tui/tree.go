package tui

const maxTreeDepth = 10

// buildTree lays out the plan as a tree under each target.
// Composite tasks own their children; a task reachable from two composites
// appears under both, sharing one canonical node for status and logs.
func buildTree(targets []string, children map[string][]string, taskMap map[string]*TaskNode) []*TaskNode {
	roots := make([]*TaskNode, 0, len(targets))
	for _, target := range targets {
		if root := buildSubtree(target, children, taskMap, 0); root != nil {
			roots = append(roots, root)
		}
	}
	return roots
}

func buildSubtree(name string, children map[string][]string, taskMap map[string]*TaskNode, depth int) *TaskNode {
	if depth > maxTreeDepth {
		return nil
	}
	canonical := taskMap[name]
	if canonical == nil {
		return nil
	}

	node := &TaskNode{
		Name:          canonical.Name,
		Depth:         depth,
		Children:      make([]*TaskNode, 0, len(children[name])),
		CanonicalNode: canonical,
	}
	for _, childName := range children[name] {
		if child := buildSubtree(childName, children, taskMap, depth+1); child != nil {
			child.Parent = node
			node.Children = append(node.Children, child)
		}
	}
	return node
}

// flattenTree lists the visible rows: children only follow expanded nodes.
func flattenTree(roots []*TaskNode) []*TaskNode {
	flat := make([]*TaskNode, 0)

	var walk func(node *TaskNode)
	walk = func(node *TaskNode) {
		flat = append(flat, node)
		if node.IsExpanded {
			for _, child := range node.Children {
				walk(child)
			}
		}
	}
	for _, root := range roots {
		walk(root)
	}
	return flat
}

// findNode returns the first tree node showing name, in display order.
func findNode(roots []*TaskNode, name string) *TaskNode {
	for _, root := range roots {
		if root.Name == name {
			return root
		}
		if found := findNode(root.Children, name); found != nil {
			return found
		}
	}
	return nil
}
