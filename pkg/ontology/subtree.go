package ontology

// Subtree returns a depth-limited copy of the hierarchy below root.
//
// The walk is breadth-first from root; if root is unknown the registry root
// is used instead. Nodes at relative depth maxDepth are kept without their
// children and get HasMore set when they had any. Nodes above the limit keep
// their children and get HasMore when one of their children has children of
// its own that the limit cuts off. A negative maxDepth means unlimited.
//
// The result reports Truncated when it holds fewer classes than the full
// registry, and TotalNodes of the full registry.
func (r *Registry) Subtree(root string, maxDepth int) *Registry {
	if !r.Has(root) {
		root = r.Root()
	}
	limited := maxDepth >= 0

	type item struct {
		id    string
		depth int
	}

	result := make(map[string]Node)
	visited := make(map[string]bool)
	queue := []item{{root, 0}}

	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		if visited[it.id] {
			continue
		}
		visited[it.id] = true

		n, ok := r.Node(it.id)
		if !ok {
			continue
		}

		if limited && it.depth >= maxDepth {
			n.HasMore = n.HasMore || len(n.Children) > 0
			n.Children = []string{}
			result[it.id] = n
			continue
		}

		n.HasMore = false
		for _, child := range n.Children {
			if !visited[child] {
				queue = append(queue, item{child, it.depth + 1})
			}
			if limited && it.depth+1 >= maxDepth {
				if c, ok := r.Node(child); ok && (c.HasChildren() || c.HasMore) {
					n.HasMore = true
				}
			}
		}
		result[it.id] = n
	}

	truncated := limited && len(result) < r.Len()
	return newRegistry(root, result, truncated, r.TotalNodes())
}
