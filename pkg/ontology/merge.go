package ontology

import "maps"

// Merge returns a new registry holding the classes of both r and sub, keeping
// r's root. When a class is present in both, the fuller copy wins: the one
// with more children, or, on a tie, the one not marked HasMore.
//
// HasMore is then recomputed for every class that lists children: it is set
// when one of those children is missing or is itself a cut-off leaf. Classes
// without children keep their flag.
//
// Merge is how lazily loaded subtrees are folded into the registry already on
// screen. Because the root is unchanged, a view keeps its expansion state
// across the merge.
func (r *Registry) Merge(sub *Registry) *Registry {
	nodes := make(map[string]Node, r.Len()+sub.Len())
	if r != nil {
		maps.Copy(nodes, r.nodes)
	}
	if sub != nil {
		for id, n := range sub.nodes {
			if existing, ok := nodes[id]; !ok || fuller(n, existing) {
				nodes[id] = n
			}
		}
	}

	for id, n := range nodes {
		if !n.HasChildren() {
			continue
		}
		n.HasMore = false
		for _, child := range n.Children {
			c, ok := nodes[child]
			if !ok || (c.HasMore && !c.HasChildren()) {
				n.HasMore = true
				break
			}
		}
		nodes[id] = n
	}

	total := max(r.TotalNodes(), sub.TotalNodes(), len(nodes))
	truncated := false
	for _, n := range nodes {
		if n.HasMore {
			truncated = true
			break
		}
	}
	truncated = truncated || len(nodes) < total

	return newRegistry(r.Root(), nodes, truncated, total)
}

// fuller reports whether a carries strictly more of the hierarchy than b.
func fuller(a, b Node) bool {
	if len(a.Children) != len(b.Children) {
		return len(a.Children) > len(b.Children)
	}
	return !a.HasMore && b.HasMore
}
