package ontology

import (
	"maps"
	"slices"
)

// Node is an ontology class as seen by the hierarchy view.
//
// Depth is the distance from the root in the full (possibly server-truncated)
// hierarchy. HasMore reports that the server withheld some descendants of
// this node. Children order is preserved exactly as supplied.
type Node struct {
	URL      string
	Name     string
	Label    string // empty when the class has no rdfs:label
	Comment  string
	Children []string
	Depth    int
	HasMore  bool
}

// DisplayLabel returns the label if set, otherwise the name.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.Name
}

// HasChildren reports whether the node lists at least one child.
func (n Node) HasChildren() bool { return len(n.Children) > 0 }

// Registry is a read-only view over an ontology class hierarchy.
//
// The zero value is an empty registry with no root. Registries are never
// mutated after construction; callers must treat the slices returned by
// [Registry.Children] and [Node.Children] as read-only.
type Registry struct {
	root       string
	nodes      map[string]Node
	ids        []string // sorted, for deterministic iteration
	truncated  bool
	totalNodes int
}

// NewRegistry creates a registry rooted at root. The registry takes ownership
// of nodes; the caller must not modify the map afterwards.
//
// A root that is not a key of nodes is accepted: downstream components treat
// such a registry as empty rather than failing.
func NewRegistry(root string, nodes map[string]Node) *Registry {
	return newRegistry(root, nodes, false, len(nodes))
}

func newRegistry(root string, nodes map[string]Node, truncated bool, total int) *Registry {
	if nodes == nil {
		nodes = map[string]Node{}
	}
	if total < len(nodes) {
		total = len(nodes)
	}
	return &Registry{
		root:       root,
		nodes:      nodes,
		ids:        slices.Sorted(maps.Keys(nodes)),
		truncated:  truncated,
		totalNodes: total,
	}
}

// Root returns the root class id.
func (r *Registry) Root() string {
	if r == nil {
		return ""
	}
	return r.root
}

// Node returns the class with the given id and true, or the zero Node and
// false when the id is unknown.
func (r *Registry) Node(id string) (Node, bool) {
	if r == nil {
		return Node{}, false
	}
	n, ok := r.nodes[id]
	return n, ok
}

// Has reports whether id is a known class.
func (r *Registry) Has(id string) bool {
	_, ok := r.Node(id)
	return ok
}

// Children returns the child ids of id, or nil when id is unknown.
func (r *Registry) Children(id string) []string {
	n, _ := r.Node(id)
	return n.Children
}

// Len returns the number of classes in the registry.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.nodes)
}

// IDs returns all class ids in ascending order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.ids)
}

// Truncated reports whether this registry is a depth-limited view of a
// larger hierarchy.
func (r *Registry) Truncated() bool { return r != nil && r.truncated }

// TotalNodes returns the class count of the full hierarchy this registry was
// cut from. It equals Len for untruncated registries.
func (r *Registry) TotalNodes() int {
	if r == nil {
		return 0
	}
	return r.totalNodes
}

// MaxDepth returns the largest Depth of any class.
func (r *Registry) MaxDepth() int {
	maxDepth := 0
	if r == nil {
		return maxDepth
	}
	for _, n := range r.nodes {
		maxDepth = max(maxDepth, n.Depth)
	}
	return maxDepth
}
