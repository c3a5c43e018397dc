package hierarchy

import (
	"slices"

	"github.com/matzehuels/ontoview/pkg/ontology"
)

// PathResolver reconstructs root-to-class paths over one registry.
//
// The reverse child-to-parent index is built once, so each path costs time
// proportional to its length. For a class with several parents the one on a
// shortest path from the root is chosen; classes unreachable from the root
// fall back to the parent with the smallest id.
type PathResolver struct {
	reg    *ontology.Registry
	parent map[string]string
}

// NewPathResolver indexes the parents of every class in reg.
func NewPathResolver(reg *ontology.Registry) *PathResolver {
	p := &PathResolver{reg: reg, parent: make(map[string]string, reg.Len())}
	root := reg.Root()

	if reg.Has(root) {
		seen := map[string]bool{root: true}
		queue := []string{root}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			for _, child := range reg.Children(id) {
				if seen[child] || !reg.Has(child) {
					continue
				}
				seen[child] = true
				p.parent[child] = id
				queue = append(queue, child)
			}
		}
	}

	for _, id := range reg.IDs() {
		for _, child := range reg.Children(id) {
			if child == root || child == id {
				continue
			}
			if _, ok := p.parent[child]; !ok {
				p.parent[child] = id
			}
		}
	}
	return p
}

// Registry returns the indexed registry.
func (p *PathResolver) Registry() *ontology.Registry { return p.reg }

// Parent returns the indexed parent of id.
func (p *PathResolver) Parent(id string) (string, bool) {
	parent, ok := p.parent[id]
	return parent, ok
}

// PathToRoot returns the chain of class ids from the top-most reachable
// ancestor down to target, target included. For a class reachable from the
// root the chain starts at the root.
//
// An unknown target yields nil. A parent cycle stops the walk at the first
// repeated id and the partial chain is returned.
func (p *PathResolver) PathToRoot(target string) []string {
	if !p.reg.Has(target) {
		return nil
	}
	path := []string{target}
	seen := map[string]bool{target: true}
	for cur := target; ; {
		parent, ok := p.parent[cur]
		if !ok || seen[parent] {
			break
		}
		seen[parent] = true
		path = append(path, parent)
		cur = parent
	}
	slices.Reverse(path)
	return path
}

// RevealIDs returns the ids that must be expanded for every class on path to
// become visible: each class on the path, and for each grouped parent the
// group that holds the next class.
func RevealIDs(path []string, parts *Partitions) []ID {
	ids := make([]ID, 0, len(path)*2)
	for i, id := range path {
		ids = append(ids, NodeID(id))
		if i+1 == len(path) {
			break
		}
		next := path[i+1]
		for _, b := range parts.For(id) {
			if slices.Contains(b.Members, next) {
				ids = append(ids, GroupID(id, b.Key))
				break
			}
		}
	}
	return ids
}
