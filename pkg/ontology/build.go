package ontology

import (
	"slices"
	"strings"
)

// Thing is the IRI of owl:Thing, used as a virtual root when an imported
// class list does not have exactly one parentless class.
const Thing = "http://www.w3.org/2002/07/owl#Thing"

// Class is a flat class description as produced by an ontology importer:
// every class names its direct superclasses.
type Class struct {
	URL     string   `json:"url" yaml:"url"`
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Label   string   `json:"label,omitempty" yaml:"label,omitempty"`
	Comment string   `json:"comment,omitempty" yaml:"comment,omitempty"`
	Parents []string `json:"parents,omitempty" yaml:"parents,omitempty"`
}

// Build assembles a rooted registry from a flat class list.
//
// Root selection:
//   - exactly one class without parents: that class is the root
//   - several parentless classes: a virtual owl:Thing root adopts them
//   - none: owl:Thing is the root (added as a virtual node if absent)
//
// Self-parent edges are ignored. Children keep the order in which classes
// appear in the input. Depths are breadth-first distances from the root;
// classes unreachable from it get depth 0. Classes with an empty URL are
// skipped, and a repeated URL keeps its first description.
func Build(classes []Class) *Registry {
	nodes := make(map[string]Node, len(classes)+1)
	order := make([]string, 0, len(classes))
	children := make(map[string][]string)
	isChild := make(map[string]bool)

	for _, c := range classes {
		if c.URL == "" {
			continue
		}
		if _, dup := nodes[c.URL]; dup {
			continue
		}
		name := c.Name
		if name == "" {
			name = localName(c.URL)
		}
		nodes[c.URL] = Node{URL: c.URL, Name: name, Label: c.Label, Comment: c.Comment}
		order = append(order, c.URL)

		for _, p := range c.Parents {
			if p == "" || p == c.URL || slices.Contains(children[p], c.URL) {
				continue
			}
			children[p] = append(children[p], c.URL)
			isChild[c.URL] = true
		}
	}

	var candidates []string
	for _, id := range order {
		if !isChild[id] {
			candidates = append(candidates, id)
		}
	}

	root := Thing
	switch {
	case len(candidates) == 1:
		root = candidates[0]
	case len(candidates) > 1:
		for _, c := range candidates {
			if c != Thing && !slices.Contains(children[Thing], c) {
				children[Thing] = append(children[Thing], c)
			}
		}
	}
	if _, ok := nodes[root]; !ok {
		nodes[root] = Node{
			URL:     root,
			Name:    "Thing",
			Label:   "Thing",
			Comment: "Root class (owl:Thing)",
		}
	}

	for id, n := range nodes {
		n.Children = nonNil(slices.Clone(children[id]))
		nodes[id] = n
	}

	for id, d := range bfsDepths(root, nodes) {
		n := nodes[id]
		n.Depth = d
		nodes[id] = n
	}

	return NewRegistry(root, nodes)
}

// bfsDepths returns the breadth-first distance from root of every node
// reachable from it.
func bfsDepths(root string, nodes map[string]Node) map[string]int {
	depths := map[string]int{root: 0}
	queue := []string{root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range nodes[id].Children {
			if _, seen := depths[child]; seen {
				continue
			}
			if _, ok := nodes[child]; !ok {
				continue
			}
			depths[child] = depths[id] + 1
			queue = append(queue, child)
		}
	}
	return depths
}

// localName returns the fragment or last path segment of an IRI.
func localName(iri string) string {
	if i := strings.LastIndexAny(iri, "#/"); i >= 0 && i < len(iri)-1 {
		return iri[i+1:]
	}
	return iri
}
