package hierarchy

import (
	"fmt"

	"github.com/matzehuels/ontoview/pkg/ontology"
)

// fixture builds A -> [B, C], C -> [D] with depths 0/1/1/2.
func fixture() *ontology.Registry {
	return ontology.NewRegistry("A", map[string]ontology.Node{
		"A": {Name: "A", Children: []string{"B", "C"}, Depth: 0},
		"B": {Name: "B", Children: []string{}, Depth: 1},
		"C": {Name: "C", Children: []string{"D"}, Depth: 1},
		"D": {Name: "D", Children: []string{}, Depth: 2},
	})
}

// wide builds a root with one child per label, ids c0, c1, ...
func wide(labels ...string) *ontology.Registry {
	nodes := map[string]ontology.Node{"root": {Name: "root"}}
	children := make([]string, len(labels))
	for i, l := range labels {
		id := fmt.Sprintf("c%d", i)
		children[i] = id
		nodes[id] = ontology.Node{Name: id, Label: l, Children: []string{}, Depth: 1}
	}
	root := nodes["root"]
	root.Children = children
	nodes["root"] = root
	return ontology.NewRegistry("root", nodes)
}

func ids(v *Visible) []string {
	out := make([]string, 0, v.Len())
	for _, id := range v.Order() {
		out = append(out, id.String())
	}
	return out
}
