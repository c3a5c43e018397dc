package ontology_test

import (
	"fmt"

	"github.com/matzehuels/ontoview/pkg/ontology"
)

func ExampleParseTree() {
	data := []byte(`{
		"root": "thing",
		"nodes": {
			"thing":  {"name": "Thing", "children": ["agent", "place"], "depth": 0},
			"agent":  {"name": "Agent", "label": "Agent", "children": [], "depth": 1},
			"place":  {"name": "Place", "label": null, "children": [], "depth": 1}
		}
	}`)

	r, err := ontology.ParseTree(data, ontology.FormatJSON)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("root:", r.Root())
	fmt.Println("children:", r.Children(r.Root()))
	fmt.Println("classes:", r.Len())
	// Output:
	// root: thing
	// children: [agent place]
	// classes: 3
}

func ExampleRegistry_Subtree() {
	r := ontology.Build([]ontology.Class{
		{URL: "http://ex.org/Animal"},
		{URL: "http://ex.org/Cat", Parents: []string{"http://ex.org/Animal"}},
		{URL: "http://ex.org/Kitten", Parents: []string{"http://ex.org/Cat"}},
	})

	sub := r.Subtree(r.Root(), 1)
	for _, id := range sub.IDs() {
		n, _ := sub.Node(id)
		fmt.Printf("%s depth=%d children=%d has_more=%v\n", n.Name, n.Depth, len(n.Children), n.HasMore)
	}
	fmt.Printf("truncated=%v total=%d\n", sub.Truncated(), sub.TotalNodes())
	// Output:
	// Animal depth=0 children=1 has_more=true
	// Cat depth=1 children=0 has_more=true
	// truncated=true total=3
}
