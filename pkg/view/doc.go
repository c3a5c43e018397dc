// Package view couples the hierarchy stages into an interactive view model.
//
// A [Controller] owns the expansion state, the selection and the externally
// supplied highlighted path. Each state change re-runs the pure derivation
// pipeline
//
//	state -> hierarchy.Resolve -> layout.Compute -> Snapshot
//
// and hands the resulting [Snapshot] to the presentation layer. The snapshot
// is plain data: positioned nodes and edges with selection and highlight
// flags, ready to be drawn by any renderer.
//
// # Usage
//
//	reg, err := ontology.ReadTreeFile("tree.json")
//	if err != nil {
//	    return err
//	}
//	c := view.New(reg, view.WithOnSelect(func(id string) {
//	    fmt.Println("selected", id)
//	}))
//	c.ExpandToDepth(2)
//	c.Reveal("http://ex.org/Kitten")
//	snap := c.Snapshot()
//
// A Controller is not safe for concurrent use: all operations must be
// funneled through one goroutine, which keeps every snapshot consistent with
// the latest state.
package view
