// Package svg draws a view snapshot as a standalone SVG document.
//
// Nodes are drawn as rounded boxes centered on their computed positions,
// edges as elbow paths from the bottom of a parent to the top of a child.
// Groups use a dashed outline, and nodes with unloaded descendants get an
// ellipsis marker. Selected and highlighted nodes and edges carry CSS
// classes so that embedding pages can restyle them.
//
//	snap := controller.Snapshot()
//	doc := svg.Render(snap, svg.WithInteraction())
package svg
