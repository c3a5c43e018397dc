// Package layout positions the visible projection of a class hierarchy as a
// top-down tree.
//
// Each visible id gets a subtree width: the node width for leaves, or the sum
// of its children's subtree widths plus gaps, whichever is larger. Children
// are placed left to right inside their parent's span and every node sits at
// the midpoint of its own span, so sibling subtrees never overlap. Rows are
// spaced by a fixed vertical distance and the root is centered on x = 0.
//
// Widths are memoized per call, making [Compute] linear in the number of
// visible ids. The same projection always yields the same positions.
package layout
