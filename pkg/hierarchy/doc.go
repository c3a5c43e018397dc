// Package hierarchy derives the visible projection of an ontology class
// hierarchy from a user-controlled expansion state.
//
// # Overview
//
// The package holds the pure stages of the view pipeline:
//
//   - [Partitions]: alphabetic grouping of large sibling sets
//   - [Resolve]: breadth-first visibility over the expansion state
//   - [PathResolver]: root-to-target path reconstruction
//
// Layout lives in the [layout] subpackage and the stateful controller that
// ties the stages together lives in package view.
//
// # Identifiers
//
// Expansion state and the visible set share one key space that holds both
// real classes and synthetic groups. [ID] is a tagged value rather than a
// prefixed string, so a class whose IRI happens to start with "group:" can
// never be mistaken for a group:
//
//	hierarchy.NodeID("http://ex.org/Animal")
//	hierarchy.GroupID("http://ex.org/Animal", "C")
//
// # Degradation
//
// Nothing in this package returns an error. Children missing from the
// registry are skipped, cycles are cut by visited sets, and an unknown root
// yields an empty visible set.
//
// [layout]: github.com/matzehuels/ontoview/pkg/hierarchy/layout
package hierarchy
