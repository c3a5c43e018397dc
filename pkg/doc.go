// Package pkg provides the core libraries for Ontoview class hierarchy
// exploration.
//
// # Overview
//
// Ontoview turns an ontology's class hierarchy into a collapsible tree.
// Classes with many children are grouped by the first letter of their label,
// any class can be searched for and revealed, and the visible part of the
// tree can be laid out and exported.
//
// # Architecture
//
// The typical data flow:
//
//	Class list (JSON/YAML)
//	         ↓
//	    [ontology] package (rooted registry, subtrees, search)
//	         ↓
//	    [hierarchy] package (grouping, expansion, visibility, layout)
//	         ↓
//	    [view] package (controller and snapshots)
//	         ↓
//	    [render] package (SVG, DOT, PDF, PNG)
//
// [pipeline] runs the stages end to end with caching through [cache].
//
// # Quick Start
//
//	reg := ontology.Build(classes)
//	ctrl := view.New(reg, view.WithGroupThreshold(25))
//	ctrl.Reveal("http://example.org/Margherita")
//	doc := svg.Render(ctrl.Snapshot())
//
// # Supporting Packages
//
// [config] loads TOML or YAML configuration. [errors] defines the error
// codes surfaced to users. [observability] exposes pipeline, view and cache
// metrics to Prometheus. [buildinfo] carries version information set at link time.
//
// [ontology]: github.com/matzehuels/ontoview/pkg/ontology
// [hierarchy]: github.com/matzehuels/ontoview/pkg/hierarchy
// [view]: github.com/matzehuels/ontoview/pkg/view
// [render]: github.com/matzehuels/ontoview/pkg/render
// [pipeline]: github.com/matzehuels/ontoview/pkg/pipeline
// [cache]: github.com/matzehuels/ontoview/pkg/cache
// [config]: github.com/matzehuels/ontoview/pkg/config
// [errors]: github.com/matzehuels/ontoview/pkg/errors
// [observability]: github.com/matzehuels/ontoview/pkg/observability
// [buildinfo]: github.com/matzehuels/ontoview/pkg/buildinfo
package pkg
