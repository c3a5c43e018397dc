// Package nodelink exports hierarchy views as Graphviz node-link diagrams.
//
// # Overview
//
// [ToDOT] turns a view snapshot into DOT source. By default every node is
// pinned to the position computed by the subtree layout, so Graphviz only
// draws what ontoview already placed; with [Options].Free Graphviz computes
// its own top-down layout instead.
//
// # Usage
//
//	dot := nodelink.ToDOT(snap, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF conversion requires librsvg (rsvg-convert).
package nodelink
