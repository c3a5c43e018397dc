// Package render turns hierarchy view snapshots into documents.
//
// # Overview
//
// Two renderers share the [view.Snapshot] input:
//
//   - [svg]: a native SVG writer that draws boxes and elbow edges at the
//     positions computed by the subtree layout
//   - [nodelink]: Graphviz DOT export, rendered in-process with go-graphviz
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg).
//
//	doc := svg.Render(snap)
//	pdf, err := render.ToPDF(ctx, doc)
//	png, err := render.ToPNG(ctx, doc, 2.0)
//
// [view.Snapshot]: github.com/matzehuels/ontoview/pkg/view.Snapshot
// [svg]: github.com/matzehuels/ontoview/pkg/render/svg
// [nodelink]: github.com/matzehuels/ontoview/pkg/render/nodelink
package render
