package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/ontoview/pkg/hierarchy/layout"
	"github.com/matzehuels/ontoview/pkg/render"
	"github.com/matzehuels/ontoview/pkg/view"
)

// pointsPerInch converts layout units, treated as points, to Graphviz inches.
const pointsPerInch = 72.0

// nodeHeight is the box height in layout units.
const nodeHeight = 40.0

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the comment and child count to node labels.
	Detailed bool

	// Free lets Graphviz compute its own hierarchical layout instead of
	// pinning every node to its computed position.
	Free bool
}

// ToDOT converts a snapshot to Graphviz DOT source.
//
// By default every node carries a pinned pos attribute taken from the
// snapshot, so rendering with neato reproduces the computed layout exactly.
// Graphviz' y axis points up, so y is negated. Groups are drawn dashed,
// highlighted nodes and edges are bold, and the selected node is filled.
func ToDOT(s view.Snapshot, opts Options) string {
	nodeWidth := s.Layout.NodeWidth
	if nodeWidth <= 0 {
		nodeWidth = layout.DefaultNodeWidth
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.Free {
		buf.WriteString("  rankdir=TB;\n")
		buf.WriteString("  ranksep=0.5;\n")
		buf.WriteString("  nodesep=0.3;\n")
	} else {
		buf.WriteString("  layout=neato;\n")
		buf.WriteString("  inputscale=72;\n")
		buf.WriteString("  splines=line;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, fixedsize=true, width=%.3f, height=%.3f];\n",
		nodeWidth/pointsPerInch, nodeHeight/pointsPerInch)
	buf.WriteString("\n")

	for _, n := range s.Nodes {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed))
		if !opts.Free {
			attrs = append(attrs, fmt.Sprintf("pos=\"%.1f,%.1f!\"", n.X, -n.Y))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID.String(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range s.Edges {
		if e.Highlighted {
			fmt.Fprintf(&buf, "  %q -> %q [penwidth=3, color=goldenrod];\n", e.From.String(), e.To.String())
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From.String(), e.To.String())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n view.NodeView, detailed bool) string {
	if !detailed {
		return n.Label
	}
	parts := []string{n.Label, fmt.Sprintf("children: %d", n.ChildCount)}
	if n.Comment != "" {
		parts = append(parts, n.Comment)
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n view.NodeView, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.IsGroup {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	if n.IsSelected {
		attrs = append(attrs, "fillcolor=lightblue")
	}
	if n.IsHighlighted {
		attrs = append(attrs, "penwidth=3", "color=goldenrod")
	}
	if n.HasMore {
		attrs = append(attrs, "peripheries=2")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz. Pinned output from
// [ToDOT] is laid out with neato, free output with dot.
// Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	if strings.Contains(dot, "layout=neato;") {
		gv.SetLayout(graphviz.NEATO)
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element, which carries
// pt-based sizes, with a plain pixel-sized one.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders DOT source as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}
