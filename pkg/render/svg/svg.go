package svg

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/ontoview/pkg/hierarchy"
	"github.com/matzehuels/ontoview/pkg/hierarchy/layout"
	"github.com/matzehuels/ontoview/pkg/view"
)

// DefaultNodeHeight is the height of a node box.
const DefaultNodeHeight = 40.0

const margin = 20.0

const interactionCSS = `
    .node rect { fill: #ffffff; stroke: #4a5568; stroke-width: 1.5; }
    .node.group rect { fill: #f7fafc; stroke-dasharray: 4 3; }
    .node.highlighted rect { stroke: #d69e2e; stroke-width: 3; }
    .node.selected rect { fill: #ebf8ff; stroke: #3182ce; stroke-width: 3; }
    .node text { font-family: sans-serif; font-size: 13px; fill: #1a202c; }
    .node .more { fill: #718096; }
    .edge { fill: none; stroke: #a0aec0; stroke-width: 1.5; }
    .edge.highlighted { stroke: #d69e2e; stroke-width: 3; }
    .node.hover rect { stroke-width: 3; }`

const interactionJS = `
    document.querySelectorAll('.node').forEach(el => {
      el.addEventListener('mouseenter', () => el.classList.add('hover'));
      el.addEventListener('mouseleave', () => el.classList.remove('hover'));
    });`

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	nodeHeight  float64
	interactive bool
	title       string
}

// WithNodeHeight sets the box height.
func WithNodeHeight(h float64) Option {
	return func(r *renderer) {
		if h > 0 {
			r.nodeHeight = h
		}
	}
}

// WithInteraction embeds hover styling and a small script.
func WithInteraction() Option { return func(r *renderer) { r.interactive = true } }

// WithTitle sets the document title.
func WithTitle(t string) Option { return func(r *renderer) { r.title = t } }

// Render returns the SVG document for s. Coordinates are shifted so the
// drawing starts at the margin; an empty snapshot yields an empty canvas.
func Render(s view.Snapshot, opts ...Option) []byte {
	r := renderer{nodeHeight: DefaultNodeHeight}
	for _, opt := range opts {
		opt(&r)
	}

	nodeWidth := s.Layout.NodeWidth
	if nodeWidth <= 0 {
		nodeWidth = layout.DefaultNodeWidth
	}

	b := s.Bounds
	width := b.Width() + 2*margin
	height := b.Height() + r.nodeHeight + 2*margin
	if s.Empty() {
		width, height = 2*margin, 2*margin
	}
	dx := margin - b.MinX
	dy := margin + r.nodeHeight/2 - b.MinY

	pos := make(map[hierarchy.ID]layout.Point, len(s.Nodes))
	for _, n := range s.Nodes {
		pos[n.ID] = layout.Point{X: n.X + dx, Y: n.Y + dy}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", EscapeXML(r.title))
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", interactionCSS)

	for _, e := range s.Edges {
		from, okF := pos[e.From]
		to, okT := pos[e.To]
		if !okF || !okT {
			continue
		}
		renderEdge(&buf, e, from, to, r.nodeHeight)
	}
	for _, n := range s.Nodes {
		renderNode(&buf, n, pos[n.ID], nodeWidth, r.nodeHeight)
	}

	if r.interactive {
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", interactionJS)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderEdge(buf *bytes.Buffer, e view.EdgeView, from, to layout.Point, h float64) {
	y1 := from.Y + h/2
	y2 := to.Y - h/2
	mid := (y1 + y2) / 2
	class := "edge"
	if e.Highlighted {
		class += " highlighted"
	}
	fmt.Fprintf(buf, `  <path class="%s" d="M %.1f %.1f V %.1f H %.1f V %.1f"/>`+"\n",
		class, from.X, y1, mid, to.X, y2)
}

func renderNode(buf *bytes.Buffer, n view.NodeView, p layout.Point, w, h float64) {
	class := "node"
	if n.IsGroup {
		class += " group"
	}
	if n.IsHighlighted {
		class += " highlighted"
	}
	if n.IsSelected {
		class += " selected"
	}

	fmt.Fprintf(buf, `  <g class="%s" id="node-%s">`+"\n", class, EscapeXML(n.ID.String()))
	fmt.Fprintf(buf, "    <title>%s</title>\n", EscapeXML(tooltip(n)))
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6"/>`+"\n",
		p.X-w/2, p.Y-h/2, w, h)
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
		p.X, p.Y, EscapeXML(TruncateLabel(n.Label, w)))
	if n.HasMore || (n.ChildCount > 0 && !n.IsExpanded) {
		fmt.Fprintf(buf, `    <text class="more" x="%.1f" y="%.1f" text-anchor="end">%s</text>`+"\n",
			p.X+w/2-4, p.Y+h/2-4, marker(n))
	}
	buf.WriteString("  </g>\n")
}

func marker(n view.NodeView) string {
	if n.HasMore {
		return "…"
	}
	return fmt.Sprintf("+%d", n.ChildCount)
}

func tooltip(n view.NodeView) string {
	if n.Comment != "" {
		return n.ID.String() + "\n" + n.Comment
	}
	return n.ID.String()
}
