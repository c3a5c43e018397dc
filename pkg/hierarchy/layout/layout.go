package layout

import (
	"math"

	"github.com/matzehuels/ontoview/pkg/hierarchy"
)

const eps = 1e-9

// Default spacing, in user units.
const (
	DefaultNodeWidth       = 180.0
	DefaultHorizontalGap   = 20.0
	DefaultVerticalSpacing = 100.0
)

// Config holds the spacing constants of the layout.
type Config struct {
	NodeWidth       float64 `json:"node_width" yaml:"node_width" toml:"node_width" validate:"gt=0"`
	HorizontalGap   float64 `json:"horizontal_gap" yaml:"horizontal_gap" toml:"horizontal_gap" validate:"gte=0"`
	VerticalSpacing float64 `json:"vertical_spacing" yaml:"vertical_spacing" toml:"vertical_spacing" validate:"gt=0"`
}

// DefaultConfig returns the default spacing.
func DefaultConfig() Config {
	return Config{
		NodeWidth:       DefaultNodeWidth,
		HorizontalGap:   DefaultHorizontalGap,
		VerticalSpacing: DefaultVerticalSpacing,
	}
}

// withDefaults replaces non-positive widths and spacing, and negative gaps.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.NodeWidth <= 0 {
		c.NodeWidth = d.NodeWidth
	}
	if c.HorizontalGap < 0 {
		c.HorizontalGap = d.HorizontalGap
	}
	if c.VerticalSpacing <= 0 {
		c.VerticalSpacing = d.VerticalSpacing
	}
	return c
}

// Layout holds the computed position of every visible id.
type Layout struct {
	Config    Config
	Positions map[hierarchy.ID]Point
	Spans     map[hierarchy.ID]Span
}

// Compute lays out v. An empty projection yields an empty layout.
func Compute(v *hierarchy.Visible, cfg Config) *Layout {
	cfg = cfg.withDefaults()
	l := &Layout{
		Config:    cfg,
		Positions: make(map[hierarchy.ID]Point, v.Len()),
		Spans:     make(map[hierarchy.ID]Span, v.Len()),
	}
	if v.Empty() {
		return l
	}

	l.place(v, SubtreeWidths(v, cfg))
	return l
}

// SubtreeWidths returns the subtree width of every visible id.
func SubtreeWidths(v *hierarchy.Visible, cfg Config) map[hierarchy.ID]float64 {
	cfg = cfg.withDefaults()
	widths := make(map[hierarchy.ID]float64, v.Len())

	// Visible order is breadth-first, so walking it backwards sees every
	// child before its parent.
	order := v.Order()
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		kids := v.Children(id)
		if len(kids) == 0 {
			widths[id] = cfg.NodeWidth
			continue
		}
		sum := cfg.HorizontalGap * float64(len(kids)-1)
		for _, kid := range kids {
			sum += widths[kid]
		}
		widths[id] = math.Max(cfg.NodeWidth, sum)
	}
	return widths
}

// place positions every visible id. Walking the breadth-first order forwards
// places each parent before its children, so the span of a parent is known
// when its children are laid out inside it.
func (l *Layout) place(v *hierarchy.Visible, widths map[hierarchy.ID]float64) {
	root := v.Root()
	l.Spans[root] = Span{Left: -widths[root] / 2, Right: widths[root] / 2}
	l.Positions[root] = Point{X: 0, Y: 0}

	for _, id := range v.Order() {
		span, ok := l.Spans[id]
		if !ok {
			continue
		}
		y := l.Positions[id].Y + l.Config.VerticalSpacing
		x := span.Left
		for _, kid := range v.Children(id) {
			kidSpan := Span{Left: x, Right: x + widths[kid]}
			l.Spans[kid] = kidSpan
			l.Positions[kid] = Point{X: kidSpan.Center(), Y: y}
			x += widths[kid] + l.Config.HorizontalGap
		}
	}
}

// Position returns the center of id.
func (l *Layout) Position(id hierarchy.ID) (Point, bool) {
	p, ok := l.Positions[id]
	return p, ok
}

// Bounds returns the bounding box of the layout. Node boxes are NodeWidth
// wide, so the horizontal extent is padded by half a node on each side.
func (l *Layout) Bounds() Bounds {
	if len(l.Positions) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinX: math.Inf(1), MaxX: math.Inf(-1),
		MinY: math.Inf(1), MaxY: math.Inf(-1),
	}
	for _, p := range l.Positions {
		b.MinX = math.Min(b.MinX, p.X)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	half := l.Config.NodeWidth / 2
	b.MinX -= half
	b.MaxX += half
	return b
}
