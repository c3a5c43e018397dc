package layout

// Point is the center of a laid-out node.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Span is the horizontal extent reserved for a node and its visible
// descendants.
type Span struct {
	Left, Right float64
}

// Width returns the horizontal size of the span.
func (s Span) Width() float64 { return s.Right - s.Left }

// Center returns the horizontal midpoint of the span.
func (s Span) Center() float64 { return (s.Left + s.Right) / 2 }

// Overlaps reports whether two spans share more than an edge.
func (s Span) Overlaps(o Span) bool {
	return s.Left < o.Right-eps && o.Left < s.Right-eps
}

// Bounds is the bounding box of all node centers, padded by half a node on
// each side horizontally.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`
}

// Width returns the horizontal size of the bounds.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical size of the bounds.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }
