package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/ontoview/pkg/hierarchy"
	"github.com/matzehuels/ontoview/pkg/ontology"
)

func fixture() *ontology.Registry {
	return ontology.NewRegistry("A", map[string]ontology.Node{
		"A": {Name: "A", Children: []string{"B", "C"}, Depth: 0},
		"B": {Name: "B", Children: []string{}, Depth: 1},
		"C": {Name: "C", Children: []string{"D"}, Depth: 1},
		"D": {Name: "D", Children: []string{}, Depth: 2},
	})
}

func TestComputeFixture(t *testing.T) {
	reg := fixture()
	exp := hierarchy.NewExpansion(hierarchy.NodeID("A"), hierarchy.NodeID("C"))
	v := hierarchy.Resolve(reg, exp, nil)
	l := Compute(v, DefaultConfig())

	a, _ := l.Position(hierarchy.NodeID("A"))
	b, _ := l.Position(hierarchy.NodeID("B"))
	c, _ := l.Position(hierarchy.NodeID("C"))
	d, _ := l.Position(hierarchy.NodeID("D"))

	if a.X != 0 || a.Y != 0 {
		t.Errorf("root at %v, want origin", a)
	}
	if !(b.X < a.X && a.X < c.X) {
		t.Errorf("siblings not ordered around parent: B=%v A=%v C=%v", b.X, a.X, c.X)
	}
	if b.Y != c.Y || b.Y <= a.Y || d.Y <= c.Y {
		t.Errorf("rows not layered: A=%v B=%v C=%v D=%v", a.Y, b.Y, c.Y, d.Y)
	}
	if d.X != c.X {
		t.Errorf("only child D at x=%v, want under C at %v", d.X, c.X)
	}
	if got := l.Spans[hierarchy.NodeID("A")].Width(); got != 2*DefaultNodeWidth+DefaultHorizontalGap {
		t.Errorf("root span = %v", got)
	}
}

func TestComputeDeepChain(t *testing.T) {
	const depth = 50000
	nodes := make(map[string]ontology.Node, depth)
	ids := make([]hierarchy.ID, 0, depth)
	for i := range depth {
		id := fmt.Sprintf("n%d", i)
		n := ontology.Node{Name: id, Depth: i}
		if i+1 < depth {
			n.Children = []string{fmt.Sprintf("n%d", i+1)}
		}
		nodes[id] = n
		ids = append(ids, hierarchy.NodeID(id))
	}
	v := hierarchy.Resolve(ontology.NewRegistry("n0", nodes), hierarchy.NewExpansion(ids...), nil)
	l := Compute(v, DefaultConfig())

	if len(l.Positions) != depth {
		t.Fatalf("positions = %d, want %d", len(l.Positions), depth)
	}
	last, _ := l.Position(hierarchy.NodeID(fmt.Sprintf("n%d", depth-1)))
	if last.X != 0 || last.Y != float64(depth-1)*DefaultVerticalSpacing {
		t.Errorf("deepest node at %v, want directly below the root", last)
	}
}

func TestComputeLeafOnly(t *testing.T) {
	reg := fixture()
	v := hierarchy.Resolve(reg, hierarchy.NewExpansion(), nil)
	l := Compute(v, Config{})

	if len(l.Positions) != 1 {
		t.Fatalf("positions = %d, want 1", len(l.Positions))
	}
	if p, _ := l.Position(hierarchy.NodeID("A")); p != (Point{}) {
		t.Errorf("collapsed root at %v, want origin", p)
	}
	if l.Config.NodeWidth != DefaultNodeWidth || l.Config.VerticalSpacing != DefaultVerticalSpacing {
		t.Errorf("zero config not defaulted: %+v", l.Config)
	}
	b := l.Bounds()
	if b.Width() != DefaultNodeWidth || b.Height() != 0 {
		t.Errorf("Bounds() = %+v", b)
	}
}

func TestComputeEmpty(t *testing.T) {
	v := hierarchy.Resolve(nil, hierarchy.NewExpansion(), nil)
	l := Compute(v, DefaultConfig())
	if len(l.Positions) != 0 || l.Bounds() != (Bounds{}) {
		t.Errorf("empty projection produced %d positions", len(l.Positions))
	}
}

func TestSubtreeWidthWiderParent(t *testing.T) {
	reg := fixture()
	v := hierarchy.Resolve(reg, hierarchy.NewExpansion(hierarchy.NodeID("A")), nil)
	cfg := Config{NodeWidth: 500, HorizontalGap: 10, VerticalSpacing: 50}
	widths := SubtreeWidths(v, cfg)
	if got := widths[hierarchy.NodeID("A")]; got != 1010 {
		t.Errorf("width(A) = %v, want 1010", got)
	}
	if got := widths[hierarchy.NodeID("B")]; got != 500 {
		t.Errorf("width(B) = %v, want node width", got)
	}
}

func TestComputeDeterministic(t *testing.T) {
	reg := fixture()
	exp := hierarchy.All(reg, nil)
	l1 := Compute(hierarchy.Resolve(reg, exp, nil), DefaultConfig())
	l2 := Compute(hierarchy.Resolve(reg, exp, nil), DefaultConfig())
	for id, p := range l1.Positions {
		if l2.Positions[id] != p {
			t.Errorf("%v moved from %v to %v", id, p, l2.Positions[id])
		}
	}
}

func TestSpanOverlaps(t *testing.T) {
	a := Span{Left: 0, Right: 10}
	tests := []struct {
		b    Span
		want bool
	}{
		{Span{Left: 10, Right: 20}, false},
		{Span{Left: 9, Right: 20}, true},
		{Span{Left: -5, Right: 0}, false},
		{Span{Left: 2, Right: 3}, true},
	}
	for _, tt := range tests {
		if got := a.Overlaps(tt.b); got != tt.want {
			t.Errorf("%v.Overlaps(%v) = %v, want %v", a, tt.b, got, tt.want)
		}
	}
}

// =============================================================================
// Properties
// =============================================================================

// randomTree builds a tree where node i+1 hangs under parents[i] mod (i+1),
// grouping at a low threshold so groups show up in small trees.
func randomTree(parents []int, mask []bool) (*hierarchy.Visible, *hierarchy.Partitions) {
	nodes := map[string]ontology.Node{"n0": {Name: "n0", Children: []string{}}}
	for i, p := range parents {
		id := fmt.Sprintf("n%d", i+1)
		parent := fmt.Sprintf("n%d", p%(i+1))
		label := string(rune('a' + p%5))
		nodes[id] = ontology.Node{Name: id, Label: label, Children: []string{}}
		pn := nodes[parent]
		pn.Children = append(pn.Children, id)
		nodes[parent] = pn
	}
	reg := ontology.NewRegistry("n0", nodes)
	parts := hierarchy.NewPartitions(reg, 3)

	all := hierarchy.All(reg, parts).IDs()
	var expanded []hierarchy.ID
	for i, id := range all {
		if i < len(mask) && mask[i] {
			expanded = append(expanded, id)
		}
	}
	return hierarchy.Resolve(reg, hierarchy.NewExpansion(expanded...), parts), parts
}

func TestLayoutProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	treeGen := []gopter.Gen{
		gen.SliceOf(gen.IntRange(0, 1000)),
		gen.SliceOf(gen.Bool()),
	}

	properties.Property("sibling subtrees never overlap", prop.ForAll(
		func(parents []int, mask []bool) bool {
			v, _ := randomTree(parents, mask)
			l := Compute(v, DefaultConfig())
			for _, id := range v.Order() {
				kids := v.Children(id)
				for i := 1; i < len(kids); i++ {
					if l.Spans[kids[i-1]].Overlaps(l.Spans[kids[i]]) {
						return false
					}
				}
			}
			return true
		},
		treeGen...,
	))

	properties.Property("node sits at the midpoint of its span", prop.ForAll(
		func(parents []int, mask []bool) bool {
			v, _ := randomTree(parents, mask)
			l := Compute(v, DefaultConfig())
			for id, p := range l.Positions {
				if math.Abs(p.X-l.Spans[id].Center()) > eps {
					return false
				}
			}
			return true
		},
		treeGen...,
	))

	properties.Property("children spans nest inside the parent span", prop.ForAll(
		func(parents []int, mask []bool) bool {
			v, _ := randomTree(parents, mask)
			l := Compute(v, DefaultConfig())
			for _, id := range v.Order() {
				ps := l.Spans[id]
				for _, kid := range v.Children(id) {
					ks := l.Spans[kid]
					if ks.Left < ps.Left-eps || ks.Right > ps.Right+eps {
						return false
					}
				}
			}
			return true
		},
		treeGen...,
	))

	properties.Property("y is determined by visible depth", prop.ForAll(
		func(parents []int, mask []bool) bool {
			v, _ := randomTree(parents, mask)
			cfg := DefaultConfig()
			l := Compute(v, cfg)
			for _, id := range v.Order() {
				want := float64(v.Depth(id)) * cfg.VerticalSpacing
				if math.Abs(l.Positions[id].Y-want) > eps {
					return false
				}
			}
			return len(l.Positions) == v.Len()
		},
		treeGen...,
	))

	properties.TestingRun(t)
}
