package cli

import (
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/ontoview/pkg/hierarchy"
	"github.com/matzehuels/ontoview/pkg/ontology"
	"github.com/matzehuels/ontoview/pkg/view"
)

// animals is A → [B, C], C → [D].
func animals() *ontology.Registry {
	return ontology.NewRegistry("A", map[string]ontology.Node{
		"A": {Name: "A", Label: "Animal", Children: []string{"B", "C"}},
		"B": {Name: "B", Label: "Bird", Depth: 1},
		"C": {Name: "C", Label: "Cat", Children: []string{"D"}, Depth: 1},
		"D": {Name: "D", Label: "Dander", Depth: 2},
	})
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

// press feeds msgs to m in order and returns the resulting model and the
// last command.
func press(t *testing.T, m BrowserModel, msgs ...tea.Msg) (BrowserModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(BrowserModel)
	}
	return m, cmd
}

func rowIDs(m BrowserModel) []string {
	ids := make([]string, len(m.rows))
	for i, r := range m.rows {
		ids[i] = r.Node.ID.String()
	}
	return ids
}

func cursorID(t *testing.T, m BrowserModel) string {
	t.Helper()
	id, ok := m.Cursor()
	if !ok {
		t.Fatal("no cursor")
	}
	return id.String()
}

func TestBrowserRows(t *testing.T) {
	m := NewBrowserModel(view.New(animals()), nil, 0)

	if got, want := rowIDs(m), []string{"A", "B", "C"}; !slices.Equal(got, want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	if m.rows[1].Indent != 1 || m.rows[1].Parent != hierarchy.NodeID("A") {
		t.Errorf("row B = %+v, want indent 1 under A", m.rows[1])
	}
}

func TestBrowserToggleAndCollapse(t *testing.T) {
	m := NewBrowserModel(view.New(animals()), nil, 0)

	m, _ = press(t, m, runes("j"), runes("j"), keySpace)
	if got, want := rowIDs(m), []string{"A", "B", "C", "D"}; !slices.Equal(got, want) {
		t.Fatalf("after expanding C rows = %v, want %v", got, want)
	}
	if cursorID(t, m) != "C" {
		t.Errorf("cursor = %s, want C to stay put", cursorID(t, m))
	}

	m, _ = press(t, m, runes("j"), keyLeft)
	if cursorID(t, m) != "C" {
		t.Errorf("left on a leaf should move to its parent, cursor = %s", cursorID(t, m))
	}

	m, _ = press(t, m, keyLeft)
	if got, want := rowIDs(m), []string{"A", "B", "C"}; !slices.Equal(got, want) {
		t.Errorf("left on an expanded class should collapse it, rows = %v", got)
	}
}

func TestBrowserCursorBounds(t *testing.T) {
	m := NewBrowserModel(view.New(animals()), nil, 0)

	m, _ = press(t, m, runes("k"))
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0 at the top", m.cursor)
	}
	m, _ = press(t, m, runes("j"), runes("j"), runes("j"), runes("j"))
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2 at the bottom", m.cursor)
	}
}

func TestBrowserExpandAllCollapseAllDepth(t *testing.T) {
	m := NewBrowserModel(view.New(animals()), nil, 0)

	m, _ = press(t, m, runes("e"))
	if len(m.rows) != 4 {
		t.Errorf("expand all: %d rows, want 4", len(m.rows))
	}
	m, _ = press(t, m, runes("c"))
	if len(m.rows) != 3 {
		t.Errorf("collapse all: %d rows, want 3", len(m.rows))
	}
	m, _ = press(t, m, runes("2"))
	if len(m.rows) != 4 {
		t.Errorf("depth 2: %d rows, want 4", len(m.rows))
	}
}

func TestBrowserSelect(t *testing.T) {
	ctrl := view.New(animals())
	m := NewBrowserModel(ctrl, nil, 0)

	m, _ = press(t, m, runes("j"), keyEnter)
	if sel, _ := ctrl.Selected(); sel != "B" {
		t.Errorf("selected = %q, want B", sel)
	}
	if got := ctrl.HighlightedPath(); !slices.Equal(got, []string{"A", "B"}) {
		t.Errorf("highlighted = %v, want [A B]", got)
	}
	if !m.rows[1].Node.IsSelected {
		t.Error("row B should render as selected")
	}
}

func TestBrowserSearchReveal(t *testing.T) {
	ctrl := view.New(animals())
	m := NewBrowserModel(ctrl, nil, 0)

	m, _ = press(t, m, runes("/"))
	if !m.searching {
		t.Fatal("/ should start searching")
	}
	m, _ = press(t, m, runes("d"), runes("a"))
	if len(m.results) != 1 || m.results[0].ID != "D" {
		t.Fatalf("results = %+v, want only D", m.results)
	}

	m, _ = press(t, m, keyEnter)
	if m.searching {
		t.Error("enter should end searching")
	}
	if cursorID(t, m) != "D" {
		t.Errorf("cursor = %s, want the revealed class", cursorID(t, m))
	}
	if sel, _ := ctrl.Selected(); sel != "D" {
		t.Errorf("selected = %q, want D", sel)
	}
	if got := ctrl.HighlightedPath(); !slices.Equal(got, []string{"A", "C", "D"}) {
		t.Errorf("highlighted = %v, want [A C D]", got)
	}
}

func TestBrowserSearchCancel(t *testing.T) {
	m := NewBrowserModel(view.New(animals()), nil, 0)

	m, _ = press(t, m, runes("/"), runes("d"), keyEsc)
	if m.searching {
		t.Error("esc should end searching")
	}
	if len(m.rows) != 3 {
		t.Errorf("cancelled search changed the tree: %v", rowIDs(m))
	}
}

func TestBrowserGroups(t *testing.T) {
	reg := ontology.NewRegistry("R", map[string]ontology.Node{
		"R":  {Name: "R", Children: []string{"a1", "b1", "b2"}},
		"a1": {Name: "a1", Label: "Alpha", Depth: 1},
		"b1": {Name: "b1", Label: "Beta", Depth: 1},
		"b2": {Name: "b2", Label: "Bravo", Depth: 1},
	})
	m := NewBrowserModel(view.New(reg, view.WithGroupThreshold(2)), nil, 0)

	if len(m.rows) != 3 || !m.rows[1].Node.IsGroup || !m.rows[2].Node.IsGroup {
		t.Fatalf("rows = %v, want the root and two groups", rowIDs(m))
	}

	m, _ = press(t, m, runes("j"), runes("j"), keySpace)
	if got, want := rowIDs(m), []string{"R", "group:R:A", "group:R:B", "b1", "b2"}; !slices.Equal(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
}

func TestBrowserLazyLoad(t *testing.T) {
	full := ontology.NewRegistry("A", map[string]ontology.Node{
		"A": {Name: "A", Children: []string{"B"}},
		"B": {Name: "B", Children: []string{"C"}, Depth: 1},
		"C": {Name: "C", Children: []string{"D"}, Depth: 2},
		"D": {Name: "D", Depth: 3},
	})
	ctrl := view.New(full.Subtree("A", 1))
	m := NewBrowserModel(ctrl, registryLoader{reg: full}, 1)

	if !m.rows[1].Node.HasMore {
		t.Fatalf("B should be cut off, rows = %+v", m.rows)
	}

	m, cmd := press(t, m, runes("j"), keySpace)
	if cmd == nil {
		t.Fatal("expanding a cut-off class should start a load")
	}
	if !m.loading["B"] {
		t.Error("B should be marked loading")
	}

	m, _ = press(t, m, cmd())
	if m.loading["B"] {
		t.Error("loading flag should clear once loaded")
	}
	if got, want := rowIDs(m), []string{"A", "B", "C"}; !slices.Equal(got, want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	if !ctrl.Registry().Has("C") || ctrl.Registry().Has("D") {
		t.Error("one more level should have been merged")
	}
	if !m.rows[2].Node.HasMore {
		t.Error("C should still be cut off")
	}
}

func TestBrowserLazyLoadError(t *testing.T) {
	m := NewBrowserModel(view.New(animals()), registryLoader{reg: animals()}, 1)

	m, _ = press(t, m, subtreeLoadedMsg{id: "X", err: errTest})
	if m.err == nil {
		t.Fatal("load error should be kept for display")
	}
	if !strings.Contains(m.View(), errTest.Error()) {
		t.Error("view should show the load error")
	}
}

func TestBrowserView(t *testing.T) {
	m := NewBrowserModel(view.New(animals()), nil, 0)
	out := m.View()

	for _, want := range []string{appName, "Animal", "Bird", "Cat (1)"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestBrowserQuit(t *testing.T) {
	m := NewBrowserModel(view.New(animals()), nil, 0)
	if _, cmd := press(t, m, runes("q")); cmd == nil {
		t.Fatal("q should return a quit command")
	}
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("subtree unavailable")
