package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/ontoview/pkg/buildinfo"
	"github.com/matzehuels/ontoview/pkg/hierarchy"
	"github.com/matzehuels/ontoview/pkg/ontology"
	"github.com/matzehuels/ontoview/pkg/view"
)

// Tree styles
var (
	treeCursorStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	treeNormalStyle      = lipgloss.NewStyle().Foreground(colorWhite)
	treeGroupStyle       = lipgloss.NewStyle().Foreground(colorGray).Italic(true)
	treeHighlightedStyle = lipgloss.NewStyle().Foreground(colorYellow)
	treeSelectedStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	treeDimStyle         = lipgloss.NewStyle().Foreground(colorDim)
	treeErrorStyle       = lipgloss.NewStyle().Foreground(colorRed)
)

const searchResultLimit = 10

// =============================================================================
// Key Bindings
// =============================================================================

type browseKeys struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	Expand      key.Binding
	Collapse    key.Binding
	Select      key.Binding
	Search      key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Depth       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var defaultBrowseKeys = browseKeys{
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:      key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle")),
	Expand:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
	Collapse:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse/parent")),
	Select:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	ExpandAll:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand all")),
	CollapseAll: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "collapse all")),
	Depth:       key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "expand to depth")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k browseKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Select, k.Search, k.Help, k.Quit}
}

func (k browseKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Expand, k.Collapse},
		{k.Toggle, k.Select, k.Search},
		{k.ExpandAll, k.CollapseAll, k.Depth},
		{k.Help, k.Quit},
	}
}

// =============================================================================
// Lazy Loading
// =============================================================================

// SubtreeLoader fetches the hierarchy below a class on demand.
type SubtreeLoader interface {
	LoadSubtree(ctx context.Context, id string, depth int) (*ontology.Registry, error)
}

// registryLoader serves subtrees from a registry held in memory.
type registryLoader struct {
	reg *ontology.Registry
}

func (l registryLoader) LoadSubtree(_ context.Context, id string, depth int) (*ontology.Registry, error) {
	if !l.reg.Has(id) {
		return nil, fmt.Errorf("class %q not found", id)
	}
	return l.reg.Subtree(id, depth), nil
}

// subtreeLoadedMsg carries the result of a lazy load back to Update.
type subtreeLoadedMsg struct {
	id  string
	reg *ontology.Registry
	err error
}

// =============================================================================
// BrowserModel - Interactive hierarchy browser
// =============================================================================

// treeRow is one line of the tree: a visible node and its indentation.
type treeRow struct {
	Node   view.NodeView
	Parent hierarchy.ID
	Indent int
}

// BrowserModel is the bubbletea model for interactively exploring a
// hierarchy. All state changes go through the view controller; the model
// only flattens the controller's snapshot into rows.
type BrowserModel struct {
	ctrl    *view.Controller
	loader  SubtreeLoader
	chunk   int
	loading map[string]bool

	rows   []treeRow
	cursor int
	offset int
	height int

	searching bool
	input     textinput.Model
	results   []ontology.SearchResult
	resultIdx int

	keys   browseKeys
	help   help.Model
	status string
	err    error
}

// NewBrowserModel creates a browser over ctrl. When loader is non-nil,
// expanding a class whose children were cut off fetches chunk more levels
// below it.
func NewBrowserModel(ctrl *view.Controller, loader SubtreeLoader, chunk int) BrowserModel {
	ti := textinput.New()
	ti.Placeholder = "class name or label"
	ti.Prompt = "/ "
	ti.CharLimit = 120
	ti.Width = 40

	m := BrowserModel{
		ctrl:    ctrl,
		loader:  loader,
		chunk:   chunk,
		loading: make(map[string]bool),
		height:  20,
		input:   ti,
		keys:    defaultBrowseKeys,
		help:    help.New(),
	}
	m.refresh()
	if sel, ok := ctrl.Selected(); ok {
		m.moveTo(hierarchy.NodeID(sel))
	}
	return m
}

// Cursor returns the id under the cursor.
func (m BrowserModel) Cursor() (hierarchy.ID, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return hierarchy.ID{}, false
	}
	return m.rows[m.cursor].Node.ID, true
}

func (m BrowserModel) Init() tea.Cmd {
	return nil
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
		m.help.Width = msg.Width
		m.scroll()
		return m, nil

	case subtreeLoadedMsg:
		delete(m.loading, msg.id)
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.ctrl.SetRegistry(m.ctrl.Registry().Merge(msg.reg))
		m.ctrl.Expand(hierarchy.NodeID(msg.id))
		m.status = fmt.Sprintf("loaded %d classes below %s", msg.reg.Len(), m.label(msg.id))
		m.refreshKeep()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateTree(msg)
	}
	return m, nil
}

func (m BrowserModel) updateTree(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	id, ok := m.Cursor()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.scroll()
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.scroll()
		}
	case key.Matches(msg, m.keys.Toggle):
		if ok {
			cmd := m.toggle(id)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Expand):
		if ok && !m.rows[m.cursor].Node.IsExpanded {
			cmd := m.toggle(id)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Collapse):
		if !ok {
			break
		}
		row := m.rows[m.cursor]
		if row.Node.IsExpanded && id != m.rootID() {
			m.ctrl.Toggle(id)
			m.refreshKeep()
		} else if m.cursor > 0 {
			m.moveTo(row.Parent)
		}
	case key.Matches(msg, m.keys.Select):
		if ok && !id.IsGroup() {
			m.ctrl.Select(id.Node)
			m.ctrl.SetHighlightedPath(m.ctrl.PathToRoot(id.Node))
			m.refreshKeep()
		}
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.input.SetValue("")
		m.results = nil
		m.resultIdx = 0
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.ExpandAll):
		m.ctrl.ExpandAll()
		m.refreshKeep()
	case key.Matches(msg, m.keys.CollapseAll):
		m.ctrl.CollapseAll()
		m.refreshKeep()
	case key.Matches(msg, m.keys.Depth):
		m.ctrl.ExpandToDepth(int(msg.String()[0] - '0'))
		m.refreshKeep()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m BrowserModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.searching = false
		m.input.Blur()
		return m, nil
	case tea.KeyUp:
		if m.resultIdx > 0 {
			m.resultIdx--
		}
		return m, nil
	case tea.KeyDown:
		if m.resultIdx < len(m.results)-1 {
			m.resultIdx++
		}
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.input.Blur()
		if len(m.results) == 0 {
			return m, nil
		}
		m.reveal(m.results[m.resultIdx].ID)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.results = m.ctrl.Search(m.input.Value(), searchResultLimit)
	m.resultIdx = 0
	return m, cmd
}

// toggle flips id. Expanding a class whose children were cut off starts a
// lazy load instead; the class is expanded once the load completes.
func (m *BrowserModel) toggle(id hierarchy.ID) tea.Cmd {
	row := m.rows[m.cursor]
	if !id.IsGroup() && row.Node.HasMore && !row.Node.IsExpanded && m.loader != nil {
		if m.loading[id.Node] {
			return nil
		}
		m.loading[id.Node] = true
		m.status = "loading " + row.Node.Label + "…"
		return m.load(id.Node)
	}
	m.ctrl.Toggle(id)
	m.refreshKeep()
	return nil
}

func (m *BrowserModel) load(id string) tea.Cmd {
	loader, depth := m.loader, m.chunk
	return func() tea.Msg {
		reg, err := loader.LoadSubtree(context.Background(), id, depth)
		return subtreeLoadedMsg{id: id, reg: reg, err: err}
	}
}

// reveal expands the path to id, selects it, highlights the path and moves
// the cursor onto it.
func (m *BrowserModel) reveal(id string) {
	if !m.ctrl.Reveal(id) {
		m.err = fmt.Errorf("%s is not reachable from the root", id)
		return
	}
	m.ctrl.SetHighlightedPath(m.ctrl.PathToRoot(id))
	m.refresh()
	m.moveTo(hierarchy.NodeID(id))
}

// =============================================================================
// Row Management
// =============================================================================

// refresh rebuilds the rows from the controller's snapshot in depth-first
// order, following edge order among siblings.
func (m *BrowserModel) refresh() {
	snap := m.ctrl.Snapshot()
	m.rows = nil
	if snap.Empty() {
		m.cursor = 0
		return
	}

	nodes := make(map[hierarchy.ID]view.NodeView, len(snap.Nodes))
	for _, n := range snap.Nodes {
		nodes[n.ID] = n
	}
	kids := make(map[hierarchy.ID][]hierarchy.ID)
	for _, e := range snap.Edges {
		kids[e.From] = append(kids[e.From], e.To)
	}

	var walk func(id, parent hierarchy.ID, indent int)
	walk = func(id, parent hierarchy.ID, indent int) {
		m.rows = append(m.rows, treeRow{Node: nodes[id], Parent: parent, Indent: indent})
		for _, kid := range kids[id] {
			walk(kid, id, indent+1)
		}
	}
	root := snap.Nodes[0].ID
	walk(root, root, 0)

	m.cursor = min(m.cursor, len(m.rows)-1)
	m.scroll()
}

// refreshKeep rebuilds the rows and keeps the cursor on the same id when it
// is still visible.
func (m *BrowserModel) refreshKeep() {
	id, ok := m.Cursor()
	m.refresh()
	if ok {
		m.moveTo(id)
	}
}

func (m *BrowserModel) moveTo(id hierarchy.ID) {
	for i, r := range m.rows {
		if r.Node.ID == id {
			m.cursor = i
			m.scroll()
			return
		}
	}
}

func (m *BrowserModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	m.offset = max(0, min(m.offset, len(m.rows)-1))
}

func (m BrowserModel) rootID() hierarchy.ID {
	return hierarchy.NodeID(m.ctrl.Registry().Root())
}

func (m BrowserModel) label(id string) string {
	if n, ok := m.ctrl.Registry().Node(id); ok {
		return n.DisplayLabel()
	}
	return id
}

// =============================================================================
// Rendering
// =============================================================================

func (m BrowserModel) View() string {
	var b strings.Builder

	reg := m.ctrl.Registry()
	b.WriteString(StyleTitle.Render(appName) + " " + treeDimStyle.Render(buildinfo.Short()))
	b.WriteString("  " + treeDimStyle.Render(fmt.Sprintf("%d/%d classes · %d visible", reg.Len(), reg.TotalNodes(), len(m.rows))))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(treeDimStyle.Render("  (empty hierarchy)"))
		b.WriteString("\n")
	}
	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m BrowserModel) renderRow(i int) string {
	r := m.rows[i]
	n := r.Node

	marker := "·"
	switch {
	case m.loading[n.ID.Node] && !n.IsGroup:
		marker = "…"
	case n.IsExpanded && (n.ChildCount > 0 || n.IsGroup):
		marker = "▾"
	case n.ChildCount > 0 || n.HasMore || n.IsGroup:
		marker = "▸"
	}

	label := n.Label
	if !n.IsGroup && n.ChildCount > 0 && !n.IsExpanded {
		label += fmt.Sprintf(" (%d)", n.ChildCount)
	}
	if n.HasMore {
		label += " +"
	}

	style := treeNormalStyle
	switch {
	case n.IsSelected:
		style = treeSelectedStyle
	case n.IsHighlighted:
		style = treeHighlightedStyle
	case n.IsGroup:
		style = treeGroupStyle
	}

	cursor := "  "
	if i == m.cursor {
		cursor = treeCursorStyle.Render("> ")
	}
	return cursor + strings.Repeat("  ", r.Indent) + treeDimStyle.Render(marker) + " " + style.Render(label)
}

func (m BrowserModel) renderFooter() string {
	var b strings.Builder

	if m.searching {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		for i, r := range m.results {
			line := "  " + r.DisplayLabel() + "  " + treeDimStyle.Render(r.ID)
			if i == m.resultIdx {
				line = treeCursorStyle.Render("> ") + r.DisplayLabel() + "  " + treeDimStyle.Render(r.ID)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		if m.input.Value() != "" && len(m.results) == 0 {
			b.WriteString(treeDimStyle.Render("  no matches"))
			b.WriteString("\n")
		}
		return b.String()
	}

	if id, ok := m.Cursor(); ok && !id.IsGroup() {
		if n, ok := m.ctrl.Registry().Node(id.Node); ok {
			b.WriteString(treeDimStyle.Render(n.URL))
			b.WriteString("\n")
			if n.Comment != "" {
				b.WriteString(treeDimStyle.Render(truncate(n.Comment, 100)))
				b.WriteString("\n")
			}
		}
	}
	switch {
	case m.err != nil:
		b.WriteString(treeErrorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(treeDimStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
