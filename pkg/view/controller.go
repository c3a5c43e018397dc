package view

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ontoview/pkg/hierarchy"
	"github.com/matzehuels/ontoview/pkg/hierarchy/layout"
	"github.com/matzehuels/ontoview/pkg/observability"
	"github.com/matzehuels/ontoview/pkg/ontology"
)

// Searcher finds classes by name or label. *ontology.Registry implements it.
type Searcher interface {
	Search(query string, limit int) []ontology.SearchResult
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger for state transitions. They are logged at debug
// level.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithOnSelect registers the callback fired when a class is selected.
func WithOnSelect(fn func(id string)) Option {
	return func(c *Controller) { c.onSelect = fn }
}

// WithOnChange registers the callback fired after every re-derivation.
func WithOnChange(fn func(Snapshot)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// WithHooks overrides the globally registered view hooks.
func WithHooks(h observability.ViewHooks) Option {
	return func(c *Controller) {
		if h != nil {
			c.hooks = h
		}
	}
}

// WithLayout sets the layout spacing.
func WithLayout(cfg layout.Config) Option {
	return func(c *Controller) { c.layout = cfg }
}

// WithGroupThreshold sets the sibling count above which children are
// grouped. Values <= 0 keep the default.
func WithGroupThreshold(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.threshold = n
		}
	}
}

// WithSearcher replaces the registry as the search backend.
func WithSearcher(s Searcher) Option {
	return func(c *Controller) { c.searcher = s }
}

// Controller is the interaction state machine of a hierarchy view.
//
// It owns the expansion state and the selection. Partitions and the parent
// index are derived once per registry; the snapshot is re-derived after
// every operation that changes state. Operations that leave the state as it
// was do not re-derive and do not fire callbacks.
type Controller struct {
	reg   *ontology.Registry
	parts *hierarchy.Partitions
	paths *hierarchy.PathResolver

	exp         hierarchy.Expansion
	selected    string
	highlighted []string
	snap        Snapshot

	threshold int
	layout    layout.Config
	searcher  Searcher
	logger    *log.Logger
	hooks     observability.ViewHooks
	onSelect  func(string)
	onChange  func(Snapshot)
}

// New creates a controller over reg with the root expanded.
func New(reg *ontology.Registry, opts ...Option) *Controller {
	c := &Controller{
		threshold: hierarchy.DefaultGroupThreshold,
		layout:    layout.DefaultConfig(),
		logger:    log.New(io.Discard),
		hooks:     observability.View(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.index(reg)
	c.exp = rootExpansion(reg)
	c.derive("init")
	return c
}

func rootExpansion(reg *ontology.Registry) hierarchy.Expansion {
	if reg.Root() == "" {
		return hierarchy.NewExpansion()
	}
	return hierarchy.NewExpansion(hierarchy.NodeID(reg.Root()))
}

func (c *Controller) index(reg *ontology.Registry) {
	c.reg = reg
	c.parts = hierarchy.NewPartitions(reg, c.threshold)
	c.paths = hierarchy.NewPathResolver(reg)
}

// =============================================================================
// Accessors
// =============================================================================

// Registry returns the current registry.
func (c *Controller) Registry() *ontology.Registry { return c.reg }

// Partitions returns the grouping of the current registry.
func (c *Controller) Partitions() *hierarchy.Partitions { return c.parts }

// Expansion returns the current expansion state.
func (c *Controller) Expansion() hierarchy.Expansion { return c.exp }

// Selected returns the selected class, if any.
func (c *Controller) Selected() (string, bool) { return c.selected, c.selected != "" }

// HighlightedPath returns the externally supplied highlighted path.
func (c *Controller) HighlightedPath() []string { return slices.Clone(c.highlighted) }

// Snapshot returns the view derived from the latest state.
func (c *Controller) Snapshot() Snapshot { return c.snap }

// PathToRoot returns the root-first path to id over the current registry.
func (c *Controller) PathToRoot(id string) []string { return c.paths.PathToRoot(id) }

// =============================================================================
// Expansion
// =============================================================================

// Toggle flips the expansion of a class or group.
func (c *Controller) Toggle(id hierarchy.ID) {
	c.setExpansion("toggle", c.exp.Toggle(id))
}

// Expand adds ids to the expansion. Ids already expanded are left as they
// are.
func (c *Controller) Expand(ids ...hierarchy.ID) {
	c.setExpansion("expand", c.exp.With(ids...))
}

// ExpandToDepth expands every class shallower than n that has children.
// The root stays expanded and groups are left collapsed.
func (c *Controller) ExpandToDepth(n int) {
	c.setExpansion("expand_to_depth", hierarchy.ToDepth(c.reg, n))
}

// ExpandAll expands every class with children and every group.
func (c *Controller) ExpandAll() {
	c.setExpansion("expand_all", hierarchy.All(c.reg, c.parts))
}

// CollapseAll collapses everything but the root.
func (c *Controller) CollapseAll() {
	c.setExpansion("collapse_all", rootExpansion(c.reg))
}

func (c *Controller) setExpansion(op string, exp hierarchy.Expansion) {
	if exp.Equal(c.exp) {
		return
	}
	c.exp = exp
	c.derive(op)
}

// =============================================================================
// Selection and Highlighting
// =============================================================================

// Select marks a class as selected and fires the select callback. The
// expansion is left unchanged, so the class may be selected while hidden.
// Unknown ids are ignored and false is returned.
func (c *Controller) Select(id string) bool {
	if !c.reg.Has(id) {
		return false
	}
	if id != c.selected {
		c.selected = id
		c.derive("select")
	}
	if c.onSelect != nil {
		c.onSelect(id)
	}
	return true
}

// ClearSelection removes the selection.
func (c *Controller) ClearSelection() {
	if c.selected == "" {
		return
	}
	c.selected = ""
	c.derive("clear_selection")
}

// SetHighlightedPath replaces the highlighted path. The path is only used
// for emphasis; it does not change the expansion.
func (c *Controller) SetHighlightedPath(path []string) {
	if slices.Equal(path, c.highlighted) {
		return
	}
	c.highlighted = slices.Clone(path)
	c.derive("highlight")
}

// Search runs query against the searcher, or the registry when none is set.
func (c *Controller) Search(query string, limit int) []ontology.SearchResult {
	if c.searcher != nil {
		return c.searcher.Search(query, limit)
	}
	return c.reg.Search(query, limit)
}

// Reveal expands every class on the path from the root to id, including
// any group the path passes through, and selects id. It returns false and
// leaves the state untouched when no path from the root exists, including
// for classes that are only reachable from a detached part of the registry.
func (c *Controller) Reveal(id string) bool {
	path := c.paths.PathToRoot(id)
	if len(path) == 0 || path[0] != c.reg.Root() {
		return false
	}
	exp := c.exp.With(hierarchy.RevealIDs(path, c.parts)...)
	changed := !exp.Equal(c.exp) || id != c.selected
	c.exp = exp
	c.selected = id
	if changed {
		c.derive("reveal")
	}
	if c.onSelect != nil {
		c.onSelect(id)
	}
	return true
}

// =============================================================================
// Registry Changes
// =============================================================================

// SetRegistry replaces the registry. When the root changes the expansion is
// reset to the new root and the selection is cleared. Otherwise the state is
// kept, which is how lazily merged subtrees keep the view in place; a
// selection that no longer resolves is dropped.
func (c *Controller) SetRegistry(reg *ontology.Registry) {
	if reg == c.reg {
		return
	}
	rootChanged := reg.Root() != c.reg.Root()
	c.index(reg)

	if rootChanged {
		c.exp = rootExpansion(reg)
		c.selected = ""
		c.derive("reset")
		return
	}
	if !reg.Has(c.selected) {
		c.selected = ""
	}
	c.derive("registry")
}

// =============================================================================
// Derivation
// =============================================================================

func (c *Controller) derive(op string) {
	start := time.Now()
	c.snap = Derive(State{
		Registry:    c.reg,
		Partitions:  c.parts,
		Expansion:   c.exp,
		Selected:    c.selected,
		Highlighted: c.highlighted,
		Layout:      c.layout,
	})
	took := time.Since(start)

	c.hooks.OnDerive(len(c.snap.Nodes), len(c.snap.Edges), took)
	c.logger.Debug("derived view",
		"op", op,
		"expanded", c.exp.Len(),
		"visible", len(c.snap.Nodes),
		"edges", len(c.snap.Edges),
		"duration", took)

	if c.onChange != nil {
		c.onChange(c.snap)
	}
}
