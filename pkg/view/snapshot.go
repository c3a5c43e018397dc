package view

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/matzehuels/ontoview/pkg/hierarchy"
	"github.com/matzehuels/ontoview/pkg/hierarchy/layout"
	"github.com/matzehuels/ontoview/pkg/ontology"
)

// =============================================================================
// Snapshot - Render-ready View Model
// =============================================================================

// NodeView is one drawable node or group.
type NodeView struct {
	ID            hierarchy.ID `json:"id"`
	X             float64      `json:"x"`
	Y             float64      `json:"y"`
	Label         string       `json:"label"`
	Comment       string       `json:"comment,omitempty"`
	Depth         int          `json:"depth"`
	ChildCount    int          `json:"child_count"`
	IsGroup       bool         `json:"is_group,omitempty"`
	IsSelected    bool         `json:"is_selected,omitempty"`
	IsHighlighted bool         `json:"is_highlighted,omitempty"`
	IsExpanded    bool         `json:"is_expanded,omitempty"`
	HasMore       bool         `json:"has_more,omitempty"`
}

// EdgeView connects a visible node to its visible parent.
type EdgeView struct {
	From        hierarchy.ID `json:"from"`
	To          hierarchy.ID `json:"to"`
	Highlighted bool         `json:"highlighted,omitempty"`
}

// Snapshot is the complete drawable state of a view.
//
// Nodes are in breadth-first order from the root; edges follow their parent
// in that order and then child order. Depth is the row in the visible tree.
type Snapshot struct {
	Root       string        `json:"root"`
	Selected   string        `json:"selected,omitempty"`
	Nodes      []NodeView    `json:"nodes"`
	Edges      []EdgeView    `json:"edges"`
	Bounds     layout.Bounds `json:"bounds"`
	Layout     layout.Config `json:"layout"`
	Truncated  bool          `json:"truncated,omitempty"`
	TotalNodes int           `json:"total_nodes"`
}

// Node returns the view of id.
func (s Snapshot) Node(id hierarchy.ID) (NodeView, bool) {
	i := slices.IndexFunc(s.Nodes, func(n NodeView) bool { return n.ID == id })
	if i < 0 {
		return NodeView{}, false
	}
	return s.Nodes[i], true
}

// VisibleIDs returns the string form of every node id in snapshot order.
func (s Snapshot) VisibleIDs() []string {
	out := make([]string, len(s.Nodes))
	for i, n := range s.Nodes {
		out[i] = n.ID.String()
	}
	return out
}

// Empty reports whether nothing is drawn.
func (s Snapshot) Empty() bool { return len(s.Nodes) == 0 }

// =============================================================================
// Derivation
// =============================================================================

// State is the input of one derivation.
type State struct {
	Registry    *ontology.Registry
	Partitions  *hierarchy.Partitions
	Expansion   hierarchy.Expansion
	Selected    string
	Highlighted []string
	Layout      layout.Config
}

// Derive computes the snapshot of s. It is a pure function of its input.
// A nil Partitions disables grouping.
func Derive(s State) Snapshot {
	v := hierarchy.Resolve(s.Registry, s.Expansion, s.Partitions)
	l := layout.Compute(v, s.Layout)

	onPath := make(map[string]bool, len(s.Highlighted))
	for _, id := range s.Highlighted {
		onPath[id] = true
	}
	highlighted := func(id hierarchy.ID) bool {
		if !id.IsGroup() {
			return onPath[id.Node]
		}
		if !onPath[id.Node] {
			return false
		}
		g, _ := v.Group(id)
		return slices.ContainsFunc(g.Members, func(m string) bool { return onPath[m] })
	}

	snap := Snapshot{
		Root:       s.Registry.Root(),
		Selected:   s.Selected,
		Nodes:      make([]NodeView, 0, v.Len()),
		Edges:      make([]EdgeView, 0, max(v.Len()-1, 0)),
		Bounds:     l.Bounds(),
		Layout:     l.Config,
		Truncated:  s.Registry.Truncated(),
		TotalNodes: s.Registry.TotalNodes(),
	}

	depth := make(map[hierarchy.ID]int, v.Len())
	lit := make(map[hierarchy.ID]bool, v.Len())
	for _, id := range v.Order() {
		if p, ok := v.Parent(id); ok {
			depth[id] = depth[p] + 1
		}
		lit[id] = highlighted(id)

		pos := l.Positions[id]
		nv := NodeView{
			ID:            id,
			X:             pos.X,
			Y:             pos.Y,
			Depth:         depth[id],
			IsGroup:       id.IsGroup(),
			IsHighlighted: lit[id],
			IsExpanded:    s.Expansion.Has(id),
		}
		if id.IsGroup() {
			g, _ := v.Group(id)
			nv.Label = g.Label()
			nv.ChildCount = len(g.Members)
		} else {
			n, _ := s.Registry.Node(id.Node)
			nv.Label = n.DisplayLabel()
			nv.Comment = n.Comment
			nv.ChildCount = len(n.Children)
			nv.HasMore = n.HasMore
			nv.IsSelected = s.Selected != "" && id.Node == s.Selected
		}
		snap.Nodes = append(snap.Nodes, nv)
	}

	for _, id := range v.Order() {
		for _, kid := range v.Children(id) {
			snap.Edges = append(snap.Edges, EdgeView{
				From:        id,
				To:          kid,
				Highlighted: lit[id] && lit[kid],
			})
		}
	}
	return snap
}

// =============================================================================
// Snapshot Serialization API
// =============================================================================

// MarshalSnapshot serializes a snapshot to pretty-printed JSON bytes.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalSnapshot deserializes JSON bytes into a snapshot. Every edge must
// connect nodes present in the snapshot.
//
// IDs are stored as strings, so a class whose id looks like a group id would
// decode as a group. Node IDs are re-tagged from IsGroup and edges are
// resolved through the nodes.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	ids := make(map[string]hierarchy.ID, len(s.Nodes))
	for i, n := range s.Nodes {
		if !n.IsGroup && n.ID.IsGroup() {
			s.Nodes[i].ID = hierarchy.NodeID(n.ID.String())
		}
		ids[n.ID.String()] = s.Nodes[i].ID
	}
	for i, e := range s.Edges {
		from, okFrom := ids[e.From.String()]
		to, okTo := ids[e.To.String()]
		if !okFrom || !okTo {
			return Snapshot{}, fmt.Errorf("edge %s -> %s references unknown node", e.From, e.To)
		}
		s.Edges[i].From, s.Edges[i].To = from, to
	}
	return s, nil
}

// WriteSnapshotFile writes a snapshot to a JSON file.
func WriteSnapshotFile(s Snapshot, path string) error {
	data, err := MarshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadSnapshotFile reads a snapshot from a JSON file.
func ReadSnapshotFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalSnapshot(data)
}
