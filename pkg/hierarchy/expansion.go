package hierarchy

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/ontoview/pkg/ontology"
)

// Expansion is the set of ids whose children are shown.
//
// Expansion values are treated as immutable: mutating methods return a new
// set. This keeps snapshots of older states valid after the controller moves
// on.
type Expansion struct {
	ids map[ID]struct{}
}

// NewExpansion returns an expansion holding ids.
func NewExpansion(ids ...ID) Expansion {
	e := Expansion{ids: make(map[ID]struct{}, len(ids))}
	for _, id := range ids {
		e.ids[id] = struct{}{}
	}
	return e
}

// Has reports whether id is expanded.
func (e Expansion) Has(id ID) bool {
	_, ok := e.ids[id]
	return ok
}

// Len returns the number of expanded ids.
func (e Expansion) Len() int { return len(e.ids) }

// Toggle returns a copy with id's membership flipped.
func (e Expansion) Toggle(id ID) Expansion {
	out := e.clone()
	if _, ok := out.ids[id]; ok {
		delete(out.ids, id)
	} else {
		out.ids[id] = struct{}{}
	}
	return out
}

// With returns a copy that also holds ids.
func (e Expansion) With(ids ...ID) Expansion {
	out := e.clone()
	for _, id := range ids {
		out.ids[id] = struct{}{}
	}
	return out
}

// Equal reports whether both sets hold the same ids.
func (e Expansion) Equal(other Expansion) bool {
	return maps.Equal(e.ids, other.ids)
}

// IDs returns the expanded ids sorted by their string form.
func (e Expansion) IDs() []ID {
	ids := slices.Collect(maps.Keys(e.ids))
	slices.SortFunc(ids, func(a, b ID) int { return strings.Compare(a.String(), b.String()) })
	return ids
}

func (e Expansion) clone() Expansion {
	out := Expansion{ids: make(map[ID]struct{}, len(e.ids)+1)}
	maps.Copy(out.ids, e.ids)
	return out
}

// ToDepth returns the expansion holding every class with children whose
// depth is below n, plus root. Groups are never included.
func ToDepth(reg *ontology.Registry, n int) Expansion {
	e := NewExpansion()
	if root := reg.Root(); root != "" {
		e.ids[NodeID(root)] = struct{}{}
	}
	for _, id := range reg.IDs() {
		node, _ := reg.Node(id)
		if node.Depth < n && node.HasChildren() {
			e.ids[NodeID(id)] = struct{}{}
		}
	}
	return e
}

// All returns the expansion holding every class with children, every group
// in parts, and root.
func All(reg *ontology.Registry, parts *Partitions) Expansion {
	e := NewExpansion()
	if root := reg.Root(); root != "" {
		e.ids[NodeID(root)] = struct{}{}
	}
	for _, id := range reg.IDs() {
		if node, _ := reg.Node(id); node.HasChildren() {
			e.ids[NodeID(id)] = struct{}{}
		}
		for _, b := range parts.For(id) {
			e.ids[GroupID(id, b.Key)] = struct{}{}
		}
	}
	return e
}
