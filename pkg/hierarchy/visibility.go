package hierarchy

import (
	"strconv"

	"github.com/matzehuels/ontoview/pkg/ontology"
)

// Group is a visible synthetic group.
type Group struct {
	ID      ID
	Parent  string
	Key     GroupKey
	Members []string
}

// Label returns the display label "<key> (<count>)".
func (g Group) Label() string {
	return string(g.Key) + " (" + strconv.Itoa(len(g.Members)) + ")"
}

// Visible is the visible projection of a registry under one expansion state.
//
// Every visible id except the root has exactly one visible parent: the id it
// was first reached from during the breadth-first walk. A class listed under
// several expanded parents therefore appears once, under the parent that is
// closest to the root. The projection is always a tree.
type Visible struct {
	root     ID
	order    []ID
	set      map[ID]bool
	groups   map[ID]Group
	parent   map[ID]ID
	children map[ID][]ID
}

// Resolve walks the registry breadth-first from its root and returns what is
// visible under exp.
//
// An id that is not expanded contributes no children, whatever the state of
// its descendants. An expanded class with grouped children contributes one
// group per bucket; a group contributes its members only when it is expanded
// itself. Children missing from the registry are skipped. A root that is
// missing from the registry yields an empty projection.
func Resolve(reg *ontology.Registry, exp Expansion, parts *Partitions) *Visible {
	v := &Visible{
		set:      make(map[ID]bool),
		groups:   make(map[ID]Group),
		parent:   make(map[ID]ID),
		children: make(map[ID][]ID),
	}
	if !reg.Has(reg.Root()) {
		return v
	}
	v.root = NodeID(reg.Root())

	queued := map[ID]bool{v.root: true}
	queue := []ID{v.root}
	enqueue := func(from, to ID) {
		if queued[to] {
			return
		}
		queued[to] = true
		v.parent[to] = from
		v.children[from] = append(v.children[from], to)
		queue = append(queue, to)
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if v.set[id] {
			continue
		}
		v.set[id] = true
		v.order = append(v.order, id)

		if !exp.Has(id) {
			continue
		}

		if id.IsGroup() {
			g := v.groups[id]
			for _, m := range g.Members {
				enqueue(id, NodeID(m))
			}
			continue
		}

		if buckets := parts.For(id.Node); buckets != nil {
			for _, b := range buckets {
				gid := GroupID(id.Node, b.Key)
				v.groups[gid] = Group{ID: gid, Parent: id.Node, Key: b.Key, Members: b.Members}
				enqueue(id, gid)
			}
			continue
		}

		for _, child := range reg.Children(id.Node) {
			if reg.Has(child) {
				enqueue(id, NodeID(child))
			}
		}
	}
	return v
}

// Root returns the root id, or the zero ID for an empty projection.
func (v *Visible) Root() ID { return v.root }

// Len returns the number of visible ids.
func (v *Visible) Len() int { return len(v.order) }

// Empty reports whether nothing is visible.
func (v *Visible) Empty() bool { return len(v.order) == 0 }

// Has reports whether id is visible.
func (v *Visible) Has(id ID) bool { return v.set[id] }

// HasNode reports whether the class id is visible.
func (v *Visible) HasNode(id string) bool { return v.set[NodeID(id)] }

// Order returns the visible ids in breadth-first order, root first.
func (v *Visible) Order() []ID { return v.order }

// Parent returns the visible parent of id. The root has none.
func (v *Visible) Parent(id ID) (ID, bool) {
	p, ok := v.parent[id]
	return p, ok
}

// Children returns the visible children of id in display order: the
// registry's children order for classes, bucket order for groups.
func (v *Visible) Children(id ID) []ID { return v.children[id] }

// Group returns the visible group with the given id.
func (v *Visible) Group(id ID) (Group, bool) {
	g, ok := v.groups[id]
	return g, ok
}

// Groups returns the number of visible groups.
func (v *Visible) Groups() int { return len(v.groups) }

// Depth returns the number of visible ancestors of id; the root is at 0.
func (v *Visible) Depth(id ID) int {
	d := 0
	for {
		p, ok := v.parent[id]
		if !ok {
			return d
		}
		d++
		id = p
	}
}
