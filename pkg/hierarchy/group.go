package hierarchy

import (
	"slices"
	"unicode/utf8"

	"github.com/matzehuels/ontoview/pkg/ontology"
)

// DefaultGroupThreshold is the sibling count above which children are
// grouped by first letter.
const DefaultGroupThreshold = 15

// GroupKey is an alphabetic bucket: "#", "0-9" or a single letter A..Z.
// Plain string comparison orders keys "#" < "0-9" < "A" < ... < "Z".
type GroupKey string

// Special group keys.
const (
	KeyOther  GroupKey = "#"
	KeyDigits GroupKey = "0-9"
)

// KeyFor derives the group key of a display label from its first character.
// Only ASCII letters and digits get their own bucket.
func KeyFor(label string) GroupKey {
	r, _ := utf8.DecodeRuneInString(label)
	switch {
	case r >= '0' && r <= '9':
		return KeyDigits
	case r >= 'a' && r <= 'z':
		return GroupKey(string(r - 'a' + 'A'))
	case r >= 'A' && r <= 'Z':
		return GroupKey(string(r))
	default:
		return KeyOther
	}
}

// Valid reports whether k is one of the 28 group keys.
func (k GroupKey) Valid() bool {
	switch {
	case k == KeyOther, k == KeyDigits:
		return true
	case len(k) == 1:
		return k[0] >= 'A' && k[0] <= 'Z'
	default:
		return false
	}
}

// Bucket holds the children of one parent that share a group key, in the
// order they appear in the parent's children list.
type Bucket struct {
	Key     GroupKey
	Members []string
}

// Partition splits children into alphabetic buckets ordered by key.
//
// It returns nil when there are at most threshold children. Children absent
// from the registry are left out. A threshold <= 0 uses
// [DefaultGroupThreshold].
func Partition(children []string, reg *ontology.Registry, threshold int) []Bucket {
	if threshold <= 0 {
		threshold = DefaultGroupThreshold
	}
	if len(children) <= threshold {
		return nil
	}

	index := make(map[GroupKey]int)
	var buckets []Bucket
	for _, child := range children {
		n, ok := reg.Node(child)
		if !ok {
			continue
		}
		key := KeyFor(n.DisplayLabel())
		i, seen := index[key]
		if !seen {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{Key: key})
		}
		buckets[i].Members = append(buckets[i].Members, child)
	}

	slices.SortFunc(buckets, func(a, b Bucket) int {
		switch {
		case a.Key < b.Key:
			return -1
		case a.Key > b.Key:
			return 1
		}
		return 0
	})
	return buckets
}

// Partitions is the precomputed grouping of every class in one registry.
//
// It is built once per registry and shared by visibility, layout and the
// snapshot builder. A Partitions value is immutable.
type Partitions struct {
	reg       *ontology.Registry
	threshold int
	byParent  map[string][]Bucket
}

// NewPartitions partitions the children of every class in reg.
func NewPartitions(reg *ontology.Registry, threshold int) *Partitions {
	if threshold <= 0 {
		threshold = DefaultGroupThreshold
	}
	p := &Partitions{
		reg:       reg,
		threshold: threshold,
		byParent:  make(map[string][]Bucket),
	}
	for _, id := range reg.IDs() {
		if buckets := Partition(reg.Children(id), reg, threshold); buckets != nil {
			p.byParent[id] = buckets
		}
	}
	return p
}

// Registry returns the registry the partitions were computed from.
func (p *Partitions) Registry() *ontology.Registry {
	if p == nil {
		return nil
	}
	return p.reg
}

// Threshold returns the grouping threshold in effect.
func (p *Partitions) Threshold() int {
	if p == nil {
		return DefaultGroupThreshold
	}
	return p.threshold
}

// For returns the buckets of parent, or nil when its children are not
// grouped.
func (p *Partitions) For(parent string) []Bucket {
	if p == nil {
		return nil
	}
	return p.byParent[parent]
}

// Group returns the bucket behind a group id.
func (p *Partitions) Group(id ID) (Bucket, bool) {
	if !id.IsGroup() {
		return Bucket{}, false
	}
	for _, b := range p.For(id.Node) {
		if b.Key == id.Key {
			return b, true
		}
	}
	return Bucket{}, false
}

// Len returns the number of grouped parents.
func (p *Partitions) Len() int {
	if p == nil {
		return 0
	}
	return len(p.byParent)
}
