package hierarchy

import (
	"fmt"
	"strings"
)

// Kind tells real classes and synthetic groups apart.
type Kind uint8

const (
	KindNode Kind = iota
	KindGroup
)

const groupPrefix = "group:"

// ID identifies an entry in the expansion state or the visible set.
//
// For KindNode, Node is the class id and Key is empty. For KindGroup, Node is
// the id of the class whose children were grouped and Key is the bucket.
// ID is comparable and is used directly as a map key.
type ID struct {
	Kind Kind
	Node string
	Key  GroupKey
}

// NodeID returns the ID of a real class.
func NodeID(id string) ID { return ID{Kind: KindNode, Node: id} }

// GroupID returns the ID of the group with the given key under parent.
func GroupID(parent string, key GroupKey) ID {
	return ID{Kind: KindGroup, Node: parent, Key: key}
}

// IsGroup reports whether id names a synthetic group.
func (id ID) IsGroup() bool { return id.Kind == KindGroup }

// String renders node ids as-is and groups as group:<parent>:<key>.
func (id ID) String() string {
	if id.IsGroup() {
		return groupPrefix + id.Node + ":" + string(id.Key)
	}
	return id.Node
}

// MarshalText implements encoding.TextMarshaler so IDs can key JSON maps.
func (id ID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(b []byte) error {
	parsed, err := ParseID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseID is the inverse of [ID.String]. A string is read as a group only if
// it has the group prefix and ends in a valid group key; anything else is a
// plain class id.
func ParseID(s string) (ID, error) {
	if s == "" {
		return ID{}, fmt.Errorf("empty id")
	}
	rest, ok := strings.CutPrefix(s, groupPrefix)
	if !ok {
		return NodeID(s), nil
	}
	i := strings.LastIndexByte(rest, ':')
	if i <= 0 {
		return NodeID(s), nil
	}
	key := GroupKey(rest[i+1:])
	if !key.Valid() {
		return NodeID(s), nil
	}
	return GroupID(rest[:i], key), nil
}
