package hierarchy

import (
	"strings"
	"testing"
)

func TestKeyFor(t *testing.T) {
	tests := []struct {
		label string
		want  GroupKey
	}{
		{"Animal", "A"},
		{"animal", "A"},
		{"zebra", "Z"},
		{"3D Model", KeyDigits},
		{"0", KeyDigits},
		{"_private", KeyOther},
		{"Élan", KeyOther},
		{"", KeyOther},
		{" space", KeyOther},
	}
	for _, tt := range tests {
		if got := KeyFor(tt.label); got != tt.want {
			t.Errorf("KeyFor(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestGroupKeyValid(t *testing.T) {
	for _, k := range []GroupKey{"#", "0-9", "A", "Z"} {
		if !k.Valid() {
			t.Errorf("%q.Valid() = false", k)
		}
	}
	for _, k := range []GroupKey{"", "a", "AB", "1", "0-8"} {
		if k.Valid() {
			t.Errorf("%q.Valid() = true", k)
		}
	}
}

func TestPartitionThreshold(t *testing.T) {
	labels := strings.Split("b,a,c,d,e,f,g,h,i,j,k,l,m,n,o", ",")
	reg := wide(labels...)

	if got := Partition(reg.Children("root"), reg, DefaultGroupThreshold); got != nil {
		t.Errorf("15 children partitioned: %v", got)
	}

	reg = wide(append(labels, "p")...)
	got := Partition(reg.Children("root"), reg, DefaultGroupThreshold)
	if got == nil {
		t.Fatal("16 children not partitioned")
	}
	if len(got) != 16 {
		t.Errorf("got %d buckets, want 16", len(got))
	}
}

func TestPartitionOrderAndMembers(t *testing.T) {
	reg := wide("zeta", "Alpha", "9lives", "_x", "apple", "Beta", "3rd", "#tag",
		"zulu", "mike", "Mango", "beta2", "x", "y", "w", "v")

	buckets := Partition(reg.Children("root"), reg, 15)

	var keys []string
	total := 0
	for _, b := range buckets {
		keys = append(keys, string(b.Key))
		total += len(b.Members)
	}
	want := "#,0-9,A,B,M,V,W,X,Y,Z"
	if strings.Join(keys, ",") != want {
		t.Errorf("keys = %v, want %s", keys, want)
	}
	if total != 16 {
		t.Errorf("members = %d, want 16", total)
	}

	// encounter order within a bucket
	for _, b := range buckets {
		if b.Key == "A" && strings.Join(b.Members, ",") != "c1,c4" {
			t.Errorf("A members = %v, want [c1 c4]", b.Members)
		}
		if b.Key == "#" && strings.Join(b.Members, ",") != "c3,c7" {
			t.Errorf("# members = %v, want [c3 c7]", b.Members)
		}
	}
}

func TestPartitionSkipsMissingChildren(t *testing.T) {
	reg := wide("a", "b", "c")
	children := append(reg.Children("root"), "ghost1", "ghost2")
	buckets := Partition(children, reg, 2)
	total := 0
	for _, b := range buckets {
		total += len(b.Members)
	}
	if total != 3 {
		t.Errorf("members = %d, want 3", total)
	}
}

func TestPartitionsMemo(t *testing.T) {
	labels := make([]string, 20)
	for i := range labels {
		labels[i] = string(rune('a' + i))
	}
	reg := wide(labels...)
	p := NewPartitions(reg, 0)

	if p.Threshold() != DefaultGroupThreshold {
		t.Errorf("Threshold() = %d", p.Threshold())
	}
	if p.Registry() != reg {
		t.Error("Registry() does not return source registry")
	}
	if p.Len() != 1 || p.For("root") == nil || p.For("c0") != nil {
		t.Errorf("unexpected partitions: %d grouped parents", p.Len())
	}
	b, ok := p.Group(GroupID("root", "C"))
	if !ok || len(b.Members) != 1 || b.Members[0] != "c2" {
		t.Errorf("Group(C) = %v, %v", b, ok)
	}
	if _, ok := p.Group(NodeID("root")); ok {
		t.Error("Group() accepted a node id")
	}

	var nilParts *Partitions
	if nilParts.For("root") != nil || nilParts.Len() != 0 {
		t.Error("nil Partitions should be empty")
	}
}
