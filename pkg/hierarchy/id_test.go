package hierarchy

import (
	"encoding/json"
	"testing"
)

func TestIDString(t *testing.T) {
	tests := []struct {
		id   ID
		want string
	}{
		{NodeID("http://ex.org/A"), "http://ex.org/A"},
		{GroupID("http://ex.org/A", "C"), "group:http://ex.org/A:C"},
		{GroupID("p", KeyDigits), "group:p:0-9"},
	}
	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
		parsed, err := ParseID(tt.want)
		if err != nil {
			t.Fatalf("ParseID(%q): %v", tt.want, err)
		}
		if parsed != tt.id {
			t.Errorf("ParseID(%q) = %#v, want %#v", tt.want, parsed, tt.id)
		}
	}
}

func TestParseIDNodeLookalikes(t *testing.T) {
	for _, s := range []string{"group:", "group:x", "group:x:lower", "group::A"} {
		id, err := ParseID(s)
		if err != nil {
			t.Fatalf("ParseID(%q): %v", s, err)
		}
		if id.IsGroup() || id.Node != s {
			t.Errorf("ParseID(%q) = %#v, want plain node id", s, id)
		}
	}
	if _, err := ParseID(""); err == nil {
		t.Error("ParseID(\"\") succeeded, want error")
	}
}

func TestNodeAndGroupDoNotCollide(t *testing.T) {
	g := GroupID("p", "A")
	n := NodeID(g.String())
	if g == n {
		t.Fatal("group and node with the same string form compare equal")
	}
	e := NewExpansion(g)
	if e.Has(n) {
		t.Error("expansion of group leaks to lookalike node id")
	}
}

func TestIDJSONKey(t *testing.T) {
	m := map[ID]int{GroupID("p", "B"): 1}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"group:p:B":1}` {
		t.Errorf("Marshal = %s", data)
	}
	var back map[ID]int
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back[GroupID("p", "B")] != 1 {
		t.Errorf("Unmarshal = %v", back)
	}
}
