package calltree

import (
	"encoding/json"
	"strings"
	"testing"
)

func leaf(sym string, c Class) *Node {
	return &Node{Symbol: sym, Index: NoBlock, Class: c}
}

func TestAssignHints(t *testing.T) {
	root := &Node{Symbol: "root", Children: []*Node{
		{Symbol: "a", Index: 1, Class: HasDependency, Children: []*Node{leaf("a1", AtEnd)}},
		leaf("b", Retpoline),
		{Symbol: "c", Index: 2, Class: HasDependency, Children: []*Node{leaf("c1", AtEnd)}},
		leaf("d", ImportAddressTable),
		leaf("e", BodyNotFound),
	}}
	AssignHints(root)

	want := map[string]Expand{
		"a": ExpandMiddle, "b": None, "c": ExpandLast, "d": Empty, "e": Empty,
		"a1": Empty, "c1": Empty,
	}
	Walk(root, func(d int, _, n *Node) bool {
		if d == 0 {
			return true
		}
		if n.Expand != want[n.Symbol] {
			t.Errorf("%s expand = %v, want %v", n.Symbol, n.Expand, want[n.Symbol])
		}
		return true
	})

	// Idempotent.
	before, _ := json.Marshal(root)
	AssignHints(root)
	after, _ := json.Marshal(root)
	if string(before) != string(after) {
		t.Errorf("second pass changed hints:\n%s\n%s", before, after)
	}
}

func TestAssignHintsChildlessRoot(t *testing.T) {
	root := &Node{Symbol: "r", Expand: ExpandLast, Class: AtEnd}
	AssignHints(root)
	if root.Expand != None {
		t.Errorf("root expand = %v, want none", root.Expand)
	}
	AssignHints(nil)
}

func TestCumulatedDependencies(t *testing.T) {
	root := &Node{Symbol: "r", Children: []*Node{
		{Symbol: "a", Children: []*Node{leaf("a1", AtEnd), leaf("a2", AtEnd)}},
		{Symbol: "b", Children: []*Node{{Symbol: "b1", Children: []*Node{leaf("b11", AtEnd)}}}},
		leaf("c", Indirect),
	}}

	want := 0
	Walk(root, func(_ int, _, n *Node) bool {
		want += len(n.Children)
		return true
	})
	if got := CumulatedDependencies(root); got != want || got != 7 {
		t.Errorf("CumulatedDependencies = %d, want %d (7)", got, want)
	}
	if CumulatedDependencies(nil) != 0 {
		t.Error("CumulatedDependencies(nil) != 0")
	}
	if got := CumulatedDependencies(leaf("x", AtEnd)); got != 0 {
		t.Errorf("leaf count = %d", got)
	}
}

func TestStats(t *testing.T) {
	root := &Node{Symbol: "r", Children: []*Node{
		leaf("a", AtEnd), leaf("b", AtEnd), leaf("c", Retpoline),
	}}
	s := Stats(root)
	if s[HasDependency] != 1 || s[AtEnd] != 2 || s[Retpoline] != 1 || s[Indirect] != 0 {
		t.Errorf("Stats = %v", s)
	}
}

func TestWalkSkip(t *testing.T) {
	root := &Node{Symbol: "r", Children: []*Node{
		{Symbol: "a", Children: []*Node{leaf("a1", AtEnd)}},
		leaf("b", AtEnd),
	}}
	var seen []string
	Walk(root, func(_ int, parent, n *Node) bool {
		seen = append(seen, n.Symbol)
		if n.Symbol == "a" && parent != root {
			t.Errorf("parent of a = %v", parent)
		}
		return n.Symbol != "a"
	})
	if got := strings.Join(seen, ","); got != "r,a,b" {
		t.Errorf("visited %s, want r,a,b", got)
	}
}

func TestNodeJSON(t *testing.T) {
	n := &Node{Symbol: "nt!Foo", Address: "fffff800`12345678", Index: 3,
		Expand: ExpandLast, Class: ImportAddressTable}
	b, err := json.Marshal(n)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"symbol":"nt!Foo","address":"fffff800` + "`" + `12345678","index":3,"expand":"last","class":"import_address_table"}`
	if string(b) != want {
		t.Errorf("json = %s, want %s", b, want)
	}

	var back Node
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back.Class != ImportAddressTable || back.Expand != ExpandLast {
		t.Errorf("round trip = %+v", back)
	}
	if err := json.Unmarshal([]byte(`{"class":"bogus"}`), &back); err == nil {
		t.Error("unknown class accepted")
	}
}

func TestClassStrings(t *testing.T) {
	for _, c := range Classes() {
		if strings.HasPrefix(c.String(), "class(") {
			t.Errorf("class %d has no name", int(c))
		}
	}
	if got := Class(42).String(); got != "class(42)" {
		t.Errorf("Class(42) = %q", got)
	}
}
