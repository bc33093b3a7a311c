package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hotpath/internal/calltree"
)

func sampleResult() *calltree.Result {
	root := &calltree.Node{Symbol: "DriverEntry", Address: "fffff800`10000000", Children: []*calltree.Node{
		{Symbol: "IoCreateDevice", Index: 1, Class: calltree.HasDependency, Expand: calltree.ExpandLast,
			Children: []*calltree.Node{
				{Symbol: "nt!Missing", Index: calltree.NoBlock, Class: calltree.BodyNotFound, Expand: calltree.Empty},
			}},
	}}
	return &calltree.Result{Root: root, Digest: "00000000deadbeef", Blocks: 4, Unreliable: true}
}

func TestNewReport(t *testing.T) {
	r := NewReport("DriverEntry", calltree.Options{Depth: 2, Upcall: true}, sampleResult())
	if r.Mode != ModeUpcall || r.Depth != 2 || r.Blocks != 4 || !r.Unreliable {
		t.Errorf("report = %+v", r)
	}
	if r.Dependencies != 2 {
		t.Errorf("dependencies = %d, want 2", r.Dependencies)
	}
	if r.Classes["has_dependency"] != 2 || r.Classes["body_not_found"] != 1 {
		t.Errorf("classes = %v", r.Classes)
	}
}

func TestWriteTreeJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trees", "DriverEntry.json")
	r := NewReport("DriverEntry", calltree.Options{Depth: 2}, sampleResult())
	if err := WriteTreeJSON(path, r); err != nil {
		t.Fatalf("WriteTreeJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"mode": "downcall"`, `"class": "body_not_found"`, `"expand": "last"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("json missing %s:\n%s", want, data)
		}
	}

	back, err := ReadTreeJSON(path)
	if err != nil {
		t.Fatalf("ReadTreeJSON: %v", err)
	}
	if back.Key != "DriverEntry" || back.Root.Children[0].Children[0].Class != calltree.BodyNotFound {
		t.Errorf("round trip = %+v", back)
	}
}

func TestWriteText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b.dot")
	if err := WriteText(path, "digraph {}\n"); err != nil {
		t.Fatal(err)
	}
	if b, _ := os.ReadFile(path); string(b) != "digraph {}\n" {
		t.Errorf("content = %q", b)
	}
}
