// Package calltree builds bounded call-dependency trees from a sanitized
// disassembly corpus, expanding either callees (downcall) or callers
// (upcall) of a function.
package calltree

import "fmt"

// NoBlock marks a node that has no located block in the corpus.
const NoBlock = -1

// Class records why a node is (or is not) expanded further.
type Class int

const (
	HasDependency Class = iota
	Retpoline
	AtEnd
	StopDisassembly
	BodyNotFound
	ImportAddressTable
	Indirect
)

var classNames = [...]string{
	HasDependency:      "has_dependency",
	Retpoline:          "retpoline",
	AtEnd:              "at_end",
	StopDisassembly:    "stop_disassembly",
	BodyNotFound:       "body_not_found",
	ImportAddressTable: "import_address_table",
	Indirect:           "indirect",
}

func (c Class) String() string {
	if c >= 0 && int(c) < len(classNames) {
		return classNames[c]
	}
	return fmt.Sprintf("class(%d)", int(c))
}

func (c Class) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Class) UnmarshalText(b []byte) error {
	for i, n := range classNames {
		if n == string(b) {
			*c = Class(i)
			return nil
		}
	}
	return fmt.Errorf("calltree: unknown class %q", b)
}

// Classes lists every classification in declaration order.
func Classes() []Class {
	return []Class{HasDependency, Retpoline, AtEnd, StopDisassembly, BodyNotFound, ImportAddressTable, Indirect}
}

// Expand is the connector hint a renderer draws in front of a node.
type Expand int

const (
	None Expand = iota
	Empty
	ExpandMiddle
	ExpandLast
)

var expandNames = [...]string{
	None:         "none",
	Empty:        "empty",
	ExpandMiddle: "middle",
	ExpandLast:   "last",
}

func (e Expand) String() string {
	if e >= 0 && int(e) < len(expandNames) {
		return expandNames[e]
	}
	return fmt.Sprintf("expand(%d)", int(e))
}

func (e Expand) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *Expand) UnmarshalText(b []byte) error {
	for i, n := range expandNames {
		if n == string(b) {
			*e = Expand(i)
			return nil
		}
	}
	return fmt.Errorf("calltree: unknown expand hint %q", b)
}

// Node is one function in the tree. Children are owned by their parent.
type Node struct {
	Symbol   string  `json:"symbol"`
	Address  string  `json:"address,omitempty"`
	Index    int     `json:"index"`
	Expand   Expand  `json:"expand"`
	Class    Class   `json:"class"`
	Children []*Node `json:"children,omitempty"`
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the children of the visited node.
func Walk(n *Node, fn func(depth int, parent, node *Node) bool) {
	walk(0, nil, n, fn)
}

func walk(depth int, parent, n *Node, fn func(int, *Node, *Node) bool) {
	if n == nil || !fn(depth, parent, n) {
		return
	}
	for _, c := range n.Children {
		walk(depth+1, n, c, fn)
	}
}

// CumulatedDependencies returns the sum of direct-child counts over every
// node of the tree.
func CumulatedDependencies(root *Node) int {
	if root == nil {
		return 0
	}
	count := len(root.Children)
	for _, c := range root.Children {
		count += CumulatedDependencies(c)
	}
	return count
}

// Stats counts nodes per classification, root included.
func Stats(root *Node) map[Class]int {
	out := make(map[Class]int)
	Walk(root, func(_ int, _, n *Node) bool {
		out[n.Class]++
		return true
	})
	return out
}
