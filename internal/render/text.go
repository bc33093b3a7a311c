package render

import (
	"fmt"
	"io"
	"strings"

	"hotpath/internal/calltree"
)

// Connectors drawn in front of a node, keyed by its expand hint.
const (
	connMiddle = "├── "
	connLast   = "└── "
	connNone   = "├╌╌ "
	connEmpty  = "└╌╌ "

	contBar   = "│   "
	contBlank = "    "
)

// Text writes root as an indented tree using the expand hints assigned by
// calltree.AssignHints.
func Text(w io.Writer, root *calltree.Node) error {
	if root == nil {
		return nil
	}
	if _, err := fmt.Fprintln(w, nodeLabel(root)); err != nil {
		return err
	}
	return textChildren(w, root.Children, "")
}

func textChildren(w io.Writer, nodes []*calltree.Node, prefix string) error {
	for _, n := range nodes {
		conn, cont := connector(n.Expand)
		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, conn, nodeLabel(n)); err != nil {
			return err
		}
		if err := textChildren(w, n.Children, prefix+cont); err != nil {
			return err
		}
	}
	return nil
}

func connector(e calltree.Expand) (conn, cont string) {
	switch e {
	case calltree.ExpandMiddle:
		return connMiddle, contBar
	case calltree.ExpandLast:
		return connLast, contBlank
	case calltree.Empty:
		return connEmpty, contBlank
	default:
		return connNone, contBar
	}
}

// nodeLabel is the symbol, the import cell address when known, and the
// classification tag for anything that is not a plain dependency.
func nodeLabel(n *calltree.Node) string {
	var b strings.Builder
	b.WriteString(n.Symbol)
	if n.Class == calltree.ImportAddressTable && n.Address != "" {
		fmt.Fprintf(&b, " @%s", n.Address)
	}
	if n.Class != calltree.HasDependency {
		fmt.Fprintf(&b, " [%s]", n.Class)
	}
	return b.String()
}

// TextString is Text into a string.
func TextString(root *calltree.Node) string {
	var b strings.Builder
	Text(&b, root)
	return b.String()
}
