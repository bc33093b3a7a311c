package render

import (
	"fmt"
	"strings"

	"hotpath/internal/calltree"
)

// edgeStyle returns the dot style for an edge into a node of class c.
func edgeStyle(c calltree.Class) string {
	switch c {
	case calltree.HasDependency:
		return "solid"
	case calltree.BodyNotFound:
		return "dashed"
	default:
		return "dotted"
	}
}

// TreeDOT renders a call tree as DOT. Every tree node becomes its own
// graph node, so repeated callees appear once per call path. Nodes are
// accented by classification and edges into leaves are dotted.
func TreeDOT(root *calltree.Node, title string, t Theme) string {
	var b strings.Builder
	b.WriteString("digraph calltree {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  splines=true;\n")
	b.WriteString("  nodesep=0.3;\n")
	b.WriteString("  ranksep=0.6;\n")
	fmt.Fprintf(&b, "  bgcolor=%q;\n", t.Background)
	fmt.Fprintf(&b, "  node [shape=rect, style=filled, fillcolor=%q, color=%q, penwidth=0.5, fontname=\"Helvetica Neue,Helvetica,Arial\", fontsize=9, fontcolor=%q, height=0.3, margin=\"0.12,0.06\"];\n",
		t.NodeFill, t.NodeBorder, t.TextColor)
	fmt.Fprintf(&b, "  edge [penwidth=0.5, arrowsize=0.5, arrowhead=vee];\n")
	if title != "" {
		fmt.Fprintf(&b, "  labelloc=t;\n  labeljust=l;\n")
		fmt.Fprintf(&b, "  label=<<font face=\"Helvetica Neue,Helvetica\" point-size=\"8\" color=\"%s\">%s</font>>;\n",
			t.TextColor, dotEscape(title))
	}
	b.WriteByte('\n')

	if root == nil {
		b.WriteString("}\n")
		return b.String()
	}

	ids := make(map[*calltree.Node]string)
	var edges []string
	seq := 0
	calltree.Walk(root, func(_ int, parent, n *calltree.Node) bool {
		id := dotID(n.Symbol, seq)
		seq++
		ids[n] = id

		label := truncLabel(n.Symbol, 60)
		attrs := fmt.Sprintf("label=%q", label)
		switch {
		case parent == nil:
			attrs += fmt.Sprintf(", fillcolor=%q, penwidth=1.5", t.RootFill)
		case classColor(n.Class, t) != "":
			c := classColor(n.Class, t)
			attrs += fmt.Sprintf(", color=%q, fontcolor=%q", c, c)
		}
		if n.Class == calltree.BodyNotFound || n.Class == calltree.StopDisassembly {
			attrs += ", shape=plaintext, style=\"\""
		}
		fmt.Fprintf(&b, "  %s [%s];\n", id, attrs)

		if parent != nil {
			color := t.EdgeColor
			if n.Class != calltree.HasDependency {
				color = t.LeafEdgeColor
			}
			edges = append(edges, fmt.Sprintf("  %s -> %s [color=%q, style=%q];\n",
				ids[parent], id, color, edgeStyle(n.Class)))
		}
		return true
	})
	b.WriteByte('\n')
	for _, e := range edges {
		b.WriteString(e)
	}

	b.WriteString("}\n")
	return b.String()
}
