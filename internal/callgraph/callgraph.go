// Package callgraph folds call trees into lattice graphs.
package callgraph

import (
	"github.com/zboralski/lattice"
	"github.com/zboralski/lattice/render"

	"hotpath/internal/calltree"
)

// Build folds a call tree into a function-level lattice.Graph. Each
// distinct symbol becomes a node and each parent/child pair an edge.
// Upcall trees point from the child (the caller) to its parent.
// The synthetic root of a substring search has no block and is skipped.
func Build(root *calltree.Node, upcall bool) *lattice.Graph {
	g := &lattice.Graph{}
	seen := make(map[string]bool)
	addNode := func(name string) {
		if !seen[name] {
			seen[name] = true
			g.Nodes = append(g.Nodes, name)
		}
	}

	calltree.Walk(root, func(_ int, parent, n *calltree.Node) bool {
		if synthetic(n, root) {
			return true
		}
		addNode(n.Symbol)
		if parent == nil || synthetic(parent, root) {
			return true
		}
		e := lattice.Edge{Caller: parent.Symbol, Callee: n.Symbol}
		if upcall {
			e = lattice.Edge{Caller: n.Symbol, Callee: parent.Symbol}
		}
		g.Edges = append(g.Edges, e)
		return true
	})
	g.Dedup()
	return g
}

// DOT renders the folded graph with lattice's renderer.
func DOT(g *lattice.Graph, title string) string {
	return render.DOT(g, title)
}

func synthetic(n, root *calltree.Node) bool {
	return n == root && n.Index == calltree.NoBlock && len(n.Children) > 0
}
