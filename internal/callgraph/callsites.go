package callgraph

import (
	"github.com/zboralski/lattice"
	"github.com/zboralski/lattice/render"

	"hotpath/internal/calltree"
)

// CallSites builds a lattice.CFGGraph with one single-block function per
// expanded tree node. The block lists the node's children as call sites in
// sibling order; a symbol expanded on several paths is emitted once.
func CallSites(root *calltree.Node) *lattice.CFGGraph {
	cg := &lattice.CFGGraph{}
	done := make(map[string]bool)
	calltree.Walk(root, func(_ int, _, n *calltree.Node) bool {
		if len(n.Children) == 0 || done[n.Symbol] {
			return true
		}
		done[n.Symbol] = true

		seen := make(map[string]bool)
		var calls []lattice.CallSite
		for _, c := range n.Children {
			if seen[c.Symbol] {
				continue
			}
			seen[c.Symbol] = true
			calls = append(calls, lattice.CallSite{Offset: len(calls), Callee: c.Symbol})
		}
		cg.Funcs = append(cg.Funcs, &lattice.FuncCFG{
			Name: n.Symbol,
			Blocks: []*lattice.BasicBlock{{
				ID:    0,
				Start: 0,
				End:   1,
				Term:  true,
				Calls: calls,
			}},
		})
		return true
	})
	return cg
}

// CallSitesDOT renders CallSites(root) with lattice's CFG renderer.
func CallSitesDOT(root *calltree.Node, title string) string {
	return render.DOTCFG(CallSites(root), title)
}
