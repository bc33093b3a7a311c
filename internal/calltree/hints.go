package calltree

// drawable reports whether a connector line continues through the node.
// Only expanded dependencies draw one; every other class is a leaf.
func drawable(c Class) bool {
	return c == HasDependency
}

// AssignHints decorates the tree with connector hints. Within each sibling
// list the drawable nodes get ExpandMiddle, except the last which gets
// ExpandLast; non-drawable nodes get None, and every sibling after the
// last hinted one is forced to Empty. A root with no children gets None.
// The pass depends only on classification and sibling order, so running
// it again yields identical hints.
func AssignHints(root *Node) {
	if root == nil {
		return
	}
	if len(root.Children) == 0 {
		root.Expand = None
		return
	}
	assignSiblings(root.Children)
}

func assignSiblings(nodes []*Node) {
	var prev *Node
	for _, n := range nodes {
		if !drawable(n.Class) {
			n.Expand = None
		} else {
			n.Expand = ExpandLast
			if prev != nil {
				prev.Expand = ExpandMiddle
			}
			prev = n
		}
		if len(n.Children) > 0 {
			assignSiblings(n.Children)
		}
	}

	last := len(nodes) - 1
	for last >= 0 && nodes[last].Expand == None {
		last--
	}
	for i := last + 1; i < len(nodes); i++ {
		nodes[i].Expand = Empty
	}
}
