package ast

// Rebalance rewrites the operator subtree rooted at id so that it reflects
// operator precedence instead of the greedy, right-leaning shape the
// grammar builds. It runs at most once per node; later calls are no-ops.
//
// The right operand (or the single operand of a unary operator) is
// rebalanced first. If that operand binds looser than the node, the node
// moves below it: the operand becomes the subtree root at id, and the node
// takes the place of the leftmost operand on the operand's left spine that
// binds at least as tight as the node. IDs held elsewhere keep resolving
// to the root of the rewritten subtree.
func (a *Arena) Rebalance(id ExprID) {
	switch n := a.Get(id).(type) {
	case *Binary:
		if n.balanced {
			return
		}
		n.balanced = true
		a.Rebalance(n.Right)
		a.rotate(id, n.Right, n.Op, func(x ExprID) { n.Right = x })
	case *Unary:
		if n.balanced {
			return
		}
		n.balanced = true
		a.Rebalance(n.X)
		a.rotate(id, n.X, n.Op, func(x ExprID) { n.X = x })
	}
}

// rotate moves the node at id below its operand at childID when the
// operand binds looser. setOperand rewires the node's operand slot.
func (a *Arena) rotate(id, childID ExprID, op Op, setOperand func(ExprID)) {
	child, ok := a.Get(childID).(*Binary)
	if !ok || !op.outranks(child.Op) {
		return
	}

	parent := child
	for {
		left, ok := a.Get(parent.Left).(*Binary)
		if !ok || !op.outranks(left.Op) {
			break
		}
		parent = left
	}

	setOperand(parent.Left)
	a.nodes[id], a.nodes[childID] = a.nodes[childID], a.nodes[id]
	parent.Left = childID
}

// Balanced reports whether Rebalance already ran on the node at id.
// Nodes that do not take part in rebalancing report true.
func (a *Arena) Balanced(id ExprID) bool {
	switch n := a.Get(id).(type) {
	case *Binary:
		return n.balanced
	case *Unary:
		return n.balanced
	default:
		return true
	}
}
