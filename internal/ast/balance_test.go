package ast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// render prints the arena subtree at id fully parenthesized.
func render(a *Arena, id ExprID) string {
	switch n := a.Get(id).(type) {
	case *Var:
		return n.Name
	case *Number:
		return n.Value
	case *Paren:
		return "(" + render(a, n.X) + ")"
	case *Binary:
		return "[" + render(a, n.Left) + " " + n.Op.String() + " " + render(a, n.Right) + "]"
	case *Unary:
		return "[" + n.Op.String() + " " + render(a, n.X) + "]"
	default:
		return "?"
	}
}

// chain builds the right-leaning tree a parser produces for
// v0 op0 v1 op1 v2 ... without precedence awareness.
func chain(a *Arena, vars []string, ops []Op) ExprID {
	if len(ops) == 0 {
		return a.Add(&Var{Name: vars[0]})
	}
	left := a.Add(&Var{Name: vars[0]})
	right := chain(a, vars[1:], ops[1:])
	return a.Add(&Binary{Op: ops[0], Left: left, Right: right})
}

func TestRebalance(t *testing.T) {
	tests := []struct {
		name string
		vars string
		ops  []Op
		want string
	}{
		{"mul binds tighter on the right", "a b c", []Op{OpAdd, OpMul}, "[a + [b * c]]"},
		{"mul binds tighter on the left", "a b c", []Op{OpMul, OpAdd}, "[[a * b] + c]"},
		{"left associative subtraction", "a b c d", []Op{OpSub, OpSub, OpSub}, "[[[a - b] - c] - d]"},
		{"mixed", "a b c d", []Op{OpAdd, OpMul, OpSub}, "[[a + [b * c]] - d]"},
		{"comparison below arithmetic", "a b c", []Op{OpLt, OpAdd}, "[a < [b + c]]"},
		{"arithmetic above comparison", "a b c", []Op{OpAdd, OpLt}, "[[a + b] < c]"},
		{"or below and", "a b c d", []Op{OpOr, OpAnd, OpEq}, "[a or [b and [c == d]]]"},
		{"and then or", "a b c", []Op{OpAnd, OpOr}, "[[a and b] or c]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArena()
			root := chain(a, strings.Fields(tt.vars), tt.ops)
			a.Rebalance(root)
			assert.Equal(t, tt.want, render(a, root))
		})
	}
}

func TestRebalanceStopsAtParen(t *testing.T) {
	// (a + b) * c
	a := NewArena()
	sum := a.Add(&Binary{Op: OpAdd, Left: a.Add(&Var{Name: "a"}), Right: a.Add(&Var{Name: "b"})})
	paren := a.Add(&Paren{X: sum})
	root := a.Add(&Binary{Op: OpMul, Left: paren, Right: a.Add(&Var{Name: "c"})})
	a.Rebalance(root)
	assert.Equal(t, "[([a + b]) * c]", render(a, root))

	// a * (b + c) must not rotate.
	b := NewArena()
	inner := b.Add(&Binary{Op: OpAdd, Left: b.Add(&Var{Name: "b"}), Right: b.Add(&Var{Name: "c"})})
	root = b.Add(&Binary{Op: OpMul, Left: b.Add(&Var{Name: "a"}), Right: b.Add(&Paren{X: inner})})
	b.Rebalance(root)
	assert.Equal(t, "[a * ([b + c])]", render(b, root))
}

func TestRebalanceUnary(t *testing.T) {
	// -a * b parsed as -(a * b)
	a := NewArena()
	mul := a.Add(&Binary{Op: OpMul, Left: a.Add(&Var{Name: "a"}), Right: a.Add(&Var{Name: "b"})})
	root := a.Add(&Unary{Op: OpNeg, X: mul})
	a.Rebalance(root)
	assert.Equal(t, "[[- a] * b]", render(a, root))

	// not a == b keeps the loose "not" on top.
	b := NewArena()
	eq := b.Add(&Binary{Op: OpEq, Left: b.Add(&Var{Name: "a"}), Right: b.Add(&Var{Name: "b"})})
	root = b.Add(&Unary{Op: OpNotKey, X: eq})
	b.Rebalance(root)
	assert.Equal(t, "[not [a == b]]", render(b, root))
}

func TestRebalanceIsMemoized(t *testing.T) {
	a := NewArena()
	root := chain(a, []string{"a", "b", "c"}, []Op{OpMul, OpAdd})
	require.False(t, a.Balanced(root))

	a.Rebalance(root)
	first := render(a, root)
	require.True(t, a.Balanced(root))

	a.Rebalance(root)
	assert.Equal(t, first, render(a, root))
}

func TestRebalanceKeepsOuterReferences(t *testing.T) {
	// A statement holding the root ID sees the rewritten subtree.
	a := NewArena()
	root := chain(a, []string{"a", "b", "c"}, []Op{OpMul, OpAdd})
	stmt := &ExprStmt{X: root}
	a.Rebalance(stmt.X)

	top, ok := a.Get(stmt.X).(*Binary)
	require.True(t, ok)
	assert.Equal(t, OpAdd, top.Op)
}

func TestArenaGetOutOfRangePanics(t *testing.T) {
	a := NewArena()
	assert.Panics(t, func() { a.Get(3) })
	assert.Panics(t, func() { a.Get(NoExpr) })
}
