// Package ast provides the syntax tree consumed by validation and code
// generation.
//
// The tree is produced by an external parser. Statements are a closed set of
// pointer types implementing Stmt. Expressions live in a per-program Arena
// and are referenced by ExprID, so a rewrite such as precedence rebalancing
// replaces what an ID resolves to instead of mutating node identity.
//
// Nodes are only read by the validator, except through the explicit
// mutators documented on each type (marking a call as a method call,
// recording hoisted variables, and so on).
package ast

// Offset locates a node in its source.
type Offset struct {
	Source string // source name, "" if unknown
	Line   int    // 1-based, 0 or negative if unknown
	Text   string // literal source text of the node, if known
}

// Node is implemented by every statement and expression.
type Node interface {
	Offset() Offset
}

// Base provides the Offset common to all node types.
type Base struct {
	At Offset
}

func (b *Base) Offset() Offset { return b.At }

// ParseError is an error reported by the external parser.
type ParseError struct {
	At      Offset
	Message string
}

// Program is one top-level submission: a parsed source file.
type Program struct {
	Source string
	Stmts  []Stmt
	Arena  *Arena
}

// NewProgram returns an empty program with its own expression arena.
func NewProgram(source string) *Program {
	return &Program{Source: source, Arena: NewArena()}
}
