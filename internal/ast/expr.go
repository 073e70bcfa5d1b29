package ast

import "fmt"

// ExprID addresses an expression in an Arena.
type ExprID int32

// NoExpr marks an absent optional expression.
const NoExpr ExprID = -1

// Expr is an expression stored in an Arena.
type Expr interface {
	Node
	expr()
}

func (*Number) expr()     {}
func (*String) expr()     {}
func (*SymbolLit) expr()  {}
func (*Bool) expr()       {}
func (*Nil) expr()        {}
func (*This) expr()       {}
func (*Var) expr()        {}
func (*Field) expr()      {}
func (*Global) expr()     {}
func (*ArrayLit) expr()   {}
func (*HashLit) expr()    {}
func (*Call) expr()       {}
func (*MethodCall) expr() {}
func (*SuperCall) expr()  {}
func (*New) expr()        {}
func (*ForeignNew) expr() {}
func (*Binary) expr()     {}
func (*Unary) expr()      {}
func (*Paren) expr()      {}

// Arena owns the expressions of one program.
type Arena struct {
	nodes []Expr
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Add stores e and returns its ID.
func (a *Arena) Add(e Expr) ExprID {
	a.nodes = append(a.nodes, e)
	return ExprID(len(a.nodes) - 1)
}

// Get returns the expression id currently resolves to.
// An ID that was never issued by this arena panics.
func (a *Arena) Get(id ExprID) Expr {
	if id < 0 || int(id) >= len(a.nodes) {
		panic(fmt.Sprintf("ast: expression id %d out of range [0,%d)", id, len(a.nodes)))
	}
	return a.nodes[id]
}

// Len returns the number of stored expressions.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Number is a numeric literal, kept as written.
type Number struct {
	Base
	Value string
}

// String is a string literal.
type String struct {
	Base
	Value string
}

// SymbolLit is a quoted symbol such as :name.
type SymbolLit struct {
	Base
	Name string
}

// Bool is true or false.
type Bool struct {
	Base
	Value bool
}

// Nil is the nil literal.
type Nil struct {
	Base
}

// This refers to the receiver of the current method.
type This struct {
	Base
}

// Var reads a local variable.
type Var struct {
	Base
	Name string
}

// Field reads an instance field (@name) of the enclosing class.
type Field struct {
	Base
	Name string
}

// Global reads a global variable ($name).
type Global struct {
	Base
	Name string
}

// ArrayLit is [a, b, ...].
type ArrayLit struct {
	Base
	Elems []ExprID
}

// Pair is one key => value entry of a HashLit.
type Pair struct {
	Key   ExprID
	Value ExprID
}

// HashLit is {k => v, ...}.
type HashLit struct {
	Base
	Pairs []Pair
}

// BlockLit is a block passed to a call: do |params| body end.
type BlockLit struct {
	At     Offset
	Params []Param
	Body   []Stmt
}

// Call is foo(args). Inside a class body the grammar cannot tell a free
// function call from an implicit-this method call; the validator decides
// and records the answer with SetMethod.
type Call struct {
	Base
	Name  string
	Args  []ExprID
	Block *BlockLit

	isMethod bool
}

// SetMethod marks the call as an implicit-this method call.
func (c *Call) SetMethod(v bool) { c.isMethod = v }

// IsMethod reports whether the call resolved to a method.
func (c *Call) IsMethod() bool { return c.isMethod }

// MethodCall is recv.name(args).
type MethodCall struct {
	Base
	Recv  ExprID
	Name  string
	Args  []ExprID
	Block *BlockLit
}

// SuperCall is super(args) inside a constructor.
type SuperCall struct {
	Base
	Args []ExprID
}

// New is Class.new(args).
type New struct {
	Base
	Class string
	Args  []ExprID
	Block *BlockLit
}

// ForeignNew creates an instance of a target-language type by its raw
// name (admin only).
type ForeignNew struct {
	Base
	Class string
	Args  []ExprID
}

// Binary is left op right.
type Binary struct {
	Base
	Op    Op
	Left  ExprID
	Right ExprID

	balanced bool
}

// Unary is op x.
type Unary struct {
	Base
	Op Op
	X  ExprID

	balanced bool
}

// Paren is a parenthesized expression. It stops precedence rebalancing.
type Paren struct {
	Base
	X ExprID
}
