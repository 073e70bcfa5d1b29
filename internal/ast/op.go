package ast

import "fmt"

// Op is a unary or binary operator.
type Op int

const (
	OpMul Op = iota
	OpDiv
	OpMod
	OpAdd
	OpSub
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpAnd
	OpOr
	OpNot    // !x
	OpNeg    // -x
	OpNotKey // not x
)

type opInfo struct {
	source     string
	target     string
	precedence int
	unary      bool
	boolResult bool
}

// Lower precedence binds tighter.
var ops = [...]opInfo{
	OpMul:    {"*", "*", 2, false, false},
	OpDiv:    {"/", "/", 2, false, false},
	OpMod:    {"%", "%", 2, false, false},
	OpAdd:    {"+", "+", 3, false, false},
	OpSub:    {"-", "-", 3, false, false},
	OpLt:     {"<", "<", 4, false, true},
	OpLe:     {"<=", "<=", 4, false, true},
	OpGt:     {">", ">", 4, false, true},
	OpGe:     {">=", ">=", 4, false, true},
	OpEq:     {"==", "===", 5, false, true},
	OpNe:     {"!=", "!==", 5, false, true},
	OpAnd:    {"and", "&&", 6, false, false},
	OpOr:     {"or", "||", 7, false, false},
	OpNot:    {"!", "!", 1, true, true},
	OpNeg:    {"-", "-", 1, true, false},
	OpNotKey: {"not", "!", 8, true, true},
}

func (o Op) info() opInfo {
	if o < 0 || int(o) >= len(ops) {
		panic(fmt.Sprintf("ast: unknown operator %d", int(o)))
	}
	return ops[o]
}

// String returns the operator as written in source.
func (o Op) String() string { return o.info().source }

// Target returns the operator as emitted in target code.
func (o Op) Target() string { return o.info().target }

// Precedence returns the binding strength; lower binds tighter.
func (o Op) Precedence() int { return o.info().precedence }

// IsUnary reports whether the operator takes a single operand.
func (o Op) IsUnary() bool { return o.info().unary }

// IsBoolResult reports whether the operator always yields a boolean,
// so its result can be used as a condition without truthiness coercion.
func (o Op) IsBoolResult() bool { return o.info().boolResult }

// IsShortCircuit reports whether the operator is "and" or "or".
func (o Op) IsShortCircuit() bool { return o == OpAnd || o == OpOr }

// outranks reports whether a node with operator o must sit below a child
// with operator child. Binary operators are left-associative, so equal
// precedence also moves the parent down.
func (o Op) outranks(child Op) bool {
	p, c := o.Precedence(), child.Precedence()
	return p < c || (p == c && !o.IsUnary())
}
