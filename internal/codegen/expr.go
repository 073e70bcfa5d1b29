package codegen

import (
	"fmt"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/callname"
)

func (g *generator) expr(id ast.ExprID) {
	switch e := g.arena.Get(id).(type) {
	case *ast.Number:
		g.p.Append(e.Value)
	case *ast.String:
		g.p.Append(quote(e.Value))
	case *ast.SymbolLit:
		g.p.Append(callname.Symbol(e.Name))
	case *ast.Bool:
		if e.Value {
			g.p.Append("true")
		} else {
			g.p.Append("false")
		}
	case *ast.Nil:
		g.p.Append("null")
	case *ast.This:
		g.p.Append("this")
	case *ast.Var:
		g.p.Append(callname.Variable(e.Name))
	case *ast.Field:
		g.p.Append("this.", callname.Field(g.class.Name, e.Name))
	case *ast.Global:
		g.p.Append(callname.Global(e.Name))
	case *ast.ArrayLit:
		g.p.Append("[")
		g.list(e.Elems)
		g.p.Append("]")
	case *ast.HashLit:
		g.p.Append(Runtime, ".hash([")
		for i, pair := range e.Pairs {
			if i > 0 {
				g.p.Append(", ")
			}
			g.expr(pair.Key)
			g.p.Append(", ")
			g.expr(pair.Value)
		}
		g.p.Append("])")
	case *ast.Call:
		if e.IsMethod() {
			g.p.Append("this.")
		}
		g.p.Append(callname.Function(e.Name, len(e.Args)))
		g.args(e.Args, e.Block)
	case *ast.MethodCall:
		if _, num := g.arena.Get(e.Recv).(*ast.Number); num {
			g.p.Append("(")
			g.expr(e.Recv)
			g.p.Append(")")
		} else {
			g.expr(e.Recv)
		}
		g.p.Append(".", callname.Function(e.Name, len(e.Args)))
		g.args(e.Args, e.Block)
	case *ast.SuperCall:
		g.p.Append(callname.Class(g.class.Super), ".prototype.", callname.Constructor(len(e.Args)), ".call(this")
		for _, a := range e.Args {
			g.p.Append(", ")
			g.expr(a)
		}
		g.p.Append(")")
	case *ast.New:
		g.p.Append("new ", callname.Class(e.Class), "().", callname.Constructor(len(e.Args)))
		g.args(e.Args, e.Block)
	case *ast.ForeignNew:
		g.p.Append("new ", e.Class)
		g.args(e.Args, nil)
	case *ast.Binary:
		g.binary(e)
	case *ast.Unary:
		g.unary(e)
	case *ast.Paren:
		if _, bin := g.arena.Get(e.X).(*ast.Binary); bin {
			g.expr(e.X)
			return
		}
		g.p.Append("(")
		g.expr(e.X)
		g.p.Append(")")
	default:
		panic(fmt.Sprintf("codegen: unexpected expression %T", e))
	}
}

func (g *generator) list(ids []ast.ExprID) {
	for i, id := range ids {
		if i > 0 {
			g.p.Append(", ")
		}
		g.expr(id)
	}
}

// args prints a parenthesized argument list. A block is passed as a
// trailing function argument.
func (g *generator) args(ids []ast.ExprID, blk *ast.BlockLit) {
	g.p.Append("(")
	g.list(ids)
	if blk != nil {
		if len(ids) > 0 {
			g.p.Append(", ")
		}
		g.block(blk)
	}
	g.p.Append(")")
}

// block prints an arrow function, so this keeps referring to the
// enclosing method's receiver.
func (g *generator) block(blk *ast.BlockLit) {
	g.p.Append("(", params(blk.Params), ") => {\n")
	g.p.BeginNested()
	g.body(blk.Body, false)
	g.p.EndNested()
	g.p.Append("}")
}

func (g *generator) binary(e *ast.Binary) {
	switch e.Op {
	case ast.OpAnd, ast.OpOr:
		// a and b: b if a is truthy, else a. a or b: a if truthy, else b.
		t := g.temp()
		g.p.Append("(")
		g.truthyAssign(t, e.Left)
		g.p.Append(" ? ")
		if e.Op == ast.OpAnd {
			g.expr(e.Right)
			g.p.Append(" : ", t)
		} else {
			g.p.Append(t, " : ")
			g.expr(e.Right)
		}
		g.p.Append(")")
	default:
		g.p.Append("(")
		g.expr(e.Left)
		g.p.Append(" ", e.Op.Target(), " ")
		g.expr(e.Right)
		g.p.Append(")")
	}
}

func (g *generator) unary(e *ast.Unary) {
	switch e.Op {
	case ast.OpNot, ast.OpNotKey:
		// Only nil and false are falsy.
		t := g.temp()
		g.p.Append("((", t, " = ")
		g.expr(e.X)
		g.p.Append(") === null || ", t, " === false)")
	default:
		g.p.Append("(", e.Op.Target())
		g.expr(e.X)
		g.p.Append(")")
	}
}

// truthyAssign prints a test of x's truthiness that also stores x in t.
func (g *generator) truthyAssign(t string, x ast.ExprID) {
	g.p.Append("((", t, " = ")
	g.expr(x)
	g.p.Append(") !== null && ", t, " !== false)")
}

// condition prints the test of an if or while. Operators that already
// yield a boolean are used as is.
func (g *generator) condition(id ast.ExprID, negate bool) {
	if negate {
		g.p.Append("!")
	}
	if isBool(g.arena.Get(id)) {
		g.expr(id)
		return
	}
	g.truthyAssign(g.temp(), id)
}

func isBool(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.Binary:
		return e.Op.IsBoolResult()
	case *ast.Unary:
		return e.Op.IsBoolResult()
	case *ast.Bool:
		return true
	default:
		return false
	}
}
