// Package testutil provides AST builders and golden output comparison for tests.
package testutil

import (
	"github.com/quill-lang/quill/internal/ast"
)

// Builder assembles a Program node by node. Every node gets the builder's
// source name and current line, so tests can place diagnostics with At.
type Builder struct {
	prog *ast.Program
	line int
}

// NewProgram starts a program named source at line 1.
func NewProgram(source string) *Builder {
	return &Builder{prog: ast.NewProgram(source), line: 1}
}

// At sets the line of subsequently built nodes.
func (b *Builder) At(line int) *Builder {
	b.line = line
	return b
}

// Add appends top-level statements.
func (b *Builder) Add(stmts ...ast.Stmt) *Builder {
	b.prog.Stmts = append(b.prog.Stmts, stmts...)
	return b
}

// Program returns the built program.
func (b *Builder) Program() *ast.Program { return b.prog }

// Get returns the expression stored under id.
func (b *Builder) Get(id ast.ExprID) ast.Expr { return b.prog.Arena.Get(id) }

func (b *Builder) base() ast.Base {
	return ast.Base{At: b.off()}
}

func (b *Builder) off() ast.Offset {
	return ast.Offset{Source: b.prog.Source, Line: b.line}
}

func (b *Builder) params(names []string) []ast.Param {
	out := make([]ast.Param, len(names))
	for i, n := range names {
		out[i] = ast.Param{At: b.off(), Name: n}
	}
	return out
}

// Expressions

func (b *Builder) Num(v string) ast.ExprID {
	return b.prog.Arena.Add(&ast.Number{Base: b.base(), Value: v})
}

func (b *Builder) Str(v string) ast.ExprID {
	return b.prog.Arena.Add(&ast.String{Base: b.base(), Value: v})
}

func (b *Builder) Sym(name string) ast.ExprID {
	base := b.base()
	base.At.Text = ":" + name
	return b.prog.Arena.Add(&ast.SymbolLit{Base: base, Name: name})
}

func (b *Builder) Bool(v bool) ast.ExprID {
	return b.prog.Arena.Add(&ast.Bool{Base: b.base(), Value: v})
}

func (b *Builder) Nil() ast.ExprID {
	return b.prog.Arena.Add(&ast.Nil{Base: b.base()})
}

func (b *Builder) This() ast.ExprID {
	return b.prog.Arena.Add(&ast.This{Base: b.base()})
}

func (b *Builder) Var(name string) ast.ExprID {
	return b.prog.Arena.Add(&ast.Var{Base: b.base(), Name: name})
}

func (b *Builder) Field(name string) ast.ExprID {
	return b.prog.Arena.Add(&ast.Field{Base: b.base(), Name: name})
}

func (b *Builder) Global(name string) ast.ExprID {
	return b.prog.Arena.Add(&ast.Global{Base: b.base(), Name: name})
}

func (b *Builder) Array(elems ...ast.ExprID) ast.ExprID {
	return b.prog.Arena.Add(&ast.ArrayLit{Base: b.base(), Elems: elems})
}

// Hash builds a hash literal from alternating keys and values.
func (b *Builder) Hash(kv ...ast.ExprID) ast.ExprID {
	h := &ast.HashLit{Base: b.base()}
	for i := 0; i+1 < len(kv); i += 2 {
		h.Pairs = append(h.Pairs, ast.Pair{Key: kv[i], Value: kv[i+1]})
	}
	return b.prog.Arena.Add(h)
}

func (b *Builder) Call(name string, args ...ast.ExprID) ast.ExprID {
	return b.prog.Arena.Add(&ast.Call{Base: b.base(), Name: name, Args: args})
}

func (b *Builder) Send(recv ast.ExprID, name string, args ...ast.ExprID) ast.ExprID {
	return b.prog.Arena.Add(&ast.MethodCall{Base: b.base(), Recv: recv, Name: name, Args: args})
}

func (b *Builder) Super(args ...ast.ExprID) ast.ExprID {
	return b.prog.Arena.Add(&ast.SuperCall{Base: b.base(), Args: args})
}

func (b *Builder) New(class string, args ...ast.ExprID) ast.ExprID {
	return b.prog.Arena.Add(&ast.New{Base: b.base(), Class: class, Args: args})
}

func (b *Builder) Foreign(class string, args ...ast.ExprID) ast.ExprID {
	return b.prog.Arena.Add(&ast.ForeignNew{Base: b.base(), Class: class, Args: args})
}

func (b *Builder) Bin(left ast.ExprID, op ast.Op, right ast.ExprID) ast.ExprID {
	return b.prog.Arena.Add(&ast.Binary{Base: b.base(), Op: op, Left: left, Right: right})
}

func (b *Builder) Un(op ast.Op, x ast.ExprID) ast.ExprID {
	return b.prog.Arena.Add(&ast.Unary{Base: b.base(), Op: op, X: x})
}

func (b *Builder) Paren(x ast.ExprID) ast.ExprID {
	return b.prog.Arena.Add(&ast.Paren{Base: b.base(), X: x})
}

// WithBlock attaches a block to the call, method call or new expression id.
func (b *Builder) WithBlock(id ast.ExprID, params []string, body ...ast.Stmt) ast.ExprID {
	blk := &ast.BlockLit{At: b.off(), Params: b.params(params), Body: body}
	switch e := b.Get(id).(type) {
	case *ast.Call:
		e.Block = blk
	case *ast.MethodCall:
		e.Block = blk
	case *ast.New:
		e.Block = blk
	default:
		panic("testutil: WithBlock on a node that takes no block")
	}
	return id
}

// Statements

func (b *Builder) Class(name, super string, members ...*ast.FunctionDef) *ast.ClassDef {
	return &ast.ClassDef{Base: b.base(), Name: name, Super: super, Body: members}
}

func (b *Builder) Def(name string, params []string, body ...ast.Stmt) *ast.FunctionDef {
	return &ast.FunctionDef{Base: b.base(), Name: name, Params: b.params(params), Body: body}
}

func (b *Builder) If(cond ast.ExprID, then []ast.Stmt, els ...ast.Stmt) *ast.If {
	return &ast.If{Base: b.base(), Cond: cond, Then: then, Else: els}
}

// ElseIf appends an elsif arm to s.
func (b *Builder) ElseIf(s *ast.If, cond ast.ExprID, body ...ast.Stmt) *ast.If {
	s.ElseIfs = append(s.ElseIfs, ast.ElseIf{At: b.off(), Cond: cond, Body: body})
	return s
}

func (b *Builder) While(cond ast.ExprID, body ...ast.Stmt) *ast.While {
	return &ast.While{Base: b.base(), Cond: cond, Body: body}
}

func (b *Builder) Until(cond ast.ExprID, body ...ast.Stmt) *ast.While {
	return &ast.While{Base: b.base(), Cond: cond, Body: body, Until: true}
}

func (b *Builder) Return(value ast.ExprID) *ast.Return {
	return &ast.Return{Base: b.base(), Value: value}
}

func (b *Builder) Expr(x ast.ExprID) *ast.ExprStmt {
	return &ast.ExprStmt{Base: b.base(), X: x}
}

func (b *Builder) Assign(target, value ast.ExprID) *ast.Assign {
	return &ast.Assign{Base: b.base(), Target: target, Value: value}
}

// Set assigns value to the local variable name.
func (b *Builder) Set(name string, value ast.ExprID) *ast.Assign {
	return b.Assign(b.Var(name), value)
}

func (b *Builder) Inline(code string) *ast.Inline {
	return &ast.Inline{Base: b.base(), Code: code}
}

func (b *Builder) PreInline(code string) *ast.PreInline {
	return &ast.PreInline{Base: b.base(), Code: code}
}
