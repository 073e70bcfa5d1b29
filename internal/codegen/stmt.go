package codegen

import (
	"fmt"
	"strings"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/callname"
)

func (g *generator) stmts(list []ast.Stmt) {
	for _, s := range list {
		g.stmt(s)
	}
}

// body prints a function or block body. The value of a trailing
// expression statement is returned, as is nil when control falls off the
// end. Constructors always return the new instance.
func (g *generator) body(list []ast.Stmt, ctor bool) {
	n := len(list)
	if n > 0 && !ctor {
		if last, ok := list[n-1].(*ast.ExprStmt); ok {
			g.stmts(list[:n-1])
			g.p.Append("return ")
			g.expr(last.X)
			g.p.EndStatement()
			return
		}
	}
	g.stmts(list)
	switch {
	case n > 0 && isReturn(list[n-1]):
	case ctor:
		g.line("return this")
	default:
		g.line("return null")
	}
}

func isReturn(s ast.Stmt) bool {
	_, ok := s.(*ast.Return)
	return ok
}

func (g *generator) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.ClassDef:
		g.classDef(s)
	case *ast.FunctionDef:
		g.p.Append("function ", callname.Function(s.Name, len(s.Params)))
		g.function(s)
		g.p.Append("\n")
		g.p.Flush()
	case *ast.If:
		g.p.Append("if (")
		g.condition(s.Cond, false)
		g.p.Append(") {\n")
		g.p.Flush()
		g.stmts(s.Then)
		for _, arm := range s.ElseIfs {
			g.p.Append("} else if (")
			g.condition(arm.Cond, false)
			g.p.Append(") {\n")
			g.p.Flush()
			g.stmts(arm.Body)
		}
		if len(s.Else) > 0 {
			g.p.Append("} else {\n")
			g.p.Flush()
			g.stmts(s.Else)
		}
		g.p.Append("}\n")
		g.p.Flush()
	case *ast.While:
		g.p.Append("while (")
		g.condition(s.Cond, s.Until)
		g.p.Append(") {\n")
		g.p.Flush()
		g.stmts(s.Body)
		g.p.Append("}\n")
		g.p.Flush()
	case *ast.Return:
		// A script cannot return, and a constructor always returns this.
		// The value is still evaluated for its effects.
		ctor := g.fun != nil && g.fun.Kind() == ast.KindConstructor
		if g.fun == nil || ctor {
			if s.Value != ast.NoExpr {
				g.expr(s.Value)
				g.p.EndStatement()
			}
			if g.fun == nil {
				return
			}
		}
		switch {
		case ctor:
			g.p.Append("return this")
		case s.Value == ast.NoExpr:
			g.p.Append("return null")
		default:
			g.p.Append("return ")
			g.expr(s.Value)
		}
		g.p.EndStatement()
	case *ast.ExprStmt:
		g.expr(s.X)
		g.p.EndStatement()
	case *ast.Assign:
		g.assign(s)
	case *ast.Inline:
		g.p.Append(s.Code, "\n")
		g.p.Flush()
	case *ast.PreInline:
		g.p.SetCodeMode(false)
		g.p.Append(s.Code, "\n")
		g.p.Flush()
		g.p.SetCodeMode(true)
	default:
		panic(fmt.Sprintf("codegen: unexpected statement %T", s))
	}
}

// function prints the parameter list and body of decl.
func (g *generator) function(decl *ast.FunctionDef) {
	outer := g.fun
	g.fun = decl
	g.p.Append("(", params(decl.Params), ") {\n")
	g.p.Flush()
	if pre := decl.PreVariables(); len(pre) > 0 {
		g.line("var ", strings.Join(pre, ", "))
	}
	g.body(decl.Body, decl.Kind() == ast.KindConstructor)
	g.p.Append("}")
	g.fun = outer
}

func params(ps []ast.Param) string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = callname.Variable(p.Name)
	}
	return strings.Join(names, ", ")
}

func (g *generator) classDef(decl *ast.ClassDef) {
	rec, ok := g.v.Class(decl.Name)
	if !ok {
		panic(fmt.Sprintf("codegen: class %q was not validated", decl.Name))
	}
	g.class = rec
	proto := rec.CallName + ".prototype."
	for _, m := range decl.Body {
		if m.Kind() == ast.KindConstructor {
			g.p.Append(proto, callname.Constructor(len(m.Params)), " = function")
		} else {
			g.p.Append(proto, callname.Function(m.Name, len(m.Params)), " = function")
		}
		g.function(m)
		g.p.EndStatement()
	}
	if decl.DefaultConstructor() {
		g.defaultConstructor(rec.CallName, rec.Super)
	}
	g.class = nil
}

// defaultConstructor prints the synthesized zero-argument constructor. It
// runs the superclass's zero-argument constructor when there is one.
func (g *generator) defaultConstructor(class, super string) {
	g.p.Append(class, ".prototype.", callname.Constructor(0), " = function() {\n")
	g.p.Flush()
	if super != "" && !callname.IsCoreClass(super) {
		sup := callname.Class(super) + ".prototype." + callname.Constructor(0)
		g.line("if (", sup, ") ", sup, ".call(this)")
	}
	g.line("return this")
	g.p.Append("}")
	g.p.EndStatement()
}

func (g *generator) assign(s *ast.Assign) {
	switch t := g.arena.Get(s.Target).(type) {
	case *ast.Var:
		if s.Declares() {
			g.p.Append("var ")
		}
		g.p.Append(callname.Variable(t.Name), " = ")
	case *ast.Field:
		g.p.Append("this.", callname.Field(g.class.Name, t.Name), " = ")
	case *ast.Global:
		g.p.Append(callname.Global(t.Name), " = ")
	default:
		panic(fmt.Sprintf("codegen: unexpected assignment target %T", t))
	}
	g.expr(s.Value)
	g.p.EndStatement()
}

// temp allocates a temporary variable declared ahead of the statement.
func (g *generator) temp() string {
	name := g.p.TempVariable()
	g.p.AppendPre("var ", name, ";\n")
	return name
}
