package validator

import (
	"fmt"
	"log/slog"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/callname"
	"github.com/quill-lang/quill/internal/types"
)

func (v *Validator) stmts(list []ast.Stmt) {
	for _, s := range list {
		v.stmt(s)
	}
}

func (v *Validator) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.ClassDef:
		v.classDef(s)
	case *ast.FunctionDef:
		v.functionDef(s)
	case *ast.If:
		v.expr(s.Cond)
		v.nested(s.Then)
		for _, arm := range s.ElseIfs {
			v.expr(arm.Cond)
			v.nested(arm.Body)
		}
		if s.Else != nil {
			v.nested(s.Else)
		}
	case *ast.While:
		v.expr(s.Cond)
		v.nested(s.Body)
	case *ast.Return:
		switch {
		case v.scope.IsInsideBlock():
			v.report(types.KindSemantic, types.DiagReturnInBlock, s.At,
				"Return is not allowed inside a block.")
		case !v.scope.IsInsideFunction():
			v.report(types.KindStrict, types.DiagReturnOutsideFunc, s.At,
				"Return outside of a function.")
		}
		v.expr(s.Value)
	case *ast.ExprStmt:
		v.expr(s.X)
	case *ast.Assign:
		v.assign(s)
	case *ast.Inline:
		v.requireAdmin(s.At, "Inline target code")
	case *ast.PreInline:
		v.requireAdmin(s.At, "Inline target code")
	default:
		panic(fmt.Sprintf("validator: unexpected statement %T", s))
	}
}

// nested validates a statement list in its own plain frame.
func (v *Validator) nested(list []ast.Stmt) {
	v.scope.PushScope()
	v.stmts(list)
	v.scope.PopScope()
}

func (v *Validator) requireAdmin(at ast.Offset, what string) {
	if !v.config.Admin {
		v.report(types.KindSemantic, types.DiagAdminOnly, at,
			"%s is only allowed in admin mode.", what)
	}
}

func (v *Validator) classDef(decl *ast.ClassDef) {
	if v.class != nil || v.scope.IsInsideFunction() {
		v.report(types.KindSemantic, types.DiagNestedClass, decl.At,
			"Class %q must be declared at the top level.", decl.Name)
		return
	}
	rec := v.declareClass(decl)
	v.class = rec
	for _, m := range decl.Body {
		v.memberDef(rec, m)
	}
	v.class = nil
}

func (v *Validator) memberDef(rec *ClassRecord, decl *ast.FunctionDef) {
	if callname.Fold(decl.Name) == ast.ConstructorName {
		decl.SetKind(ast.KindConstructor)
		switch {
		case rec.Extension:
			v.report(types.KindSemantic, types.DiagConstructorContext, decl.At,
				"Core class %q cannot declare constructors.", rec.Name)
		case !rec.DeclareConstructor(decl):
			v.report(types.KindSemantic, types.DiagDuplicateConstructor, decl.At,
				"Class %q already has a constructor with %d parameter(s).", rec.Name, len(decl.Params))
		}
	} else {
		decl.SetKind(ast.KindMethod)
		if !rec.DeclareMethod(decl) {
			v.report(types.KindSemantic, types.DiagDuplicateMethod, decl.At,
				"Method %q with %d parameter(s) is already declared in class %q.", decl.Name, len(decl.Params), rec.Name)
		}
		v.functions.Add(callname.Function(decl.Name, len(decl.Params)), decl.Name)
	}
	v.functionBody(decl)
}

func (v *Validator) functionDef(decl *ast.FunctionDef) {
	if v.scope.IsInsideFunction() {
		v.report(types.KindSemantic, types.DiagNestedFunction, decl.At,
			"Function %q cannot be declared inside another function.", decl.Name)
		return
	}
	decl.SetKind(ast.KindFunction)
	if callname.Fold(decl.Name) == ast.ConstructorName {
		v.report(types.KindSemantic, types.DiagConstructorContext, decl.At,
			"Constructors can only be declared inside a class.")
		return
	}

	cn := callname.Function(decl.Name, len(decl.Params))
	if _, exists := v.funs[cn]; exists {
		v.report(types.KindSemantic, types.DiagDuplicateFunction, decl.At,
			"Function %q with %d parameter(s) is already declared.", decl.Name, len(decl.Params))
	} else {
		v.funs[cn] = decl
		v.funOrder = append(v.funOrder, decl)
		v.functions.Add(cn, decl.Name)
		if v.TraceEnabled() {
			v.Trace("registered function", slog.String("function", cn))
		}
	}
	v.functionBody(decl)
}

func (v *Validator) functionBody(decl *ast.FunctionDef) {
	v.fun = decl
	v.scope.PushFunctionScope(decl)
	v.params(decl.Params, decl, false)
	v.stmts(decl.Body)
	v.scope.PopScope()
	v.fun = nil
}

// params declares parameters in the innermost frame. Block parameters may
// not shadow visible variables.
func (v *Validator) params(params []ast.Param, decl ast.Node, block bool) {
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		cn := callname.Variable(p.Name)
		if seen[cn] {
			v.report(types.KindSemantic, types.DiagDuplicateParameter, p.At,
				"Duplicate parameter %q.", p.Name)
			continue
		}
		seen[cn] = true
		if block && v.scope.IsDeclared(cn) {
			v.report(types.KindStrict, types.DiagShadowedVariable, p.At,
				"Block parameter %q shadows a variable of the enclosing scope.", p.Name)
		}
		v.scope.DeclareParameter(cn, decl)
	}
}

func (v *Validator) block(b *ast.BlockLit) {
	if b == nil {
		return
	}
	v.scope.PushBlockScope()
	v.params(b.Params, nil, true)
	v.stmts(b.Body)
	v.scope.PopScope()
}

func (v *Validator) assign(s *ast.Assign) {
	v.expr(s.Value)
	switch t := v.arena.Get(s.Target).(type) {
	case *ast.Var:
		declared := v.scope.Assign(callname.Variable(t.Name), s)
		s.SetDeclares(declared && (!v.scope.IsInsideFunction() || v.scope.IsFunctionRootFrame()))
	case *ast.Field:
		if v.requireClass(t.At, types.DiagFieldOutsideClass, "Field \"@"+t.Name+"\"") {
			v.class.RecordFieldAssignment(t.Name)
		}
	case *ast.Global:
		cn := callname.Global(t.Name)
		if !v.globalsAssigned[cn] {
			v.globalsAssigned[cn] = true
			v.globalOrder = append(v.globalOrder, cn)
		}
	default:
		v.report(types.KindSemantic, types.DiagIllegalAssignment, s.At,
			"Cannot assign to this expression.")
		v.expr(s.Target)
	}
}

// requireClass reports code unless the walk is inside a class method.
func (v *Validator) requireClass(at ast.Offset, code, what string) bool {
	if v.class != nil && v.fun != nil {
		return true
	}
	v.report(types.KindSemantic, code, at, "%s can only be used inside a class method.", what)
	return false
}

func (v *Validator) exprs(ids []ast.ExprID) {
	for _, id := range ids {
		v.expr(id)
	}
}

func (v *Validator) expr(id ast.ExprID) {
	if id == ast.NoExpr {
		return
	}
	v.arena.Rebalance(id)

	switch e := v.arena.Get(id).(type) {
	case *ast.Number, *ast.String, *ast.Bool, *ast.Nil:
	case *ast.SymbolLit:
		display := e.At.Text
		if display == "" {
			display = ":" + e.Name
		}
		v.symbols.Add(callname.Symbol(e.Name), display, e.Name)
	case *ast.This:
		v.requireClass(e.At, types.DiagThisOutsideClass, "This")
	case *ast.Var:
		if !v.scope.IsDeclared(callname.Variable(e.Name)) {
			v.report(types.KindSemantic, types.DiagVariableUnassigned, e.At,
				"Variable %q is used before it is assigned.", e.Name)
		}
	case *ast.Field:
		if v.requireClass(e.At, types.DiagFieldOutsideClass, "Field \"@"+e.Name+"\"") {
			v.class.RecordFieldUse(e.Name, e.At)
		}
	case *ast.Global:
		v.globalsUsed = append(v.globalsUsed, globalUse{
			callName: callname.Global(e.Name),
			display:  e.Name,
			at:       e.At,
		})
	case *ast.ArrayLit:
		v.exprs(e.Elems)
	case *ast.HashLit:
		for _, p := range e.Pairs {
			v.expr(p.Key)
			v.expr(p.Value)
		}
	case *ast.Call:
		v.exprs(e.Args)
		v.block(e.Block)
		v.call(e)
	case *ast.MethodCall:
		v.expr(e.Recv)
		v.exprs(e.Args)
		v.block(e.Block)
		v.methodCall(e)
	case *ast.SuperCall:
		v.exprs(e.Args)
		v.superCall(e)
	case *ast.New:
		v.exprs(e.Args)
		v.block(e.Block)
		v.deferred = append(v.deferred, newInstanceCheck{class: e.Class, arity: len(e.Args), at: e.At})
	case *ast.ForeignNew:
		v.requireAdmin(e.At, "Foreign instance creation")
		v.exprs(e.Args)
	case *ast.Binary:
		v.expr(e.Left)
		v.expr(e.Right)
	case *ast.Unary:
		v.expr(e.X)
	case *ast.Paren:
		v.expr(e.X)
	default:
		panic(fmt.Sprintf("validator: unexpected expression %T", e))
	}
}

// call records a receiverless call. Inside a class it may name a method
// declared later, so the decision waits for the late binder.
func (v *Validator) call(c *ast.Call) {
	cn := callname.Function(c.Name, len(c.Args))
	if v.class != nil {
		v.binder.RecordPendingCall(v.class, c, cn)
		return
	}
	v.pendingFuns = append(v.pendingFuns, pendingCall{
		callName: cn,
		display:  c.Name,
		arity:    len(c.Args),
		at:       c.At,
	})
}

func (v *Validator) methodCall(c *ast.MethodCall) {
	cn := callname.Function(c.Name, len(c.Args))
	if _, onThis := v.arena.Get(c.Recv).(*ast.This); onThis {
		if v.class != nil {
			v.class.RecordMethodUse(cn, c.Name, len(c.Args), c.At)
		}
		return
	}
	v.methodCalls = append(v.methodCalls, pendingCall{
		callName: cn,
		display:  c.Name,
		arity:    len(c.Args),
		at:       c.At,
	})
}

func (v *Validator) superCall(c *ast.SuperCall) {
	if v.class == nil || v.fun == nil || v.fun.Kind() != ast.KindConstructor {
		v.report(types.KindSemantic, types.DiagSuperContext, c.At,
			"Super can only be called inside a constructor.")
		return
	}
	v.deferred = append(v.deferred, superConstructorCheck{class: v.class, arity: len(c.Args), at: c.At})
}
