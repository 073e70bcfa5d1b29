package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/testutil"
	"github.com/quill-lang/quill/internal/types"
)

// run validates the programs in order, finalizes, and returns the sorted
// diagnostics.
func run(t *testing.T, cfg types.Config, progs ...*testutil.Builder) (*Validator, []types.Diagnostic) {
	t.Helper()
	v := New(cfg, nil)
	for _, p := range progs {
		v.Validate(p.Program(), nil)
	}
	v.Finalize()
	return v, v.Errors()
}

func codes(diags []types.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

func TestCleanProgram(t *testing.T) {
	p := testutil.NewProgram("a.q")
	p.Add(
		p.Def("add", []string{"a", "b"}, p.Return(p.Bin(p.Var("a"), ast.OpAdd, p.Var("b")))),
		p.Set("x", p.Call("add", p.Num("1"), p.Num("2"))),
		p.Expr(p.Call("add", p.Var("x"), p.Num("3"))),
	)
	v, diags := run(t, types.DefaultConfig(), p)
	assert.Empty(t, diags)
	assert.Equal(t, 1, v.Functions().Len())
}

func TestSiblingFunctionScopes(t *testing.T) {
	p := testutil.NewProgram("a.q")
	p.Add(
		p.Def("f", nil, p.Set("x", p.Num("1"))),
		p.At(2).Def("g", nil, p.Return(p.Var("x"))),
	)
	_, diags := run(t, types.DefaultConfig(), p)
	require.Len(t, diags, 1)
	assert.Equal(t, types.DiagVariableUnassigned, diags[0].Code)
	assert.Equal(t, 2, diags[0].Line)
}

func TestFunctionDoesNotSeeTopLevelVariables(t *testing.T) {
	p := testutil.NewProgram("a.q")
	p.Add(
		p.Set("x", p.Num("1")),
		p.Def("f", nil, p.Return(p.Var("x"))),
	)
	_, diags := run(t, types.DefaultConfig(), p)
	assert.Equal(t, []string{types.DiagVariableUnassigned}, codes(diags))
}

func TestTopLevelVariablesShareSession(t *testing.T) {
	a := testutil.NewProgram("a.q")
	a.Add(a.Set("x", a.Num("1")))
	b := testutil.NewProgram("b.q")
	b.Add(b.Expr(b.Var("x")))

	_, diags := run(t, types.DefaultConfig(), a, b)
	assert.Empty(t, diags)
}

func TestDeclaringAssignments(t *testing.T) {
	p := testutil.NewProgram("a.q")
	top := p.Set("x", p.Num("1"))
	again := p.Set("x", p.Num("2"))
	root := p.Set("a", p.Num("1"))
	inner := p.Set("y", p.Num("2"))
	f := p.Def("f", nil,
		root,
		p.If(p.Bool(true), []ast.Stmt{inner}),
		p.Return(p.Var("a")),
	)
	p.Add(top, again, f)

	_, diags := run(t, types.DefaultConfig(), p)
	require.Empty(t, diags)
	assert.True(t, top.Declares())
	assert.False(t, again.Declares())
	assert.True(t, root.Declares())
	assert.False(t, inner.Declares(), "inner declaration is hoisted instead")
	assert.Equal(t, []string{"_var_y"}, f.PreVariables())
}

func TestIfBodyVariableNotVisibleAfterwards(t *testing.T) {
	p := testutil.NewProgram("a.q")
	p.Add(
		p.If(p.Bool(true), []ast.Stmt{p.Set("y", p.Num("1"))}),
		p.Expr(p.Var("y")),
	)
	_, diags := run(t, types.DefaultConfig(), p)
	assert.Equal(t, []string{types.DiagVariableUnassigned}, codes(diags))
}

func TestDuplicates(t *testing.T) {
	t.Run("constructor arity", func(t *testing.T) {
		p := testutil.NewProgram("a.q")
		p.Add(p.Class("Point", "",
			p.Def("new", []string{"a"}),
			p.Def("new", []string{"b"}),
			p.Def("new", []string{"a", "b"}),
		))
		_, diags := run(t, types.DefaultConfig(), p)
		assert.Equal(t, []string{types.DiagDuplicateConstructor}, codes(diags))
	})

	t.Run("method", func(t *testing.T) {
		p := testutil.NewProgram("a.q")
		p.Add(p.Class("Point", "",
			p.Def("x", nil),
			p.Def("X", nil),
			p.Def("x", []string{"v"}),
		))
		_, diags := run(t, types.DefaultConfig(), p)
		assert.Equal(t, []string{types.DiagDuplicateMethod}, codes(diags))
	})

	t.Run("function", func(t *testing.T) {
		p := testutil.NewProgram("a.q")
		p.Add(p.Def("f", nil), p.Def("f", nil), p.Def("f", []string{"a"}))
		_, diags := run(t, types.DefaultConfig(), p)
		assert.Equal(t, []string{types.DiagDuplicateFunction}, codes(diags))
	})

	t.Run("parameter", func(t *testing.T) {
		p := testutil.NewProgram("a.q")
		p.Add(p.Def("f", []string{"a", "A"}))
		_, diags := run(t, types.DefaultConfig(), p)
		assert.Equal(t, []string{types.DiagDuplicateParameter}, codes(diags))
	})
}

func TestCircularInheritanceReportedOnce(t *testing.T) {
	p := testutil.NewProgram("a.q")
	p.Add(
		p.Class("A", "B"),
		p.Class("B", "A"),
	)
	_, diags := run(t, types.DefaultConfig(), p)
	assert.Equal(t, []string{types.DiagCircularInheritance}, codes(diags))
}

func TestInheritanceDeclarationErrors(t *testing.T) {
	tests := []struct {
		name    string
		classes func(p *testutil.Builder) []ast.Stmt
		want    []string
	}{
		{
			name: "missing superclass",
			classes: func(p *testutil.Builder) []ast.Stmt {
				return []ast.Stmt{p.Class("A", "Missing")}
			},
			want: []string{types.DiagSuperClassNotFound},
		},
		{
			name: "core superclass needs no declaration",
			classes: func(p *testutil.Builder) []ast.Stmt {
				return []ast.Stmt{p.Class("List", "Array")}
			},
		},
		{
			name: "self",
			classes: func(p *testutil.Builder) []ast.Stmt {
				return []ast.Stmt{p.Class("A", "a")}
			},
			want: []string{types.DiagSelfInheritance},
		},
		{
			name: "conflict between declarations",
			classes: func(p *testutil.Builder) []ast.Stmt {
				return []ast.Stmt{p.Class("B", ""), p.Class("C", ""), p.Class("A", "B"), p.Class("A", "C")}
			},
			want: []string{types.DiagSuperClassConflict},
		},
		{
			name: "later declaration supplies superclass",
			classes: func(p *testutil.Builder) []ast.Stmt {
				return []ast.Stmt{p.Class("B", ""), p.Class("A", ""), p.Class("A", "B")}
			},
		},
		{
			name: "core class extends non-root",
			classes: func(p *testutil.Builder) []ast.Stmt {
				return []ast.Stmt{p.Class("B", ""), p.Class("Array", "B")}
			},
			want: []string{types.DiagExtensionSuperClass},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testutil.NewProgram("a.q")
			p.Add(tt.classes(p)...)
			_, diags := run(t, types.DefaultConfig(), p)
			if len(tt.want) == 0 {
				assert.Empty(t, diags)
				return
			}
			assert.Equal(t, tt.want, codes(diags))
		})
	}
}

func TestLateBinding(t *testing.T) {
	t.Run("method declared after the call", func(t *testing.T) {
		p := testutil.NewProgram("a.q")
		call := p.Call("helper")
		p.Add(p.Class("A", "",
			p.Def("run", nil, p.Expr(call)),
			p.Def("helper", nil),
		))
		_, diags := run(t, types.DefaultConfig(), p)
		require.Empty(t, diags)
		assert.True(t, p.Get(call).(*ast.Call).IsMethod())
	})

	t.Run("inherited method", func(t *testing.T) {
		p := testutil.NewProgram("a.q")
		call := p.Call("helper", p.Num("1"))
		p.Add(
			p.Class("A", "B", p.Def("run", nil, p.Expr(call))),
			p.Class("B", "", p.Def("helper", []string{"x"})),
		)
		_, diags := run(t, types.DefaultConfig(), p)
		require.Empty(t, diags)
		assert.True(t, p.Get(call).(*ast.Call).IsMethod())
	})

	t.Run("root class method", func(t *testing.T) {
		p := testutil.NewProgram("a.q")
		call := p.Call("inspect")
		p.Add(
			p.Class("A", "", p.Def("run", nil, p.Expr(call))),
			p.Class("Object", "", p.Def("inspect", nil)),
		)
		_, diags := run(t, types.DefaultConfig(), p)
		require.Empty(t, diags)
		assert.True(t, p.Get(call).(*ast.Call).IsMethod())
	})

	t.Run("free function", func(t *testing.T) {
		p := testutil.NewProgram("a.q")
		call := p.Call("helper")
		p.Add(
			p.Class("A", "", p.Def("run", nil, p.Expr(call))),
			p.Def("helper", nil),
		)
		_, diags := run(t, types.DefaultConfig(), p)
		require.Empty(t, diags)
		assert.False(t, p.Get(call).(*ast.Call).IsMethod())
	})

	t.Run("neither", func(t *testing.T) {
		p := testutil.NewProgram("a.q")
		p.Add(p.Class("A", "",
			p.Def("run", nil, p.Expr(p.Call("nope", p.Num("1")))),
			p.Def("walk", nil, p.Expr(p.Call("nope", p.Num("2")))),
		))
		_, diags := run(t, types.DefaultConfig(), p)
		require.Len(t, diags, 1)
		assert.Equal(t, types.DiagCallableNotFound, diags[0].Code)
		assert.Contains(t, diags[0].Message, "2 call(s)")
		assert.Contains(t, diags[0].Message, "1 parameter(s)")
	})
}

func TestDiagnosticsSortedBySource(t *testing.T) {
	b := testutil.NewProgram("b.q")
	b.Add(b.Expr(b.Var("late")))
	a := testutil.NewProgram("a.q")
	a.At(9).Add(a.Expr(a.Var("later")))
	a.At(3).Add(a.Expr(a.Var("early")))

	_, diags := run(t, types.DefaultConfig(), b, a)
	require.Len(t, diags, 3)
	assert.Equal(t, "a.q", diags[0].Source)
	assert.Equal(t, 3, diags[0].Line)
	assert.Equal(t, "a.q", diags[1].Source)
	assert.Equal(t, 9, diags[1].Line)
	assert.Equal(t, "b.q", diags[2].Source)
}

func TestFields(t *testing.T) {
	t.Run("assigned", func(t *testing.T) {
		p := testutil.NewProgram("a.q")
		p.Add(p.Class("A", "",
			p.Def("new", nil, p.Assign(p.Field("x"), p.Num("1"))),
			p.Def("x", nil, p.Return(p.Field("x"))),
		))
		_, diags := run(t, types.DefaultConfig(), p)
		assert.Empty(t, diags)
	})

	t.Run("never assigned", func(t *testing.T) {
		p := testutil.NewProgram("a.q")
		p.Add(p.Class("A", "",
			p.Def("x", nil, p.Return(p.Field("x"))),
			p.Def("y", nil, p.Return(p.Field("x"))),
		))
		_, diags := run(t, types.DefaultConfig(), p)
		assert.Equal(t, []string{types.DiagFieldUnassigned}, codes(diags))
	})

	t.Run("assigned only in superclass", func(t *testing.T) {
		p := testutil.NewProgram("a.q")
		p.Add(
			p.Class("A", "", p.Def("new", nil, p.Assign(p.Field("x"), p.Num("1")))),
			p.Class("B", "A", p.Def("x", nil, p.Return(p.Field("x")))),
		)
		_, diags := run(t, types.DefaultConfig(), p)
		require.Len(t, diags, 1)
		assert.Equal(t, types.DiagFieldPrivate, diags[0].Code)
		assert.Contains(t, diags[0].Message, "private")
		assert.Contains(t, diags[0].Message, `"A"`)
	})

	t.Run("outside class", func(t *testing.T) {
		p := testutil.NewProgram("a.q")
		p.Add(
			p.Assign(p.Field("x"), p.Num("1")),
			p.Def("f", nil, p.Return(p.Field("x"))),
		)
		_, diags := run(t, types.DefaultConfig(), p)
		assert.Equal(t, []string{types.DiagFieldOutsideClass, types.DiagFieldOutsideClass}, codes(diags))
	})
}

func TestMissingFunctionSuggestions(t *testing.T) {
	t.Run("wrong arity wins over accessor", func(t *testing.T) {
		p := testutil.NewProgram("a.q")
		p.Add(
			p.Def("getWidth", nil),
			p.Def("width", []string{"w"}),
			p.Expr(p.Call("width")),
		)
		_, diags := run(t, types.DefaultConfig(), p)
		require.Len(t, diags, 1)
		assert.Equal(t, types.DiagFunctionNotFound, diags[0].Code)
		assert.Contains(t, diags[0].Message, "wrong number of parameters")
	})

	t.Run("accessor", func(t *testing.T) {
		p := testutil.NewProgram("a.q")
		p.Add(
			p.Def("getWidth", nil),
			p.Expr(p.Call("width")),
		)
		_, diags := run(t, types.DefaultConfig(), p)
		require.Len(t, diags, 1)
		assert.Contains(t, diags[0].Message, `Did you mean "getWidth"?`)
	})

	t.Run("none", func(t *testing.T) {
		p := testutil.NewProgram("a.q")
		p.Add(p.Expr(p.Call("width")))
		_, diags := run(t, types.DefaultConfig(), p)
		require.Len(t, diags, 1)
		assert.Equal(t, `Function "width" not found.`, diags[0].Message)
	})
}

func TestMethodCalls(t *testing.T) {
	t.Run("on this", func(t *testing.T) {
		p := testutil.NewProgram("a.q")
		p.Add(p.Class("A", "",
			p.Def("run", nil, p.Expr(p.Send(p.This(), "missing"))),
		))
		_, diags := run(t, types.DefaultConfig(), p)
		assert.Equal(t, []string{types.DiagMethodNotFound}, codes(diags))
	})

	t.Run("on any receiver", func(t *testing.T) {
		p := testutil.NewProgram("a.q")
		p.Add(
			p.Class("A", "", p.Def("size", nil)),
			p.Set("a", p.New("A")),
			p.Expr(p.Send(p.Var("a"), "size")),
			p.Expr(p.Send(p.Var("a"), "length")),
		)
		_, diags := run(t, types.DefaultConfig(), p)
		assert.Equal(t, []string{types.DiagMethodNotFound}, codes(diags))
	})
}

func TestConstructors(t *testing.T) {
	t.Run("default constructor", func(t *testing.T) {
		p := testutil.NewProgram("a.q")
		cls := p.Class("A", "")
		ext := p.Class("Array", "", p.Def("first", nil))
		p.Add(cls, ext, p.Expr(p.New("A")))
		v, diags := run(t, types.DefaultConfig(), p)
		require.Empty(t, diags)
		assert.True(t, cls.DefaultConstructor())
		assert.False(t, ext.DefaultConstructor())
		assert.True(t, ext.Extension())

		rec, ok := v.Class("a")
		require.True(t, ok)
		assert.True(t, rec.HasConstructor(0))
	})

	t.Run("new arity", func(t *testing.T) {
		p := testutil.NewProgram("a.q")
		p.Add(
			p.Class("A", "", p.Def("new", []string{"x"})),
			p.Expr(p.New("A", p.Num("1"))),
			p.Expr(p.New("A")),
			p.Expr(p.New("Missing")),
			p.Expr(p.New("Array")),
		)
		_, diags := run(t, types.DefaultConfig(), p)
		assert.Equal(t, []string{
			types.DiagConstructorNotFound,
			types.DiagClassNotFound,
			types.DiagCoreClassConstructor,
		}, codes(diags))
	})

	t.Run("constructor contexts", func(t *testing.T) {
		p := testutil.NewProgram("a.q")
		p.Add(
			p.Def("new", nil),
			p.Class("String", "", p.Def("new", nil)),
		)
		_, diags := run(t, types.DefaultConfig(), p)
		assert.Equal(t, []string{types.DiagConstructorContext, types.DiagConstructorContext}, codes(diags))
	})

	t.Run("super", func(t *testing.T) {
		p := testutil.NewProgram("a.q")
		p.Add(
			p.Class("A", "", p.Def("new", []string{"x"})),
			p.Class("B", "A", p.Def("new", nil, p.Expr(p.Super(p.Num("1"))))),
			p.Class("C", "A", p.Def("new", nil, p.Expr(p.Super()))),
			p.Class("D", "", p.Def("new", nil, p.Expr(p.Super()))),
			p.Class("E", "", p.Def("run", nil, p.Expr(p.Super()))),
		)
		_, diags := run(t, types.DefaultConfig(), p)
		assert.Equal(t, []string{
			types.DiagSuperContext, // E: not in a constructor
			types.DiagSuperConstructor,
			types.DiagSuperContext, // D: no superclass
		}, codes(diags))
	})
}

func TestGlobals(t *testing.T) {
	p := testutil.NewProgram("a.q")
	p.Add(
		p.Expr(p.Global("count")),
		p.Expr(p.Global("count")),
		p.Expr(p.Global("total")),
		p.Def("f", nil, p.Assign(p.Global("total"), p.Num("0"))),
	)
	v, diags := run(t, types.DefaultConfig(), p)
	assert.Equal(t, []string{types.DiagGlobalUnassigned}, codes(diags))
	assert.Equal(t, []string{"_gb_total"}, v.Globals())
}

func TestContextErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(p *testutil.Builder) []ast.Stmt
		want  []string
	}{
		{
			name: "nested class",
			build: func(p *testutil.Builder) []ast.Stmt {
				return []ast.Stmt{p.Def("f", nil, p.Class("A", ""))}
			},
			want: []string{types.DiagNestedClass},
		},
		{
			name: "nested function",
			build: func(p *testutil.Builder) []ast.Stmt {
				return []ast.Stmt{p.Def("f", nil, p.Def("g", nil))}
			},
			want: []string{types.DiagNestedFunction},
		},
		{
			name: "this outside class",
			build: func(p *testutil.Builder) []ast.Stmt {
				return []ast.Stmt{p.Expr(p.This())}
			},
			want: []string{types.DiagThisOutsideClass},
		},
		{
			name: "return in block",
			build: func(p *testutil.Builder) []ast.Stmt {
				call := p.WithBlock(p.Call("each"), []string{"x"}, p.Return(p.Var("x")))
				return []ast.Stmt{p.Def("each", nil), p.Def("f", nil, p.Expr(call))}
			},
			want: []string{types.DiagReturnInBlock},
		},
		{
			name: "illegal assignment target",
			build: func(p *testutil.Builder) []ast.Stmt {
				return []ast.Stmt{p.Assign(p.Num("1"), p.Num("2"))}
			},
			want: []string{types.DiagIllegalAssignment},
		},
		{
			name: "inline without admin",
			build: func(p *testutil.Builder) []ast.Stmt {
				return []ast.Stmt{p.Inline("debugger;"), p.PreInline("var x;"), p.Expr(p.Foreign("Date"))}
			},
			want: []string{types.DiagAdminOnly, types.DiagAdminOnly, types.DiagAdminOnly},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testutil.NewProgram("a.q")
			p.Add(tt.build(p)...)
			_, diags := run(t, types.DefaultConfig(), p)
			assert.Equal(t, tt.want, codes(diags))
		})
	}
}

func TestAdminMode(t *testing.T) {
	p := testutil.NewProgram("a.q")
	p.Add(p.Inline("debugger;"), p.PreInline("var x;"), p.Expr(p.Foreign("Date")))
	_, diags := run(t, types.Config{Admin: true}, p)
	assert.Empty(t, diags)
}

func TestStrictMode(t *testing.T) {
	build := func() *testutil.Builder {
		p := testutil.NewProgram("a.q")
		p.Add(
			p.Def("each", nil),
			p.Set("x", p.Num("1")),
			p.Expr(p.WithBlock(p.Call("each"), []string{"x"})),
			p.Return(ast.NoExpr),
		)
		return p
	}

	_, diags := run(t, types.DefaultConfig(), build())
	assert.Empty(t, diags)

	_, diags = run(t, types.StrictConfig(), build())
	assert.Equal(t, []string{types.DiagShadowedVariable, types.DiagReturnOutsideFunc}, codes(diags))
	for _, d := range diags {
		assert.Equal(t, types.KindStrict, d.Kind)
	}
}

func TestIgnoredCodes(t *testing.T) {
	p := testutil.NewProgram("a.q")
	p.Add(p.Expr(p.Var("x")), p.Expr(p.Global("g")))
	_, diags := run(t, types.Config{Ignore: []string{"variable-*"}}, p)
	assert.Equal(t, []string{types.DiagGlobalUnassigned}, codes(diags))
}

func TestBlocks(t *testing.T) {
	p := testutil.NewProgram("a.q")
	call := p.WithBlock(p.Send(p.Var("items"), "each"), []string{"item"},
		p.Set("last", p.Var("item")),
	)
	f := p.Def("f", []string{"items"}, p.Expr(call))
	p.Add(p.Class("Array", "", p.Def("each", nil)), f)

	_, diags := run(t, types.DefaultConfig(), p)
	require.Empty(t, diags)
	assert.Equal(t, []string{"_var_last"}, f.PreVariables(), "block params are not hoisted")
}

func TestSymbolsRegistered(t *testing.T) {
	p := testutil.NewProgram("a.q")
	p.Add(p.Expr(p.Array(p.Sym("red"), p.Sym("Red"), p.Sym("blue"))))
	v, diags := run(t, types.DefaultConfig(), p)
	require.Empty(t, diags)

	entries := v.Symbols().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "_sy_red", entries[0].CallName)
	assert.Equal(t, ":red", entries[0].Display)
	assert.Equal(t, "_sy_blue", entries[1].CallName)
}

func TestExpressionsRebalanced(t *testing.T) {
	p := testutil.NewProgram("a.q")
	// as parsed: a * (b + c), greedy right
	sum := p.Bin(p.Var("a"), ast.OpMul, p.Bin(p.Var("b"), ast.OpAdd, p.Var("c")))
	p.Add(p.Set("a", p.Num("1")), p.Set("b", p.Num("2")), p.Set("c", p.Num("3")), p.Expr(sum))

	_, diags := run(t, types.DefaultConfig(), p)
	require.Empty(t, diags)
	root, ok := p.Get(sum).(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, root.Op)
}

func TestParseErrors(t *testing.T) {
	p := testutil.NewProgram("a.q")
	p.Add(p.Expr(p.Var("never-walked")))

	v := New(types.DefaultConfig(), nil)
	v.Validate(p.Program(), []ast.ParseError{
		{At: ast.Offset{Line: 4}, Message: "unexpected end"},
	})
	v.Finalize()

	diags := v.Errors()
	require.Len(t, diags, 1)
	assert.Equal(t, types.KindParse, diags[0].Kind)
	assert.Equal(t, "a.q:4: unexpected end", diags[0].String())
}

func TestInternalErrorRecovered(t *testing.T) {
	bad := testutil.NewProgram("bad.q")
	bad.Add(bad.Def("f", nil, &ast.ExprStmt{X: 99}))
	good := testutil.NewProgram("good.q")
	good.Add(good.Def("g", nil, good.Return(good.Num("1"))))

	v := New(types.DefaultConfig(), nil)
	require.NotPanics(t, func() {
		v.Validate(bad.Program(), nil)
		v.Validate(good.Program(), nil)
		v.Finalize()
	})

	diags := v.Errors()
	require.Len(t, diags, 1)
	assert.Equal(t, types.KindInternal, diags[0].Kind)
	assert.Equal(t, types.DiagInternalError, diags[0].Code)
	assert.Equal(t, "bad.q", diags[0].Source)
}

func TestFinalizeRunsOnce(t *testing.T) {
	p := testutil.NewProgram("a.q")
	p.Add(p.Expr(p.Call("missing")))

	v := New(types.DefaultConfig(), nil)
	v.Validate(p.Program(), nil)
	v.Finalize()
	v.Finalize()
	assert.Len(t, v.Errors(), 1)
	assert.True(t, v.Finalized())

	// Submissions after finalize are ignored.
	v.Validate(p.Program(), nil)
	assert.Len(t, v.Errors(), 1)
}

func TestFunctionDeclaredInsideBlockMayReturn(t *testing.T) {
	p := testutil.NewProgram("a.q")
	p.Add(
		p.Def("each", nil),
		p.Expr(p.WithBlock(p.Call("each"), nil,
			p.At(2).Def("inner", nil, p.At(3).Return(p.Num("1"))),
		)),
	)
	_, diags := run(t, types.DefaultConfig(), p)
	assert.Empty(t, diags)
}

func TestPunctuatedNamesDoNotCollide(t *testing.T) {
	p := testutil.NewProgram("a.q")
	p.Add(
		p.Def("empty?", nil, p.Expr(p.Bool(true))),
		p.At(2).Def("empty_q", nil, p.Expr(p.Bool(false))),
		p.Expr(p.Call("empty?")),
		p.Expr(p.Call("empty_q")),
	)
	v, diags := run(t, types.DefaultConfig(), p)
	assert.Empty(t, diags)
	assert.Equal(t, 2, v.Functions().Len())
}

func TestRootClassNewRejectedWhetherDeclaredOrNot(t *testing.T) {
	bare := testutil.NewProgram("a.q")
	bare.Add(bare.Expr(bare.New("Object")))
	_, diags := run(t, types.DefaultConfig(), bare)
	assert.Equal(t, []string{types.DiagCoreClassConstructor}, codes(diags))

	reopened := testutil.NewProgram("b.q")
	reopened.Add(
		reopened.Class("Object", "", reopened.Def("hello", nil)),
		reopened.At(2).Expr(reopened.New("Object")),
	)
	_, diags = run(t, types.DefaultConfig(), reopened)
	assert.Equal(t, []string{types.DiagCoreClassConstructor}, codes(diags))
}
