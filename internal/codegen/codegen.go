// Package codegen prints validated programs as JavaScript.
//
// Output targets an opaque runtime object, quill.runtime, which provides
// core class constructors, symbols, hashes and the method-missing hook.
// Generate must only run on a finalized validation session that reported
// no diagnostics: it relies on every name being resolved.
//
// The pre-code region holds, in order: inlined pre-code fragments, core
// class aliases, the symbol table, global declarations, class skeletons
// in inheritance order, method-missing stubs on the root prototype, and
// the function name table. The statement region holds the programs in
// submission order.
package codegen

import (
	"encoding/json"
	"log/slog"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/callname"
	"github.com/quill-lang/quill/internal/graph"
	"github.com/quill-lang/quill/internal/printer"
	"github.com/quill-lang/quill/internal/types"
	"github.com/quill-lang/quill/internal/validator"
)

// Runtime is the target expression of the runtime object.
const Runtime = "quill.runtime"

var coreClasses = []string{"object", "array", "hash", "string", "number", "boolean", "nil", "function", "symbol"}

type generator struct {
	types.Logger

	p     *printer.Printer
	v     *validator.Validator
	arena *ast.Arena

	class *validator.ClassRecord
	fun   *ast.FunctionDef
}

// Generate prints progs, in order, using the tables of the finalized
// validator v.
// If logger is nil, logging is disabled (zero overhead).
func Generate(v *validator.Validator, progs []*ast.Program, logger *slog.Logger) string {
	g := &generator{
		Logger: types.Logger{L: logger},
		p:      printer.New(),
		v:      v,
	}

	g.Log(slog.LevelDebug, "starting phase", slog.String("phase", "codegen"))
	for _, prog := range progs {
		g.arena = prog.Arena
		g.stmts(prog.Stmts)
		if g.TraceEnabled() {
			g.Trace("printed program", slog.String("source", prog.Source))
		}
	}

	g.p.SetCodeMode(false)
	g.coreAliases()
	g.symbolTable()
	g.globals()
	g.classSkeletons()
	g.methodStubs()
	g.nameTable()
	g.p.SetCodeMode(true)

	out := g.p.String()
	g.Log(slog.LevelDebug, "phase complete", slog.String("phase", "codegen"),
		slog.Int("bytes", len(out)))
	return out
}

func (g *generator) line(parts ...string) {
	g.p.Append(parts...)
	g.p.EndStatement()
}

func (g *generator) coreAliases() {
	for _, name := range coreClasses {
		g.line("var ", callname.Class(name), " = ", Runtime, ".core(", quote(name), ")")
	}
}

func (g *generator) symbolTable() {
	for _, s := range g.v.Symbols().Entries() {
		g.line("var ", s.CallName, " = ", Runtime, ".symbol(", quote(s.Literal), ")")
	}
}

func (g *generator) globals() {
	for _, cn := range g.v.Globals() {
		g.line("var ", cn, " = null")
	}
}

// classSkeletons declares the constructor function and prototype chain of
// every non-core class, superclasses first.
func (g *generator) classSkeletons() {
	dep := graph.New[string]()
	byName := make(map[string]*validator.ClassRecord)
	for _, rec := range g.v.Classes() {
		if rec.Extension {
			continue
		}
		byName[rec.CallName] = rec
		dep.AddNode(rec.CallName)
		if sup, ok := rec.SuperRecord(); ok && !sup.Extension {
			dep.AddEdge(rec.CallName, sup.CallName)
		}
	}
	order, _ := dep.ResolutionOrder()
	for _, cn := range order {
		rec := byName[cn]
		g.p.Append("function ", cn, "() {}\n")
		g.p.Flush()
		g.line(cn, ".prototype = Object.create(", superName(rec), ".prototype)")
		g.line(cn, ".prototype.constructor = ", cn)
	}
}

// methodStubs installs a method-missing handler on the root prototype for
// every method name, so a call on an object lacking the method reaches
// the runtime hook instead of failing with a type error.
func (g *generator) methodStubs() {
	root, hasRoot := g.v.Root()
	seen := make(map[string]bool)
	for _, rec := range g.v.Classes() {
		for _, cn := range rec.Methods() {
			if seen[cn] || (hasRoot && root.HasOwnMethod(cn)) {
				continue
			}
			seen[cn] = true
			g.line(callname.Class(callname.Root), ".prototype.", cn, " = ", Runtime, ".missing(", quote(cn), ")")
		}
	}
}

func (g *generator) nameTable() {
	for _, e := range g.v.Functions().Entries() {
		g.line(Runtime, ".name(", quote(e.CallName), ", ", quote(e.Display), ")")
	}
}

// superName returns the CallName of the effective superclass of rec.
func superName(rec *validator.ClassRecord) string {
	if rec.Super != "" {
		return callname.Class(rec.Super)
	}
	return callname.Class(callname.Root)
}

func quote(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		// strings always marshal
		panic(err)
	}
	return string(b)
}
