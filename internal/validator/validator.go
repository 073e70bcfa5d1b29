// Package validator checks programs for semantic errors before code
// generation.
//
// Programs are submitted one at a time with Validate and share a single
// session: top-level variables, functions and classes declared by one
// program are visible to the programs after it. Checks that need the whole
// session run once in Finalize.
//
// # Finalize Steps
//
//  1. Functions: free function calls resolve to declared functions
//  2. Globals: every global read is assigned somewhere
//  3. Classes: per-class checks (default constructor, superclass,
//     fields, this-method calls) and inheritance cycles
//  4. Methods: calls on arbitrary receivers name a method of some class
//  5. Late binding: receiverless calls inside classes become method
//     calls or free function calls
//  6. Deferred: super and new constructor arity checks
//
// Each step runs even if an earlier one failed internally.
//
// The validator records results on the AST through its mutators (call
// kinds, declaring assignments, hoisted variables, synthesized default
// constructors), and keeps symbol, function and class tables for code
// generation.
package validator

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/callname"
	"github.com/quill-lang/quill/internal/graph"
	"github.com/quill-lang/quill/internal/registry"
	"github.com/quill-lang/quill/internal/scope"
	"github.com/quill-lang/quill/internal/types"
)

// Validator holds the state of one validation session.
type Validator struct {
	types.Logger
	config types.Config

	symbols   *registry.Symbols
	functions *registry.Functions
	classes   *classTable

	// funs maps free function CallNames to their declarations.
	funs        map[string]*ast.FunctionDef
	funOrder    []*ast.FunctionDef
	pendingFuns []pendingCall

	// methodCalls are calls on receivers other than this.
	methodCalls []pendingCall

	globalsAssigned map[string]bool
	globalOrder     []string // assigned global CallNames, first assignment order
	globalsUsed     []globalUse

	binder   *LateBinder
	deferred []deferredCheck

	diagnostics []types.Diagnostic
	finalized   bool

	// walk state, valid during Validate
	scope  *scope.Stack
	arena  *ast.Arena
	source string
	class  *ClassRecord
	fun    *ast.FunctionDef
}

type pendingCall struct {
	callName string
	display  string
	arity    int
	at       ast.Offset
}

type globalUse struct {
	callName string
	display  string
	at       ast.Offset
}

// New returns a validator for a fresh session.
// If logger is nil, logging is disabled (zero overhead).
func New(config types.Config, logger *slog.Logger) *Validator {
	return &Validator{
		Logger:          types.Logger{L: logger},
		config:          config,
		symbols:         registry.NewSymbols(),
		functions:       registry.NewFunctions(),
		classes:         newClassTable(),
		funs:            make(map[string]*ast.FunctionDef),
		globalsAssigned: make(map[string]bool),
		binder:          NewLateBinder(types.ComponentLogger(logger, "binder")),
		scope:           scope.New(),
	}
}

// Validate checks one program. Parse errors are recorded as diagnostics
// and the program is not walked. An internal failure while walking is
// recorded as a single internal diagnostic; the session stays usable.
func (v *Validator) Validate(prog *ast.Program, parseErrs []ast.ParseError) {
	if v.finalized {
		v.Log(slog.LevelWarn, "validate after finalize ignored")
		return
	}
	if len(parseErrs) > 0 {
		for _, pe := range parseErrs {
			at := pe.At
			if at.Source == "" && prog != nil {
				at.Source = prog.Source
			}
			v.report(types.KindParse, types.DiagParseError, at, "%s", pe.Message)
		}
		return
	}
	if prog == nil {
		return
	}

	v.Log(slog.LevelDebug, "starting phase", slog.String("phase", "validate"),
		slog.String("source", prog.Source))

	v.arena = prog.Arena
	v.source = prog.Source
	v.guard("validate", func() { v.stmts(prog.Stmts) })
	v.arena = nil
	v.class = nil
	v.fun = nil

	v.Log(slog.LevelDebug, "phase complete", slog.String("phase", "validate"),
		slog.String("source", prog.Source),
		slog.Int("diagnostics", len(v.diagnostics)))
}

// Finalize runs the whole-session checks. It runs at most once; later
// calls do nothing. Afterwards the working state is dropped and only the
// tables needed for code generation remain.
func (v *Validator) Finalize() {
	if v.finalized {
		return
	}
	v.finalized = true

	v.step("functions", v.checkFunctionCalls)
	v.step("globals", v.checkGlobals)
	v.step("classes", v.endValidateClasses)
	v.step("methods", v.checkMethodCalls)
	v.step("late-binding", v.bindLateCalls)
	v.step("deferred", v.runDeferred)

	v.scope = nil
	v.pendingFuns = nil
	v.methodCalls = nil
	v.globalsUsed = nil

	v.Log(slog.LevelInfo, "validation complete",
		slog.Int("classes", len(v.classes.order)),
		slog.Int("functions", v.functions.Len()),
		slog.Int("symbols", v.symbols.Len()),
		slog.Int("diagnostics", len(v.diagnostics)))
}

// Finalized reports whether Finalize has run.
func (v *Validator) Finalized() bool { return v.finalized }

// Errors returns the reported diagnostics ordered by source and line.
func (v *Validator) Errors() []types.Diagnostic {
	return types.SortDiagnostics(v.diagnostics)
}

// Symbols returns the symbol registry.
func (v *Validator) Symbols() *registry.Symbols { return v.symbols }

// Functions returns the registry of declared functions and methods.
func (v *Validator) Functions() *registry.Functions { return v.functions }

// Classes returns the class records in first-declaration order.
func (v *Validator) Classes() []*ClassRecord { return v.classes.order }

// Class returns the record of a class by display name.
func (v *Validator) Class(name string) (*ClassRecord, bool) { return v.classes.lookup(name) }

// Root returns the root class record, if the root class was declared.
func (v *Validator) Root() (*ClassRecord, bool) { return v.classes.root.Get() }

// Globals returns the CallNames of assigned globals in first-assignment order.
func (v *Validator) Globals() []string { return v.globalOrder }

func (v *Validator) step(name string, fn func()) {
	v.Log(slog.LevelDebug, "starting phase", slog.String("phase", name))
	v.guard(name, fn)
	v.Log(slog.LevelDebug, "phase complete", slog.String("phase", name),
		slog.Int("diagnostics", len(v.diagnostics)))
}

// guard runs fn and turns a panic into one internal diagnostic.
func (v *Validator) guard(phase string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			v.Log(slog.LevelError, "internal failure",
				slog.String("phase", phase),
				slog.Any("panic", r))
			if v.scope != nil {
				v.scope.Unwind()
			}
			v.report(types.KindInternal, types.DiagInternalError, ast.Offset{Source: v.source},
				"Internal error during %s: %v", phase, r)
		}
	}()
	fn()
}

// report records a diagnostic if the configuration allows it.
func (v *Validator) report(kind types.Kind, code string, at ast.Offset, format string, args ...any) {
	if !v.config.ShouldReport(kind, code) {
		return
	}
	source := at.Source
	if source == "" {
		source = v.source
	}
	line := at.Line
	if line <= 0 {
		line = types.UnknownLine
	}
	v.diagnostics = append(v.diagnostics, types.Diagnostic{
		Kind:    kind,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Source:  source,
		Line:    line,
	})
}

// Finalize step 1.
func (v *Validator) checkFunctionCalls() {
	for _, c := range v.pendingFuns {
		if _, ok := v.funs[c.callName]; ok {
			continue
		}
		s := missingFunctionSearch(c.display, c.arity, v.functionCandidates())
		v.report(types.KindSemantic, types.DiagFunctionNotFound, c.at,
			"Function %q not found.%s", c.display, s.hint(c.arity))
	}
}

func (v *Validator) functionCandidates() []candidate {
	out := make([]candidate, len(v.funOrder))
	for i, f := range v.funOrder {
		out[i] = candidate{name: f.Name, arity: len(f.Params)}
	}
	return out
}

// Finalize step 2.
func (v *Validator) checkGlobals() {
	reported := make(map[string]bool)
	for _, g := range v.globalsUsed {
		if v.globalsAssigned[g.callName] || reported[g.callName] {
			continue
		}
		reported[g.callName] = true
		v.report(types.KindSemantic, types.DiagGlobalUnassigned, g.at,
			"Global \"$%s\" is used but never assigned.", g.display)
	}
}

// Finalize step 3.
func (v *Validator) endValidateClasses() {
	v.checkInheritance()
	for _, rec := range v.classes.order {
		rec.endValidate(v)
	}
}

// checkInheritance reports each inheritance cycle once, at the class of
// the cycle that sorts first.
func (v *Validator) checkInheritance() {
	g := graph.New[string]()
	for _, rec := range v.classes.order {
		g.AddNode(rec.CallName)
		if sup, ok := rec.SuperRecord(); ok && rec.Super != "" {
			g.AddEdge(rec.CallName, sup.CallName)
		}
	}
	for _, cycle := range g.FindCycles() {
		slices.Sort(cycle)
		names := make([]string, len(cycle))
		for i, cn := range cycle {
			names[i] = v.classes.byName[cn].Name
		}
		first := v.classes.byName[cycle[0]]
		v.report(types.KindSemantic, types.DiagCircularInheritance, first.Primary().At,
			"Circular inheritance between classes %q.", names)
	}
}

// Finalize step 4.
func (v *Validator) checkMethodCalls() {
	for _, c := range v.methodCalls {
		if v.classes.hasMethodAnywhere(c.callName) {
			continue
		}
		s := missingFunctionSearch(c.display, c.arity, v.classes.allCandidates())
		v.report(types.KindSemantic, types.DiagMethodNotFound, c.at,
			"Method %q not found in any class.%s", c.display, s.hint(c.arity))
	}
}

// Finalize step 5.
func (v *Validator) bindLateCalls() {
	unbound := v.binder.Resolve(v.funs)
	if len(unbound) > 0 {
		v.Log(slog.LevelWarn, "unbound calls", slog.Int("count", len(unbound)))
	}
	for _, u := range unbound {
		cands := append(u.class.candidates(), v.functionCandidates()...)
		s := missingFunctionSearch(u.display, u.arity, cands)
		v.report(types.KindSemantic, types.DiagCallableNotFound, u.calls[0].At,
			"Function or method %q with %d parameter(s) not found in class %q (%d call(s)).%s",
			u.display, u.arity, u.class.Name, len(u.calls), s.hint(u.arity))
	}
}

// declareClass merges decl into the record of its class, creating the
// record for a first declaration.
func (v *Validator) declareClass(decl *ast.ClassDef) *ClassRecord {
	rec, exists := v.classes.lookup(decl.Name)
	if !exists {
		rec = newClassRecord(v.classes, decl)
		decl.SetPrimary(true)
		v.classes.add(rec)
		if v.TraceEnabled() {
			v.Trace("registered class",
				slog.String("class", rec.Name),
				slog.Bool("extension", rec.Extension))
		}
	}
	rec.decls = append(rec.decls, decl)
	decl.SetExtension(rec.Extension)

	if decl.Super == "" {
		return rec
	}
	switch {
	case callname.Class(decl.Super) == rec.CallName:
		v.report(types.KindSemantic, types.DiagSelfInheritance, decl.At,
			"Class %q cannot extend itself.", decl.Name)
	case rec.Extension && !callname.IsRoot(decl.Super):
		v.report(types.KindSemantic, types.DiagExtensionSuperClass, decl.At,
			"Core class %q cannot extend %q.", decl.Name, decl.Super)
	case rec.Super == "":
		if !rec.Extension {
			rec.Super = decl.Super
		}
	case callname.Class(rec.Super) != callname.Class(decl.Super):
		v.report(types.KindSemantic, types.DiagSuperClassConflict, decl.At,
			"Class %q declared with superclass %q, but earlier with %q.", decl.Name, decl.Super, rec.Super)
	}
	return rec
}
