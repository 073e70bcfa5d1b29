package validator

import (
	"log/slog"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/callname"
	"github.com/quill-lang/quill/internal/types"
)

// ClassRecord is the merged view of every declaration of one class.
type ClassRecord struct {
	Name     string // display name of the first declaration
	CallName string
	Super    string // display name of the superclass, "" if none declared

	// Extension is set for core classes: declarations extend the
	// runtime's built-in type instead of creating a new one.
	Extension bool

	decls   []*ast.ClassDef
	methods map[string]*ast.FunctionDef
	order   []string // method CallNames in declaration order
	ctors   map[int]*ast.FunctionDef

	defaultCtor bool

	usedFields     []memberUse
	assignedFields map[string]bool
	usedMethods    []memberUse

	table *classTable
}

// memberUse is a field read or a this-method call awaiting endValidate.
type memberUse struct {
	callName string
	display  string
	arity    int
	at       ast.Offset
}

func newClassRecord(table *classTable, decl *ast.ClassDef) *ClassRecord {
	return &ClassRecord{
		Name:           decl.Name,
		CallName:       callname.Class(decl.Name),
		Extension:      callname.IsCoreClass(decl.Name),
		methods:        make(map[string]*ast.FunctionDef),
		ctors:          make(map[int]*ast.FunctionDef),
		assignedFields: make(map[string]bool),
		table:          table,
	}
}

// Declarations returns the class declarations merged into this record,
// primary first.
func (c *ClassRecord) Declarations() []*ast.ClassDef { return c.decls }

// Primary returns the first declaration of the class.
func (c *ClassRecord) Primary() *ast.ClassDef { return c.decls[0] }

// DeclareMethod registers a method under its CallName. It returns false if
// a method with that CallName already exists.
func (c *ClassRecord) DeclareMethod(decl *ast.FunctionDef) bool {
	name := callname.Function(decl.Name, len(decl.Params))
	if _, exists := c.methods[name]; exists {
		return false
	}
	c.methods[name] = decl
	c.order = append(c.order, name)
	return true
}

// DeclareConstructor registers a constructor under its arity. It returns
// false if a constructor of that arity already exists.
func (c *ClassRecord) DeclareConstructor(decl *ast.FunctionDef) bool {
	arity := len(decl.Params)
	if _, exists := c.ctors[arity]; exists {
		return false
	}
	c.ctors[arity] = decl
	return true
}

// HasOwnMethod reports whether the class itself declares callName.
func (c *ClassRecord) HasOwnMethod(callName string) bool {
	_, ok := c.methods[callName]
	return ok
}

// HasConstructor reports whether the class has a constructor of the given
// arity, the synthesized default included.
func (c *ClassRecord) HasConstructor(arity int) bool {
	if _, ok := c.ctors[arity]; ok {
		return true
	}
	return arity == 0 && c.defaultCtor
}

// Constructors returns the declared constructors keyed by arity.
func (c *ClassRecord) Constructors() map[int]*ast.FunctionDef { return c.ctors }

// DefaultConstructor reports whether endValidate synthesized a zero-argument
// constructor.
func (c *ClassRecord) DefaultConstructor() bool { return c.defaultCtor }

// Methods returns the declared method CallNames in declaration order.
func (c *ClassRecord) Methods() []string { return c.order }

// HasMethodInHierarchy reports whether the class or any superclass declares
// callName. A class without a declared superclass implicitly extends the
// root class once it has been declared.
func (c *ClassRecord) HasMethodInHierarchy(callName string) bool {
	seen := make(map[*ClassRecord]bool)
	for cur := c; cur != nil && !seen[cur]; cur = cur.superRecord() {
		seen[cur] = true
		if cur.HasOwnMethod(callName) {
			return true
		}
	}
	return false
}

// RecordFieldUse notes a read of field name. Only the first read of each
// field is kept.
func (c *ClassRecord) RecordFieldUse(name string, at ast.Offset) {
	cn := callname.Field(c.Name, name)
	for _, u := range c.usedFields {
		if u.callName == cn {
			return
		}
	}
	c.usedFields = append(c.usedFields, memberUse{callName: cn, display: name, at: at})
}

// RecordFieldAssignment notes an assignment to field name.
func (c *ClassRecord) RecordFieldAssignment(name string) {
	c.assignedFields[callname.Field(c.Name, name)] = true
}

// IsFieldAssigned reports whether the class itself assigns field name.
func (c *ClassRecord) IsFieldAssigned(name string) bool {
	return c.assignedFields[callname.Field(c.Name, name)]
}

// RecordMethodUse notes a call on this of the method callName.
func (c *ClassRecord) RecordMethodUse(callName, display string, arity int, at ast.Offset) {
	c.usedMethods = append(c.usedMethods, memberUse{callName: callName, display: display, arity: arity, at: at})
}

// SuperRecord returns the record of the effective superclass: the declared
// one, or the root class for a class that declares none.
func (c *ClassRecord) SuperRecord() (*ClassRecord, bool) {
	s := c.superRecord()
	return s, s != nil
}

func (c *ClassRecord) superRecord() *ClassRecord {
	if c.Super != "" {
		s, _ := c.table.lookup(c.Super)
		return s
	}
	if root, ok := c.table.root.Get(); ok && root != c {
		return root
	}
	return nil
}

// candidates lists the class's own methods for missing-method suggestions.
func (c *ClassRecord) candidates() []candidate {
	out := make([]candidate, 0, len(c.order))
	for _, cn := range c.order {
		m := c.methods[cn]
		out = append(out, candidate{name: m.Name, arity: len(m.Params)})
	}
	return out
}

// endValidate runs the class checks that need the whole program.
func (c *ClassRecord) endValidate(v *Validator) {
	// 1. default constructor
	if len(c.ctors) == 0 && !c.Extension {
		c.defaultCtor = true
		c.Primary().SetDefaultConstructor(true)
		v.Trace("synthesized default constructor", slog.String("class", c.Name))
	}

	// 2. superclass chain. Cycles are reported once by checkInheritance.
	if c.Super != "" {
		if _, ok := c.table.lookup(c.Super); !ok && !callname.IsCoreClass(c.Super) {
			v.report(types.KindSemantic, types.DiagSuperClassNotFound, c.Primary().At,
				"Superclass %q of class %q not found.", c.Super, c.Name)
		}
	}

	// 3. fields read but never assigned in this class
	for _, u := range c.usedFields {
		if c.assignedFields[u.callName] {
			continue
		}
		if owner := c.superAssigning(u.display); owner != nil {
			v.report(types.KindSemantic, types.DiagFieldPrivate, u.at,
				"Field \"@%s\" is used in class %q but only assigned in superclass %q; fields are private to the class that assigns them.",
				u.display, c.Name, owner.Name)
			continue
		}
		v.report(types.KindSemantic, types.DiagFieldUnassigned, u.at,
			"Field \"@%s\" is used but never assigned in class %q.", u.display, c.Name)
	}

	// 4. methods called on this
	for _, u := range c.usedMethods {
		if c.HasMethodInHierarchy(u.callName) {
			continue
		}
		s := missingFunctionSearch(u.display, u.arity, c.candidates())
		v.report(types.KindSemantic, types.DiagMethodNotFound, u.at,
			"Method %q not found in class %q or its superclasses.%s", u.display, c.Name, s.hint(u.arity))
	}
}

// superAssigning returns the nearest superclass that assigns field name.
func (c *ClassRecord) superAssigning(name string) *ClassRecord {
	seen := map[*ClassRecord]bool{c: true}
	for cur := c.superRecord(); cur != nil && !seen[cur]; cur = cur.superRecord() {
		seen[cur] = true
		if cur.IsFieldAssigned(name) {
			return cur
		}
	}
	return nil
}

// classTable holds every class record keyed by class CallName.
type classTable struct {
	byName map[string]*ClassRecord
	order  []*ClassRecord
	root   RootClass
}

func newClassTable() *classTable {
	return &classTable{byName: make(map[string]*ClassRecord)}
}

func (t *classTable) lookup(name string) (*ClassRecord, bool) {
	rec, ok := t.byName[callname.Class(name)]
	return rec, ok
}

func (t *classTable) add(rec *ClassRecord) {
	t.byName[rec.CallName] = rec
	t.order = append(t.order, rec)
	if callname.IsRoot(rec.Name) {
		t.root.Set(rec)
	}
}

// allCandidates lists the methods of every class, for calls whose receiver
// class is unknown.
func (t *classTable) allCandidates() []candidate {
	var out []candidate
	for _, rec := range t.order {
		out = append(out, rec.candidates()...)
	}
	return out
}

// hasMethodAnywhere reports whether any class declares callName.
func (t *classTable) hasMethodAnywhere(callName string) bool {
	for _, rec := range t.order {
		if rec.HasOwnMethod(callName) {
			return true
		}
	}
	return false
}
