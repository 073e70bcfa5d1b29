package ast

// Stmt is a statement or declaration.
type Stmt interface {
	Node
	stmt()
}

func (*ClassDef) stmt()    {}
func (*FunctionDef) stmt() {}
func (*If) stmt()          {}
func (*While) stmt()       {}
func (*Return) stmt()      {}
func (*ExprStmt) stmt()    {}
func (*Assign) stmt()      {}
func (*Inline) stmt()      {}
func (*PreInline) stmt()   {}

// ClassDef declares a class, or reopens one declared elsewhere.
type ClassDef struct {
	Base
	Name  string
	Super string // "" when no superclass is written
	Body  []*FunctionDef

	primary     bool
	extension   bool
	defaultCtor bool
}

// SetPrimary marks this declaration as the first one seen for its class.
// Only the primary declaration emits the class constructor.
func (c *ClassDef) SetPrimary(v bool) { c.primary = v }

// Primary reports whether this is the first declaration of its class.
func (c *ClassDef) Primary() bool { return c.primary }

// SetExtension marks the class as extending a built-in type.
func (c *ClassDef) SetExtension(v bool) { c.extension = v }

// Extension reports whether the class extends a built-in type.
func (c *ClassDef) Extension() bool { return c.extension }

// SetDefaultConstructor requests emission of a synthesized zero-argument
// constructor.
func (c *ClassDef) SetDefaultConstructor(v bool) { c.defaultCtor = v }

// DefaultConstructor reports whether a zero-argument constructor was synthesized.
func (c *ClassDef) DefaultConstructor() bool { return c.defaultCtor }

// FuncKind says what a FunctionDef turned out to be.
type FuncKind int

const (
	KindFunction FuncKind = iota
	KindMethod
	KindConstructor
)

// ConstructorName is the method name that declares a constructor.
const ConstructorName = "new"

// Param is a function or block parameter.
type Param struct {
	At   Offset
	Name string
}

// FunctionDef declares a free function, a method, or a constructor.
type FunctionDef struct {
	Base
	Name   string
	Params []Param
	Body   []Stmt

	kind    FuncKind
	preVars []string
}

// SetKind records what the declaration is, given where it appeared.
func (f *FunctionDef) SetKind(k FuncKind) { f.kind = k }

// Kind returns the kind recorded by SetKind.
func (f *FunctionDef) Kind() FuncKind { return f.kind }

// IsMethod reports whether the function was declared inside a class,
// constructors included.
func (f *FunctionDef) IsMethod() bool { return f.kind != KindFunction }

// AddPreVariable records a variable CallName that must be declared at the
// top of the function body. Duplicates are ignored.
func (f *FunctionDef) AddPreVariable(name string) {
	for _, v := range f.preVars {
		if v == name {
			return
		}
	}
	f.preVars = append(f.preVars, name)
}

// PreVariables returns the hoisted variable CallNames in declaration order.
func (f *FunctionDef) PreVariables() []string { return f.preVars }

// ElseIf is one "elsif" arm of an If.
type ElseIf struct {
	At   Offset
	Cond ExprID
	Body []Stmt
}

// If is a conditional with optional elsif arms and else body.
type If struct {
	Base
	Cond    ExprID
	Then    []Stmt
	ElseIfs []ElseIf
	Else    []Stmt
}

// While loops while Cond is truthy, or until it is when Until is set.
type While struct {
	Base
	Cond  ExprID
	Body  []Stmt
	Until bool
}

// Return leaves the enclosing function. Value is NoExpr for a bare return.
type Return struct {
	Base
	Value ExprID
}

// ExprStmt evaluates an expression for its effects.
type ExprStmt struct {
	Base
	X ExprID
}

// Assign stores Value into Target.
type Assign struct {
	Base
	Target ExprID
	Value  ExprID

	declares bool
}

// SetDeclares marks the assignment as the declaring one for a local variable.
func (a *Assign) SetDeclares(v bool) { a.declares = v }

// Declares reports whether the assignment declares its local variable.
func (a *Assign) Declares() bool { return a.declares }

// Inline is raw target code copied into the statement region (admin only).
type Inline struct {
	Base
	Code string
}

// PreInline is raw target code copied into the pre-code region (admin only).
type PreInline struct {
	Base
	Code string
}
