// Package callname builds CallNames: normalized, context-prefixed, lowercase
// identifiers used for every comparison and as generated-code symbols.
//
// Display names are never compared. Two names that differ only in case
// produce the same CallName, and names from different contexts (function,
// variable, field, global, symbol, class) never collide because each context
// has its own prefix.
package callname

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/cases"
)

// Context prefixes.
const (
	FunctionPrefix    = "f_"
	ConstructorPrefix = "new_"
	VariablePrefix    = "_var_"
	FieldPrefix       = "_fi_"
	GlobalPrefix      = "_gb_"
	SymbolPrefix      = "_sy_"
	ClassPrefix       = "_c_"

	// FieldSeparator joins the class and field parts of a field CallName.
	FieldSeparator = "_s"
)

// Root is the display name of the universal base class.
const Root = "Object"

// unsafeChars matches runs the target language does not accept in identifiers.
var unsafeChars = regexp2.MustCompile(`[^a-z0-9]`, regexp2.None)

// Fold returns the case-folded form of a display name.
// A Caser carries state, so each call gets its own.
func Fold(name string) string {
	return cases.Fold().String(name)
}

// mangle folds name and rewrites every character outside [a-z0-9] as an
// escape starting with an underscore, so distinct names never mangle to the
// same text: "_" becomes "__", ?, ! and = become "_q", "_b" and "_eq", and
// anything else becomes "_x<hex>_". No escape starts with "_s" or with
// "_" followed by a digit; Field and Function rely on that for their
// separators.
func mangle(name string) string {
	folded := Fold(name)
	out, err := unsafeChars.ReplaceFunc(folded, func(m regexp2.Match) string {
		switch s := m.String(); s {
		case "_":
			return "__"
		case "?":
			return "_q"
		case "!":
			return "_b"
		case "=":
			return "_eq"
		default:
			var b strings.Builder
			for _, r := range s {
				fmt.Fprintf(&b, "_x%x_", r)
			}
			return b.String()
		}
	}, -1, -1)
	if err != nil {
		// Only a match timeout can fail, and none is configured.
		return folded
	}
	return out
}

// Function returns the CallName of a function or method taking arity parameters.
// Methods and free functions share a namespace so that a late-bound call site
// can be resolved either way.
func Function(name string, arity int) string {
	return FunctionPrefix + mangle(name) + "_" + strconv.Itoa(arity)
}

// Constructor returns the CallName of a constructor taking arity parameters.
func Constructor(arity int) string {
	return ConstructorPrefix + strconv.Itoa(arity)
}

// Variable returns the CallName of a local variable.
func Variable(name string) string {
	return VariablePrefix + mangle(name)
}

// Field returns the CallName of a field. Fields are namespaced by their
// class: a subclass field with the same display name is a different field.
// The "_s" separator never occurs inside mangled text.
func Field(class, name string) string {
	return FieldPrefix + mangle(class) + FieldSeparator + mangle(name)
}

// Global returns the CallName of a global variable.
func Global(name string) string {
	return GlobalPrefix + mangle(name)
}

// Symbol returns the CallName of a literal symbol.
func Symbol(name string) string {
	return SymbolPrefix + mangle(name)
}

// Class returns the CallName of a class.
func Class(name string) string {
	return ClassPrefix + mangle(name)
}

// coreClasses are the built-in types a class declaration extends rather
// than creates.
var coreClasses = map[string]struct{}{
	"object":   {},
	"array":    {},
	"hash":     {},
	"string":   {},
	"number":   {},
	"boolean":  {},
	"nil":      {},
	"function": {},
	"symbol":   {},
}

// IsCoreClass reports whether name denotes a built-in type.
func IsCoreClass(name string) bool {
	_, ok := coreClasses[Fold(name)]
	return ok
}

// IsRoot reports whether name denotes the universal base class.
func IsRoot(name string) bool {
	return Fold(name) == Fold(Root)
}
