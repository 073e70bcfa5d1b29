package types

// Diagnostic codes emitted by validation and finalize.
// Centralizing these prevents silent breakage from typos in string literals.

// Pass-boundary codes.
const (
	DiagParseError    = "parse-error"
	DiagInternalError = "internal-error"
)

// Scope and variable codes.
const (
	DiagVariableUnassigned = "variable-unassigned"
	DiagGlobalUnassigned   = "global-unassigned"
	DiagDuplicateParameter = "duplicate-parameter"
	DiagShadowedVariable   = "shadowed-variable"
	DiagIllegalAssignment  = "illegal-assignment"
)

// Declaration codes.
const (
	DiagNestedClass          = "nested-class"
	DiagNestedFunction       = "nested-function"
	DiagDuplicateFunction    = "duplicate-function"
	DiagDuplicateMethod      = "duplicate-method"
	DiagDuplicateConstructor = "duplicate-constructor"
	DiagConstructorContext   = "constructor-context"
	DiagSuperClassConflict   = "super-class-conflict"
	DiagSuperClassNotFound   = "super-class-not-found"
	DiagSelfInheritance      = "self-inheritance"
	DiagCircularInheritance  = "circular-inheritance"
	DiagExtensionSuperClass  = "extension-super-class"
)

// Class member codes.
const (
	DiagFieldOutsideClass = "field-outside-class"
	DiagFieldUnassigned   = "field-unassigned"
	DiagFieldPrivate      = "field-private"
	DiagThisOutsideClass  = "this-outside-class"
	DiagMethodNotFound    = "method-not-found"
)

// Call codes.
const (
	DiagFunctionNotFound     = "function-not-found"
	DiagCallableNotFound     = "function-or-method-not-found"
	DiagWrongArity           = "wrong-arity"
	DiagSuperContext         = "super-context"
	DiagSuperConstructor     = "super-constructor-not-found"
	DiagClassNotFound        = "class-not-found"
	DiagConstructorNotFound  = "constructor-not-found"
	DiagCoreClassConstructor = "core-class-constructor"
)

// Statement context codes.
const (
	DiagReturnInBlock     = "return-in-block"
	DiagReturnOutsideFunc = "return-outside-function"
	DiagAdminOnly         = "admin-only"
)

// DiagCodeInfo describes a diagnostic code and the phase that emits it.
type DiagCodeInfo struct {
	Code  string
	Phase string
}

// AllDiagnosticCodes returns all known diagnostic codes grouped by phase.
func AllDiagnosticCodes() []DiagCodeInfo {
	return []DiagCodeInfo{
		// Boundaries
		{Code: DiagParseError, Phase: "parser"},
		{Code: DiagInternalError, Phase: "boundary"},
		// Validate
		{Code: DiagVariableUnassigned, Phase: "validate"},
		{Code: DiagDuplicateParameter, Phase: "validate"},
		{Code: DiagShadowedVariable, Phase: "validate"},
		{Code: DiagIllegalAssignment, Phase: "validate"},
		{Code: DiagNestedClass, Phase: "validate"},
		{Code: DiagNestedFunction, Phase: "validate"},
		{Code: DiagDuplicateFunction, Phase: "validate"},
		{Code: DiagDuplicateMethod, Phase: "validate"},
		{Code: DiagDuplicateConstructor, Phase: "validate"},
		{Code: DiagConstructorContext, Phase: "validate"},
		{Code: DiagSuperClassConflict, Phase: "validate"},
		{Code: DiagSelfInheritance, Phase: "validate"},
		{Code: DiagExtensionSuperClass, Phase: "validate"},
		{Code: DiagFieldOutsideClass, Phase: "validate"},
		{Code: DiagThisOutsideClass, Phase: "validate"},
		{Code: DiagSuperContext, Phase: "validate"},
		{Code: DiagReturnInBlock, Phase: "validate"},
		{Code: DiagReturnOutsideFunc, Phase: "validate"},
		{Code: DiagAdminOnly, Phase: "validate"},
		// Finalize
		{Code: DiagFunctionNotFound, Phase: "finalize"},
		{Code: DiagGlobalUnassigned, Phase: "finalize"},
		{Code: DiagSuperClassNotFound, Phase: "finalize"},
		{Code: DiagCircularInheritance, Phase: "finalize"},
		{Code: DiagFieldUnassigned, Phase: "finalize"},
		{Code: DiagFieldPrivate, Phase: "finalize"},
		{Code: DiagMethodNotFound, Phase: "finalize"},
		{Code: DiagCallableNotFound, Phase: "finalize"},
		{Code: DiagWrongArity, Phase: "finalize"},
		{Code: DiagSuperConstructor, Phase: "finalize"},
		{Code: DiagClassNotFound, Phase: "finalize"},
		{Code: DiagConstructorNotFound, Phase: "finalize"},
		{Code: DiagCoreClassConstructor, Phase: "finalize"},
	}
}
