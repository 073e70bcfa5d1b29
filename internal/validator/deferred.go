package validator

import (
	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/callname"
	"github.com/quill-lang/quill/internal/types"
)

// deferredCheck is a check that needs every class to be known. The set of
// variants is closed; runDeferred matches on them.
type deferredCheck interface {
	deferred()
}

// superConstructorCheck verifies that super(args) in a constructor of
// class targets an existing superclass constructor.
type superConstructorCheck struct {
	class *ClassRecord
	arity int
	at    ast.Offset
}

// newInstanceCheck verifies that Class.new(args) targets an existing
// class constructor.
type newInstanceCheck struct {
	class string
	arity int
	at    ast.Offset
}

func (superConstructorCheck) deferred() {}
func (newInstanceCheck) deferred()      {}

func (v *Validator) runDeferred() {
	for _, d := range v.deferred {
		switch d := d.(type) {
		case superConstructorCheck:
			v.checkSuperConstructor(d)
		case newInstanceCheck:
			v.checkNewInstance(d)
		}
	}
	v.deferred = nil
}

func (v *Validator) checkSuperConstructor(d superConstructorCheck) {
	if d.class.Super == "" {
		v.report(types.KindSemantic, types.DiagSuperContext, d.at,
			"Class %q calls super but has no superclass.", d.class.Name)
		return
	}
	sup, ok := v.classes.lookup(d.class.Super)
	if !ok {
		// A missing superclass is already reported by endValidate; an
		// undeclared core superclass has no constructors to call.
		if callname.IsCoreClass(d.class.Super) {
			v.report(types.KindSemantic, types.DiagSuperConstructor, d.at,
				"Superclass %q of class %q is a core class without constructors.", d.class.Super, d.class.Name)
		}
		return
	}
	if !sup.HasConstructor(d.arity) {
		v.report(types.KindSemantic, types.DiagSuperConstructor, d.at,
			"Superclass %q has no constructor taking %d parameter(s).", sup.Name, d.arity)
	}
}

func (v *Validator) checkNewInstance(d newInstanceCheck) {
	rec, ok := v.classes.lookup(d.class)
	if !ok {
		if callname.IsCoreClass(d.class) {
			v.report(types.KindSemantic, types.DiagCoreClassConstructor, d.at,
				"Core class %q cannot be instantiated with new.", d.class)
			return
		}
		v.report(types.KindSemantic, types.DiagClassNotFound, d.at,
			"Class %q not found.", d.class)
		return
	}
	if rec.Extension && len(rec.ctors) == 0 {
		v.report(types.KindSemantic, types.DiagCoreClassConstructor, d.at,
			"Core class %q cannot be instantiated with new.", rec.Name)
		return
	}
	if !rec.HasConstructor(d.arity) {
		v.report(types.KindSemantic, types.DiagConstructorNotFound, d.at,
			"Class %q has no constructor taking %d parameter(s).", rec.Name, d.arity)
	}
}
