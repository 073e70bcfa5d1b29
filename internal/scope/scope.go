// Package scope tracks nested lexical scopes and variable visibility.
//
// Frames form a stack. A function scope hides every frame below it, so a
// function never sees its caller's locals or top-level variables; block
// frames nested inside the same function stay visible. When a function scope
// is popped, variables that were first declared in an inner frame and never
// in the function's own root frame become the function's pre-variables,
// declared once at the top of the emitted function body.
package scope

import (
	"slices"

	"github.com/quill-lang/quill/internal/ast"
)

// Function receives hoisted variables when its scope is exited.
type Function interface {
	AddPreVariable(name string)
}

type frameKind int

const (
	plainFrame frameKind = iota
	functionFrame
	blockFrame
)

type frame struct {
	kind  frameKind
	names []string // declaration order
	decls map[string]ast.Node
}

func newFrame(kind frameKind) *frame {
	return &frame{kind: kind, decls: make(map[string]ast.Node)}
}

// Stack is the scope stack of one validation session.
type Stack struct {
	frames []*frame

	// funStart is the index of the current function's root frame, or -1.
	funStart int
	fun      Function
	// inner collects variables of popped inner frames of the current
	// function, in the order they were first seen.
	inner []string
	// blocks counts open block frames of the current function, or of the
	// top level outside functions. outerBlocks holds the top-level count
	// while a function is open.
	blocks      int
	outerBlocks int
}

// New returns a stack holding a single top-level frame.
func New() *Stack {
	return &Stack{
		frames:   []*frame{newFrame(plainFrame)},
		funStart: -1,
	}
}

// PushScope opens a plain nested frame (if/while bodies and the like).
func (s *Stack) PushScope() {
	s.frames = append(s.frames, newFrame(plainFrame))
}

// PushFunctionScope opens the root frame of a function. Functions do not
// nest; entering one while already inside another is an internal error.
func (s *Stack) PushFunctionScope(fun Function) {
	if s.IsInsideFunction() {
		panic("scope: function scope entered while already inside a function")
	}
	s.frames = append(s.frames, newFrame(functionFrame))
	s.funStart = len(s.frames) - 1
	s.fun = fun
	s.inner = nil
	s.outerBlocks = s.blocks
	s.blocks = 0
}

// PushBlockScope opens the frame of a block passed to a call.
func (s *Stack) PushBlockScope() {
	s.frames = append(s.frames, newFrame(blockFrame))
	s.blocks++
}

// PopScope closes the innermost frame. Closing a function's root frame
// folds block-local declarations into the function's pre-variables.
func (s *Stack) PopScope() {
	if len(s.frames) <= 1 {
		panic("scope: pop of the top-level frame")
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]

	if top.kind == blockFrame {
		s.blocks--
	}

	if !s.IsInsideFunction() {
		return
	}
	if len(s.frames) > s.funStart {
		for _, name := range top.names {
			if !slices.Contains(s.inner, name) {
				s.inner = append(s.inner, name)
			}
		}
		return
	}

	// The function's root frame was popped.
	for _, name := range s.inner {
		if _, ok := top.decls[name]; !ok {
			s.fun.AddPreVariable(name)
		}
	}
	s.funStart = -1
	s.fun = nil
	s.inner = nil
	s.blocks = s.outerBlocks
	s.outerBlocks = 0
}

// Assign declares name in the innermost frame unless it is already visible.
// It reports whether this assignment declared the variable.
func (s *Stack) Assign(name string, decl ast.Node) bool {
	if s.IsDeclared(name) {
		return false
	}
	top := s.frames[len(s.frames)-1]
	top.decls[name] = decl
	top.names = append(top.names, name)
	return true
}

// DeclareParameter declares a function or block parameter in the innermost
// frame. Parameters are never hoisted into pre-variables.
func (s *Stack) DeclareParameter(name string, decl ast.Node) {
	s.frames[len(s.frames)-1].decls[name] = decl
}

// Unwind drops every frame above the top-level one without folding
// pre-variables. It restores a usable stack after an aborted walk.
func (s *Stack) Unwind() {
	s.frames = s.frames[:1]
	s.funStart = -1
	s.fun = nil
	s.inner = nil
	s.blocks = 0
	s.outerBlocks = 0
}

// IsDeclared reports whether name is visible from the innermost frame.
func (s *Stack) IsDeclared(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Lookup returns the declaring node of a visible variable.
func (s *Stack) Lookup(name string) (ast.Node, bool) {
	for i := len(s.frames) - 1; i >= s.lowest(); i-- {
		if decl, ok := s.frames[i].decls[name]; ok {
			return decl, true
		}
	}
	return nil, false
}

// IsDeclaredInCurrentFrame reports whether name was declared in the
// innermost frame itself.
func (s *Stack) IsDeclaredInCurrentFrame(name string) bool {
	_, ok := s.frames[len(s.frames)-1].decls[name]
	return ok
}

// IsFunctionRootFrame reports whether the innermost frame is the root frame
// of the current function.
func (s *Stack) IsFunctionRootFrame() bool {
	return s.IsInsideFunction() && len(s.frames)-1 == s.funStart
}

// IsInsideFunction reports whether a function scope is open.
func (s *Stack) IsInsideFunction() bool {
	return s.funStart >= 0
}

// IsInsideBlock reports whether a block scope is open in the current
// function. Blocks enclosing the function declaration do not count.
func (s *Stack) IsInsideBlock() bool {
	return s.blocks > 0
}

// Depth returns the number of open frames, the top-level frame included.
func (s *Stack) Depth() int {
	return len(s.frames)
}

func (s *Stack) lowest() int {
	if s.IsInsideFunction() {
		return s.funStart
	}
	return 0
}
