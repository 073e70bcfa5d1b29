package quill

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/quill-lang/quill/internal/codegen"
	"github.com/quill-lang/quill/internal/types"
	"github.com/quill-lang/quill/internal/validator"
)

// Session validates programs in submission order and compiles them
// together. Every program sees the classes, functions and symbols of the
// programs added before it; late-bound names may refer to later ones.
//
// A Session is not safe for concurrent use.
type Session struct {
	log types.Logger

	v     *validator.Validator
	progs []*Program

	compiled bool
	out      string
	diags    []Diagnostic
}

// New returns an empty Session.
func New(opts ...Option) *Session {
	cfg := sessionConfig{config: types.DefaultConfig()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Session{
		log: types.Logger{L: cfg.logger},
		v:   validator.New(cfg.config, componentLogger(cfg.logger, "validator")),
	}
}

// Add validates prog. Parse errors reported for prog by the external
// parser become diagnostics and prog itself is not walked.
// Programs added after Compile are ignored. A nil prog contributes only
// its parse errors.
func (s *Session) Add(prog *Program, parseErrs ...ParseError) {
	if s.compiled {
		source := ""
		if prog != nil {
			source = prog.Source
		}
		s.log.Log(slog.LevelWarn, "program added after compile, ignoring",
			slog.String("source", source))
		return
	}
	if prog != nil {
		s.progs = append(s.progs, prog)
	}
	s.v.Validate(prog, parseErrs)
}

// Len returns the number of programs added.
func (s *Session) Len() int { return len(s.progs) }

// Compile finalizes validation and returns the generated JavaScript.
// If any diagnostic was reported, no code is generated and out is empty.
// Subsequent calls return the same result.
func (s *Session) Compile() (out string, diags []Diagnostic) {
	if s.compiled {
		return s.out, slices.Clone(s.diags)
	}
	s.compiled = true

	s.v.Finalize()
	s.diags = s.v.Errors()
	if len(s.diags) > 0 {
		s.log.Log(slog.LevelInfo, "compilation failed",
			slog.Int("programs", len(s.progs)),
			slog.Int("diagnostics", len(s.diags)))
		return "", slices.Clone(s.diags)
	}

	s.out, s.diags = s.generate()
	return s.out, slices.Clone(s.diags)
}

// generate runs code generation, turning a failure into a single
// internal diagnostic so no partial output escapes.
func (s *Session) generate() (out string, diags []Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Log(slog.LevelError, "code generation failed", slog.Any("panic", r))
			out = ""
			diags = []Diagnostic{{
				Kind:    types.KindInternal,
				Code:    types.DiagInternalError,
				Message: fmt.Sprintf("internal error during code generation: %v", r),
				Line:    types.UnknownLine,
			}}
		}
	}()
	return codegen.Generate(s.v, s.progs, componentLogger(s.log.L, "codegen")), nil
}

// Diagnostics returns the diagnostics of the last Compile, sorted by
// source and line.
func (s *Session) Diagnostics() []Diagnostic {
	return slices.Clone(s.diags)
}

// Classes describes every class declared so far, in declaration order.
// Call after Compile for constructor and default-constructor details.
func (s *Session) Classes() []ClassInfo {
	recs := s.v.Classes()
	out := make([]ClassInfo, 0, len(recs))
	for _, rec := range recs {
		info := ClassInfo{
			Name:               rec.Name,
			CallName:           rec.CallName,
			Super:              rec.Super,
			Extension:          rec.Extension,
			Methods:            slices.Clone(rec.Methods()),
			DefaultConstructor: rec.DefaultConstructor(),
			Declarations:       len(rec.Declarations()),
		}
		for arity := range rec.Constructors() {
			info.Constructors = append(info.Constructors, arity)
		}
		slices.Sort(info.Constructors)
		out = append(out, info)
	}
	return out
}

// ClassInfo is a read-only description of a validated class.
type ClassInfo struct {
	Name               string
	CallName           string
	Super              string // "" when the class extends the root implicitly
	Extension          bool   // reopens a core class
	Methods            []string
	Constructors       []int // declared constructor arities
	DefaultConstructor bool
	Declarations       int // number of class bodies merged into this class
}

// Compile validates progs in order and compiles them.
func Compile(progs []*Program, opts ...Option) (string, []Diagnostic) {
	s := New(opts...)
	for _, p := range progs {
		s.Add(p)
	}
	return s.Compile()
}
