// Package quill validates and compiles quill programs to JavaScript.
//
// Programs arrive already parsed, either built with the AST types
// re-exported here or decoded from the JSON form produced by an external
// parser (see ReadPrograms). A Session validates programs in submission
// order and, if no diagnostics were reported, prints them as one
// JavaScript text.
//
// Example:
//
//	s := quill.New(quill.WithStrict(true), quill.WithLogger(slog.Default()))
//	for _, f := range files {
//	    s.Add(f.Program, f.ParseErrors...)
//	}
//	out, diags := s.Compile()
package quill

import (
	"errors"
	"log/slog"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/types"
)

// ErrNoPrograms is returned when there is nothing to compile.
var ErrNoPrograms = errors.New("no programs provided")

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (classes, call bindings, programs).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = types.LevelTrace

// Syntax tree types accepted by a Session.
type (
	Program    = ast.Program
	ParseError = ast.ParseError
	Offset     = ast.Offset
)

// NewProgram returns an empty program named source.
func NewProgram(source string) *Program { return ast.NewProgram(source) }

// Diagnostic is a problem found in a program.
type Diagnostic = types.Diagnostic

// Kind classifies a Diagnostic.
type Kind = types.Kind

// Diagnostic kinds.
const (
	KindSemantic = types.KindSemantic
	KindParse    = types.KindParse
	KindStrict   = types.KindStrict
	KindInternal = types.KindInternal
)

// Config controls strictness, admin mode and ignored diagnostic codes.
type Config = types.Config

// Option configures a Session.
type Option func(*sessionConfig)

type sessionConfig struct {
	logger *slog.Logger
	config types.Config
}

// WithLogger sets the logger for debug/trace output.
// If not set, no logging occurs (zero overhead).
func WithLogger(logger *slog.Logger) Option {
	return func(c *sessionConfig) { c.logger = logger }
}

// WithConfig replaces the whole diagnostic configuration.
func WithConfig(cfg Config) Option {
	return func(c *sessionConfig) { c.config = cfg }
}

// WithStrict reports strict diagnostics (return outside a function,
// shadowing block parameters).
func WithStrict(strict bool) Option {
	return func(c *sessionConfig) { c.config.Strict = strict }
}

// WithAdmin permits inline target code and foreign instance creation.
func WithAdmin(admin bool) Option {
	return func(c *sessionConfig) { c.config.Admin = admin }
}

// WithIgnore suppresses diagnostic codes. Patterns may end or start
// with "*" (e.g., "field-*").
func WithIgnore(codes ...string) Option {
	return func(c *sessionConfig) { c.config.Ignore = append(c.config.Ignore, codes...) }
}

// DiagnosticCodes returns every diagnostic code with the phase that
// reports it.
func DiagnosticCodes() []types.DiagCodeInfo {
	return types.AllDiagnosticCodes()
}
