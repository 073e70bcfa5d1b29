package types

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Kind classifies where a diagnostic came from.
type Kind int

const (
	KindSemantic Kind = iota // a validation rule was broken
	KindParse                // passed through from the external parser
	KindStrict               // only reported when strict mode is enabled
	KindInternal             // unexpected failure while walking the AST
)

func (k Kind) String() string {
	switch k {
	case KindSemantic:
		return "error"
	case KindParse:
		return "parse error"
	case KindStrict:
		return "strict"
	case KindInternal:
		return "internal error"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// UnknownLine marks a diagnostic with no usable line number.
const UnknownLine = -1

// Diagnostic represents an issue found while validating a program.
type Diagnostic struct {
	Kind    Kind
	Code    string // e.g., "variable-unassigned", "circular-inheritance"
	Message string // raw message, without location
	Source  string // source name, "" if unknown
	Line    int    // 1-based line number, UnknownLine if not applicable
}

// String returns the formatted message.
// Format: "source:line: message" with location parts omitted when unknown.
func (d Diagnostic) String() string {
	var b strings.Builder
	if d.Source != "" {
		b.WriteString(d.Source)
		if d.Line > 0 {
			fmt.Fprintf(&b, ":%d", d.Line)
		}
		b.WriteString(": ")
	} else if d.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", d.Line)
	}
	b.WriteString(d.Message)
	return b.String()
}

// SortDiagnostics returns a copy of diags stably ordered by (source, line).
// A diagnostic without a source name sorts under the most recent named
// diagnostic before it, so a dangling error stays next to its context.
func SortDiagnostics(diags []Diagnostic) []Diagnostic {
	type keyed struct {
		source string
		d      Diagnostic
	}
	items := make([]keyed, len(diags))
	last := ""
	for i, d := range diags {
		if d.Source != "" {
			last = d.Source
		}
		items[i] = keyed{source: last, d: d}
	}
	slices.SortStableFunc(items, func(a, b keyed) int {
		if c := cmp.Compare(a.source, b.source); c != 0 {
			return c
		}
		return cmp.Compare(a.d.Line, b.d.Line)
	})
	out := make([]Diagnostic, len(items))
	for i, it := range items {
		out[i] = it.d
	}
	return out
}

// Config controls strictness, privileged constructs and diagnostic filtering.
type Config struct {
	// Strict turns strict issues into reported diagnostics.
	Strict bool

	// Admin permits privileged constructs: inlined target code and
	// direct instance creation of foreign types.
	Admin bool

	// Ignore lists diagnostic codes to suppress entirely.
	// Supports glob patterns (e.g., "field-*").
	Ignore []string
}

// DefaultConfig returns the default configuration: lenient, unprivileged.
func DefaultConfig() Config {
	return Config{}
}

// StrictConfig returns a configuration that reports strict issues.
func StrictConfig() Config {
	return Config{Strict: true}
}

// ShouldReport returns true if a diagnostic with the given kind and code
// should be reported under this configuration. Parse and internal
// diagnostics are never filtered.
func (c Config) ShouldReport(kind Kind, code string) bool {
	switch kind {
	case KindParse, KindInternal:
		return true
	case KindStrict:
		if !c.Strict {
			return false
		}
	}
	return !slices.ContainsFunc(c.Ignore, func(pattern string) bool {
		return MatchGlob(pattern, code)
	})
}

// MatchGlob performs simple glob matching with * wildcard.
func MatchGlob(pattern, s string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(s, prefix)
	}
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok {
		return strings.HasSuffix(s, suffix)
	}
	return pattern == s
}
