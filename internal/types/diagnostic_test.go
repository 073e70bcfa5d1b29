package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern string
		s       string
		want    bool
	}{
		{"*", "anything", true},
		{"*", "", true},
		{"field-*", "field-private", true},
		{"field-*", "field-", true},
		{"field-*", "method-not-found", false},
		{"*-not-found", "method-not-found", true},
		{"*-not-found", "field-private", false},
		{"exact", "exact", true},
		{"exact", "other", false},
		{"", "", true},
		{"", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.s, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchGlob(tt.pattern, tt.s))
		})
	}
}

func TestDiagnosticString(t *testing.T) {
	tests := []struct {
		name string
		d    Diagnostic
		want string
	}{
		{"full", Diagnostic{Source: "a.q", Line: 3, Message: "boom"}, "a.q:3: boom"},
		{"no line", Diagnostic{Source: "a.q", Line: UnknownLine, Message: "boom"}, "a.q: boom"},
		{"no source", Diagnostic{Line: 7, Message: "boom"}, "line 7: boom"},
		{"nothing", Diagnostic{Line: UnknownLine, Message: "boom"}, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.String())
		})
	}
}

func TestSortDiagnosticsBySourceThenLine(t *testing.T) {
	diags := []Diagnostic{
		{Source: "b.q", Line: 5, Message: "second"},
		{Source: "a.q", Line: 1, Message: "first"},
		{Source: "b.q", Line: 2, Message: "between"},
	}
	got := SortDiagnostics(diags)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Message)
	assert.Equal(t, "between", got[1].Message)
	assert.Equal(t, "second", got[2].Message)

	// Input is left untouched.
	assert.Equal(t, "second", diags[0].Message)
}

func TestSortDiagnosticsUnnamedInheritsPrevious(t *testing.T) {
	diags := []Diagnostic{
		{Source: "c.q", Line: 4, Message: "c4"},
		{Source: "", Line: 9, Message: "dangling"},
		{Source: "a.q", Line: 1, Message: "a1"},
	}
	got := SortDiagnostics(diags)
	require.Len(t, got, 3)
	assert.Equal(t, "a1", got[0].Message)
	assert.Equal(t, "c4", got[1].Message)
	assert.Equal(t, "dangling", got[2].Message)
}

func TestConfigShouldReport(t *testing.T) {
	lenient := DefaultConfig()
	assert.True(t, lenient.ShouldReport(KindSemantic, DiagFieldPrivate))
	assert.False(t, lenient.ShouldReport(KindStrict, DiagReturnOutsideFunc))

	strict := StrictConfig()
	assert.True(t, strict.ShouldReport(KindStrict, DiagReturnOutsideFunc))

	ignoring := Config{Ignore: []string{"field-*"}}
	assert.False(t, ignoring.ShouldReport(KindSemantic, DiagFieldPrivate))
	assert.True(t, ignoring.ShouldReport(KindSemantic, DiagMethodNotFound))
	assert.True(t, ignoring.ShouldReport(KindParse, "field-x"), "parse errors are never ignored")
}
