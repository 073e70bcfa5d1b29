package testutil

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// Golden fails the test with a unified diff if got differs from want.
func Golden(t testing.TB, want, got string) {
	t.Helper()
	if got == want {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		t.Fatalf("output mismatch (diff failed: %v)\n got:\n%s", err, got)
	}
	t.Fatalf("output mismatch:\n%s", diff)
}
