package validator

import (
	"fmt"
	"strings"

	"github.com/quill-lang/quill/internal/callname"
)

// candidate is a declared function or method considered when a call
// cannot be resolved.
type candidate struct {
	name  string
	arity int
}

type suggestionKind int

const (
	noSuggestion suggestionKind = iota
	wrongArity
	otherName
)

// suggestion is the outcome of missingFunctionSearch.
type suggestion struct {
	kind    suggestionKind
	name    string // display name of the suggested candidate
	arities []int  // declared arities, for wrongArity
}

// hint renders the suggestion as a sentence to append to a message.
func (s suggestion) hint(arity int) string {
	switch s.kind {
	case wrongArity:
		parts := make([]string, len(s.arities))
		for i, a := range s.arities {
			parts[i] = fmt.Sprint(a)
		}
		return fmt.Sprintf(" %q is declared with %s parameter(s) but called with %d; wrong number of parameters.",
			s.name, strings.Join(parts, " or "), arity)
	case otherName:
		return fmt.Sprintf(" Did you mean %q?", s.name)
	default:
		return ""
	}
}

// missingFunctionSearch looks for the most likely intended target of an
// unresolved call. A candidate with the same name and another arity wins
// over an accessor-style alternative: "getFoo" and "setFoo" for "foo", or
// "foo" for "getFoo" and "setFoo".
func missingFunctionSearch(name string, arity int, cands []candidate) suggestion {
	folded := callname.Fold(name)

	var same suggestion
	for _, c := range cands {
		if callname.Fold(c.name) == folded && c.arity != arity {
			if same.kind == noSuggestion {
				same = suggestion{kind: wrongArity, name: c.name}
			}
			same.arities = append(same.arities, c.arity)
		}
	}
	if same.kind != noSuggestion {
		return same
	}

	alts := alternativeNames(folded)
	for _, c := range cands {
		cf := callname.Fold(c.name)
		for _, alt := range alts {
			if cf == alt {
				return suggestion{kind: otherName, name: c.name}
			}
		}
	}
	return suggestion{}
}

// alternativeNames returns the accessor-style spellings of a folded name.
func alternativeNames(folded string) []string {
	if len(folded) > 3 && (strings.HasPrefix(folded, "get") || strings.HasPrefix(folded, "set")) {
		return []string{folded[3:]}
	}
	return []string{"get" + folded, "set" + folded}
}
