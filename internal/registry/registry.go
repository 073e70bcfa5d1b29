// Package registry records every literal symbol and every function or
// method display name declared in a program. The tables only grow; code
// generation reads them to materialize the runtime lookup tables.
package registry

// Entry is one registered name.
type Entry struct {
	CallName string
	Display  string
}

// Functions maps function and method CallNames to display names.
type Functions struct {
	names map[string]string
	order []string
}

// NewFunctions returns an empty function registry.
func NewFunctions() *Functions {
	return &Functions{names: make(map[string]string)}
}

// Add registers a CallName. The first display name recorded wins.
func (f *Functions) Add(callName, display string) {
	if _, ok := f.names[callName]; ok {
		return
	}
	f.names[callName] = display
	f.order = append(f.order, callName)
}

// Display returns the display name registered for callName.
func (f *Functions) Display(callName string) (string, bool) {
	d, ok := f.names[callName]
	return d, ok
}

// Len returns the number of registered names.
func (f *Functions) Len() int { return len(f.order) }

// Entries returns the registered names in registration order.
func (f *Functions) Entries() []Entry {
	out := make([]Entry, len(f.order))
	for i, cn := range f.order {
		out[i] = Entry{CallName: cn, Display: f.names[cn]}
	}
	return out
}

// SymbolEntry is one registered symbol.
type SymbolEntry struct {
	Entry
	Literal string // the text the symbol stands for
}

// Symbols maps symbol CallNames to display names and literal text.
type Symbols struct {
	entries map[string]SymbolEntry
	order   []string
}

// NewSymbols returns an empty symbol registry.
func NewSymbols() *Symbols {
	return &Symbols{entries: make(map[string]SymbolEntry)}
}

// Add registers a symbol. The first registration of a CallName wins.
func (s *Symbols) Add(callName, display, literal string) {
	if _, ok := s.entries[callName]; ok {
		return
	}
	s.entries[callName] = SymbolEntry{
		Entry:   Entry{CallName: callName, Display: display},
		Literal: literal,
	}
	s.order = append(s.order, callName)
}

// Lookup returns the entry registered for callName.
func (s *Symbols) Lookup(callName string) (SymbolEntry, bool) {
	e, ok := s.entries[callName]
	return e, ok
}

// Len returns the number of registered symbols.
func (s *Symbols) Len() int { return len(s.order) }

// Entries returns the registered symbols in registration order.
func (s *Symbols) Entries() []SymbolEntry {
	out := make([]SymbolEntry, len(s.order))
	for i, cn := range s.order {
		out[i] = s.entries[cn]
	}
	return out
}
