package fst

import "fmt"

// Label identifies a symbol interned in a [SymbolTable]. The zero label is
// reserved for epsilon, the empty transition.
type Label int32

// Epsilon is the label of the empty transition. Every table binds it to 0.
const Epsilon Label = 0

// EpsilonName is the string form under which epsilon is interned.
const EpsilonName = "<eps>"

// SymbolTable interns symbol strings (single runes, or multi-character
// tokens for word-level grammars) to dense integer labels. The mapping is
// bijective and append-only: a label, once bound, is never reused for a
// different string.
//
// Tables are mutable while a grammar is under construction and must be
// treated as read-only afterwards. Concurrent readers need no locking;
// concurrent mutation is not supported.
type SymbolTable struct {
	names []string
	ids   map[string]Label
}

// NewSymbolTable returns a table with epsilon pre-bound to label 0.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		names: []string{EpsilonName},
		ids:   map[string]Label{EpsilonName: Epsilon},
	}
}

// NewSymbolTableFrom rebuilds a table from an ordered symbol list as
// produced by [SymbolTable.Symbols]. The first entry must be the epsilon
// symbol and the list must contain no duplicates.
func NewSymbolTableFrom(symbols []string) (*SymbolTable, error) {
	if len(symbols) == 0 || symbols[0] != EpsilonName {
		return nil, fmt.Errorf("fst: symbol list does not start with %q", EpsilonName)
	}
	t := NewSymbolTable()
	for _, s := range symbols[1:] {
		t.Add(s)
	}
	if t.Len() != len(symbols) {
		return nil, fmt.Errorf("fst: symbol list contains duplicates (%d unique of %d)", t.Len(), len(symbols))
	}
	return t, nil
}

// Add interns s and returns its label. Adding an already-interned symbol
// returns the existing label.
func (t *SymbolTable) Add(s string) Label {
	if l, ok := t.ids[s]; ok {
		return l
	}
	l := Label(len(t.names))
	t.names = append(t.names, s)
	t.ids[s] = l
	return l
}

// Find returns the label bound to s.
func (t *SymbolTable) Find(s string) (Label, bool) {
	l, ok := t.ids[s]
	return l, ok
}

// Name returns the string bound to l, or the empty string if l is not in
// the table.
func (t *SymbolTable) Name(l Label) string {
	if l < 0 || int(l) >= len(t.names) {
		return ""
	}
	return t.names[l]
}

// Len returns the number of interned symbols, epsilon included.
func (t *SymbolTable) Len() int {
	return len(t.names)
}

// Symbols returns the interned strings in label order. The slice is a copy.
func (t *SymbolTable) Symbols() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Runes interns every rune of s and returns their labels in order.
func (t *SymbolTable) Runes(s string) []Label {
	labels := make([]Label, 0, len(s))
	for _, r := range s {
		labels = append(labels, t.Add(string(r)))
	}
	return labels
}

// FindRunes returns the labels for every rune of s without interning
// anything. ok is false if any rune is missing from the table, which is
// how a frozen grammar detects input it cannot possibly accept.
func (t *SymbolTable) FindRunes(s string) (labels []Label, ok bool) {
	labels = make([]Label, 0, len(s))
	for _, r := range s {
		l, found := t.ids[string(r)]
		if !found {
			return nil, false
		}
		labels = append(labels, l)
	}
	return labels, true
}
