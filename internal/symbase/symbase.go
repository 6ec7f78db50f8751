// Package symbase holds the sentinel symbol names and the interned symbol
// table shared by the edit-rule synthesis core and its authoring-DSL
// fixtures (spec.md section 9, "shared sentinels... a map from symbol name
// to integer index is the preferred in-memory form").
//
// internal/editgram itself keeps working in plain symbol-name strings
// throughout (see its symtab.go), since the rule map's hot path is
// admission-time equality/lookup on an ordered map, not RHS payload size;
// SymbolTable exists for the authoring side and for any consumer
// (internal/dslauthor, test fixtures) that wants a stable integer handle
// per symbol name instead of carrying the string around.
package symbase

import "github.com/dekarrin/editgram/internal/util"

// Sentinel symbol names, mirrored from internal/editgram so authoring code
// can refer to them without importing the core package.
const (
	EmptySymbol   = "<empty>"
	BlankInserted = "<blank-inserted>"
)

// SymbolTable interns symbol names to stable integer indexes in first-seen
// order, grounded on util.StringSet for membership tracking.
type SymbolTable struct {
	seen    util.StringSet
	byIndex []string
	byName  map[string]int
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		seen:   util.NewStringSet(),
		byName: make(map[string]int),
	}
}

// Intern returns the index for name, assigning it the next available index
// the first time it is seen.
func (t *SymbolTable) Intern(name string) int {
	if idx, ok := t.byName[name]; ok {
		return idx
	}
	idx := len(t.byIndex)
	t.byIndex = append(t.byIndex, name)
	t.byName[name] = idx
	t.seen.Add(name)
	return idx
}

// Name returns the symbol name for idx, or "" if idx is out of range.
func (t *SymbolTable) Name(idx int) string {
	if idx < 0 || idx >= len(t.byIndex) {
		return ""
	}
	return t.byIndex[idx]
}

// Index returns the index for name and whether name has been interned.
func (t *SymbolTable) Index(name string) (int, bool) {
	idx, ok := t.byName[name]
	return idx, ok
}

// Has reports whether name has been interned.
func (t *SymbolTable) Has(name string) bool {
	return t.seen.Has(name)
}

// Len returns the number of distinct interned symbols.
func (t *SymbolTable) Len() int {
	return len(t.byIndex)
}

// Names returns every interned symbol name in first-seen order.
func (t *SymbolTable) Names() []string {
	out := make([]string, len(t.byIndex))
	copy(out, t.byIndex)
	return out
}
