package symbol

import (
	"fmt"
	"sync"
)

// ---------------------------------------------------------------------------
// Table: the obarray
// ---------------------------------------------------------------------------

// Table interns symbol names into unique identities. Lookup goes through a
// hash index, so Intern is O(1) amortized regardless of vocabulary size,
// while MapAtoms and All still walk symbols in insertion order.
type Table struct {
	mu     sync.RWMutex
	byName map[string]*Symbol
	byID   map[ID]*Symbol
	order  []*Symbol
	next   ID
}

// Row is one exported table entry.
type Row struct {
	Name string
	ID   ID
}

// NewTable creates a table holding the sentinels followed by rows, in the
// given order. Rows keep their IDs; rows naming a sentinel are skipped.
func NewTable(rows ...Row) *Table {
	return NewTableSize(len(rows), rows...)
}

// NewTableSize is NewTable with an initial capacity hint.
func NewTableSize(capacity int, rows ...Row) *Table {
	if capacity < len(rows) {
		capacity = len(rows)
	}
	t := &Table{
		byName: make(map[string]*Symbol, capacity+len(sentinels)),
		byID:   make(map[ID]*Symbol, capacity+len(sentinels)),
		order:  make([]*Symbol, 0, capacity+len(sentinels)),
		next:   firstFreeID,
	}
	for _, s := range sentinels {
		t.insert(s)
	}
	for _, r := range rows {
		if r.ID < firstFreeID {
			continue
		}
		if _, ok := t.byName[r.Name]; ok {
			continue
		}
		t.insert(&Symbol{name: r.Name, id: r.ID})
		if r.ID >= t.next {
			t.next = r.ID + 1
		}
	}
	return t
}

func (t *Table) insert(s *Symbol) {
	t.byName[s.name] = s
	t.byID[s.id] = s
	t.order = append(t.order, s)
}

// Intern returns the symbol named name, creating and appending it if needed.
func (t *Table) Intern(name string) *Symbol {
	// Fast path: read-only lookup
	t.mu.RLock()
	if s, ok := t.byName[name]; ok {
		t.mu.RUnlock()
		return s
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()

	// Double-check after acquiring write lock
	if s, ok := t.byName[name]; ok {
		return s
	}
	if t.next == ^ID(0) {
		panic("symbol: table exhausted")
	}
	s := &Symbol{name: name, id: t.next}
	t.next++
	t.insert(s)
	return s
}

// InternAll interns each name and returns the symbols in the same order.
func (t *Table) InternAll(names ...string) []*Symbol {
	syms := make([]*Symbol, len(names))
	for i, name := range names {
		syms[i] = t.Intern(name)
	}
	return syms
}

// InternSoft returns the symbol named name, or Nil if it was never interned.
// It never creates a symbol.
func (t *Table) InternSoft(name string) *Symbol {
	if s, ok := t.Lookup(name); ok {
		return s
	}
	return Nil
}

// Lookup returns the symbol named name and whether it is resident.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.byName[name]
	return s, ok
}

// Symbol returns the resident symbol with the given ID.
func (t *Table) Symbol(id ID) (*Symbol, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.byID[id]
	return s, ok
}

// Contains reports whether s itself (not merely its name) is resident.
func (t *Table) Contains(s *Symbol) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.byID[s.id] == s
}

// Unintern removes s from the table by identity. It returns T when s was
// removed and Nil when s was not resident. Sentinels stay resident and
// always yield Nil.
func (t *Table) Unintern(s *Symbol) *Symbol {
	if s == nil || s.IsSentinel() {
		return Nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.byID[s.id] != s {
		return Nil
	}
	for i, o := range t.order {
		if o == s {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	delete(t.byID, s.id)
	if t.byName[s.name] == s {
		delete(t.byName, s.name)
	}
	return T
}

// MapAtoms calls fn once per resident symbol in insertion order. The walk
// covers the symbols resident when it started, so fn may intern.
func (t *Table) MapAtoms(fn func(*Symbol)) {
	for _, s := range t.All() {
		fn(s)
	}
}

// Len returns the number of resident symbols, sentinels included.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.order)
}

// All returns the resident symbols in insertion order.
func (t *Table) All() []*Symbol {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]*Symbol, len(t.order))
	copy(result, t.order)
	return result
}

// Export returns the non-sentinel symbols as rows, in insertion order.
// NewTable(t.Export()...) rebuilds an equivalent table.
func (t *Table) Export() []Row {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rows := make([]Row, 0, len(t.order))
	for _, s := range t.order {
		if s.IsSentinel() {
			continue
		}
		rows = append(rows, Row{Name: s.name, ID: s.id})
	}
	return rows
}

// String describes the table for diagnostics.
func (t *Table) String() string {
	return fmt.Sprintf("#<obarray %d>", t.Len())
}
