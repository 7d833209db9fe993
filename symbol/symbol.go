// Package symbol implements interned symbols and the obarray that owns them.
//
// A Symbol is an immutable name with an identity. Two symbols obtained from
// the same Table under the same name are the same *Symbol, and within a Table
// each symbol carries a unique ID, so identity checks reduce to comparing
// pointers (or IDs).
package symbol

import (
	"strings"
	"unicode"
)

// ID is the arena index a Table assigns to a symbol. IDs are never reused
// within a table, even after the symbol is uninterned.
type ID uint32

// Sentinel IDs. Every table seeds the sentinels in this order.
const (
	NilID ID = iota
	TID
	FID

	firstFreeID
)

// Symbol is an interned (or explicitly uninterned) name.
type Symbol struct {
	name string
	id   ID
}

// Sentinel symbols, resident in every Table for its whole lifetime.
var (
	// Nil is the empty-list and false marker.
	Nil = &Symbol{name: "nil", id: NilID}
	// T is the true marker.
	T = &Symbol{name: "t", id: TID}
	// F is the alternate false marker returned by boolean-style predicates.
	F = &Symbol{name: "f", id: FID}
)

var sentinels = [...]*Symbol{Nil, T, F}

// Make returns a fresh symbol that belongs to no table. It is never
// identical to any interned symbol, even one with the same name.
func Make(name string) *Symbol {
	return &Symbol{name: name, id: ^ID(0)}
}

// Name returns the symbol's name without any print quoting.
func (s *Symbol) Name() string {
	return s.name
}

// ID returns the symbol's table ID.
func (s *Symbol) ID() ID {
	return s.id
}

// IsKeyword reports whether the symbol's name begins with a colon.
func (s *Symbol) IsKeyword() bool {
	return strings.HasPrefix(s.name, ":")
}

// IsSentinel reports whether s is one of Nil, T or F.
func (s *Symbol) IsSentinel() bool {
	return s == Nil || s == T || s == F
}

// String returns the printed form of the symbol. Names containing
// whitespace or a pipe are wrapped in pipes with embedded pipes escaped.
// Backslashes are never escaped.
func (s *Symbol) String() string {
	if !needsQuoting(s.name) {
		return s.name
	}
	return "|" + strings.ReplaceAll(s.name, "|", `\|`) + "|"
}

func needsQuoting(name string) bool {
	return strings.IndexFunc(name, func(r rune) bool {
		// 0x1c-0x1f are the ASCII information separators, which also
		// count as whitespace in the printed form.
		return r == '|' || unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
	}) >= 0
}
