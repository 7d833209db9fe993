// Package plist implements the generalized accessor: one get/put/iterate
// protocol over hash tables, keyword/positional argument lists and plain
// sequences.
//
// A list is read as a stream of (key, value) pairs. A keyword head such as
// :name contributes the pair (name, next element) and consumes two cells;
// any other head contributes (i, head), where i counts positional elements
// from zero, and consumes one cell.
package plist

import (
	"fmt"

	"github.com/shawwn/ylang/lisp"
)

// Shape is the container shape an accessor call dispatches on.
type Shape int

const (
	// Sequence is a generic indexable sequence such as a lisp.Vector.
	Sequence Shape = iota
	// Map is a hash table.
	Map
	// List is a proper or dotted list, the empty list, or a view of one.
	List
)

func (s Shape) String() string {
	switch s {
	case Map:
		return "map"
	case List:
		return "list"
	default:
		return "sequence"
	}
}

// ShapeOf classifies v.
func ShapeOf(v lisp.Value) Shape {
	switch v.(type) {
	case *lisp.HashTable:
		return Map
	case *lisp.Cons, *lisp.View:
		return List
	}
	if lisp.IsNil(v) {
		return List
	}
	return Sequence
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

// LookupError reports a hash table lookup of an absent key.
type LookupError struct {
	Key lisp.Value
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("plist: key not found: %s", lisp.Sprint(e.Key))
}

// IndexError reports a positional index outside a sequence or list.
type IndexError struct {
	Index lisp.Value
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("plist: index %s out of range [0, %d)", lisp.Sprint(e.Index), e.Len)
}
