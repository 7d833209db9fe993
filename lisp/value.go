// Package lisp implements the runtime value model: cons cells, proper and
// dotted lists, opaque scalars, vectors and hash tables, plus the textual
// print form shared by every tool that reads or diffs printed values.
package lisp

import (
	"fmt"

	"github.com/shawwn/ylang/symbol"
)

// Value is any runtime value: a *symbol.Symbol, a *Cons, a *View, one of
// the scalar types Int, Float and Str, a Vector, a *HashTable, or an opaque
// host payload such as a *symbol.Table.
type Value = any

// Nil is the empty list.
var Nil Value = symbol.Nil

// ---------------------------------------------------------------------------
// Scalars
// ---------------------------------------------------------------------------

// Int is an opaque integer payload.
type Int int64

// Float is an opaque floating-point payload.
type Float float64

// Str is a string payload.
type Str string

// Vector is a generic indexable sequence.
type Vector []Value

// Bool returns T when ok and F otherwise.
func Bool(ok bool) Value {
	if ok {
		return symbol.T
	}
	return symbol.F
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

// WrongTypeError reports a value whose shape does not fit the operation,
// such as taking the car of an integer.
type WrongTypeError struct {
	Op   string
	Want string
	Got  Value
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("%s: wrong type argument: %s, %s", e.Op, e.Want, Sprint(e.Got))
}

func wrongType(op, want string, got Value) error {
	return &WrongTypeError{Op: op, Want: want, Got: got}
}
