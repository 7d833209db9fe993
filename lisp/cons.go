package lisp

import (
	"github.com/shawwn/ylang/symbol"
)

// Cons is a head/tail pair. Cells are shared freely between lists.
type Cons struct {
	Car Value
	Cdr Value
}

// NewCons returns a new cell. The tail is not validated, so dotted pairs
// are legal.
func NewCons(head, tail Value) *Cons {
	return &Cons{Car: head, Cdr: tail}
}

// List returns a proper list of values, or Nil when called with none.
func List(values ...Value) Value {
	lis := Nil
	for i := len(values) - 1; i >= 0; i-- {
		lis = NewCons(values[i], lis)
	}
	return lis
}

// ListStar is like List but uses the last value as the final tail, so
// ListStar(1, 2, 3) is the dotted list (1 2 . 3).
func ListStar(values ...Value) Value {
	if len(values) == 0 {
		return Nil
	}
	lis := values[len(values)-1]
	for i := len(values) - 2; i >= 0; i-- {
		lis = NewCons(values[i], lis)
	}
	return lis
}

// Car returns the head of v. The empty list yields Nil; a value that is not
// a list is an error.
func Car(v Value) (Value, error) {
	switch v := v.(type) {
	case *Cons:
		return v.Car, nil
	case *View:
		return v.car()
	}
	if IsNil(v) {
		return Nil, nil
	}
	return nil, wrongType("car", "listp", v)
}

// Cdr returns the tail of v. The empty list yields the empty list; a value
// that is not a list is an error.
func Cdr(v Value) (Value, error) {
	switch v := v.(type) {
	case *Cons:
		return v.Cdr, nil
	case *View:
		return v.cdr()
	}
	if IsNil(v) {
		return Nil, nil
	}
	return nil, wrongType("cdr", "listp", v)
}

// Cadr is Car(Cdr(v)).
func Cadr(v Value) (Value, error) {
	d, err := Cdr(v)
	if err != nil {
		return nil, err
	}
	return Car(d)
}

// Cddr is Cdr(Cdr(v)).
func Cddr(v Value) (Value, error) {
	d, err := Cdr(v)
	if err != nil {
		return nil, err
	}
	return Cdr(d)
}

// Cdar is Cdr(Car(v)).
func Cdar(v Value) (Value, error) {
	a, err := Car(v)
	if err != nil {
		return nil, err
	}
	return Cdr(a)
}

// Nthcdr applies Cdr n times.
func Nthcdr(n int, v Value) (Value, error) {
	var err error
	for ; n > 0 && !IsNil(v); n-- {
		if v, err = Cdr(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// ---------------------------------------------------------------------------
// Walking lists
// ---------------------------------------------------------------------------

// ListIterator walks the cells of a list.
type ListIterator struct {
	v    Value
	rest Value
	err  error
}

// NewListIterator returns a ListIterator positioned before the first
// element of v.
func NewListIterator(v Value) *ListIterator {
	return &ListIterator{v: Nil, rest: v}
}

// Next advances to the next element. Next returns false at the end of the
// list or when a dotted tail is reached; Err distinguishes the two.
func (it *ListIterator) Next() bool {
	if it.err != nil || IsNil(it.rest) {
		return false
	}
	if view, ok := it.rest.(*View); ok {
		it.rest = view.Seq()
		if IsNil(it.rest) {
			return false
		}
	}
	cell, ok := it.rest.(*Cons)
	if !ok {
		it.err = wrongType("list", "listp", it.rest)
		return false
	}
	it.v = cell.Car
	it.rest = cell.Cdr
	return true
}

// Value returns the current element.
func (it *ListIterator) Value() Value {
	return it.v
}

// Rest returns the elements not yet visited.
func (it *ListIterator) Rest() Value {
	return it.rest
}

// Err returns the error that stopped iteration, if any.
func (it *ListIterator) Err() error {
	return it.err
}

// Slice copies the elements of the proper list v into a slice.
func Slice(v Value) ([]Value, error) {
	var out []Value
	it := NewListIterator(v)
	for it.Next() {
		out = append(out, it.Value())
	}
	return out, it.Err()
}

// Len returns the number of elements of list v, or the length of a Vector
// or Str.
func Len(v Value) (int, error) {
	switch v := v.(type) {
	case Vector:
		return len(v), nil
	case Str:
		return len([]rune(v)), nil
	case *HashTable:
		return v.Len(), nil
	}
	n := 0
	it := NewListIterator(v)
	for it.Next() {
		n++
	}
	if it.Err() != nil {
		return 0, wrongType("length", "listp", v)
	}
	return n, nil
}

// IsNil reports whether v is the empty list.
func IsNil(v Value) bool {
	switch v := v.(type) {
	case *symbol.Symbol:
		return v == symbol.Nil
	case *View:
		return v.Empty()
	case nil:
		return true
	}
	return false
}
