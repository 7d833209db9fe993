package lisp

import (
	"reflect"

	"github.com/shawwn/ylang/symbol"
)

// Null reports whether v is the empty list.
func Null(v Value) bool {
	return IsNil(v)
}

// Truthy reports whether v counts as true: anything but nil and f.
func Truthy(v Value) bool {
	return !IsNil(v) && v != Value(symbol.F)
}

// Symbolp reports whether v is a symbol. Nil, t and f are symbols.
func Symbolp(v Value) bool {
	_, ok := v.(*symbol.Symbol)
	return ok
}

// Keywordp reports whether v is a symbol whose name begins with a colon.
func Keywordp(v Value) bool {
	s, ok := v.(*symbol.Symbol)
	return ok && s.IsKeyword()
}

// Consp reports whether v is a cons cell or a non-empty view.
func Consp(v Value) bool {
	switch v := v.(type) {
	case *Cons:
		return true
	case *View:
		return !v.Empty()
	}
	return false
}

// Listp reports whether v is a cons, a view or the empty list.
func Listp(v Value) bool {
	switch v.(type) {
	case *Cons, *View:
		return true
	}
	return IsNil(v)
}

// HashTablep reports whether v is a hash table.
func HashTablep(v Value) bool {
	_, ok := v.(*HashTable)
	return ok
}

// Eq reports whether a and b are the same object, treating every
// representation of the empty list as the same.
func Eq(a, b Value) bool {
	if IsNil(a) && IsNil(b) {
		return true
	}
	return identical(a, b)
}

func identical(a, b Value) bool {
	if va, ok := a.(Vector); ok {
		vb, ok := b.(Vector)
		return ok && len(va) == len(vb) && len(va) > 0 && &va[0] == &vb[0]
	}
	ta := reflect.TypeOf(a)
	if ta == nil || !ta.Comparable() || ta != reflect.TypeOf(b) {
		return false
	}
	return a == b
}

// Eqv reports whether a and b are structurally equal: same scalar value
// (integers and floats compare numerically), same symbol, or lists and
// vectors with Eqv elements. Hash tables compare by identity.
func Eqv(a, b Value) bool {
	if IsNil(a) && IsNil(b) {
		return true
	}
	if x, ok := number(a); ok {
		y, ok := number(b)
		return ok && x == y
	}
	switch a := a.(type) {
	case *Cons:
		return consEqv(a, b)
	case *View:
		return Eqv(a.Seq(), b)
	case Vector:
		bv, ok := b.(Vector)
		if !ok || len(a) != len(bv) {
			return false
		}
		for i := range a {
			if !Eqv(a[i], bv[i]) {
				return false
			}
		}
		return true
	}
	if bv, ok := b.(*View); ok {
		return Eqv(a, bv.Seq())
	}
	return identical(a, b)
}

func consEqv(a *Cons, b Value) bool {
	if v, ok := b.(*View); ok {
		b = v.Seq()
	}
	bc, ok := b.(*Cons)
	if !ok {
		return false
	}
	for {
		if a == bc {
			return true
		}
		if !Eqv(a.Car, bc.Car) {
			return false
		}
		an, aok := a.Cdr.(*Cons)
		bn, bok := bc.Cdr.(*Cons)
		if !aok || !bok {
			return Eqv(a.Cdr, bc.Cdr)
		}
		a, bc = an, bn
	}
}

func number(v Value) (float64, bool) {
	switch v := v.(type) {
	case Int:
		return float64(v), true
	case Float:
		return float64(v), true
	}
	return 0, false
}
