package plist

import (
	"github.com/shawwn/ylang/lisp"
	"github.com/shawwn/ylang/symbol"
)

// Comparator decides whether a pair's key matches the requested key.
type Comparator func(pairKey, key lisp.Value) bool

// Get is GetFunc with lisp.Eq as the comparator.
func Get(t *symbol.Table, h, k lisp.Value) (lisp.Value, error) {
	return GetFunc(t, h, k, lisp.Eq)
}

// GetFunc returns the value stored under k in h.
//
// A hash table lookup of an absent key fails with *LookupError. A list is
// scanned pair by pair and the first key satisfying cmp wins; a list with no
// matching key yields Nil. A sequence is indexed by an Int key and fails with
// *IndexError when the index is out of range.
func GetFunc(t *symbol.Table, h, k lisp.Value, cmp Comparator) (lisp.Value, error) {
	switch ShapeOf(h) {
	case Map:
		v, ok := h.(*lisp.HashTable).Get(k)
		if !ok {
			return nil, &LookupError{Key: k}
		}
		return v, nil
	case List:
		k = Key(t, k)
		it := Iterate(t, h)
		for it.Next() {
			if cmp(it.Key(), k) {
				return it.Value(), nil
			}
		}
		if err := it.Err(); err != nil {
			return nil, err
		}
		return lisp.Nil, nil
	default:
		return elt(h, k)
	}
}

func elt(h, k lisp.Value) (lisp.Value, error) {
	i, ok := k.(lisp.Int)
	if !ok {
		return nil, &lisp.WrongTypeError{Op: "elt", Want: "integerp", Got: k}
	}
	switch h := h.(type) {
	case lisp.Vector:
		if i < 0 || int(i) >= len(h) {
			return nil, &IndexError{Index: k, Len: len(h)}
		}
		return h[i], nil
	case lisp.Str:
		runes := []rune(string(h))
		if i < 0 || int(i) >= len(runes) {
			return nil, &IndexError{Index: k, Len: len(runes)}
		}
		return lisp.Int(runes[i]), nil
	}
	return nil, &lisp.WrongTypeError{Op: "elt", Want: "sequencep", Got: h}
}
