package plist

import (
	"github.com/shawwn/ylang/lisp"
	"github.com/shawwn/ylang/symbol"
)

// Put stores v under k in h and returns the container, which is a new value
// when the head of a list changes or a list is created from the empty list.
//
// Called without a value, Put wipes k instead: the key is deleted from a
// hash table, its cells are spliced out of a list (one cell for a positional
// element, two for a keyword pair) and a vector is copied without the
// element. Every pair matching k is removed. Wiping an absent key leaves h
// unchanged.
//
// For a list, a matching pair is overwritten in place. Otherwise a symbol
// key is appended as a keyword pair and an Int key equal to the next
// positional index is appended as an element; any other Int key fails with
// *IndexError. Views are materialized first, so a bounded view is copied.
func Put(t *symbol.Table, h, k lisp.Value, v ...lisp.Value) (lisp.Value, error) {
	wipe := len(v) == 0
	var val lisp.Value = lisp.Nil
	if !wipe {
		val = v[0]
	}
	switch ShapeOf(h) {
	case Map:
		ht := h.(*lisp.HashTable)
		if wipe {
			ht.Delete(k)
			return ht, nil
		}
		return ht, ht.Put(k, val)
	case List:
		if view, ok := h.(*lisp.View); ok {
			h = view.Seq()
		}
		return putList(t, h, Key(t, k), val, wipe)
	default:
		return putSequence(h, k, val, wipe)
	}
}

// Remove wipes k from h; it is Put without a value.
func Remove(t *symbol.Table, h, k lisp.Value) (lisp.Value, error) {
	return Put(t, h, k)
}

func putList(t *symbol.Table, h, k, val lisp.Value, wipe bool) (lisp.Value, error) {
	var prev *lisp.Cons // last cell before cur
	var index int64
	dangling := false // list ends in a keyword with no value cell
	cur := h
	for !lisp.IsNil(cur) {
		cell, ok := cur.(*lisp.Cons)
		if !ok {
			return nil, &lisp.WrongTypeError{Op: "put", Want: "listp", Got: h}
		}

		var key lisp.Value
		last := cell // last cell of this pair
		if lisp.Keywordp(cell.Car) {
			key = Key(t, cell.Car)
			if lisp.IsNil(cell.Cdr) {
				if !lisp.Eq(key, k) {
					dangling = true
					prev = cell
					break
				}
				if !wipe {
					cell.Cdr = lisp.List(val)
					return h, nil
				}
			} else {
				valCell, ok := cell.Cdr.(*lisp.Cons)
				if !ok {
					return nil, &lisp.WrongTypeError{Op: "put", Want: "listp", Got: h}
				}
				last = valCell
				if lisp.Eq(key, k) && !wipe {
					valCell.Car = val
					return h, nil
				}
			}
		} else {
			key = lisp.Int(index)
			index++
			if lisp.Eq(key, k) && !wipe {
				cell.Car = val
				return h, nil
			}
		}

		// a wipe splices out every matching pair
		if wipe && lisp.Eq(key, k) {
			if prev == nil {
				h = last.Cdr
			} else {
				prev.Cdr = last.Cdr
			}
			cur = last.Cdr
			continue
		}
		prev = last
		cur = last.Cdr
	}

	if wipe {
		return h, nil
	}
	var tail lisp.Value
	switch key := k.(type) {
	case lisp.Int:
		if int64(key) != index {
			return nil, &IndexError{Index: k, Len: int(index)}
		}
		tail = lisp.List(val)
	default:
		kw, ok := Keyword(t, k)
		if !ok {
			return nil, &lisp.WrongTypeError{Op: "put", Want: "symbolp", Got: k}
		}
		tail = lisp.List(kw, val)
	}
	if dangling {
		// keep pairs aligned: the trailing keyword gets an explicit nil
		tail = lisp.NewCons(lisp.Nil, tail)
	}
	if prev == nil {
		return tail, nil
	}
	prev.Cdr = tail
	return h, nil
}

func putSequence(h, k, val lisp.Value, wipe bool) (lisp.Value, error) {
	vec, ok := h.(lisp.Vector)
	if !ok {
		return nil, &lisp.WrongTypeError{Op: "put", Want: "arrayp", Got: h}
	}
	i, ok := k.(lisp.Int)
	if !ok {
		return nil, &lisp.WrongTypeError{Op: "put", Want: "integerp", Got: k}
	}
	if i < 0 || int(i) >= len(vec) {
		if wipe {
			return vec, nil
		}
		return nil, &IndexError{Index: k, Len: len(vec)}
	}
	if wipe {
		out := make(lisp.Vector, 0, len(vec)-1)
		out = append(out, vec[:i]...)
		return append(out, vec[i+1:]...), nil
	}
	vec[i] = val
	return vec, nil
}
