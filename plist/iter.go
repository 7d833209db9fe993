package plist

import (
	"iter"

	"github.com/shawwn/ylang/lisp"
	"github.com/shawwn/ylang/symbol"
)

// Iterator walks the (key, value) pairs of a list. It is finite and cannot
// be restarted.
type Iterator struct {
	table *symbol.Table
	rest  lisp.Value
	index int64
	key   lisp.Value
	val   lisp.Value
	err   error
}

// Iterate returns an Iterator over the pairs of list v. Keyword keys are
// stripped of their colon and interned into t.
func Iterate(t *symbol.Table, v lisp.Value) *Iterator {
	return &Iterator{table: t, rest: v, key: lisp.Nil, val: lisp.Nil}
}

// Next advances to the next pair. It returns false at the end of the list
// or when the list turns out to be dotted, in which case Err is set.
func (it *Iterator) Next() bool {
	if it.err != nil || lisp.IsNil(it.rest) {
		return false
	}
	head, err := lisp.Car(it.rest)
	if err != nil {
		it.err = err
		return false
	}
	if lisp.Keywordp(head) {
		it.key = Key(it.table, head)
		if it.val, err = lisp.Cadr(it.rest); err == nil {
			it.rest, err = lisp.Cddr(it.rest)
		}
	} else {
		it.key = lisp.Int(it.index)
		it.index++
		it.val = head
		it.rest, err = lisp.Cdr(it.rest)
	}
	if err != nil {
		it.err = err
		return false
	}
	return true
}

// Key returns the current pair's key.
func (it *Iterator) Key() lisp.Value {
	return it.key
}

// Value returns the current pair's value.
func (it *Iterator) Value() lisp.Value {
	return it.val
}

// Err returns the error that stopped iteration, if any.
func (it *Iterator) Err() error {
	return it.err
}

// All returns the pairs of list v as a range-over-func sequence. Iteration
// errors end the sequence silently; use Iterate to observe them.
func All(t *symbol.Table, v lisp.Value) iter.Seq2[lisp.Value, lisp.Value] {
	return func(yield func(lisp.Value, lisp.Value) bool) {
		it := Iterate(t, v)
		for it.Next() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// Key returns the accessor key for x: a keyword loses its colon and is
// interned into t, anything else is its own key.
func Key(t *symbol.Table, x lisp.Value) lisp.Value {
	if s, ok := x.(*symbol.Symbol); ok && s.IsKeyword() {
		return t.Intern(s.Name()[1:])
	}
	return x
}

// Keyword returns the keyword marker for key k, or false when k cannot be
// written as a keyword.
func Keyword(t *symbol.Table, k lisp.Value) (*symbol.Symbol, bool) {
	s, ok := k.(*symbol.Symbol)
	if !ok {
		return nil, false
	}
	return t.Intern(":" + s.Name()), true
}
