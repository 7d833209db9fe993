package runtime

import (
	"github.com/shawwn/ylang/lisp"
	"github.com/shawwn/ylang/plist"
	"github.com/shawwn/ylang/symbol"
)

// ---------------------------------------------------------------------------
// Accessor Primitives
// ---------------------------------------------------------------------------

func (r *Runtime) registerAccessorPrimitives() {
	r.defun("hash-table-p", 1, 1, func(args ...lisp.Value) (lisp.Value, error) {
		return lisp.Bool(lisp.HashTablep(args[0])), nil
	})

	r.defun("make-hash-table", 0, 0, func(args ...lisp.Value) (lisp.Value, error) {
		return lisp.NewHashTable(), nil
	})

	// gethash returns the optional default (nil) for an absent key.
	r.defun("gethash", 2, 3, func(args ...lisp.Value) (lisp.Value, error) {
		h, err := hashTableArg("gethash", args[1])
		if err != nil {
			return nil, err
		}
		if v, ok := h.Get(args[0]); ok {
			return v, nil
		}
		if len(args) > 2 {
			return args[2], nil
		}
		return symbol.Nil, nil
	})

	r.defun("puthash", 3, 3, func(args ...lisp.Value) (lisp.Value, error) {
		h, err := hashTableArg("puthash", args[2])
		if err != nil {
			return nil, err
		}
		if err := h.Put(args[0], args[1]); err != nil {
			return nil, err
		}
		return args[1], nil
	})

	r.defun("remhash", 2, 2, func(args ...lisp.Value) (lisp.Value, error) {
		h, err := hashTableArg("remhash", args[1])
		if err != nil {
			return nil, err
		}
		h.Delete(args[0])
		return symbol.Nil, nil
	})

	// elt indexes lists positionally, ignoring keyword pairs.
	r.defun("elt", 2, 2, func(args ...lisp.Value) (lisp.Value, error) {
		seq, k := args[0], args[1]
		if plist.ShapeOf(seq) != plist.List {
			return plist.Get(r.table, seq, k)
		}
		n, ok := k.(lisp.Int)
		if !ok {
			return nil, &lisp.WrongTypeError{Op: "elt", Want: "integerp", Got: k}
		}
		if n < 0 {
			return nil, &plist.IndexError{Index: k}
		}
		tail, err := lisp.Nthcdr(int(n), seq)
		if err != nil {
			return nil, err
		}
		return lisp.Car(tail)
	})

	r.defun("y-get", 2, 2, func(args ...lisp.Value) (lisp.Value, error) {
		return plist.Get(r.table, args[0], args[1])
	})

	// y-put with two arguments wipes the key.
	r.defun("y-put", 2, 3, func(args ...lisp.Value) (lisp.Value, error) {
		return plist.Put(r.table, args[0], args[1], args[2:]...)
	})

	// y-pairs returns the (key . value) pairs of any container as a list.
	r.defun("y-pairs", 1, 1, func(args ...lisp.Value) (lisp.Value, error) {
		var pairs []lisp.Value
		switch plist.ShapeOf(args[0]) {
		case plist.Map:
			args[0].(*lisp.HashTable).Range(func(k, v lisp.Value) bool {
				pairs = append(pairs, lisp.NewCons(k, v))
				return true
			})
		case plist.List:
			it := plist.Iterate(r.table, args[0])
			for it.Next() {
				pairs = append(pairs, lisp.NewCons(it.Key(), it.Value()))
			}
			if err := it.Err(); err != nil {
				return nil, err
			}
		default:
			n, err := lisp.Len(args[0])
			if err != nil {
				return nil, err
			}
			for i := range n {
				v, err := plist.Get(r.table, args[0], lisp.Int(i))
				if err != nil {
					return nil, err
				}
				pairs = append(pairs, lisp.NewCons(lisp.Int(i), v))
			}
		}
		return lisp.List(pairs...), nil
	})
}

func hashTableArg(op string, v lisp.Value) (*lisp.HashTable, error) {
	h, ok := v.(*lisp.HashTable)
	if !ok {
		return nil, &lisp.WrongTypeError{Op: op, Want: "hash-table-p", Got: v}
	}
	return h, nil
}
