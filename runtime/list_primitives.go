package runtime

import (
	"fmt"

	"github.com/shawwn/ylang/lisp"
	"github.com/shawwn/ylang/registry"
)

// ---------------------------------------------------------------------------
// List Primitives
// ---------------------------------------------------------------------------

func (r *Runtime) registerListPrimitives() {
	r.defun("null", 1, 1, func(args ...lisp.Value) (lisp.Value, error) {
		return lisp.Bool(lisp.Null(args[0])), nil
	})
	r.defun("listp", 1, 1, func(args ...lisp.Value) (lisp.Value, error) {
		return lisp.Bool(lisp.Listp(args[0])), nil
	})
	r.defun("consp", 1, 1, func(args ...lisp.Value) (lisp.Value, error) {
		return lisp.Bool(lisp.Consp(args[0])), nil
	})
	r.defun("eq", 2, 2, func(args ...lisp.Value) (lisp.Value, error) {
		return lisp.Bool(lisp.Eq(args[0], args[1])), nil
	})
	r.defun("eqv", 2, 2, func(args ...lisp.Value) (lisp.Value, error) {
		return lisp.Bool(lisp.Eqv(args[0], args[1])), nil
	})

	accessors := []struct {
		name string
		fn   func(lisp.Value) (lisp.Value, error)
	}{
		{"car", lisp.Car},
		{"cdr", lisp.Cdr},
		{"cadr", lisp.Cadr},
		{"cddr", lisp.Cddr},
		{"cdar", lisp.Cdar},
	}
	for _, a := range accessors {
		fn := a.fn
		r.defun(a.name, 1, 1, func(args ...lisp.Value) (lisp.Value, error) {
			return fn(args[0])
		})
	}

	r.defun("cons", 2, 2, func(args ...lisp.Value) (lisp.Value, error) {
		return lisp.NewCons(args[0], args[1]), nil
	})

	r.defun("list", 0, registry.Many, func(args ...lisp.Value) (lisp.Value, error) {
		return lisp.List(args...), nil
	})

	r.defun("vector", 0, registry.Many, func(args ...lisp.Value) (lisp.Value, error) {
		return append(lisp.Vector{}, args...), nil
	})

	r.defun("length", 1, 1, func(args ...lisp.Value) (lisp.Value, error) {
		n, err := lisp.Len(args[0])
		if err != nil {
			return nil, err
		}
		return lisp.Int(n), nil
	})

	// print writes the printed form and a newline to the runtime's output
	// and returns its argument.
	r.defun("print", 1, 1, func(args ...lisp.Value) (lisp.Value, error) {
		if _, err := fmt.Fprintln(r.out, lisp.Sprint(args[0])); err != nil {
			return nil, err
		}
		return args[0], nil
	})
}
