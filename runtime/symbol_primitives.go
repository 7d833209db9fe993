package runtime

import (
	"github.com/shawwn/ylang/lisp"
	"github.com/shawwn/ylang/registry"
	"github.com/shawwn/ylang/symbol"
)

// ---------------------------------------------------------------------------
// Symbol Primitives
// ---------------------------------------------------------------------------

func (r *Runtime) registerSymbolPrimitives() {
	r.defun("symbolp", 1, 1, func(args ...lisp.Value) (lisp.Value, error) {
		return lisp.Bool(lisp.Symbolp(args[0])), nil
	})

	r.defun("keywordp", 1, 1, func(args ...lisp.Value) (lisp.Value, error) {
		return lisp.Bool(lisp.Keywordp(args[0])), nil
	})

	// make-symbol returns a fresh symbol that no obarray contains.
	r.defun("make-symbol", 1, 1, func(args ...lisp.Value) (lisp.Value, error) {
		name, err := stringArg("make-symbol", args[0])
		if err != nil {
			return nil, err
		}
		return symbol.Make(name), nil
	})

	r.defun("symbol-name", 1, 1, func(args ...lisp.Value) (lisp.Value, error) {
		s, ok := args[0].(*symbol.Symbol)
		if !ok {
			return nil, &lisp.WrongTypeError{Op: "symbol-name", Want: "symbolp", Got: args[0]}
		}
		return lisp.Str(s.Name()), nil
	})

	r.defun("intern", 1, 2, func(args ...lisp.Value) (lisp.Value, error) {
		name, err := stringArg("intern", args[0])
		if err != nil {
			return nil, err
		}
		t, err := r.obarray(args, 1)
		if err != nil {
			return nil, err
		}
		return t.Intern(name), nil
	})

	r.defun("intern-soft", 1, 2, func(args ...lisp.Value) (lisp.Value, error) {
		t, err := r.obarray(args, 1)
		if err != nil {
			return nil, err
		}
		switch x := args[0].(type) {
		case lisp.Str:
			return t.InternSoft(string(x)), nil
		case *symbol.Symbol:
			// a symbol argument only matches itself
			if t.Contains(x) {
				return x, nil
			}
			return symbol.Nil, nil
		}
		return nil, &lisp.WrongTypeError{Op: "intern-soft", Want: "stringp", Got: args[0]}
	})

	r.defun("unintern", 1, 2, func(args ...lisp.Value) (lisp.Value, error) {
		t, err := r.obarray(args, 1)
		if err != nil {
			return nil, err
		}
		switch x := args[0].(type) {
		case *symbol.Symbol:
			return t.Unintern(x), nil
		case lisp.Str:
			if s, ok := t.Lookup(string(x)); ok {
				return t.Unintern(s), nil
			}
			return symbol.Nil, nil
		}
		return nil, &lisp.WrongTypeError{Op: "unintern", Want: "symbolp", Got: args[0]}
	})

	// mapatoms calls the function designator on every symbol in insertion
	// order and returns nil.
	r.defun("mapatoms", 1, 2, func(args ...lisp.Value) (lisp.Value, error) {
		t, err := r.obarray(args, 1)
		if err != nil {
			return nil, err
		}
		for _, s := range t.All() {
			if _, err := r.apply(args[0], s); err != nil {
				return nil, err
			}
		}
		return symbol.Nil, nil
	})
}

// apply calls a function designator: a symbol naming a builtin, or a subr.
func (r *Runtime) apply(fn lisp.Value, args ...lisp.Value) (lisp.Value, error) {
	switch f := fn.(type) {
	case *symbol.Symbol:
		return r.reg.Call(f, args...)
	case *registry.Subr:
		if !f.Accepts(len(args)) {
			return nil, &registry.ArityError{Symbol: r.table.Intern(f.Name), Min: f.MinArgs, Max: f.MaxArgs, Got: len(args)}
		}
		return f.Fn(args...)
	case registry.Func:
		return f(args...)
	}
	return nil, &lisp.WrongTypeError{Op: "funcall", Want: "functionp", Got: fn}
}

func stringArg(op string, v lisp.Value) (string, error) {
	s, ok := v.(lisp.Str)
	if !ok {
		return "", &lisp.WrongTypeError{Op: op, Want: "stringp", Got: v}
	}
	return string(s), nil
}
