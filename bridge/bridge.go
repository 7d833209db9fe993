// Package bridge converts host-native Go values to and from runtime values
// and dispatches named builtins through a registry.
package bridge

import (
	"fmt"
	"math"
	"reflect"

	"github.com/shawwn/ylang/lisp"
	"github.com/shawwn/ylang/registry"
	"github.com/shawwn/ylang/symbol"
)

// Env is the host capability the bridge boxes values through.
type Env interface {
	Intern(name string) *symbol.Symbol
	MakeString(s string) *Value
	MakeInteger(i int64) *Value
	MakeFloat(f float64) *Value
}

// Value is a boxed runtime value handed back to the host.
type Value struct {
	V lisp.Value
}

// Wrap boxes v.
func Wrap(v lisp.Value) *Value {
	return &Value{V: v}
}

func (v *Value) String() string {
	return lisp.Sprint(v.V)
}

// TypeConversionError reports a host value with no runtime counterpart.
// Overflow is set when the type converts but the value does not fit an Int.
type TypeConversionError struct {
	Type     reflect.Type
	Overflow bool
}

func (e *TypeConversionError) Error() string {
	if e.Type == nil {
		return "bridge: cannot convert value of unknown type"
	}
	if e.Overflow {
		return fmt.Sprintf("bridge: value of type %s overflows integer", e.Type)
	}
	return fmt.Sprintf("bridge: cannot convert value of type %s", e.Type)
}

// ---------------------------------------------------------------------------
// Default host environment
// ---------------------------------------------------------------------------

type tableEnv struct {
	table *symbol.Table
}

// NewEnv returns an Env that interns into t and boxes scalars directly.
func NewEnv(t *symbol.Table) Env {
	return &tableEnv{table: t}
}

func (e *tableEnv) Intern(name string) *symbol.Symbol { return e.table.Intern(name) }
func (e *tableEnv) MakeString(s string) *Value        { return Wrap(lisp.Str(s)) }
func (e *tableEnv) MakeInteger(i int64) *Value        { return Wrap(lisp.Int(i)) }
func (e *tableEnv) MakeFloat(f float64) *Value        { return Wrap(lisp.Float(f)) }

// ---------------------------------------------------------------------------
// Bridge
// ---------------------------------------------------------------------------

// Bridge is the single seam through which the host calls builtins.
type Bridge struct {
	env Env
	reg *registry.Registry
}

// New creates a bridge boxing through env and dispatching through reg.
func New(env Env, reg *registry.Registry) *Bridge {
	return &Bridge{env: env, reg: reg}
}

// Env returns the host environment.
func (b *Bridge) Env() Env {
	return b.env
}

// Unwrap converts a host value to a runtime value. Slices and arrays become
// lists built by the registered list builtin.
func (b *Bridge) Unwrap(x any) (lisp.Value, error) {
	switch v := x.(type) {
	case nil:
		return b.env.Intern("nil"), nil
	case bool:
		if v {
			return b.env.Intern("t"), nil
		}
		return b.env.Intern("f"), nil
	case string:
		return b.env.MakeString(v).V, nil
	case *Value:
		return v.V, nil
	case Value:
		return v.V, nil
	case *symbol.Symbol, *lisp.Cons, *lisp.View, *lisp.HashTable, *symbol.Table,
		lisp.Int, lisp.Float, lisp.Str, lisp.Vector:
		return v, nil
	case float32:
		return b.env.MakeFloat(float64(v)).V, nil
	case float64:
		return b.env.MakeFloat(v).V, nil
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return b.env.MakeInteger(rv.Int()).V, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, &TypeConversionError{Type: rv.Type(), Overflow: true}
		}
		return b.env.MakeInteger(int64(u)).V, nil
	case reflect.Slice, reflect.Array:
		args := make([]any, rv.Len())
		for i := range args {
			args[i] = rv.Index(i).Interface()
		}
		out, err := b.Funcall("list", args...)
		if err != nil {
			return nil, err
		}
		return out.V, nil
	}
	return nil, &TypeConversionError{Type: rv.Type()}
}

// ToNative converts a runtime value back to a host value: nil becomes nil,
// t and f become booleans, scalars become their Go kinds and proper lists
// become []any.
func (b *Bridge) ToNative(v lisp.Value) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *symbol.Symbol:
		switch x {
		case symbol.Nil:
			return nil, nil
		case symbol.T:
			return true, nil
		case symbol.F:
			return false, nil
		}
		return x, nil
	case lisp.Int:
		return int64(x), nil
	case lisp.Float:
		return float64(x), nil
	case lisp.Str:
		return string(x), nil
	case lisp.Vector:
		return b.natives(x)
	case *lisp.Cons, *lisp.View:
		elems, err := lisp.Slice(x)
		if err != nil {
			return nil, err
		}
		return b.natives(elems)
	}
	return v, nil
}

func (b *Bridge) natives(elems []lisp.Value) ([]any, error) {
	out := make([]any, len(elems))
	for i, e := range elems {
		n, err := b.ToNative(e)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// Funcall unwraps args, resolves fn (a name, a symbol or a boxed symbol)
// in the registry, checks arity and invokes the implementation.
func (b *Bridge) Funcall(fn any, args ...any) (*Value, error) {
	sym, err := b.resolve(fn)
	if err != nil {
		return nil, err
	}
	vals := make([]lisp.Value, len(args))
	for i, a := range args {
		if vals[i], err = b.Unwrap(a); err != nil {
			return nil, err
		}
	}
	out, err := b.reg.Call(sym, vals...)
	if err != nil {
		return nil, err
	}
	return Wrap(out), nil
}

func (b *Bridge) resolve(fn any) (*symbol.Symbol, error) {
	switch f := fn.(type) {
	case string:
		return b.env.Intern(f), nil
	case *symbol.Symbol:
		return f, nil
	case *Value:
		if s, ok := f.V.(*symbol.Symbol); ok {
			return s, nil
		}
	}
	return nil, &lisp.WrongTypeError{Op: "funcall", Want: "symbolp", Got: fn}
}
