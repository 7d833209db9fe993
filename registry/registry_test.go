package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shawwn/ylang/lisp"
	"github.com/shawwn/ylang/symbol"
)

func double(args ...lisp.Value) (lisp.Value, error) {
	return args[0].(lisp.Int) * 2, nil
}

func TestRegister(t *testing.T) {
	table := symbol.NewTable()
	r := New(table)
	subr := r.Register("double", 1, 1, double)

	sym := table.Intern("double")
	assert.Same(t, subr, r.Subr(sym))
	assert.Equal(t, "double", subr.Name)

	fn, ok := r.Function(sym)
	require.True(t, ok)
	v, err := fn(lisp.Int(21))
	require.NoError(t, err)
	assert.Equal(t, lisp.Int(42), v)
}

func TestRegisterOverwrites(t *testing.T) {
	r := New(symbol.NewTable())
	r.Register("f", 1, 1, double)
	second := r.Register("f", 0, Many, func(args ...lisp.Value) (lisp.Value, error) {
		return lisp.Int(len(args)), nil
	})

	sym := r.Symbol("f")
	assert.Same(t, second, r.Subr(sym))
	v, err := r.Call(sym, lisp.Int(1), lisp.Int(2), lisp.Int(3))
	require.NoError(t, err)
	assert.Equal(t, lisp.Int(3), v)
	assert.Equal(t, 1, r.Len())
}

func TestMissingKeys(t *testing.T) {
	r := New(symbol.NewTable())
	sym := r.Symbol("nothing")
	assert.Nil(t, r.Subr(sym))
	_, ok := r.Function(sym)
	assert.False(t, ok)
	assert.Same(t, symbol.Nil, r.Value(sym))
}

func TestAttrNormalization(t *testing.T) {
	table := symbol.NewTable()
	r := New(table)
	r.Register("make-symbol", 1, 1, double)

	assert.Same(t, table.Intern("make-symbol"), r.Attr("make_symbol"))
	assert.NotNil(t, r.Subr(r.Attr("make_symbol")))
	assert.Nil(t, r.Subr(r.Symbol("make_symbol")))
	assert.Equal(t, "a-b-c", Normalize("a_b-c"))
}

func TestValues(t *testing.T) {
	r := New(symbol.NewTable())
	sym := r.Symbol("answer")
	r.SetValue(sym, lisp.Int(42))
	assert.Equal(t, lisp.Int(42), r.Value(sym))

	r.Unbind(sym)
	_, ok := r.LookupValue(sym)
	assert.False(t, ok)
}

func TestCallUnbound(t *testing.T) {
	r := New(symbol.NewTable())
	_, err := r.Call(r.Symbol("nope"))
	var ue *UnboundFunctionError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "nope", ue.Symbol.Name())
}

func TestCallArity(t *testing.T) {
	r := New(symbol.NewTable())
	r.Register("double", 1, 1, double)
	sym := r.Symbol("double")

	_, err := r.Call(sym)
	var ae *ArityError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 1, ae.Min)
	assert.Equal(t, 1, ae.Max)
	assert.Equal(t, 0, ae.Got)
	assert.Contains(t, ae.Error(), "double")

	_, err = r.Call(sym, lisp.Int(1), lisp.Int(2))
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 2, ae.Got)
}

func TestSetFunctionSkipsArity(t *testing.T) {
	r := New(symbol.NewTable())
	sym := r.Symbol("loose")
	r.SetFunction(sym, func(args ...lisp.Value) (lisp.Value, error) {
		return lisp.Int(len(args)), nil
	})
	v, err := r.Call(sym, lisp.Int(1), lisp.Int(2))
	require.NoError(t, err)
	assert.Equal(t, lisp.Int(2), v)
}

func TestSetFunctionReplacesSubr(t *testing.T) {
	r := New(symbol.NewTable())
	r.Register("pair", 2, 2, double)
	sym := r.Symbol("pair")

	r.SetFunction(sym, func(args ...lisp.Value) (lisp.Value, error) {
		return lisp.Int(len(args)), nil
	})
	assert.Nil(t, r.Subr(sym))
	v, err := r.Call(sym, lisp.Int(1), lisp.Int(2), lisp.Int(3))
	require.NoError(t, err)
	assert.Equal(t, lisp.Int(3), v)
	assert.Empty(t, r.Subrs())
}

func TestSubrAccepts(t *testing.T) {
	s := &Subr{Name: "list", MinArgs: 0, MaxArgs: Many}
	assert.True(t, s.Accepts(0))
	assert.True(t, s.Accepts(100))
	assert.Equal(t, "(list 0+)", s.Signature())

	s = &Subr{Name: "intern", MinArgs: 1, MaxArgs: 2}
	assert.False(t, s.Accepts(0))
	assert.True(t, s.Accepts(2))
	assert.False(t, s.Accepts(3))
	assert.Equal(t, "(intern 1..2)", s.Signature())
}

func TestSubrsAndReset(t *testing.T) {
	table := symbol.NewTable()
	r := New(table)
	r.Register("b", 0, 0, double)
	r.Register("a", 0, 0, double)
	r.SetValue(table.Intern("v"), lisp.Int(1))

	subrs := r.Subrs()
	require.Len(t, subrs, 2)
	assert.Equal(t, "a", subrs[0].Name)
	assert.Equal(t, []*symbol.Symbol{table.Intern("v")}, r.Bindings())

	r.Reset()
	assert.Zero(t, r.Len())
	assert.Empty(t, r.Bindings())
}
