package runtime

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shawwn/ylang/bridge"
	"github.com/shawwn/ylang/config"
	"github.com/shawwn/ylang/lisp"
	"github.com/shawwn/ylang/registry"
	"github.com/shawwn/ylang/symbol"
)

func newRuntime(t *testing.T) *Runtime {
	t.Helper()
	r, err := New(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func call(t *testing.T, r *Runtime, name string, args ...lisp.Value) lisp.Value {
	t.Helper()
	v, err := r.Call(name, args...)
	require.NoError(t, err, name)
	return v
}

func TestNewRegistersBuiltins(t *testing.T) {
	r := newRuntime(t)
	for _, name := range []string{
		"symbolp", "listp", "consp", "hash-table-p", "null", "eq", "eqv",
		"make-symbol", "symbol-name", "intern", "intern-soft", "mapatoms",
		"unintern", "keywordp", "car", "cdr", "cadr", "cddr", "cdar", "cons",
		"list", "length", "gethash", "puthash", "remhash", "make-hash-table",
		"elt", "vector", "y-get", "y-put", "y-pairs", "print",
	} {
		assert.NotNil(t, r.Registry().Subr(r.Sym(name)), name)
	}

	subr := r.Registry().Subr(r.Sym("list"))
	assert.Equal(t, registry.Many, subr.MaxArgs)
	assert.Equal(t, 2, r.Registry().Subr(r.Sym("intern")).MaxArgs)
}

func TestValueBindings(t *testing.T) {
	r := newRuntime(t)
	assert.Same(t, symbol.Nil, r.Value("nil"))
	assert.Same(t, symbol.T, r.Value("t"))
	assert.Same(t, symbol.F, r.Value("f"))
	assert.Same(t, symbol.Nil, r.Value("unbound"))
}

func TestNewFromConfig(t *testing.T) {
	f := config.Default()
	f.Runtime.Preload = []string{"alpha", "beta"}
	f.Bindings = map[string]any{
		"answer":   int64(42),
		"greeting": "hello",
		"primes":   []any{int64(2), int64(3), int64(5)},
	}

	r, err := New(FromFile(f))
	require.NoError(t, err)
	defer r.Close()

	_, ok := r.Table().Lookup("beta")
	assert.True(t, ok)
	assert.Equal(t, lisp.Int(42), r.Value("answer"))
	assert.Equal(t, lisp.Str("hello"), r.Value("greeting"))
	assert.Equal(t, "(2 3 5)", lisp.Sprint(r.Value("primes")))
}

func TestNewBadBinding(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bindings = map[string]any{"table": map[string]any{"a": 1}}
	_, err := New(cfg)
	var tc *bridge.TypeConversionError
	assert.ErrorAs(t, err, &tc)
}

func TestNewRestoresRows(t *testing.T) {
	src := symbol.NewTable()
	src.Intern("x")
	y := src.Intern("y")

	cfg := DefaultConfig()
	cfg.Rows = src.Export()
	r, err := New(cfg)
	require.NoError(t, err)
	defer r.Close()

	got, ok := r.Table().Lookup("y")
	require.True(t, ok)
	assert.Equal(t, y.ID(), got.ID())
}

func TestClose(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	assert.Zero(t, r.Registry().Len())
	_, err = r.Funcall("list", 1)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = r.Call("list")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, r.Bind("x", 1), ErrClosed)
	assert.ErrorIs(t, r.Close(), ErrClosed)
}

func TestFuncallDouble(t *testing.T) {
	r := newRuntime(t)
	r.Registry().Register("double", 1, 1, func(args ...lisp.Value) (lisp.Value, error) {
		return args[0].(lisp.Int) * 2, nil
	})
	out, err := r.Funcall("double", 21)
	require.NoError(t, err)
	assert.Equal(t, lisp.Int(42), out.V)
}

func TestBind(t *testing.T) {
	r := newRuntime(t)
	require.NoError(t, r.Bind("xs", []int{1, 2}))
	assert.Equal(t, "(1 2)", lisp.Sprint(r.Value("xs")))
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Output = &buf
	r, err := New(cfg)
	require.NoError(t, err)
	defer r.Close()

	v, err := r.Funcall("print", []any{"a", 1})
	require.NoError(t, err)
	assert.Equal(t, `("a" 1)`, v.String())
	assert.Equal(t, "(\"a\" 1)\n", buf.String())
}
