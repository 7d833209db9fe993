// Package registry holds the builtin tables: subr metadata, callable
// implementations and value bindings, all keyed by symbol identity.
package registry

import (
	"sort"
	"strings"
	"sync"

	"github.com/shawwn/ylang/lisp"
	"github.com/shawwn/ylang/symbol"
)

// Registry owns three parallel symbol-keyed tables. Entries are strong
// references that live until Reset.
type Registry struct {
	symbols *symbol.Table

	mu     sync.RWMutex
	subrs  map[*symbol.Symbol]*Subr
	funcs  map[*symbol.Symbol]Func
	values map[*symbol.Symbol]lisp.Value
}

// New creates an empty registry that interns names into t.
func New(t *symbol.Table) *Registry {
	return &Registry{
		symbols: t,
		subrs:   make(map[*symbol.Symbol]*Subr),
		funcs:   make(map[*symbol.Symbol]Func),
		values:  make(map[*symbol.Symbol]lisp.Value),
	}
}

// Symbols returns the table names are interned into.
func (r *Registry) Symbols() *symbol.Table {
	return r.symbols
}

// ---------------------------------------------------------------------------
// Keys
// ---------------------------------------------------------------------------

// Normalize maps an attribute-style identifier to the canonical hyphenated
// name, so make_symbol names make-symbol.
func Normalize(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}

// Symbol interns a raw name as-is.
func (r *Registry) Symbol(name string) *symbol.Symbol {
	return r.symbols.Intern(name)
}

// Attr interns an attribute-style identifier after normalizing it.
func (r *Registry) Attr(name string) *symbol.Symbol {
	return r.symbols.Intern(Normalize(name))
}

// ---------------------------------------------------------------------------
// Registration
// ---------------------------------------------------------------------------

// Register interns name and records fn with its arity in both the metadata
// and the implementation tables. Registering a name again replaces both
// entries.
func (r *Registry) Register(name string, minArgs, maxArgs int, fn Func) *Subr {
	sym := r.symbols.Intern(name)
	subr := &Subr{Name: name, Fn: fn, MinArgs: minArgs, MaxArgs: maxArgs}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.subrs[sym] = subr
	r.funcs[sym] = fn
	return subr
}

// Subr returns the metadata record for sym, or nil.
func (r *Registry) Subr(sym *symbol.Symbol) *Subr {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.subrs[sym]
}

// Function returns the implementation bound to sym.
func (r *Registry) Function(sym *symbol.Symbol) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[sym]
	return fn, ok
}

// SetFunction binds an implementation without metadata, dropping any Subr
// record left by Register. Calls through such a binding skip the arity
// check.
func (r *Registry) SetFunction(sym *symbol.Symbol, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subrs, sym)
	if fn == nil {
		delete(r.funcs, sym)
		return
	}
	r.funcs[sym] = fn
}

// Value returns the value bound to sym, or Nil when unbound.
func (r *Registry) Value(sym *symbol.Symbol) lisp.Value {
	if v, ok := r.LookupValue(sym); ok {
		return v
	}
	return lisp.Nil
}

// LookupValue returns the value bound to sym and whether it is bound.
func (r *Registry) LookupValue(sym *symbol.Symbol) (lisp.Value, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[sym]
	return v, ok
}

// SetValue binds v to sym.
func (r *Registry) SetValue(sym *symbol.Symbol, v lisp.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[sym] = v
}

// Unbind removes every entry for sym.
func (r *Registry) Unbind(sym *symbol.Symbol) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subrs, sym)
	delete(r.funcs, sym)
	delete(r.values, sym)
}

// ---------------------------------------------------------------------------
// Calling
// ---------------------------------------------------------------------------

// CheckArity verifies n arguments against the metadata for sym. A symbol
// without metadata passes.
func (r *Registry) CheckArity(sym *symbol.Symbol, n int) error {
	subr := r.Subr(sym)
	if subr == nil || subr.Accepts(n) {
		return nil
	}
	return &ArityError{Symbol: sym, Min: subr.MinArgs, Max: subr.MaxArgs, Got: n}
}

// Call invokes the implementation bound to sym after checking its arity.
func (r *Registry) Call(sym *symbol.Symbol, args ...lisp.Value) (lisp.Value, error) {
	fn, ok := r.Function(sym)
	if !ok {
		return nil, &UnboundFunctionError{Symbol: sym}
	}
	if err := r.CheckArity(sym, len(args)); err != nil {
		return nil, err
	}
	return fn(args...)
}

// ---------------------------------------------------------------------------
// Introspection
// ---------------------------------------------------------------------------

// Subrs returns all metadata records sorted by name.
func (r *Registry) Subrs() []*Subr {
	r.mu.RLock()
	out := make([]*Subr, 0, len(r.subrs))
	for _, s := range r.subrs {
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Bindings returns the symbols with a value binding, in table order.
func (r *Registry) Bindings() []*symbol.Symbol {
	var out []*symbol.Symbol
	r.symbols.MapAtoms(func(s *symbol.Symbol) {
		if _, ok := r.LookupValue(s); ok {
			out = append(out, s)
		}
	})
	return out
}

// Len returns the number of registered subrs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subrs)
}

// Reset drops every entry in all three tables.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.subrs)
	clear(r.funcs)
	clear(r.values)
}
