// Package runtime owns a symbol table, its builtin registry and the host
// bridge, and registers the core builtins into them.
package runtime

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/shawwn/ylang/bridge"
	"github.com/shawwn/ylang/config"
	"github.com/shawwn/ylang/lisp"
	"github.com/shawwn/ylang/registry"
	"github.com/shawwn/ylang/symbol"
)

var log = commonlog.GetLogger("ylang.runtime")

// ErrClosed is returned by operations on a closed runtime.
var ErrClosed = errors.New("runtime: closed")

// Runtime is the explicit owner of all runtime state. Everything it holds
// lives until Close.
type Runtime struct {
	table  *symbol.Table
	reg    *registry.Registry
	bridge *bridge.Bridge
	out    io.Writer

	mu     sync.Mutex
	closed bool
}

// Config holds runtime configuration.
type Config struct {
	ObarrayCapacity int            // initial obarray size hint
	Preload         []string       // names interned at startup
	Bindings        map[string]any // host values bound at startup
	Env             bridge.Env     // host environment (defaults to bridge.NewEnv)
	Rows            []symbol.Row   // obarray rows to restore, from a snapshot
	Output          io.Writer      // destination of print (defaults to stdout)
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{ObarrayCapacity: 256}
}

// FromFile builds a Config from a loaded ylang.toml.
func FromFile(f *config.File) *Config {
	cfg := DefaultConfig()
	if f == nil {
		return cfg
	}
	if f.Runtime.ObarrayCapacity > 0 {
		cfg.ObarrayCapacity = f.Runtime.ObarrayCapacity
	}
	cfg.Preload = append(cfg.Preload, f.Runtime.Preload...)
	cfg.Bindings = f.Bindings
	return cfg
}

// New creates a runtime: a fresh obarray, a registry holding the core
// builtins, the value bindings nil, t and f, then the configured preload
// symbols and bindings.
func New(cfg *Config) (*Runtime, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	r := &Runtime{
		table: symbol.NewTableSize(cfg.ObarrayCapacity, cfg.Rows...),
		out:   cfg.Output,
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	r.reg = registry.New(r.table)

	env := cfg.Env
	if env == nil {
		env = bridge.NewEnv(r.table)
	}
	r.bridge = bridge.New(env, r.reg)

	r.registerSymbolPrimitives()
	r.registerListPrimitives()
	r.registerAccessorPrimitives()

	for _, s := range []*symbol.Symbol{symbol.Nil, symbol.T, symbol.F} {
		r.reg.SetValue(s, s)
	}

	r.table.InternAll(cfg.Preload...)

	// sorted so conversion failures are reported deterministically
	names := make([]string, 0, len(cfg.Bindings))
	for name := range cfg.Bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v, err := r.bridge.Unwrap(cfg.Bindings[name])
		if err != nil {
			return nil, fmt.Errorf("runtime: binding %s: %w", name, err)
		}
		r.reg.SetValue(r.table.Intern(name), v)
	}

	log.Infof("runtime ready: %d symbols, %d subrs", r.table.Len(), r.reg.Len())
	return r, nil
}

// Close tears down the registry tables. The runtime is unusable afterwards.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	r.reg.Reset()
	r.closed = true
	log.Info("runtime closed")
	return nil
}

func (r *Runtime) check() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	return nil
}

// Table returns the runtime's obarray.
func (r *Runtime) Table() *symbol.Table { return r.table }

// Registry returns the builtin registry.
func (r *Runtime) Registry() *registry.Registry { return r.reg }

// Bridge returns the host bridge.
func (r *Runtime) Bridge() *bridge.Bridge { return r.bridge }

// Sym interns name into the runtime's obarray.
func (r *Runtime) Sym(name string) *symbol.Symbol {
	return r.table.Intern(name)
}

// Funcall invokes a builtin with host arguments.
func (r *Runtime) Funcall(fn any, args ...any) (*bridge.Value, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	return r.bridge.Funcall(fn, args...)
}

// Call invokes a builtin with runtime values.
func (r *Runtime) Call(name string, args ...lisp.Value) (lisp.Value, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	return r.reg.Call(r.table.Intern(name), args...)
}

// Bind sets a value binding from a host value.
func (r *Runtime) Bind(name string, x any) error {
	if err := r.check(); err != nil {
		return err
	}
	v, err := r.bridge.Unwrap(x)
	if err != nil {
		return err
	}
	r.reg.SetValue(r.table.Intern(name), v)
	return nil
}

// Value returns the value bound to name, or nil.
func (r *Runtime) Value(name string) lisp.Value {
	return r.reg.Value(r.reg.Attr(name))
}

// defun registers a builtin and logs it.
func (r *Runtime) defun(name string, minArgs, maxArgs int, fn registry.Func) {
	subr := r.reg.Register(name, minArgs, maxArgs, fn)
	log.Debugf("defun %s", subr.Signature())
}

// obarray resolves an optional obarray argument. Absent or nil means the
// runtime's own table.
func (r *Runtime) obarray(args []lisp.Value, i int) (*symbol.Table, error) {
	if i >= len(args) || lisp.IsNil(args[i]) {
		return r.table, nil
	}
	t, ok := args[i].(*symbol.Table)
	if !ok {
		return nil, &lisp.WrongTypeError{Op: "obarray", Want: "obarrayp", Got: args[i]}
	}
	return t, nil
}
