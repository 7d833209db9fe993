package registry

import (
	"fmt"

	"github.com/shawwn/ylang/lisp"
	"github.com/shawwn/ylang/symbol"
)

// Arity sentinels for Subr.MaxArgs.
const (
	// Many marks a variadic subr: any number of arguments at or above
	// MinArgs, collected into one ordered slice.
	Many = -2
	// Unevalled marks a special-form subr. There is no evaluator, so for
	// calls it behaves like Many.
	Unevalled = -1
)

// Func is a builtin implementation. Arguments arrive positionally; a
// variadic subr receives all of them in args.
type Func func(args ...lisp.Value) (lisp.Value, error)

// Subr is the metadata record of a registered builtin.
type Subr struct {
	Name    string
	Fn      Func
	MinArgs int
	MaxArgs int
}

// Variadic reports whether the subr has no upper arity bound.
func (s *Subr) Variadic() bool {
	return s.MaxArgs == Many || s.MaxArgs == Unevalled
}

// Accepts reports whether n arguments satisfy the subr's arity.
func (s *Subr) Accepts(n int) bool {
	if n < s.MinArgs {
		return false
	}
	return s.Variadic() || n <= s.MaxArgs
}

// Signature describes the arity, for example "(cons 2)" or "(list 0+)".
func (s *Subr) Signature() string {
	switch {
	case s.Variadic():
		return fmt.Sprintf("(%s %d+)", s.Name, s.MinArgs)
	case s.MinArgs == s.MaxArgs:
		return fmt.Sprintf("(%s %d)", s.Name, s.MinArgs)
	default:
		return fmt.Sprintf("(%s %d..%d)", s.Name, s.MinArgs, s.MaxArgs)
	}
}

func (s *Subr) String() string {
	return fmt.Sprintf("#<subr %s>", s.Name)
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

// ArityError reports a call with too few or too many arguments.
type ArityError struct {
	Symbol *symbol.Symbol
	Min    int
	Max    int
	Got    int
}

func (e *ArityError) Error() string {
	upper := fmt.Sprint(e.Max)
	if e.Max == Many || e.Max == Unevalled {
		upper = "many"
	}
	return fmt.Sprintf("wrong number of arguments: %s, requires %d..%s, got %d",
		e.Symbol, e.Min, upper, e.Got)
}

// UnboundFunctionError reports a call to a name with no registered
// implementation.
type UnboundFunctionError struct {
	Symbol *symbol.Symbol
}

func (e *UnboundFunctionError) Error() string {
	return fmt.Sprintf("void function: %s", e.Symbol)
}
