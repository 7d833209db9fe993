package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/shawwn/ylang/lisp"
	"github.com/shawwn/ylang/reader"
	"github.com/shawwn/ylang/runtime"
	"github.com/shawwn/ylang/symbol"
)

// runREPL reads forms line by line. Input that ends inside an open list,
// vector or string continues on the next line.
func runREPL(rt *runtime.Runtime, prompt string) error {
	rl, err := readline.New(prompt)
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintln(rl.Stdout(), "ylang REPL (type 'exit' to quit, ':help' for commands)")
	contPrompt := strings.Repeat(" ", len(prompt))

	var in input
	for {
		line, err := rl.ReadSlice()
		if err == readline.ErrInterrupt {
			in.reset()
			rl.SetPrompt(prompt)
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if !in.pending() {
			cmd := strings.TrimSpace(string(line))
			if cmd == "exit" || cmd == "quit" {
				return nil
			}
			if strings.HasPrefix(cmd, ":") {
				handleREPLCommand(rl.Stdout(), rt, cmd)
				continue
			}
		}

		src, ok := in.add(line)
		if !ok {
			rl.SetPrompt(contPrompt)
			continue
		}
		rl.SetPrompt(prompt)

		results, err := evalString(rt, src)
		for _, v := range results {
			fmt.Fprintln(rl.Stdout(), lisp.Sprint(v))
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

// input accumulates REPL lines until no form is left open.
type input struct {
	buf []byte
}

// add appends line and returns the buffered source once it is complete.
func (in *input) add(line []byte) (string, bool) {
	if len(in.buf) > 0 {
		in.buf = append(in.buf, '\n')
	}
	in.buf = append(in.buf, line...)
	src := string(in.buf)
	if !complete(src) {
		return "", false
	}
	in.buf = nil
	return src, true
}

func (in *input) pending() bool { return len(in.buf) > 0 }

func (in *input) reset() { in.buf = nil }

// complete reports whether src leaves no list, vector or string open. It
// reads into a scratch table, so nothing is interned or evaluated.
func complete(src string) bool {
	_, err := reader.ReadAll(symbol.NewTable(), src)
	return !incomplete(err)
}

// handleREPLCommand handles REPL meta-commands.
func handleREPLCommand(w io.Writer, rt *runtime.Runtime, cmd string) {
	fields := strings.Fields(cmd)
	switch fields[0] {
	case ":help", ":h", ":?":
		fmt.Fprintln(w, "REPL Commands:")
		fmt.Fprintln(w, "  :help, :h, :?     Show this help")
		fmt.Fprintln(w, "  :atoms            List interned symbols")
		fmt.Fprintln(w, "  :subrs            List builtins")
		fmt.Fprintln(w, "  :describe NAME    Show a symbol's bindings")
		fmt.Fprintln(w, "  exit, quit        Exit REPL")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "(f args...) calls builtin f with the literal arguments.")
		fmt.Fprintln(w, "A bare symbol prints its value.")
	case ":atoms":
		var names []string
		rt.Table().MapAtoms(func(s *symbol.Symbol) {
			names = append(names, s.String())
		})
		fmt.Fprintln(w, strings.Join(names, " "))
	case ":subrs":
		for _, subr := range rt.Registry().Subrs() {
			fmt.Fprintln(w, subr.Signature())
		}
	case ":describe":
		if len(fields) != 2 {
			fmt.Fprintln(w, "usage: :describe NAME")
			return
		}
		fmt.Fprint(w, describe(rt, fields[1]))
	default:
		fmt.Fprintf(w, "Unknown command: %s (type :help for commands)\n", cmd)
	}
}

func describe(rt *runtime.Runtime, name string) string {
	s, ok := rt.Table().Lookup(name)
	if !ok {
		return fmt.Sprintf("%s is not interned\n", name)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: symbol #%d\n", s, s.ID())
	reg := rt.Registry()
	if subr := reg.Subr(s); subr != nil {
		fmt.Fprintf(&b, "  function: %s\n", subr.Signature())
	}
	if v, ok := reg.LookupValue(s); ok {
		fmt.Fprintf(&b, "  value: %s\n", lisp.Sprint(v))
	}
	return b.String()
}

// evalString reads every form in src and evaluates each in turn, stopping
// at the first error.
func evalString(rt *runtime.Runtime, src string) ([]lisp.Value, error) {
	p := reader.NewParser(rt.Table(), src)
	var out []lisp.Value
	for p.More() {
		form, err := p.Next()
		if err != nil {
			return out, err
		}
		v, err := eval(rt, form)
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// eval applies a list form headed by a symbol to its literal arguments.
// A symbol evaluates to its value binding; anything else to itself.
func eval(rt *runtime.Runtime, form lisp.Value) (lisp.Value, error) {
	switch f := form.(type) {
	case *symbol.Symbol:
		return rt.Registry().Value(f), nil
	case *lisp.Cons:
		head, ok := f.Car.(*symbol.Symbol)
		if !ok {
			return nil, &lisp.WrongTypeError{Op: "eval", Want: "symbolp", Got: f.Car}
		}
		args, err := lisp.Slice(f.Cdr)
		if err != nil {
			return nil, err
		}
		return rt.Registry().Call(head, args...)
	default:
		return form, nil
	}
}

// incomplete reports whether err means the input stopped inside an open
// form.
func incomplete(err error) bool {
	var se *reader.SyntaxError
	return errors.As(err, &se) && strings.HasPrefix(se.Msg, "unterminated")
}
