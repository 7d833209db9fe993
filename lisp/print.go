package lisp

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/shawwn/ylang/symbol"
)

// ---------------------------------------------------------------------------
// Printed form
// ---------------------------------------------------------------------------

// Sprint returns the printed form of v.
func Sprint(v Value) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

// Fprint writes the printed form of v to w.
func Fprint(w io.Writer, v Value) error {
	_, err := io.WriteString(w, Sprint(v))
	return err
}

func writeValue(b *strings.Builder, v Value) {
	switch v := v.(type) {
	case nil:
		b.WriteString(symbol.Nil.String())
	case *symbol.Symbol:
		b.WriteString(v.String())
	case *Cons:
		writeCons(b, v)
	case *View:
		writeValue(b, v.Seq())
	case Int:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case Float:
		b.WriteString(formatFloat(float64(v)))
	case Str:
		b.WriteString(strconv.Quote(string(v)))
	case Vector:
		b.WriteByte('[')
		for i, x := range v {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeValue(b, x)
		}
		b.WriteByte(']')
	case *HashTable:
		b.WriteString("#s(hash-table data (")
		first := true
		v.Range(func(k, x Value) bool {
			if !first {
				b.WriteByte(' ')
			}
			first = false
			writeValue(b, k)
			b.WriteByte(' ')
			writeValue(b, x)
			return true
		})
		b.WriteString("))")
	case fmt.Stringer:
		b.WriteString(v.String())
	default:
		fmt.Fprintf(b, "#<%T>", v)
	}
}

// writeCons prints a proper list as (a b c) and a dotted chain as
// (a b . c).
func writeCons(b *strings.Builder, c *Cons) {
	b.WriteByte('(')
	for {
		writeValue(b, c.Car)
		if view, ok := c.Cdr.(*View); ok {
			c = &Cons{Car: c.Car, Cdr: view.Seq()}
		}
		if IsNil(c.Cdr) {
			break
		}
		next, ok := c.Cdr.(*Cons)
		if !ok {
			b.WriteString(" . ")
			writeValue(b, c.Cdr)
			break
		}
		b.WriteByte(' ')
		c = next
	}
	b.WriteByte(')')
}

// formatFloat always includes a decimal point or exponent so a float never
// reads back as an integer.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "1.0e+INF"
	case math.IsInf(f, -1):
		return "-1.0e+INF"
	case math.IsNaN(f):
		return "0.0e+NaN"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// String implements fmt.Stringer.
func (c *Cons) String() string {
	return Sprint(c)
}

// String implements fmt.Stringer.
func (h *HashTable) String() string {
	return Sprint(h)
}
