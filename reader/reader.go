// Package reader parses the printed form of runtime values back into
// values: integers, floats, strings, symbols, proper and dotted lists and
// vectors. Hash tables have no readable form.
package reader

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shawwn/ylang/lisp"
	"github.com/shawwn/ylang/symbol"
)

var specialFloats = map[string]float64{
	"1.0e+INF":  math.Inf(1),
	"-1.0e+INF": math.Inf(-1),
	"0.0e+NaN":  math.NaN(),
}

// SyntaxError reports malformed input.
type SyntaxError struct {
	Pos Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("read: %s: %s", e.Pos, e.Msg)
}

// Parser reads values from a token stream, interning symbols into a table.
type Parser struct {
	lexer *Lexer
	table *symbol.Table
	cur   Token
}

// NewParser creates a parser over src.
func NewParser(t *symbol.Table, src string) *Parser {
	p := &Parser{lexer: NewLexer(src), table: t}
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.lexer.NextToken()
}

func (p *Parser) errorf(format string, args ...any) error {
	return &SyntaxError{Pos: p.cur.Pos, Msg: fmt.Sprintf(format, args...)}
}

// More reports whether another value follows.
func (p *Parser) More() bool {
	return p.cur.Type != TokenEOF
}

// Next reads one value.
func (p *Parser) Next() (lisp.Value, error) {
	tok := p.cur
	switch tok.Type {
	case TokenEOF:
		return nil, p.errorf("unexpected end of input")
	case TokenError:
		return nil, p.errorf("%s", tok.Literal)
	case TokenInteger:
		p.advance()
		n, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return nil, &SyntaxError{Pos: tok.Pos, Msg: err.Error()}
		}
		return lisp.Int(n), nil
	case TokenFloat:
		p.advance()
		if f, ok := specialFloats[tok.Literal]; ok {
			return lisp.Float(f), nil
		}
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, &SyntaxError{Pos: tok.Pos, Msg: err.Error()}
		}
		return lisp.Float(f), nil
	case TokenString:
		p.advance()
		return lisp.Str(tok.Literal), nil
	case TokenSymbol:
		p.advance()
		return p.table.Intern(tok.Literal), nil
	case TokenLParen:
		p.advance()
		return p.parseList()
	case TokenLBracket:
		p.advance()
		return p.parseVector()
	}
	return nil, p.errorf("unexpected %s", tok.Type)
}

func (p *Parser) parseList() (lisp.Value, error) {
	var items []lisp.Value
	for {
		switch p.cur.Type {
		case TokenRParen:
			p.advance()
			return lisp.List(items...), nil
		case TokenDot:
			if len(items) == 0 {
				return nil, p.errorf("dot at start of list")
			}
			p.advance()
			tail, err := p.Next()
			if err != nil {
				return nil, err
			}
			if p.cur.Type != TokenRParen {
				return nil, p.errorf("expected ) after dotted tail")
			}
			p.advance()
			return lisp.ListStar(append(items, tail)...), nil
		case TokenEOF:
			return nil, p.errorf("unterminated list")
		}
		v, err := p.Next()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
}

func (p *Parser) parseVector() (lisp.Value, error) {
	vec := lisp.Vector{}
	for {
		switch p.cur.Type {
		case TokenRBracket:
			p.advance()
			return vec, nil
		case TokenEOF:
			return nil, p.errorf("unterminated vector")
		}
		v, err := p.Next()
		if err != nil {
			return nil, err
		}
		vec = append(vec, v)
	}
}

// Read parses exactly one value from src.
func Read(t *symbol.Table, src string) (lisp.Value, error) {
	p := NewParser(t, src)
	v, err := p.Next()
	if err != nil {
		return nil, err
	}
	if p.More() {
		return nil, p.errorf("trailing input after value")
	}
	return v, nil
}

// ReadAll parses every value in src.
func ReadAll(t *symbol.Table, src string) ([]lisp.Value, error) {
	p := NewParser(t, src)
	var out []lisp.Value
	for p.More() {
		v, err := p.Next()
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}
