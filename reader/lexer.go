package reader

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes the printed form of runtime values.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      rune // current character
	eof     bool
	line    int
	col     int
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.eof = true
		l.pos = l.readPos
		return
	}
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size
	l.col++
}

func (l *Lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	tok := l.next()
	tok.End = l.pos
	return tok
}

func (l *Lexer) next() Token {
	l.skipWhitespaceAndComments()
	pos := l.position()

	if l.eof {
		return Token{Type: TokenEOF, Pos: pos}
	}
	switch l.ch {
	case '(':
		l.readChar()
		return Token{Type: TokenLParen, Literal: "(", Pos: pos}
	case ')':
		l.readChar()
		return Token{Type: TokenRParen, Literal: ")", Pos: pos}
	case '[':
		l.readChar()
		return Token{Type: TokenLBracket, Literal: "[", Pos: pos}
	case ']':
		l.readChar()
		return Token{Type: TokenRBracket, Literal: "]", Pos: pos}
	case '"':
		return l.readString(pos)
	case '|':
		return l.readQuotedSymbol(pos)
	}
	return l.readAtom(pos)
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.eof {
		switch {
		case unicode.IsSpace(l.ch):
			l.readChar()
		case l.ch == ';':
			for !l.eof && l.ch != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}

// readString reads a Go-quoted string literal.
func (l *Lexer) readString(pos Position) Token {
	start := l.pos
	l.readChar() // consume opening "
	for !l.eof && l.ch != '"' {
		if l.ch == '\\' {
			l.readChar()
		}
		l.readChar()
	}
	if l.eof {
		return Token{Type: TokenError, Literal: "unterminated string", Pos: pos}
	}
	l.readChar() // consume closing "
	s, err := strconv.Unquote(l.input[start:l.pos])
	if err != nil {
		return Token{Type: TokenError, Literal: "invalid string literal", Pos: pos}
	}
	return Token{Type: TokenString, Literal: s, Pos: pos}
}

// readQuotedSymbol reads |...|, where \| stands for a literal bar.
func (l *Lexer) readQuotedSymbol(pos Position) Token {
	l.readChar() // consume opening |

	var sb strings.Builder
	for !l.eof && l.ch != '|' {
		if l.ch == '\\' {
			l.readChar()
			if l.ch != '|' {
				sb.WriteRune('\\')
			}
			if l.eof {
				break
			}
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	if l.eof {
		return Token{Type: TokenError, Literal: "unterminated |symbol|", Pos: pos}
	}
	l.readChar() // consume closing |
	return Token{Type: TokenSymbol, Literal: sb.String(), Pos: pos}
}

// readAtom reads a bare token and classifies it as a number, the dot of a
// dotted pair, or a symbol.
func (l *Lexer) readAtom(pos Position) Token {
	start := l.pos
	for !l.eof && !isDelimiter(l.ch) {
		l.readChar()
	}
	lit := l.input[start:l.pos]

	switch {
	case lit == ".":
		return Token{Type: TokenDot, Literal: lit, Pos: pos}
	case isInteger(lit):
		return Token{Type: TokenInteger, Literal: lit, Pos: pos}
	case isFloat(lit):
		return Token{Type: TokenFloat, Literal: lit, Pos: pos}
	}
	return Token{Type: TokenSymbol, Literal: lit, Pos: pos}
}

func isDelimiter(r rune) bool {
	switch r {
	case '(', ')', '[', ']', '"', ';', '|':
		return true
	}
	return unicode.IsSpace(r)
}

func isInteger(lit string) bool {
	_, err := strconv.ParseInt(lit, 10, 64)
	return err == nil
}

func isFloat(lit string) bool {
	if _, ok := specialFloats[lit]; ok {
		return true
	}
	if !strings.ContainsAny(lit, ".eE") {
		return false
	}
	if strings.ContainsAny(lit, "iInN") {
		// keep inf and nan spellings as symbols
		return false
	}
	_, err := strconv.ParseFloat(lit, 64)
	return err == nil
}

// Tokenize returns all tokens of input up to and including EOF.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF || tok.Type == TokenError {
			return tokens
		}
	}
}
