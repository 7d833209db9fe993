package reader

import "fmt"

// ---------------------------------------------------------------------------
// Tokens of the printed form
// ---------------------------------------------------------------------------

// TokenType represents the type of a token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenError

	TokenInteger // 42, -7
	TokenFloat   // 1.5, 1e10, 1.0e+INF
	TokenString  // "hello"
	TokenSymbol  // foo, :key, |foo bar|

	TokenLParen   // (
	TokenRParen   // )
	TokenLBracket // [
	TokenRBracket // ]
	TokenDot      // . inside a list
)

var tokenNames = map[TokenType]string{
	TokenEOF:      "EOF",
	TokenError:    "ERROR",
	TokenInteger:  "INTEGER",
	TokenFloat:    "FLOAT",
	TokenString:   "STRING",
	TokenSymbol:   "SYMBOL",
	TokenLParen:   "(",
	TokenRParen:   ")",
	TokenLBracket: "[",
	TokenRBracket: "]",
	TokenDot:      ".",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// Position is a location in the source.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a lexical token. Literal holds the decoded text: the unquoted
// name of a |...| symbol, the unescaped contents of a string.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
	End     int // byte offset just past the token
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %s", t.Type, t.Literal, t.Pos)
}
