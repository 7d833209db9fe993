package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbol_String(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"foo", "foo"},
		{"foo bar", "|foo bar|"},
		{"a|b", `|a\|b|`},
		{"tab\there", "|tab\there|"},
		{`back\slash`, `back\slash`},
		{`a\|b c`, `|a\\|b c|`},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Make(tt.name).String(), "name %q", tt.name)
	}
}

func TestSymbol_Keyword(t *testing.T) {
	assert.True(t, Make(":a").IsKeyword())
	assert.False(t, Make("a:").IsKeyword())
	assert.False(t, Make("").IsKeyword())
}

func TestSymbol_Make(t *testing.T) {
	table := NewTable()
	interned := table.Intern("x")
	made := Make("x")
	assert.NotSame(t, interned, made)
	assert.False(t, table.Contains(made))
	assert.True(t, table.Contains(interned))
}
