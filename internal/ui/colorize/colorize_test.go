package colorize

import (
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokens(t *testing.T, line string) []chroma.Token {
	t.Helper()
	it, err := WRAMP.Tokenise(nil, line)
	require.NoError(t, err)
	var out []chroma.Token
	for _, tok := range it.Tokens() {
		if tok.Type != chroma.Text {
			out = append(out, tok)
		}
	}
	return out
}

func TestLexer(t *testing.T) {
	tests := []struct {
		line string
		want []chroma.Token
	}{
		{
			line: "addi:\t$1,$sp,0x0005",
			want: []chroma.Token{
				{Type: chroma.Keyword, Value: "addi"},
				{Type: chroma.Punctuation, Value: ":"},
				{Type: chroma.NameVariable, Value: "$1"},
				{Type: chroma.Punctuation, Value: ","},
				{Type: chroma.NameVariable, Value: "$sp"},
				{Type: chroma.Punctuation, Value: ","},
				{Type: chroma.LiteralNumberHex, Value: "0x0005"},
			},
		},
		{
			line: "movsg:\t$2,$evec",
			want: []chroma.Token{
				{Type: chroma.Keyword, Value: "movsg"},
				{Type: chroma.Punctuation, Value: ":"},
				{Type: chroma.NameVariable, Value: "$2"},
				{Type: chroma.Punctuation, Value: ","},
				{Type: chroma.NameBuiltin, Value: "$evec"},
			},
		},
		{
			line: "bnez:\t$1,loop",
			want: []chroma.Token{
				{Type: chroma.Keyword, Value: "bnez"},
				{Type: chroma.Punctuation, Value: ":"},
				{Type: chroma.NameVariable, Value: "$1"},
				{Type: chroma.Punctuation, Value: ","},
				{Type: chroma.NameLabel, Value: "loop"},
			},
		},
		{
			line: "main:",
			want: []chroma.Token{
				{Type: chroma.NameLabel, Value: "main"},
				{Type: chroma.Punctuation, Value: ":"},
			},
		},
		{
			line: "unknown instruction 0xf0000000 at 0x00002",
			want: []chroma.Token{
				{Type: chroma.Error, Value: "unknown instruction 0xf0000000 at 0x00002"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, tokens(t, tt.line))
		})
	}
}

func TestLineRoundTrip(t *testing.T) {
	for _, line := range []string{"lw:\t$2,-4($sp)", ".asciiz:\t\"hi\"", "j:\tmain"} {
		out := Line(line)
		assert.Contains(t, out, "\x1b[")
		assert.Equal(t, line, StripANSI(out))
	}
	assert.Equal(t, "00010", StripANSI(Address("00010")))
}
