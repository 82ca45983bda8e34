package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	wstyles "wobj/internal/wobj/styles"
)

// WRAMPDark colours listings with the viewer palette.
var WRAMPDark = styles.Register(chroma.MustNewStyle("wramp-dark", chroma.StyleEntries{
	chroma.Text:       "#FFFFFF",
	chroma.Background: "bg:#1e1e1e",

	chroma.Keyword:       wstyles.MnemonicColor,
	chroma.KeywordPseudo: wstyles.StringColor,
	chroma.NameVariable:  wstyles.RegisterColor,
	chroma.NameBuiltin:   wstyles.RegisterColor,

	chroma.LiteralNumberHex:     wstyles.NumberColor,
	chroma.LiteralNumberInteger: wstyles.NumberColor,

	chroma.NameLabel:   wstyles.LabelColor,
	chroma.String:      wstyles.StringColor,
	chroma.Error:       wstyles.UnknownColor,
	chroma.Punctuation: "#FFFFFF",
}))

// WRAMP tokenises one listing line: "mnemonic:\toperands", a directive, a
// label definition or an unknown instruction diagnostic.
var WRAMP = lexers.Register(chroma.MustNewLexer(
	&chroma.Config{
		Name:    "WRAMP",
		Aliases: []string{"wramp"},
	},
	func() chroma.Rules {
		return chroma.Rules{
			"root": {
				{Pattern: `unknown instruction\b.*`, Type: chroma.Error},
				{Pattern: `[A-Za-z_.][\w.]*(?=:$)`, Type: chroma.NameLabel},
				{Pattern: `\.[a-z]+`, Type: chroma.KeywordPseudo, Mutator: chroma.Push("operands")},
				{Pattern: `[a-z][a-z0-9]*(?=:)`, Type: chroma.Keyword, Mutator: chroma.Push("operands")},
				{Pattern: `:`, Type: chroma.Punctuation},
				{Pattern: `\s+`, Type: chroma.Text},
				{Pattern: `.`, Type: chroma.Text},
			},
			"operands": {
				{Pattern: `\s+`, Type: chroma.Text},
				{Pattern: `\$(?:sp|ra|[0-9]+)\b`, Type: chroma.NameVariable},
				{Pattern: `\$[a-z]+[0-9]*`, Type: chroma.NameBuiltin},
				{Pattern: `0x[0-9a-fA-F]+`, Type: chroma.LiteralNumberHex},
				{Pattern: `-?[0-9]+`, Type: chroma.LiteralNumberInteger},
				{Pattern: `"(?:\\.|[^"\\])*"`, Type: chroma.String},
				{Pattern: `[A-Za-z_.][\w.]*`, Type: chroma.NameLabel},
				{Pattern: `[:,()]`, Type: chroma.Punctuation},
				{Pattern: `.`, Type: chroma.Text},
			},
		}
	},
))
