package analysis

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"wobj/internal/objfile"
	"wobj/internal/wramp"
)

// StringResult is a NUL terminated string recovered from the DATA segment.
// WRAMP is word addressed, so each character occupies a whole word.
type StringResult struct {
	Addr  uint32   // absolute address of the first character
	Label string   // label defined at Addr, if any
	Value string   // escaped string content
	Len   int      // characters, excluding the terminator
	Words []uint32 // raw words including the terminator
}

// Directive renders the string as an .asciiz listing line.
func (s StringResult) Directive() string {
	spec, _ := wramp.DirectiveSpec(".asciiz")
	return spec.Mnemonic + ":\t" + wramp.FormatDirective(spec, s.Words...)
}

// EscapeUnprintable returns a string where printable Unicode runes are preserved.
// Control and unprintable runes are escaped as \uXXXX. Invalid UTF-8 is escaped as \xXX.
func EscapeUnprintable(b []byte) string {
	var sb strings.Builder
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			sb.WriteString(fmt.Sprintf("\\x%02X", b[0]))
		} else if unicode.IsPrint(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteString(fmt.Sprintf("\\u%04X", r))
		}
		b = b[size:]
	}
	return sb.String()
}

func isStringWord(w uint32) bool {
	switch {
	case w >= 0x20 && w < 0x7f:
		return true
	case w == '\t' || w == '\n' || w == '\r':
		return true
	default:
		return false
	}
}

// RecoverStrings scans DATA for runs of at least minLen character words
// followed by a zero word. Runs longer than MaxStringLength are skipped.
func RecoverStrings(f *objfile.File, minLen int) []StringResult {
	if minLen < 1 {
		minLen = MinStringLength
	}
	var out []StringResult
	words := f.Data.Words
	start := -1
	for i, w := range words {
		switch {
		case isStringWord(w):
			if start < 0 {
				start = i
			}
		case w == 0 && start >= 0:
			n := i - start
			if n >= minLen && n <= MaxStringLength {
				out = append(out, newString(f, start, words[start:i+1]))
			}
			start = -1
		default:
			start = -1
		}
	}
	return out
}

func newString(f *objfile.File, idx int, words []uint32) StringResult {
	b := make([]byte, len(words)-1)
	for i := range b {
		b[i] = byte(words[i])
	}
	addr := f.Data.Base + uint32(idx)
	label, _ := f.ResolveLabel(addr)
	return StringResult{
		Addr:  addr,
		Label: label,
		Value: EscapeUnprintable(b),
		Len:   len(b),
		Words: words,
	}
}
