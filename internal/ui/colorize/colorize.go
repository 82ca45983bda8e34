// Package colorize highlights WRAMP listing lines for terminals.
package colorize

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/styles"
)

func getStyle() *chroma.Style {
	if style := styles.Get("wramp-dark"); style != nil {
		return style
	}
	return styles.Fallback
}

// getTerminalFormatter prefers true colour and falls back to 256 colours.
func getTerminalFormatter() chroma.Formatter {
	for _, name := range []string{"terminal16m", "terminal256"} {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// Line colourises one listing line. On tokeniser failure the line is
// returned unchanged.
func Line(line string) string {
	iterator, err := WRAMP.Tokenise(nil, line)
	if err != nil {
		return line
	}
	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getStyle(), iterator); err != nil {
		return line
	}
	return buf.String()
}

// Address renders an address or raw word column in grey.
func Address(s string) string {
	return fmt.Sprintf("\033[38;2;79;79;79m%s\033[0m", s)
}

// StripANSI removes SGR escape sequences.
func StripANSI(s string) string {
	var result strings.Builder
	inEscape := false

	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
		} else if inEscape {
			if r == 'm' {
				inEscape = false
			}
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}
