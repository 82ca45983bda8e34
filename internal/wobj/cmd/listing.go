package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"wobj/internal/disasm"
	"wobj/internal/ui/colorize"
)

// listingFormat selects the optional listing columns.
type listingFormat struct {
	addresses bool // five digit hex address column
	words     bool // raw eight digit word column
	labels    bool // label lines and symbolic targets
	color     bool
}

// addressColumn renders a bare address column entry.
func (lf listingFormat) addressColumn(addr uint32) string {
	col := fmt.Sprintf("%05x", addr)
	if lf.color {
		col = colorize.Address(col)
	}
	return col
}

// prefix renders the address and word columns for l, or "" when both are off.
func (lf listingFormat) prefix(l disasm.Line) string {
	var cols []string
	if lf.addresses {
		cols = append(cols, fmt.Sprintf("%05x", l.Addr))
	}
	if lf.words {
		cols = append(cols, fmt.Sprintf("%08x", l.Word))
	}
	if len(cols) == 0 {
		return ""
	}
	p := strings.Join(cols, "  ")
	if lf.color {
		p = colorize.Address(p)
	}
	return p + "  "
}

// lines renders ls, one entry per output line. index maps each listing
// address to the output line holding it.
func (lf listingFormat) lines(ls disasm.Listing) (out []string, index map[uint32]int) {
	index = make(map[uint32]int, len(ls))
	for _, l := range ls {
		if lf.labels && l.Label != "" {
			label := l.Label + ":"
			if lf.color {
				label = colorize.Line(label)
			}
			out = append(out, label)
		}
		if _, ok := index[l.Addr]; !ok {
			index[l.Addr] = len(out)
		}
		text := l.String()
		if lf.color {
			text = colorize.Line(text)
		}
		out = append(out, lf.prefix(l)+text)
	}
	return out, index
}

func (lf listingFormat) write(w io.Writer, ls disasm.Listing) error {
	bw := bufio.NewWriter(w)
	lines, _ := lf.lines(ls)
	for _, line := range lines {
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}
