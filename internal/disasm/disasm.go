// Package disasm turns the segments of a loaded object file into listing
// lines: decoded TEXT instructions, and DATA/BSS rendered as directives.
package disasm

import (
	"fmt"
	"slices"

	"wobj/internal/objfile"
	"wobj/internal/wramp"
)

// Line is one listing line.
type Line struct {
	Addr      uint32              // absolute word address
	Word      uint32              // raw encoding
	Segment   objfile.SegmentType // segment the line belongs to
	Known     bool                // false when no catalogue entry matched
	Mnemonic  string
	Operands  string
	Label     string // label defined at Addr, if any
	Target    uint32 // jump or branch destination
	HasTarget bool
}

// String renders the line as "mnemonic:\toperands", or an unknown
// instruction diagnostic.
func (l Line) String() string {
	if !l.Known {
		return fmt.Sprintf("unknown instruction 0x%08x at 0x%05x", l.Word, l.Addr)
	}
	return l.Mnemonic + ":\t" + l.Operands
}

// Listing is a sequence of lines in address order.
type Listing []Line

// Strings renders every line with String.
func (ls Listing) Strings() []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.String()
	}
	return out
}

// Unknown counts the lines that failed to decode.
func (ls Listing) Unknown() int {
	n := 0
	for _, l := range ls {
		if !l.Known {
			n++
		}
	}
	return n
}

// Options controls label resolution.
type Options struct {
	// NoLabels prints every jump and branch target numerically.
	NoLabels bool
}

// Instruction decodes a single word found at addr. r may be nil.
func Instruction(word, addr uint32, r wramp.Resolver) Line {
	l := Line{Addr: addr, Word: word, Segment: objfile.SegText}
	d := wramp.Decode(word)
	idx, ok := wramp.Lookup(d.Opcode, d.Func)
	if !ok {
		return l
	}
	spec := wramp.Table[idx]
	l.Known = true
	l.Mnemonic = spec.Mnemonic
	l.Operands = wramp.FormatOperands(spec, d, addr, r)
	l.Target, l.HasTarget = target(spec, d, addr)
	return l
}

// target extracts the destination named by a j or b operand token.
func target(spec wramp.Spec, d wramp.Decoded, addr uint32) (uint32, bool) {
	for _, ch := range spec.Operands {
		switch ch {
		case 'j':
			return d.Offset, true
		case 'b':
			return wramp.BranchTarget(addr, d), true
		}
	}
	return 0, false
}

// Disassemble decodes every TEXT word of f. Words that match no catalogue
// entry produce an unknown line and decoding continues.
func Disassemble(f *objfile.File, opts Options) Listing {
	out := make(Listing, 0, len(f.Text.Words))
	for i, word := range f.Text.Words {
		addr := f.Text.Base + uint32(i)
		var r wramp.Resolver
		if !opts.NoLabels {
			r = resolverAt(f, addr)
		}
		l := Instruction(word, addr, r)
		l.Label, _ = f.ResolveLabel(addr)
		out = append(out, l)
	}
	return out
}

// resolverAt names targets for the instruction at addr. A word patched by an
// external reference names that symbol; anything else uses the label table.
func resolverAt(f *objfile.File, addr uint32) wramp.Resolver {
	if ext, ok := f.ExternalAt(addr); ok {
		return wramp.ResolverFunc(func(uint32) (string, bool) { return ext, true })
	}
	return f
}

// DumpData renders each DATA word as a .word directive.
func DumpData(f *objfile.File) Listing {
	spec, _ := wramp.DirectiveSpec(".word")
	out := make(Listing, 0, len(f.Data.Words))
	for i, word := range f.Data.Words {
		addr := f.Data.Base + uint32(i)
		l := Line{
			Addr:     addr,
			Word:     word,
			Segment:  objfile.SegData,
			Known:    true,
			Mnemonic: spec.Mnemonic,
			Operands: wramp.FormatDirective(spec, word),
		}
		l.Label, _ = f.ResolveLabel(addr)
		out = append(out, l)
	}
	return out
}

// DumpBSS renders the BSS segment as .space directives, split at labels so
// each named region gets its own line.
func DumpBSS(f *objfile.File) Listing {
	spec, _ := wramp.DirectiveSpec(".space")
	var out Listing
	start := f.BSS.Base
	end := f.BSS.Base + f.BSS.Size
	flush := func(from, to uint32) {
		if to <= from {
			return
		}
		l := Line{
			Addr:     from,
			Segment:  objfile.SegBSS,
			Known:    true,
			Mnemonic: spec.Mnemonic,
			Operands: wramp.FormatDirective(spec, to-from),
		}
		l.Label, _ = f.ResolveLabel(from)
		out = append(out, l)
	}
	for _, addr := range labelAddrs(f, start+1, end) {
		flush(start, addr)
		start = addr
	}
	flush(start, end)
	return out
}

// labelAddrs returns the distinct resolved label addresses in [lo, hi).
func labelAddrs(f *objfile.File, lo, hi uint32) []uint32 {
	var addrs []uint32
	for _, l := range f.Symbols.Labels() {
		if l.Resolved && l.Address >= lo && l.Address < hi {
			addrs = append(addrs, l.Address)
		}
	}
	slices.Sort(addrs)
	return slices.Compact(addrs)
}
