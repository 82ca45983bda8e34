package wramp

import (
	"fmt"
	"strconv"
	"strings"
)

// Resolver turns an absolute address into a label name.
type Resolver interface {
	ResolveLabel(addr uint32) (string, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(addr uint32) (string, bool)

func (f ResolverFunc) ResolveLabel(addr uint32) (string, bool) {
	return f(addr)
}

// BranchTarget computes the destination of a PC-relative branch located at
// addr. The sum wraps to 20 bits before the +1 for the already advanced PC.
func BranchTarget(addr uint32, d Decoded) uint32 {
	return uint32(((int32(addr) + d.SignedOffset) & offsetMask) + 1)
}

// FormatOperands renders the operand template of spec for the decoded word
// found at addr. r may be nil, in which case jump and branch targets are
// printed as numbers.
func FormatOperands(spec Spec, d Decoded, addr uint32, r Resolver) string {
	var sb strings.Builder
	for _, ch := range spec.Operands {
		switch ch {
		case 'd':
			sb.WriteString(GPRNames[d.Rd])
		case 's':
			sb.WriteString(GPRNames[d.Rs])
		case 't':
			sb.WriteString(GPRNames[d.Rt])
		case 'D':
			sb.WriteString(SPRNames[d.Rd])
		case 'S':
			sb.WriteString(SPRNames[d.Rs])
		case 'i':
			fmt.Fprintf(&sb, "0x%04x", d.Immediate)
		case 'o':
			switch {
			case d.Offset == 0:
				sb.WriteByte('0')
			case d.Rs != 0:
				sb.WriteString(strconv.Itoa(int(d.SignedOffset)))
			default:
				fmt.Fprintf(&sb, "0x%05X", d.Offset)
			}
		case 'b':
			sb.WriteString(target(BranchTarget(addr, d), r))
		case 'j':
			sb.WriteString(target(d.Offset, r))
		default:
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}

func target(addr uint32, r Resolver) string {
	if r != nil {
		if name, ok := r.ResolveLabel(addr); ok {
			return name
		}
	}
	return fmt.Sprintf("0x%05X", addr)
}

// FormatDirective renders the operands of a data directive. Words hold one
// value per word as laid out in the DATA segment; .ascii and .asciiz take one
// character per word.
func FormatDirective(spec Spec, words ...uint32) string {
	switch spec.Mnemonic {
	case ".word":
		parts := make([]string, len(words))
		for i, w := range words {
			parts[i] = fmt.Sprintf("0x%08x", w)
		}
		return strings.Join(parts, ",")
	case ".space":
		if len(words) == 0 {
			return "0"
		}
		return strconv.FormatUint(uint64(words[0]), 10)
	case ".ascii", ".asciiz":
		b := make([]byte, 0, len(words))
		for _, w := range words {
			if w == 0 && spec.Mnemonic == ".asciiz" {
				break
			}
			b = append(b, byte(w))
		}
		return strconv.Quote(string(b))
	default:
		return ""
	}
}
