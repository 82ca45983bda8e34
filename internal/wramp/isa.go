// Package wramp describes the WRAMP instruction set: the catalogue of
// encodable instructions and directives, the register name tables, the
// fixed-field decoder and the operand formatter used by the disassembler.
package wramp

// Kind is the encoding family of a catalogue entry.
type Kind int

const (
	RType Kind = iota
	IType
	JType
	Directive
	Other
)

func (k Kind) String() string {
	switch k {
	case RType:
		return "R-type"
	case IType:
		return "I-type"
	case JType:
		return "J-type"
	case Directive:
		return "directive"
	default:
		return "other"
	}
}

// NoField marks the opcode/func of entries the decoder never matches.
const NoField uint8 = 0xff

// Spec is one catalogue entry. Mnemonic and Operands are empty when absent;
// directives have no operand template.
type Spec struct {
	Mnemonic string
	Operands string
	Opcode   uint8
	Func     uint8
	Kind     Kind
}

// HasOperands reports whether the entry carries an operand template.
// An empty template ("") is still a template: break, syscall and rfe have one.
func (s Spec) HasOperands() bool {
	return s.Kind != Directive
}

// GPRNames are the general purpose register names indexed by 4-bit field.
var GPRNames = [16]string{
	"$0", "$1", "$2", "$3",
	"$4", "$5", "$6", "$7",
	"$8", "$9", "$10", "$11",
	"$12", "$13", "$sp", "$ra",
}

// SPRNames are the special purpose register names indexed by 4-bit field.
var SPRNames = [16]string{
	"$spr0", "$spr1", "$spr2", "$spr3",
	"$cctrl", "$estat", "$icount", "$ccount",
	"$evec", "$ear", "$esp", "$ers",
	"$ptable", "$rbase", "$spr14", "$spr15",
}

// Table is the instruction catalogue in declaration order. Lookup scans it
// linearly and the first match wins, so entries sharing an opcode with a
// J-type entry must not exist.
var Table = []Spec{
	// Arithmetic
	{"add", "d,s,t", 0x0, 0x0, RType},
	{"addi", "d,s,i", 0x1, 0x0, IType},
	{"addu", "d,s,t", 0x0, 0x1, RType},
	{"addui", "d,s,i", 0x1, 0x1, IType},
	{"sub", "d,s,t", 0x0, 0x2, RType},
	{"subi", "d,s,i", 0x1, 0x2, IType},
	{"subu", "d,s,t", 0x0, 0x3, RType},
	{"subui", "d,s,i", 0x1, 0x3, IType},
	{"mult", "d,s,t", 0x0, 0x4, RType},
	{"multi", "d,s,i", 0x1, 0x4, IType},
	{"multu", "d,s,t", 0x0, 0x5, RType},
	{"multui", "d,s,i", 0x1, 0x5, IType},
	{"div", "d,s,t", 0x0, 0x6, RType},
	{"divi", "d,s,i", 0x1, 0x6, IType},
	{"divu", "d,s,t", 0x0, 0x7, RType},
	{"divui", "d,s,i", 0x1, 0x7, IType},
	{"rem", "d,s,t", 0x0, 0x8, RType},
	{"remi", "d,s,i", 0x1, 0x8, IType},
	{"remu", "d,s,t", 0x0, 0x9, RType},
	{"remui", "d,s,i", 0x1, 0x9, IType},
	{"lhi", "d,i", 0x3, 0xe, IType},
	{"la", "d,j", 0xc, 0x0, JType},

	// Bitwise
	{"and", "d,s,t", 0x0, 0xb, RType},
	{"andi", "d,s,i", 0x1, 0xb, IType},
	{"or", "d,s,t", 0x0, 0xd, RType},
	{"ori", "d,s,i", 0x1, 0xd, IType},
	{"xor", "d,s,t", 0x0, 0xf, RType},
	{"xori", "d,s,i", 0x1, 0xf, IType},
	{"sll", "d,s,t", 0x0, 0xa, RType},
	{"slli", "d,s,i", 0x1, 0xa, IType},
	{"srl", "d,s,t", 0x0, 0xc, RType},
	{"srli", "d,s,i", 0x1, 0xc, IType},
	{"sra", "d,s,t", 0x0, 0xe, RType},
	{"srai", "d,s,i", 0x1, 0xe, IType},

	// Test
	{"slt", "d,s,t", 0x2, 0x0, RType},
	{"slti", "d,s,i", 0x3, 0x0, IType},
	{"sltu", "d,s,t", 0x2, 0x1, RType},
	{"sltui", "d,s,i", 0x3, 0x1, IType},
	{"sgt", "d,s,t", 0x2, 0x2, RType},
	{"sgti", "d,s,i", 0x3, 0x2, IType},
	{"sgtu", "d,s,t", 0x2, 0x3, RType},
	{"sgtui", "d,s,i", 0x3, 0x3, IType},
	{"sle", "d,s,t", 0x2, 0x4, RType},
	{"slei", "d,s,i", 0x3, 0x4, IType},
	{"sleu", "d,s,t", 0x2, 0x5, RType},
	{"sleui", "d,s,i", 0x3, 0x5, IType},
	{"sge", "d,s,t", 0x2, 0x6, RType},
	{"sgei", "d,s,i", 0x3, 0x6, IType},
	{"sgeu", "d,s,t", 0x2, 0x7, RType},
	{"sgeui", "d,s,i", 0x3, 0x7, IType},
	{"seq", "d,s,t", 0x2, 0x8, RType},
	{"seqi", "d,s,i", 0x3, 0x8, IType},
	{"sequ", "d,s,t", 0x2, 0x9, RType},
	{"sequi", "d,s,i", 0x3, 0x9, IType},
	{"sne", "d,s,t", 0x2, 0xa, RType},
	{"snei", "d,s,i", 0x3, 0xa, IType},
	{"sneu", "d,s,t", 0x2, 0xb, RType},
	{"sneui", "d,s,i", 0x3, 0xb, IType},

	// Branch
	{"j", "j", 0x4, 0x0, JType},
	{"jr", "s", 0x5, 0x0, JType},
	{"jal", "j", 0x6, 0x0, JType},
	{"jalr", "s", 0x7, 0x0, JType},
	{"beqz", "s,b", 0xa, 0x0, JType},
	{"bnez", "s,b", 0xb, 0x0, JType},

	// Memory
	{"lw", "d,o(s)", 0x8, 0x0, JType},
	{"sw", "d,o(s)", 0x9, 0x0, JType},

	// Special
	{"movgs", "D,s", 0x3, 0xc, IType},
	{"movsg", "d,S", 0x3, 0xd, IType},
	{"break", "", 0x2, 0xc, IType},
	{"syscall", "", 0x2, 0xd, IType},
	{"rfe", "", 0x2, 0xe, IType},

	// Assembler directives
	{".word", "", NoField, NoField, Directive},
	{".ascii", "", NoField, NoField, Directive},
	{".asciiz", "", NoField, NoField, Directive},
	{".space", "", NoField, NoField, Directive},
	{".equ", "", NoField, NoField, Directive},
	{".global", "", NoField, NoField, Directive},
	{".extern", "", NoField, NoField, Directive},
	{".data", "", NoField, NoField, Directive},
	{".text", "", NoField, NoField, Directive},
	{".bss", "", NoField, NoField, Directive},
	{".frame", "", NoField, NoField, Directive},
	{".mask", "", NoField, NoField, Directive},
}

// matches implements the lookup rule for a single entry.
func (s Spec) matches(opcode, fn uint8) bool {
	if s.Mnemonic == "" {
		return false
	}
	switch s.Kind {
	case RType, IType:
		return s.Opcode == opcode && s.Func == fn
	case JType:
		return s.Opcode == opcode
	default:
		return false
	}
}

// Lookup returns the index into Table of the first entry matching opcode and
// func, or false when nothing matches. J-type entries ignore func.
func Lookup(opcode, fn uint8) (int, bool) {
	for i, s := range Table {
		if s.matches(opcode, fn) {
			return i, true
		}
	}
	return -1, false
}

// DirectiveSpec returns the catalogue entry for a directive mnemonic such as
// ".word".
func DirectiveSpec(name string) (Spec, bool) {
	for _, s := range Table {
		if s.Kind == Directive && s.Mnemonic == name {
			return s, true
		}
	}
	return Spec{}, false
}
