package wramp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFields(t *testing.T) {
	d := Decode(0x1234abcd)
	assert.Equal(t, uint8(0x1), d.Opcode)
	assert.Equal(t, uint8(0x2), d.Rd)
	assert.Equal(t, uint8(0x3), d.Rs)
	assert.Equal(t, uint8(0x4), d.Func)
	assert.Equal(t, uint8(0xd), d.Rt)
	assert.Equal(t, uint32(0x4abcd), d.Offset)
	assert.Equal(t, uint16(0xabcd), d.Immediate)

	// Decoding is deterministic.
	assert.Equal(t, d, Decode(0x1234abcd))
}

func TestSignExtension(t *testing.T) {
	tests := []struct {
		name   string
		offset uint32
		want   int32
	}{
		{"zero", 0x00000, 0},
		{"positive max", 0x7ffff, 0x7ffff},
		{"minus one", 0xfffff, -1},
		{"most negative", 0x80000, -0x80000},
		{"arbitrary negative", 0x9abcd, 0x9abcd - 0x100000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decode(EncodeJ(0x8, 0, 0, tt.offset))
			assert.Equal(t, tt.offset, d.Offset)
			assert.Equal(t, tt.want, d.SignedOffset)
			if tt.offset&0x80000 != 0 {
				assert.Equal(t, int32(tt.offset)-0x100000, d.SignedOffset)
			}
		})
	}
}

func TestBranchTarget(t *testing.T) {
	d := Decode(EncodeJ(0xa, 0, 1, 0xfffff))
	require.Equal(t, int32(-1), d.SignedOffset)
	assert.Equal(t, uint32(0x1000), BranchTarget(0x1000, d))

	// Wraps to 20 bits before the increment.
	d = Decode(EncodeJ(0xa, 0, 1, 0xfffff))
	assert.Equal(t, uint32(0x100000), BranchTarget(0x0, d))

	d = Decode(EncodeJ(0xa, 0, 1, 0x4))
	assert.Equal(t, uint32(0x15), BranchTarget(0x10, d))
}

func format(t *testing.T, word, addr uint32, r Resolver) (string, string) {
	t.Helper()
	d := Decode(word)
	idx, ok := Lookup(d.Opcode, d.Func)
	require.True(t, ok, "no entry for 0x%08x", word)
	spec := Table[idx]
	return spec.Mnemonic, FormatOperands(spec, d, addr, r)
}

func TestFormatOperands(t *testing.T) {
	labels := ResolverFunc(func(addr uint32) (string, bool) {
		switch addr {
		case 0x00010:
			return "loop", true
		case 0x00100:
			return "main", true
		}
		return "", false
	})

	tests := []struct {
		name     string
		word     uint32
		addr     uint32
		resolver Resolver
		mnemonic string
		operands string
	}{
		{"register triple", EncodeR(0x0, 0x0, 1, 2, 3), 0, nil, "add", "$1,$2,$3"},
		{"named registers", EncodeR(0x0, 0x2, 14, 15, 13), 0, nil, "sub", "$sp,$ra,$13"},
		{"immediate", EncodeI(0x1, 0x0, 1, 2, 0x00ab), 0, nil, "addi", "$1,$2,0x00ab"},
		{"load high", EncodeI(0x3, 0xe, 5, 0, 0xffff), 0, nil, "lhi", "$5,0xffff"},
		{"special dest", EncodeI(0x3, 0xc, 4, 3, 0), 0, nil, "movgs", "$cctrl,$3"},
		{"special source", EncodeI(0x3, 0xd, 3, 5, 0), 0, nil, "movsg", "$3,$estat"},
		{"no operands", EncodeI(0x2, 0xd, 0, 0, 0), 0, nil, "syscall", ""},
		{"offset zero", EncodeJ(0x8, 1, 2, 0), 0, nil, "lw", "$1,0($2)"},
		{"offset signed", EncodeJ(0x8, 1, 2, 0xffffc), 0, nil, "lw", "$1,-4($2)"},
		{"offset positive with base", EncodeJ(0x9, 3, 14, 12), 0, nil, "sw", "$3,12($sp)"},
		{"offset absolute", EncodeJ(0x9, 3, 0, 0x01a2b), 0, nil, "sw", "$3,0x01A2B($0)"},
		{"jump numeric", EncodeJ(0x4, 0, 0, 0x00abc), 0, nil, "j", "0x00ABC"},
		{"jump resolved", EncodeJ(0x6, 0, 0, 0x00100), 0, labels, "jal", "main"},
		{"jump unresolved", EncodeJ(0x4, 0, 0, 0x00200), 0, labels, "j", "0x00200"},
		{"load address", EncodeJ(0xc, 7, 0, 0x00100), 0, labels, "la", "$7,main"},
		{"branch resolved", EncodeJ(0xa, 0, 4, 0xffffc), 0x13, labels, "beqz", "$4,loop"},
		{"branch numeric", EncodeJ(0xb, 0, 4, 0xffffc), 0x13, nil, "bnez", "$4,0x00010"},
		{"register jump", EncodeJ(0x5, 0, 15, 0), 0, nil, "jr", "$ra"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mnemonic, operands := format(t, tt.word, tt.addr, tt.resolver)
			assert.Equal(t, tt.mnemonic, mnemonic)
			assert.Equal(t, tt.operands, operands)
		})
	}
}

func TestFormatDirective(t *testing.T) {
	word, _ := DirectiveSpec(".word")
	space, _ := DirectiveSpec(".space")
	asciiz, _ := DirectiveSpec(".asciiz")
	equ, _ := DirectiveSpec(".equ")

	assert.Equal(t, "0xdeadbeef", FormatDirective(word, 0xdeadbeef))
	assert.Equal(t, "0x00000001,0x00000002", FormatDirective(word, 1, 2))
	assert.Equal(t, "12", FormatDirective(space, 12))
	assert.Equal(t, "0", FormatDirective(space))
	assert.Equal(t, `"hi\n"`, FormatDirective(asciiz, 'h', 'i', '\n', 0, 'x'))
	assert.Equal(t, "", FormatDirective(equ, 1))
}
