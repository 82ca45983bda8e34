package wramp

// Decoded holds the fixed bit-fields of one instruction word. Every field is
// extracted regardless of the instruction family; the formatter picks the
// ones its operand template names.
type Decoded struct {
	Opcode uint8 // bits 31:28
	Func   uint8 // bits 19:16
	Rd     uint8 // bits 27:24
	Rs     uint8 // bits 23:20
	Rt     uint8 // bits 3:0

	Offset       uint32 // bits 19:0
	SignedOffset int32  // Offset sign extended from bit 19
	Immediate    uint16 // bits 15:0
}

const (
	offsetMask = 0xfffff
	offsetSign = 0x80000
)

// Decode splits word into its fields. It is total: any 32-bit value decodes.
func Decode(word uint32) Decoded {
	offset := word & offsetMask
	signed := int32(offset)
	if offset&offsetSign != 0 {
		signed = int32(offset | ^uint32(offsetMask))
	}
	return Decoded{
		Opcode:       uint8(word >> 28 & 0xf),
		Func:         uint8(word >> 16 & 0xf),
		Rd:           uint8(word >> 24 & 0xf),
		Rs:           uint8(word >> 20 & 0xf),
		Rt:           uint8(word & 0xf),
		Offset:       offset,
		SignedOffset: signed,
		Immediate:    uint16(word & 0xffff),
	}
}

// EncodeR packs a register-register word.
func EncodeR(opcode, fn, rd, rs, rt uint8) uint32 {
	return EncodeI(opcode, fn, rd, rs, uint16(rt&0xf))
}

// EncodeI packs a word carrying a 16-bit immediate in its low half.
func EncodeI(opcode, fn, rd, rs uint8, immediate uint16) uint32 {
	return uint32(opcode&0xf)<<28 |
		uint32(rd&0xf)<<24 |
		uint32(rs&0xf)<<20 |
		uint32(fn&0xf)<<16 |
		uint32(immediate)
}

// EncodeJ packs a word carrying a 20-bit offset. The offset overlaps the
// func field, which J-type lookups ignore.
func EncodeJ(opcode, rd, rs uint8, offset uint32) uint32 {
	return uint32(opcode&0xf)<<28 |
		uint32(rd&0xf)<<24 |
		uint32(rs&0xf)<<20 |
		offset&offsetMask
}
