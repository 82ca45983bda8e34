// Package objtest builds WRAMP object file images in memory for tests.
package objtest

import (
	"bytes"
	"encoding/binary"

	"wobj/internal/objfile"
)

// Reloc is one relocation record to emit. Name is appended to the symbol
// name table and SymbolPtr pointed at it unless RawPtr is set.
type Reloc struct {
	Address uint32
	Type    objfile.ReferenceType
	Segment objfile.SegmentType
	Name    string
	RawPtr  *uint32
	RawType *uint8
}

// Image describes an object file.
type Image struct {
	Magic  uint32 // zero means objfile.Magic
	Text   []uint32
	Data   []uint32
	BSS    uint32
	Relocs []Reloc
}

// Bytes encodes the image in the on-disk layout.
func (im Image) Bytes() []byte {
	var names bytes.Buffer
	type rec struct {
		addr, ptr uint32
		typ, seg  uint8
	}
	recs := make([]rec, 0, len(im.Relocs))
	for _, r := range im.Relocs {
		ptr := uint32(names.Len())
		if r.RawPtr != nil {
			ptr = *r.RawPtr
		} else {
			names.WriteString(r.Name)
			names.WriteByte(0)
		}
		typ := uint8(r.Type)
		if r.RawType != nil {
			typ = *r.RawType
		}
		recs = append(recs, rec{r.Address, ptr, typ, uint8(r.Segment)})
	}

	magic := im.Magic
	if magic == 0 {
		magic = objfile.Magic
	}

	var buf bytes.Buffer
	le := binary.LittleEndian
	for _, v := range []uint32{
		magic,
		uint32(len(im.Text)),
		uint32(len(im.Data)),
		im.BSS,
		uint32(len(recs)),
		uint32(names.Len()),
	} {
		_ = binary.Write(&buf, le, v)
	}
	_ = binary.Write(&buf, le, im.Text)
	_ = binary.Write(&buf, le, im.Data)
	for _, r := range recs {
		_ = binary.Write(&buf, le, r.addr)
		_ = binary.Write(&buf, le, r.ptr)
		buf.WriteByte(r.typ)
		buf.WriteByte(r.seg)
	}
	buf.Write(names.Bytes())
	return buf.Bytes()
}

// Load encodes the image and reads it back.
func (im Image) Load() (*objfile.File, error) {
	return objfile.Read(bytes.NewReader(im.Bytes()))
}
