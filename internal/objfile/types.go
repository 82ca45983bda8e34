package objfile

import "fmt"

const (
	// Magic identifies a WRAMP object file.
	Magic uint32 = 0xDAA1

	HeaderSize     = 24
	WordSize       = 4
	RelocationSize = 10
)

// Header is the fixed 24 byte prefix of an object file. Segment sizes are in
// words.
type Header struct {
	Magic           uint32 `json:"magic"`
	TextWords       uint32 `json:"text_words"`
	DataWords       uint32 `json:"data_words"`
	BSSWords        uint32 `json:"bss_words"`
	Relocations     uint32 `json:"relocations"`
	SymbolTableSize uint32 `json:"symbol_table_size"`
}

// SegmentType numbers segments the way relocation records do.
type SegmentType uint8

const (
	SegNone SegmentType = iota
	SegText
	SegData
	SegBSS
)

var segmentNames = [...]string{"NONE", "TEXT", "DATA", "BSS"}

func (s SegmentType) String() string {
	if int(s) < len(segmentNames) {
		return segmentNames[s]
	}
	return fmt.Sprintf("SEG(%d)", uint8(s))
}

func (s SegmentType) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Segment is one loaded segment. BSS carries only its Size; its words are
// zero and never stored.
type Segment struct {
	Type  SegmentType `json:"type"`
	Base  uint32      `json:"base"`
	Size  uint32      `json:"size"`
	Words []uint32    `json:"-"`
}

// Contains reports whether the absolute word address falls inside s.
func (s *Segment) Contains(addr uint32) bool {
	return addr >= s.Base && addr-s.Base < s.Size
}

// Word returns the i-th word of s. BSS words read as zero.
func (s *Segment) Word(i uint32) (uint32, bool) {
	if i >= s.Size {
		return 0, false
	}
	if s.Words == nil {
		return 0, true
	}
	return s.Words[i], true
}

// ReferenceType is the kind byte of a relocation record.
type ReferenceType uint8

const (
	GlobalData ReferenceType = iota
	GlobalText
	GlobalBSS
	TextLabelRef
	DataLabelRef
	BSSLabelRef
	ExternalRef

	numReferenceTypes
)

var referenceNames = [...]string{
	"GLOBAL_DATA", "GLOBAL_TEXT", "GLOBAL_BSS",
	"TEXT_LABEL_REF", "DATA_LABEL_REF", "BSS_LABEL_REF",
	"EXTERNAL_REF",
}

func (t ReferenceType) String() string {
	if t < numReferenceTypes {
		return referenceNames[t]
	}
	return fmt.Sprintf("REF(%d)", uint8(t))
}

func (t ReferenceType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Valid reports whether t is inside the known domain.
func (t ReferenceType) Valid() bool { return t < numReferenceTypes }

// IsGlobal reports whether t defines a global label.
func (t ReferenceType) IsGlobal() bool { return t <= GlobalBSS }

// IsLabelRef reports whether t refers to a label local to this file.
func (t ReferenceType) IsLabelRef() bool { return t >= TextLabelRef && t <= BSSLabelRef }

// Target returns the segment the referenced label lives in. External
// references have none.
func (t ReferenceType) Target() SegmentType {
	switch t {
	case GlobalText, TextLabelRef:
		return SegText
	case GlobalData, DataLabelRef:
		return SegData
	case GlobalBSS, BSSLabelRef:
		return SegBSS
	default:
		return SegNone
	}
}

// Relocation is one relocation record. Label indexes the file's symbol
// table, or is -1 when the record names no symbol.
type Relocation struct {
	Address    uint32        `json:"address"`
	SymbolPtr  uint32        `json:"symbol_ptr"`
	Type       ReferenceType `json:"type"`
	Segment    SegmentType   `json:"segment"`
	HasSegment bool          `json:"has_segment"`
	Label      int           `json:"label"`
}

// LabelEntry is a named address.
type LabelEntry struct {
	Name     string      `json:"name"`
	Address  uint32      `json:"address"`
	Segment  SegmentType `json:"segment"`
	Resolved bool        `json:"resolved"`
	Global   bool        `json:"global"`
	File     int         `json:"file"`
}
