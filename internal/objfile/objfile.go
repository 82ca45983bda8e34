// Package objfile loads WRAMP object files: the header, the TEXT and DATA
// words, the BSS size, relocation records and the symbol name table, and
// builds the label table used to name jump and branch targets.
package objfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// File is a fully loaded object file. It is read-only once returned.
type File struct {
	Path        string
	Header      Header
	Text        Segment
	Data        Segment
	BSS         Segment
	Relocations []Relocation
	Names       []byte
	Symbols     *SymbolTable

	externals map[uint32]int // reference address -> label index
}

// Loader reads object files, reporting progress to Logger.
type Loader struct {
	Logger *log.Logger
}

// Open loads the object file at path with a quiet loader.
func Open(path string) (*File, error) {
	return (&Loader{}).Open(path)
}

// Read loads an object file from r with a quiet loader.
func Read(r io.Reader) (*File, error) {
	return (&Loader{}).Read(r)
}

// Open loads the object file at path. The file is closed before Open
// returns, whether or not loading succeeded.
func (l *Loader) Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open object file: %w", err)
	}
	defer f.Close()

	of, err := l.Read(bufio.NewReader(f))
	if err != nil {
		return nil, err
	}
	of.Path = path
	return of, nil
}

// Read loads an object file from r.
func (l *Loader) Read(r io.Reader) (*File, error) {
	lg := l.Logger
	if lg == nil {
		lg = log.New(io.Discard)
	}
	rd := &reader{r: r}

	hdr, err := rd.header()
	if err != nil {
		return nil, err
	}
	lg.Debug("Header read", "text", hdr.TextWords, "data", hdr.DataWords,
		"bss", hdr.BSSWords, "relocations", hdr.Relocations, "symbols", hdr.SymbolTableSize)

	of := &File{
		Header:    hdr,
		Symbols:   newSymbolTable(),
		externals: make(map[uint32]int),
	}
	of.Text = Segment{Type: SegText, Base: 0, Size: hdr.TextWords}
	of.Data = Segment{Type: SegData, Base: of.Text.Base + hdr.TextWords, Size: hdr.DataWords}
	of.BSS = Segment{Type: SegBSS, Base: of.Data.Base + hdr.DataWords, Size: hdr.BSSWords}

	if of.Text.Words, err = rd.words(StageText, hdr.TextWords); err != nil {
		return nil, err
	}
	if of.Data.Words, err = rd.words(StageData, hdr.DataWords); err != nil {
		return nil, err
	}
	lg.Debug("Segments loaded", "text_base", of.Text.Base, "data_base", of.Data.Base, "bss_base", of.BSS.Base)

	if of.Relocations, err = rd.relocations(hdr.Relocations); err != nil {
		return nil, err
	}
	lg.Debug("Relocations loaded", "count", len(of.Relocations))

	if of.Names, err = rd.bytes(StageSymbols, int64(hdr.SymbolTableSize)); err != nil {
		return nil, err
	}
	of.buildLabels()
	lg.Debug("Symbols loaded", "labels", of.Symbols.Len())

	return of, nil
}

// Segment returns the segment of type t, or nil for SegNone.
func (f *File) Segment(t SegmentType) *Segment {
	switch t {
	case SegText:
		return &f.Text
	case SegData:
		return &f.Data
	case SegBSS:
		return &f.BSS
	default:
		return nil
	}
}

// Base returns the load address of segment t.
func (f *File) Base(t SegmentType) uint32 {
	if s := f.Segment(t); s != nil {
		return s.Base
	}
	return 0
}

// WordAt returns word i of segment t.
func (f *File) WordAt(t SegmentType, i uint32) (uint32, bool) {
	s := f.Segment(t)
	if s == nil {
		return 0, false
	}
	return s.Word(i)
}

// SegmentOf returns the segment containing the absolute address addr.
func (f *File) SegmentOf(addr uint32) SegmentType {
	for _, s := range []*Segment{&f.Text, &f.Data, &f.BSS} {
		if s.Contains(addr) {
			return s.Type
		}
	}
	return SegNone
}

// ResolveLabel names the absolute address addr.
func (f *File) ResolveLabel(addr uint32) (string, bool) {
	l, ok := f.Symbols.At(addr)
	if !ok {
		return "", false
	}
	return l.Name, true
}

// ExternalAt returns the external symbol referenced by the word at the
// absolute address addr.
func (f *File) ExternalAt(addr uint32) (string, bool) {
	idx, ok := f.externals[addr]
	if !ok {
		return "", false
	}
	l, _ := f.Symbols.Label(idx)
	return l.Name, true
}

// buildLabels joins relocation records with the symbol name table.
// Global and label-reference records define labels at an address inside
// their target segment; external references record the name against the
// word that uses it.
func (f *File) buildLabels() {
	for i := range f.Relocations {
		rel := &f.Relocations[i]
		name, ok := nameAt(f.Names, rel.SymbolPtr)
		if !ok {
			continue
		}

		if rel.Type == ExternalRef {
			rel.Label = f.Symbols.add(LabelEntry{Name: name, Segment: SegNone})
			src := SegText
			if rel.HasSegment {
				src = rel.Segment
			}
			f.externals[f.Base(src)+rel.Address] = rel.Label
			continue
		}

		seg := rel.Type.Target()
		rel.Label = f.Symbols.add(LabelEntry{
			Name:     name,
			Address:  f.Base(seg) + rel.Address,
			Segment:  seg,
			Resolved: true,
			Global:   rel.Type.IsGlobal(),
		})
	}
}

// reader tracks the byte offset for error reporting.
type reader struct {
	r   io.Reader
	off int64
}

// bytes reads exactly n bytes. The buffer grows with the data actually
// present, so a header declaring huge counts cannot force a huge allocation.
func (rd *reader) bytes(stage Stage, n int64) ([]byte, error) {
	start := rd.off
	buf, err := io.ReadAll(io.LimitReader(rd.r, n))
	rd.off += int64(len(buf))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", stage, err)
	}
	if int64(len(buf)) < n {
		return nil, &FormatError{Stage: stage, Offset: start, Expected: n, Actual: int64(len(buf)), Err: ErrTruncated}
	}
	return buf, nil
}

func (rd *reader) header() (Header, error) {
	buf, err := rd.bytes(StageHeader, HeaderSize)
	if err != nil {
		return Header{}, err
	}
	le := binary.LittleEndian
	hdr := Header{
		Magic:           le.Uint32(buf[0:4]),
		TextWords:       le.Uint32(buf[4:8]),
		DataWords:       le.Uint32(buf[8:12]),
		BSSWords:        le.Uint32(buf[12:16]),
		Relocations:     le.Uint32(buf[16:20]),
		SymbolTableSize: le.Uint32(buf[20:24]),
	}
	if hdr.Magic != Magic {
		return Header{}, &FormatError{Stage: StageHeader, Expected: int64(Magic), Actual: int64(hdr.Magic), Err: ErrBadMagic}
	}
	return hdr, nil
}

func (rd *reader) words(stage Stage, count uint32) ([]uint32, error) {
	buf, err := rd.bytes(stage, int64(count)*WordSize)
	if err != nil {
		return nil, err
	}
	words := make([]uint32, count)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(buf[i*WordSize:])
	}
	return words, nil
}

func (rd *reader) relocations(count uint32) ([]Relocation, error) {
	start := rd.off
	buf, err := rd.bytes(StageRelocations, int64(count)*RelocationSize)
	if err != nil {
		return nil, err
	}
	rels := make([]Relocation, count)
	for i := range rels {
		rec := buf[i*RelocationSize : (i+1)*RelocationSize]
		typ := ReferenceType(rec[8])
		if !typ.Valid() {
			return nil, &FormatError{
				Stage:  StageRelocations,
				Offset: start + int64(i*RelocationSize) + 8,
				Actual: int64(rec[8]),
				Err:    ErrBadReferenceType,
			}
		}
		seg := SegmentType(rec[9])
		rels[i] = Relocation{
			Address:    binary.LittleEndian.Uint32(rec[0:4]),
			SymbolPtr:  binary.LittleEndian.Uint32(rec[4:8]),
			Type:       typ,
			Segment:    seg,
			HasSegment: seg >= SegText && seg <= SegBSS,
			Label:      -1,
		}
	}
	return rels, nil
}
