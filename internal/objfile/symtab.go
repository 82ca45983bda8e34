package objfile

import (
	"bytes"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// SymbolTable owns the labels of a loaded file. Relocations and callers
// refer to labels by index.
type SymbolTable struct {
	labels []LabelEntry
	byName *orderedmap.OrderedMap[string, int]
	byAddr map[uint32]int
}

func newSymbolTable() *SymbolTable {
	return &SymbolTable{
		byName: orderedmap.New[string, int](),
		byAddr: make(map[uint32]int),
	}
}

// add stores l and returns its index. The first label seen for a name or an
// address is kept, except that a global label replaces a local one at the
// same address.
func (st *SymbolTable) add(l LabelEntry) int {
	idx := len(st.labels)
	st.labels = append(st.labels, l)

	if _, ok := st.byName.Get(l.Name); !ok {
		st.byName.Set(l.Name, idx)
	}
	if !l.Resolved {
		return idx
	}
	if prev, ok := st.byAddr[l.Address]; !ok || (l.Global && !st.labels[prev].Global) {
		st.byAddr[l.Address] = idx
	}
	return idx
}

// Len returns the number of labels.
func (st *SymbolTable) Len() int { return len(st.labels) }

// Label returns the label at index i.
func (st *SymbolTable) Label(i int) (LabelEntry, bool) {
	if i < 0 || i >= len(st.labels) {
		return LabelEntry{}, false
	}
	return st.labels[i], true
}

// Labels returns a copy of every label in file order.
func (st *SymbolTable) Labels() []LabelEntry {
	return slices.Clone(st.labels)
}

// Lookup finds the first label called name.
func (st *SymbolTable) Lookup(name string) (LabelEntry, bool) {
	idx, ok := st.byName.Get(name)
	if !ok {
		return LabelEntry{}, false
	}
	return st.labels[idx], true
}

// At returns the label defined at the absolute address addr.
func (st *SymbolTable) At(addr uint32) (LabelEntry, bool) {
	idx, ok := st.byAddr[addr]
	if !ok {
		return LabelEntry{}, false
	}
	return st.labels[idx], true
}

// Unique returns one label per distinct name in the order names first
// appeared in the file.
func (st *SymbolTable) Unique() []LabelEntry {
	out := make([]LabelEntry, 0, st.byName.Len())
	for pair := st.byName.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, st.labels[pair.Value])
	}
	return out
}

// nameAt returns the NUL terminated name starting at byte offset ptr of the
// symbol name table. A name without a terminator runs to the end of the
// table.
func nameAt(table []byte, ptr uint32) (string, bool) {
	if uint64(ptr) >= uint64(len(table)) {
		return "", false
	}
	rest := table[ptr:]
	if end := bytes.IndexByte(rest, 0); end >= 0 {
		rest = rest[:end]
	}
	if len(rest) == 0 {
		return "", false
	}
	return string(rest), true
}
