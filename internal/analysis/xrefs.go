package analysis

import (
	"slices"

	"wobj/internal/disasm"
	"wobj/internal/objfile"
)

// LabelInfo is a label together with the instructions that reference it.
type LabelInfo struct {
	objfile.LabelEntry
	Refs []uint32 // addresses of referencing instructions, ascending
}

// CrossReferences returns one entry per label name, in file order. A
// resolved label is referenced by every instruction whose jump or branch
// target equals its address; an external symbol by every word its
// relocations patch.
func CrossReferences(f *objfile.File, ls disasm.Listing) []LabelInfo {
	byTarget := make(map[uint32][]uint32)
	byExternal := make(map[string][]uint32)
	for _, l := range ls {
		if !l.Known {
			continue
		}
		if ext, ok := f.ExternalAt(l.Addr); ok {
			byExternal[ext] = append(byExternal[ext], l.Addr)
			continue
		}
		if l.HasTarget {
			byTarget[l.Target] = append(byTarget[l.Target], l.Addr)
		}
	}

	labels := f.Symbols.Unique()
	out := make([]LabelInfo, 0, len(labels))
	for _, l := range labels {
		info := LabelInfo{LabelEntry: l}
		if l.Resolved {
			info.Refs = slices.Clone(byTarget[l.Address])
		} else {
			info.Refs = slices.Clone(byExternal[l.Name])
		}
		out = append(out, info)
	}
	return out
}
