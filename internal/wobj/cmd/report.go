package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	pathpkg "path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"

	"wobj/internal/disasm"
	"wobj/internal/objfile"
	"wobj/internal/wobj/styles"
)

type reportSection struct {
	title   string
	headers []string
	rows    [][]string
}

func symbolName(f *objfile.File, r objfile.Relocation) string {
	if l, ok := f.Symbols.Label(r.Label); ok {
		return l.Name
	}
	return "-"
}

func segmentRows(f *objfile.File) [][]string {
	var rows [][]string
	for _, seg := range []*objfile.Segment{&f.Text, &f.Data, &f.BSS} {
		rows = append(rows, []string{
			seg.Type.String(),
			fmt.Sprintf("0x%05x", seg.Base),
			fmt.Sprint(seg.Size),
		})
	}
	return rows
}

func reportSections(f *objfile.File) []reportSection {
	h := f.Header
	sections := []reportSection{
		{
			title:   "Header",
			headers: []string{"Field", "Value"},
			rows: [][]string{
				{"magic", fmt.Sprintf("0x%04x", h.Magic)},
				{"text words", fmt.Sprint(h.TextWords)},
				{"data words", fmt.Sprint(h.DataWords)},
				{"bss words", fmt.Sprint(h.BSSWords)},
				{"relocations", fmt.Sprint(h.Relocations)},
				{"symbol table bytes", fmt.Sprint(h.SymbolTableSize)},
			},
		},
		{
			title:   "Segments",
			headers: []string{"Segment", "Base", "Words"},
			rows:    segmentRows(f),
		},
	}

	if len(f.Relocations) > 0 {
		rel := reportSection{
			title:   "Relocations",
			headers: []string{"Address", "Type", "Segment", "Symbol"},
		}
		for _, r := range f.Relocations {
			seg := "-"
			if r.HasSegment {
				seg = r.Segment.String()
			}
			rel.rows = append(rel.rows, []string{
				fmt.Sprintf("0x%05x", r.Address),
				r.Type.String(),
				seg,
				symbolName(f, r),
			})
		}
		sections = append(sections, rel)
	}

	if labels := f.Symbols.Unique(); len(labels) > 0 {
		lab := reportSection{
			title:   "Labels",
			headers: []string{"Name", "Address", "Segment", "Scope"},
		}
		for _, l := range labels {
			addr := "external"
			if l.Resolved {
				addr = fmt.Sprintf("0x%05x", l.Address)
			}
			lab.rows = append(lab.rows, []string{l.Name, addr, l.Segment.String(), scope(l)})
		}
		sections = append(sections, lab)
	}
	return sections
}

func scope(l objfile.LabelEntry) string {
	switch {
	case !l.Resolved:
		return "extern"
	case l.Global:
		return "global"
	default:
		return "local"
	}
}

// reportMarkdown renders the report as markdown for glamour.
func reportMarkdown(f *objfile.File) string {
	var b strings.Builder
	name := "object"
	if f.Path != "" {
		name = pathpkg.Base(f.Path)
	}
	fmt.Fprintf(&b, "# %s\n\n", name)
	if f.Path != "" {
		fmt.Fprintf(&b, "`%s`\n\n", relPath(f.Path))
	}
	b.WriteString("*magic number is correct*\n\n")
	for _, sec := range reportSections(f) {
		fmt.Fprintf(&b, "## %s\n\n", sec.title)
		fmt.Fprintf(&b, "| %s |\n", strings.Join(sec.headers, " | "))
		fmt.Fprintf(&b, "|%s\n", strings.Repeat("---|", len(sec.headers)))
		for _, row := range sec.rows {
			fmt.Fprintf(&b, "| %s |\n", strings.Join(row, " | "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// reportPlain renders the report as bordered text tables.
func reportPlain(f *objfile.File) string {
	var b strings.Builder
	if f.Path != "" {
		fmt.Fprintf(&b, "Processing file: %s\n", relPath(f.Path))
	}
	b.WriteString("magic number is correct\n")
	for _, sec := range reportSections(f) {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers(sec.headers...).
			Rows(sec.rows...)
		fmt.Fprintf(&b, "\n%s\n%s\n", sec.title, t.String())
	}
	return b.String()
}

func writeReport(w io.Writer, f *objfile.File, pretty bool, width int) error {
	out := reportPlain(f)
	if pretty {
		rendered, err := styles.RenderMarkdown(reportMarkdown(f), width-2)
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		out = rendered
	}
	_, err := io.WriteString(w, out)
	return err
}

// JSONOutput is the --json document.
type JSONOutput struct {
	File        string               `json:"file"`
	Header      objfile.Header       `json:"header"`
	Segments    []objfile.Segment    `json:"segments"`
	Relocations []RelocationInfo     `json:"relocations"`
	Labels      []objfile.LabelEntry `json:"labels"`
	Listing     []LineInfo           `json:"listing"`
	Data        []LineInfo           `json:"data,omitempty"`
}

// RelocationInfo is a relocation record with its symbol name resolved.
type RelocationInfo struct {
	objfile.Relocation
	Symbol string `json:"symbol,omitempty"`
}

// LineInfo is one listing line.
type LineInfo struct {
	Address string  `json:"address"`
	Word    string  `json:"word"`
	Label   string  `json:"label,omitempty"`
	Text    string  `json:"text"`
	Known   bool    `json:"known"`
	Target  *uint32 `json:"target,omitempty"`
}

func lineInfos(ls disasm.Listing) []LineInfo {
	out := make([]LineInfo, 0, len(ls))
	for _, l := range ls {
		li := LineInfo{
			Address: fmt.Sprintf("0x%05x", l.Addr),
			Word:    fmt.Sprintf("0x%08x", l.Word),
			Label:   l.Label,
			Text:    l.String(),
			Known:   l.Known,
		}
		if l.HasTarget {
			target := l.Target
			li.Target = &target
		}
		out = append(out, li)
	}
	return out
}

func writeJSON(w io.Writer, f *objfile.File, labels, data bool) error {
	output := JSONOutput{
		File:     f.Path,
		Header:   f.Header,
		Segments: []objfile.Segment{f.Text, f.Data, f.BSS},
		Labels:   f.Symbols.Labels(),
		Listing:  lineInfos(disasm.Disassemble(f, disasm.Options{NoLabels: !labels})),
	}
	output.Relocations = make([]RelocationInfo, 0, len(f.Relocations))
	for _, r := range f.Relocations {
		ri := RelocationInfo{Relocation: r}
		if l, ok := f.Symbols.Label(r.Label); ok {
			ri.Symbol = l.Name
		}
		output.Relocations = append(output.Relocations, ri)
	}
	if data {
		output.Data = append(lineInfos(disasm.DumpData(f)), lineInfos(disasm.DumpBSS(f))...)
	}

	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}
