package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"wobj/internal/analysis"
	"wobj/internal/disasm"
	"wobj/internal/objfile"
	"wobj/internal/wobj/styles"
)

type viewMode int

const (
	viewReport viewMode = iota
	viewListing
	viewLabels
)

var viewNames = [...]string{"Report", "Listing", "Labels"}

type labelItem struct {
	analysis.LabelInfo
}

func (i labelItem) Title() string {
	return fmt.Sprintf("%s  %s", i.addr(), i.Name)
}

func (i labelItem) Description() string { return "" }

func (i labelItem) FilterValue() string { return i.Name }

func (i labelItem) addr() string {
	if !i.Resolved {
		return "extern"
	}
	return fmt.Sprintf("%05x ", i.Address)
}

type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(labelItem)
	if !ok {
		return
	}

	indicator := " "
	addrStyle := styles.Address
	if index == m.Index() {
		indicator = ">"
		addrStyle = styles.Selected
	}

	name := styles.Label.Render(i.Name)
	if !i.Resolved {
		name = styles.External.Render(i.Name)
	}

	fmt.Fprintf(w, " %s  %s  %s  %s",
		indicator,
		addrStyle.Render(i.addr()),
		name,
		styles.Muted.Render(fmt.Sprintf("%s, %d refs", scope(i.LabelEntry), len(i.Refs))))
}

type model struct {
	report   viewport.Model
	listing  viewport.Model
	labels   list.Model
	mode     viewMode
	file     *objfile.File
	format   listingFormat
	lineOf   map[uint32]int // address -> listing line
	jumpLine int
	status   string
	width    int
	height   int
}

func newModel(f *objfile.File, lf listingFormat, width int) model {
	if width <= 0 {
		width = defaultWidth
	}
	height := 24

	report := viewport.New()
	report.SetWidth(width)
	report.SetHeight(height - 2)

	listing := viewport.New()
	listing.SetWidth(width)
	listing.SetHeight(height - 2)

	full := disasm.Disassemble(f, disasm.Options{NoLabels: !lf.labels})
	full = append(full, disasm.DumpData(f)...)
	full = append(full, disasm.DumpBSS(f)...)
	lines, lineOf := lf.lines(full)
	listing.SetContent(strings.Join(lines, "\n"))

	refs := analysis.CrossReferences(f, full)
	items := make([]list.Item, 0, len(refs))
	for _, r := range refs {
		items = append(items, labelItem{r})
	}
	labels := list.New(items, itemDelegate{}, width, height-2)
	labels.SetShowStatusBar(false)
	labels.SetFilteringEnabled(true)
	labels.Title = "Labels"
	labels.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		MarginLeft(2)
	labels.SetShowHelp(true)

	m := model{
		report:  report,
		listing: listing,
		labels:  labels,
		mode:    viewReport,
		file:    f,
		format:  lf,
		lineOf:  lineOf,
		width:   width,
		height:  height,
	}
	m.updateReport()
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m *model) updateReport() {
	content := reportPlain(m.file)
	if m.format.color {
		if rendered, err := styles.RenderMarkdown(reportMarkdown(m.file), m.width-2); err == nil {
			content = strings.TrimSuffix(rendered, "\n")
		}
	}
	m.report.SetContent(content)
}

// jump scrolls the listing to the line holding addr.
func (m *model) jump(addr uint32) bool {
	line, ok := m.lineOf[addr]
	if !ok {
		return false
	}
	m.mode = viewListing
	m.jumpLine = line
	m.listing.SetYOffset(line)
	return true
}

// follow jumps to the selected label, or to the first reference of an
// external symbol.
func (m *model) follow() {
	item, ok := m.labels.SelectedItem().(labelItem)
	if !ok {
		return
	}
	switch {
	case item.Resolved:
		if !m.jump(item.Address) {
			m.status = fmt.Sprintf("%s is outside the listing", item.Name)
			return
		}
	case len(item.Refs) > 0:
		m.jump(item.Refs[0])
	default:
		m.status = fmt.Sprintf("%s is never referenced", item.Name)
		return
	}
	m.status = ""
}

// handleKey applies a key outside of list filtering. The bool reports
// whether the key was consumed.
func (m model) handleKey(key string) (model, tea.Cmd, bool) {
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit, true
	case "r":
		m.mode = viewReport
	case "l":
		m.mode = viewListing
	case "s":
		m.mode = viewLabels
	case "tab":
		m.mode = (m.mode + 1) % viewMode(len(viewNames))
	case "shift+tab":
		m.mode = (m.mode + viewMode(len(viewNames)) - 1) % viewMode(len(viewNames))
	case "enter":
		if m.mode != viewLabels {
			return m, nil, false
		}
		m.follow()
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width != m.width || msg.Height != m.height {
			m.width = msg.Width
			m.height = msg.Height
			for _, vp := range []*viewport.Model{&m.report, &m.listing} {
				vp.SetWidth(msg.Width)
				vp.SetHeight(msg.Height - 2)
			}
			m.labels.SetWidth(msg.Width)
			m.labels.SetHeight(msg.Height - 2)
			m.updateReport()
		}
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		filtering := m.mode == viewLabels && m.labels.FilterState() == list.Filtering
		if !filtering || key == "ctrl+c" {
			var handled bool
			if m, cmd, handled = m.handleKey(key); handled {
				return m, cmd
			}
		}
	}

	switch m.mode {
	case viewLabels:
		m.labels, cmd = m.labels.Update(msg)
	case viewListing:
		m.listing, cmd = m.listing.Update(msg)
	default:
		m.report, cmd = m.report.Update(msg)
	}
	return m, cmd
}

func (m model) menu() string {
	tabs := make([]string, 0, len(viewNames))
	for i, name := range viewNames {
		if viewMode(i) == m.mode {
			tabs = append(tabs, styles.MenuActive.Render(name))
		} else {
			tabs = append(tabs, styles.MenuInactive.Render(name))
		}
	}

	var keys string
	switch m.mode {
	case viewLabels:
		keys = "Enter: jump • /: filter • Tab: cycle • Q: quit"
	default:
		keys = "R: report • L: listing • S: labels • Tab: cycle • Q: quit"
	}
	if m.status != "" {
		keys = m.status
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(tabs, ""), "  ", styles.Status.Render(keys))
}

func (m model) View() string {
	var content string
	switch m.mode {
	case viewLabels:
		content = m.labels.View()
	case viewListing:
		content = m.listing.View()
	default:
		content = m.report.View()
	}
	return content + "\n" + styles.MenuBar.Width(m.width).Render(m.menu())
}
