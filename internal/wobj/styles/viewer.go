package styles

import "github.com/charmbracelet/lipgloss/v2"

// Listing palette, shared with the chroma style.
const (
	AddressColor  = "#4F4F4F"
	MnemonicColor = "#FFFFFF"
	RegisterColor = "#7C9C9D"
	NumberColor   = "#FF5F87"
	LabelColor    = "#FFD700"
	StringColor   = "#EACD53"
	UnknownColor  = "#E06C75"
)

var (
	MenuActive = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)
	MenuInactive = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246")).
			Padding(0, 1)
	MenuBar = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252"))

	Address  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	Label    = lipgloss.NewStyle().Foreground(lipgloss.Color(LabelColor)).Bold(true)
	External = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Italic(true)
	Muted    = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	Status   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)
