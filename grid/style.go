package grid

import "github.com/charmbracelet/lipgloss"

// Style controls the grid's chrome. Cell text is styled by the editors.
type Style struct {
	Header       lipgloss.Style
	HeaderActive lipgloss.Style // header line of the active section
	Rule         lipgloss.Style // separators and borders
	RowNumber    lipgloss.Style
	SubRowNumber lipgloss.Style
	Action       lipgloss.Style
	Selected     lipgloss.Style // cells inside a multi-cell selection
	ResizeHandle lipgloss.Style // boundary being dragged

	Menu         lipgloss.Style
	MenuItem     lipgloss.Style
	MenuSelected lipgloss.Style
}

func DefaultStyle() Style {
	rule := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	return Style{
		Header:       lipgloss.NewStyle().Bold(true),
		HeaderActive: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Rule:         rule,
		RowNumber:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		SubRowNumber: rule,
		Action:       rule,
		Selected:     lipgloss.NewStyle().Background(lipgloss.Color("237")),
		ResizeHandle: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Menu:         lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		MenuItem:     lipgloss.NewStyle().Padding(0, 1),
		MenuSelected: lipgloss.NewStyle().Padding(0, 1).Reverse(true),
	}
}
