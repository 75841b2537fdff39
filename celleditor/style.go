package celleditor

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mumtazka/skpgrid/richtext"
)

// Style controls the editor's rendering.
type Style struct {
	Text        lipgloss.Style
	Selection   lipgloss.Style
	Cursor      lipgloss.Style
	Placeholder lipgloss.Style
}

func DefaultStyle() Style {
	return Style{
		Text:        lipgloss.NewStyle(),
		Selection:   lipgloss.NewStyle().Background(lipgloss.Color("237")),
		Cursor:      lipgloss.NewStyle().Reverse(true),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Faint(true),
	}
}

// markStyle layers glyph marks onto base.
func markStyle(base lipgloss.Style, m richtext.Mark) lipgloss.Style {
	s := base
	if m.Has(richtext.Bold) {
		s = s.Bold(true)
	}
	if m.Has(richtext.Italic) {
		s = s.Italic(true)
	}
	if m.Has(richtext.Underline) {
		s = s.Underline(true)
	}
	if m.Has(richtext.Strike) {
		s = s.Strikethrough(true)
	}
	return s
}
