package celleditor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mumtazka/skpgrid/internal/grapheme"
)

// View renders the cell. Every line is padded with spaces to Width when a
// width is set.
func (e *Editor) View() string {
	glyphs := e.buf.Glyphs()
	st := e.cfg.Style

	if len(glyphs) == 0 && !e.focused && e.cfg.Placeholder != "" {
		return e.pad(st.Placeholder.Render(truncate(e.cfg.Placeholder, e.width)), minWidth(e.cfg.Placeholder, e.width))
	}

	lines := wrapGlyphs(glyphs, e.width)
	caret := e.buf.Caret()
	caretLine := lineOf(lines, caret)
	sel, selOK := e.buf.Selection()

	out := make([]string, 0, len(lines))
	for li, l := range lines {
		var sb strings.Builder
		used := 0
		for i := l.start; i < l.end; i++ {
			g := glyphs[i]
			text := g.Text
			if text == "\t" {
				text = " "
			}
			s := markStyle(st.Text, g.Marks)
			switch {
			case e.focused && i == caret && !selOK:
				s = st.Cursor.Inherit(s)
			case selOK && i >= sel.Start && i < sel.End:
				s = st.Selection.Inherit(s)
			}
			sb.WriteString(s.Render(text))
			used += glyphWidth(g)
		}
		if e.focused && !selOK && li == caretLine && caret == l.end && (e.width == 0 || used < e.width) {
			sb.WriteString(st.Cursor.Render(" "))
			used++
		}
		out = append(out, e.pad(sb.String(), used))
	}
	return strings.Join(out, "\n")
}

func (e *Editor) pad(s string, used int) string {
	if e.width <= used {
		return s
	}
	return s + strings.Repeat(" ", e.width-used)
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	var sb strings.Builder
	used := 0
	for _, c := range grapheme.Split(s) {
		w := grapheme.Width(c)
		if used+w > width {
			break
		}
		sb.WriteString(c)
		used += w
	}
	return sb.String()
}

func minWidth(s string, width int) int {
	w := lipgloss.Width(s)
	if width > 0 && w > width {
		return width
	}
	return w
}
