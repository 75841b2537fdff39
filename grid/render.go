package grid

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

const (
	actionGlyph   = " ⋯ "
	numberHeading = "No"
)

func (m Model) View() string {
	st := m.st
	if st.closed {
		return ""
	}
	l := st.computeLayout()

	views := make(map[Coord][]string, len(l.boxes))
	for c := range l.boxes {
		if ed, ok := st.reg.Lookup(c); ok {
			views[c] = strings.Split(ed.View(), "\n")
		}
	}

	lines := make([]string, 0, l.height())
	lines = append(lines, st.headerLine(l), st.ruleLine(l))
	for y := 0; y < l.body; y++ {
		lines = append(lines, st.bodyLine(l, views, y))
	}
	out := strings.Join(lines, "\n")
	if st.menu != nil {
		out = st.renderMenu(out)
	}
	return out
}

func (st *state) headerLine(l layout) string {
	s := st.cfg.Style
	hs := s.Header
	if st.active {
		hs = s.HeaderActive
	}
	var sb strings.Builder
	if l.numW > 0 {
		sb.WriteString(hs.Render(fit(numberHeading, l.numW)))
		sb.WriteString(s.Rule.Render("│"))
	}
	for c, w := range l.colW {
		label := ""
		if c < len(st.cfg.Headers) {
			label = st.cfg.Headers[c]
		}
		sb.WriteString(hs.Render(fit(label, w)))
		sep := s.Rule
		if st.pointer == pointerResizing && st.rsz.Column() == c {
			sep = s.ResizeHandle
		}
		sb.WriteString(sep.Render("│"))
	}
	if l.actW > 0 {
		sb.WriteString(strings.Repeat(" ", l.actW))
	}
	return sb.String()
}

func (st *state) ruleLine(l layout) string {
	var sb strings.Builder
	if l.numW > 0 {
		sb.WriteString(strings.Repeat("─", l.numW) + "┼")
	}
	for _, w := range l.colW {
		sb.WriteString(strings.Repeat("─", w) + "┼")
	}
	sb.WriteString(strings.Repeat("─", l.actW))
	return st.cfg.Style.Rule.Render(sb.String())
}

func borderGlyphs(b BorderStyle) (line, junction string) {
	if b == BorderBold {
		return "━", "╋"
	}
	return "─", "┼"
}

func (st *state) bodyLine(l layout, views map[Coord][]string, y int) string {
	s := st.cfg.Style
	r, _ := l.rowAt(y)
	row := st.sec.Rows[r]
	onBorder := y >= l.rowY[r]+l.rowH[r]
	first := y == l.rowY[r]
	line, junction := borderGlyphs(row.Border)
	rg, hasRange := st.sel.Range()
	multi := hasRange && !rg.Single()

	var sb strings.Builder
	if l.numW > 0 {
		switch {
		case onBorder:
			sb.WriteString(s.Rule.Render(strings.Repeat(line, l.numW) + junction))
		case first:
			sb.WriteString(st.numberCell(row, l.numW) + s.Rule.Render("│"))
		default:
			sb.WriteString(strings.Repeat(" ", l.numW) + s.Rule.Render("│"))
		}
	}

	for c := 0; c < st.sec.ColCount; {
		anchor := Coord{Row: r, Col: c}
		if sp, ok := st.sec.Covering(r, c); ok {
			anchor = sp.Anchor()
		}
		_, cols := st.sec.Extent(anchor.Row, anchor.Col)
		cols = max(1, anchor.Col+cols-c)
		w := l.spanWidth(c, cols)
		b, ok := l.boxes[anchor]
		if ok && y >= b.y && y < b.y+b.h {
			text := ""
			if v := views[anchor]; y-b.y < len(v) {
				text = v[y-b.y]
			}
			seg := fit(text, w)
			if multi && rg.Contains(anchor.Row, anchor.Col) {
				seg = s.Selected.Render(seg)
			}
			sb.WriteString(seg + s.Rule.Render("│"))
		} else {
			sb.WriteString(s.Rule.Render(strings.Repeat(line, w) + junction))
		}
		c += cols
	}

	if l.actW > 0 {
		switch {
		case onBorder:
			sb.WriteString(s.Rule.Render(strings.Repeat(line, l.actW)))
		case first:
			sb.WriteString(s.Action.Render(fit(actionGlyph, l.actW)))
		default:
			sb.WriteString(strings.Repeat(" ", l.actW))
		}
	}
	return sb.String()
}

// numberCell renders a row label; sub rows are indented under their main row.
func (st *state) numberCell(row Row, w int) string {
	if row.Kind == SubRow {
		return st.cfg.Style.SubRowNumber.Render(fit("  "+row.Number, w))
	}
	return st.cfg.Style.RowNumber.Render(fit(row.Number, w))
}

// fit truncates or pads s, which may carry escape sequences, to exactly w
// cells.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if ansi.StringWidth(s) > w {
		s = ansi.Truncate(s, w, "")
	}
	if n := w - ansi.StringWidth(s); n > 0 {
		s += strings.Repeat(" ", n)
	}
	return s
}

