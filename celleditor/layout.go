package celleditor

import (
	"github.com/mumtazka/skpgrid/internal/grapheme"
	"github.com/mumtazka/skpgrid/richtext"
)

// visualLine covers glyphs[start:end]. When hard is set, glyph end is the
// newline that terminated the line.
type visualLine struct {
	start int
	end   int
	hard  bool
}

func glyphWidth(g richtext.Glyph) int {
	if g.Text == "\t" {
		return 1
	}
	return grapheme.Width(g.Text)
}

// layout wraps the buffer at e.width, preferring breaks after whitespace.
func (e *Editor) layout() []visualLine {
	return wrapGlyphs(e.buf.Glyphs(), e.width)
}

func wrapGlyphs(glyphs []richtext.Glyph, width int) []visualLine {
	var lines []visualLine
	start, used, lastBreak := 0, 0, -1
	for i := 0; i < len(glyphs); i++ {
		g := glyphs[i]
		if grapheme.IsNewline(g.Text) {
			lines = append(lines, visualLine{start: start, end: i, hard: true})
			start, used, lastBreak = i+1, 0, -1
			continue
		}
		w := glyphWidth(g)
		if width > 0 && used+w > width && i > start {
			brk := i
			if lastBreak > start {
				brk = lastBreak
			}
			lines = append(lines, visualLine{start: start, end: brk})
			start, lastBreak = brk, -1
			used = 0
			for j := start; j < i; j++ {
				used += glyphWidth(glyphs[j])
			}
		}
		used += w
		if grapheme.IsSpace(g.Text) {
			lastBreak = i + 1
		}
	}
	lines = append(lines, visualLine{start: start, end: len(glyphs)})
	return lines
}

// lineOf returns the visual line that shows the caret at p.
func lineOf(lines []visualLine, p int) int {
	for i, l := range lines {
		if p >= l.start && p < l.end {
			return i
		}
		if p == l.end && (l.hard || i == len(lines)-1) {
			return i
		}
	}
	return len(lines) - 1
}

// hitTest maps editor-local cell coordinates to a caret position.
func (e *Editor) hitTest(x, y int) int {
	glyphs := e.buf.Glyphs()
	lines := wrapGlyphs(glyphs, e.width)
	if y < 0 {
		y = 0
	}
	if y >= len(lines) {
		y = len(lines) - 1
	}
	l := lines[y]
	col := 0
	for i := l.start; i < l.end; i++ {
		w := glyphWidth(glyphs[i])
		if x < col+w {
			return i
		}
		col += w
	}
	return l.end
}
