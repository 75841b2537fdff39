package richtext

import "github.com/mumtazka/skpgrid/internal/grapheme"

type MoveUnit int

const (
	MoveGrapheme MoveUnit = iota
	MoveWord
	MoveLine
	MoveDoc
)

type MoveDir int

const (
	DirLeft MoveDir = iota
	DirRight
	DirUp
	DirDown
	DirHome // line start (or cell start for MoveDoc)
	DirEnd  // line end (or cell end for MoveDoc)
)

type Move struct {
	Unit   MoveUnit
	Dir    MoveDir
	Extend bool // if true, extends the selection; if false clears it
}

func (b *Buffer) Move(m Move) {
	prevCaret := b.caret
	prevSel := b.sel

	next := clampInt(b.moveCaret(prevCaret, m), 0, len(b.glyphs))

	nextSel := selectionState{}
	if m.Extend {
		anchor := prevCaret
		if prevSel.active && prevSel.anchor != prevSel.end {
			anchor = prevSel.anchor
		}
		if anchor != next {
			nextSel = selectionState{active: true, anchor: anchor, end: next}
		}
	}

	if prevCaret == next && selectionStateEqual(prevSel, nextSel) {
		return
	}
	b.caret = next
	b.sel = nextSel
	b.pendingSet = false
	b.version++
}

func (b *Buffer) moveCaret(p int, m Move) int {
	switch m.Unit {
	case MoveGrapheme:
		switch m.Dir {
		case DirLeft:
			return p - 1
		case DirRight:
			return p + 1
		case DirUp, DirDown, DirHome, DirEnd:
			return b.moveLine(p, m.Dir)
		}
	case MoveWord:
		switch m.Dir {
		case DirLeft:
			return b.prevWordBoundary(p)
		case DirRight:
			return b.nextWordBoundary(p)
		default:
			return b.moveLine(p, m.Dir)
		}
	case MoveLine:
		return b.moveLine(p, m.Dir)
	case MoveDoc:
		switch m.Dir {
		case DirHome, DirUp, DirLeft:
			return 0
		case DirEnd, DirDown, DirRight:
			return len(b.glyphs)
		}
	}
	return p
}

func (b *Buffer) moveLine(p int, dir MoveDir) int {
	start := b.lineStart(p)
	col := p - start
	switch dir {
	case DirHome, DirLeft:
		return start
	case DirEnd, DirRight:
		return b.lineEnd(p)
	case DirUp:
		if start == 0 {
			return p
		}
		prevEnd := start - 1
		prevStart := b.lineStart(prevEnd)
		return minInt(prevStart+col, prevEnd)
	case DirDown:
		end := b.lineEnd(p)
		if end >= len(b.glyphs) {
			return p
		}
		nextStart := end + 1
		return minInt(nextStart+col, b.lineEnd(nextStart))
	}
	return p
}

// lineStart returns the index just after the newline preceding p.
func (b *Buffer) lineStart(p int) int {
	i := clampInt(p, 0, len(b.glyphs))
	for i > 0 && !grapheme.IsNewline(b.glyphs[i-1].Text) {
		i--
	}
	return i
}

// lineEnd returns the index of the newline at or after p, or Len.
func (b *Buffer) lineEnd(p int) int {
	i := clampInt(p, 0, len(b.glyphs))
	for i < len(b.glyphs) && !grapheme.IsNewline(b.glyphs[i].Text) {
		i++
	}
	return i
}

// Line returns the 0-based line number of p and its column within the line.
func (b *Buffer) Line(p int) (line, col int) {
	p = clampInt(p, 0, len(b.glyphs))
	for i := 0; i < p; i++ {
		if grapheme.IsNewline(b.glyphs[i].Text) {
			line++
		}
	}
	return line, p - b.lineStart(p)
}

// Word boundary rules:
// - skip whitespace, then skip non-whitespace
// - newlines count as whitespace
func (b *Buffer) prevWordBoundary(p int) int {
	i := clampInt(p, 0, len(b.glyphs))
	for i > 0 && b.isBlank(i-1) {
		i--
	}
	for i > 0 && !b.isBlank(i-1) {
		i--
	}
	return i
}

func (b *Buffer) nextWordBoundary(p int) int {
	i := clampInt(p, 0, len(b.glyphs))
	for i < len(b.glyphs) && b.isBlank(i) {
		i++
	}
	for i < len(b.glyphs) && !b.isBlank(i) {
		i++
	}
	return i
}

func (b *Buffer) isBlank(i int) bool {
	return grapheme.IsSpace(b.glyphs[i].Text)
}

func minInt(a, c int) int {
	if a < c {
		return a
	}
	return c
}
