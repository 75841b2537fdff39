package richtext

import (
	"strings"

	"github.com/mumtazka/skpgrid/internal/grapheme"
)

// InsertText inserts text at the caret, or replaces the active selection.
// Inserted glyphs take the active marks (see ActiveMarks).
func (b *Buffer) InsertText(s string) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if s == "" {
		b.DeleteSelection()
		return
	}

	marks := b.ActiveMarks()
	r, ok := b.Selection()
	if !ok {
		r = Range{Start: b.caret, End: b.caret}
	}
	clusters := grapheme.Split(s)
	ins := make([]Glyph, len(clusters))
	for i, c := range clusters {
		ins[i] = Glyph{Text: c, Marks: marks}
	}

	prev := b.snapshot()
	b.replace(r, ins)
	b.caret = r.Start + len(ins)
	b.sel = selectionState{}
	b.pending = marks
	b.pendingSet = true
	b.touchText()
	b.recordUndo(prev)
}

// InsertNewline inserts a line break at the caret, or replaces the selection.
func (b *Buffer) InsertNewline() {
	b.InsertText("\n")
}

// DeleteBackward applies backspace semantics.
func (b *Buffer) DeleteBackward() {
	if _, ok := b.Selection(); ok {
		b.DeleteSelection()
		return
	}
	if b.caret == 0 {
		return
	}
	prev := b.snapshot()
	b.replace(Range{Start: b.caret - 1, End: b.caret}, nil)
	b.caret--
	b.pendingSet = false
	b.touchText()
	b.recordUndo(prev)
}

// DeleteForward applies delete-key semantics.
func (b *Buffer) DeleteForward() {
	if _, ok := b.Selection(); ok {
		b.DeleteSelection()
		return
	}
	if b.caret >= len(b.glyphs) {
		return
	}
	prev := b.snapshot()
	b.replace(Range{Start: b.caret, End: b.caret + 1}, nil)
	b.pendingSet = false
	b.touchText()
	b.recordUndo(prev)
}

// DeleteSelection removes the selected glyphs. No-op without a selection.
func (b *Buffer) DeleteSelection() {
	r, ok := b.Selection()
	if !ok {
		return
	}
	prev := b.snapshot()
	b.replace(r, nil)
	b.caret = r.Start
	b.sel = selectionState{}
	b.pendingSet = false
	b.touchText()
	b.recordUndo(prev)
}

// SelectedMarkup returns the markup of the active selection.
func (b *Buffer) SelectedMarkup() (string, bool) {
	r, ok := b.Selection()
	if !ok {
		return "", false
	}
	return Encode(b.glyphs[r.Start:r.End]), true
}

// InsertMarkup inserts marked-up text at the caret (replacing any selection),
// keeping the marks it carries.
func (b *Buffer) InsertMarkup(markup string) {
	ins := Parse(markup)
	if len(ins) == 0 {
		b.DeleteSelection()
		return
	}
	r, ok := b.Selection()
	if !ok {
		r = Range{Start: b.caret, End: b.caret}
	}
	prev := b.snapshot()
	b.replace(r, ins)
	b.caret = r.Start + len(ins)
	b.sel = selectionState{}
	b.pendingSet = false
	b.touchText()
	b.recordUndo(prev)
}

// SetMarkup replaces the whole content. The change is undoable. Setting the
// markup the buffer already holds is a no-op.
func (b *Buffer) SetMarkup(markup string) {
	next := Parse(markup)
	if Encode(next) == b.Markup() {
		return
	}
	prev := b.snapshot()
	b.glyphs = next
	b.caret = clampInt(b.caret, 0, len(b.glyphs))
	b.sel = selectionState{}
	b.pendingSet = false
	b.touchText()
	b.recordUndo(prev)
}

func (b *Buffer) replace(r Range, ins []Glyph) {
	r = r.Normalize()
	r.Start = clampInt(r.Start, 0, len(b.glyphs))
	r.End = clampInt(r.End, r.Start, len(b.glyphs))
	out := make([]Glyph, 0, len(b.glyphs)-(r.End-r.Start)+len(ins))
	out = append(out, b.glyphs[:r.Start]...)
	out = append(out, ins...)
	out = append(out, b.glyphs[r.End:]...)
	b.glyphs = out
}
