package richtext

// ToggleMark flips m on the active selection: it is removed when every
// selected glyph already carries it and added to all of them otherwise.
// Without a selection it toggles the marks used by the next insertion.
func (b *Buffer) ToggleMark(m Mark) {
	if m == MarkNone {
		return
	}
	r, ok := b.Selection()
	if !ok {
		b.pending = b.ActiveMarks() ^ m
		b.pendingSet = true
		b.version++
		return
	}

	all := true
	for _, g := range b.glyphs[r.Start:r.End] {
		if !g.Marks.Has(m) {
			all = false
			break
		}
	}
	prev := b.snapshot()
	for i := r.Start; i < r.End; i++ {
		if all {
			b.glyphs[i].Marks = b.glyphs[i].Marks.Without(m)
		} else {
			b.glyphs[i].Marks = b.glyphs[i].Marks.With(m)
		}
	}
	b.touchText()
	b.recordUndo(prev)
}

// ClearMarks strips every mark from the selection, or resets the typing
// marks when nothing is selected.
func (b *Buffer) ClearMarks() {
	r, ok := b.Selection()
	if !ok {
		if b.pendingSet && b.pending == MarkNone {
			return
		}
		b.pending = MarkNone
		b.pendingSet = true
		b.version++
		return
	}
	changed := false
	for _, g := range b.glyphs[r.Start:r.End] {
		if g.Marks != MarkNone {
			changed = true
			break
		}
	}
	if !changed {
		return
	}
	prev := b.snapshot()
	for i := r.Start; i < r.End; i++ {
		b.glyphs[i].Marks = MarkNone
	}
	b.touchText()
	b.recordUndo(prev)
}
