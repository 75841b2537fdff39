package richtext

type Options struct {
	HistoryLimit int // default: 1000
}

type selectionState struct {
	active bool
	anchor int
	end    int
}

// Buffer is the pure cell state: glyphs, caret, selection and typing marks.
type Buffer struct {
	glyphs []Glyph

	caret int
	sel   selectionState

	// pending overrides the marks inherited by the next insertion until the
	// caret moves.
	pending    Mark
	pendingSet bool

	version     uint64
	textVersion uint64

	opt  Options
	hist historyState
}

func New(markup string, opt Options) *Buffer {
	if opt.HistoryLimit == 0 {
		opt.HistoryLimit = 1000
	}
	return &Buffer{
		glyphs: Parse(markup),
		opt:    opt,
	}
}

// Markup returns the canonical markup of the buffer.
func (b *Buffer) Markup() string { return Encode(b.glyphs) }

func (b *Buffer) PlainText() string { return PlainText(b.glyphs) }

// Len returns the number of glyphs.
func (b *Buffer) Len() int { return len(b.glyphs) }

// Glyphs returns a copy of the buffer contents.
func (b *Buffer) Glyphs() []Glyph { return append([]Glyph(nil), b.glyphs...) }

func (b *Buffer) Runs() []Run { return Runs(b.glyphs) }

// Version changes whenever text, marks, caret or selection change.
func (b *Buffer) Version() uint64 { return b.version }

// TextVersion changes only when text or marks change.
func (b *Buffer) TextVersion() uint64 { return b.textVersion }

func (b *Buffer) Caret() int { return b.caret }

// SetCaret places the caret and collapses any selection.
func (b *Buffer) SetCaret(i int) {
	next := clampInt(i, 0, len(b.glyphs))
	if next == b.caret && !b.sel.active {
		return
	}
	b.caret = next
	b.sel = selectionState{}
	b.pendingSet = false
	b.version++
}

// AtStart reports whether the caret sits at the very start with nothing
// selected.
func (b *Buffer) AtStart() bool {
	_, ok := b.Selection()
	return !ok && b.caret == 0
}

// AtEnd reports whether the caret sits after the last glyph with nothing
// selected.
func (b *Buffer) AtEnd() bool {
	_, ok := b.Selection()
	return !ok && b.caret == len(b.glyphs)
}

func (b *Buffer) Selection() (Range, bool) {
	if !b.sel.active {
		return Range{}, false
	}
	r := Range{Start: b.sel.anchor, End: b.sel.end}.Normalize()
	if r.IsEmpty() {
		return Range{}, false
	}
	return r, true
}

// SelectionRaw returns the selection without normalization so callers can
// keep its direction.
func (b *Buffer) SelectionRaw() (Range, bool) {
	if !b.sel.active || b.sel.anchor == b.sel.end {
		return Range{}, false
	}
	return Range{Start: b.sel.anchor, End: b.sel.end}, true
}

// SetSelection selects r (clamped). The caret follows r.End. An empty range
// clears the selection.
func (b *Buffer) SetSelection(r Range) {
	n := len(b.glyphs)
	anchor := clampInt(r.Start, 0, n)
	end := clampInt(r.End, 0, n)
	next := selectionState{active: anchor != end, anchor: anchor, end: end}
	if !next.active {
		next = selectionState{}
	}
	if selectionStateEqual(b.sel, next) && b.caret == end {
		return
	}
	b.sel = next
	b.caret = end
	b.pendingSet = false
	b.version++
}

// SelectAll selects the whole cell. An empty cell has nothing to select.
func (b *Buffer) SelectAll() {
	b.SetSelection(Range{Start: 0, End: len(b.glyphs)})
}

func (b *Buffer) ClearSelection() {
	if !b.sel.active {
		return
	}
	b.sel = selectionState{}
	b.version++
}

// ActiveMarks reports the marks a toolbar should show as active: the marks
// shared by every selected glyph, else the pending typing marks, else the
// marks of the glyph before the caret.
func (b *Buffer) ActiveMarks() Mark {
	if r, ok := b.Selection(); ok {
		common := Bold | Italic | Underline | Strike
		for _, g := range b.glyphs[r.Start:r.End] {
			common &= g.Marks
		}
		return common
	}
	if b.pendingSet {
		return b.pending
	}
	return b.inheritedMarks()
}

func (b *Buffer) inheritedMarks() Mark {
	switch {
	case b.caret > 0 && b.caret <= len(b.glyphs):
		return b.glyphs[b.caret-1].Marks
	case len(b.glyphs) > 0:
		return b.glyphs[0].Marks
	default:
		return MarkNone
	}
}

func selectionStateEqual(a, b selectionState) bool {
	if !a.active && !b.active {
		return true
	}
	return a == b
}

func (b *Buffer) touchText() {
	b.version++
	b.textVersion++
}
