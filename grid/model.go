package grid

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mumtazka/skpgrid/celleditor"
	"github.com/mumtazka/skpgrid/richtext"
)

type pointerMode uint8

const (
	pointerIdle pointerMode = iota
	pointerSelecting
	pointerResizing
)

func (p pointerMode) String() string {
	switch p {
	case pointerSelecting:
		return "selecting"
	case pointerResizing:
		return "resizing"
	}
	return "idle"
}

// Model is a Bubble Tea component editing one Section.
//
// Model is a small value around shared state, so copies returned by Update
// and the original all observe the same grid.
type Model struct {
	st *state
}

type state struct {
	cfg Config
	log *slog.Logger

	sec *Section
	reg *Registry
	sel Selection
	rsz Resizer

	pointer pointerMode
	resized bool

	focus    Coord
	hasFocus bool
	active   bool
	closed   bool

	width int

	// Text edits bump seq and set dirty; a flush only reports when its
	// seq is still current.
	seq   uint64
	dirty bool
	armed bool

	menu *rowMenu
}

func New(cfg Config) Model {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if len(cfg.KeyMap.Up.Keys()) == 0 {
		cfg.KeyMap = DefaultKeyMap()
	}
	if cfg.NewEditor == nil {
		cfg.NewEditor = CellEditorFactory(celleditor.DefaultStyle(), celleditor.DefaultKeyMap(), nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	sec := cfg.Section
	if sec == nil {
		sec = NewSection(len(cfg.Headers))
	}
	sec.ReadOnly = sec.ReadOnly || cfg.ReadOnly

	st := &state{
		cfg:   cfg,
		log:   cfg.Logger.With("section", cfg.ID),
		sec:   sec,
		reg:   NewRegistry(),
		width: cfg.Width,
	}
	st.syncEditors()
	return Model{st: st}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) ID() string { return m.st.cfg.ID }

// Section returns the live section. Callers must not mutate it.
func (m Model) Section() *Section { return m.st.sec }

// Snapshot returns a copy of the section.
func (m Model) Snapshot() *Section { return m.st.sec.Clone() }

func (m Model) Headers() []string { return m.st.cfg.Headers }

func (m Model) Registry() *Registry { return m.st.reg }

func (m Model) Width() int { return m.st.width }

func (m Model) SetWidth(w int) Model {
	m.st.width = max(0, w)
	return m
}

// Height is the number of lines View renders.
func (m Model) Height() int { return m.st.computeLayout().height() }

func (m Model) ReadOnly() bool { return m.st.sec.ReadOnly }

// SetReadOnly switches every editor between editable and read-only.
func (m Model) SetReadOnly(ro bool) Model {
	st := m.st
	if st.sec.ReadOnly == ro {
		return m
	}
	st.sec.ReadOnly = ro
	for _, c := range st.reg.Coords() {
		ed, _ := st.reg.Lookup(c)
		ed.SetEditable(!ro)
	}
	st.closeMenu()
	return m
}

// SetSection replaces the data, for example after an undo. Pending text
// reports are dropped and editors are remounted.
func (m Model) SetSection(sec *Section) Model {
	st := m.st
	if sec == nil || st.closed {
		return m
	}
	sec.ReadOnly = st.sec.ReadOnly
	st.sec = sec
	st.invalidateFlush()
	st.reg.Clear()
	st.cancelPointer()
	st.closeMenu()
	focus, had := st.focus, st.hasFocus
	st.hasFocus = false
	if rg, ok := st.sel.Range(); ok && (rg.Bottom >= len(sec.Rows) || rg.Right >= sec.ColCount) {
		st.sel.Clear()
	}
	st.syncEditors()
	if had && st.active {
		st.focusCell(focus)
	}
	st.log.Debug("section replaced", "rows", len(sec.Rows), "cols", sec.ColCount)
	return m
}

// Active reports whether this section owns the interaction.
func (m Model) Active() bool { return m.st.active }

// Activate marks the section active without an interaction. It does not
// fire OnSectionActivated.
func (m Model) Activate() Model {
	m.st.active = true
	return m
}

// Deactivate drops focus, selection and any pointer capture.
func (m Model) Deactivate() Model {
	st := m.st
	if !st.active && !st.hasFocus && !st.sel.Active() {
		return m
	}
	st.active = false
	st.cancelPointer()
	st.closeMenu()
	st.blurFocus()
	hadSel := st.sel.Active()
	st.sel.Clear()
	if hadSel {
		st.emitSelection()
	}
	return m
}

// Capturing reports whether a drag is in progress. While it is, the host
// must send every mouse message here, wherever the pointer is.
func (m Model) Capturing() bool { return m.st.pointer != pointerIdle }

// Focused returns the focused cell.
func (m Model) Focused() (Coord, bool) { return m.st.focus, m.st.hasFocus }

// FocusedEditor returns the editor of the focused cell.
func (m Model) FocusedEditor() (Editor, bool) {
	if !m.st.hasFocus {
		return nil, false
	}
	return m.st.reg.Lookup(m.st.focus)
}

// Selection returns the selected range.
func (m Model) Selection() (Range, bool) { return m.st.sel.Range() }

// FormatState returns the marks at the focused editor's caret.
func (m Model) FormatState() richtext.Mark {
	if ed, ok := m.FocusedEditor(); ok {
		return ed.FormatState()
	}
	return richtext.MarkNone
}

// FocusCell activates the section and focuses the cell at c, collapsing
// the selection onto it.
func (m Model) FocusCell(c Coord) Model {
	st := m.st
	if st.closed {
		return m
	}
	if sp, ok := st.sec.Covering(c.Row, c.Col); ok {
		c = sp.Anchor()
	}
	if _, ok := st.reg.Lookup(c); !ok {
		return m
	}
	st.markActive()
	st.focusCell(c)
	st.sel.Collapse(c)
	st.emitSelection()
	return m
}

// Close tears the model down: pending flushes are dropped, pointer capture
// ends and every editor is destroyed.
func (m Model) Close() {
	st := m.st
	if st.closed {
		return
	}
	st.invalidateFlush()
	st.cancelPointer()
	st.closeMenu()
	st.reg.Clear()
	st.hasFocus = false
	st.sel.Clear()
	st.closed = true
	st.log.Debug("grid closed")
}

func (m Model) Closed() bool { return m.st.closed }

// syncEditors mounts an editor for every visible cell that lacks one,
// destroys editors of cells that are gone or hidden and refreshes the
// markup of the rest.
func (st *state) syncEditors() {
	want := make(map[Coord]bool)
	for _, c := range st.sec.VisibleCells() {
		want[c] = true
	}
	for _, c := range st.reg.Coords() {
		if !want[c] {
			st.reg.Unregister(c)
		}
	}
	for _, c := range st.sec.VisibleCells() {
		markup := st.sec.Rows[c.Row].Columns[c.Col]
		if ed, ok := st.reg.Lookup(c); ok {
			if ed.Markup() != markup {
				ed.SetMarkup(markup)
			}
			continue
		}
		st.mount(c, markup)
	}
	if st.hasFocus {
		if _, ok := st.reg.Lookup(st.focus); !ok {
			st.hasFocus = false
		}
	}
}

func (st *state) mount(c Coord, markup string) {
	var ed Editor
	ed = st.cfg.NewEditor(EditorConfig{
		Markup:   markup,
		Editable: !st.sec.ReadOnly,
		OnChange: func(markup string) { st.editorChanged(ed, markup) },
		OnFocus:  func() { st.editorFocused(ed) },
	})
	if ed == nil {
		st.log.Warn("editor factory returned nil", "cell", c.Key())
		return
	}
	st.reg.Register(c, ed)
}

// editorChanged stores a user edit and arms the debounce.
func (st *state) editorChanged(ed Editor, markup string) {
	c, ok := st.reg.CoordOf(ed)
	if !ok || st.closed {
		return
	}
	if !st.sec.SetCell(c.Row, c.Col, markup) {
		return
	}
	st.scheduleFlush()
}

func (st *state) editorFocused(ed Editor) {
	if st.cfg.OnCellFocused != nil {
		st.cfg.OnCellFocused(ed)
	}
}

func (st *state) focusCell(c Coord) {
	if st.hasFocus && st.focus == c {
		if ed, ok := st.reg.Lookup(c); ok && !ed.Focused() {
			ed.Focus()
		}
		return
	}
	st.blurFocus()
	ed, ok := st.reg.Lookup(c)
	if !ok {
		return
	}
	st.focus = c
	st.hasFocus = true
	ed.Focus()
}

func (st *state) blurFocus() {
	if !st.hasFocus {
		return
	}
	if ed, ok := st.reg.Lookup(st.focus); ok {
		ed.Blur()
	}
	st.hasFocus = false
}

func (st *state) markActive() {
	if st.active {
		return
	}
	st.active = true
	st.log.Debug("section activated")
	if st.cfg.OnSectionActivated != nil {
		st.cfg.OnSectionActivated(st.cfg.ID)
	}
}

func (st *state) cancelPointer() {
	switch st.pointer {
	case pointerSelecting:
		st.sel.End()
	case pointerResizing:
		st.rsz.End()
	}
	st.pointer = pointerIdle
}
