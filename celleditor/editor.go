package celleditor

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mumtazka/skpgrid/richtext"
)

// Editor is a Bubble Tea rich-text editor bound to one cell.
//
// Unlike most Bubble Tea models it is used through a pointer: the grid keeps
// the handle in its registry for the whole lifetime of the cell.
type Editor struct {
	cfg Config
	buf *richtext.Buffer

	focused   bool
	editable  bool
	destroyed bool
	width     int

	lastTextVersion uint64

	mouseDragging bool
	mouseAnchor   int
}

func New(cfg Config) *Editor {
	if len(cfg.KeyMap.Left.Keys()) == 0 {
		cfg.KeyMap = DefaultKeyMap()
	}
	e := &Editor{
		cfg:      cfg,
		buf:      richtext.New(cfg.Markup, richtext.Options{HistoryLimit: cfg.HistoryLimit}),
		editable: cfg.Editable,
		width:    maxInt(cfg.Width, 0),
	}
	e.lastTextVersion = e.buf.TextVersion()
	return e
}

// Buffer exposes the underlying model.
func (e *Editor) Buffer() *richtext.Buffer { return e.buf }

func (e *Editor) Init() tea.Cmd { return nil }

func (e *Editor) Focus() {
	if e.destroyed || e.focused {
		return
	}
	e.focused = true
	if e.cfg.OnFocus != nil {
		e.cfg.OnFocus(FocusEvent{Marks: e.buf.ActiveMarks()})
	}
}

func (e *Editor) Blur() {
	e.focused = false
	e.mouseDragging = false
}

func (e *Editor) Focused() bool { return e.focused }

func (e *Editor) SetEditable(editable bool) { e.editable = editable }

func (e *Editor) Editable() bool { return e.editable && !e.destroyed }

func (e *Editor) SetWidth(w int) { e.width = maxInt(w, 0) }

func (e *Editor) Width() int { return e.width }

// Height is the number of rendered lines at the current width (at least 1).
func (e *Editor) Height() int {
	return maxInt(len(e.layout()), 1)
}

func (e *Editor) Markup() string { return e.buf.Markup() }

// SetMarkup replaces the content without firing OnChange.
func (e *Editor) SetMarkup(markup string) {
	if e.destroyed {
		return
	}
	e.buf.SetMarkup(markup)
	e.lastTextVersion = e.buf.TextVersion()
}

// SelectAll selects the entire content of the cell.
func (e *Editor) SelectAll() {
	if e.destroyed {
		return
	}
	e.buf.SelectAll()
}

// ApplyFormat toggles mark on the editor's current selection (or on the
// typing marks when nothing is selected).
func (e *Editor) ApplyFormat(mark richtext.Mark) {
	if !e.Editable() {
		return
	}
	e.buf.ToggleMark(mark)
	e.emitIfChanged()
}

// ClearFormat removes every mark from the current selection.
func (e *Editor) ClearFormat() {
	if !e.Editable() {
		return
	}
	e.buf.ClearMarks()
	e.emitIfChanged()
}

// FormatState reports the marks a toolbar should highlight.
func (e *Editor) FormatState() richtext.Mark { return e.buf.ActiveMarks() }

func (e *Editor) CaretAtStart() bool { return e.buf.AtStart() }

func (e *Editor) CaretAtEnd() bool { return e.buf.AtEnd() }

// Destroy releases the editor. Every later call is a no-op.
func (e *Editor) Destroy() {
	e.destroyed = true
	e.focused = false
	e.mouseDragging = false
	e.cfg.OnChange = nil
	e.cfg.OnFocus = nil
}

func (e *Editor) Destroyed() bool { return e.destroyed }

func (e *Editor) Update(msg tea.Msg) tea.Cmd {
	if e.destroyed {
		return nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		e.updateKey(msg)
	case tea.MouseMsg:
		e.updateMouse(msg)
	}
	e.emitIfChanged()
	return nil
}

func (e *Editor) emitIfChanged() {
	v := e.buf.TextVersion()
	if v == e.lastTextVersion {
		return
	}
	e.lastTextVersion = v
	if e.cfg.OnChange != nil {
		e.cfg.OnChange(buildChangeEvent(e.buf))
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
