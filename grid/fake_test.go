package grid

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mumtazka/skpgrid/richtext"
)

// fakeEditor records the commands the grid sends it.
type fakeEditor struct {
	markup    string
	focused   bool
	editable  bool
	destroyed bool
	width     int
	atStart   bool
	atEnd     bool
	log       []string
	msgs      []tea.Msg

	onChange func(string)
	onFocus  func()
}

func (f *fakeEditor) Update(msg tea.Msg) tea.Cmd {
	if f.destroyed {
		return nil
	}
	f.msgs = append(f.msgs, msg)
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyRunes && f.editable {
		f.markup += string(k.Runes)
		f.changed()
	}
	return nil
}

func (f *fakeEditor) changed() {
	if f.onChange != nil {
		f.onChange(f.markup)
	}
}

func (f *fakeEditor) View() string  { return richtext.StripMarkup(f.markup) }
func (f *fakeEditor) SetWidth(w int) { f.width = w }
func (f *fakeEditor) Height() int    { return 1 }

func (f *fakeEditor) Focus() {
	if f.destroyed || f.focused {
		return
	}
	f.focused = true
	if f.onFocus != nil {
		f.onFocus()
	}
}

func (f *fakeEditor) Blur()                     { f.focused = false }
func (f *fakeEditor) Focused() bool             { return f.focused }
func (f *fakeEditor) SetEditable(editable bool) { f.editable = editable }

func (f *fakeEditor) SelectAll() { f.log = append(f.log, "select-all") }

func (f *fakeEditor) ApplyFormat(m richtext.Mark) {
	if f.destroyed || !f.editable {
		return
	}
	f.log = append(f.log, m.String())
	f.markup = "<b>" + f.markup + "</b>"
	f.changed()
}

func (f *fakeEditor) ClearFormat() {
	if f.destroyed || !f.editable {
		return
	}
	f.log = append(f.log, "clear")
	f.markup = richtext.StripMarkup(f.markup)
	f.changed()
}

func (f *fakeEditor) FormatState() richtext.Mark { return richtext.MarkNone }
func (f *fakeEditor) CaretAtStart() bool         { return f.atStart }
func (f *fakeEditor) CaretAtEnd() bool           { return f.atEnd }
func (f *fakeEditor) Markup() string             { return f.markup }
func (f *fakeEditor) SetMarkup(s string)         { f.markup = s }

func (f *fakeEditor) Destroy() {
	f.destroyed = true
	f.focused = false
	f.onChange = nil
	f.onFocus = nil
}

type fakeFactory struct {
	made []*fakeEditor
}

func (ff *fakeFactory) New(cfg EditorConfig) Editor {
	f := &fakeEditor{
		markup:   cfg.Markup,
		editable: cfg.Editable,
		width:    cfg.Width,
		onChange: cfg.OnChange,
		onFocus:  cfg.OnFocus,
	}
	ff.made = append(ff.made, f)
	return f
}

func fakeAt(t interface{ Fatalf(string, ...any) }, m Model, row, col int) *fakeEditor {
	ed, ok := m.Registry().Lookup(Coord{row, col})
	if !ok {
		t.Fatalf("no editor at %d-%d", row, col)
	}
	return ed.(*fakeEditor)
}

// sectionOf builds a rows×cols section whose cells read "r-c".
func sectionOf(rows, cols int) *Section {
	s := NewSection(cols)
	for r := 0; r < rows; r++ {
		s.AddRow()
		for c := 0; c < cols; c++ {
			s.Rows[r].Columns[c] = Coord{r, c}.Key()
		}
	}
	return s
}
