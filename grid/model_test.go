package grid

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/mumtazka/skpgrid/richtext"
)

type recorder struct {
	rows      []RowsChangedEvent
	sels      []SelectionEvent
	focused   []Editor
	activated int
}

func (r *recorder) lastSel(t *testing.T) SelectionEvent {
	t.Helper()
	if len(r.sels) == 0 {
		t.Fatalf("no selection events")
	}
	return r.sels[len(r.sels)-1]
}

func newModel(t *testing.T, sec *Section, tweak func(*Config)) (Model, *fakeFactory, *recorder) {
	t.Helper()
	ff := &fakeFactory{}
	rec := &recorder{}
	cfg := Config{
		ID:                 "goals",
		Section:            sec,
		Headers:            []string{"Goal", "Indicator", "Target"},
		Width:              64,
		NewEditor:          ff.New,
		OnRowsChanged:      func(ev RowsChangedEvent) { rec.rows = append(rec.rows, ev) },
		OnSelectionChanged: func(ev SelectionEvent) { rec.sels = append(rec.sels, ev) },
		OnCellFocused:      func(ed Editor) { rec.focused = append(rec.focused, ed) },
		OnSectionActivated: func(string) { rec.activated++ },
	}
	if tweak != nil {
		tweak(&cfg)
	}
	return New(cfg), ff, rec
}

func mouseAt(m Model, c Coord, action tea.MouseAction) tea.MouseMsg {
	b := m.st.computeLayout().boxes[c]
	return tea.MouseMsg{X: b.x, Y: headerLines + b.y, Action: action, Button: tea.MouseButtonLeft}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// assertRegistryMatchesSection checks that exactly the visible cells have
// live editors holding the section's markup.
func assertRegistryMatchesSection(t *testing.T, m Model) {
	t.Helper()
	sec := m.Section()
	if diff := cmp.Diff(sec.VisibleCells(), m.Registry().Coords()); diff != "" {
		t.Fatalf("registry coords (-visible +registered):\n%s", diff)
	}
	for _, c := range m.Registry().Coords() {
		f := fakeAt(t, m, c.Row, c.Col)
		if f.destroyed {
			t.Fatalf("destroyed editor registered at %v", c)
		}
		if f.markup != sec.Rows[c.Row].Columns[c.Col] {
			t.Fatalf("editor at %v holds %q, section %q", c, f.markup, sec.Rows[c.Row].Columns[c.Col])
		}
	}
}

func TestNewMountsOneEditorPerVisibleCell(t *testing.T) {
	sec := sectionOf(2, 3)
	sec.Merge(Range{0, 1, 1, 2})
	m, ff, _ := newModel(t, sec, nil)

	if got := len(ff.made); got != 3 {
		t.Fatalf("editors made: got %d, want 3", got)
	}
	assertRegistryMatchesSection(t, m)
}

func TestDragSelectThenFormatWholeCells(t *testing.T) {
	m, _, rec := newModel(t, sectionOf(3, 3), nil)

	m, _ = m.Update(mouseAt(m, Coord{0, 0}, tea.MouseActionPress))
	m, _ = m.Update(mouseAt(m, Coord{1, 1}, tea.MouseActionMotion))
	m, _ = m.Update(mouseAt(m, Coord{1, 1}, tea.MouseActionRelease))

	rg, ok := m.Selection()
	if !ok || rg != (Range{0, 0, 1, 1}) {
		t.Fatalf("selection: got %v %v", rg, ok)
	}
	ev := rec.lastSel(t)
	if !ev.Active || len(ev.Editors) != 4 || ev.SectionID != "goals" {
		t.Fatalf("selection event: %+v", ev)
	}

	if cmd := m.ApplyFormat(richtext.Bold); cmd == nil {
		t.Fatalf("ApplyFormat returned no flush command")
	}
	for _, c := range rg.Cells() {
		if diff := cmp.Diff([]string{"select-all", "bold"}, fakeAt(t, m, c.Row, c.Col).log); diff != "" {
			t.Fatalf("editor %v (-want +got):\n%s", c, diff)
		}
	}
	if got := fakeAt(t, m, 2, 2).log; len(got) != 0 {
		t.Fatalf("editor outside the range got %v", got)
	}
	if got := m.Section().Rows[1].Columns[1]; got != "<b>1-1</b>" {
		t.Fatalf("section not updated: %q", got)
	}
}

func TestSingleCellFormatKeepsEditorSelection(t *testing.T) {
	m, _, _ := newModel(t, sectionOf(2, 2), nil)
	m = m.FocusCell(Coord{1, 0})
	m.ApplyFormat(richtext.Italic)

	if diff := cmp.Diff([]string{"italic"}, fakeAt(t, m, 1, 0).log); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestArrowAtCaretEndMovesFocus(t *testing.T) {
	m, _, rec := newModel(t, sectionOf(2, 2), nil)
	m = m.FocusCell(Coord{0, 0})
	from := fakeAt(t, m, 0, 0)
	from.atEnd = true

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})

	if c, ok := m.Focused(); !ok || c != (Coord{0, 1}) {
		t.Fatalf("focus: got %v %v", c, ok)
	}
	if rg, _ := m.Selection(); rg != (Range{0, 1, 0, 1}) {
		t.Fatalf("selection: got %v", rg)
	}
	to := fakeAt(t, m, 0, 1)
	if from.focused || !to.focused {
		t.Fatalf("focused: from=%v to=%v", from.focused, to.focused)
	}
	if len(from.msgs) != 0 {
		t.Fatalf("consumed key reached the editor: %v", from.msgs)
	}
	if rec.focused[len(rec.focused)-1] != Editor(to) {
		t.Fatalf("OnCellFocused not called with the target editor")
	}
}

func TestArrowInsideTextStaysWithEditor(t *testing.T) {
	m, _, _ := newModel(t, sectionOf(2, 2), nil)
	m = m.FocusCell(Coord{0, 0})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if c, _ := m.Focused(); c != (Coord{0, 0}) {
		t.Fatalf("focus moved to %v", c)
	}
	if got := len(fakeAt(t, m, 0, 0).msgs); got != 1 {
		t.Fatalf("editor messages: got %d, want 1", got)
	}

	// Up has no neighbour from row 0.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if c, _ := m.Focused(); c != (Coord{0, 0}) {
		t.Fatalf("focus moved to %v", c)
	}
}

func TestDeleteRowRemapsRegistry(t *testing.T) {
	m, _, rec := newModel(t, sectionOf(3, 2), nil)
	gone := fakeAt(t, m, 1, 0)
	last := fakeAt(t, m, 2, 0)

	if !m.DeleteRow(1) {
		t.Fatalf("DeleteRow returned false")
	}
	if got := m.Section().RowCount(); got != 2 {
		t.Fatalf("rows: got %d, want 2", got)
	}
	for _, c := range m.Registry().Coords() {
		if c.Row > 1 {
			t.Fatalf("stale entry at %v", c)
		}
	}
	if !gone.destroyed {
		t.Fatalf("editor of the deleted row not destroyed")
	}
	if fakeAt(t, m, 1, 0) != last || last.markup != "2-0" {
		t.Fatalf("row 2 editor not moved up")
	}
	assertRegistryMatchesSection(t, m)
	if len(rec.rows) != 1 || rec.rows[0].TextEdit {
		t.Fatalf("row events: %+v", rec.rows)
	}
}

func TestStructuralEditsKeepRegistryInSync(t *testing.T) {
	m, _, _ := newModel(t, sectionOf(3, 3), nil)
	steps := []struct {
		name string
		do   func() bool
	}{
		{"add row", m.AddRow},
		{"add column", m.AddColumn},
		{"merge", func() bool { return m.MergeRange(Range{0, 0, 1, 2}) }},
		{"add sub row", func() bool { return m.AddSubRow(0) }},
		{"delete column", func() bool { return m.DeleteColumn(1) }},
		{"unmerge", func() bool { return m.Unmerge(Coord{0, 0}) }},
		{"insert row", func() bool { return m.InsertRowBelow(0) }},
		{"delete row", func() bool { return m.DeleteRow(0) }},
		{"border", func() bool { return m.CycleRowBorder(1) }},
	}
	for _, st := range steps {
		if !st.do() {
			t.Fatalf("%s: returned false", st.name)
		}
		assertRegistryMatchesSection(t, m)
		if err := m.Section().Validate(); err != nil {
			t.Fatalf("%s: %v", st.name, err)
		}
	}
}

func TestTextEditsAreDebounced(t *testing.T) {
	m, _, rec := newModel(t, sectionOf(1, 1), nil)
	m = m.FocusCell(Coord{0, 0})

	m, cmd := m.Update(keyRunes("a"))
	if cmd == nil {
		t.Fatalf("typing returned no command")
	}
	if !m.Pending() || len(rec.rows) != 0 {
		t.Fatalf("text edit reported before the window closed")
	}
	stale := flushMsg{owner: m.st, seq: m.st.seq}

	m, _ = m.Update(keyRunes("b"))
	m, _ = m.Update(stale)
	if len(rec.rows) != 0 {
		t.Fatalf("stale flush reported")
	}

	m, _ = m.Update(flushMsg{owner: m.st, seq: m.st.seq})
	if len(rec.rows) != 1 {
		t.Fatalf("rows events: got %d, want 1", len(rec.rows))
	}
	ev := rec.rows[0]
	if !ev.TextEdit || ev.Section.Rows[0].Columns[0] != "0-0ab" {
		t.Fatalf("event: %+v", ev)
	}
	if m.Pending() {
		t.Fatalf("still pending after flush")
	}
}

func TestDebounceTickFlushes(t *testing.T) {
	m, _, rec := newModel(t, sectionOf(1, 1), func(c *Config) { c.Debounce = time.Millisecond })
	m = m.FocusCell(Coord{0, 0})
	m, cmd := m.Update(keyRunes("x"))

	m, _ = m.Update(cmd())
	if len(rec.rows) != 1 || !rec.rows[0].TextEdit {
		t.Fatalf("rows events: %+v", rec.rows)
	}
}

func TestStructuralEditReportsImmediately(t *testing.T) {
	m, _, rec := newModel(t, sectionOf(1, 1), nil)
	m = m.FocusCell(Coord{0, 0})
	m, _ = m.Update(keyRunes("a"))
	pending := flushMsg{owner: m.st, seq: m.st.seq}

	m.AddRow()
	if len(rec.rows) != 1 || rec.rows[0].TextEdit {
		t.Fatalf("rows events: %+v", rec.rows)
	}
	if got := rec.rows[0].Section.Rows[0].Columns[0]; got != "0-0a" {
		t.Fatalf("structural report lost the text edit: %q", got)
	}

	m, _ = m.Update(pending)
	if len(rec.rows) != 1 {
		t.Fatalf("superseded text flush reported")
	}
}

func TestReleaseOutsideEndsSelection(t *testing.T) {
	m, _, _ := newModel(t, sectionOf(3, 2), nil)

	m, _ = m.Update(mouseAt(m, Coord{0, 1}, tea.MouseActionPress))
	if !m.Capturing() {
		t.Fatalf("not capturing after press")
	}
	m, _ = m.Update(tea.MouseMsg{X: -5, Y: 500, Action: tea.MouseActionMotion})
	m, _ = m.Update(tea.MouseMsg{X: 500, Y: 500, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	if m.Capturing() {
		t.Fatalf("still capturing after release")
	}
	if rg, ok := m.Selection(); !ok || rg != (Range{0, 0, 2, 1}) {
		t.Fatalf("selection: got %v %v", rg, ok)
	}
}

func TestHeaderClickSelectsColumn(t *testing.T) {
	m, _, rec := newModel(t, sectionOf(3, 2), nil)
	l := m.st.computeLayout()

	m, _ = m.Update(tea.MouseMsg{X: l.colX[1] + 1, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.Capturing() {
		t.Fatalf("header click started a drag")
	}
	if rg, ok := m.Selection(); !ok || rg != (Range{0, 1, 2, 1}) {
		t.Fatalf("selection: got %v %v, want %v", rg, ok, Range{0, 1, 2, 1})
	}
	if got := rec.lastSel(t); got.Range != (Range{0, 1, 2, 1}) {
		t.Fatalf("selection event: got %+v", got)
	}
	if rec.activated != 1 {
		t.Fatalf("activated %d times, want 1", rec.activated)
	}
}

func TestColumnResizeDrag(t *testing.T) {
	m, _, rec := newModel(t, sectionOf(2, 2), nil)
	l := m.st.computeLayout()
	hx := l.colX[0] + l.colW[0]

	m, _ = m.Update(tea.MouseMsg{X: hx, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !m.Capturing() {
		t.Fatalf("press on the boundary did not start a resize")
	}
	m, _ = m.Update(tea.MouseMsg{X: hx + 6, Y: 9, Action: tea.MouseActionMotion})
	m, cmd := m.Update(tea.MouseMsg{X: 999, Y: 999, Action: tea.MouseActionRelease})

	if m.Capturing() {
		t.Fatalf("still capturing after release")
	}
	ws := m.Section().ColWidths
	want := 50 + 6/float64(l.content)*100
	if !near(ws[0], want) || !near(ws[0]+ws[1], 100) {
		t.Fatalf("widths: got %v, want first %v", ws, want)
	}
	if cmd == nil || !m.Pending() || len(rec.rows) != 0 {
		t.Fatalf("resize not reported through the debounce")
	}
	m.Flush()
	if len(rec.rows) != 1 || !rec.rows[0].TextEdit {
		t.Fatalf("rows events: %+v", rec.rows)
	}
}

func TestReadOnly(t *testing.T) {
	m, ff, rec := newModel(t, sectionOf(2, 2), func(c *Config) { c.ReadOnly = true })
	for _, f := range ff.made {
		if f.editable {
			t.Fatalf("editor editable in a read-only grid")
		}
	}
	if m.AddRow() || m.AddColumn() || m.DeleteRow(0) || m.OpenRowMenu(0) {
		t.Fatalf("structural edit allowed")
	}

	m = m.FocusCell(Coord{0, 0})
	m, _ = m.Update(keyRunes("z"))
	m.ApplyFormat(richtext.Bold)
	if got := m.Section().Rows[0].Columns[0]; got != "0-0" {
		t.Fatalf("cell changed: %q", got)
	}

	l := m.st.computeLayout()
	m, _ = m.Update(tea.MouseMsg{X: l.colX[0] + l.colW[0], Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.Capturing() {
		t.Fatalf("resize started in a read-only grid")
	}
	if len(rec.rows) != 0 {
		t.Fatalf("rows events: %+v", rec.rows)
	}

	m = m.SetReadOnly(false)
	if !fakeAt(t, m, 0, 0).editable || !m.AddRow() {
		t.Fatalf("SetReadOnly(false) did not enable editing")
	}
}

func TestActivationAndDeactivate(t *testing.T) {
	m, _, rec := newModel(t, sectionOf(2, 2), nil)

	m, _ = m.Update(mouseAt(m, Coord{0, 0}, tea.MouseActionPress))
	m, _ = m.Update(mouseAt(m, Coord{0, 0}, tea.MouseActionRelease))
	m, _ = m.Update(mouseAt(m, Coord{1, 1}, tea.MouseActionPress))
	if rec.activated != 1 {
		t.Fatalf("activated: got %d, want 1", rec.activated)
	}

	m = m.Deactivate()
	if m.Active() || m.Capturing() {
		t.Fatalf("still active or capturing")
	}
	if _, ok := m.Selection(); ok {
		t.Fatalf("selection survives Deactivate")
	}
	if _, ok := m.Focused(); ok {
		t.Fatalf("focus survives Deactivate")
	}
	if rec.lastSel(t).Active {
		t.Fatalf("last selection event still active")
	}

	m, _ = m.Update(mouseAt(m, Coord{0, 1}, tea.MouseActionPress))
	if rec.activated != 2 {
		t.Fatalf("activated: got %d, want 2", rec.activated)
	}
}

func TestCloseTearsDown(t *testing.T) {
	m, ff, rec := newModel(t, sectionOf(2, 2), nil)
	m = m.FocusCell(Coord{0, 0})
	m, _ = m.Update(keyRunes("a"))
	pending := flushMsg{owner: m.st, seq: m.st.seq}
	m, _ = m.Update(mouseAt(m, Coord{1, 1}, tea.MouseActionPress))

	m.Close()
	if m.Capturing() || m.Registry().Len() != 0 {
		t.Fatalf("capture or editors left after Close")
	}
	for i, f := range ff.made {
		if !f.destroyed {
			t.Fatalf("editor %d not destroyed", i)
		}
	}
	if _, cmd := m.Update(pending); cmd != nil || len(rec.rows) != 0 {
		t.Fatalf("pending flush survived Close")
	}
	if m.View() != "" || m.AddRow() {
		t.Fatalf("closed model still works")
	}
}

func TestRowMenuFromKeyboard(t *testing.T) {
	m, _, rec := newModel(t, sectionOf(2, 2), nil)
	if !m.OpenRowMenu(0) || !m.MenuOpen() {
		t.Fatalf("menu not open")
	}
	for i := 0; i < 3; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.MenuOpen() {
		t.Fatalf("menu still open")
	}
	if got := m.Section().Rows[0].Border; got != BorderThin {
		t.Fatalf("border: got %v, want thin", got)
	}
	if len(rec.rows) != 1 || rec.rows[0].TextEdit {
		t.Fatalf("rows events: %+v", rec.rows)
	}
}

func TestRowMenuFromMouse(t *testing.T) {
	m, _, _ := newModel(t, sectionOf(3, 2), nil)
	l := m.st.computeLayout()

	m, _ = m.Update(tea.MouseMsg{X: l.actionX(), Y: headerLines + l.rowY[1], Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !m.MenuOpen() {
		t.Fatalf("menu not open")
	}
	menu := m.st.menu
	// The zero Style has no frame, so item i is on line menu.y+i.
	m, _ = m.Update(tea.MouseMsg{X: menu.x, Y: menu.y + int(actDeleteRow), Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	if got := m.Section().RowCount(); got != 2 {
		t.Fatalf("rows: got %d, want 2", got)
	}
	if m.Section().Rows[1].Columns[0] != "2-0" {
		t.Fatalf("wrong row deleted")
	}
}

func TestEscapeShrinksThenClears(t *testing.T) {
	m, _, _ := newModel(t, sectionOf(3, 3), nil)
	m = m.FocusCell(Coord{1, 1})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlShiftRight})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlShiftDown})
	if rg, _ := m.Selection(); rg != (Range{1, 1, 2, 2}) {
		t.Fatalf("keyboard extend: got %v", rg)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if rg, _ := m.Selection(); rg != (Range{1, 1, 1, 1}) {
		t.Fatalf("first escape: got %v", rg)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := m.Selection(); ok {
		t.Fatalf("second escape kept the selection")
	}
}

func TestSetSectionRemounts(t *testing.T) {
	m, ff, _ := newModel(t, sectionOf(2, 2), nil)
	first := len(ff.made)

	m = m.SetSection(sectionOf(1, 3))
	for _, f := range ff.made[:first] {
		if !f.destroyed {
			t.Fatalf("old editor not destroyed")
		}
	}
	assertRegistryMatchesSection(t, m)
}

func TestSnapshotIsIndependent(t *testing.T) {
	m, _, _ := newModel(t, sectionOf(1, 1), nil)
	snap := m.Snapshot()
	snap.Rows[0].Columns[0] = "changed"
	if m.Section().Rows[0].Columns[0] != "0-0" {
		t.Fatalf("snapshot shares storage")
	}
}
