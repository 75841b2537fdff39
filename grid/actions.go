package grid

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/mumtazka/skpgrid/richtext"
)

// structural reports a discrete change right away. Text edits waiting for
// the debounce are part of the reported section, so their flush is dropped.
func (st *state) structural(msg string, args ...any) {
	st.invalidateFlush()
	st.syncEditors()
	st.log.Debug(msg, append(args, "rows", len(st.sec.Rows), "cols", st.sec.ColCount)...)
	st.emitRowsChanged(false)
}

func (st *state) editable() bool { return !st.closed && !st.sec.ReadOnly }

// AddRow appends an empty main row.
func (m Model) AddRow() bool {
	st := m.st
	if !st.editable() || !st.sec.AddRow() {
		return false
	}
	st.structural("row added")
	return true
}

// InsertRowBelow adds a main row after row i and its sub rows.
func (m Model) InsertRowBelow(i int) bool {
	st := m.st
	if !st.editable() || i < 0 || i >= len(st.sec.Rows) {
		return false
	}
	at := st.sec.groupEnd(i) + 1
	if !st.sec.InsertRowBelow(i) {
		return false
	}
	st.shiftForInsert(at)
	st.structural("row inserted", "at", at)
	return true
}

// AddSubRow adds a sub row directly below row i.
func (m Model) AddSubRow(i int) bool {
	st := m.st
	if !st.editable() || !st.sec.AddSubRow(i) {
		return false
	}
	st.shiftForInsert(i + 1)
	st.structural("sub row added", "at", i+1)
	return true
}

func (st *state) shiftForInsert(at int) {
	st.reg.Remap(func(c Coord) (Coord, bool) {
		if c.Row >= at {
			c.Row++
		}
		return c, true
	})
	st.sel.InsertRow(at)
	if st.hasFocus && st.focus.Row >= at {
		st.focus.Row++
	}
}

func (m Model) AddColumn() bool {
	st := m.st
	if !st.editable() || !st.sec.AddColumn() {
		return false
	}
	st.structural("column added")
	return true
}

// DeleteRow removes row i together with its editors.
func (m Model) DeleteRow(i int) bool {
	st := m.st
	if !st.editable() || !st.sec.DeleteRow(i) {
		return false
	}
	if st.hasFocus {
		switch {
		case st.focus.Row == i:
			st.blurFocus()
		case st.focus.Row > i:
			st.focus.Row--
		}
	}
	st.reg.Remap(func(c Coord) (Coord, bool) {
		switch {
		case c.Row == i:
			return c, false
		case c.Row > i:
			c.Row--
		}
		return c, true
	})
	had := st.sel.Active()
	st.sel.DeleteRow(i, len(st.sec.Rows))
	st.structural("row deleted", "index", i)
	if had {
		st.emitSelection()
	}
	return true
}

// DeleteColumn removes column c together with its editors. The last column
// stays.
func (m Model) DeleteColumn(c int) bool {
	st := m.st
	if !st.editable() || !st.sec.DeleteColumn(c) {
		return false
	}
	if st.hasFocus {
		switch {
		case st.focus.Col == c:
			st.blurFocus()
		case st.focus.Col > c:
			st.focus.Col--
		}
	}
	st.reg.Remap(func(x Coord) (Coord, bool) {
		switch {
		case x.Col == c:
			return x, false
		case x.Col > c:
			x.Col--
		}
		return x, true
	})
	had := st.sel.Active()
	st.sel.DeleteColumn(c, st.sec.ColCount)
	st.structural("column deleted", "index", c)
	if had {
		st.emitSelection()
	}
	return true
}

func (m Model) SetRowBorder(i int, style BorderStyle) bool {
	st := m.st
	if !st.editable() || !st.sec.SetRowBorder(i, style) {
		return false
	}
	st.structural("row border set", "index", i, "border", style)
	return true
}

// CycleRowBorder steps row i through none, thin and bold.
func (m Model) CycleRowBorder(i int) bool {
	if i < 0 || i >= len(m.st.sec.Rows) {
		return false
	}
	return m.SetRowBorder(i, m.st.sec.Rows[i].Border.Next())
}

func (m Model) SetRowNumber(i int, number string) bool {
	st := m.st
	if !st.editable() || !st.sec.SetRowNumber(i, number) {
		return false
	}
	st.structural("row number set", "index", i)
	return true
}

// Merge joins the selected cells into one.
func (m Model) Merge() bool {
	rg, ok := m.st.sel.Range()
	if !ok {
		return false
	}
	return m.MergeRange(rg.Clamp(len(m.st.sec.Rows), m.st.sec.ColCount))
}

func (m Model) MergeRange(rg Range) bool {
	st := m.st
	if !st.editable() || !st.sec.Merge(rg) {
		return false
	}
	st.structural("cells merged", "range", rg.String())
	anchor := Coord{Row: rg.Normalize().Top, Col: rg.Normalize().Left}
	if sp, ok := st.sec.Covering(anchor.Row, anchor.Col); ok {
		anchor = sp.Anchor()
	}
	if st.hasFocus || st.sel.Active() {
		st.focusCell(anchor)
		st.sel.Collapse(anchor)
		st.emitSelection()
	}
	return true
}

// Unmerge splits the merged cell covering c.
func (m Model) Unmerge(c Coord) bool {
	st := m.st
	if !st.editable() || !st.sec.Unmerge(c.Row, c.Col) {
		return false
	}
	st.structural("cells unmerged", "cell", c.Key())
	return true
}

// ApplyFormat toggles mark. With more than one cell selected every editor
// in the range is formatted as a whole; otherwise the focused editor's own
// text selection is. The returned command carries the debounced report.
func (m Model) ApplyFormat(mark richtext.Mark) tea.Cmd {
	m.st.format(func(ed Editor) { ed.ApplyFormat(mark) })
	return m.st.flushCmd()
}

// ClearFormat removes every mark following the same targeting as
// ApplyFormat.
func (m Model) ClearFormat() tea.Cmd {
	m.st.format(func(ed Editor) { ed.ClearFormat() })
	return m.st.flushCmd()
}

func (st *state) format(apply func(Editor)) bool {
	if !st.editable() {
		return false
	}
	if rg, ok := st.sel.Range(); ok && !rg.Single() {
		eds := st.reg.InRange(rg)
		for _, ed := range eds {
			ed.SelectAll()
			apply(ed)
		}
		return len(eds) > 0
	}
	target := st.focus
	if !st.hasFocus {
		rg, ok := st.sel.Range()
		if !ok {
			return false
		}
		target = Coord{rg.Top, rg.Left}
	}
	ed, ok := st.reg.Lookup(target)
	if !ok {
		return false
	}
	apply(ed)
	return true
}

type menuAction uint8

const (
	actInsertRow menuAction = iota
	actAddSubRow
	actBorderNone
	actBorderThin
	actBorderBold
	actDeleteRow
)

type menuItem struct {
	label string
	act   menuAction
}

var rowMenuItems = []menuItem{
	{"Add row below", actInsertRow},
	{"Add sub row", actAddSubRow},
	{"Border: none", actBorderNone},
	{"Border: thin", actBorderThin},
	{"Border: bold", actBorderBold},
	{"Delete row", actDeleteRow},
}

// rowMenu is the popup opened from a row's action column.
type rowMenu struct {
	row    int
	cursor int
	x, y   int
	w, h   int
}

// OpenRowMenu opens the row actions popup for row i.
func (m Model) OpenRowMenu(i int) bool {
	st := m.st
	if !st.editable() || i < 0 || i >= len(st.sec.Rows) {
		return false
	}
	st.markActive()
	st.openMenu(i, st.computeLayout())
	return true
}

func (m Model) MenuOpen() bool { return m.st.menu != nil }

func (st *state) openMenu(row int, l layout) {
	st.menu = &rowMenu{row: row}
	view := st.menuView()
	st.menu.w = lipgloss.Width(view)
	st.menu.h = lipgloss.Height(view)
	st.menu.x = max(0, l.actionX()-st.menu.w)
	y := headerLines + l.rowY[row]
	st.menu.y = max(0, min(y, l.height()-st.menu.h))
}

func (st *state) closeMenu() { st.menu = nil }

func (st *state) runMenu(m Model) {
	menu := st.menu
	st.menu = nil
	if menu == nil {
		return
	}
	row := menu.row
	switch rowMenuItems[menu.cursor].act {
	case actInsertRow:
		m.InsertRowBelow(row)
	case actAddSubRow:
		m.AddSubRow(row)
	case actBorderNone:
		m.SetRowBorder(row, BorderNone)
	case actBorderThin:
		m.SetRowBorder(row, BorderThin)
	case actBorderBold:
		m.SetRowBorder(row, BorderBold)
	case actDeleteRow:
		m.DeleteRow(row)
	}
}

// itemAt maps a grid position to a menu item.
func (menu *rowMenu) itemAt(x, y int, frame lipgloss.Style) (int, bool) {
	if !menu.contains(x, y) {
		return 0, false
	}
	i := y - menu.y - frame.GetBorderTopSize() - frame.GetPaddingTop()
	if i < 0 || i >= len(rowMenuItems) {
		return 0, false
	}
	return i, true
}

func (menu *rowMenu) contains(x, y int) bool {
	return x >= menu.x && x < menu.x+menu.w && y >= menu.y && y < menu.y+menu.h
}

func (st *state) menuView() string {
	s := st.cfg.Style
	labelW := 0
	for _, it := range rowMenuItems {
		labelW = max(labelW, len(it.label))
	}
	lines := make([]string, len(rowMenuItems))
	for i, it := range rowMenuItems {
		label := it.label + strings.Repeat(" ", labelW-len(it.label))
		if i == st.menu.cursor {
			lines[i] = s.MenuSelected.Render(label)
		} else {
			lines[i] = s.MenuItem.Render(label)
		}
	}
	return s.Menu.Render(strings.Join(lines, "\n"))
}

func (st *state) renderMenu(base string) string {
	return overlay.Composite(st.menuView(), base, overlay.Left, overlay.Top, st.menu.x, st.menu.y)
}
