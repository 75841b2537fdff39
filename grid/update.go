package grid

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mumtazka/skpgrid/richtext"
)

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	st := m.st
	if st.closed {
		return m, nil
	}
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case flushMsg:
		st.handleFlush(msg)
		return m, nil
	case tea.KeyMsg:
		cmd = m.updateKey(msg)
	case tea.MouseMsg:
		cmd = m.updateMouse(msg)
	default:
		if ed, ok := m.FocusedEditor(); ok {
			cmd = ed.Update(msg)
		}
	}
	return m, tea.Batch(cmd, st.flushCmd())
}

func (m Model) updateKey(msg tea.KeyMsg) tea.Cmd {
	st := m.st
	km := st.cfg.KeyMap

	if st.menu != nil {
		st.updateMenuKey(m, msg)
		return nil
	}

	cur, hasCur := st.current()
	switch {
	case key.Matches(msg, km.Escape):
		if st.escape() {
			return nil
		}

	case key.Matches(msg, km.Bold):
		st.format(func(ed Editor) { ed.ApplyFormat(richtext.Bold) })
		return nil
	case key.Matches(msg, km.Italic):
		st.format(func(ed Editor) { ed.ApplyFormat(richtext.Italic) })
		return nil
	case key.Matches(msg, km.Underline):
		st.format(func(ed Editor) { ed.ApplyFormat(richtext.Underline) })
		return nil
	case key.Matches(msg, km.Strike):
		st.format(func(ed Editor) { ed.ApplyFormat(richtext.Strike) })
		return nil
	case key.Matches(msg, km.ClearFormat):
		st.format(func(ed Editor) { ed.ClearFormat() })
		return nil

	case key.Matches(msg, km.AddRow):
		m.AddRow()
		return nil
	case key.Matches(msg, km.AddColumn):
		m.AddColumn()
		return nil
	case key.Matches(msg, km.Merge):
		m.Merge()
		return nil
	case key.Matches(msg, km.AddSubRow, km.DeleteRow, km.DeleteColumn, km.CycleBorder, km.Unmerge, km.RowActions):
		if hasCur {
			m.cellCommand(msg, cur)
		}
		return nil

	case key.Matches(msg, km.SelectUp):
		st.extendBy(-1, 0)
		return nil
	case key.Matches(msg, km.SelectDown):
		st.extendBy(1, 0)
		return nil
	case key.Matches(msg, km.SelectLeft):
		st.extendBy(0, -1)
		return nil
	case key.Matches(msg, km.SelectRight):
		st.extendBy(0, 1)
		return nil

	case key.Matches(msg, km.Up):
		if st.navigate(Up) {
			return nil
		}
	case key.Matches(msg, km.Down):
		if st.navigate(Down) {
			return nil
		}
	case key.Matches(msg, km.Left):
		if st.navigate(Left) {
			return nil
		}
	case key.Matches(msg, km.Right):
		if st.navigate(Right) {
			return nil
		}
	}

	if ed, ok := m.FocusedEditor(); ok {
		return ed.Update(msg)
	}
	return nil
}

func (m Model) cellCommand(msg tea.KeyMsg, cur Coord) {
	km := m.st.cfg.KeyMap
	switch {
	case key.Matches(msg, km.AddSubRow):
		m.AddSubRow(cur.Row)
	case key.Matches(msg, km.DeleteRow):
		m.DeleteRow(cur.Row)
	case key.Matches(msg, km.DeleteColumn):
		m.DeleteColumn(cur.Col)
	case key.Matches(msg, km.CycleBorder):
		m.CycleRowBorder(cur.Row)
	case key.Matches(msg, km.Unmerge):
		m.Unmerge(cur)
	case key.Matches(msg, km.RowActions):
		m.OpenRowMenu(cur.Row)
	}
}

// current is the cell row and column commands apply to.
func (st *state) current() (Coord, bool) {
	if st.hasFocus {
		return st.focus, true
	}
	if st.sel.Active() {
		return st.sel.Anchor(), true
	}
	return Coord{}, false
}

// escape shrinks a range to the focused cell, then clears it.
func (st *state) escape() bool {
	rg, ok := st.sel.Range()
	if !ok {
		return false
	}
	if !rg.Single() && st.hasFocus {
		st.sel.Collapse(st.focus)
	} else {
		st.sel.Clear()
	}
	st.emitSelection()
	return true
}

func (st *state) navigate(dir Direction) bool {
	if !st.hasFocus {
		return false
	}
	ed, ok := st.reg.Lookup(st.focus)
	if !ok {
		return false
	}
	caret := Caret{AtStart: ed.CaretAtStart(), AtEnd: ed.CaretAtEnd()}
	to, ok := Navigate(st.reg, st.sec, st.focus, dir, caret)
	if !ok {
		return false
	}
	st.focusCell(to)
	st.sel.Collapse(to)
	st.emitSelection()
	return true
}

// extendBy moves the selection extent by one cell from the keyboard.
func (st *state) extendBy(dr, dc int) {
	if len(st.sec.Rows) == 0 {
		return
	}
	if !st.sel.Active() {
		if !st.hasFocus {
			return
		}
		st.sel.Collapse(st.focus)
	}
	ext := st.sel.Extent()
	ext.Row = max(0, min(ext.Row+dr, len(st.sec.Rows)-1))
	ext.Col = max(0, min(ext.Col+dc, st.sec.ColCount-1))
	if ext == st.sel.Extent() {
		return
	}
	st.sel.Move(ext)
	st.emitSelection()
}

func (st *state) updateMenuKey(m Model, msg tea.KeyMsg) {
	km := st.cfg.KeyMap
	switch {
	case key.Matches(msg, km.Escape):
		st.closeMenu()
	case key.Matches(msg, km.Up):
		st.menu.cursor = (st.menu.cursor + len(rowMenuItems) - 1) % len(rowMenuItems)
	case key.Matches(msg, km.Down):
		st.menu.cursor = (st.menu.cursor + 1) % len(rowMenuItems)
	case key.Matches(msg, km.Confirm):
		st.runMenu(m)
	}
}
