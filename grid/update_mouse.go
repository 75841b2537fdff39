package grid

import tea "github.com/charmbracelet/bubbletea"

// updateMouse handles mouse input in grid coordinates: (0,0) is the first
// cell of the header line. While a drag is in progress the pointer may be
// anywhere, including outside the grid.
func (m Model) updateMouse(msg tea.MouseMsg) tea.Cmd {
	st := m.st
	l := st.computeLayout()

	switch st.pointer {
	case pointerSelecting:
		return st.dragSelect(l, msg)
	case pointerResizing:
		st.dragResize(msg)
		return nil
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}

	if st.menu != nil {
		if i, ok := st.menu.itemAt(msg.X, msg.Y, st.cfg.Style.Menu); ok {
			st.menu.cursor = i
			st.runMenu(m)
		} else if !st.menu.contains(msg.X, msg.Y) {
			st.closeMenu()
		}
		return nil
	}

	h := st.hitTest(l, msg.X, msg.Y)
	if h.kind == hitNone {
		return nil
	}
	st.markActive()

	switch h.kind {
	case hitHandle:
		if st.editable() && st.rsz.Begin(h.col, msg.X, l.content, st.sec.ColWidths) {
			st.pointer = pointerResizing
			st.resized = false
		}

	case hitCell:
		st.pointer = pointerSelecting
		st.sel.Begin(h.cell.Row, h.cell.Col)
		st.focusCell(h.cell)
		st.emitSelection()
		return st.forwardMouse(l, h.cell, msg)

	case hitNumber:
		if st.sec.ColCount == 0 {
			return nil
		}
		first := Coord{Row: h.row}
		if sp, ok := st.sec.Covering(first.Row, first.Col); ok {
			first = sp.Anchor()
		}
		st.focusCell(first)
		st.sel.Collapse(Coord{Row: h.row})
		st.sel.Move(Coord{Row: h.row, Col: st.sec.ColCount - 1})
		st.emitSelection()

	case hitHeader:
		if len(st.sec.Rows) == 0 {
			return nil
		}
		first := Coord{Col: h.col}
		if sp, ok := st.sec.Covering(first.Row, first.Col); ok {
			first = sp.Anchor()
		}
		st.focusCell(first)
		st.sel.Collapse(Coord{Col: h.col})
		st.sel.Move(Coord{Row: len(st.sec.Rows) - 1, Col: h.col})
		st.emitSelection()

	case hitAction:
		m.OpenRowMenu(h.row)
	}
	return nil
}

func (st *state) dragSelect(l layout, msg tea.MouseMsg) tea.Cmd {
	switch msg.Action { //nolint:exhaustive
	case tea.MouseActionMotion:
		h, ok := st.nearestCell(l, msg.X, msg.Y)
		if !ok {
			return nil
		}
		if st.sel.Extend(h.cell.Row, h.cell.Col) {
			st.emitSelection()
		}
		if h.cell == st.sel.Anchor() && st.hasFocus {
			return st.forwardMouse(l, st.focus, msg)
		}
	case tea.MouseActionRelease:
		st.pointer = pointerIdle
		st.sel.End()
		st.emitSelection()
		if st.hasFocus {
			return st.forwardMouse(l, st.focus, msg)
		}
	}
	return nil
}

func (st *state) dragResize(msg tea.MouseMsg) {
	switch msg.Action { //nolint:exhaustive
	case tea.MouseActionMotion:
		if st.rsz.Move(msg.X, st.sec.ColWidths) {
			st.resized = true
		}
	case tea.MouseActionRelease:
		col := st.rsz.Column()
		st.rsz.End()
		st.pointer = pointerIdle
		if st.resized {
			st.resized = false
			st.log.Debug("column resized", "col", col, "widths", st.sec.ColWidthStrings())
			st.scheduleFlush()
		}
	}
}

// forwardMouse passes msg to the editor at c in its own coordinates.
func (st *state) forwardMouse(l layout, c Coord, msg tea.MouseMsg) tea.Cmd {
	ed, ok := st.reg.Lookup(c)
	if !ok {
		return nil
	}
	b := l.boxes[c]
	local := msg
	local.X = max(0, min(msg.X-b.x, b.w-1))
	local.Y = max(0, msg.Y-headerLines-b.y)
	return ed.Update(local)
}
