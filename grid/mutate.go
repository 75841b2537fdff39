package grid

// AddRow appends an empty main row.
func (s *Section) AddRow() bool {
	if s.ReadOnly {
		return false
	}
	s.Rows = append(s.Rows, NewRow(s.ColCount))
	return true
}

// InsertRowBelow inserts an empty main row after row i, past any sub rows
// that belong to it.
func (s *Section) InsertRowBelow(i int) bool {
	if s.ReadOnly || i < 0 || i >= len(s.Rows) {
		return false
	}
	at := s.groupEnd(i) + 1
	s.insertRow(at, NewRow(s.ColCount))
	return true
}

// AddSubRow inserts a sub row directly below row i. The new row belongs to
// the main row of i's group.
func (s *Section) AddSubRow(i int) bool {
	if s.ReadOnly || i < 0 || i >= len(s.Rows) {
		return false
	}
	parent := s.groupStart(i)
	row := NewRow(s.ColCount)
	row.Kind = SubRow
	row.ParentID = s.Rows[parent].ID
	s.insertRow(i+1, row)
	return true
}

// groupStart returns the main row owning row i.
func (s *Section) groupStart(i int) int {
	for j := i; j >= 0; j-- {
		if s.Rows[j].Kind == MainRow {
			return j
		}
	}
	return i
}

// groupEnd returns the last sub row following row i's main row.
func (s *Section) groupEnd(i int) int {
	end := i
	for end+1 < len(s.Rows) && s.Rows[end+1].Kind == SubRow {
		end++
	}
	return end
}

func (s *Section) insertRow(at int, row Row) {
	s.Rows = append(s.Rows, Row{})
	copy(s.Rows[at+1:], s.Rows[at:])
	s.Rows[at] = row
	for i := range s.Spans {
		sp := &s.Spans[i]
		switch {
		case sp.AnchorRow >= at:
			sp.AnchorRow++
		case sp.AnchorRow+sp.RowSpan > at:
			sp.RowSpan++
		}
	}
}

// AddColumn appends an empty column and resets widths to equal shares. A
// section without rows gets its first row instead.
func (s *Section) AddColumn() bool {
	if s.ReadOnly {
		return false
	}
	if len(s.Rows) == 0 {
		s.Rows = append(s.Rows, NewRow(s.ColCount))
		return true
	}
	s.ColCount++
	for i := range s.Rows {
		s.Rows[i].Columns = append(s.Rows[i].Columns, "")
	}
	s.ColWidths = EqualWidths(s.ColCount)
	return true
}

// DeleteRow removes row i. Spans crossing it shrink; sub rows of a deleted
// main row move to the previous main row, or the first of them is promoted.
func (s *Section) DeleteRow(i int) bool {
	if s.ReadOnly || i < 0 || i >= len(s.Rows) {
		return false
	}
	gone := s.Rows[i]
	s.Rows = append(s.Rows[:i], s.Rows[i+1:]...)

	if gone.Kind == MainRow {
		newParent := ""
		for j := i - 1; j >= 0; j-- {
			if s.Rows[j].Kind == MainRow {
				newParent = s.Rows[j].ID
				break
			}
		}
		for j := i; j < len(s.Rows) && s.Rows[j].ParentID == gone.ID; j++ {
			if newParent == "" {
				s.Rows[j].Kind = MainRow
				s.Rows[j].ParentID = ""
				newParent = s.Rows[j].ID
				continue
			}
			s.Rows[j].ParentID = newParent
		}
	}

	spans := s.Spans[:0]
	for _, sp := range s.Spans {
		switch {
		case sp.AnchorRow > i:
			sp.AnchorRow--
		case sp.AnchorRow+sp.RowSpan > i:
			sp.RowSpan--
		}
		if sp.RowSpan > 0 && (sp.RowSpan > 1 || sp.ColSpan > 1) {
			spans = append(spans, sp)
		}
	}
	s.Spans = spans
	return true
}

// DeleteColumn removes column c. The last column is never removed.
func (s *Section) DeleteColumn(c int) bool {
	if s.ReadOnly || s.ColCount <= 1 || c < 0 || c >= s.ColCount {
		return false
	}
	for i := range s.Rows {
		cols := s.Rows[i].Columns
		if c < len(cols) {
			s.Rows[i].Columns = append(cols[:c], cols[c+1:]...)
		}
	}
	s.ColCount--
	s.ColWidths = EqualWidths(s.ColCount)

	spans := s.Spans[:0]
	for _, sp := range s.Spans {
		switch {
		case sp.AnchorCol > c:
			sp.AnchorCol--
		case sp.AnchorCol+sp.ColSpan > c:
			sp.ColSpan--
		}
		if sp.ColSpan > 0 && (sp.RowSpan > 1 || sp.ColSpan > 1) {
			spans = append(spans, sp)
		}
	}
	s.Spans = spans
	return true
}

func (s *Section) SetRowBorder(i int, style BorderStyle) bool {
	if s.ReadOnly || i < 0 || i >= len(s.Rows) || !style.Valid() || s.Rows[i].Border == style {
		return false
	}
	s.Rows[i].Border = style
	return true
}

func (s *Section) SetRowNumber(i int, number string) bool {
	if s.ReadOnly || i < 0 || i >= len(s.Rows) || s.Rows[i].Number == number {
		return false
	}
	s.Rows[i].Number = number
	return true
}

// SetCell stores markup at a visible cell.
func (s *Section) SetCell(row, col int, markup string) bool {
	if s.ReadOnly || !s.inBounds(row, col) || s.Hidden(row, col) {
		return false
	}
	if s.Rows[row].Columns[col] == markup {
		return false
	}
	s.Rows[row].Columns[col] = markup
	return true
}
