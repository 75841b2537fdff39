package grid

import "strings"

// Merge joins the cells of rg into one span anchored at its top-left slot.
// Spans overlapping the region are absorbed into it. The markup of every
// non-empty covered cell is appended to the anchor, one line each.
// A range reaching outside the section is a no-op.
func (s *Section) Merge(rg Range) bool {
	if s.ReadOnly || len(s.Rows) == 0 {
		return false
	}
	rg = rg.Normalize()
	if rg.Top < 0 || rg.Left < 0 || rg.Bottom >= len(s.Rows) || rg.Right >= s.ColCount {
		return false
	}
	if rg.Single() {
		return false
	}

	// Grow until no span straddles the boundary.
	for grown := true; grown; {
		grown = false
		for _, sp := range s.Spans {
			sr := sp.Range()
			if rg.Intersects(sr) && !rg.Encloses(sr) {
				rg = rg.Union(sr)
				grown = true
			}
		}
	}
	if sp, ok := s.SpanAt(rg.Top, rg.Left); ok && sp.Range() == rg {
		return false
	}

	var parts []string
	for r := rg.Top; r <= rg.Bottom; r++ {
		for c := rg.Left; c <= rg.Right; c++ {
			if v := s.Rows[r].Columns[c]; !s.Hidden(r, c) && strings.TrimSpace(v) != "" {
				parts = append(parts, v)
			}
			s.Rows[r].Columns[c] = ""
		}
	}
	s.Rows[rg.Top].Columns[rg.Left] = strings.Join(parts, "<br>")

	spans := s.Spans[:0]
	for _, sp := range s.Spans {
		if !rg.Intersects(sp.Range()) {
			spans = append(spans, sp)
		}
	}
	s.Spans = append(spans, CellSpan{
		AnchorRow: rg.Top,
		AnchorCol: rg.Left,
		RowSpan:   rg.Bottom - rg.Top + 1,
		ColSpan:   rg.Right - rg.Left + 1,
	})
	return true
}

// Unmerge splits the span covering (row, col). The anchor keeps its markup;
// the uncovered slots come back empty.
func (s *Section) Unmerge(row, col int) bool {
	if s.ReadOnly {
		return false
	}
	for i, sp := range s.Spans {
		if sp.Covers(row, col) {
			s.Spans = append(s.Spans[:i], s.Spans[i+1:]...)
			return true
		}
	}
	return false
}
