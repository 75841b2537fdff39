package grid

import "fmt"

// Range is an inclusive, normalized rectangle of cells.
type Range struct {
	Top    int
	Left   int
	Bottom int
	Right  int
}

// RangeOf returns the rectangle with corners a and b in either order.
func RangeOf(a, b Coord) Range {
	return Range{
		Top:    min(a.Row, b.Row),
		Left:   min(a.Col, b.Col),
		Bottom: max(a.Row, b.Row),
		Right:  max(a.Col, b.Col),
	}
}

func (r Range) Normalize() Range {
	return RangeOf(Coord{r.Top, r.Left}, Coord{r.Bottom, r.Right})
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d:%d-%d", r.Top, r.Left, r.Bottom, r.Right)
}

func (r Range) Contains(row, col int) bool {
	return row >= r.Top && row <= r.Bottom && col >= r.Left && col <= r.Right
}

func (r Range) Single() bool { return r.Top == r.Bottom && r.Left == r.Right }

func (r Range) Rows() int { return r.Bottom - r.Top + 1 }

func (r Range) Cols() int { return r.Right - r.Left + 1 }

func (r Range) Intersects(o Range) bool {
	return r.Left <= o.Right && o.Left <= r.Right && r.Top <= o.Bottom && o.Top <= r.Bottom
}

// Encloses reports whether o lies entirely inside r.
func (r Range) Encloses(o Range) bool {
	return o.Top >= r.Top && o.Bottom <= r.Bottom && o.Left >= r.Left && o.Right <= r.Right
}

func (r Range) Union(o Range) Range {
	return Range{
		Top:    min(r.Top, o.Top),
		Left:   min(r.Left, o.Left),
		Bottom: max(r.Bottom, o.Bottom),
		Right:  max(r.Right, o.Right),
	}
}

// Clamp limits r to a rows×cols grid.
func (r Range) Clamp(rows, cols int) Range {
	clamp := func(v, hi int) int { return max(0, min(v, hi-1)) }
	return Range{
		Top:    clamp(r.Top, rows),
		Left:   clamp(r.Left, cols),
		Bottom: clamp(r.Bottom, rows),
		Right:  clamp(r.Right, cols),
	}
}

// Cells lists every slot of r in row-major order.
func (r Range) Cells() []Coord {
	out := make([]Coord, 0, r.Rows()*r.Cols())
	for row := r.Top; row <= r.Bottom; row++ {
		for col := r.Left; col <= r.Right; col++ {
			out = append(out, Coord{Row: row, Col: col})
		}
	}
	return out
}

// Selection is the anchor/extent pair of a cell range drag.
// The zero value has no selection.
type Selection struct {
	anchor    Coord
	extent    Coord
	set       bool
	selecting bool
}

// Begin starts a drag at (row, col).
func (s *Selection) Begin(row, col int) {
	s.anchor = Coord{row, col}
	s.extent = s.anchor
	s.set = true
	s.selecting = true
}

// Extend moves the extent while a drag is in progress. It reports whether
// the extent changed.
func (s *Selection) Extend(row, col int) bool {
	if !s.selecting {
		return false
	}
	c := Coord{row, col}
	if c == s.extent {
		return false
	}
	s.extent = c
	return true
}

// End stops the drag and keeps the range. It reports whether a drag was in
// progress.
func (s *Selection) End() bool {
	was := s.selecting
	s.selecting = false
	return was
}

// Collapse replaces the selection with the single cell c.
func (s *Selection) Collapse(c Coord) {
	s.anchor = c
	s.extent = c
	s.set = true
	s.selecting = false
}

// Move sets the extent without a drag, keeping the anchor.
func (s *Selection) Move(c Coord) {
	if !s.set {
		s.anchor = c
		s.set = true
	}
	s.extent = c
}

func (s *Selection) Clear() { *s = Selection{} }

func (s *Selection) Selecting() bool { return s.selecting }

func (s *Selection) Active() bool { return s.set }

func (s *Selection) Anchor() Coord { return s.anchor }

func (s *Selection) Extent() Coord { return s.extent }

// Range returns the normalized rectangle, if any.
func (s *Selection) Range() (Range, bool) {
	if !s.set {
		return Range{}, false
	}
	return RangeOf(s.anchor, s.extent), true
}

func (s *Selection) InRange(row, col int) bool {
	rg, ok := s.Range()
	return ok && rg.Contains(row, col)
}

// DeleteRow shifts the selection after row i was removed from a section
// that now has rows rows.
func (s *Selection) DeleteRow(i, rows int) {
	if !s.set {
		return
	}
	if rows == 0 {
		s.Clear()
		return
	}
	shift := func(c *Coord) {
		if c.Row > i {
			c.Row--
		}
		c.Row = min(c.Row, rows-1)
	}
	shift(&s.anchor)
	shift(&s.extent)
}

// DeleteColumn is DeleteRow for columns.
func (s *Selection) DeleteColumn(i, cols int) {
	if !s.set {
		return
	}
	if cols == 0 {
		s.Clear()
		return
	}
	shift := func(c *Coord) {
		if c.Col > i {
			c.Col--
		}
		c.Col = min(c.Col, cols-1)
	}
	shift(&s.anchor)
	shift(&s.extent)
}

// InsertRow shifts the selection after a row was inserted at i.
func (s *Selection) InsertRow(i int) {
	if !s.set {
		return
	}
	if s.anchor.Row >= i {
		s.anchor.Row++
	}
	if s.extent.Row >= i {
		s.extent.Row++
	}
}
