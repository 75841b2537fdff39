package grid

import "sort"

const (
	numberWidth = 6
	actionWidth = 3
	headerLines = 2 // labels + rule
)

// box is the screen area of one visible cell, in grid coordinates.
type box struct {
	x, y int
	w, h int
}

// layout is the geometry of one frame. x is measured from the grid's left
// edge, y from its top edge (header included).
type layout struct {
	width   int
	numW    int
	actW    int
	dataX   int
	content int

	colX []int
	colW []int

	rowY []int // body line of each row's first content line
	rowH []int // content lines per row, border line excluded
	body int

	boxes map[Coord]box
}

// computeLayout sizes the columns, resizes every editor to its cell width
// and grows rows to fit the tallest editor they hold.
func (st *state) computeLayout() layout {
	sec := st.sec
	l := layout{width: st.width}
	if l.width <= 0 {
		l.width = defaultWidth
	}
	if st.cfg.ShowRowNumbers {
		l.numW = numberWidth
		l.dataX = numberWidth + 1
	}
	if !sec.ReadOnly {
		l.actW = actionWidth
	}
	l.content = max(sec.ColCount, l.width-l.dataX-sec.ColCount-l.actW)
	l.colW = splitWidths(sec.ColWidths, sec.ColCount, l.content)
	l.colX = make([]int, sec.ColCount)
	x := l.dataX
	for c := range l.colW {
		l.colX[c] = x
		x += l.colW[c] + 1
	}

	l.boxes = make(map[Coord]box, st.reg.Len())
	heights := make(map[Coord]int, st.reg.Len())
	for _, c := range sec.VisibleCells() {
		_, cols := sec.Extent(c.Row, c.Col)
		w := l.spanWidth(c.Col, cols)
		h := 1
		if ed, ok := st.reg.Lookup(c); ok {
			ed.SetWidth(w)
			h = max(1, ed.Height())
		}
		heights[c] = h
		l.boxes[c] = box{x: l.colX[c.Col], w: w}
	}

	n := len(sec.Rows)
	l.rowH = make([]int, n)
	l.rowY = make([]int, n)
	for r := range l.rowH {
		l.rowH[r] = 1
	}
	for c, h := range heights {
		if rows, _ := sec.Extent(c.Row, c.Col); rows == 1 {
			l.rowH[c.Row] = max(l.rowH[c.Row], h)
		}
	}

	// Multi-row cells take their height from the rows they cover; the
	// last covered row absorbs any shortfall.
	spans := append([]CellSpan(nil), sec.Spans...)
	sort.Slice(spans, func(i, j int) bool {
		return spans[i].AnchorRow+spans[i].RowSpan < spans[j].AnchorRow+spans[j].RowSpan
	})
	l.placeRows(sec)
	for _, sp := range spans {
		if sp.RowSpan < 2 || sp.AnchorRow+sp.RowSpan > n {
			continue
		}
		last := sp.AnchorRow + sp.RowSpan - 1
		have := l.rowY[last] + l.rowH[last] - l.rowY[sp.AnchorRow]
		if need := heights[sp.Anchor()]; need > have {
			l.rowH[last] += need - have
			l.placeRows(sec)
		}
	}

	for c, b := range l.boxes {
		rows, _ := sec.Extent(c.Row, c.Col)
		last := min(c.Row+rows-1, n-1)
		b.y = l.rowY[c.Row]
		b.h = l.rowY[last] + l.rowH[last] - b.y
		l.boxes[c] = b
	}
	return l
}

func (l *layout) placeRows(sec *Section) {
	y := 0
	for r, row := range sec.Rows {
		l.rowY[r] = y
		y += l.rowH[r]
		if row.Border != BorderNone {
			y++
		}
	}
	l.body = y
}

// splitWidths turns percentages into cell widths summing to total. Each
// column gets at least one cell.
func splitWidths(pcts []float64, n, total int) []int {
	pcts = NormalizeWidths(pcts, n)
	out := make([]int, n)
	cum, prev := 0.0, 0
	for i, p := range pcts {
		cum += p
		edge := int(cum*float64(total)/100 + 0.5)
		if i == n-1 {
			edge = total
		}
		out[i] = max(1, edge-prev)
		prev = edge
	}
	return out
}

func (l layout) spanWidth(col, cols int) int {
	w := cols - 1
	for c := col; c < col+cols && c < len(l.colW); c++ {
		w += l.colW[c]
	}
	return w
}

func (l layout) height() int { return headerLines + l.body }

// handleAt returns the column whose right boundary is at x.
func (l layout) handleAt(x int) (int, bool) {
	for c := 0; c+1 < len(l.colX); c++ {
		if x == l.colX[c]+l.colW[c] {
			return c, true
		}
	}
	return 0, false
}

// rowAt maps a body line to its row.
func (l layout) rowAt(y int) (int, bool) {
	if y < 0 || y >= l.body || len(l.rowY) == 0 {
		return 0, false
	}
	r := sort.Search(len(l.rowY), func(i int) bool { return l.rowY[i] > y }) - 1
	return r, r >= 0
}

// colAt maps x to a data column. A separator belongs to the column on its left.
func (l layout) colAt(x int) (int, bool) {
	for c := range l.colX {
		if x >= l.colX[c] && x <= l.colX[c]+l.colW[c] {
			return c, true
		}
	}
	return 0, false
}

func (l layout) actionX() int {
	if len(l.colX) == 0 {
		return l.dataX
	}
	last := len(l.colX) - 1
	return l.colX[last] + l.colW[last] + 1
}

type hitKind uint8

const (
	hitNone hitKind = iota
	hitHeader
	hitHandle
	hitNumber
	hitCell
	hitAction
)

type hit struct {
	kind hitKind
	row  int
	col  int
	cell Coord // anchor of the cell under the pointer
}

func (st *state) hitTest(l layout, x, y int) hit {
	if x < 0 || y < 0 || x >= l.width {
		return hit{}
	}
	if y < headerLines {
		if c, ok := l.handleAt(x); ok {
			return hit{kind: hitHandle, col: c}
		}
		if c, ok := l.colAt(x); ok {
			return hit{kind: hitHeader, col: c}
		}
		return hit{}
	}
	r, ok := l.rowAt(y - headerLines)
	if !ok {
		return hit{}
	}
	switch {
	case x < l.numW:
		return hit{kind: hitNumber, row: r}
	case l.actW > 0 && x >= l.actionX():
		return hit{kind: hitAction, row: r}
	}
	c, ok := l.colAt(x)
	if !ok {
		return hit{}
	}
	return st.cellHit(r, c)
}

func (st *state) cellHit(r, c int) hit {
	anchor := Coord{r, c}
	if sp, ok := st.sec.Covering(r, c); ok {
		anchor = sp.Anchor()
	}
	return hit{kind: hitCell, row: r, col: c, cell: anchor}
}

// nearestCell is hitTest for drags: the pointer is clamped onto the data
// area, so dragging past an edge keeps extending to the edge cell.
func (st *state) nearestCell(l layout, x, y int) (hit, bool) {
	if len(st.sec.Rows) == 0 || len(l.colX) == 0 {
		return hit{}, false
	}
	by := max(0, min(y-headerLines, l.body-1))
	r, ok := l.rowAt(by)
	if !ok {
		return hit{}, false
	}
	last := len(l.colX) - 1
	x = max(l.colX[0], min(x, l.colX[last]+l.colW[last]))
	c, ok := l.colAt(x)
	if !ok {
		return hit{}, false
	}
	return st.cellHit(r, c), true
}
