package grid

// Resizer tracks one column-boundary drag. Dragging the boundary between
// columns i and i+1 moves width from one to the other, so the sum is kept.
type Resizer struct {
	active       bool
	col          int
	startX       int
	contentWidth int
	startLeft    float64
	startRight   float64
}

// Begin starts dragging the boundary on the right of col at pointer x.
// contentWidth is the cell width available to data columns.
func (z *Resizer) Begin(col, x, contentWidth int, widths []float64) bool {
	if col < 0 || col+1 >= len(widths) || contentWidth <= 0 {
		return false
	}
	*z = Resizer{
		active:       true,
		col:          col,
		startX:       x,
		contentWidth: contentWidth,
		startLeft:    widths[col],
		startRight:   widths[col+1],
	}
	return true
}

// Move applies the drag at pointer x to widths in place and reports whether
// a width changed. Both columns keep at least MinColWidth percent.
func (z *Resizer) Move(x int, widths []float64) bool {
	if !z.active || z.col+1 >= len(widths) {
		return false
	}
	delta := float64(x-z.startX) / float64(z.contentWidth) * 100
	lo := min(0, MinColWidth-z.startLeft)
	hi := max(0, z.startRight-MinColWidth)
	delta = max(lo, min(delta, hi))

	left, right := z.startLeft+delta, z.startRight-delta
	if widths[z.col] == left && widths[z.col+1] == right {
		return false
	}
	widths[z.col] = left
	widths[z.col+1] = right
	return true
}

// End finishes the drag. Nothing about it is kept.
func (z *Resizer) End() bool {
	was := z.active
	*z = Resizer{}
	return was
}

func (z *Resizer) Active() bool { return z.active }

// Column returns the column left of the boundary being dragged.
func (z *Resizer) Column() int { return z.col }
