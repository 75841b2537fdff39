package grid

// Direction is an arrow key direction.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "direction(?)"
}

// Caret describes where the caret sits in the focused cell's text.
type Caret struct {
	AtStart bool
	AtEnd   bool
}

// Navigate returns the cell focus should move to when dir is pressed in the
// cell at from. Up and Down always try the neighbouring row; Left and Right
// only when the caret is at the matching end of the text. The step starts
// from the edge of a merged cell, so a two-column span moves right by two.
// ok is false when the target has no registered editor, which leaves the
// key to the editor.
func Navigate(reg *Registry, sec *Section, from Coord, dir Direction, caret Caret) (Coord, bool) {
	rows, cols := 1, 1
	if sec != nil {
		rows, cols = sec.Extent(from.Row, from.Col)
	}
	to := from
	switch dir {
	case Up:
		to.Row--
	case Down:
		to.Row += rows
	case Left:
		if !caret.AtStart {
			return from, false
		}
		to.Col--
	case Right:
		if !caret.AtEnd {
			return from, false
		}
		to.Col += cols
	default:
		return from, false
	}
	if _, ok := reg.Lookup(to); !ok {
		return from, false
	}
	return to, true
}
