package grid

import "sort"

// Registry maps cell coordinates to live editors. Every handle it drops is
// destroyed, so it never holds a destroyed editor.
type Registry struct {
	byCoord  map[Coord]Editor
	byEditor map[Editor]Coord
}

func NewRegistry() *Registry {
	return &Registry{
		byCoord:  make(map[Coord]Editor),
		byEditor: make(map[Editor]Coord),
	}
}

// Register stores ed at c. A different handle already at c is destroyed;
// if ed was registered elsewhere it moves.
func (r *Registry) Register(c Coord, ed Editor) {
	if ed == nil {
		return
	}
	if old, ok := r.byCoord[c]; ok && old != ed {
		delete(r.byEditor, old)
		old.Destroy()
	}
	if prev, ok := r.byEditor[ed]; ok && prev != c {
		delete(r.byCoord, prev)
	}
	r.byCoord[c] = ed
	r.byEditor[ed] = c
}

// Unregister removes and destroys the editor at c.
func (r *Registry) Unregister(c Coord) bool {
	ed, ok := r.byCoord[c]
	if !ok {
		return false
	}
	delete(r.byCoord, c)
	delete(r.byEditor, ed)
	ed.Destroy()
	return true
}

func (r *Registry) Lookup(c Coord) (Editor, bool) {
	ed, ok := r.byCoord[c]
	return ed, ok
}

// CoordOf returns where ed is currently registered.
func (r *Registry) CoordOf(ed Editor) (Coord, bool) {
	c, ok := r.byEditor[ed]
	return c, ok
}

func (r *Registry) Len() int { return len(r.byCoord) }

// Coords returns the registered coordinates in row-major order.
func (r *Registry) Coords() []Coord {
	out := make([]Coord, 0, len(r.byCoord))
	for c := range r.byCoord {
		out = append(out, c)
	}
	sortCoords(out)
	return out
}

// InRange returns the editors inside rg in row-major order.
func (r *Registry) InRange(rg Range) []Editor {
	var coords []Coord
	for c := range r.byCoord {
		if rg.Contains(c.Row, c.Col) {
			coords = append(coords, c)
		}
	}
	sortCoords(coords)
	out := make([]Editor, len(coords))
	for i, c := range coords {
		out[i] = r.byCoord[c]
	}
	return out
}

// Remap moves every entry to fn(coord). Entries for which fn reports false
// are destroyed, as is the loser when two entries land on one coordinate.
func (r *Registry) Remap(fn func(Coord) (Coord, bool)) {
	old := r.Coords()
	moved := make(map[Coord]Editor, len(old))
	for _, c := range old {
		ed := r.byCoord[c]
		to, keep := fn(c)
		if !keep {
			ed.Destroy()
			continue
		}
		if prev, taken := moved[to]; taken {
			prev.Destroy()
		}
		moved[to] = ed
	}
	r.byCoord = moved
	r.byEditor = make(map[Editor]Coord, len(moved))
	for c, ed := range moved {
		r.byEditor[ed] = c
	}
}

// Clear destroys every editor.
func (r *Registry) Clear() {
	for _, ed := range r.byCoord {
		ed.Destroy()
	}
	r.byCoord = make(map[Coord]Editor)
	r.byEditor = make(map[Editor]Coord)
}

func sortCoords(cs []Coord) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Row != cs[j].Row {
			return cs[i].Row < cs[j].Row
		}
		return cs[i].Col < cs[j].Col
	})
}
