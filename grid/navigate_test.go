package grid

import "testing"

func registryFor(s *Section) *Registry {
	reg := NewRegistry()
	for _, c := range s.VisibleCells() {
		reg.Register(c, &fakeEditor{})
	}
	return reg
}

func TestNavigate(t *testing.T) {
	s := sectionOf(3, 3)
	reg := registryFor(s)
	mid := Coord{1, 1}
	anywhere := Caret{}
	atStart := Caret{AtStart: true}
	atEnd := Caret{AtEnd: true}

	cases := []struct {
		name  string
		from  Coord
		dir   Direction
		caret Caret
		want  Coord
		ok    bool
	}{
		{"up ignores caret", mid, Up, anywhere, Coord{0, 1}, true},
		{"down ignores caret", mid, Down, anywhere, Coord{2, 1}, true},
		{"left needs caret at start", mid, Left, anywhere, mid, false},
		{"left at start", mid, Left, atStart, Coord{1, 0}, true},
		{"right needs caret at end", mid, Right, atStart, mid, false},
		{"right at end", mid, Right, atEnd, Coord{1, 2}, true},
		{"top edge", Coord{0, 0}, Up, anywhere, Coord{0, 0}, false},
		{"bottom edge", Coord{2, 2}, Down, anywhere, Coord{2, 2}, false},
		{"left edge", Coord{0, 0}, Left, atStart, Coord{0, 0}, false},
		{"right edge", Coord{0, 2}, Right, atEnd, Coord{0, 2}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Navigate(reg, s, tc.from, tc.dir, tc.caret)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("got %v %v, want %v %v", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestNavigateAroundMergedCells(t *testing.T) {
	s := sectionOf(3, 3)
	s.Merge(Range{0, 0, 1, 1})
	reg := registryFor(s)

	// Stepping out of a span starts at its far edge.
	if got, ok := Navigate(reg, s, Coord{0, 0}, Right, Caret{AtEnd: true}); !ok || got != (Coord{0, 2}) {
		t.Fatalf("right from span: got %v %v", got, ok)
	}
	if got, ok := Navigate(reg, s, Coord{0, 0}, Down, Caret{}); !ok || got != (Coord{2, 0}) {
		t.Fatalf("down from span: got %v %v", got, ok)
	}
	// Hidden cells have no editor, so the key stays with the text editor.
	if _, ok := Navigate(reg, s, Coord{2, 1}, Up, Caret{}); ok {
		t.Fatalf("moved into a hidden cell")
	}
	if _, ok := Navigate(reg, s, Coord{1, 2}, Left, Caret{AtStart: true}); ok {
		t.Fatalf("moved into a hidden cell")
	}
}
