package grid

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidSection is wrapped by every Validate failure.
var ErrInvalidSection = errors.New("invalid section")

// Coord addresses one cell slot.
type Coord struct {
	Row int
	Col int
}

// Key returns the "r-c" form used by hosts that key state by cell.
func (c Coord) Key() string { return strconv.Itoa(c.Row) + "-" + strconv.Itoa(c.Col) }

func (c Coord) String() string { return c.Key() }

// ParseKey parses the "r-c" form produced by Key.
func ParseKey(key string) (Coord, bool) {
	r, c, ok := strings.Cut(key, "-")
	if !ok {
		return Coord{}, false
	}
	row, err := strconv.Atoi(r)
	if err != nil || row < 0 {
		return Coord{}, false
	}
	col, err := strconv.Atoi(c)
	if err != nil || col < 0 {
		return Coord{}, false
	}
	return Coord{Row: row, Col: col}, true
}

// BorderStyle is the bottom boundary drawn under a row.
type BorderStyle uint8

const (
	BorderNone BorderStyle = iota
	BorderThin
	BorderBold
)

var borderNames = [...]string{"none", "thin", "bold"}

func (b BorderStyle) String() string {
	if int(b) < len(borderNames) {
		return borderNames[b]
	}
	return "border(" + strconv.Itoa(int(b)) + ")"
}

func (b BorderStyle) Valid() bool { return b <= BorderBold }

// Next cycles none → thin → bold → none.
func (b BorderStyle) Next() BorderStyle { return (b + 1) % 3 }

func ParseBorderStyle(s string) (BorderStyle, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range borderNames {
		if n == s {
			return BorderStyle(i), true
		}
	}
	return BorderNone, false
}

func (b BorderStyle) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("border style %d: %w", b, ErrInvalidSection)
	}
	return []byte(b.String()), nil
}

func (b *BorderStyle) UnmarshalText(text []byte) error {
	v, ok := ParseBorderStyle(string(text))
	if !ok {
		return fmt.Errorf("border style %q: %w", text, ErrInvalidSection)
	}
	*b = v
	return nil
}

// RowKind tags a row as a main entry or as a continuation of the main row
// above it.
type RowKind uint8

const (
	MainRow RowKind = iota
	SubRow
)

func (k RowKind) String() string {
	if k == SubRow {
		return "sub"
	}
	return "main"
}

// Row is one logical entry of a section.
type Row struct {
	ID       string
	Columns  []string // marked-up text, one per column
	Border   BorderStyle
	Number   string // free-form label, never computed
	Kind     RowKind
	ParentID string // main row of a SubRow
}

// NewRow returns a main row with a fresh identity and colCount empty cells.
func NewRow(colCount int) Row {
	return Row{
		ID:      uuid.NewString(),
		Columns: make([]string, colCount),
	}
}

func (r Row) Clone() Row {
	r.Columns = append([]string(nil), r.Columns...)
	return r
}

// CellSpan is one merged region: the anchor cell covers RowSpan rows and
// ColSpan columns; every other slot in the region is hidden.
type CellSpan struct {
	AnchorRow int
	AnchorCol int
	RowSpan   int
	ColSpan   int
}

func (s CellSpan) Range() Range {
	return Range{
		Top:    s.AnchorRow,
		Left:   s.AnchorCol,
		Bottom: s.AnchorRow + s.RowSpan - 1,
		Right:  s.AnchorCol + s.ColSpan - 1,
	}
}

func (s CellSpan) Anchor() Coord { return Coord{Row: s.AnchorRow, Col: s.AnchorCol} }

func (s CellSpan) Covers(row, col int) bool { return s.Range().Contains(row, col) }

// Section is one independently editable table.
type Section struct {
	Rows      []Row
	ColCount  int
	ColWidths []float64 // percentages, len == ColCount, sum == 100
	Spans     []CellSpan
	ReadOnly  bool
}

// NewSection returns an empty section with colCount (at least 1) equal
// columns.
func NewSection(colCount int) *Section {
	if colCount < 1 {
		colCount = 1
	}
	return &Section{
		ColCount:  colCount,
		ColWidths: EqualWidths(colCount),
	}
}

func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}
	out := &Section{
		Rows:      make([]Row, len(s.Rows)),
		ColCount:  s.ColCount,
		ColWidths: append([]float64(nil), s.ColWidths...),
		Spans:     append([]CellSpan(nil), s.Spans...),
		ReadOnly:  s.ReadOnly,
	}
	for i, r := range s.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

func (s *Section) RowCount() int { return len(s.Rows) }

func (s *Section) inBounds(row, col int) bool {
	return row >= 0 && row < len(s.Rows) && col >= 0 && col < s.ColCount
}

// Cell returns the markup stored at (row, col).
func (s *Section) Cell(row, col int) (string, bool) {
	if !s.inBounds(row, col) || col >= len(s.Rows[row].Columns) {
		return "", false
	}
	return s.Rows[row].Columns[col], true
}

// RowIndex returns the position of the row with the given id.
func (s *Section) RowIndex(id string) int {
	for i, r := range s.Rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// SpanAt returns the span anchored exactly at (row, col).
func (s *Section) SpanAt(row, col int) (CellSpan, bool) {
	for _, sp := range s.Spans {
		if sp.AnchorRow == row && sp.AnchorCol == col {
			return sp, true
		}
	}
	return CellSpan{}, false
}

// Covering returns the span that covers (row, col), anchor included.
func (s *Section) Covering(row, col int) (CellSpan, bool) {
	for _, sp := range s.Spans {
		if sp.Covers(row, col) {
			return sp, true
		}
	}
	return CellSpan{}, false
}

// Hidden reports whether (row, col) is covered by a merge it does not anchor.
func (s *Section) Hidden(row, col int) bool {
	sp, ok := s.Covering(row, col)
	return ok && (sp.AnchorRow != row || sp.AnchorCol != col)
}

// Extent returns the rows and columns occupied by the cell at (row, col):
// the span size for an anchor, 1×1 otherwise.
func (s *Section) Extent(row, col int) (rows, cols int) {
	if sp, ok := s.SpanAt(row, col); ok {
		return sp.RowSpan, sp.ColSpan
	}
	return 1, 1
}

// VisibleCells lists every rendered (non-hidden) slot in row-major order.
func (s *Section) VisibleCells() []Coord {
	out := make([]Coord, 0, len(s.Rows)*s.ColCount)
	for r := range s.Rows {
		for c := 0; c < s.ColCount; c++ {
			if !s.Hidden(r, c) {
				out = append(out, Coord{Row: r, Col: c})
			}
		}
	}
	return out
}

// ColWidthStrings formats ColWidths as "33.33%" values.
func (s *Section) ColWidthStrings() []string {
	out := make([]string, len(s.ColWidths))
	for i, w := range s.ColWidths {
		out[i] = FormatWidth(w)
	}
	return out
}

// Validate checks every structural invariant and reports all violations.
func (s *Section) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidSection}, args...)...))
	}

	if s.ColCount < 1 {
		bad("column count %d", s.ColCount)
	}
	if len(s.ColWidths) != s.ColCount {
		bad("%d widths for %d columns", len(s.ColWidths), s.ColCount)
	}
	sum := 0.0
	for _, w := range s.ColWidths {
		sum += w
	}
	if len(s.ColWidths) > 0 && math.Abs(sum-100) > widthTolerance {
		bad("widths sum to %.4f", sum)
	}

	ids := make(map[string]int, len(s.Rows))
	for i, r := range s.Rows {
		if len(r.Columns) != s.ColCount {
			bad("row %d has %d columns, want %d", i, len(r.Columns), s.ColCount)
		}
		if !r.Border.Valid() {
			bad("row %d border %d", i, r.Border)
		}
		if r.ID == "" {
			bad("row %d has no id", i)
		} else if j, dup := ids[r.ID]; dup {
			bad("rows %d and %d share id %s", j, i, r.ID)
		}
		ids[r.ID] = i
		if r.Kind == SubRow {
			p, ok := ids[r.ParentID]
			if !ok || s.Rows[p].Kind != MainRow {
				bad("sub row %d has no preceding main row %q", i, r.ParentID)
			}
		}
	}

	for i, sp := range s.Spans {
		if sp.RowSpan < 1 || sp.ColSpan < 1 || (sp.RowSpan == 1 && sp.ColSpan == 1) {
			bad("span %d has size %dx%d", i, sp.RowSpan, sp.ColSpan)
		}
		rg := sp.Range()
		if !s.inBounds(rg.Top, rg.Left) || !s.inBounds(rg.Bottom, rg.Right) {
			bad("span %d %v out of bounds", i, rg)
		}
		for j := i + 1; j < len(s.Spans); j++ {
			if rg.Intersects(s.Spans[j].Range()) {
				bad("spans %d and %d overlap", i, j)
			}
		}
	}
	return errors.Join(errs...)
}
