package document

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/mumtazka/skpgrid/grid"
)

// MaxColumns bounds the column count a section may declare.
const MaxColumns = 256

// Report lists the repairs made while loading section data.
type Report struct {
	// LegacyGrouping is set when no row carried isSubRow and rows were
	// grouped by position: even rows main, odd rows sub. The guess is not
	// guaranteed to match how the rows were grouped originally.
	LegacyGrouping bool

	// LegacySpans is set when per-row colSpans/rowSpans were converted.
	LegacySpans bool

	IDsAssigned  int
	RowsResized  int // rows padded or cut to the column count
	ParentsFixed int
	SpansDropped int // spans out of bounds or overlapping an earlier one
	WidthsReset  bool

	// ColCountFixed is set when the declared colCount was above MaxColumns
	// and the widest row was used instead.
	ColCountFixed bool
}

// Changed reports whether anything was repaired.
func (r Report) Changed() bool { return r != Report{} }

func (r *Report) add(o Report) {
	r.LegacyGrouping = r.LegacyGrouping || o.LegacyGrouping
	r.LegacySpans = r.LegacySpans || o.LegacySpans
	r.IDsAssigned += o.IDsAssigned
	r.RowsResized += o.RowsResized
	r.ParentsFixed += o.ParentsFixed
	r.SpansDropped += o.SpansDropped
	r.WidthsReset = r.WidthsReset || o.WidthsReset
	r.ColCountFixed = r.ColCountFixed || o.ColCountFixed
}

// DecodeSection decodes one section. It accepts the current shape, the
// legacy per-row span arrays and a bare array of rows.
func DecodeSection(data []byte) (*grid.Section, Report, error) {
	if !gjson.ValidBytes(data) {
		return nil, Report{}, fmt.Errorf("%w: not valid JSON", ErrMalformed)
	}
	return decodeSection(gjson.ParseBytes(data))
}

func decodeSection(v gjson.Result) (*grid.Section, Report, error) {
	var rep Report
	rowsV := v.Get("rows")
	switch {
	case v.IsArray():
		rowsV = v
	case !v.IsObject():
		return nil, rep, fmt.Errorf("%w: section is %s", ErrMalformed, v.Type)
	}
	rows := rowsV.Array()

	widest := 1
	for _, rv := range rows {
		widest = max(widest, len(rv.Get("columns").Array()))
	}
	if widest > MaxColumns {
		return nil, rep, fmt.Errorf("%w: row with %d columns", ErrMalformed, widest)
	}
	declared := v.Get("colCount").Int()
	colCount := int(declared)
	switch {
	case declared < 1:
		colCount = widest
	case declared > MaxColumns:
		colCount = widest
		rep.ColCountFixed = true
	}

	legacy := len(rows) > 0
	for _, rv := range rows {
		if rv.Get("isSubRow").Exists() {
			legacy = false
			break
		}
	}

	sec := &grid.Section{ColCount: colCount, Rows: make([]grid.Row, 0, len(rows))}
	seen := make(map[string]bool, len(rows))
	lastMain := ""
	for i, rv := range rows {
		row := decodeRow(rv, colCount, &rep)
		if row.ID == "" || seen[row.ID] {
			row.ID = uuid.NewString()
			rep.IDsAssigned++
		}
		seen[row.ID] = true

		switch {
		case legacy:
			if i%2 == 1 && lastMain != "" {
				row.Kind = grid.SubRow
				row.ParentID = lastMain
				rep.LegacyGrouping = true
			}
		case rv.Get("isSubRow").Bool():
			row.Kind = grid.SubRow
			row.ParentID = rv.Get("parentId").String()
			if row.ParentID != lastMain {
				row.ParentID = lastMain
				rep.ParentsFixed++
			}
			if row.ParentID == "" {
				row.Kind = grid.MainRow
			}
		}
		if row.Kind == grid.MainRow {
			lastMain = row.ID
		}
		sec.Rows = append(sec.Rows, row)
	}

	sec.ColWidths = decodeWidths(v.Get("colWidths"), colCount, &rep)

	for _, m := range v.Get("merges").Array() {
		addSpan(sec, grid.CellSpan{
			AnchorRow: int(m.Get("row").Int()),
			AnchorCol: int(m.Get("col").Int()),
			RowSpan:   int(m.Get("rowSpan").Int()),
			ColSpan:   int(m.Get("colSpan").Int()),
		}, &rep)
	}
	for r, rv := range rows {
		cs, rs := rv.Get("colSpans"), rv.Get("rowSpans")
		if !cs.Exists() && !rs.Exists() && !rv.Get("colHiddens").Exists() {
			continue
		}
		rep.LegacySpans = true
		for c := 0; c < colCount; c++ {
			sp := grid.CellSpan{
				AnchorRow: r,
				AnchorCol: c,
				RowSpan:   spanAt(rs, c),
				ColSpan:   spanAt(cs, c),
			}
			if sp.RowSpan > 1 || sp.ColSpan > 1 {
				addSpan(sec, sp, &rep)
			}
		}
	}

	if err := sec.Validate(); err != nil {
		return nil, rep, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return sec, rep, nil
}

func decodeRow(rv gjson.Result, colCount int, rep *Report) grid.Row {
	row := grid.Row{
		ID:      rv.Get("id").String(),
		Number:  rv.Get("number").String(),
		Columns: make([]string, colCount),
	}
	cols := rv.Get("columns").Array()
	if len(cols) != colCount {
		rep.RowsResized++
	}
	for i := 0; i < colCount && i < len(cols); i++ {
		row.Columns[i] = cols[i].String()
	}
	if b, ok := grid.ParseBorderStyle(rv.Get("borderStyle").String()); ok {
		row.Border = b
	}
	return row
}

// spanAt reads entry c of a legacy span array; anything missing or below
// one counts as 1.
func spanAt(arr gjson.Result, c int) int {
	vals := arr.Array()
	if c >= len(vals) {
		return 1
	}
	return max(1, int(vals[c].Int()))
}

func decodeWidths(v gjson.Result, n int, rep *Report) []float64 {
	vals := v.Array()
	ws := make([]float64, 0, len(vals))
	for _, w := range vals {
		f, ok := grid.ParseWidth(w.String())
		if !ok {
			break
		}
		ws = append(ws, f)
	}
	if len(ws) != n {
		rep.WidthsReset = true
		return grid.EqualWidths(n)
	}
	return grid.NormalizeWidths(ws, n)
}

// addSpan clamps sp into the section and keeps it unless it is 1×1 or
// overlaps a span kept earlier.
func addSpan(sec *grid.Section, sp grid.CellSpan, rep *Report) {
	rows := len(sec.Rows)
	if sp.AnchorRow < 0 || sp.AnchorRow >= rows || sp.AnchorCol < 0 || sp.AnchorCol >= sec.ColCount {
		rep.SpansDropped++
		return
	}
	sp.RowSpan = max(1, min(sp.RowSpan, rows-sp.AnchorRow))
	sp.ColSpan = max(1, min(sp.ColSpan, sec.ColCount-sp.AnchorCol))
	if sp.RowSpan == 1 && sp.ColSpan == 1 {
		rep.SpansDropped++
		return
	}
	for _, o := range sec.Spans {
		if o.Range().Intersects(sp.Range()) {
			rep.SpansDropped++
			return
		}
	}
	sec.Spans = append(sec.Spans, sp)
}
