package document

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mumtazka/skpgrid/grid"
)

func mustDecode(t *testing.T, in string) (*grid.Section, Report) {
	t.Helper()
	sec, rep, err := DecodeSection([]byte(in))
	if err != nil {
		t.Fatalf("DecodeSection: %v", err)
	}
	if err := sec.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return sec, rep
}

func TestLegacyAlternatingRows(t *testing.T) {
	sec, rep := mustDecode(t, `{
		"colWidths": ["50%", "50%"],
		"rows": [
			{"columns": ["a", "b"]},
			{"columns": ["c"]},
			{"columns": ["d", "e", "f"]}
		]
	}`)

	if sec.ColCount != 3 {
		t.Fatalf("ColCount: got %d, want 3", sec.ColCount)
	}
	kinds := []grid.RowKind{sec.Rows[0].Kind, sec.Rows[1].Kind, sec.Rows[2].Kind}
	if diff := cmp.Diff([]grid.RowKind{grid.MainRow, grid.SubRow, grid.MainRow}, kinds); diff != "" {
		t.Fatalf("kinds (-want +got):\n%s", diff)
	}
	if sec.Rows[1].ParentID != sec.Rows[0].ID {
		t.Fatalf("parent: got %q, want %q", sec.Rows[1].ParentID, sec.Rows[0].ID)
	}
	if diff := cmp.Diff([]string{"c", "", ""}, sec.Rows[1].Columns); diff != "" {
		t.Fatalf("padded columns (-want +got):\n%s", diff)
	}
	want := Report{LegacyGrouping: true, IDsAssigned: 3, RowsResized: 2, WidthsReset: true}
	if diff := cmp.Diff(want, rep); diff != "" {
		t.Fatalf("report (-want +got):\n%s", diff)
	}
}

func TestExplicitSubRowFlagDisablesLegacyGrouping(t *testing.T) {
	sec, rep := mustDecode(t, `{"colCount": 1, "colWidths": ["100%"], "rows": [
		{"id": "a", "columns": ["1"], "isSubRow": false},
		{"id": "b", "columns": ["2"]}
	]}`)
	if sec.Rows[1].Kind != grid.MainRow {
		t.Fatalf("row 1: got %v, want main", sec.Rows[1].Kind)
	}
	if rep.LegacyGrouping {
		t.Fatalf("legacy grouping applied")
	}
}

func TestLegacySpanArrays(t *testing.T) {
	sec, rep := mustDecode(t, `{"colCount": 3, "colWidths": ["40%", "30%", "30%"], "rows": [
		{"id": "a", "columns": ["x", "y", "z"], "isSubRow": false,
		 "colSpans": [2, 1, 1], "rowSpans": [1, 1, 2], "colHiddens": [false, true, false]},
		{"id": "b", "columns": ["p", "q", "r"], "isSubRow": false}
	]}`)

	want := []grid.CellSpan{
		{AnchorRow: 0, AnchorCol: 0, RowSpan: 1, ColSpan: 2},
		{AnchorRow: 0, AnchorCol: 2, RowSpan: 2, ColSpan: 1},
	}
	if diff := cmp.Diff(want, sec.Spans); diff != "" {
		t.Fatalf("spans (-want +got):\n%s", diff)
	}
	if !rep.LegacySpans {
		t.Fatalf("LegacySpans not reported")
	}
	if !sec.Hidden(0, 1) || !sec.Hidden(1, 2) || sec.Hidden(1, 0) {
		t.Fatalf("hidden cells wrong: %+v", sec.Spans)
	}
	if diff := cmp.Diff([]string{"40.00%", "30.00%", "30.00%"}, sec.ColWidthStrings()); diff != "" {
		t.Fatalf("widths (-want +got):\n%s", diff)
	}
}

func TestMergesClampedAndOverlapsDropped(t *testing.T) {
	sec, rep := mustDecode(t, `{"colCount": 3, "rows": [
		{"id": "a", "columns": ["", "", ""], "isSubRow": false},
		{"id": "b", "columns": ["", "", ""], "isSubRow": false}
	], "merges": [
		{"row": 0, "col": 1, "rowSpan": 5, "colSpan": 5},
		{"row": 1, "col": 2, "rowSpan": 1, "colSpan": 1},
		{"row": 1, "col": 1, "rowSpan": 1, "colSpan": 2},
		{"row": 9, "col": 0, "rowSpan": 2, "colSpan": 1}
	]}`)

	want := []grid.CellSpan{{AnchorRow: 0, AnchorCol: 1, RowSpan: 2, ColSpan: 2}}
	if diff := cmp.Diff(want, sec.Spans); diff != "" {
		t.Fatalf("spans (-want +got):\n%s", diff)
	}
	if rep.SpansDropped != 3 {
		t.Fatalf("SpansDropped: got %d, want 3", rep.SpansDropped)
	}
}

func TestParentRepair(t *testing.T) {
	sec, rep := mustDecode(t, `{"colCount": 1, "colWidths": ["100%"], "rows": [
		{"id": "s0", "columns": ["orphan"], "isSubRow": true, "parentId": "nobody"},
		{"id": "m1", "columns": ["main"], "isSubRow": false},
		{"id": "s1", "columns": ["sub"], "isSubRow": true, "parentId": "nobody"},
		{"id": "s1", "columns": ["dup"], "isSubRow": true, "parentId": "m1"}
	]}`)

	if sec.Rows[0].Kind != grid.MainRow {
		t.Fatalf("orphan first row: got %v, want main", sec.Rows[0].Kind)
	}
	if sec.Rows[2].ParentID != "m1" {
		t.Fatalf("repaired parent: got %q, want m1", sec.Rows[2].ParentID)
	}
	if sec.Rows[3].ID == "s1" || sec.Rows[3].ParentID != "m1" {
		t.Fatalf("duplicate row: got %+v", sec.Rows[3])
	}
	if rep.ParentsFixed != 2 || rep.IDsAssigned != 1 {
		t.Fatalf("report: got %+v", rep)
	}
}

func TestBareRowArrayAndUnknownBorder(t *testing.T) {
	sec, _ := mustDecode(t, `[
		{"id": "a", "columns": ["1", "2"], "borderStyle": "dashed", "isSubRow": false},
		{"id": "b", "columns": ["3", "4"], "borderStyle": "thin", "number": "2.", "isSubRow": false}
	]`)
	if sec.ColCount != 2 {
		t.Fatalf("ColCount: got %d, want 2", sec.ColCount)
	}
	if sec.Rows[0].Border != grid.BorderNone || sec.Rows[1].Border != grid.BorderThin {
		t.Fatalf("borders: got %v, %v", sec.Rows[0].Border, sec.Rows[1].Border)
	}
	if sec.Rows[1].Number != "2." {
		t.Fatalf("number: got %q", sec.Rows[1].Number)
	}
}

func TestDecodeSectionRejectsScalars(t *testing.T) {
	for _, in := range []string{`"rows"`, `12`, `{`} {
		if _, _, err := DecodeSection([]byte(in)); !errors.Is(err, ErrMalformed) {
			t.Fatalf("DecodeSection(%s): got %v, want ErrMalformed", in, err)
		}
	}
}

func TestOversizedColCountFallsBackToWidestRow(t *testing.T) {
	sec, rep := mustDecode(t, `{"colCount": 4611686018427387904, "rows": [
		{"id": "a", "columns": ["a"]},
		{"id": "b", "columns": ["b", "c"], "isSubRow": false}
	]}`)
	if sec.ColCount != 2 {
		t.Fatalf("ColCount: got %d, want 2", sec.ColCount)
	}
	if !rep.ColCountFixed || !rep.Changed() {
		t.Fatalf("report: got %+v, want ColCountFixed", rep)
	}
	if diff := cmp.Diff([]string{"a", ""}, sec.Rows[0].Columns); diff != "" {
		t.Fatalf("row 0 (-want +got):\n%s", diff)
	}

	wide := make([]string, MaxColumns+1)
	for i := range wide {
		wide[i] = `"x"`
	}
	in := `{"rows": [{"columns": [` + strings.Join(wide, ",") + `]}]}`
	if _, _, err := DecodeSection([]byte(in)); !errors.Is(err, ErrMalformed) {
		t.Fatalf("DecodeSection(wide row): got %v, want ErrMalformed", err)
	}
}
