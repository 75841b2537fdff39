package document

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/mumtazka/skpgrid/grid"
)

func sampleDocument() *Document {
	d := New("SKP 2026")
	d.UpdatedAt = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	goals := d.AddSection("goals", "Main goals", "Goal", "Indicator")
	sec := goals.Section
	sec.SetCell(0, 0, "<b>Deliver</b> the report")
	sec.SetCell(0, 1, "on time")
	sec.AddSubRow(0)
	sec.SetCell(1, 0, "draft")
	sec.AddRow()
	sec.SetRowBorder(1, grid.BorderBold)
	sec.SetRowNumber(0, "1.")
	sec.Merge(grid.Range{Top: 2, Left: 0, Bottom: 2, Right: 1})
	d.AddSection("notes", "Behaviour notes", "Note", "Owner")
	return d
}

func TestMarshalRoundTrip(t *testing.T) {
	d := sampleDocument()
	data, err := Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, rep, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rep.Changed() {
		t.Fatalf("clean document reported repairs: %+v", rep)
	}
	if diff := cmp.Diff(d, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestMarshalSectionShape(t *testing.T) {
	sec := grid.NewSection(2)
	sec.AddRow()
	sec.AddSubRow(0)
	data, err := MarshalSection(sec)
	if err != nil {
		t.Fatalf("MarshalSection: %v", err)
	}
	got, _, err := DecodeSection(data)
	if err != nil {
		t.Fatalf("DecodeSection: %v", err)
	}
	if got.Rows[1].Kind != grid.SubRow || got.Rows[1].ParentID != sec.Rows[0].ID {
		t.Fatalf("sub row: got %+v, want parent %s", got.Rows[1], sec.Rows[0].ID)
	}
	if diff := cmp.Diff([]string{"50.00%", "50.00%"}, got.ColWidthStrings()); diff != "" {
		t.Fatalf("widths (-want +got):\n%s", diff)
	}
}

func TestDecodeMissingSectionKey(t *testing.T) {
	d, err := Unmarshal([]byte(`{"id":"d1","sections":[{"colCount":1,"colWidths":["100%"],"rows":[]}]}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got, want := d.Sections[0].Key, "section-1"; got != want {
		t.Fatalf("key: got %q, want %q", got, want)
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, in := range []string{
		`not json`,
		`[1, 2]`,
		`{"sections":[5]}`,
	} {
		if _, err := Unmarshal([]byte(in)); !errors.Is(err, ErrMalformed) {
			t.Fatalf("Unmarshal(%s): got %v, want ErrMalformed", in, err)
		}
	}
}

func TestSetSectionUnknownKey(t *testing.T) {
	d := sampleDocument()
	if err := d.SetSection("missing", grid.NewSection(1)); !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("got %v, want ErrUnknownSection", err)
	}
	if err := d.SetSection("notes", grid.NewSection(3)); err != nil {
		t.Fatalf("SetSection: %v", err)
	}
	ns, _ := d.Section("notes")
	if ns.Section.ColCount != 3 {
		t.Fatalf("ColCount: got %d, want 3", ns.Section.ColCount)
	}
}

func TestCloneIsDeep(t *testing.T) {
	d := sampleDocument()
	c := d.Clone()
	c.Sections[0].Section.SetCell(0, 1, "changed")
	c.Sections[0].Headers[0] = "X"
	if v, _ := d.Sections[0].Section.Cell(0, 1); v != "on time" {
		t.Fatalf("original cell: got %q, want %q", v, "on time")
	}
	if d.Sections[0].Headers[0] != "Goal" {
		t.Fatalf("original header: got %q", d.Sections[0].Headers[0])
	}
}
