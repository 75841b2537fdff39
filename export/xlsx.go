// Package export writes documents to XLSX workbooks.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mumtazka/skpgrid/document"
	"github.com/mumtazka/skpgrid/grid"
	"github.com/mumtazka/skpgrid/richtext"
)

const (
	// sheetWidth is the total width, in character units, shared out by the
	// data columns' percentages.
	sheetWidth   = 120.0
	minColWidth  = 6.0
	numberWidth  = 6.0
	maxSheetName = 31
)

// WriteXLSX writes doc as a workbook with one sheet per section.
func WriteXLSX(doc *document.Document, w io.Writer) error {
	f, err := build(doc)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes doc to the file at path.
func SaveXLSX(doc *document.Document, path string) error {
	f, err := build(doc)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

func build(doc *document.Document) (*excelize.File, error) {
	f := excelize.NewFile()
	sb := &sheetBuilder{f: f, styles: make(map[cellStyle]int)}
	names := make(map[string]bool)

	for i, ns := range doc.Sections {
		name := sheetName(ns.Title, ns.Key, names)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				f.Close()
				return nil, fmt.Errorf("sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		if err := sb.write(name, ns); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
	}
	return f, nil
}

// sheetName makes title usable as a unique sheet name.
func sheetName(title, key string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		name = key
	}
	if name == "" {
		name = "Sheet"
	}
	base := truncateRunes(name, maxSheetName)
	name = base
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncateRunes(base, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

type cellStyle struct {
	header bool
	border grid.BorderStyle
	indent bool
}

type sheetBuilder struct {
	f      *excelize.File
	styles map[cellStyle]int
}

func (b *sheetBuilder) style(cs cellStyle) (int, error) {
	if id, ok := b.styles[cs]; ok {
		return id, nil
	}
	st := &excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	}
	if cs.header {
		st.Font = &excelize.Font{Bold: true}
		st.Border = []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}}
	}
	if cs.indent {
		st.Alignment.Indent = 1
	}
	switch cs.border {
	case grid.BorderThin:
		st.Border = []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}}
	case grid.BorderBold:
		st.Border = []excelize.Border{{Type: "bottom", Color: "000000", Style: 5}}
	}
	id, err := b.f.NewStyle(st)
	if err != nil {
		return 0, err
	}
	b.styles[cs] = id
	return id, nil
}

// write fills one sheet: a header row, then one row per section row with
// the row number in column A and the cells from column B on.
func (b *sheetBuilder) write(sheet string, ns document.NamedSection) error {
	sec := ns.Section
	last, err := excelize.ColumnNumberToName(sec.ColCount + 1)
	if err != nil {
		return err
	}

	hdr, err := b.style(cellStyle{header: true})
	if err != nil {
		return err
	}
	if err := b.f.SetCellValue(sheet, "A1", "No."); err != nil {
		return err
	}
	for c := 0; c < sec.ColCount; c++ {
		h := ""
		if c < len(ns.Headers) {
			h = ns.Headers[c]
		}
		cell, _ := excelize.CoordinatesToCellName(c+2, 1)
		if err := b.f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	if err := b.f.SetCellStyle(sheet, "A1", last+"1", hdr); err != nil {
		return err
	}

	for r, row := range sec.Rows {
		line := r + 2
		data, err := b.style(cellStyle{border: row.Border})
		if err != nil {
			return err
		}
		num, err := b.style(cellStyle{border: row.Border, indent: row.Kind == grid.SubRow})
		if err != nil {
			return err
		}
		first, _ := excelize.CoordinatesToCellName(1, line)
		if err := b.f.SetCellValue(sheet, first, row.Number); err != nil {
			return err
		}
		if err := b.f.SetCellStyle(sheet, first, first, num); err != nil {
			return err
		}
		from, _ := excelize.CoordinatesToCellName(2, line)
		if err := b.f.SetCellStyle(sheet, from, fmt.Sprintf("%s%d", last, line), data); err != nil {
			return err
		}
		for c := 0; c < sec.ColCount; c++ {
			if sec.Hidden(r, c) {
				continue
			}
			v, _ := sec.Cell(r, c)
			cell, _ := excelize.CoordinatesToCellName(c+2, line)
			if err := b.setMarkup(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	for _, sp := range sec.Spans {
		rg := sp.Range()
		tl, _ := excelize.CoordinatesToCellName(rg.Left+2, rg.Top+2)
		br, _ := excelize.CoordinatesToCellName(rg.Right+2, rg.Bottom+2)
		if err := b.f.MergeCell(sheet, tl, br); err != nil {
			return err
		}
	}

	if err := b.f.SetColWidth(sheet, "A", "A", numberWidth); err != nil {
		return err
	}
	for c, pct := range sec.ColWidths {
		col, _ := excelize.ColumnNumberToName(c + 2)
		w := math.Max(minColWidth, math.Round(pct*sheetWidth)/100)
		if err := b.f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	return b.f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// setMarkup writes a cell's text, keeping its marks as rich text runs.
func (b *sheetBuilder) setMarkup(sheet, cell, markup string) error {
	runs := richtext.Runs(richtext.Parse(markup))
	switch {
	case len(runs) == 0:
		return nil
	case len(runs) == 1 && runs[0].Marks == richtext.MarkNone:
		return b.f.SetCellValue(sheet, cell, runs[0].Text)
	}
	out := make([]excelize.RichTextRun, len(runs))
	for i, run := range runs {
		out[i] = excelize.RichTextRun{Text: run.Text, Font: runFont(run.Marks)}
	}
	return b.f.SetCellRichText(sheet, cell, out)
}

func runFont(m richtext.Mark) *excelize.Font {
	if m == richtext.MarkNone {
		return nil
	}
	ft := &excelize.Font{
		Bold:   m&richtext.Bold != 0,
		Italic: m&richtext.Italic != 0,
		Strike: m&richtext.Strike != 0,
	}
	if m&richtext.Underline != 0 {
		ft.Underline = "single"
	}
	return ft
}
