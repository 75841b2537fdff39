package document

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/mumtazka/skpgrid/grid"
)

type wireDocument struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Sections  []wireSection `json:"sections"`
}

type wireSection struct {
	Key       string      `json:"key,omitempty"`
	Title     string      `json:"title,omitempty"`
	Headers   []string    `json:"headers,omitempty"`
	ColCount  int         `json:"colCount"`
	ColWidths []string    `json:"colWidths"`
	Merges    []wireMerge `json:"merges,omitempty"`
	Rows      []wireRow   `json:"rows"`
}

type wireMerge struct {
	Row     int `json:"row"`
	Col     int `json:"col"`
	RowSpan int `json:"rowSpan"`
	ColSpan int `json:"colSpan"`
}

type wireRow struct {
	ID          string           `json:"id"`
	Columns     []string         `json:"columns"`
	BorderStyle grid.BorderStyle `json:"borderStyle"`
	Number      string           `json:"number,omitempty"`
	IsSubRow    bool             `json:"isSubRow"`
	ParentID    string           `json:"parentId,omitempty"`
}

func toWireSection(sec *grid.Section) wireSection {
	w := wireSection{
		ColCount:  sec.ColCount,
		ColWidths: sec.ColWidthStrings(),
		Rows:      make([]wireRow, len(sec.Rows)),
	}
	for _, sp := range sec.Spans {
		w.Merges = append(w.Merges, wireMerge{sp.AnchorRow, sp.AnchorCol, sp.RowSpan, sp.ColSpan})
	}
	for i, r := range sec.Rows {
		w.Rows[i] = wireRow{
			ID:          r.ID,
			Columns:     r.Columns,
			BorderStyle: r.Border,
			Number:      r.Number,
			IsSubRow:    r.Kind == grid.SubRow,
			ParentID:    r.ParentID,
		}
	}
	return w
}

// Marshal encodes d as JSON.
func Marshal(d *Document) ([]byte, error) {
	w := wireDocument{
		ID:        d.ID,
		Title:     d.Title,
		UpdatedAt: d.UpdatedAt,
		Sections:  make([]wireSection, len(d.Sections)),
	}
	for i, ns := range d.Sections {
		ws := toWireSection(ns.Section)
		ws.Key, ws.Title, ws.Headers = ns.Key, ns.Title, ns.Headers
		w.Sections[i] = ws
	}
	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("encoding document %s: %w", d.ID, err)
	}
	return data, nil
}

// MarshalSection encodes the data of one section, without its key, title
// or headers.
func MarshalSection(sec *grid.Section) ([]byte, error) {
	data, err := json.Marshal(toWireSection(sec))
	if err != nil {
		return nil, fmt.Errorf("encoding section: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a document, repairing legacy data on the way.
func Unmarshal(data []byte) (*Document, error) {
	d, _, err := Decode(data)
	return d, err
}

// Decode is Unmarshal that also reports what was repaired.
func Decode(data []byte) (*Document, Report, error) {
	var rep Report
	if !gjson.ValidBytes(data) {
		return nil, rep, fmt.Errorf("%w: not valid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, rep, fmt.Errorf("%w: document is not an object", ErrMalformed)
	}

	d := &Document{
		ID:    root.Get("id").String(),
		Title: root.Get("title").String(),
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
		rep.IDsAssigned++
	}
	if ts := root.Get("updatedAt").String(); ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			d.UpdatedAt = t
		}
	}

	for i, sv := range root.Get("sections").Array() {
		sec, srep, err := decodeSection(sv)
		if err != nil {
			return nil, rep, fmt.Errorf("section %d: %w", i, err)
		}
		rep.add(srep)
		ns := NamedSection{
			Key:     sv.Get("key").String(),
			Title:   sv.Get("title").String(),
			Section: sec,
		}
		if ns.Key == "" {
			ns.Key = fmt.Sprintf("section-%d", i+1)
		}
		for _, h := range sv.Get("headers").Array() {
			ns.Headers = append(ns.Headers, h.String())
		}
		d.Sections = append(d.Sections, ns)
	}
	return d, rep, nil
}
