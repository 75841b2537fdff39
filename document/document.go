// Package document holds the planning document that the grid sections live
// in, its JSON form, the load-time repair of legacy section data and an
// undo history of section snapshots.
package document

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mumtazka/skpgrid/grid"
)

var (
	// ErrMalformed is returned for input that cannot be repaired.
	ErrMalformed = errors.New("malformed document")

	// ErrUnknownSection is returned when a section key is not in the document.
	ErrUnknownSection = errors.New("unknown section")
)

// Document is one planning form made of independently edited sections.
type Document struct {
	ID        string
	Title     string
	Sections  []NamedSection
	UpdatedAt time.Time
}

// NamedSection is a section with its place in the document.
type NamedSection struct {
	Key     string
	Title   string
	Headers []string
	Section *grid.Section
}

// New returns an empty document with a fresh id.
func New(title string) *Document {
	return &Document{ID: uuid.NewString(), Title: title}
}

// AddSection appends a section with one empty row and one column per header.
func (d *Document) AddSection(key, title string, headers ...string) *NamedSection {
	sec := grid.NewSection(len(headers))
	sec.AddRow()
	d.Sections = append(d.Sections, NamedSection{
		Key:     key,
		Title:   title,
		Headers: append([]string(nil), headers...),
		Section: sec,
	})
	return &d.Sections[len(d.Sections)-1]
}

// Section returns the section stored under key.
func (d *Document) Section(key string) (*NamedSection, bool) {
	for i := range d.Sections {
		if d.Sections[i].Key == key {
			return &d.Sections[i], true
		}
	}
	return nil, false
}

// SetSection replaces the data of the section stored under key.
func (d *Document) SetSection(key string, sec *grid.Section) error {
	ns, ok := d.Section(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSection, key)
	}
	ns.Section = sec
	return nil
}

func (d *Document) Clone() *Document {
	out := *d
	out.Sections = make([]NamedSection, len(d.Sections))
	for i, ns := range d.Sections {
		ns.Headers = append([]string(nil), ns.Headers...)
		ns.Section = ns.Section.Clone()
		out.Sections[i] = ns
	}
	return &out
}
