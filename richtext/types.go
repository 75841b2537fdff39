package richtext

import "strings"

// Mark is a set of inline formatting flags.
type Mark uint8

const (
	Bold Mark = 1 << iota
	Italic
	Underline
	Strike
)

// MarkNone is the empty mark set.
const MarkNone Mark = 0

// AllMarks lists every mark in canonical nesting order.
var AllMarks = []Mark{Bold, Italic, Underline, Strike}

var markNames = map[Mark]string{
	Bold:      "bold",
	Italic:    "italic",
	Underline: "underline",
	Strike:    "strike",
}

// Has reports whether every flag of o is present in m. Has(MarkNone) is false.
func (m Mark) Has(o Mark) bool { return o != 0 && m&o == o }

func (m Mark) With(o Mark) Mark    { return m | o }
func (m Mark) Without(o Mark) Mark { return m &^ o }

func (m Mark) String() string {
	if m == MarkNone {
		return "none"
	}
	parts := make([]string, 0, len(AllMarks))
	for _, f := range AllMarks {
		if m.Has(f) {
			parts = append(parts, markNames[f])
		}
	}
	return strings.Join(parts, "|")
}

// ParseMark maps a formatting command name ("bold", "italic", "underline",
// "strike") to its Mark.
func ParseMark(name string) (Mark, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for m, n := range markNames {
		if n == name {
			return m, true
		}
	}
	return MarkNone, false
}

// Glyph is one grapheme cluster with its marks.
type Glyph struct {
	Text  string
	Marks Mark
}

// Run is a maximal stretch of text sharing one mark set.
type Run struct {
	Text  string
	Marks Mark
}

// Range is a half-open grapheme range: [Start, End).
type Range struct {
	Start int
	End   int
}

func (r Range) Normalize() Range {
	if r.Start <= r.End {
		return r
	}
	return Range{Start: r.End, End: r.Start}
}

func (r Range) IsEmpty() bool { return r.Start == r.End }

func (r Range) Len() int {
	n := r.Normalize()
	return n.End - n.Start
}

// Runs groups glyphs into maximal runs of equal marks.
func Runs(glyphs []Glyph) []Run {
	var out []Run
	var sb strings.Builder
	cur := MarkNone
	for i, g := range glyphs {
		if i > 0 && g.Marks != cur {
			out = append(out, Run{Text: sb.String(), Marks: cur})
			sb.Reset()
		}
		cur = g.Marks
		sb.WriteString(g.Text)
	}
	if sb.Len() > 0 {
		out = append(out, Run{Text: sb.String(), Marks: cur})
	}
	return out
}

// PlainText concatenates glyph text without marks.
func PlainText(glyphs []Glyph) string {
	var sb strings.Builder
	for _, g := range glyphs {
		sb.WriteString(g.Text)
	}
	return sb.String()
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
