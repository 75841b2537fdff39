package richtext

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/mumtazka/skpgrid/internal/grapheme"
)

// tagMarks maps inline tags to the mark they toggle.
var tagMarks = map[atom.Atom]Mark{
	atom.B:      Bold,
	atom.Strong: Bold,
	atom.I:      Italic,
	atom.Em:     Italic,
	atom.U:      Underline,
	atom.S:      Strike,
	atom.Del:    Strike,
	atom.Strike: Strike,
}

var markTags = map[Mark]string{
	Bold:      "b",
	Italic:    "i",
	Underline: "u",
	Strike:    "s",
}

// Parse converts markup into glyphs. Unknown tags are dropped and their text
// kept. Paragraph and div boundaries become newlines. Parse never fails:
// malformed markup degrades to whatever text the tokenizer recovers.
func Parse(markup string) []Glyph {
	if markup == "" {
		return nil
	}
	z := html.NewTokenizer(strings.NewReader(markup))
	depth := make(map[Mark]int, len(AllMarks))
	blocks := 0
	var out []Glyph

	current := func() Mark {
		m := MarkNone
		for f, n := range depth {
			if n > 0 {
				m |= f
			}
		}
		return m
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			return out
		case html.TextToken:
			text := strings.ReplaceAll(string(z.Text()), "\r\n", "\n")
			marks := current()
			for _, c := range grapheme.Split(text) {
				out = append(out, Glyph{Text: c, Marks: marks})
			}
		case html.StartTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Br:
				out = append(out, Glyph{Text: "\n", Marks: current()})
			case atom.P, atom.Div:
				if blocks > 0 {
					out = append(out, Glyph{Text: "\n", Marks: current()})
				}
				blocks++
			default:
				if m, ok := tagMarks[tok.DataAtom]; ok {
					depth[m]++
				}
			}
		case html.SelfClosingTagToken:
			if z.Token().DataAtom == atom.Br {
				out = append(out, Glyph{Text: "\n", Marks: current()})
			}
		case html.EndTagToken:
			tok := z.Token()
			if m, ok := tagMarks[tok.DataAtom]; ok && depth[m] > 0 {
				depth[m]--
			}
		}
	}
}

// Encode renders glyphs as canonical markup: tags nest in AllMarks order,
// newlines become <br> and text is escaped.
func Encode(glyphs []Glyph) string {
	var sb strings.Builder
	for _, run := range Runs(glyphs) {
		for _, f := range AllMarks {
			if run.Marks.Has(f) {
				sb.WriteString("<" + markTags[f] + ">")
			}
		}
		lines := strings.Split(run.Text, "\n")
		for i, line := range lines {
			if i > 0 {
				sb.WriteString("<br>")
			}
			sb.WriteString(html.EscapeString(line))
		}
		for i := len(AllMarks) - 1; i >= 0; i-- {
			if run.Marks.Has(AllMarks[i]) {
				sb.WriteString("</" + markTags[AllMarks[i]] + ">")
			}
		}
	}
	return sb.String()
}

// StripMarkup returns the plain text of markup.
func StripMarkup(markup string) string {
	return PlainText(Parse(markup))
}

// Normalize re-encodes markup into its canonical form.
func Normalize(markup string) string {
	return Encode(Parse(markup))
}
