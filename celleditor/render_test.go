package celleditor

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func asciiStyle() Style {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	return Style{
		Text:        r.NewStyle(),
		Selection:   r.NewStyle(),
		Cursor:      r.NewStyle(),
		Placeholder: r.NewStyle(),
	}
}

func TestWrap_WordBreaksAndHardBreaks(t *testing.T) {
	e := New(Config{Markup: "one two three<br>x", Width: 8})
	lines := e.layout()
	var got []string
	for _, l := range lines {
		got = append(got, e.buf.PlainText()[l.start:l.end])
	}
	want := []string{"one two ", "three", "x"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("lines=%q, want %q", got, want)
	}
	if e.Height() != 3 {
		t.Fatalf("height=%d, want 3", e.Height())
	}
}

func TestView_PadsToWidth(t *testing.T) {
	e := New(Config{Markup: "<b>ab</b>", Width: 4, Style: asciiStyle()})
	if got := e.View(); got != "ab  " {
		t.Fatalf("view=%q, want %q", got, "ab  ")
	}
	e.Focus()
	e.SelectAll()
	e.Buffer().ClearSelection()
	if got := e.View(); got != "ab  " {
		t.Fatalf("focused view=%q, want caret block then padding", got)
	}
}

func TestView_Placeholder(t *testing.T) {
	e := New(Config{Width: 3, Placeholder: "type here", Style: asciiStyle()})
	if got := e.View(); got != "typ" {
		t.Fatalf("placeholder view=%q", got)
	}
	e.Focus()
	if got := e.View(); got != "   " {
		t.Fatalf("focused empty view=%q", got)
	}
}
