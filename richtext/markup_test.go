package richtext

import "testing"

func TestParse_InlineTagsAndBreaks(t *testing.T) {
	got := Parse("a<b>b<i>c</i></b><br>d&amp;")
	want := []Glyph{
		{Text: "a"},
		{Text: "b", Marks: Bold},
		{Text: "c", Marks: Bold | Italic},
		{Text: "\n"},
		{Text: "d"},
		{Text: "&"},
	}
	if len(got) != len(want) {
		t.Fatalf("len=%d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("glyph[%d]=%v, want %v", i, got[i], want[i])
		}
	}
}

func TestParse_ParagraphsBecomeNewlines(t *testing.T) {
	if got := StripMarkup("<p>one</p><p>two</p>"); got != "one\ntwo" {
		t.Fatalf("plain=%q, want %q", got, "one\ntwo")
	}
	if got := StripMarkup("<p></p><p>x</p>"); got != "\nx" {
		t.Fatalf("plain=%q, want %q", got, "\nx")
	}
}

func TestParse_SynonymsAndUnknownTags(t *testing.T) {
	got := Parse(`<strong>a</strong><em>b</em><del>c</del><span class="x">d</span>`)
	marks := []Mark{Bold, Italic, Strike, MarkNone}
	for i, m := range marks {
		if got[i].Marks != m {
			t.Fatalf("glyph[%d] marks=%v, want %v", i, got[i].Marks, m)
		}
	}
}

func TestEncode_CanonicalAndStable(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "plain", want: "plain"},
		{in: "<strong>x</strong>", want: "<b>x</b>"},
		{in: "<i><b>x</b></i>", want: "<b><i>x</i></b>"},
		{in: "a<br/>b", want: "a<br>b"},
		{in: "1 < 2 & 3", want: "1 &lt; 2 &amp; 3"},
		{in: "<u>a</u><u>b</u>", want: "<u>ab</u>"},
	}
	for _, tc := range cases {
		got := Normalize(tc.in)
		if got != tc.want {
			t.Fatalf("Normalize(%q)=%q, want %q", tc.in, got, tc.want)
		}
		if again := Normalize(got); again != got {
			t.Fatalf("Normalize not stable for %q: %q then %q", tc.in, got, again)
		}
	}
}

func TestRuns_GroupsEqualMarks(t *testing.T) {
	runs := Runs(Parse("ab<b>cd</b>e"))
	if len(runs) != 3 {
		t.Fatalf("runs=%v, want 3 runs", runs)
	}
	if runs[1] != (Run{Text: "cd", Marks: Bold}) {
		t.Fatalf("runs[1]=%v", runs[1])
	}
}

func TestParseMark(t *testing.T) {
	if m, ok := ParseMark(" Bold "); !ok || m != Bold {
		t.Fatalf("ParseMark(bold)=%v,%v", m, ok)
	}
	if _, ok := ParseMark("sparkle"); ok {
		t.Fatalf("unknown mark name should not parse")
	}
	if got := (Bold | Underline).String(); got != "bold|underline" {
		t.Fatalf("String=%q", got)
	}
}
