package inline

import (
	"strings"
	"testing"
)

func TestMakeLineEmptyRange(t *testing.T) {
	text := "hello"
	cfg := Config{FontSize: fakeSize, Justify: true}
	prep, shaper := prepareFor(t, text, cfg)

	line := MakeLine(prep, shaper, 2, 2, false, false)
	if !line.IsEmpty() {
		t.Fatalf("line not empty for an empty range")
	}
	if line.Width != 0 {
		t.Fatalf("Width = %v, want 0", line.Width)
	}
	if !line.Justify {
		t.Fatalf("Justify = false, want true (justified paragraph, not at text end, not mandatory)")
	}

	atEnd := MakeLine(prep, shaper, len(text), len(text), false, false)
	if atEnd.Justify {
		t.Fatalf("Justify = true for an empty range at the text's end, want false")
	}
}

func TestMakeLineTrimsTrailingWhitespace(t *testing.T) {
	text := "word   next"
	cfg := Config{FontSize: fakeSize}
	prep, shaper := prepareFor(t, text, cfg)

	line := MakeLine(prep, shaper, 0, 7, false, false) // "word   "
	if got := prep.Text[line.Trimmed.Start:line.Trimmed.End]; got != "word" {
		t.Fatalf("trimmed content = %q, want %q", got, "word")
	}
	if line.End != 7 {
		t.Fatalf("End = %d, want 7 (untrimmed break offset)", line.End)
	}
	// Four glyphs at 1em each; the trimmed spaces contribute no width.
	if want := EmOne().At(fakeSize) * 4; line.Width != want {
		t.Fatalf("Width = %v, want %v", line.Width, want)
	}
}

func TestMakeLineHyphenAppendsHyphenGlyph(t *testing.T) {
	text := "unbelievable"
	cfg := Config{FontSize: fakeSize}
	prep, shaper := prepareFor(t, text, cfg)

	line := MakeLine(prep, shaper, 0, 5, false, true) // "unbel" + hyphen
	if line.Dash != DashSoft {
		t.Fatalf("Dash = %v, want DashSoft", line.Dash)
	}
	last, ok := line.Last.(*TextItem)
	if !ok {
		t.Fatalf("Last = %T, want a reshaped *TextItem", line.Last)
	}
	if !strings.HasSuffix(last.Shaped.Text, "-") {
		t.Fatalf("reshaped text = %q, want a trailing hyphen", last.Shaped.Text)
	}
	// "unbel" reshaped plus the appended hyphen glyph.
	if want := EmOne().At(fakeSize) * 6; line.Width != want {
		t.Fatalf("Width = %v, want %v", line.Width, want)
	}
}

func TestMakeLineSoftHyphenAtBreak(t *testing.T) {
	text := "un­believable"
	cfg := Config{FontSize: fakeSize}
	prep, shaper := prepareFor(t, text, cfg)

	// Break right after the soft hyphen: a hyphen glyph is appended even
	// though the breaker itself didn't ask for one.
	line := MakeLine(prep, shaper, 0, 4, false, false)
	if line.Dash != DashSoft {
		t.Fatalf("Dash = %v, want DashSoft for a trailing soft hyphen", line.Dash)
	}
	last, ok := line.Last.(*TextItem)
	if !ok {
		t.Fatalf("Last = %T, want a reshaped *TextItem", line.Last)
	}
	if !strings.HasSuffix(last.Shaped.Text, "-") {
		t.Fatalf("reshaped text = %q, want a trailing hyphen glyph", last.Shaped.Text)
	}
}

func TestMakeLineLiteralDashIsHard(t *testing.T) {
	text := "well-known fact"
	cfg := Config{FontSize: fakeSize}
	prep, shaper := prepareFor(t, text, cfg)

	line := MakeLine(prep, shaper, 0, 5, false, false) // "well-"
	if line.Dash != DashHard {
		t.Fatalf("Dash = %v, want DashHard for a literal '-'", line.Dash)
	}
}

func TestMakeLineMiddleRangeReshapesBothEdges(t *testing.T) {
	// Three differently-styled words become three prepared items; a line
	// cutting into the first and last items must reshape both edges and
	// keep only the middle item borrowed.
	children := []Child{
		TextChild{Text: "aaaa ", Style: &fakeStyle{size: fakeSize, tag: "1"}},
		TextChild{Text: "bbbb ", Style: &fakeStyle{size: fakeSize, tag: "2"}},
		TextChild{Text: "cccc", Style: &fakeStyle{size: fakeSize, tag: "3"}},
	}
	text := "aaaa bbbb cccc"
	buf := Collect(children)
	shaper := &fakeShaper{text: text}
	prep, err := Prepare(buf, PrepareOptions{Shaper: shaper, Config: Config{FontSize: fakeSize}})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	line := MakeLine(prep, shaper, 2, 12, false, false) // "aa bbbb cc"
	first, ok := line.First.(*TextItem)
	if !ok {
		t.Fatalf("First = %T, want *TextItem", line.First)
	}
	if first.Shaped.Text != "aa " {
		t.Fatalf("First text = %q, want %q", first.Shaped.Text, "aa ")
	}
	last, ok := line.Last.(*TextItem)
	if !ok {
		t.Fatalf("Last = %T, want *TextItem", line.Last)
	}
	if last.Shaped.Text != "cc" {
		t.Fatalf("Last text = %q, want %q", last.Shaped.Text, "cc")
	}
	if len(line.Inner) != 1 {
		t.Fatalf("len(Inner) = %d, want 1 (the untouched middle item)", len(line.Inner))
	}
	if want := EmOne().At(fakeSize) * 10; line.Width != want {
		t.Fatalf("Width = %v, want %v (sum of visual items, P4)", line.Width, want)
	}
}

func TestMakeLineWholeRangeBorrowsItemsUnreshaped(t *testing.T) {
	text := "hello world"
	cfg := Config{FontSize: fakeSize}
	prep, shaper := prepareFor(t, text, cfg)

	line := MakeLine(prep, shaper, 0, len(text), true, false)
	if line.First != nil || line.Last != nil {
		t.Fatalf("edges reshaped (First=%v Last=%v) for a line covering whole items", line.First, line.Last)
	}
	if len(line.Inner) != len(prep.Items) {
		t.Fatalf("len(Inner) = %d, want %d (all prepared items borrowed)", len(line.Inner), len(prep.Items))
	}
	if line.Justify {
		t.Fatalf("Justify = true for a mandatory-terminated line, want false")
	}
}
