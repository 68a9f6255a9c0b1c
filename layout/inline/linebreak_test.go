package inline

import "testing"

func prepareFor(t *testing.T, text string, cfg Config) (*Preparation, Shaper) {
	t.Helper()
	buf := Collect([]Child{TextChild{Text: text, Style: newFakeStyle()}})
	shaper := &fakeShaper{text: text}
	prep, err := Prepare(buf, PrepareOptions{Shaper: shaper, Config: cfg})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	return prep, shaper
}

func TestLinebreakSimpleGreedilyFillsEachLine(t *testing.T) {
	text := "aa bb cc dd"
	cfg := Config{FontSize: fakeSize, Linebreaks: LineBreaksSimple}
	prep, shaper := prepareFor(t, text, cfg)

	// Each char is 12pt and the trailing space is trimmed: "aa bb" is 60pt
	// and fits a 70pt line, "aa bb cc" (96pt) would overflow, so it should
	// break after "bb".
	lines := Linebreak(prep, shaper, nil, 70)
	if len(lines) == 0 {
		t.Fatalf("got 0 lines")
	}
	first := prep.Text[lines[0].Trimmed.Start:lines[0].Trimmed.End]
	if first != "aa bb" {
		t.Fatalf("first line = %q, want %q", first, "aa bb")
	}
}

func TestLinebreakSimpleSingleOverlongWordStillEmitsALine(t *testing.T) {
	text := "supercalifragilisticexpialidocious"
	cfg := Config{FontSize: fakeSize, Linebreaks: LineBreaksSimple}
	prep, shaper := prepareFor(t, text, cfg)

	lines := Linebreak(prep, shaper, nil, 10)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 (a single word with no break opportunity can't be split without hyphenation)", len(lines))
	}
}

func TestLinebreakRespectsMandatoryBreaks(t *testing.T) {
	text := "one\ntwo"
	cfg := Config{FontSize: fakeSize, Linebreaks: LineBreaksSimple}
	prep, shaper := prepareFor(t, text, cfg)

	lines := Linebreak(prep, shaper, nil, 1000)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2 (mandatory break always ends a line)", len(lines))
	}
}

func TestLinebreakOptimizedProducesContiguousCoverage(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	cfg := Config{FontSize: fakeSize, Linebreaks: LineBreaksOptimized, Justify: true}
	prep, shaper := prepareFor(t, text, cfg)

	lines := Linebreak(prep, shaper, nil, 100)
	if len(lines) == 0 {
		t.Fatalf("got 0 lines")
	}

	cursor := 0
	for i, line := range lines {
		if line.Trimmed.Start < cursor {
			t.Fatalf("line %d starts at %d, before previous line's end %d", i, line.Trimmed.Start, cursor)
		}
		cursor = line.End
	}
	if cursor != len(text) {
		t.Fatalf("lines cover up to %d, want %d (full text)", cursor, len(text))
	}
}

func TestLinebreakHyphenationInsertsDash(t *testing.T) {
	text := "unbelievable"
	style := newFakeStyle()
	style.hyphenate = true
	style.lang = LangEnglish
	buf := Collect([]Child{TextChild{Text: text, Style: style}})
	shaper := &fakeShaper{text: text}
	cfg := Config{FontSize: fakeSize, Linebreaks: LineBreaksSimple}
	prep, err := Prepare(buf, PrepareOptions{Shaper: shaper, Config: cfg})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	hyph := &fakeHyphenator{cuts: []int{2, 5, 8}}
	lines := Linebreak(prep, shaper, hyph, 50)
	if len(lines) < 2 {
		t.Fatalf("got %d lines, want at least 2 (hyphenation should offer a mid-word break)", len(lines))
	}
	if lines[0].Dash != DashSoft {
		t.Fatalf("first line Dash = %v, want DashSoft", lines[0].Dash)
	}
}

func TestLinebreakHyphenationRequiresLangAndFlag(t *testing.T) {
	text := "unbelievable"
	style := newFakeStyle() // hyphenate=false, lang=""
	buf := Collect([]Child{TextChild{Text: text, Style: style}})
	shaper := &fakeShaper{text: text}
	cfg := Config{FontSize: fakeSize, Linebreaks: LineBreaksSimple}
	prep, err := Prepare(buf, PrepareOptions{Shaper: shaper, Config: cfg})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	hyph := &fakeHyphenator{cuts: []int{2, 5, 8}}
	lines := Linebreak(prep, shaper, hyph, 50)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 (hyphenation gated off by HYPHENATE=false)", len(lines))
	}
}
