package inline

import "testing"

func TestBreakpointStreamCoversTextMonotonically(t *testing.T) {
	text := "the cat sat"
	cfg := Config{FontSize: fakeSize}
	prep, _ := prepareFor(t, text, cfg)

	stream := NewBreakpoints(prep, nil)
	prevOffset := -1
	var last Breakpoint
	count := 0
	for {
		bp, ok := stream.Next()
		if !ok {
			break
		}
		if bp.Offset <= prevOffset {
			t.Fatalf("breakpoint offsets not strictly increasing: %d after %d", bp.Offset, prevOffset)
		}
		prevOffset = bp.Offset
		last = bp
		count++
		if count > 100 {
			t.Fatalf("breakpoint stream did not terminate")
		}
	}
	if count == 0 {
		t.Fatalf("got no breakpoints at all")
	}
	if last.Offset != len(text) {
		t.Fatalf("last breakpoint offset = %d, want %d (end of text)", last.Offset, len(text))
	}
}

func TestBreakpointStreamMarksMandatoryOnHardBreak(t *testing.T) {
	text := "one\ntwo"
	cfg := Config{FontSize: fakeSize}
	prep, _ := prepareFor(t, text, cfg)

	stream := NewBreakpoints(prep, nil)
	sawMandatory := false
	for {
		bp, ok := stream.Next()
		if !ok {
			break
		}
		if bp.Mandatory {
			sawMandatory = true
			if bp.Offset != 4 { // "one\n"
				t.Fatalf("mandatory breakpoint at %d, want 4", bp.Offset)
			}
		}
	}
	if !sawMandatory {
		t.Fatalf("expected a mandatory breakpoint after the newline")
	}
}

func TestBreakpointStreamSkipsHyphenationWithoutLang(t *testing.T) {
	text := "unbelievable"
	style := newFakeStyle()
	style.hyphenate = true // no Lang set: hyphenation must stay gated off
	buf := Collect([]Child{TextChild{Text: text, Style: style}})
	shaper := &fakeShaper{text: text}
	prep, err := Prepare(buf, PrepareOptions{Shaper: shaper, Config: Config{FontSize: fakeSize}})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	stream := NewBreakpoints(prep, &fakeHyphenator{cuts: []int{3}})
	var offsets []int
	for {
		bp, ok := stream.Next()
		if !ok {
			break
		}
		offsets = append(offsets, bp.Offset)
	}
	if len(offsets) != 1 || offsets[0] != len(text) {
		t.Fatalf("offsets = %v, want exactly [%d] (no hyphenation breakpoints without a resolved language)", offsets, len(text))
	}
}

// captureHyphenator records the words it is asked to hyphenate.
type captureHyphenator struct {
	words []string
}

func (c *captureHyphenator) Hyphenate(word string, lang Lang, region *Region) []int {
	c.words = append(c.words, word)
	return nil
}

func TestBreakpointStreamTrimsNonASCIIPunctuationBeforeHyphenation(t *testing.T) {
	text := "café” next"
	style := newFakeStyle()
	style.hyphenate = true
	style.lang = LangEnglish
	buf := Collect([]Child{TextChild{Text: text, Style: style}})
	shaper := &fakeShaper{text: text}
	prep, err := Prepare(buf, PrepareOptions{Shaper: shaper, Config: Config{FontSize: fakeSize}})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	capture := &captureHyphenator{}
	stream := NewBreakpoints(prep, capture)
	for {
		if _, ok := stream.Next(); !ok {
			break
		}
	}

	if len(capture.words) == 0 {
		t.Fatalf("hyphenator never consulted")
	}
	if capture.words[0] != "café" {
		t.Fatalf("hyphenated word = %q, want %q (closing quote and space trimmed)", capture.words[0], "café")
	}
}
