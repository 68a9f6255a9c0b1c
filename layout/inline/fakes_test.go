package inline

import (
	"unicode/utf8"

	"github.com/boergens/parafmt/layout"
)

// fakeSize is the fixed font size every fake-shaped glyph reports, chosen so
// that 1em (the fake shaper's fixed advance) lands on a round number of
// points.
const fakeSize Abs = 12

// fakeShaper is a deterministic Shaper test double: every rune shapes to one
// glyph advancing exactly 1em, with spaces marked justifiable and given
// modest stretch/shrink. It never touches a real font, so tests can run
// without any font data on disk.
type fakeShaper struct {
	// text is the full buffer the shaper was handed, needed by Reshape to
	// re-slice an arbitrary sub-range of an already-shaped run.
	text string
}

func (f *fakeShaper) Shape(base int, text string, dir Dir, lang Lang, region *Region) *ShapedText {
	return shapeFake(base, text, dir, lang, region)
}

func (f *fakeShaper) Reshape(run *ShapedText, start, end int) *ShapedText {
	return shapeFake(start, f.text[start:end], run.Dir, run.Lang, run.Region)
}

func (f *fakeShaper) PushHyphen(run *ShapedText) *ShapedText {
	return shapeFake(run.Base, run.Text+"-", run.Dir, run.Lang, run.Region)
}

func shapeFake(base int, text string, dir Dir, lang Lang, region *Region) *ShapedText {
	glyphs := make([]ShapedGlyph, 0, len(text))
	offset := 0
	for _, r := range text {
		size := utf8.RuneLen(r)
		g := ShapedGlyph{
			GlyphID:     uint16(r),
			XAdvance:    EmOne(),
			Size:        fakeSize,
			Range:       Range{Start: base + offset, End: base + offset + size},
			SafeToBreak: true,
			Char:        r,
		}
		if r == ' ' {
			g.IsJustifiable = true
			g.Adjustability = Adjustability{
				Stretchability: [2]Em{0, 0.5},
				Shrinkability:  [2]Em{0, 1.0 / 3},
			}
		}
		glyphs = append(glyphs, g)
		offset += size
	}
	return &ShapedText{
		Base:   base,
		Text:   text,
		Dir:    dir,
		Lang:   lang,
		Region: region,
		Glyphs: NewGlyphsFromSlice(glyphs),
	}
}

// fakeStyle is a configurable StyleChain test double. newFakeStyle's value
// resolves to plain LTR, no hyphenation, no smart quotes, 12pt, no case
// transform.
type fakeStyle struct {
	dir         Dir
	lang        Lang
	region      *Region
	caseX       Case
	smartQuotes bool
	hyphenate   bool
	size        Abs
	baseline    Abs
	overhang    bool
	justify     bool
	lineBreaks  LineBreaks
	indent      Abs
	align       layout.Alignment
	tag         string // only used to make Equal() distinguish styles in tests
}

func (s *fakeStyle) Dir() Dir               { return s.dir }
func (s *fakeStyle) Lang() (Lang, *Region)   { return s.lang, s.region }
func (s *fakeStyle) Case() Case              { return s.caseX }
func (s *fakeStyle) SmartQuotes() bool       { return s.smartQuotes }
func (s *fakeStyle) Hyphenate() bool         { return s.hyphenate }
func (s *fakeStyle) Size() Abs               { return s.size }
func (s *fakeStyle) Baseline() Abs           { return s.baseline }
func (s *fakeStyle) Overhang() bool          { return s.overhang }
func (s *fakeStyle) Justify() bool           { return s.justify }
func (s *fakeStyle) LineBreaks() LineBreaks  { return s.lineBreaks }
func (s *fakeStyle) Indent() Abs             { return s.indent }
func (s *fakeStyle) Align() layout.Alignment { return s.align }

func (s *fakeStyle) Equal(other StyleChain) bool {
	o, ok := other.(*fakeStyle)
	if !ok {
		return false
	}
	return *s == *o
}

func newFakeStyle() *fakeStyle {
	return &fakeStyle{size: fakeSize}
}

// fakeInlineLayouter lays out a fixed-size frame regardless of the regions
// offered, for tests exercising FrameItem/RepeatItem handling.
type fakeInlineLayouter struct {
	width, height layout.Abs
	baseline      layout.Abs
	err           error
}

func (f *fakeInlineLayouter) LayoutInline(regions *layout.Regions, style StyleChain) (layout.Fragment, error) {
	if f.err != nil {
		return nil, f.err
	}
	frame := layout.NewFrame(layout.Size{Width: f.width, Height: f.height})
	frame.SetBaseline(f.baseline)
	// A marker at the origin so tests can observe translations applied to
	// the frame's contents.
	frame.Push(layout.Point{}, layout.TagItem{Tag: "inline"})
	return layout.Fragment{frame}, nil
}

// fakeHyphenator splits every word at a fixed offset, for tests of
// hyphenation-gated breakpoints without a real dictionary.
type fakeHyphenator struct {
	cuts []int
}

func (f *fakeHyphenator) Hyphenate(word string, lang Lang, region *Region) []int {
	return f.cuts
}
