package inline

import (
	"github.com/go-text/typesetting/font"

	"github.com/boergens/parafmt/layout"
)

// StyleKey identifies a single style property read by the paragraph engine.
// Concrete hosts implement StyleChain over whatever style representation
// they already have; the engine only ever reads through this key set.
type StyleKey int

const (
	KeyDir StyleKey = iota
	KeyLang
	KeyRegion
	KeyCase
	KeySmartQuotes
	KeyHyphenate
	KeySize
	KeyBaseline
	KeyOverhang
	KeyStrong
	KeyEmph
	KeyIndent
	KeyLeading
	KeyAlign
	KeyJustify
	KeyLineBreaks
)

// Case selects a case transform applied to collected text.
type Case int

const (
	CaseNone Case = iota
	CaseUpper
	CaseLower
)

// StyleChain is a read-only, inheriting property lookup: the style in effect
// at some point in the paragraph's content tree. Implementations are
// expected to be cheap to copy (e.g. a linked list of overlay frames over an
// immutable root), since the engine derives a fresh chain per child.
type StyleChain interface {
	// Dir returns the resolved text direction.
	Dir() Dir
	// Lang returns the resolved language, and the region if set.
	Lang() (Lang, *Region)
	// Case returns the case transform to apply, if any.
	Case() Case
	// SmartQuotes reports whether naive quote characters should be
	// replaced with typographic ones.
	SmartQuotes() bool
	// Hyphenate reports whether hyphenation is enabled at this point.
	Hyphenate() bool
	// Size returns the font size.
	Size() Abs
	// Baseline returns the baseline shift applied to inline frames.
	Baseline() Abs
	// Overhang reports whether hanging punctuation is enabled.
	Overhang() bool
	// Equal reports whether two chains are interchangeable for the
	// purposes of coalescing adjacent text segments: same font, size,
	// and every property Collect/Prepare read.
	Equal(other StyleChain) bool

	// Justify reports whether the paragraph is justified.
	Justify() bool
	// LineBreaks returns the configured line-breaking algorithm.
	LineBreaks() LineBreaks
	// Indent returns the paragraph's first-line indent.
	Indent() Abs
	// Align returns the paragraph's horizontal and vertical alignment.
	Align() layout.Alignment
}

// Shaper shapes runs of text into glyphs and supports the edge operations
// the line constructor needs: reshaping a narrower or wider sub-range, and
// appending a hyphen.
type Shaper interface {
	// Shape shapes text found at the given base offset in the paragraph
	// buffer, in the given direction, language and region.
	Shape(base int, text string, dir Dir, lang Lang, region *Region) *ShapedText
	// Reshape re-shapes a sub-range of an already-shaped run.
	Reshape(run *ShapedText, start, end int) *ShapedText
	// PushHyphen re-shapes a run with a trailing hyphen appended.
	PushHyphen(run *ShapedText) *ShapedText
}

// ctxShaper adapts a ShapingContext to the Shaper interface.
type ctxShaper struct {
	ctx *ShapingContext
}

// NewShaper returns a Shaper backed by a HarfBuzz shaping context over the
// given faces and font size.
func NewShaper(faces []*font.Face, size Abs) Shaper {
	return &ctxShaper{ctx: NewShapingContext(faces, size)}
}

func (s *ctxShaper) Shape(base int, text string, dir Dir, lang Lang, region *Region) *ShapedText {
	return Shape(s.ctx, base, text, dir, lang, region)
}

func (s *ctxShaper) Reshape(run *ShapedText, start, end int) *ShapedText {
	return run.Reshape(s.ctx, start, end)
}

func (s *ctxShaper) PushHyphen(run *ShapedText) *ShapedText {
	return run.PushHyphen(s.ctx)
}

// Hyphenator finds the syllable breakpoints of a word, used by the
// breakpoint stream to interleave hyphenation opportunities with UAX #14
// line-break opportunities.
type Hyphenator interface {
	// Hyphenate returns the byte offsets within word, relative to word's
	// start, at which a soft hyphen may be inserted. Offsets strictly
	// between 0 and len(word) only: a hyphenator never proposes a break
	// at either edge of the word.
	Hyphenate(word string, lang Lang, region *Region) []int
}

// InlineLayouter lays out an inline child (an embedded block, or a
// repeater) given the regions available to it and the style in effect,
// producing the frames it occupies. Used both for genuine inline content
// and for the single-copy layout a repeater replicates across a line.
type InlineLayouter interface {
	LayoutInline(regions *layout.Regions, style StyleChain) (layout.Fragment, error)
}
