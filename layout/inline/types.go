package inline

import (
	"github.com/boergens/parafmt/layout"
)

// Item is a single prepared element of inline content: a shaped text run,
// resolved or unresolved spacing, a pre-layouted inline frame, or a
// line-filling repeater. Every Item's Len is the byte length of buffer text
// it was produced from (I3).
type Item interface {
	isItem()
	// Len returns the byte length of buffer text this item covers.
	Len() int
	// NaturalWidth returns the item's layouted width before any edge
	// reshaping or justification.
	NaturalWidth() Abs
}

// TextItem is a shaped run with a single BiDi level and a compatible
// script, styled uniformly.
type TextItem struct {
	Shaped *ShapedText
	// Hyphenate is the originating style's own HYPHENATE value, used as the
	// per-item fallback when the preparation has no unanimous shared value.
	Hyphenate bool
}

func (*TextItem) isItem() {}

// Len returns the byte length of the shaped text.
func (t *TextItem) Len() int { return len(t.Shaped.Text) }

// NaturalWidth returns the shaped run's width.
func (t *TextItem) NaturalWidth() Abs { return t.Shaped.Width() }

// AbsoluteItem is resolved absolute spacing (from a Relative spacing child).
type AbsoluteItem struct {
	Amount Abs
	// Weak spacing (e.g. from a paragraph break) may be dropped at a line
	// edge; the core does not drop it, callers that want that behavior
	// filter it before Collect.
	Weak bool
}

func (*AbsoluteItem) isItem() {}

// Len is always 1: spacing replaces one U+0020 in the buffer.
func (*AbsoluteItem) Len() int { return 1 }

// NaturalWidth returns the resolved spacing amount.
func (a *AbsoluteItem) NaturalWidth() Abs { return a.Amount }

// FractionalItem is unresolved fractional spacing, evaluated at commit time.
type FractionalItem struct {
	Amount layout.Fr
}

func (*FractionalItem) isItem() {}

// Len is always 1: spacing replaces one U+0020 in the buffer.
func (*FractionalItem) Len() int { return 1 }

// NaturalWidth is zero until commit resolves the fractional share.
func (*FractionalItem) NaturalWidth() Abs { return 0 }

// FrameItem is inline content pre-layouted to a frame. The style's
// BASELINE shift is already applied to the frame's contents at prepare
// time, so commit places the frame by its own baseline alone.
type FrameItem struct {
	Frame *layout.Frame
}

func (*FrameItem) isItem() {}

// Len is the UTF-8 length of U+FFFC (3 bytes), the buffer placeholder for
// inline content.
func (*FrameItem) Len() int { return 3 }

// NaturalWidth returns the embedded frame's width.
func (f *FrameItem) NaturalWidth() Abs { return Abs(f.Frame.Width()) }

// RepeatItem is a line-filling repeater: a distinguished inline child whose
// layout is deferred to commit time, once the line's free width is known.
type RepeatItem struct {
	Layout InlineLayouter
	Style  StyleChain
}

func (*RepeatItem) isItem() {}

// Len is the UTF-8 length of U+FFFC (3 bytes), the buffer placeholder for
// inline content.
func (*RepeatItem) Len() int { return 3 }

// NaturalWidth is zero until commit resolves how many copies fit.
func (*RepeatItem) NaturalWidth() Abs { return 0 }

// Dash classifies how a line's trailing dash arose.
type Dash int

const (
	// DashNone means the line does not end with a dash.
	DashNone Dash = iota
	// DashSoft is a soft hyphen inserted to break a word.
	DashSoft
	// DashHard is a literal hyphen or dash already present in the text.
	DashHard
)

// Line is a layouted line of inline items, produced by the breaker and
// consumed by Stack/Commit.
type Line struct {
	// Trimmed is the byte range spanning the line's content after
	// trailing-whitespace trim.
	Trimmed Range
	// End is the untrimmed end of the line, i.e. the break offset.
	End int
	// First, if non-nil, is the line's first item, reshaped on demand.
	First Item
	// Inner is a zero-copy slice of already-shaped middle items.
	Inner []Item
	// Last, if non-nil, is the line's last item, reshaped on demand.
	Last Item
	// Width is the line's natural layouted width.
	Width Abs
	// Justify is whether this line should be justified.
	Justify bool
	// Dash records whether/why the line ends with a hyphen.
	Dash Dash
}

// IsEmpty reports whether the line has no content at all.
func (l *Line) IsEmpty() bool {
	return l.First == nil && l.Last == nil && len(l.Inner) == 0
}

// Items returns the line's items in logical order: first, inner, last.
func (l *Line) Items() []Item {
	items := make([]Item, 0, len(l.Inner)+2)
	if l.First != nil {
		items = append(items, l.First)
	}
	items = append(items, l.Inner...)
	if l.Last != nil {
		items = append(items, l.Last)
	}
	return items
}

// Justifiables returns the number of glyphs where additional space can be
// inserted to justify the line.
func (l *Line) Justifiables() int {
	count := 0
	var lastText *ShapedText
	for _, item := range l.Items() {
		if ti, ok := item.(*TextItem); ok {
			count += ti.Shaped.Justifiables()
			lastText = ti.Shaped
		}
	}
	// A CJK character at the line's end should not be stretched.
	if lastText != nil && lastText.CJKJustifiableAtLast() {
		count--
	}
	if count < 0 {
		count = 0
	}
	return count
}

// Stretchability returns how much the line's justifiable glyphs can stretch.
func (l *Line) Stretchability() Abs {
	var total Abs
	for _, item := range l.Items() {
		if ti, ok := item.(*TextItem); ok {
			total += ti.Shaped.Stretchability()
		}
	}
	return total
}

// Shrinkability returns how much the line's glyphs can shrink.
func (l *Line) Shrinkability() Abs {
	var total Abs
	for _, item := range l.Items() {
		if ti, ok := item.(*TextItem); ok {
			total += ti.Shaped.Shrinkability()
		}
	}
	return total
}

// Fr returns the sum of fractional weights in the line (a Repeat item
// always contributes exactly 1, matching the "Repeat counts as 1" rule
// used when distributing justification).
func (l *Line) Fr() layout.Fr {
	var total layout.Fr
	for _, item := range l.Items() {
		switch it := item.(type) {
		case *FractionalItem:
			total += it.Amount
		case *RepeatItem:
			total += 1
		}
	}
	return total
}

// Costs holds the relative cost weights used by the optimized breaker. A
// weight of 1 keeps the breaker's built-in penalty; 0 disables it entirely.
type Costs struct {
	Hyphenation float64
}

// DefaultCosts returns the default cost weights.
func DefaultCosts() Costs {
	return Costs{Hyphenation: 1.0}
}

// LineBreaks selects the paragraph's line-breaking algorithm.
type LineBreaks int

const (
	// LineBreaksAuto resolves to Optimized iff the paragraph is justified,
	// else Simple.
	LineBreaksAuto LineBreaks = iota
	LineBreaksSimple
	LineBreaksOptimized
)

// Resolve turns LineBreaksAuto into a concrete choice given JUSTIFY.
func (lb LineBreaks) Resolve(justify bool) LineBreaks {
	if lb != LineBreaksAuto {
		return lb
	}
	if justify {
		return LineBreaksOptimized
	}
	return LineBreaksSimple
}

// Config is the resolved, paragraph-wide configuration the pipeline reads
// from the style chain once at the start of layout.
type Config struct {
	Justify    bool
	Linebreaks LineBreaks
	Indent     Abs
	Align      layout.Alignment
	FontSize   Abs
	// Leading is the extra vertical gap inserted between consecutive
	// lines' frames, on top of their own ascent/descent.
	Leading  Abs
	Dir      Dir
	Overhang bool
	Costs    Costs
}

// Preparation owns the paragraph's text buffer, the prepared items derived
// from it, and the style-chain-wide values shared across every child. It
// outlives every Line and breakpoint stream built from it; the breaker and
// line constructor only ever borrow from it.
type Preparation struct {
	// Text is the full buffer content.
	Text string
	// Items are the prepared items with their byte ranges, in buffer
	// order.
	Items []PreparedItem
	// Config is the resolved paragraph configuration.
	Config Config
	// SharedHyphenate, if non-nil, is the unanimous HYPHENATE value across
	// every child's style overlay.
	SharedHyphenate *bool
	// SharedLang, if non-nil, is the unanimous LANG value across every
	// child's style overlay.
	SharedLang *Lang
	// Bidi is the BiDi analysis of Text.
	Bidi *BidiInfo
}

// PreparedItem associates a byte range with a prepared Item.
type PreparedItem struct {
	Range Range
	Item  Item
}

// find returns the index of the item whose range contains offset, or the
// index of the last item if offset is exactly at the buffer's end. It
// returns -1 if no such item exists.
func (p *Preparation) find(offset int) int {
	for i, pi := range p.Items {
		if offset >= pi.Range.Start && offset < pi.Range.End {
			return i
		}
	}
	if len(p.Items) > 0 && offset == len(p.Text) {
		return len(p.Items) - 1
	}
	return -1
}

// Get returns the range and item covering the given byte offset.
func (p *Preparation) Get(offset int) (Range, Item) {
	i := p.find(offset)
	if i < 0 {
		return Range{}, nil
	}
	return p.Items[i].Range, p.Items[i].Item
}

// slice returns the smallest contiguous run of items whose combined buffer
// coverage includes [start, end), along with the buffer extent it actually
// spans (which may be wider than [start, end) since items aren't split).
func (p *Preparation) slice(start, end int) (expanded Range, items []PreparedItem) {
	if len(p.Items) == 0 {
		return Range{Start: start, End: end}, nil
	}
	lo := p.find(start)
	if lo < 0 {
		lo = 0
	}
	hi := lo
	if end > start {
		if i := p.find(end - 1); i >= 0 {
			hi = i
		}
	}
	for hi+1 < len(p.Items) && p.Items[hi].Range.End < end {
		hi++
	}
	items = p.Items[lo : hi+1]
	return Range{Start: items[0].Range.Start, End: items[len(items)-1].Range.End}, items
}
