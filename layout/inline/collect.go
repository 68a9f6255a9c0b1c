package inline

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/boergens/parafmt/layout"
)

// Child is one element of a paragraph's content, as handed to Collect. It
// mirrors the four paragraph child variants: Text, Quote, Spacing, Inline.
type Child interface {
	isChild()
}

// TextChild is a run of literal text styled uniformly by Style.
type TextChild struct {
	Text  string
	Style StyleChain
}

func (TextChild) isChild() {}

// QuoteChild is a naive quote character (' or ") to be resolved to a
// typographic open or close quote, or passed through unchanged, depending
// on the style's SmartQuotes setting and the surrounding context.
type QuoteChild struct {
	Double bool
	Style  StyleChain
}

func (QuoteChild) isChild() {}

// SpacingChild is either relative (resolved against the region width plus
// an absolute part) or fractional spacing.
type SpacingChild struct {
	// Amount is the relative part; Abs is added unconditionally and Rel is
	// scaled by the available width. Fractional is set instead when this
	// spacing should fill remaining line width.
	Amount     layout.Relative
	Fractional *layout.Fr
}

func (SpacingChild) isChild() {}

// InlineChild is an embedded inline layout node: an arbitrary piece of
// content laid out via InlineLayouter, or (when Repeat is true) a
// line-filling repeater.
type InlineChild struct {
	Layout InlineLayouter
	Style  StyleChain
	Repeat bool
}

func (InlineChild) isChild() {}

// segment is one (text, style) pair in the collected buffer, the unit
// Prepare iterates over.
type segment struct {
	Range Range
	Style StyleChain
	// spacing/inline segments carry their originating Child so Prepare can
	// resolve or lay them out; nil for plain text segments.
	Child Child
}

// Buffer is the result of Collect: a single text buffer alongside the
// (style-coalesced) segments it is divided into, satisfying I1 (segment
// lengths sum to the buffer length) and I2 (every offset is a char
// boundary, guaranteed here since only whole runes are ever appended).
type Buffer struct {
	Text     string
	Segments []segment
}

// collector accumulates buffer text and segments across a Collect call,
// coalescing adjacent text segments whose style compares equal so Prepare
// sees the longest runs a style boundary allows.
type collector struct {
	sb       strings.Builder
	segments []segment
	quoter   quoter
}

// Collect flattens a paragraph's children into a single text buffer and
// style-tagged segment sequence, applying case transforms and smart-quote
// substitution as it goes.
func Collect(children []Child) *Buffer {
	c := &collector{}
	for i, child := range children {
		switch ch := child.(type) {
		case TextChild:
			c.pushText(ch.Text, ch.Style)
		case QuoteChild:
			peeked, peekedOK := peekChild(children, i+1)
			c.pushQuote(ch, peeked, peekedOK)
		case SpacingChild:
			c.pushPlaceholder(' ', &ch, nil)
		case InlineChild:
			c.pushPlaceholder('￼', nil, &ch)
		}
	}
	return &Buffer{Text: c.sb.String(), Segments: c.segments}
}

// peekChild returns the first rune the child at idx will contribute to the
// buffer (the quote resolver's lookahead), or (0, false) past the end.
func peekChild(children []Child, idx int) (rune, bool) {
	if idx >= len(children) {
		return 0, false
	}
	switch ch := children[idx].(type) {
	case TextChild:
		r, size := utf8.DecodeRuneInString(ch.Text)
		if size == 0 {
			return peekChild(children, idx+1)
		}
		return r, true
	case QuoteChild:
		return '"', true
	case SpacingChild:
		return ' ', true
	case InlineChild:
		return '￼', true
	default:
		return 0, false
	}
}

func (c *collector) pushText(text string, style StyleChain) {
	if text == "" {
		return
	}
	transformed := applyCase(text, style)
	start := c.sb.Len()
	c.sb.WriteString(transformed)
	end := c.sb.Len()

	if n := len(c.segments); n > 0 {
		last := &c.segments[n-1]
		if last.Child == nil && last.Style != nil && style != nil && last.Style.Equal(style) && last.Range.End == start {
			last.Range.End = end
			return
		}
	}
	c.segments = append(c.segments, segment{Range: Range{Start: start, End: end}, Style: style})
}

func (c *collector) pushQuote(q QuoteChild, peeked rune, peekedOK bool) {
	var r rune
	if q.Style != nil && q.Style.SmartQuotes() {
		lang, region := q.Style.Lang()
		quotes := quotesFromLang(lang, region)
		prev, ok := c.lastRune()
		r = c.quoter.resolve(quotes, q.Double, prev, ok, peeked, peekedOK)
	} else if q.Double {
		r = '"'
	} else {
		r = '\''
	}
	c.pushText(string(r), q.Style)
}

// pushPlaceholder appends a single-rune buffer placeholder (a space for
// spacing, U+FFFC for inline content) as its own segment, carrying the
// originating Child for Prepare to resolve.
func (c *collector) pushPlaceholder(r rune, spacing *SpacingChild, inline *InlineChild) {
	start := c.sb.Len()
	c.sb.WriteRune(r)
	end := c.sb.Len()

	seg := segment{Range: Range{Start: start, End: end}}
	switch {
	case spacing != nil:
		sc := *spacing
		seg.Child = sc
	case inline != nil:
		ic := *inline
		seg.Child = ic
	}
	c.segments = append(c.segments, seg)
}

// lastRune returns the last full grapheme cluster's representative rune
// already written to the buffer, so a combining mark trailing an opening
// bracket doesn't itself get mistaken for "not an opening bracket" by the
// quoter.
func (c *collector) lastRune() (rune, bool) {
	text := c.sb.String()
	if text == "" {
		return 0, false
	}

	state := -1
	var lastCluster string
	for len(text) > 0 {
		var cluster string
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
		lastCluster = cluster
	}
	r, _ := utf8.DecodeLastRuneInString(lastCluster)
	return r, true
}

// applyCase transforms text per the style's Case setting.
func applyCase(text string, style StyleChain) string {
	if style == nil {
		return text
	}
	switch style.Case() {
	case CaseUpper:
		return strings.ToUpper(text)
	case CaseLower:
		return strings.ToLower(text)
	default:
		return text
	}
}

// quoter is a minimal smart-quote state machine: it decides between an
// opening and closing typographic quote from the preceding buffer rune
// (nothing, whitespace, or an opening bracket means "open") and, when that
// leaves it ambiguous (a quote preceded by whitespace, which could open a
// quoted span or close one abutting a word with trailing space trimmed
// elsewhere), from the following rune it peeked at the next child. The
// actual glyphs returned come from the locale's own quote pair
// (quotesFromLang), not a single hardcoded pair.
type quoter struct{}

const (
	singleOpen  = '‘'
	singleClose = '’'
	doubleOpen  = '“'
	doubleClose = '”'
)

func (quoter) resolve(quotes localeQuotes, double bool, prev rune, prevOK bool, peeked rune, peekedOK bool) rune {
	var opens bool
	switch {
	case !prevOK || isOpeningBracket(prev):
		opens = true
	case unicode.IsSpace(prev):
		// Ambiguous from the left alone; an immediately following space,
		// closing punctuation, or end of text reads as a closing quote
		// hugging the previous word (e.g. a quoted span's final word).
		opens = peekedOK && !unicode.IsSpace(peeked) && !isClosingPunct(peeked)
	default:
		opens = false
	}
	pair := quotes.Single
	if double {
		pair = quotes.Double
	}
	if opens {
		return pair.Open
	}
	return pair.Close
}

func isOpeningBracket(r rune) bool {
	switch r {
	case '(', '[', '{', '‘', '“':
		return true
	default:
		return false
	}
}

func isClosingPunct(r rune) bool {
	switch r {
	case ')', ']', '}', '.', ',', ';', ':', '!', '?':
		return true
	default:
		return false
	}
}
