package inline

import (
	"bufio"
	"strings"
	"unicode"

	"github.com/npillmayer/uax"
	uaxsegment "github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax14"
)

// Breakpoint is one candidate line-end offset: the byte offset past the
// break, whether it is a mandatory (hard) break, and whether taking it
// requires inserting a hyphen.
type Breakpoint struct {
	Offset    int
	Mandatory bool
	Hyphen    bool
}

// breakpointStream lazily interleaves UAX #14 line-break opportunities
// with hyphenation syllable breaks found within each word.
type breakpointStream struct {
	prep       *Preparation
	hyphenator Hyphenator

	segmenter *uaxsegment.Segmenter
	wordStart int

	pending []Breakpoint
	emitted int
	done    bool
}

// NewBreakpoints returns a lazy stream of breakpoints over the
// preparation's text, gated by per-item HYPHENATE and language resolution.
func NewBreakpoints(prep *Preparation, hyphenator Hyphenator) *breakpointStream {
	linewrap := uax14.NewLineWrap()
	segmenter := uaxsegment.NewSegmenter(linewrap)
	segmenter.Init(bufio.NewReader(strings.NewReader(prep.Text)))
	return &breakpointStream{prep: prep, hyphenator: hyphenator, segmenter: segmenter}
}

// Next returns the next breakpoint in the stream, or false once the text is
// exhausted. The end of text is always a breakpoint: if the segmenter's
// last boundary doesn't reach it (or carries no break penalty), a final
// mandatory breakpoint is emitted as a backstop.
func (s *breakpointStream) Next() (Breakpoint, bool) {
	for len(s.pending) == 0 {
		if !s.segmenter.Next() {
			if n := len(s.prep.Text); !s.done && n > 0 && s.emitted < n {
				s.done = true
				s.emitted = n
				return Breakpoint{Offset: n, Mandatory: true}, true
			}
			s.done = true
			return Breakpoint{}, false
		}
		penalty, _ := s.segmenter.Penalties()
		frag := string(s.segmenter.Bytes())
		wordStart := s.wordStart
		wordEnd := wordStart + len(frag)
		s.wordStart = wordEnd

		mandatory := penalty == uax14.PenaltyForMustBreak
		hasBreak := penalty < uax.InfinitePenalty
		if !hasBreak {
			continue
		}

		s.pending = s.hyphenatedBreaks(wordStart, wordEnd, frag, mandatory)
	}

	bp := s.pending[0]
	s.pending = s.pending[1:]
	s.emitted = bp.Offset
	return bp, true
}

// hyphenatedBreaks returns the breakpoints a single UAX #14 word
// contributes: zero or more hyphenation syllable breaks followed by the
// word's own end (non-hyphenated, carrying the word's mandatory flag).
// Every syllable break is gated individually, since a word may span items
// whose styles disagree on HYPHENATE.
func (s *breakpointStream) hyphenatedBreaks(start, end int, word string, mandatory bool) []Breakpoint {
	wordEnd := Breakpoint{Offset: end, Mandatory: mandatory}
	trimmed := rightTrimNonAlpha(word)
	if s.hyphenator == nil || len(trimmed) == 0 {
		return []Breakpoint{wordEnd}
	}
	if s.prep.SharedHyphenate != nil && !*s.prep.SharedHyphenate {
		return []Breakpoint{wordEnd}
	}
	lang, region, ok := s.langAt(start)
	if !ok {
		return []Breakpoint{wordEnd}
	}

	out := []Breakpoint{}
	for _, cut := range s.hyphenator.Hyphenate(trimmed, lang, region) {
		if cut <= 0 || cut >= len(trimmed) {
			continue
		}
		if !s.hyphenateAt(start + cut) {
			continue
		}
		out = append(out, Breakpoint{Offset: start + cut, Hyphen: true})
	}
	return append(out, wordEnd)
}

func rightTrimNonAlpha(word string) string {
	end := len(word)
	for end > 0 {
		r, size := decodeLastRune(word[:end])
		if unicode.IsLetter(r) {
			break
		}
		end -= size
	}
	return word[:end]
}

func decodeLastRune(s string) (rune, int) {
	if s == "" {
		return 0, 0
	}
	for i := len(s) - 1; i >= 0; i-- {
		if utf8RuneStart(s[i]) {
			r, size := decodeRune(s, i)
			return r, size
		}
	}
	return rune(s[len(s)-1]), 1
}

func utf8RuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// hyphenateAt reports whether hyphenation is enabled at a byte offset: the
// paragraph's unanimous shared value if there is one, else the HYPHENATE
// value of the item containing the offset, else false.
func (s *breakpointStream) hyphenateAt(offset int) bool {
	if s.prep.SharedHyphenate != nil {
		return *s.prep.SharedHyphenate
	}
	_, item := s.prep.Get(offset)
	ti, ok := item.(*TextItem)
	return ok && ti.Hyphenate
}

// langAt resolves the hyphenation language at a byte offset: the shared
// paragraph language if unanimous, else the language of the shaped text
// item containing the offset. An empty language disables hyphenation.
func (s *breakpointStream) langAt(offset int) (Lang, *Region, bool) {
	if s.prep.SharedLang != nil && *s.prep.SharedLang != "" {
		var region *Region
		if _, item := s.prep.Get(offset); item != nil {
			if ti, ok := item.(*TextItem); ok {
				region = ti.Shaped.Region
			}
		}
		return *s.prep.SharedLang, region, true
	}
	_, item := s.prep.Get(offset)
	ti, ok := item.(*TextItem)
	if !ok || ti.Shaped.Lang == "" {
		return "", nil, false
	}
	return ti.Shaped.Lang, ti.Shaped.Region, true
}
