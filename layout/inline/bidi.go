package inline

import (
	"sort"
	"unicode/utf8"

	"golang.org/x/text/unicode/bidi"
)

// bidiParagraph is one maximal run of text between hard paragraph
// separators, as UAX #9 defines a paragraph for embedding-level purposes.
// The paragraph layout engine's own "paragraph" (a single call to Collect)
// may itself span hard line breaks, each of which restarts BiDi paragraph
// numbering.
//
// bidi.Paragraph addresses text in runes, not bytes, so runeByteOffsets
// records the byte offset (relative to Range.Start) of every rune in this
// sub-paragraph's text, letting VisualRuns translate freely between the
// byte offsets the rest of the pipeline uses and the rune offsets the
// bidi package expects. It carries one extra trailing entry equal to the
// sub-paragraph's byte length.
type bidiParagraph struct {
	Range           Range
	para            *bidi.Paragraph
	runeByteOffsets []int
}

// BidiInfo is the UAX #9 analysis of a paragraph's text buffer: the
// per-byte embedding direction flag and the sub-paragraphs a mandatory
// break split the buffer into. Built once by Prepare and shared by
// reference for the rest of the pipeline.
//
// golang.org/x/text/unicode/bidi deliberately keeps the resolved numeric
// embedding level private; its public surface only exposes, per run, a
// Direction (LeftToRight/RightToLeft/Neutral). levels therefore stores
// that direction as a 0 (LTR) / 1 (RTL) flag rather than a true level, and
// every comparison against it (Level, VisualRuns) is direction parity,
// not level equality — this is still enough to tell a shaped run's
// direction apart from its line-committed direction, which is the only
// thing an L1-reset mismatch actually needs to detect.
type BidiInfo struct {
	text       string
	baseDir    Dir
	levels     []int8
	paragraphs []bidiParagraph
}

// NewBidiInfo runs BiDi analysis over text. baseDir fixes the paragraph
// embedding direction; DirAuto lets the analyzer decide per UAX #9 rule
// P2/P3 from the text's first strong character.
func NewBidiInfo(text string, baseDir Dir) *BidiInfo {
	info := &BidiInfo{
		text:   text,
		levels: make([]int8, len(text)),
	}

	opts := []bidi.Option{}
	switch baseDir {
	case DirLTR:
		opts = append(opts, bidi.DefaultDirection(bidi.LeftToRight))
	case DirRTL:
		opts = append(opts, bidi.DefaultDirection(bidi.RightToLeft))
	}

	start := 0
	for start <= len(text) {
		end := nextHardBreak(text, start)
		sub := text[start:end]
		offsets := runeByteOffsets(sub)

		para := &bidi.Paragraph{}
		para.SetString(sub, opts...)

		// Order() treats the whole sub-paragraph as a single line (the
		// same convention it documents internally), giving the
		// "effective" direction each run is shaped with, before the real
		// line breaks (and any L1 trailing-separator reset they trigger)
		// are known.
		ordering, err := para.Order()
		if err != nil {
			fill(info.levels, start, end, dirDefaultLevel(baseDir))
		} else {
			fillLevelsFromOrdering(info.levels, start, offsets, ordering, dirDefaultLevel(baseDir))
		}

		info.paragraphs = append(info.paragraphs, bidiParagraph{
			Range:           Range{Start: start, End: end},
			para:            para,
			runeByteOffsets: offsets,
		})

		if end >= len(text) {
			break
		}
		start = end
	}

	info.baseDir = baseDir
	return info
}

func fill(levels []int8, start, end int, level int8) {
	for b := start; b < end; b++ {
		levels[b] = level
	}
}

// fillLevelsFromOrdering assigns every byte in [start, start+offsets-span)
// the direction flag of the run that covers it, translating Ordering's
// rune-indexed, inclusive-end Run.Pos() into the byte range it spans.
func fillLevelsFromOrdering(levels []int8, start int, offsets []int, ordering bidi.Ordering, fallback int8) {
	lastRune := len(offsets) - 1
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		lo, hiInclusive := run.Pos()
		hi := hiInclusive + 1
		if lo < 0 {
			lo = 0
		}
		if hi > lastRune {
			hi = lastRune
		}
		if lo >= hi {
			continue
		}
		level := fallback
		if run.Direction() == bidi.LeftToRight {
			level = 0
		} else if run.Direction() == bidi.RightToLeft {
			level = 1
		}
		fill(levels, start+offsets[lo], start+offsets[hi], level)
	}
}

func dirDefaultLevel(dir Dir) int8 {
	if dir == DirRTL {
		return 1
	}
	return 0
}

// runeByteOffsets returns the byte offset of every rune in s, plus a
// trailing entry equal to len(s), so rune index i spans bytes
// [offsets[i], offsets[i+1]).
func runeByteOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := 0; i < len(s); {
		offsets = append(offsets, i)
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			size = 1
		}
		i += size
	}
	offsets = append(offsets, len(s))
	return offsets
}

// runeIndexForByte returns the rune index whose span starts at the given
// byte offset (relative to the same sub-paragraph offsets was built
// from). Callers only ever pass char-boundary offsets (I2), so this is an
// exact lookup, not an approximation.
func runeIndexForByte(offsets []int, byteOffset int) int {
	i := sort.Search(len(offsets), func(i int) bool { return offsets[i] >= byteOffset })
	if i >= len(offsets) {
		i = len(offsets) - 1
	}
	return i
}

// nextHardBreak returns the end of the BiDi paragraph starting at start: the
// byte offset just past the first U+000A (LF) at or after start, or
// len(text) if there is none. The paragraph layout engine only ever sees
// text from a single block-level paragraph, so LF is the sole separator it
// needs to recognize (UAX #9's fuller paragraph-separator set is a
// superset that does not otherwise occur in prepared buffers).
func nextHardBreak(text string, start int) int {
	for i := start; i < len(text); i++ {
		if text[i] == '\n' {
			return i + 1
		}
	}
	return len(text)
}

// Level returns the embedding direction flag (0 LTR, 1 RTL) at a byte
// offset, as resolved over the whole BiDi sub-paragraph.
func (b *BidiInfo) Level(offset int) int8 {
	if offset < 0 || offset >= len(b.levels) {
		if offset == len(b.levels) && offset > 0 {
			return b.levels[offset-1]
		}
		return dirDefaultLevel(b.baseDir)
	}
	return b.levels[offset]
}

// ParagraphAt returns the index of the BiDi sub-paragraph containing offset.
func (b *BidiInfo) ParagraphAt(offset int) int {
	for i, p := range b.paragraphs {
		if offset >= p.Range.Start && offset < p.Range.End {
			return i
		}
	}
	if len(b.paragraphs) > 0 {
		return len(b.paragraphs) - 1
	}
	return -1
}

// VisualRun is one maximal, single-direction, contiguous-in-source run
// within a requested range, in left-to-right visual order.
type VisualRun struct {
	Range Range
	Level int8
}

// VisualRuns returns the visual runs covering byteRange within the BiDi
// sub-paragraph at paragraph index, in visual (left-to-right display)
// order.
//
// The ordering comes from (*bidi.Paragraph).Line(runeStart, runeEnd),
// scoped to exactly this line rather than the whole sub-paragraph, so
// UAX #9's L1 rule (resetting trailing whitespace/separators to the
// paragraph level at the line's end) is applied the way it would be for a
// real committed line, not just approximated by clipping a
// whole-paragraph Order() result.
//
// A run's Level is that same run's Direction(), reduced to the package's
// only public 0 (LTR) / 1 (RTL) distinction — golang.org/x/text/unicode/bidi
// exposes no numeric embedding level, so there is nothing finer to carry.
// Crucially this is computed from the line-scoped Line() ordering, not
// re-derived by clipping the whole-paragraph one, so Reorder's comparison
// against BidiInfo.Level (computed from the whole-paragraph Order())
// correctly flags only a genuine L1-driven direction change at the line's
// edge; a run nested arbitrarily deep (e.g. LTR digits inside RTL text)
// still resolves to the correct LTR/RTL flag at both ends of that
// comparison, so it is never spuriously dropped.
func (b *BidiInfo) VisualRuns(paragraph int, byteRange Range) []VisualRun {
	if paragraph < 0 || paragraph >= len(b.paragraphs) {
		return nil
	}
	p := &b.paragraphs[paragraph]

	localLen := p.Range.End - p.Range.Start
	localStart := byteRange.Start - p.Range.Start
	localEnd := byteRange.End - p.Range.Start
	if localStart < 0 {
		localStart = 0
	}
	if localEnd > localLen {
		localEnd = localLen
	}
	if localStart >= localEnd {
		return nil
	}

	runeStart := runeIndexForByte(p.runeByteOffsets, localStart)
	runeEnd := runeIndexForByte(p.runeByteOffsets, localEnd)

	ordering, err := p.para.Line(runeStart, runeEnd)
	if err != nil {
		return []VisualRun{{Range: byteRange, Level: b.Level(byteRange.Start)}}
	}

	var runs []VisualRun
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		// Run.Pos returns an inclusive end rune index, not the usual
		// Go exclusive-end convention, and positions relative to the
		// range Line() was called with.
		lo, hiInclusive := run.Pos()
		absRuneLo := runeStart + lo
		absRuneHi := runeStart + hiInclusive + 1

		startByte := p.Range.Start + p.runeByteOffsets[absRuneLo]
		endByte := p.Range.Start + p.runeByteOffsets[absRuneHi]
		if startByte < byteRange.Start {
			startByte = byteRange.Start
		}
		if endByte > byteRange.End {
			endByte = byteRange.End
		}
		if startByte >= endByte {
			continue
		}

		level := int8(0)
		if run.Direction() == bidi.RightToLeft {
			level = 1
		}

		runs = append(runs, VisualRun{Range: Range{Start: startByte, End: endByte}, Level: level})
	}
	return runs
}

// Paragraph returns the sub-paragraph's BiDi analyzer, for shaping code
// (ShapeRange) that needs the underlying *bidi.Paragraph directly.
func (b *BidiInfo) Paragraph(index int) *bidi.Paragraph {
	if index < 0 || index >= len(b.paragraphs) {
		return nil
	}
	return b.paragraphs[index].para
}
