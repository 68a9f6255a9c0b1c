package inline

import (
	"unicode/utf8"

	"github.com/go-text/typesetting/language"

	"github.com/boergens/parafmt/layout"
)

// preparer turns a collected Buffer into a Preparation: BiDi analysis over
// the whole buffer, then one pass over segments emitting shaped text runs
// split by BiDi level and script, resolved spacing, and laid-out inline
// content.
type preparer struct {
	buf    *Buffer
	shaper Shaper
	world  *layout.Regions
	items  []PreparedItem
	err    error
}

// PrepareOptions bundles the external collaborators Prepare needs beyond
// the collected buffer itself.
type PrepareOptions struct {
	Shaper  Shaper
	Regions *layout.Regions
	Config  Config
}

// Prepare runs BiDi analysis on buf.Text and walks buf.Segments, producing
// the Preparation the linebreaker and line constructor operate on. An error
// raised by nested inline content (InlineLayoutError, §7) propagates
// unchanged and aborts preparation.
func Prepare(buf *Buffer, opts PrepareOptions) (*Preparation, error) {
	if opts.Config.Costs == (Costs{}) {
		opts.Config.Costs = DefaultCosts()
	}

	baseDir := opts.Config.Dir
	bidiInfo := NewBidiInfo(buf.Text, baseDir)

	p := &preparer{buf: buf, shaper: opts.Shaper, world: opts.Regions}
	for _, seg := range buf.Segments {
		switch child := seg.Child.(type) {
		case nil:
			p.prepareText(seg, bidiInfo)
		case SpacingChild:
			p.prepareSpacing(seg, child)
		case InlineChild:
			p.prepareInline(seg, child)
		}
		if p.err != nil {
			return nil, p.err
		}
	}

	prep := &Preparation{
		Text:   buf.Text,
		Items:  p.items,
		Config: opts.Config,
		Bidi:   bidiInfo,
	}
	prep.SharedHyphenate, prep.SharedLang = sharedStyleValues(buf.Segments)
	return prep, nil
}

// prepareText walks the char boundaries of a text segment, tracking BiDi
// level and script, and emits one Text item per maximal run that shares
// both. Unknown/Common/Inherited scripts are generic and compatible with
// any specific script; a run's effective script upgrades from generic to
// specific on the first specific char it contains.
func (p *preparer) prepareText(seg segment, bidi *BidiInfo) {
	text := p.buf.Text
	runStart := seg.Range.Start
	if runStart >= seg.Range.End {
		return
	}

	runLevel := bidi.Level(runStart)
	runScript := language.Common
	runSpecific := false

	flush := func(end int) {
		if end <= runStart {
			return
		}
		p.emitTextRun(seg, runStart, end, runLevel)
		runStart = end
	}

	cursor := seg.Range.Start
	for cursor < seg.Range.End {
		r, size := decodeRune(text, cursor)
		level := bidi.Level(cursor)
		script := getScript(r)
		generic := isGenericScript(script)

		levelChanged := level != runLevel
		incompatible := false
		if !generic {
			if runSpecific && script != runScript {
				incompatible = true
			}
		}

		if levelChanged || incompatible {
			flush(cursor)
			runLevel = level
			runScript = language.Common
			runSpecific = false
		}
		if !generic {
			runScript = script
			runSpecific = true
		}
		cursor += size
	}
	flush(seg.Range.End)
}

func decodeRune(s string, i int) (rune, int) {
	return utf8.DecodeRuneInString(s[i:])
}

func isGenericScript(s language.Script) bool {
	return s == language.Common || s == language.Inherited || s == language.Unknown
}

// emitTextRun shapes [start, end) with direction resolved from level
// parity (LTR iff level is even) and appends the resulting Text item.
func (p *preparer) emitTextRun(seg segment, start, end int, level int8) {
	dir := DirLTR
	if level%2 != 0 {
		dir = DirRTL
	}
	lang, region := segmentLang(seg.Style)
	shaped := p.shaper.Shape(start, p.buf.Text[start:end], dir, lang, region)
	hyphenate := seg.Style != nil && seg.Style.Hyphenate()
	p.items = append(p.items, PreparedItem{
		Range: Range{Start: start, End: end},
		Item:  &TextItem{Shaped: shaped, Hyphenate: hyphenate},
	})
}

func segmentLang(style StyleChain) (Lang, *Region) {
	if style == nil {
		return "", nil
	}
	return style.Lang()
}

// prepareSpacing resolves relative spacing against the available width, or
// passes fractional spacing through unresolved.
func (p *preparer) prepareSpacing(seg segment, child SpacingChild) {
	if child.Fractional != nil {
		p.items = append(p.items, PreparedItem{
			Range: seg.Range,
			Item:  &FractionalItem{Amount: *child.Fractional},
		})
		return
	}
	var base layout.Abs
	if p.world != nil {
		base = p.world.Base.Width
	}
	amount := child.Amount.Resolve(base)
	p.items = append(p.items, PreparedItem{
		Range: seg.Range,
		Item:  &AbsoluteItem{Amount: toAbs(amount)},
	})
}

// prepareInline either defers to commit time (a Repeat) or lays the child
// out immediately into a non-expanding pod region sized to the available
// first-line width, baseline-shifting the resulting frame.
func (p *preparer) prepareInline(seg segment, child InlineChild) {
	if child.Repeat {
		p.items = append(p.items, PreparedItem{
			Range: seg.Range,
			Item:  &RepeatItem{Layout: child.Layout, Style: child.Style},
		})
		return
	}

	var podSize layout.Size
	if p.world != nil {
		podSize = layout.Size{Width: p.world.First.Width, Height: p.world.Base.Height}
	}
	pod := layout.NewRegions(podSize)
	pod.Expand = layout.Axes[bool]{X: false, Y: false}

	frag, err := child.Layout.LayoutInline(pod, child.Style)
	if err != nil {
		p.err = err
		return
	}
	if len(frag) == 0 {
		p.items = append(p.items, PreparedItem{
			Range: seg.Range,
			Item:  &FrameItem{Frame: layout.NewFrame(layout.Size{})},
		})
		return
	}

	frame := frag[0]
	if child.Style != nil {
		frame.Translate(layout.Point{X: 0, Y: toLayoutAbs(child.Style.Baseline())})
	}

	p.items = append(p.items, PreparedItem{
		Range: seg.Range,
		Item:  &FrameItem{Frame: frame},
	})
}

// sharedStyleValues returns the unanimous HYPHENATE/LANG values across
// every text segment's style, or nil if any disagrees (or carries no style
// at all). Spacing and inline segments have no text of their own and don't
// count against unanimity.
func sharedStyleValues(segments []segment) (*bool, *Lang) {
	var hyph *bool
	var lang *Lang
	first := true

	for _, seg := range segments {
		if seg.Style == nil {
			if seg.Child != nil {
				continue
			}
			return nil, nil
		}
		h := seg.Style.Hyphenate()
		l, _ := seg.Style.Lang()

		if first {
			hyph = &h
			lang = &l
			first = false
			continue
		}
		if hyph == nil || *hyph != h {
			hyph = nil
		}
		if lang == nil || *lang != l {
			lang = nil
		}
	}
	return hyph, lang
}
