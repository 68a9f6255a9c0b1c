package inline

import (
	"github.com/boergens/parafmt/layout"
)

// toLayoutAbs converts a shaping-time length to the output frame's length
// unit. The two are numerically identical (both points); the conversion
// exists to keep the two packages' units from being silently interchanged
// everywhere else.
func toLayoutAbs(a Abs) layout.Abs { return layout.Abs(float64(a)) }

// toAbs is the inverse of toLayoutAbs.
func toAbs(a layout.Abs) Abs { return Abs(float64(a)) }

// toLayoutDir maps a resolved paragraph direction onto layout's direction
// enum, which also carries the vertical directions layout.HAlign.Position
// doesn't care about here.
func toLayoutDir(d Dir) layout.Dir {
	if d == DirRTL {
		return layout.DirRTL
	}
	return layout.DirLTR
}

// Stack determines the paragraph's width and flows its lines into frames
// across the given regions, one frame per region, advancing to the next
// region whenever a line no longer fits the current one's remaining
// height. Between lines within a region, leading is added as vertical gap.
func Stack(p *Preparation, lines []Line, regions *layout.Regions) (layout.Fragment, error) {
	width := paragraphWidth(p, lines, regions)
	leading := toLayoutAbs(p.Config.Leading)

	var frames layout.Fragment
	region := regions.Clone()
	frame := layout.NewFrame(layout.Size{Width: width, Height: 0})
	first := true

	for i := range lines {
		lineFrame, err := Commit(p, &lines[i], width, toAbs(region.Base.Height))
		if err != nil {
			return nil, err
		}
		height := lineFrame.Height()

		for height > region.First.Height && region.CanBreak() && !region.InLast() {
			frames = append(frames, frame)
			frame = layout.NewFrame(layout.Size{Width: width, Height: 0})
			region.Next()
			first = true
		}

		y := frame.Height()
		if !first {
			y += leading
		}
		frame.SetSize(layout.Size{Width: width, Height: y + height})
		frame.Push(layout.Point{X: 0, Y: y}, &layout.GroupItem{Frame: lineFrame})

		region.First.Height -= height + leading
		first = false
	}

	frames = append(frames, frame)
	return frames, nil
}

// paragraphWidth is the full region width if expansion is requested or any
// line carries fractional spacing, otherwise the widest line's natural
// width.
func paragraphWidth(p *Preparation, lines []Line, regions *layout.Regions) layout.Abs {
	if regions.Expand.X {
		return regions.First.Width
	}

	var maxWidth layout.Abs
	anyFr := false
	for _, line := range lines {
		if w := toLayoutAbs(line.Width); w > maxWidth {
			maxWidth = w
		}
		if line.Fr() != 0 {
			anyFr = true
		}
	}
	if anyFr {
		return regions.First.Width
	}
	return maxWidth
}

// Commit builds a single line's frame: reorders it into visual order,
// resolves hanging punctuation, distributes justification and fractional
// shares, and positions every item.
func Commit(p *Preparation, line *Line, width layout.Abs, baseHeight Abs) (*layout.Frame, error) {
	remaining := width - toLayoutAbs(line.Width)
	var offset layout.Abs

	items := Reorder(p, line)

	applyHangingPunctuation(p, items, &offset, &remaining)

	fr := line.Fr()
	var justification layout.Abs
	if remaining < 0 || (line.Justify && fr == 0) {
		if j := line.Justifiables(); j > 0 {
			justification = remaining / layout.Abs(j)
			remaining = 0
		}
	}

	type placed struct {
		offset   layout.Abs
		baseline layout.Abs
		frame    *layout.Frame
	}
	var placements []placed
	var top, bottom layout.Abs

	note := func(baseline layout.Abs, f *layout.Frame) {
		b := baseline
		d := f.Height() - b
		if b > top {
			top = b
		}
		if d > bottom {
			bottom = d
		}
	}

	for _, item := range items {
		switch it := item.(type) {
		case *AbsoluteItem:
			offset += toLayoutAbs(it.Amount)
		case *FractionalItem:
			offset += it.Amount.Share(fr, remaining)
		case *TextItem:
			frame := buildTextFrame(it.Shaped, justification)
			note(frame.Baseline(), frame)
			placements = append(placements, placed{offset, frame.Baseline(), frame})
			offset += frame.Width()
		case *FrameItem:
			note(it.Frame.Baseline(), it.Frame)
			placements = append(placements, placed{offset, it.Frame.Baseline(), it.Frame})
			offset += it.Frame.Width()
		case *RepeatItem:
			before := offset
			fill := layout.Fr(1).Share(fr, remaining)
			repeated, w, count, apart := buildRepeats(it, fill, baseHeight)
			if count == 1 && w > 0 {
				rem := fill - w
				offset += p.Config.Align.X.Position(rem, toLayoutDir(p.Config.Dir))
			}
			for i, rf := range repeated {
				if i > 0 {
					offset += apart
				}
				note(rf.Baseline(), rf)
				placements = append(placements, placed{offset, rf.Baseline(), rf})
				offset += w
			}
			offset = before + fill
		}
	}

	if fr != 0 {
		remaining = 0
	}

	frame := layout.NewFrame(layout.Size{Width: width, Height: top + bottom})
	frame.SetBaseline(top)
	alignOffset := p.Config.Align.X.Position(remaining, toLayoutDir(p.Config.Dir))

	for _, pl := range placements {
		x := pl.offset + alignOffset
		y := top - pl.baseline
		frame.Push(layout.Point{X: x, Y: y}, &layout.GroupItem{Frame: pl.frame})
	}

	return frame, nil
}

// applyHangingPunctuation lets the first/last glyph of a line hang into
// the margin when it is a dash, comma, stop, or similar, per the
// configured overhang table.
func applyHangingPunctuation(p *Preparation, items []Item, offset, remaining *layout.Abs) {
	if !p.Config.Overhang {
		return
	}
	if ti, ok := firstTextItem(items); ok {
		glyphs := ti.Shaped.Glyphs.Kept()
		if len(glyphs) > 0 && !ti.Shaped.Dir.IsPositive() && (len(items) > 1 || len(glyphs) > 1) {
			g := &glyphs[0]
			amount := toLayoutAbs(Abs(overhang(g.Char)) * g.XAdvance.At(g.Size))
			*offset -= amount
			*remaining += amount
		}
	}
	if ti, ok := lastTextItem(items); ok {
		glyphs := ti.Shaped.Glyphs.Kept()
		if len(glyphs) > 0 && ti.Shaped.Dir.IsPositive() && (len(items) > 1 || len(glyphs) > 1) {
			g := &glyphs[len(glyphs)-1]
			amount := toLayoutAbs(Abs(overhang(g.Char)) * g.XAdvance.At(g.Size))
			*remaining += amount
		}
	}
}

func firstTextItem(items []Item) (*TextItem, bool) {
	if len(items) == 0 {
		return nil, false
	}
	ti, ok := items[0].(*TextItem)
	return ti, ok
}

func lastTextItem(items []Item) (*TextItem, bool) {
	if len(items) == 0 {
		return nil, false
	}
	ti, ok := items[len(items)-1].(*TextItem)
	return ti, ok
}

// overhang returns the hanging-punctuation factor for a character, scaled
// against its own advance width.
func overhang(c rune) float64 {
	switch c {
	case '–', '—':
		return 0.2
	case '-':
		return 0.55
	case '.', ',':
		return 0.8
	case ':', ';':
		return 0.3
	case '،', '۔':
		return 0.4
	case '、', '。':
		return 1.0
	default:
		return 0
	}
}

// buildTextFrame realizes a shaped run to a frame, distributing the given
// per-glyph justification width across justifiable glyphs.
func buildTextFrame(shaped *ShapedText, justification layout.Abs) *layout.Frame {
	var width layout.Abs
	var size layout.Abs
	var glyphs []layout.Glyph

	for _, g := range shaped.Glyphs.Kept() {
		em := layout.Em(float64(g.XAdvance))
		advance := toLayoutAbs(g.XAdvance.At(g.Size))
		if g.IsJustifiable && g.Size != 0 {
			em += layout.Em(float64(justification) / float64(g.Size))
			advance += justification
		}
		glyphs = append(glyphs, layout.Glyph{
			ID:       g.GlyphID,
			XAdvance: em,
			XOffset:  layout.Em(float64(g.XOffset)),
			YOffset:  layout.Em(float64(g.YOffset)),
		})
		width += advance
		if s := toLayoutAbs(g.Size); s > size {
			size = s
		}
	}

	height := size * 1.2
	baseline := size

	frame := layout.NewFrame(layout.Size{Width: width, Height: height})
	frame.SetBaseline(baseline)
	frame.Push(layout.Point{}, &layout.TextItem{Glyphs: glyphs, Size: size, Style: shaped.Variant})
	return frame
}

// buildRepeats lays a repeater out once, then returns the frames needed to
// tile it across a fill width: as many copies as fit (count = floor(fill/w)),
// spaced apart by the leftover (rem = fill mod w) divided across the gaps
// between them, capped at 1000 pushed copies as a denial-of-service guard
// against a zero/near-zero-width repeater.
func buildRepeats(item *RepeatItem, fill layout.Abs, baseHeight Abs) (frames []*layout.Frame, w layout.Abs, count int, apart layout.Abs) {
	if item.Layout == nil || fill <= 0 {
		return nil, 0, 0, 0
	}
	pod := layout.NewRegions(layout.Size{Width: fill, Height: toLayoutAbs(baseHeight)})
	pod.Expand = layout.Axes[bool]{X: false, Y: false}
	frag, err := item.Layout.LayoutInline(pod, item.Style)
	if err != nil || len(frag) == 0 || frag[0].Width() <= 0 {
		return nil, 0, 0, 0
	}

	w = frag[0].Width()
	count = int(fill / w)
	if count < 1 {
		return nil, w, 0, 0
	}
	rem := fill - layout.Abs(count)*w
	if count > 1 {
		apart = rem / layout.Abs(count-1)
	}

	capped := count
	if capped > 1000 {
		capped = 1000
	}
	frames = make([]*layout.Frame, capped)
	for i := range frames {
		frames[i] = frag[0]
	}
	return frames, w, count, apart
}
