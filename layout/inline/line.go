package inline

import (
	"strings"
	"unicode"
)

// zeroWidthSpace marks a hyphenation-only break point within a word; it
// carries no visible glyph and is trimmed like trailing whitespace.
const zeroWidthSpace = '\u200b'

// MakeLine assembles the Line spanning [start, end) of the preparation's
// buffer, given whether the break that ends it is mandatory and whether it
// requires a hyphen to be inserted. It reuses the preparation's already
// shaped items verbatim for everything but the two edges, which are
// reshaped only if the break actually cuts through them.
func MakeLine(p *Preparation, shaper Shaper, start, end int, mandatory, hyphen bool) Line {
	if start >= end {
		return Line{
			Trimmed: Range{Start: start, End: start},
			End:     end,
			Justify: p.Config.Justify && end < len(p.Text) && !mandatory,
		}
	}

	expanded, inner := p.slice(start, end)

	line := Line{End: end}

	workingEnd := end
	dash := DashNone
	justify := p.Config.Justify && !mandatory

	if n := len(inner); n > 0 {
		if ti, ok := inner[n-1].Item.(*TextItem); ok {
			base := expanded.End - len(ti.Shaped.Text)
			rangeStart := start
			if base > rangeStart {
				rangeStart = base
			}
			text := p.Text[rangeStart:end]
			trimmedText := trimTrailingBreakable(text)
			workingEnd = rangeStart + len(trimmedText)

			shy := strings.HasSuffix(trimmedText, SHYSTR)
			dashChar := hasTrailingDash(trimmedText)
			if hyphen || shy || dashChar {
				dash = DashSoft
				if dashChar && !hyphen && !shy {
					dash = DashHard
				}
			}
			if strings.HasSuffix(text, "\u2028") {
				justify = true
			}

			needsReshape := hyphen || rangeStart+len(ti.Shaped.Text) > workingEnd
			if needsReshape {
				before := inner[:n-1]
				var last Item
				if hyphen || rangeStart < workingEnd || len(before) == 0 {
					reshaped := shaper.Reshape(ti.Shaped, rangeStart, workingEnd)
					if hyphen || shy {
						reshaped = shaper.PushHyphen(reshaped)
					}
					last = &TextItem{Shaped: reshaped}
				}
				line.Last = last
				inner = before
			}
		}
	}

	if n := len(inner); n > 0 {
		if ti, ok := inner[0].Item.(*TextItem); ok {
			base := expanded.Start
			edgeEnd := workingEnd
			if shapedEnd := base + len(ti.Shaped.Text); shapedEnd < edgeEnd {
				edgeEnd = shapedEnd
			}
			if start+len(ti.Shaped.Text) > edgeEnd {
				// The line cuts into the first item. Even when the cut
				// leaves nothing of it (start >= edgeEnd), the item must
				// not stay in inner with its full width.
				if start < edgeEnd {
					reshaped := shaper.Reshape(ti.Shaped, start, edgeEnd)
					line.First = &TextItem{Shaped: reshaped}
				}
				inner = inner[1:]
			}
		}
	}

	line.Inner = itemsOf(inner)
	line.Trimmed = Range{Start: start, End: workingEnd}
	line.Justify = justify
	line.Dash = dash

	var width Abs
	if line.First != nil {
		width += line.First.NaturalWidth()
	}
	for _, it := range line.Inner {
		width += it.NaturalWidth()
	}
	if line.Last != nil {
		width += line.Last.NaturalWidth()
	}
	line.Width = width

	return line
}

func itemsOf(items []PreparedItem) []Item {
	out := make([]Item, len(items))
	for i, pi := range items {
		out[i] = pi.Item
	}
	return out
}

// trimTrailingBreakable trims trailing whitespace (and the zero-width
// space used as a hyphenation-only break marker) from text, matching the
// layout-affecting trim a normal break applies.
func trimTrailingBreakable(s string) string {
	end := len(s)
	for end > 0 {
		r, size := decodeLastRune(s[:end])
		if r == 0 {
			break
		}
		if !isBreakableTrailer(r) {
			break
		}
		end -= size
	}
	return s[:end]
}

func isBreakableTrailer(r rune) bool {
	return unicode.IsSpace(r) || r == zeroWidthSpace
}

func hasTrailingDash(s string) bool {
	return strings.HasSuffix(s, "-") || strings.HasSuffix(s, "–") || strings.HasSuffix(s, "—")
}
