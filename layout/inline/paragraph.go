package inline

import "github.com/boergens/parafmt/layout"

// Layout runs the full paragraph pipeline over a paragraph's children:
// collect them into a single text buffer, prepare (shape and BiDi-analyze)
// it against the style and regions in effect, break it into lines, and
// stack those lines into frames across the given regions.
//
// hyphenator may be nil, in which case words are never hyphenated
// regardless of the style's HYPHENATE setting.
func Layout(children []Child, shaper Shaper, hyphenator Hyphenator, cfg Config, regions *layout.Regions) (layout.Fragment, error) {
	if cfg.Indent != 0 {
		// The first-line indent is ordinary absolute spacing placed before
		// the first child, so breaking and justification see it like any
		// other spacing.
		indent := SpacingChild{Amount: layout.Relative{Abs: toLayoutAbs(cfg.Indent)}}
		children = append([]Child{indent}, children...)
	}

	buf := Collect(children)

	prep, err := Prepare(buf, PrepareOptions{
		Shaper:  shaper,
		Regions: regions,
		Config:  cfg,
	})
	if err != nil {
		return nil, err
	}

	lines := Linebreak(prep, shaper, hyphenator, toAbs(regions.First.Width))

	return Stack(prep, lines, regions)
}
