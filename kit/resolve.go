package kit

import (
	"strings"

	gtfont "github.com/go-text/typesetting/font"

	"github.com/boergens/parafmt/layout"
	"github.com/boergens/parafmt/layout/inline"
)

// Resolve turns the loaded TOML defaults into the Config the paragraph
// engine reads, translating the string-typed LineBreaks field into its
// enum, leaving Dir to the engine's own auto resolution and Align at
// start/top, since the config has no keys for either. Hyphenate/Lang are not paragraph-wide knobs in the
// engine's own model (§3: they are per-child style keys, unified across
// children only via Preparation's shared values) — a host wanting a
// document-wide default applies it to its root style chain instead, so
// every child's own Hyphenate()/Lang() already agrees.
func (c Config) Resolve() inline.Config {
	return inline.Config{
		Justify:    c.Justify,
		Linebreaks: parseLineBreaks(c.LineBreaks),
		Indent:     inline.Abs(c.Indent),
		Leading:    inline.Abs(c.Leading),
		Dir:        inline.DirAuto,
		Align:      layout.Alignment{X: layout.HAlignStart, Y: layout.VAlignTop},
		FontSize:   inline.Abs(c.FontSize),
		Overhang:   c.Overhang,
		Costs:      inline.Costs{Hyphenation: c.Costs.Hyphenation},
	}
}

func parseLineBreaks(s string) inline.LineBreaks {
	switch strings.ToLower(s) {
	case "simple":
		return inline.LineBreaksSimple
	case "optimized":
		return inline.LineBreaksOptimized
	default:
		return inline.LineBreaksAuto
	}
}

// Shaper builds an inline.Shaper backed by the faces loaded from path
// (relative to the world root), at the configured font size.
func (w *World) Shaper(path string) (inline.Shaper, error) {
	faces, err := w.Faces(path)
	if err != nil {
		return nil, err
	}
	return inline.NewShaper(faces, inline.Abs(w.Config.FontSize)), nil
}

// NewShaperFromFaces lets callers that already hold faces (e.g. a fallback
// stack assembled from several files) can build a shaper without going
// through the cache.
func NewShaperFromFaces(faces []*gtfont.Face, size float64) inline.Shaper {
	return inline.NewShaper(faces, inline.Abs(size))
}
