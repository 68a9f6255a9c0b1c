package inline

import "math"

// Knuth-Plass cost constants, tuned for paragraph line breaking rather
// than the original TeX typesetting parameters.
const (
	hyphCost            = 0.5
	consecutiveDashCost = 30.0
	maxCost             = 1e6
	minCost             = -1e6
	minRatioDefault     = -0.15
)

// Linebreak selects the line-breaking algorithm configured for the
// preparation and returns the paragraph's lines in logical reading order.
func Linebreak(p *Preparation, shaper Shaper, hyphenator Hyphenator, width Abs) []Line {
	switch p.Config.Linebreaks.Resolve(p.Config.Justify) {
	case LineBreaksOptimized:
		return linebreakOptimized(p, shaper, hyphenator, width)
	default:
		return linebreakSimple(p, shaper, hyphenator, width)
	}
}

// linebreakSimple implements the first-fit algorithm: greedily extend the
// line until it overflows, then commit the longest attempt that still fit.
func linebreakSimple(p *Preparation, shaper Shaper, hyphenator Hyphenator, width Abs) []Line {
	var lines []Line
	start := 0

	type snapshot struct {
		line Line
		end  int
	}
	var last *snapshot

	stream := NewBreakpoints(p, hyphenator)
	for {
		bp, ok := stream.Next()
		if !ok {
			break
		}

		attempt := MakeLine(p, shaper, start, bp.Offset, bp.Mandatory, bp.Hyphen)

		if width < attempt.Width && last != nil {
			lines = append(lines, last.line)
			start = last.end
			attempt = MakeLine(p, shaper, start, bp.Offset, bp.Mandatory, bp.Hyphen)
			last = nil
		}

		if bp.Mandatory || width < attempt.Width {
			lines = append(lines, attempt)
			start = bp.Offset
			last = nil
		} else {
			last = &snapshot{line: attempt, end: bp.Offset}
		}
	}

	if last != nil {
		lines = append(lines, last.line)
	}
	return lines
}

// kpEntry is one row of the Knuth-Plass dynamic programming table: the
// cheapest way to reach a given breakpoint, and the predecessor row that
// achieved it.
type kpEntry struct {
	pred  int
	total float64
	line  Line
	end   int
}

// linebreakOptimized implements the bounded Knuth-Plass search described
// in the line-breaking component design: a DP table over breakpoints with
// an active-set lower bound pruning predecessors that can no longer yield
// a feasible line.
func linebreakOptimized(p *Preparation, shaper Shaper, hyphenator Hyphenator, width Abs) []Line {
	table := []kpEntry{{pred: 0, total: 0, line: Line{}, end: 0}}
	em := p.Config.FontSize
	active := 0

	stream := NewBreakpoints(p, hyphenator)
	for {
		bp, ok := stream.Next()
		if !ok {
			break
		}
		eof := bp.Offset == len(p.Text)

		var best *kpEntry
		startActive := active

		for i := startActive; i < len(table); i++ {
			pred := &table[i]
			attempt := MakeLine(p, shaper, pred.end, bp.Offset, bp.Mandatory, bp.Hyphen)

			delta := width - attempt.Width
			stretch := attempt.Stretchability()
			ratio := float64(delta) / float64(stretch)
			if math.IsInf(ratio, 0) || math.IsNaN(ratio) {
				ratio = float64(delta) / (float64(em) / 2)
			}
			if ratio > 10 {
				ratio = 10
			}

			minRatio := 0.0
			if attempt.Justify {
				minRatio = minRatioDefault
			}

			var cost float64
			switch {
			case ratio < minRatio:
				cost = maxCost
				active = i + 1
			case bp.Mandatory || eof:
				cost = minCost
				if attempt.Justify {
					cost += ratio * ratio * ratio
				}
			default:
				cost = math.Abs(ratio) * math.Abs(ratio) * math.Abs(ratio)
			}

			if bp.Hyphen {
				cost += hyphCost * p.Config.Costs.Hyphenation
			}
			if attempt.Dash != DashNone && pred.line.Dash != DashNone {
				cost += consecutiveDashCost
			}

			total := pred.total + cost
			if best == nil || total <= best.total {
				best = &kpEntry{pred: i, total: total, line: attempt, end: bp.Offset}
			}
		}

		if bp.Mandatory {
			active = len(table)
		}

		if best != nil {
			table = append(table, *best)
		}
	}

	lines := make([]Line, 0, len(table))
	idx := len(table) - 1
	for idx > 0 {
		lines = append(lines, table[idx].line)
		idx = table[idx].pred
	}
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines
}
