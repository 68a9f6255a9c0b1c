// Package inline provides inline text layout functionality.
//
// This package handles paragraph layout including text shaping, BiDi analysis,
// line breaking, and text justification. It implements both simple (first-fit)
// and optimized (Knuth-Plass) line breaking algorithms.
package inline
