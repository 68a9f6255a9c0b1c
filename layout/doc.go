// Package layout provides the geometric primitives (lengths, points, sizes,
// alignment, regions) and the frame output type shared by the paragraph
// layout engine in the inline subpackage.
package layout
