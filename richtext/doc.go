// Package richtext implements the pure, grapheme-accurate model of one
// marked-up grid cell.
//
// Text is a flat sequence of grapheme clusters (Glyphs), each carrying a Mark
// set. A newline is a glyph of its own. Positions are 0-based grapheme
// indexes; ranges are half-open: [Start, End).
//
// Markup is a small HTML subset (b/strong, i/em, u, s/del, br, p) so values
// round-trip with the documents produced by browser rich-text editors.
package richtext
