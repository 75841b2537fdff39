// Package grid implements the editable planning grid: a Bubble Tea component
// that lays out one Section as a table of rich-text cells, together with the
// pure pieces it is built from.
//
//   - Section, Row and CellSpan hold the data and its structural mutations.
//   - Selection tracks the anchor/extent pair of a rectangular cell range.
//   - Navigate moves focus between cells on arrow keys.
//   - Resizer turns a pointer drag into a pairwise column width change.
//   - Registry maps cell coordinates to live Editor handles.
//
// Model composes them. Structural edits are reported to the host
// immediately; text edits are coalesced by a debounce window.
package grid
