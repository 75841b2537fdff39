// Package grapheme wraps uniseg and runewidth with the small set of helpers
// the cell model and renderer share.
package grapheme

import (
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Split returns grapheme clusters for text in visual order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Count returns the number of grapheme clusters in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(text)
}

// Width returns the terminal cell width of one cluster.
//
// Control clusters (including "\n") are zero width. Clusters runewidth cannot
// measure fall back to uniseg's estimate.
func Width(cluster string) int {
	if cluster == "" || cluster == "\n" || cluster == "\r\n" {
		return 0
	}
	w := runewidth.StringWidth(cluster)
	if w <= 0 {
		w = uniseg.StringWidth(cluster)
	}
	if w < 0 {
		return 0
	}
	return w
}

// StringWidth sums Width over every cluster of text.
func StringWidth(text string) int {
	n := 0
	for _, c := range Split(text) {
		n += Width(c)
	}
	return n
}

// IsSpace reports whether all runes in cluster are Unicode whitespace.
func IsSpace(cluster string) bool {
	if cluster == "" {
		return false
	}
	for _, r := range cluster {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// IsNewline reports whether cluster is a hard line break.
func IsNewline(cluster string) bool {
	return cluster == "\n" || cluster == "\r\n"
}
