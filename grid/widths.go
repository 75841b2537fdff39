package grid

import (
	"math"
	"strconv"
	"strings"
)

// MinColWidth is the percentage floor a resize may shrink a column to.
const MinColWidth = 5.0

const widthTolerance = 0.01

// EqualWidths splits 100% evenly across n columns.
func EqualWidths(n int) []float64 {
	if n < 1 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 / float64(n)
	}
	return out
}

// FormatWidth renders a percentage the way documents store it.
func FormatWidth(w float64) string {
	return strconv.FormatFloat(w, 'f', 2, 64) + "%"
}

// ParseWidth accepts "33.33%", "33.33" and surrounding whitespace.
func ParseWidth(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	w, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return 0, false
	}
	return w, true
}

// NormalizeWidths returns widths for n columns that sum to 100. Positive
// inputs of the right length are rescaled; anything else yields equal widths.
func NormalizeWidths(ws []float64, n int) []float64 {
	if len(ws) != n || n < 1 {
		return EqualWidths(n)
	}
	sum := 0.0
	for _, w := range ws {
		if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return EqualWidths(n)
		}
		sum += w
	}
	out := make([]float64, n)
	for i, w := range ws {
		out[i] = w * 100 / sum
	}
	return out
}
