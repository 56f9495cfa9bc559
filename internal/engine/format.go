package engine

import (
	"math"
	"strconv"
)

// formatDigits bounds how many significant digits a result displays. Twelve
// keeps common float artifacts (0.1+0.2) invisible while staying inside the
// exact range of float64.
const formatDigits = 12

// Format renders a result for the display: at most formatDigits significant
// digits, trailing zeros trimmed, negative zero normalized to "0".
func Format(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'g', formatDigits, 64)
}

// formatChecked formats v and reports whether the value is displayable.
func formatChecked(v float64) (string, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", false
	}
	return Format(v), true
}
