// Package format renders scores for display.
package format

import (
	"math"
	"strconv"
	"strings"
)

// Penalty renders seconds as "1h 2m 3s". Minutes are shown whenever hours
// are, and non-positive or non-finite values render as "0s".
func Penalty(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return "0s"
	}
	total := int64(math.Round(seconds))
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	var b strings.Builder
	if hours > 0 {
		b.WriteString(strconv.FormatInt(hours, 10))
		b.WriteString("h ")
	}
	if hours > 0 || minutes > 0 {
		b.WriteString(strconv.FormatInt(minutes, 10))
		b.WriteString("m ")
	}
	b.WriteString(strconv.FormatInt(secs, 10))
	b.WriteString("s")
	return b.String()
}

// Rating renders an Elo rating with four decimals. Non-finite ratings fall
// back to fallback.
func Rating(value, fallback float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = fallback
	}
	return strconv.FormatFloat(value, 'f', 4, 64)
}
