package format

import (
	"fmt"
	"math"
)

// Minutes renders a minute count as "45m", "2.5h" or "1.2d". Nil is "N/A".
// Sub-hour values are truncated, not rounded.
func Minutes(m *float64) string {
	if m == nil {
		return "N/A"
	}
	return Mins(*m)
}

// Mins is Minutes for a known value.
func Mins(m float64) string {
	switch {
	case m < 60:
		return fmt.Sprintf("%dm", int(m))
	case m < 1440:
		return fmt.Sprintf("%.1fh", m/60)
	default:
		return fmt.Sprintf("%.1fd", m/1440)
	}
}

// Pct is the floored integer percentage of n over total, e.g. "33%".
// A zero total yields "0%".
func Pct(n, total int) string {
	return fmt.Sprintf("%d%%", PctInt(n, total))
}

// PctInt is 100*n/total with integer division; 0 when total is 0.
func PctInt(n, total int) int {
	if total == 0 {
		return 0
	}
	return 100 * n / total
}

// Pct1 is the percentage with one decimal, e.g. "33.3%".
func Pct1(n, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(n)/float64(total))
}

// Truncate shortens s to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// Float renders f without a trailing ".0" when it is integral.
func Float(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%.1f", f)
}

// BoolMark returns "✓" for true and "✗" for false.
func BoolMark(v bool) string {
	if v {
		return "✓"
	}
	return "✗"
}
