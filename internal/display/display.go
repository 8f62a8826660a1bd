// Package display provides human-readable names for machine codes.
//
// Rule: code is for machines, words are for humans.
// Use these functions in CLI output, Slack and Markdown reports.
// Keep raw codes for JSON fields, map keys, and equality comparisons.
package display

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Title capitalizes each word: "on-hold" → "On-Hold", "acme corp" → "Acme Corp".
func Title(s string) string {
	return titleCaser.String(s)
}

// --- Ticket Status ---

var statuses = map[string]string{
	"new":     "New",
	"open":    "Open",
	"pending": "Pending",
	"hold":    "On Hold",
	"solved":  "Solved",
	"closed":  "Closed",
}

var statusIcons = map[string]string{
	"new":     "🔵",
	"open":    "🔴",
	"pending": "🟡",
	"hold":    "🟠",
	"solved":  "🟢",
	"closed":  "⚫",
}

// Status returns the display name for a ticket status. Unknown codes are title-cased.
func Status(code string) string {
	if name, ok := statuses[code]; ok {
		return name
	}
	return Title(code)
}

// StatusIcon returns the emoji for a status, "⚪" when unknown.
func StatusIcon(code string) string {
	if icon, ok := statusIcons[code]; ok {
		return icon
	}
	return "⚪"
}

// --- Ticket Priority ---

var priorityRanks = map[string]int{
	"urgent": 0,
	"high":   1,
	"normal": 2,
	"low":    3,
}

var priorityIcons = map[string]string{
	"urgent": "🔴",
	"high":   "🟠",
	"normal": "🟡",
	"low":    "🟢",
}

// Priority returns the display name for a priority code.
func Priority(code string) string {
	return Title(code)
}

// PriorityIcon returns the emoji for a priority, "⚪" when unknown.
func PriorityIcon(code string) string {
	if icon, ok := priorityIcons[code]; ok {
		return icon
	}
	return "⚪"
}

// PriorityRank orders priorities most severe first. Unknown codes sort last.
func PriorityRank(code string) int {
	if r, ok := priorityRanks[code]; ok {
		return r
	}
	return len(priorityRanks)
}

// --- FRT Buckets ---

var buckets = map[string]string{
	"oncall": "On-Call Urgent (24/7)",
	"urgent": "Urgent",
	"high":   "High",
	"normal": "Normal",
	"low":    "Low",
}

// Bucket returns the display name for an FRT bucket key.
func Bucket(key string) string {
	if name, ok := buckets[key]; ok {
		return name
	}
	return Title(key)
}

// --- Time ---

var weekdays = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// HourLabel renders an hour of day on a 12-hour clock: 0 → "12 AM", 18 → "6 PM".
func HourLabel(h int) string {
	h = ((h % 24) + 24) % 24
	switch {
	case h == 0:
		return "12 AM"
	case h < 12:
		return fmt.Sprintf("%d AM", h)
	case h == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", h-12)
	}
}

// HourRange renders "9 AM - 6 PM".
func HourRange(start, end int) string {
	return HourLabel(start) + " - " + HourLabel(end)
}

// Weekdays renders weekday numbers (0=Monday) as "Mon-Fri" when contiguous,
// otherwise as a comma list.
func Weekdays(days []int) string {
	var valid []int
	seen := [7]bool{}
	for _, d := range days {
		if d >= 0 && d < 7 && !seen[d] {
			seen[d] = true
		}
	}
	for d, ok := range seen {
		if ok {
			valid = append(valid, d)
		}
	}
	switch len(valid) {
	case 0:
		return "none"
	case 1:
		return weekdays[valid[0]]
	}
	if valid[len(valid)-1]-valid[0] == len(valid)-1 {
		return weekdays[valid[0]] + "-" + weekdays[valid[len(valid)-1]]
	}
	names := make([]string, len(valid))
	for i, d := range valid {
		names[i] = weekdays[d]
	}
	return strings.Join(names, ", ")
}

// Customers renders an on-call customer filter; empty means everyone.
func Customers(domains []string) string {
	if len(domains) == 0 {
		return "all customers"
	}
	return strings.Join(domains, ", ")
}
