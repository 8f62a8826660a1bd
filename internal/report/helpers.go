// Package report renders an analysis report as Slack blocks, Markdown or HTML.
// Renderers are pure: they never read files or talk to the network.
package report

import (
	"cmp"
	"maps"
	"slices"

	"zendesk/internal/display"
)

// byCountDesc orders map keys by value, descending, then by key.
func byCountDesc(m map[string]int) []string {
	return slices.SortedFunc(maps.Keys(m), func(a, b string) int {
		if c := cmp.Compare(m[b], m[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
}

// byPriority orders priority keys most severe first.
func byPriority(m map[string]int) []string {
	return slices.SortedFunc(maps.Keys(m), func(a, b string) int {
		if c := cmp.Compare(display.PriorityRank(a), display.PriorityRank(b)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
