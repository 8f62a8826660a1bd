// Package calls detects customer calls and meetings from ticket comment text.
//
// Detection is a best-effort keyword heuristic. Calls arranged outside the
// ticket are invisible to it; counts should be read as a lower bound.
package calls

import (
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"
)

const maxEvidence = 3

// Comment is the slice of a ticket comment the detector looks at.
type Comment struct {
	Body      string
	CreatedAt *time.Time
	AuthorID  int64
}

// Link is a meeting URL found in a comment.
type Link struct {
	URL      string `json:"url"`
	Platform string `json:"platform"`
	Date     string `json:"date,omitempty"`
}

// Verdict is the ticket-level classification.
type Verdict int

const (
	None Verdict = iota
	Requested
	Likely
	Confirmed
)

func (v Verdict) String() string {
	switch v {
	case Requested:
		return "requested"
	case Likely:
		return "likely"
	case Confirmed:
		return "confirmed"
	default:
		return "none"
	}
}

// Info is the per-ticket detection result. Confirmed and Likely are never
// both non-zero.
type Info struct {
	Confirmed      int       `json:"confirmed"`
	Likely         int       `json:"likely"`
	Requests       int       `json:"requests"`
	TotalEstimated int       `json:"total_estimated"`
	Links          []Link    `json:"links"`
	Evidence       []string  `json:"evidence"`
	CallDates      []string  `json:"call_dates"`
	CallDurations  []float64 `json:"call_durations"`
}

// HasCall reports whether the ticket counts as having a call (confirmed or likely).
func (i Info) HasCall() bool { return i.TotalEstimated > 0 }

// Verdict derives the classification back from the counts.
func (i Info) Verdict() Verdict {
	switch {
	case i.Confirmed > 0:
		return Confirmed
	case i.Likely > 0:
		return Likely
	case i.Requests > 0:
		return Requested
	default:
		return None
	}
}

// Tally is the raw evidence gathered across all comments of a ticket.
type Tally struct {
	Setup    int
	Happened int
	Links    int
}

// rule is one entry of the classification table. Rules are evaluated in
// order and the first match wins, which is what makes confirmed evidence
// outrank a shared link.
type rule struct {
	verdict Verdict
	applies func(Tally) bool
}

var rules = []rule{
	{Confirmed, func(t Tally) bool { return t.Happened > 0 }},
	{Likely, func(t Tally) bool { return t.Links > 0 && t.Setup > 0 }},
	{Requested, func(t Tally) bool { return t.Setup > 0 }},
}

// Classify applies the rule table to a tally.
func Classify(t Tally) Verdict {
	for _, r := range rules {
		if r.applies(t) {
			return r.verdict
		}
	}
	return None
}

// Detect scans comments in chronological order and classifies the ticket.
func Detect(comments []Comment) Info {
	ordered := slices.Clone(comments)
	sort.SliceStable(ordered, func(a, b int) bool {
		return timeOf(ordered[a]).Before(timeOf(ordered[b]))
	})

	var (
		tally    Tally
		evidence []string
		links    []Link
		seen     = map[string]bool{}
		dates    = map[string]bool{}
		durs     []float64
	)

	for _, c := range ordered {
		body := c.Body
		if body == "" || exclusionPattern.MatchString(body) {
			continue
		}
		date := ""
		if c.CreatedAt != nil {
			date = c.CreatedAt.UTC().Format(time.DateOnly)
		}

		tally.Setup += len(setupPattern.FindAllStringIndex(body, -1))

		happened := happenedPattern.FindAllString(body, -1)
		tally.Happened += len(happened)
		for _, phrase := range happened {
			if len(evidence) < maxEvidence {
				evidence = append(evidence, strings.ToLower(phrase))
			}
		}
		if len(happened) > 0 && date != "" {
			dates[date] = true
		}

		for _, p := range linkPatterns {
			for _, u := range p.re.FindAllString(body, -1) {
				u = strings.TrimRight(u, ".,;")
				if seen[u] {
					continue
				}
				seen[u] = true
				links = append(links, Link{URL: u, Platform: p.platform, Date: date})
				if date != "" {
					dates[date] = true
				}
			}
		}

		durs = append(durs, extractDurations(body)...)
	}
	tally.Links = len(links)

	info := Info{
		Links:         links,
		Evidence:      evidence,
		CallDurations: durs,
	}
	switch Classify(tally) {
	case Confirmed:
		info.Confirmed = max(tally.Happened, 1)
	case Likely:
		info.Likely = 1
	case Requested:
		info.Requests = tally.Setup
	}
	info.TotalEstimated = info.Confirmed + info.Likely

	for d := range dates {
		info.CallDates = append(info.CallDates, d)
	}
	sort.Strings(info.CallDates)
	if info.Links == nil {
		info.Links = []Link{}
	}
	if info.Evidence == nil {
		info.Evidence = []string{}
	}
	if info.CallDates == nil {
		info.CallDates = []string{}
	}
	if info.CallDurations == nil {
		info.CallDurations = []float64{}
	}
	return info
}

// extractDurations returns every duration mention in minutes.
func extractDurations(body string) []float64 {
	var out []float64
	for _, re := range durationPatterns {
		for _, m := range re.FindAllStringSubmatch(body, -1) {
			n, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			if strings.HasPrefix(strings.ToLower(m[2]), "h") {
				n *= 60
			}
			out = append(out, n)
		}
	}
	return out
}

func timeOf(c Comment) time.Time {
	if c.CreatedAt == nil {
		return time.Time{}
	}
	return *c.CreatedAt
}
