package analysis

import (
	"fmt"
	"time"
)

// DefaultPeriodDays is the report window when no start date is given.
const DefaultPeriodDays = 14

const dateLayout = "2006-01-02"

// Period is the half-open reporting window [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod resolves --start/--end style bounds. Dates are YYYY-MM-DD and
// mean local midnight in loc (UTC when nil). An empty end means now; an empty
// start means DefaultPeriodDays before end.
func NewPeriod(start, end string, now time.Time, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	var p Period
	if end == "" {
		p.End = now.In(loc)
	} else {
		t, err := time.ParseInLocation(dateLayout, end, loc)
		if err != nil {
			return Period{}, fmt.Errorf("parse end date %q: %w", end, err)
		}
		p.End = t
	}
	if start == "" {
		p.Start = p.End.AddDate(0, 0, -DefaultPeriodDays)
	} else {
		t, err := time.ParseInLocation(dateLayout, start, loc)
		if err != nil {
			return Period{}, fmt.Errorf("parse start date %q: %w", start, err)
		}
		p.Start = t
	}
	if !p.Start.Before(p.End) {
		return Period{}, fmt.Errorf("period start %s is not before end %s", p.Start.Format(dateLayout), p.End.Format(dateLayout))
	}
	return p, nil
}

// Contains reports whether t falls in [Start, End). Nil is never contained.
func (p Period) Contains(t *time.Time) bool {
	return t != nil && !t.Before(p.Start) && t.Before(p.End)
}

// Days counts whole days between the wall-clock bounds.
func (p Period) Days() int {
	return int(wallClock(p.End).Sub(wallClock(p.Start)) / (24 * time.Hour))
}

// Info is the JSON form of the period.
func (p Period) Info() PeriodInfo {
	return PeriodInfo{
		StartDate: p.Start.Format("Jan 02, 2006"),
		EndDate:   p.End.Format("Jan 02, 2006"),
		Days:      p.Days(),
		Start:     p.Start.Format(time.RFC3339),
		End:       p.End.Format(time.RFC3339),
	}
}

// wallClock drops the zone so DST shifts do not shave a day off.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
