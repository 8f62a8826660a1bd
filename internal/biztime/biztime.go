// Package biztime classifies timestamps against a business-hours calendar and
// measures elapsed business time.
//
// Workdays use the Monday=0 … Sunday=6 numbering of the config file. All
// arithmetic happens in the calendar's timezone; callers may pass times in any
// location.
package biztime

import (
	"fmt"
	"time"
)

const (
	// DefaultTimezone is used when the config omits a timezone.
	DefaultTimezone = "Europe/Berlin"

	DefaultStartHour       = 9
	DefaultEndHour         = 18
	DefaultOnCallStartHour = 19
	DefaultOnCallEndHour   = 9
)

// BusinessHours is the business_hours block of the config file.
type BusinessHours struct {
	Timezone  string `json:"timezone" yaml:"timezone"`
	StartHour int    `json:"start_hour" yaml:"start_hour"`
	EndHour   int    `json:"end_hour" yaml:"end_hour"`
	Workdays  []int  `json:"workdays" yaml:"workdays"`
}

// DefaultBusinessHours returns 09:00–18:00 Monday to Friday, Europe/Berlin.
func DefaultBusinessHours() BusinessHours {
	return BusinessHours{
		Timezone:  DefaultTimezone,
		StartHour: DefaultStartHour,
		EndHour:   DefaultEndHour,
		Workdays:  []int{0, 1, 2, 3, 4},
	}
}

// Calendar is a resolved BusinessHours: timezone loaded, workdays indexed.
type Calendar struct {
	loc       *time.Location
	startHour int
	endHour   int
	workdays  [7]bool
	hours     BusinessHours
}

// NewCalendar loads the timezone and validates the hour range.
func NewCalendar(bh BusinessHours) (*Calendar, error) {
	tz := bh.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	if bh.StartHour < 0 || bh.StartHour > 24 || bh.EndHour < 0 || bh.EndHour > 24 {
		return nil, fmt.Errorf("business hours %d-%d out of range 0-24", bh.StartHour, bh.EndHour)
	}
	c := &Calendar{loc: loc, startHour: bh.StartHour, endHour: bh.EndHour, hours: bh}
	c.hours.Timezone = tz
	for _, d := range bh.Workdays {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("workday %d out of range 0-6", d)
		}
		c.workdays[d] = true
	}
	return c, nil
}

// MustCalendar is NewCalendar that panics on error. Intended for tests and
// package-level fixtures.
func MustCalendar(bh BusinessHours) *Calendar {
	c, err := NewCalendar(bh)
	if err != nil {
		panic(fmt.Sprintf("biztime: %v", err))
	}
	return c
}

// Location returns the calendar's timezone.
func (c *Calendar) Location() *time.Location { return c.loc }

// Hours returns the configuration the calendar was built from.
func (c *Calendar) Hours() BusinessHours { return c.hours }

// Weekday converts a Go weekday (Sunday=0) to the config numbering (Monday=0).
func Weekday(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// IsWorkday reports whether t falls on a configured workday in the calendar's timezone.
func (c *Calendar) IsWorkday(t time.Time) bool {
	return c.workdays[Weekday(t.In(c.loc).Weekday())]
}

// IsBusinessHours reports whether t is on a workday and its local hour is in
// [start_hour, end_hour). A nil timestamp counts as business hours so that
// events of unknown time are never reported as after-hours.
func (c *Calendar) IsBusinessHours(t *time.Time) bool {
	if t == nil {
		return true
	}
	local := t.In(c.loc)
	if !c.workdays[Weekday(local.Weekday())] {
		return false
	}
	h := local.Hour()
	return h >= c.startHour && h < c.endHour
}

// BusinessMinutes returns the minutes between start and end that fall inside
// business hours on workdays. It steps one local day at a time, so the cost is
// proportional to the number of days spanned.
func (c *Calendar) BusinessMinutes(start, end time.Time) float64 {
	if !start.Before(end) {
		return 0
	}
	start = start.In(c.loc)
	end = end.In(c.loc)

	var total time.Duration
	cursor := start
	for cursor.Before(end) {
		y, m, d := cursor.Date()
		// Local midnight via time.Date stays correct across DST shifts,
		// unlike adding 24h.
		nextMidnight := time.Date(y, m, d+1, 0, 0, 0, 0, c.loc)

		if c.workdays[Weekday(cursor.Weekday())] && c.endHour > c.startHour {
			open := time.Date(y, m, d, c.startHour, 0, 0, 0, c.loc)
			closed := time.Date(y, m, d, c.endHour, 0, 0, 0, c.loc)
			from := later(cursor, open)
			to := earlier(end, closed)
			if from.Before(to) {
				total += to.Sub(from)
			}
		}
		cursor = nextMidnight
	}
	return total.Minutes()
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlier(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
