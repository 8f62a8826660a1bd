package biztime

import (
	"slices"
	"time"
)

// OnCall is the oncall block of the config file.
type OnCall struct {
	Enabled    bool     `json:"enabled" yaml:"enabled"`
	StartHour  int      `json:"start_hour" yaml:"start_hour"`
	EndHour    int      `json:"end_hour" yaml:"end_hour"`
	Customers  []string `json:"customers" yaml:"customers"`
	Priorities []string `json:"priorities" yaml:"priorities"`
}

// DefaultOnCall returns a disabled 19:00–09:00 window for urgent tickets of all customers.
func DefaultOnCall() OnCall {
	return OnCall{
		StartHour:  DefaultOnCallStartHour,
		EndHour:    DefaultOnCallEndHour,
		Customers:  []string{},
		Priorities: []string{"urgent"},
	}
}

// Matches reports whether a ticket with the given priority and customer
// domain is covered by on-call. An empty customer list covers everyone.
func (o OnCall) Matches(priority, customer string) bool {
	if !slices.Contains(o.Priorities, priority) {
		return false
	}
	return len(o.Customers) == 0 || slices.Contains(o.Customers, customer)
}

// IsOnCallHours reports whether t falls in the on-call window: any time on a
// non-workday, or a local hour >= start_hour or < end_hour on a workday. The
// window may wrap midnight (19–9). A nil timestamp is never on-call.
func (c *Calendar) IsOnCallHours(t *time.Time, o OnCall) bool {
	if t == nil {
		return false
	}
	local := t.In(c.loc)
	if !c.workdays[Weekday(local.Weekday())] {
		return true
	}
	h := local.Hour()
	return h >= o.StartHour || h < o.EndHour
}
