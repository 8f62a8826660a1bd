package biztime

import (
	"testing"
	"time"
)

var berlin = MustCalendar(DefaultBusinessHours())

func utc(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr(t time.Time) *time.Time { return &t }

func TestWeekday_MondayIsZero(t *testing.T) {
	cases := map[time.Weekday]int{
		time.Monday:   0,
		time.Friday:   4,
		time.Saturday: 5,
		time.Sunday:   6,
	}
	for in, want := range cases {
		if got := Weekday(in); got != want {
			t.Errorf("Weekday(%s) = %d, want %d", in, got, want)
		}
	}
}

func TestIsBusinessHours(t *testing.T) {
	tests := []struct {
		name string
		ts   string
		want bool
	}{
		{"monday opening (09:00 local)", "2024-01-01T08:00:00Z", true},
		{"monday before opening", "2024-01-01T07:59:00Z", false},
		{"monday last business minute", "2024-01-01T16:59:00Z", true},
		{"monday closing is exclusive", "2024-01-01T17:00:00Z", false},
		{"saturday midday", "2024-01-06T11:00:00Z", false},
		{"sunday midday", "2024-01-07T11:00:00Z", false},
		{"summer time offset", "2024-07-01T07:30:00Z", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := berlin.IsBusinessHours(ptr(utc(tt.ts))); got != tt.want {
				t.Errorf("IsBusinessHours(%s) = %v, want %v", tt.ts, got, tt.want)
			}
		})
	}
}

func TestIsBusinessHours_NilIsInHours(t *testing.T) {
	if !berlin.IsBusinessHours(nil) {
		t.Error("nil timestamp should count as business hours")
	}
}

func TestIsBusinessHours_FalseExactlyOutsideWindow(t *testing.T) {
	start := utc("2024-01-01T00:00:00Z")
	for i := 0; i < 7*24; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		local := ts.In(berlin.Location())
		want := Weekday(local.Weekday()) <= 4 && local.Hour() >= 9 && local.Hour() < 18
		if got := berlin.IsBusinessHours(&ts); got != want {
			t.Fatalf("IsBusinessHours(%s) = %v, want %v", local, got, want)
		}
	}
}

func TestIsOnCallHours(t *testing.T) {
	oc := DefaultOnCall()
	tests := []struct {
		name string
		ts   *time.Time
		want bool
	}{
		{"nil is never on-call", nil, false},
		{"weekday evening", ptr(utc("2024-01-01T19:30:00Z")), true},
		{"weekday early morning", ptr(utc("2024-01-02T06:00:00Z")), true},
		{"weekday midday", ptr(utc("2024-01-02T11:00:00Z")), false},
		{"weekday 09:00 local ends window", ptr(utc("2024-01-02T08:00:00Z")), false},
		{"saturday midday", ptr(utc("2024-01-06T11:00:00Z")), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := berlin.IsOnCallHours(tt.ts, oc); got != tt.want {
				t.Errorf("IsOnCallHours = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOnCall_Matches(t *testing.T) {
	all := DefaultOnCall()
	if !all.Matches("urgent", "anyone.com") {
		t.Error("empty customer list should match every customer")
	}
	if all.Matches("high", "anyone.com") {
		t.Error("high priority should not match urgent-only on-call")
	}
	scoped := DefaultOnCall()
	scoped.Customers = []string{"acme.com"}
	if !scoped.Matches("urgent", "acme.com") || scoped.Matches("urgent", "other.com") {
		t.Error("customer scoping not applied")
	}
}

func TestBusinessMinutes(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       float64
	}{
		{"same morning", "2024-01-01T08:00:00Z", "2024-01-01T10:00:00Z", 120},
		{"before opening", "2024-01-01T05:00:00Z", "2024-01-01T07:00:00Z", 0},
		{"straddles opening", "2024-01-01T07:30:00Z", "2024-01-01T08:30:00Z", 30},
		{"whole workday", "2024-01-01T00:00:00+01:00", "2024-01-02T00:00:00+01:00", 540},
		{"over the weekend", "2024-01-05T16:00:00Z", "2024-01-08T09:00:00Z", 120},
		{"weekend only", "2024-01-06T08:00:00Z", "2024-01-07T20:00:00Z", 0},
		{"full week", "2024-01-01T00:00:00+01:00", "2024-01-08T00:00:00+01:00", 5 * 540},
		{"across spring DST change", "2024-03-29T16:00:00Z", "2024-04-01T08:00:00Z", 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := berlin.BusinessMinutes(utc(tt.start), utc(tt.end))
			if got != tt.want {
				t.Errorf("BusinessMinutes = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBusinessMinutes_EmptyAndReversed(t *testing.T) {
	a := utc("2024-01-02T10:00:00Z")
	b := utc("2024-01-02T12:00:00Z")
	if got := berlin.BusinessMinutes(a, a); got != 0 {
		t.Errorf("BusinessMinutes(a, a) = %v, want 0", got)
	}
	if got := berlin.BusinessMinutes(b, a); got != 0 {
		t.Errorf("BusinessMinutes(b, a) = %v, want 0", got)
	}
}

func TestBusinessMinutes_NeverExceedsCalendar(t *testing.T) {
	base := utc("2024-03-25T00:00:00Z")
	for i := 0; i < 40; i++ {
		a := base.Add(time.Duration(i*317) * time.Minute)
		b := a.Add(time.Duration(i*i*53+1) * time.Minute)
		if got, wall := berlin.BusinessMinutes(a, b), b.Sub(a).Minutes(); got > wall {
			t.Fatalf("BusinessMinutes(%s, %s) = %v exceeds wall clock %v", a, b, got, wall)
		}
	}
}

func TestBusinessMinutes_AdditiveAcrossSplit(t *testing.T) {
	a := utc("2024-03-27T13:17:00Z")
	b := utc("2024-04-03T10:41:00Z")
	whole := berlin.BusinessMinutes(a, b)
	for split := a; split.Before(b); split = split.Add(7*time.Hour + 13*time.Minute) {
		left := berlin.BusinessMinutes(a, split)
		right := berlin.BusinessMinutes(split, b)
		if left+right != whole {
			t.Fatalf("split at %s: %v + %v != %v", split, left, right, whole)
		}
	}
}

func TestNewCalendar_Validation(t *testing.T) {
	bad := []BusinessHours{
		{Timezone: "Nowhere/Atlantis", StartHour: 9, EndHour: 18},
		{Timezone: "UTC", StartHour: -1, EndHour: 18},
		{Timezone: "UTC", StartHour: 9, EndHour: 25},
		{Timezone: "UTC", StartHour: 9, EndHour: 18, Workdays: []int{7}},
	}
	for _, bh := range bad {
		if _, err := NewCalendar(bh); err == nil {
			t.Errorf("NewCalendar(%+v): expected error", bh)
		}
	}
}

func TestNewCalendar_EmptyTimezoneDefaults(t *testing.T) {
	c, err := NewCalendar(BusinessHours{StartHour: 9, EndHour: 18})
	if err != nil {
		t.Fatal(err)
	}
	if c.Location().String() != DefaultTimezone {
		t.Errorf("Location = %s, want %s", c.Location(), DefaultTimezone)
	}
}
