// Package analysis turns cached Zendesk tickets into a support-metrics report.
//
// All inputs are materialized before aggregation starts; Analyze is a pure
// single pass over them and the resulting Report is never mutated.
package analysis

import (
	"encoding/json"

	"zendesk/internal/biztime"
	"zendesk/internal/calls"
)

// FRT bucket keys, in precedence order.
const (
	BucketOnCall = "oncall"
	BucketUrgent = "urgent"
	BucketHigh   = "high"
	BucketNormal = "normal"
	BucketLow    = "low"
)

// Buckets lists the FRT bucket keys in display order.
var Buckets = []string{BucketOnCall, BucketUrgent, BucketHigh, BucketNormal, BucketLow}

// TicketAnalysis is the per-ticket record.
type TicketAnalysis struct {
	TicketID          int64      `json:"ticket_id"`
	RequesterID       int64      `json:"requester_id"`
	Subject           string     `json:"subject"`
	Status            string     `json:"status"`
	Priority          string     `json:"priority"`
	Customer          string     `json:"customer"`
	CreatedAt         string     `json:"created_at"`
	IsNew             bool       `json:"is_new"`
	Messages          int        `json:"messages"`
	Public            int        `json:"public"`
	Private           int        `json:"private"`
	// AgentReplies counts in-period comments only. It can be 0 while the
	// FRT fields are filled from cached ticket metrics.
	AgentReplies      int        `json:"agent_replies"`
	CallInfo          calls.Info `json:"call_info"`
	FRTCalendar       *float64   `json:"frt_calendar"`
	FRTBusiness       *float64   `json:"frt_business"`
	ResolutionMins    *float64   `json:"resolution_mins"`
	Reopens           int        `json:"reopens"`
	Replies           int        `json:"replies"`
	OutsideHours      bool       `json:"outside_hours"`
	CustomerMsgsOOH   int        `json:"customer_msgs_ooh"`
	SupportRepliesOOH int        `json:"support_replies_ooh"`
}

// HasCall reports whether a confirmed or likely call was detected.
func (t TicketAnalysis) HasCall() bool { return t.CallInfo.HasCall() }

// CustomerStats is the per-domain rollup.
type CustomerStats struct {
	Tickets   int     `json:"tickets"`
	Messages  int     `json:"messages"`
	Replies   int     `json:"replies"`
	Calls     int     `json:"calls"`
	TicketIDs []int64 `json:"ticket_ids"`
}

// Summary holds the headline totals.
type Summary struct {
	TotalTickets           int     `json:"total_tickets"`
	NewTickets             int     `json:"new_tickets"`
	ExistingTickets        int     `json:"existing_tickets"`
	TotalMessages          int     `json:"total_messages"`
	TotalReplies           int     `json:"total_replies"`
	TicketsWithCalls       int     `json:"tickets_with_calls"`
	TotalCallsConfirmed    int     `json:"total_calls_confirmed"`
	TotalCallsLikely       int     `json:"total_calls_likely"`
	CallRequests           int     `json:"call_requests"`
	UniqueCustomers        int     `json:"unique_customers"`
	AvgRepliesPerTicket    float64 `json:"avg_replies_per_ticket"`
	MedianRepliesPerTicket int     `json:"median_replies_per_ticket"`
	MaxRepliesPerTicket    int     `json:"max_replies_per_ticket"`
}

// PeriodInfo is the rendered reporting window.
type PeriodInfo struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

// Stats summarizes a set of minute values. A zero Count carries no
// other fields.
type Stats struct {
	Count  int     `json:"count"`
	Avg    float64 `json:"avg_mins"`
	Median float64 `json:"median_mins"`
	Min    float64 `json:"min_mins"`
	Max    float64 `json:"max_mins"`
}

func (s Stats) MarshalJSON() ([]byte, error) {
	if s.Count == 0 {
		return []byte(`{"count":0}`), nil
	}
	type plain Stats
	return json.Marshal(plain(s))
}

// Bucket is an FRT group with SLA hit counts. Thresholds are inclusive.
type Bucket struct {
	Stats
	Under30m int `json:"under_30m"`
	Under1h  int `json:"under_1h"`
	Under4h  int `json:"under_4h"`
	Under8h  int `json:"under_8h"`
}

func (b Bucket) MarshalJSON() ([]byte, error) {
	if b.Count == 0 {
		return []byte(`{"count":0}`), nil
	}
	return json.Marshal(struct {
		Count    int     `json:"count"`
		Avg      float64 `json:"avg_mins"`
		Median   float64 `json:"median_mins"`
		Min      float64 `json:"min_mins"`
		Max      float64 `json:"max_mins"`
		Under30m int     `json:"under_30m"`
		Under1h  int     `json:"under_1h"`
		Under4h  int     `json:"under_4h"`
		Under8h  int     `json:"under_8h"`
	}{b.Count, b.Avg, b.Median, b.Min, b.Max, b.Under30m, b.Under1h, b.Under4h, b.Under8h})
}

// TicketRef identifies a ticket in a listing.
type TicketRef struct {
	TicketID  int64  `json:"ticket_id"`
	Subject   string `json:"subject"`
	CreatedAt string `json:"created_at"`
	Priority  string `json:"priority"`
	Customer  string `json:"customer"`
}

// BusinessHoursSection is present only when business hours are configured.
type BusinessHoursSection struct {
	Config                     biztime.BusinessHours `json:"config"`
	TicketsOutsideHours        int                   `json:"tickets_outside_hours"`
	TicketsOutsideHoursList    []TicketRef           `json:"tickets_outside_hours_list"`
	CustomerMsgsOutsideHours   int                   `json:"customer_msgs_outside_hours"`
	SupportRepliesOutsideHours int                   `json:"support_replies_outside_hours"`
}

// Engagement is a ticket that paged on-call.
type Engagement struct {
	TicketRef
	CreatedAtLocal string `json:"created_at_local"`
}

// OnCallSection is present only when on-call tracking is enabled.
type OnCallSection struct {
	Config      biztime.OnCall `json:"config"`
	Engagements []Engagement   `json:"engagements"`
}

// ConfirmedCall lists a ticket with direct call evidence.
type ConfirmedCall struct {
	TicketID int64    `json:"ticket_id"`
	Subject  string   `json:"subject"`
	Customer string   `json:"customer"`
	Count    int      `json:"count"`
	Evidence []string `json:"evidence"`
	Dates    []string `json:"dates"`
}

// LikelyCall lists a ticket where a meeting link was shared alongside setup talk.
type LikelyCall struct {
	TicketID int64  `json:"ticket_id"`
	Subject  string `json:"subject"`
	Customer string `json:"customer"`
	Platform string `json:"platform"`
	Link     string `json:"link"`
}

// CustomerCalls is the per-domain call rollup.
type CustomerCalls struct {
	Tickets int `json:"tickets"`
	Calls   int `json:"calls"`
}

// CallAnalysis aggregates call detection across tickets.
type CallAnalysis struct {
	TicketsWithCalls int                      `json:"tickets_with_calls"`
	ConfirmedCalls   int                      `json:"confirmed_calls"`
	LikelyCalls      int                      `json:"likely_calls"`
	CallRequests     int                      `json:"call_requests"`
	ConfirmedDetail  []ConfirmedCall          `json:"confirmed_detail"`
	LikelyDetail     []LikelyCall             `json:"likely_detail"`
	ByCustomer       map[string]CustomerCalls `json:"by_customer"`
}

// Report is the full analysis output, serialized as support_analysis.json.
type Report struct {
	TicketAnalysis    []TicketAnalysis          `json:"ticket_analysis"`
	CustomerStats     map[string]*CustomerStats `json:"customer_stats"`
	Summary           Summary                   `json:"summary"`
	Period            PeriodInfo                `json:"period"`
	StatusBreakdown   map[string]int            `json:"status_breakdown"`
	PriorityBreakdown map[string]int            `json:"priority_breakdown"`
	FRTStats          Stats                     `json:"frt_stats"`
	FRTByPriority     map[string]Bucket         `json:"frt_by_priority"`
	ResolutionStats   Stats                     `json:"resolution_stats"`
	ReopenCount       int                       `json:"reopen_count"`
	BusinessHours     *BusinessHoursSection     `json:"business_hours,omitempty"`
	OnCall            *OnCallSection            `json:"oncall,omitempty"`
	CallAnalysis      *CallAnalysis             `json:"call_analysis,omitempty"`
}
