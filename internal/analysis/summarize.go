package analysis

import (
	"cmp"
	"slices"

	"zendesk/internal/biztime"
	"zendesk/internal/cache"
)

// SLA thresholds in minutes.
const (
	sla30m = 30
	sla1h  = 60
	sla4h  = 240
	sla8h  = 480
)

// Input is everything Analyze needs, already loaded.
type Input struct {
	Tickets []cache.Ticket
	Files   map[int64]cache.TicketFiles
	Emails  map[int64]string
	Period  Period
	// Calendar is nil when business hours are not configured.
	Calendar *biztime.Calendar
	// OnCall is nil when on-call tracking is disabled. It is ignored
	// without a Calendar.
	OnCall *biztime.OnCall
}

// Analyze builds the report in one pass. Ticket order follows the input.
func Analyze(in Input) *Report {
	onCall := in.OnCall
	if in.Calendar == nil {
		onCall = nil
	}

	r := &Report{
		TicketAnalysis:    make([]TicketAnalysis, 0, len(in.Tickets)),
		CustomerStats:     make(map[string]*CustomerStats),
		Period:            in.Period.Info(),
		StatusBreakdown:   make(map[string]int),
		PriorityBreakdown: make(map[string]int),
	}
	if in.Calendar != nil {
		r.BusinessHours = &BusinessHoursSection{
			Config:                  in.Calendar.Hours(),
			TicketsOutsideHoursList: []TicketRef{},
		}
		if onCall != nil {
			r.OnCall = &OnCallSection{Config: *onCall, Engagements: []Engagement{}}
		}
	}

	var frt, resolution []float64
	for _, t := range in.Tickets {
		ta := AnalyzeTicket(t, in.Files[t.ID], in.Emails[t.RequesterID], in.Period, in.Calendar)
		r.TicketAnalysis = append(r.TicketAnalysis, ta)

		r.StatusBreakdown[ta.Status]++
		r.PriorityBreakdown[ta.Priority]++
		if ta.FRTCalendar != nil {
			frt = append(frt, *ta.FRTCalendar)
		}
		if ta.ResolutionMins != nil {
			resolution = append(resolution, *ta.ResolutionMins)
		}
		if ta.Reopens > 0 {
			r.ReopenCount++
		}

		cs := r.CustomerStats[ta.Customer]
		if cs == nil {
			cs = &CustomerStats{TicketIDs: []int64{}}
			r.CustomerStats[ta.Customer] = cs
		}
		cs.Tickets++
		cs.Messages += ta.Messages
		cs.Replies += ta.AgentReplies
		cs.TicketIDs = append(cs.TicketIDs, ta.TicketID)
		if ta.HasCall() {
			cs.Calls++
		}

		if r.BusinessHours != nil {
			bh := r.BusinessHours
			bh.CustomerMsgsOutsideHours += ta.CustomerMsgsOOH
			bh.SupportRepliesOutsideHours += ta.SupportRepliesOOH
			if ta.OutsideHours {
				bh.TicketsOutsideHoursList = append(bh.TicketsOutsideHoursList, ref(ta))
			}
		}
		if r.OnCall != nil && onCall.Matches(ta.Priority, ta.Customer) {
			created := t.Created()
			if in.Calendar.IsOnCallHours(created, *onCall) {
				r.OnCall.Engagements = append(r.OnCall.Engagements, Engagement{
					TicketRef:      ref(ta),
					CreatedAtLocal: created.In(in.Calendar.Location()).Format("2006-01-02 15:04 MST"),
				})
			}
		}
	}
	if r.BusinessHours != nil {
		r.BusinessHours.TicketsOutsideHours = len(r.BusinessHours.TicketsOutsideHoursList)
	}

	r.FRTStats = NewStats(frt)
	r.ResolutionStats = NewStats(resolution)
	r.FRTByPriority = FRTByPriority(r.TicketAnalysis, onCall)
	r.CallAnalysis = analyzeCalls(r.TicketAnalysis)
	r.Summary = summarize(r)
	return r
}

// NewStats computes count, mean, upper median, min and max.
func NewStats(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return Stats{
		Count:  len(sorted),
		Avg:    sum / float64(len(sorted)),
		Median: sorted[len(sorted)/2],
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
}

// FRTByPriority places every ticket with an FRT into exactly one bucket.
// The on-call bucket measures calendar time; the others prefer business time.
// All five keys are always present.
func FRTByPriority(tickets []TicketAnalysis, onCall *biztime.OnCall) map[string]Bucket {
	values := make(map[string][]float64, len(Buckets))
	for _, t := range tickets {
		if t.FRTCalendar == nil && t.FRTBusiness == nil {
			continue
		}
		key := bucketFor(t, onCall)
		if key == BucketOnCall {
			values[key] = append(values[key], firstDefined(t.FRTCalendar, t.FRTBusiness))
		} else {
			values[key] = append(values[key], firstDefined(t.FRTBusiness, t.FRTCalendar))
		}
	}

	out := make(map[string]Bucket, len(Buckets))
	for _, key := range Buckets {
		vs := values[key]
		b := Bucket{Stats: NewStats(vs)}
		for _, v := range vs {
			if v <= sla30m {
				b.Under30m++
			}
			if v <= sla1h {
				b.Under1h++
			}
			if v <= sla4h {
				b.Under4h++
			}
			if v <= sla8h {
				b.Under8h++
			}
		}
		out[key] = b
	}
	return out
}

func bucketFor(t TicketAnalysis, onCall *biztime.OnCall) string {
	if onCall != nil && onCall.Matches(t.Priority, t.Customer) {
		return BucketOnCall
	}
	switch t.Priority {
	case BucketUrgent, BucketHigh, BucketLow:
		return t.Priority
	default:
		return BucketNormal
	}
}

func firstDefined(a, b *float64) float64 {
	if a != nil {
		return *a
	}
	return *b
}

func ref(t TicketAnalysis) TicketRef {
	return TicketRef{
		TicketID:  t.TicketID,
		Subject:   t.Subject,
		CreatedAt: t.CreatedAt,
		Priority:  t.Priority,
		Customer:  t.Customer,
	}
}

func analyzeCalls(tickets []TicketAnalysis) *CallAnalysis {
	ca := &CallAnalysis{
		ConfirmedDetail: []ConfirmedCall{},
		LikelyDetail:    []LikelyCall{},
		ByCustomer:      make(map[string]CustomerCalls),
	}
	for _, t := range tickets {
		info := t.CallInfo
		ca.ConfirmedCalls += info.Confirmed
		ca.LikelyCalls += info.Likely
		ca.CallRequests += info.Requests
		if !info.HasCall() {
			continue
		}
		ca.TicketsWithCalls++
		cc := ca.ByCustomer[t.Customer]
		cc.Tickets++
		cc.Calls += info.TotalEstimated
		ca.ByCustomer[t.Customer] = cc

		if info.Confirmed > 0 {
			ca.ConfirmedDetail = append(ca.ConfirmedDetail, ConfirmedCall{
				TicketID: t.TicketID,
				Subject:  t.Subject,
				Customer: t.Customer,
				Count:    info.Confirmed,
				Evidence: info.Evidence,
				Dates:    info.CallDates,
			})
			continue
		}
		lc := LikelyCall{TicketID: t.TicketID, Subject: t.Subject, Customer: t.Customer}
		if len(info.Links) > 0 {
			lc.Platform = info.Links[0].Platform
			lc.Link = info.Links[0].URL
		}
		ca.LikelyDetail = append(ca.LikelyDetail, lc)
	}
	return ca
}

func summarize(r *Report) Summary {
	s := Summary{
		TotalTickets:    len(r.TicketAnalysis),
		UniqueCustomers: len(r.CustomerStats),
	}
	replies := make([]int, 0, len(r.TicketAnalysis))
	for _, t := range r.TicketAnalysis {
		if t.IsNew {
			s.NewTickets++
		} else {
			s.ExistingTickets++
		}
		s.TotalMessages += t.Messages
		s.TotalReplies += t.AgentReplies
		if t.HasCall() {
			s.TicketsWithCalls++
		}
		s.TotalCallsConfirmed += t.CallInfo.Confirmed
		s.TotalCallsLikely += t.CallInfo.Likely
		s.CallRequests += t.CallInfo.Requests
		replies = append(replies, t.AgentReplies)
	}
	if len(replies) > 0 {
		slices.Sort(replies)
		s.AvgRepliesPerTicket = float64(s.TotalReplies) / float64(len(replies))
		s.MedianRepliesPerTicket = replies[len(replies)/2]
		s.MaxRepliesPerTicket = replies[len(replies)-1]
	}
	return s
}

// CustomerRow pairs a domain with its stats for ordered listings.
type CustomerRow struct {
	Customer string
	*CustomerStats
}

// CustomersByTickets orders customers by ticket count, descending, then by name.
func (r *Report) CustomersByTickets() []CustomerRow {
	rows := make([]CustomerRow, 0, len(r.CustomerStats))
	for name, cs := range r.CustomerStats {
		rows = append(rows, CustomerRow{Customer: name, CustomerStats: cs})
	}
	slices.SortFunc(rows, func(a, b CustomerRow) int {
		if c := cmp.Compare(b.Tickets, a.Tickets); c != 0 {
			return c
		}
		return cmp.Compare(a.Customer, b.Customer)
	})
	return rows
}

// TicketsByMessages orders tickets by in-period messages, descending, then by ID.
func (r *Report) TicketsByMessages() []TicketAnalysis {
	out := slices.Clone(r.TicketAnalysis)
	slices.SortStableFunc(out, func(a, b TicketAnalysis) int {
		if c := cmp.Compare(b.Messages, a.Messages); c != 0 {
			return c
		}
		return cmp.Compare(a.TicketID, b.TicketID)
	})
	return out
}
