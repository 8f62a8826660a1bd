package main

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"zendesk/internal/analysis"
	"zendesk/internal/display"
	"zendesk/internal/format"
)

// printSummary writes the human-readable analysis overview shown after analyze.
func printSummary(w io.Writer, r *analysis.Report) {
	s := r.Summary
	total := s.TotalTickets

	fmt.Fprintf(w, "Support Metrics: %s - %s (%d days)\n", r.Period.StartDate, r.Period.EndDate, r.Period.Days)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	overview := format.NewTable(format.ASCII)
	overview.Header("Metric", "Value")
	overview.Row("Tickets", fmt.Sprintf("%d (%d new, %d existing)", total, s.NewTickets, s.ExistingTickets))
	overview.Row("Messages in period", s.TotalMessages)
	overview.Row("Agent replies", s.TotalReplies)
	overview.Row("Unique customers", s.UniqueCustomers)
	overview.Row("Tickets with calls", fmt.Sprintf("%d (%d confirmed, %d likely, %d requests)", s.TicketsWithCalls, s.TotalCallsConfirmed, s.TotalCallsLikely, s.CallRequests))
	if fs := r.FRTStats; fs.Count > 0 {
		overview.Row("First response", fmt.Sprintf("avg %s, median %s (%d tickets)", format.Mins(fs.Avg), format.Mins(fs.Median), fs.Count))
	}
	if rs := r.ResolutionStats; rs.Count > 0 {
		overview.Row("Resolution", fmt.Sprintf("avg %s, median %s (%d tickets)", format.Mins(rs.Avg), format.Mins(rs.Median), rs.Count))
	}
	overview.Row("Reopened", fmt.Sprintf("%d (%s)", r.ReopenCount, format.Pct(r.ReopenCount, total)))
	fmt.Fprintln(w, overview.String())

	if r.FRTByPriority != nil {
		frt := format.NewTable(format.ASCII)
		frt.Header("FRT bucket", "Tickets", "Median", "<30m", "<1h", "<4h", "<8h")
		frt.Columns(
			format.ColumnConfig{Number: 2, Align: format.AlignRight},
			format.ColumnConfig{Number: 3, Align: format.AlignRight},
		)
		for _, key := range analysis.Buckets {
			b := r.FRTByPriority[key]
			if b.Count == 0 {
				continue
			}
			frt.Row(display.Bucket(key), b.Count, format.Mins(b.Median),
				format.Pct(b.Under30m, b.Count), format.Pct(b.Under1h, b.Count),
				format.Pct(b.Under4h, b.Count), format.Pct(b.Under8h, b.Count))
		}
		if frt.Len() > 0 {
			fmt.Fprintln(w, frt.String())
		}
	}

	if len(r.StatusBreakdown) > 0 || len(r.PriorityBreakdown) > 0 {
		var status, priority []string
		for _, k := range byCountDesc(r.StatusBreakdown) {
			status = append(status, fmt.Sprintf("%s %d", display.Status(k), r.StatusBreakdown[k]))
		}
		for _, k := range byCountDesc(r.PriorityBreakdown) {
			priority = append(priority, fmt.Sprintf("%s %d", display.Priority(k), r.PriorityBreakdown[k]))
		}
		fmt.Fprintf(w, "Status:   %s\n", strings.Join(status, ", "))
		fmt.Fprintf(w, "Priority: %s\n\n", strings.Join(priority, ", "))
	}

	if rows := r.CustomersByTickets(); len(rows) > 0 {
		cust := format.NewTable(format.ASCII)
		cust.Header("Customer", "Tickets", "Messages", "Replies", "Calls")
		for _, row := range rows {
			cust.Row(row.Customer, row.Tickets, row.Messages, row.Replies, row.Calls)
		}
		fmt.Fprintln(w, cust.String())
	}

	if bh := r.BusinessHours; bh != nil {
		fmt.Fprintf(w, "Outside business hours (%s %s): %d tickets, %d customer messages, %d support replies\n",
			display.HourRange(bh.Config.StartHour, bh.Config.EndHour), bh.Config.Timezone,
			bh.TicketsOutsideHours, bh.CustomerMsgsOutsideHours, bh.SupportRepliesOutsideHours)
	}
	if oc := r.OnCall; oc != nil {
		fmt.Fprintf(w, "On-call engagements: %d\n", len(oc.Engagements))
		for _, e := range oc.Engagements {
			fmt.Fprintf(w, "  #%d  %s  %s  %s\n", e.TicketID, e.CreatedAtLocal, e.Customer, format.Truncate(e.Subject, 40))
		}
	}
}

func byCountDesc(m map[string]int) []string {
	return slices.SortedFunc(maps.Keys(m), func(a, b string) int {
		if c := cmp.Compare(m[b], m[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
}
