package report

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"zendesk/internal/analysis"
	"zendesk/internal/display"
	"zendesk/internal/format"
)

// RenderMarkdown produces the full Markdown report. now stamps the footer
// and is passed in so rendering stays deterministic.
func RenderMarkdown(r *analysis.Report, now time.Time) string {
	var b strings.Builder

	writeTitle(&b, r)
	writeExecutiveSummary(&b, r)
	writeFRT(&b, r)
	writeResolution(&b, r)
	writeStatus(&b, r)
	writePriority(&b, r)
	writeCustomers(&b, r)
	writeCallAnalysis(&b, r)
	writeBusinessHours(&b, r)
	writeOnCall(&b, r)
	writeObservations(&b, r)
	writeFooter(&b, now)

	return b.String()
}

func writeTable(b *strings.Builder, tbl format.TableBuilder) {
	b.WriteString(tbl.String())
	b.WriteString("\n\n")
}

func rule(b *strings.Builder) { b.WriteString("---\n\n") }

func writeTitle(b *strings.Builder, r *analysis.Report) {
	b.WriteString("# Support Metrics Report\n\n")
	if p := r.Period; p.StartDate != "" && p.EndDate != "" {
		fmt.Fprintf(b, "**Period:** %s - %s (%d days)\n\n", p.StartDate, p.EndDate, p.Days)
	}
	rule(b)
}

func totalReplies(r *analysis.Report) int {
	if r.Summary.TotalReplies > 0 {
		return r.Summary.TotalReplies
	}
	return r.Summary.TotalMessages
}

func writeExecutiveSummary(b *strings.Builder, r *analysis.Report) {
	b.WriteString("## Executive Summary\n\n")
	tbl := format.NewTable(format.Markdown)
	tbl.Header("Metric", "Value")
	tbl.Row("Tickets Handled", r.Summary.TotalTickets)
	tbl.Row("New Tickets", r.Summary.NewTickets)
	tbl.Row("Total Agent Replies", totalReplies(r))
	if ca := r.CallAnalysis; ca != nil {
		tbl.Row("Tickets with Calls/Meetings", ca.TicketsWithCalls)
		tbl.Row("Total Calls Estimated", fmt.Sprintf("%d (%d confirmed, %d likely)", ca.ConfirmedCalls+ca.LikelyCalls, ca.ConfirmedCalls, ca.LikelyCalls))
	} else if r.Summary.TicketsWithCalls > 0 {
		tbl.Row("Tickets with Calls/Meetings", r.Summary.TicketsWithCalls)
	}
	tbl.Row("Unique Customers", r.Summary.UniqueCustomers)
	writeTable(b, tbl)
	rule(b)
}

type bucketRow struct {
	key    string
	label  string
	urgent bool
}

var bucketRows = []bucketRow{
	{analysis.BucketOnCall, "URGENT (on-call) - 24/7", true},
	{analysis.BucketUrgent, "URGENT (other) - biz hrs", true},
	{analysis.BucketHigh, "HIGH - biz hrs", false},
	{analysis.BucketNormal, "NORMAL - biz hrs", false},
	{analysis.BucketLow, "LOW - biz hrs", false},
}

func writeFRT(b *strings.Builder, r *analysis.Report) {
	if r.FRTByPriority == nil {
		return
	}
	b.WriteString("## First Response Time by Priority\n\n")
	if oc := r.OnCall; oc != nil && len(oc.Config.Customers) > 0 {
		fmt.Fprintf(b, "*%s urgent tickets measured in calendar time (24/7 on-call coverage)*\n", strings.Join(oc.Config.Customers, ", "))
	}
	if bh := r.BusinessHours; bh != nil {
		fmt.Fprintf(b, "*All other tickets measured in business hours only (%s %s)*\n\n", display.HourRange(bh.Config.StartHour, bh.Config.EndHour), bh.Config.Timezone)
	} else {
		b.WriteString("*Business hours not configured: times are calendar time*\n\n")
	}

	tbl := format.NewTable(format.Markdown)
	tbl.Header("Category", "Tickets", "Avg FRT", "Median FRT", "Min", "Max")
	for _, row := range bucketRows {
		s := r.FRTByPriority[row.key]
		if s.Count == 0 {
			continue
		}
		tbl.Row("**"+row.label+"**", s.Count, format.Mins(s.Avg), "**"+format.Mins(s.Median)+"**", format.Mins(s.Min), format.Mins(s.Max))
	}
	writeTable(b, tbl)

	for _, row := range bucketRows {
		s := r.FRTByPriority[row.key]
		if s.Count == 0 {
			continue
		}
		title, _, _ := strings.Cut(row.label, " - ")
		fmt.Fprintf(b, "### %s Response Time\n\n", title)
		sla := format.NewTable(format.Markdown)
		sla.Header("SLA Target", "Achievement")
		if row.urgent {
			sla.Row("Under 30 min", achievement(s.Under30m, s.Count))
			sla.Row("Under 1 hour", achievement(s.Under1h, s.Count))
		}
		sla.Row("Under 4 hours", achievement(s.Under4h, s.Count))
		if row.key == analysis.BucketHigh || row.key == analysis.BucketNormal {
			sla.Row("Under 8 hours (1 biz day)", achievement(s.Under8h, s.Count))
		}
		writeTable(b, sla)
	}
	rule(b)
}

func achievement(n, total int) string {
	return fmt.Sprintf("%s (%d/%d)", format.Pct(n, total), n, total)
}

func writeResolution(b *strings.Builder, r *analysis.Report) {
	rs := r.ResolutionStats
	if rs.Count == 0 && r.ReopenCount == 0 {
		return
	}
	total := r.Summary.TotalTickets
	b.WriteString("## Resolution Metrics\n\n")
	tbl := format.NewTable(format.Markdown)
	tbl.Header("Metric", "Value")
	if rs.Count > 0 {
		tbl.Row("**Average Resolution Time**", format.Mins(rs.Avg))
		tbl.Row("**Median Resolution Time**", format.Mins(rs.Median))
		tbl.Row("**Resolution Rate**", achievement(rs.Count, total))
	}
	tbl.Row("**Reopen Rate**", achievement(r.ReopenCount, total))
	writeTable(b, tbl)

	if s := r.Summary; s.AvgRepliesPerTicket > 0 {
		b.WriteString("### Reply Statistics\n\n")
		rep := format.NewTable(format.Markdown)
		rep.Header("Metric", "Value")
		rep.Row("Average replies per ticket", fmt.Sprintf("%.1f", s.AvgRepliesPerTicket))
		rep.Row("Median replies per ticket", s.MedianRepliesPerTicket)
		rep.Row("Max replies on single ticket", s.MaxRepliesPerTicket)
		writeTable(b, rep)
	}
	rule(b)
}

func writeStatus(b *strings.Builder, r *analysis.Report) {
	if len(r.StatusBreakdown) == 0 {
		return
	}
	b.WriteString("## Status Breakdown\n\n")
	tbl := format.NewTable(format.Markdown)
	tbl.Header("Status", "Count", "Percentage")
	for _, status := range byCountDesc(r.StatusBreakdown) {
		n := r.StatusBreakdown[status]
		tbl.Row(display.Status(status), n, format.Pct1(n, r.Summary.TotalTickets))
	}
	writeTable(b, tbl)
	rule(b)
}

func writePriority(b *strings.Builder, r *analysis.Report) {
	if len(r.PriorityBreakdown) == 0 {
		return
	}
	b.WriteString("## Priority Breakdown\n\n")
	tbl := format.NewTable(format.Markdown)
	tbl.Header("Priority", "Count", "Percentage")
	for _, p := range byPriority(r.PriorityBreakdown) {
		n := r.PriorityBreakdown[p]
		tbl.Row(display.Priority(p), n, format.Pct1(n, r.Summary.TotalTickets))
	}
	writeTable(b, tbl)
	rule(b)
}

func writeCustomers(b *strings.Builder, r *analysis.Report) {
	rows := r.CustomersByTickets()
	if len(rows) == 0 {
		return
	}
	b.WriteString("## Tickets by Customer\n\n")
	tbl := format.NewTable(format.Markdown)
	tbl.Header("Customer", "Tickets", "Messages", "Agent Replies")
	for _, row := range rows {
		tbl.Row(row.Customer, row.Tickets, row.Messages, row.Replies)
	}
	writeTable(b, tbl)
	rule(b)
}

func writeCallAnalysis(b *strings.Builder, r *analysis.Report) {
	ca := r.CallAnalysis
	if ca == nil && r.Summary.TicketsWithCalls == 0 {
		return
	}
	b.WriteString("## Call/Meeting Analysis\n\n")
	b.WriteString("*Calls detected by analyzing ticket comments for meeting links (Zoom, Teams, Meet) and call-related keywords*\n\n")
	b.WriteString("> **Note:** Call detection is best-effort and most likely **underestimates** the actual number of calls. " +
		"Calls scheduled via email, direct calendar invites, or described with non-standard wording are not detected.\n\n")

	if ca != nil {
		total := r.Summary.TotalTickets
		b.WriteString("### Summary\n\n")
		tbl := format.NewTable(format.Markdown)
		tbl.Header("Category", "Count")
		tbl.Row("Tickets with calls/meetings", fmt.Sprintf("%d (%s)", ca.TicketsWithCalls, format.Pct1(ca.TicketsWithCalls, total)))
		tbl.Row("**Confirmed calls** (evidence call happened)", ca.ConfirmedCalls)
		tbl.Row("**Likely calls** (meeting link + setup discussion)", ca.LikelyCalls)
		tbl.Row("Call requests without a scheduled call", ca.CallRequests)
		tbl.Row("Total estimated calls", fmt.Sprintf("**%d**", ca.ConfirmedCalls+ca.LikelyCalls))
		writeTable(b, tbl)

		if len(ca.ConfirmedDetail) > 0 {
			b.WriteString("### Confirmed Calls (evidence in comments)\n\n")
			tbl := format.NewTable(format.Markdown)
			tbl.Header("Ticket", "Calls", "Dates", "Evidence")
			for _, c := range ca.ConfirmedDetail {
				tbl.Row(fmt.Sprintf("#%d", c.TicketID), c.Count, orNA(strings.Join(c.Dates, ", ")), orNA(strings.Join(c.Evidence, "; ")))
			}
			writeTable(b, tbl)
		}
		if len(ca.LikelyDetail) > 0 {
			b.WriteString("### Likely Calls (meeting link shared with setup)\n\n")
			tbl := format.NewTable(format.Markdown)
			tbl.Header("Ticket", "Platform", "Link")
			for _, c := range ca.LikelyDetail {
				tbl.Row(fmt.Sprintf("#%d", c.TicketID), orNA(c.Platform), orNA(c.Link))
			}
			writeTable(b, tbl)
		}
		if len(ca.ByCustomer) > 0 {
			b.WriteString("### Call Rate by Customer\n\n")
			names := slices.SortedFunc(maps.Keys(ca.ByCustomer), func(x, y string) int {
				if c := cmp.Compare(ca.ByCustomer[y].Calls, ca.ByCustomer[x].Calls); c != 0 {
					return c
				}
				return cmp.Compare(x, y)
			})
			tbl := format.NewTable(format.Markdown)
			tbl.Header("Customer", "Tickets", "Calls", "Call Rate")
			for _, name := range names {
				cc := ca.ByCustomer[name]
				tbl.Row(name, cc.Tickets, cc.Calls, format.Pct1(cc.Calls, cc.Tickets))
			}
			writeTable(b, tbl)
		}
	}
	rule(b)
}

func writeBusinessHours(b *strings.Builder, r *analysis.Report) {
	bh := r.BusinessHours
	if bh == nil {
		return
	}
	b.WriteString("## Business Hours Analysis\n\n")
	fmt.Fprintf(b, "*Business hours: %s %s, %s*\n\n", display.HourRange(bh.Config.StartHour, bh.Config.EndHour), bh.Config.Timezone, display.Weekdays(bh.Config.Workdays))
	tbl := format.NewTable(format.Markdown)
	tbl.Header("Metric", "Count")
	tbl.Row("Tickets created outside business hours", fmt.Sprintf("%d (%s)", bh.TicketsOutsideHours, format.Pct1(bh.TicketsOutsideHours, r.Summary.TotalTickets)))
	tbl.Row("Customer messages outside business hours", bh.CustomerMsgsOutsideHours)
	tbl.Row("Support replies outside business hours", bh.SupportRepliesOutsideHours)
	writeTable(b, tbl)
	rule(b)
}

func writeOnCall(b *strings.Builder, r *analysis.Report) {
	oc := r.OnCall
	if oc == nil || len(oc.Engagements) == 0 {
		return
	}
	b.WriteString("## On-Call Engagements\n\n")
	fmt.Fprintf(b, "*On-call window: %s or weekends, tracked for %s (%s)*\n\n",
		display.HourRange(oc.Config.StartHour, oc.Config.EndHour), display.Customers(oc.Config.Customers), strings.Join(oc.Config.Priorities, ", "))
	tbl := format.NewTable(format.Markdown)
	tbl.Header("Ticket", "Date/Time", "Customer", "Subject")
	for _, e := range oc.Engagements {
		tbl.Row(fmt.Sprintf("#%d", e.TicketID), orNA(e.CreatedAtLocal), e.Customer, format.Truncate(e.Subject, 50))
	}
	writeTable(b, tbl)
	fmt.Fprintf(b, "**Total on-call engagements:** %d\n\n", len(oc.Engagements))
	rule(b)
}

func writeObservations(b *strings.Builder, r *analysis.Report) {
	total := r.Summary.TotalTickets
	b.WriteString("## Key Observations\n\n")

	b.WriteString("### Response Performance Highlights\n\n")
	if oc := r.FRTByPriority[analysis.BucketOnCall]; oc.Count > 0 {
		fmt.Fprintf(b, "- **On-call urgent tickets**: **%s responded within 30 minutes** (median %s) with 24/7 coverage\n",
			format.Pct(oc.Under30m, oc.Count), format.Mins(oc.Median))
	}
	for _, row := range []struct{ key, label string }{
		{analysis.BucketUrgent, "Other urgent tickets"},
		{analysis.BucketHigh, "High priority"},
		{analysis.BucketNormal, "Normal priority"},
		{analysis.BucketLow, "Low priority"},
	} {
		if s := r.FRTByPriority[row.key]; s.Count > 0 {
			fmt.Fprintf(b, "- **%s**: Median FRT of %s\n", row.label, format.Mins(s.Median))
		}
	}
	b.WriteString("\n")

	if rows := r.CustomersByTickets(); len(rows) > 0 {
		b.WriteString("### Top Customers by Volume\n\n")
		for i, row := range rows[:min(3, len(rows))] {
			fmt.Fprintf(b, "%d. **%s** - %d tickets (%s), %d agent replies\n", i+1, row.Customer, row.Tickets, format.Pct1(row.Tickets, total), row.Replies)
		}
		b.WriteString("\n")
	}

	if rs := r.ResolutionStats; rs.Count > 0 {
		b.WriteString("### Resolution Quality\n\n")
		fmt.Fprintf(b, "- **%s resolution rate** with median resolution time of %s\n", format.Pct1(rs.Count, total), format.Mins(rs.Median))
		fmt.Fprintf(b, "- **%s reopen rate** (%d tickets reopened at least once)\n", format.Pct1(r.ReopenCount, total), r.ReopenCount)
		if avg := r.Summary.AvgRepliesPerTicket; avg > 0 {
			fmt.Fprintf(b, "- Average of **%.1f replies per ticket**\n", avg)
		}
		b.WriteString("\n")
	}

	if bh := r.BusinessHours; bh != nil {
		b.WriteString("### After-Hours Activity\n\n")
		fmt.Fprintf(b, "- **%s** of tickets were created outside business hours\n", format.Pct(bh.TicketsOutsideHours, total))
		if r.OnCall != nil && len(r.OnCall.Engagements) > 0 {
			fmt.Fprintf(b, "- %d on-call engagements over the period\n", len(r.OnCall.Engagements))
		}
		b.WriteString("\n")
	}

	if ca := r.CallAnalysis; ca != nil && ca.TicketsWithCalls > 0 {
		b.WriteString("### Call/Meeting Engagement\n\n")
		fmt.Fprintf(b, "- **%d tickets (%s)** involved calls or video meetings\n", ca.TicketsWithCalls, format.Pct1(ca.TicketsWithCalls, total))
		fmt.Fprintf(b, "- **%d total calls** estimated (%d confirmed, %d likely)\n", ca.ConfirmedCalls+ca.LikelyCalls, ca.ConfirmedCalls, ca.LikelyCalls)
		b.WriteString("\n")
	}
	rule(b)
}

func writeFooter(b *strings.Builder, now time.Time) {
	fmt.Fprintf(b, "*Report generated: %s*\n", now.Format("January 02, 2006"))
	b.WriteString("*Data source: cached Zendesk API responses*\n\n")
	b.WriteString("*Methodology:*\n\n")
	b.WriteString("- *FRT: first public reply by someone other than the requester, for tickets created in the period; Zendesk Ticket Metrics otherwise*\n")
	b.WriteString("- *Calendar time for on-call urgent tickets (24/7 coverage), business hours for all others*\n")
	b.WriteString("- *Call detection: meeting links (Zoom, Teams, Meet) and call-related phrases. \"Confirmed\" calls have evidence " +
		"(e.g. \"following our call\", \"meeting notes\"). \"Likely\" calls have a meeting link plus setup discussion.*\n")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
