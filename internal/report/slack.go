package report

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"zendesk/internal/analysis"
	"zendesk/internal/display"
	"zendesk/internal/format"
	"zendesk/internal/slack"
)

// Slack caps per section.
const (
	slackCustomerCap = 6
	slackTickets     = 10
	slackCallers     = 3
	slackFields      = 4
	slackEngagements = 5
)

// RenderSlack builds the Block Kit message for a report. Sections whose data
// is absent are left out. channel may be empty.
func RenderSlack(r *analysis.Report, channel string) slack.Message {
	total := r.Summary.TotalTickets
	var blocks []slack.Block

	blocks = append(blocks, slack.Header("📊 Support Metrics Report"))
	if r.Period.StartDate != "" && r.Period.EndDate != "" {
		blocks = append(blocks, slack.Context(fmt.Sprintf("📅 Period: %s - %s (%d days)", r.Period.StartDate, r.Period.EndDate, r.Period.Days)))
	}

	blocks = append(blocks, slackOverview(r)...)
	blocks = append(blocks, slackResponse(r)...)
	blocks = append(blocks, slackCalls(r)...)
	blocks = append(blocks, slackBreakdowns(r)...)
	blocks = append(blocks, slackBusinessHours(r)...)
	blocks = append(blocks, slackOnCall(r)...)
	blocks = append(blocks, slackCustomers(r)...)
	blocks = append(blocks, slackTopTickets(r)...)
	blocks = append(blocks, slack.Context("📞 = Call detected (best-effort from keywords)"))

	return slack.Message{
		Channel: slack.NormalizeChannel(channel),
		Text:    fmt.Sprintf("Support Metrics Report: %d tickets", total),
		Blocks:  blocks,
	}
}

func slackOverview(r *analysis.Report) []slack.Block {
	s := r.Summary
	withCalls, confirmed, likely := s.TicketsWithCalls, s.TotalCallsConfirmed, s.TotalCallsLikely
	if ca := r.CallAnalysis; ca != nil {
		withCalls, confirmed, likely = ca.TicketsWithCalls, ca.ConfirmedCalls, ca.LikelyCalls
	}
	callsText := fmt.Sprint(withCalls)
	if n := confirmed + likely; n > 0 {
		callsText = fmt.Sprintf("%d (%d calls)", withCalls, n)
	}
	replies := s.TotalReplies
	if replies == 0 {
		replies = s.TotalMessages
	}
	return []slack.Block{
		slack.Section("*📈 Overview*"),
		slack.Fields(
			fmt.Sprintf("*Total Tickets:*\n%d", s.TotalTickets),
			fmt.Sprintf("*Agent Replies:*\n%d", replies),
			fmt.Sprintf("*Tickets w/ Calls:*\n%s", callsText),
			fmt.Sprintf("*Unique Customers:*\n%d", s.UniqueCustomers),
		),
		slack.Divider(),
	}
}

func slackResponse(r *analysis.Report) []slack.Block {
	total := r.Summary.TotalTickets
	reopen := fmt.Sprintf("*Reopen Rate:*\n%s (%d/%d)", format.Pct(r.ReopenCount, total), r.ReopenCount, total)

	if r.FRTByPriority != nil {
		blocks := []slack.Block{slack.Section("*⏱️ First Response Time by Priority*")}
		var lines []string
		for _, key := range analysis.Buckets {
			b := r.FRTByPriority[key]
			if b.Count == 0 {
				continue
			}
			line := fmt.Sprintf("%s *%s:* %d tickets, median %s", bucketIcon(key), bucketLabel(key), b.Count, format.Mins(b.Median))
			if key == analysis.BucketOnCall {
				line += fmt.Sprintf(", %s <30m", format.Pct(b.Under30m, b.Count))
			}
			lines = append(lines, line)
		}
		if len(lines) > 0 {
			blocks = append(blocks, slack.Section(strings.Join(lines, "\n")))
		}
		var fields []string
		if rs := r.ResolutionStats; rs.Count > 0 {
			fields = append(fields,
				fmt.Sprintf("*Resolution Rate:*\n%s (%d/%d)", format.Pct(rs.Count, total), rs.Count, total),
				fmt.Sprintf("*Avg Resolution:*\n%s", format.Mins(rs.Avg)),
			)
		}
		fields = append(fields, reopen)
		return append(blocks, slack.Fields(fields...), slack.Divider())
	}

	if r.FRTStats.Count == 0 && r.ResolutionStats.Count == 0 {
		return nil
	}
	var fields []string
	if fs := r.FRTStats; fs.Count > 0 {
		fields = append(fields,
			fmt.Sprintf("*Avg FRT:*\n%s", format.Mins(fs.Avg)),
			fmt.Sprintf("*Median FRT:*\n%s", format.Mins(fs.Median)),
		)
	}
	if rs := r.ResolutionStats; rs.Count > 0 {
		fields = append(fields,
			fmt.Sprintf("*Avg Resolution:*\n%s", format.Mins(rs.Avg)),
			fmt.Sprintf("*Resolved:*\n%d/%d (%s)", rs.Count, total, format.Pct(rs.Count, total)),
		)
	}
	fields = append(fields, reopen)
	return []slack.Block{
		slack.Section("*⏱️ Response & Resolution Metrics*"),
		slack.Fields(fields...),
		slack.Divider(),
	}
}

func slackCalls(r *analysis.Report) []slack.Block {
	ca := r.CallAnalysis
	if ca == nil || ca.TicketsWithCalls == 0 {
		return nil
	}
	total := r.Summary.TotalTickets
	blocks := []slack.Block{slack.Section(fmt.Sprintf(
		"*📞 Call/Meeting Analysis*\n%d tickets (%s) with calls · *%d total* (%d confirmed, %d likely)",
		ca.TicketsWithCalls, format.Pct(ca.TicketsWithCalls, total), ca.ConfirmedCalls+ca.LikelyCalls, ca.ConfirmedCalls, ca.LikelyCalls,
	))}

	callers := slices.SortedFunc(maps.Keys(ca.ByCustomer), func(a, b string) int {
		if c := cmp.Compare(ca.ByCustomer[b].Calls, ca.ByCustomer[a].Calls); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	if len(callers) > slackCallers {
		callers = callers[:slackCallers]
	}
	if len(callers) > 0 {
		lines := make([]string, len(callers))
		for i, name := range callers {
			cc := ca.ByCustomer[name]
			lines[i] = fmt.Sprintf("• %s: %d calls (%s of %d tickets)", name, cc.Calls, format.Pct(cc.Calls, cc.Tickets), cc.Tickets)
		}
		blocks = append(blocks, slack.Context("Top callers: "+strings.Join(lines, " | ")))
	}
	return append(blocks, slack.Divider())
}

func slackBreakdowns(r *analysis.Report) []slack.Block {
	var blocks []slack.Block
	total := r.Summary.TotalTickets

	if len(r.StatusBreakdown) > 0 {
		fields := make([]string, 0, len(r.StatusBreakdown))
		for _, status := range byCountDesc(r.StatusBreakdown) {
			fields = append(fields, fmt.Sprintf("%s *%s:* %d", display.StatusIcon(status), display.Status(status), r.StatusBreakdown[status]))
		}
		blocks = append(blocks, slack.Section("*📋 Status Breakdown*"), slack.Fields(capFields(fields)...))
	}

	if len(r.PriorityBreakdown) > 0 {
		fields := make([]string, 0, len(r.PriorityBreakdown))
		for _, p := range byPriority(r.PriorityBreakdown) {
			n := r.PriorityBreakdown[p]
			fields = append(fields, fmt.Sprintf("%s *%s:* %d (%s)", display.PriorityIcon(p), display.Priority(p), n, format.Pct(n, total)))
		}
		blocks = append(blocks, slack.Section("*🚨 Priority Breakdown*"), slack.Fields(capFields(fields)...), slack.Divider())
	}
	return blocks
}

func slackBusinessHours(r *analysis.Report) []slack.Block {
	bh := r.BusinessHours
	if bh == nil {
		return nil
	}
	return []slack.Block{
		slack.Section(fmt.Sprintf("*🕐 Outside Business Hours* (%s %s)", display.HourRange(bh.Config.StartHour, bh.Config.EndHour), bh.Config.Timezone)),
		slack.Fields(
			fmt.Sprintf("*Tickets Created:*\n%d", bh.TicketsOutsideHours),
			fmt.Sprintf("*Customer Messages:*\n%d", bh.CustomerMsgsOutsideHours),
			fmt.Sprintf("*Support Replies:*\n%d", bh.SupportRepliesOutsideHours),
		),
	}
}

func slackOnCall(r *analysis.Report) []slack.Block {
	oc := r.OnCall
	if oc == nil || len(oc.Engagements) == 0 {
		return nil
	}
	shown := oc.Engagements
	if len(shown) > slackEngagements {
		shown = shown[:slackEngagements]
	}
	lines := make([]string, len(shown))
	for i, e := range shown {
		lines[i] = fmt.Sprintf("• *#%d* - %s - %s - _%s_", e.TicketID, e.CreatedAtLocal, e.Customer, format.Truncate(e.Subject, 25))
	}
	return []slack.Block{
		slack.Section(fmt.Sprintf("*🚨 On-Call Engagements* (%s or weekends, %s): %d",
			display.HourRange(oc.Config.StartHour, oc.Config.EndHour), display.Customers(oc.Config.Customers), len(oc.Engagements))),
		slack.Section(strings.Join(lines, "\n")),
		slack.Divider(),
	}
}

func slackCustomers(r *analysis.Report) []slack.Block {
	rows := r.CustomersByTickets()
	if len(rows) == 0 {
		return nil
	}
	if len(rows) > slackCustomerCap {
		rows = rows[:slackCustomerCap]
	}
	fields := make([]string, len(rows))
	for i, row := range rows {
		text := fmt.Sprintf("*%s*\n%d %s · %d msgs", row.Customer, row.Tickets, plural(row.Tickets, "ticket", "tickets"), row.Messages)
		if row.Calls > 0 {
			text += fmt.Sprintf(" · %d %s", row.Calls, plural(row.Calls, "call", "calls"))
		}
		fields[i] = text
	}
	return []slack.Block{
		slack.Section("*🏢 Tickets & Messages per Customer*"),
		slack.Fields(fields...),
		slack.Divider(),
	}
}

func slackTopTickets(r *analysis.Report) []slack.Block {
	tickets := r.TicketsByMessages()
	if len(tickets) == 0 {
		return nil
	}
	if len(tickets) > slackTickets {
		tickets = tickets[:slackTickets]
	}
	lines := make([]string, len(tickets))
	for i, t := range tickets {
		call := ""
		if t.HasCall() {
			call = " 📞"
		}
		lines[i] = fmt.Sprintf("• *#%d* - %d msgs%s - _%s_", t.TicketID, t.Messages, call, format.Truncate(t.Subject, 35))
	}
	return []slack.Block{
		slack.Section("*🎫 Top Tickets by Activity*"),
		slack.Section(strings.Join(lines, "\n")),
	}
}

func capFields(fields []string) []string {
	if len(fields) > slackFields {
		return fields[:slackFields]
	}
	return fields
}

var bucketIcons = map[string]string{
	analysis.BucketOnCall: "🔴",
	analysis.BucketUrgent: "🟠",
	analysis.BucketHigh:   "🟡",
	analysis.BucketNormal: "🟢",
	analysis.BucketLow:    "⚪",
}

func bucketIcon(key string) string { return bucketIcons[key] }

func bucketLabel(key string) string {
	if key == analysis.BucketUrgent {
		return "Urgent (biz hrs)"
	}
	return display.Bucket(key)
}
