package analysis

import (
	"strings"
	"time"

	"zendesk/internal/biztime"
	"zendesk/internal/cache"
	"zendesk/internal/calls"
)

const (
	subjectLimit    = 40
	defaultPriority = "normal"
	unknownStatus   = "unknown"
	unknownCustomer = "unknown"
)

// Domain returns the lowercased email domain, or "unknown".
func Domain(email string) string {
	_, domain, ok := strings.Cut(email, "@")
	if !ok || domain == "" {
		return unknownCustomer
	}
	return strings.ToLower(domain)
}

// AnalyzeTicket joins a search stub with its cached files. Only comments
// inside the period are counted. cal may be nil when business hours are not
// configured.
func AnalyzeTicket(t cache.Ticket, files cache.TicketFiles, email string, p Period, cal *biztime.Calendar) TicketAnalysis {
	ta := TicketAnalysis{
		TicketID:    t.ID,
		RequesterID: t.RequesterID,
		Subject:     truncateRunes(t.Subject, subjectLimit),
		Status:      orDefault(t.Status, unknownStatus),
		Priority:    orDefault(t.Priority, defaultPriority),
		Customer:    Domain(email),
		CreatedAt:   t.CreatedAt,
	}
	created := t.Created()
	ta.IsNew = p.Contains(created)
	if cal != nil && created != nil {
		ta.OutsideHours = !cal.IsBusinessHours(created)
	}

	var detected []calls.Comment
	var firstReply *time.Time
	if files.Details != nil {
		for _, c := range files.Details.Comments {
			at := c.Created()
			if !p.Contains(at) {
				continue
			}
			ta.Messages++
			fromRequester := c.AuthorID == t.RequesterID
			if c.IsPublic() {
				ta.Public++
				if !fromRequester {
					ta.AgentReplies++
					if ta.IsNew && at.After(*created) && (firstReply == nil || at.Before(*firstReply)) {
						firstReply = at
					}
				}
			} else {
				ta.Private++
			}
			if cal != nil && !cal.IsBusinessHours(at) {
				switch {
				case fromRequester:
					ta.CustomerMsgsOOH++
				case c.IsPublic():
					ta.SupportRepliesOOH++
				}
			}
			detected = append(detected, calls.Comment{Body: c.Text(), CreatedAt: at, AuthorID: c.AuthorID})
		}
	}
	ta.CallInfo = calls.Detect(detected)
	if firstReply != nil {
		ta.FRTCalendar = minutesPtr(firstReply.Sub(*created))
		if cal != nil {
			ta.FRTBusiness = floatPtr(cal.BusinessMinutes(*created, *firstReply))
		}
	}

	if files.Metrics != nil {
		m := files.Metrics.TicketMetric
		ta.ResolutionMins = copyFloat(m.FullResolutionTime.Calendar)
		ta.Reopens = m.Reopens
		ta.Replies = m.Replies
		if ta.FRTCalendar == nil && (files.Details == nil || ta.AgentReplies > 0) {
			ta.FRTCalendar = copyFloat(m.ReplyTime.Calendar)
			ta.FRTBusiness = copyFloat(m.ReplyTime.Business)
			if ta.FRTCalendar != nil && ta.FRTBusiness != nil && *ta.FRTBusiness > *ta.FRTCalendar {
				*ta.FRTBusiness = *ta.FRTCalendar
			}
		}
	}
	return ta
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func minutesPtr(d time.Duration) *float64 { return floatPtr(d.Minutes()) }

func floatPtr(f float64) *float64 { return &f }

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	return floatPtr(*f)
}
