package cache

import (
	"time"
)

// Every cached response is wrapped in an envelope; only Data is consumed here.
type envelope[T any] struct {
	Data T `json:"data"`
}

// Ticket is one stub of a cached search result.
type Ticket struct {
	ID          int64  `json:"id"`
	RequesterID int64  `json:"requester_id"`
	Subject     string `json:"subject"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	CreatedAt   string `json:"created_at"`
}

// Created returns the parsed creation time, or nil if absent or malformed.
func (t Ticket) Created() *time.Time { return ParseTime(t.CreatedAt) }

// SearchResult is the data block of a cached search response.
type SearchResult struct {
	Results []Ticket `json:"results"`
}

// Comment is one ticket comment from a cached details response.
type Comment struct {
	ID        int64  `json:"id"`
	AuthorID  int64  `json:"author_id"`
	Body      string `json:"body"`
	PlainBody string `json:"plain_body"`
	Public    *bool  `json:"public"`
	CreatedAt string `json:"created_at"`
}

// IsPublic reports the comment's visibility; absent means public.
func (c Comment) IsPublic() bool { return c.Public == nil || *c.Public }

// Text prefers the plain-text body.
func (c Comment) Text() string {
	if c.PlainBody != "" {
		return c.PlainBody
	}
	return c.Body
}

// Created returns the parsed creation time, or nil if absent or malformed.
func (c Comment) Created() *time.Time { return ParseTime(c.CreatedAt) }

// Details is the data block of a cached ticket-details response.
type Details struct {
	Ticket   *Ticket   `json:"ticket,omitempty"`
	Comments []Comment `json:"comments"`
}

// Duration is a Zendesk calendar/business minute pair. Either side may be null.
type Duration struct {
	Calendar *float64 `json:"calendar"`
	Business *float64 `json:"business"`
}

// TicketMetric is the ticket_metric object of a cached metrics response.
type TicketMetric struct {
	ReplyTime          Duration `json:"reply_time_in_minutes"`
	FullResolutionTime Duration `json:"full_resolution_time_in_minutes"`
	Reopens            int      `json:"reopens"`
	Replies            int      `json:"replies"`
}

// Metrics is the data block of a cached ticket-metrics response.
type Metrics struct {
	TicketMetric TicketMetric `json:"ticket_metric"`
}

type userData struct {
	User struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// TicketFiles holds whatever was cached for one ticket. Nil fields mean the
// file was missing or unreadable.
type TicketFiles struct {
	Details *Details
	Metrics *Metrics
}

// ParseTime parses an RFC 3339 timestamp; empty or malformed input yields nil.
func ParseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
