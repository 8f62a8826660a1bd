package format_test

import (
	"strings"
	"testing"

	"zendesk/internal/format"
)

func TestASCII_BasicTable(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Header("Customer", "Tickets", "Messages")
	tb.Row("acme.com", 3, 14)
	tb.Row("beta.io", 1, 2)
	out := tb.String()

	for _, want := range []string{"Customer", "acme.com", "14", "───"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "CUSTOMER") {
		t.Errorf("header should keep its case:\n%s", out)
	}
	if tb.Len() != 2 {
		t.Errorf("Len = %d, want 2", tb.Len())
	}
}

func TestMarkdown_BasicTable(t *testing.T) {
	tb := format.NewTable(format.Markdown)
	tb.Header("Status", "Count")
	tb.Row("Open", 3)
	out := tb.String()

	if !strings.Contains(out, "| Status") {
		t.Errorf("expected markdown header with '| Status':\n%s", out)
	}
	if !strings.Contains(out, "---") {
		t.Errorf("expected markdown separator '---':\n%s", out)
	}
	if !strings.Contains(out, "| Open") {
		t.Errorf("expected '| Open' row:\n%s", out)
	}
}

func TestColumns_RightAlign(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Header("Name", "Value")
	tb.Row("tickets", 12345)
	tb.Columns(format.ColumnConfig{Number: 2, Align: format.AlignRight})
	if out := tb.String(); !strings.Contains(out, "12345") {
		t.Errorf("expected '12345' in output:\n%s", out)
	}
}

func TestMinutes(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		in   *float64
		want string
	}{
		{nil, "N/A"},
		{f(0), "0m"},
		{f(45.9), "45m"},
		{f(59.99), "59m"},
		{f(60), "1.0h"},
		{f(150), "2.5h"},
		{f(1439), "24.0h"},
		{f(1440), "1.0d"},
		{f(2880), "2.0d"},
	}
	for _, tc := range tests {
		if got := format.Minutes(tc.in); got != tc.want {
			t.Errorf("Minutes(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPct_Floors(t *testing.T) {
	tests := []struct {
		n, total int
		want     string
	}{
		{1, 3, "33%"},
		{2, 3, "66%"},
		{3, 3, "100%"},
		{0, 5, "0%"},
		{1, 0, "0%"},
	}
	for _, tc := range tests {
		if got := format.Pct(tc.n, tc.total); got != tc.want {
			t.Errorf("Pct(%d, %d) = %q, want %q", tc.n, tc.total, got, tc.want)
		}
	}
}

func TestPct1(t *testing.T) {
	if got := format.Pct1(1, 3); got != "33.3%" {
		t.Errorf("Pct1(1, 3) = %q", got)
	}
	if got := format.Pct1(2, 3); got != "66.7%" {
		t.Errorf("Pct1(2, 3) = %q", got)
	}
	if got := format.Pct1(1, 0); got != "0.0%" {
		t.Errorf("Pct1(1, 0) = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 8, "hello..."},
		{"abcdef", 3, "abc"},
		{"Grüße aus München", 8, "Grüße..."},
	}
	for _, tc := range tests {
		if got := format.Truncate(tc.in, tc.maxLen); got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
		}
	}
}

func TestFloat(t *testing.T) {
	if got := format.Float(3); got != "3" {
		t.Errorf("Float(3) = %q", got)
	}
	if got := format.Float(2.5); got != "2.5" {
		t.Errorf("Float(2.5) = %q", got)
	}
}

func TestBoolMark(t *testing.T) {
	if format.BoolMark(true) != "✓" || format.BoolMark(false) != "✗" {
		t.Error("unexpected marks")
	}
}
