package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// seedCache writes a minimal cache plus a business-hours config and
// returns the cache dir and config path.
func seedCache(t *testing.T) (string, string) {
	t.Helper()
	for _, k := range []string{"ZENDESK_CACHE_DIR", "ZENDESK_CONFIG", "ZENDESK_SLACK_WEBHOOK_URL", "ZENDESK_SLACK_CHANNEL", "ZENDESK_LOG_LEVEL", "ZENDESK_LOG_FORMAT"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "search_q_1.json"), `{"data":{"results":[
		{"id": 7, "requester_id": 10, "subject": "Sync fails", "status": "open", "priority": "urgent", "created_at": "2024-01-02T21:30:00Z"},
		{"id": 8, "requester_id": 11, "subject": "Billing question", "status": "solved", "priority": "normal", "created_at": "2024-01-03T10:00:00Z"}
	]}}`)
	writeFile(t, filepath.Join(dir, "7", "ticket_details_q_1.json"), `{"data":{"comments":[
		{"author_id": 10, "body": "sync is broken", "created_at": "2024-01-02T21:30:00Z"},
		{"author_id": 99, "body": "looking, joining https://zoom.us/j/123 now", "created_at": "2024-01-02T21:50:00Z"}
	]}}`)
	writeFile(t, filepath.Join(dir, "8", "ticket_details_q_1.json"), `{"data":{"comments":[
		{"author_id": 11, "body": "invoice?", "created_at": "2024-01-03T10:00:00Z"},
		{"author_id": 99, "body": "attached", "created_at": "2024-01-03T11:00:00Z"}
	]}}`)
	writeFile(t, filepath.Join(dir, "user_q_10.json"), `{"data":{"user":{"id":10,"email":"ops@acme.com"}}}`)
	writeFile(t, filepath.Join(dir, "user_q_11.json"), `{"data":{"user":{"id":11,"email":"fin@beta.io"}}}`)

	cfg := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, cfg, `business_hours:
  timezone: UTC
oncall:
  enabled: true
`)
	return dir, cfg
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyze_WritesReportAndSummary(t *testing.T) {
	dir, cfg := seedCache(t)

	out, err := run(t, "analyze", "--cache-dir", dir, "--config", cfg, "--start", "2024-01-01", "--end", "2024-01-15")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	path := filepath.Join(dir, "support_analysis.json")
	if !strings.Contains(out, "Analysis written to "+path) {
		t.Errorf("output missing written path:\n%s", out)
	}
	for _, want := range []string{"acme.com", "beta.io", "On-call engagements: 1", "Outside business hours"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read analysis: %v", err)
	}
	var got struct {
		Summary struct {
			TotalTickets int `json:"total_tickets"`
		} `json:"summary"`
		FRTByPriority map[string]struct {
			Count int `json:"count"`
		} `json:"frt_by_priority"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("parse analysis: %v", err)
	}
	if got.Summary.TotalTickets != 2 {
		t.Errorf("total_tickets = %d, want 2", got.Summary.TotalTickets)
	}
	if got.FRTByPriority["oncall"].Count != 1 {
		t.Errorf("oncall bucket = %d, want 1", got.FRTByPriority["oncall"].Count)
	}
}

func TestAnalyze_NoSearchResults(t *testing.T) {
	_, cfg := seedCache(t)

	_, err := run(t, "analyze", "--cache-dir", t.TempDir(), "--config", cfg)
	if err == nil || !strings.Contains(err.Error(), "no search results") {
		t.Fatalf("err = %v, want no search results", err)
	}
}

func TestReports_FromLatestAnalysis(t *testing.T) {
	dir, cfg := seedCache(t)
	if _, err := run(t, "analyze", "--cache-dir", dir, "--config", cfg, "--start", "2024-01-01", "--end", "2024-01-15"); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	md, err := run(t, "markdown-report", "--cache-dir", dir, "--config", cfg)
	if err != nil {
		t.Fatalf("markdown-report: %v", err)
	}
	if !strings.HasPrefix(md, "# Support Metrics Report") {
		t.Errorf("unexpected markdown:\n%s", md)
	}
	if !strings.Contains(md, "## On-Call Engagements") {
		t.Errorf("markdown missing on-call section")
	}

	htmlPath := filepath.Join(t.TempDir(), "out", "report.html")
	if _, err := run(t, "markdown-report", "--cache-dir", dir, "--config", cfg, "--html", "-o", htmlPath); err != nil {
		t.Fatalf("markdown-report --html: %v", err)
	}
	page, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("read html: %v", err)
	}
	if !strings.Contains(string(page), "<table>") {
		t.Errorf("html page has no table")
	}

	payload, err := run(t, "slack-report", "--cache-dir", dir, "--config", cfg, "--dry-run", "--channel", "support")
	if err != nil {
		t.Fatalf("slack-report --dry-run: %v", err)
	}
	if !strings.Contains(payload, `"channel": "#support"`) {
		t.Errorf("payload missing channel:\n%s", payload)
	}
}

func TestSlackReport_RequiresWebhook(t *testing.T) {
	dir, cfg := seedCache(t)
	if _, err := run(t, "analyze", "--cache-dir", dir, "--config", cfg, "--start", "2024-01-01", "--end", "2024-01-15"); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	_, err := run(t, "slack-report", "--cache-dir", dir, "--config", cfg)
	if err == nil || !strings.Contains(err.Error(), "webhook URL is not configured") {
		t.Fatalf("err = %v, want missing webhook", err)
	}
}

func TestMarkdownReport_NoAnalysis(t *testing.T) {
	_, cfg := seedCache(t)

	_, err := run(t, "markdown-report", "--cache-dir", t.TempDir(), "--config", cfg)
	if err == nil || !strings.Contains(err.Error(), "no analysis file found") {
		t.Fatalf("err = %v, want no analysis file", err)
	}
}
