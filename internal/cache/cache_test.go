package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
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

func touch(t *testing.T, path string, mod time.Time) {
	t.Helper()
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
}

func TestLatestSearch(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "search_aaaa_1.json")
	newer := filepath.Join(dir, "search_bbbb_2.json")
	writeFile(t, older, `{"data":{"results":[]}}`)
	writeFile(t, newer, `{"data":{"results":[]}}`)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	touch(t, older, base)
	touch(t, newer, base.Add(time.Hour))

	got, err := Open(dir).LatestSearch()
	if err != nil {
		t.Fatalf("LatestSearch: %v", err)
	}
	if got != newer {
		t.Errorf("LatestSearch = %q, want %q", got, newer)
	}
}

func TestLatestSearch_Empty(t *testing.T) {
	_, err := Open(t.TempDir()).LatestSearch()
	if !errors.Is(err, ErrNoSearch) {
		t.Fatalf("err = %v, want ErrNoSearch", err)
	}
}

func TestLoadSearch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "search_x.json")
	writeFile(t, path, `{
		"metadata": {"tool": "search"},
		"data": {"results": [
			{"id": 1, "requester_id": 10, "subject": "Login broken", "status": "open", "priority": "urgent", "created_at": "2024-01-02T10:00:00Z"},
			{"id": 2, "requester_id": 11, "subject": "Question", "status": "solved", "priority": null, "created_at": "2024-01-03T10:00:00Z"}
		]}
	}`)
	got, err := LoadSearch(path)
	if err != nil {
		t.Fatalf("LoadSearch: %v", err)
	}
	want := &SearchResult{Results: []Ticket{
		{ID: 1, RequesterID: 10, Subject: "Login broken", Status: "open", Priority: "urgent", CreatedAt: "2024-01-02T10:00:00Z"},
		{ID: 2, RequesterID: 11, Subject: "Question", Status: "solved", CreatedAt: "2024-01-03T10:00:00Z"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadSearch mismatch (-want +got):\n%s", diff)
	}
}

func TestDetailsAndMetrics(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "42", "ticket_details_ab_1.json"), `{"data":{
		"ticket": {"id": 42},
		"comments": [
			{"id": 1, "author_id": 10, "body": "<p>hi</p>", "plain_body": "hi", "created_at": "2024-01-02T10:00:00Z"},
			{"id": 2, "author_id": 99, "body": "internal", "public": false, "created_at": "2024-01-02T11:00:00Z"}
		]}}`)
	writeFile(t, filepath.Join(dir, "42", "ticket_metrics_ab_1.json"), `{"data":{"ticket_metric":{
		"reply_time_in_minutes": {"calendar": 90, "business": 30},
		"full_resolution_time_in_minutes": {"calendar": 600, "business": null},
		"reopens": 1, "replies": 3}}}`)

	c := Open(dir)
	d, err := c.Details(42)
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if len(d.Comments) != 2 {
		t.Fatalf("comments = %d, want 2", len(d.Comments))
	}
	if got := d.Comments[0]; !got.IsPublic() || got.Text() != "hi" {
		t.Errorf("first comment public=%v text=%q", got.IsPublic(), got.Text())
	}
	if got := d.Comments[1]; got.IsPublic() || got.Text() != "internal" {
		t.Errorf("second comment public=%v text=%q", got.IsPublic(), got.Text())
	}

	m, err := c.Metrics(42)
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	tm := m.TicketMetric
	if tm.ReplyTime.Calendar == nil || *tm.ReplyTime.Calendar != 90 {
		t.Errorf("reply calendar = %v, want 90", tm.ReplyTime.Calendar)
	}
	if tm.FullResolutionTime.Business != nil {
		t.Errorf("resolution business = %v, want nil", *tm.FullResolutionTime.Business)
	}
	if tm.Reopens != 1 || tm.Replies != 3 {
		t.Errorf("reopens=%d replies=%d, want 1 3", tm.Reopens, tm.Replies)
	}
}

func TestDetails_Missing(t *testing.T) {
	_, err := Open(t.TempDir()).Details(7)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLoad_SkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "1", "ticket_details_a_1.json"), `{"data":{"comments":[]}}`)
	writeFile(t, filepath.Join(dir, "1", "ticket_metrics_a_1.json"), `{not json`)
	writeFile(t, filepath.Join(dir, "2", "ticket_metrics_a_1.json"), `{"data":{"ticket_metric":{"replies":2}}}`)

	got, err := Open(dir).Load(context.Background(), []int64{1, 2, 3}, 2)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[1].Details == nil || got[1].Metrics != nil {
		t.Errorf("ticket 1 = %+v, want details only", got[1])
	}
	if got[2].Details != nil || got[2].Metrics == nil || got[2].Metrics.TicketMetric.Replies != 2 {
		t.Errorf("ticket 2 = %+v, want metrics only", got[2])
	}
	if got[3].Details != nil || got[3].Metrics != nil {
		t.Errorf("ticket 3 = %+v, want empty", got[3])
	}
}

func TestLoad_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Open(t.TempDir()).Load(ctx, []int64{1}, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestUserEmails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "user_a_1.json"), `{"data":{"user":{"id":10,"email":"alice@a.com"}}}`)
	writeFile(t, filepath.Join(dir, "nested", "user_b_1.json"), `{"data":{"user":{"id":11,"email":"bob@b.com"}}}`)
	writeFile(t, filepath.Join(dir, "user_c_1.json"), `{"data":{"user":{"id":12,"email":"carol@c.com"}}}`)
	writeFile(t, filepath.Join(dir, "user_bad.json"), `oops`)

	got := Open(dir).UserEmails([]int64{10, 11, 13})
	want := map[int64]string{10: "alice@a.com", 11: "bob@b.com"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("UserEmails mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadUserMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	writeFile(t, path, `{"10": "alice@a.com"}`)
	got, err := LoadUserMap(path)
	if err != nil {
		t.Fatalf("LoadUserMap: %v", err)
	}
	if diff := cmp.Diff(map[int64]string{10: "alice@a.com"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	writeFile(t, path, `{"abc": "x@y.z"}`)
	if _, err := LoadUserMap(path); err == nil {
		t.Error("expected error for non-numeric id")
	}
}

func TestParseTime(t *testing.T) {
	if ParseTime("") != nil || ParseTime("yesterday") != nil {
		t.Error("expected nil for empty and malformed input")
	}
	got := ParseTime("2024-01-02T10:00:00Z")
	if got == nil || !got.Equal(time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseTime = %v", got)
	}
}
