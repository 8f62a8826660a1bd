package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"zendesk/internal/biztime"
	"zendesk/internal/cache"
)

// OutputFile is the report file name written by WriteReport.
const OutputFile = "support_analysis.json"

// Options controls a Run.
type Options struct {
	// SearchFile is the cached search result; empty picks the newest one.
	SearchFile string
	Start, End string
	Now        time.Time
	Calendar   *biztime.Calendar
	OnCall     *biztime.OnCall
	// Users maps requester IDs to emails and wins over cached user files.
	Users    map[int64]string
	Parallel int
	Logger   *slog.Logger
}

// Result is a finished run.
type Result struct {
	Report     *Report
	SearchFile string
}

// Run loads everything the report needs from the cache and analyzes it.
// Only a missing or unreadable search result is fatal.
func Run(ctx context.Context, c *cache.Cache, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	var loc *time.Location
	if opts.Calendar != nil {
		loc = opts.Calendar.Location()
	}
	period, err := NewPeriod(opts.Start, opts.End, now, loc)
	if err != nil {
		return nil, err
	}

	searchFile := opts.SearchFile
	if searchFile == "" {
		if searchFile, err = c.LatestSearch(); err != nil {
			return nil, err
		}
	}
	search, err := cache.LoadSearch(searchFile)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded search results", "path", searchFile, "tickets", len(search.Results))

	ids := make([]int64, 0, len(search.Results))
	requesters := make([]int64, 0, len(search.Results))
	seen := make(map[int64]bool)
	for _, t := range search.Results {
		ids = append(ids, t.ID)
		if t.RequesterID != 0 && !seen[t.RequesterID] {
			seen[t.RequesterID] = true
			requesters = append(requesters, t.RequesterID)
		}
	}

	files, err := c.Load(ctx, ids, opts.Parallel)
	if err != nil {
		return nil, err
	}
	emails := c.UserEmails(requesters)
	for id, email := range opts.Users {
		emails[id] = email
	}
	logger.Info("resolved requesters", "requesters", len(requesters), "emails", len(emails))

	report := Analyze(Input{
		Tickets:  search.Results,
		Files:    files,
		Emails:   emails,
		Period:   period,
		Calendar: opts.Calendar,
		OnCall:   opts.OnCall,
	})
	return &Result{Report: report, SearchFile: searchFile}, nil
}

// WriteReport writes the report as indented JSON into dir and returns the path.
func WriteReport(dir string, r *Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	path := filepath.Join(dir, OutputFile)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// ReadReport loads a previously written report.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", filepath.Base(path), err)
	}
	return &r, nil
}
