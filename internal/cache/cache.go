// Package cache reads Zendesk API responses previously saved to disk.
//
// Layout under the cache directory:
//
//	search_<hash>_<ts>.json                  search results
//	<ticket-id>/ticket_details_<hash>_<ts>.json
//	<ticket-id>/ticket_metrics_<hash>_<ts>.json
//	user_<hash>_<ts>.json                    single-user lookups
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotFound means no cache file exists for the request.
	ErrNotFound = errors.New("cache: not found")
	// ErrNoSearch means the cache directory holds no search result.
	ErrNoSearch = errors.New("cache: no search results found")
)

// DefaultParallel bounds concurrent file reads in Load.
const DefaultParallel = 8

// Cache is a read-only view over a cache directory.
type Cache struct {
	dir    string
	logger *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for skipped files.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// Open returns a Cache rooted at dir. The directory is not required to exist.
func Open(dir string, opts ...Option) *Cache {
	c := &Cache{dir: dir}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// Dir returns the cache root.
func (c *Cache) Dir() string { return c.dir }

// LatestSearch returns the most recently modified search result file.
func (c *Cache) LatestSearch() (string, error) {
	path, err := latest(c.dir, "search_*.json")
	if errors.Is(err, ErrNotFound) {
		return "", ErrNoSearch
	}
	return path, err
}

// LatestAnalysis returns the most recently modified support_analysis.json
// anywhere below the cache root.
func (c *Cache) LatestAnalysis() (string, error) {
	var best string
	var bestMod int64
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == c.dir {
				return err
			}
			return nil
		}
		if d.IsDir() || d.Name() != "support_analysis.json" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if m := info.ModTime().UnixNano(); best == "" || m > bestMod {
			best, bestMod = path, m
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("scan %s: %w", c.dir, err)
	}
	if best == "" {
		return "", ErrNotFound
	}
	return best, nil
}

// LoadSearch reads a cached search result.
func LoadSearch(path string) (*SearchResult, error) {
	var env envelope[SearchResult]
	if err := readJSON(path, &env); err != nil {
		return nil, fmt.Errorf("load search: %w", err)
	}
	return &env.Data, nil
}

// Details reads the newest cached ticket-details file for a ticket.
func (c *Cache) Details(ticketID int64) (*Details, error) {
	path, err := latest(c.ticketDir(ticketID), "ticket_details_*.json")
	if err != nil {
		return nil, err
	}
	var env envelope[Details]
	if err := readJSON(path, &env); err != nil {
		return nil, fmt.Errorf("ticket %d details: %w", ticketID, err)
	}
	return &env.Data, nil
}

// Metrics reads the newest cached ticket-metrics file for a ticket.
func (c *Cache) Metrics(ticketID int64) (*Metrics, error) {
	path, err := latest(c.ticketDir(ticketID), "ticket_metrics_*.json")
	if err != nil {
		return nil, err
	}
	var env envelope[Metrics]
	if err := readJSON(path, &env); err != nil {
		return nil, fmt.Errorf("ticket %d metrics: %w", ticketID, err)
	}
	return &env.Data, nil
}

// Load reads details and metrics for every ticket, at most parallel files at
// a time. Missing files are silently absent from the result; malformed files
// are logged and treated as missing. Only context cancellation is an error.
func (c *Cache) Load(ctx context.Context, ticketIDs []int64, parallel int) (map[int64]TicketFiles, error) {
	if parallel < 1 {
		parallel = DefaultParallel
	}
	var mu sync.Mutex
	out := make(map[int64]TicketFiles, len(ticketIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for _, id := range ticketIDs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var files TicketFiles
			if d, err := c.Details(id); err == nil {
				files.Details = d
			} else if !errors.Is(err, ErrNotFound) {
				c.logger.Warn("skipping unreadable details", "ticket_id", id, "error", err)
			}
			if m, err := c.Metrics(id); err == nil {
				files.Metrics = m
			} else if !errors.Is(err, ErrNotFound) {
				c.logger.Warn("skipping unreadable metrics", "ticket_id", id, "error", err)
			}
			mu.Lock()
			out[id] = files
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load ticket files: %w", err)
	}
	return out, nil
}

// UserEmails resolves requester IDs to emails from cached user lookups.
// IDs with no cached user are absent from the map.
func (c *Cache) UserEmails(ids []int64) map[int64]string {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make(map[int64]string)
	_ = filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := d.Name()
		if !strings.HasPrefix(name, "user_") || !strings.HasSuffix(name, ".json") {
			return nil
		}
		var env envelope[userData]
		if err := readJSON(path, &env); err != nil {
			c.logger.Warn("skipping unreadable user file", "path", path, "error", err)
			return nil
		}
		u := env.Data.User
		if want[u.ID] && u.Email != "" {
			out[u.ID] = u.Email
		}
		return nil
	})
	return out
}

// LoadUserMap reads an explicit {"<requester id>": "<email>"} file.
func LoadUserMap(path string) (map[int64]string, error) {
	var raw map[string]string
	if err := readJSON(path, &raw); err != nil {
		return nil, fmt.Errorf("load user map: %w", err)
	}
	out := make(map[int64]string, len(raw))
	for k, v := range raw {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("load user map: bad requester id %q", k)
		}
		out[id] = v
	}
	return out, nil
}

func (c *Cache) ticketDir(id int64) string {
	return filepath.Join(c.dir, strconv.FormatInt(id, 10))
}

// latest returns the newest file in dir matching pattern.
func latest(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", fmt.Errorf("glob %s: %w", pattern, err)
	}
	var best string
	var bestMod int64
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		if mod := info.ModTime().UnixNano(); best == "" || mod > bestMod || (mod == bestMod && m > best) {
			best, bestMod = m, mod
		}
	}
	if best == "" {
		return "", ErrNotFound
	}
	return best, nil
}

func readJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
