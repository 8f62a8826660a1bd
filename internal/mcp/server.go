// Package mcp exposes the support-metrics engine as MCP tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"zendesk/internal/analysis"
	"zendesk/internal/cache"
	"zendesk/internal/config"
	"zendesk/internal/report"
	"zendesk/internal/slack"
)

// Options configures a Server.
type Options struct {
	CacheDir string
	// Config carries business hours and on-call; nil disables both.
	Config          *config.Config
	SlackWebhookURL string
	SlackChannel    string
	// HTTPClient is used for Slack posts; nil uses the slack package default.
	HTTPClient *http.Client
	Parallel   int
	Now        func() time.Time
	Version    string
	Logger     *slog.Logger
}

// Server wraps the MCP SDK server. It remembers the last analysis it wrote
// so report tools can be called without a path.
type Server struct {
	MCPServer *sdkmcp.Server

	opts   Options
	cache  *cache.Cache
	logger *slog.Logger

	mu           sync.Mutex
	lastAnalysis string
}

// NewServer creates an MCP server with the analysis and report tools.
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	s := &Server{
		opts:   opts,
		cache:  cache.Open(opts.CacheDir, cache.WithLogger(opts.Logger)),
		logger: opts.Logger,
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "zendesk", Version: opts.Version},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves over stdio until ctx is canceled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "analyze_support_metrics",
		Description: "Analyze cached Zendesk tickets for a period and write support_analysis.json. Uses the newest cached search result when search_file is empty.",
	}, s.handleAnalyze)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "markdown_report",
		Description: "Render a support_analysis.json as a Markdown report, optionally with sanitized HTML.",
	}, s.handleMarkdown)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "slack_report",
		Description: "Render a support_analysis.json as Slack blocks. Posts to the configured webhook when send is true.",
	}, s.handleSlack)
}

// --- Tool input/output types ---

type analyzeInput struct {
	SearchFile string `json:"search_file,omitempty" jsonschema:"cached search result file (default: newest search_*.json in the cache)"`
	Start      string `json:"start,omitempty" jsonschema:"period start, YYYY-MM-DD (default: 14 days before end)"`
	End        string `json:"end,omitempty" jsonschema:"period end, YYYY-MM-DD (default: now)"`
	OutputDir  string `json:"output_dir,omitempty" jsonschema:"directory for support_analysis.json (default: the cache dir)"`
}

type analyzeOutput struct {
	AnalysisFile string              `json:"analysis_file"`
	SearchFile   string              `json:"search_file"`
	Period       analysis.PeriodInfo `json:"period"`
	Summary      analysis.Summary    `json:"summary"`
}

type markdownInput struct {
	AnalysisFile string `json:"analysis_file,omitempty" jsonschema:"support_analysis.json path (default: last or newest analysis)"`
	HTML         bool   `json:"html,omitempty" jsonschema:"also return a sanitized HTML rendering"`
}

type markdownOutput struct {
	AnalysisFile string `json:"analysis_file"`
	Markdown     string `json:"markdown"`
	HTML         string `json:"html,omitempty"`
}

type slackInput struct {
	AnalysisFile string `json:"analysis_file,omitempty" jsonschema:"support_analysis.json path (default: last or newest analysis)"`
	Channel      string `json:"channel,omitempty" jsonschema:"Slack channel override"`
	Send         bool   `json:"send,omitempty" jsonschema:"post to the configured webhook instead of only rendering"`
}

type slackOutput struct {
	AnalysisFile string        `json:"analysis_file"`
	Sent         bool          `json:"sent"`
	Message      slack.Message `json:"message"`
}

// --- Tool handlers ---

func (s *Server) handleAnalyze(ctx context.Context, _ *sdkmcp.CallToolRequest, input analyzeInput) (*sdkmcp.CallToolResult, analyzeOutput, error) {
	cal, err := s.opts.Config.Calendar()
	if err != nil && !errors.Is(err, config.ErrNotConfigured) {
		return nil, analyzeOutput{}, fmt.Errorf("business hours: %w", err)
	}

	res, err := analysis.Run(ctx, s.cache, analysis.Options{
		SearchFile: input.SearchFile,
		Start:      input.Start,
		End:        input.End,
		Now:        s.opts.Now(),
		Calendar:   cal,
		OnCall:     s.opts.Config.ActiveOnCall(),
		Parallel:   s.opts.Parallel,
		Logger:     s.logger,
	})
	if err != nil {
		return nil, analyzeOutput{}, fmt.Errorf("analyze: %w", err)
	}

	dir := input.OutputDir
	if dir == "" {
		dir = s.cache.Dir()
	}
	path, err := analysis.WriteReport(dir, res.Report)
	if err != nil {
		return nil, analyzeOutput{}, err
	}
	s.mu.Lock()
	s.lastAnalysis = path
	s.mu.Unlock()
	s.logger.Info("analysis written", "path", path, "tickets", res.Report.Summary.TotalTickets)

	return nil, analyzeOutput{
		AnalysisFile: path,
		SearchFile:   res.SearchFile,
		Period:       res.Report.Period,
		Summary:      res.Report.Summary,
	}, nil
}

func (s *Server) handleMarkdown(_ context.Context, _ *sdkmcp.CallToolRequest, input markdownInput) (*sdkmcp.CallToolResult, markdownOutput, error) {
	path, r, err := s.loadReport(input.AnalysisFile)
	if err != nil {
		return nil, markdownOutput{}, err
	}
	out := markdownOutput{
		AnalysisFile: path,
		Markdown:     report.RenderMarkdown(r, s.opts.Now()),
	}
	if input.HTML {
		if out.HTML, err = report.RenderHTML(out.Markdown); err != nil {
			return nil, markdownOutput{}, err
		}
	}
	return nil, out, nil
}

func (s *Server) handleSlack(ctx context.Context, _ *sdkmcp.CallToolRequest, input slackInput) (*sdkmcp.CallToolResult, slackOutput, error) {
	path, r, err := s.loadReport(input.AnalysisFile)
	if err != nil {
		return nil, slackOutput{}, err
	}
	channel := input.Channel
	if channel == "" {
		channel = s.opts.SlackChannel
	}
	msg := report.RenderSlack(r, channel)
	out := slackOutput{AnalysisFile: path, Message: msg}
	if !input.Send {
		return nil, out, nil
	}

	opts := []slack.Option{slack.WithLogger(s.logger)}
	if s.opts.HTTPClient != nil {
		opts = append(opts, slack.WithHTTPClient(s.opts.HTTPClient))
	}
	client, err := slack.New(s.opts.SlackWebhookURL, opts...)
	if err != nil {
		return nil, slackOutput{}, fmt.Errorf("slack: %w", err)
	}
	if err := client.Post(ctx, msg); err != nil {
		return nil, slackOutput{}, fmt.Errorf("send slack report: %w", err)
	}
	out.Sent = true
	return nil, out, nil
}

// loadReport resolves an analysis path: explicit, then the last one this
// server wrote, then the newest in the cache.
func (s *Server) loadReport(path string) (string, *analysis.Report, error) {
	if path == "" {
		s.mu.Lock()
		path = s.lastAnalysis
		s.mu.Unlock()
	}
	if path == "" {
		var err error
		if path, err = s.cache.LatestAnalysis(); err != nil {
			if errors.Is(err, cache.ErrNotFound) {
				return "", nil, fmt.Errorf("no analysis file found in %s (run analyze_support_metrics first)", s.cache.Dir())
			}
			return "", nil, err
		}
	}
	r, err := analysis.ReadReport(path)
	if err != nil {
		return "", nil, err
	}
	return path, r, nil
}

// LastAnalysis returns the path of the last analysis written by this server.
func (s *Server) LastAnalysis() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAnalysis
}
