package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"zendesk/internal/cache"
	"zendesk/internal/config"
	"zendesk/internal/logging"
	mcpserver "zendesk/internal/mcp"
)

func (a *app) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Long: `Starts an MCP server over stdin/stdout exposing analyze_support_metrics,
markdown_report and slack_report as tools.

The server exits when its parent process goes away.`,
		Args: cobra.NoArgs,
		RunE: a.runServe,
	}
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if _, err := cfg.Calendar(); err != nil && !errors.Is(err, config.ErrNotConfigured) {
		return fmt.Errorf("business hours: %w", err)
	}
	webhook, channel := a.settings.Slack(cfg)

	srv := mcpserver.NewServer(mcpserver.Options{
		CacheDir:        a.settings.CacheDir,
		Config:          cfg,
		SlackWebhookURL: webhook,
		SlackChannel:    channel,
		Parallel:        cache.DefaultParallel,
		Version:         version,
		Logger:          logging.New("mcp"),
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	mcpserver.WatchParent(ctx, cancel)

	logger := logging.New("mcp")
	logger.Info("starting MCP server over stdio",
		"cache_dir", a.settings.CacheDir,
		"business_hours", cfg.BusinessHours != nil,
		"oncall", cfg.ActiveOnCall() != nil)
	if oc := cfg.ActiveOnCall(); oc != nil && len(oc.Customers) == 0 {
		logger.Debug("on-call applies to all customers", "priorities", oc.Priorities, "window", fmt.Sprintf("%02d-%02d", oc.StartHour, oc.EndHour))
	}
	return srv.Run(ctx)
}
