package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"zendesk/internal/analysis"
	"zendesk/internal/logging"
	"zendesk/internal/report"
	"zendesk/internal/slack"
)

type markdownFlags struct {
	output string
	html   bool
}

func (a *app) newMarkdownReportCmd() *cobra.Command {
	var f markdownFlags
	cmd := &cobra.Command{
		Use:   "markdown-report [analysis-file]",
		Short: "Render a detailed Markdown report",
		Long: `Render support_analysis.json as a Markdown report. Without a file the newest
support_analysis.json below the cache directory is used.

The report goes to stdout unless --output is given. --html renders a
standalone, sanitized HTML page instead of Markdown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMarkdownReport(cmd, args, f)
		},
	}
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&f.html, "html", false, "Render HTML instead of Markdown")
	return cmd
}

func (a *app) runMarkdownReport(cmd *cobra.Command, args []string, f markdownFlags) error {
	path, err := a.resolveAnalysis(args)
	if err != nil {
		return err
	}
	r, err := analysis.ReadReport(path)
	if err != nil {
		return err
	}

	doc := report.RenderMarkdown(r, time.Now())
	if f.html {
		title := "Support Metrics Report"
		if r.Period.StartDate != "" {
			title += fmt.Sprintf(" (%s - %s)", r.Period.StartDate, r.Period.EndDate)
		}
		if doc, err = report.RenderHTMLPage(title, doc); err != nil {
			return err
		}
	}

	if f.output == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), doc)
		return err
	}
	if dir := filepath.Dir(f.output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(f.output, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logging.New("report").Info("report written", "path", f.output, "source", path)
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", f.output)
	return nil
}

type slackFlags struct {
	channel string
	dryRun  bool
}

func (a *app) newSlackReportCmd() *cobra.Command {
	var f slackFlags
	cmd := &cobra.Command{
		Use:   "slack-report [analysis-file]",
		Short: "Send the report to Slack",
		Long: `Render support_analysis.json as Slack blocks and post them to the incoming
webhook (ZENDESK_SLACK_WEBHOOK_URL or slack_webhook_url in the config file).
--dry-run prints the payload instead of sending it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSlackReport(cmd, args, f)
		},
	}
	cmd.Flags().StringVarP(&f.channel, "channel", "c", "", "Slack channel override")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Print the payload without sending")
	return cmd
}

func (a *app) runSlackReport(cmd *cobra.Command, args []string, f slackFlags) error {
	path, err := a.resolveAnalysis(args)
	if err != nil {
		return err
	}
	r, err := analysis.ReadReport(path)
	if err != nil {
		return err
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	webhook, channel := a.settings.Slack(cfg)
	if f.channel != "" {
		channel = f.channel
	}
	msg := report.RenderSlack(r, channel)

	out := cmd.OutOrStdout()
	if f.dryRun {
		data, err := json.MarshalIndent(msg, "", "  ")
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if strings.TrimSpace(webhook) == "" {
		return fmt.Errorf("slack webhook URL is not configured\n\nSet it via environment variable:\n  export ZENDESK_SLACK_WEBHOOK_URL=https://hooks.slack.com/services/...\n\nOr add slack_webhook_url to %s", a.settings.ConfigPath)
	}
	client, err := slack.New(webhook, slack.WithLogger(logging.New("slack")))
	if err != nil {
		return err
	}
	if err := client.Post(cmd.Context(), msg); err != nil {
		if slack.IsNotFound(err) {
			return fmt.Errorf("slack webhook not found (was it revoked?): %w", err)
		}
		return err
	}
	target := msg.Channel
	if target == "" {
		target = "the webhook's default channel"
	}
	fmt.Fprintf(out, "Report sent to %s (source %s)\n", target, path)
	return nil
}
