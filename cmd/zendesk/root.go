package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"zendesk/internal/cache"
	"zendesk/internal/config"
	"zendesk/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

// app carries state shared by every subcommand once flags are parsed.
type app struct {
	v        *viper.Viper
	settings *config.Settings
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}
	root := &cobra.Command{
		Use:   "zendesk",
		Short: "Support metrics from cached Zendesk data",
		Long: `zendesk analyzes cached Zendesk API responses (search results, ticket
details, ticket metrics, users) and renders support-metrics reports for
Slack and Markdown.

Settings can also come from the environment: ZENDESK_CACHE_DIR, ZENDESK_CONFIG,
ZENDESK_SLACK_WEBHOOK_URL, ZENDESK_SLACK_CHANNEL, ZENDESK_LOG_LEVEL and
ZENDESK_LOG_FORMAT.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	pf := root.PersistentFlags()
	pf.String("cache-dir", "", "Cache directory with API responses (default $TMPDIR/zendesk-skill)")
	pf.String("config", "", "Business-hours config file, YAML or JSON (default ~/.claude/.zendesk-skill/config.json)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: text, json, pretty")
	for key, flag := range map[string]string{
		"cache_dir":  "cache-dir",
		"config":     "config",
		"log_level":  "log-level",
		"log_format": "log-format",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(a.newAnalyzeCmd())
	root.AddCommand(a.newMarkdownReportCmd())
	root.AddCommand(a.newSlackReportCmd())
	root.AddCommand(a.newServeCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	s, err := config.LoadSettings(a.v)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(s.LogLevel)
	if err != nil {
		return err
	}
	logging.Init(level, s.LogFormat, cmd.ErrOrStderr())
	a.settings = s
	return nil
}

// loadConfig reads the business-hours file. A missing file is not an
// error: the report just leaves out its business-hours sections.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFromPath(a.settings.ConfigPath)
	if errors.Is(err, config.ErrNotConfigured) {
		logging.New("config").Debug("no config file, business hours disabled", "path", a.settings.ConfigPath)
		return &config.Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) cache() *cache.Cache {
	return cache.Open(a.settings.CacheDir, cache.WithLogger(logging.New("cache")))
}

// resolveAnalysis returns the explicit path, or the newest analysis in the cache.
func (a *app) resolveAnalysis(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	path, err := a.cache().LatestAnalysis()
	if errors.Is(err, cache.ErrNotFound) {
		return "", fmt.Errorf("no analysis file found in %s\n\nRun the analysis first or pass a file path:\n  zendesk analyze\n  zendesk markdown-report path/to/support_analysis.json", a.settings.CacheDir)
	}
	return path, err
}
