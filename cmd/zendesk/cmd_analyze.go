package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"zendesk/internal/analysis"
	"zendesk/internal/cache"
	"zendesk/internal/config"
	"zendesk/internal/logging"
)

type analyzeFlags struct {
	start    string
	end      string
	output   string
	users    string
	parallel int
}

func (a *app) newAnalyzeCmd() *cobra.Command {
	var f analyzeFlags
	cmd := &cobra.Command{
		Use:   "analyze [search-file]",
		Short: "Analyze cached tickets and write support_analysis.json",
		Long: `Analyze the tickets of a cached search result over a reporting period and
write support_analysis.json. Without a search file the newest search_*.json
in the cache directory is used.

The period defaults to the 14 days ending now. Dates are interpreted in the
business-hours timezone when one is configured, else UTC.

Examples:
  zendesk analyze
  zendesk analyze --start 2024-01-01 --end 2024-01-15
  zendesk analyze /tmp/zendesk-skill/search_abc.json -o ./reports`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd, args, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.start, "start", "", "Period start, YYYY-MM-DD (default: 14 days before end)")
	fl.StringVar(&f.end, "end", "", "Period end, YYYY-MM-DD (default: now)")
	fl.StringVarP(&f.output, "output", "o", "", "Output directory (default: the cache directory)")
	fl.StringVar(&f.users, "users", "", "JSON file mapping requester IDs to emails")
	fl.IntVar(&f.parallel, "parallel", cache.DefaultParallel, "Ticket files read concurrently")
	return cmd
}

func (a *app) runAnalyze(cmd *cobra.Command, args []string, f analyzeFlags) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	cal, err := cfg.Calendar()
	if err != nil && !errors.Is(err, config.ErrNotConfigured) {
		return fmt.Errorf("business hours: %w", err)
	}

	var users map[int64]string
	if f.users != "" {
		if users, err = cache.LoadUserMap(f.users); err != nil {
			return err
		}
	}

	opts := analysis.Options{
		Start:    f.start,
		End:      f.end,
		Calendar: cal,
		OnCall:   cfg.ActiveOnCall(),
		Users:    users,
		Parallel: f.parallel,
		Logger:   logging.New("analyze"),
	}
	if len(args) > 0 {
		opts.SearchFile = args[0]
	}
	res, err := analysis.Run(cmd.Context(), a.cache(), opts)
	if errors.Is(err, cache.ErrNoSearch) {
		return fmt.Errorf("no search results in %s\n\nFetch tickets first or pass a search file:\n  zendesk analyze path/to/search_results.json", a.settings.CacheDir)
	}
	if err != nil {
		return err
	}

	dir := f.output
	if dir == "" {
		dir = a.settings.CacheDir
	}
	path, err := analysis.WriteReport(dir, res.Report)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printSummary(out, res.Report)
	fmt.Fprintf(out, "\nAnalysis written to %s\n", path)
	return nil
}
