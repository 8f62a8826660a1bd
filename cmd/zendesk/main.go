// zendesk turns cached Zendesk API responses into support-metrics reports.
//
// Usage:
//
//	zendesk analyze [search-file] [--start YYYY-MM-DD] [--end YYYY-MM-DD] [-o DIR]
//	zendesk markdown-report [analysis-file] [-o FILE] [--html]
//	zendesk slack-report [analysis-file] [--channel C] [--dry-run]
//	zendesk serve
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
