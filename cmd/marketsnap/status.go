package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seenimoa/marketsnap/internal/config"
	"github.com/seenimoa/marketsnap/internal/scheduler"
	"github.com/seenimoa/marketsnap/internal/snapshot"
	"github.com/seenimoa/marketsnap/pkg/utils"
)

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and the last snapshot summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  marketsnap status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:     %s (%s)\n", version, commit)
		fmt.Printf("  Time (UTC):  %s\n", utils.FormatTimestamp(utils.NowUTC()))
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    Watchlist:   %s\n", cfg.Watchlist.File)
		fmt.Printf("    Allow-list:  %s\n", cfg.Watchlist.AllowedFile)
		fmt.Printf("    Output:      %s\n", cfg.Output.File)
		fmt.Printf("    Queries:     %d (limit %d, parser %s)\n", len(cfg.News.Queries), cfg.News.Limit, cfg.News.Parser)
		fmt.Printf("    Concurrency: %d\n", cfg.Fetch.Concurrency)
		if s, err := scheduler.New(cfg.Schedule.Cron, nil, log); err == nil {
			fmt.Printf("    Schedule:    %s (next %s)\n", cfg.Schedule.Cron, utils.FormatTimestamp(s.Next()))
		} else {
			fmt.Printf("    Schedule:    %s (invalid: %v)\n", cfg.Schedule.Cron, err)
		}
		fmt.Println()

		access := config.CheckIssueAccess(cfg)
		fmt.Printf("  Issue access (watchlist apply): %s\n", readiness(access.Ready()))
		for _, st := range access.Settings() {
			switch {
			case st.Problem != "":
				fmt.Printf("    %-11s ❌ %s\n", st.Name+":", st.Problem)
			default:
				fmt.Printf("    %-11s ✅ %s (%s)\n", st.Name+":", st.Value, st.Origin)
			}
		}
		fmt.Println()

		snap, err := snapshot.NewStore(cfg.Output.File).Load()
		switch {
		case err != nil:
			fmt.Printf("  Last snapshot: unreadable (%v)\n", err)
		case snap == nil:
			fmt.Println("  Last snapshot: none")
		default:
			sum := snap.Summarize()
			fmt.Printf("  Last snapshot: %s\n", utils.FormatTimestamp(snap.GeneratedAt))
			fmt.Printf("    Quotes:    %d ok, %d failed\n", sum.QuotesOK, sum.QuotesFailed)
			fmt.Printf("    News:      %d ok, %d failed, %d headlines\n", sum.NewsOK, sum.NewsFailed, sum.Headlines)
		}
		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

func readiness(ok bool) string {
	if ok {
		return "ready"
	}
	return "incomplete"
}
