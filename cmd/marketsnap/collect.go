package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/seenimoa/marketsnap/internal/config"
	"github.com/seenimoa/marketsnap/internal/feed"
	"github.com/seenimoa/marketsnap/internal/fetch"
	"github.com/seenimoa/marketsnap/internal/quote"
	"github.com/seenimoa/marketsnap/internal/scheduler"
	"github.com/seenimoa/marketsnap/internal/snapshot"
	"github.com/seenimoa/marketsnap/internal/watchlist"
	"github.com/seenimoa/marketsnap/pkg/models"
	"github.com/seenimoa/marketsnap/pkg/utils"
)

// --- Run Command ---

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Collect one snapshot and write it to the output file",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyRunFlags(cmd)
		printOnly, _ := cmd.Flags().GetBool("stdout")

		snap, err := collect(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if printOnly {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}
		if err := snapshot.NewStore(cfg.Output.File).Save(snap); err != nil {
			return err
		}
		log.Info().Str("file", cfg.Output.File).Msg("snapshot written")
		return nil
	},
}

// --- Schedule Command ---

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Collect snapshots periodically on a cron schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyRunFlags(cmd)
		if spec, _ := cmd.Flags().GetString("cron"); spec != "" {
			cfg.Schedule.Cron = spec
		}
		now, _ := cmd.Flags().GetBool("now")

		store := snapshot.NewStore(cfg.Output.File)
		s, err := scheduler.New(cfg.Schedule.Cron, func(ctx context.Context) error {
			snap, err := collect(ctx, cfg)
			if err != nil {
				return err
			}
			return store.Save(snap)
		}, log)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return s.Run(ctx, now)
	},
}

func init() {
	for _, c := range []*cobra.Command{runCmd, scheduleCmd} {
		c.Flags().StringP("output", "o", "", "snapshot file (default from config)")
		c.Flags().String("parser", "", "feed parser: markup or gofeed")
		c.Flags().StringSlice("symbols", nil, "override the watchlist for this run")
	}
	runCmd.Flags().Bool("stdout", false, "print the snapshot instead of writing the file")
	scheduleCmd.Flags().String("cron", "", "cron expression (default from config)")
	scheduleCmd.Flags().Bool("now", false, "also collect once at startup")
}

func applyRunFlags(cmd *cobra.Command) {
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		cfg.Output.File = out
	}
	if p, _ := cmd.Flags().GetString("parser"); p != "" {
		cfg.News.Parser = p
	}
	symbolOverride, _ = cmd.Flags().GetStringSlice("symbols")
}

// symbolOverride replaces the persisted watchlist when set with --symbols.
var symbolOverride []string

// collect runs one full pass: read the watchlist, resolve quotes, extract
// headlines.
func collect(ctx context.Context, cfg *config.Config) (*models.Snapshot, error) {
	symbols := loadWatchlist(cfg)
	b, err := newBuilder(cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Strs("symbols", symbols).Int("queries", len(cfg.News.Queries)).Msg("collecting snapshot")
	return b.Build(ctx, symbols, cfg.News.Queries), nil
}

func loadWatchlist(cfg *config.Config) []string {
	if len(symbolOverride) > 0 {
		return utils.NormalizeSymbols(symbolOverride)
	}
	return watchlist.Symbols(watchlist.NewFile(cfg.Watchlist.File), cfg.Watchlist.DefaultSymbols, log)
}

func newBuilder(cfg *config.Config) (*snapshot.Builder, error) {
	extractor, err := feed.New(cfg.News.Parser)
	if err != nil {
		return nil, err
	}
	fetcher := fetch.NewHTTPFetcher(
		fetch.WithTimeout(time.Duration(cfg.Fetch.TimeoutSec)*time.Second),
		fetch.WithUserAgent(cfg.Fetch.UserAgent),
		fetch.WithRateLimit(cfg.Fetch.RatePerSec, cfg.Fetch.Burst),
		fetch.WithLogger(log),
	)
	resolver := quote.NewResolver(fetcher,
		quote.WithURLTemplate(cfg.Quotes.URLTemplate),
		quote.WithSuffix(cfg.Quotes.Suffix),
		quote.WithLogger(log),
	)
	return snapshot.NewBuilder(resolver, fetcher,
		snapshot.WithExtractor(extractor),
		snapshot.WithNewsURLTemplate(cfg.News.URLTemplate),
		snapshot.WithNewsLimit(cfg.News.Limit),
		snapshot.WithConcurrency(cfg.Fetch.Concurrency),
		snapshot.WithLogger(log),
	), nil
}
