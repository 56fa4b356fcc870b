// Package snapshot assembles quote outcomes and news results for a whole
// watchlist into one document.
package snapshot

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/marketsnap/internal/feed"
	"github.com/seenimoa/marketsnap/internal/fetch"
	"github.com/seenimoa/marketsnap/pkg/models"
	"github.com/seenimoa/marketsnap/pkg/utils"
)

// DefaultNewsURLTemplate is the Google News RSS search endpoint.
// {query} is replaced with the escaped query term.
const DefaultNewsURLTemplate = "https://news.google.com/rss/search?q={query}&hl=ko&gl=KR&ceid=KR:ko"

// QuoteResolver resolves one symbol. It must always return an outcome.
type QuoteResolver interface {
	Resolve(ctx context.Context, symbol string) models.QuoteOutcome
}

// Builder runs one collection pass.
type Builder struct {
	resolver    QuoteResolver
	fetcher     fetch.Fetcher
	extractor   feed.Extractor
	newsURL     string
	newsLimit   int
	concurrency int
	now         func() time.Time
	log         zerolog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithExtractor sets the feed extraction strategy.
func WithExtractor(e feed.Extractor) Option {
	return func(b *Builder) { b.extractor = e }
}

// WithNewsURLTemplate sets the feed URL template.
func WithNewsURLTemplate(tmpl string) Option {
	return func(b *Builder) {
		if tmpl != "" {
			b.newsURL = tmpl
		}
	}
}

// WithNewsLimit sets the per-query headline cap.
func WithNewsLimit(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.newsLimit = n
		}
	}
}

// WithConcurrency bounds the number of in-flight lookups.
func WithConcurrency(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithClock overrides the generation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithLogger sets the builder's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Builder) { b.log = l }
}

// NewBuilder creates a Builder. Quotes come from r; feeds are fetched with f.
func NewBuilder(r QuoteResolver, f fetch.Fetcher, opts ...Option) *Builder {
	b := &Builder{
		resolver:    r,
		fetcher:     f,
		extractor:   feed.NewMarkupExtractor(),
		newsURL:     DefaultNewsURLTemplate,
		newsLimit:   feed.DefaultLimit,
		concurrency: 1,
		now:         utils.NowUTC,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build resolves every symbol and query. The returned Prices and News are
// index-aligned with watchlist and queries; per-item failures, including
// panics, are recorded in the corresponding entry. Build never fails.
func (b *Builder) Build(ctx context.Context, watchlist, queries []string) *models.Snapshot {
	start := time.Now()
	snap := &models.Snapshot{
		GeneratedAt: b.now(),
		Watchlist:   append([]models.WatchSymbol{}, watchlist...),
		Prices:      make([]models.QuoteOutcome, len(watchlist)),
		News:        make([]models.NewsQueryResult, len(queries)),
	}

	var g errgroup.Group
	g.SetLimit(b.concurrency)

	for i, sym := range watchlist {
		i, sym := i, sym
		g.Go(func() error {
			snap.Prices[i] = b.quote(ctx, sym)
			return nil
		})
	}
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			snap.News[i] = b.news(ctx, q)
			return nil
		})
	}
	_ = g.Wait()

	sum := snap.Summarize()
	b.log.Info().
		Int("quotes_ok", sum.QuotesOK).
		Int("quotes_failed", sum.QuotesFailed).
		Int("news_failed", sum.NewsFailed).
		Int("headlines", sum.Headlines).
		Dur("duration", time.Since(start)).
		Msg("snapshot built")
	return snap
}

func (b *Builder) quote(ctx context.Context, symbol string) (out models.QuoteOutcome) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Str("symbol", symbol).Interface("panic", r).Msg("quote resolution panicked")
			out = models.Failed(symbol, symbol, fmt.Sprintf("panic: %v", r))
		}
	}()

	out = b.resolver.Resolve(ctx, symbol)
	if out.Error != nil {
		b.log.Warn().Str("symbol", symbol).Str("error", *out.Error).Msg("quote fetch failed")
	} else if !out.OK {
		b.log.Warn().Str("symbol", symbol).Str("resolved", out.ResolvedSymbol).Msg("no close price")
	}
	return out
}

func (b *Builder) news(ctx context.Context, query string) (res models.NewsQueryResult) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Str("query", query).Interface("panic", r).Msg("news extraction panicked")
			res = failedNews(query, fmt.Errorf("panic: %v", r))
		}
	}()

	text, err := b.fetcher.FetchText(ctx, b.newsURLFor(query))
	if err != nil {
		b.log.Warn().Str("query", query).Err(err).Msg("feed fetch failed")
		return failedNews(query, err)
	}
	items, err := b.extractor.Extract(text, b.newsLimit)
	if err != nil {
		b.log.Warn().Str("query", query).Err(err).Msg("feed parse failed")
		return failedNews(query, err)
	}
	return models.NewsQueryResult{Query: query, Items: items}
}

func (b *Builder) newsURLFor(query string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
	return strings.ReplaceAll(b.newsURL, "{query}", escaped)
}

func failedNews(query string, err error) models.NewsQueryResult {
	msg := err.Error()
	return models.NewsQueryResult{Query: query, Items: []models.FeedItem{}, Error: &msg}
}
