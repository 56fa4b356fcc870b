package quote

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/seenimoa/marketsnap/internal/fetch"
	"github.com/seenimoa/marketsnap/pkg/models"
)

// DefaultURLTemplate is the Stooq CSV quote endpoint. {symbol} is replaced
// with the query-escaped symbol.
const DefaultURLTemplate = "https://stooq.com/q/l/?s={symbol}&f=sd2t2ohlcvn&h&e=csv"

// DefaultSuffix is appended to bare tickers on the fallback lookup.
const DefaultSuffix = ".US"

// Kind identifies how a resolution ended.
type Kind int

const (
	// FirstHit: the symbol as given produced a close price.
	FirstHit Kind = iota
	// FirstTransportError: the first lookup failed to reach the provider.
	FirstTransportError
	// NoData: no close price and the symbol is not eligible for a retry.
	NoData
	// RetryHit: the suffixed lookup produced a close price.
	RetryHit
	// RetryExhausted: the suffixed lookup also produced no close price.
	RetryExhausted
)

func (k Kind) String() string {
	switch k {
	case FirstHit:
		return "first-hit"
	case FirstTransportError:
		return "first-transport-error"
	case NoData:
		return "no-data"
	case RetryHit:
		return "retry-hit"
	case RetryExhausted:
		return "retry-exhausted"
	default:
		return "unknown"
	}
}

// Resolution is the result of Resolver.Lookup.
type Resolution struct {
	Kind     Kind
	Symbol   string // as requested
	Resolved string // symbol of the last lookup attempted
	Record   Record // record backing the outcome's price fields; may be nil
	Err      error  // set only for FirstTransportError
}

// Outcome converts r into the snapshot representation.
func (r Resolution) Outcome() models.QuoteOutcome {
	if r.Kind == FirstTransportError {
		return models.Failed(r.Symbol, r.Resolved, r.Err.Error())
	}
	out := models.QuoteOutcome{
		Symbol:         r.Symbol,
		ResolvedSymbol: r.Resolved,
		Date:           Normalize(r.Record.Field("Date")),
		Time:           Normalize(r.Record.Field("Time")),
		Open:           Normalize(r.Record.Field("Open")),
		High:           Normalize(r.Record.Field("High")),
		Low:            Normalize(r.Record.Field("Low")),
		Close:          Normalize(r.Record.Field("Close")),
		Volume:         Normalize(r.Record.Field("Volume")),
	}
	out.OK = out.Close != nil
	return out
}

// Resolver looks up quotes through a Fetcher.
type Resolver struct {
	fetcher     fetch.Fetcher
	urlTemplate string
	suffix      string
	log         zerolog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithURLTemplate sets the quote URL template.
func WithURLTemplate(tmpl string) Option {
	return func(r *Resolver) {
		if tmpl != "" {
			r.urlTemplate = tmpl
		}
	}
}

// WithSuffix sets the market suffix used for the fallback lookup.
func WithSuffix(suffix string) Option {
	return func(r *Resolver) {
		if suffix != "" {
			r.suffix = suffix
		}
	}
}

// WithLogger sets the resolver's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) { r.log = l }
}

// NewResolver creates a Resolver backed by f.
func NewResolver(f fetch.Fetcher, opts ...Option) *Resolver {
	r := &Resolver{
		fetcher:     f,
		urlTemplate: DefaultURLTemplate,
		suffix:      DefaultSuffix,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the quote outcome for symbol.
func (r *Resolver) Resolve(ctx context.Context, symbol string) models.QuoteOutcome {
	return r.Lookup(ctx, symbol).Outcome()
}

// Lookup runs the two-attempt policy: the symbol as given, then, for bare
// tickers without a close price, the symbol with the market suffix.
// Transport failures on the first attempt end the lookup; on the second
// attempt they count as "no data".
func (r *Resolver) Lookup(ctx context.Context, symbol string) Resolution {
	rec, err := r.attempt(ctx, symbol)
	if err != nil {
		return Resolution{Kind: FirstTransportError, Symbol: symbol, Resolved: symbol, Err: err}
	}
	if !IsMissing(rec.Field("Close")) {
		return Resolution{Kind: FirstHit, Symbol: symbol, Resolved: symbol, Record: rec}
	}
	if !IsBareTicker(symbol) {
		return Resolution{Kind: NoData, Symbol: symbol, Resolved: symbol, Record: rec}
	}

	suffixed := symbol + r.suffix
	retry, err := r.attempt(ctx, suffixed)
	if err != nil {
		r.log.Debug().Err(err).Str("symbol", suffixed).Msg("suffixed lookup failed")
	} else if !IsMissing(retry.Field("Close")) {
		return Resolution{Kind: RetryHit, Symbol: symbol, Resolved: suffixed, Record: retry}
	}
	return Resolution{Kind: RetryExhausted, Symbol: symbol, Resolved: suffixed, Record: rec}
}

// attempt fetches and parses one quote. A response that does not parse
// yields a nil Record and no error.
func (r *Resolver) attempt(ctx context.Context, symbol string) (Record, error) {
	text, err := r.fetcher.FetchText(ctx, r.quoteURL(symbol))
	if err != nil {
		return nil, err
	}
	rec, _ := ParseRecord(text)
	return rec, nil
}

func (r *Resolver) quoteURL(symbol string) string {
	return strings.ReplaceAll(r.urlTemplate, "{symbol}", url.QueryEscape(symbol))
}

var bareTickerPattern = regexp.MustCompile(`^[A-Z0-9]+$`)

// IsBareTicker reports whether symbol is eligible for the suffix retry:
// no leading caret, no period, and only letters and digits.
func IsBareTicker(symbol string) bool {
	if strings.HasPrefix(symbol, "^") || strings.Contains(symbol, ".") {
		return false
	}
	return bareTickerPattern.MatchString(strings.ToUpper(symbol))
}
