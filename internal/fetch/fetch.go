// Package fetch provides the text-fetching capability used to reach quote
// and feed providers.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Fetcher retrieves the body of a URL as text.
// Implementations return a *TransportError for non-success statuses and
// network failures.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) (string, error)

// FetchText calls f(ctx, url).
func (f FetcherFunc) FetchText(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// TransportError reports a failure to obtain a usable response from a provider.
// StatusCode is zero when no response was received.
type TransportError struct {
	URL        string
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransportError reports whether err is or wraps a *TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "github-actions"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// HTTPFetcher fetches text over HTTP with a per-request timeout and an
// optional token-bucket rate limit shared by all callers.
type HTTPFetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	limiter   *rate.Limiter
	log       zerolog.Logger
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithTimeout sets the per-request timeout. It applies to a client given
// with WithHTTPClient as well, regardless of option order.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) { f.timeout = d }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithRateLimit allows perSecond requests with the given burst.
// A non-positive perSecond disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(f *HTTPFetcher) {
		if perSecond <= 0 {
			f.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithHTTPClient sets the underlying client. Its Timeout is kept unless
// WithTimeout is also given; c itself is never modified.
func WithHTTPClient(c *http.Client) Option {
	return func(f *HTTPFetcher) { f.client = c }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(f *HTTPFetcher) { f.log = l }
}

// DefaultTimeout applies when neither a timeout nor a client is given.
const DefaultTimeout = 30 * time.Second

// NewHTTPFetcher creates a fetcher with a 30 second timeout and no rate limit.
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		userAgent: DefaultUserAgent,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}

	switch {
	case f.client == nil:
		timeout := f.timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		f.client = &http.Client{Timeout: timeout}
	case f.timeout > 0:
		c := *f.client
		c.Timeout = f.timeout
		f.client = &c
	}
	return f
}

// FetchText performs a GET request and returns the response body.
func (f *HTTPFetcher) FetchText(ctx context.Context, url string) (string, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", &TransportError{URL: url, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &TransportError{URL: url, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	f.log.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("fetched")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &TransportError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &TransportError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	return string(body), nil
}
