package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPFetcherReturnsBody(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("Symbol,Close\nAAPL,150.00\n"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher()
	body, err := f.FetchText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchText() error: %v", err)
	}
	if !strings.HasPrefix(body, "Symbol,Close") {
		t.Errorf("unexpected body %q", body)
	}
	if gotUA != DefaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, DefaultUserAgent)
	}
}

func TestHTTPFetcherCustomUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	f := NewHTTPFetcher(WithUserAgent("marketsnap-test"))
	if _, err := f.FetchText(context.Background(), srv.URL); err != nil {
		t.Fatalf("FetchText() error: %v", err)
	}
	if gotUA != "marketsnap-test" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestHTTPFetcherNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher().FetchText(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 503")
	}
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %T", err)
	}
	if te.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d", te.StatusCode)
	}
	if !strings.Contains(te.Error(), "HTTP 503") {
		t.Errorf("Error() = %q", te.Error())
	}
}

func TestHTTPFetcherNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewHTTPFetcher(WithTimeout(time.Second)).FetchText(context.Background(), url)
	if !IsTransportError(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestHTTPFetcherRateLimitCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	f := NewHTTPFetcher(WithRateLimit(0.001, 1))
	if _, err := f.FetchText(context.Background(), srv.URL); err != nil {
		t.Fatalf("first FetchText() error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := f.FetchText(ctx, srv.URL); !IsTransportError(err) {
		t.Fatalf("expected transport error once the bucket is empty, got %v", err)
	}
}

func TestHTTPFetcherTimeoutOptionOrder(t *testing.T) {
	tests := []struct {
		name string
		opts func(c *http.Client) []Option
		want time.Duration
	}{
		{"default", func(*http.Client) []Option { return nil }, DefaultTimeout},
		{"timeout only", func(*http.Client) []Option { return []Option{WithTimeout(5 * time.Second)} }, 5 * time.Second},
		{"client keeps its timeout", func(c *http.Client) []Option { return []Option{WithHTTPClient(c)} }, 2 * time.Second},
		{"timeout before client", func(c *http.Client) []Option {
			return []Option{WithTimeout(5 * time.Second), WithHTTPClient(c)}
		}, 5 * time.Second},
		{"timeout after client", func(c *http.Client) []Option {
			return []Option{WithHTTPClient(c), WithTimeout(5 * time.Second)}
		}, 5 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &http.Client{Timeout: 2 * time.Second}
			f := NewHTTPFetcher(tt.opts(client)...)
			if f.client.Timeout != tt.want {
				t.Errorf("Timeout = %v, want %v", f.client.Timeout, tt.want)
			}
			if client.Timeout != 2*time.Second {
				t.Errorf("caller's client was modified: Timeout = %v", client.Timeout)
			}
		})
	}
}

func TestTransportErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &TransportError{URL: "http://x", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if err.Error() != "fetch http://x: connection reset" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestFetcherFunc(t *testing.T) {
	var f Fetcher = FetcherFunc(func(_ context.Context, url string) (string, error) {
		return "body:" + url, nil
	})
	got, err := f.FetchText(context.Background(), "u")
	if err != nil || got != "body:u" {
		t.Errorf("FetchText = %q, %v", got, err)
	}
}
