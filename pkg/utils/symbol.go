package utils

import (
	"strings"
	"time"
)

// NormalizeSymbol applies the watchlist case rules: surrounding whitespace
// is removed and letters are uppercased. "aapl " → "AAPL".
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizeSymbols normalizes every symbol, dropping empties and duplicates
// while keeping first-seen order.
func NormalizeSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		n := NormalizeSymbol(s)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// NowUTC returns the current time in UTC truncated to milliseconds,
// matching the precision of the persisted document.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// FormatTimestamp formats t the way snapshot timestamps are written.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
