package models

import (
	"encoding/json"
	"time"

	"github.com/seenimoa/marketsnap/pkg/utils"
)

// Snapshot is the complete document produced by one collection run.
// Prices and News are positionally aligned with Watchlist and the query list.
type Snapshot struct {
	GeneratedAt time.Time         `json:"updatedAt"`
	Watchlist   []WatchSymbol     `json:"watchlist"`
	Prices      []QuoteOutcome    `json:"prices"`
	News        []NewsQueryResult `json:"news"`
}

// MarshalJSON writes updatedAt with millisecond precision, always including
// the fraction: "2024-01-02T03:04:05.000Z".
func (s Snapshot) MarshalJSON() ([]byte, error) {
	type plain Snapshot
	return json.Marshal(struct {
		UpdatedAt string `json:"updatedAt"`
		plain
	}{
		UpdatedAt: utils.FormatTimestamp(s.GeneratedAt),
		plain:     plain(s),
	})
}

// Summary counts successes and failures in a snapshot.
type Summary struct {
	QuotesOK     int `json:"quotes_ok"`
	QuotesFailed int `json:"quotes_failed"`
	NewsOK       int `json:"news_ok"`
	NewsFailed   int `json:"news_failed"`
	Headlines    int `json:"headlines"`
}

// Summarize returns success/failure counts for s.
func (s *Snapshot) Summarize() Summary {
	var sum Summary
	for _, p := range s.Prices {
		if p.OK {
			sum.QuotesOK++
		} else {
			sum.QuotesFailed++
		}
	}
	for _, n := range s.News {
		if n.Error != nil {
			sum.NewsFailed++
			continue
		}
		sum.NewsOK++
		sum.Headlines += len(n.Items)
	}
	return sum
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }
