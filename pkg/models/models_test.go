package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// ── QuoteOutcome ──

func TestQuoteOutcomeMissingFieldsEncodeAsNull(t *testing.T) {
	q := QuoteOutcome{Symbol: "^SPX", ResolvedSymbol: "^SPX"}
	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("json.Marshal(QuoteOutcome) error: %v", err)
	}
	s := string(data)
	for _, frag := range []string{`"close":null`, `"volume":null`, `"ok":false`, `"error":null`, `"resolvedSymbol":"^SPX"`} {
		if !strings.Contains(s, frag) {
			t.Errorf("encoded outcome %s missing %s", s, frag)
		}
	}
}

func TestFailed(t *testing.T) {
	q := Failed("AAPL", "AAPL", "HTTP 500 for x")
	if q.OK || q.Error == nil || *q.Error != "HTTP 500 for x" {
		t.Errorf("unexpected outcome %+v", q)
	}
	if q.Close != nil || q.Date != nil {
		t.Error("failed outcome should carry no price fields")
	}
}

// ── NewsQueryResult ──

func TestNewsQueryResultOmitsNilError(t *testing.T) {
	data, _ := json.Marshal(NewsQueryResult{Query: "Nasdaq", Items: []FeedItem{}})
	if strings.Contains(string(data), "error") {
		t.Errorf("unexpected error key in %s", data)
	}
	if !strings.Contains(string(data), `"items":[]`) {
		t.Errorf("expected empty items array in %s", data)
	}
}

func TestFeedItemKeys(t *testing.T) {
	data, _ := json.Marshal(FeedItem{Headline: "H", Link: "L"})
	for _, frag := range []string{`"headline":"H"`, `"source":null`, `"link":"L"`, `"pubDate":null`} {
		if !strings.Contains(string(data), frag) {
			t.Errorf("encoded item %s missing %s", data, frag)
		}
	}
}

// ── Snapshot ──

func TestSnapshotSummarize(t *testing.T) {
	errMsg := "HTTP 503"
	s := Snapshot{
		GeneratedAt: time.Now(),
		Prices: []QuoteOutcome{
			{Symbol: "A", OK: true},
			{Symbol: "B"},
			{Symbol: "C", OK: true},
		},
		News: []NewsQueryResult{
			{Query: "q1", Items: make([]FeedItem, 3)},
			{Query: "q2", Items: []FeedItem{}, Error: &errMsg},
			{Query: "q3", Items: make([]FeedItem, 1)},
		},
	}
	sum := s.Summarize()
	want := Summary{QuotesOK: 2, QuotesFailed: 1, NewsOK: 2, NewsFailed: 1, Headlines: 4}
	if sum != want {
		t.Errorf("Summarize() = %+v, want %+v", sum, want)
	}
}

func TestSnapshotTopLevelKeys(t *testing.T) {
	data, err := json.Marshal(Snapshot{
		GeneratedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Watchlist:   []WatchSymbol{},
		Prices:      []QuoteOutcome{},
		News:        []NewsQueryResult{},
	})
	if err != nil {
		t.Fatalf("json.Marshal(Snapshot) error: %v", err)
	}
	want := `{"updatedAt":"2024-01-02T03:04:05.000Z","watchlist":[],"prices":[],"news":[]}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestSnapshotUpdatedAtPrecision(t *testing.T) {
	tests := []struct {
		at   time.Time
		want string
	}{
		{time.Date(2024, 1, 2, 3, 4, 5, 120_000_000, time.UTC), `"2024-01-02T03:04:05.120Z"`},
		{time.Date(2024, 1, 2, 12, 4, 5, 0, time.FixedZone("KST", 9*3600)), `"2024-01-02T03:04:05.000Z"`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(&Snapshot{GeneratedAt: tt.at})
		if err != nil {
			t.Fatalf("json.Marshal error: %v", err)
		}
		if !strings.Contains(string(data), `"updatedAt":`+tt.want) {
			t.Errorf("got %s, want updatedAt %s", data, tt.want)
		}
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	data, _ := json.Marshal(Snapshot{GeneratedAt: at, Watchlist: []WatchSymbol{"AAPL"}})

	var back Snapshot
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("json.Unmarshal error: %v", err)
	}
	if !back.GeneratedAt.Equal(at) {
		t.Errorf("GeneratedAt = %v, want %v", back.GeneratedAt, at)
	}
	if len(back.Watchlist) != 1 || back.Watchlist[0] != "AAPL" {
		t.Errorf("Watchlist = %v", back.Watchlist)
	}
}

func TestStringPtr(t *testing.T) {
	p := StringPtr("x")
	if p == nil || *p != "x" {
		t.Errorf("StringPtr = %v", p)
	}
}
