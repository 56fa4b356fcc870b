package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/seenimoa/marketsnap/pkg/models"
)

func TestStoreSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "data.json")
	s := NewStore(path)

	snap := &models.Snapshot{
		GeneratedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Watchlist:   []string{"AAPL"},
		Prices: []models.QuoteOutcome{
			{Symbol: "AAPL", ResolvedSymbol: "AAPL.US", Close: models.StringPtr("150.00"), OK: true},
		},
		News: []models.NewsQueryResult{{Query: "Nasdaq", Items: []models.FeedItem{}}},
	}
	if err := s.Save(snap); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(raw), `"updatedAt": "2024-05-01T12:00:00.000Z"`) {
		t.Errorf("expected millisecond timestamp, got:\n%s", raw)
	}
	if !strings.Contains(string(raw), "\n  \"updatedAt\"") {
		t.Errorf("expected two-space indentation, got:\n%s", raw)
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"updatedAt", "watchlist", "prices", "news"} {
		if _, ok := generic[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !loaded.GeneratedAt.Equal(snap.GeneratedAt) {
		t.Errorf("GeneratedAt = %v, want %v", loaded.GeneratedAt, snap.GeneratedAt)
	}
	if loaded.Prices[0].ResolvedSymbol != "AAPL.US" || *loaded.Prices[0].Close != "150.00" {
		t.Errorf("unexpected loaded snapshot %+v", loaded.Prices[0])
	}
	if loaded.Prices[0].Open != nil {
		t.Error("missing price fields should load as nil")
	}
}

func TestStoreOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	s := NewStore(path)
	for _, sym := range []string{"OLD", "NEW"} {
		if err := s.Save(&models.Snapshot{Watchlist: []string{sym}}); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}
	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded.Watchlist) != 1 || loaded.Watchlist[0] != "NEW" {
		t.Errorf("Watchlist = %v", loaded.Watchlist)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected temp files to be cleaned up, found %d entries", len(entries))
	}
}

func TestStoreLoadMissing(t *testing.T) {
	snap, err := NewStore(filepath.Join(t.TempDir(), "none.json")).Load()
	if err != nil || snap != nil {
		t.Fatalf("Load() = %v, %v; want nil, nil", snap, err)
	}
}

func TestStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	os.WriteFile(path, []byte("{not json"), 0o644)
	if _, err := NewStore(path).Load(); err == nil {
		t.Fatal("expected decode error")
	}
}
