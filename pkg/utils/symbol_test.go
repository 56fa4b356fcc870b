package utils

import (
	"reflect"
	"testing"
	"time"
)

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"aapl", "AAPL"},
		{"  tsla ", "TSLA"},
		{"^spx", "^SPX"},
		{"005930.ks", "005930.KS"},
		{"   ", ""},
	}
	for _, tt := range tests {
		got := NormalizeSymbol(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeSymbol(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeSymbolsDedupesAndKeepsOrder(t *testing.T) {
	got := NormalizeSymbols([]string{"msft", "AAPL", "", "Msft", " ^dji"})
	want := []string{"MSFT", "AAPL", "^DJI"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeSymbols = %v, want %v", got, want)
	}
}

func TestNormalizeSymbolsEmpty(t *testing.T) {
	got := NormalizeSymbols(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 30, 0, 123_000_000, time.FixedZone("KST", 9*3600))
	got := FormatTimestamp(ts)
	if got != "2024-03-01T00:30:00.123Z" {
		t.Errorf("FormatTimestamp = %q", got)
	}
}

func TestNowUTC(t *testing.T) {
	now := NowUTC()
	if now.Location() != time.UTC {
		t.Errorf("location = %v, want UTC", now.Location())
	}
	if now.Nanosecond()%int(time.Millisecond) != 0 {
		t.Errorf("expected millisecond truncation, got %d ns", now.Nanosecond())
	}
}
