// Package models defines the data structures that make up a marketsnap
// snapshot document.
package models

// WatchSymbol is a user-supplied instrument identifier such as "AAPL",
// "^SPX" or "005930.KS".
type WatchSymbol = string

// QuoteOutcome is the result of resolving one watchlist symbol.
// Price fields are nil when the provider had no usable value.
type QuoteOutcome struct {
	Symbol         string  `json:"symbol"`          // as requested
	ResolvedSymbol string  `json:"resolvedSymbol"`  // symbol the data belongs to, e.g. "AAPL.US"
	Date           *string `json:"date"`
	Time           *string `json:"time"`
	Open           *string `json:"open"`
	High           *string `json:"high"`
	Low            *string `json:"low"`
	Close          *string `json:"close"`
	Volume         *string `json:"volume"`
	OK             bool    `json:"ok"`
	Error          *string `json:"error"`
}

// Failed returns an outcome carrying only an error message.
func Failed(symbol, resolved, msg string) QuoteOutcome {
	return QuoteOutcome{
		Symbol:         symbol,
		ResolvedSymbol: resolved,
		Error:          &msg,
	}
}
