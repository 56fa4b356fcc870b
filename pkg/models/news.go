package models

// FeedItem is one headline extracted from a syndication feed.
type FeedItem struct {
	Headline    string  `json:"headline"`
	Source      *string `json:"source"`
	Link        string  `json:"link"`
	PublishedAt *string `json:"pubDate"` // verbatim from the feed
}

// NewsQueryResult holds the headlines found for one news query.
type NewsQueryResult struct {
	Query string     `json:"query"`
	Items []FeedItem `json:"items"`
	Error *string    `json:"error,omitempty"`
}
