package feed

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/seenimoa/marketsnap/pkg/models"
)

// GofeedExtractor parses RSS, Atom and JSON feeds with gofeed. Unlike
// MarkupExtractor it rejects documents that are not valid feeds.
type GofeedExtractor struct {
	parser *gofeed.Parser
}

// NewGofeedExtractor returns a GofeedExtractor.
func NewGofeedExtractor() *GofeedExtractor {
	return &GofeedExtractor{parser: gofeed.NewParser()}
}

// Extract parses text and applies the same headline rules as MarkupExtractor.
func (g *GofeedExtractor) Extract(text string, limit int) ([]models.FeedItem, error) {
	items := []models.FeedItem{}
	if limit <= 0 {
		return items, nil
	}

	parsed, err := g.parser.ParseString(text)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	for _, it := range parsed.Items {
		title := cleanHTML(it.Title)
		link := strings.TrimSpace(it.Link)
		if title == "" || link == "" {
			continue
		}
		items = append(items, newItem(title, link, strings.TrimSpace(it.Published)))
		if len(items) >= limit {
			break
		}
	}
	return items, nil
}

// cleanHTML strips markup that some publishers embed in titles.
func cleanHTML(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
