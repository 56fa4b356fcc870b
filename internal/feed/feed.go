// Package feed extracts headline records from RSS-style syndication feeds.
package feed

import (
	"fmt"
	"strings"

	"github.com/seenimoa/marketsnap/pkg/models"
)

// DefaultLimit is the number of headlines kept per query.
const DefaultLimit = 8

// Extractor turns raw feed text into at most limit items, in feed order.
// Items without a title or link are skipped and do not count toward limit.
type Extractor interface {
	Extract(text string, limit int) ([]models.FeedItem, error)
}

// New returns the extractor registered under name ("markup" or "gofeed").
func New(name string) (Extractor, error) {
	switch strings.ToLower(name) {
	case "", "markup":
		return NewMarkupExtractor(), nil
	case "gofeed":
		return NewGofeedExtractor(), nil
	default:
		return nil, fmt.Errorf("unknown feed parser %q", name)
	}
}

// entityOrder is applied in sequence, &amp; first, so a double-escaped
// "&amp;quot;" ends up as a plain quote.
var entityOrder = [...][2]string{
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&quot;", `"`},
	{"&#39;", "'"},
}

// DecodeEntities replaces the five XML entity escapes with their characters.
// Other entities are left untouched.
func DecodeEntities(s string) string {
	for _, e := range entityOrder {
		s = strings.ReplaceAll(s, e[0], e[1])
	}
	return s
}

// SplitTitle splits "headline - source" on the first " - ".
// Source is nil when there is no separator or nothing follows it.
func SplitTitle(title string) (headline string, source *string) {
	left, right, found := strings.Cut(title, " - ")
	headline = strings.TrimSpace(left)
	if headline == "" {
		headline = title
	}
	if found {
		if s := strings.TrimSpace(right); s != "" {
			source = &s
		}
	}
	return headline, source
}

// newItem assembles a FeedItem from a decoded title and link.
func newItem(title, link, published string) models.FeedItem {
	headline, source := SplitTitle(title)
	item := models.FeedItem{
		Headline: headline,
		Source:   source,
		Link:     link,
	}
	if published != "" {
		item.PublishedAt = &published
	}
	return item
}
