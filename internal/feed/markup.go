package feed

import (
	"regexp"
	"strings"

	"github.com/seenimoa/marketsnap/pkg/models"
)

const itemMarker = "<item>"

var (
	cdataTitleRe = regexp.MustCompile(`<title><!\[CDATA\[(.*?)\]\]></title>`)
	titleRe      = regexp.MustCompile(`<title>(.*?)</title>`)
	linkRe       = regexp.MustCompile(`<link>(.*?)</link>`)
	pubDateRe    = regexp.MustCompile(`<pubDate>(.*?)</pubDate>`)
)

// MarkupExtractor scrapes items by splitting on <item> markers and matching
// the title, link and pubDate tags inside each block. It tolerates feeds that
// are not well-formed XML. Tag contents must sit on a single line.
type MarkupExtractor struct{}

// NewMarkupExtractor returns a MarkupExtractor.
func NewMarkupExtractor() *MarkupExtractor { return &MarkupExtractor{} }

// Extract never returns an error; malformed blocks are skipped.
func (MarkupExtractor) Extract(text string, limit int) ([]models.FeedItem, error) {
	items := []models.FeedItem{}
	if limit <= 0 {
		return items, nil
	}

	blocks := strings.Split(text, itemMarker)
	for _, block := range blocks[1:] {
		title := firstGroup(block, cdataTitleRe, titleRe)
		link := firstGroup(block, linkRe)
		if title == "" || link == "" {
			continue
		}
		items = append(items, newItem(DecodeEntities(title), DecodeEntities(link), firstGroup(block, pubDateRe)))
		if len(items) >= limit {
			break
		}
	}
	return items, nil
}

// firstGroup returns the first capture group of the first pattern that matches.
func firstGroup(s string, patterns ...*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(s); m != nil {
			return m[1]
		}
	}
	return ""
}
