// Package news turns raw syndication feeds into filtered, sentiment-tagged
// news items.
package news

import (
	"regexp"
	"strings"

	"github.com/marketbrief/marketbrief/internal/models"
)

// DefaultSource labels items whose feed entry carried no <source> element.
const DefaultSource = "Google News"

// defaultDescription stands in for entries with no usable description text.
const defaultDescription = "Click to read full coverage."

// The parser is a tolerant scanner, deliberately not an XML parser: feed
// content is frequently malformed or truncated and a strict parser would
// reject whole documents over one bad entry. Unmatched sub-fields yield an
// absent value, never an error.
var (
	itemRe   = regexp.MustCompile(`(?s)<item>(.*?)</item>`)
	titleRe  = regexp.MustCompile(`(?s)<title>(.*?)</title>`)
	linkRe   = regexp.MustCompile(`(?s)<link>(.*?)</link>`)
	dateRe   = regexp.MustCompile(`(?s)<pubDate>(.*?)</pubDate>`)
	sourceRe = regexp.MustCompile(`(?s)<source url=".*?">(.*?)</source>`)
	descRe   = regexp.MustCompile(`(?s)<description>(.*?)</description>`)
	tagRe    = regexp.MustCompile(`<[^>]*>`)
)

// ParseFeed extracts up to max items from raw feed content, in document
// order. An item missing its title or link is discarded; every other field
// is optional. max <= 0 means no cap.
func ParseFeed(data []byte, max int) []models.FeedItem {
	var items []models.FeedItem

	for _, m := range itemRe.FindAllSubmatch(data, -1) {
		content := string(m[1])

		title := firstMatch(titleRe, content)
		link := firstMatch(linkRe, content)
		if title == "" || link == "" {
			continue
		}

		items = append(items, models.FeedItem{
			Title:          stripCDATA(title),
			Link:           link,
			PubDateRaw:     firstMatch(dateRe, content),
			SourceName:     firstMatch(sourceRe, content),
			DescriptionRaw: firstMatch(descRe, content),
		})

		if max > 0 && len(items) >= max {
			break
		}
	}

	return items
}

func firstMatch(re *regexp.Regexp, content string) string {
	if m := re.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return ""
}

// stripCDATA removes CDATA wrapper markers from a title.
func stripCDATA(s string) string {
	s = strings.Replace(s, "<![CDATA[", "", 1)
	s = strings.Replace(s, "]]>", "", 1)
	return s
}

// CleanDescription turns a raw description into plain text: angle-bracket
// entities are decoded first so entity-escaped tags are stripped along with
// literal ones, then the remaining fixed entity set is restored.
func CleanDescription(raw string) string {
	s := strings.ReplaceAll(raw, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = tagRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")
	return strings.TrimSpace(s)
}
