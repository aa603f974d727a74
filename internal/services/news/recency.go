package news

import (
	"strings"
	"time"
)

// DefaultRetention is the default news retention window.
const DefaultRetention = 7 * 24 * time.Hour

// pubDateLayouts are tried in order when parsing feed timestamps.
var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
}

// ParsePubDate parses a feed publish date. The second return is false when
// no layout matched.
func ParsePubDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// WithinWindow reports whether an item published at the raw timestamp falls
// inside the retention window ending at now. Unparseable dates are treated
// as freshly published: conservative inclusion, so ambiguous data is never
// silently dropped.
func WithinWindow(pubDateRaw string, window time.Duration, now time.Time) bool {
	t, ok := ParsePubDate(pubDateRaw)
	if !ok {
		return true
	}
	return !t.Before(now.Add(-window))
}
