package news

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/marketbrief/marketbrief/internal/models"
)

// stubFeed records queries and serves canned documents per query.
type stubFeed struct {
	mu      sync.Mutex
	docs    map[string][]byte
	err     error
	queries []string
}

func (f *stubFeed) Search(ctx context.Context, query string) ([]byte, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.docs[query], nil
}

func feedDoc(now time.Time, titles ...string) []byte {
	doc := ""
	for i, title := range titles {
		doc += fmt.Sprintf(
			`<item><title>%s</title><link>https://example.com/%d</link><pubDate>%s</pubDate><source url="https://et.com">Economic Times</source></item>`,
			title, i, now.Add(-time.Hour).Format(time.RFC1123Z))
	}
	return feedWithItems(doc)
}

func TestSymbolNews_BuildsItems(t *testing.T) {
	now := time.Now()
	feed := &stubFeed{docs: map[string][]byte{
		"INFY stock": feedDoc(now, "Infosys surges on Q4 beat", "Infosys board meeting"),
	}}

	svc := NewService(feed, nil, WithQuerySuffix(" stock"))
	items, err := svc.SymbolNews(context.Background(), "INFY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	first := items[0]
	if first.Symbol != "INFY" {
		t.Errorf("symbol: got %q", first.Symbol)
	}
	if first.Headline != "Infosys surges on Q4 beat" {
		t.Errorf("headline: got %q", first.Headline)
	}
	if first.Sentiment != models.SentimentPositive {
		t.Errorf("sentiment: got %v", first.Sentiment)
	}
	if first.Source != "Economic Times" {
		t.Errorf("source: got %q", first.Source)
	}
	if first.Summary != defaultDescription {
		t.Errorf("summary fallback: got %q", first.Summary)
	}
	if first.ID == "" || first.ID == items[1].ID {
		t.Error("items must carry distinct non-empty IDs")
	}
	if first.URL != "https://example.com/0" {
		t.Errorf("url: got %q", first.URL)
	}
}

func TestSymbolNews_DefaultSourceAndFreshFallback(t *testing.T) {
	feed := &stubFeed{docs: map[string][]byte{
		"X": feedWithItems(`<item><title>Headline</title><link>https://example.com/x</link></item>`),
	}}

	before := time.Now()
	svc := NewService(feed, nil, WithQuerySuffix(""))
	items, err := svc.SymbolNews(context.Background(), "X")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Source != DefaultSource {
		t.Errorf("source: got %q, want %q", items[0].Source, DefaultSource)
	}
	if items[0].PublishedAt.Before(before) {
		t.Error("missing pubDate should default to the fetch time")
	}
}

func TestSymbolNews_FiltersStaleItems(t *testing.T) {
	now := time.Now()
	stale := now.Add(-10 * 24 * time.Hour).Format(time.RFC1123Z)
	fresh := now.Add(-time.Hour).Format(time.RFC1123Z)
	feed := &stubFeed{docs: map[string][]byte{
		"X": feedWithItems(
			`<item><title>Old</title><link>1</link><pubDate>`+stale+`</pubDate></item>`,
			`<item><title>New</title><link>2</link><pubDate>`+fresh+`</pubDate></item>`,
		),
	}}

	svc := NewService(feed, nil, WithQuerySuffix(""))
	items, err := svc.SymbolNews(context.Background(), "X")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Headline != "New" {
		t.Fatalf("expected only the fresh item, got %+v", items)
	}
}

func TestSymbolNews_AppendsQuerySuffix(t *testing.T) {
	feed := &stubFeed{docs: map[string][]byte{}}
	svc := NewService(feed, nil)

	if _, err := svc.SymbolNews(context.Background(), "TCS"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(feed.queries) != 1 || feed.queries[0] != "TCS stock news india" {
		t.Errorf("queries: got %v", feed.queries)
	}
}

func TestRefreshAll_IsolatesFailures(t *testing.T) {
	now := time.Now()
	feed := &stubFeed{docs: map[string][]byte{
		"A": feedDoc(now, "A story"),
		"B": nil, // parses to zero items
	}}
	okSvc := NewService(feed, nil, WithQuerySuffix(""))

	result := okSvc.RefreshAll(context.Background(), []string{"A", "B"})
	if len(result.Failures) != 0 {
		t.Errorf("no failures expected, got %+v", result.Failures)
	}
	if len(result.Items) != 1 || result.Items[0].Symbol != "A" {
		t.Errorf("items: got %+v", result.Items)
	}

	failing := NewService(&stubFeed{err: errors.New("feed down")}, nil, WithQuerySuffix(""))
	result = failing.RefreshAll(context.Background(), []string{"A", "B"})
	if len(result.Items) != 0 {
		t.Errorf("expected no items, got %d", len(result.Items))
	}
	if len(result.Failures) != 2 {
		t.Errorf("expected 2 failures, got %+v", result.Failures)
	}
}
