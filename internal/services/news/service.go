package news

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marketbrief/marketbrief/internal/common"
	"github.com/marketbrief/marketbrief/internal/interfaces"
	"github.com/marketbrief/marketbrief/internal/models"
)

// DefaultMaxItems caps the number of feed items taken per query.
const DefaultMaxItems = 5

// Service queries the feed source and assembles per-symbol news.
type Service struct {
	feed        interfaces.FeedClient
	logger      *common.Logger
	maxItems    int
	retention   time.Duration
	querySuffix string

	// now is swappable for recency tests
	now func() time.Time
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithMaxItems caps items per query
func WithMaxItems(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.maxItems = n
		}
	}
}

// WithRetention sets the recency window
func WithRetention(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.retention = d
		}
	}
}

// WithQuerySuffix sets the free-text suffix appended to symbol queries
func WithQuerySuffix(suffix string) ServiceOption {
	return func(s *Service) {
		s.querySuffix = suffix
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new news service
func NewService(feed interfaces.FeedClient, logger *common.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	s := &Service{
		feed:        feed,
		logger:      logger,
		maxItems:    DefaultMaxItems,
		retention:   DefaultRetention,
		querySuffix: " stock news india",
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SymbolNews fetches the feed for one symbol and returns its filtered,
// tagged items in parse order.
func (s *Service) SymbolNews(ctx context.Context, symbol string) ([]models.NewsItem, error) {
	raw, err := s.feed.Search(ctx, symbol+s.querySuffix)
	if err != nil {
		return nil, err
	}

	now := s.now()
	parsed := ParseFeed(raw, s.maxItems)
	items := make([]models.NewsItem, 0, len(parsed))

	for _, fi := range parsed {
		if !WithinWindow(fi.PubDateRaw, s.retention, now) {
			continue
		}

		publishedAt, ok := ParsePubDate(fi.PubDateRaw)
		if !ok {
			publishedAt = now
		}

		source := fi.SourceName
		if source == "" {
			source = DefaultSource
		}

		summary := CleanDescription(fi.DescriptionRaw)
		if summary == "" {
			summary = defaultDescription
		}

		items = append(items, models.NewsItem{
			ID:          uuid.New().String(),
			Symbol:      symbol,
			Headline:    fi.Title,
			Summary:     summary,
			Sentiment:   TagSentiment(fi.Title),
			Source:      source,
			PublishedAt: publishedAt,
			URL:         fi.Link,
		})
	}

	s.logger.Debug().Str("symbol", symbol).Int("items", len(items)).Msg("Symbol news fetched")

	return items, nil
}

// RefreshAll queries every symbol concurrently. The aggregate list is
// concatenated in completion order; each symbol's own items keep their
// parse order. A failed symbol contributes zero items plus a failure
// record, never a batch failure.
func (s *Service) RefreshAll(ctx context.Context, symbols []string) *models.NewsRefreshResult {
	out := &models.NewsRefreshResult{}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			items, err := s.SymbolNews(ctx, symbol)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn().Str("symbol", symbol).Err(err).Msg("News fetch failed")
				out.Failures = append(out.Failures, models.SymbolFailure{
					Symbol: symbol,
					Reason: err.Error(),
				})
				return
			}
			out.Items = append(out.Items, items...)
		}(symbol)
	}
	wg.Wait()

	return out
}

// Ensure Service implements NewsService
var _ interfaces.NewsService = (*Service)(nil)
