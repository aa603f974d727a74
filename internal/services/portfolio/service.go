package portfolio

import (
	"context"
	"sync"

	"github.com/marketbrief/marketbrief/internal/common"
	"github.com/marketbrief/marketbrief/internal/interfaces"
	"github.com/marketbrief/marketbrief/internal/models"
)

// Service fetches live quotes through the broker client.
type Service struct {
	broker interfaces.BrokerClient
	logger *common.Logger
}

// NewService creates a new portfolio service
func NewService(broker interfaces.BrokerClient, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		broker: broker,
		logger: logger,
	}
}

// RefreshQuotes issues one LTP request per holding concurrently. Each
// goroutine writes its own result slot, so no result is shared. A failed
// symbol is recorded and falls back to its static holding prices; the batch
// always completes.
func (s *Service) RefreshQuotes(ctx context.Context, token, apiKey string, holdings []models.Holding) *models.QuoteRefreshResult {
	results := make([]*models.LiveQuote, len(holdings))
	errs := make([]error, len(holdings))

	var wg sync.WaitGroup
	for i, h := range holdings {
		wg.Add(1)
		go func(i int, h models.Holding) {
			defer wg.Done()
			q, err := s.broker.GetLTP(ctx, token, apiKey, h)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = q
		}(i, h)
	}
	wg.Wait()

	out := &models.QuoteRefreshResult{
		Quotes: make(map[string]models.LiveQuote, len(holdings)),
	}
	for i, h := range holdings {
		if errs[i] != nil {
			s.logger.Warn().Str("symbol", h.Symbol).Err(errs[i]).Msg("Live quote failed, using static prices")
			out.Failures = append(out.Failures, models.SymbolFailure{
				Symbol: h.Symbol,
				Reason: errs[i].Error(),
			})
			continue
		}
		if results[i] != nil {
			out.Quotes[h.Symbol] = *results[i]
		}
	}

	s.logger.Debug().
		Int("quotes", len(out.Quotes)).
		Int("failures", len(out.Failures)).
		Msg("Quote refresh complete")

	return out
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
