package interfaces

import (
	"context"

	"github.com/marketbrief/marketbrief/internal/models"
)

// PortfolioService reconciles holdings against live quotes.
type PortfolioService interface {
	// RefreshQuotes issues one live-quote request per holding concurrently
	// and returns the partial results. A per-symbol failure never aborts
	// the batch.
	RefreshQuotes(ctx context.Context, token, apiKey string, holdings []models.Holding) *models.QuoteRefreshResult
}

// NewsService produces per-symbol news from the feed source.
type NewsService interface {
	// SymbolNews fetches, parses, filters, and tags news for one symbol.
	SymbolNews(ctx context.Context, symbol string) ([]models.NewsItem, error)

	// RefreshAll queries every symbol concurrently and returns the union
	// of per-symbol results. One symbol's failure yields zero items for
	// that symbol, not a batch failure.
	RefreshAll(ctx context.Context, symbols []string) *models.NewsRefreshResult
}

// AnalysisService produces an on-demand AI impact analysis for one article.
type AnalysisService interface {
	// Analyze extracts the article (best effort), prompts the generative
	// endpoint, and validates the structured verdict. Not retried; a
	// single upstream failure is terminal for the invocation.
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.ArticleAnalysis, error)
}
