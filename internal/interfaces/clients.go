// Package interfaces defines client and service contracts for MarketBrief
package interfaces

import (
	"context"

	"github.com/marketbrief/marketbrief/internal/models"
)

// BrokerClient provides access to the broker gateway (Angel One SmartAPI
// shape). All calls carry the broker-mandated header set.
type BrokerClient interface {
	// Login authenticates and returns the session JWT.
	Login(ctx context.Context, creds models.Credentials) (string, error)

	// GetHoldings retrieves the full holdings snapshot.
	GetHoldings(ctx context.Context, token, apiKey string) ([]models.Holding, error)

	// GetLTP retrieves the live last-traded price and previous close for
	// one symbol.
	GetLTP(ctx context.Context, token, apiKey string, h models.Holding) (*models.LiveQuote, error)
}

// GeminiClient provides access to the generative-text endpoint
type GeminiClient interface {
	// GenerateContent generates AI content from a prompt
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// FeedClient fetches raw syndication-feed content for a free-text query.
// No compatibility guarantee on the response schema beyond the fields the
// feed parser extracts.
type FeedClient interface {
	Search(ctx context.Context, query string) ([]byte, error)
}
