// Package gnews fetches raw RSS search results from Google News
package gnews

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/marketbrief/marketbrief/internal/common"
	"github.com/marketbrief/marketbrief/internal/interfaces"
	"github.com/marketbrief/marketbrief/internal/models"
)

const (
	DefaultBaseURL = "https://news.google.com/rss/search"
	DefaultTimeout = 10 * time.Second

	// response bodies are capped; a search feed is a few KB in practice
	maxBodyBytes = 2 << 20
)

// Client implements the FeedClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new feed client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Search fetches the raw RSS document for a free-text query. The content is
// returned as-is; tolerant parsing is the feed parser's job.
func (c *Client) Search(ctx context.Context, query string) ([]byte, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", "en-IN")
	params.Set("gl", "IN")
	params.Set("ceid", "IN:en")

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("query", query).Msg("Feed search request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.NewAppError(models.ErrKindUpstreamUnavailable, "feed request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, models.NewAppError(models.ErrKindUpstreamUnavailable,
			"feed returned error status",
			fmt.Errorf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, models.NewAppError(models.ErrKindUpstreamUnavailable, "feed response read failed", err)
	}

	return body, nil
}

// Ensure Client implements FeedClient
var _ interfaces.FeedClient = (*Client)(nil)
