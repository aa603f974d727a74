// Package angel provides a client for the Angel One SmartAPI broker gateway
package angel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/marketbrief/marketbrief/internal/common"
	"github.com/marketbrief/marketbrief/internal/interfaces"
	"github.com/marketbrief/marketbrief/internal/models"
)

const (
	DefaultBaseURL   = "https://apiconnect.angelbroking.com"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 10 // requests per second

	loginPath    = "/rest/auth/angelbroking/user/v1/loginByPassword"
	holdingsPath = "/rest/secure/angelbroking/portfolio/v1/getHolding"
	ltpPath      = "/rest/secure/angelbroking/order/v1/getLtpData"
)

// flexFloat64 handles JSON values that may be either a number or a string.
// The broker returns price fields inconsistently across endpoints.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// flexInt handles quantities that may arrive as numbers or strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var ff flexFloat64
	if err := ff.UnmarshalJSON(data); err != nil {
		return err
	}
	*f = flexInt(ff)
	return nil
}

// Client implements the BrokerClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
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

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new broker gateway client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// envelope is the broker's standard response wrapper.
type envelope struct {
	Status    bool            `json:"status"`
	Message   string          `json:"message"`
	ErrorCode string          `json:"errorcode"`
	Data      json.RawMessage `json:"data"`
}

// brokerHeaders sets the fixed header set the broker mandates on every call.
func brokerHeaders(req *http.Request, token, apiKey string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-UserType", "USER")
	req.Header.Set("X-SourceID", "WEB")
	req.Header.Set("X-ClientLocalIP", "127.0.0.1")
	req.Header.Set("X-ClientPublicIP", "127.0.0.1")
	req.Header.Set("X-MACAddress", "mock-mac")
	req.Header.Set("X-PrivateKey", apiKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// call performs a rate-limited request and decodes the broker envelope.
func (c *Client) call(ctx context.Context, method, path, token, apiKey string, payload interface{}) (*envelope, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	brokerHeaders(req, token, apiKey)

	c.logger.Debug().Str("path", path).Msg("Broker API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.NewAppError(models.ErrKindUpstreamUnavailable, "broker request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewAppError(models.ErrKindUpstreamUnavailable, "broker response read failed", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// An HTML body here usually means the gateway proxy is broken,
		// not the broker itself.
		preview := string(raw)
		if len(preview) > 200 {
			preview = preview[:200]
		}
		return nil, models.NewAppError(models.ErrKindMalformedPayload,
			"broker returned non-JSON response",
			fmt.Errorf("status %d, body preview: %s", resp.StatusCode, preview))
	}

	if resp.StatusCode != http.StatusOK {
		return &env, models.NewAppError(models.ErrKindUpstreamUnavailable,
			"broker returned error status",
			fmt.Errorf("status %d: %s", resp.StatusCode, env.Message))
	}

	return &env, nil
}

// loginData is the login response payload.
type loginData struct {
	JWTToken     string `json:"jwtToken"`
	RefreshToken string `json:"refreshToken"`
	FeedToken    string `json:"feedToken"`
}

// Login authenticates and returns the session JWT.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (string, error) {
	payload := map[string]string{
		"clientcode": creds.ClientCode,
		"password":   creds.Password,
		"totp":       creds.TOTP,
	}

	env, err := c.call(ctx, http.MethodPost, loginPath, "", creds.APIKey, payload)
	if err != nil {
		return "", err
	}

	var data loginData
	if env.Data != nil {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return "", models.NewAppError(models.ErrKindMalformedPayload, "login payload unreadable", err)
		}
	}

	if !env.Status || data.JWTToken == "" {
		reason := env.Message
		if reason == "" {
			reason = "invalid credentials"
		}
		return "", models.NewAppError(models.ErrKindAuth, reason, nil)
	}

	return data.JWTToken, nil
}

// holdingRow is the broker's holdings list entry.
type holdingRow struct {
	TradingSymbol string      `json:"tradingsymbol"`
	SymbolToken   string      `json:"symboltoken"`
	Exchange      string      `json:"exchange"`
	Product       string      `json:"product"`
	Quantity      flexInt     `json:"quantity"`
	AveragePrice  flexFloat64 `json:"averageprice"`
	LTP           flexFloat64 `json:"ltp"`
	Close         flexFloat64 `json:"close"`
}

// GetHoldings retrieves the full holdings snapshot.
func (c *Client) GetHoldings(ctx context.Context, token, apiKey string) ([]models.Holding, error) {
	env, err := c.call(ctx, http.MethodGet, holdingsPath, token, apiKey, nil)
	if err != nil {
		return nil, err
	}

	if !env.Status {
		reason := env.Message
		if reason == "" {
			reason = "failed to fetch holdings"
		}
		return nil, models.NewAppError(models.ErrKindAuth, reason, nil)
	}

	var rows []holdingRow
	if env.Data != nil {
		if err := json.Unmarshal(env.Data, &rows); err != nil {
			return nil, models.NewAppError(models.ErrKindMalformedPayload, "holdings payload unreadable", err)
		}
	}

	holdings := make([]models.Holding, len(rows))
	for i, r := range rows {
		holdings[i] = models.Holding{
			Symbol:          r.TradingSymbol,
			SymbolToken:     r.SymbolToken,
			Exchange:        r.Exchange,
			Product:         r.Product,
			Quantity:        int(r.Quantity),
			AveragePrice:    float64(r.AveragePrice),
			LastTradedPrice: float64(r.LTP),
			PreviousClose:   float64(r.Close),
		}
	}

	c.logger.Debug().Int("holdings", len(holdings)).Msg("Fetched holdings snapshot")

	return holdings, nil
}

// ltpData is the getLtpData response payload.
type ltpData struct {
	LTP   flexFloat64 `json:"ltp"`
	Close flexFloat64 `json:"close"`
}

// GetLTP retrieves the live last-traded price and previous close for one
// symbol.
func (c *Client) GetLTP(ctx context.Context, token, apiKey string, h models.Holding) (*models.LiveQuote, error) {
	payload := map[string]string{
		"exchange":      h.Exchange,
		"tradingsymbol": h.Symbol,
		"symboltoken":   h.SymbolToken,
	}

	env, err := c.call(ctx, http.MethodPost, ltpPath, token, apiKey, payload)
	if err != nil {
		return nil, err
	}

	if !env.Status || env.Data == nil {
		reason := env.Message
		if reason == "" {
			reason = "no quote data"
		}
		return nil, models.NewAppError(models.ErrKindUpstreamUnavailable, reason, nil)
	}

	var data ltpData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, models.NewAppError(models.ErrKindMalformedPayload, "quote payload unreadable", err)
	}

	return &models.LiveQuote{
		Symbol:          h.Symbol,
		LastTradedPrice: float64(data.LTP),
		PreviousClose:   float64(data.Close),
	}, nil
}

// Ensure Client implements BrokerClient
var _ interfaces.BrokerClient = (*Client)(nil)
