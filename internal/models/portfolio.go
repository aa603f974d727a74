// Package models defines data structures for MarketBrief
package models

// Holding represents one equity position from the broker holdings snapshot.
// It is the source of truth for position size and cost basis. A snapshot is
// refreshed wholesale on reconnect, never mutated in place.
type Holding struct {
	Symbol          string  `json:"tradingsymbol"`
	SymbolToken     string  `json:"symboltoken"`
	Exchange        string  `json:"exchange"`
	Product         string  `json:"product,omitempty"`
	Quantity        int     `json:"quantity"`
	AveragePrice    float64 `json:"averageprice"`
	LastTradedPrice float64 `json:"ltp"`
	PreviousClose   float64 `json:"close,omitempty"`
}

// LiveQuote is an optional per-symbol price overlay from the broker's LTP
// endpoint. Symbols without a live quote fall back to the Holding's own
// price fields.
type LiveQuote struct {
	Symbol          string  `json:"symbol"`
	LastTradedPrice float64 `json:"ltp"`
	PreviousClose   float64 `json:"close"`
}

// PositionMetrics holds the derived valuation figures for one position.
// Recomputed whenever the holdings snapshot or the live quote set changes.
// Every ratio is zero-guarded so the struct can never carry NaN or Inf.
type PositionMetrics struct {
	Symbol           string  `json:"symbol"`
	Quantity         int     `json:"quantity"`
	CurrentValue     float64 `json:"current_value"`
	InvestedValue    float64 `json:"invested_value"`
	PnL              float64 `json:"pnl"`
	PnLPercent       float64 `json:"pnl_percent"`
	DayChangePercent float64 `json:"day_change_percent"`
	PortfolioImpact  float64 `json:"portfolio_impact"` // day gain/loss in currency terms
}

// PortfolioSummary aggregates PositionMetrics across the whole portfolio.
type PortfolioSummary struct {
	TotalValue        float64 `json:"total_value"`
	TotalInvested     float64 `json:"total_invested"`
	TotalPnL          float64 `json:"total_pnl"`
	TotalDayGL        float64 `json:"total_day_gl"`
	TotalDayGLPercent float64 `json:"total_day_gl_percent"`
}

// Credentials are the broker login inputs. They are forwarded to the broker
// gateway and held only in the in-memory session.
type Credentials struct {
	APIKey     string `json:"api_key"`
	ClientCode string `json:"client_code"`
	Password   string `json:"password"`
	TOTP       string `json:"totp"`
}

// SymbolFailure records one symbol's failure inside a batch operation.
type SymbolFailure struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// QuoteRefreshResult carries the partial results of a concurrent live-quote
// refresh. A per-symbol failure lands in Failures and the symbol falls back
// to its static holding prices; it never fails the batch.
type QuoteRefreshResult struct {
	Quotes   map[string]LiveQuote `json:"quotes"`
	Failures []SymbolFailure      `json:"failures,omitempty"`
}

// NewsRefreshResult carries the partial results of a concurrent per-symbol
// news refresh. Items are concatenated in completion order; each symbol's
// own items retain their parse order.
type NewsRefreshResult struct {
	Items    []NewsItem      `json:"articles"`
	Failures []SymbolFailure `json:"failures,omitempty"`
}
