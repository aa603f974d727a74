package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/marketbrief/marketbrief/internal/models"
	"github.com/marketbrief/marketbrief/internal/services/portfolio"
)

// loginResponse reports a successful broker connection.
type loginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Holdings  int        `json:"holdings"`
}

// handleLogin handles POST /api/auth/login. Login, the holdings snapshot,
// and the first quote refresh happen in one pass so the dashboard is
// immediately renderable.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var creds models.Credentials
	if !DecodeJSON(w, r, &creds) {
		return
	}
	if creds.APIKey == "" || creds.ClientCode == "" || creds.Password == "" || creds.TOTP == "" {
		WriteError(w, http.StatusBadRequest, "api_key, client_code, password, and totp are required")
		return
	}

	ctx := r.Context()

	token, err := s.app.BrokerClient.Login(ctx, creds)
	if err != nil {
		s.logger.Warn().Str("client_code", creds.ClientCode).Err(err).Msg("Broker login failed")
		WriteAppError(w, err)
		return
	}

	holdings, err := s.app.BrokerClient.GetHoldings(ctx, token, creds.APIKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Holdings fetch failed after login")
		WriteAppError(w, err)
		return
	}

	s.app.Session.SetLogin(token, creds.APIKey)
	s.app.Session.SetHoldings(holdings)

	refresh := s.app.PortfolioService.RefreshQuotes(ctx, token, creds.APIKey, holdings)
	s.app.Session.SetQuotes(refresh.Quotes)

	s.logger.Info().
		Str("client_code", creds.ClientCode).
		Int("holdings", len(holdings)).
		Int("quote_failures", len(refresh.Failures)).
		Msg("Broker session established")

	resp := loginResponse{Token: token, Holdings: len(holdings)}
	if exp := s.app.Session.ExpiresAt(); !exp.IsZero() {
		resp.ExpiresAt = &exp
	}
	WriteJSON(w, http.StatusOK, resp)
}

// handleLogout handles POST /api/auth/logout.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	s.app.Session.Clear()
	WriteJSON(w, http.StatusOK, map[string]string{"status": "disconnected"})
}

// portfolioResponse is the full dashboard view: every position, the
// aggregate summary, and the ranked selections.
type portfolioResponse struct {
	Positions []models.PositionMetrics `json:"positions"`
	Summary   models.PortfolioSummary  `json:"summary"`
	Ranking   portfolio.Ranking        `json:"ranking"`
	AsOf      time.Time                `json:"as_of"`
}

// handlePortfolio handles GET /api/portfolio. Query params: sort (ranking
// key, default portfolio_impact) and n (selection size, default 5).
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if !s.app.Session.Authenticated() {
		WriteError(w, http.StatusUnauthorized, "no active broker session")
		return
	}

	holdings := s.app.Session.Holdings()
	quotes := s.app.Session.Quotes()

	positions, summary := portfolio.Valuate(holdings, quotes)

	key := portfolio.ParseSortKey(r.URL.Query().Get("sort"))
	n := portfolio.DefaultTopN
	if raw := r.URL.Query().Get("n"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			n = v
		}
	}

	WriteJSON(w, http.StatusOK, portfolioResponse{
		Positions: positions,
		Summary:   summary,
		Ranking:   portfolio.Rank(positions, key, n),
		AsOf:      s.app.Session.PricesUpdatedAt(),
	})
}

// refreshResponse reports a holdings + quote refresh, including per-symbol
// quote failures.
type refreshResponse struct {
	Holdings int                    `json:"holdings"`
	Quotes   int                    `json:"quotes"`
	Failures []models.SymbolFailure `json:"failures,omitempty"`
}

// handlePortfolioRefresh handles POST /api/portfolio/refresh. The holdings
// snapshot is replaced wholesale, then live quotes are re-fetched.
func (s *Server) handlePortfolioRefresh(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if !s.app.Session.Authenticated() {
		WriteError(w, http.StatusUnauthorized, "no active broker session")
		return
	}

	ctx := r.Context()
	token, apiKey := s.app.Session.Token()

	holdings, err := s.app.BrokerClient.GetHoldings(ctx, token, apiKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Holdings refresh failed")
		WriteAppError(w, err)
		return
	}
	s.app.Session.SetHoldings(holdings)

	refresh := s.app.PortfolioService.RefreshQuotes(ctx, token, apiKey, holdings)
	s.app.Session.SetQuotes(refresh.Quotes)

	WriteJSON(w, http.StatusOK, refreshResponse{
		Holdings: len(holdings),
		Quotes:   len(refresh.Quotes),
		Failures: refresh.Failures,
	})
}

// handlePortfolioNews handles /api/portfolio/news.
// POST refreshes news for every held symbol concurrently and stores the
// per-symbol results in the session; GET returns the stored union.
func (s *Server) handlePortfolioNews(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	if !s.app.Session.Authenticated() {
		WriteError(w, http.StatusUnauthorized, "no active broker session")
		return
	}

	if r.Method == http.MethodGet {
		WriteJSON(w, http.StatusOK, models.NewsRefreshResult{Items: s.app.Session.AllNews()})
		return
	}

	holdings := s.app.Session.Holdings()
	symbols := make([]string, len(holdings))
	for i, h := range holdings {
		symbols[i] = h.Symbol
	}

	result := s.app.NewsService.RefreshAll(r.Context(), symbols)
	bySymbol := make(map[string][]models.NewsItem)
	for _, item := range result.Items {
		bySymbol[item.Symbol] = append(bySymbol[item.Symbol], item)
	}
	for symbol, items := range bySymbol {
		s.app.Session.SetSymbolNews(symbol, items)
	}

	WriteJSON(w, http.StatusOK, result)
}

// handleNews handles GET /api/news?q=SYMBOL.
func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := r.URL.Query().Get("q")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	items, err := s.app.NewsService.SymbolNews(r.Context(), symbol)
	if err != nil {
		s.logger.Warn().Str("symbol", symbol).Err(err).Msg("News fetch failed")
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "failed to fetch news",
			Details: models.Details(err),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string][]models.NewsItem{"articles": items})
}

// handleAnalyze handles POST /api/analyze.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.GeminiClient == nil {
		err := models.NewAppError(models.ErrKindConfigurationMissing, "Gemini API key is not configured", nil)
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Reason})
		return
	}

	var req models.AnalysisRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.URL == "" || req.Symbol == "" {
		WriteError(w, http.StatusBadRequest, "url and symbol are required")
		return
	}

	result, err := s.app.AnalysisService.Analyze(r.Context(), req)
	if err != nil {
		s.logger.Warn().Str("symbol", req.Symbol).Err(err).Msg("Article analysis failed")
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "analysis failed",
			Details: models.Details(err),
		})
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
