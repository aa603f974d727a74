// Package session holds the in-memory state of one broker connection.
//
// All state lives for the lifetime of a session only: credentials token,
// the holdings snapshot, the live-quote overlay, and per-symbol news. There
// is no persistence layer. The Session is the single coordinating owner of
// this state; nothing else holds implicit globals.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/marketbrief/marketbrief/internal/models"
)

// Session is the mutable state of one authenticated broker connection.
// Handlers run concurrently, so access goes through the mutex even though
// each unit of work writes a disjoint entry.
type Session struct {
	mu sync.RWMutex

	token     string
	apiKey    string
	expiresAt time.Time

	holdings []models.Holding
	quotes   map[string]models.LiveQuote
	news     map[string][]models.NewsItem

	connectedAt   time.Time
	pricesUpdated time.Time
	newsUpdated   time.Time
}

// New returns an empty, unauthenticated session.
func New() *Session {
	return &Session{
		quotes: make(map[string]models.LiveQuote),
		news:   make(map[string][]models.NewsItem),
	}
}

// SetLogin stores the broker token and API key and derives the session
// expiry from the token's exp claim. The claim is read without signature
// verification; the broker verifies the token, we only need its lifetime.
func (s *Session) SetLogin(token, apiKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.apiKey = apiKey
	s.connectedAt = time.Now()
	s.expiresAt = time.Time{}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			s.expiresAt = exp.Time
		}
	}
}

// Token returns the broker token and API key for outbound calls.
func (s *Session) Token() (token, apiKey string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.apiKey
}

// Authenticated reports whether a usable, unexpired token is present.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return false
	}
	if !s.expiresAt.IsZero() && time.Now().After(s.expiresAt) {
		return false
	}
	return true
}

// ExpiresAt returns the session expiry, zero when the token carried no exp
// claim.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// SetHoldings replaces the holdings snapshot wholesale and drops the stale
// quote overlay.
func (s *Session) SetHoldings(holdings []models.Holding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holdings = append([]models.Holding(nil), holdings...)
	s.quotes = make(map[string]models.LiveQuote)
}

// Holdings returns a copy of the current holdings snapshot.
func (s *Session) Holdings() []models.Holding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Holding(nil), s.holdings...)
}

// SetQuotes replaces the live-quote overlay.
func (s *Session) SetQuotes(quotes map[string]models.LiveQuote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes = make(map[string]models.LiveQuote, len(quotes))
	for k, v := range quotes {
		s.quotes[k] = v
	}
	s.pricesUpdated = time.Now()
}

// Quotes returns a copy of the live-quote overlay.
func (s *Session) Quotes() map[string]models.LiveQuote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.LiveQuote, len(s.quotes))
	for k, v := range s.quotes {
		out[k] = v
	}
	return out
}

// SetSymbolNews replaces (never merges) one symbol's news items.
func (s *Session) SetSymbolNews(symbol string, items []models.NewsItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.news[symbol] = append([]models.NewsItem(nil), items...)
	s.newsUpdated = time.Now()
}

// AllNews returns the union of every symbol's items. No cross-symbol
// ordering guarantee.
func (s *Session) AllNews() []models.NewsItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.NewsItem
	for _, items := range s.news {
		out = append(out, items...)
	}
	return out
}

// PricesUpdatedAt returns when the quote overlay was last refreshed.
func (s *Session) PricesUpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pricesUpdated
}

// Clear wipes all session state, returning to the unauthenticated state.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.apiKey = ""
	s.expiresAt = time.Time{}
	s.holdings = nil
	s.quotes = make(map[string]models.LiveQuote)
	s.news = make(map[string][]models.NewsItem)
}
