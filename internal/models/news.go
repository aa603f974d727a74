package models

import "time"

// Sentiment classifies a headline. This is advisory keyword labeling, not
// NLP; see services/news for the keyword sets and their known false
// positives.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// FeedItem is one raw entry extracted from a syndication feed before
// recency filtering and sentiment tagging. Absent sub-fields are empty
// strings, never errors.
type FeedItem struct {
	Title          string
	Link           string
	PubDateRaw     string
	SourceName     string
	DescriptionRaw string
}

// NewsItem is one news entry for a symbol, ready for display. Result sets
// are ephemeral: callers replace a symbol's items wholesale on each query,
// never merge.
type NewsItem struct {
	ID          string    `json:"id"`
	Symbol      string    `json:"symbol"`
	Headline    string    `json:"headline"`
	Summary     string    `json:"summary"`
	Sentiment   Sentiment `json:"sentiment"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	URL         string    `json:"url"`
}

// Verdict is the constrained outcome of an AI article analysis.
type Verdict string

const (
	VerdictBullish Verdict = "Bullish"
	VerdictBearish Verdict = "Bearish"
	VerdictNeutral Verdict = "Neutral"
)

// ValidVerdict reports whether v is one of the three permitted literals.
func ValidVerdict(v Verdict) bool {
	return v == VerdictBullish || v == VerdictBearish || v == VerdictNeutral
}

// Analysis source provenance values, disclosed to the end user.
const (
	SourceFullArticle = "full_article"
	SourceSnippet     = "snippet"
)

// AnalysisRequest is the input for one on-demand article analysis.
type AnalysisRequest struct {
	URL         string `json:"url"`
	Headline    string `json:"headline"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
}

// ArticleAnalysis is the structured verdict produced for one news item.
// Not persisted or cached beyond the caller's session state.
type ArticleAnalysis struct {
	Summary        string  `json:"summary"`
	ImpactAnalysis string  `json:"impact_analysis"`
	Verdict        Verdict `json:"verdict"`
	SourceUsed     string  `json:"source_used"`
}

// ArticleText is the best-effort extraction result for one article URL.
type ArticleText struct {
	Text            string
	UsedFullArticle bool
}
