package news

import (
	"strings"

	"github.com/marketbrief/marketbrief/internal/models"
)

// Keyword sets for headline sentiment tagging. This is an advisory
// heuristic, not NLP: "low-risk buy" matches both sets and tags positive
// because the positive set is checked first; "record low" tags negative
// even in a bullish headline. No match means neutral.
var (
	positiveKeywords = []string{"surge", "jump", "high", "buy", "profit"}
	negativeKeywords = []string{"fall", "drop", "low", "sell", "loss", "down"}
)

// TagSentiment classifies a headline by case-insensitive keyword match.
func TagSentiment(headline string) models.Sentiment {
	h := strings.ToLower(headline)
	for _, kw := range positiveKeywords {
		if strings.Contains(h, kw) {
			return models.SentimentPositive
		}
	}
	for _, kw := range negativeKeywords {
		if strings.Contains(h, kw) {
			return models.SentimentNegative
		}
	}
	return models.SentimentNeutral
}
