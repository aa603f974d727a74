package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/marketbrief/marketbrief/internal/common"
	"github.com/marketbrief/marketbrief/internal/interfaces"
	"github.com/marketbrief/marketbrief/internal/models"
)

// analysisPrompt shapes the model toward the strict JSON contract. The
// verdict literals here must stay in sync with models.ValidVerdict.
const analysisPrompt = `You are a strict financial analyst. Analyze the following news about %s.

%s:
"""
%s
"""

Respond ONLY with a JSON object in this exact format, no other text:
{
  "summary": "A concise summary of the news in at most 3 bullet points",
  "impact_analysis": "How this news is likely to impact the stock price of %s",
  "verdict": "Bullish" or "Bearish" or "Neutral"
}`

// Service orchestrates extraction, generation, and verdict validation.
type Service struct {
	gemini    interfaces.GeminiClient
	extractor *Extractor
	logger    *common.Logger
}

// NewService creates a new analysis service
func NewService(gemini interfaces.GeminiClient, extractor *Extractor, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	if extractor == nil {
		extractor = NewExtractor()
	}
	return &Service{
		gemini:    gemini,
		extractor: extractor,
		logger:    logger,
	}
}

// Analyze fetches the article (best effort), prompts the model, and
// validates the structured verdict. Extraction failure silently downgrades
// to the feed snippet; generation or contract failure is terminal, with no
// retry.
func (s *Service) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.ArticleAnalysis, error) {
	article := s.extractor.Extract(ctx, req.URL)

	content := article.Text
	contentLabel := "Full article text"
	sourceUsed := models.SourceFullArticle
	if !article.UsedFullArticle {
		content = req.Description
		if content == "" {
			content = req.Headline
		}
		contentLabel = "Headline and snippet"
		sourceUsed = models.SourceSnippet
	}

	prompt := fmt.Sprintf(analysisPrompt, req.Symbol, contentLabel, content, req.Symbol)

	raw, err := s.gemini.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, models.NewAppError(models.ErrKindUpstreamUnavailable, "analysis generation failed", err)
	}

	var analysis models.ArticleAnalysis
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &analysis); err != nil {
		s.logger.Warn().Str("symbol", req.Symbol).Err(err).Msg("Model response was not valid JSON")
		return nil, models.NewAppError(models.ErrKindInvalidAnalysisFormat, "model response was not valid JSON", err)
	}

	if !models.ValidVerdict(analysis.Verdict) {
		return nil, models.NewAppError(models.ErrKindInvalidAnalysisFormat,
			fmt.Sprintf("model returned verdict %q, want Bullish, Bearish, or Neutral", analysis.Verdict), nil)
	}

	analysis.SourceUsed = sourceUsed

	s.logger.Debug().
		Str("symbol", req.Symbol).
		Str("verdict", string(analysis.Verdict)).
		Str("source_used", sourceUsed).
		Msg("Article analysis complete")

	return &analysis, nil
}

// stripCodeFences removes markdown code fences the model wraps around JSON
// despite instructions not to.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Ensure Service implements AnalysisService
var _ interfaces.AnalysisService = (*Service)(nil)
