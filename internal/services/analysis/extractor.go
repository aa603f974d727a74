// Package analysis produces on-demand AI impact analyses for news articles.
package analysis

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/marketbrief/marketbrief/internal/models"
)

const (
	// DefaultFetchTimeout bounds one article fetch.
	DefaultFetchTimeout = 8 * time.Second

	// DefaultUserAgent is sent on article fetches. Many news sites serve
	// bot user agents a paywall interstitial instead of the article body.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// minParagraphLen filters boilerplate fragments (bylines, captions,
	// cookie notices) out of the extracted text.
	minParagraphLen = 50

	// fullArticleThreshold is the minimum extracted length considered a
	// real article body rather than scraps.
	fullArticleThreshold = 200

	// maxArticleChars caps the text forwarded to the model.
	maxArticleChars = 10000
)

// Extractor pulls readable article text from a URL, best effort. Every
// failure mode (fetch error, bad status, unparseable HTML, thin content)
// yields an empty result and never an error: the caller falls back to the
// feed snippet.
type Extractor struct {
	httpClient *http.Client
	userAgent  string
}

// ExtractorOption configures the extractor
type ExtractorOption func(*Extractor)

// WithFetchTimeout sets the per-article fetch timeout
func WithFetchTimeout(d time.Duration) ExtractorOption {
	return func(e *Extractor) {
		if d > 0 {
			e.httpClient.Timeout = d
		}
	}
}

// WithUserAgent sets the fetch user agent
func WithUserAgent(ua string) ExtractorOption {
	return func(e *Extractor) {
		if ua != "" {
			e.userAgent = ua
		}
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c *http.Client) ExtractorOption {
	return func(e *Extractor) {
		if c != nil {
			e.httpClient = c
		}
	}
}

// NewExtractor creates a new article extractor
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		httpClient: &http.Client{Timeout: DefaultFetchTimeout},
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract fetches the URL and returns its paragraph text. UsedFullArticle
// is true only when enough body text survived filtering to analyze the
// article itself rather than a snippet.
func (e *Extractor) Extract(ctx context.Context, url string) models.ArticleText {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.ArticleText{}
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return models.ArticleText{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.ArticleText{}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return models.ArticleText{}
	}

	doc.Find("script, style").Remove()

	var paras []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len(text) > minParagraphLen {
			paras = append(paras, text)
		}
	})

	text := strings.Join(paras, "\n\n")
	if len(text) > maxArticleChars {
		text = text[:maxArticleChars]
	}

	return models.ArticleText{
		Text:            text,
		UsedFullArticle: len(text) > fullArticleThreshold,
	}
}
