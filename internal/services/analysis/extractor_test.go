package analysis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExtract_KeepsSubstantialParagraphs(t *testing.T) {
	long1 := strings.Repeat("a", 80)
	short := strings.Repeat("b", 30)
	long2 := strings.Repeat("c", 200)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<script>var tracking = true;</script>
			<style>p { color: red; }</style>
			<p>` + long1 + `</p>
			<p>` + short + `</p>
			<p>` + long2 + `</p>
		</body></html>`))
	}))
	defer srv.Close()

	result := NewExtractor().Extract(context.Background(), srv.URL)

	if !result.UsedFullArticle {
		t.Error("expected UsedFullArticle for substantial content")
	}
	if !strings.Contains(result.Text, long1) || !strings.Contains(result.Text, long2) {
		t.Error("long paragraphs missing from extracted text")
	}
	if strings.Contains(result.Text, short) {
		t.Error("short paragraph should be filtered out")
	}
	if strings.Contains(result.Text, "tracking") {
		t.Error("script content must be removed")
	}
}

func TestExtract_ThinContentIsNotFullArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>` + strings.Repeat("x", 60) + `</p></body></html>`))
	}))
	defer srv.Close()

	result := NewExtractor().Extract(context.Background(), srv.URL)
	if result.UsedFullArticle {
		t.Error("60 chars of paragraph text is not a full article")
	}
	if result.Text == "" {
		t.Error("thin content should still be returned")
	}
}

func TestExtract_TruncatesLongArticles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>` + strings.Repeat("x", 20000) + `</p></body></html>`))
	}))
	defer srv.Close()

	result := NewExtractor().Extract(context.Background(), srv.URL)
	if len(result.Text) != maxArticleChars {
		t.Errorf("expected truncation to %d chars, got %d", maxArticleChars, len(result.Text))
	}
	if !result.UsedFullArticle {
		t.Error("truncated article is still a full article")
	}
}

func TestExtract_FailuresYieldEmptyResult(t *testing.T) {
	// Unreachable host
	result := NewExtractor().Extract(context.Background(), "http://127.0.0.1:1/nothing")
	if result.Text != "" || result.UsedFullArticle {
		t.Errorf("fetch failure: got %+v", result)
	}

	// Non-200 status
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	result = NewExtractor().Extract(context.Background(), srv.URL)
	if result.Text != "" || result.UsedFullArticle {
		t.Errorf("403 response: got %+v", result)
	}
}

func TestExtract_SendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("<html><body></body></html>"))
	}))
	defer srv.Close()

	NewExtractor(WithUserAgent("test-agent/1.0")).Extract(context.Background(), srv.URL)
	if gotUA != "test-agent/1.0" {
		t.Errorf("user agent: got %q", gotUA)
	}
}
