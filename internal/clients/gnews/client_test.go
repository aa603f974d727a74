package gnews

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/marketbrief/marketbrief/internal/models"
)

func TestSearch_BuildsRegionalisedQuery(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte("<rss><channel></channel></rss>"))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	body, err := client.Search(context.Background(), "INFY stock news india")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(body), "<rss>") {
		t.Errorf("body: got %q", string(body))
	}

	if got := gotQuery["q"]; len(got) != 1 || got[0] != "INFY stock news india" {
		t.Errorf("q: got %v", got)
	}
	if got := gotQuery["hl"]; len(got) != 1 || got[0] != "en-IN" {
		t.Errorf("hl: got %v", got)
	}
	if got := gotQuery["gl"]; len(got) != 1 || got[0] != "IN" {
		t.Errorf("gl: got %v", got)
	}
	if got := gotQuery["ceid"]; len(got) != 1 || got[0] != "IN:en" {
		t.Errorf("ceid: got %v", got)
	}
}

func TestSearch_NonOKStatusIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.Search(context.Background(), "INFY")
	if err == nil {
		t.Fatal("expected error")
	}
	if models.KindOf(err) != models.ErrKindUpstreamUnavailable {
		t.Errorf("kind: got %v", models.KindOf(err))
	}
}
