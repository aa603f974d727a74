package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestProxy_InjectsDefaultHeadersAndPassesStatusVerbatim(t *testing.T) {
	var gotHeaders http.Header
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte(`{"status":false,"message":"teapot"}`))
	}))
	defer upstream.Close()

	a := testApp()
	a.Config.Clients.Broker.BaseURL = upstream.URL
	srv := testServer(a)

	req := httptest.NewRequest(http.MethodPost, "/rest/auth/angelbroking/user/v1/loginByPassword",
		strings.NewReader(`{"clientcode":"C1"}`))
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set("X-PrivateKey", "key-1")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("status must pass through verbatim, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "teapot") {
		t.Errorf("body must pass through verbatim, got %q", rec.Body.String())
	}

	for name, want := range map[string]string{
		"X-Usertype":       "USER",
		"X-Sourceid":       "WEB",
		"X-Clientlocalip":  "127.0.0.1",
		"X-Clientpublicip": "127.0.0.1",
		"X-Macaddress":     "mock-mac",
		"Authorization":    "Bearer tok",
		"X-Privatekey":     "key-1",
	} {
		if got := gotHeaders.Get(name); got != want {
			t.Errorf("header %s: got %q, want %q", name, got, want)
		}
	}
}

func TestProxy_CallerHeadersWin(t *testing.T) {
	var gotHeaders http.Header
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	a := testApp()
	a.Config.Clients.Broker.BaseURL = upstream.URL
	srv := testServer(a)

	req := httptest.NewRequest(http.MethodGet, "/rest/secure/angelbroking/portfolio/v1/getHolding", nil)
	req.Header.Set("X-ClientLocalIP", "10.0.0.5")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if got := gotHeaders.Get("X-Clientlocalip"); got != "10.0.0.5" {
		t.Errorf("caller-supplied header must win, got %q", got)
	}
}

func TestProxy_UpstreamUnreachable(t *testing.T) {
	a := testApp()
	a.Config.Clients.Broker.BaseURL = "http://127.0.0.1:1"
	srv := testServer(a)

	req := httptest.NewRequest(http.MethodGet, "/rest/anything", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status: got %d, want 502", rec.Code)
	}
}
