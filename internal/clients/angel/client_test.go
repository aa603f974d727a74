package angel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marketbrief/marketbrief/internal/models"
)

func TestLogin_SendsMandatedHeaders(t *testing.T) {
	var gotHeaders http.Header
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": true,
			"data":   map[string]string{"jwtToken": "jwt-abc"},
		})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	token, err := client.Login(context.Background(), models.Credentials{
		APIKey:     "key-1",
		ClientCode: "C123",
		Password:   "pin",
		TOTP:       "000000",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "jwt-abc" {
		t.Errorf("token: got %q", token)
	}

	for name, want := range map[string]string{
		"X-Usertype":       "USER",
		"X-Sourceid":       "WEB",
		"X-Clientlocalip":  "127.0.0.1",
		"X-Clientpublicip": "127.0.0.1",
		"X-Macaddress":     "mock-mac",
		"X-Privatekey":     "key-1",
	} {
		if got := gotHeaders.Get(name); got != want {
			t.Errorf("header %s: got %q, want %q", name, got, want)
		}
	}
	if gotBody["clientcode"] != "C123" || gotBody["totp"] != "000000" {
		t.Errorf("body: got %v", gotBody)
	}
}

func TestLogin_StatusFalseIsAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  false,
			"message": "Invalid totp",
		})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.Login(context.Background(), models.Credentials{APIKey: "k"})
	if err == nil {
		t.Fatal("expected error")
	}
	if models.KindOf(err) != models.ErrKindAuth {
		t.Errorf("kind: got %v, want auth", models.KindOf(err))
	}
}

func TestLogin_NonJSONBodyIsMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>502 Bad Gateway</html>"))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.Login(context.Background(), models.Credentials{APIKey: "k"})
	if err == nil {
		t.Fatal("expected error")
	}
	if models.KindOf(err) != models.ErrKindMalformedPayload {
		t.Errorf("kind: got %v, want malformed_payload", models.KindOf(err))
	}
}

func TestGetHoldings_ParsesFlexFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization: got %q", got)
		}
		// quantities and prices arrive as strings on some gateway versions
		w.Write([]byte(`{"status":true,"data":[
			{"tradingsymbol":"INFY-EQ","symboltoken":"1594","exchange":"NSE","quantity":"10","averageprice":"1400.5","ltp":1500.25,"close":"1480"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	holdings, err := client.GetHoldings(context.Background(), "tok", "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(holdings) != 1 {
		t.Fatalf("expected 1 holding, got %d", len(holdings))
	}

	h := holdings[0]
	if h.Symbol != "INFY-EQ" || h.Quantity != 10 {
		t.Errorf("holding: got %+v", h)
	}
	if h.AveragePrice != 1400.5 || h.LastTradedPrice != 1500.25 || h.PreviousClose != 1480 {
		t.Errorf("prices: got %+v", h)
	}
}

func TestGetLTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["tradingsymbol"] != "INFY-EQ" || body["symboltoken"] != "1594" {
			t.Errorf("payload: got %v", body)
		}
		w.Write([]byte(`{"status":true,"data":{"ltp":"1510.5","close":1490}}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	q, err := client.GetLTP(context.Background(), "tok", "key", models.Holding{
		Symbol: "INFY-EQ", SymbolToken: "1594", Exchange: "NSE",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.LastTradedPrice != 1510.5 || q.PreviousClose != 1490 {
		t.Errorf("quote: got %+v", q)
	}
}

func TestFlexFloat64(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{`123.45`, 123.45},
		{`"123.45"`, 123.45},
		{`""`, 0},
		{`"garbage"`, 0},
	}
	for _, tt := range tests {
		var f flexFloat64
		if err := json.Unmarshal([]byte(tt.raw), &f); err != nil {
			t.Errorf("unmarshal %s: %v", tt.raw, err)
			continue
		}
		if float64(f) != tt.want {
			t.Errorf("%s: got %v, want %v", tt.raw, float64(f), tt.want)
		}
	}
}
