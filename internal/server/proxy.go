package server

import (
	"io"
	"net/http"
)

// proxyDefaultHeaders are injected when the caller did not supply its own
// identification headers. The broker rejects requests missing them.
var proxyDefaultHeaders = map[string]string{
	"Content-Type":     "application/json",
	"Accept":           "application/json",
	"X-UserType":       "USER",
	"X-SourceID":       "WEB",
	"X-ClientLocalIP":  "127.0.0.1",
	"X-ClientPublicIP": "127.0.0.1",
	"X-MACAddress":     "mock-mac",
}

// forwardedHeaders are copied through from the caller verbatim.
var forwardedHeaders = []string{"Authorization", "X-PrivateKey"}

// handleProxy forwards /rest/* requests to the broker gateway. The upstream
// status and body are passed through verbatim; the proxy never interprets
// the response.
func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	target := s.app.Config.Clients.Broker.BaseURL + r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		WriteError(w, http.StatusBadGateway, "failed to build proxy request")
		return
	}

	for name, value := range proxyDefaultHeaders {
		if r.Header.Get(name) != "" {
			value = r.Header.Get(name)
		}
		req.Header.Set(name, value)
	}
	for _, name := range forwardedHeaders {
		if v := r.Header.Get(name); v != "" {
			req.Header.Set(name, v)
		}
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		s.logger.Warn().Str("path", r.URL.Path).Err(err).Msg("Broker proxy request failed")
		WriteError(w, http.StatusBadGateway, "broker gateway unreachable")
		return
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)
}
