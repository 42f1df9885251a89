package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"token-function/internal/metrics"
)

// TokenFetcher performs one upstream credential exchange per call.
// Satisfied by exchange.Exchanger.
type TokenFetcher interface {
	Fetch(ctx context.Context) (json.RawMessage, error)
}

// AccessTokenHandler is the function's invocation entry point. It
// ignores any caller-supplied payload, performs exactly one upstream
// exchange and relays the upstream JSON to the caller.
type AccessTokenHandler struct {
	Fetcher TokenFetcher
	Log     *logrus.Logger
	Metrics *metrics.MetricsCollector
}

// NewAccessTokenHandler creates a new access token handler
func NewAccessTokenHandler(fetcher TokenFetcher, log *logrus.Logger, mc *metrics.MetricsCollector) *AccessTokenHandler {
	return &AccessTokenHandler{
		Fetcher: fetcher,
		Log:     log,
		Metrics: mc,
	}
}

// ServeHTTP handles one invocation
func (h *AccessTokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Whatever the caller sent is irrelevant to the exchange; the
	// request only triggers it.
	start := time.Now()

	payload, err := h.Fetcher.Fetch(r.Context())
	elapsed := time.Since(start)

	if err != nil {
		if h.Metrics != nil {
			h.Metrics.RecordExchange("error", elapsed)
		}
		h.Log.WithError(err).Error("❌ Token exchange failed")
		writeJSONError(w, http.StatusBadGateway, "token exchange failed")
		return
	}

	if h.Metrics != nil {
		h.Metrics.RecordExchange("success", elapsed)
	}
	h.Log.WithField("duration", elapsed.String()).Info("🎫 Access token relayed")

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// writeJSONError writes an OAuth2-style JSON error document. The
// underlying error stays in the logs; callers only learn that the
// exchange failed.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
