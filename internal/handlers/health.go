package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"token-function/internal/config"
)

// HealthHandler manages health check requests
type HealthHandler struct {
	Configuration *config.Config
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(configuration *config.Config) *HealthHandler {
	return &HealthHandler{
		Configuration: configuration,
	}
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	upstreamHost := ""
	if u, err := url.Parse(h.Configuration.Upstream.TokenURL); err == nil {
		upstreamHost = u.Host
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := map[string]interface{}{
		"status":     "healthy",
		"timestamp":  time.Now().Unix(),
		"version":    Version,
		"git_commit": GitCommit,
		"build_time": BuildTime,
		"upstream":   upstreamHost,
	}

	json.NewEncoder(w).Encode(response)
}
