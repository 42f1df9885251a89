package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"token-function/internal/config"
)

func TestHealth(t *testing.T) {
	cfg := &config.Config{}
	cfg.Upstream.TokenURL = "https://upstream.example.com/oauth2/token"

	h := NewHealthHandler(cfg)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("health response is not JSON: %v", err)
	}
	if body["status"] != "healthy" {
		t.Fatalf("expected healthy status, got %v", body["status"])
	}
	if body["upstream"] != "upstream.example.com" {
		t.Fatalf("expected upstream host, got %v", body["upstream"])
	}
}

func TestVersion(t *testing.T) {
	h := NewVersionHandler()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var info VersionInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("version response is not JSON: %v", err)
	}
	if info.Server != "Access Token Function" {
		t.Fatalf("unexpected server name: %q", info.Server)
	}
}
