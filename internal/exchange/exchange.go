package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"token-function/internal/config"
)

// Exchanger performs the client_credentials exchange against the
// upstream token endpoint. It is safe for concurrent use; every Fetch
// is one independent upstream round trip.
type Exchanger struct {
	client   *resty.Client
	tokenURL string
	log      *logrus.Logger
}

// New creates an Exchanger from the configuration. The underlying
// resty client carries the Basic auth credentials and the upstream
// timeout for the lifetime of the process.
func New(cfg *config.Config, log *logrus.Logger) *Exchanger {
	client := resty.New().
		SetTimeout(time.Duration(cfg.Upstream.Timeout) * time.Second)

	return NewWithClient(client, cfg, log)
}

// NewWithClient creates an Exchanger with a caller-supplied resty
// client. Used by tests to install a mock transport.
func NewWithClient(client *resty.Client, cfg *config.Config, log *logrus.Logger) *Exchanger {
	client.SetBasicAuth(cfg.Credentials.Key, cfg.Credentials.Secret)
	return &Exchanger{
		client:   client,
		tokenURL: cfg.Upstream.TokenURL,
		log:      log,
	}
}

// Fetch performs exactly one token request: POST with
// grant_type=client_credentials, Basic auth from the configured
// key/secret. The upstream JSON payload is returned untouched; any
// transport error, non-2xx status or non-JSON body fails the call.
// No retries.
func (e *Exchanger) Fetch(ctx context.Context) (json.RawMessage, error) {
	e.log.WithField("token_url", e.tokenURL).Debug("🎫 Requesting access token from upstream")

	resp, err := e.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		Post(e.tokenURL)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("upstream rejected token request: status %d", resp.StatusCode())
	}

	body := resp.Body()
	var probe any
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("upstream returned malformed token payload: %w", err)
	}

	e.log.WithFields(logrus.Fields{
		"status":   resp.StatusCode(),
		"duration": resp.Time().String(),
	}).Debug("✅ Access token retrieved")

	// Pass the payload through untouched; its shape belongs to the
	// upstream contract, not to this function.
	return json.RawMessage(body), nil
}
