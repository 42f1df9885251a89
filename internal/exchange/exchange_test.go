package exchange_test

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/jarcoal/httpmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"token-function/internal/config"
	"token-function/internal/exchange"
)

const (
	testTokenURL = "https://upstream.example.com/oauth2/token"
	testKey      = "app-key"
	testSecret   = "app-secret"
)

func setup(t *testing.T) *exchange.Exchanger {
	t.Helper()

	client := resty.New()

	// Enable http mocking on the resty client
	httpmock.ActivateNonDefault(client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)

	cfg := &config.Config{}
	cfg.Upstream.TokenURL = testTokenURL
	cfg.Credentials.Key = testKey
	cfg.Credentials.Secret = testSecret

	log := logrus.New()
	log.SetOutput(io.Discard)

	return exchange.NewWithClient(client, cfg, log)
}

func TestFetch(t *testing.T) {
	e := setup(t)

	payload := `{"access_token":"abc","expires_in":3600}`
	httpmock.RegisterResponder("POST", testTokenURL,
		httpmock.NewStringResponder(http.StatusOK, payload))

	got, err := e.Fetch(context.Background())
	require.NoError(t, err)
	require.JSONEq(t, payload, string(got))
}

func TestFetchRequestShape(t *testing.T) {
	e := setup(t)

	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte(testKey+":"+testSecret))

	httpmock.RegisterResponder("POST", testTokenURL, func(r *http.Request) (*http.Response, error) {
		require.Equal(t, wantAuth, r.Header.Get("Authorization"))
		require.Contains(t, r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Equal(t, "grant_type=client_credentials", string(body))

		return httpmock.NewStringResponse(http.StatusOK, `{"access_token":"abc"}`), nil
	})

	_, err := e.Fetch(context.Background())
	require.NoError(t, err)
}

func TestFetchMalformedPayload(t *testing.T) {
	e := setup(t)

	httpmock.RegisterResponder("POST", testTokenURL,
		httpmock.NewStringResponder(http.StatusOK, "<html>definitely not json</html>"))

	_, err := e.Fetch(context.Background())
	require.Error(t, err)
	require.ErrorContains(t, err, "malformed token payload")
}

func TestFetchUpstreamRejection(t *testing.T) {
	e := setup(t)

	httpmock.RegisterResponder("POST", testTokenURL,
		httpmock.NewStringResponder(http.StatusUnauthorized, `{"error":"invalid_client"}`))

	_, err := e.Fetch(context.Background())
	require.Error(t, err)
	require.ErrorContains(t, err, "status 401")
}

func TestFetchTransportError(t *testing.T) {
	e := setup(t)

	httpmock.RegisterResponder("POST", testTokenURL,
		httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := e.Fetch(context.Background())
	require.Error(t, err)
	require.ErrorContains(t, err, "token request failed")
}

func TestFetchConcurrent(t *testing.T) {
	e := setup(t)

	httpmock.RegisterResponder("POST", testTokenURL,
		httpmock.NewStringResponder(http.StatusOK, `{"access_token":"abc","expires_in":3600}`))

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.Fetch(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
	}
	require.Equal(t, n, httpmock.GetTotalCallCount())
}
