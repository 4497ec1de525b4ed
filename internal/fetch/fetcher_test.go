package fetch_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/hellodays/internal/config"
	"github.com/tartampluch/hellodays/internal/fetch"
)

// TestHTTPFetcher_Fetch_Success checks headers (User-Agent, Accept, Basic Auth) and body integrity.
func TestHTTPFetcher_Fetch_Success(t *testing.T) {
	expectedBody := `{"January":{"1":{"Hungary":["Fruzsina"]}}}`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok, "Basic auth header should be present")
		assert.Equal(t, "alice", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, config.UserAgent, r.Header.Get(config.HeaderUserAgent))
		assert.Equal(t, "application/json", r.Header.Get(config.HeaderAccept))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(expectedBody))
	}))
	defer ts.Close()

	rc, err := fetch.NewHTTPFetcher().Fetch(context.Background(), fetch.Request{
		URL:    ts.URL,
		User:   "alice",
		Pass:   "secret",
		Accept: "application/json",
	})
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, expectedBody, string(body))
}

func TestHTTPFetcher_Fetch_NoAuthWhenEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _, ok := r.BasicAuth()
		assert.False(t, ok)
		_, _ = w.Write([]byte("ok"))
	}))
	defer ts.Close()

	rc, err := fetch.NewHTTPFetcher().Fetch(context.Background(), fetch.Request{URL: ts.URL})
	require.NoError(t, err)
	_ = rc.Close()
}

func TestHTTPFetcher_Fetch_SizeLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("0123456789"))
	}))
	defer ts.Close()

	f := fetch.NewHTTPFetcher()
	f.MaxBytes = 4

	rc, err := f.Fetch(context.Background(), fetch.Request{URL: ts.URL})
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "0123", string(body))
}

func TestHTTPFetcher_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    string
	}{
		{"NotFound", http.StatusNotFound, "404"},
		{"ServerError", http.StatusInternalServerError, "500"},
		{"Unauthorized", http.StatusUnauthorized, "401"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer ts.Close()

			rc, err := fetch.NewHTTPFetcher().Fetch(context.Background(), fetch.Request{URL: ts.URL})

			require.Error(t, err)
			assert.Nil(t, rc)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), config.ErrUnexpectedStatus)
		})
	}
}

func TestHTTPFetcher_Fetch_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := fetch.NewHTTPFetcher().Fetch(ctx, fetch.Request{URL: ts.URL})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHTTPFetcher_Fetch_InvalidURL(t *testing.T) {
	_, err := fetch.NewHTTPFetcher().Fetch(context.Background(), fetch.Request{URL: string([]byte{0x7f})})

	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrInvalidURL)
}

func TestHTTPFetcher_Fetch_ProtocolSecurity(t *testing.T) {
	_, err := fetch.NewHTTPFetcher().Fetch(context.Background(), fetch.Request{URL: "ftp://example.com/namedays.json"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrProtocol)
}
