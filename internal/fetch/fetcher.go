// Package fetch downloads remote documents (name-day catalogs, vCard exports).
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/tartampluch/hellodays/internal/config"
)

// Request describes a single download.
type Request struct {
	URL    string
	User   string // HTTP Basic Auth, optional
	Pass   string
	Accept string // optional Accept header
}

// Fetcher retrieves a remote document as a stream.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (io.ReadCloser, error)
}

// HTTPFetcher implements Fetcher over net/http.
type HTTPFetcher struct {
	Client *http.Client
	// MaxBytes caps the body size; zero means config.MaxHTTPResponseSize.
	MaxBytes int64
}

// NewHTTPFetcher creates an HTTPFetcher with the default timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{Timeout: config.HTTPTimeout},
	}
}

// Fetch downloads req.URL. Only http and https are accepted; query strings are
// stripped from logs since they may carry tokens.
func (f *HTTPFetcher) Fetch(ctx context.Context, r Request) (io.ReadCloser, error) {
	u, err := url.Parse(r.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %q", config.ErrProtocol, u.Scheme)
	}

	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path),
	)
	log.DebugContext(ctx, config.MsgDownloadStart)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	if r.Accept != "" {
		req.Header.Set(config.HeaderAccept, r.Accept)
	}
	if r.User != "" || r.Pass != "" {
		req.SetBasicAuth(r.User, r.Pass)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn(config.MsgBadStatus, slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("%s: %s", config.ErrUnexpectedStatus, resp.Status)
	}

	log.Info(config.MsgDownloading, slog.Int64(config.LogKeyLength, resp.ContentLength))

	limit := f.MaxBytes
	if limit <= 0 {
		limit = config.MaxHTTPResponseSize
	}
	return limitedBody{Reader: io.LimitReader(resp.Body, limit), Closer: resp.Body}, nil
}

// limitedBody caps reads while still closing the underlying connection.
type limitedBody struct {
	io.Reader
	io.Closer
}
