package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/go-resty/resty/v2"

	"github.com/memtensor/songbook/pkg/config"
	sberrors "github.com/memtensor/songbook/pkg/errors"
	"github.com/memtensor/songbook/pkg/interfaces"
)

// HTTPFetcher fetches pages over HTTP. It never retries; callers decide
// whether a failed fetch is worth repeating.
type HTTPFetcher struct {
	client  *resty.Client
	maxBody int64
}

// NewHTTPFetcher creates a fetcher from import settings
func NewHTTPFetcher(cfg config.ImportConfig) *HTTPFetcher {
	defaults := config.Default().Import
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}

	client := resty.New()
	client.SetTimeout(cfg.Timeout)
	client.SetRetryCount(0)
	client.SetHeader("Accept", "text/html")
	client.SetHeader("User-Agent", cfg.UserAgent)

	return &HTTPFetcher{client: client, maxBody: cfg.MaxBodyBytes}
}

// Fetch returns the body of url. Non-2xx responses fail with
// "Fetch failed: <status>"; transport errors carry their own message.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return "", sberrors.NewFetchError(url, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return "", sberrors.NewFetchStatusError(url, resp.StatusCode())
	}

	data, err := io.ReadAll(io.LimitReader(body, f.maxBody+1))
	if err != nil {
		return "", sberrors.NewFetchError(url, err)
	}
	if int64(len(data)) > f.maxBody {
		return "", sberrors.NewFetchError(url, fmt.Errorf("response body exceeds %d bytes", f.maxBody))
	}
	return string(data), nil
}

var _ interfaces.Fetcher = (*HTTPFetcher)(nil)
