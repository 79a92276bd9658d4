// Package fetcher retrieves raw HTML pages over HTTP.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/clipmark/article-extractor/models"
)

const (
	defaultTimeout = 30 * time.Second

	// A standard desktop user agent; many sites serve stripped-down or
	// blocked responses to unknown agents.
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// Fetcher performs plain HTTP GETs with no-store caching semantics.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
	}
}

// Get fetches the body of url. Non-2xx statuses are returned as FETCH_FAILED
// errors carrying the status code.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, models.WrapError(models.ErrInvalidURL, url, "failed to build request", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, models.WrapError(models.ErrTimeout, url, "request timed out", err)
		}
		return nil, models.WrapError(models.ErrFetchFailed, url, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, models.NewError(models.ErrFetchFailed, url,
			fmt.Sprintf("unexpected status code %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.WrapError(models.ErrFetchFailed, url, "failed to read response body", err)
	}
	return body, nil
}
