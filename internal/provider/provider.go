package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"market-mood/internal/domain"
)

// lookbackDays is the fixed history window requested from every upstream.
const lookbackDays = 180

// requestTimeout is the explicit per-request budget shared by all providers.
const requestTimeout = 15 * time.Second

// SeriesProvider fetches one upstream time series. Implementations perform
// exactly one outbound request per call and never retry; callers decide what
// a failure means.
type SeriesProvider interface {
	Kind() domain.SeriesKind
	Fetch(ctx context.Context) (domain.Series, error)
}

// fetchJSON issues a single GET and returns the body on a 2xx response.
func fetchJSON(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("upstream status %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
