package reviews

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/reagent-systems/site-backend/internal/metrics"
)

const (
	DefaultTimeout = 10 * time.Second

	// maxBodyBytes caps the static document read into memory
	maxBodyBytes = 2 << 20

	upstreamTarget = "reviews"
)

// Source fetches the static reviews document and cleans it.
type Source struct {
	url        string
	httpClient *http.Client
}

func NewSource(url string, timeout time.Duration) *Source {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Source{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// List fetches the document, bypassing caches, and returns the cleaned reviews.
func (s *Source) List(ctx context.Context) ([]Review, error) {
	body, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(body)
}

func (s *Source) fetch(ctx context.Context) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamCall(upstreamTarget, time.Since(start), err)
		return nil, fmt.Errorf("fetch reviews: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		err := fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
		metrics.RecordUpstreamCall(upstreamTarget, time.Since(start), err)
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	metrics.RecordUpstreamCall(upstreamTarget, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("read reviews: %w", err)
	}
	return body, nil
}
