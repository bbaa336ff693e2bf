// Package catalog contains one adapter per external book source. Every
// adapter maps its source's native response into the common SearchResult
// shape; missing fields get fixed sentinels so callers never see absent
// titles or author lists.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mkawano/hondana/internal/entities"
)

const userAgent = "Hondana/1.0 (https://github.com/mkawano/hondana)"

const (
	unknownTitle  = "Unknown Title"
	unknownAuthor = "Unknown Author"
)

// Adapter is a single external catalog source.
type Adapter interface {
	Name() string
	Search(ctx context.Context, query string, opts Options) ([]entities.SearchResult, error)
}

// Options tune one search call. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	MaxResults int
	StartIndex int
	// Subject narrows Google Books results to one subject facet.
	Subject string
	// FreeOnly drops results the source cannot assert as free.
	FreeOnly bool
}

func DefaultOptions() Options {
	return Options{
		MaxResults: 20,
		Subject:    "computers",
		FreeOnly:   true,
	}
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// getJSON issues one GET and decodes the body into out. Non-2xx statuses
// are errors; the aggregator treats any error as zero results.
func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
