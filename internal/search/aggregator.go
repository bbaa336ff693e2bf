// Package search fans a query out to every configured catalog adapter and
// merges the results into one ranked list.
package search

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mkawano/hondana/internal/catalog"
	"github.com/mkawano/hondana/internal/entities"
)

// Config tunes aggregation behavior.
type Config struct {
	// AllowedDomains restricts live-adapter download links to trusted
	// hostnames. Empty disables the filter. Curated results are exempt;
	// they are vetted by hand.
	AllowedDomains []string

	// AdapterTimeout bounds each adapter call so one hung source cannot
	// stall the whole search.
	AdapterTimeout time.Duration
}

// Aggregator merges results from the curated catalog and the live adapters.
// Adapter registration order establishes de-duplication precedence, with
// the curated catalog always first.
type Aggregator struct {
	curated  *catalog.CuratedCatalog
	adapters []catalog.Adapter
	cfg      Config
	logger   *zap.Logger
}

func NewAggregator(curated *catalog.CuratedCatalog, adapters []catalog.Adapter, cfg Config, logger *zap.Logger) *Aggregator {
	if cfg.AdapterTimeout <= 0 {
		cfg.AdapterTimeout = 10 * time.Second
	}
	return &Aggregator{
		curated:  curated,
		adapters: adapters,
		cfg:      cfg,
		logger:   logger,
	}
}

// SearchAll queries every adapter concurrently, waits for all of them to
// settle, then merges: curated first, live results in registration order,
// de-duplicated, filtered by the domain allowlist and sorted by relevance.
// A single adapter failing contributes zero results; an error is returned
// only when every source failed.
func (a *Aggregator) SearchAll(ctx context.Context, query string, opts catalog.Options) ([]entities.SearchResult, error) {
	curated := a.curated.Search(query)

	perAdapter := make([][]entities.SearchResult, len(a.adapters))
	failures := 0

	var wg sync.WaitGroup
	var mu sync.Mutex
	for i, ad := range a.adapters {
		wg.Add(1)
		go func(i int, ad catalog.Adapter) {
			defer wg.Done()

			adapterCtx, cancel := context.WithTimeout(ctx, a.cfg.AdapterTimeout)
			defer cancel()

			results, err := ad.Search(adapterCtx, query, opts)
			if err != nil {
				a.logger.Warn("catalog adapter failed",
					zap.String("adapter", ad.Name()),
					zap.String("query", query),
					zap.Error(err))
				mu.Lock()
				failures++
				mu.Unlock()
				return
			}
			perAdapter[i] = results
		}(i, ad)
	}
	wg.Wait()

	if failures == len(a.adapters) && len(curated) == 0 {
		return nil, fmt.Errorf("all %d catalog sources failed", len(a.adapters))
	}

	// Concatenate in registration order; completion order is irrelevant.
	all := make([]entities.SearchResult, 0, len(curated))
	all = append(all, curated...)
	for i, results := range perAdapter {
		name := a.adapters[i].Name()
		for _, r := range results {
			r.Source = name
			all = append(all, r)
		}
	}

	merged := dedupe(all)
	merged = a.filterAllowedDomains(merged)
	sortByRelevance(merged, query)
	return merged, nil
}

// dedupe keeps the first occurrence of each identity, so earlier sources
// win over later ones.
func dedupe(results []entities.SearchResult) []entities.SearchResult {
	seen := make(map[string]struct{}, len(results))
	out := results[:0:0]
	for _, r := range results {
		key := r.DedupKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

// filterAllowedDomains drops live results whose download link is missing,
// unparseable, or hosted outside the allowlist.
func (a *Aggregator) filterAllowedDomains(results []entities.SearchResult) []entities.SearchResult {
	if len(a.cfg.AllowedDomains) == 0 {
		return results
	}

	out := results[:0:0]
	for _, r := range results {
		if r.Source == catalog.CuratedSource {
			out = append(out, r)
			continue
		}
		if r.DownloadLink == "" {
			continue
		}
		u, err := url.Parse(r.DownloadLink)
		if err != nil || u.Hostname() == "" {
			a.logger.Debug("dropping result with invalid download link",
				zap.String("title", r.Title),
				zap.String("link", r.DownloadLink))
			continue
		}
		if !a.hostAllowed(u.Hostname()) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (a *Aggregator) hostAllowed(host string) bool {
	for _, domain := range a.cfg.AllowedDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// sortByRelevance orders descending by score, stable so ties preserve
// merge order (and therefore source precedence).
func sortByRelevance(results []entities.SearchResult, query string) {
	type scored struct {
		result entities.SearchResult
		score  float64
	}
	ranked := make([]scored, len(results))
	for i, r := range results {
		ranked[i] = scored{result: r, score: relevanceScore(r, query)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	for i, s := range ranked {
		results[i] = s.result
	}
}

// relevanceScore is the fixed heuristic: query hits in title, author and
// category, a bonus for downloadable and PDF-capable results, and a small
// popularity term.
func relevanceScore(r entities.SearchResult, query string) float64 {
	q := strings.ToLower(query)
	score := 0.0

	if strings.Contains(strings.ToLower(r.Title), q) {
		score += 10
	}
	for _, au := range r.Authors {
		if strings.Contains(strings.ToLower(au), q) {
			score += 5
			break
		}
	}
	for _, cat := range r.Categories {
		if strings.Contains(strings.ToLower(cat), q) {
			score += 3
			break
		}
	}
	if r.DownloadLink != "" {
		score += 5
	}
	if r.PDFAvailable {
		score += 5
	}
	score += r.Rating * float64(r.RatingsCount) / 100
	return score
}
