package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mkawano/hondana/internal/catalog"
	"github.com/mkawano/hondana/internal/entities"
)

type stubAdapter struct {
	name    string
	results []entities.SearchResult
	err     error
	delay   time.Duration
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Search(ctx context.Context, query string, opts catalog.Options) ([]entities.SearchResult, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func newTestAggregator(cfg Config, adapters ...catalog.Adapter) *Aggregator {
	return NewAggregator(catalog.NewCuratedCatalog(), adapters, cfg, zap.NewNop())
}

func TestSearchAllMergesAndTagsSource(t *testing.T) {
	first := &stubAdapter{name: "First", results: []entities.SearchResult{
		{ID: "a", Title: "Distributed Systems"},
	}}
	second := &stubAdapter{name: "Second", results: []entities.SearchResult{
		{ID: "b", Title: "Database Internals"},
	}}

	a := newTestAggregator(Config{}, first, second)

	results, err := a.SearchAll(context.Background(), "zzz-no-curated-match", catalog.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 2)

	sources := map[string]string{}
	for _, r := range results {
		sources[r.ID] = r.Source
	}
	assert.Equal(t, "First", sources["a"])
	assert.Equal(t, "Second", sources["b"])
}

func TestSearchAllDedupPrefersEarlierAdapter(t *testing.T) {
	first := &stubAdapter{name: "First", results: []entities.SearchResult{
		{ID: "f", Title: "Same Book", ISBN: "9780000000001"},
	}}
	second := &stubAdapter{name: "Second", results: []entities.SearchResult{
		{ID: "s", Title: "Same Book", ISBN: "9780000000001"},
	}}

	a := newTestAggregator(Config{}, first, second)

	results, err := a.SearchAll(context.Background(), "zzz-no-curated-match", catalog.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "f", results[0].ID)
	assert.Equal(t, "First", results[0].Source)
}

func TestSearchAllDedupByTitleAndFirstAuthor(t *testing.T) {
	first := &stubAdapter{name: "First", results: []entities.SearchResult{
		{ID: "f", Title: "No ISBN Book", Authors: []string{"Jane Doe"}},
	}}
	second := &stubAdapter{name: "Second", results: []entities.SearchResult{
		{ID: "s1", Title: "No ISBN Book", Authors: []string{"Jane Doe", "Other"}},
		{ID: "s2", Title: "No ISBN Book", Authors: []string{"Someone Else"}},
	}}

	a := newTestAggregator(Config{}, first, second)

	results, err := a.SearchAll(context.Background(), "zzz-no-curated-match", catalog.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 2, "same title with a different first author is a different book")

	ids := []string{results[0].ID, results[1].ID}
	assert.Contains(t, ids, "f")
	assert.Contains(t, ids, "s2")
}

func TestSearchAllCuratedWinsDedup(t *testing.T) {
	live := &stubAdapter{name: "Live", results: []entities.SearchResult{
		{ID: "dup", Title: "Pro Git (2nd Edition)", Authors: []string{"Scott Chacon", "Ben Straub"}},
	}}

	a := newTestAggregator(Config{}, live)

	results, err := a.SearchAll(context.Background(), "git", catalog.DefaultOptions())
	require.NoError(t, err)

	for _, r := range results {
		if r.Title == "Pro Git (2nd Edition)" {
			assert.Equal(t, catalog.CuratedSource, r.Source, "curated entry outranks the live duplicate")
			assert.NotEqual(t, "dup", r.ID)
		}
	}
}

func TestSearchAllSingleFailureIsTolerated(t *testing.T) {
	broken := &stubAdapter{name: "Broken", err: errors.New("upstream 500")}
	working := &stubAdapter{name: "Working", results: []entities.SearchResult{
		{ID: "ok", Title: "Still Here"},
	}}

	a := newTestAggregator(Config{}, broken, working)

	results, err := a.SearchAll(context.Background(), "zzz-no-curated-match", catalog.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ok", results[0].ID)
}

func TestSearchAllAllFailedNoCurated(t *testing.T) {
	a := newTestAggregator(Config{},
		&stubAdapter{name: "A", err: errors.New("down")},
		&stubAdapter{name: "B", err: errors.New("down")},
	)

	_, err := a.SearchAll(context.Background(), "zzz-no-curated-match", catalog.DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog sources failed")
}

func TestSearchAllAllFailedButCuratedMatches(t *testing.T) {
	a := newTestAggregator(Config{}, &stubAdapter{name: "A", err: errors.New("down")})

	results, err := a.SearchAll(context.Background(), "git", catalog.DefaultOptions())
	require.NoError(t, err, "curated results carry the search when every adapter fails")
	assert.NotEmpty(t, results)
}

func TestSearchAllAdapterTimeout(t *testing.T) {
	slow := &stubAdapter{name: "Slow", delay: time.Second, results: []entities.SearchResult{
		{ID: "late", Title: "Too Late"},
	}}
	fast := &stubAdapter{name: "Fast", results: []entities.SearchResult{
		{ID: "fast", Title: "On Time"},
	}}

	a := newTestAggregator(Config{AdapterTimeout: 20 * time.Millisecond}, slow, fast)

	results, err := a.SearchAll(context.Background(), "zzz-no-curated-match", catalog.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "fast", results[0].ID)
}

func TestDomainAllowlistDropsOffListLinks(t *testing.T) {
	live := &stubAdapter{name: "Live", results: []entities.SearchResult{
		{ID: "good", Title: "Allowed", DownloadLink: "https://archive.org/download/x/x.pdf"},
		{ID: "sub", Title: "Allowed Subdomain", DownloadLink: "https://files.archive.org/y.pdf"},
		{ID: "bad", Title: "Blocked", DownloadLink: "https://evil.example.com/z.pdf"},
		{ID: "none", Title: "No Link"},
	}}

	a := newTestAggregator(Config{AllowedDomains: []string{"archive.org"}}, live)

	results, err := a.SearchAll(context.Background(), "zzz-no-curated-match", catalog.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 2)

	ids := []string{results[0].ID, results[1].ID}
	assert.Contains(t, ids, "good")
	assert.Contains(t, ids, "sub")
}

func TestDomainAllowlistExemptsCurated(t *testing.T) {
	a := newTestAggregator(Config{AllowedDomains: []string{"nosuchdomain.example"}})

	results, err := a.SearchAll(context.Background(), "git", catalog.DefaultOptions())
	require.NoError(t, err)
	assert.NotEmpty(t, results, "curated links bypass the allowlist")
}

func TestRelevanceScoring(t *testing.T) {
	titleHit := entities.SearchResult{Title: "Rust in Action"}
	miss := entities.SearchResult{Title: "Unrelated"}

	assert.Greater(t, relevanceScore(titleHit, "rust"), relevanceScore(miss, "rust"))

	withLink := titleHit
	withLink.DownloadLink = "https://example.org/b.pdf"
	assert.Equal(t, relevanceScore(titleHit, "rust")+5, relevanceScore(withLink, "rust"))

	withPDF := withLink
	withPDF.PDFAvailable = true
	assert.Equal(t, relevanceScore(withLink, "rust")+5, relevanceScore(withPDF, "rust"))

	popular := withPDF
	popular.Rating = 4.0
	popular.RatingsCount = 200
	assert.Equal(t, relevanceScore(withPDF, "rust")+8, relevanceScore(popular, "rust"))
}

func TestSearchAllSortsByRelevance(t *testing.T) {
	live := &stubAdapter{name: "Live", results: []entities.SearchResult{
		{ID: "weak", Title: "Unrelated Tome"},
		{ID: "strong", Title: "Compilers Explained", PDFAvailable: true,
			DownloadLink: "https://example.org/c.pdf"},
	}}

	a := newTestAggregator(Config{}, live)

	results, err := a.SearchAll(context.Background(), "compilers", catalog.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "strong", results[0].ID)
}
