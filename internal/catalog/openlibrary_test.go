package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpenLibraryTestAdapter(t *testing.T, handler http.HandlerFunc) *OpenLibraryAdapter {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	a := NewOpenLibraryAdapter()
	a.baseURL = server.URL
	a.rateLimiter = newRateLimiter(0)
	return a
}

func TestOpenLibrarySearchMapsFields(t *testing.T) {
	a := newOpenLibraryTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sicp", r.URL.Query().Get("q"))
		w.Write([]byte(`{
			"numFound": 1,
			"docs": [{
				"key": "/works/OL123W",
				"title": "Structure and Interpretation of Computer Programs",
				"author_name": ["Harold Abelson", "Gerald Jay Sussman"],
				"first_publish_year": 1985,
				"isbn": ["9780262510875"],
				"cover_i": 42,
				"publisher": ["MIT Press"],
				"subject": ["Lisp", "Programming", "CS", "Textbooks", "Classics", "Extra"],
				"has_fulltext": true,
				"public_scan_b": true,
				"ia": ["sicp00abel"]
			}]
		}`))
	})

	results, err := a.Search(context.Background(), "sicp", DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "/works/OL123W", r.ID)
	assert.Equal(t, []string{"Harold Abelson", "Gerald Jay Sussman"}, r.Authors)
	assert.Equal(t, "MIT Press", r.Publisher)
	assert.Equal(t, "1985", r.PublishedDate)
	assert.Equal(t, "9780262510875", r.ISBN)
	assert.Len(t, r.Categories, 5, "subjects capped at five")
	assert.Equal(t, "https://covers.openlibrary.org/b/id/42-M.jpg", r.Thumbnail)
	assert.Equal(t, "https://openlibrary.org/works/OL123W", r.PreviewLink)
	assert.True(t, r.IsFree)
	assert.Equal(t, "sicp00abel", r.IAID)
	assert.Equal(t, "https://archive.org/download/sicp00abel/sicp00abel.pdf", r.DownloadLink)
}

func TestOpenLibraryNoScanMeansNoDownload(t *testing.T) {
	a := newOpenLibraryTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"numFound": 1,
			"docs": [{
				"key": "/works/OL9W",
				"title": "Some Book",
				"has_fulltext": true
			}]
		}`))
	})

	results, err := a.Search(context.Background(), "some", DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].IsFree)
	assert.Empty(t, results[0].DownloadLink, "free without a scan id has no direct file")
	assert.False(t, results[0].PDFAvailable)
}

func TestOpenLibraryFreeOnlyDropsUnscanned(t *testing.T) {
	a := newOpenLibraryTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"numFound": 2,
			"docs": [
				{"key": "/works/OL1W", "title": "Closed Book"},
				{"key": "/works/OL2W", "title": "Open Book", "has_fulltext": true}
			]
		}`))
	})

	results, err := a.Search(context.Background(), "book", DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "/works/OL2W", results[0].ID)
}

func TestOpenLibraryRateLimiterSpacesCalls(t *testing.T) {
	limiter := newRateLimiter(50 * time.Millisecond)

	start := time.Now()
	limiter.wait()
	limiter.wait()
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
}
