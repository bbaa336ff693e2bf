package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkawano/hondana/internal/catalog"
	"github.com/mkawano/hondana/internal/entities"
)

type fakeSearcher struct {
	results []entities.SearchResult
	err     error
	gotOpts catalog.Options
}

func (f *fakeSearcher) SearchAll(ctx context.Context, query string, opts catalog.Options) ([]entities.SearchResult, error) {
	f.gotOpts = opts
	return f.results, f.err
}

func TestSearchEndpoint(t *testing.T) {
	searcher := &fakeSearcher{results: []entities.SearchResult{
		{ID: "1", Title: "Pro Git", Source: "Curated Free PDFs", IsFree: true},
	}}
	router := NewRouter(RouterConfig{
		Library:        newLibraryManager(t),
		Searcher:       searcher,
		SearchDefaults: catalog.DefaultOptions(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/search?q=git&maxResults=5&freeOnly=false", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, searcher.gotOpts.MaxResults)
	assert.False(t, searcher.gotOpts.FreeOnly)

	var resp struct {
		Query   string                  `json:"query"`
		Results []entities.SearchResult `json:"results"`
		Count   int                     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "git", resp.Query)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Pro Git", resp.Results[0].Title)
}

func TestSearchEndpoint_MissingQuery(t *testing.T) {
	router := NewRouter(RouterConfig{
		Library:        newLibraryManager(t),
		Searcher:       &fakeSearcher{},
		SearchDefaults: catalog.DefaultOptions(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/search", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchEndpoint_AllSourcesDown(t *testing.T) {
	router := NewRouter(RouterConfig{
		Library:        newLibraryManager(t),
		Searcher:       &fakeSearcher{err: errors.New("boom")},
		SearchDefaults: catalog.DefaultOptions(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/search?q=git", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestTopicsEndpoint(t *testing.T) {
	router := NewRouter(RouterConfig{
		Library:        newLibraryManager(t),
		Searcher:       &fakeSearcher{},
		SearchDefaults: catalog.DefaultOptions(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/search/topics", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Topics []catalog.Topic `json:"topics"`
		Count  int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Topics)
	assert.Equal(t, len(resp.Topics), resp.Count)
}
